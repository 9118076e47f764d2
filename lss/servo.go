package lss

import (
	"context"
	"fmt"
	"math"
)

// Servo provides a high-level interface for controlling a single servo.
// It is a stateless translation layer: semantic calls become commands,
// raw reply values become engineering units, and bus errors pass through
// unchanged.
type Servo struct {
	bus  *Bus
	addr int
}

// NewServo binds a servo address on the bus. Use NewBroadcast to address
// every servo at once.
func NewServo(bus *Bus, addr int) (*Servo, error) {
	if addr < 0 || addr > MaxAddr {
		return nil, fmt.Errorf("%w: %d (valid range: 0-%d)", ErrInvalidAddress, addr, MaxAddr)
	}
	return &Servo{bus: bus, addr: addr}, nil
}

// Addr returns the servo's bus address.
func (s *Servo) Addr() int {
	return s.addr
}

// Motion

// Position reads the current position in degrees.
func (s *Servo) Position(ctx context.Context) (float64, error) {
	v, err := s.query(ctx, ActQueryPosition)
	if err != nil {
		return 0, err
	}
	return float64(v) / 10.0, nil
}

// MoveTo commands the servo to move to the given position in degrees.
func (s *Servo) MoveTo(ctx context.Context, degrees float64) error {
	return s.set(ctx, ActMove, tenths(degrees))
}

// MoveToWith commands a move constrained by the given modifiers, such as
// SpeedDegrees or Timed.
func (s *Servo) MoveToWith(ctx context.Context, degrees float64, mods ...Modifier) error {
	cmd := SetValue(s.addr, ActMove, tenths(degrees)).WithModifiers(mods...)
	_, err := s.bus.Submit(ctx, cmd, 0)
	return err
}

// SetWheelSpeed spins the servo continuously at the given speed in
// degrees per second. Negative values reverse direction.
func (s *Servo) SetWheelSpeed(ctx context.Context, degreesPerSecond float64) error {
	return s.set(ctx, ActWheelSpeed, tenths(degreesPerSecond))
}

// SetWheelSpeedRPM spins the servo continuously at the given speed in
// revolutions per minute.
func (s *Servo) SetWheelSpeedRPM(ctx context.Context, rpm int32) error {
	return s.set(ctx, ActWheelSpeedRPM, rpm)
}

// Limp releases the motor so it can be moved by hand.
func (s *Servo) Limp(ctx context.Context) error {
	return s.fire(ctx, ActLimp)
}

// Hold stops the motor and holds the current position.
func (s *Servo) Hold(ctx context.Context) error {
	return s.fire(ctx, ActHold)
}

// Reset reboots the servo. The servo acknowledges before restarting and
// is unreachable until it comes back up.
func (s *Servo) Reset(ctx context.Context) error {
	return s.fire(ctx, ActReset)
}

// Telemetry

// Voltage reads the input voltage in volts.
func (s *Servo) Voltage(ctx context.Context) (float64, error) {
	v, err := s.query(ctx, ActQueryVoltage)
	if err != nil {
		return 0, err
	}
	return float64(v) / 1000.0, nil
}

// Temperature reads the controller temperature in degrees Celsius.
func (s *Servo) Temperature(ctx context.Context) (float64, error) {
	v, err := s.query(ctx, ActQueryTemperature)
	if err != nil {
		return 0, err
	}
	return float64(v) / 10.0, nil
}

// Current reads the motor current draw in amps.
func (s *Servo) Current(ctx context.Context) (float64, error) {
	v, err := s.query(ctx, ActQueryCurrent)
	if err != nil {
		return 0, err
	}
	return float64(v) / 1000.0, nil
}

// Status reads what the motor is doing right now.
func (s *Servo) Status(ctx context.Context) (MotorStatus, error) {
	v, err := s.query(ctx, ActQueryStatus)
	if err != nil {
		return StatusUnknown, err
	}
	return MotorStatusFromValue(v)
}

// SafetyStatus reads why the servo entered safe mode, if it did.
func (s *Servo) SafetyStatus(ctx context.Context) (SafeModeStatus, error) {
	v, err := s.query(ctx, ActQuerySafetyStatus)
	if err != nil {
		return SafeNoLimits, err
	}
	return SafeModeStatusFromValue(v)
}

// LED

// LEDColor reads the status LED color.
func (s *Servo) LEDColor(ctx context.Context) (LedColor, error) {
	v, err := s.query(ctx, ActQueryLEDColor)
	if err != nil {
		return LedOff, err
	}
	return LedColorFromValue(v)
}

// SetLEDColor sets the status LED color.
func (s *Servo) SetLEDColor(ctx context.Context, color LedColor) error {
	if color < LedOff || color > LedWhite {
		return fmt.Errorf("invalid LED color: %d", color)
	}
	return s.set(ctx, ActLEDColor, int32(color))
}

// SetLEDBlinking selects which motor states blink the LED. Modes combine
// with bitwise OR; BlinkNone alone disables blinking.
func (s *Servo) SetLEDBlinking(ctx context.Context, modes ...LedBlinking) error {
	var mask LedBlinking
	for _, m := range modes {
		mask |= m
	}
	if mask&^BlinkAlways != 0 {
		return fmt.Errorf("invalid LED blinking mask: %d", mask)
	}
	return s.set(ctx, ActLEDBlinking, int32(mask))
}

// Motion profile and compliance

// MotionProfileEnabled reads whether the motion profile (trapezoidal
// acceleration) is active.
func (s *Servo) MotionProfileEnabled(ctx context.Context) (bool, error) {
	v, err := s.query(ctx, ActQueryMotionProfile)
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

// SetMotionProfile enables or disables the motion profile. With the
// profile off, filter position count governs smoothing.
func (s *Servo) SetMotionProfile(ctx context.Context, enabled bool) error {
	var v int32
	if enabled {
		v = 1
	}
	return s.set(ctx, ActMotionProfile, v)
}

// FilterPositionCount reads the position filter depth in samples.
func (s *Servo) FilterPositionCount(ctx context.Context) (int32, error) {
	return s.query(ctx, ActQueryFilterCount)
}

// SetFilterPositionCount sets the position filter depth in samples.
func (s *Servo) SetFilterPositionCount(ctx context.Context, count int32) error {
	return s.set(ctx, ActFilterCount, count)
}

// AngularStiffness reads the angular stiffness (-10..10).
func (s *Servo) AngularStiffness(ctx context.Context) (int32, error) {
	return s.query(ctx, ActQueryStiffness)
}

// SetAngularStiffness sets the angular stiffness (-10..10).
func (s *Servo) SetAngularStiffness(ctx context.Context, value int32) error {
	return s.set(ctx, ActStiffness, value)
}

// AngularHoldingStiffness reads the holding stiffness (-10..10).
func (s *Servo) AngularHoldingStiffness(ctx context.Context) (int32, error) {
	return s.query(ctx, ActQueryHoldStiffness)
}

// SetAngularHoldingStiffness sets the holding stiffness (-10..10).
func (s *Servo) SetAngularHoldingStiffness(ctx context.Context, value int32) error {
	return s.set(ctx, ActHoldStiffness, value)
}

// Limits and calibration

// MaxSpeed reads the speed limit in degrees per second.
func (s *Servo) MaxSpeed(ctx context.Context) (float64, error) {
	v, err := s.query(ctx, ActQueryMaxSpeed)
	if err != nil {
		return 0, err
	}
	return float64(v) / 10.0, nil
}

// SetMaxSpeed sets the speed limit in degrees per second.
func (s *Servo) SetMaxSpeed(ctx context.Context, degreesPerSecond float64) error {
	return s.set(ctx, ActMaxSpeed, tenths(degreesPerSecond))
}

// AngularRange reads the allowed travel range in degrees.
func (s *Servo) AngularRange(ctx context.Context) (float64, error) {
	v, err := s.query(ctx, ActQueryAngularRange)
	if err != nil {
		return 0, err
	}
	return float64(v) / 10.0, nil
}

// SetAngularRange limits travel to the given range in degrees, centered
// on the origin.
func (s *Servo) SetAngularRange(ctx context.Context, degrees float64) error {
	return s.set(ctx, ActAngularRange, tenths(degrees))
}

// OriginOffset reads the origin offset in degrees.
func (s *Servo) OriginOffset(ctx context.Context) (float64, error) {
	v, err := s.query(ctx, ActQueryOriginOffset)
	if err != nil {
		return 0, err
	}
	return float64(v) / 10.0, nil
}

// SetOriginOffset shifts the zero position by the given offset in degrees.
func (s *Servo) SetOriginOffset(ctx context.Context, degrees float64) error {
	return s.set(ctx, ActOriginOffset, tenths(degrees))
}

// MaxDuty reads the motor duty cycle limit.
func (s *Servo) MaxDuty(ctx context.Context) (int32, error) {
	return s.query(ctx, ActQueryMaxDuty)
}

// SetMaxDuty sets the motor duty cycle limit.
func (s *Servo) SetMaxDuty(ctx context.Context, duty int32) error {
	return s.set(ctx, ActMaxDuty, duty)
}

// Identity

// ID asks the servo to report its own address.
func (s *Servo) ID(ctx context.Context) (int32, error) {
	return s.query(ctx, ActQueryID)
}

// ConfigureID changes the servo's address. The servo object is updated
// with the new address on success.
func (s *Servo) ConfigureID(ctx context.Context, newAddr int) error {
	if newAddr < 0 || newAddr > MaxAddr {
		return fmt.Errorf("%w: %d (valid range: 0-%d)", ErrInvalidAddress, newAddr, MaxAddr)
	}
	if err := s.set(ctx, ActConfigureID, int32(newAddr)); err != nil {
		return err
	}
	s.addr = newAddr
	return nil
}

// BaudRate reads the configured line speed.
func (s *Servo) BaudRate(ctx context.Context) (int32, error) {
	return s.query(ctx, ActQueryBaudRate)
}

// ConfigureBaudRate changes the servo's line speed. The new speed takes
// effect after the servo resets; the bus itself must then be rebuilt on
// a transport opened at the new speed.
func (s *Servo) ConfigureBaudRate(ctx context.Context, baud int32) error {
	if !ValidBaudRate(baud) {
		return fmt.Errorf("baud rate %d not supported", baud)
	}
	return s.set(ctx, ActConfigureBaud, baud)
}

// Raw access

// Query submits an arbitrary catalogue query and returns the raw value.
func (s *Servo) Query(ctx context.Context, action Action) (int32, error) {
	return s.query(ctx, action)
}

// Set submits an arbitrary catalogue write with a raw value.
func (s *Servo) Set(ctx context.Context, action Action, value int32) error {
	return s.set(ctx, action, value)
}

func (s *Servo) query(ctx context.Context, action Action) (int32, error) {
	r, err := s.bus.Submit(ctx, Query(s.addr, action), 0)
	if err != nil {
		return 0, err
	}
	return r.Value, nil
}

func (s *Servo) set(ctx context.Context, action Action, value int32) error {
	_, err := s.bus.Submit(ctx, SetValue(s.addr, action, value), 0)
	return err
}

func (s *Servo) fire(ctx context.Context, action Action) error {
	_, err := s.bus.Submit(ctx, Fire(s.addr, action), 0)
	return err
}

// tenths converts degrees (or degrees per second) to the wire's
// tenth-unit integers, rounding half away from zero.
func tenths(v float64) int32 {
	return int32(math.Round(v * 10))
}
