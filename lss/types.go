package lss

import "fmt"

// LedColor selects the servo status LED color.
type LedColor int32

const (
	LedOff LedColor = iota
	LedRed
	LedGreen
	LedBlue
	LedYellow
	LedCyan
	LedMagenta
	LedWhite
)

var ledColorNames = [...]string{
	"off", "red", "green", "blue", "yellow", "cyan", "magenta", "white",
}

func (c LedColor) String() string {
	if c >= 0 && int(c) < len(ledColorNames) {
		return ledColorNames[c]
	}
	return fmt.Sprintf("LedColor(%d)", int32(c))
}

// LedColorFromValue converts a raw reply value to a LedColor.
func LedColorFromValue(v int32) (LedColor, error) {
	if v < int32(LedOff) || v > int32(LedWhite) {
		return LedOff, fmt.Errorf("unknown LED color value: %d", v)
	}
	return LedColor(v), nil
}

// MotorStatus describes what the motor is doing right now.
type MotorStatus int32

const (
	StatusUnknown MotorStatus = iota
	StatusLimp
	StatusFreeMoving
	StatusAccelerating
	StatusTraveling
	StatusDecelerating
	StatusHolding
	StatusOutsideLimits
	StatusStuck
	StatusBlocked
	// StatusSafeMode means the servo tripped a protection limit;
	// query the safety status for the cause.
	StatusSafeMode
)

var motorStatusNames = [...]string{
	"unknown", "limp", "free moving", "accelerating", "traveling",
	"decelerating", "holding", "outside limits", "stuck", "blocked",
	"safe mode",
}

func (s MotorStatus) String() string {
	if s >= 0 && int(s) < len(motorStatusNames) {
		return motorStatusNames[s]
	}
	return fmt.Sprintf("MotorStatus(%d)", int32(s))
}

// MotorStatusFromValue converts a raw reply value to a MotorStatus.
func MotorStatusFromValue(v int32) (MotorStatus, error) {
	if v < int32(StatusUnknown) || v > int32(StatusSafeMode) {
		return StatusUnknown, fmt.Errorf("unknown motor status value: %d", v)
	}
	return MotorStatus(v), nil
}

// SafeModeStatus explains why a servo entered safe mode.
type SafeModeStatus int32

const (
	SafeNoLimits SafeModeStatus = iota
	SafeCurrentLimit
	SafeInputVoltageOutOfRange
	SafeTemperatureLimit
)

var safeModeStatusNames = [...]string{
	"no limits", "current limit", "input voltage out of range",
	"temperature limit",
}

func (s SafeModeStatus) String() string {
	if s >= 0 && int(s) < len(safeModeStatusNames) {
		return safeModeStatusNames[s]
	}
	return fmt.Sprintf("SafeModeStatus(%d)", int32(s))
}

// SafeModeStatusFromValue converts a raw reply value to a SafeModeStatus.
func SafeModeStatusFromValue(v int32) (SafeModeStatus, error) {
	if v < int32(SafeNoLimits) || v > int32(SafeTemperatureLimit) {
		return SafeNoLimits, fmt.Errorf("unknown safe mode status value: %d", v)
	}
	return SafeModeStatus(v), nil
}

// LedBlinking selects which motor states blink the LED. Values combine
// with bitwise OR.
type LedBlinking int32

const (
	BlinkNone         LedBlinking = 0
	BlinkLimp         LedBlinking = 1
	BlinkHolding      LedBlinking = 2
	BlinkAccelerating LedBlinking = 4
	BlinkDecelerating LedBlinking = 8
	BlinkFree         LedBlinking = 16
	BlinkTraveling    LedBlinking = 32
	BlinkAlways       LedBlinking = 63
)
