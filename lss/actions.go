package lss

// Action is a short alphabetic protocol code naming an operation or a
// telemetry field. The codec treats actions as opaque strings; the
// constants below are the catalogue this package's facade speaks.
type Action string

// Telemetry and configuration queries. Each expects a Value reply in the
// raw unit noted; the Servo facade converts to engineering units.
const (
	ActQueryPosition      Action = "QD"  // tenths of a degree
	ActQueryMaxSpeed      Action = "QSD" // tenths of a degree per second
	ActQueryVoltage       Action = "QV"  // millivolts
	ActQueryTemperature   Action = "QT"  // tenths of a degree Celsius
	ActQueryCurrent       Action = "QC"  // milliamps
	ActQueryStatus        Action = "QST" // MotorStatus value
	ActQuerySafetyStatus  Action = "QSS" // SafeModeStatus value
	ActQueryLEDColor      Action = "QLC" // LedColor value
	ActQueryMotionProfile Action = "QEM" // 0 or 1
	ActQueryFilterCount   Action = "QFC" // samples
	ActQueryStiffness     Action = "QAS" // -10..10
	ActQueryHoldStiffness Action = "QAH" // -10..10
	ActQueryAngularRange  Action = "QAR" // tenths of a degree
	ActQueryOriginOffset  Action = "QO"  // tenths of a degree
	ActQueryMaxDuty       Action = "QMD" // duty cycle limit
	ActQueryID            Action = "QID" // servo address
	ActQueryBaudRate      Action = "QB"  // baud
)

// Motion and configuration writes. Each carries a value and expects an
// acknowledgement.
const (
	ActMove          Action = "MD"  // tenths of a degree
	ActWheelSpeed    Action = "WD"  // tenths of a degree per second
	ActWheelSpeedRPM Action = "WR"  // rpm
	ActMaxSpeed      Action = "SD"  // tenths of a degree per second
	ActLEDColor      Action = "LED" // LedColor value
	ActLEDBlinking   Action = "CLB" // LedBlinking bitmask
	ActMotionProfile Action = "EM"  // 0 disables, 1 enables
	ActFilterCount   Action = "FPC" // samples
	ActStiffness     Action = "AS"  // -10..10
	ActHoldStiffness Action = "AH"  // -10..10
	ActAngularRange  Action = "AR"  // tenths of a degree
	ActOriginOffset  Action = "CO"  // tenths of a degree
	ActMaxDuty       Action = "MMD" // duty cycle limit
	ActConfigureID   Action = "CID" // new servo address
	ActConfigureBaud Action = "CB"  // baud
)

// Parameterless actions. Each expects an acknowledgement.
const (
	ActLimp  Action = "LP"
	ActHold  Action = "HH"
	ActReset Action = "RST"
)

// BaudRates lists the line speeds LSS servos support, in ascending order.
var BaudRates = []int32{
	9600,
	19200,
	38400,
	57600,
	115200,
	230400,
	460800,
	500000,
}

// ValidBaudRate reports whether baud is a supported line speed.
func ValidBaudRate(baud int32) bool {
	for _, rate := range BaudRates {
		if rate == baud {
			return true
		}
	}
	return false
}
