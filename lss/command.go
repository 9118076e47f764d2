package lss

import "strconv"

// CommandKind distinguishes the reply shape a command expects.
type CommandKind int

const (
	// CmdQuery reads a value back; the reply must carry one.
	CmdQuery CommandKind = iota
	// CmdSetValue writes a value; the device acknowledges.
	CmdSetValue
	// CmdFire triggers an action with no parameter; the device acknowledges.
	CmdFire
)

// Command is one outbound request: an address, an action code and, for
// SetValue commands, a signed parameter. Optional modifiers are appended
// to the encoded frame; replies never carry them.
type Command struct {
	Kind      CommandKind
	Addr      int
	Action    Action
	Value     int32 // meaningful only for CmdSetValue
	Modifiers []Modifier
}

// Query builds a command that reads the field identified by action.
func Query(addr int, action Action) Command {
	return Command{Kind: CmdQuery, Addr: addr, Action: action}
}

// SetValue builds a command that writes value to the field identified
// by action.
func SetValue(addr int, action Action, value int32) Command {
	return Command{Kind: CmdSetValue, Addr: addr, Action: action, Value: value}
}

// Fire builds a parameterless action command.
func Fire(addr int, action Action) Command {
	return Command{Kind: CmdFire, Addr: addr, Action: action}
}

// WithModifiers returns a copy of c with mods appended. The receiver's
// modifier slice is never shared with the copy.
func (c Command) WithModifiers(mods ...Modifier) Command {
	combined := make([]Modifier, 0, len(c.Modifiers)+len(mods))
	combined = append(combined, c.Modifiers...)
	combined = append(combined, mods...)
	c.Modifiers = combined
	return c
}

// ExpectsReply reports whether a reply should be awaited for this
// command. Broadcast frames are fire-and-forget: every device acts,
// none replies.
func (c Command) ExpectsReply() bool {
	return c.Addr != BroadcastAddr
}

// String renders the command in wire form without the terminator,
// for logs and diagnostics.
func (c Command) String() string {
	s := "#" + strconv.Itoa(c.Addr) + string(c.Action)
	if c.Kind == CmdSetValue {
		s += strconv.FormatInt(int64(c.Value), 10)
	}
	for _, m := range c.Modifiers {
		s += m.Code + strconv.FormatInt(int64(m.Value), 10)
	}
	return s
}

// Modifier is an encode-only suffix appended to motion commands, such
// as a speed or travel-time constraint.
type Modifier struct {
	Code  string
	Value int32
}

// Speed constrains a move to the given speed in microseconds per second.
func Speed(microsecondsPerSecond int32) Modifier {
	return Modifier{Code: "S", Value: microsecondsPerSecond}
}

// SpeedDegrees constrains a move to the given speed in degrees per second.
func SpeedDegrees(degreesPerSecond int32) Modifier {
	return Modifier{Code: "SD", Value: degreesPerSecond}
}

// Timed stretches a move over the given duration in milliseconds.
func Timed(milliseconds int32) Modifier {
	return Modifier{Code: "T", Value: milliseconds}
}

// CurrentHold holds position until the current exceeds the given limit
// in milliamps.
func CurrentHold(milliamps int32) Modifier {
	return Modifier{Code: "CH", Value: milliamps}
}

// CurrentLimp goes limp once the current exceeds the given limit in
// milliamps.
func CurrentLimp(milliamps int32) Modifier {
	return Modifier{Code: "CL", Value: milliamps}
}

// CustomModifier builds a modifier with an arbitrary code, for protocol
// extensions this package does not name.
func CustomModifier(code string, value int32) Modifier {
	return Modifier{Code: code, Value: value}
}
