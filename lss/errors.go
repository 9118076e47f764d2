package lss

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	ErrTimeout          = errors.New("no reply before deadline")
	ErrBusClosed        = errors.New("bus is closed")
	ErrConnectionLost   = errors.New("connection lost")
	ErrProtocolMismatch = errors.New("reply shape does not match command")
	ErrMalformedFrame   = errors.New("malformed frame")
	ErrFrameTooLong     = errors.New("frame exceeds length bound")
	ErrInvalidAddress   = errors.New("invalid servo address")
	ErrInvalidAction    = errors.New("invalid action code")
)

// CommandError reports a failed submit, retaining the command identity.
type CommandError struct {
	Addr   int    // Addressed servo, or BroadcastAddr
	Action Action // Action code of the failed command
	Err    error  // Underlying error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s to servo %d failed: %v", e.Action, e.Addr, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// IsTimeout reports whether err is a reply deadline expiry.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsFatal reports whether the bus must be rebuilt over a fresh transport
// before further use. Timeouts and protocol mismatches are not fatal.
func IsFatal(err error) bool {
	return errors.Is(err, ErrConnectionLost) || errors.Is(err, ErrBusClosed)
}

// GetCommandError extracts a CommandError from an error chain, if present.
func GetCommandError(err error) (*CommandError, bool) {
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr, true
	}
	return nil, false
}
