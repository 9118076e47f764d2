// Package lss provides a Go driver for Lynxmotion Smart Servo (LSS) buses.
package lss

import (
	"fmt"
	"math"
	"strconv"
)

// Wire format bytes.
const (
	FrameStart byte = '#'
	FrameEnd   byte = '\r'
)

// Special address values.
const (
	// BroadcastAddr addresses every servo on the bus. Broadcast frames
	// produce no reply.
	BroadcastAddr = 254
	MaxAddr       = 253
)

// Action code length limits. Codes are plain ASCII letters; the codec
// checks lexical shape only, never meaning.
const (
	minActionLen = 2
	maxActionLen = 3
)

// EncodeCommand renders cmd as a complete wire frame:
// '#' + decimal address + action code + optional signed value +
// modifier suffixes + CR.
func EncodeCommand(cmd Command) ([]byte, error) {
	return AppendFrame(nil, cmd)
}

// AppendFrame appends cmd's wire frame to dst and returns the extended
// slice. Encoding is total for valid commands: the only failures are an
// out-of-range address or a lexically invalid action or modifier code.
func AppendFrame(dst []byte, cmd Command) ([]byte, error) {
	if cmd.Addr < 0 || cmd.Addr > BroadcastAddr {
		return nil, fmt.Errorf("%w: %d (valid range: 0-%d)", ErrInvalidAddress, cmd.Addr, BroadcastAddr)
	}
	if !validAction(string(cmd.Action)) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAction, cmd.Action)
	}

	dst = append(dst, FrameStart)
	dst = strconv.AppendInt(dst, int64(cmd.Addr), 10)
	dst = append(dst, cmd.Action...)
	if cmd.Kind == CmdSetValue {
		dst = strconv.AppendInt(dst, int64(cmd.Value), 10)
	}
	for _, m := range cmd.Modifiers {
		if !validModifierCode(m.Code) {
			return nil, fmt.Errorf("%w: modifier %q", ErrInvalidAction, m.Code)
		}
		dst = append(dst, m.Code...)
		dst = strconv.AppendInt(dst, int64(m.Value), 10)
	}
	dst = append(dst, FrameEnd)

	return dst, nil
}

// DecodeReply parses one terminator-delimited chunk (terminator already
// stripped) into a Reply. It is stateless and never blocks; a chunk that
// does not parse yields a Malformed reply carrying the original bytes.
func DecodeReply(chunk []byte) Reply {
	if len(chunk) == 0 {
		return malformedReply(chunk, fmt.Errorf("%w: empty frame", ErrMalformedFrame))
	}
	if chunk[0] != FrameStart {
		return malformedReply(chunk, fmt.Errorf("%w: missing start marker", ErrMalformedFrame))
	}
	rest := chunk[1:]

	// Address: 1-3 decimal digits.
	n := 0
	addr := 0
	for n < len(rest) && isDigit(rest[n]) {
		addr = addr*10 + int(rest[n]-'0')
		n++
		if n > 3 {
			return malformedReply(chunk, fmt.Errorf("%w: address out of range", ErrMalformedFrame))
		}
	}
	if n == 0 {
		return malformedReply(chunk, fmt.Errorf("%w: missing address", ErrMalformedFrame))
	}
	if addr > BroadcastAddr {
		return malformedReply(chunk, fmt.Errorf("%w: address %d out of range", ErrMalformedFrame, addr))
	}
	rest = rest[n:]

	// Action: 2-3 ASCII letters.
	n = 0
	for n < len(rest) && isLetter(rest[n]) {
		n++
	}
	if n < minActionLen || n > maxActionLen {
		return malformedReply(chunk, fmt.Errorf("%w: action code must be %d-%d letters", ErrMalformedFrame, minActionLen, maxActionLen))
	}
	action := Action(rest[:n])
	rest = rest[n:]

	if len(rest) == 0 {
		return Reply{Kind: ReplyAck, Addr: addr, Action: action}
	}

	value, err := parseValue(rest)
	if err != nil {
		return malformedReply(chunk, err)
	}

	return Reply{Kind: ReplyValue, Addr: addr, Action: action, Value: value}
}

// parseValue parses a signed decimal that must consume the whole input
// and fit in an int32.
func parseValue(b []byte) (int32, error) {
	s := b
	neg := false
	if s[0] == '-' {
		neg = true
		s = s[1:]
	}
	if len(s) == 0 {
		return 0, fmt.Errorf("%w: bare sign with no value", ErrMalformedFrame)
	}

	var v int64
	for _, c := range s {
		if !isDigit(c) {
			return 0, fmt.Errorf("%w: unexpected byte %q after value", ErrMalformedFrame, c)
		}
		v = v*10 + int64(c-'0')
		if v > math.MaxInt32+1 {
			return 0, fmt.Errorf("%w: value out of range", ErrMalformedFrame)
		}
	}
	if neg {
		v = -v
	}
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, fmt.Errorf("%w: value out of range", ErrMalformedFrame)
	}

	return int32(v), nil
}

// malformedReply copies raw so the reader can reuse its accumulation
// buffer after handing the reply off.
func malformedReply(raw []byte, reason error) Reply {
	return Reply{
		Kind: ReplyMalformed,
		Raw:  append([]byte(nil), raw...),
		Err:  reason,
	}
}

func validAction(code string) bool {
	if len(code) < minActionLen || len(code) > maxActionLen {
		return false
	}
	for i := 0; i < len(code); i++ {
		if !isLetter(code[i]) {
			return false
		}
	}
	return true
}

// Modifier codes may be a single letter ("S", "T"), unlike action codes.
func validModifierCode(code string) bool {
	if len(code) < 1 || len(code) > maxActionLen {
		return false
	}
	for i := 0; i < len(code); i++ {
		if !isLetter(code[i]) {
			return false
		}
	}
	return true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}
