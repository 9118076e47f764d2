package lss

import (
	"fmt"
	"strconv"
)

// ReplyKind is the shape of a decoded inbound frame.
type ReplyKind int

const (
	// ReplyNone means no frame was read. Submit returns it for
	// broadcast commands, which never produce replies.
	ReplyNone ReplyKind = iota
	// ReplyAck is a frame with address and action but no value.
	ReplyAck
	// ReplyValue is a frame carrying a signed parameter.
	ReplyValue
	// ReplyMalformed is a chunk that failed to parse; Raw and Err
	// describe it. Malformed replies never resolve a pending command.
	ReplyMalformed
)

// Reply is one decoded inbound frame.
type Reply struct {
	Kind   ReplyKind
	Addr   int
	Action Action
	Value  int32  // meaningful only for ReplyValue
	Raw    []byte // original bytes, retained only for ReplyMalformed
	Err    error  // parse failure, set only for ReplyMalformed
}

// HasValue reports whether the reply carries a parameter.
func (r Reply) HasValue() bool {
	return r.Kind == ReplyValue
}

func (r Reply) String() string {
	switch r.Kind {
	case ReplyNone:
		return "no reply"
	case ReplyAck:
		return fmt.Sprintf("ack #%d%s", r.Addr, r.Action)
	case ReplyValue:
		return fmt.Sprintf("#%d%s%s", r.Addr, r.Action, strconv.FormatInt(int64(r.Value), 10))
	case ReplyMalformed:
		return fmt.Sprintf("malformed frame %q: %v", r.Raw, r.Err)
	default:
		return fmt.Sprintf("reply kind %d", int(r.Kind))
	}
}
