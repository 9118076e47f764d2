package lss

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestEncodeCommand(t *testing.T) {
	tests := []struct {
		name string
		cmd  Command
		want string
	}{
		{"query", Query(5, ActQueryPosition), "#5QD\r"},
		{"query three digit address", Query(117, ActQueryVoltage), "#117QV\r"},
		{"zero address", Query(0, ActQueryVoltage), "#0QV\r"},
		{"set value", SetValue(5, ActMove, 1800), "#5MD1800\r"},
		{"set negative value", SetValue(5, ActMove, -900), "#5MD-900\r"},
		{"set zero value", SetValue(5, ActLEDColor, 0), "#5LED0\r"},
		{"fire", Fire(3, ActLimp), "#3LP\r"},
		{"broadcast fire", Fire(BroadcastAddr, ActLimp), "#254LP\r"},
		{"speed modifier", SetValue(5, ActMove, 1800).WithModifiers(SpeedDegrees(90)), "#5MD1800SD90\r"},
		{"stacked modifiers", SetValue(5, ActMove, 1800).WithModifiers(Speed(750), Timed(2500)), "#5MD1800S750T2500\r"},
		{"current hold modifier", SetValue(5, ActMove, 0).WithModifiers(CurrentHold(400)), "#5MD0CH400\r"},
		{"modifier on fire", Fire(5, ActHold).WithModifiers(CurrentLimp(900)), "#5HHCL900\r"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EncodeCommand(tt.cmd)
			if err != nil {
				t.Fatalf("EncodeCommand failed: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("EncodeCommand: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEncodeCommand_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		cmd     Command
		wantErr error
	}{
		{"address below range", Query(-1, ActQueryPosition), ErrInvalidAddress},
		{"address above range", Query(255, ActQueryPosition), ErrInvalidAddress},
		{"empty action", Query(5, ""), ErrInvalidAction},
		{"action too short", Query(5, "Q"), ErrInvalidAction},
		{"action too long", Query(5, "QDDD"), ErrInvalidAction},
		{"action with digit", Query(5, "Q1"), ErrInvalidAction},
		{"modifier code with digit", Fire(5, ActHold).WithModifiers(CustomModifier("S1", 3)), ErrInvalidAction},
		{"empty modifier code", Fire(5, ActHold).WithModifiers(CustomModifier("", 3)), ErrInvalidAction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := EncodeCommand(tt.cmd); !errors.Is(err, tt.wantErr) {
				t.Errorf("EncodeCommand error: got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDecodeReply(t *testing.T) {
	tests := []struct {
		name  string
		chunk string
		want  Reply
	}{
		{"value", "#5QD1234", Reply{Kind: ReplyValue, Addr: 5, Action: "QD", Value: 1234}},
		{"negative value", "#5QD-182", Reply{Kind: ReplyValue, Addr: 5, Action: "QD", Value: -182}},
		{"ack", "#5LED", Reply{Kind: ReplyAck, Addr: 5, Action: "LED"}},
		{"broadcast address", "#254LP", Reply{Kind: ReplyAck, Addr: 254, Action: "LP"}},
		{"three letter action with value", "#17QFC5", Reply{Kind: ReplyValue, Addr: 17, Action: "QFC", Value: 5}},
		{"zero address", "#0QV11400", Reply{Kind: ReplyValue, Addr: 0, Action: "QV", Value: 11400}},
		{"int32 max", "#5QD2147483647", Reply{Kind: ReplyValue, Addr: 5, Action: "QD", Value: 2147483647}},
		{"int32 min", "#5QD-2147483648", Reply{Kind: ReplyValue, Addr: 5, Action: "QD", Value: -2147483648}},
	}

	ignore := cmpopts.IgnoreFields(Reply{}, "Raw", "Err")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeReply([]byte(tt.chunk))
			if diff := cmp.Diff(tt.want, got, ignore); diff != "" {
				t.Errorf("DecodeReply mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeReply_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		chunk string
	}{
		{"empty", ""},
		{"missing marker", "5QD1234"},
		{"marker only", "#"},
		{"missing address", "#QD123"},
		{"address out of range", "#255QD1"},
		{"address too many digits", "#1000QD"},
		{"missing action", "#5"},
		{"one letter action", "#5Q"},
		{"four letter action", "#5QDXX1"},
		{"bare sign", "#5QD-"},
		{"non-digit inside value", "#5QD12x4"},
		{"value overflow", "#5QD2147483648"},
		{"value underflow", "#5QD-2147483649"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeReply([]byte(tt.chunk))
			if got.Kind != ReplyMalformed {
				t.Fatalf("DecodeReply kind: got %v, want ReplyMalformed", got.Kind)
			}
			if !errors.Is(got.Err, ErrMalformedFrame) {
				t.Errorf("DecodeReply reason: got %v, want ErrMalformedFrame", got.Err)
			}
			if string(got.Raw) != tt.chunk {
				t.Errorf("DecodeReply raw: got %q, want %q", got.Raw, tt.chunk)
			}
		})
	}
}

// A reply with the same address and action as a command must decode back
// to that identity from the command's own encoded frame.
func TestEncodeDecodeRoundTrip(t *testing.T) {
	cmds := []Command{
		Query(0, ActQueryPosition),
		Query(253, ActQueryVoltage),
		SetValue(9, ActMove, -3600),
		SetValue(117, ActFilterCount, 5),
		Fire(17, ActHold),
	}

	for _, cmd := range cmds {
		frame, err := EncodeCommand(cmd)
		if err != nil {
			t.Fatalf("EncodeCommand(%v) failed: %v", cmd, err)
		}
		if frame[len(frame)-1] != FrameEnd {
			t.Fatalf("frame %q does not end in terminator", frame)
		}

		reply := DecodeReply(frame[:len(frame)-1])
		if reply.Kind == ReplyMalformed {
			t.Fatalf("round trip of %q produced malformed reply: %v", frame, reply.Err)
		}
		if reply.Addr != cmd.Addr || reply.Action != cmd.Action {
			t.Errorf("round trip of %q: got addr=%d action=%s, want addr=%d action=%s",
				frame, reply.Addr, reply.Action, cmd.Addr, cmd.Action)
		}
	}
}

// The decoder must copy raw bytes out of the caller's buffer so the
// reader can reuse its accumulation chunk.
func TestDecodeReply_RawIsCopied(t *testing.T) {
	chunk := []byte("not a frame")
	got := DecodeReply(chunk)
	if got.Kind != ReplyMalformed {
		t.Fatalf("DecodeReply kind: got %v, want ReplyMalformed", got.Kind)
	}

	chunk[0] = 'X'
	if string(got.Raw) != "not a frame" {
		t.Errorf("raw bytes alias the input buffer: %q", got.Raw)
	}
}
