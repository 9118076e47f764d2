package lss

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dmweis/IronLSS/transports"
)

// Defaults applied by NewBus.
const (
	DefaultTimeout     = 100 * time.Millisecond
	DefaultMaxFrameLen = 64
)

// pending is the single in-flight request slot. The delivery channel is
// buffered so the reader's hand-off never blocks; whoever removes the
// slot from the bus owns its outcome.
type pending struct {
	addr   int
	action Action
	ch     chan Reply
}

// Bus serializes request/response traffic on one half-duplex LSS line.
// The wire protocol carries no request identifiers, so correlation
// relies on strict single-flight discipline: at most one command is
// outstanding, and any reply not matching it is dropped as a stray.
type Bus struct {
	transport   Transport
	timeout     time.Duration
	maxFrameLen int
	log         zerolog.Logger

	// writeMu is the turn token: held across write-then-wait so no two
	// commands ever overlap on the wire.
	writeMu sync.Mutex

	pendMu sync.Mutex
	pend   *pending

	tapMu sync.Mutex
	taps  map[string]chan Reply

	fatalMu sync.Mutex
	fatal   error
	closing bool

	done      chan struct{} // closed when the reader exits
	closeOnce sync.Once
	closeErr  error
}

// BusConfig holds configuration for creating a new Bus.
type BusConfig struct {
	// Transport is the underlying communication transport.
	// If nil, Port must be specified to open a serial connection.
	Transport Transport

	// Port is the serial port path (e.g., "/dev/ttyUSB0").
	// Ignored if Transport is provided.
	Port string

	// BaudRate is the serial line speed. Default is 115200.
	BaudRate int

	// Timeout is the default reply deadline for Submit. Default is 100ms.
	Timeout time.Duration

	// MaxFrameLen bounds reply accumulation between terminators.
	// Default is 64 bytes.
	MaxFrameLen int

	// Logger receives reader diagnostics: stray replies, malformed
	// frames, shutdown. Nil disables logging.
	Logger *zerolog.Logger
}

// NewBus creates a bus over cfg's transport and starts its background
// reader. The caller must Close the bus to stop the reader and release
// the transport.
func NewBus(cfg BusConfig) (*Bus, error) {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxFrameLen == 0 {
		cfg.MaxFrameLen = DefaultMaxFrameLen
	}

	transport := cfg.Transport
	if transport == nil {
		if cfg.Port == "" {
			return nil, errors.New("either Transport or Port must be specified")
		}
		var err error
		transport, err = transports.OpenSerial(transports.SerialConfig{
			Port:     cfg.Port,
			BaudRate: cfg.BaudRate,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open serial port: %w", err)
		}
	}

	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	b := &Bus{
		transport:   transport,
		timeout:     cfg.Timeout,
		maxFrameLen: cfg.MaxFrameLen,
		log:         logger,
		taps:        make(map[string]chan Reply),
		done:        make(chan struct{}),
	}
	go b.readLoop()

	return b, nil
}

// Close shuts down the bus: the transport closes, the reader exits, and
// every waiting or future Submit fails with ErrBusClosed. Safe to call
// more than once.
func (b *Bus) Close() error {
	b.fatalMu.Lock()
	b.closing = true
	if b.fatal == nil {
		b.fatal = ErrBusClosed
	}
	b.fatalMu.Unlock()

	err := b.closeTransport()
	<-b.done
	return err
}

// Submit writes cmd to the bus and waits for its matching reply. The
// reply deadline is timeout, or the bus default when timeout is zero or
// negative; ctx cancels the wait independently of the deadline.
// Broadcast commands return a ReplyNone as soon as the frame is written.
//
// Submit is safe for concurrent use; callers queue for exclusive access
// to the line.
func (b *Bus) Submit(ctx context.Context, cmd Command, timeout time.Duration) (Reply, error) {
	frame, err := EncodeCommand(cmd)
	if err != nil {
		return Reply{}, b.cmdErr(cmd, err)
	}
	if timeout <= 0 {
		timeout = b.timeout
	}

	b.writeMu.Lock()
	defer b.writeMu.Unlock()

	if err := b.fatalErr(); err != nil {
		return Reply{}, b.cmdErr(cmd, err)
	}

	if !cmd.ExpectsReply() {
		if err := b.write(frame); err != nil {
			return Reply{}, b.cmdErr(cmd, err)
		}
		return Reply{}, nil
	}

	// The slot must exist before the frame hits the wire: a fast device
	// could answer before Submit gets back around to waiting.
	p := &pending{addr: cmd.Addr, action: cmd.Action, ch: make(chan Reply, 1)}
	b.pendMu.Lock()
	b.pend = p
	b.pendMu.Unlock()
	defer b.clearPending(p)

	if err := b.write(frame); err != nil {
		return Reply{}, b.cmdErr(cmd, err)
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case r := <-p.ch:
		return b.finish(cmd, r)

	case <-timer.C:
		b.pendMu.Lock()
		delivered := b.pend != p
		if !delivered {
			b.pend = nil
		}
		b.pendMu.Unlock()
		if delivered {
			// The reader claimed the slot before the deadline check;
			// its send is already in flight, so the reply wins.
			return b.finish(cmd, <-p.ch)
		}
		return Reply{}, b.cmdErr(cmd, ErrTimeout)

	case <-ctx.Done():
		return Reply{}, b.cmdErr(cmd, ctx.Err())

	case <-b.done:
		select {
		case r := <-p.ch:
			return b.finish(cmd, r)
		default:
		}
		return Reply{}, b.cmdErr(cmd, b.fatalErr())
	}
}

// Subscribe registers a diagnostic tap receiving every decoded frame:
// matched replies, strays, and malformed chunks alike. Slow receivers
// miss frames rather than stalling the reader. The channel closes when
// the tap is unsubscribed or the bus shuts down.
func (b *Bus) Subscribe() (string, <-chan Reply) {
	id := uuid.NewString()
	ch := make(chan Reply, 16)

	b.tapMu.Lock()
	b.taps[id] = ch
	b.tapMu.Unlock()

	return id, ch
}

// Unsubscribe removes a tap and closes its channel.
func (b *Bus) Unsubscribe(id string) {
	b.tapMu.Lock()
	defer b.tapMu.Unlock()
	if ch, ok := b.taps[id]; ok {
		delete(b.taps, id)
		close(ch)
	}
}

// Internal methods

// finish applies the command's shape requirement to a matched reply.
// Queries need a value; an echoed value on a set or fire is accepted.
func (b *Bus) finish(cmd Command, r Reply) (Reply, error) {
	if cmd.Kind == CmdQuery && r.Kind != ReplyValue {
		return Reply{}, b.cmdErr(cmd, fmt.Errorf("%w: query answered by bare ack", ErrProtocolMismatch))
	}
	return r, nil
}

// write sends one frame. A short or failed write poisons the bus: the
// line state is unknowable afterwards, so all traffic stops until the
// owner rebuilds the bus.
func (b *Bus) write(frame []byte) error {
	n, err := b.transport.Write(frame)
	if err == nil && n != len(frame) {
		err = fmt.Errorf("incomplete write: %d of %d bytes", n, len(frame))
	}
	if err != nil {
		b.poison(err)
		return b.fatalErr()
	}
	return nil
}

func (b *Bus) poison(cause error) {
	b.fatalMu.Lock()
	if b.fatal == nil {
		b.fatal = fmt.Errorf("%w: %v", ErrConnectionLost, cause)
	}
	b.fatalMu.Unlock()
	b.closeTransport()
}

func (b *Bus) closeTransport() error {
	b.closeOnce.Do(func() {
		b.closeErr = b.transport.Close()
	})
	return b.closeErr
}

func (b *Bus) fatalErr() error {
	b.fatalMu.Lock()
	defer b.fatalMu.Unlock()
	return b.fatal
}

// clearPending releases the slot if this submit still owns it. Runs on
// every exit path so an abandoned wait can never leave the slot occupied.
func (b *Bus) clearPending(p *pending) {
	b.pendMu.Lock()
	if b.pend == p {
		b.pend = nil
	}
	b.pendMu.Unlock()
}

func (b *Bus) cmdErr(cmd Command, err error) error {
	return &CommandError{Addr: cmd.Addr, Action: cmd.Action, Err: err}
}
