package lss

import "fmt"

// readLoop owns the transport's read half for the life of the bus. It
// accumulates bytes into the current chunk, decodes a reply at every
// terminator, and dispatches it. The loop exits only when the transport
// closes or fails, after recording the fatal error and waking anyone
// waiting.
func (b *Bus) readLoop() {
	defer func() {
		b.closeTaps()
		close(b.done)
	}()

	buf := make([]byte, 256)
	chunk := make([]byte, 0, b.maxFrameLen)
	overflow := false

	for {
		n, err := b.transport.Read(buf)
		for _, c := range buf[:n] {
			if c != FrameEnd {
				if overflow {
					continue
				}
				if len(chunk) >= b.maxFrameLen {
					// Surface the oversized prefix, then swallow the
					// rest of the frame up to its terminator.
					b.dispatch(malformedReply(chunk, fmt.Errorf("%w: no terminator within %d bytes", ErrFrameTooLong, b.maxFrameLen)))
					overflow = true
					chunk = chunk[:0]
					continue
				}
				chunk = append(chunk, c)
				continue
			}

			if overflow {
				overflow = false
				continue
			}
			if len(chunk) == 0 {
				// Bare terminator between frames.
				continue
			}
			b.dispatch(DecodeReply(chunk))
			chunk = chunk[:0]
		}
		if err != nil {
			b.fail(err)
			return
		}
	}
}

// dispatch routes one decoded reply: every tap sees it, the pending
// request gets it only on an address and action match. Everything else
// is a stray and is dropped.
func (b *Bus) dispatch(r Reply) {
	b.fanout(r)

	if r.Kind == ReplyMalformed {
		b.log.Debug().Err(r.Err).Bytes("raw", r.Raw).Msg("dropping malformed frame")
		return
	}

	b.pendMu.Lock()
	p := b.pend
	if p != nil && p.addr == r.Addr && p.action == r.Action {
		b.pend = nil
		b.pendMu.Unlock()
		p.ch <- r
		return
	}
	b.pendMu.Unlock()

	b.log.Debug().
		Int("addr", r.Addr).
		Str("action", string(r.Action)).
		Msg("dropping stray reply")
}

// fail records the first fatal error. Waiters observe it once the done
// channel closes.
func (b *Bus) fail(cause error) {
	b.fatalMu.Lock()
	defer b.fatalMu.Unlock()

	if b.fatal != nil {
		return
	}
	if b.closing {
		b.fatal = ErrBusClosed
		return
	}
	b.fatal = fmt.Errorf("%w: %v", ErrConnectionLost, cause)
	b.log.Debug().Err(cause).Msg("transport read failed, bus is down")
}

func (b *Bus) fanout(r Reply) {
	b.tapMu.Lock()
	defer b.tapMu.Unlock()
	for _, ch := range b.taps {
		select {
		case ch <- r:
		default: // slow taps miss frames rather than stalling the reader
		}
	}
}

func (b *Bus) closeTaps() {
	b.tapMu.Lock()
	defer b.tapMu.Unlock()
	for id, ch := range b.taps {
		delete(b.taps, id)
		close(ch)
	}
}
