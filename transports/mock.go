package transports

import (
	"io"
	"sync"
)

// MockTransport implements the bus transport for tests. Reads block
// until data is queued or the transport closes, mimicking a real serial
// port, so the bus reader behaves in tests exactly as it does against
// hardware.
type MockTransport struct {
	// WriteFunc, when set before traffic starts, observes every write
	// after it is recorded. Tests use it to queue replies the way a
	// responding servo would.
	WriteFunc func(frame []byte)

	mu       sync.Mutex
	dataCond *sync.Cond
	readBuf  []byte
	readErr  error
	writeErr error
	frames   [][]byte
	closed   bool
}

// NewMockTransport creates an empty mock. Reads block until QueueRead
// supplies data.
func NewMockTransport() *MockTransport {
	m := &MockTransport{}
	m.dataCond = sync.NewCond(&m.mu)
	return m
}

func (m *MockTransport) Read(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for len(m.readBuf) == 0 && m.readErr == nil && !m.closed {
		m.dataCond.Wait()
	}

	if len(m.readBuf) == 0 {
		if m.readErr != nil {
			return 0, m.readErr
		}
		return 0, io.EOF
	}

	n := copy(p, m.readBuf)
	m.readBuf = m.readBuf[n:]
	return n, nil
}

func (m *MockTransport) Write(p []byte) (int, error) {
	m.mu.Lock()
	if m.writeErr != nil {
		err := m.writeErr
		m.mu.Unlock()
		return 0, err
	}
	if m.closed {
		m.mu.Unlock()
		return 0, io.ErrClosedPipe
	}
	frame := append([]byte(nil), p...)
	m.frames = append(m.frames, frame)
	fn := m.WriteFunc
	m.mu.Unlock()

	// Called unlocked so the hook can QueueRead a reply.
	if fn != nil {
		fn(frame)
	}
	return len(p), nil
}

func (m *MockTransport) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.dataCond.Broadcast()
	return nil
}

// QueueRead appends data for subsequent reads and wakes a blocked reader.
func (m *MockTransport) QueueRead(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readBuf = append(m.readBuf, data...)
	m.dataCond.Broadcast()
}

// QueueFrame is QueueRead for a string, a convenience for test tables.
func (m *MockTransport) QueueFrame(frame string) {
	m.QueueRead([]byte(frame))
}

// FailReads makes the next blocked or future read return err.
func (m *MockTransport) FailReads(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readErr = err
	m.dataCond.Broadcast()
}

// FailWrites makes future writes return err.
func (m *MockTransport) FailWrites(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeErr = err
}

// Writes returns a copy of every frame written so far.
func (m *MockTransport) Writes() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.frames))
	copy(out, m.frames)
	return out
}

// Closed reports whether Close has been called.
func (m *MockTransport) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
