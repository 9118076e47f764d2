package lss

import "io"

// Transport is a byte-oriented duplex stream carrying the bus traffic.
// This abstraction allows for testing with mock implementations.
//
// The bus owns the write half; the background reader owns the read half.
// Read must block until bytes arrive or the transport closes, and Close
// must unblock a pending Read. The bus requires only ordered,
// reliable-within-session delivery; it does not manage the transport's
// lifecycle beyond closing it on shutdown.
type Transport interface {
	io.ReadWriteCloser
}
