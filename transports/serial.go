// Package transports provides physical byte streams for an LSS bus.
package transports

import (
	"errors"
	"fmt"

	"go.bug.st/serial"
)

// DefaultBaudRate is the LSS factory line speed.
const DefaultBaudRate = 115200

// SerialTransport implements the bus transport over a hardware serial
// port.
type SerialTransport struct {
	port     serial.Port
	portName string
}

// SerialConfig holds configuration for opening a serial port.
type SerialConfig struct {
	Port     string
	BaudRate int // Default is 115200
}

// OpenSerial opens a serial port configured for an LSS bus (8N1).
// Reads block until bytes arrive; closing the port unblocks a pending
// read, which is how the bus reader shuts down.
func OpenSerial(cfg SerialConfig) (*SerialTransport, error) {
	if cfg.Port == "" {
		return nil, errors.New("serial port path is required")
	}
	if cfg.BaudRate == 0 {
		cfg.BaudRate = DefaultBaudRate
	}

	mode := &serial.Mode{
		BaudRate: cfg.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(cfg.Port, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port: %w", err)
	}

	return &SerialTransport{
		port:     port,
		portName: cfg.Port,
	}, nil
}

func (t *SerialTransport) Read(p []byte) (int, error) {
	return t.port.Read(p)
}

func (t *SerialTransport) Write(p []byte) (int, error) {
	return t.port.Write(p)
}

func (t *SerialTransport) Close() error {
	return t.port.Close()
}

// PortName returns the serial port name.
func (t *SerialTransport) PortName() string {
	return t.portName
}
