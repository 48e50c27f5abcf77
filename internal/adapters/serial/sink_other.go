//go:build !linux

// Package serial streams records to a tty, typically the USB CDC port the
// capture head presents. Only the Linux termios path is implemented.
package serial

import (
	"errors"
	"io"
)

// DefaultBaud matches the capture head's CDC configuration.
const DefaultBaud = 921600

var errUnsupported = errors.New("serial: sink only supported on linux")

// Sink is unavailable on this platform.
type Sink struct{}

// Open always fails on non-Linux platforms.
func Open(device string, baud int) (*Sink, error) {
	return nil, errUnsupported
}

func (s *Sink) Write(p []byte) (int, error) { return 0, io.ErrClosedPipe }
func (s *Sink) Flush() error                { return errUnsupported }
func (s *Sink) Close() error                { return nil }
