//go:build linux

// Package serial streams records to a tty, typically the USB CDC port the
// capture head presents. The port is put in raw mode so the kernel never
// rewrites the stream.
package serial

import (
	"bufio"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// DefaultBaud matches the capture head's CDC configuration. CSV at full
// Covox rate is heavy; the link must keep up.
const DefaultBaud = 921600

var baudRates = map[int]uint32{
	9600:    unix.B9600,
	19200:   unix.B19200,
	38400:   unix.B38400,
	57600:   unix.B57600,
	115200:  unix.B115200,
	230400:  unix.B230400,
	460800:  unix.B460800,
	921600:  unix.B921600,
	1000000: unix.B1000000,
}

// Sink writes the record stream to a serial device.
type Sink struct {
	f *os.File
	w *bufio.Writer
}

// Open configures the device raw at the given baud rate and returns a sink
// on it. A baud of 0 selects DefaultBaud.
func Open(device string, baud int) (*Sink, error) {
	if baud == 0 {
		baud = DefaultBaud
	}
	speed, ok := baudRates[baud]
	if !ok {
		return nil, fmt.Errorf("serial: unsupported baud rate %d", baud)
	}

	f, err := os.OpenFile(device, os.O_RDWR|unix.O_NOCTTY, 0)
	if err != nil {
		return nil, fmt.Errorf("serial: open %s: %w", device, err)
	}

	fd := int(f.Fd())
	tio, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("serial: get termios: %w", err)
	}

	// Raw 8N1, no flow control, no translation.
	tio.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP |
		unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON
	tio.Oflag &^= unix.OPOST
	tio.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	tio.Cflag &^= unix.CSIZE | unix.PARENB | unix.CSTOPB | unix.CRTSCTS
	tio.Cflag |= unix.CS8 | unix.CREAD | unix.CLOCAL
	tio.Cflag &^= unix.CBAUD
	tio.Cflag |= speed
	tio.Ispeed = speed
	tio.Ospeed = speed
	tio.Cc[unix.VMIN] = 0
	tio.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(fd, unix.TCSETS, tio); err != nil {
		f.Close()
		return nil, fmt.Errorf("serial: set termios: %w", err)
	}

	return &Sink{f: f, w: bufio.NewWriterSize(f, 16*1024)}, nil
}

// Write buffers one record toward the device.
func (s *Sink) Write(p []byte) (int, error) {
	return s.w.Write(p)
}

// Flush pushes buffered records out to the device.
func (s *Sink) Flush() error {
	return s.w.Flush()
}

// Close flushes and closes the device.
func (s *Sink) Close() error {
	err := s.w.Flush()
	if cerr := s.f.Close(); err == nil {
		err = cerr
	}
	return err
}
