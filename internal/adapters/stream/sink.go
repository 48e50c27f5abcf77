// Package stream provides record sinks backed by ordinary byte streams:
// stdout, a file, or any io.Writer. Writes are buffered and flushed at
// drain-pass boundaries so per-record overhead stays off the hot loop
// without delaying records while the bus is idle.
package stream

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

const defaultBufSize = 64 * 1024

// Sink buffers records onto an underlying writer.
type Sink struct {
	w     *bufio.Writer
	owned io.Closer
}

// NewSink wraps an arbitrary writer. Close flushes but does not close w.
func NewSink(w io.Writer) *Sink {
	return &Sink{w: bufio.NewWriterSize(w, defaultBufSize)}
}

// NewFileSink creates (or truncates) path and streams records into it.
func NewFileSink(path string) (*Sink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("open sink file: %w", err)
	}
	return &Sink{w: bufio.NewWriterSize(f, defaultBufSize), owned: f}, nil
}

// Stdout returns a sink on standard output.
func Stdout() *Sink {
	return NewSink(os.Stdout)
}

// Write buffers one rendered record or diagnostic line.
func (s *Sink) Write(p []byte) (int, error) {
	return s.w.Write(p)
}

// Flush pushes buffered output to the underlying writer.
func (s *Sink) Flush() error {
	return s.w.Flush()
}

// Close flushes and, for file-backed sinks, closes the file.
func (s *Sink) Close() error {
	err := s.w.Flush()
	if s.owned != nil {
		if cerr := s.owned.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
