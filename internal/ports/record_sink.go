package ports

import "io"

// RecordSink receives the rendered record stream: one line per frame, plus
// `#`-prefixed diagnostic lines. Writers are called only from the drain
// loop, never from the time-critical path.
type RecordSink interface {
	io.Writer

	// Flush pushes any buffered output toward the device. Called after each
	// drain pass so records are not held back while the bus is idle.
	Flush() error

	// Close releases the sink. Flush is implied.
	Close() error
}
