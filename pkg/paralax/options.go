package paralax

import (
	"github.com/thisoldcpu/opn-paralax/internal/ports"
	"github.com/thisoldcpu/opn-paralax/pkg/log"
)

// Re-exported interfaces so embedders can supply their own implementations
// without reaching into internal packages.
type (
	// Logger is the structured logging interface from pkg/log.
	Logger = log.Logger

	// Sink receives the rendered record stream.
	Sink = ports.RecordSink

	// EdgeSource delivers edge notifications to the producer.
	EdgeSource = ports.EdgeSource

	// BusReader reads an atomic snapshot of the monitored lines.
	BusReader = ports.BusReader
)

// Option configures optional behavior of a Capture.
type Option func(*options)

type options struct {
	logger Logger
	sink   Sink
	source EdgeSource
	bus    BusReader
}

func defaultOptions() options {
	return options{logger: log.NewNoop()}
}

// WithLogger sets the diagnostics logger. Defaults to a no-op logger; the
// record stream is unaffected either way.
func WithLogger(logger Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithSink overrides the configured output with a custom sink.
func WithSink(sink Sink) Option {
	return func(o *options) { o.sink = sink }
}

// WithEdgeSource supplies a custom edge source. Must be paired with
// WithBusReader so snapshots observe the source's bus state.
func WithEdgeSource(source EdgeSource) Option {
	return func(o *options) { o.source = source }
}

// WithBusReader supplies the bus image matching a custom edge source.
func WithBusReader(bus BusReader) Option {
	return func(o *options) { o.bus = bus }
}
