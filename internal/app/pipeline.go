package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/thisoldcpu/opn-paralax/internal/capture"
	"github.com/thisoldcpu/opn-paralax/internal/domain"
	"github.com/thisoldcpu/opn-paralax/internal/ports"
	"github.com/thisoldcpu/opn-paralax/pkg/log"
	"github.com/thisoldcpu/opn-paralax/pkg/record"
	"github.com/thisoldcpu/opn-paralax/pkg/ring"
)

// DefaultRingSize is the default frame buffer capacity. Must be a power of
// two; 4096 frames absorbs several seconds of worst-case Covox traffic.
const DefaultRingSize = 4096

// PipelineConfig carries the startup-time constants of the capture core.
// Nothing here is runtime-mutable.
type PipelineConfig struct {
	RingSize          int
	DeadbandUs        uint32
	Pins              domain.PinMap
	Lines             domain.LineSet
	DataOnly          bool
	PollInterval      time.Duration
	StatsInterval     time.Duration
	HeartbeatInterval time.Duration
}

// Pipeline assembles the two execution contexts around the shared ring
// buffer: the edge source drives the producer in its own goroutine (the
// time-critical context), and the drain loop runs cooperatively in the
// caller's goroutine. Run returns when the context is canceled or a finite
// source is exhausted and fully drained.
type Pipeline struct {
	cfg      PipelineConfig
	bus      ports.BusReader
	source   ports.EdgeSource
	sink     ports.RecordSink
	logger   log.Logger
	buf      *ring.Buffer[domain.Frame]
	session  *capture.Session
	producer *capture.Producer
	drainer  *Drainer
	renderer record.Renderer
}

// NewPipeline builds a pipeline. The ring buffer, session, producer, and
// drainer are allocated once here and live for the pipeline's lifetime;
// indices reset only through Reset.
func NewPipeline(cfg PipelineConfig, bus ports.BusReader, source ports.EdgeSource,
	sink ports.RecordSink, logger log.Logger) (*Pipeline, error) {
	if cfg.RingSize == 0 {
		cfg.RingSize = DefaultRingSize
	}
	if cfg.RingSize < 2 || cfg.RingSize&(cfg.RingSize-1) != 0 {
		return nil, fmt.Errorf("%w: ring size %d is not a power of two", domain.ErrInvalidConfig, cfg.RingSize)
	}
	if cfg.DeadbandUs == 0 {
		cfg.DeadbandUs = capture.DefaultDeadbandUs
	}
	if cfg.Lines == 0 {
		cfg.Lines = domain.AllLines
	}
	if cfg.Pins == (domain.PinMap{}) {
		cfg.Pins = domain.DefaultPinMap
	}

	p := &Pipeline{
		cfg:      cfg,
		bus:      bus,
		source:   source,
		sink:     sink,
		logger:   logger,
		buf:      ring.New[domain.Frame](cfg.RingSize),
		session:  capture.NewSession(),
		renderer: record.NewRenderer(cfg.Lines, cfg.DataOnly),
	}
	p.producer = capture.NewProducer(bus, p.buf, capture.NewCoalescer(cfg.DeadbandUs), cfg.Pins, p.session.ElapsedUs)
	p.drainer = NewDrainer(p.buf, p.session, sink, p.renderer, logger,
		cfg.PollInterval, cfg.StatsInterval, cfg.HeartbeatInterval)
	return p, nil
}

// Session exposes the capture session for status reporting.
func (p *Pipeline) Session() *capture.Session {
	return p.session
}

// Dropped returns the cumulative overflow count.
func (p *Pipeline) Dropped() uint64 {
	return p.buf.Dropped()
}

// Run starts the edge source and drains until ctx is canceled or the
// source is exhausted. It is the whole lifetime of a capture: the session
// epoch is re-armed at entry so timestamps are relative to arming, not to
// pipeline construction.
func (p *Pipeline) Run(ctx context.Context) error {
	p.Reset()
	p.header()

	p.logger.Info("armed, waiting for bus activity",
		log.String("session", p.session.ID().String()),
		log.Int("ring_size", p.buf.Cap()),
		log.Uint64("deadband_us", uint64(p.cfg.DeadbandUs)))

	srcCtx, stopSource := context.WithCancel(ctx)
	defer stopSource()

	done := make(chan struct{})
	errCh := make(chan error, 1)
	go func() {
		errCh <- p.source.Run(srcCtx, p.producer.OnEdge)
		close(done)
	}()

	err := p.drainer.Run(ctx, done)

	stopSource()
	if srcErr := <-errCh; srcErr != nil && !errors.Is(srcErr, context.Canceled) && err == nil {
		err = fmt.Errorf("edge source: %w", srcErr)
	}
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	return err
}

// Reset re-arms the session epoch, the coalescer state, and both ring
// indices together. Run calls it before the source starts, so both
// execution contexts are quiesced at that point.
func (p *Pipeline) Reset() {
	p.buf.Reset()
	p.session.Reset()
	p.producer = capture.NewProducer(p.bus, p.buf, capture.NewCoalescer(p.cfg.DeadbandUs), p.cfg.Pins, p.session.ElapsedUs)
}

// header writes the banner comments that precede the data stream.
func (p *Pipeline) header() {
	var b []byte
	b = append(b, record.CommentPrefix...)
	b = append(b, "paralax capture session "...)
	b = append(b, p.session.ID().String()...)
	b = append(b, '\n')
	b = append(b, record.CommentPrefix...)
	b = append(b, "deadband_us="...)
	b = strconv.AppendUint(b, uint64(p.cfg.DeadbandUs), 10)
	b = append(b, " ring_size="...)
	b = strconv.AppendInt(b, int64(p.buf.Cap()), 10)
	b = append(b, '\n')
	b = append(b, p.renderer.Header()...)
	if _, err := p.sink.Write(b); err != nil {
		p.logger.Warn("header write failed", log.Err(err))
		return
	}
	p.sink.Flush()
}
