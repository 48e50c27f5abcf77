// Package paralax provides an embeddable parallel-bus capture pipeline.
//
// A Capture samples a multi-line digital bus on every electrical edge,
// coalesces ringing within a short deadband, buffers frames in a fixed
// lock-free ring, and streams them as CSV records to a sink. Overload
// degrades to counted drops, never to blocking or data corruption.
//
// Example usage:
//
//	cfg := paralax.DefaultConfig()
//	cfg.Input = "capture.events"
//	c, err := paralax.New(cfg, paralax.WithLogger(log.NewZerologAdapter()))
//	if err != nil {
//	    // handle
//	}
//	c.Start(context.Background())
//	defer c.Stop()
package paralax

import (
	"context"
	"fmt"
	"sync"
	"time"

	adapterfs "github.com/thisoldcpu/opn-paralax/internal/adapters/fs"
	"github.com/thisoldcpu/opn-paralax/internal/adapters/replay"
	"github.com/thisoldcpu/opn-paralax/internal/adapters/serial"
	"github.com/thisoldcpu/opn-paralax/internal/adapters/stream"
	"github.com/thisoldcpu/opn-paralax/internal/app"
	"github.com/thisoldcpu/opn-paralax/internal/capture"
	"github.com/thisoldcpu/opn-paralax/internal/domain"
	"github.com/thisoldcpu/opn-paralax/pkg/log"
)

// Re-exported sentinel errors; check with errors.Is.
var (
	ErrAlreadyRunning  = domain.ErrAlreadyRunning
	ErrNotRunning      = domain.ErrNotRunning
	ErrNotQuiesced     = domain.ErrNotQuiesced
	ErrInvalidConfig   = domain.ErrInvalidConfig
	ErrShutdownTimeout = domain.ErrShutdownTimeout
)

// ShutdownTimeout bounds how long Stop waits for the drain loop to finish.
const ShutdownTimeout = 10 * time.Second

// Config holds the startup-time constants of a capture. Nothing here is
// mutable once Start has been called.
type Config struct {
	// Input is the replay event file driving the pipeline. Required unless
	// a custom edge source is supplied via options.
	Input string

	// Follow tails a growing input file instead of stopping at its end.
	Follow bool

	// Speed scales replay pacing; 1 is recorded time, 0 is flat out.
	Speed float64

	// RingSize is the frame buffer capacity; power of two.
	RingSize int

	// DeadbandUs is the coalescing window in microseconds.
	DeadbandUs uint32

	// StatusLines selects the rendered status columns by name, in their
	// canonical order. Empty means all lines.
	StatusLines []string

	// DataOnly drops the status columns from output records entirely.
	DataOnly bool

	// Output is the record sink: a path, or "-" for stdout. Ignored when
	// SerialDevice or a custom sink is set.
	Output string

	// SerialDevice streams records to a tty instead of Output.
	SerialDevice string

	// Baud is the serial line rate; 0 means serial.DefaultBaud.
	Baud int

	// SummaryDir, when set, receives a summary.json with the session
	// counters after each run.
	SummaryDir string

	PollInterval      time.Duration
	StatsInterval     time.Duration
	HeartbeatInterval time.Duration
}

// DefaultConfig returns a Config with the as-built defaults: full status
// set, 4096-frame ring, 3 us deadband, stdout output, real-time replay.
func DefaultConfig() Config {
	return Config{
		Speed:             1,
		RingSize:          app.DefaultRingSize,
		DeadbandUs:        capture.DefaultDeadbandUs,
		Output:            "-",
		PollInterval:      app.DefaultPollInterval,
		StatsInterval:     app.DefaultStatsInterval,
		HeartbeatInterval: app.DefaultHeartbeatInterval,
	}
}

// lineSet resolves the configured status-line names.
func (c Config) lineSet() (domain.LineSet, error) {
	if len(c.StatusLines) == 0 {
		return domain.AllLines, nil
	}
	var s domain.LineSet
	for _, name := range c.StatusLines {
		l, ok := domain.LineByName(name)
		if !ok {
			return 0, fmt.Errorf("%w: unknown status line %q", ErrInvalidConfig, name)
		}
		s = s.With(l)
	}
	return s, nil
}

// Validate checks the configuration without building anything.
func (c Config) Validate() error {
	if c.RingSize < 2 || c.RingSize&(c.RingSize-1) != 0 {
		return fmt.Errorf("%w: ring size %d is not a power of two", ErrInvalidConfig, c.RingSize)
	}
	if c.Speed < 0 {
		return fmt.Errorf("%w: negative replay speed", ErrInvalidConfig)
	}
	if _, err := c.lineSet(); err != nil {
		return err
	}
	return nil
}

// Capture is a runnable capture pipeline. Create with New, then Start; a
// Capture may be restarted after Stop, which re-arms the session epoch and
// the ring indices together.
type Capture struct {
	cfg      Config
	opts     options
	pipeline *app.Pipeline
	sink     Sink
	ownSink  bool

	mu      sync.Mutex
	state   State
	cancel  context.CancelFunc
	done    chan struct{}
	lastErr error
}

// New builds a Capture in StateStopped.
func New(cfg Config, opts ...Option) (*Capture, error) {
	if cfg.RingSize == 0 {
		cfg.RingSize = app.DefaultRingSize
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	source := o.source
	bus := o.bus
	if source == nil {
		if cfg.Input == "" {
			return nil, fmt.Errorf("%w: no input file and no edge source", ErrInvalidConfig)
		}
		rp := replay.New(cfg.Input, cfg.Speed, cfg.Follow)
		source = rp
		bus = rp.Bus()
	}
	if bus == nil {
		return nil, fmt.Errorf("%w: custom edge source needs a bus reader", ErrInvalidConfig)
	}

	sink := o.sink
	ownSink := false
	if sink == nil {
		var err error
		sink, err = openSink(cfg)
		if err != nil {
			return nil, err
		}
		ownSink = true
	}

	lines, err := cfg.lineSet()
	if err != nil {
		return nil, err
	}
	pipeline, err := app.NewPipeline(app.PipelineConfig{
		RingSize:          cfg.RingSize,
		DeadbandUs:        cfg.DeadbandUs,
		Lines:             lines,
		DataOnly:          cfg.DataOnly,
		PollInterval:      cfg.PollInterval,
		StatsInterval:     cfg.StatsInterval,
		HeartbeatInterval: cfg.HeartbeatInterval,
	}, bus, source, sink, o.logger)
	if err != nil {
		return nil, err
	}

	return &Capture{
		cfg:      cfg,
		opts:     o,
		pipeline: pipeline,
		sink:     sink,
		ownSink:  ownSink,
		state:    StateStopped,
	}, nil
}

func openSink(cfg Config) (Sink, error) {
	if cfg.SerialDevice != "" {
		return serial.Open(cfg.SerialDevice, cfg.Baud)
	}
	if cfg.Output == "" || cfg.Output == "-" {
		return stream.Stdout(), nil
	}
	return stream.NewFileSink(cfg.Output)
}

// Start arms the pipeline. The edge source runs in its own goroutine (the
// time-critical context); the drain loop runs in a second goroutine. Start
// returns immediately; use Status or Wait to observe completion.
func (c *Capture) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateStopped && c.state != StateCrashed {
		return ErrAlreadyRunning
	}
	c.state = StateStarting

	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.done = make(chan struct{})

	started := time.Now()
	go func() {
		err := c.pipeline.Run(runCtx)
		c.finish(err, started)
	}()

	c.state = StateRunning
	return nil
}

// finish records the run outcome, writes the summary, and releases Wait.
func (c *Capture) finish(err error, started time.Time) {
	c.mu.Lock()
	c.lastErr = err
	if err != nil {
		c.state = StateCrashed
		c.opts.logger.Error("capture crashed", log.Err(err))
	} else {
		c.state = StateStopped
	}
	done := c.done
	c.mu.Unlock()

	if c.cfg.SummaryDir != "" {
		session := c.pipeline.Session()
		s := adapterfs.Summary{
			SessionID: session.ID().String(),
			StartedAt: started,
			Duration:  time.Since(started),
			Captured:  session.Emitted(),
			Dropped:   c.pipeline.Dropped(),
		}
		if werr := adapterfs.NewSummaryWriter(c.cfg.SummaryDir).Save(s); werr != nil {
			c.opts.logger.Warn("summary write failed", log.Err(werr))
		}
	}
	c.sink.Flush()
	close(done)
}

// Close releases the sink. Call once, after the final run; a closed
// Capture cannot be restarted.
func (c *Capture) Close() error {
	if c.ownSink {
		return c.sink.Close()
	}
	return nil
}

// Stop cancels the run and waits for the drain loop to flush, up to
// ShutdownTimeout.
func (c *Capture) Stop() error {
	c.mu.Lock()
	if c.state != StateRunning && c.state != StateStarting {
		c.mu.Unlock()
		return ErrNotRunning
	}
	c.state = StateStopping
	cancel := c.cancel
	done := c.done
	c.mu.Unlock()

	cancel()
	select {
	case <-done:
		return nil
	case <-time.After(ShutdownTimeout):
		return ErrShutdownTimeout
	}
}

// Wait blocks until the current run finishes and returns its error. It is
// how `--once` style callers observe a finite replay completing on its own.
func (c *Capture) Wait() error {
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()
	if done == nil {
		return ErrNotRunning
	}
	<-done
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Reset discards buffered frames and re-arms the session epoch and
// counters without starting a run. Start does this implicitly; Reset exists
// for embedders that inspect counters between runs. It fails with
// ErrNotQuiesced unless the capture is fully stopped.
func (c *Capture) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateStopped && c.state != StateCrashed {
		return ErrNotQuiesced
	}
	c.pipeline.Reset()
	return nil
}

// Status returns the current lifecycle state.
func (c *Capture) Status() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Captured returns the cumulative frames handed to the sink.
func (c *Capture) Captured() uint64 {
	return c.pipeline.Session().Emitted()
}

// Dropped returns the cumulative overflow count.
func (c *Capture) Dropped() uint64 {
	return c.pipeline.Dropped()
}
