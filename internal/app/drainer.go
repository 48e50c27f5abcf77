package app

import (
	"context"
	"fmt"
	"iter"
	"strconv"
	"time"

	"github.com/thisoldcpu/opn-paralax/internal/capture"
	"github.com/thisoldcpu/opn-paralax/internal/domain"
	"github.com/thisoldcpu/opn-paralax/internal/ports"
	"github.com/thisoldcpu/opn-paralax/pkg/log"
	"github.com/thisoldcpu/opn-paralax/pkg/record"
	"github.com/thisoldcpu/opn-paralax/pkg/ring"
)

// Default pacing of the drain loop and its diagnostics.
const (
	DefaultPollInterval      = 500 * time.Microsecond
	DefaultStatsInterval     = 5 * time.Second
	DefaultHeartbeatInterval = 10 * time.Second
)

// Drainer is the consumer half of the pipeline. It owns the read side of
// the ring buffer: it dequeues frames in FIFO order, renders them onto the
// sink, and periodically reports the emitted/dropped counters as
// `#`-prefixed diagnostic lines. It never touches the write index and runs
// entirely outside the time-critical path.
type Drainer struct {
	buf      *ring.Buffer[domain.Frame]
	session  *capture.Session
	sink     ports.RecordSink
	renderer record.Renderer
	logger   log.Logger

	poll      time.Duration
	stats     time.Duration
	heartbeat time.Duration

	scratch   []byte
	lastStats time.Time
	lastBeat  time.Time
}

// NewDrainer wires the drain loop. Zero intervals fall back to the package
// defaults.
func NewDrainer(buf *ring.Buffer[domain.Frame], session *capture.Session, sink ports.RecordSink,
	renderer record.Renderer, logger log.Logger, poll, stats, heartbeat time.Duration) *Drainer {
	if poll <= 0 {
		poll = DefaultPollInterval
	}
	if stats <= 0 {
		stats = DefaultStatsInterval
	}
	if heartbeat <= 0 {
		heartbeat = DefaultHeartbeatInterval
	}
	return &Drainer{
		buf:       buf,
		session:   session,
		sink:      sink,
		renderer:  renderer,
		logger:    logger,
		poll:      poll,
		stats:     stats,
		heartbeat: heartbeat,
		scratch:   make([]byte, 0, 64),
	}
}

// Frames returns the frames currently buffered, oldest first. The sequence
// is lazy and finite: it stops at the first empty poll, and each call
// starts a fresh drain from whatever has accumulated since. Consuming it
// advances the ring's read index, so only the drain loop's goroutine may
// range over it.
func (d *Drainer) Frames() iter.Seq[domain.Frame] {
	return func(yield func(domain.Frame) bool) {
		for {
			f, ok := d.buf.TryDequeue()
			if !ok {
				return
			}
			if !yield(f) {
				return
			}
		}
	}
}

// DrainOnce renders and writes everything currently buffered. Returns the
// number of frames written, and the first write error encountered; frames
// already dequeued when a write fails are lost to the sink but still
// counted as emitted.
func (d *Drainer) DrainOnce() (int, error) {
	n := 0
	for f := range d.Frames() {
		d.scratch = d.renderer.Append(d.scratch[:0], f)
		if _, err := d.sink.Write(d.scratch); err != nil {
			d.session.CountEmitted()
			return n, fmt.Errorf("write record: %w", err)
		}
		d.session.CountEmitted()
		n++
	}
	if n > 0 {
		if err := d.sink.Flush(); err != nil {
			return n, fmt.Errorf("flush sink: %w", err)
		}
	}
	return n, nil
}

// Run polls and drains until ctx is canceled or done is closed with the
// buffer empty. done is closed by the edge source when it is exhausted
// (finite replay); pass nil for a source that never ends. Sink errors are
// logged and retried with backoff; they never stop the loop.
func (d *Drainer) Run(ctx context.Context, done <-chan struct{}) error {
	now := time.Now()
	d.lastStats = now
	d.lastBeat = now
	retry := newBackoff(DefaultBackoffInitial, DefaultBackoffMax)

	for {
		n, err := d.DrainOnce()
		if err != nil {
			d.logger.Error("sink write failed", log.Err(err))
			if !sleepCtx(ctx, retry.Next()) {
				return ctx.Err()
			}
		} else if n > 0 {
			retry.Reset()
		}

		d.diagnostics()

		select {
		case <-ctx.Done():
			// Final drain so a graceful stop loses nothing already queued.
			d.DrainOnce()
			d.writeStats()
			return ctx.Err()
		default:
		}
		if done != nil {
			select {
			case <-done:
				if d.buf.Len() == 0 {
					d.writeStats()
					return nil
				}
			default:
			}
		}
		if n == 0 {
			if !sleepCtx(ctx, d.poll) {
				d.DrainOnce()
				d.writeStats()
				return ctx.Err()
			}
		}
	}
}

// diagnostics emits the heartbeat while idle and the counter report once
// traffic has been seen.
func (d *Drainer) diagnostics() {
	now := time.Now()
	if d.session.Emitted() == 0 {
		if now.Sub(d.lastBeat) >= d.heartbeat {
			d.lastBeat = now
			d.comment("idle: no activity yet")
		}
		return
	}
	if now.Sub(d.lastStats) >= d.stats {
		d.lastStats = now
		d.writeStats()
	}
}

// writeStats reports the cumulative counters on both channels: a `#` line
// in the stream and a structured log event.
func (d *Drainer) writeStats() {
	emitted := d.session.Emitted()
	dropped := d.buf.Dropped()

	d.scratch = append(d.scratch[:0], record.CommentPrefix...)
	d.scratch = append(d.scratch, "captured="...)
	d.scratch = strconv.AppendUint(d.scratch, emitted, 10)
	d.scratch = append(d.scratch, " dropped="...)
	d.scratch = strconv.AppendUint(d.scratch, dropped, 10)
	d.scratch = append(d.scratch, '\n')
	if _, err := d.sink.Write(d.scratch); err == nil {
		d.sink.Flush()
	}

	d.logger.Info("capture statistics",
		log.Uint64("captured", emitted),
		log.Uint64("dropped", dropped),
		log.Int("buffered", d.buf.Len()))
}

// comment writes one `#` diagnostic line to the sink.
func (d *Drainer) comment(msg string) {
	d.scratch = append(d.scratch[:0], record.CommentPrefix...)
	d.scratch = append(d.scratch, msg...)
	d.scratch = append(d.scratch, '\n')
	if _, err := d.sink.Write(d.scratch); err == nil {
		d.sink.Flush()
	}
}

// sleepCtx waits for d or cancellation; reports false when canceled.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
