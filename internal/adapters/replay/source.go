// Package replay drives the pipeline from a recorded event file instead of
// live hardware. It is the supported off-hardware input: each line of the
// file is one edge burst, `<delta_us> <snapshot_hex>`, where delta_us is the
// spacing to the previous event and snapshot_hex is the raw bus word at the
// edge. `#` lines and blank lines are ignored.
//
// In follow mode the source tails a growing file, waking on fsnotify write
// events, so a live recorder can feed the pipeline through the filesystem.
package replay

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/eapache/queue"
	"github.com/fsnotify/fsnotify"

	"github.com/thisoldcpu/opn-paralax/internal/adapters/membus"
	"github.com/thisoldcpu/opn-paralax/internal/ports"
)

// followPollInterval is the fallback wakeup while waiting for file growth;
// fsnotify is the fast path, the ticker covers editors that fsnotify on
// some filesystems misses.
const followPollInterval = 500 * time.Millisecond

type event struct {
	deltaUs uint64
	snap    uint32
}

// Source replays events from a file. It owns the bus image it mutates;
// wire Bus() as the pipeline's BusReader so snapshots observe the replayed
// state.
type Source struct {
	path   string
	follow bool
	speed  float64
	bus    membus.Bus
}

// New returns a source for path. speed scales delivery pacing: 1 replays in
// recorded time, 2 at double speed, 0 delivers as fast as possible. With
// follow set, Run tails the file instead of stopping at its end.
func New(path string, speed float64, follow bool) *Source {
	return &Source{path: path, follow: follow, speed: speed}
}

// Bus returns the bus image the replayed events are applied to.
func (s *Source) Bus() ports.BusReader {
	return &s.bus
}

// Run reads events and fires the handler once per event, pacing by the
// recorded deltas. Returns nil when a non-follow file is exhausted.
func (s *Source) Run(ctx context.Context, fire ports.EdgeFunc) error {
	f, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("replay: %w", err)
	}
	defer f.Close()

	var watcher *fsnotify.Watcher
	if s.follow {
		watcher, err = fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("replay: watcher: %w", err)
		}
		defer watcher.Close()
		// Watch the directory: the file itself may be replaced by renames.
		if err := watcher.Add(filepath.Dir(s.path)); err != nil {
			return fmt.Errorf("replay: watch %s: %w", s.path, err)
		}
	}

	r := bufio.NewReader(f)
	pending := queue.New()
	var carry string
	lineNo := 0

	for {
		// Slurp every complete line currently in the file before pacing
		// delivery, so file I/O stalls never skew the replay timing.
		if err := s.fill(r, &carry, &lineNo, pending); err != nil {
			return err
		}

		for pending.Length() > 0 {
			ev := pending.Remove().(event)
			if ev.deltaUs > 0 && s.speed > 0 {
				d := time.Duration(float64(ev.deltaUs) * float64(time.Microsecond) / s.speed)
				if !sleepCtx(ctx, d) {
					return ctx.Err()
				}
			}
			s.bus.Set(ev.snap)
			fire()
		}

		if !s.follow {
			return nil
		}
		if !s.waitForGrowth(ctx, watcher) {
			return ctx.Err()
		}
	}
}

// fill parses all complete lines available right now into the pending
// queue, carrying any trailing partial line to the next pass.
func (s *Source) fill(r *bufio.Reader, carry *string, lineNo *int, pending *queue.Queue) error {
	for {
		chunk, err := r.ReadString('\n')
		if err == io.EOF {
			*carry += chunk
			return nil
		}
		if err != nil {
			return fmt.Errorf("replay: read: %w", err)
		}
		line := strings.TrimSpace(*carry + chunk)
		*carry = ""
		*lineNo++
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ev, perr := parseEvent(line)
		if perr != nil {
			return fmt.Errorf("replay: line %d: %w", *lineNo, perr)
		}
		pending.Add(ev)
	}
}

func parseEvent(line string) (event, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return event{}, fmt.Errorf("%d fields, want 2 (delta_us snapshot_hex)", len(fields))
	}
	delta, err := strconv.ParseUint(fields[0], 10, 32)
	if err != nil {
		return event{}, fmt.Errorf("delta %q: %w", fields[0], err)
	}
	snap, err := strconv.ParseUint(strings.TrimPrefix(fields[1], "0x"), 16, 32)
	if err != nil {
		return event{}, fmt.Errorf("snapshot %q: %w", fields[1], err)
	}
	return event{deltaUs: delta, snap: uint32(snap)}, nil
}

// waitForGrowth blocks until the file plausibly has more data. Reports
// false on cancellation.
func (s *Source) waitForGrowth(ctx context.Context, watcher *fsnotify.Watcher) bool {
	t := time.NewTimer(followPollInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return false
		case ev := <-watcher.Events:
			if ev.Name == s.path && ev.Op.Has(fsnotify.Write) {
				return true
			}
		case <-watcher.Errors:
			// Fall back to polling.
			return true
		case <-t.C:
			return true
		}
	}
}

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
