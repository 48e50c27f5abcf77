// Package capture implements the time-critical half of the pipeline: the
// capture session, the deadband coalescer, and the edge event producer.
//
// Everything reachable from [Producer.OnEdge] runs in the edge-triggered
// context and is bound by its contract: no allocation, no locks, no I/O,
// bounded time, no panics. Faults degrade to counted drops.
package capture

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Session is the process-wide capture state: the epoch all timestamps are
// relative to, and the cumulative traffic counters. Counter ownership is
// split to avoid torn updates: Emitted is advanced only by the drain loop,
// drops are owned by the ring buffer, and the epoch changes only on Reset.
type Session struct {
	id      uuid.UUID
	epoch   time.Time
	emitted atomic.Uint64
}

// NewSession starts a session with a fresh identity and epoch.
func NewSession() *Session {
	return &Session{
		id:    uuid.New(),
		epoch: time.Now(),
	}
}

// ID returns the session identity.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// ElapsedUs returns microseconds since the session epoch as a free-running
// 32-bit counter. It wraps after roughly 71.6 minutes; all consumers treat
// it with unsigned modular arithmetic.
func (s *Session) ElapsedUs() uint32 {
	return uint32(time.Since(s.epoch).Microseconds())
}

// CountEmitted advances the emitted-frame counter. Drain loop only.
func (s *Session) CountEmitted() {
	s.emitted.Add(1)
}

// Emitted returns the cumulative number of frames handed to the sink.
func (s *Session) Emitted() uint64 {
	return s.emitted.Load()
}

// Reset re-arms the session with a new epoch and zeroed counters. Only safe
// while both the producer and the drain loop are quiesced; the ring buffer
// and coalescer must be reset together with it.
func (s *Session) Reset() {
	s.epoch = time.Now()
	s.emitted.Store(0)
}
