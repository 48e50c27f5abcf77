package app

import (
	"math/rand"
	"time"
)

// Default sink-retry backoff bounds.
const (
	DefaultBackoffInitial = 100 * time.Millisecond
	DefaultBackoffMax     = 5 * time.Second
)

// backoff implements exponential backoff with jitter. It paces retries
// after sink write failures; the producer keeps running (and counting
// drops) while the drain loop backs off, so a slow or broken sink never
// halts capture.
type backoff struct {
	initial time.Duration
	max     time.Duration
	current time.Duration
}

func newBackoff(initial, max time.Duration) *backoff {
	return &backoff{initial: initial, max: max, current: initial}
}

// Next returns the duration to wait before the next retry and advances the
// schedule. Jitter is ±20%.
func (b *backoff) Next() time.Duration {
	jitter := float64(b.current) * 0.2 * (rand.Float64()*2 - 1)
	d := time.Duration(float64(b.current) + jitter)
	b.current *= 2
	if b.current > b.max {
		b.current = b.max
	}
	return d
}

// Reset rewinds the schedule after a success.
func (b *backoff) Reset() {
	b.current = b.initial
}
