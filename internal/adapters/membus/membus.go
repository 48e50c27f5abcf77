// Package membus provides an in-memory bus image.
//
// The image is a single atomic word, so a Snapshot is one atomic load and
// every line in the result reflects the same instant, matching what a
// hardware input register read gives the real capture head. The replay
// source and the tests drive the image; the producer only ever reads it.
package membus

import "sync/atomic"

// Bus is an atomically updated image of the monitored lines.
// The zero value is an idle bus with every line low.
type Bus struct {
	state atomic.Uint32
}

// Snapshot returns the current line levels as one word.
func (b *Bus) Snapshot() uint32 {
	return b.state.Load()
}

// Set replaces the whole bus image in one atomic store.
func (b *Bus) Set(snap uint32) {
	b.state.Store(snap)
}
