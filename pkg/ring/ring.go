// Package ring provides a fixed-capacity lock-free ring buffer for exactly
// one producer and one consumer.
//
// The buffer is the only state shared between the time-critical capture
// path and the drain loop. Ownership is split: the producer is the only
// writer of the tail index, the consumer is the only writer of the head
// index. Calling TryEnqueue from more than one goroutine, or TryDequeue
// from more than one goroutine, is a contract violation.
//
// Head and tail are free-running uint64 counters; the slot index is the
// counter masked by capacity-1, so the full capacity is usable and
// emptiness is head == tail. A full buffer drops the offered element and
// counts it; buffered elements are never overwritten.
package ring

import "sync/atomic"

// Buffer is a single-producer single-consumer lock-free ring buffer.
// Capacity must be a power of two and is fixed for the buffer's lifetime.
type Buffer[T any] struct {
	slots []T
	mask  uint64

	head  atomic.Uint64 // consumer-owned
	tail  atomic.Uint64 // producer-owned
	drops atomic.Uint64
}

// New allocates a buffer with the given capacity, which must be a power of
// two. The backing array is allocated once and never resized.
func New[T any](capacity int) *Buffer[T] {
	if capacity <= 0 || capacity&(capacity-1) != 0 {
		panic("ring: capacity must be a power of two")
	}
	return &Buffer[T]{
		slots: make([]T, capacity),
		mask:  uint64(capacity - 1),
	}
}

// TryEnqueue offers one element. It never blocks and never overwrites: when
// the buffer is full the element is discarded, the drop counter is
// incremented, and false is returned. Producer-only.
//
// The slot is fully written before the tail is advanced, so the consumer
// can never observe a partially written element.
func (b *Buffer[T]) TryEnqueue(v T) bool {
	tail := b.tail.Load()
	head := b.head.Load()
	if tail-head == uint64(len(b.slots)) {
		b.drops.Add(1)
		return false
	}
	b.slots[tail&b.mask] = v
	b.tail.Store(tail + 1) // publish last
	return true
}

// TryDequeue removes and returns the oldest element. Returns ok == false
// when the buffer is empty. Consumer-only.
func (b *Buffer[T]) TryDequeue() (v T, ok bool) {
	head := b.head.Load()
	if head == b.tail.Load() {
		return v, false
	}
	v = b.slots[head&b.mask]
	b.head.Store(head + 1)
	return v, true
}

// Len returns the number of buffered elements. Safe from either side; the
// value is a snapshot and may be stale by the time it is used.
func (b *Buffer[T]) Len() int {
	return int(b.tail.Load() - b.head.Load())
}

// Cap returns the fixed capacity.
func (b *Buffer[T]) Cap() int {
	return len(b.slots)
}

// Dropped returns the cumulative number of elements discarded because the
// buffer was full.
func (b *Buffer[T]) Dropped() uint64 {
	return b.drops.Load()
}

// Reset rewinds both indices and the drop counter. It must only be called
// while neither side is active; it is intended for session restart, which
// happens with the producer disarmed and the drain loop stopped.
func (b *Buffer[T]) Reset() {
	b.head.Store(0)
	b.tail.Store(0)
	b.drops.Store(0)
}
