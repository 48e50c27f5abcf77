package capture

import (
	"github.com/thisoldcpu/opn-paralax/internal/domain"
	"github.com/thisoldcpu/opn-paralax/internal/ports"
	"github.com/thisoldcpu/opn-paralax/pkg/ring"
)

// Producer is the edge event handler: it turns qualifying edges into frames
// and enqueues them. OnEdge is the only entry point and runs in the
// time-critical context; it is non-blocking, allocation-free, and never
// panics. When the ring is full the frame is dropped and counted, never
// retried.
//
// Producer owns the write side of the ring buffer; nothing else may
// enqueue. It must be driven from exactly one goroutine.
type Producer struct {
	bus       ports.BusReader
	buf       *ring.Buffer[domain.Frame]
	coalescer *Coalescer
	pins      domain.PinMap
	elapsed   func() uint32
}

// NewProducer wires the producer to its bus, buffer, and clock. elapsed
// reports microseconds since the session epoch (see Session.ElapsedUs); it
// is injected so tests can drive time explicitly.
func NewProducer(bus ports.BusReader, buf *ring.Buffer[domain.Frame], c *Coalescer, pins domain.PinMap, elapsed func() uint32) *Producer {
	return &Producer{
		bus:       bus,
		buf:       buf,
		coalescer: c,
		pins:      pins,
		elapsed:   elapsed,
	}
}

// OnEdge handles one electrical edge. Steps, all bounded: timestamp,
// deadband check, bus snapshot, encode, try-enqueue.
func (p *Producer) OnEdge() {
	t := p.elapsed()
	if !p.coalescer.Accept(t) {
		return
	}
	snap := p.bus.Snapshot()
	p.buf.TryEnqueue(p.pins.Encode(snap, t)) // full buffer counts a drop
}
