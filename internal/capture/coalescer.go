package capture

// DefaultDeadbandUs is the default coalescing window. It exceeds the line
// skew observed during a single bus write but stays far below the fastest
// legitimate sample interval of any supported source device.
const DefaultDeadbandUs = 3

// Coalescer suppresses redundant frames triggered by electrical ringing: a
// single logical bus transition arrives as a burst of edges a few
// microseconds apart, and only the first of the burst should become a
// frame. Producer-context only; not safe for concurrent use.
type Coalescer struct {
	deadband uint32
	last     uint32
	primed   bool
}

// NewCoalescer returns a coalescer with the given window in microseconds.
func NewCoalescer(deadbandUs uint32) *Coalescer {
	return &Coalescer{deadband: deadbandUs}
}

// Accept reports whether an edge at t should produce a frame, and if so
// records t as the new reference. The comparison t-last is unsigned and
// modular, so it stays correct across timestamp wraparound. The first edge
// after construction or Reset is always accepted.
func (c *Coalescer) Accept(t uint32) bool {
	if c.primed && t-c.last <= c.deadband {
		return false
	}
	c.primed = true
	c.last = t
	return true
}

// Reset forgets the reference timestamp. Only safe while the producer is
// quiesced.
func (c *Coalescer) Reset() {
	c.primed = false
	c.last = 0
}
