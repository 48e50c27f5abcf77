package domain

// StatusLine identifies one monitored control/status line. The numeric value
// is the line's bit position inside StatusBits and its column position in the
// output record. This ordering is the wire contract: consumers parse records
// by position, so it must never be reordered. New lines may only be appended.
type StatusLine uint8

const (
	LineStrobe StatusLine = iota
	LineAck
	LineBusy
	LineAutofeed
	LineInit
	LineSelectIn
	LinePaperOut
	LineSelect
	LineError

	// NumStatusLines is the number of monitored control/status lines.
	NumStatusLines = int(iota)
)

var lineNames = [NumStatusLines]string{
	"strobe", "ack", "busy", "autofeed", "init", "selectin", "paper_out", "select", "error",
}

// String returns the line's column name as used in the stream header.
func (l StatusLine) String() string {
	if int(l) >= NumStatusLines {
		return "unknown"
	}
	return lineNames[l]
}

// LineByName resolves a column name back to its StatusLine.
// Returns false if the name is not a known line.
func LineByName(name string) (StatusLine, bool) {
	for i, n := range lineNames {
		if n == name {
			return StatusLine(i), true
		}
	}
	return 0, false
}

// StatusBits is the packed control/status snapshot of a frame. Bit i holds
// the logic level of StatusLine(i) at snapshot time.
type StatusBits uint16

// Bit returns the logic level of the given line as 0 or 1.
func (b StatusBits) Bit(l StatusLine) uint8 {
	return uint8((b >> l) & 1)
}

// High reports whether the given line was at logic high.
func (b StatusBits) High(l StatusLine) bool {
	return b.Bit(l) == 1
}

// WithBit returns a copy of b with the given line forced to the given level.
func (b StatusBits) WithBit(l StatusLine, high bool) StatusBits {
	if high {
		return b | 1<<l
	}
	return b &^ (1 << l)
}

// LineSet is a bitmask selecting which status lines are rendered in output
// records. The frame always carries all lines; the set only narrows what the
// serializer emits.
type LineSet uint16

// AllLines enables every monitored status line.
const AllLines LineSet = 1<<NumStatusLines - 1

// Has reports whether the set contains the given line.
func (s LineSet) Has(l StatusLine) bool {
	return s&(1<<l) != 0
}

// With returns a copy of s with the given line enabled.
func (s LineSet) With(l StatusLine) LineSet {
	return s | 1<<l
}

// Count returns the number of enabled lines.
func (s LineSet) Count() int {
	n := 0
	for l := StatusLine(0); int(l) < NumStatusLines; l++ {
		if s.Has(l) {
			n++
		}
	}
	return n
}
