package domain

// Frame is one encoded, timestamped snapshot of the monitored bus, emitted
// once per accepted edge. A frame is immutable once created and has a fixed
// size so the time-critical path never allocates.
type Frame struct {
	// TUs is the timestamp in microseconds since the session epoch. It is a
	// free-running unsigned counter that wraps at 32 bits; all arithmetic on
	// it must be modular (a - b as uint32), never signed comparison.
	TUs uint32

	// Data holds the eight parallel data-line levels, D0 in bit 0.
	Data uint8

	// Bits holds the packed control/status lines in StatusLine order.
	Bits StatusBits
}

// PinMap describes where each monitored line sits inside a raw snapshot
// word. The zero value is not usable; start from DefaultPinMap. The defaults
// follow the as-built wiring: eight contiguous data lines at bit 2, status
// lines at their GPIO positions.
type PinMap struct {
	// DataBase is the snapshot bit of data line D0; D0..D7 are contiguous.
	DataBase uint8

	// Status maps each StatusLine to its snapshot bit position.
	Status [NumStatusLines]uint8
}

// DefaultPinMap is the as-built wiring of the capture head.
var DefaultPinMap = PinMap{
	DataBase: 2,
	Status: [NumStatusLines]uint8{
		LineStrobe:   10,
		LineAck:      11,
		LineBusy:     12,
		LineAutofeed: 21,
		LineInit:     19,
		LineSelectIn: 18,
		LinePaperOut: 14,
		LineSelect:   15,
		LineError:    20,
	},
}

// DataByte extracts the eight data-line levels from a raw snapshot word.
func (p PinMap) DataByte(snap uint32) uint8 {
	return uint8(snap >> p.DataBase)
}

// PackBits extracts the status lines from a raw snapshot word into their
// fixed StatusBits positions.
func (p PinMap) PackBits(snap uint32) StatusBits {
	var b StatusBits
	for l, pin := range p.Status {
		b |= StatusBits((snap>>pin)&1) << l
	}
	return b
}

// Encode builds a frame from a raw snapshot word and a timestamp. Pure:
// identical inputs always produce the identical frame.
func (p PinMap) Encode(snap uint32, tUs uint32) Frame {
	return Frame{
		TUs:  tUs,
		Data: p.DataByte(snap),
		Bits: p.PackBits(snap),
	}
}

// Word builds a raw snapshot word with the given data byte and status bits
// placed at the map's pin positions. It is the inverse of Encode and exists
// for replay tooling and tests.
func (p PinMap) Word(data uint8, bits StatusBits) uint32 {
	snap := uint32(data) << p.DataBase
	for l, pin := range p.Status {
		snap |= uint32(bits.Bit(StatusLine(l))) << pin
	}
	return snap
}
