package domain

import "testing"

func TestDefaultPinMapEncode(t *testing.T) {
	// Build a snapshot word by hand against the as-built wiring.
	var snap uint32
	snap |= uint32(0xA5) << 2 // D0..D7 at bits 2..9
	snap |= 1 << 10           // strobe
	snap |= 1 << 12           // busy
	snap |= 1 << 20           // error

	f := DefaultPinMap.Encode(snap, 42)
	if f.TUs != 42 {
		t.Fatalf("timestamp %d, want 42", f.TUs)
	}
	if f.Data != 0xA5 {
		t.Fatalf("data %#02x, want 0xA5", f.Data)
	}
	for _, c := range []struct {
		line StatusLine
		want uint8
	}{
		{LineStrobe, 1}, {LineAck, 0}, {LineBusy, 1}, {LineAutofeed, 0},
		{LineInit, 0}, {LineSelectIn, 0}, {LinePaperOut, 0}, {LineSelect, 0},
		{LineError, 1},
	} {
		if got := f.Bits.Bit(c.line); got != c.want {
			t.Errorf("%s: bit %d, want %d", c.line, got, c.want)
		}
	}
}

func TestEncodeIsPure(t *testing.T) {
	snap := DefaultPinMap.Word(0x3C, StatusBits(0).WithBit(LineAck, true))
	a := DefaultPinMap.Encode(snap, 100)
	b := DefaultPinMap.Encode(snap, 100)
	if a != b {
		t.Fatalf("identical inputs produced different frames: %+v vs %+v", a, b)
	}
}

func TestWordInvertsEncode(t *testing.T) {
	for _, data := range []uint8{0x00, 0x01, 0x80, 0xFF, 0x5A} {
		for _, bits := range []StatusBits{0, StatusBits(AllLines), 0x155, 0x0AA} {
			snap := DefaultPinMap.Word(data, bits)
			f := DefaultPinMap.Encode(snap, 0)
			if f.Data != data || f.Bits != bits {
				t.Fatalf("word/encode mismatch: data %#02x->%#02x bits %#03x->%#03x",
					data, f.Data, bits, f.Bits)
			}
		}
	}
}

func TestAllStatusHighScenario(t *testing.T) {
	snap := DefaultPinMap.Word(0x00, StatusBits(AllLines))
	f := DefaultPinMap.Encode(snap, 0)
	if f.Data != 0 {
		t.Fatalf("data %#02x, want 0", f.Data)
	}
	for l := StatusLine(0); int(l) < NumStatusLines; l++ {
		if !f.Bits.High(l) {
			t.Fatalf("%s low, want high", l)
		}
	}
}
