package domain

import "testing"

func TestStatusLineOrderIsStable(t *testing.T) {
	// The wire contract: column order must never change.
	want := []string{
		"strobe", "ack", "busy", "autofeed", "init", "selectin",
		"paper_out", "select", "error",
	}
	if NumStatusLines != len(want) {
		t.Fatalf("NumStatusLines = %d, want %d", NumStatusLines, len(want))
	}
	for i, name := range want {
		if got := StatusLine(i).String(); got != name {
			t.Errorf("line %d = %q, want %q", i, got, name)
		}
	}
}

func TestLineByName(t *testing.T) {
	for l := StatusLine(0); int(l) < NumStatusLines; l++ {
		got, ok := LineByName(l.String())
		if !ok || got != l {
			t.Errorf("LineByName(%q) = %v, %v", l.String(), got, ok)
		}
	}
	if _, ok := LineByName("bogus"); ok {
		t.Error("LineByName accepted an unknown name")
	}
}

func TestStatusBitsAccess(t *testing.T) {
	var b StatusBits
	b = b.WithBit(LineBusy, true).WithBit(LineError, true)
	if !b.High(LineBusy) || !b.High(LineError) {
		t.Fatalf("set bits not readable: %#03x", b)
	}
	if b.High(LineStrobe) {
		t.Fatalf("unset bit reads high: %#03x", b)
	}
	b = b.WithBit(LineBusy, false)
	if b.High(LineBusy) {
		t.Fatal("cleared bit still high")
	}
}

func TestLineSet(t *testing.T) {
	if AllLines.Count() != NumStatusLines {
		t.Fatalf("AllLines.Count() = %d, want %d", AllLines.Count(), NumStatusLines)
	}
	s := LineSet(0).With(LineStrobe).With(LineAck)
	if s.Count() != 2 || !s.Has(LineStrobe) || !s.Has(LineAck) || s.Has(LineBusy) {
		t.Fatalf("line set built wrong: %#03x", s)
	}
}
