package fs

import (
	"testing"
	"time"
)

func TestSummaryRoundTrip(t *testing.T) {
	w := NewSummaryWriter(t.TempDir())

	if _, ok, err := w.Load(); err != nil || ok {
		t.Fatalf("expected no summary yet, got ok=%v err=%v", ok, err)
	}

	want := Summary{
		SessionID: "0c7a4f2e-0000-0000-0000-000000000001",
		StartedAt: time.Now().UTC().Truncate(time.Second),
		Duration:  90 * time.Second,
		Captured:  12345,
		Dropped:   7,
	}
	if err := w.Save(want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, ok, err := w.Load()
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestSummaryOverwrite(t *testing.T) {
	w := NewSummaryWriter(t.TempDir())
	if err := w.Save(Summary{Captured: 1}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := w.Save(Summary{Captured: 2}); err != nil {
		t.Fatalf("second save: %v", err)
	}
	got, ok, err := w.Load()
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if got.Captured != 2 {
		t.Fatalf("captured %d, want 2", got.Captured)
	}
}
