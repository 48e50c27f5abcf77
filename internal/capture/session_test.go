package capture

import (
	"testing"

	"github.com/google/uuid"
)

func TestSessionIdentity(t *testing.T) {
	a := NewSession()
	b := NewSession()
	if a.ID() == uuid.Nil {
		t.Fatal("session id is nil")
	}
	if a.ID() == b.ID() {
		t.Fatal("two sessions share an id")
	}
}

func TestSessionCounters(t *testing.T) {
	s := NewSession()
	for i := 0; i < 5; i++ {
		s.CountEmitted()
	}
	if got := s.Emitted(); got != 5 {
		t.Fatalf("emitted %d, want 5", got)
	}
	s.Reset()
	if got := s.Emitted(); got != 0 {
		t.Fatalf("emitted %d after reset, want 0", got)
	}
}

func TestSessionElapsed(t *testing.T) {
	s := NewSession()
	a := s.ElapsedUs()
	b := s.ElapsedUs()
	// Free-running unsigned counter: the second reading is at or after the
	// first (wrap takes ~71 minutes, irrelevant here).
	if b-a > 1_000_000 {
		t.Fatalf("elapsed jumped from %d to %d", a, b)
	}
}
