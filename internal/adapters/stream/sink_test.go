package stream

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestSinkBuffersUntilFlush(t *testing.T) {
	var buf bytes.Buffer
	s := NewSink(&buf)

	if _, err := s.Write([]byte("10,4F,1,1,0,1,1,1,1,1,1\n")); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("write reached underlying writer before flush: %q", buf.String())
	}
	if err := s.Flush(); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "10,4F,1,1,0,1,1,1,1,1,1\n" {
		t.Errorf("flushed %q", got)
	}
}

func TestFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	s, err := NewFileSink(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Write([]byte("# header\n")); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Write([]byte("0,00,1,1,1,1,1,1,1,1,1\n")); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := string(b); got != "# header\n0,00,1,1,1,1,1,1,1,1,1\n" {
		t.Errorf("file contents %q", got)
	}
}

func TestFileSinkBadPath(t *testing.T) {
	if _, err := NewFileSink(filepath.Join(t.TempDir(), "missing", "out.csv")); err == nil {
		t.Fatal("expected error for unwritable path")
	}
}
