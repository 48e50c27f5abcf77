// Package fs persists the end-of-run capture summary.
package fs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

const summaryFileName = "summary.json"

// Summary is the diagnostic record written when a capture run ends. It
// holds counters only, never frame data.
type Summary struct {
	SessionID string        `json:"session_id"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration_ns"`
	Captured  uint64        `json:"captured"`
	Dropped   uint64        `json:"dropped"`
}

// SummaryWriter writes run summaries into a directory.
type SummaryWriter struct {
	dir string
}

// NewSummaryWriter returns a writer for the given directory.
func NewSummaryWriter(dir string) *SummaryWriter {
	return &SummaryWriter{dir: dir}
}

// Save persists the summary atomically: write to a temp file, then rename,
// so a crash mid-write never leaves a torn summary.
func (w *SummaryWriter) Save(s Summary) error {
	if err := os.MkdirAll(w.dir, 0o700); err != nil {
		return err
	}

	path := filepath.Join(w.dir, summaryFileName)
	tmp := path + ".tmp"

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Load reads a previously saved summary. Returns ok == false if none
// exists.
func (w *SummaryWriter) Load() (Summary, bool, error) {
	data, err := os.ReadFile(filepath.Join(w.dir, summaryFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return Summary{}, false, nil
		}
		return Summary{}, false, err
	}
	var s Summary
	if err := json.Unmarshal(data, &s); err != nil {
		return Summary{}, false, err
	}
	return s, true, nil
}

// Path returns the summary file location.
func (w *SummaryWriter) Path() string {
	return filepath.Join(w.dir, summaryFileName)
}
