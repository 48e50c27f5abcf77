package cliconfig

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFileConfig(t *testing.T) {
	path := writeConfigFile(t, `
input = "captures/bus.events"
follow = true
speed = 2.5
ring_size = 8192
deadband_us = 10
lines = ["strobe", "busy", "ack"]
output = "out.csv"
summary_dir = "/var/lib/paralax"
poll_interval = "1ms"
stats_interval = "30s"
quiet = false
`)
	fc, err := LoadFileConfig(path)
	if err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	if err := ApplyFileConfig(&cfg, fc, nil); err != nil {
		t.Fatal(err)
	}

	if cfg.Input != "captures/bus.events" {
		t.Errorf("input %q", cfg.Input)
	}
	if !cfg.Follow {
		t.Error("follow not applied")
	}
	if cfg.Speed != 2.5 {
		t.Errorf("speed %v", cfg.Speed)
	}
	if cfg.RingSize != 8192 {
		t.Errorf("ring size %d", cfg.RingSize)
	}
	if cfg.DeadbandUs != 10 {
		t.Errorf("deadband %d", cfg.DeadbandUs)
	}
	if want := []string{"strobe", "busy", "ack"}; !reflect.DeepEqual(cfg.Lines, want) {
		t.Errorf("lines %v, want %v", cfg.Lines, want)
	}
	if cfg.Output != "out.csv" {
		t.Errorf("output %q", cfg.Output)
	}
	if cfg.PollInterval != time.Millisecond {
		t.Errorf("poll %v", cfg.PollInterval)
	}
	if cfg.StatsInterval != 30*time.Second {
		t.Errorf("stats %v", cfg.StatsInterval)
	}
	if cfg.Quiet {
		t.Error("quiet applied despite false")
	}
}

func TestFileConfigPartial(t *testing.T) {
	path := writeConfigFile(t, `deadband_us = 25`)
	fc, err := LoadFileConfig(path)
	if err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	if err := ApplyFileConfig(&cfg, fc, nil); err != nil {
		t.Fatal(err)
	}
	if cfg.DeadbandUs != 25 {
		t.Errorf("deadband %d, want 25", cfg.DeadbandUs)
	}
	if cfg.RingSize != 4096 {
		t.Errorf("ring size %d, defaults clobbered", cfg.RingSize)
	}
	if cfg.Output != "-" {
		t.Errorf("output %q, defaults clobbered", cfg.Output)
	}
}

func TestFileConfigFlagPrecedence(t *testing.T) {
	path := writeConfigFile(t, `
input = "file.events"
ring_size = 8192
`)
	fc, err := LoadFileConfig(path)
	if err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	cfg.Input = "flag.events"
	cfg.RingSize = 1024
	changed := map[string]bool{"input": true, "ring-size": true}
	if err := ApplyFileConfig(&cfg, fc, changed); err != nil {
		t.Fatal(err)
	}
	if cfg.Input != "flag.events" {
		t.Errorf("input %q, flag value lost", cfg.Input)
	}
	if cfg.RingSize != 1024 {
		t.Errorf("ring size %d, flag value lost", cfg.RingSize)
	}
}

func TestLoadFileConfigBadToml(t *testing.T) {
	path := writeConfigFile(t, `input = [unterminated`)
	if _, err := LoadFileConfig(path); err == nil {
		t.Fatal("malformed TOML accepted")
	}
}

func TestLoadFileConfigBadDuration(t *testing.T) {
	path := writeConfigFile(t, `poll_interval = "fast"`)
	fc, err := LoadFileConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	cfg := DefaultConfig()
	if err := ApplyFileConfig(&cfg, fc, nil); err == nil {
		t.Fatal("bad duration accepted")
	}
}
