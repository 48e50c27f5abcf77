package cliconfig

import (
	"strings"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.RingSize != 4096 {
		t.Errorf("ring size %d, want 4096", cfg.RingSize)
	}
	if cfg.DeadbandUs != 3 {
		t.Errorf("deadband %d, want 3", cfg.DeadbandUs)
	}
	if cfg.Speed != 1 {
		t.Errorf("speed %v, want 1", cfg.Speed)
	}
	if cfg.Output != "-" {
		t.Errorf("output %q, want stdout", cfg.Output)
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		cfg := DefaultConfig()
		cfg.Input = "bus.events"
		return cfg
	}

	cfg := valid()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"missing input", func(c *Config) { c.Input = "" }, "input is required"},
		{"ring not power of two", func(c *Config) { c.RingSize = 100 }, "power of two"},
		{"ring too small", func(c *Config) { c.RingSize = 1 }, "power of two"},
		{"negative speed", func(c *Config) { c.Speed = -0.5 }, "negative"},
		{"conflicting sinks", func(c *Config) { c.Output = "out.csv"; c.SerialDevice = "/dev/ttyACM0" }, "mutually exclusive"},
		{"zero poll", func(c *Config) { c.PollInterval = 0 }, "poll interval"},
		{"zero stats", func(c *Config) { c.StatsInterval = 0 }, "stats interval"},
	}
	for _, tc := range cases {
		cfg := valid()
		tc.mutate(&cfg)
		err := cfg.Validate()
		if err == nil {
			t.Errorf("%s: accepted", tc.name)
			continue
		}
		if !strings.Contains(err.Error(), tc.wantErr) {
			t.Errorf("%s: error %q does not mention %q", tc.name, err, tc.wantErr)
		}
	}
}
