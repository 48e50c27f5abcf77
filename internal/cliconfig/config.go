// Package cliconfig layers the CLI configuration: defaults, then the TOML
// config file, then PARALAX_* environment variables, then flags. A value
// explicitly set by a flag always wins; the changed-flags map carries that
// precedence through the file and env passes.
package cliconfig

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the CLI configuration for paralax.
type Config struct {
	Input  string
	Follow bool
	Speed  float64

	RingSize   int
	DeadbandUs uint32
	Lines      []string
	DataOnly   bool

	Output       string
	SerialDevice string
	Baud         int
	SummaryDir   string

	PollInterval      time.Duration
	StatsInterval     time.Duration
	HeartbeatInterval time.Duration

	Quiet bool
}

// DefaultConfig returns a Config with the as-built defaults.
func DefaultConfig() Config {
	return Config{
		Speed:             1,
		RingSize:          4096,
		DeadbandUs:        3,
		Output:            "-",
		PollInterval:      500 * time.Microsecond,
		StatsInterval:     5 * time.Second,
		HeartbeatInterval: 10 * time.Second,
	}
}

// Validate checks the configuration for errors the CLI can report before
// the pipeline is built.
func (c *Config) Validate() error {
	if c.Input == "" {
		return fmt.Errorf("input is required (an event file to replay)")
	}
	if c.RingSize < 2 || c.RingSize&(c.RingSize-1) != 0 {
		return fmt.Errorf("ring-size %d must be a power of two", c.RingSize)
	}
	if c.Speed < 0 {
		return fmt.Errorf("speed must not be negative")
	}
	if c.Output != "-" && c.Output != "" && c.SerialDevice != "" {
		return fmt.Errorf("output file and serial device are mutually exclusive")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive")
	}
	if c.StatsInterval <= 0 {
		return fmt.Errorf("stats interval must be positive")
	}
	return nil
}

// configSetter applies layered values while respecting flag precedence:
// a value is skipped when its flag was set explicitly.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

func (s *configSetter) setUint32(flag string, value int64, dst *uint32) {
	if value < 0 || s.changed[flag] {
		return
	}
	*dst = uint32(value)
}

func (s *configSetter) setFloat(flag string, value float64, dst *float64) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

func (s *configSetter) setStrings(flag string, value []string, dst *[]string) {
	if len(value) == 0 || s.changed[flag] {
		return
	}
	*dst = value
}

func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

func (s *configSetter) setFloatFromString(flag, value string, dst *float64) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if f < 0 {
		return nil
	}
	*dst = f
	return nil
}

func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}

// FileExists reports whether path names an existing file.
func FileExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}
