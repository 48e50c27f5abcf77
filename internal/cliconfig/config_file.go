package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config with TOML-friendly types: durations are
// strings, booleans are pointers so "unset" and "false" stay distinct.
type FileConfig struct {
	Input        string   `toml:"input"`
	Follow       *bool    `toml:"follow"`
	Speed        float64  `toml:"speed"`
	RingSize     int      `toml:"ring_size"`
	DeadbandUs   int64    `toml:"deadband_us"`
	Lines        []string `toml:"lines"`
	DataOnly     *bool    `toml:"data_only"`
	Output       string   `toml:"output"`
	SerialDevice string   `toml:"serial_device"`
	Baud         int      `toml:"baud"`
	SummaryDir   string   `toml:"summary_dir"`

	PollInterval      string `toml:"poll_interval"`
	StatsInterval     string `toml:"stats_interval"`
	HeartbeatInterval string `toml:"heartbeat_interval"`

	Quiet *bool `toml:"quiet"`
}

// LoadFileConfig reads and parses a TOML config file.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, fmt.Errorf("parse %s: %w", path, err)
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.paralax/config.toml when the home directory
// is known, otherwise "".
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".paralax", "config.toml")
	}
	return ""
}

// ApplyFileConfig layers file values onto cfg, skipping anything an
// explicit flag already set.
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("input", fc.Input, &cfg.Input)
	s.setBool("follow", fc.Follow, &cfg.Follow)
	s.setFloat("speed", fc.Speed, &cfg.Speed)
	s.setInt("ring-size", fc.RingSize, &cfg.RingSize)
	if fc.DeadbandUs > 0 {
		s.setUint32("deadband", fc.DeadbandUs, &cfg.DeadbandUs)
	}
	s.setStrings("lines", fc.Lines, &cfg.Lines)
	s.setBool("data-only", fc.DataOnly, &cfg.DataOnly)
	s.setString("output", fc.Output, &cfg.Output)
	s.setString("serial-device", fc.SerialDevice, &cfg.SerialDevice)
	s.setInt("baud", fc.Baud, &cfg.Baud)
	s.setString("summary-dir", fc.SummaryDir, &cfg.SummaryDir)
	s.setBool("quiet", fc.Quiet, &cfg.Quiet)

	if err := s.setDuration("poll", fc.PollInterval, &cfg.PollInterval); err != nil {
		return err
	}
	if err := s.setDuration("stats-interval", fc.StatsInterval, &cfg.StatsInterval); err != nil {
		return err
	}
	return s.setDuration("heartbeat-interval", fc.HeartbeatInterval, &cfg.HeartbeatInterval)
}
