package cliconfig

import (
	"os"
	"strconv"
	"strings"
)

// ApplyEnvConfig layers PARALAX_* environment variables onto cfg. Env
// values override the config file but lose to explicit flags.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("input", os.Getenv("PARALAX_INPUT"), &cfg.Input)
	s.setString("output", os.Getenv("PARALAX_OUTPUT"), &cfg.Output)
	s.setString("serial-device", os.Getenv("PARALAX_SERIAL_DEVICE"), &cfg.SerialDevice)
	s.setString("summary-dir", os.Getenv("PARALAX_SUMMARY_DIR"), &cfg.SummaryDir)
	s.setBoolFromString("follow", os.Getenv("PARALAX_FOLLOW"), &cfg.Follow)
	s.setBoolFromString("data-only", os.Getenv("PARALAX_DATA_ONLY"), &cfg.DataOnly)
	s.setBoolFromString("quiet", os.Getenv("PARALAX_QUIET"), &cfg.Quiet)

	if v := os.Getenv("PARALAX_LINES"); v != "" && !changed["lines"] {
		cfg.Lines = splitLines(v)
	}
	if v := os.Getenv("PARALAX_DEADBAND_US"); v != "" && !changed["deadband"] {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n >= 0 {
			s.setUint32("deadband", n, &cfg.DeadbandUs)
		}
	}
	if err := s.setIntFromString("ring-size", os.Getenv("PARALAX_RING_SIZE"), &cfg.RingSize); err != nil {
		return err
	}
	if err := s.setIntFromString("baud", os.Getenv("PARALAX_BAUD"), &cfg.Baud); err != nil {
		return err
	}
	if err := s.setFloatFromString("speed", os.Getenv("PARALAX_SPEED"), &cfg.Speed); err != nil {
		return err
	}
	if err := s.setDuration("poll", os.Getenv("PARALAX_POLL"), &cfg.PollInterval); err != nil {
		return err
	}
	return s.setDuration("stats-interval", os.Getenv("PARALAX_STATS_INTERVAL"), &cfg.StatsInterval)
}

func splitLines(v string) []string {
	parts := strings.Split(v, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
