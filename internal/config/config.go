// Package config reads CLI defaults from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// CLI holds the settings the if97 command takes from the environment.
// Flags override every field.
type CLI struct {
	LogLevel slog.Level
	NoColor  bool
	Fixture  string // reference table path; empty means the embedded one
}

// FromEnv builds a CLI config from IF97_LOG_LEVEL, IF97_FIXTURE and
// NO_COLOR.
func FromEnv() (CLI, error) {
	cfg := CLI{LogLevel: slog.LevelWarn}

	if v := os.Getenv("IF97_LOG_LEVEL"); v != "" {
		lvl, err := ParseLevel(v)
		if err != nil {
			return CLI{}, fmt.Errorf("IF97_LOG_LEVEL: %w", err)
		}
		cfg.LogLevel = lvl
	}
	cfg.Fixture = os.Getenv("IF97_FIXTURE")

	// https://no-color.org: any non-empty value disables colour.
	cfg.NoColor = os.Getenv("NO_COLOR") != ""

	return cfg, nil
}

// ParseLevel accepts debug, info, warn and error in any case.
func ParseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("unknown log level %q", s)
	}
	return lvl, nil
}
