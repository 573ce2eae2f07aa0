// Package logging builds the process logger from environment settings.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config is read from PANTRY_LOG_* environment variables.
type Config struct {
	Level  string `env:"PANTRY_LOG_LEVEL" envDefault:"info"`
	Format string `env:"PANTRY_LOG_FORMAT" envDefault:"text"`
}

// ParseEnv loads Config from the environment.
func ParseEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("log level %q: %w", s, err)
	}
	return level, nil
}

// New returns a logger writing to w. A non-empty levelOverride takes
// precedence over cfg.Level.
func New(w io.Writer, cfg Config, levelOverride string) (*slog.Logger, error) {
	name := cfg.Level
	if levelOverride != "" {
		name = levelOverride
	}
	level, err := ParseLevel(name)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(cfg.Format) {
	case "", FormatText:
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case FormatJSON:
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("log format %q: want %s or %s", cfg.Format, FormatText, FormatJSON)
	}
}
