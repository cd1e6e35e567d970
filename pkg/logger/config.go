package logger

import (
	"fmt"
	"log/slog"
	"strings"
)

// Config is read from the environment.
type Config struct {
	Level     string `env:"LOG_LEVEL" envDefault:"info"`
	Format    string `env:"LOG_FORMAT" envDefault:"json"`
	SentryDSN string `env:"SENTRY_DSN"`
	// Environment is reported to Sentry.
	Environment string `env:"ENV" envDefault:"production"`
}

// SlogLevel parses Level. Unknown values fall back to info.
func (c Config) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(c.Level))); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func (c Config) validate() error {
	switch c.Format {
	case "", "json", "text":
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, c.Format)
}
