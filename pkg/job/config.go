package job

import (
	"log/slog"
	"time"
)

// Config is read from the environment.
type Config struct {
	PurgeSchedule string        `env:"JOB_PURGE_SCHEDULE" envDefault:"0 3 * * *"`
	Retention     time.Duration `env:"PREFS_RETENTION" envDefault:"2160h"`
	MaxWorkers    int           `env:"JOB_MAX_WORKERS" envDefault:"2"`
}

type options struct {
	logger *slog.Logger
}

// Option configures a Manager.
type Option func(*options)

func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
