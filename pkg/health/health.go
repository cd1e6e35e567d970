package health

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// CheckFunc fits the Healthcheck closures of pkg/redis, pkg/db and pkg/job.
type CheckFunc func(ctx context.Context) error

// Optional marks a check whose failure degrades the service without taking
// it out of rotation, e.g. the upstream fare API.
func Optional(fn CheckFunc) CheckFunc {
	return func(ctx context.Context) error {
		if err := fn(ctx); err != nil {
			return &optionalError{err: err}
		}
		return nil
	}
}

// Checks maps names to checks.
type Checks map[string]CheckFunc

type Response struct {
	Checks map[string]Check `json:"checks,omitempty"`
	Status string           `json:"status"`
}

type Check struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type config struct {
	logger  *slog.Logger
	timeout time.Duration
}

type Option func(*config)

// WithTimeout bounds the whole readiness run. Default: 5s.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

func newConfig(opts ...Option) *config {
	cfg := &config{
		timeout: 5 * time.Second,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Run executes checks concurrently. A failing check does not cancel the
// others.
func Run(ctx context.Context, checks Checks, opts ...Option) *Response {
	return run(ctx, checks, newConfig(opts...))
}

func run(ctx context.Context, checks Checks, cfg *config) *Response {
	if len(checks) == 0 {
		return &Response{Status: StatusHealthy}
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()

	var (
		mu      sync.Mutex
		g       errgroup.Group
		results = make(map[string]Check, len(checks))
		status  = StatusHealthy
	)

	for name, check := range checks {
		g.Go(func() error {
			res := evaluate(ctx, check)
			if res.Status != StatusHealthy {
				cfg.logger.WarnContext(ctx, "health check failed",
					slog.String("check", name),
					slog.String("status", res.Status),
					slog.String("error", res.Error),
				)
			}

			mu.Lock()
			defer mu.Unlock()
			results[name] = res
			status = worse(status, res.Status)
			return nil
		})
	}
	_ = g.Wait()

	return &Response{Status: status, Checks: results}
}

func evaluate(ctx context.Context, check CheckFunc) Check {
	err := check(ctx)
	if err == nil {
		return Check{Status: StatusHealthy}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		err = errors.Join(ErrCheckTimeout, err)
	}

	var opt *optionalError
	if errors.As(err, &opt) {
		return Check{Status: StatusDegraded, Error: err.Error()}
	}
	return Check{Status: StatusUnhealthy, Error: err.Error()}
}

var severity = map[string]int{StatusHealthy: 0, StatusDegraded: 1, StatusUnhealthy: 2}

func worse(a, b string) string {
	if severity[b] > severity[a] {
		return b
	}
	return a
}
