package logger

import (
	"errors"
	"io"
	"log/slog"
	"os"
)

var ErrUnknownFormat = errors.New("logger: unknown format")

type options struct {
	out        io.Writer
	extractors []ContextExtractor
}

// Option configures New.
type Option func(*options)

// WithWriter replaces stdout.
func WithWriter(w io.Writer) Option {
	return func(o *options) { o.out = w }
}

// WithExtractors adds context extractors to every record.
func WithExtractors(extractors ...ContextExtractor) Option {
	return func(o *options) { o.extractors = append(o.extractors, extractors...) }
}

// New builds a logger from cfg. An invalid format falls back to JSON and
// is reported through the returned logger itself.
func New(cfg Config, opts ...Option) *slog.Logger {
	o := options{out: os.Stdout}
	for _, opt := range opts {
		opt(&o)
	}

	handlerOpts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var local slog.Handler
	if cfg.Format == "text" {
		local = slog.NewTextHandler(o.out, handlerOpts)
	} else {
		local = slog.NewJSONHandler(o.out, handlerOpts)
	}

	handler := local
	sentryHandler, sentryErr := newSentryHandler(cfg)
	if sentryHandler != nil {
		handler = newMultiHandler(local, sentryHandler)
	}

	log := slog.New(NewDecorator(handler, o.extractors...))
	if err := cfg.validate(); err != nil {
		log.Warn("invalid logger config", slog.Any("error", err))
	}
	if sentryErr != nil {
		log.Error("failed to initialize sentry", slog.Any("error", sentryErr))
	}
	return log
}

// NewNope returns a logger that discards everything.
func NewNope() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
