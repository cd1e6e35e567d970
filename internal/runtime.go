package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
)

type runtimeConfig struct {
	handler         http.Handler
	logger          *slog.Logger
	baseCtx         context.Context
	address         string
	startupHooks    []func(context.Context) error
	shutdownHooks   []func(context.Context) error
	shutdownTimeout time.Duration
}

func (cfg runtimeConfig) withDefaults() runtimeConfig {
	if cfg.address == "" {
		cfg.address = ":8080"
	}
	if cfg.shutdownTimeout <= 0 {
		cfg.shutdownTimeout = defaultShutdownTimeout
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.DiscardHandler)
	}
	if cfg.baseCtx == nil {
		cfg.baseCtx = context.Background()
	}
	return cfg
}

// runServer serves until SIGINT, SIGTERM, the end of the base context or a
// listener failure. The server is then drained and the shutdown hooks run
// in registration order, sharing one deadline.
func runServer(cfg runtimeConfig) error {
	cfg = cfg.withDefaults()

	ctx, stop := signal.NotifyContext(cfg.baseCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	for i, hook := range cfg.startupHooks {
		if err := hook(ctx); err != nil {
			return errors.Join(fmt.Errorf("startup hook %d: %w", i, err), cfg.shutdown(context.WithoutCancel(ctx)))
		}
	}

	ln, err := net.Listen("tcp", cfg.address)
	if err != nil {
		return errors.Join(err, cfg.shutdown(context.WithoutCancel(ctx)))
	}

	server := &http.Server{
		Handler:           cfg.handler,
		ReadTimeout:       defaultReadTimeout,
		WriteTimeout:      defaultWriteTimeout,
		IdleTimeout:       defaultIdleTimeout,
		ReadHeaderTimeout: defaultReadHeaderTimeout,
		MaxHeaderBytes:    defaultMaxHeaderBytes,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cfg.logger.Info("listening", slog.String("address", ln.Addr().String()))
		if err := server.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		cfg.logger.Info("draining", slog.Duration("timeout", cfg.shutdownTimeout))

		drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.shutdownTimeout)
		defer cancel()
		return errors.Join(server.Shutdown(drainCtx), cfg.shutdown(drainCtx))
	})

	if err := g.Wait(); err != nil {
		cfg.logger.Error("stopped with errors", slog.Any("error", err))
		return err
	}
	cfg.logger.Info("stopped")
	return nil
}

func (cfg runtimeConfig) shutdown(ctx context.Context) error {
	var errs []error
	for i, hook := range cfg.shutdownHooks {
		if err := hook(ctx); err != nil {
			cfg.logger.Error("shutdown hook failed", slog.Int("hook", i), slog.Any("error", err))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
