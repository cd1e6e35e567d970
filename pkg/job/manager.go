package job

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
)

// Manager owns the River client.
type Manager struct {
	client    *river.Client[pgx.Tx]
	pool      *pgxpool.Pool
	logger    *slog.Logger
	retention PurgeArgs

	mu      sync.Mutex
	started bool
}

func NewManager(pool *pgxpool.Pool, cfg Config, opts ...Option) (*Manager, error) {
	if pool == nil {
		return nil, ErrPoolRequired
	}

	o := options{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}

	schedule, err := ParseSchedule(cfg.PurgeSchedule)
	if err != nil {
		return nil, err
	}

	args := PurgeArgs{Retention: cfg.Retention}
	workers := river.NewWorkers()
	river.AddWorker(workers, NewPurgeWorker(pool, o.logger))

	client, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: max(cfg.MaxWorkers, 1)},
		},
		Workers: workers,
		PeriodicJobs: []*river.PeriodicJob{
			river.NewPeriodicJob(schedule, func() (river.JobArgs, *river.InsertOpts) {
				return args, nil
			}, &river.PeriodicJobOpts{RunOnStart: false}),
		},
		Logger: o.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("job: create client: %w", err)
	}

	return &Manager{client: client, pool: pool, logger: o.logger, retention: args}, nil
}

func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started {
		return ErrAlreadyStarted
	}
	if err := m.client.Start(ctx); err != nil {
		return fmt.Errorf("job: start client: %w", err)
	}
	m.started = true
	m.logger.Info("job manager started")
	return nil
}

// Stop waits for running jobs.
func (m *Manager) Stop(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.started {
		return ErrNotStarted
	}
	if err := m.client.Stop(ctx); err != nil {
		return fmt.Errorf("job: stop client: %w", err)
	}
	m.started = false
	m.logger.Info("job manager stopped")
	return nil
}

// PurgeNow enqueues a purge with the configured retention.
func (m *Manager) PurgeNow(ctx context.Context) error {
	if _, err := m.client.Insert(ctx, m.retention, nil); err != nil {
		return fmt.Errorf("job: enqueue purge: %w", err)
	}
	return nil
}

func (m *Manager) StartFunc() func(context.Context) error {
	return m.Start
}

func (m *Manager) Shutdown() func(context.Context) error {
	return m.Stop
}

// Healthcheck verifies the manager runs and its database answers.
func Healthcheck(m *Manager) func(context.Context) error {
	return func(ctx context.Context) error {
		if m == nil {
			return ErrHealthcheckFailed
		}

		m.mu.Lock()
		started := m.started
		m.mu.Unlock()
		if !started {
			return errors.Join(ErrHealthcheckFailed, ErrNotStarted)
		}
		if err := m.pool.Ping(ctx); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}

// Migrate creates or upgrades River's own tables.
func Migrate(ctx context.Context, pool *pgxpool.Pool, logger *slog.Logger) error {
	migrator, err := rivermigrate.New(riverpgxv5.New(pool), &rivermigrate.Config{Logger: logger})
	if err != nil {
		return errors.Join(ErrMigrate, err)
	}

	res, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, nil)
	if err != nil {
		return errors.Join(ErrMigrate, err)
	}
	for _, v := range res.Versions {
		logger.InfoContext(ctx, "river migration applied", slog.Int("version", v.Version))
	}
	return nil
}
