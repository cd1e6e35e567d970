package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tripmux/tripmux"
	"github.com/tripmux/tripmux/pkg/cache"
	"github.com/tripmux/tripmux/pkg/db"
	"github.com/tripmux/tripmux/pkg/fares"
	"github.com/tripmux/tripmux/pkg/job"
	"github.com/tripmux/tripmux/pkg/kv"
	"github.com/tripmux/tripmux/pkg/redis"
)

const placeCacheTTL = 10 * time.Minute

// backend is the preference storage selected by STORAGE_DRIVER plus
// everything the server needs to run and stop it.
type backend struct {
	Store      kv.Store
	PlaceCache cache.Cache[[]fares.Place]
	Checks     []tripmux.HealthOption
	Lifecycle  []tripmux.Lifecycle
	Shutdown   []func(context.Context) error
}

func openBackend(ctx context.Context, cfg Config, log *slog.Logger) (*backend, error) {
	switch cfg.StorageDriver {
	case DriverRedis:
		return openRedis(ctx, cfg, log)
	case DriverPostgres:
		return openPostgres(ctx, cfg, log)
	default:
		return &backend{Store: kv.NewMemory()}, nil
	}
}

func openRedis(ctx context.Context, cfg Config, log *slog.Logger) (*backend, error) {
	client, err := redis.Open(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}
	log.InfoContext(ctx, "preferences stored in redis")

	prefsCache := cache.NewRedis[string](client, cache.String{},
		cache.WithPrefix("tripmux:prefs"),
		cache.WithRedisDefaultTTL(cfg.Job.Retention),
		cache.WithSlidingTTL(),
	)
	places := cache.NewRedis[[]fares.Place](client, cache.JSON[[]fares.Place]{},
		cache.WithPrefix("tripmux:places"),
	)
	return &backend{
		Store:      kv.NewCached(prefsCache),
		PlaceCache: places,
		Checks:     []tripmux.HealthOption{tripmux.WithReadinessCheck("redis", redis.Healthcheck(client))},
		Shutdown:   []func(context.Context) error{redis.Shutdown(client)},
	}, nil
}

func openPostgres(ctx context.Context, cfg Config, log *slog.Logger) (*backend, error) {
	pool, err := db.Connect(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if err := migrateAll(ctx, pool, cfg.DB.MigrationsTable, log); err != nil {
		pool.Close()
		return nil, err
	}

	jobs, err := job.NewManager(pool, cfg.Job, job.WithLogger(log.With(slog.String("component", "jobs"))))
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("jobs: %w", err)
	}
	log.InfoContext(ctx, "preferences stored in postgres")

	return &backend{
		Store: kv.NewPostgres(pool),
		Checks: []tripmux.HealthOption{
			tripmux.WithReadinessCheck("postgres", db.Healthcheck(pool)),
			tripmux.WithReadinessCheck("jobs", job.Healthcheck(jobs)),
		},
		Lifecycle: []tripmux.Lifecycle{jobs},
		Shutdown:  []func(context.Context) error{db.Shutdown(pool)},
	}, nil
}
