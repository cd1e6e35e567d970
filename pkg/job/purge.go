package job

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/riverqueue/river"

	"github.com/tripmux/tripmux/pkg/db"
	"github.com/tripmux/tripmux/pkg/kv"
)

// PurgeArgs deletes preference rows older than Retention.
type PurgeArgs struct {
	Retention time.Duration `json:"retention"`
}

func (PurgeArgs) Kind() string { return "purge_preferences" }

func (PurgeArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{
		MaxAttempts: 3,
		UniqueOpts:  river.UniqueOpts{ByPeriod: time.Hour},
	}
}

// PurgeWorker runs the purge in one transaction with a statement timeout.
type PurgeWorker struct {
	river.WorkerDefaults[PurgeArgs]
	db     db.Beginner
	logger *slog.Logger
}

func NewPurgeWorker(beginner db.Beginner, logger *slog.Logger) *PurgeWorker {
	return &PurgeWorker{db: beginner, logger: logger}
}

func (w *PurgeWorker) Work(ctx context.Context, job *river.Job[PurgeArgs]) error {
	if job.Args.Retention <= 0 {
		return fmt.Errorf("job: purge retention must be positive, got %s", job.Args.Retention)
	}

	var purged int64
	err := db.WithTx(ctx, w.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SET LOCAL statement_timeout = '60s'`); err != nil {
			return fmt.Errorf("job: set statement timeout: %w", err)
		}
		n, err := kv.NewPostgres(tx).Purge(ctx, job.Args.Retention)
		purged = n
		return err
	})
	if err != nil {
		return err
	}

	w.logger.InfoContext(ctx, "stale preferences purged",
		slog.Int64("rows", purged),
		slog.Duration("retention", job.Args.Retention),
	)
	return nil
}
