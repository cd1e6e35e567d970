package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/tripmux/tripmux/pkg/db"
	"github.com/tripmux/tripmux/pkg/job"
	"github.com/tripmux/tripmux/pkg/logger"
)

func migrateCmd(c *cli) *cobra.Command {
	var status bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Long:  "Apply the preference schema and the job queue schema to DATABASE_URL.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.cfg.DB.URL == "" {
				return fmt.Errorf("migrate: DATABASE_URL is not set")
			}
			ctx := cmd.Context()
			log := logger.New(c.cfg.Logger)

			pool, err := db.Connect(ctx, c.cfg.DB)
			if err != nil {
				return err
			}
			defer pool.Close()

			if status {
				pending, err := db.Pending(ctx, pool, c.cfg.DB.MigrationsTable)
				if err != nil {
					return err
				}
				if len(pending) == 0 {
					fmt.Fprintln(c.out, "schema is up to date")
					return nil
				}
				for _, v := range pending {
					fmt.Fprintf(c.out, "pending %d\n", v)
				}
				return nil
			}
			return migrateAll(ctx, pool, c.cfg.DB.MigrationsTable, log)
		},
	}
	cmd.Flags().BoolVar(&status, "status", false, "list pending migrations without applying them")
	return cmd
}

func migrateAll(ctx context.Context, pool *pgxpool.Pool, table string, log *slog.Logger) error {
	if err := db.Migrate(ctx, pool, table, log); err != nil {
		return err
	}
	return job.Migrate(ctx, pool, log)
}
