// Package db connects to PostgreSQL and owns the schema of the postgres
// storage driver.
//
// Connect builds a pgx pool with retries. Migrate applies the embedded
// goose migrations, which create the visitor_preferences table.
//
//	pool, err := db.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := db.Migrate(ctx, pool, cfg.MigrationsTable, log); err != nil {
//		return err
//	}
package db
