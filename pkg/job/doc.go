// Package job runs background maintenance on River, backed by the
// postgres storage driver.
//
// The only job today is purge_preferences: it deletes visitor preference
// rows that were not written within the retention window. It runs on a
// cron schedule and can be enqueued on demand with PurgeNow.
//
//	m, err := job.NewManager(pool, cfg, job.WithLogger(log))
//	if err != nil {
//		return err
//	}
//	if err := m.Start(ctx); err != nil {
//		return err
//	}
//	defer m.Stop(context.Background())
package job
