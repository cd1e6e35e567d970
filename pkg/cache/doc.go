// Package cache provides a generic Cache with in-memory and Redis backends.
//
// The in-memory backend keeps live per-visitor widgets and place lookups;
// the Redis backend stores visitor preferences when the server runs with
// the redis storage driver.
//
// TTL semantics for Set:
//   - Positive duration: item expires after this duration
//   - Zero: use the configured default TTL (1 hour unless overridden)
//   - Negative: item never expires
//
// [GetOrSet] collapses concurrent misses for one key into a single call:
//
//	places, err := cache.GetOrSet(ctx, c, "en:ist", func(ctx context.Context) ([]Place, time.Duration, error) {
//	    p, err := fetch(ctx)
//	    return p, 10 * time.Minute, err
//	})
package cache
