package cache

import "time"

// MemoryOption configures the in-memory cache.
type MemoryOption[V any] func(*memoryOptions[V])

type memoryOptions[V any] struct {
	onEvict         func(key string, value V)
	defaultTTL      time.Duration
	cleanupInterval time.Duration
	maxEntries      int
}

// WithDefaultTTL sets the expiration used when Set gets a zero TTL.
// Default: 1 hour.
func WithDefaultTTL[V any](d time.Duration) MemoryOption[V] {
	return func(o *memoryOptions[V]) {
		o.defaultTTL = d
	}
}

// WithCleanupInterval sets how often the janitor drops expired entries.
// Zero disables the janitor; expired entries are then dropped lazily on access.
// Default: 1 minute.
func WithCleanupInterval[V any](d time.Duration) MemoryOption[V] {
	return func(o *memoryOptions[V]) {
		o.cleanupInterval = d
	}
}

// WithMaxEntries caps the cache size. The least recently used entry is
// evicted when the cap is reached. Zero means unlimited.
func WithMaxEntries[V any](n int) MemoryOption[V] {
	return func(o *memoryOptions[V]) {
		o.maxEntries = n
	}
}

// WithEvictCallback registers fn for every value that leaves the cache:
// expiry, LRU eviction, Delete, Close and replacement by Set.
// fn runs after the cache lock is released, so it may call back into the cache.
func WithEvictCallback[V any](fn func(key string, value V)) MemoryOption[V] {
	return func(o *memoryOptions[V]) {
		o.onEvict = fn
	}
}

// RedisOption configures the Redis cache.
type RedisOption func(*redisOptions)

type redisOptions struct {
	prefix     string
	defaultTTL time.Duration
	sliding    bool
}

// WithRedisDefaultTTL sets the expiration used when Set gets a zero TTL.
// Default: 1 hour.
func WithRedisDefaultTTL(d time.Duration) RedisOption {
	return func(o *redisOptions) {
		o.defaultTTL = d
	}
}

// WithSlidingTTL refreshes the default TTL on every hit, so a key expires
// only after it has gone unread for that long. Visitor preferences use it
// to mirror the retention purge of the Postgres store.
func WithSlidingTTL() RedisOption {
	return func(o *redisOptions) {
		o.sliding = true
	}
}

// WithPrefix namespaces every key as "{prefix}:{key}".
func WithPrefix(prefix string) RedisOption {
	return func(o *redisOptions) {
		o.prefix = prefix
	}
}
