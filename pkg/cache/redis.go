package cache

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a cache backed by Redis. Values go through a Marshaler.
// Visitor preferences and place lookups share one client under different
// prefixes.
type Redis[V any] struct {
	client    redis.UniversalClient
	marshaler Marshaler[V]
	prefix    string
	ttl       time.Duration
	sliding   bool
}

// NewRedis creates a Redis-backed cache. A nil Marshaler means JSON.
// The client comes from pkg/redis.Open and is owned by the caller.
func NewRedis[V any](client redis.UniversalClient, m Marshaler[V], opts ...RedisOption) *Redis[V] {
	o := redisOptions{defaultTTL: time.Hour}
	for _, opt := range opts {
		opt(&o)
	}
	if m == nil {
		m = JSON[V]{}
	}

	prefix := strings.TrimRight(o.prefix, ":")
	if prefix != "" {
		prefix += ":"
	}
	return &Redis[V]{
		client:    client,
		marshaler: m,
		prefix:    prefix,
		ttl:       o.defaultTTL,
		sliding:   o.sliding,
	}
}

// Get reads key. With a sliding TTL a hit also pushes the expiry back.
func (r *Redis[V]) Get(ctx context.Context, key string) (V, error) {
	var zero V

	var cmd *redis.StringCmd
	if r.sliding && r.ttl > 0 {
		cmd = r.client.GetEx(ctx, r.prefix+key, r.ttl)
	} else {
		cmd = r.client.Get(ctx, r.prefix+key)
	}

	data, err := cmd.Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return zero, ErrNotFound
	case err != nil:
		return zero, err
	}
	return r.marshaler.Unmarshal(data)
}

// Set stores value under key. A zero TTL uses the default, a negative one
// keeps the key until deleted.
func (r *Redis[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) error {
	data, err := r.marshaler.Marshal(value)
	if err != nil {
		return err
	}
	if ttl == 0 {
		ttl = r.ttl
	}
	return r.client.Set(ctx, r.prefix+key, data, max(ttl, 0)).Err()
}

func (r *Redis[V]) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.prefix+key).Err()
}

// Close is a no-op; the client is shut down through pkg/redis.
func (r *Redis[V]) Close() error {
	return nil
}

var _ Cache[any] = (*Redis[any])(nil)
