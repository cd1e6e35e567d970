package kv

import (
	"context"
	"errors"

	"github.com/tripmux/tripmux/pkg/cache"
)

// Cached adapts a cache.Cache to a Store. Entries expire after the
// cache's default TTL, so retention is configured on the cache.
// With cache.NewRedis and the cache.String marshaler this is the
// redis storage driver.
type Cached struct {
	cache cache.Cache[string]
}

func NewCached(c cache.Cache[string]) *Cached {
	return &Cached{cache: c}
}

func (c *Cached) Get(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}
	v, err := c.cache.Get(ctx, key)
	if errors.Is(err, cache.ErrNotFound) {
		return "", ErrNotFound
	}
	return v, err
}

func (c *Cached) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	return c.cache.Set(ctx, key, value, 0)
}

func (c *Cached) Remove(ctx context.Context, key string) error {
	return c.cache.Delete(ctx, key)
}
