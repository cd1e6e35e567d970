package kv_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripmux/tripmux/pkg/cache"
	"github.com/tripmux/tripmux/pkg/kv"
)

func TestCached_RedisRetention(t *testing.T) {
	t.Parallel()

	const retention = 2160 * time.Hour

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := kv.Scope(kv.NewCached(cache.NewRedis[string](client, cache.String{},
		cache.WithPrefix("tripmux:prefs"),
		cache.WithRedisDefaultTTL(retention),
		cache.WithSlidingTTL(),
	)), "v1")
	ctx := context.Background()

	t.Run("writes carry the retention", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "tripmux.currency", "USD"))
		require.NoError(t, store.Set(ctx, "tripmux.currency.autoResolved", "TRY"))

		assert.Equal(t, retention, mr.TTL("tripmux:prefs:visitor:v1:tripmux.currency"))
		assert.Equal(t, retention, mr.TTL("tripmux:prefs:visitor:v1:tripmux.currency.autoResolved"))
	})

	t.Run("reads extend the retention", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "tripmux_lang", "tr"))
		mr.FastForward(24 * time.Hour)
		assert.Equal(t, retention-24*time.Hour, mr.TTL("tripmux:prefs:visitor:v1:tripmux_lang"))

		v, err := store.Get(ctx, "tripmux_lang")
		require.NoError(t, err)
		assert.Equal(t, "tr", v)
		assert.Equal(t, retention, mr.TTL("tripmux:prefs:visitor:v1:tripmux_lang"))
	})

	t.Run("unused keys expire", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "tripmux.currency", "EUR"))
		mr.FastForward(retention + time.Minute)

		_, err := store.Get(ctx, "tripmux.currency")
		assert.ErrorIs(t, err, kv.ErrNotFound)
	})
}
