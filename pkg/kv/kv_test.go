package kv_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripmux/tripmux/pkg/cache"
	"github.com/tripmux/tripmux/pkg/kv"
)

func stores(t *testing.T) map[string]kv.Store {
	t.Helper()

	c := cache.NewMemory[string]()
	t.Cleanup(func() { _ = c.Close() })

	return map[string]kv.Store{
		"memory": kv.NewMemory(),
		"cached": kv.NewCached(c),
		"file":   kv.NewFile(filepath.Join(t.TempDir(), "profile.json")),
	}
}

func TestStore_Contract(t *testing.T) {
	t.Parallel()

	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()

			_, err := s.Get(ctx, "tripmux_lang")
			require.ErrorIs(t, err, kv.ErrNotFound)

			require.NoError(t, s.Set(ctx, "tripmux_lang", "tr"))
			v, err := s.Get(ctx, "tripmux_lang")
			require.NoError(t, err)
			assert.Equal(t, "tr", v)

			require.NoError(t, s.Set(ctx, "tripmux_lang", "en"))
			v, err = s.Get(ctx, "tripmux_lang")
			require.NoError(t, err)
			assert.Equal(t, "en", v)

			require.NoError(t, s.Remove(ctx, "tripmux_lang"))
			require.NoError(t, s.Remove(ctx, "tripmux_lang"))
			_, err = s.Get(ctx, "tripmux_lang")
			require.ErrorIs(t, err, kv.ErrNotFound)

			require.ErrorIs(t, s.Set(ctx, "", "x"), kv.ErrEmptyKey)
		})
	}
}

func TestScope(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	base := kv.NewMemory()
	alice := kv.Scope(base, "alice")
	bob := kv.Scope(base, "bob")

	require.NoError(t, alice.Set(ctx, "tripmux.currency", "TRY"))
	require.NoError(t, bob.Set(ctx, "tripmux.currency", "USD"))

	v, err := alice.Get(ctx, "tripmux.currency")
	require.NoError(t, err)
	assert.Equal(t, "TRY", v)

	v, err = bob.Get(ctx, "tripmux.currency")
	require.NoError(t, err)
	assert.Equal(t, "USD", v)

	assert.Equal(t, map[string]string{
		"visitor:alice:tripmux.currency": "TRY",
		"visitor:bob:tripmux.currency":   "USD",
	}, base.Snapshot())
}

func TestFile(t *testing.T) {
	t.Parallel()

	t.Run("survives reopen", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "nested", "profile.json")

		require.NoError(t, kv.NewFile(path).Set(ctx, "tripmux.currency", "AUTO"))

		v, err := kv.NewFile(path).Get(ctx, "tripmux.currency")
		require.NoError(t, err)
		assert.Equal(t, "AUTO", v)

		entries, err := kv.NewFile(path).Entries()
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"tripmux.currency": "AUTO"}, entries)
	})

	t.Run("corrupt document is an error", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "profile.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

		_, err := kv.NewFile(path).Get(context.Background(), "k")
		require.Error(t, err)
		require.NotErrorIs(t, err, kv.ErrNotFound)
	})
}
