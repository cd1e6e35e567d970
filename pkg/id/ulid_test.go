package id_test

import (
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripmux/tripmux/pkg/id"
)

var alphabet = regexp.MustCompile(`^[0-9A-HJ-KMNP-TV-Z]{26}$`)

func TestNewULID(t *testing.T) {
	t.Parallel()

	t.Run("format", func(t *testing.T) {
		t.Parallel()
		assert.Regexp(t, alphabet, id.NewULID())
	})

	t.Run("unique under concurrency", func(t *testing.T) {
		t.Parallel()

		const goroutines, each = 20, 200
		var (
			mu   sync.Mutex
			seen = make(map[string]struct{}, goroutines*each)
			wg   sync.WaitGroup
		)
		for range goroutines {
			wg.Go(func() {
				for range each {
					v := id.NewULID()
					mu.Lock()
					seen[v] = struct{}{}
					mu.Unlock()
				}
			})
		}
		wg.Wait()
		assert.Len(t, seen, goroutines*each)
	})
}

func TestULIDAt(t *testing.T) {
	t.Parallel()

	t.Run("sorts by time", func(t *testing.T) {
		t.Parallel()
		base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		earlier := id.ULIDAt(base)
		later := id.ULIDAt(base.Add(time.Millisecond))
		assert.Less(t, earlier[:10], later[:10])
	})

	t.Run("epoch encodes as zeros", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "0000000000", id.ULIDAt(time.UnixMilli(0))[:10])
	})

	t.Run("time round trip", func(t *testing.T) {
		t.Parallel()
		at := time.Date(2026, 10, 19, 8, 30, 15, 123_000_000, time.UTC)
		got, err := id.Time(id.ULIDAt(at))
		require.NoError(t, err)
		assert.True(t, at.Equal(got), "got %s", got)
	})
}

func TestTime_Invalid(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "short", "UUUUUUUUUU0000000000000000"} {
		_, err := id.Time(in)
		assert.ErrorIs(t, err, id.ErrInvalidULID, in)
	}
}
