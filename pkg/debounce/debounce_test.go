package debounce_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripmux/tripmux/pkg/debounce"
)

func TestDebouncer_Trigger(t *testing.T) {
	t.Parallel()

	t.Run("fires after the quiet period", func(t *testing.T) {
		t.Parallel()

		d := debounce.New(10 * time.Millisecond)
		call := d.Trigger()

		start := time.Now()
		require.NoError(t, call.Wait(context.Background()))
		assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
		assert.True(t, d.Latest(call.Seq()))
		assert.False(t, d.Pending())
	})

	t.Run("newer trigger supersedes the pending one", func(t *testing.T) {
		t.Parallel()

		d := debounce.New(20 * time.Millisecond)
		first := d.Trigger()
		second := d.Trigger()

		require.ErrorIs(t, first.Wait(context.Background()), debounce.ErrSuperseded)
		require.NoError(t, second.Wait(context.Background()))
		assert.Equal(t, uint64(1), first.Seq())
		assert.Equal(t, uint64(2), second.Seq())
		assert.False(t, d.Latest(first.Seq()))
	})

	t.Run("fired call stays fired after a newer trigger", func(t *testing.T) {
		t.Parallel()

		d := debounce.New(time.Millisecond)
		first := d.Trigger()
		require.NoError(t, first.Wait(context.Background()))

		d.Trigger()
		require.NoError(t, first.Wait(context.Background()))
		assert.False(t, d.Latest(first.Seq()))
	})

	t.Run("context cancellation", func(t *testing.T) {
		t.Parallel()

		d := debounce.New(time.Hour)
		defer d.Stop()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		require.ErrorIs(t, d.Trigger().Wait(ctx), context.Canceled)
	})
}

func TestDebouncer_Schedule(t *testing.T) {
	t.Parallel()

	t.Run("bursts run once", func(t *testing.T) {
		t.Parallel()

		var runs atomic.Int32
		d := debounce.New(15 * time.Millisecond)
		var last *debounce.Call
		for range 5 {
			last = d.Schedule(func() { runs.Add(1) })
		}

		require.NoError(t, last.Wait(context.Background()))
		require.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, time.Millisecond)
		time.Sleep(30 * time.Millisecond)
		assert.Equal(t, int32(1), runs.Load())
	})

	t.Run("stop cancels pending and future calls", func(t *testing.T) {
		t.Parallel()

		var runs atomic.Int32
		d := debounce.New(10 * time.Millisecond)
		pending := d.Schedule(func() { runs.Add(1) })
		d.Stop()

		require.ErrorIs(t, pending.Wait(context.Background()), debounce.ErrSuperseded)
		require.ErrorIs(t, d.Schedule(func() { runs.Add(1) }).Wait(context.Background()), debounce.ErrSuperseded)

		time.Sleep(20 * time.Millisecond)
		assert.Zero(t, runs.Load())
	})
}
