package search_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripmux/tripmux/pkg/currency"
	"github.com/tripmux/tripmux/pkg/datemode"
	"github.com/tripmux/tripmux/pkg/fares"
	"github.com/tripmux/tripmux/pkg/prefs"
	"github.com/tripmux/tripmux/pkg/search"
)

type fakeLookup struct {
	mu      sync.Mutex
	queries []fares.Query
	result  func(q fares.Query) ([]fares.Fare, error)
}

func (f *fakeLookup) LookupFares(_ context.Context, q fares.Query) ([]fares.Fare, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	fn := f.result
	f.mu.Unlock()
	if fn == nil {
		return []fares.Fare{}, nil
	}
	return fn(q)
}

func (f *fakeLookup) calls() []fares.Query {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]fares.Query(nil), f.queries...)
}

type fakePrefs struct {
	mu        sync.Mutex
	code      currency.Code
	listeners []prefs.Listener
}

func (p *fakePrefs) Currency() currency.Code {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.code
}

func (p *fakePrefs) OnChange(fn prefs.Listener) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, fn)
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.listeners = nil
	}
}

func (p *fakePrefs) set(code currency.Code, resolving bool) {
	p.mu.Lock()
	p.code = code
	listeners := append([]prefs.Listener(nil), p.listeners...)
	p.mu.Unlock()
	for _, fn := range listeners {
		fn(prefs.Snapshot{Currency: code, Resolving: resolving})
	}
}

type fixedMode datemode.Mode

func (m fixedMode) Mode() datemode.Mode { return datemode.Mode(m) }

func echoFares(q fares.Query) ([]fares.Fare, error) {
	return []fares.Fare{fare("2026-05-01", "100", "TK"), {
		Date: "2026-05-03", Price: fare("", "120", "").Price, AirlineCode: "PC", Currency: q.Currency,
	}}, nil
}

func TestOrchestrator_Search(t *testing.T) {
	t.Parallel()

	t.Run("sends effective currency and default limit", func(t *testing.T) {
		t.Parallel()

		lookup := &fakeLookup{result: func(q fares.Query) ([]fares.Fare, error) {
			return []fares.Fare{{Date: "2026-05-01", Currency: q.Currency, Price: fare("", "80", "").Price}}, nil
		}}
		o := search.NewOrchestrator(lookup, &fakePrefs{code: currency.TRY}, fixedMode(datemode.Day))

		res, err := o.Search(context.Background(), search.Request{
			Origin: "ist", Destination: "jfk", Departure: "2026-05-01", Passengers: 15,
		})
		require.NoError(t, err)
		assert.False(t, res.Mismatch)
		assert.False(t, res.YearMode)
		assert.Equal(t, currency.TRY, res.Currency)

		calls := lookup.calls()
		require.Len(t, calls, 1)
		assert.Equal(t, fares.Query{
			Origin: "IST", Destination: "JFK", DepartureAt: "2026-05-01",
			Currency: "TRY", Limit: search.DefaultLimit, Passengers: 9,
		}, calls[0])
		assert.True(t, o.Showing())
	})

	t.Run("validation error never reaches the service", func(t *testing.T) {
		t.Parallel()

		lookup := &fakeLookup{}
		o := search.NewOrchestrator(lookup, &fakePrefs{code: currency.EUR}, fixedMode(datemode.Day))

		_, err := o.Search(context.Background(), search.Request{Origin: "IS", Destination: "JFK", Departure: "2026"})
		require.ErrorIs(t, err, search.ErrInvalidCode)
		assert.Empty(t, lookup.calls())
		assert.ErrorIs(t, o.Outcome().Err, search.ErrInvalidCode)
		assert.False(t, o.Showing())
	})

	t.Run("year mode reduces to one fare per month", func(t *testing.T) {
		t.Parallel()

		lookup := &fakeLookup{result: func(fares.Query) ([]fares.Fare, error) {
			return []fares.Fare{
				fare("2026-01-05", "100", "TK"),
				fare("2026-01-20", "80", "TK"),
				fare("2026-02-10", "200", "TK"),
			}, nil
		}}
		o := search.NewOrchestrator(lookup, &fakePrefs{code: currency.EUR}, fixedMode(datemode.Year))

		res, err := o.Search(context.Background(), search.Request{Origin: "IST", Destination: "JFK", Departure: "2026"})
		require.NoError(t, err)
		assert.True(t, res.YearMode)
		require.Len(t, res.Fares, 2)
		assert.Equal(t, "2026-01-20", res.Fares[0].Date)
		assert.Equal(t, search.YearLimit, lookup.calls()[0].Limit)
	})

	t.Run("flags a currency mismatch", func(t *testing.T) {
		t.Parallel()

		lookup := &fakeLookup{result: func(fares.Query) ([]fares.Fare, error) {
			f := fare("2026-05-01", "99", "TK")
			f.Currency = "USD"
			return []fares.Fare{f}, nil
		}}
		o := search.NewOrchestrator(lookup, &fakePrefs{code: currency.EUR}, fixedMode(datemode.Day))

		res, err := o.Search(context.Background(), search.Request{Origin: "IST", Destination: "JFK", Departure: "2026-05-01"})
		require.NoError(t, err)
		assert.True(t, res.Mismatch)
		assert.Equal(t, "USD", res.ReturnedCurrency)
		assert.Equal(t, currency.EUR, res.Currency)
	})

	t.Run("request error is kept as outcome", func(t *testing.T) {
		t.Parallel()

		boom := &fares.RequestError{Status: 502, Detail: "upstream down"}
		lookup := &fakeLookup{result: func(fares.Query) ([]fares.Fare, error) { return nil, boom }}
		o := search.NewOrchestrator(lookup, &fakePrefs{code: currency.EUR}, fixedMode(datemode.Day))

		_, err := o.Search(context.Background(), search.Request{Origin: "IST", Destination: "JFK", Departure: "2026-05-01"})
		require.ErrorIs(t, err, boom)
		assert.ErrorIs(t, o.Outcome().Err, boom)
	})

	t.Run("empty result is not showing", func(t *testing.T) {
		t.Parallel()

		o := search.NewOrchestrator(&fakeLookup{}, &fakePrefs{code: currency.EUR}, fixedMode(datemode.Day))
		res, err := o.Search(context.Background(), search.Request{Origin: "IST", Destination: "JFK", Departure: "2026-05-01"})
		require.NoError(t, err)
		assert.True(t, res.Empty())
		assert.False(t, o.Showing())
	})

	t.Run("slow older search does not overwrite a newer one", func(t *testing.T) {
		t.Parallel()

		release := make(chan struct{})
		lookup := &fakeLookup{result: func(q fares.Query) ([]fares.Fare, error) {
			if q.Destination == "JFK" {
				<-release
				return nil, errors.New("late failure")
			}
			return echoFares(q)
		}}
		o := search.NewOrchestrator(lookup, &fakePrefs{code: currency.EUR}, fixedMode(datemode.Day))

		done := make(chan struct{})
		go func() {
			defer close(done)
			_, _ = o.Search(context.Background(), search.Request{Origin: "IST", Destination: "JFK", Departure: "2026-05-01"})
		}()
		require.Eventually(t, func() bool { return len(lookup.calls()) == 1 }, time.Second, time.Millisecond)

		_, err := o.Search(context.Background(), search.Request{Origin: "IST", Destination: "LHR", Departure: "2026-05-01"})
		require.NoError(t, err)
		close(release)
		<-done

		out := o.Outcome()
		require.NoError(t, out.Err)
		assert.Equal(t, "LHR", out.Results.Request.Destination)
	})
}

func TestOrchestrator_Watch(t *testing.T) {
	t.Parallel()

	t.Run("repeats displayed search in the new currency", func(t *testing.T) {
		t.Parallel()

		lookup := &fakeLookup{result: echoFares}
		p := &fakePrefs{code: currency.EUR}
		o := search.NewOrchestrator(lookup, p, fixedMode(datemode.Day), search.WithDelay(10*time.Millisecond))
		o.Watch()
		t.Cleanup(o.Close)

		_, err := o.Search(context.Background(), search.Request{Origin: "IST", Destination: "JFK", Departure: "2026-05-01"})
		require.NoError(t, err)

		p.set(currency.USD, true)
		assert.False(t, o.Pending(), "pending resolution does not trigger a search")

		p.set(currency.TRY, false)
		p.set(currency.USD, false)

		require.Eventually(t, func() bool { return len(lookup.calls()) == 2 }, time.Second, 5*time.Millisecond)
		calls := lookup.calls()
		assert.Equal(t, "USD", calls[1].Currency)
		assert.Equal(t, "JFK", calls[1].Destination)

		require.Eventually(t, func() bool {
			out := o.Outcome()
			return out.Results != nil && out.Results.Currency == currency.USD
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("does nothing without results", func(t *testing.T) {
		t.Parallel()

		lookup := &fakeLookup{}
		p := &fakePrefs{code: currency.EUR}
		o := search.NewOrchestrator(lookup, p, fixedMode(datemode.Day), search.WithDelay(time.Millisecond))
		o.Watch()
		t.Cleanup(o.Close)

		_, err := o.Search(context.Background(), search.Request{Origin: "IST"})
		require.Error(t, err)

		p.set(currency.USD, false)
		time.Sleep(20 * time.Millisecond)
		assert.Empty(t, lookup.calls())
	})

	t.Run("close cancels pending re-search", func(t *testing.T) {
		t.Parallel()

		lookup := &fakeLookup{result: echoFares}
		p := &fakePrefs{code: currency.EUR}
		o := search.NewOrchestrator(lookup, p, fixedMode(datemode.Day), search.WithDelay(20*time.Millisecond))
		o.Watch()

		_, err := o.Search(context.Background(), search.Request{Origin: "IST", Destination: "JFK", Departure: "2026-05-01"})
		require.NoError(t, err)

		p.set(currency.USD, false)
		assert.True(t, o.Pending())
		o.Close()

		time.Sleep(50 * time.Millisecond)
		assert.Len(t, lookup.calls(), 1)
	})

	t.Run("notifies outcome observers", func(t *testing.T) {
		t.Parallel()

		o := search.NewOrchestrator(&fakeLookup{result: echoFares}, &fakePrefs{code: currency.EUR}, fixedMode(datemode.Month))

		var got []search.Outcome
		o.OnOutcome(func(out search.Outcome) { got = append(got, out) })

		_, _ = o.Search(context.Background(), search.Request{Origin: "IST", Destination: "JFK", Departure: "2026-05"})
		require.Len(t, got, 1)
		assert.True(t, got[0].Showing())
		assert.Equal(t, uint64(1), got[0].Seq)
	})
}
