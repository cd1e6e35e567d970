package fares_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripmux/tripmux/pkg/fares"
)

func newClient(t *testing.T, h http.HandlerFunc) *fares.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c := fares.NewClient(srv.URL + "/api/")
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestLookupFares(t *testing.T) {
	t.Parallel()

	t.Run("sends query and decodes fares", func(t *testing.T) {
		t.Parallel()

		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/flights/cheapest/top", r.URL.Path)
			q := r.URL.Query()
			assert.Equal(t, "IST", q.Get("origin"))
			assert.Equal(t, "JFK", q.Get("destination"))
			assert.Equal(t, "2026", q.Get("departureAt"))
			assert.Equal(t, "TRY", q.Get("currency"))
			assert.Equal(t, "12", q.Get("limit"))
			assert.Equal(t, "2", q.Get("passengers"))
			_, _ = w.Write([]byte(`[{"airlineName":"Turkish Airlines","airlineCode":"TK","from":"IST","to":"JFK",
				"date":"2026-05-01","durationMinutes":640,"price":1234.5,"currency":"TRY","transfers":0,
				"aviasalesUrl":"https://partner.example/tk"}]`))
		})

		got, err := c.LookupFares(context.Background(), fares.Query{
			Origin: "IST", Destination: "JFK", DepartureAt: "2026", Currency: "TRY", Limit: 12, Passengers: 2,
		})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "TK", got[0].AirlineCode)
		assert.True(t, decimal.RequireFromString("1234.5").Equal(got[0].Price))
		assert.Equal(t, "https://partner.example/tk", got[0].PartnerURL)
		assert.Equal(t, "2026-05", got[0].Month())
		assert.Equal(t, "10h 40m", got[0].Duration())
	})

	t.Run("omits optional params", func(t *testing.T) {
		t.Parallel()

		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.False(t, r.URL.Query().Has("limit"))
			assert.False(t, r.URL.Query().Has("passengers"))
			_, _ = w.Write([]byte(`[]`))
		})

		got, err := c.LookupFares(context.Background(), fares.Query{Origin: "IST", Destination: "JFK", DepartureAt: "2026-05", Currency: "EUR"})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	empties := map[string]http.HandlerFunc{
		"no content":   func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) },
		"empty body":   func(w http.ResponseWriter, _ *http.Request) {},
		"invalid json": func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte(`not json`)) },
		"object body":  func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte(`{"data":[]}`)) },
		"null body":    func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte(`null`)) },
	}
	for name, h := range empties {
		t.Run(name+" is empty", func(t *testing.T) {
			t.Parallel()
			got, err := newClient(t, h).LookupFares(context.Background(), fares.Query{})
			require.NoError(t, err)
			assert.NotNil(t, got)
			assert.Empty(t, got)
		})
	}

	t.Run("non-2xx carries status and detail", func(t *testing.T) {
		t.Parallel()

		c := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("<h1>upstream timeout</h1>\n"))
		})

		_, err := c.LookupFares(context.Background(), fares.Query{})
		re, ok := fares.AsRequestError(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadGateway, re.Status)
		assert.Equal(t, "upstream timeout", re.Detail)
		assert.Equal(t, "request failed (502). upstream timeout", err.Error())
	})
}

func TestLookupPlaces(t *testing.T) {
	t.Parallel()

	t.Run("decodes and caches per locale and term", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			assert.Equal(t, "/api/places/autocomplete", r.URL.Path)
			assert.Equal(t, "ist", r.URL.Query().Get("term"))
			assert.Equal(t, "tr", r.URL.Query().Get("locale"))
			_, _ = w.Write([]byte(`[{"code":"IST","name":"Istanbul","country_name":"Türkiye","type":"city"}]`))
		})

		for range 3 {
			got := c.LookupPlaces(context.Background(), "ist", "tr")
			require.Len(t, got, 1)
			assert.Equal(t, "Istanbul, Türkiye (IST)", got[0].Label())
		}
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("failures are an empty list", func(t *testing.T) {
		t.Parallel()

		c := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
		assert.Empty(t, c.LookupPlaces(context.Background(), "ber", "en"))
		assert.Empty(t, c.LookupPlaces(context.Background(), "  ", "en"))

		dead := fares.NewClient("http://127.0.0.1:1")
		defer dead.Close()
		assert.Empty(t, dead.LookupPlaces(context.Background(), "ber", "en"))
	})
}

func TestPlace_Label(t *testing.T) {
	t.Parallel()

	p := fares.Place{Code: "SAW", Name: "Sabiha Gokcen", AirportName: "Sabiha Gökçen Airport", CityName: "Istanbul", Type: fares.Airport}
	assert.Equal(t, "Sabiha Gökçen Airport, Istanbul (SAW)", p.Label())
}

func TestFare_Duration(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "45m", fares.Fare{DurationMinutes: 45}.Duration())
	assert.Equal(t, "2h 05m", fares.Fare{DurationMinutes: 125}.Duration())
	assert.Empty(t, fares.Fare{Date: "2026"}.Month())
}
