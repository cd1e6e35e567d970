package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripmux/tripmux/pkg/fares"
	"github.com/tripmux/tripmux/pkg/search"
)

func TestLoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, defaultAPIBase, cfg.APIBaseURL)
		assert.Equal(t, DriverMemory, cfg.StorageDriver)
		assert.Equal(t, ":8080", cfg.HTTPAddr)
		assert.False(t, cfg.ClientCredentials())
	})

	t.Run("development api", func(t *testing.T) {
		t.Setenv("ENV", "development")
		cfg, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, developmentAPIBase, cfg.APIBaseURL)
	})

	t.Run("flag wins", func(t *testing.T) {
		t.Setenv("API_BASE_URL", "https://env.example/api")
		cfg, err := LoadConfig("https://flag.example/api")
		require.NoError(t, err)
		assert.Equal(t, "https://flag.example/api", cfg.APIBaseURL)
	})

	t.Run("unknown driver", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "mongo")
		_, err := LoadConfig("")
		require.ErrorIs(t, err, ErrUnknownDriver)
	})

	t.Run("redis needs url", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "redis")
		_, err := LoadConfig("")
		require.ErrorContains(t, err, "REDIS_URL")
	})

	t.Run("client credentials", func(t *testing.T) {
		t.Setenv("API_TOKEN_URL", "https://auth.example/token")
		t.Setenv("API_CLIENT_ID", "widget")
		cfg, err := LoadConfig("")
		require.NoError(t, err)
		assert.True(t, cfg.ClientCredentials())
	})
}

func fakeAPI(t *testing.T, quoteIn string) string {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/meta/client-context":
			_, _ = w.Write([]byte(`{"suggestedCurrency":"TRY"}`))
		case "/api/places/autocomplete":
			_ = json.NewEncoder(w).Encode([]fares.Place{
				{Code: "IST", Name: "Istanbul Airport", AirportName: "Istanbul Airport", CityName: "Istanbul", Type: fares.Airport},
			})
		case "/api/flights/cheapest/top":
			cur := r.URL.Query().Get("currency")
			if quoteIn != "" {
				cur = quoteIn
			}
			_, _ = w.Write([]byte(`[{"airlineName":"Pegasus","airlineCode":"PC","from":"IST","to":"AYT","date":"2026-04-02",` +
				`"durationMinutes":75,"price":80,"currency":"` + cur + `","transfers":1}]`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv.URL + "/api"
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	root := newRoot(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSearchCommand(t *testing.T) {
	t.Parallel()

	t.Run("prints fares", func(t *testing.T) {
		t.Parallel()
		api := fakeAPI(t, "")
		profile := filepath.Join(t.TempDir(), "profile.json")

		out, err := run(t, "search", "ist", "ayt", "2026-04-02", "--api-base", api, "--profile", profile, "--currency", "eur")
		require.NoError(t, err)
		assert.Contains(t, out, "IST → AYT")
		assert.Contains(t, out, "Pegasus (PC)")
		assert.Contains(t, out, "1 stop")
		assert.NotContains(t, out, "provider limitation")

		out, err = run(t, "prefs", "--profile", profile)
		require.NoError(t, err)
		assert.Contains(t, out, "tripmux.currency\tEUR")
	})

	t.Run("currency mismatch", func(t *testing.T) {
		t.Parallel()
		api := fakeAPI(t, "USD")

		out, err := run(t, "search", "IST", "AYT", "2026-04-02", "--api-base", api,
			"--profile", filepath.Join(t.TempDir(), "profile.json"))
		require.NoError(t, err)
		assert.Contains(t, out, "! Prices returned in USD (provider limitation).")
	})

	t.Run("validation error", func(t *testing.T) {
		t.Parallel()
		api := fakeAPI(t, "")

		out, err := run(t, "search", "IST", "ist", "2026-04-02", "--api-base", api,
			"--profile", filepath.Join(t.TempDir(), "profile.json"))
		require.Error(t, err)
		assert.Contains(t, out, "Origin and destination cannot be the same.")
	})

	t.Run("language is remembered", func(t *testing.T) {
		t.Parallel()
		api := fakeAPI(t, "")
		profile := filepath.Join(t.TempDir(), "profile.json")

		_, err := run(t, "search", "IST", "AYT", "", "--lang", "tr", "--api-base", api, "--profile", profile)
		require.Error(t, err)

		out, err := run(t, "prefs", "--profile", profile)
		require.NoError(t, err)
		assert.Contains(t, out, "tripmux_lang\ttr")
	})

	t.Run("bad flags", func(t *testing.T) {
		t.Parallel()
		api := fakeAPI(t, "")
		profile := filepath.Join(t.TempDir(), "profile.json")

		_, err := run(t, "search", "IST", "AYT", "2026-04-02", "--mode", "week", "--api-base", api, "--profile", profile)
		require.ErrorContains(t, err, "unknown date mode")

		_, err = run(t, "search", "IST", "AYT", "2026-04-02", "--currency", "GBP", "--api-base", api, "--profile", profile)
		require.ErrorContains(t, err, "unknown currency")
	})
}

func TestPlacesCommand(t *testing.T) {
	t.Parallel()
	api := fakeAPI(t, "")

	out, err := run(t, "places", "ist", "--api-base", api, "--profile", filepath.Join(t.TempDir(), "profile.json"))
	require.NoError(t, err)
	assert.Contains(t, out, "IST\tIstanbul Airport")
}

func TestPrefsCommand(t *testing.T) {
	t.Parallel()
	api := fakeAPI(t, "")
	profile := filepath.Join(t.TempDir(), "profile.json")

	out, err := run(t, "prefs", "--profile", profile)
	require.NoError(t, err)
	assert.Contains(t, out, "tripmux_lang\t-")

	_, err = run(t, "search", "IST", "AYT", "2026-04-02", "--currency", "usd", "--api-base", api, "--profile", profile)
	require.NoError(t, err)

	_, err = run(t, "prefs", "reset", "--profile", profile)
	require.NoError(t, err)

	out, err = run(t, "prefs", "--profile", profile)
	require.NoError(t, err)
	assert.Contains(t, out, "tripmux.currency\t-")
}

func TestOpen_AuthenticatesAPICalls(t *testing.T) {
	t.Parallel()

	var tokens, authorized, anonymous atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/oauth/token" {
			tokens.Add(1)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"access_token":"tok","token_type":"bearer","expires_in":3600}`))
			return
		}
		if r.Header.Get("Authorization") == "Bearer tok" {
			authorized.Add(1)
		} else {
			anonymous.Add(1)
		}
		switch r.URL.Path {
		case "/api/meta/client-context":
			_, _ = w.Write([]byte(`{"suggestedCurrency":"TRY"}`))
		case "/api/places/autocomplete":
			_ = json.NewEncoder(w).Encode([]fares.Place{{Code: "IST", Name: "Istanbul Airport", Type: fares.Airport}})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	c := &cli{
		profile: filepath.Join(t.TempDir(), "profile.json"),
		cfg: Config{
			APIBaseURL:      srv.URL + "/api",
			APITokenURL:     srv.URL + "/oauth/token",
			APIClientID:     "cli",
			APIClientSecret: "secret",
		},
	}
	s, err := c.open(context.Background(), "en")
	require.NoError(t, err)
	t.Cleanup(s.Close)

	places, err := s.Widget.Suggest(context.Background(), search.FieldOrigin, "ist")
	require.NoError(t, err)
	require.Len(t, places, 1)

	assert.Equal(t, int32(1), tokens.Load())
	assert.Equal(t, int32(2), authorized.Load())
	assert.Zero(t, anonymous.Load())
}
