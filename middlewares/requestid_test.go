package middlewares_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripmux/tripmux/internal"
	"github.com/tripmux/tripmux/middlewares"
	"github.com/tripmux/tripmux/pkg/id"
)

func TestRequestID(t *testing.T) {
	t.Parallel()

	echo := func(c internal.Context) error {
		return c.String(http.StatusOK, middlewares.GetRequestID(c))
	}

	t.Run("generates a ULID", func(t *testing.T) {
		t.Parallel()

		app := newApp(t, []internal.Middleware{middlewares.RequestID()}, echo)
		rec := serve(app, httptest.NewRequest(http.MethodGet, "/", nil))

		reqID := rec.Body.String()
		assert.Len(t, reqID, id.ULIDLength)
		assert.Equal(t, reqID, rec.Header().Get("X-Request-ID"))
	})

	t.Run("reuses upstream id", func(t *testing.T) {
		t.Parallel()

		app := newApp(t, []internal.Middleware{middlewares.RequestID()}, echo)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Correlation-ID", "edge-42")
		rec := serve(app, req)

		assert.Equal(t, "edge-42", rec.Body.String())
	})

	t.Run("rejects malformed upstream id", func(t *testing.T) {
		t.Parallel()

		app := newApp(t, []internal.Middleware{middlewares.RequestID()}, echo)
		for _, bad := range []string{"a b", "<script>", strings.Repeat("x", 65)} {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("X-Request-ID", bad)
			rec := serve(app, req)
			assert.NotEqual(t, bad, rec.Body.String())
			assert.Len(t, rec.Body.String(), id.ULIDLength)
		}
	})

	t.Run("custom generator", func(t *testing.T) {
		t.Parallel()

		app := newApp(t, []internal.Middleware{
			middlewares.RequestID(middlewares.WithRequestIDGenerator(func() string { return "fixed" })),
		}, echo)
		rec := serve(app, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, "fixed", rec.Body.String())
	})
}

func TestRequestIDExtractor(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))

	ext := middlewares.RequestIDExtractor()
	_, ok := ext(context.Background())
	assert.False(t, ok)

	app := newApp(t, []internal.Middleware{
		middlewares.RequestID(middlewares.WithRequestIDGenerator(func() string { return "req-1" })),
	}, func(c internal.Context) error {
		attr, ok := ext(c)
		require.True(t, ok)
		log.Info("seen", attr)
		return c.NoContent(http.StatusNoContent)
	})
	serve(app, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Contains(t, buf.String(), `"request_id":"req-1"`)
}
