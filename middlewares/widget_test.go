package middlewares_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripmux/tripmux/internal"
	"github.com/tripmux/tripmux/locales"
	"github.com/tripmux/tripmux/middlewares"
	"github.com/tripmux/tripmux/pkg/currency"
	"github.com/tripmux/tripmux/pkg/fares"
	"github.com/tripmux/tripmux/pkg/i18n"
	"github.com/tripmux/tripmux/pkg/kv"
	"github.com/tripmux/tripmux/pkg/widget"
)

type stubAPI struct{}

func (stubAPI) LookupFares(_ context.Context, q fares.Query) ([]fares.Fare, error) {
	return []fares.Fare{{From: q.Origin, To: q.Destination, Currency: q.Currency, Price: decimal.NewFromInt(1)}}, nil
}

func (stubAPI) LookupPlaces(context.Context, string, string) []fares.Place { return nil }

func newDictionary(t *testing.T) *i18n.I18n {
	t.Helper()
	dict, err := i18n.New(i18n.WithYAMLDir(locales.FS))
	require.NoError(t, err)
	return dict
}

func newRegistry(t *testing.T, dict *i18n.I18n) *widget.Registry {
	t.Helper()
	r := widget.NewRegistry(widget.Deps{
		Storage:    kv.NewMemory(),
		Suggester:  currency.Static(currency.TRY),
		Dictionary: dict,
		Fares:      stubAPI{},
		Places:     stubAPI{},
	}, widget.WithResearchDelay(time.Millisecond))
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func withCookies(req *http.Request, rec *httptest.ResponseRecorder) *http.Request {
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestWidget(t *testing.T) {
	t.Parallel()

	echo := func(c internal.Context) error {
		if w := middlewares.GetWidget(c); w != nil {
			return c.String(http.StatusOK, w.VisitorID())
		}
		return c.String(http.StatusOK, "none")
	}

	t.Run("page load opens and partials reuse", func(t *testing.T) {
		t.Parallel()

		var seen []*widget.Widget
		record := func(c internal.Context) error {
			seen = append(seen, middlewares.GetWidget(c))
			return c.NoContent(http.StatusNoContent)
		}

		registry := newRegistry(t, newDictionary(t))
		app := newApp(t, []internal.Middleware{middlewares.Widget(registry)}, record, internal.WithVisitors())

		first := serve(app, httptest.NewRequest(http.MethodGet, "/?lang=tr", nil))
		serve(app, withCookies(httptest.NewRequest(http.MethodGet, "/results", nil), first))

		htmxReq := withCookies(httptest.NewRequest(http.MethodGet, "/", nil), first)
		htmxReq.Header.Set("HX-Request", "true")
		serve(app, htmxReq)

		serve(app, withCookies(httptest.NewRequest(http.MethodGet, "/", nil), first))

		require.Len(t, seen, 4)
		require.NotNil(t, seen[0])
		assert.Equal(t, "tr", seen[0].Prefs.Language())
		assert.Same(t, seen[0], seen[1])
		assert.Same(t, seen[0], seen[2])
		assert.NotSame(t, seen[0], seen[3])
		assert.True(t, seen[0].Closed())
		assert.Equal(t, 1, registry.Len())
	})

	t.Run("expired widget reopens on partial", func(t *testing.T) {
		t.Parallel()

		registry := newRegistry(t, newDictionary(t))
		app := newApp(t, []internal.Middleware{middlewares.Widget(registry)}, echo, internal.WithVisitors())

		rec := serve(app, httptest.NewRequest(http.MethodPost, "/", nil))
		assert.NotEqual(t, "none", rec.Body.String())
		assert.Equal(t, 1, registry.Len())
	})

	t.Run("no visitors configured", func(t *testing.T) {
		t.Parallel()

		registry := newRegistry(t, newDictionary(t))
		app := newApp(t, []internal.Middleware{middlewares.Widget(registry)}, echo)

		rec := serve(app, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, "none", rec.Body.String())
		assert.Zero(t, registry.Len())
	})
}

func TestI18n(t *testing.T) {
	t.Parallel()

	echo := func(c internal.Context) error {
		return c.String(http.StatusOK, c.Language())
	}

	t.Run("accept-language without widget", func(t *testing.T) {
		t.Parallel()

		app := newApp(t, []internal.Middleware{middlewares.I18n(newDictionary(t))}, echo)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Accept-Language", "tr-TR,tr;q=0.9,en;q=0.5")
		rec := serve(app, req)

		assert.Equal(t, "tr", rec.Body.String())
		assert.Equal(t, "tr", rec.Header().Get("Content-Language"))
	})

	t.Run("unknown language falls back", func(t *testing.T) {
		t.Parallel()

		dict := newDictionary(t)
		app := newApp(t, []internal.Middleware{middlewares.I18n(dict)}, echo)
		rec := serve(app, httptest.NewRequest(http.MethodGet, "/?lang=xx", nil))
		assert.Equal(t, dict.DefaultLanguage(), rec.Body.String())
	})

	t.Run("widget language wins", func(t *testing.T) {
		t.Parallel()

		dict := newDictionary(t)
		registry := newRegistry(t, dict)
		app := newApp(t, []internal.Middleware{
			middlewares.Widget(registry),
			middlewares.I18n(dict),
		}, echo, internal.WithVisitors())

		first := serve(app, httptest.NewRequest(http.MethodGet, "/?lang=tr", nil))
		assert.Equal(t, "tr", first.Body.String())

		req := withCookies(httptest.NewRequest(http.MethodGet, "/results", nil), first)
		req.Header.Set("Accept-Language", "en")
		assert.Equal(t, "tr", serve(app, req).Body.String())
	})
}
