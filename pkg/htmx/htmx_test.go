package htmx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tripmux/tripmux/pkg/htmx"
)

func TestIsHTMX(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodPost, "/passengers", nil)
	assert.False(t, htmx.IsHTMX(r))

	r.Header.Set("HX-Request", "true")
	assert.True(t, htmx.IsHTMX(r))
}

func TestConfig_ApplyHeaders(t *testing.T) {
	t.Parallel()

	t.Run("nil config", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		var cfg *htmx.Config
		cfg.ApplyHeaders(rec)
		assert.Empty(t, rec.Header())
	})

	t.Run("swap headers", func(t *testing.T) {
		t.Parallel()
		cfg := htmx.NewConfig(
			htmx.WithRetarget("#flash"),
			htmx.WithReswap(htmx.SwapInnerHTML),
			htmx.WithRefresh(),
		)
		rec := httptest.NewRecorder()
		cfg.ApplyHeaders(rec)

		h := rec.Header()
		assert.Equal(t, "#flash", h.Get("HX-Retarget"))
		assert.Equal(t, "innerHTML", h.Get("HX-Reswap"))
		assert.Equal(t, "true", h.Get("HX-Refresh"))
		assert.Empty(t, h.Get("HX-Trigger"))
	})

	t.Run("plain events are comma joined", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		htmx.NewConfig(htmx.WithTrigger("results-stale", "currency-changed")).ApplyHeaders(rec)
		assert.Equal(t, "currency-changed, results-stale", rec.Header().Get("HX-Trigger"))
	})

	t.Run("events with detail are json", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		htmx.NewConfig(
			htmx.WithTrigger("results-stale"),
			htmx.WithEvent("tripmux:search", map[string]any{"state": "results", "count": 3}),
		).ApplyHeaders(rec)
		assert.JSONEq(t,
			`{"results-stale":null,"tripmux:search":{"state":"results","count":3}}`,
			rec.Header().Get("HX-Trigger"))
	})

	t.Run("oob components are collected", func(t *testing.T) {
		t.Parallel()
		cfg := htmx.NewConfig(htmx.WithOOB(nil, nil), htmx.WithOOB(nil))
		assert.Len(t, cfg.OOBComponents, 3)
	})
}

func TestRedirect(t *testing.T) {
	t.Parallel()

	t.Run("htmx", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodPost, "/prefs/language", nil)
		r.Header.Set("HX-Request", "true")
		rec := httptest.NewRecorder()

		htmx.Redirect(rec, r, "/?lang=tr", http.StatusSeeOther)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "/?lang=tr", rec.Header().Get("HX-Redirect"))
	})

	t.Run("plain", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodPost, "/prefs/language", nil)
		rec := httptest.NewRecorder()

		htmx.Redirect(rec, r, "/?lang=tr", http.StatusSeeOther)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/?lang=tr", rec.Header().Get("Location"))
	})
}
