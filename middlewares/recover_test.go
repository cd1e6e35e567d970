package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripmux/tripmux/internal"
	"github.com/tripmux/tripmux/middlewares"
)

func TestRecover(t *testing.T) {
	t.Parallel()

	boom := func(internal.Context) error { panic("fare table corrupted") }

	t.Run("panic reaches error handler", func(t *testing.T) {
		t.Parallel()

		var got error
		app := newApp(t, []internal.Middleware{middlewares.Recover()}, boom,
			internal.WithErrorHandler(func(c internal.Context, err error) error {
				got = err
				return c.NoContent(http.StatusInternalServerError)
			}),
		)
		rec := serve(app, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		pe, ok := middlewares.AsPanicError(got)
		require.True(t, ok)
		assert.Equal(t, "fare table corrupted", pe.Value)
		assert.NotEmpty(t, pe.Stack)
		assert.Equal(t, "panic: fare table corrupted", pe.Error())
	})

	t.Run("stack disabled", func(t *testing.T) {
		t.Parallel()

		var got error
		app := newApp(t, []internal.Middleware{middlewares.Recover(middlewares.WithRecoverDisablePrintStack())}, boom,
			internal.WithErrorHandler(func(c internal.Context, err error) error {
				got = err
				return c.NoContent(http.StatusInternalServerError)
			}),
		)
		serve(app, httptest.NewRequest(http.MethodGet, "/", nil))

		pe, ok := middlewares.AsPanicError(got)
		require.True(t, ok)
		assert.Nil(t, pe.Stack)
	})

	t.Run("no panic passes through", func(t *testing.T) {
		t.Parallel()

		app := newApp(t, []internal.Middleware{middlewares.Recover()}, func(c internal.Context) error {
			return c.String(http.StatusOK, "ok")
		})
		rec := serve(app, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, "ok", rec.Body.String())
	})
}
