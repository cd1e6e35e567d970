package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tripmux/tripmux/internal"
)

type routes func(r internal.Router)

func (f routes) Routes(r internal.Router) { f(r) }

func serve(app *internal.App, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return rec
}

func newApp(t *testing.T, mw []internal.Middleware, h internal.HandlerFunc, opts ...internal.Option) *internal.App {
	t.Helper()
	opts = append(opts,
		internal.WithMiddleware(mw...),
		internal.WithHandlers(routes(func(r internal.Router) {
			r.Page("/", h)
			r.POST("/", h)
			r.GET("/results", h)
		})),
	)
	return internal.New(opts...)
}
