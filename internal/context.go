package internal

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tripmux/tripmux/pkg/cookie"
	"github.com/tripmux/tripmux/pkg/htmx"
	"github.com/tripmux/tripmux/pkg/i18n"
)

// TranslatorKey is the context key of the request's *i18n.Translator.
type TranslatorKey struct{}

// VisitorKey is the context key of the resolved visitor ID.
type VisitorKey struct{}

// Component is anything that renders HTML. templ.Component satisfies it.
type Component = htmx.Renderable

// Context provides request/response access and helper methods.
// It implements context.Context by delegating to the request context.
type Context interface {
	context.Context

	// Request returns the underlying *http.Request.
	Request() *http.Request

	// Response returns the response writer.
	Response() http.ResponseWriter

	// ResponseWriter returns the wrapped writer for hooks and status access.
	ResponseWriter() *ResponseWriter

	// Context returns the request's context.Context.
	Context() context.Context

	// Param returns a URL parameter.
	Param(name string) string

	// Query returns a query parameter.
	Query(name string) string

	// QueryDefault returns a query parameter or defaultValue when empty.
	QueryDefault(name, defaultValue string) string

	// Form returns a form field, parsing the body on first access.
	Form(name string) string

	// Header returns a request header.
	Header(name string) string

	// SetHeader sets a response header.
	SetHeader(name, value string)

	// JSON writes v as JSON.
	JSON(code int, v any) error

	// String writes plain text.
	String(code int, s string) error

	// NoContent writes only the status line.
	NoContent(code int) error

	// Redirect redirects regular and htmx requests alike.
	Redirect(code int, url string) error

	// Error builds an HTTPError without writing it. Return it from the
	// handler to reach the error handler.
	Error(code int, message string, opts ...HTTPErrorOption) *HTTPError

	// IsHTMX reports whether htmx issued the request.
	IsHTMX() bool

	// IsPageLoad reports a plain (non-htmx) GET of a route registered
	// with Router.Page.
	IsPageLoad() bool

	// Render writes component with code. htmx options and out-of-band
	// fragments apply only to htmx requests.
	Render(code int, component Component, opts ...htmx.RenderOption) error

	// RenderPartial renders partial for htmx requests and fullPage
	// otherwise.
	RenderPartial(code int, fullPage, partial Component, opts ...htmx.RenderOption) error

	// Written reports whether the response has started.
	Written() bool

	// Logger returns the app logger.
	Logger() *slog.Logger

	LogDebug(msg string, attrs ...any)
	LogInfo(msg string, attrs ...any)
	LogWarn(msg string, attrs ...any)
	LogError(msg string, attrs ...any)

	// Set stores a value in the request context.
	Set(key any, value any)

	// Get reads a value from the request context.
	Get(key any) any

	// SetContext replaces the request context, e.g. to attach a deadline.
	SetContext(ctx context.Context)

	// Cookie returns a plain cookie value.
	Cookie(name string) (string, error)

	// SetCookie sets a plain cookie.
	SetCookie(name, value string, maxAge int)

	// DeleteCookie expires a cookie.
	DeleteCookie(name string)

	// CookieSigned returns a signed cookie value.
	CookieSigned(name string) (string, error)

	// SetCookieSigned sets a signed cookie.
	SetCookieSigned(name, value string, maxAge int) error

	// VisitorID returns the anonymous visitor of this request, issuing a
	// new identifier cookie on first contact. Empty when visitor
	// tracking is not configured.
	VisitorID() string

	// T translates key in the visitor's language. Returns key when no
	// translator is bound.
	T(key string, vars ...i18n.M) string

	// Tn translates key with plural selection by n.
	Tn(key string, n int, vars ...i18n.M) string

	// Language returns the bound translator's language, or "".
	Language() string
}

type requestContext struct {
	request        *http.Request
	response       *ResponseWriter
	logger         *slog.Logger
	cookieManager  *cookie.Manager
	visitorManager *VisitorManager
	pages          map[string]struct{}
}

// newContext wraps w once. Middleware chains pass the same
// *ResponseWriter down, so hooks and status are shared.
func newContext(w http.ResponseWriter, r *http.Request, app *App) *requestContext {
	rw, ok := w.(*ResponseWriter)
	if !ok {
		rw = NewResponseWriter(w, htmx.IsHTMX(r))
	}
	return &requestContext{
		request:        r,
		response:       rw,
		logger:         app.logger,
		cookieManager:  app.cookieManager,
		visitorManager: app.visitorManager,
		pages:          app.pages,
	}
}

func (c *requestContext) Request() *http.Request          { return c.request }
func (c *requestContext) Response() http.ResponseWriter   { return c.response }
func (c *requestContext) ResponseWriter() *ResponseWriter { return c.response }
func (c *requestContext) Context() context.Context        { return c.request.Context() }
func (c *requestContext) Deadline() (time.Time, bool)     { return c.request.Context().Deadline() }
func (c *requestContext) Done() <-chan struct{}           { return c.request.Context().Done() }
func (c *requestContext) Err() error                      { return c.request.Context().Err() }
func (c *requestContext) Value(key any) any               { return c.request.Context().Value(key) }
func (c *requestContext) Param(name string) string        { return chi.URLParam(c.request, name) }
func (c *requestContext) Query(name string) string        { return c.request.URL.Query().Get(name) }
func (c *requestContext) Form(name string) string         { return c.request.FormValue(name) }
func (c *requestContext) Header(name string) string       { return c.request.Header.Get(name) }
func (c *requestContext) SetHeader(name, value string)    { c.response.Header().Set(name, value) }
func (c *requestContext) IsHTMX() bool                    { return htmx.IsHTMX(c.request) }
func (c *requestContext) Written() bool                   { return c.response.Written() }
func (c *requestContext) Logger() *slog.Logger            { return c.logger }
func (c *requestContext) Get(key any) any                 { return c.request.Context().Value(key) }
func (c *requestContext) Cookie(name string) (string, error) {
	return c.cookieManager.Get(c.request, name)
}
func (c *requestContext) DeleteCookie(name string) { c.cookieManager.Delete(c.response, name) }
func (c *requestContext) CookieSigned(name string) (string, error) {
	return c.cookieManager.GetSigned(c.request, name)
}

func (c *requestContext) QueryDefault(name, defaultValue string) string {
	if v := c.Query(name); v != "" {
		return v
	}
	return defaultValue
}

func (c *requestContext) JSON(code int, v any) error {
	c.response.Header().Set("Content-Type", "application/json; charset=utf-8")
	c.response.WriteHeader(code)
	return json.NewEncoder(c.response).Encode(v)
}

func (c *requestContext) String(code int, s string) error {
	c.response.Header().Set("Content-Type", "text/plain; charset=utf-8")
	c.response.WriteHeader(code)
	_, err := c.response.Write([]byte(s))
	return err
}

func (c *requestContext) NoContent(code int) error {
	c.response.WriteHeader(code)
	return nil
}

func (c *requestContext) Redirect(code int, url string) error {
	htmx.Redirect(c.response, c.request, url, code)
	return nil
}

func (c *requestContext) Error(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(code, message, opts...)
}

func (c *requestContext) Render(code int, component Component, opts ...htmx.RenderOption) error {
	c.response.Header().Set("Content-Type", "text/html; charset=utf-8")

	var cfg *htmx.Config
	if len(opts) > 0 && c.IsHTMX() {
		cfg = htmx.NewConfig(opts...)
		cfg.ApplyHeaders(c.response)
	}

	c.response.WriteHeader(code)
	if err := component.Render(c.request.Context(), c.response); err != nil {
		return err
	}
	if cfg == nil {
		return nil
	}
	for _, oob := range cfg.OOBComponents {
		if oob == nil {
			continue
		}
		if err := oob.Render(c.request.Context(), c.response); err != nil {
			return err
		}
	}
	return nil
}

func (c *requestContext) RenderPartial(code int, fullPage, partial Component, opts ...htmx.RenderOption) error {
	if c.IsHTMX() {
		return c.Render(code, partial, opts...)
	}
	return c.Render(code, fullPage)
}

func (c *requestContext) LogDebug(msg string, attrs ...any) {
	c.logger.DebugContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogInfo(msg string, attrs ...any) {
	c.logger.InfoContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogWarn(msg string, attrs ...any) {
	c.logger.WarnContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogError(msg string, attrs ...any) {
	c.logger.ErrorContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) Set(key, value any) {
	c.request = c.request.WithContext(context.WithValue(c.request.Context(), key, value))
}

func (c *requestContext) SetContext(ctx context.Context) {
	c.request = c.request.WithContext(ctx)
}

func (c *requestContext) SetCookie(name, value string, maxAge int) {
	c.cookieManager.Set(c.response, name, value, maxAge)
}

func (c *requestContext) SetCookieSigned(name, value string, maxAge int) error {
	return c.cookieManager.SetSigned(c.response, name, value, maxAge)
}

// VisitorID resolves the visitor lazily and caches it on the request.
func (c *requestContext) VisitorID() string {
	if id, ok := c.Get(VisitorKey{}).(string); ok && id != "" {
		return id
	}
	if c.visitorManager == nil {
		return ""
	}
	id, issued := c.visitorManager.Resolve(c.response, c.request)
	if issued {
		c.LogDebug("visitor issued", slog.String("visitor_id", id))
	}
	c.Set(VisitorKey{}, id)
	return id
}

func (c *requestContext) translator() *i18n.Translator {
	if tr, ok := c.Get(TranslatorKey{}).(*i18n.Translator); ok {
		return tr
	}
	return nil
}

func (c *requestContext) T(key string, vars ...i18n.M) string {
	if tr := c.translator(); tr != nil {
		return tr.T(key, vars...)
	}
	return key
}

func (c *requestContext) Tn(key string, n int, vars ...i18n.M) string {
	if tr := c.translator(); tr != nil {
		return tr.Tn(key, n, vars...)
	}
	return key
}

func (c *requestContext) Language() string {
	if tr := c.translator(); tr != nil {
		return tr.Language()
	}
	return ""
}

func (c *requestContext) IsPageLoad() bool {
	if c.request.Method != http.MethodGet || c.IsHTMX() {
		return false
	}
	if _, ok := c.pages[c.request.URL.Path]; ok {
		return true
	}
	// Pages with URL parameters match by route pattern.
	rctx := chi.RouteContext(c.request.Context())
	if rctx == nil {
		return false
	}
	_, ok := c.pages[rctx.RoutePattern()]
	return ok
}
