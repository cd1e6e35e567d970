package tripmux

import (
	"context"
	"io/fs"
	"log/slog"
	"time"

	"github.com/tripmux/tripmux/internal"
	"github.com/tripmux/tripmux/pkg/cookie"
	"github.com/tripmux/tripmux/pkg/health"
	"github.com/tripmux/tripmux/pkg/htmx"
	"github.com/tripmux/tripmux/pkg/logger"
)

// Type aliases - public API
type (
	// App serves the widget: routing, middleware and graceful shutdown.
	App = internal.App

	// Router is the interface handlers use to declare routes.
	Router = internal.Router

	// Context provides request/response access and helper methods.
	Context = internal.Context

	// Handler declares routes on a router.
	Handler = internal.Handler

	// HandlerFunc is the signature for route handlers.
	HandlerFunc = internal.HandlerFunc

	// Middleware wraps a HandlerFunc.
	Middleware = internal.Middleware

	// ErrorHandler handles errors returned from handlers.
	ErrorHandler = internal.ErrorHandler

	// Option configures the application.
	Option = internal.Option

	// RunOption configures the server runtime.
	RunOption = internal.RunOption

	// Component is anything that renders HTML.
	Component = internal.Component

	// HealthOption configures the health endpoints.
	HealthOption = internal.HealthOption

	// VisitorOption configures the visitor cookie.
	VisitorOption = internal.VisitorOption

	// Lifecycle is a background component started with the server.
	Lifecycle = internal.Lifecycle

	// HTTPError is an error with an HTTP status.
	HTTPError = internal.HTTPError

	// ContextExtractor extracts a slog attribute from a request context.
	ContextExtractor = logger.ContextExtractor

	// CookieOption configures the cookie manager.
	CookieOption = cookie.Option

	// RenderOption sets htmx response headers on a render.
	RenderOption = htmx.RenderOption
)

// New creates an application. The App is immutable after creation.
//
// Example:
//
//	app := tripmux.New(
//	    tripmux.WithMiddleware(middlewares.RequestID(), middlewares.Widget(registry)),
//	    tripmux.WithHandlers(handlers.NewPages(renderer), handlers.NewSearch(renderer)),
//	    tripmux.WithVisitors(),
//	)
//
//	err := app.Run(":8080", tripmux.Logger(log))
func New(opts ...Option) *App {
	return internal.New(opts...)
}

// App options

// WithMiddleware adds global middleware in the order provided.
func WithMiddleware(mw ...Middleware) Option {
	return internal.WithMiddleware(mw...)
}

// WithHandlers registers handlers that declare routes.
func WithHandlers(h ...Handler) Option {
	return internal.WithHandlers(h...)
}

// WithStaticFiles mounts fsys/subDir at pattern. Directory listings are
// refused.
//
//	//go:embed static
//	var assets embed.FS
//
//	tripmux.WithStaticFiles("/static/", assets, "static")
func WithStaticFiles(pattern string, fsys fs.FS, subDir string) Option {
	return internal.WithStaticFiles(pattern, fsys, subDir)
}

func WithErrorHandler(h ErrorHandler) Option {
	return internal.WithErrorHandler(h)
}

func WithNotFoundHandler(h HandlerFunc) Option {
	return internal.WithNotFoundHandler(h)
}

func WithMethodNotAllowedHandler(h HandlerFunc) Option {
	return internal.WithMethodNotAllowedHandler(h)
}

// WithHealthChecks mounts /health/live and /health/ready.
//
//	tripmux.WithHealthChecks(
//	    tripmux.WithReadinessCheck("redis", redis.Healthcheck(client)),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return internal.WithHealthChecks(opts...)
}

// WithLogger builds a logger tagged with component. Extractors add
// request-scoped values such as request_id and visitor_id.
func WithLogger(cfg logger.Config, component string, extractors ...ContextExtractor) Option {
	l := logger.New(cfg, logger.WithExtractors(extractors...)).With(slog.String("component", component))
	return internal.WithCustomLogger(l)
}

// WithCustomLogger sets a fully custom logger.
func WithCustomLogger(l *slog.Logger) Option {
	return internal.WithCustomLogger(l)
}

// WithCookieOptions configures the cookie manager, e.g. the signing secret.
func WithCookieOptions(opts ...CookieOption) Option {
	return internal.WithCookieOptions(opts...)
}

// WithVisitors enables the visitor cookie that keys widgets and stored
// preferences. Apply it after WithCookieOptions.
func WithVisitors(opts ...VisitorOption) Option {
	return internal.WithVisitors(opts...)
}

// WithRealIP trusts the proxy's forwarded client address.
func WithRealIP() Option {
	return internal.WithRealIP()
}

// WithLifecycle starts components with the server and stops them on
// shutdown.
func WithLifecycle(components ...Lifecycle) Option {
	return internal.WithLifecycle(components...)
}

// WithShutdownHook registers cleanup that runs after the server drains.
func WithShutdownHook(fn func(context.Context) error) Option {
	return internal.WithShutdownHook(fn)
}

// Health check options

// WithLivenessPath overrides "/health/live".
func WithLivenessPath(path string) HealthOption {
	return internal.WithLivenessPath(path)
}

// WithReadinessPath overrides "/health/ready".
func WithReadinessPath(path string) HealthOption {
	return internal.WithReadinessPath(path)
}

// WithReadinessCheck adds a named check. Checks run in parallel.
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return internal.WithReadinessCheck(name, fn)
}

// Visitor options

func WithVisitorCookieName(name string) VisitorOption {
	return internal.WithVisitorCookieName(name)
}

func WithVisitorMaxAge(seconds int) VisitorOption {
	return internal.WithVisitorMaxAge(seconds)
}

// Run options

// Logger sets the runtime logger.
func Logger(l *slog.Logger) RunOption {
	return internal.Logger(l)
}

// ShutdownTimeout bounds draining and shutdown hooks. Default: 30s.
func ShutdownTimeout(d time.Duration) RunOption {
	return internal.ShutdownTimeout(d)
}

// StartupHook runs fn before the listener accepts traffic. An error
// aborts startup.
func StartupHook(fn func(context.Context) error) RunOption {
	return internal.StartupHook(fn)
}

// ShutdownHook runs fn during shutdown with the shutdown timeout.
func ShutdownHook(fn func(context.Context) error) RunOption {
	return internal.ShutdownHook(fn)
}

// WithContext sets the base context for signal handling.
func WithContext(ctx context.Context) RunOption {
	return internal.WithContext(ctx)
}

// Helpers

// Query returns a typed query parameter, or the zero T.
func Query[T string | int | int64 | float64 | bool](c Context, name string) T {
	return internal.Query[T](c, name)
}

// ContextValue reads a typed value stored with c.Set.
func ContextValue[T any](c Context, key any) T {
	return internal.ContextValue[T](c, key)
}

// Errors

func ErrBadRequest(message string) *HTTPError    { return internal.ErrBadRequest(message) }
func ErrNotFound(message string) *HTTPError      { return internal.ErrNotFound(message) }
func ErrUnprocessable(message string) *HTTPError { return internal.ErrUnprocessable(message) }
func ErrBadGateway(message string) *HTTPError    { return internal.ErrBadGateway(message) }
func ErrServiceUnavailable(message string) *HTTPError {
	return internal.ErrServiceUnavailable(message)
}

// AsHTTPError returns the *HTTPError in err's chain, or nil.
func AsHTTPError(err error) *HTTPError {
	return internal.AsHTTPError(err)
}
