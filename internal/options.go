package internal

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/tripmux/tripmux/pkg/cookie"
	"github.com/tripmux/tripmux/pkg/health"
)

// Option configures the application.
type Option func(*App)

// WithMiddleware appends middleware to the stack shared by all handlers.
// The first one listed runs first.
func WithMiddleware(mw ...Middleware) Option {
	return func(a *App) {
		a.middlewares = append(a.middlewares, mw...)
	}
}

// WithHandlers registers route-declaring handlers.
func WithHandlers(h ...Handler) Option {
	return func(a *App) {
		a.handlers = append(a.handlers, h...)
	}
}

// WithStaticFiles serves subDir of fsys under pattern. Directory listings
// are refused.
//
// Example:
//
//	tripmux.WithStaticFiles("/static/", views.Assets, "static")
func WithStaticFiles(pattern string, fsys fs.FS, subDir string) Option {
	return func(a *App) {
		sub, err := fs.Sub(fsys, subDir)
		if err != nil {
			panic(err)
		}
		files := http.StripPrefix(strings.TrimSuffix(pattern, "/"), http.FileServerFS(sub))

		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasSuffix(r.URL.Path, "/") {
				http.NotFound(w, r)
				return
			}
			w.Header().Set("Cache-Control", "public, max-age=3600")
			w.Header().Set("X-Content-Type-Options", "nosniff")
			files.ServeHTTP(w, r)
		})
		a.staticRoutes = append(a.staticRoutes, staticRoute{handler: handler, pattern: pattern})
	}
}

// WithErrorHandler sets the handler for errors returned by handlers.
func WithErrorHandler(h ErrorHandler) Option {
	return func(a *App) { a.errorHandler = h }
}

// WithNotFoundHandler sets the 404 handler.
func WithNotFoundHandler(h HandlerFunc) Option {
	return func(a *App) { a.notFoundHandler = h }
}

// WithMethodNotAllowedHandler sets the 405 handler.
func WithMethodNotAllowedHandler(h HandlerFunc) Option {
	return func(a *App) { a.methodNotAllowedHandler = h }
}

// WithHealthChecks mounts liveness and readiness probes.
//
// Example:
//
//	tripmux.WithHealthChecks(
//	    tripmux.WithReadinessCheck("postgres", db.Healthcheck(pool)),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return func(a *App) {
		cfg := &healthConfig{
			livenessPath:  defaultLivenessPath,
			readinessPath: defaultReadinessPath,
			checks:        make(health.Checks),
		}
		for _, opt := range opts {
			opt(cfg)
		}
		a.healthConfig = cfg
	}
}

// WithCustomLogger sets the app logger. Nil is ignored.
func WithCustomLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithCookieOptions configures the cookie manager.
//
// Example:
//
//	tripmux.WithCookieOptions(
//	    cookie.WithSecret(cfg.CookieSecret),
//	    cookie.WithSecure(true),
//	)
func WithCookieOptions(opts ...cookie.Option) Option {
	return func(a *App) {
		a.cookieManager = cookie.New(opts...)
	}
}

// WithVisitors enables anonymous visitor identification. c.VisitorID()
// returns "" without it. Apply it after WithCookieOptions.
func WithVisitors(opts ...VisitorOption) Option {
	return func(a *App) {
		a.visitorManager = NewVisitorManager(a.cookieManager, opts...)
	}
}

// WithRealIP trusts X-Real-IP and X-Forwarded-For from the reverse proxy,
// so r.RemoteAddr is the client address forwarded to the currency
// suggestion service.
func WithRealIP() Option {
	return func(a *App) { a.realIP = true }
}

// Lifecycle is a background component started with the server.
type Lifecycle interface {
	StartFunc() func(context.Context) error
	Shutdown() func(context.Context) error
}

// WithLifecycle starts components before serving and stops them after
// the server drains.
//
// Example:
//
//	tripmux.WithLifecycle(jobManager)
func WithLifecycle(components ...Lifecycle) Option {
	return func(a *App) {
		for _, c := range components {
			if c == nil {
				continue
			}
			a.startupHooks = append(a.startupHooks, c.StartFunc())
			a.shutdownHooks = append(a.shutdownHooks, c.Shutdown())
		}
	}
}

// WithShutdownHook registers cleanup run after the server drains, after
// hooks passed to Run.
func WithShutdownHook(fn func(context.Context) error) Option {
	return func(a *App) {
		if fn != nil {
			a.shutdownHooks = append(a.shutdownHooks, fn)
		}
	}
}
