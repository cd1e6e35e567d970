package internal

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tripmux/tripmux/pkg/cookie"
	"github.com/tripmux/tripmux/pkg/health"
	"github.com/tripmux/tripmux/pkg/logger"
)

// Server timeouts. WriteTimeout leaves room for a currency change that
// waits on AUTO resolution before answering.
const (
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 45 * time.Second
	defaultIdleTimeout       = 120 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultMaxHeaderBytes    = 1 << 20
	defaultShutdownTimeout   = 30 * time.Second
)

// App owns the router, the middleware stack and the lifecycle hooks of
// background components. It is immutable after New.
type App struct {
	router                  chi.Router
	errorHandler            ErrorHandler
	notFoundHandler         HandlerFunc
	methodNotAllowedHandler HandlerFunc
	healthConfig            *healthConfig
	logger                  *slog.Logger
	cookieManager           *cookie.Manager
	visitorManager          *VisitorManager
	startupHooks            []func(context.Context) error
	shutdownHooks           []func(context.Context) error
	middlewares             []Middleware
	handlers                []Handler
	staticRoutes            []staticRoute
	// pages holds the route patterns registered with Router.Page.
	pages  map[string]struct{}
	realIP bool
}

type staticRoute struct {
	handler http.Handler
	pattern string
}

// New creates an application.
//
// Example:
//
//	app := tripmux.New(
//	    tripmux.WithCustomLogger(log),
//	    tripmux.WithVisitors(),
//	    tripmux.WithMiddleware(middlewares.RequestID(), middlewares.Recover()),
//	    tripmux.WithHandlers(handlers.NewPage(registry, views)),
//	)
func New(opts ...Option) *App {
	a := &App{
		router:        chi.NewRouter(),
		logger:        logger.NewNope(),
		cookieManager: cookie.New(),
		pages:         make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.visitorManager != nil {
		a.visitorManager.SetLogger(a.logger)
	}
	a.setupRoutes()
	return a
}

// Router returns the underlying chi router.
func (a *App) Router() chi.Router {
	return a.router
}

// ServeHTTP makes App an http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

// Run serves on addr until SIGINT or SIGTERM. Startup hooks registered
// through options (the job manager, for one) run before the listener
// accepts requests; shutdown hooks run after the server drains.
func (a *App) Run(addr string, opts ...RunOption) error {
	cfg := buildRunConfig(opts...)
	if cfg.logger == nil {
		cfg.logger = a.logger
	}

	return runServer(runtimeConfig{
		handler:         a.router,
		address:         addr,
		logger:          cfg.logger,
		shutdownTimeout: cfg.shutdownTimeout,
		startupHooks:    append(append([]func(context.Context) error{}, a.startupHooks...), cfg.startupHooks...),
		shutdownHooks:   append(append([]func(context.Context) error{}, cfg.shutdownHooks...), a.shutdownHooks...),
		baseCtx:         cfg.baseCtx,
	})
}

func (a *App) setupRoutes() {
	if a.realIP {
		a.router.Use(middleware.RealIP)
	}
	if a.notFoundHandler != nil {
		a.router.NotFound(a.wrapHandler(a.notFoundHandler))
	}
	if a.methodNotAllowedHandler != nil {
		a.router.MethodNotAllowed(a.wrapHandler(a.methodNotAllowedHandler))
	}

	// Probes and static files sit outside the middleware stack, so they
	// never issue visitor cookies or open widgets.
	if a.healthConfig != nil {
		a.router.Get(a.healthConfig.livenessPath, health.LivenessHandler())
		a.router.Get(a.healthConfig.readinessPath,
			health.ReadinessHandler(a.healthConfig.checks, health.WithLogger(a.logger)))
	}
	for _, sr := range a.staticRoutes {
		a.router.Mount(sr.pattern, sr.handler)
	}

	a.router.Group(func(cr chi.Router) {
		for _, mw := range a.middlewares {
			cr.Use(a.adaptMiddleware(mw))
		}
		r := &routerAdapter{router: cr, app: a}
		for _, h := range a.handlers {
			h.Routes(r)
		}
	})
}

// wrapHandler converts a HandlerFunc into an http.HandlerFunc.
func (a *App) wrapHandler(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := newContext(w, r, a)
		if err := h(c); err != nil {
			a.handleError(c, err)
		}
	}
}

func (a *App) handleError(c Context, err error) {
	if c.Written() {
		c.LogError("error after response started", slog.Any("error", err))
		return
	}
	if a.errorHandler != nil {
		if herr := a.errorHandler(c, err); herr != nil {
			c.LogError("error handler failed", slog.Any("error", herr), slog.Any("cause", err))
		}
		return
	}
	if he := AsHTTPError(err); he != nil {
		http.Error(c.Response(), he.Message, he.Code)
		return
	}
	c.LogError("unhandled error", slog.Any("error", err))
	http.Error(c.Response(), http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

type healthConfig struct {
	checks        health.Checks
	livenessPath  string
	readinessPath string
}

const (
	defaultLivenessPath  = "/health/live"
	defaultReadinessPath = "/health/ready"
)

// HealthOption configures the health endpoints.
type HealthOption func(*healthConfig)

// WithLivenessPath overrides "/health/live".
func WithLivenessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.livenessPath = path
		}
	}
}

// WithReadinessPath overrides "/health/ready".
func WithReadinessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.readinessPath = path
		}
	}
}

// WithReadinessCheck adds a named readiness check. Checks run
// concurrently on every probe.
//
// Example:
//
//	tripmux.WithReadinessCheck("redis", redis.Healthcheck(client))
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return func(c *healthConfig) {
		if fn != nil {
			c.checks[name] = fn
		}
	}
}
