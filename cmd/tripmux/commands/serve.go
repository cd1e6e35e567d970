package commands

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/tripmux/tripmux"
	"github.com/tripmux/tripmux/handlers"
	"github.com/tripmux/tripmux/locales"
	"github.com/tripmux/tripmux/middlewares"
	"github.com/tripmux/tripmux/pkg/affiliates"
	"github.com/tripmux/tripmux/pkg/content"
	"github.com/tripmux/tripmux/pkg/cookie"
	"github.com/tripmux/tripmux/pkg/currency"
	"github.com/tripmux/tripmux/pkg/fares"
	"github.com/tripmux/tripmux/pkg/health"
	"github.com/tripmux/tripmux/pkg/i18n"
	"github.com/tripmux/tripmux/pkg/logger"
	"github.com/tripmux/tripmux/pkg/widget"
	"github.com/tripmux/tripmux/views"
)

const (
	logFlushTimeout   = 2 * time.Second
	fareTimeout       = 15 * time.Second
	suggestionTimeout = 5 * time.Second
)

func serveCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web widget",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), c.cfg)
		},
	}
}

func serve(ctx context.Context, cfg Config) error {
	log := logger.New(cfg.Logger, logger.WithExtractors(
		middlewares.RequestIDExtractor(),
		middlewares.VisitorIDExtractor(),
	)).With(slog.String("component", "tripmux"))
	defer logger.Flush(logFlushTimeout)

	dict, err := i18n.New(i18n.WithYAMLDir(locales.FS))
	if err != nil {
		return fmt.Errorf("locales: %w", err)
	}

	store, err := openBackend(ctx, cfg, log)
	if err != nil {
		return err
	}

	client := fares.NewClient(cfg.APIBaseURL, faresOptions(cfg, log, store, fareTimeout)...)
	suggester := suggestionClient(cfg, log, client)
	registry := widget.NewRegistry(widget.Deps{
		Storage:    store.Store,
		Suggester:  suggester,
		Dictionary: dict,
		Fares:      client,
		Places:     client,
	},
		widget.WithLogger(log),
		widget.WithTTL(cfg.WidgetTTL),
		widget.WithResearchDelay(cfg.ResearchDelay),
		widget.WithAutocompleteDebounce(cfg.AutocompleteDebounce),
	)

	catalogue := affiliates.Default()
	cookies := []tripmux.CookieOption{
		cookie.WithSecure(!cfg.Development()),
		cookie.WithSameSite(http.SameSiteLaxMode),
	}
	if cfg.CookieSecret != "" {
		cookies = append(cookies, cookie.WithSecret(cfg.CookieSecret))
	} else {
		log.WarnContext(ctx, "COOKIE_SECRET is not set, visitor cookies are unsigned")
	}

	opts := []tripmux.Option{
		tripmux.WithCustomLogger(log),
		tripmux.WithCookieOptions(cookies...),
		tripmux.WithVisitors(),
		tripmux.WithRealIP(),
		tripmux.WithErrorHandler(handlers.ErrorHandler),
		tripmux.WithNotFoundHandler(handlers.NotFound),
		tripmux.WithStaticFiles("/static/", views.Assets, "static"),
		tripmux.WithHealthChecks(append(store.Checks,
			tripmux.WithReadinessCheck("fare_api", health.Optional(suggester.Healthcheck)),
		)...),
		tripmux.WithMiddleware(
			middlewares.RequestID(),
			middlewares.Recover(),
			middlewares.ClientIP(),
			middlewares.Timeout(cfg.RequestTimeout),
			middlewares.Widget(registry),
			middlewares.I18n(dict),
		),
		tripmux.WithHandlers(handlers.All(catalogue, content.Default(catalogue))...),
		tripmux.WithLifecycle(store.Lifecycle...),
		tripmux.WithShutdownHook(func(context.Context) error { return registry.Close() }),
		tripmux.WithShutdownHook(func(context.Context) error { return client.Close() }),
	}
	for _, hook := range store.Shutdown {
		opts = append(opts, tripmux.WithShutdownHook(hook))
	}

	log.InfoContext(ctx, "fare api", slog.String("base_url", cfg.APIBaseURL), slog.String("storage", cfg.StorageDriver))

	return tripmux.New(opts...).Run(cfg.HTTPAddr,
		tripmux.Logger(log),
		tripmux.ShutdownTimeout(cfg.ShutdownTimeout),
		tripmux.WithContext(ctx),
	)
}

// faresOptions installs the timeout client before the credentials so the
// oauth2 transport keeps the timeout.
func faresOptions(cfg Config, log *slog.Logger, store *backend, timeout time.Duration) []fares.Option {
	opts := []fares.Option{
		fares.WithHTTPClient(&http.Client{Timeout: timeout}),
		fares.WithLogger(log),
	}
	if cfg.ClientCredentials() {
		opts = append(opts, fares.WithClientCredentials(cfg.APITokenURL, cfg.APIClientID, cfg.APIClientSecret))
	}
	if store != nil && store.PlaceCache != nil {
		opts = append(opts, fares.WithPlaceCache(store.PlaceCache, placeCacheTTL))
	}
	return opts
}

// suggestionClient calls the same API as the fare client and shares its
// token source, with a shorter timeout.
func suggestionClient(cfg Config, log *slog.Logger, client *fares.Client) *currency.Client {
	hc := *client.HTTPClient()
	hc.Timeout = suggestionTimeout
	return currency.NewClient(cfg.APIBaseURL, currency.WithHTTPClient(&hc), currency.WithLogger(log))
}
