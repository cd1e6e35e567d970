package middlewares

import (
	"github.com/tripmux/tripmux/internal"
	"github.com/tripmux/tripmux/pkg/prefs"
	"github.com/tripmux/tripmux/pkg/widget"
)

type widgetKey struct{}

// WidgetConfig configures the Widget middleware.
type WidgetConfig struct {
	Language internal.Extractor
	TimeZone internal.Extractor
}

// WidgetOption configures WidgetConfig.
type WidgetOption func(*WidgetConfig)

// WithWidgetLanguage replaces the URL language extractor.
func WithWidgetLanguage(ext internal.Extractor) WidgetOption {
	return func(cfg *WidgetConfig) { cfg.Language = ext }
}

// WithWidgetTimeZone replaces the browser time zone extractor.
func WithWidgetTimeZone(ext internal.Extractor) WidgetOption {
	return func(cfg *WidgetConfig) { cfg.TimeZone = ext }
}

// Widget binds the visitor's widget to the request. A page load (see
// Router.Page) opens a fresh widget; everything else reuses the live one
// and opens a new widget only when it expired.
func Widget(registry *widget.Registry, opts ...WidgetOption) internal.Middleware {
	cfg := &WidgetConfig{
		Language: internal.NewExtractor(internal.FromQuery("lang")),
		TimeZone: internal.NewExtractor(
			internal.FromHeader("X-Timezone"),
			internal.FromCookie("tz"),
		),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			visitorID := c.VisitorID()
			if visitorID == "" {
				return next(c)
			}

			env := prefs.Environment{
				QueryLanguage:  cfg.Language.Value(c),
				AcceptLanguage: c.Header("Accept-Language"),
				TimeZone:       cfg.TimeZone.Value(c),
			}

			var (
				w   *widget.Widget
				err error
			)
			if c.IsPageLoad() {
				w, err = registry.Open(c, visitorID, env)
			} else {
				w, err = registry.Get(c, visitorID, env)
			}
			if err != nil {
				return internal.ErrInternal("widget unavailable", internal.WithError(err))
			}

			c.Set(widgetKey{}, w)
			return next(c)
		}
	}
}

// GetWidget returns the widget bound by Widget, or nil.
func GetWidget(c internal.Context) *widget.Widget {
	return internal.ContextValue[*widget.Widget](c, widgetKey{})
}
