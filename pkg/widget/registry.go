package widget

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tripmux/tripmux/pkg/cache"
	"github.com/tripmux/tripmux/pkg/currency"
	"github.com/tripmux/tripmux/pkg/datemode"
	"github.com/tripmux/tripmux/pkg/i18n"
	"github.com/tripmux/tripmux/pkg/kv"
	"github.com/tripmux/tripmux/pkg/prefs"
	"github.com/tripmux/tripmux/pkg/search"
)

var ErrEmptyVisitor = errors.New("widget: empty visitor id")

// Deps are shared by every widget of a Registry.
type Deps struct {
	Storage    kv.Store
	Suggester  currency.Suggester
	Dictionary *i18n.I18n
	Fares      search.FareLookup
	Places     search.PlaceLookup
}

// Registry keeps live widgets in memory. A widget expires TTL after it
// was opened and is closed on eviction.
type Registry struct {
	deps          Deps
	widgets       *cache.Memory[*Widget]
	logger        *slog.Logger
	clock         func() time.Time
	ttl           time.Duration
	researchDelay time.Duration
	debounce      time.Duration
	maxWidgets    int
}

// Option configures a Registry.
type Option func(*Registry)

func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) { r.logger = l }
}

// WithTTL sets the widget lifetime. Default: 30m.
func WithTTL(d time.Duration) Option {
	return func(r *Registry) { r.ttl = d }
}

// WithResearchDelay sets the re-search delay after preference changes.
func WithResearchDelay(d time.Duration) Option {
	return func(r *Registry) { r.researchDelay = d }
}

// WithAutocompleteDebounce sets the autocomplete quiet period.
func WithAutocompleteDebounce(d time.Duration) Option {
	return func(r *Registry) { r.debounce = d }
}

// WithMaxWidgets bounds memory. The least recently used widget is closed first.
func WithMaxWidgets(n int) Option {
	return func(r *Registry) { r.maxWidgets = n }
}

// WithClock sets the date-mode clock.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.clock = now }
}

func NewRegistry(deps Deps, opts ...Option) *Registry {
	r := &Registry{
		deps:          deps,
		logger:        slog.New(slog.DiscardHandler),
		clock:         time.Now,
		ttl:           30 * time.Minute,
		researchDelay: 300 * time.Millisecond,
		debounce:      250 * time.Millisecond,
		maxWidgets:    10000,
	}
	for _, opt := range opts {
		opt(r)
	}

	r.widgets = cache.NewMemory(
		cache.WithDefaultTTL[*Widget](r.ttl),
		cache.WithMaxEntries[*Widget](r.maxWidgets),
		cache.WithCleanupInterval[*Widget](time.Minute),
		cache.WithEvictCallback(func(visitorID string, w *Widget) {
			w.Close()
			r.logger.Debug("widget closed", slog.String("visitor_id", visitorID))
		}),
	)
	return r
}

// Open builds and initializes a fresh widget for visitorID, replacing and
// closing the previous one.
func (r *Registry) Open(ctx context.Context, visitorID string, env prefs.Environment) (*Widget, error) {
	if visitorID == "" {
		return nil, ErrEmptyVisitor
	}

	w := r.build(visitorID)
	w.Prefs.Initialize(ctx, env)
	w.Search.Watch()

	if err := r.widgets.Set(ctx, visitorID, w, r.ttl); err != nil {
		w.Close()
		return nil, fmt.Errorf("widget: store %s: %w", visitorID, err)
	}
	return w, nil
}

// Get returns the live widget of visitorID, opening one when there is none.
func (r *Registry) Get(ctx context.Context, visitorID string, env prefs.Environment) (*Widget, error) {
	if w, ok := r.Lookup(ctx, visitorID); ok {
		return w, nil
	}
	return r.Open(ctx, visitorID, env)
}

// Lookup returns the live widget of visitorID.
func (r *Registry) Lookup(ctx context.Context, visitorID string) (*Widget, bool) {
	if visitorID == "" {
		return nil, false
	}
	w, err := r.widgets.Get(ctx, visitorID)
	if err != nil || w.Closed() {
		return nil, false
	}
	return w, true
}

// Len reports the number of live widgets.
func (r *Registry) Len() int {
	return r.widgets.Len()
}

// Close closes every widget.
func (r *Registry) Close() error {
	return r.widgets.Close()
}

func (r *Registry) build(visitorID string) *Widget {
	logger := r.logger.With(slog.String("visitor_id", visitorID))
	w := &Widget{visitorID: visitorID, passengers: search.MinPassengers}

	w.Prefs = prefs.New(
		kv.Scope(r.deps.Storage, visitorID),
		r.deps.Suggester,
		r.deps.Dictionary,
		prefs.WithLogger(logger),
		prefs.WithDocument(w),
	)
	w.Dates = datemode.New(
		datemode.WithClock(r.clock),
		datemode.WithTranslator(func(key string) string { return w.Prefs.Translate(key) }),
	)
	w.Search = search.NewOrchestrator(r.deps.Fares, w.Prefs, w.Dates,
		search.WithLogger(logger),
		search.WithDelay(r.researchDelay),
	)
	w.Places = search.NewAutocompleter(r.deps.Places, r.debounce)
	return w
}
