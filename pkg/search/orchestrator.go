package search

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/tripmux/tripmux/pkg/currency"
	"github.com/tripmux/tripmux/pkg/datemode"
	"github.com/tripmux/tripmux/pkg/debounce"
	"github.com/tripmux/tripmux/pkg/fares"
	"github.com/tripmux/tripmux/pkg/prefs"
)

// DefaultLimit is the result count requested in day and month mode.
const DefaultLimit = 5

// FareLookup is implemented by *fares.Client.
type FareLookup interface {
	LookupFares(ctx context.Context, q fares.Query) ([]fares.Fare, error)
}

// Preferences is implemented by *prefs.Store.
type Preferences interface {
	Currency() currency.Code
	OnChange(fn prefs.Listener) (unsubscribe func())
}

// DateModes is implemented by *datemode.Controller.
type DateModes interface {
	Mode() datemode.Mode
}

// Results is a successful search.
type Results struct {
	Request  Request
	Currency currency.Code // requested currency
	Fares    []fares.Fare
	// ReturnedCurrency is the first fare currency that differs from Currency.
	ReturnedCurrency string
	YearMode         bool
	Mismatch         bool
}

// Empty reports whether there is nothing to show.
func (r *Results) Empty() bool {
	return r == nil || len(r.Fares) == 0
}

// Outcome is what the results area shows: results, an error, or nothing.
type Outcome struct {
	Results *Results
	Err     error
	Seq     uint64
}

// Showing reports whether the outcome is real, non-empty content.
func (o Outcome) Showing() bool {
	return o.Err == nil && !o.Results.Empty()
}

// Orchestrator runs searches for one visitor and re-runs the displayed one
// when preferences change.
type Orchestrator struct {
	lookup   FareLookup
	prefs    Preferences
	modes    DateModes
	logger   *slog.Logger
	research *debounce.Debouncer
	timeout  time.Duration
	limit    int

	mu          sync.Mutex
	outcome     Outcome
	seq         uint64
	last        Request
	hasLast     bool
	unsubscribe func()
	observers   []func(Outcome)
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// WithDelay sets how long a preference change settles before the
// displayed search is repeated. Default: 300ms.
func WithDelay(d time.Duration) Option {
	return func(o *Orchestrator) { o.research = debounce.New(d) }
}

// WithLimit sets the result count for day and month mode.
func WithLimit(n int) Option {
	return func(o *Orchestrator) { o.limit = n }
}

// WithTimeout bounds background re-searches. Default: 30s.
func WithTimeout(d time.Duration) Option {
	return func(o *Orchestrator) { o.timeout = d }
}

func NewOrchestrator(lookup FareLookup, p Preferences, modes DateModes, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		lookup:   lookup,
		prefs:    p,
		modes:    modes,
		logger:   slog.New(slog.DiscardHandler),
		research: debounce.New(300 * time.Millisecond),
		timeout:  30 * time.Second,
		limit:    DefaultLimit,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Search validates req, queries fares in the effective currency and
// records the outcome. Validation errors are *ValidationError and never
// reach the network.
func (o *Orchestrator) Search(ctx context.Context, req Request) (*Results, error) {
	req = req.Normalize()
	if req.Mode == "" && o.modes != nil {
		req.Mode = o.modes.Mode()
	}

	o.mu.Lock()
	o.seq++
	seq := o.seq
	o.mu.Unlock()

	if err := req.Validate(); err != nil {
		o.commit(seq, Outcome{Err: err, Seq: seq}, nil)
		return nil, err
	}

	code := o.prefs.Currency()
	year := req.Mode == datemode.Year
	q := fares.Query{
		Origin:      req.Origin,
		Destination: req.Destination,
		DepartureAt: req.Departure,
		Currency:    string(code),
		Limit:       o.limit,
		Passengers:  req.Passengers,
	}
	if year {
		q.Limit = YearLimit
	}

	o.logger.DebugContext(ctx, "fare search",
		slog.String("origin", q.Origin),
		slog.String("destination", q.Destination),
		slog.String("departure", q.DepartureAt),
		slog.String("currency", q.Currency),
		slog.Int("passengers", q.Passengers),
		slog.Bool("year_mode", year),
	)

	found, err := o.lookup.LookupFares(ctx, q)
	if err != nil {
		o.commit(seq, Outcome{Err: err, Seq: seq}, &req)
		return nil, err
	}

	if year {
		found = CheapestPerMonth(found)
	}

	res := &Results{
		Request:  req,
		Currency: code,
		Fares:    found,
		YearMode: year,
	}
	for _, f := range found {
		if f.Currency != "" && f.Currency != string(code) {
			res.Mismatch = true
			res.ReturnedCurrency = f.Currency
			break
		}
	}

	o.commit(seq, Outcome{Results: res, Seq: seq}, &req)
	return res, nil
}

// commit stores out unless a newer search has started since seq.
func (o *Orchestrator) commit(seq uint64, out Outcome, req *Request) {
	o.mu.Lock()
	if seq != o.seq {
		o.mu.Unlock()
		return
	}
	o.outcome = out
	if req != nil {
		o.last = *req
		o.hasLast = true
	}
	observers := make([]func(Outcome), len(o.observers))
	copy(observers, o.observers)
	o.mu.Unlock()

	for _, fn := range observers {
		fn(out)
	}
}

// Outcome returns what the results area currently shows.
func (o *Orchestrator) Outcome() Outcome {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.outcome
}

// Showing reports whether non-empty results are displayed.
func (o *Orchestrator) Showing() bool {
	return o.Outcome().Showing()
}

// LastRequest returns the last request that reached the fare service.
func (o *Orchestrator) LastRequest() (Request, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.last, o.hasLast
}

// OnOutcome registers fn for every committed outcome, including
// background re-searches.
func (o *Orchestrator) OnOutcome(fn func(Outcome)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.observers = append(o.observers, fn)
}

// Watch subscribes to preference changes. A completed change while
// results are showing repeats the last search after the settle delay;
// bursts of changes collapse into one search.
func (o *Orchestrator) Watch() {
	unsubscribe := o.prefs.OnChange(func(s prefs.Snapshot) {
		if s.Resolving || !o.Showing() {
			return
		}
		o.research.Schedule(o.repeat)
	})

	o.mu.Lock()
	o.unsubscribe = unsubscribe
	o.mu.Unlock()
}

// Pending reports whether a re-search is waiting for its delay.
func (o *Orchestrator) Pending() bool {
	return o.research.Pending()
}

func (o *Orchestrator) repeat() {
	req, ok := o.LastRequest()
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), o.timeout)
	defer cancel()

	if _, err := o.Search(ctx, req); err != nil {
		o.logger.Warn("re-search after preference change failed", slog.Any("error", err))
	}
}

// Close stops pending re-searches and the preference subscription.
func (o *Orchestrator) Close() {
	o.research.Stop()

	o.mu.Lock()
	unsubscribe := o.unsubscribe
	o.unsubscribe = nil
	o.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}
