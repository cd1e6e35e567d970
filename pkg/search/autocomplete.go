package search

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/tripmux/tripmux/pkg/debounce"
	"github.com/tripmux/tripmux/pkg/fares"
)

const (
	// MinTermLength is the shortest term sent to the place service.
	MinTermLength = 2
	// MaxSuggestions caps the autocomplete menu.
	MaxSuggestions = 10
)

// Field is an autocomplete input.
type Field string

const (
	FieldOrigin      Field = "origin"
	FieldDestination Field = "destination"
)

// ParseField reports whether s names a route field.
func ParseField(s string) (Field, bool) {
	switch f := Field(strings.ToLower(strings.TrimSpace(s))); f {
	case FieldOrigin, FieldDestination:
		return f, true
	}
	return "", false
}

// PlaceLookup is implemented by *fares.Client.
type PlaceLookup interface {
	LookupPlaces(ctx context.Context, term, locale string) []fares.Place
}

// Autocompleter debounces keystrokes per field. Only the last keystroke
// after a quiet period reaches the place service, and a response that
// arrives after a newer keystroke is discarded.
type Autocompleter struct {
	lookup PlaceLookup
	delay  time.Duration

	mu     sync.Mutex
	fields map[Field]*debounce.Debouncer
}

func NewAutocompleter(lookup PlaceLookup, delay time.Duration) *Autocompleter {
	if delay <= 0 {
		delay = 250 * time.Millisecond
	}
	return &Autocompleter{
		lookup: lookup,
		delay:  delay,
		fields: make(map[Field]*debounce.Debouncer),
	}
}

func (a *Autocompleter) debouncer(f Field) *debounce.Debouncer {
	a.mu.Lock()
	defer a.mu.Unlock()

	d, ok := a.fields[f]
	if !ok {
		d = debounce.New(a.delay)
		a.fields[f] = d
	}
	return d
}

// Suggest waits out the quiet period and looks up term. It returns
// debounce.ErrSuperseded when a later keystroke on the same field
// replaced this one, before or after the lookup. Terms shorter than
// MinTermLength yield no suggestions without a request.
func (a *Autocompleter) Suggest(ctx context.Context, f Field, term, locale string) ([]fares.Place, error) {
	d := a.debouncer(f)
	call := d.Trigger()

	term = strings.TrimSpace(term)
	if utf8.RuneCountInString(term) < MinTermLength {
		return []fares.Place{}, nil
	}

	if err := call.Wait(ctx); err != nil {
		return nil, err
	}

	places := a.lookup.LookupPlaces(ctx, term, locale)
	if !d.Latest(call.Seq()) {
		return nil, debounce.ErrSuperseded
	}

	if len(places) > MaxSuggestions {
		places = places[:MaxSuggestions]
	}
	return places, nil
}

// Close cancels every pending keystroke.
func (a *Autocompleter) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, d := range a.fields {
		d.Stop()
	}
}
