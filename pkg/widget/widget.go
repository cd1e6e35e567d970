// Package widget composes the per-visitor search widget: preferences, the
// date-mode control, the search orchestrator and place autocomplete.
//
// A Registry owns one Widget per visitor. Opening a widget is the
// equivalent of a page load: preferences are initialized from scratch and
// AUTO currency is resolved again. Partial updates reuse the live widget.
package widget

import (
	"context"
	"sync"

	"github.com/tripmux/tripmux/pkg/datemode"
	"github.com/tripmux/tripmux/pkg/fares"
	"github.com/tripmux/tripmux/pkg/prefs"
	"github.com/tripmux/tripmux/pkg/search"
)

// Widget is the state of one visitor's search widget.
type Widget struct {
	Prefs  *prefs.Store
	Dates  *datemode.Controller
	Search *search.Orchestrator
	Places *search.Autocompleter

	visitorID string

	mu         sync.Mutex
	lang       string
	passengers int
	closed     bool
}

// VisitorID returns the owner of the widget.
func (w *Widget) VisitorID() string { return w.visitorID }

// SetLang records the document language. It implements prefs.Document.
func (w *Widget) SetLang(lang string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lang = lang
}

// DocumentLanguage is the language the page is rendered in.
func (w *Widget) DocumentLanguage() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lang
}

// Passengers returns the passenger count shown in the form.
func (w *Widget) Passengers() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.passengers
}

// SetPassengers applies a typed value, clamped to 1..9.
func (w *Widget) SetPassengers(raw string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.passengers = search.ClampPassengers(raw)
	return w.passengers
}

// StepPassengers applies a +/- press.
func (w *Widget) StepPassengers(delta int) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.passengers = search.StepPassengers(w.passengers, delta)
	return w.passengers
}

// RunSearch fills in the current passenger count and date mode and runs
// the search.
func (w *Widget) RunSearch(ctx context.Context, origin, destination, departure string) (*search.Results, error) {
	return w.Search.Search(ctx, search.Request{
		Origin:      origin,
		Destination: destination,
		Departure:   departure,
		Mode:        w.Dates.Mode(),
		Passengers:  w.Passengers(),
	})
}

// Suggest runs debounced autocomplete in the visitor's language.
func (w *Widget) Suggest(ctx context.Context, field search.Field, term string) ([]fares.Place, error) {
	return w.Places.Suggest(ctx, field, term, w.Prefs.Language())
}

// Close stops background work. It is safe to call more than once.
func (w *Widget) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	w.mu.Unlock()

	w.Search.Close()
	w.Places.Close()
}

// Closed reports whether Close ran.
func (w *Widget) Closed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}
