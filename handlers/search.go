package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/tripmux/tripmux"
	"github.com/tripmux/tripmux/pkg/affiliates"
	"github.com/tripmux/tripmux/pkg/datemode"
	"github.com/tripmux/tripmux/pkg/debounce"
	"github.com/tripmux/tripmux/pkg/htmx"
	"github.com/tripmux/tripmux/pkg/search"
	"github.com/tripmux/tripmux/views"
)

// Search serves the search form: date mode, passengers, the search
// itself, its results and place autocomplete.
type Search struct {
	catalogue *affiliates.Catalogue
}

func NewSearch(catalogue *affiliates.Catalogue) *Search {
	return &Search{catalogue: catalogue}
}

func (h *Search) Routes(r tripmux.Router) {
	r.POST("/date-mode", h.dateMode)
	r.POST("/passengers", h.passengers)
	r.POST("/search", h.search)
	r.GET("/results", h.results)
	r.GET("/places", h.places)
}

func (h *Search) dateMode(c tripmux.Context) error {
	w, err := current(c)
	if err != nil {
		return err
	}

	raw := c.Form("mode")
	if mode, ok := datemode.ParseMode(raw); ok {
		w.Dates.SetMode(mode)
	} else {
		c.LogWarn("unsupported date mode", slog.String("mode", raw))
	}

	p := page(w, h.catalogue)
	return c.RenderPartial(http.StatusOK, views.WidgetPage(p), views.DateField(p))
}

// passengers applies a +/- step when delta is set, otherwise the typed
// value. Both are clamped to 1-9.
func (h *Search) passengers(c tripmux.Context) error {
	w, err := current(c)
	if err != nil {
		return err
	}

	if raw := c.Form("delta"); raw != "" {
		delta, err := strconv.Atoi(raw)
		if err != nil {
			return tripmux.ErrBadRequest("invalid passenger step")
		}
		w.StepPassengers(max(-1, min(1, delta)))
	} else {
		w.SetPassengers(c.Form("passengers"))
	}

	p := page(w, h.catalogue)
	return c.RenderPartial(http.StatusOK, views.WidgetPage(p), views.Passengers(p))
}

// search runs the form. Validation errors, upstream failures and empty
// results are all shown in the results area, so they render with 200.
func (h *Search) search(c tripmux.Context) error {
	w, err := current(c)
	if err != nil {
		return err
	}

	if raw := c.Form("passengers"); raw != "" {
		w.SetPassengers(raw)
	}
	w.Dates.SetValue(c.Form("departure"))

	_, err = w.RunSearch(c, c.Form("origin"), c.Form("destination"), w.Dates.DepartureValue())
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled):
		return nil
	default:
		if _, ok := search.AsValidationError(err); !ok {
			c.LogWarn("fare search failed", slog.Any("error", err))
		}
	}

	p := page(w, h.catalogue)
	return c.RenderPartial(http.StatusOK, views.WidgetPage(p), views.ResultsArea(p.Results), searchEvent(p.Results))
}

// results is polled while a re-search after a currency change is pending.
func (h *Search) results(c tripmux.Context) error {
	w, err := current(c)
	if err != nil {
		return err
	}
	p := page(w, h.catalogue)
	return c.RenderPartial(http.StatusOK, views.WidgetPage(p), views.ResultsArea(p.Results), searchEvent(p.Results))
}

// searchEvent tells the page a results area has settled, so it can scroll
// to it. Pending areas fire nothing.
func searchEvent(r views.Results) htmx.RenderOption {
	if r.State == views.ResultsPending {
		return func(*htmx.Config) {}
	}
	return htmx.WithEvent("tripmux:search", map[string]any{
		"state": r.State,
		"count": len(r.Rows),
	})
}

// places answers autocomplete. A call replaced by a later keystroke on the
// same field gets 204 so htmx keeps the current menu.
func (h *Search) places(c tripmux.Context) error {
	w, err := current(c)
	if err != nil {
		return err
	}

	field, ok := search.ParseField(c.Query("field"))
	if !ok {
		return tripmux.ErrBadRequest("unknown field")
	}
	term := c.QueryDefault("term", c.Query(string(field)))

	places, err := w.Suggest(c, field, term)
	switch {
	case errors.Is(err, debounce.ErrSuperseded), errors.Is(err, context.Canceled):
		return c.NoContent(http.StatusNoContent)
	case err != nil:
		return err
	}
	return c.Render(http.StatusOK, views.PlacesMenu(string(field), places))
}
