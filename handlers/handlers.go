// Package handlers serves the widget routes.
//
// Every route except the health probes works on the visitor's widget,
// bound by middlewares.Widget. Full page requests render the whole page;
// htmx requests get the fragment they target.
package handlers

import (
	"github.com/tripmux/tripmux"
	"github.com/tripmux/tripmux/middlewares"
	"github.com/tripmux/tripmux/pkg/affiliates"
	"github.com/tripmux/tripmux/pkg/content"
	"github.com/tripmux/tripmux/pkg/widget"
	"github.com/tripmux/tripmux/views"
)

// All returns every widget handler sharing catalogue and pages.
func All(catalogue *affiliates.Catalogue, pages *content.Pages) []tripmux.Handler {
	return []tripmux.Handler{
		NewPages(catalogue, pages),
		NewPrefs(catalogue),
		NewSearch(catalogue),
	}
}

// current returns the bound widget, or 503 when none could be bound.
func current(c tripmux.Context) (*widget.Widget, error) {
	w := middlewares.GetWidget(c)
	if w == nil {
		return nil, tripmux.ErrServiceUnavailable("widget unavailable")
	}
	return w, nil
}

// page snapshots w in the visitor's language.
func page(w *widget.Widget, catalogue *affiliates.Catalogue) views.Page {
	return views.NewPage(w, w.Prefs.Translator(), catalogue)
}
