package handlers

import (
	"net/http"
	"strings"

	"github.com/tripmux/tripmux"
	"github.com/tripmux/tripmux/pkg/affiliates"
	"github.com/tripmux/tripmux/pkg/currency"
	"github.com/tripmux/tripmux/pkg/htmx"
	"github.com/tripmux/tripmux/views"
)

// Prefs changes language and currency.
type Prefs struct {
	catalogue *affiliates.Catalogue
}

func NewPrefs(catalogue *affiliates.Catalogue) *Prefs {
	return &Prefs{catalogue: catalogue}
}

func (h *Prefs) Routes(r tripmux.Router) {
	r.Route("/prefs", func(r tripmux.Router) {
		r.POST("/language", h.language)
		r.POST("/currency", h.currency)
	})
}

// language stores the choice as an override. Every label on the page
// changes, so htmx reloads the page and plain forms are redirected.
func (h *Prefs) language(c tripmux.Context) error {
	w, err := current(c)
	if err != nil {
		return err
	}

	w.Prefs.SetLanguage(c, strings.TrimSpace(c.Form("lang")))

	if !c.IsHTMX() {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	return c.Render(http.StatusOK, views.LanguageSelector(page(w, h.catalogue)), htmx.WithRefresh())
}

// currency applies the mode and waits for Auto to resolve. When results
// are on screen the store has scheduled a re-search; the results area is
// swapped out of band into a placeholder that polls /results.
func (h *Prefs) currency(c tripmux.Context) error {
	w, err := current(c)
	if err != nil {
		return err
	}

	mode := currency.Mode(strings.ToUpper(strings.TrimSpace(c.Form("mode"))))
	w.Prefs.SetCurrencyMode(c, mode)

	if !c.IsHTMX() {
		return c.Redirect(http.StatusSeeOther, "/")
	}

	p := page(w, h.catalogue)
	var oob tripmux.Component
	if p.Results.State == views.ResultsPending {
		p.Results.OOB = true
		oob = views.ResultsArea(p.Results)
	}
	return c.Render(http.StatusOK, views.CurrencySelector(p), htmx.WithOOB(oob))
}
