package handlers

import (
	"errors"
	"net/http"

	"github.com/tripmux/tripmux"
	"github.com/tripmux/tripmux/pkg/affiliates"
	"github.com/tripmux/tripmux/pkg/content"
	"github.com/tripmux/tripmux/views"
)

// Pages serves the widget page and the content pages.
type Pages struct {
	catalogue *affiliates.Catalogue
	pages     *content.Pages
}

func NewPages(catalogue *affiliates.Catalogue, pages *content.Pages) *Pages {
	return &Pages{catalogue: catalogue, pages: pages}
}

func (h *Pages) Routes(r tripmux.Router) {
	r.Page("/", h.index)
	r.Page("/how-it-works", h.howItWorks)
}

// index renders the page. The widget middleware already opened a fresh
// widget for this load, so preferences are initialized.
func (h *Pages) index(c tripmux.Context) error {
	w, err := current(c)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, views.WidgetPage(page(w, h.catalogue)))
}

func (h *Pages) howItWorks(c tripmux.Context) error {
	w, err := current(c)
	if err != nil {
		return err
	}

	tr := w.Prefs.Translator()
	p, err := h.pages.Render("how-it-works", tr.Language())
	if errors.Is(err, content.ErrPageNotFound) {
		return tripmux.ErrNotFound(tr.T("notFound"))
	}
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, views.ContentPage(tr, p))
}
