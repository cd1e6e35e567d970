// Package views renders the widget page and its htmx fragments.
//
// Templates are html/template files wrapped as templ components, so
// handlers pass them to Context.Render like any other component.
package views

import (
	"context"
	"embed"
	"html/template"
	"io"

	"github.com/a-h/templ"

	"github.com/tripmux/tripmux/pkg/content"
	"github.com/tripmux/tripmux/pkg/fares"
	"github.com/tripmux/tripmux/pkg/i18n"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Assets holds static/app.css and static/app.js.
//
//go:embed static
var Assets embed.FS

type head struct {
	Lang  string
	Title string
}

var templates = template.Must(
	template.New("views").
		Funcs(template.FuncMap{
			"layout": func(lang, title string) head { return head{Lang: lang, Title: title} },
		}).
		ParseFS(templatesFS, "templates/*.html"),
)

func component(name string, data any) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return templates.ExecuteTemplate(w, name, data)
	})
}

// WidgetPage is the full widget page.
func WidgetPage(p Page) templ.Component { return component("page", p) }

// LanguageSelector is the language form.
func LanguageSelector(p Page) templ.Component { return component("language", p) }

// CurrencySelector is the currency form; it shows a pending state while
// Auto is resolving.
func CurrencySelector(p Page) templ.Component { return component("currency", p) }

func DateField(p Page) templ.Component { return component("date-field", p) }

func Passengers(p Page) templ.Component { return component("passengers", p) }

// ResultsArea renders r; set r.OOB to swap it out of band.
func ResultsArea(r Results) templ.Component { return component("results", r) }

// PlacesMenu is the autocomplete dropdown of field.
func PlacesMenu(field string, places []fares.Place) templ.Component {
	return component("menu", Menu{Field: field, Places: places})
}

// ContentPage wraps a rendered markdown page in the site layout.
func ContentPage(tr *i18n.Translator, page *content.Page) templ.Component {
	return component("content", struct {
		T    *i18n.Translator
		Lang string
		Page *content.Page
	}{T: tr, Lang: tr.Language(), Page: page})
}

// Problem is an error shown to the visitor.
type Problem struct {
	Lang      string
	Title     string
	Message   string
	RequestID string
}

// ErrorPage is a standalone error document.
func ErrorPage(p Problem) templ.Component { return component("error-page", p) }

// ErrorAlert is the fragment swapped into #flash for htmx requests.
func ErrorAlert(p Problem) templ.Component { return component("error", p) }
