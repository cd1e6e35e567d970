package views

import (
	"strconv"

	"github.com/tripmux/tripmux/pkg/affiliates"
	"github.com/tripmux/tripmux/pkg/currency"
	"github.com/tripmux/tripmux/pkg/datemode"
	"github.com/tripmux/tripmux/pkg/fares"
	"github.com/tripmux/tripmux/pkg/i18n"
	"github.com/tripmux/tripmux/pkg/prefs"
	"github.com/tripmux/tripmux/pkg/search"
	"github.com/tripmux/tripmux/pkg/widget"
)

// Option is one entry of a select or radio group.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// PartnerGroup is one category of the partner list.
type PartnerGroup struct {
	Title    string
	Partners []affiliates.Partner
}

// Page is everything the widget page and its fragments render.
type Page struct {
	T    *i18n.Translator
	Lang string

	Languages  []Option
	Currencies []Option
	Resolving  bool

	DateModes []Option
	DateField datemode.Field
	Hint      string

	Origin      string
	Destination string

	Passengers int
	PaxInfo    string

	Results  Results
	Partners []PartnerGroup
	Rel      string
}

// NewPage captures the current state of w in the language of tr.
func NewPage(w *widget.Widget, tr *i18n.Translator, catalogue *affiliates.Catalogue) Page {
	snap := w.Prefs.Snapshot()
	passengers := w.Passengers()

	p := Page{
		T:          tr,
		Lang:       tr.Language(),
		Languages:  languageOptions(w.Prefs.Languages(), snap.Language),
		Currencies: currencyOptions(tr, snap),
		Resolving:  snap.Resolving,
		DateModes:  dateModeOptions(tr, w.Dates.Mode()),
		DateField:  w.Dates.Field(),
		Hint:       w.Dates.Hint(),
		Passengers: passengers,
		PaxInfo:    tr.Tn("paxInfo", passengers),
		Results:    NewResults(tr, w.Search.Outcome(), w.Search.Pending()),
		Rel:        affiliates.Rel,
	}
	if last, ok := w.Search.LastRequest(); ok {
		p.Origin, p.Destination = last.Origin, last.Destination
	}
	if catalogue != nil {
		for _, cat := range []affiliates.Category{affiliates.Flights, affiliates.BusRail} {
			if partners := catalogue.ByCategory(cat); len(partners) > 0 {
				p.Partners = append(p.Partners, PartnerGroup{Title: tr.T(string(cat)), Partners: partners})
			}
		}
	}
	return p
}

func languageOptions(langs []string, active string) []Option {
	out := make([]Option, 0, len(langs))
	for _, l := range langs {
		out = append(out, Option{Value: l, Label: l, Selected: l == active})
	}
	return out
}

func currencyOptions(tr *i18n.Translator, snap prefs.Snapshot) []Option {
	modes := currency.Modes()
	out := make([]Option, 0, len(modes))
	for _, m := range modes {
		label := m.String()
		if m == currency.Auto {
			label = tr.T("currencyAuto")
			if !snap.Resolving {
				label += " (" + snap.Currency.String() + ")"
			}
		} else if code, ok := m.Code(); ok {
			label = code.String() + " " + code.Symbol()
		}
		out = append(out, Option{Value: m.String(), Label: label, Selected: m == snap.Mode})
	}
	return out
}

func dateModeOptions(tr *i18n.Translator, active datemode.Mode) []Option {
	modes := datemode.Modes()
	out := make([]Option, 0, len(modes))
	for _, m := range modes {
		out = append(out, Option{Value: string(m), Label: tr.T(string(m)), Selected: m == active})
	}
	return out
}

// ResultsState is what the results area shows.
type ResultsState string

const (
	ResultsIdle    ResultsState = "idle"
	ResultsPending ResultsState = "pending"
	ResultsError   ResultsState = "error"
	ResultsEmpty   ResultsState = "empty"
	ResultsShown   ResultsState = "results"
)

// Row is one rendered fare.
type Row struct {
	Airline     string
	AirlineCode string
	Route       string
	Date        string
	Duration    string
	Stops       string
	Price       string
	URL         string
	Best        bool
}

// Results is the results area.
type Results struct {
	T        *i18n.Translator
	State    ResultsState
	Message  string
	Mismatch string
	Rows     []Row
	YearMode bool
	// OOB marks an out-of-band swap.
	OOB bool
}

// NewResults turns an outcome into display rows. pending means a re-search
// is scheduled and the area should poll for it.
func NewResults(tr *i18n.Translator, out search.Outcome, pending bool) Results {
	r := Results{T: tr, State: ResultsIdle}
	switch {
	case pending:
		r.State = ResultsPending
		r.Message = tr.T("loading")
	case out.Err != nil:
		r.State = ResultsError
		r.Message = ErrorMessage(tr, out.Err)
	case out.Results == nil:
	case out.Results.Empty():
		r.State = ResultsEmpty
		r.Message = tr.T("noResults")
	default:
		r.State = ResultsShown
		r.YearMode = out.Results.YearMode
		if out.Results.Mismatch {
			r.Mismatch = tr.T("currencyMismatchWarning", i18n.M{"currency": out.Results.ReturnedCurrency})
		}
		for i, f := range out.Results.Fares {
			r.Rows = append(r.Rows, newRow(tr, f, i == 0))
		}
	}
	return r
}

func newRow(tr *i18n.Translator, f fares.Fare, best bool) Row {
	code := currency.Code(f.Currency)
	return Row{
		Airline:     f.AirlineName,
		AirlineCode: f.AirlineCode,
		Route:       f.From + " → " + f.To,
		Date:        f.Date,
		Duration:    f.Duration(),
		Stops:       StopLabel(tr, f.Transfers),
		Price:       code.Format(tr.Tag(), f.Price.InexactFloat64()),
		URL:         f.PartnerURL,
		Best:        best,
	}
}

// StopLabel renders a transfer count: direct, 1 stop, N stops.
func StopLabel(tr *i18n.Translator, transfers int) string {
	switch {
	case transfers <= 0:
		return tr.T("direct")
	case transfers == 1:
		return "1 " + tr.T("stop")
	default:
		return strconv.Itoa(transfers) + " " + tr.T("stops")
	}
}

// ErrorMessage is the user-facing text of a failed search.
func ErrorMessage(tr *i18n.Translator, err error) string {
	if ve, ok := search.AsValidationError(err); ok {
		return tr.T(ve.Key)
	}
	if re, ok := fares.AsRequestError(err); ok {
		return tr.T("requestFailed", i18n.M{"status": re.Status, "detail": re.Detail})
	}
	return tr.T("searchFailed")
}

// Menu is an autocomplete dropdown.
type Menu struct {
	Field  string
	Places []fares.Place
}
