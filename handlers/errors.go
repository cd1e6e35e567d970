package handlers

import (
	"log/slog"
	"net/http"

	"github.com/tripmux/tripmux"
	"github.com/tripmux/tripmux/middlewares"
	"github.com/tripmux/tripmux/pkg/htmx"
	"github.com/tripmux/tripmux/views"
)

// ErrorHandler renders handler errors. htmx requests get an alert swapped
// into #flash; other requests get an error page with the real status.
func ErrorHandler(c tripmux.Context, err error) error {
	status, message := http.StatusInternalServerError, ""

	if he := tripmux.AsHTTPError(err); he != nil {
		status, message = he.Code, he.Message
	} else if te, ok := middlewares.AsTimeoutError(err); ok {
		status = http.StatusGatewayTimeout
		c.LogWarn("request timed out", slog.Duration("timeout", te.Duration))
	}

	if status >= http.StatusInternalServerError {
		if _, ok := middlewares.AsPanicError(err); !ok {
			c.LogError("request failed", slog.Any("error", err), slog.Int("status", status))
		}
	}
	if message == "" || status >= http.StatusInternalServerError {
		message = http.StatusText(status)
	}

	p := views.Problem{
		Lang:      c.Language(),
		Title:     c.T("errorTitle"),
		Message:   message,
		RequestID: middlewares.GetRequestID(c),
	}
	// No translator outside the middleware chain, e.g. for router 404s.
	if p.Lang == "" {
		p.Lang, p.Title = "en", http.StatusText(status)
	}
	if c.IsHTMX() {
		return c.Render(status, views.ErrorAlert(p),
			htmx.WithRetarget("#flash"),
			htmx.WithReswap(htmx.SwapInnerHTML),
		)
	}
	return c.Render(status, views.ErrorPage(p))
}

// NotFound renders the 404 page.
func NotFound(c tripmux.Context) error {
	message := c.T("notFound")
	if message == "notFound" {
		message = http.StatusText(http.StatusNotFound)
	}
	return ErrorHandler(c, tripmux.ErrNotFound(message))
}
