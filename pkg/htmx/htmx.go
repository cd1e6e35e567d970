// Package htmx holds the request and response headers the widget
// exchanges with htmx, plus render options for partial updates.
package htmx

import "net/http"

// IsHTMX reports whether the request was issued by htmx.
func IsHTMX(r *http.Request) bool {
	return r.Header.Get(HeaderHXRequest) == "true"
}
