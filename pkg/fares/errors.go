package fares

import (
	"errors"
	"fmt"
)

var ErrEmptyTerm = errors.New("fares: empty search term")

// RequestError is returned for a non-2xx fare response.
type RequestError struct {
	Detail string // response body as plain text, safe to display
	Status int
}

func (e *RequestError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("request failed (%d)", e.Status)
	}
	return fmt.Sprintf("request failed (%d). %s", e.Status, e.Detail)
}

// AsRequestError extracts a RequestError from err.
func AsRequestError(err error) (*RequestError, bool) {
	var re *RequestError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
