package search

import (
	"strconv"
	"strings"

	"github.com/tripmux/tripmux/pkg/datemode"
)

const (
	MinPassengers = 1
	MaxPassengers = 9
)

// NormalizeCode drops everything but ASCII letters, uppercases and keeps
// at most three characters: " ist-" becomes "IST".
func NormalizeCode(s string) string {
	var b strings.Builder
	for _, r := range s {
		if b.Len() == 3 {
			break
		}
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r - 'a' + 'A')
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidCode reports whether s is exactly three uppercase ASCII letters.
func ValidCode(s string) bool {
	if len(s) != 3 {
		return false
	}
	for i := range 3 {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}

// ClampPassengers parses a typed passenger count. Non-numeric input
// becomes 1 and numbers are clamped to 1..9.
func ClampPassengers(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return MinPassengers
	}
	return ClampCount(n)
}

// ClampCount clamps n to 1..9.
func ClampCount(n int) int {
	return min(max(n, MinPassengers), MaxPassengers)
}

// StepPassengers applies a +/- button press within bounds.
func StepPassengers(n, delta int) int {
	return ClampCount(ClampCount(n) + delta)
}

// Request is the search form.
type Request struct {
	Origin      string
	Destination string
	Departure   string
	// Mode defaults to the controller's active mode.
	Mode       datemode.Mode
	Passengers int
}

// Normalize returns r with route codes normalized, the departure trimmed
// and the passenger count clamped.
func (r Request) Normalize() Request {
	r.Origin = NormalizeCode(r.Origin)
	r.Destination = NormalizeCode(r.Destination)
	r.Departure = strings.TrimSpace(r.Departure)
	r.Passengers = ClampCount(r.Passengers)
	return r
}

// Validate applies the checks in order: completeness, code shape, distinct
// endpoints. Call it on a normalized request.
func (r Request) Validate() error {
	if r.Origin == "" || r.Destination == "" || r.Departure == "" {
		return invalid(ErrIncomplete)
	}
	if !ValidCode(r.Origin) || !ValidCode(r.Destination) {
		return invalid(ErrInvalidCode)
	}
	if r.Origin == r.Destination {
		return invalid(ErrSameRoute)
	}
	return nil
}

// Swap exchanges origin and destination.
func (r Request) Swap() Request {
	r.Origin, r.Destination = NormalizeCode(r.Destination), NormalizeCode(r.Origin)
	return r
}
