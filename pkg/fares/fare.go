// Package fares is the HTTP client for the upstream fare and place search API.
package fares

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Fare is one priced itinerary. Currency may differ from the requested one.
type Fare struct {
	AirlineName     string          `json:"airlineName"`
	AirlineCode     string          `json:"airlineCode"`
	From            string          `json:"from"`
	To              string          `json:"to"`
	Date            string          `json:"date"`
	Currency        string          `json:"currency"`
	PartnerURL      string          `json:"aviasalesUrl"`
	Price           decimal.Decimal `json:"price"`
	DurationMinutes int             `json:"durationMinutes"`
	Transfers       int             `json:"transfers"`
}

// Month returns the YYYY-MM prefix of Date, or "" when Date is too short.
func (f Fare) Month() string {
	if len(f.Date) < 7 {
		return ""
	}
	return f.Date[:7]
}

// Duration formats DurationMinutes as "2h 05m", or "45m" under an hour.
func (f Fare) Duration() string {
	if f.DurationMinutes < 60 {
		return fmt.Sprintf("%dm", max(f.DurationMinutes, 0))
	}
	return fmt.Sprintf("%dh %02dm", f.DurationMinutes/60, f.DurationMinutes%60)
}

// Query is the input of LookupFares. Limit and Passengers are sent only
// when positive.
type Query struct {
	Origin      string
	Destination string
	DepartureAt string
	Currency    string
	Limit       int
	Passengers  int
}
