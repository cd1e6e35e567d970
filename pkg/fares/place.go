package fares

import "strings"

// PlaceType tags a place as an airport or a city.
type PlaceType string

const (
	Airport PlaceType = "airport"
	City    PlaceType = "city"
)

// Place is an autocomplete suggestion.
type Place struct {
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	CountryName string    `json:"country_name,omitempty"`
	CityName    string    `json:"city_name,omitempty"`
	AirportName string    `json:"airport_name,omitempty"`
	Type        PlaceType `json:"type"`
}

// Label is the menu text, e.g. "Istanbul Airport, Istanbul (IST)".
func (p Place) Label() string {
	name := p.Name
	if p.Type == Airport && p.AirportName != "" {
		name = p.AirportName
	}

	var b strings.Builder
	b.WriteString(name)
	switch {
	case p.Type == Airport && p.CityName != "" && p.CityName != name:
		b.WriteString(", ")
		b.WriteString(p.CityName)
	case p.CountryName != "":
		b.WriteString(", ")
		b.WriteString(p.CountryName)
	}
	if p.Code != "" {
		b.WriteString(" (")
		b.WriteString(p.Code)
		b.WriteString(")")
	}
	return b.String()
}
