// Package currency defines the supported display currencies, the currency
// selection mode and the client for the remote currency suggestion service.
//
// The package never converts amounts. It only decides which currency code
// is requested from the fare service.
package currency

import (
	"fmt"
	"slices"
	"strings"

	xcurrency "golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Code is an ISO 4217 code from the supported set.
type Code string

const (
	TRY Code = "TRY"
	EUR Code = "EUR"
	USD Code = "USD"
)

// Default is used whenever a currency cannot be resolved.
const Default = EUR

var supported = []Code{TRY, EUR, USD}

// Supported returns the supported codes in display order.
func Supported() []Code {
	return slices.Clone(supported)
}

// Valid reports whether c is a supported code.
func (c Code) Valid() bool {
	return slices.Contains(supported, c)
}

func (c Code) String() string { return string(c) }

// Symbol returns the narrow currency symbol, e.g. "€" for EUR.
func (c Code) Symbol() string {
	unit, err := xcurrency.ParseISO(string(c))
	if err != nil {
		return string(c)
	}
	return fmt.Sprint(xcurrency.NarrowSymbol(unit))
}

// Format renders amount with the currency symbol and the number
// conventions of lang, e.g. "₺ 1.234,50" for Turkish.
func (c Code) Format(lang language.Tag, amount float64) string {
	unit, err := xcurrency.ParseISO(string(c))
	if err != nil {
		return message.NewPrinter(lang).Sprintf("%.2f %s", amount, string(c))
	}
	return message.NewPrinter(lang).Sprint(xcurrency.NarrowSymbol(unit.Amount(amount)))
}

// ParseCode normalizes s and reports whether it is supported.
func ParseCode(s string) (Code, bool) {
	c := Code(strings.ToUpper(strings.TrimSpace(s)))
	return c, c.Valid()
}

// Mode is the user's currency selection: Auto or a concrete code.
type Mode string

// Auto resolves the effective currency through the suggestion service.
const Auto Mode = "AUTO"

// Valid reports whether m is Auto or a supported code.
func (m Mode) Valid() bool {
	if m == Auto {
		return true
	}
	return Code(m).Valid()
}

// Code returns the concrete code of a non-auto mode.
func (m Mode) Code() (Code, bool) {
	if m == Auto {
		return "", false
	}
	c := Code(m)
	return c, c.Valid()
}

func (m Mode) String() string { return string(m) }

// ParseMode normalizes s and reports whether it is a valid mode.
func ParseMode(s string) (Mode, bool) {
	m := Mode(strings.ToUpper(strings.TrimSpace(s)))
	return m, m.Valid()
}

// Modes returns Auto followed by every supported code.
func Modes() []Mode {
	modes := make([]Mode, 0, len(supported)+1)
	modes = append(modes, Auto)
	for _, c := range supported {
		modes = append(modes, Mode(c))
	}
	return modes
}
