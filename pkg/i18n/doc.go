// Package i18n provides flat per-language dictionaries with default-language
// fallback, one/other plural forms and {{name}} placeholders.
//
// Dictionaries are YAML files named after their language:
//
//	i, err := i18n.New(
//	    i18n.WithDefaultLanguage("en"),
//	    i18n.WithYAMLDir(locales.FS),
//	)
//	i.T("tr", "search")                 // "Ara"
//	i.Tn("en", "paxInfo", 2)            // "Prices shown for 2 passengers"
//	i.T("en", "currencyMismatchWarning", i18n.M{"currency": "USD"})
//
// A key missing from the requested language falls back to the default
// language, and then to the key itself, so T never returns an empty string
// for a non-empty key.
package i18n
