package prefs

import "github.com/tripmux/tripmux/pkg/i18n"

// Environment carries what a page load knows about the visitor.
type Environment struct {
	// QueryLanguage is the ?lang= override of the current URL.
	QueryLanguage string
	// AcceptLanguage is the raw Accept-Language header.
	AcceptLanguage string
	// TimeZone is the IANA zone reported by the browser, if any.
	TimeZone string
}

// Detector guesses a language when the visitor has not chosen one.
// It returns "" when it has no opinion.
type Detector interface {
	Detect(env Environment) string
}

// DetectorFunc adapts a function to Detector.
type DetectorFunc func(env Environment) string

func (f DetectorFunc) Detect(env Environment) string { return f(env) }

var zoneLanguages = map[string]string{
	"Europe/Istanbul": "tr",
	"Asia/Istanbul":   "tr",
	"Turkey":          "tr",
}

// HeuristicDetector tries the time zone first and then the browser language.
func HeuristicDetector(dict *i18n.I18n) Detector {
	return DetectorFunc(func(env Environment) string {
		if lang, ok := zoneLanguages[env.TimeZone]; ok && dict.Has(lang) {
			return lang
		}
		if lang, ok := dict.Match(env.AcceptLanguage); ok {
			return lang
		}
		return ""
	})
}
