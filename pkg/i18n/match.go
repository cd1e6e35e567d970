package i18n

import (
	"golang.org/x/text/language"
)

// Match returns the loaded language that best fits an Accept-Language
// header value. ok is false when nothing matches with at least low confidence.
func (i *I18n) Match(acceptLanguage string) (string, bool) {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return "", false
	}

	supported := make([]language.Tag, 0, len(i.languages))
	for _, l := range i.languages {
		supported = append(supported, language.Make(l))
	}

	_, idx, conf := language.NewMatcher(supported).Match(tags...)
	if conf == language.No {
		return "", false
	}
	return i.languages[idx], true
}
