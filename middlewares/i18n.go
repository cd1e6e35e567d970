package middlewares

import (
	"github.com/tripmux/tripmux/internal"
	"github.com/tripmux/tripmux/pkg/i18n"
)

// I18n binds a translator to the request and sets Content-Language.
// With a widget bound, the translator follows the visitor's stored
// language; otherwise the ?lang= query and Accept-Language decide.
func I18n(dict *i18n.I18n) internal.Middleware {
	lang := internal.NewExtractor(
		internal.FromQuery("lang"),
		fromAcceptLanguage(dict),
	)

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			var tr *i18n.Translator
			if w := GetWidget(c); w != nil {
				tr = w.Prefs.Translator()
			} else {
				tr = i18n.NewTranslator(dict, lang.Value(c))
			}

			c.Set(internal.TranslatorKey{}, tr)
			c.ResponseWriter().OnBeforeWrite(func() {
				c.SetHeader("Content-Language", c.Language())
			})
			return next(c)
		}
	}
}

func fromAcceptLanguage(dict *i18n.I18n) internal.ExtractorSource {
	return func(c internal.Context) (string, bool) {
		return dict.Match(c.Header("Accept-Language"))
	}
}
