package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Translator binds an I18n to one language.
type Translator struct {
	i18n    *I18n
	printer *message.Printer
	lang    string
}

// NewTranslator falls back to the default language for an empty or unknown lang.
func NewTranslator(i *I18n, lang string) *Translator {
	if i == nil {
		panic("i18n: translator needs an I18n")
	}
	if lang == "" || !i.Has(lang) {
		lang = i.DefaultLanguage()
	}
	return &Translator{
		i18n:    i,
		printer: message.NewPrinter(language.Make(lang)),
		lang:    lang,
	}
}

func (t *Translator) T(key string, vars ...M) string {
	return t.i18n.T(t.lang, key, vars...)
}

func (t *Translator) Tn(key string, n int, vars ...M) string {
	return t.i18n.Tn(t.lang, key, n, vars...)
}

// FormatNumber applies the language's digit grouping.
func (t *Translator) FormatNumber(n int) string {
	return t.printer.Sprint(n)
}

func (t *Translator) Language() string {
	return t.lang
}

// Tag returns the BCP 47 tag of the translator's language.
func (t *Translator) Tag() language.Tag {
	return language.Make(t.lang)
}
