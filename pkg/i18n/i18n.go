package i18n

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// DefaultLang is the fallback language when none is configured.
const DefaultLang = "en"

// M holds placeholder values.
type M map[string]any

// I18n holds one flat dictionary per language. It is immutable after New
// and safe for concurrent use.
type I18n struct {
	// key format: "lang:key.path"
	translations map[string]string
	pluralRules  map[string]PluralRule
	missingKey   func(lang, key string)
	defaultLang  string
	languages    []string
}

// Option configures I18n during construction.
type Option func(*I18n) error

func New(opts ...Option) (*I18n, error) {
	i := &I18n{
		translations: make(map[string]string),
		pluralRules:  make(map[string]PluralRule),
		defaultLang:  DefaultLang,
	}

	for _, opt := range opts {
		if err := opt(i); err != nil {
			return nil, fmt.Errorf("i18n: apply option: %w", err)
		}
	}

	if len(i.languages) == 0 {
		return nil, ErrNoLanguages
	}

	// default language first, the rest sorted
	slices.Sort(i.languages)
	if idx := slices.Index(i.languages, i.defaultLang); idx > 0 {
		i.languages = append([]string{i.defaultLang}, slices.Delete(i.languages, idx, idx+1)...)
	}

	return i, nil
}

// WithDefaultLanguage sets the fallback language.
func WithDefaultLanguage(lang string) Option {
	return func(i *I18n) error {
		if lang == "" {
			return ErrEmptyLanguage
		}
		i.defaultLang = lang
		return nil
	}
}

// WithTranslations adds a (possibly nested) dictionary for lang.
func WithTranslations(lang string, dict map[string]any) Option {
	return func(i *I18n) error {
		return i.add(lang, dict)
	}
}

// WithPluralRule overrides the plural rule of lang.
func WithPluralRule(lang string, rule PluralRule) Option {
	return func(i *I18n) error {
		if lang == "" {
			return ErrEmptyLanguage
		}
		if rule == nil {
			return ErrNilPluralRule
		}
		i.pluralRules[lang] = rule
		return nil
	}
}

// WithMissingKeyHandler is called when a key is absent from both the
// requested and the default language.
func WithMissingKeyHandler(fn func(lang, key string)) Option {
	return func(i *I18n) error {
		i.missingKey = fn
		return nil
	}
}

func (i *I18n) add(lang string, dict map[string]any) error {
	if lang == "" {
		return ErrEmptyLanguage
	}
	for key, value := range flatten(dict, "") {
		i.translations[lang+":"+key] = value
	}
	if !slices.Contains(i.languages, lang) {
		i.languages = append(i.languages, lang)
	}
	if _, ok := i.pluralRules[lang]; !ok {
		i.pluralRules[lang] = PluralRuleFor(lang)
	}
	return nil
}

// T translates key for lang. Lookup order: lang, the default language,
// then the key itself.
func (i *I18n) T(lang, key string, vars ...M) string {
	if s, ok := i.lookup(lang, key); ok {
		return Replace(s, merge(vars))
	}
	if i.missingKey != nil {
		i.missingKey(lang, key)
	}
	return key
}

// Tn translates a plural key. The form is chosen by the language's rule
// and n is available as {{count}}.
func (i *I18n) Tn(lang, key string, n int, vars ...M) string {
	rule, ok := i.pluralRules[lang]
	if !ok {
		rule = PluralRuleFor(lang)
	}

	form := rule(n)
	for _, candidate := range []string{key + "." + form, key + "." + PluralOther, key} {
		if s, ok := i.lookup(lang, candidate); ok {
			values := merge(vars)
			values["count"] = n
			return Replace(s, values)
		}
	}

	if i.missingKey != nil {
		i.missingKey(lang, key)
	}
	return key
}

func (i *I18n) lookup(lang, key string) (string, bool) {
	if s, ok := i.translations[lang+":"+key]; ok {
		return s, true
	}
	if base := baseLanguage(lang); base != lang {
		if s, ok := i.translations[base+":"+key]; ok {
			return s, true
		}
	}
	if lang != i.defaultLang {
		if s, ok := i.translations[i.defaultLang+":"+key]; ok {
			return s, true
		}
	}
	return "", false
}

// Has reports whether a dictionary for lang was loaded.
func (i *I18n) Has(lang string) bool {
	return slices.Contains(i.languages, lang)
}

// Languages lists loaded languages, default first.
func (i *I18n) Languages() []string {
	return slices.Clone(i.languages)
}

func (i *I18n) DefaultLanguage() string {
	return i.defaultLang
}

func flatten(data map[string]any, prefix string) map[string]string {
	out := make(map[string]string)
	for key, value := range data {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		switch v := value.(type) {
		case string:
			out[full] = v
		case map[string]any:
			maps.Copy(out, flatten(v, full))
		default:
			out[full] = fmt.Sprint(v)
		}
	}
	return out
}

func merge(vars []M) M {
	out := make(M)
	for _, v := range vars {
		maps.Copy(out, v)
	}
	return out
}

// baseLanguage strips the region: "tr-TR" becomes "tr".
func baseLanguage(lang string) string {
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		return strings.ToLower(lang[:i])
	}
	return lang
}
