package i18n

// PluralRule picks a CLDR plural category for n.
type PluralRule func(n int) string

const (
	PluralOne   = "one"
	PluralOther = "other"
)

// OneOtherRule covers English and Turkish: "one" for 1, "other" otherwise.
var OneOtherRule PluralRule = func(n int) string {
	if n == 1 || n == -1 {
		return PluralOne
	}
	return PluralOther
}

// PluralRuleFor returns the rule for a language. Only one/other
// languages are shipped, so every language maps to OneOtherRule.
func PluralRuleFor(string) PluralRule {
	return OneOtherRule
}
