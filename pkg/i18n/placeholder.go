package i18n

import (
	"fmt"
	"strings"
)

// Replace substitutes {{name}} placeholders with values from vars.
// Unknown placeholders are left as is.
//
//	Replace("Prices returned in {{currency}}", M{"currency": "USD"})
//	// Prices returned in USD
func Replace(template string, vars M) string {
	if len(vars) == 0 || !strings.Contains(template, "{{") {
		return template
	}

	pairs := make([]string, 0, len(vars)*2)
	for name, value := range vars {
		pairs = append(pairs, "{{"+name+"}}", fmt.Sprint(value))
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
