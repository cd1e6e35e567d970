// Package locales embeds the shipped translation dictionaries.
package locales

import "embed"

//go:embed *.yaml
var FS embed.FS
