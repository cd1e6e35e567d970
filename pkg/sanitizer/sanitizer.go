// Package sanitizer turns untrusted text from upstream services and user
// input into plain text that is safe to place in a page.
package sanitizer

import (
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

// MaxDetailLength caps upstream error detail shown next to a failed search.
const MaxDetailLength = 300

var strict = sync.OnceValue(bluemonday.StrictPolicy)

// Text strips every tag, collapses whitespace and trims the result.
func Text(s string) string {
	if s == "" {
		return ""
	}
	return strings.Join(strings.Fields(strict().Sanitize(s)), " ")
}

// Detail is Text truncated to MaxDetailLength runes with an ellipsis.
func Detail(s string) string {
	return Truncate(Text(s), MaxDetailLength)
}

// Truncate shortens s to at most n runes, ending with "…" when cut.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:n-1])) + "…"
}
