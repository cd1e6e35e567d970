package sanitizer_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/tripmux/tripmux/pkg/sanitizer"
)

func TestText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "plain", input: "upstream timeout", want: "upstream timeout"},
		{name: "script", input: `<p>Bad gateway</p><script>alert(1)</script>`, want: "Bad gateway"},
		{name: "nested tags", input: "<h1>502</h1>\n<p>nginx <b>error</b></p>", want: "502 nginx error"},
		{name: "event handler", input: `<img src=x onerror="alert(1)">`, want: ""},
		{name: "whitespace", input: "  too \n\t many   spaces ", want: "too many spaces"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, sanitizer.Text(tt.input))
		})
	}
}

func TestDetail(t *testing.T) {
	t.Parallel()

	long := "<pre>" + strings.Repeat("x", 1000) + "</pre>"
	got := sanitizer.Detail(long)
	assert.Equal(t, sanitizer.MaxDetailLength, utf8.RuneCountInString(got))
	assert.True(t, strings.HasSuffix(got, "…"))
	assert.NotContains(t, got, "<pre>")
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "İstanbul", sanitizer.Truncate("İstanbul", 8))
	assert.Equal(t, "İst…", sanitizer.Truncate("İstanbul", 4))
	assert.Empty(t, sanitizer.Truncate("abc", 0))
}
