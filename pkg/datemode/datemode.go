// Package datemode controls the departure date granularity of a search
// form and produces the departure value sent with a fare query.
package datemode

import (
	"strconv"
	"strings"
	"sync"
	"time"
)

// Mode is the date granularity.
type Mode string

const (
	Day   Mode = "day"
	Month Mode = "month"
	Year  Mode = "year"
)

// Modes lists every mode in display order.
func Modes() []Mode { return []Mode{Day, Month, Year} }

// ParseMode reports whether s names a mode.
func ParseMode(s string) (Mode, bool) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case Day, Month, Year:
		return m, true
	}
	return "", false
}

// HintKey is the translation key shown below the field in year mode.
const HintKey = "yearModeHint"

// MinYear is the lowest year accepted by the year field.
const MinYear = 1900

// Field describes the bound date input.
type Field struct {
	Kind        string // HTML input type: date, month or number
	Value       string
	Min         string
	Max         string
	Step        string
	Placeholder string
	InputMode   string
}

// Controller is safe for concurrent use.
type Controller struct {
	now       func() time.Time
	translate func(key string) string

	mu      sync.RWMutex
	mode    Mode
	field   Field
	hintKey string
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithTranslator sets the function used for the hint text.
func WithTranslator(fn func(key string) string) Option {
	return func(c *Controller) { c.translate = fn }
}

// New starts in day mode with today's date.
func New(opts ...Option) *Controller {
	c := &Controller{
		now:       time.Now,
		translate: func(key string) string { return key },
	}
	for _, opt := range opts {
		opt(c)
	}
	c.SetMode(Day)
	return c
}

// SetMode replaces the field rules, resets the value to the mode default
// and swaps the hint. Selecting the active mode again also resets the value.
// Unknown modes are ignored.
func (c *Controller) SetMode(m Mode) {
	now := c.now()

	var f Field
	hint := ""
	switch m {
	case Day:
		f = Field{Kind: "date", Value: now.Format(time.DateOnly)}
	case Month:
		f = Field{Kind: "month", Value: now.Format("2006-01")}
	case Year:
		year := now.Year()
		f = Field{
			Kind:        "number",
			Value:       strconv.Itoa(year),
			Min:         strconv.Itoa(MinYear),
			Max:         strconv.Itoa(year + 5),
			Step:        "1",
			Placeholder: "----",
			InputMode:   "numeric",
		}
		hint = HintKey
	default:
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = m
	c.field = f
	c.hintKey = hint
}

// SetValue stores what the user typed.
func (c *Controller) SetValue(raw string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.field.Value = raw
}

func (c *Controller) Mode() Mode {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mode
}

// Field returns a copy of the bound input description.
func (c *Controller) Field() Field {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.field
}

// Hint returns the translated help text, empty outside year mode.
func (c *Controller) Hint() string {
	c.mu.RLock()
	key := c.hintKey
	c.mu.RUnlock()

	if key == "" {
		return ""
	}
	return c.translate(key)
}

// DepartureValue returns the trimmed input value. In year mode every
// non-digit is dropped and the result is cut to four characters.
// An empty result means the form is incomplete.
func (c *Controller) DepartureValue() string {
	c.mu.RLock()
	mode, raw := c.mode, c.field.Value
	c.mu.RUnlock()

	v := strings.TrimSpace(raw)
	if v == "" || mode != Year {
		return v
	}

	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, v)
	if len(digits) > 4 {
		digits = digits[:4]
	}
	return digits
}
