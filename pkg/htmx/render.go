package htmx

import (
	"context"
	"encoding/json"
	"io"
	"maps"
	"net/http"
	"slices"
	"strings"
)

// Renderable matches templ.Component.
type Renderable interface {
	Render(ctx context.Context, w io.Writer) error
}

// Config collects the response headers and out-of-band fragments of one
// render.
type Config struct {
	OOBComponents []Renderable
	Retarget      string
	Reswap        SwapStrategy
	Refresh       bool
	// Events are fired on the client through HX-Trigger. A nil detail
	// fires a plain event.
	Events map[string]any
}

// RenderOption configures a render.
type RenderOption func(*Config)

func NewConfig(opts ...RenderOption) *Config {
	cfg := &Config{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// ApplyHeaders sets the configured headers. It must run before the status
// line is written.
func (c *Config) ApplyHeaders(w http.ResponseWriter) {
	if c == nil {
		return
	}
	h := w.Header()
	if c.Retarget != "" {
		h.Set(HeaderHXRetarget, c.Retarget)
	}
	if c.Reswap != "" {
		h.Set(HeaderHXReswap, string(c.Reswap))
	}
	if c.Refresh {
		h.Set(HeaderHXRefresh, "true")
	}
	if v := c.trigger(); v != "" {
		h.Set(HeaderHXTrigger, v)
	}
}

// trigger encodes Events as a comma list when no event has a detail and
// as a JSON object otherwise.
func (c *Config) trigger() string {
	if len(c.Events) == 0 {
		return ""
	}
	names := slices.Sorted(maps.Keys(c.Events))

	plain := true
	for _, name := range names {
		if c.Events[name] != nil {
			plain = false
			break
		}
	}
	if plain {
		return strings.Join(names, ", ")
	}

	raw, err := json.Marshal(c.Events)
	if err != nil {
		return strings.Join(names, ", ")
	}
	return string(raw)
}

// WithOOB appends fragments rendered after the main component. Each must
// carry an id and hx-swap-oob.
func WithOOB(components ...Renderable) RenderOption {
	return func(c *Config) {
		c.OOBComponents = append(c.OOBComponents, components...)
	}
}

// WithRetarget swaps the response into selector instead of the request
// target. Error alerts go to #flash this way.
func WithRetarget(selector string) RenderOption {
	return func(c *Config) { c.Retarget = selector }
}

func WithReswap(strategy SwapStrategy) RenderOption {
	return func(c *Config) { c.Reswap = strategy }
}

// WithRefresh asks the client to reload the whole page.
func WithRefresh() RenderOption {
	return func(c *Config) { c.Refresh = true }
}

// WithTrigger fires plain client events.
func WithTrigger(events ...string) RenderOption {
	return func(c *Config) {
		for _, e := range events {
			c.event(e, nil)
		}
	}
}

// WithEvent fires a client event carrying detail, which must be JSON
// encodable.
func WithEvent(name string, detail any) RenderOption {
	return func(c *Config) { c.event(name, detail) }
}

func (c *Config) event(name string, detail any) {
	if c.Events == nil {
		c.Events = make(map[string]any)
	}
	c.Events[name] = detail
}
