// Package affiliates holds the partner links shown next to search results.
package affiliates

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"net/url"

	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidCatalogue = errors.New("affiliates: invalid catalogue")
	ErrUnknownPartner   = errors.New("affiliates: unknown partner")
)

// Category groups partners. Its value doubles as the translation key of
// the category label.
type Category string

const (
	Flights Category = "flights"
	BusRail Category = "bus_rail"
)

// Rel is the rel attribute for partner links.
const Rel = "sponsored noopener"

type Partner struct {
	ID       string   `yaml:"id"`
	Name     string   `yaml:"name"`
	URL      string   `yaml:"url"`
	Category Category `yaml:"category"`
}

// Catalogue is an ordered partner list.
type Catalogue struct {
	Partners []Partner `yaml:"partners"`
}

//go:embed partners.yaml
var defaultCatalogue []byte

// Default returns the built-in catalogue.
func Default() *Catalogue {
	c, err := Load(bytes.NewReader(defaultCatalogue))
	if err != nil {
		panic(err)
	}
	return c
}

// Load parses a YAML catalogue. Every partner needs an id, a name and an
// absolute http(s) URL. IDs must be unique.
func Load(r io.Reader) (*Catalogue, error) {
	var c Catalogue
	if err := yaml.NewDecoder(r).Decode(&c); err != nil {
		return nil, errors.Join(ErrInvalidCatalogue, err)
	}

	seen := make(map[string]bool, len(c.Partners))
	for i, p := range c.Partners {
		if p.ID == "" || p.Name == "" {
			return nil, fmt.Errorf("%w: partner %d needs id and name", ErrInvalidCatalogue, i)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("%w: duplicate partner %q", ErrInvalidCatalogue, p.ID)
		}
		seen[p.ID] = true

		u, err := url.Parse(p.URL)
		if err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
			return nil, fmt.Errorf("%w: partner %q has invalid url %q", ErrInvalidCatalogue, p.ID, p.URL)
		}
	}
	return &c, nil
}

// Get returns the partner with id.
func (c *Catalogue) Get(id string) (Partner, error) {
	for _, p := range c.Partners {
		if p.ID == id {
			return p, nil
		}
	}
	return Partner{}, fmt.Errorf("%w: %s", ErrUnknownPartner, id)
}

// ByCategory returns the partners of cat in catalogue order.
func (c *Catalogue) ByCategory(cat Category) []Partner {
	var out []Partner
	for _, p := range c.Partners {
		if p.Category == cat {
			out = append(out, p)
		}
	}
	return out
}
