// Package content renders the static markdown pages of the site.
//
// Pages live in an fs.FS as {slug}.{lang}.md with optional YAML
// frontmatter. Rendering falls back to the default language when a
// translation is missing. Rendered pages are cached.
package content

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/tripmux/tripmux/pkg/affiliates"
)

//go:embed pages/*.md
var pagesFS embed.FS

// Page is a rendered page.
type Page struct {
	Meta
	Slug     string
	Language string
	HTML     template.HTML
}

type Pages struct {
	fs          fs.FS
	md          goldmark.Markdown
	cache       map[string]*Page
	defaultLang string
	mu          sync.RWMutex
}

// Default serves the built-in pages with links from catalogue.
func Default(catalogue *affiliates.Catalogue) *Pages {
	sub, err := fs.Sub(pagesFS, "pages")
	if err != nil {
		panic(err)
	}
	return New(sub, catalogue, "en")
}

func New(fsys fs.FS, catalogue *affiliates.Catalogue, defaultLang string) *Pages {
	return &Pages{
		fs:          fsys,
		defaultLang: defaultLang,
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM, PartnerLinks(catalogue)),
		),
		cache: make(map[string]*Page),
	}
}

// Render returns slug in lang, or in the default language.
func (p *Pages) Render(slug, lang string) (*Page, error) {
	page, err := p.render(slug, lang)
	if errors.Is(err, ErrPageNotFound) && lang != p.defaultLang {
		return p.render(slug, p.defaultLang)
	}
	return page, err
}

func (p *Pages) render(slug, lang string) (*Page, error) {
	name := slug + "." + lang + ".md"

	p.mu.RLock()
	cached, ok := p.cache[name]
	p.mu.RUnlock()
	if ok {
		return cached, nil
	}

	raw, err := fs.ReadFile(p.fs, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrPageNotFound, name)
	}

	meta, body, err := splitFrontmatter(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := p.md.Convert(body, &buf); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRenderFailed, name, err)
	}

	page := &Page{
		Meta:     meta,
		Slug:     slug,
		Language: lang,
		HTML:     template.HTML(buf.String()), //nolint:gosec // rendered from embedded markdown
	}

	p.mu.Lock()
	p.cache[name] = page
	p.mu.Unlock()
	return page, nil
}
