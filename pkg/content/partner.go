package content

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/tripmux/tripmux/pkg/affiliates"
)

// PartnerNode is an affiliate link written as [!partner|id].
type PartnerNode struct {
	ast.BaseInline
	ID []byte
}

var KindPartner = ast.NewNodeKind("Partner")

const partnerPrefix = "[!partner|"

func (n *PartnerNode) Kind() ast.NodeKind { return KindPartner }

func (n *PartnerNode) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"ID": string(n.ID)}, nil)
}

type partnerParser struct{}

func (partnerParser) Trigger() []byte { return []byte{'['} }

func (partnerParser) Parse(_ ast.Node, block text.Reader, _ parser.Context) ast.Node {
	line, _ := block.PeekLine()
	if len(line) < len(partnerPrefix) || string(line[:len(partnerPrefix)]) != partnerPrefix {
		return nil
	}

	for i := len(partnerPrefix); i < len(line); i++ {
		if line[i] == ']' {
			id := line[len(partnerPrefix):i]
			if len(id) == 0 {
				return nil
			}
			block.Advance(i + 1)
			return &PartnerNode{ID: id}
		}
	}
	return nil
}

type partnerRenderer struct {
	catalogue *affiliates.Catalogue
	html.Config
}

func (r *partnerRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindPartner, r.render)
}

// render writes the partner link. Unknown partners render as plain text.
func (r *partnerRenderer) render(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}

	n := node.(*PartnerNode)
	p, err := r.catalogue.Get(string(n.ID))
	if err != nil {
		_, _ = w.Write(util.EscapeHTML(n.ID))
		return ast.WalkContinue, nil
	}

	_, _ = w.WriteString(`<a href="`)
	_, _ = w.Write(util.EscapeHTML(util.URLEscape([]byte(p.URL), false)))
	_, _ = w.WriteString(`" rel="` + affiliates.Rel + `" target="_blank" class="partner">`)
	_, _ = w.Write(util.EscapeHTML([]byte(p.Name)))
	_, _ = w.WriteString(`</a>`)
	return ast.WalkContinue, nil
}

type partnerExtension struct {
	catalogue *affiliates.Catalogue
}

// PartnerLinks renders [!partner|id] as a sponsored link from catalogue.
func PartnerLinks(catalogue *affiliates.Catalogue) goldmark.Extender {
	return &partnerExtension{catalogue: catalogue}
}

func (e *partnerExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithInlineParsers(
		util.Prioritized(partnerParser{}, 50),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&partnerRenderer{catalogue: e.catalogue, Config: html.NewConfig()}, 50),
	))
}
