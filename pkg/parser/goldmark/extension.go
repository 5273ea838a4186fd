package goldmark

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"

	"github.com/yaklabco/mddirective/pkg/directive"
)

// Parser priorities. Lower runs first: the text parser must see '[' and ']'
// before the link parser (200), and the block parsers must claim ':' lines
// before fenced code (700) and paragraphs.
const (
	priorityText      = 150
	priorityContainer = 690
	priorityLeaf      = 695
	priorityRenderer  = 500
)

// Directive is a goldmark extension adding generic directives.
type Directive struct {
	handlers *directive.Handlers
}

var _ goldmark.Extender = (*Directive)(nil)

// NewDirective returns the extension. h may be nil, in which case every
// directive renders nothing.
func NewDirective(h *directive.Handlers) *Directive {
	return &Directive{handlers: h}
}

// Extend implements goldmark.Extender.
func (e *Directive) Extend(m goldmark.Markdown) {
	blockParsers := []util.PrioritizedValue{
		util.Prioritized(NewContainerParser(), priorityContainer),
		util.Prioritized(NewLeafParser(), priorityLeaf),
	}
	for _, guard := range newLazyGuards() {
		blockParsers = append(blockParsers, util.Prioritized(guard, priorityLazyGuard))
	}
	m.Parser().AddOptions(
		parser.WithBlockParsers(blockParsers...),
		parser.WithInlineParsers(
			util.Prioritized(NewTextParser(), priorityText),
		),
	)
	m.Renderer().AddOptions(
		renderer.WithNodeRenderers(
			util.Prioritized(NewHTMLRenderer(e.handlers, m.Renderer()), priorityRenderer),
		),
	)
}
