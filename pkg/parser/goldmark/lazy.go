package goldmark

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// priorityLazyGuard places the guard after every block parser of the same
// trigger and before the paragraph parser (1000).
const priorityLazyGuard = 999

// lazyGuard keeps lazy continuation lines out of container directives.
// A paragraph inside a container only continues on lines the container
// itself accepted; any other line starts a new paragraph in the block that
// did accept it, and the blocks in between are closed.
type lazyGuard struct {
	trigger []byte
}

// newLazyGuards returns a free guard, consulted for lines whose first byte
// triggers no parser, and one for the bytes that do trigger a parser. A
// line is matched against the free parsers only when its first byte has no
// parsers of its own, so the triggered guard must not claim any new byte.
func newLazyGuards() []parser.BlockParser {
	seen := map[byte]bool{':': true}
	trigger := []byte{':'}
	for _, v := range parser.DefaultBlockParsers() {
		bp, ok := v.Value.(parser.BlockParser)
		if !ok {
			continue
		}
		for _, c := range bp.Trigger() {
			if !seen[c] {
				seen[c] = true
				trigger = append(trigger, c)
			}
		}
	}
	return []parser.BlockParser{&lazyGuard{}, &lazyGuard{trigger: trigger}}
}

func (g *lazyGuard) Trigger() []byte {
	return g.trigger
}

func (g *lazyGuard) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	last := pc.LastOpenedBlock().Node
	if !ast.IsParagraph(last) {
		return nil, parser.NoChildren
	}
	line, _ := reader.Position()
	for n := last.Parent(); n != nil && n != parent; n = n.Parent() {
		if c, ok := n.(*ContainerDirective); ok && c.line != line {
			return parser.NewParagraphParser().Open(parent, reader, pc)
		}
	}
	return nil, parser.NoChildren
}

func (g *lazyGuard) Continue(node ast.Node, reader text.Reader, pc parser.Context) parser.State {
	return parser.NewParagraphParser().Continue(node, reader, pc)
}

func (g *lazyGuard) Close(node ast.Node, reader text.Reader, pc parser.Context) {
	parser.NewParagraphParser().Close(node, reader, pc)
}

func (g *lazyGuard) CanInterruptParagraph() bool {
	return true
}

// CanAcceptIndentedLine is true so an indented lazy line cannot slip past
// the guard into the container.
func (g *lazyGuard) CanAcceptIndentedLine() bool {
	return true
}
