package goldmark

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/mddirective/pkg/directive"
	"github.com/yaklabco/mddirective/pkg/syntax"
)

//nolint:gochecknoglobals // goldmark context keys are allocated once
var (
	textOpenersKey     = parser.NewContextKey()
	kindTextOpener     = ast.NewNodeKind("TextDirectiveOpener")
	textParserInstance = &textParser{}
)

// textOpener stands in for a text directive while goldmark parses its label.
// It is replaced by the directive once the closing bracket is reached, or by
// literal text if the bracket never shows up.
type textOpener struct {
	ast.BaseInline

	// segment covers ':name[' for the literal fallback.
	segment text.Segment
	node    *TextDirective
	closeAt int
	end     int
	bottom  ast.Node
}

func (o *textOpener) Kind() ast.NodeKind { return kindTextOpener }

func (o *textOpener) Dump(source []byte, level int) {
	fmt.Printf("%sTextDirectiveOpener: %q\n", strings.Repeat("    ", level), o.segment.Value(source))
}

func (o *textOpener) literal() {
	if parent := o.Parent(); parent != nil {
		parent.ReplaceChild(parent, o, ast.NewTextSegment(o.segment))
	}
}

func openers(pc parser.Context) []*textOpener {
	v, _ := pc.Get(textOpenersKey).([]*textOpener)
	return v
}

// textParser recognizes text directives. It runs before the link parser so a
// directive label is claimed before '[' is read as a link.
type textParser struct{}

// NewTextParser returns the inline parser for text directives.
//
//nolint:ireturn // goldmark consumes parsers through its interface
func NewTextParser() parser.InlineParser {
	return textParserInstance
}

func (p *textParser) Trigger() []byte {
	return []byte{':', ']'}
}

func (p *textParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, segment := block.PeekLine()
	if len(line) == 0 {
		return nil
	}
	if line[0] == ']' {
		return p.close(block, pc, segment)
	}

	source := block.Source()
	start := segment.Start
	if !syntax.TextAllowed(source, start) {
		return nil
	}
	m, ok := syntax.ScanText(source, start, segment.Stop)
	if !ok {
		return nil
	}

	node := &TextDirective{record: newRecord(directive.Text, m.Events, source)}
	label, hasLabel := m.Find(syntax.KindLabelString)
	if !hasLabel || label.IsEmpty() {
		block.Advance(m.End - m.Start)
		return node
	}

	opener := &textOpener{
		segment: text.NewSegment(start, label.StartOffset),
		node:    node,
		closeAt: label.EndOffset,
		end:     m.End,
	}
	if d := pc.LastDelimiter(); d != nil {
		opener.bottom = d
	}
	pc.Set(textOpenersKey, append(openers(pc), opener))
	block.Advance(label.StartOffset - start)
	return opener
}

// close finishes the opener whose label ends at the current ']'.
func (p *textParser) close(block text.Reader, pc parser.Context, segment text.Segment) ast.Node {
	stack := openers(pc)
	for i := len(stack) - 1; i >= 0; i-- {
		o := stack[i]
		if o.closeAt != segment.Start {
			continue
		}
		// Labels opened after this one lost their bracket to another
		// construct, such as a code span.
		for _, inner := range stack[i+1:] {
			inner.literal()
		}
		pc.Set(textOpenersKey, stack[:i])

		parser.ProcessDelimiters(o.bottom, pc)
		parent := o.Parent()
		node := o.node
		for c := o.NextSibling(); c != nil; {
			next := c.NextSibling()
			parent.RemoveChild(parent, c)
			node.AppendChild(node, c)
			c = next
		}
		parent.RemoveChild(parent, o)
		block.Advance(o.end - o.closeAt)
		return node
	}
	return nil
}

// CloseBlock turns labels that never closed back into text.
func (p *textParser) CloseBlock(_ ast.Node, _ text.Reader, pc parser.Context) {
	for _, o := range openers(pc) {
		o.literal()
	}
	pc.Set(textOpenersKey, nil)
}
