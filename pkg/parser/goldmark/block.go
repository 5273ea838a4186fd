package goldmark

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/mddirective/pkg/directive"
	"github.com/yaklabco/mddirective/pkg/syntax"
)

//nolint:gochecknoglobals // stateless parser singletons
var (
	leafParserInstance      = &leafParser{}
	containerParserInstance = &containerParser{}
)

// blockStart returns the absolute offset of the first non-space byte of the
// current line, or -1 when it is not ':'.
func blockStart(reader text.Reader, pc parser.Context) (int, text.Segment) {
	line, segment := reader.PeekLine()
	pos := pc.BlockOffset()
	if pos < 0 || pos >= len(line) || line[pos] != ':' {
		return -1, segment
	}
	return segment.Start - segment.Padding + pos, segment
}

type leafParser struct{}

// NewLeafParser returns the block parser for leaf directives.
//
//nolint:ireturn // goldmark consumes parsers through its interface
func NewLeafParser() parser.BlockParser {
	return leafParserInstance
}

func (p *leafParser) Trigger() []byte {
	return []byte{':'}
}

func (p *leafParser) Open(_ ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	start, segment := blockStart(reader, pc)
	if start < 0 {
		return nil, parser.NoChildren
	}
	source := reader.Source()
	m, ok := syntax.ScanLeaf(source, start, segment.Stop)
	if !ok {
		return nil, parser.NoChildren
	}

	node := &LeafDirective{record: newRecord(directive.Leaf, m.Events, source)}
	if label, ok := m.Find(syntax.KindLabelString); ok && !label.IsEmpty() {
		node.Lines().Append(text.NewSegment(label.StartOffset, label.EndOffset))
	}
	return node, parser.NoChildren
}

func (p *leafParser) Continue(ast.Node, text.Reader, parser.Context) parser.State {
	return parser.Close
}

func (p *leafParser) Close(ast.Node, text.Reader, parser.Context) {}

func (p *leafParser) CanInterruptParagraph() bool {
	return true
}

func (p *leafParser) CanAcceptIndentedLine() bool {
	return false
}

type containerParser struct{}

// NewContainerParser returns the block parser for container directives.
//
//nolint:ireturn // goldmark consumes parsers through its interface
func NewContainerParser() parser.BlockParser {
	return containerParserInstance
}

func (p *containerParser) Trigger() []byte {
	return []byte{':'}
}

func (p *containerParser) Open(_ ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	start, segment := blockStart(reader, pc)
	if start < 0 {
		return nil, parser.NoChildren
	}
	source := reader.Source()
	c, ok := syntax.OpenContainer(source, start, len(source), pc.BlockIndent())
	if !ok {
		return nil, parser.NoChildren
	}

	line, _ := reader.Position()
	node := &ContainerDirective{
		record:    newRecord(directive.Container, nil, source),
		container: c,
		line:      line,
	}
	fenceEnd := start
	for _, ev := range c.Events() {
		if ev.Type != syntax.Exit {
			continue
		}
		switch ev.Token.Kind {
		case syntax.KindLabelString:
			if !ev.Token.IsEmpty() {
				label := &DirectiveLabel{}
				label.Lines().Append(text.NewSegment(ev.Token.StartOffset, ev.Token.EndOffset))
				node.AppendChild(node, label)
			}
		case syntax.KindDirectiveFence:
			fenceEnd = ev.Token.EndOffset
		}
		if fenceEnd > start {
			break
		}
	}

	// The attribute list may run over several lines; stop on the last one
	// so goldmark moves on to the first content line.
	reader.Advance(segment.Padding + fenceEnd - segment.Start)
	return node, parser.NoChildren
}

func (p *containerParser) Continue(node ast.Node, reader text.Reader, _ parser.Context) parser.State {
	n, ok := node.(*ContainerDirective)
	if !ok || n.container.Closed() {
		return parser.Close
	}
	line, segment := reader.PeekLine()
	if line == nil {
		return parser.Close
	}
	n.line, _ = reader.Position()

	column := reader.LineOffset() + segment.Padding
	res := n.container.ScanLine(reader.Source(), segment.Start, segment.Stop, column, segment.Padding)
	if res.Closed {
		newline := 1
		if line[len(line)-1] != '\n' {
			newline = 0
		}
		reader.Advance(segment.Stop - segment.Start - newline + segment.Padding)
		return parser.Close
	}
	reader.Advance(res.Advance)
	return parser.Continue | parser.HasChildren
}

func (p *containerParser) Close(node ast.Node, _ text.Reader, _ parser.Context) {
	n, ok := node.(*ContainerDirective)
	if !ok {
		return
	}
	end := n.container.OpenEnd()
	if doc := &n.container.Document; doc.Len() > 0 {
		end = doc.At(doc.Len() - 1).Stop
	}
	n.container.Finish(end)
}

func (p *containerParser) CanInterruptParagraph() bool {
	return true
}

func (p *containerParser) CanAcceptIndentedLine() bool {
	return false
}
