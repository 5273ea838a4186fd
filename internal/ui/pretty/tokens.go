package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/mddirective/pkg/directive"
	"github.com/yaklabco/mddirective/pkg/mdsource"
	mdgoldmark "github.com/yaklabco/mddirective/pkg/parser/goldmark"
	"github.com/yaklabco/mddirective/pkg/syntax"
)

// maxSourcePreview bounds the quoted source shown after a leaf token.
const maxSourcePreview = 40

// FormatTokens dumps the event streams of directives. Each directive opens
// with a heading naming its kind, name and dispatch outcome; its events
// follow one per line, indented by nesting depth.
func (s *Styles) FormatTokens(path string, source []byte, nodes []mdgoldmark.Node) string {
	var builder strings.Builder
	index := mdsource.New(path, source)

	builder.WriteString(s.FilePath.Render(path))
	builder.WriteString("\n")
	if len(nodes) == 0 {
		builder.WriteString(s.Dim.Render("  no directives"))
		builder.WriteString("\n")
		return builder.String()
	}

	for _, node := range nodes {
		s.formatNode(&builder, index, source, node)
	}
	return builder.String()
}

func (s *Styles) formatNode(builder *strings.Builder, index *mdsource.Snapshot, source []byte, node mdgoldmark.Node) {
	events := node.Events()
	pos := mdsource.Position{}
	if len(events) > 0 {
		pos = index.PositionOf(events[0].Token.StartOffset)
	}

	builder.WriteString("\n  ")
	builder.WriteString(s.Location.Render(pos.String()))
	builder.WriteString("  ")
	builder.WriteString(s.KindStyle(node.DirectiveKind()).Render(node.DirectiveKind().String()))
	builder.WriteString(" ")
	builder.WriteString(s.Name.Render(node.Name()))
	if outcome, handler, rendered := node.Outcome(); rendered {
		builder.WriteString(" ")
		if outcome == directive.Handled {
			builder.WriteString(s.Success.Render(fmt.Sprintf("handled by %q", handler)))
		} else {
			builder.WriteString(s.Warning.Render("unhandled"))
		}
	}
	builder.WriteString("\n")

	depth := 0
	for i, ev := range events {
		if ev.Type == syntax.Exit {
			depth--
		}
		s.formatEvent(builder, index, source, ev, depth, isLeaf(events, i))
		if ev.Type == syntax.Enter {
			depth++
		}
	}
}

func (s *Styles) formatEvent(builder *strings.Builder, index *mdsource.Snapshot, source []byte, ev syntax.Event, depth int, leaf bool) {
	builder.WriteString("    ")
	builder.WriteString(s.Location.Render(fmt.Sprintf("%-15s", index.SpanOf(ev.Token.StartOffset, ev.Token.EndOffset))))
	builder.WriteString(" ")

	typ := s.Enter
	if ev.Type == syntax.Exit {
		typ = s.Exit
	}
	builder.WriteString(typ.Render(fmt.Sprintf("%-5s", ev.Type)))
	builder.WriteString(" ")
	builder.WriteString(strings.Repeat("  ", max(depth, 0)))
	builder.WriteString(s.TokenKind.Render(ev.Token.Kind.String()))

	if leaf && ev.Type == syntax.Enter && !ev.Token.IsEmpty() {
		builder.WriteString(" ")
		builder.WriteString(s.Source.Render(preview(ev.Token.Text(source))))
	}
	builder.WriteString("\n")
}

// KindStyle returns the style of a directive kind.
func (s *Styles) KindStyle(kind directive.Kind) lipgloss.Style {
	switch kind {
	case directive.Text:
		return s.Text
	case directive.Leaf:
		return s.Leaf
	default:
		return s.Container
	}
}

// isLeaf reports whether the enter event at i is closed right away.
func isLeaf(events []syntax.Event, i int) bool {
	return events[i].Type == syntax.Enter && i+1 < len(events) &&
		events[i+1].Type == syntax.Exit && events[i+1].Token == events[i].Token
}

func preview(text []byte) string {
	quoted := strconv.Quote(string(text))
	if len(quoted) > maxSourcePreview {
		quoted = quoted[:maxSourcePreview-4] + `..."`
	}
	return quoted
}
