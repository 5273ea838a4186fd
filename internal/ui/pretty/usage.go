package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/mddirective/pkg/directive"
	"github.com/yaklabco/mddirective/pkg/runner"
)

// contextIndent aligns source context under a usage line.
const contextIndent = "        "

// FormatUsage formats one directive of a rendered file:
//
//	path:line:col  outcome  kind name
//
// followed by the source line and a caret when sourceLine is set.
func (s *Styles) FormatUsage(path string, usage runner.Usage, sourceLine string) string {
	var builder strings.Builder

	location := fmt.Sprintf("%s:%d:%d",
		s.FilePath.Render(path),
		usage.Span.Start.Line,
		usage.Span.Start.Column,
	)

	fmt.Fprintf(&builder, "  %s  %s  %s %s\n",
		location,
		s.FormatOutcome(usage),
		s.KindStyle(usage.Kind).Render(usage.Kind.String()),
		s.Name.Render(usage.Name),
	)

	if sourceLine != "" {
		builder.WriteString(s.FormatSourceContext(sourceLine, usage.Span.Start.Column))
	}
	return builder.String()
}

// FormatOutcome returns the styled dispatch outcome of a usage.
func (s *Styles) FormatOutcome(usage runner.Usage) string {
	switch {
	case !usage.Rendered:
		return s.Dim.Render("skipped")
	case usage.Outcome == directive.Handled:
		return s.Info.Render(fmt.Sprintf("handled by %q", usage.Handler))
	default:
		return s.Warning.Render("unhandled")
	}
}

// FormatSourceContext formats the source line with a caret marker.
func (s *Styles) FormatSourceContext(line string, column int) string {
	var builder strings.Builder

	builder.WriteString(contextIndent + s.Source.Render(line) + "\n")
	if column > 0 {
		builder.WriteString(contextIndent + strings.Repeat(" ", column-1) + s.Warning.Render("^") + "\n")
	}
	return builder.String()
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path string, unhandled int) string {
	header := s.FilePath.Render(path)
	if unhandled > 0 {
		header += s.Dim.Render(fmt.Sprintf(" (%d unhandled %s)", unhandled, plural(unhandled, "directive", "directives")))
	}
	return header
}
