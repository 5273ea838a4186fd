package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/mddirective/pkg/runner"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "3 files rendered, 12 directives (10 handled, 2 unhandled), 1 failed".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	if stats.FilesDiscovered == 0 {
		return s.Dim.Render("No Markdown files found") + "\n"
	}

	parts := []string{
		s.Success.Render(fmt.Sprintf("%d %s rendered", stats.FilesRendered, plural(stats.FilesRendered, wordFile, wordFiles))),
	}

	total := stats.Directives.Total()
	directives := fmt.Sprintf("%d %s", total, plural(total, "directive", "directives"))
	if total > 0 {
		breakdown := []string{fmt.Sprintf("%d handled", stats.Directives.Handled)}
		if stats.Directives.Unhandled > 0 {
			breakdown = append(breakdown, s.Warning.Render(fmt.Sprintf("%d unhandled", stats.Directives.Unhandled)))
		}
		directives += " (" + strings.Join(breakdown, ", ") + ")"
	}
	parts = append(parts, directives)

	if stats.FilesWritten > 0 {
		parts = append(parts, fmt.Sprintf("%d written", stats.FilesWritten))
	}
	if stats.FilesUnchanged > 0 {
		parts = append(parts, s.Dim.Render(fmt.Sprintf("%d unchanged", stats.FilesUnchanged)))
	}
	if stats.FilesErrored > 0 {
		parts = append(parts, s.Failure.Render(fmt.Sprintf("%d failed", stats.FilesErrored)))
	}

	return strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	line := func(label string, value string) {
		builder.WriteString(fmt.Sprintf("  %-19s%s\n", label+":", value))
	}

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	line("Files discovered", s.SummaryValue.Render(strconv.Itoa(stats.FilesDiscovered)))
	line("Files rendered", s.SummaryValue.Render(strconv.Itoa(stats.FilesRendered)))
	if stats.FilesWritten > 0 {
		line("Files written", s.Success.Render(strconv.Itoa(stats.FilesWritten)))
	}
	if stats.FilesUnchanged > 0 {
		line("Files unchanged", s.Dim.Render(strconv.Itoa(stats.FilesUnchanged)))
	}
	if stats.FilesErrored > 0 {
		line("Files failed", s.Failure.Render(strconv.Itoa(stats.FilesErrored)))
	}

	builder.WriteString("\n")

	line("Directives", s.SummaryValue.Render(strconv.Itoa(stats.Directives.Total())))
	line("  Text", s.Text.Render(strconv.Itoa(stats.Directives.Text)))
	line("  Leaf", s.Leaf.Render(strconv.Itoa(stats.Directives.Leaf)))
	line("  Container", s.Container.Render(strconv.Itoa(stats.Directives.Container)))
	line("Handled", s.Success.Render(strconv.Itoa(stats.Directives.Handled)))
	if stats.Directives.Unhandled > 0 {
		line("Unhandled", s.Warning.Render(strconv.Itoa(stats.Directives.Unhandled)))
	}

	builder.WriteString("\n")
	line("Bytes in", s.SummaryValue.Render(strconv.FormatInt(stats.BytesIn, 10)))
	line("Bytes out", s.SummaryValue.Render(strconv.FormatInt(stats.BytesOut, 10)))

	builder.WriteString("\n")

	switch {
	case stats.FilesErrored > 0:
		builder.WriteString(s.Failure.Render("Render failed"))
	case stats.Directives.Unhandled > 0:
		builder.WriteString(s.Warning.Render("Render completed with unhandled directives"))
	default:
		builder.WriteString(s.Success.Render("Render complete"))
	}
	builder.WriteString("\n")

	return builder.String()
}
