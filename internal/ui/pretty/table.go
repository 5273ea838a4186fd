package pretty

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/mddirective/pkg/config"
	"github.com/yaklabco/mddirective/pkg/runner"
)

// Table formatting constants.
const (
	tablePadding     = 2
	tableColumnCount = 6 // FILE, TEXT, LEAF, CONTAINER, UNHANDLED, OUTPUT
	countColumnWidth = 9
	minFileWidth     = 20
	minOutputWidth   = 20
	heavySeparator   = "="
	lightSeparator   = "-"
	statusUnchanged  = "unchanged"
	statusStdout     = "stdout"
)

// TableRow is one rendered file in the run table.
type TableRow struct {
	File      string
	Text      int
	Leaf      int
	Container int
	Unhandled int
	Output    string
	Failed    bool
}

// TableFormatter formats run results as a styled table.
type TableFormatter struct {
	styles       *Styles
	colorEnabled bool
	termWidth    int
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(styles *Styles, colorEnabled bool, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	return &TableFormatter{
		styles:       styles,
		colorEnabled: colorEnabled,
		termWidth:    termWidth,
	}
}

// FormatTable formats runner results as a table with one row per file.
func (t *TableFormatter) FormatTable(result *runner.Result) string {
	if result == nil || len(result.Files) == 0 {
		return ""
	}

	rows := make([]TableRow, 0, len(result.Files))
	for _, file := range result.Files {
		rows = append(rows, FileToTableRow(file))
	}
	widths := t.calculateColumnWidths(rows)

	var builder strings.Builder
	builder.WriteString(t.formatHeader(widths))
	builder.WriteString("\n")
	builder.WriteString(t.formatSeparator(widths, heavySeparator))
	builder.WriteString("\n")
	for _, row := range rows {
		builder.WriteString(t.formatRow(row, widths))
		builder.WriteString("\n")
	}
	builder.WriteString(t.formatSeparator(widths, heavySeparator))
	builder.WriteString("\n")
	return builder.String()
}

// FileToTableRow converts a file outcome to a table row.
func FileToTableRow(file runner.FileOutcome) TableRow {
	row := TableRow{
		File:      file.Path,
		Text:      file.Directives.Text,
		Leaf:      file.Directives.Leaf,
		Container: file.Directives.Container,
		Unhandled: file.Directives.Unhandled,
	}
	switch {
	case file.Error != nil:
		row.Failed = true
		row.Output = file.Error.Error()
	case file.Unchanged:
		row.Output = statusUnchanged
	case file.Target == "":
		row.Output = statusStdout
	default:
		row.Output = file.Target
	}
	return row
}

type columnWidths struct {
	file   int
	output int
}

func (t *TableFormatter) calculateColumnWidths(rows []TableRow) columnWidths {
	widths := columnWidths{file: minFileWidth, output: minOutputWidth}
	for _, row := range rows {
		widths.file = max(widths.file, len(row.File))
		widths.output = max(widths.output, len(row.Output))
	}

	totalWidth := t.calculateTotalWidth(widths)
	if totalWidth > t.termWidth {
		// Shrink the output column first, then the file column.
		excess := totalWidth - t.termWidth
		widths.output = max(minOutputWidth, widths.output-excess)

		totalWidth = t.calculateTotalWidth(widths)
		if totalWidth > t.termWidth {
			excess = totalWidth - t.termWidth
			widths.file = max(minFileWidth, widths.file-excess)
		}
	}
	return widths
}

func (t *TableFormatter) calculateTotalWidth(widths columnWidths) int {
	return widths.file + widths.output + countColumnWidth*(tableColumnCount-2) + tablePadding*tableColumnCount
}

func (t *TableFormatter) formatHeader(widths columnWidths) string {
	header := fmt.Sprintf(" %-*s  %*s  %*s  %*s  %*s  %-*s ",
		widths.file, "FILE",
		countColumnWidth, "TEXT",
		countColumnWidth, "LEAF",
		countColumnWidth, "CONTAINER",
		countColumnWidth, "UNHANDLED",
		widths.output, "OUTPUT",
	)
	return t.styles.TableHeader.Render(header)
}

func (t *TableFormatter) formatSeparator(widths columnWidths, char string) string {
	return t.styles.TableSeparator.Render(strings.Repeat(char, t.calculateTotalWidth(widths)))
}

func (t *TableFormatter) formatRow(row TableRow, widths columnWidths) string {
	unhandled := fmt.Sprintf("%*d", countColumnWidth, row.Unhandled)
	if row.Unhandled > 0 {
		unhandled = t.styles.Warning.Render(unhandled)
	}

	output := fmt.Sprintf("%-*s", widths.output, truncateFilePath(row.Output, widths.output))
	switch {
	case row.Failed:
		output = t.styles.Failure.Render(fmt.Sprintf("%-*s", widths.output, truncateString(row.Output, widths.output)))
	case row.Output == statusUnchanged || row.Output == statusStdout:
		output = t.styles.Dim.Render(output)
	}

	return fmt.Sprintf(" %s  %*d  %*d  %*d  %s  %s",
		t.styles.FilePath.Render(fmt.Sprintf("%-*s", widths.file, truncateFilePath(row.File, widths.file))),
		countColumnWidth, row.Text,
		countColumnWidth, row.Leaf,
		countColumnWidth, row.Container,
		unhandled,
		output,
	)
}

// FormatHandlersTable lists configured handlers sorted by name.
func (t *TableFormatter) FormatHandlersTable(handlers map[string]config.HandlerConfig) string {
	if len(handlers) == 0 {
		return t.styles.Dim.Render(" No handlers configured") + "\n"
	}

	names := make([]string, 0, len(handlers))
	nameWidth, typeWidth, tagWidth := len("NAME"), len("TYPE"), len("TAG")
	for name, h := range handlers {
		names = append(names, name)
		nameWidth = max(nameWidth, len(name))
		typeWidth = max(typeWidth, len(h.Type))
		tagWidth = max(tagWidth, len(h.Tag))
	}
	slices.Sort(names)

	var builder strings.Builder
	header := fmt.Sprintf(" %-*s  %-*s  %-*s  %s", nameWidth, "NAME", typeWidth, "TYPE", tagWidth, "TAG", "CLASS")
	builder.WriteString(t.styles.TableHeader.Render(header))
	builder.WriteString("\n")
	width := lipgloss.Width(header)
	builder.WriteString(t.styles.TableSeparator.Render(strings.Repeat(lightSeparator, width)))
	builder.WriteString("\n")

	for _, name := range names {
		h := handlers[name]
		builder.WriteString(fmt.Sprintf(" %s  %-*s  %-*s  %s",
			t.styles.Name.Render(fmt.Sprintf("%-*s", nameWidth, name)),
			typeWidth, h.Type,
			tagWidth, h.Tag,
			h.Class,
		))
		builder.WriteString("\n")
	}

	builder.WriteString(t.styles.Dim.Render(" " + strconv.Itoa(len(names)) + " " + plural(len(names), "handler", "handlers")))
	builder.WriteString("\n")
	return builder.String()
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(str string, maxLen int) string {
	if len(str) <= maxLen {
		return str
	}
	if maxLen <= 3 {
		return str[:maxLen]
	}
	return str[:maxLen-3] + "..."
}

// truncateFilePath truncates a file path, preserving the end (filename) rather than beginning.
func truncateFilePath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}
	if maxLen <= 3 {
		return path[len(path)-maxLen:]
	}
	return "..." + path[len(path)-maxLen+3:]
}
