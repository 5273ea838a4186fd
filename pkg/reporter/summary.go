package reporter

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yaklabco/mddirective/internal/ui/pretty"
	"github.com/yaklabco/mddirective/pkg/analysis"
)

// Table layout constants for summary output.
// Both tables use the same width for visual consistency.
const (
	tableWidth         = 90 // Width of table separators (same for both tables).
	nameColWidth       = 24 // Width of the directive name column.
	handlerColWidth    = 26 // Width of the handlers column.
	fileColWidth       = 56 // Width of the file path column (wider for relative paths).
	numColWidth        = 9  // Width of numeric columns.
	unhandledColWidth  = 10 // Width of the unhandled column.
	maxNameLength      = 22 // Maximum characters for a name before truncation.
	maxHandlerLength   = 24 // Maximum characters for the handler list before truncation.
	maxFilePathLength  = 54 // Maximum characters for file path before truncation.
	totalPartsCapacity = 3  // Expected number of parts in total summary line.
)

// padRight pads a string to the given width with spaces on the right.
// This must be called BEFORE applying ANSI styles.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// padLeft pads a string to the given width with spaces on the left.
// This must be called BEFORE applying ANSI styles.
func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "…"
}

// SummaryRenderer formats a report as aggregated tables by directive name
// and by file.
type SummaryRenderer struct {
	styles *pretty.Styles
	out    io.Writer
}

// NewSummaryRenderer creates a new summary renderer.
func NewSummaryRenderer(opts Options) *SummaryRenderer {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &SummaryRenderer{
		styles: pretty.NewStyles(colorEnabled),
		out:    opts.Writer,
	}
}

// Render implements Renderer.
func (r *SummaryRenderer) Render(_ context.Context, report *analysis.Report) error {
	if report.Totals.Directives == 0 && report.Totals.FilesErrored == 0 {
		fmt.Fprintln(r.out, r.styles.Success.Render("No directives found"))
		return nil
	}

	r.renderNameTable(report.ByName)
	fmt.Fprintln(r.out)
	r.renderFileTable(report.ByFile)
	fmt.Fprintln(r.out)
	r.renderTotals(report.Totals)

	return nil
}

func (r *SummaryRenderer) separator() {
	fmt.Fprintln(r.out, r.styles.TableSeparator.Render(strings.Repeat("─", tableWidth)))
}

func (r *SummaryRenderer) renderNameTable(names []analysis.NameAnalysis) {
	if len(names) == 0 {
		return
	}

	fmt.Fprintln(r.out, r.styles.Bold.Render("Directives Summary"))
	r.separator()
	fmt.Fprintf(r.out, "%s %s %s %s %s\n",
		r.styles.TableHeader.Render(padRight("Directive", nameColWidth)),
		r.styles.TableHeader.Render(padRight("Handler", handlerColWidth)),
		r.styles.TableHeader.Render(padLeft("Count", numColWidth)),
		r.styles.TableHeader.Render(padLeft("Handled", numColWidth)),
		r.styles.TableHeader.Render(padLeft("Unhandled", unhandledColWidth)),
	)
	r.separator()

	for _, name := range names {
		paddedName := padRight(truncate(name.Name, maxNameLength), nameColWidth)
		if name.Unhandled > 0 {
			paddedName = r.styles.Warning.Render(paddedName)
		}

		handlers := strings.Join(name.Handlers, ", ")
		if handlers == "" {
			handlers = "-"
		}

		fmt.Fprintf(r.out, "%s %s %s %s %s\n",
			paddedName,
			r.styles.Dim.Render(padRight(truncate(handlers, maxHandlerLength), handlerColWidth)),
			padLeft(strconv.Itoa(name.Directives), numColWidth),
			padLeft(strconv.Itoa(name.Handled), numColWidth),
			padLeft(strconv.Itoa(name.Unhandled), unhandledColWidth),
		)
	}
}

func (r *SummaryRenderer) renderFileTable(files []analysis.FileAnalysis) {
	if len(files) == 0 {
		return
	}

	fmt.Fprintln(r.out, r.styles.Bold.Render("Files Summary"))
	r.separator()
	fmt.Fprintf(r.out, "%s %s %s %s\n",
		r.styles.TableHeader.Render(padRight("File", fileColWidth)),
		r.styles.TableHeader.Render(padLeft("Count", numColWidth)),
		r.styles.TableHeader.Render(padLeft("Handled", numColWidth)),
		r.styles.TableHeader.Render(padLeft("Unhandled", unhandledColWidth)),
	)
	r.separator()

	for _, file := range files {
		path := file.Path
		if len(path) > maxFilePathLength {
			path = "…" + path[len(path)-(maxFilePathLength-1):]
		}

		paddedPath := padRight(path, fileColWidth)
		switch {
		case file.Error != "":
			fmt.Fprintf(r.out, "%s %s\n", r.styles.Error.Render(paddedPath), r.styles.Error.Render("error: "+file.Error))
			continue
		case file.Unhandled > 0:
			paddedPath = r.styles.Warning.Render(paddedPath)
		}

		fmt.Fprintf(r.out, "%s %s %s %s\n",
			paddedPath,
			padLeft(strconv.Itoa(file.Directives), numColWidth),
			padLeft(strconv.Itoa(file.Handled), numColWidth),
			padLeft(strconv.Itoa(file.Unhandled), unhandledColWidth),
		)
	}
}

func (r *SummaryRenderer) renderTotals(totals analysis.Totals) {
	parts := make([]string, 0, totalPartsCapacity)

	directiveWord := "directives"
	if totals.Directives == 1 {
		directiveWord = "directive"
	}
	parts = append(parts, fmt.Sprintf("%d %s", totals.Directives, directiveWord))

	var outcomeParts []string
	if totals.Handled > 0 {
		outcomeParts = append(outcomeParts, r.styles.Success.Render(fmt.Sprintf("%d handled", totals.Handled)))
	}
	if totals.Unhandled > 0 {
		outcomeParts = append(outcomeParts, r.styles.Warning.Render(fmt.Sprintf("%d unhandled", totals.Unhandled)))
	}
	if len(outcomeParts) > 0 {
		parts[0] = fmt.Sprintf("%d %s (%s)", totals.Directives, directiveWord, strings.Join(outcomeParts, ", "))
	}

	fileWord := "files"
	if totals.FilesRendered == 1 {
		fileWord = "file"
	}
	parts = append(parts, fmt.Sprintf("in %d %s", totals.FilesRendered, fileWord))

	if totals.FilesErrored > 0 {
		parts = append(parts, r.styles.Error.Render(fmt.Sprintf("(%d failed)", totals.FilesErrored)))
	}

	fmt.Fprintln(r.out, r.styles.Bold.Render("Total: ")+strings.Join(parts, " "))
}
