package reporter

import (
	"bufio"
	"context"
	"fmt"
	"path/filepath"

	"github.com/yaklabco/mddirective/internal/ui/pretty"
	"github.com/yaklabco/mddirective/pkg/mdsource"
	"github.com/yaklabco/mddirective/pkg/runner"
)

// TextReporter lists unhandled directives and failed files as styled
// terminal output, grouped by file.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(runner.Stats{}))
		}
		return 0, nil
	}

	var unhandled int
	for _, file := range result.Files {
		unhandled += r.reportFile(file)
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}
	return unhandled, nil
}

// reportFile writes the listed directives of one file and returns its
// unhandled count.
func (r *TextReporter) reportFile(file runner.FileOutcome) int {
	path := r.displayPath(file.Path)

	if file.Error != nil {
		fmt.Fprintf(r.bw, "%s: %s\n",
			r.styles.FilePath.Render(path),
			r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)),
		)
		return 0
	}

	var listed []runner.Usage
	unhandled := 0
	for _, usage := range file.Usages {
		if usage.Unhandled() {
			unhandled++
		}
		if r.opts.Verbose || usage.Unhandled() {
			listed = append(listed, usage)
		}
	}
	if len(listed) == 0 {
		return 0
	}

	fmt.Fprintln(r.bw, r.styles.FormatFileHeader(path, unhandled))
	for _, usage := range listed {
		fmt.Fprint(r.bw, r.styles.FormatUsage(path, usage, r.sourceLine(file.Snapshot, usage.Span.Start.Line)))
	}
	fmt.Fprintln(r.bw)

	return unhandled
}

func (r *TextReporter) sourceLine(snapshot *mdsource.Snapshot, line int) string {
	if !r.opts.ShowContext || snapshot == nil {
		return ""
	}
	return string(snapshot.LineContent(line))
}

func (r *TextReporter) displayPath(path string) string {
	if path == "" {
		return "<stdin>"
	}
	if r.opts.WorkingDir == "" || !filepath.IsAbs(path) {
		return path
	}
	if rel, err := filepath.Rel(r.opts.WorkingDir, path); err == nil {
		return rel
	}
	return path
}
