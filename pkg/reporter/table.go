package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/mddirective/internal/ui/pretty"
	"github.com/yaklabco/mddirective/pkg/runner"
)

// TableReporter writes one row per file followed by the run summary.
type TableReporter struct {
	styles    *pretty.Styles
	formatter *pretty.TableFormatter
	bw        *bufio.Writer
}

// NewTableReporter creates a new table reporter.
func NewTableReporter(opts Options) *TableReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	styles := pretty.NewStyles(colorEnabled)
	return &TableReporter{
		styles:    styles,
		formatter: pretty.NewTableFormatter(styles, colorEnabled, pretty.TerminalWidth(opts.Writer)),
		bw:        bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TableReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil {
		result = &runner.Result{}
	}
	fmt.Fprint(r.bw, r.formatter.FormatTable(result))
	fmt.Fprint(r.bw, r.styles.FormatSummary(result.Stats))
	return result.Stats.Directives.Unhandled, nil
}
