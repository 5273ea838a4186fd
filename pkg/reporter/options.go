package reporter

import (
	"io"
	"os"

	"github.com/yaklabco/mddirective/pkg/analysis"
)

// bufWriterSize is the buffer size for buffered output writers (64 KiB).
const bufWriterSize = 64 * 1024

// Options configures reporter behavior.
type Options struct {
	// Writer is the destination for output (typically os.Stderr).
	Writer io.Writer

	// Format specifies the report format.
	Format Format

	// Color controls colorized output.
	// Values: "auto" (default), "always", "never"
	Color string

	// ShowContext includes the source line under each listed directive.
	ShowContext bool

	// ShowSummary appends aggregate statistics (text format).
	ShowSummary bool

	// Verbose lists handled directives too, not only unhandled ones.
	Verbose bool

	// Compact uses minified JSON.
	Compact bool

	// SortBy orders the summary tables.
	SortBy analysis.SortField

	// WorkingDir is the directory to make paths relative to.
	// If empty, paths are kept as-is (typically absolute).
	WorkingDir string
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Writer:      os.Stderr,
		Format:      FormatText,
		Color:       "auto",
		ShowContext: true,
		ShowSummary: true,
		SortBy:      analysis.SortByCount,
	}
}
