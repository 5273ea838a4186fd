package runner

import (
	"github.com/yaklabco/mddirective/pkg/directive"
	"github.com/yaklabco/mddirective/pkg/mdsource"
	mdgoldmark "github.com/yaklabco/mddirective/pkg/parser/goldmark"
)

// FileOutcome is the result of rendering one input.
type FileOutcome struct {
	// Path is the input file path. Empty for stdin.
	Path string

	// Target is the output file. Empty when rendering to Stdout.
	Target string

	// Output holds the rendered document when rendering to Stdout.
	Output []byte

	// Directives counts the directives of the input and their outcomes.
	Directives mdgoldmark.Stats

	// Usages lists the directives of the input in document order.
	Usages []Usage

	// Snapshot indexes the input source for position lookups. Nil if the
	// file could not be rendered.
	Snapshot *mdsource.Snapshot

	// BytesIn and BytesOut are the input and rendered sizes.
	BytesIn  int
	BytesOut int

	// Written is set when Target was created or replaced.
	Written bool

	// Unchanged is set when Target already held the rendered bytes.
	Unchanged bool

	// Error is set if the file could not be rendered or written.
	Error error
}

// Usage records one directive of a rendered input.
type Usage struct {
	Kind directive.Kind
	Name string

	// Handler is the registry entry that rendered the directive. Empty
	// when no handler accepted it.
	Handler string
	Outcome directive.Outcome

	// Rendered is false when the renderer never reached the directive,
	// for example inside content a handler dropped.
	Rendered bool

	// Span covers the directive source, from its opening marker to its
	// last token.
	Span mdsource.Span
}

// Unhandled reports whether the directive was rendered without a handler.
func (u Usage) Unhandled() bool {
	return u.Rendered && u.Outcome != directive.Handled
}

// Stats captures aggregate information about a run.
type Stats struct {
	// FilesDiscovered is the total number of files found during discovery.
	FilesDiscovered int

	// FilesRendered is the number of files rendered without error.
	FilesRendered int

	// FilesWritten is the number of output files created or replaced.
	FilesWritten int

	// FilesUnchanged is the number of output files that were already current.
	FilesUnchanged int

	// FilesErrored is the number of files that encountered errors.
	FilesErrored int

	// Directives sums the directive counts of every rendered file.
	Directives mdgoldmark.Stats

	// BytesIn and BytesOut sum the input and rendered sizes.
	BytesIn  int64
	BytesOut int64
}

// Result is the overall runner result.
type Result struct {
	// Files contains the outcome for each processed file.
	// Files are ordered deterministically (by path).
	Files []FileOutcome

	// Stats contains aggregate statistics for the run.
	Stats Stats
}

// HasErrors reports whether any file failed.
func (r *Result) HasErrors() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesErrored > 0
}

// HasUnhandled reports whether any rendered directive had no handler.
func (r *Result) HasUnhandled() bool {
	if r == nil {
		return false
	}
	return r.Stats.Directives.Unhandled > 0
}

// Errors returns the per-file errors in order.
func (r *Result) Errors() []error {
	if r == nil {
		return nil
	}
	var errs []error
	for _, f := range r.Files {
		if f.Error != nil {
			errs = append(errs, f.Error)
		}
	}
	return errs
}

// accumulate updates the result with a file outcome.
func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}

	r.Stats.FilesRendered++
	r.Stats.Directives.Add(outcome.Directives)
	r.Stats.BytesIn += int64(outcome.BytesIn)
	r.Stats.BytesOut += int64(outcome.BytesOut)

	switch {
	case outcome.Written:
		r.Stats.FilesWritten++
	case outcome.Unchanged:
		r.Stats.FilesUnchanged++
	}
}
