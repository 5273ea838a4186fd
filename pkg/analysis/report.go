package analysis

import "time"

// Report contains pre-computed views of a render run.
// Computed once by Analyze(), used by all renderers.
type Report struct {
	// Directives is the flat list for detailed output.
	Directives []DirectiveEntry `json:"directives,omitempty"`

	// ByFile groups directives by input file.
	ByFile []FileAnalysis `json:"byFile,omitempty"`

	// ByName groups directives by name.
	ByName []NameAnalysis `json:"byName,omitempty"`

	// Totals contains aggregate statistics.
	Totals Totals `json:"summary"`

	// Version is the report format version.
	Version string `json:"version"`

	// Timestamp is when the analysis was performed.
	Timestamp time.Time `json:"timestamp"`
}

// DirectiveEntry represents a single directive in the report.
type DirectiveEntry struct {
	FilePath    string `json:"filePath"`
	Kind        string `json:"kind"`
	Name        string `json:"name"`
	Outcome     string `json:"outcome"`
	Handler     string `json:"handler,omitempty"`
	StartLine   int    `json:"startLine"`
	StartColumn int    `json:"startColumn"`
	EndLine     int    `json:"endLine"`
	EndColumn   int    `json:"endColumn"`
}

// Totals contains aggregate statistics for the report.
type Totals struct {
	Files              int `json:"filesDiscovered"`
	FilesRendered      int `json:"filesRendered"`
	FilesWritten       int `json:"filesWritten"`
	FilesUnchanged     int `json:"filesUnchanged"`
	FilesErrored       int `json:"filesErrored"`
	FilesWithUnhandled int `json:"filesWithUnhandled"`
	Directives         int `json:"totalDirectives"`
	Text               int `json:"text"`
	Leaf               int `json:"leaf"`
	Container          int `json:"container"`
	Handled            int `json:"handled"`
	Unhandled          int `json:"unhandled"`
}

// HasUnhandled returns true if any directive was rendered without a handler.
func (t Totals) HasUnhandled() bool {
	return t.Unhandled > 0
}

// HasErrors returns true if any file failed.
func (t Totals) HasErrors() bool {
	return t.FilesErrored > 0
}

// FileAnalysis contains aggregated data for a single file.
type FileAnalysis struct {
	Path       string   `json:"path"`
	Output     string   `json:"output,omitempty"`
	Directives int      `json:"directives"`
	Handled    int      `json:"handled"`
	Unhandled  int      `json:"unhandled"`
	Names      []string `json:"names,omitempty"`
	Error      string   `json:"error,omitempty"`
}

// NameAnalysis contains aggregated data for one directive name.
type NameAnalysis struct {
	Name       string   `json:"name"`
	Kinds      []string `json:"kinds"`
	Directives int      `json:"directives"`
	Handled    int      `json:"handled"`
	Unhandled  int      `json:"unhandled"`
	Handlers   []string `json:"handlers,omitempty"`
	Files      []string `json:"files,omitempty"`
}
