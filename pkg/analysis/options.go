package analysis

// SortField specifies how to sort analysis results.
type SortField string

const (
	// SortByCount sorts by directive count (descending by default).
	SortByCount SortField = "count"
	// SortByAlpha sorts alphabetically.
	SortByAlpha SortField = "alpha"
	// SortByUnhandled sorts by unhandled directives first.
	SortByUnhandled SortField = "unhandled"
)

// IsValid returns true if the sort field is valid.
func (s SortField) IsValid() bool {
	switch s {
	case SortByCount, SortByAlpha, SortByUnhandled:
		return true
	default:
		return false
	}
}

// Options configures the Analyze function.
type Options struct {
	// IncludeDirectives includes the flat directive list.
	IncludeDirectives bool

	// OnlyUnhandled limits the flat list to unhandled directives.
	OnlyUnhandled bool

	// IncludeByFile includes the per-file analysis.
	IncludeByFile bool

	// IncludeByName includes the per-directive-name analysis.
	IncludeByName bool

	// SortBy specifies how to sort ByFile and ByName.
	SortBy SortField

	// SortDesc sorts in descending order (highest first).
	SortDesc bool

	// WorkingDir is the directory to make paths relative to.
	// If empty, paths are kept as-is (typically absolute).
	WorkingDir string
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		IncludeDirectives: true,
		IncludeByFile:     true,
		IncludeByName:     true,
		SortBy:            SortByCount,
		SortDesc:          true,
	}
}
