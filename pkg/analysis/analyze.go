// Package analysis aggregates the directive usage of a render run into
// views shared by the reporters.
package analysis

import (
	"cmp"
	"path/filepath"
	"slices"
	"time"

	"github.com/yaklabco/mddirective/pkg/directive"
	"github.com/yaklabco/mddirective/pkg/runner"
)

// ReportVersion is the current report format version.
const ReportVersion = "1.0.0"

// Outcome strings of a directive entry.
const (
	OutcomeHandled   = "handled"
	OutcomeUnhandled = "unhandled"
	OutcomeSkipped   = "skipped"
)

// stdinName is the display path of a document read from standard input.
const stdinName = "<stdin>"

// makeRelativePath converts an absolute path to a relative path from workDir.
// If workDir is empty or conversion fails, returns the original path.
func makeRelativePath(absPath, workDir string) string {
	if absPath == "" {
		return stdinName
	}
	if workDir == "" || !filepath.IsAbs(absPath) {
		return absPath
	}
	relPath, err := filepath.Rel(workDir, absPath)
	if err != nil {
		return absPath
	}
	return relPath
}

// OutcomeOf returns the outcome string of a usage.
func OutcomeOf(u runner.Usage) string {
	switch {
	case !u.Rendered:
		return OutcomeSkipped
	case u.Outcome == directive.Handled:
		return OutcomeHandled
	default:
		return OutcomeUnhandled
	}
}

// analysisContext holds temporary state during analysis.
type analysisContext struct {
	nameMap      map[string]*NameAnalysis
	nameFiles    map[string]map[string]bool
	nameKinds    map[string]map[string]bool
	nameHandlers map[string]map[string]bool
	fileNames    map[string]map[string]bool
}

func newAnalysisContext() *analysisContext {
	return &analysisContext{
		nameMap:      make(map[string]*NameAnalysis),
		nameFiles:    make(map[string]map[string]bool),
		nameKinds:    make(map[string]map[string]bool),
		nameHandlers: make(map[string]map[string]bool),
		fileNames:    make(map[string]map[string]bool),
	}
}

// getOrCreateNameAnalysis returns existing or creates new NameAnalysis.
func (ctx *analysisContext) getOrCreateNameAnalysis(name string) *NameAnalysis {
	if _, ok := ctx.nameMap[name]; !ok {
		ctx.nameMap[name] = &NameAnalysis{Name: name}
		ctx.nameFiles[name] = make(map[string]bool)
		ctx.nameKinds[name] = make(map[string]bool)
		ctx.nameHandlers[name] = make(map[string]bool)
	}
	return ctx.nameMap[name]
}

// countOutcome updates handled and unhandled counters for one usage.
func countOutcome(outcome string, totals *Totals, fa *FileAnalysis, na *NameAnalysis) {
	switch outcome {
	case OutcomeHandled:
		totals.Handled++
		fa.Handled++
		na.Handled++
	case OutcomeUnhandled:
		totals.Unhandled++
		fa.Unhandled++
		na.Unhandled++
	}
}

func countKind(kind directive.Kind, totals *Totals) {
	switch kind {
	case directive.Text:
		totals.Text++
	case directive.Leaf:
		totals.Leaf++
	case directive.Container:
		totals.Container++
	}
}

func createDirectiveEntry(path, outcome string, u runner.Usage) DirectiveEntry {
	return DirectiveEntry{
		FilePath:    path,
		Kind:        u.Kind.String(),
		Name:        u.Name,
		Outcome:     outcome,
		Handler:     u.Handler,
		StartLine:   u.Span.Start.Line,
		StartColumn: u.Span.Start.Column,
		EndLine:     u.Span.End.Line,
		EndColumn:   u.Span.End.Column,
	}
}

// buildByName constructs the ByName slice from accumulated data.
func (ctx *analysisContext) buildByName(opts Options) []NameAnalysis {
	result := make([]NameAnalysis, 0, len(ctx.nameMap))
	for name, na := range ctx.nameMap {
		na.Files = sortedKeys(ctx.nameFiles[name])
		na.Kinds = sortedKeys(ctx.nameKinds[name])
		na.Handlers = sortedKeys(ctx.nameHandlers[name])
		result = append(result, *na)
	}
	sortNameAnalysis(result, opts.SortBy, opts.SortDesc)
	return result
}

// buildByFile finalizes the per-file entries that have directives or errors.
func (ctx *analysisContext) buildByFile(files []FileAnalysis, opts Options) []FileAnalysis {
	result := make([]FileAnalysis, 0, len(files))
	for _, fa := range files {
		if fa.Directives == 0 && fa.Error == "" {
			continue
		}
		fa.Names = sortedKeys(ctx.fileNames[fa.Path])
		result = append(result, fa)
	}
	sortFileAnalysis(result, opts.SortBy, opts.SortDesc)
	return result
}

// Analyze transforms a runner.Result into a Report.
// It performs a single pass through the usages to compute all views.
func Analyze(result *runner.Result, opts Options) *Report {
	report := &Report{
		Version:   ReportVersion,
		Timestamp: time.Now(),
	}

	if result == nil {
		return report
	}

	report.Totals.Files = result.Stats.FilesDiscovered
	report.Totals.FilesRendered = result.Stats.FilesRendered
	report.Totals.FilesWritten = result.Stats.FilesWritten
	report.Totals.FilesUnchanged = result.Stats.FilesUnchanged
	report.Totals.FilesErrored = result.Stats.FilesErrored

	ctx := newAnalysisContext()
	files := make([]FileAnalysis, 0, len(result.Files))

	for _, file := range result.Files {
		displayPath := makeRelativePath(file.Path, opts.WorkingDir)
		fa := FileAnalysis{Path: displayPath}
		if file.Target != "" {
			fa.Output = makeRelativePath(file.Target, opts.WorkingDir)
		}
		if file.Error != nil {
			fa.Error = file.Error.Error()
			files = append(files, fa)
			continue
		}
		ctx.fileNames[displayPath] = make(map[string]bool)

		for _, usage := range file.Usages {
			outcome := OutcomeOf(usage)
			report.Totals.Directives++
			countKind(usage.Kind, &report.Totals)

			na := ctx.getOrCreateNameAnalysis(usage.Name)
			na.Directives++
			fa.Directives++
			countOutcome(outcome, &report.Totals, &fa, na)

			ctx.fileNames[displayPath][usage.Name] = true
			ctx.nameFiles[usage.Name][displayPath] = true
			ctx.nameKinds[usage.Name][usage.Kind.String()] = true
			if usage.Handler != "" {
				ctx.nameHandlers[usage.Name][usage.Handler] = true
			}

			if opts.IncludeDirectives && (!opts.OnlyUnhandled || outcome == OutcomeUnhandled) {
				report.Directives = append(report.Directives, createDirectiveEntry(displayPath, outcome, usage))
			}
		}
		if fa.Unhandled > 0 {
			report.Totals.FilesWithUnhandled++
		}
		files = append(files, fa)
	}

	if opts.IncludeByName {
		report.ByName = ctx.buildByName(opts)
	}
	if opts.IncludeByFile {
		report.ByFile = ctx.buildByFile(files, opts)
	}

	return report
}

func sortedKeys(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// compareCounts orders by the sort field, then alphabetically by key so
// results are deterministic.
func compareCounts(sortBy SortField, desc bool, leftKey, rightKey string, left, right [2]int) int {
	var result int
	switch sortBy {
	case SortByAlpha:
		// Alphabetical sorting is always ascending (A-Z)
	case SortByUnhandled:
		// Unhandled first, then by count (always descending)
		result = cmp.Compare(right[1], left[1])
		if result == 0 {
			result = cmp.Compare(right[0], left[0])
		}
	default: // SortByCount
		result = cmp.Compare(left[0], right[0])
		if desc {
			result = -result
		}
	}
	if result == 0 {
		result = cmp.Compare(leftKey, rightKey)
	}
	return result
}

func sortNameAnalysis(names []NameAnalysis, sortBy SortField, desc bool) {
	slices.SortFunc(names, func(left, right NameAnalysis) int {
		return compareCounts(sortBy, desc, left.Name, right.Name,
			[2]int{left.Directives, left.Unhandled}, [2]int{right.Directives, right.Unhandled})
	})
}

func sortFileAnalysis(files []FileAnalysis, sortBy SortField, desc bool) {
	slices.SortFunc(files, func(left, right FileAnalysis) int {
		return compareCounts(sortBy, desc, left.Path, right.Path,
			[2]int{left.Directives, left.Unhandled}, [2]int{right.Directives, right.Unhandled})
	})
}
