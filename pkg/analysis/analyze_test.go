package analysis

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mddirective/pkg/directive"
	"github.com/yaklabco/mddirective/pkg/mdsource"
	"github.com/yaklabco/mddirective/pkg/runner"
)

func handled(kind directive.Kind, name string, line int) runner.Usage {
	return runner.Usage{
		Kind:     kind,
		Name:     name,
		Handler:  name,
		Outcome:  directive.Handled,
		Rendered: true,
		Span: mdsource.Span{
			Start: mdsource.Position{Line: line, Column: 1},
			End:   mdsource.Position{Line: line, Column: 10},
		},
	}
}

func unhandled(kind directive.Kind, name string, line int) runner.Usage {
	u := handled(kind, name, line)
	u.Handler = ""
	u.Outcome = directive.Declined
	return u
}

func sampleResult() *runner.Result {
	return &runner.Result{
		Files: []runner.FileOutcome{
			{
				Path:   "/work/a.md",
				Target: "/work/site/a.html",
				Usages: []runner.Usage{
					handled(directive.Container, "note", 1),
					unhandled(directive.Leaf, "video", 5),
					handled(directive.Text, "abbr", 7),
				},
			},
			{
				Path: "/work/b.md",
				Usages: []runner.Usage{
					handled(directive.Container, "note", 2),
					{Kind: directive.Leaf, Name: "hidden"},
				},
			},
			{Path: "/work/c.md", Error: errors.New("boom")},
			{Path: "/work/d.md"},
		},
		Stats: runner.Stats{FilesDiscovered: 4, FilesRendered: 3, FilesWritten: 1, FilesErrored: 1},
	}
}

func TestAnalyze_NilResult(t *testing.T) {
	t.Parallel()

	report := Analyze(nil, DefaultOptions())

	require.NotNil(t, report)
	assert.Equal(t, ReportVersion, report.Version)
	assert.Zero(t, report.Totals.Directives)
	assert.Empty(t, report.Directives)
}

func TestAnalyze_CountsTotals(t *testing.T) {
	t.Parallel()

	report := Analyze(sampleResult(), DefaultOptions())

	totals := report.Totals
	assert.Equal(t, 4, totals.Files)
	assert.Equal(t, 3, totals.FilesRendered)
	assert.Equal(t, 1, totals.FilesErrored)
	assert.Equal(t, 1, totals.FilesWithUnhandled)
	assert.Equal(t, 5, totals.Directives)
	assert.Equal(t, 1, totals.Text)
	assert.Equal(t, 2, totals.Leaf)
	assert.Equal(t, 2, totals.Container)
	assert.Equal(t, 3, totals.Handled)
	assert.Equal(t, 1, totals.Unhandled, "directives never rendered are not unhandled")
	assert.True(t, totals.HasUnhandled())
	assert.True(t, totals.HasErrors())
}

func TestAnalyze_GroupsByName(t *testing.T) {
	t.Parallel()

	report := Analyze(sampleResult(), Options{IncludeByName: true, SortBy: SortByCount, SortDesc: true, WorkingDir: "/work"})

	require.Len(t, report.ByName, 4)
	note := report.ByName[0]
	assert.Equal(t, "note", note.Name)
	assert.Equal(t, 2, note.Directives)
	assert.Equal(t, []string{"containerDirective"}, note.Kinds)
	assert.Equal(t, []string{"note"}, note.Handlers)
	assert.Equal(t, []string{"a.md", "b.md"}, note.Files)

	// Ties are broken alphabetically.
	names := []string{report.ByName[1].Name, report.ByName[2].Name, report.ByName[3].Name}
	assert.Equal(t, []string{"abbr", "hidden", "video"}, names)
	assert.Empty(t, report.ByName[3].Handlers)
}

func TestAnalyze_GroupsByFile(t *testing.T) {
	t.Parallel()

	report := Analyze(sampleResult(), Options{IncludeByFile: true, SortBy: SortByAlpha, WorkingDir: "/work"})

	require.Len(t, report.ByFile, 3, "files without directives or errors are omitted")
	assert.Equal(t, "a.md", report.ByFile[0].Path)
	assert.Equal(t, "site/a.html", report.ByFile[0].Output)
	assert.Equal(t, []string{"abbr", "note", "video"}, report.ByFile[0].Names)
	assert.Equal(t, 1, report.ByFile[0].Unhandled)
	assert.Equal(t, "c.md", report.ByFile[2].Path)
	assert.Equal(t, "boom", report.ByFile[2].Error)
}

func TestAnalyze_SortByUnhandled(t *testing.T) {
	t.Parallel()

	report := Analyze(sampleResult(), Options{IncludeByName: true, IncludeByFile: true, SortBy: SortByUnhandled})

	assert.Equal(t, "video", report.ByName[0].Name)
	assert.Equal(t, "/work/a.md", report.ByFile[0].Path)
}

func TestAnalyze_DirectiveEntries(t *testing.T) {
	t.Parallel()

	report := Analyze(sampleResult(), Options{IncludeDirectives: true, WorkingDir: "/work"})
	require.Len(t, report.Directives, 5)
	assert.Equal(t, OutcomeSkipped, report.Directives[4].Outcome)

	report = Analyze(sampleResult(), Options{IncludeDirectives: true, OnlyUnhandled: true, WorkingDir: "/work"})
	require.Len(t, report.Directives, 1)
	entry := report.Directives[0]
	assert.Equal(t, DirectiveEntry{
		FilePath:    "a.md",
		Kind:        "leafDirective",
		Name:        "video",
		Outcome:     OutcomeUnhandled,
		StartLine:   5,
		StartColumn: 1,
		EndLine:     5,
		EndColumn:   10,
	}, entry)
}

func TestMakeRelativePath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "<stdin>", makeRelativePath("", "/work"))
	assert.Equal(t, "/work/a.md", makeRelativePath("/work/a.md", ""))
	assert.Equal(t, "docs/a.md", makeRelativePath("docs/a.md", "/work"))
	assert.Equal(t, "docs/a.md", makeRelativePath("/work/docs/a.md", "/work"))
}

func TestSortField_IsValid(t *testing.T) {
	t.Parallel()

	assert.True(t, SortByCount.IsValid())
	assert.True(t, SortByAlpha.IsValid())
	assert.True(t, SortByUnhandled.IsValid())
	assert.False(t, SortField("severity").IsValid())
}
