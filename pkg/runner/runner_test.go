package runner_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yaklabco/mddirective/pkg/config"
	"github.com/yaklabco/mddirective/pkg/directive"
	"github.com/yaklabco/mddirective/pkg/handlers"
	mdgoldmark "github.com/yaklabco/mddirective/pkg/parser/goldmark"
	"github.com/yaklabco/mddirective/pkg/runner"
)

const noteDoc = "# T\n\n:::note\nhi\n:::\n"

const noteHTML = "<h1>T</h1>\n<aside>\n<p>hi</p>\n</aside>\n"

func newRunner(t *testing.T) *runner.Runner {
	t.Helper()

	reg := directive.NewHandlers()
	reg.MustRegister("note", handlers.Element("aside"))
	reg.MustRegister("abbr", handlers.Abbr())
	return runner.New(mdgoldmark.New(mdgoldmark.WithHandlers(reg)))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("setup mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("setup write: %v", err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestNew(t *testing.T) {
	t.Parallel()

	engine := mdgoldmark.New()
	renderRunner := runner.New(engine)

	if renderRunner.Engine != engine {
		t.Error("Engine not set correctly")
	}
}

func TestRunner_Run_NoFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	result, err := newRunner(t).Run(context.Background(), runner.Options{
		Paths:      []string{"."},
		WorkingDir: dir,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Stats.FilesDiscovered != 0 {
		t.Errorf("FilesDiscovered = %d, want 0", result.Stats.FilesDiscovered)
	}

	if len(result.Files) != 0 {
		t.Errorf("len(Files) = %d, want 0", len(result.Files))
	}
}

func TestRunner_Run_WritesOutputs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.md"), noteDoc)
	writeFile(t, filepath.Join(dir, "docs", "b.md"), "See :abbr[HTML]{title=\"HyperText\"} and ::unknown\n")

	result, err := newRunner(t).Run(context.Background(), runner.Options{
		Paths:      []string{"."},
		WorkingDir: dir,
		OutDir:     "site",
		Jobs:       2,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got := readFile(t, filepath.Join(dir, "site", "a.html")); got != noteHTML {
		t.Errorf("a.html = %q, want %q", got, noteHTML)
	}
	wantB := "<p>See <abbr title=\"HyperText\">HTML</abbr> and ::unknown</p>\n"
	if got := readFile(t, filepath.Join(dir, "site", "docs", "b.html")); got != wantB {
		t.Errorf("b.html = %q, want %q", got, wantB)
	}

	stats := result.Stats
	if stats.FilesDiscovered != 2 || stats.FilesRendered != 2 || stats.FilesWritten != 2 {
		t.Errorf("unexpected file stats: %+v", stats)
	}
	if stats.Directives.Container != 1 || stats.Directives.Text != 1 || stats.Directives.Leaf != 0 {
		t.Errorf("unexpected directive stats: %+v", stats.Directives)
	}
	if stats.Directives.Handled != 2 || stats.Directives.Unhandled != 0 {
		t.Errorf("unexpected outcome stats: %+v", stats.Directives)
	}
	if stats.BytesIn == 0 || stats.BytesOut == 0 {
		t.Errorf("byte counts not recorded: %+v", stats)
	}

	if result.Files[0].Target != filepath.Join(dir, "site", "a.html") {
		t.Errorf("Files[0].Target = %s", result.Files[0].Target)
	}
}

func TestRunner_Run_UnchangedOutputs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.md"), noteDoc)
	writeFile(t, filepath.Join(dir, "b.md"), "plain\n")

	renderRunner := newRunner(t)
	opts := runner.Options{
		Paths:      []string{"."},
		WorkingDir: dir,
		OutDir:     "out",
	}

	if _, err := renderRunner.Run(context.Background(), opts); err != nil {
		t.Fatalf("first Run() error = %v", err)
	}

	result, err := renderRunner.Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}

	if result.Stats.FilesWritten != 0 {
		t.Errorf("FilesWritten = %d, want 0", result.Stats.FilesWritten)
	}
	if result.Stats.FilesUnchanged != 2 {
		t.Errorf("FilesUnchanged = %d, want 2", result.Stats.FilesUnchanged)
	}
	for _, f := range result.Files {
		if !f.Unchanged || f.Written {
			t.Errorf("%s: Written=%v Unchanged=%v", f.Path, f.Written, f.Unchanged)
		}
	}
}

func TestRunner_Run_OutputNextToInput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "docs", "a.md"), noteDoc)

	result, err := newRunner(t).Run(context.Background(), runner.Options{
		Paths:      []string{"docs"},
		WorkingDir: dir,
		OutExt:     "htm",
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.HasErrors() {
		t.Fatalf("unexpected errors: %v", result.Errors())
	}

	if got := readFile(t, filepath.Join(dir, "docs", "a.htm")); got != noteHTML {
		t.Errorf("a.htm = %q", got)
	}
}

func TestRunner_Run_MarkdownFormat(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.md"), noteDoc)

	result, err := newRunner(t).Run(context.Background(), runner.Options{
		Paths:      []string{"."},
		WorkingDir: dir,
		OutDir:     "out",
		Format:     config.FormatMarkdown,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.HasErrors() {
		t.Fatalf("unexpected errors: %v", result.Errors())
	}

	got := readFile(t, filepath.Join(dir, "out", "a.md"))
	if !strings.Contains(got, "# T") || !strings.Contains(got, "hi") {
		t.Errorf("unexpected markdown output: %q", got)
	}
	if strings.Contains(got, ":::") {
		t.Errorf("directive markers should be rendered away: %q", got)
	}
}

func TestRunner_Run_OverwriteIsAnError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.md"), noteDoc)

	result, err := newRunner(t).Run(context.Background(), runner.Options{
		Paths:      []string{"."},
		WorkingDir: dir,
		Format:     config.FormatMarkdown,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !result.HasErrors() {
		t.Fatal("expected a per-file error")
	}
	if result.Stats.FilesErrored != 1 || result.Stats.FilesRendered != 0 {
		t.Errorf("unexpected stats: %+v", result.Stats)
	}
	if len(result.Errors()) != 1 || !strings.Contains(result.Errors()[0].Error(), "overwrite") {
		t.Errorf("unexpected errors: %v", result.Errors())
	}
	if got := readFile(t, filepath.Join(dir, "a.md")); got != noteDoc {
		t.Errorf("input was modified: %q", got)
	}
}

func TestRunner_Run_Stdout(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.md"), "second\n")
	writeFile(t, filepath.Join(dir, "a.md"), noteDoc)

	var buf bytes.Buffer
	result, err := newRunner(t).Run(context.Background(), runner.Options{
		Paths:      []string{"."},
		WorkingDir: dir,
		Stdout:     &buf,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got, want := buf.String(), noteHTML+"<p>second</p>\n"; got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
	for _, f := range result.Files {
		if f.Target != "" || f.Written {
			t.Errorf("%s: unexpected file output %q", f.Path, f.Target)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "a.html")); !os.IsNotExist(err) {
		t.Errorf("no output file expected, stat error = %v", err)
	}
}

func TestRunner_Run_UnhandledDirectives(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.md"), "::video{v=1}\n\n:::note\n::other\n:::\n")

	var buf bytes.Buffer
	result, err := newRunner(t).Run(context.Background(), runner.Options{
		Paths:      []string{"a.md"},
		WorkingDir: dir,
		Stdout:     &buf,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !result.HasUnhandled() {
		t.Error("expected unhandled directives")
	}
	if result.Stats.Directives.Unhandled != 2 || result.Stats.Directives.Handled != 1 {
		t.Errorf("unexpected directive stats: %+v", result.Stats.Directives)
	}
	if got, want := buf.String(), "<aside></aside>\n"; got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
}

func TestRunner_Run_Usages(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.md"), "::video{v=1}\n\n:::note\n::other\n:::\n")

	result, err := newRunner(t).Run(context.Background(), runner.Options{
		Paths:      []string{"a.md"},
		WorkingDir: dir,
		Stdout:     &bytes.Buffer{},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	usages := result.Files[0].Usages
	if len(usages) != 3 {
		t.Fatalf("got %d usages, want 3", len(usages))
	}

	want := []struct {
		kind      directive.Kind
		name      string
		handler   string
		unhandled bool
		start     string
	}{
		{directive.Leaf, "video", "", true, "1:1"},
		{directive.Container, "note", "note", false, "3:1"},
		{directive.Leaf, "other", "", true, "4:1"},
	}
	for i, w := range want {
		got := usages[i]
		if got.Kind != w.kind || got.Name != w.name || got.Handler != w.handler {
			t.Errorf("usage %d = %s %q by %q, want %s %q by %q", i, got.Kind, got.Name, got.Handler, w.kind, w.name, w.handler)
		}
		if got.Unhandled() != w.unhandled {
			t.Errorf("usage %d Unhandled() = %v, want %v", i, got.Unhandled(), w.unhandled)
		}
		if got.Span.Start.String() != w.start {
			t.Errorf("usage %d starts at %s, want %s", i, got.Span.Start, w.start)
		}
	}
}

func TestRunner_Run_SerialVsParallelConsistency(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	// Create files.
	fileCount := 20
	for idx := range fileCount {
		name := string(rune('a'+idx%26)) + string(rune('0'+idx/26)) + ".md"
		writeFile(t, filepath.Join(dir, name), "# "+name+"\n\n:::note\n:abbr[x]\n:::\n")
	}

	renderRunner := newRunner(t)

	var serialOut, parallelOut bytes.Buffer
	resultSerial, err := renderRunner.Run(context.Background(), runner.Options{
		Paths:      []string{"."},
		WorkingDir: dir,
		Jobs:       1,
		Stdout:     &serialOut,
	})
	if err != nil {
		t.Fatalf("Run(serial) error = %v", err)
	}

	resultParallel, err := renderRunner.Run(context.Background(), runner.Options{
		Paths:      []string{"."},
		WorkingDir: dir,
		Jobs:       4,
		Stdout:     &parallelOut,
	})
	if err != nil {
		t.Fatalf("Run(parallel) error = %v", err)
	}

	if resultSerial.Stats != resultParallel.Stats {
		t.Errorf("stats mismatch: serial=%+v, parallel=%+v", resultSerial.Stats, resultParallel.Stats)
	}
	if resultSerial.Stats.Directives.Handled != 2*fileCount {
		t.Errorf("Handled = %d, want %d", resultSerial.Stats.Directives.Handled, 2*fileCount)
	}
	if serialOut.String() != parallelOut.String() {
		t.Error("output differs between serial and parallel runs")
	}

	// File order should be deterministic.
	if len(resultSerial.Files) != len(resultParallel.Files) {
		t.Fatalf("File count mismatch: serial=%d, parallel=%d",
			len(resultSerial.Files), len(resultParallel.Files))
	}

	for i := range resultSerial.Files {
		if resultSerial.Files[i].Path != resultParallel.Files[i].Path {
			t.Errorf("File[%d] path mismatch: serial=%s, parallel=%s",
				i, resultSerial.Files[i].Path, resultParallel.Files[i].Path)
		}
	}
}

func TestRunner_Run_ContextCancellation(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	for idx := range 10 {
		writeFile(t, filepath.Join(dir, string(rune('a'+idx))+".md"), "content")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately.

	_, err := newRunner(t).Run(ctx, runner.Options{
		Paths:      []string{"."},
		WorkingDir: dir,
		OutDir:     "out",
	})
	if err == nil {
		t.Fatal("expected cancellation error")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got: %v", err)
	}
}

func TestRunner_RenderReader(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	outcome, err := newRunner(t).RenderReader(context.Background(), strings.NewReader(noteDoc), &out, config.FormatHTML)
	if err != nil {
		t.Fatalf("RenderReader() error = %v", err)
	}

	if out.String() != noteHTML {
		t.Errorf("output = %q, want %q", out.String(), noteHTML)
	}
	if outcome.Path != "" || outcome.BytesIn != len(noteDoc) || outcome.BytesOut != len(noteHTML) {
		t.Errorf("unexpected outcome: %+v", outcome)
	}
	if outcome.Directives.Container != 1 || outcome.Directives.Handled != 1 {
		t.Errorf("unexpected directive stats: %+v", outcome.Directives)
	}
	if len(outcome.Usages) != 1 || outcome.Usages[0].Name != "note" {
		t.Errorf("unexpected usages: %+v", outcome.Usages)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Render.Jobs = 3
	cfg.Render.Exclude = []string{"vendor/**"}
	cfg.Render.FollowSymlinks = config.Bool(true)
	cfg.Output.Dir = "site"
	cfg.Output.Format = config.FormatMarkdown

	opts := runner.OptionsFromConfig(cfg, []string{"docs"})

	if opts.Jobs != 3 || !opts.FollowSymlinks || opts.OutDir != "site" || opts.Format != config.FormatMarkdown {
		t.Errorf("unexpected options: %+v", opts)
	}
	if len(opts.ExcludeGlobs) != 1 || opts.ExcludeGlobs[0] != "vendor/**" {
		t.Errorf("ExcludeGlobs = %v", opts.ExcludeGlobs)
	}
	if len(opts.Paths) != 1 || opts.Paths[0] != "docs" {
		t.Errorf("Paths = %v", opts.Paths)
	}

	cfg.Render.Exclude[0] = "changed"
	if opts.ExcludeGlobs[0] != "vendor/**" {
		t.Error("options share the exclude slice with the config")
	}

	if got := runner.OptionsFromConfig(nil, nil); got.Jobs != 0 || got.Paths != nil {
		t.Errorf("nil config should give zero options, got %+v", got)
	}
}
