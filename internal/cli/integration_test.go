package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mddirective/internal/cli"
	"github.com/yaklabco/mddirective/pkg/config"
)

const (
	projectConfig = `handlers:
  note:
    type: element
    tag: aside
  abbr:
    type: abbr
`
	noteDoc  = "# T\n\n:::note\nhi\n:::\n"
	noteHTML = "<h1>T</h1>\n<aside>\n<p>hi</p>\n</aside>\n"
)

// setupProject creates a project directory holding .mddirective.yml and
// the given files, and makes it the working directory. User-level
// configuration and the environment are isolated from the test.
func setupProject(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, name := range []string{"FORMAT", "OUT_DIR", "EXTENSION", "JOBS", "EXTENSIONS", "EXCLUDE", "GFM", "UNSAFE", "FOLLOW_SYMLINKS", "COLOR"} {
		t.Setenv("MDDIRECTIVE_"+name, "")
	}

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".mddirective.yml"), []byte(projectConfig), 0o644))
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	t.Chdir(dir)
	return dir
}

// execute runs the root command with args and stdin.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	cmd := cli.NewRootCommand(cli.BuildInfo{Version: "1.2.3", Commit: "abc123", Date: "2024-01-01"})

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append(args, "--color", "never"))

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestIntegration_RenderSingleFileToStdout(t *testing.T) {
	setupProject(t, map[string]string{"doc.md": noteDoc})

	stdout, stderr, err := execute(t, "", "render", "doc.md")
	require.NoError(t, err)
	assert.Equal(t, noteHTML, stdout)
	assert.NotContains(t, stderr, "rendered", "stdout output gets no summary line")
	assert.NoFileExists(t, "doc.html")
}

func TestIntegration_RenderStdin(t *testing.T) {
	setupProject(t, nil)

	stdout, _, err := execute(t, "See :abbr[HTML]{title=\"x\"}\n", "render")
	require.NoError(t, err)
	assert.Equal(t, "<p>See <abbr title=\"x\">HTML</abbr></p>\n", stdout)

	stdout, _, err = execute(t, ":::note\nhi\n:::\n", "render", "-")
	require.NoError(t, err)
	assert.Equal(t, "<aside>\n<p>hi</p>\n</aside>\n", stdout)
}

func TestIntegration_RenderTreeToOutDir(t *testing.T) {
	dir := setupProject(t, map[string]string{
		"docs/a.md":     noteDoc,
		"docs/sub/b.md": "Hi :abbr[X]{title=y}\n",
	})

	stdout, stderr, err := execute(t, "", "render", "docs", "-o", "site")
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "2 files rendered, 2 directives (2 handled), 2 written")

	got, err := os.ReadFile(filepath.Join(dir, "site", "docs", "a.html"))
	require.NoError(t, err)
	assert.Equal(t, noteHTML, string(got))
	assert.FileExists(t, filepath.Join(dir, "site", "docs", "sub", "b.html"))

	_, stderr, err = execute(t, "", "render", "docs", "-o", "site")
	require.NoError(t, err)
	assert.Contains(t, stderr, "2 unchanged")
}

func TestIntegration_RenderSummary(t *testing.T) {
	setupProject(t, map[string]string{"docs/a.md": noteDoc + "\n::unknown\n"})

	_, stderr, err := execute(t, "", "render", "docs", "-o", "site", "--summary")
	require.NoError(t, err)
	assert.Contains(t, stderr, "FILE")
	assert.Contains(t, stderr, "UNHANDLED")
	assert.Contains(t, stderr, "Summary")
	assert.Contains(t, stderr, "Render completed with unhandled directives")
}

func TestIntegration_RenderReportText(t *testing.T) {
	setupProject(t, map[string]string{"docs/a.md": noteDoc + "\n::unknown\n"})

	stdout, stderr, err := execute(t, "", "render", "docs", "-o", "site")
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "docs/a.md (1 unhandled directive)")
	assert.Contains(t, stderr, "docs/a.md:7:1  unhandled  leafDirective unknown")
	assert.Contains(t, stderr, "        ::unknown\n        ^\n")

	_, stderr, err = execute(t, "", "render", "docs", "-o", "site", "--verbose")
	require.NoError(t, err)
	assert.Contains(t, stderr, `docs/a.md:3:1  handled by "note"  containerDirective note`)
}

func TestIntegration_RenderReportJSON(t *testing.T) {
	setupProject(t, map[string]string{"docs/a.md": noteDoc + "\n::unknown\n"})

	stdout, _, err := execute(t, "", "render", "docs", "-o", "site", "--report", "json")
	require.NoError(t, err)

	var report struct {
		Directives []struct {
			FilePath  string `json:"filePath"`
			Name      string `json:"name"`
			StartLine int    `json:"startLine"`
		} `json:"directives"`
		Summary struct {
			Handled   int `json:"handled"`
			Unhandled int `json:"unhandled"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	require.Len(t, report.Directives, 1)
	assert.Equal(t, filepath.Join("docs", "a.md"), report.Directives[0].FilePath)
	assert.Equal(t, "unknown", report.Directives[0].Name)
	assert.Equal(t, 7, report.Directives[0].StartLine)
	assert.Equal(t, 1, report.Summary.Handled)
	assert.Equal(t, 1, report.Summary.Unhandled)
}

func TestIntegration_RenderReportSummaryWithStdout(t *testing.T) {
	setupProject(t, map[string]string{"doc.md": noteDoc})

	stdout, stderr, err := execute(t, "", "render", "doc.md", "--report", "summary")
	require.NoError(t, err)
	assert.Equal(t, noteHTML, stdout, "the document keeps stdout to itself")
	assert.Contains(t, stderr, "Directives Summary")
	assert.Contains(t, stderr, "Total: 1 directive (1 handled) in 1 file")

	_, _, err = execute(t, "", "render", "doc.md", "--report", "sarif")
	require.ErrorIs(t, err, cli.ErrUsage)
}

func TestIntegration_RenderMarkdownFormat(t *testing.T) {
	dir := setupProject(t, map[string]string{"docs/a.md": noteDoc})

	_, _, err := execute(t, "", "render", "docs", "--format", "markdown", "-o", "out")
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(dir, "out", "docs", "a.md"))
	require.NoError(t, err)
	assert.Contains(t, string(got), "# T")
	assert.Contains(t, string(got), "hi")
	assert.NotContains(t, string(got), ":::")
}

func TestIntegration_RenderFailuresExitCode(t *testing.T) {
	setupProject(t, map[string]string{"docs/a.md": noteDoc})

	// Markdown written next to a Markdown input would replace it.
	_, _, err := execute(t, "", "render", "docs", "--format", "markdown")
	require.ErrorIs(t, err, cli.ErrRenderFailed)
	assert.Equal(t, cli.ExitRenderErrors, cli.ExitCode(err))
}

func TestIntegration_RenderErrors(t *testing.T) {
	setupProject(t, map[string]string{"doc.md": noteDoc})

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"unknown flag", []string{"render", "--bogus"}, cli.ExitInvalidUsage},
		{"invalid format", []string{"render", "doc.md", "--format", "pdf"}, cli.ExitConfigError},
		{"missing path", []string{"render", "missing.md"}, cli.ExitIOError},
		{"missing explicit config", []string{"render", "doc.md", "--config", "nope.yml"}, cli.ExitConfigError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, "", tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.want, cli.ExitCode(err), "error: %v", err)
		})
	}
}

func TestIntegration_Tokens(t *testing.T) {
	setupProject(t, map[string]string{"doc.md": noteDoc})

	stdout, _, err := execute(t, "", "tokens", "doc.md")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "doc.md\n"))
	assert.Contains(t, stdout, `3:1  containerDirective note handled by "note"`)
	assert.Contains(t, stdout, "DirectiveFence")
	assert.Contains(t, stdout, `DirectiveName "note"`)
}

func TestIntegration_TokensJSON(t *testing.T) {
	setupProject(t, map[string]string{"doc.md": "::x[y]\n"})

	stdout, _, err := execute(t, "", "tokens", "doc.md", "--format", "json")
	require.NoError(t, err)

	var got []struct {
		Kind    string `json:"kind"`
		Name    string `json:"name"`
		Outcome string `json:"outcome"`
		Events  []struct {
			Event string `json:"event"`
			Kind  string `json:"kind"`
			Start int    `json:"start"`
			End   int    `json:"end"`
		} `json:"events"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "leafDirective", got[0].Kind)
	assert.Equal(t, "x", got[0].Name)
	assert.Equal(t, "declined", got[0].Outcome)
	require.NotEmpty(t, got[0].Events)
	assert.Equal(t, "enter", got[0].Events[0].Event)
	assert.Equal(t, "DirectiveLeaf", got[0].Events[0].Kind)
	assert.Equal(t, 0, got[0].Events[0].Start)
}

func TestIntegration_TokensUsage(t *testing.T) {
	setupProject(t, nil)

	_, _, err := execute(t, "", "tokens")
	require.ErrorIs(t, err, cli.ErrUsage)

	_, _, err = execute(t, "", "tokens", "missing.md")
	assert.Equal(t, cli.ExitIOError, cli.ExitCode(err))
}

func TestIntegration_Handlers(t *testing.T) {
	setupProject(t, nil)

	stdout, _, err := execute(t, "", "handlers")
	require.NoError(t, err)
	assert.Contains(t, stdout, "NAME")
	assert.Contains(t, stdout, "aside")
	assert.Contains(t, stdout, " 2 handlers")
	assert.Contains(t, stdout, "available types: element, abbr, youtube, code, drop")
}

func TestIntegration_HandlersInvalidConfig(t *testing.T) {
	dir := setupProject(t, nil)
	bad := filepath.Join(dir, "bad.yml")
	require.NoError(t, os.WriteFile(bad, []byte("handlers:\n  note:\n    type: bogus\n"), 0o644))

	_, _, err := execute(t, "", "handlers", "--config", bad)
	require.Error(t, err)
	assert.Equal(t, cli.ExitConfigError, cli.ExitCode(err))
	assert.Contains(t, err.Error(), "bad.yml")
}

func TestIntegration_Init(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	_, stderr, err := execute(t, "", "init")
	require.NoError(t, err)
	assert.Contains(t, stderr, "created configuration file")

	data, err := os.ReadFile(filepath.Join(dir, ".mddirective.yml"))
	require.NoError(t, err)
	cfg, err := config.FromYAML(data)
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.Handlers)

	_, _, err = execute(t, "", "init")
	require.ErrorIs(t, err, cli.ErrUsage)
	assert.Contains(t, err.Error(), "already exists")

	_, _, err = execute(t, "", "init", "--force", "--full", "--output-format", "markdown")
	require.NoError(t, err)
	data, err = os.ReadFile(filepath.Join(dir, ".mddirective.yml"))
	require.NoError(t, err)
	cfg, err = config.FromYAML(data)
	require.NoError(t, err)
	assert.Equal(t, config.FormatMarkdown, cfg.Output.Format)
}

func TestIntegration_InitJSON(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	_, _, err := execute(t, "", "init", "--format", "json", "-o", "custom.json")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "custom.json"))
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "handlers")

	_, _, err = execute(t, "", "init", "--format", "toml")
	require.ErrorIs(t, err, cli.ErrUsage)
}

func TestIntegration_Version(t *testing.T) {
	stdout, _, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "mddirective")
	assert.Contains(t, stdout, "version=1.2.3")
	assert.Contains(t, stdout, "commit=abc123")
}

func TestIntegration_Help(t *testing.T) {
	stdout, _, err := execute(t, "", "--help")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Usage:")
	assert.Contains(t, stdout, "Available Commands:")
	assert.Contains(t, stdout, ":::name[label]{attributes}")

	stdout, _, err = execute(t, "", "render", "--help")
	require.NoError(t, err)
	assert.Contains(t, stdout, "--out-dir")
	assert.Contains(t, stdout, "Global Flags:")
}
