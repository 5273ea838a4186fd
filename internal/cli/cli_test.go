package cli_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/yaklabco/mddirective/internal/cli"
	"github.com/yaklabco/mddirective/internal/configloader"
	"github.com/yaklabco/mddirective/pkg/fsutil"
	"github.com/yaklabco/mddirective/pkg/runner"
)

func testInfo() cli.BuildInfo {
	return cli.BuildInfo{
		Version: "test",
		Commit:  "test",
		Date:    "test",
	}
}

func TestNewRootCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	if cmd == nil {
		t.Fatal("NewRootCommand returned nil")
	}

	if cmd.Use != "mddirective" {
		t.Errorf("expected Use to be 'mddirective', got %q", cmd.Use)
	}

	if cmd.Short == "" {
		t.Error("expected Short description to be set")
	}

	if cmd.Long == "" {
		t.Error("expected Long description to be set")
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	for _, name := range []string{"render", "tokens", "handlers", "init", "version"} {
		subCmd, _, err := cmd.Find([]string{name})
		if err != nil {
			t.Errorf("expected subcommand %q to exist, got error: %v", name, err)
			continue
		}

		if subCmd.Name() != name {
			t.Errorf("expected subcommand name %q, got %q", name, subCmd.Name())
		}
	}
}

func TestRenderCommandFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	renderCmd, _, err := cmd.Find([]string{"render"})
	if err != nil {
		t.Fatalf("render command not found: %v", err)
	}

	expectedFlags := []string{
		"out-dir",
		"ext",
		"format",
		"jobs",
		"exclude",
		"no-gfm",
		"unsafe",
		"follow-symlinks",
		"summary",
		"report",
		"verbose",
	}

	for _, flagName := range expectedFlags {
		if renderCmd.Flags().Lookup(flagName) == nil {
			t.Errorf("expected flag %q to exist on render command", flagName)
		}
	}

	// Unset flags must not override configuration files.
	if got := renderCmd.Flags().Lookup("format").DefValue; got != "" {
		t.Errorf("expected empty default for --format, got %q", got)
	}
}

func TestGlobalFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	for _, flagName := range []string{"debug", "config", "color"} {
		if cmd.PersistentFlags().Lookup(flagName) == nil {
			t.Errorf("expected global flag %q to exist", flagName)
		}
	}
}

func TestRenderCommandAcceptsArbitraryArgs(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	renderCmd, _, err := cmd.Find([]string{"render"})
	if err != nil {
		t.Fatalf("render command not found: %v", err)
	}

	if err := renderCmd.Args(renderCmd, []string{"file1.md", "file2.md", "docs/"}); err != nil {
		t.Errorf("render command should accept arbitrary args, got error: %v", err)
	}
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, cli.ExitSuccess},
		{"render failed", fmt.Errorf("run: %w", cli.ErrRenderFailed), cli.ExitRenderErrors},
		{"usage", fmt.Errorf("%w: bad flag", cli.ErrUsage), cli.ExitInvalidUsage},
		{"unknown command", errors.New(`unknown command "x" for "mddirective"`), cli.ExitInvalidUsage},
		{"config sentinel", fmt.Errorf("%w: boom", cli.ErrConfig), cli.ExitConfigError},
		{"validation error", &configloader.ValidationError{Field: "color", Message: "bad"}, cli.ExitConfigError},
		{"not found", fmt.Errorf("render run: %w", fsutil.ErrNotFound), cli.ExitIOError},
		{"permission", fsutil.ErrPermissionDenied, cli.ExitIOError},
		{"other", errors.New("boom"), cli.ExitInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := cli.ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestExitCodeFromResult(t *testing.T) {
	t.Parallel()

	if got := cli.ExitCodeFromResult(nil); got != cli.ExitSuccess {
		t.Errorf("nil result: got %d", got)
	}

	clean := &runner.Result{Files: []runner.FileOutcome{{Path: "a.md"}}}
	if got := cli.ExitCodeFromResult(clean); got != cli.ExitSuccess {
		t.Errorf("clean result: got %d", got)
	}

	failed := &runner.Result{
		Files: []runner.FileOutcome{{Path: "a.md", Error: errors.New("x")}},
		Stats: runner.Stats{FilesErrored: 1},
	}
	if got := cli.ExitCodeFromResult(failed); got != cli.ExitRenderErrors {
		t.Errorf("failed result: got %d", got)
	}
}
