package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/yaklabco/mddirective/internal/logging"
	"github.com/yaklabco/mddirective/pkg/config"
	"github.com/yaklabco/mddirective/pkg/reporter"
	"github.com/yaklabco/mddirective/pkg/runner"
)

const (
	// stdinArg names standard input on the command line.
	stdinArg = "-"

	// stdinPath is the display path of standard input.
	stdinPath = "<stdin>"
)

type renderFlags struct {
	outDir  string
	ext     string
	format  string
	jobs    int
	exclude []string
	noGFM   bool
	unsafe  bool
	follow  bool
	summary bool
	report  string
	verbose bool
}

func newRenderCommand() *cobra.Command {
	flags := &renderFlags{}

	cmd := &cobra.Command{
		Use:   "render [paths...]",
		Short: "Render Markdown files with directives",
		Long:  renderLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.outDir, "out-dir", "o", "", "directory for rendered files (default: next to each input)")
	cmd.Flags().StringVar(&flags.ext, "ext", "", "extension of rendered files (default: .html, or .md for markdown)")
	cmd.Flags().StringVar(&flags.format, "format", "", "output format: html, markdown")
	cmd.Flags().IntVarP(&flags.jobs, "jobs", "j", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&flags.exclude, "exclude", nil, "glob patterns to skip; ** spans directories")
	cmd.Flags().BoolVar(&flags.noGFM, "no-gfm", false, "parse plain CommonMark without GitHub extensions")
	cmd.Flags().BoolVar(&flags.unsafe, "unsafe", false, "pass raw HTML through to the output")
	cmd.Flags().BoolVar(&flags.follow, "follow-symlinks", false, "follow symbolic links to directories")
	cmd.Flags().BoolVar(&flags.summary, "summary", false, "print a per-file table and a run summary (same as --report table)")
	cmd.Flags().StringVar(&flags.report, "report", "", "report format: text, table, json, summary")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "list handled directives in reports, not only unhandled ones")

	return cmd
}

const renderLongDescription = `Render Markdown files, expanding :text, ::leaf and :::container directives
with the handlers bound in the configuration.

Directories are walked for .md and .markdown files. A single file without
--out-dir is rendered to standard output; with no paths, standard input is
read. Otherwise each input is written next to itself, or under --out-dir
keeping its relative path. Outputs whose content did not change are left
untouched.

Reports go to standard error, except --report json, which goes to
standard output unless rendered documents do.

Examples:
  mddirective render README.md              # Render to stdout
  cat doc.md | mddirective render           # Render stdin to stdout
  mddirective render docs/ -o site          # Render a tree into site/
  mddirective render docs/ --format markdown -o out
  mddirective render . --exclude 'vendor/**' --summary
  mddirective render docs/ -o site --report json > report.json`

// toConfig returns the explicitly set flags as a configuration layer.
func (f *renderFlags) toConfig(cmd *cobra.Command) *config.Config {
	cfg := &config.Config{}
	changed := cmd.Flags().Changed

	if changed("out-dir") {
		cfg.Output.Dir = f.outDir
	}
	if changed("ext") {
		cfg.Output.Extension = f.ext
	}
	if changed("format") {
		cfg.Output.Format = config.OutputFormat(f.format)
	}
	if changed("jobs") {
		cfg.Render.Jobs = f.jobs
	}
	if changed("exclude") {
		cfg.Render.Exclude = f.exclude
	}
	if changed("no-gfm") {
		cfg.Render.GFM = config.Bool(!f.noGFM)
	}
	if changed("unsafe") {
		cfg.Render.Unsafe = config.Bool(f.unsafe)
	}
	if changed("follow-symlinks") {
		cfg.Render.FollowSymlinks = config.Bool(f.follow)
	}
	cfg.Summary = f.summary
	return cfg
}

func runRender(cmd *cobra.Command, args []string, flags *renderFlags) error {
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	cfg, err := loadConfig(ctx, cmd, flags.toConfig(cmd))
	if err != nil {
		return err
	}
	format, explicit, err := flags.reportFormat(cmd, cfg)
	if err != nil {
		return err
	}
	engine, _, err := newEngine(cfg)
	if err != nil {
		return err
	}
	renderRunner := runner.New(engine)

	logger.Debug("configuration loaded",
		logging.FieldFlavor, engine.Flavor(),
		logging.FieldFormat, cfg.Output.Format,
		logging.FieldReport, format,
		logging.FieldJobs, cfg.Render.Jobs,
		logging.FieldOutDir, cfg.Output.Dir,
	)

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	var result *runner.Result
	toStdout := true
	if readsStdin(cmd.InOrStdin(), args) {
		result, err = renderStdin(ctx, cmd, renderRunner, cfg)
	} else {
		opts := runner.OptionsFromConfig(cfg, args)
		opts.WorkingDir = workDir
		toStdout = opts.OutDir == "" && isSingleFile(args)
		if toStdout {
			opts.Stdout = cmd.OutOrStdout()
		}
		result, err = renderRunner.Run(ctx, opts)
		if err != nil {
			err = fmt.Errorf("render run: %w", err)
		}
	}
	if err != nil {
		return err
	}

	// Documents on stdout get no trailer unless a report was requested.
	if toStdout && !explicit {
		logOutcomes(ctx, result)
	} else if err := report(ctx, cmd, result, reporter.Options{
		Format:      format,
		Color:       string(cfg.Color),
		ShowContext: true,
		ShowSummary: true,
		Verbose:     flags.verbose,
		WorkingDir:  workDir,
	}, toStdout); err != nil {
		return err
	}

	if ExitCodeFromResult(result) != ExitSuccess {
		return ErrRenderFailed
	}
	return nil
}

// reportFormat resolves --report and --summary. explicit is set when the
// user asked for a report.
func (f *renderFlags) reportFormat(cmd *cobra.Command, cfg *config.Config) (reporter.Format, bool, error) {
	if cmd.Flags().Changed("report") {
		format, err := reporter.ParseFormat(f.report)
		if err != nil {
			return "", false, fmt.Errorf("%w: %w", ErrUsage, err)
		}
		return format, true, nil
	}
	if cfg.Summary {
		return reporter.FormatTable, true, nil
	}
	return reporter.FormatText, false, nil
}

func renderStdin(ctx context.Context, cmd *cobra.Command, renderRunner *runner.Runner, cfg *config.Config) (*runner.Result, error) {
	outcome, err := renderRunner.RenderReader(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), cfg.Output.Format)
	if err != nil {
		return nil, fmt.Errorf("render stdin: %w", err)
	}
	return &runner.Result{
		Files: []runner.FileOutcome{outcome},
		Stats: runner.Stats{
			FilesDiscovered: 1,
			FilesRendered:   1,
			Directives:      outcome.Directives,
			BytesIn:         int64(outcome.BytesIn),
			BytesOut:        int64(outcome.BytesOut),
		},
	}, nil
}

// logOutcomes reports failures and unhandled directives through the logger
// when no report is written.
func logOutcomes(ctx context.Context, result *runner.Result) {
	logger := logging.FromContext(ctx)
	for _, file := range result.Files {
		path := file.Path
		if path == "" {
			path = stdinPath
		}
		switch {
		case file.Error != nil:
			logger.Error("render failed", logging.FieldPath, path, logging.FieldError, file.Error)
		case file.Directives.Unhandled > 0:
			logger.Warn("unhandled directives",
				logging.FieldPath, path,
				logging.FieldUnhandled, file.Directives.Unhandled,
			)
		}
	}
}

// report writes the run report. JSON goes to stdout when stdout is free
// of rendered documents; everything else goes to stderr.
func report(ctx context.Context, cmd *cobra.Command, result *runner.Result, opts reporter.Options, toStdout bool) error {
	opts.Writer = cmd.ErrOrStderr()
	if opts.Format.IsMachineReadable() && !toStdout {
		opts.Writer = cmd.OutOrStdout()
	}
	rep, err := reporter.New(opts)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if _, err := rep.Report(ctx, result); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// readsStdin reports whether input comes from in: when the only path is
// "-", or when no paths are given and in is not a terminal.
func readsStdin(in io.Reader, args []string) bool {
	if len(args) == 1 && args[0] == stdinArg {
		return true
	}
	if len(args) > 0 {
		return false
	}
	f, ok := in.(*os.File)
	if !ok {
		return true
	}
	return !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd())
}

func isSingleFile(args []string) bool {
	if len(args) != 1 {
		return false
	}
	info, err := os.Stat(args[0])
	return err == nil && info.Mode().IsRegular()
}
