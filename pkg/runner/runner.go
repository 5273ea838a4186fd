package runner

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/yaklabco/mddirective/internal/logging"
	"github.com/yaklabco/mddirective/pkg/config"
	"github.com/yaklabco/mddirective/pkg/fsutil"
	"github.com/yaklabco/mddirective/pkg/mdsource"
	mdgoldmark "github.com/yaklabco/mddirective/pkg/parser/goldmark"
)

// Runner renders files with a directive-aware Markdown engine.
type Runner struct {
	// Engine parses and renders each document. It is shared by all workers.
	Engine *mdgoldmark.Engine
}

// New creates a new Runner with the given engine.
func New(engine *mdgoldmark.Engine) *Runner {
	return &Runner{Engine: engine}
}

// Run discovers files under opts.Paths and renders them concurrently.
// Outcomes are ordered by path regardless of completion order. Per-file
// failures are recorded on their outcome; the returned error is reserved
// for discovery failures, cancellation and Stdout write errors.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	logger := logging.FromContext(ctx)

	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}
	opts.WorkingDir = workDir
	if opts.OutDir != "" && !filepath.IsAbs(opts.OutDir) {
		opts.OutDir = filepath.Join(workDir, opts.OutDir)
	}

	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Files: make([]FileOutcome, 0, len(files)),
	}
	result.Stats.FilesDiscovered = len(files)

	if len(files) == 0 {
		return result, nil
	}

	// Determine job count.
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	// Don't use more workers than files.
	if jobs > len(files) {
		jobs = len(files)
	}

	logger.Debug("rendering",
		logging.FieldFilesDiscovered, len(files),
		logging.FieldJobs, jobs,
		logging.FieldFormat, opts.effectiveFormat(),
		logging.FieldOutDir, opts.OutDir)

	// Create channels.
	workCh := make(chan string)
	outCh := make(chan FileOutcome)

	var wg sync.WaitGroup

	// Start workers.
	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.worker(ctx, workCh, outCh, opts)
		}()
	}

	// Feed work in a separate goroutine.
	go func() {
		defer close(workCh)
		for _, path := range files {
			select {
			case <-ctx.Done():
				return
			case workCh <- path:
			}
		}
	}()

	// Close outCh when all workers are done.
	go func() {
		wg.Wait()
		close(outCh)
	}()

	// Workers may complete out of order.
	outcomes := make(map[string]FileOutcome, len(files))

	for outcome := range outCh {
		outcomes[outcome.Path] = outcome
	}

	// Build result in deterministic order.
	for _, path := range files {
		if outcome, ok := outcomes[path]; ok {
			result.accumulate(outcome)
		}
	}

	// Check for context error.
	if ctx.Err() != nil {
		return result, fmt.Errorf("run cancelled: %w", ctx.Err())
	}

	if opts.Stdout != nil {
		for _, outcome := range result.Files {
			if outcome.Error != nil {
				continue
			}
			if _, err := opts.Stdout.Write(outcome.Output); err != nil {
				return result, fmt.Errorf("write output: %w", err)
			}
		}
	}

	logger.Debug("render complete",
		logging.FieldFilesRendered, result.Stats.FilesRendered,
		logging.FieldFilesWritten, result.Stats.FilesWritten,
		logging.FieldFilesUnchanged, result.Stats.FilesUnchanged,
		logging.FieldFilesErrored, result.Stats.FilesErrored,
		logging.FieldDirectives, result.Stats.Directives.Total())

	return result, nil
}

// RenderReader renders a single document read from in and writes it to out.
// It is the stdin path of the command line.
func (r *Runner) RenderReader(ctx context.Context, in io.Reader, out io.Writer, format config.OutputFormat) (FileOutcome, error) {
	var outcome FileOutcome

	content, _, err := fsutil.ReadAll(ctx, in)
	if err != nil {
		return outcome, err
	}

	rendered, doc, err := r.render(ctx, "", content, format)
	if err != nil {
		return outcome, err
	}
	outcome.Output = rendered
	outcome.Directives = doc.Stats()
	outcome.Snapshot = mdsource.New(doc.Path, doc.Content)
	outcome.Usages = usagesOf(doc, outcome.Snapshot)
	outcome.BytesIn = len(content)
	outcome.BytesOut = len(rendered)

	if _, err := out.Write(rendered); err != nil {
		return outcome, fmt.Errorf("write output: %w", err)
	}
	return outcome, nil
}

// worker processes files from workCh and sends outcomes to outCh.
func (r *Runner) worker(
	ctx context.Context,
	workCh <-chan string,
	outCh chan<- FileOutcome,
	opts Options,
) {
	for path := range workCh {
		select {
		case <-ctx.Done():
			return
		default:
		}

		outcome := r.renderFile(ctx, path, opts)

		select {
		case <-ctx.Done():
			return
		case outCh <- outcome:
		}
	}
}

// renderFile reads, renders and writes one file.
func (r *Runner) renderFile(ctx context.Context, path string, opts Options) FileOutcome {
	outcome := FileOutcome{Path: path}

	content, _, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		outcome.Error = err
		return outcome
	}
	outcome.BytesIn = len(content)

	rendered, doc, err := r.render(ctx, path, content, opts.effectiveFormat())
	if err != nil {
		outcome.Error = err
		return outcome
	}
	stats := doc.Stats()
	outcome.Directives = stats
	outcome.Snapshot = mdsource.New(doc.Path, doc.Content)
	outcome.Usages = usagesOf(doc, outcome.Snapshot)
	outcome.BytesOut = len(rendered)

	if opts.Stdout != nil {
		outcome.Output = rendered
		return outcome
	}

	target, err := fsutil.OutputPath(path, opts.WorkingDir, opts.OutDir, opts.effectiveExtension())
	if err != nil {
		outcome.Error = err
		return outcome
	}
	outcome.Target = target

	written, err := fsutil.WriteAtomicIfChanged(ctx, target, rendered, fsutil.DefaultFileMode)
	if err != nil {
		outcome.Error = fmt.Errorf("write %s: %w", target, err)
		return outcome
	}
	outcome.Written = written
	outcome.Unchanged = !written

	logging.FromContext(ctx).Debug("rendered",
		logging.FieldPath, path,
		logging.FieldOutput, target,
		logging.FieldDirectives, stats.Total(),
		logging.FieldHandled, stats.Handled,
		logging.FieldUnhandled, stats.Unhandled)

	return outcome
}

// render converts content and, for Markdown output, turns the HTML back
// into Markdown.
func (r *Runner) render(
	ctx context.Context,
	path string,
	content []byte,
	format config.OutputFormat,
) ([]byte, *mdgoldmark.Document, error) {
	out, doc, err := r.Engine.Convert(ctx, path, content)
	if err != nil {
		return nil, nil, fmt.Errorf("render %s: %w", displayName(path), err)
	}

	if format == config.FormatMarkdown {
		out, err = mdgoldmark.ToMarkdown(out)
		if err != nil {
			return nil, nil, fmt.Errorf("render %s: %w", displayName(path), err)
		}
	}
	return out, doc, nil
}

func displayName(path string) string {
	if path == "" {
		return "<stdin>"
	}
	return path
}

// usagesOf lists the directives of a rendered document with their source
// spans.
func usagesOf(doc *mdgoldmark.Document, snap *mdsource.Snapshot) []Usage {
	if len(doc.Directives) == 0 {
		return nil
	}
	usages := make([]Usage, 0, len(doc.Directives))
	for _, node := range doc.Directives {
		outcome, handler, rendered := node.Outcome()
		usage := Usage{
			Kind:     node.DirectiveKind(),
			Name:     node.Name(),
			Handler:  handler,
			Outcome:  outcome,
			Rendered: rendered,
		}
		if events := node.Events(); len(events) > 0 {
			usage.Span = snap.SpanOf(events[0].Token.StartOffset, events[len(events)-1].Token.EndOffset)
		}
		usages = append(usages, usage)
	}
	return usages
}
