package runner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"github.com/yaklabco/mddirective/pkg/fsutil"
)

// Discover finds Markdown files matching opts under the given working directory.
// It returns a deterministically sorted list of absolute file paths.
// Hidden files and directories, excluded paths and the output directory are
// skipped while walking; explicitly named files only need a matching
// extension and must not be excluded.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	excludes, err := compileExcludes(opts.ExcludeGlobs)
	if err != nil {
		return nil, err
	}

	w := &walker{
		ctx:        ctx,
		workDir:    workDir,
		extensions: opts.effectiveExtensions(),
		excludes:   excludes,
		follow:     opts.FollowSymlinks,
		visited:    make(map[string]struct{}),
	}
	if opts.OutDir != "" {
		w.outDir = opts.OutDir
		if !filepath.IsAbs(w.outDir) {
			w.outDir = filepath.Join(workDir, w.outDir)
		}
		w.outDir = filepath.Clean(w.outDir)
	}

	seen := make(map[string]struct{})
	var files []string
	add := func(p string) {
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			files = append(files, p)
		}
	}

	for _, inputPath := range opts.effectivePaths() {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("discovery cancelled: %w", ctx.Err())
		default:
		}

		absPath := inputPath
		if !filepath.IsAbs(inputPath) {
			absPath = filepath.Join(workDir, inputPath)
		}
		absPath = filepath.Clean(absPath)

		info, err := os.Stat(absPath)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", fsutil.ErrNotFound, inputPath)
		}
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", inputPath, err)
		}

		if !info.IsDir() {
			if w.matchesFile(absPath) {
				add(absPath)
			}
			continue
		}

		discovered, err := w.walk(absPath)
		if err != nil {
			return nil, err
		}
		for _, f := range discovered {
			add(f)
		}
	}

	sort.Strings(files)

	return files, nil
}

// resolveWorkDir resolves the working directory, defaulting to os.Getwd().
func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	absPath, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return absPath, nil
}

// walker holds the state of one discovery.
type walker struct {
	ctx        context.Context //nolint:containedctx // scoped to a single Discover call
	workDir    string
	outDir     string
	extensions []string
	excludes   []exclude
	follow     bool

	// visited holds the real paths of followed directory symlinks.
	visited map[string]struct{}
}

// walk recursively walks a directory and returns matching Markdown files.
func (w *walker) walk(root string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(p string, entry fs.DirEntry, walkErr error) error {
		select {
		case <-w.ctx.Done():
			return w.ctx.Err()
		default:
		}

		if walkErr != nil {
			// Unreadable directories are skipped.
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		if entry.IsDir() {
			if p == root {
				return nil
			}
			if strings.HasPrefix(entry.Name(), ".") || p == w.outDir || w.excluded(p, true) {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(entry.Name(), ".") {
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			realPath, evalErr := filepath.EvalSymlinks(p)
			if evalErr != nil {
				return nil //nolint:nilerr // broken symlinks are skipped
			}
			info, statErr := os.Stat(realPath)
			if statErr != nil {
				return nil //nolint:nilerr // inaccessible targets are skipped
			}
			if info.IsDir() {
				if !w.follow || w.excluded(p, true) {
					return nil
				}
				if _, ok := w.visited[realPath]; ok {
					return nil
				}
				w.visited[realPath] = struct{}{}
				// WalkDir does not descend into symlinks, so walk the target.
				sub, err := w.walk(realPath)
				if err != nil {
					return err
				}
				files = append(files, sub...)
				return nil
			}
		}

		if w.matchesFile(p) {
			files = append(files, p)
		}
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("walk directory %s: %w", root, err)
	}

	return files, nil
}

// matchesFile checks the extension and the exclude patterns.
func (w *walker) matchesFile(p string) bool {
	return hasMatchingExtension(p, w.extensions) && !w.excluded(p, false)
}

// excluded reports whether p, relative to the working directory, matches
// an exclude pattern.
func (w *walker) excluded(p string, isDir bool) bool {
	if len(w.excludes) == 0 {
		return false
	}
	rel, err := filepath.Rel(w.workDir, p)
	if err != nil {
		rel = p
	}
	rel = filepath.ToSlash(rel)
	for _, ex := range w.excludes {
		if ex.match(rel, isDir) {
			return true
		}
	}
	return false
}

// hasMatchingExtension checks if the file has a matching extension.
func hasMatchingExtension(p string, extensions []string) bool {
	ext := filepath.Ext(p)
	for _, e := range extensions {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}

// exclude is a compiled exclude pattern. "*" stays within one path
// segment and "**" spans segments.
type exclude struct {
	pattern string
	globs   []glob.Glob

	// base is set for patterns without a slash, which also match the
	// last path segment.
	base bool
}

func compileExcludes(patterns []string) ([]exclude, error) {
	out := make([]exclude, 0, len(patterns))
	for _, pattern := range patterns {
		pattern = strings.TrimPrefix(filepath.ToSlash(strings.TrimSpace(pattern)), "./")
		if pattern == "" {
			continue
		}
		ex := exclude{pattern: pattern, base: !strings.Contains(pattern, "/")}

		variants := []string{pattern}
		// "**/x" also matches x at the top level.
		if rest, ok := strings.CutPrefix(pattern, "**/"); ok {
			variants = append(variants, rest)
		}
		// "a/**/b" also matches a/b.
		if strings.Contains(pattern, "/**/") {
			variants = append(variants, strings.ReplaceAll(pattern, "/**/", "/"))
		}
		for _, v := range variants {
			g, err := glob.Compile(v, '/')
			if err != nil {
				return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
			}
			ex.globs = append(ex.globs, g)
		}
		out = append(out, ex)
	}
	return out, nil
}

func (e exclude) match(rel string, isDir bool) bool {
	for _, g := range e.globs {
		if g.Match(rel) {
			return true
		}
		// "dir/**" excludes dir itself.
		if isDir && g.Match(rel+"/") {
			return true
		}
		if e.base && g.Match(path.Base(rel)) {
			return true
		}
	}
	return false
}
