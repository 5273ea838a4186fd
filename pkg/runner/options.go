// Package runner renders many Markdown files concurrently.
package runner

import (
	"io"

	"github.com/yaklabco/mddirective/pkg/config"
)

// Options controls a batch render.
type Options struct {
	// Paths are the user-specified paths (files or directories) to process.
	// If empty, defaults to the current working directory.
	Paths []string

	// WorkingDir is the base directory used to resolve relative Paths and
	// OutDir. If empty, the current process working directory is used.
	WorkingDir string

	// Extensions is the set of file extensions (lowercase, with leading dot)
	// considered Markdown. Defaults to [".md", ".markdown"] via DefaultExtensions().
	Extensions []string

	// ExcludeGlobs are glob patterns used to skip files or directories,
	// relative to WorkingDir. "**" matches across directories.
	ExcludeGlobs []string

	// FollowSymlinks controls whether directory symlinks are traversed.
	FollowSymlinks bool

	// Jobs controls the maximum number of concurrent workers.
	// 0 or negative means "auto" (runtime.NumCPU()).
	Jobs int

	// Format selects HTML or Markdown output. Empty means HTML.
	Format config.OutputFormat

	// OutDir receives the rendered files, mirroring their path relative to
	// WorkingDir. Empty writes each output next to its input.
	OutDir string

	// OutExt is the output file extension. Empty means the default for Format.
	OutExt string

	// Stdout, when set, receives every rendered document in discovery order
	// instead of output files.
	Stdout io.Writer
}

// DefaultExtensions returns the default set of Markdown file extensions.
func DefaultExtensions() []string {
	return []string{".md", ".markdown"}
}

// OptionsFromConfig builds options for paths from the resolved configuration.
func OptionsFromConfig(cfg *config.Config, paths []string) Options {
	opts := Options{Paths: paths}
	if cfg == nil {
		return opts
	}
	opts.Extensions = append([]string(nil), cfg.Render.Extensions...)
	opts.ExcludeGlobs = append([]string(nil), cfg.Render.Exclude...)
	opts.FollowSymlinks = cfg.Render.FollowSymlinksEnabled()
	opts.Jobs = cfg.Render.Jobs
	opts.Format = cfg.Output.Format
	opts.OutDir = cfg.Output.Dir
	opts.OutExt = cfg.Output.Extension
	return opts
}

// effectiveExtensions returns the extensions to use, defaulting if empty.
func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions()
	}
	return o.Extensions
}

// effectivePaths returns the paths to process, defaulting to "." if empty.
func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}

// effectiveFormat returns the output format, defaulting to HTML.
func (o Options) effectiveFormat() config.OutputFormat {
	if o.Format == "" {
		return config.FormatHTML
	}
	return o.Format
}

// effectiveExtension returns the output extension with a leading dot.
func (o Options) effectiveExtension() string {
	return config.OutputConfig{Format: o.effectiveFormat(), Extension: o.OutExt}.ResolvedExtension()
}
