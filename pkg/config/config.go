// Package config defines the configuration types for mddirective.
// These types are pure data structures with no dependency on the loader.
package config

import (
	"errors"
	"fmt"
	"slices"
)

// ErrInvalidHandlerType is returned for a handler whose type is unknown.
var ErrInvalidHandlerType = errors.New("invalid handler type")

// HandlerType selects a built-in directive handler.
type HandlerType string

const (
	HandlerElement HandlerType = "element"
	HandlerAbbr    HandlerType = "abbr"
	HandlerYouTube HandlerType = "youtube"
	HandlerCode    HandlerType = "code"
	HandlerDrop    HandlerType = "drop"
)

// HandlerTypes lists the known handler types.
func HandlerTypes() []HandlerType {
	return []HandlerType{HandlerElement, HandlerAbbr, HandlerYouTube, HandlerCode, HandlerDrop}
}

// IsValid returns true if t names a built-in handler.
func (t HandlerType) IsValid() bool {
	return slices.Contains(HandlerTypes(), t)
}

// HandlerConfig configures the handler bound to one directive name.
type HandlerConfig struct {
	// Type selects the built-in handler.
	Type HandlerType `mapstructure:"type" yaml:"type" json:"type"`

	// Tag is the element rendered by "element" handlers. Empty means the
	// directive name.
	Tag string `mapstructure:"tag" yaml:"tag,omitempty" json:"tag,omitempty"`

	// Class is added to the class attribute of the rendered element.
	Class string `mapstructure:"class" yaml:"class,omitempty" json:"class,omitempty"`

	// Title is used when the directive carries no title of its own.
	Title string `mapstructure:"title" yaml:"title,omitempty" json:"title,omitempty"`
}

// Validate checks the handler bound to name.
func (h HandlerConfig) Validate(name string) error {
	if !h.Type.IsValid() {
		return fmt.Errorf("%w: %q for directive %q", ErrInvalidHandlerType, h.Type, name)
	}
	return nil
}

// OutputFormat specifies what rendered documents are written as.
type OutputFormat string

const (
	FormatHTML     OutputFormat = "html"
	FormatMarkdown OutputFormat = "markdown"
)

// IsValid returns true if the output format is known.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatHTML, FormatMarkdown:
		return true
	default:
		return false
	}
}

// DefaultExtension returns the file extension used for f.
func (f OutputFormat) DefaultExtension() string {
	if f == FormatMarkdown {
		return ".md"
	}
	return ".html"
}

// OutputConfig controls where rendered documents go.
type OutputConfig struct {
	Format OutputFormat `mapstructure:"format" yaml:"format" json:"format"`

	// Dir is the output directory. Empty writes next to each input.
	Dir string `mapstructure:"dir" yaml:"dir,omitempty" json:"dir,omitempty"`

	// Extension replaces the input extension. Empty uses the format's.
	Extension string `mapstructure:"extension" yaml:"extension,omitempty" json:"extension,omitempty"`
}

// ResolvedExtension returns Extension, or the format default when unset.
func (o OutputConfig) ResolvedExtension() string {
	if o.Extension != "" {
		return o.Extension
	}
	return o.Format.DefaultExtension()
}

// RenderConfig controls discovery and the Markdown engine.
type RenderConfig struct {
	// Jobs is the number of parallel workers. 0 means GOMAXPROCS.
	Jobs int `mapstructure:"jobs" yaml:"jobs" json:"jobs"`

	// Extensions are the file extensions rendered when walking directories.
	Extensions []string `mapstructure:"extensions" yaml:"extensions" json:"extensions"`

	// Exclude contains glob patterns for files to skip. '**' spans
	// directories.
	Exclude []string `mapstructure:"exclude" yaml:"exclude,omitempty" json:"exclude,omitempty"`

	// Pointers tell "unset" from "false" when layers are merged.
	GFM            *bool `mapstructure:"gfm" yaml:"gfm,omitempty" json:"gfm,omitempty"`
	Unsafe         *bool `mapstructure:"unsafe" yaml:"unsafe,omitempty" json:"unsafe,omitempty"`
	FollowSymlinks *bool `mapstructure:"follow_symlinks" yaml:"follow_symlinks,omitempty" json:"follow_symlinks,omitempty"`
}

// GFMEnabled reports whether GitHub Flavored Markdown is on. Default true.
func (r RenderConfig) GFMEnabled() bool {
	return r.GFM == nil || *r.GFM
}

// UnsafeEnabled reports whether raw HTML passes through. Default false.
func (r RenderConfig) UnsafeEnabled() bool {
	return r.Unsafe != nil && *r.Unsafe
}

// FollowSymlinksEnabled reports whether discovery follows symlinks.
func (r RenderConfig) FollowSymlinksEnabled() bool {
	return r.FollowSymlinks != nil && *r.FollowSymlinks
}

// ColorMode controls terminal styling.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// IsValid returns true if the color mode is known.
func (c ColorMode) IsValid() bool {
	switch c {
	case ColorAuto, ColorAlways, ColorNever:
		return true
	default:
		return false
	}
}

// Config is the root configuration structure for mddirective.
type Config struct {
	// Handlers binds directive names to built-in handlers. The name "*"
	// binds the fallback handler.
	Handlers map[string]HandlerConfig `mapstructure:"handlers" yaml:"handlers" json:"handlers"`

	Output OutputConfig `mapstructure:"output" yaml:"output" json:"output"`
	Render RenderConfig `mapstructure:"render" yaml:"render" json:"render"`
	Color  ColorMode    `mapstructure:"color" yaml:"color" json:"color"`

	// CLI-level options (not persisted to config files).

	// Summary prints a run summary after rendering.
	Summary bool `mapstructure:"-" yaml:"-" json:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	gfm := true
	return &Config{
		Handlers: make(map[string]HandlerConfig),
		Output: OutputConfig{
			Format: FormatHTML,
		},
		Render: RenderConfig{
			Jobs:       0,
			Extensions: []string{".md", ".markdown"},
			GFM:        &gfm,
		},
		Color: ColorAuto,
	}
}

// Bool returns a pointer to b, for filling the optional render switches.
func Bool(b bool) *bool {
	return &b
}
