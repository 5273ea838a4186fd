package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// commentWrapWidth is the maximum width for wrapped comments in templates.
const commentWrapWidth = 70

// TemplateFormat is the file format of a generated template.
type TemplateFormat string

const (
	TemplateYAML TemplateFormat = "yaml"
	TemplateJSON TemplateFormat = "json"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full documents every handler type. If false, a minimal template is
	// generated.
	Full bool

	// Format is the output format, yaml by default.
	Format TemplateFormat

	// OutputFormat preselects output.format. Empty means html.
	OutputFormat OutputFormat
}

// handlerDocs documents the built-in handler types, in template order.
//
//nolint:gochecknoglobals // read-only lookup table
var handlerDocs = []struct {
	typ     HandlerType
	example string
	sample  HandlerConfig
	doc     string
}{
	{
		HandlerElement, "note", HandlerConfig{Type: HandlerElement, Tag: "aside", Class: "note"},
		"Renders the directive as an HTML element. The label or the container content becomes the element body; attributes are copied. tag defaults to the directive name and class is added to the element's classes.",
	},
	{
		HandlerAbbr, "abbr", HandlerConfig{Type: HandlerAbbr},
		"Text directives only: :abbr[HTML]{title=\"HyperText Markup Language\"} renders an <abbr>. title is used when the directive has none.",
	},
	{
		HandlerYouTube, "youtube", HandlerConfig{Type: HandlerYouTube, Title: "Video"},
		"Embeds a video: ::youtube[Title]{v=VIDEO_ID}. Directives without v are left unhandled.",
	},
	{
		HandlerCode, "code", HandlerConfig{Type: HandlerCode},
		"Container directives only: renders the raw content in <pre><code>. The language comes from the lang attribute, the file attribute, or is detected from the content.",
	},
	{
		HandlerDrop, "todo", HandlerConfig{Type: HandlerDrop},
		"Renders nothing. Use it to strip private notes from published output.",
	},
}

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	format := opts.OutputFormat
	if format == "" {
		format = FormatHTML
	}
	if opts.Format == TemplateJSON {
		return templateToJSON(opts.Full, format)
	}

	var buf bytes.Buffer
	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString("\n\n")

	buf.WriteString("# Directive handlers, keyed by directive name. \"*\" handles every\n")
	buf.WriteString("# directive no other handler took.\n")
	buf.WriteString("handlers:\n")
	if opts.Full {
		for _, h := range handlerDocs {
			fmt.Fprintf(&buf, "\n  # %s: %s\n", h.typ, wrapComment(h.doc, commentWrapWidth))
			writeHandler(&buf, h.example, h.sample)
		}
	} else {
		writeHandler(&buf, "note", handlerDocs[0].sample)
		buf.WriteString("  # abbr:\n  #   type: abbr\n")
	}

	fmt.Fprintf(&buf, `
# Output: html or markdown. markdown converts the rendered HTML back to
# portable Markdown.
output:
  format: %s
  # dir: site
  # extension: %s

render:
  # Number of parallel workers (0 = auto)
  jobs: 0
  extensions:
    - .md
    - .markdown
  # exclude:
  #   - "vendor/**"
  gfm: true
  # unsafe: false
  # follow_symlinks: false

# Terminal colors: auto, always or never
color: auto
`, format, format.DefaultExtension())

	return buf.Bytes(), nil
}

func writeHandler(buf *bytes.Buffer, name string, h HandlerConfig) {
	fmt.Fprintf(buf, "  %s:\n    type: %s\n", name, h.Type)
	if h.Tag != "" {
		fmt.Fprintf(buf, "    tag: %s\n", h.Tag)
	}
	if h.Class != "" {
		fmt.Fprintf(buf, "    class: %s\n", h.Class)
	}
	if h.Title != "" {
		fmt.Fprintf(buf, "    title: %s\n", h.Title)
	}
}

// templateToJSON renders the template as JSON. JSON has no comments, so the
// documentation is dropped.
func templateToJSON(full bool, format OutputFormat) ([]byte, error) {
	cfg := NewConfig()
	cfg.Output.Format = format
	if full {
		for _, h := range handlerDocs {
			cfg.Handlers[h.example] = h.sample
		}
	} else {
		cfg.Handlers[handlerDocs[0].example] = handlerDocs[0].sample
	}

	jsonBytes, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal JSON: %w", err)
	}
	return append(jsonBytes, '\n'), nil
}

// wrapComment wraps a comment to fit within maxWidth characters.
func wrapComment(text string, maxWidth int) string {
	if len(text) <= maxWidth {
		return text
	}

	var lines []string
	currentLine := ""
	for _, word := range strings.Fields(text) {
		switch {
		case currentLine == "":
			currentLine = word
		case len(currentLine)+1+len(word) <= maxWidth:
			currentLine += " " + word
		default:
			lines = append(lines, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}
	return strings.Join(lines, "\n  # ")
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# mddirective configuration
# See: https://github.com/yaklabco/mddirective`
}
