// Package goldmark plugs generic directives into the goldmark Markdown engine.
package goldmark

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/mddirective/internal/logging"
	"github.com/yaklabco/mddirective/pkg/directive"
)

// Flavor identifies the Markdown flavor the engine parses.
const (
	FlavorCommonMark = "commonmark"
	FlavorGFM        = "gfm"
)

// ErrNilDocument is returned when rendering a nil or unparsed document.
var ErrNilDocument = errors.New("nil document")

// Engine parses and renders Markdown with directives. It is safe for
// concurrent use; per-document state lives on the parsed AST.
type Engine struct {
	handlers *directive.Handlers
	gfm      bool
	unsafe   bool
	md       goldmark.Markdown
}

// Option configures an Engine.
type Option func(*Engine)

// WithHandlers sets the directive handlers. Without handlers every directive
// renders nothing.
func WithHandlers(h *directive.Handlers) Option {
	return func(e *Engine) {
		e.handlers = h
	}
}

// WithGFM enables the GitHub Flavored Markdown extensions.
func WithGFM(enabled bool) Option {
	return func(e *Engine) {
		e.gfm = enabled
	}
}

// WithUnsafeHTML lets raw HTML and dangerous links through the renderer.
func WithUnsafeHTML(enabled bool) Option {
	return func(e *Engine) {
		e.unsafe = enabled
	}
}

// New creates an engine. The default is CommonMark with no handlers.
func New(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	e.md = e.newGoldmarkInstance()
	return e
}

// Flavor returns the configured Markdown flavor.
func (e *Engine) Flavor() string {
	if e.gfm {
		return FlavorGFM
	}
	return FlavorCommonMark
}

// Handlers returns the handlers the engine dispatches to.
func (e *Engine) Handlers() *directive.Handlers {
	return e.handlers
}

// Markdown returns the underlying goldmark instance.
//
//nolint:ireturn // goldmark.Markdown is an external interface type
func (e *Engine) Markdown() goldmark.Markdown {
	return e.md
}

// Parse builds the goldmark AST of content and collects its directives.
// The content is copied; later changes to the caller's slice do not leak into
// the document.
func (e *Engine) Parse(ctx context.Context, path string, content []byte) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	doc := &Document{
		Path:    path,
		Content: copyContent(content),
	}
	reader := text.NewReader(doc.Content)
	doc.Root = e.md.Parser().Parse(reader, parser.WithContext(parser.NewContext()))

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	doc.Directives = collectDirectives(doc.Root)

	logging.FromContext(ctx).Debug("parsed document",
		logging.FieldPath, path,
		logging.FieldFlavor, e.Flavor(),
		logging.FieldDirectives, len(doc.Directives),
	)
	return doc, nil
}

// Render writes the HTML of doc to w and records each directive's outcome on
// its node.
func (e *Engine) Render(ctx context.Context, doc *Document, w io.Writer) error {
	if doc == nil || doc.Root == nil {
		return ErrNilDocument
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("render cancelled: %w", err)
	}
	if err := e.md.Renderer().Render(w, doc.Content, doc.Root); err != nil {
		return fmt.Errorf("rendering %s: %w", displayPath(doc.Path), err)
	}

	stats := doc.Stats()
	logging.FromContext(ctx).Debug("rendered document",
		logging.FieldPath, doc.Path,
		logging.FieldHandled, stats.Handled,
		logging.FieldUnhandled, stats.Unhandled,
	)
	return nil
}

// Convert parses and renders content in one step.
func (e *Engine) Convert(ctx context.Context, path string, content []byte) ([]byte, *Document, error) {
	doc, err := e.Parse(ctx, path, content)
	if err != nil {
		return nil, nil, err
	}
	var buf bytes.Buffer
	if err := e.Render(ctx, doc, &buf); err != nil {
		return nil, doc, err
	}
	return buf.Bytes(), doc, nil
}

// Document is a parsed Markdown file.
type Document struct {
	Path    string
	Content []byte
	Root    ast.Node

	// Directives lists the directive nodes in document order, outer
	// directives before the ones nested in them.
	Directives []Node
}

// Stats counts the document's directives. Handled and Unhandled stay zero
// until the document was rendered.
func (d *Document) Stats() Stats {
	var s Stats
	if d == nil {
		return s
	}
	for _, n := range d.Directives {
		s.count(n)
	}
	return s
}

// Stats holds per-kind directive counts and dispatch results.
type Stats struct {
	Text      int
	Leaf      int
	Container int
	Handled   int
	Unhandled int
}

// Total returns the number of directives.
func (s Stats) Total() int {
	return s.Text + s.Leaf + s.Container
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.Text += o.Text
	s.Leaf += o.Leaf
	s.Container += o.Container
	s.Handled += o.Handled
	s.Unhandled += o.Unhandled
}

func (s *Stats) count(n Node) {
	switch n.DirectiveKind() {
	case directive.Text:
		s.Text++
	case directive.Leaf:
		s.Leaf++
	case directive.Container:
		s.Container++
	}
	outcome, _, rendered := n.Outcome()
	if !rendered {
		return
	}
	if outcome == directive.Handled {
		s.Handled++
	} else {
		s.Unhandled++
	}
}

func collectDirectives(root ast.Node) []Node {
	var out []Node
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if d, ok := n.(Node); ok {
			out = append(out, d)
		}
		return ast.WalkContinue, nil
	})
	return out
}

// newGoldmarkInstance creates the configured goldmark.Markdown instance.
//
//nolint:ireturn // goldmark.Markdown is an external interface type
func (e *Engine) newGoldmarkInstance() goldmark.Markdown {
	opts := []goldmark.Option{
		goldmark.WithExtensions(NewDirective(e.handlers)),
	}
	if e.gfm {
		opts = append(opts, goldmark.WithExtensions(extension.GFM))
	}
	if e.unsafe {
		opts = append(opts, goldmark.WithRendererOptions(html.WithUnsafe()))
	}
	return goldmark.New(opts...)
}

func displayPath(path string) string {
	if path == "" {
		return "<stdin>"
	}
	return path
}

// copyContent creates a copy of the content slice to ensure immutability.
func copyContent(content []byte) []byte {
	if content == nil {
		return nil
	}
	cp := make([]byte, len(content))
	copy(cp, content)
	return cp
}
