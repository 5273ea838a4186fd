package goldmark

import (
	"github.com/yuin/goldmark/ast"

	"github.com/yaklabco/mddirective/pkg/directive"
	"github.com/yaklabco/mddirective/pkg/syntax"
)

// Node kinds of the directive AST nodes.
//
//nolint:gochecknoglobals // goldmark node kinds are registered once
var (
	KindTextDirective      = ast.NewNodeKind("TextDirective")
	KindLeafDirective      = ast.NewNodeKind("LeafDirective")
	KindContainerDirective = ast.NewNodeKind("ContainerDirective")
	KindDirectiveLabel     = ast.NewNodeKind("DirectiveLabel")
)

// Node is implemented by the three directive nodes.
type Node interface {
	ast.Node

	// DirectiveKind returns the form the directive was written in.
	DirectiveKind() directive.Kind

	// Name returns the directive name.
	Name() string

	// Events returns the directive's own event stream. Nested directives
	// are separate nodes with their own streams.
	Events() []syntax.Event

	// Outcome reports how the directive was dispatched. rendered is false
	// until the node went through the renderer.
	Outcome() (outcome directive.Outcome, handler string, rendered bool)

	state() *record
}

// record is the state shared by all directive nodes.
type record struct {
	kind     directive.Kind
	name     string
	events   []syntax.Event
	rendered bool
	outcome  directive.Outcome
	handler  string
	session  *session
}

func newRecord(kind directive.Kind, events []syntax.Event, source []byte) record {
	r := record{kind: kind, events: events}
	for _, ev := range events {
		if ev.Type == syntax.Enter && ev.Token.Kind == syntax.KindDirectiveName {
			r.name = string(ev.Token.Text(source))
			break
		}
	}
	return r
}

func (r *record) DirectiveKind() directive.Kind { return r.kind }

func (r *record) Name() string { return r.name }

func (r *record) Events() []syntax.Event { return r.events }

func (r *record) Outcome() (directive.Outcome, string, bool) {
	return r.outcome, r.handler, r.rendered
}

func (r *record) state() *record { return r }

func (r *record) dump(n ast.Node, source []byte, level int) {
	kv := map[string]string{"Name": r.name}
	if r.rendered {
		kv["Outcome"] = r.outcome.String()
	}
	ast.DumpHelper(n, source, level, kv, nil)
}

// TextDirective is an inline ':name[label]{attrs}'. Its children are the
// parsed label.
type TextDirective struct {
	ast.BaseInline
	record
}

// Kind implements ast.Node.
func (n *TextDirective) Kind() ast.NodeKind { return KindTextDirective }

// Dump implements ast.Node.
func (n *TextDirective) Dump(source []byte, level int) { n.dump(n, source, level) }

// LeafDirective is a '::name[label]{attrs}' line. Its lines hold the label,
// which goldmark parses into its children.
type LeafDirective struct {
	ast.BaseBlock
	record
}

// Kind implements ast.Node.
func (n *LeafDirective) Kind() ast.NodeKind { return KindLeafDirective }

// Dump implements ast.Node.
func (n *LeafDirective) Dump(source []byte, level int) { n.dump(n, source, level) }

// ContainerDirective is a fenced ':::name' block. A label, when present, is
// the first child as a DirectiveLabel; the remaining children are content.
type ContainerDirective struct {
	ast.BaseBlock
	record

	container *syntax.Container
	// line is the last source line the container accepted.
	line int
}

// Kind implements ast.Node.
func (n *ContainerDirective) Kind() ast.NodeKind { return KindContainerDirective }

// Dump implements ast.Node.
func (n *ContainerDirective) Dump(source []byte, level int) { n.dump(n, source, level) }

// Events returns the container's stream, complete once the block closed.
func (n *ContainerDirective) Events() []syntax.Event { return n.container.Events() }

// Document returns the content lines.
func (n *ContainerDirective) Document() *syntax.ChunkDocument { return &n.container.Document }

// Label returns the label block, or nil.
func (n *ContainerDirective) Label() *DirectiveLabel {
	l, _ := n.FirstChild().(*DirectiveLabel)
	return l
}

// DirectiveLabel holds a container label as an inline-parsed block.
type DirectiveLabel struct {
	ast.BaseBlock
}

// Kind implements ast.Node.
func (n *DirectiveLabel) Kind() ast.NodeKind { return KindDirectiveLabel }

// Dump implements ast.Node.
func (n *DirectiveLabel) Dump(source []byte, level int) { ast.DumpHelper(n, source, level, nil, nil) }

var (
	_ Node = (*TextDirective)(nil)
	_ Node = (*LeafDirective)(nil)
	_ Node = (*ContainerDirective)(nil)
)

// labelChildren returns the nodes rendered as the label.
func labelChildren(n Node) []ast.Node {
	parent := ast.Node(n)
	if c, ok := n.(*ContainerDirective); ok {
		label := c.Label()
		if label == nil {
			return nil
		}
		parent = label
	}
	var out []ast.Node
	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		out = append(out, child)
	}
	return out
}

// contentChildren returns the content blocks of a container.
func contentChildren(n Node) []ast.Node {
	c, ok := n.(*ContainerDirective)
	if !ok {
		return nil
	}
	var out []ast.Node
	for child := c.FirstChild(); child != nil; child = child.NextSibling() {
		if child.Kind() != KindDirectiveLabel {
			out = append(out, child)
		}
	}
	return out
}
