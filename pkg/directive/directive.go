// Package directive turns the event stream of a recognized directive into a
// Directive record and hands it to user handlers.
package directive

import "github.com/yaklabco/mddirective/pkg/syntax"

// Kind is the form a directive was written in.
type Kind uint8

const (
	// Text is an inline ':name' directive.
	Text Kind = iota
	// Leaf is a '::name' directive filling one line.
	Leaf
	// Container is a fenced ':::name' directive with block content.
	Container
)

func (k Kind) String() string {
	switch k {
	case Text:
		return "textDirective"
	case Leaf:
		return "leafDirective"
	case Container:
		return "containerDirective"
	default:
		return "unknownDirective"
	}
}

// KindOf maps a directive token kind to its directive kind.
func KindOf(k syntax.Kind) (Kind, bool) {
	switch k {
	case syntax.KindDirectiveText:
		return Text, true
	case syntax.KindDirectiveLeaf:
		return Leaf, true
	case syntax.KindDirectiveContainer:
		return Container, true
	default:
		return 0, false
	}
}

// Directive is one compiled directive as handlers see it.
type Directive struct {
	Kind Kind

	// Name is never empty once the directive is dispatched.
	Name string

	// Label is the rendered label. HasLabel distinguishes '[]' from no label.
	Label    string
	HasLabel bool

	// Attributes is nil when the directive had no attribute list.
	Attributes *Attributes

	// Content is the rendered inner content of a container.
	Content    string
	HasContent bool

	// Source is the raw inner source of a container.
	Source string

	fences int
}

// Attr returns the value of an attribute, or "" when absent.
func (d *Directive) Attr(key string) string {
	if d.Attributes == nil {
		return ""
	}
	v, _ := d.Attributes.Get(key)
	return v
}
