package directive

import (
	"errors"
	"fmt"
	"io"

	"github.com/yaklabco/mddirective/pkg/syntax"
)

var (
	// ErrUnnamedDirective is returned when a directive reaches dispatch
	// without a name. Recognized input never produces one.
	ErrUnnamedDirective = errors.New("directive has no name")

	// ErrNoDirective is returned for an event that must occur inside a
	// directive but arrived with none open.
	ErrNoDirective = errors.New("event outside of a directive")
)

type step func(c *Compiler, ctx Context, tok syntax.Token) error

//nolint:gochecknoglobals // read-only dispatch tables
var (
	enterSteps = map[syntax.Kind]step{
		syntax.KindDirectiveText:      (*Compiler).enterDirective,
		syntax.KindDirectiveLeaf:      (*Compiler).enterDirective,
		syntax.KindDirectiveContainer: (*Compiler).enterDirective,
		syntax.KindLabel:              (*Compiler).enterBuffer,
		syntax.KindAttributes:         (*Compiler).enterAttributes,
		syntax.KindDirectiveContent:   (*Compiler).enterBuffer,
	}

	exitSteps = map[syntax.Kind]step{
		syntax.KindDirectiveText:       (*Compiler).exitDirective,
		syntax.KindDirectiveLeaf:       (*Compiler).exitDirective,
		syntax.KindDirectiveContainer:  (*Compiler).exitDirective,
		syntax.KindDirectiveName:       (*Compiler).exitName,
		syntax.KindLabel:               (*Compiler).exitLabel,
		syntax.KindAttributeIDValue:    (*Compiler).exitIDValue,
		syntax.KindAttributeClassValue: (*Compiler).exitClassValue,
		syntax.KindAttributeName:       (*Compiler).exitAttributeName,
		syntax.KindAttributeValue:      (*Compiler).exitAttributeValue,
		syntax.KindAttributes:          (*Compiler).exitAttributes,
		syntax.KindDirectiveContent:    (*Compiler).exitContent,
		syntax.KindChunkDocument:       (*Compiler).exitChunk,
		syntax.KindDirectiveFence:      (*Compiler).exitFence,
		syntax.KindLineEnding:          (*Compiler).exitLineEnding,
	}
)

// Dispatch records how the most recent directive was dispatched.
type Dispatch struct {
	Directive *Directive
	Outcome   Outcome

	// Handler is the registry name that handled the directive.
	Handler string
}

// Compiler builds directives from event streams and dispatches them. Open
// directives form a stack, so events of a nested directive may arrive while
// its parent is still open. A Compiler is not safe for concurrent use.
type Compiler struct {
	handlers *Handlers
	stack    []*Directive
	scopes   [][]Attribute
	last     Dispatch
}

// NewCompiler returns a compiler dispatching to h, which may be nil.
func NewCompiler(h *Handlers) *Compiler {
	return &Compiler{handlers: h}
}

// Handle applies one event.
func (c *Compiler) Handle(ctx Context, ev syntax.Event) error {
	table := enterSteps
	if ev.Type == syntax.Exit {
		table = exitSteps
	}
	fn, ok := table[ev.Token.Kind]
	if !ok {
		return nil
	}
	return fn(c, ctx, ev.Token)
}

// Compile applies a whole event stream.
func (c *Compiler) Compile(ctx Context, events []syntax.Event) error {
	for _, ev := range events {
		if err := c.Handle(ctx, ev); err != nil {
			return err
		}
	}
	return nil
}

// Depth returns the number of open directives.
func (c *Compiler) Depth() int {
	return len(c.stack)
}

// LastDispatch returns the record of the most recently closed directive.
func (c *Compiler) LastDispatch() Dispatch {
	return c.last
}

func (c *Compiler) current() (*Directive, error) {
	if len(c.stack) == 0 {
		return nil, ErrNoDirective
	}
	return c.stack[len(c.stack)-1], nil
}

func (c *Compiler) enterDirective(_ Context, tok syntax.Token) error {
	kind, _ := KindOf(tok.Kind)
	c.stack = append(c.stack, &Directive{Kind: kind})
	return nil
}

func (c *Compiler) enterBuffer(ctx Context, _ syntax.Token) error {
	ctx.Buffer()
	return nil
}

func (c *Compiler) exitName(ctx Context, tok syntax.Token) error {
	d, err := c.current()
	if err != nil {
		return err
	}
	d.Name = ctx.Slice(tok)
	return nil
}

func (c *Compiler) exitLabel(ctx Context, _ syntax.Token) error {
	label := ctx.Resume()
	d, err := c.current()
	if err != nil {
		return err
	}
	d.Label = label
	d.HasLabel = true
	return nil
}

func (c *Compiler) enterAttributes(ctx Context, _ syntax.Token) error {
	ctx.Buffer()
	c.scopes = append(c.scopes, nil)
	return nil
}

func (c *Compiler) addAttribute(key, value string) error {
	if len(c.scopes) == 0 {
		return fmt.Errorf("%w: attribute %q", ErrNoDirective, key)
	}
	top := len(c.scopes) - 1
	c.scopes[top] = append(c.scopes[top], Attribute{Key: key, Value: value})
	return nil
}

func (c *Compiler) exitIDValue(ctx Context, tok syntax.Token) error {
	return c.addAttribute("id", decode(ctx.Slice(tok)))
}

func (c *Compiler) exitClassValue(ctx Context, tok syntax.Token) error {
	return c.addAttribute("class", decode(ctx.Slice(tok)))
}

func (c *Compiler) exitAttributeName(ctx Context, tok syntax.Token) error {
	return c.addAttribute(ctx.Slice(tok), "")
}

func (c *Compiler) exitAttributeValue(ctx Context, tok syntax.Token) error {
	if len(c.scopes) == 0 || len(c.scopes[len(c.scopes)-1]) == 0 {
		return fmt.Errorf("%w: attribute value", ErrNoDirective)
	}
	scope := c.scopes[len(c.scopes)-1]
	scope[len(scope)-1].Value = decode(normalizeValue(ctx.Slice(tok)))
	return nil
}

func (c *Compiler) exitAttributes(ctx Context, _ syntax.Token) error {
	ctx.Resume()
	if len(c.scopes) == 0 {
		return fmt.Errorf("%w: attribute list", ErrNoDirective)
	}
	scope := c.scopes[len(c.scopes)-1]
	c.scopes = c.scopes[:len(c.scopes)-1]

	d, err := c.current()
	if err != nil {
		return err
	}
	attrs := NewAttributes()
	for _, a := range scope {
		attrs.Merge(a.Key, a.Value)
	}
	d.Attributes = attrs
	return nil
}

func (c *Compiler) exitContent(ctx Context, _ syntax.Token) error {
	content := ctx.Resume()
	d, err := c.current()
	if err != nil {
		return err
	}
	d.Content = content
	d.HasContent = true
	return nil
}

func (c *Compiler) exitChunk(ctx Context, tok syntax.Token) error {
	d, err := c.current()
	if err != nil {
		return err
	}
	d.Source += ctx.Slice(tok)
	return nil
}

func (c *Compiler) exitFence(ctx Context, _ syntax.Token) error {
	d, err := c.current()
	if err != nil {
		return err
	}
	d.fences++
	if d.fences == 1 {
		ctx.Slurp()
	}
	return nil
}

func (c *Compiler) exitLineEnding(ctx Context, _ syntax.Token) error {
	ctx.LineEnding()
	return nil
}

func (c *Compiler) exitDirective(ctx Context, _ syntax.Token) error {
	d, err := c.current()
	if err != nil {
		return err
	}
	c.stack = c.stack[:len(c.stack)-1]

	if d.Name == "" {
		return ErrUnnamedDirective
	}

	outcome, name := c.handlers.Dispatch(d, ctx.Sink())
	c.last = Dispatch{Directive: d, Outcome: outcome, Handler: name}
	if outcome == Declined && d.Kind != Text {
		ctx.Slurp()
	}
	return nil
}

// Resolve compiles a single directive without handlers. The label and the
// content are taken verbatim from source.
func Resolve(source []byte, events []syntax.Event) (*Directive, error) {
	ctx := NewBuffers(source, io.Discard)
	c := NewCompiler(nil)
	for _, ev := range events {
		if ev.Type == syntax.Exit &&
			(ev.Token.Kind == syntax.KindLabelString || ev.Token.Kind == syntax.KindChunkDocument) {
			ctx.Raw(ctx.Slice(ev.Token))
		}
		if err := c.Handle(ctx, ev); err != nil {
			return nil, err
		}
	}
	if c.last.Directive == nil {
		return nil, ErrNoDirective
	}
	return c.last.Directive, nil
}
