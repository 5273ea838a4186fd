package goldmark

import (
	"fmt"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"

	"github.com/yaklabco/mddirective/pkg/directive"
	"github.com/yaklabco/mddirective/pkg/syntax"
)

// HTMLRenderer renders directive nodes by replaying their events through a
// directive.Compiler. Labels and container content are rendered by the host
// renderer into the compiler's capture buffers.
type HTMLRenderer struct {
	handlers *directive.Handlers
	host     renderer.Renderer
}

// NewHTMLRenderer returns a renderer dispatching to h. host renders label and
// content nodes; it is normally the renderer the HTMLRenderer is added to.
func NewHTMLRenderer(h *directive.Handlers, host renderer.Renderer) *HTMLRenderer {
	return &HTMLRenderer{handlers: h, host: host}
}

// RegisterFuncs implements renderer.NodeRenderer.
func (r *HTMLRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindTextDirective, r.renderDirective)
	reg.Register(KindLeafDirective, r.renderDirective)
	reg.Register(KindContainerDirective, r.renderDirective)
	reg.Register(KindDirectiveLabel, r.renderLabel)
}

// session is the compile state of one outermost directive and everything
// nested in it.
type session struct {
	source   []byte
	ctx      *directive.Buffers
	compiler *directive.Compiler
	host     renderer.Renderer
}

// enclosingSession finds the session of the outermost directive around n.
func enclosingSession(n ast.Node) *session {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if d, ok := p.(Node); ok && d.state().session != nil {
			return d.state().session
		}
	}
	return nil
}

func (r *HTMLRenderer) renderDirective(
	w util.BufWriter, source []byte, node ast.Node, entering bool,
) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n, ok := node.(Node)
	if !ok {
		return ast.WalkContinue, nil
	}

	s := enclosingSession(node)
	if s == nil {
		s = &session{
			source:   source,
			ctx:      directive.NewBuffers(source, w),
			compiler: directive.NewCompiler(r.handlers),
			host:     r.host,
		}
		st := n.state()
		st.session = s
		defer func() { st.session = nil }()
	} else {
		restore := s.ctx.Redirect(w)
		defer restore()
	}

	if err := s.replay(n); err != nil {
		return ast.WalkStop, err
	}
	if n.DirectiveKind() != directive.Text && !s.ctx.TakeSlurp() {
		s.ctx.LineEndingIfNeeded()
	}
	if err := s.ctx.Err(); err != nil {
		return ast.WalkStop, fmt.Errorf("writing directive %q: %w", n.Name(), err)
	}
	return ast.WalkSkipChildren, nil
}

// renderLabel skips container labels; the container renders them itself.
func (r *HTMLRenderer) renderLabel(util.BufWriter, []byte, ast.Node, bool) (ast.WalkStatus, error) {
	return ast.WalkSkipChildren, nil
}

// replay feeds n's events to the compiler. The label and content nodes are
// rendered right before the event that closes them, so their output lands
// in the capture buffer the compiler opened.
func (s *session) replay(n Node) error {
	for _, ev := range n.Events() {
		if ev.Type == syntax.Exit {
			var nodes []ast.Node
			switch ev.Token.Kind {
			case syntax.KindLabelString:
				nodes = labelChildren(n)
			case syntax.KindDirectiveContent:
				nodes = contentChildren(n)
			}
			for _, c := range nodes {
				if err := s.host.Render(s.ctx.Writer(), s.source, c); err != nil {
					return err
				}
			}
		}
		if err := s.compiler.Handle(s.ctx, ev); err != nil {
			return fmt.Errorf("compiling directive %q: %w", n.Name(), err)
		}
	}

	last := s.compiler.LastDispatch()
	st := n.state()
	st.rendered = true
	st.outcome = last.Outcome
	st.handler = last.Handler
	return nil
}
