package directive

import (
	"bytes"
	"io"

	"github.com/yuin/goldmark/util"

	"github.com/yaklabco/mddirective/pkg/syntax"
)

const noByte = -1

// Buffers is an in-memory Context. Output goes to the innermost capture
// buffer, or to the base writer when nothing is being captured.
//
// Redirect swaps the base writer for a nested render pass; captures opened
// before the swap are not visible until it is undone.
type Buffers struct {
	source []byte
	base   io.Writer
	last   int
	stack  []*bytes.Buffer
	floor  int
	slurp  bool
	err    error
}

var _ Context = (*Buffers)(nil)

// NewBuffers returns a context over source writing to w.
func NewBuffers(source []byte, w io.Writer) *Buffers {
	return &Buffers{source: source, base: w, last: noByte}
}

// Buffer starts a capture.
func (b *Buffers) Buffer() {
	b.stack = append(b.stack, &bytes.Buffer{})
}

// Resume ends the innermost capture.
func (b *Buffers) Resume() string {
	if len(b.stack) <= b.floor {
		return ""
	}
	top := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	return top.String()
}

// Slice returns the source under tok.
func (b *Buffers) Slice(tok syntax.Token) string {
	return string(tok.Text(b.source))
}

// LineEnding writes '\n' unless a slurp is pending, which it consumes.
func (b *Buffers) LineEnding() {
	if b.slurp {
		b.slurp = false
		return
	}
	b.write("\n")
}

// Slurp drops the next line ending.
func (b *Buffers) Slurp() {
	b.slurp = true
}

// TakeSlurp reports whether a slurp was pending and clears it.
func (b *Buffers) TakeSlurp() bool {
	s := b.slurp
	b.slurp = false
	return s
}

// Sink returns b.
func (b *Buffers) Sink() Sink {
	return b
}

// Writer returns the current output target.
func (b *Buffers) Writer() io.Writer {
	if len(b.stack) > b.floor {
		return b.stack[len(b.stack)-1]
	}
	return b.base
}

// Redirect makes w the base writer until the returned function is called.
func (b *Buffers) Redirect(w io.Writer) (restore func()) {
	base, last, floor := b.base, b.last, b.floor
	b.base, b.last, b.floor = w, noByte, len(b.stack)
	return func() {
		b.base, b.last, b.floor = base, last, floor
	}
}

// Err returns the first write error.
func (b *Buffers) Err() error {
	return b.err
}

// Tag writes markup.
func (b *Buffers) Tag(s string) {
	b.write(s)
}

// Raw writes rendered text.
func (b *Buffers) Raw(s string) {
	b.write(s)
}

// Encode escapes s for HTML.
func (b *Buffers) Encode(s string) string {
	return string(util.EscapeHTML([]byte(s)))
}

// LineEndingIfNeeded writes '\n' after output that does not end in one.
func (b *Buffers) LineEndingIfNeeded() {
	last := b.lastByte()
	if last == noByte || last == '\n' || last == '\r' {
		return
	}
	b.write("\n")
}

func (b *Buffers) lastByte() int {
	if len(b.stack) > b.floor {
		top := b.stack[len(b.stack)-1].Bytes()
		if len(top) == 0 {
			return noByte
		}
		return int(top[len(top)-1])
	}
	return b.last
}

func (b *Buffers) write(s string) {
	if s == "" {
		return
	}
	if len(b.stack) > b.floor {
		b.stack[len(b.stack)-1].WriteString(s)
		return
	}
	if b.err != nil {
		return
	}
	if _, err := io.WriteString(b.base, s); err != nil {
		b.err = err
		return
	}
	b.last = int(s[len(s)-1])
}
