package directive

import "github.com/yaklabco/mddirective/pkg/syntax"

// Outcome tells whether a handler produced output for a directive.
type Outcome uint8

const (
	// Declined leaves the directive to the next handler.
	Declined Outcome = iota
	// Handled stops dispatch.
	Handled
)

func (o Outcome) String() string {
	if o == Handled {
		return "handled"
	}
	return "declined"
}

// Sink is the output surface handlers write to.
type Sink interface {
	// Tag writes markup verbatim.
	Tag(s string)

	// Raw writes already rendered text verbatim.
	Raw(s string)

	// LineEndingIfNeeded writes '\n' unless the output is empty or already
	// ends in a line ending.
	LineEndingIfNeeded()

	// Encode escapes s for use in HTML text or a quoted attribute.
	Encode(s string) string
}

// Handler renders a directive. Returning Declined lets the wildcard handler
// or the default behavior take over; a declining handler must not write.
// Declined is the zero Outcome, so a handler that renders must return
// Handled explicitly.
type Handler func(d *Directive, s Sink) Outcome

// Context is the host state the compiler drives while replaying events.
type Context interface {
	// Buffer starts capturing output.
	Buffer()

	// Resume stops the innermost capture and returns what it caught.
	Resume() string

	// Slice returns the source text under a token.
	Slice(tok syntax.Token) string

	// LineEnding writes a line ending unless one is pending to be slurped.
	LineEnding()

	// Slurp drops the next line ending.
	Slurp()

	// Sink returns the output handlers write to.
	Sink() Sink
}
