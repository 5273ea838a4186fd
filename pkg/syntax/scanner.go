package syntax

// status is the outcome of one state transition.
type status uint8

const (
	statusContinue status = iota
	statusAccept
	statusReject
)

// machine is a tokenizer state machine. step inspects the current code,
// performs its effects on the scanner (enter, exit, consume, attempt) and
// reports whether the construct is still running, accepted, or rejected.
// Every step either consumes input or moves the machine to another state.
type machine interface {
	step(s *Scanner, c Code) status
}

// Scanner is the cursor and event buffer shared by the machines of one scan.
type Scanner struct {
	source []byte
	pos    int
	limit  int
	events []Event
	open   []int
}

// NewScanner returns a scanner over source[start:limit]. Positions reported
// in tokens are absolute offsets into source.
func NewScanner(source []byte, start, limit int) *Scanner {
	if limit > len(source) || limit < 0 {
		limit = len(source)
	}
	if start > limit {
		start = limit
	}
	return &Scanner{
		source: source,
		pos:    start,
		limit:  limit,
	}
}

// Pos returns the absolute cursor offset.
func (s *Scanner) Pos() int {
	return s.pos
}

// Current returns the byte under the cursor, or EOF at the limit.
func (s *Scanner) Current() Code {
	if s.pos >= s.limit {
		return EOF
	}
	return Code(s.source[s.pos])
}

// Consume advances the cursor past the current byte.
func (s *Scanner) Consume() {
	if s.pos < s.limit {
		s.pos++
	}
}

// Enter opens a token of the given kind at the cursor.
func (s *Scanner) Enter(kind Kind) {
	s.open = append(s.open, len(s.events))
	s.events = append(s.events, Event{
		Type:  Enter,
		Token: Token{Kind: kind, StartOffset: s.pos, EndOffset: s.pos},
	})
}

// Exit closes the innermost open token at the cursor. The kind must match
// the one passed to the corresponding Enter.
func (s *Scanner) Exit(kind Kind) {
	if len(s.open) == 0 {
		panic("syntax: exit " + kind.String() + " with no open token")
	}
	idx := s.open[len(s.open)-1]
	if got := s.events[idx].Token.Kind; got != kind {
		panic("syntax: exit " + kind.String() + " does not match open " + got.String())
	}
	s.open = s.open[:len(s.open)-1]
	s.events[idx].Token.EndOffset = s.pos
	s.events = append(s.events, Event{Type: Exit, Token: s.events[idx].Token})
}

// Events returns the committed events.
func (s *Scanner) Events() []Event {
	return s.events
}

type checkpoint struct {
	pos    int
	events int
	open   int
}

func (s *Scanner) mark() checkpoint {
	return checkpoint{pos: s.pos, events: len(s.events), open: len(s.open)}
}

func (s *Scanner) rewind(cp checkpoint) {
	s.pos = cp.pos
	s.events = s.events[:cp.events]
	s.open = s.open[:cp.open]
}

// attempt runs m from the current position. On accept its effects stay in
// place; on reject the scanner is restored to where the attempt started.
func (s *Scanner) attempt(m machine) bool {
	cp := s.mark()
	for {
		switch m.step(s, s.Current()) {
		case statusContinue:
			continue
		case statusAccept:
			return true
		case statusReject:
			s.rewind(cp)
			return false
		}
	}
}

// space consumes a run of spaces and tabs as one token of the given kind.
// It reports whether anything was consumed.
func (s *Scanner) space(kind Kind) bool {
	if !isSpace(s.Current()) {
		return false
	}
	s.Enter(kind)
	for isSpace(s.Current()) {
		s.Consume()
	}
	s.Exit(kind)
	return true
}

// lineEnding consumes '\n', '\r', or '\r\n' as one token.
func (s *Scanner) lineEnding() bool {
	c := s.Current()
	if !isLineEnding(c) {
		return false
	}
	s.Enter(KindLineEnding)
	s.Consume()
	if c == '\r' && s.Current() == '\n' {
		s.Consume()
	}
	s.Exit(KindLineEnding)
	return true
}

// whitespace consumes any mix of spaces, tabs, and line endings.
func (s *Scanner) whitespace() bool {
	seen := false
	for {
		switch {
		case s.space(KindWhitespace):
		case s.lineEnding():
		default:
			return seen
		}
		seen = true
	}
}
