package syntax

type textState uint8

const (
	textStart textState = iota
	textName
	textAfterName
	textAfterLabel
	textAfterAttributes
)

// textMachine recognizes ':name[label]{attrs}' inside a line.
type textMachine struct {
	state textState
}

func (m *textMachine) step(s *Scanner, c Code) status {
	switch m.state {
	case textStart:
		if c != ':' {
			return statusReject
		}
		s.Enter(KindDirectiveText)
		s.Enter(KindDirectiveMarker)
		s.Consume()
		s.Exit(KindDirectiveMarker)
		m.state = textName
		return statusContinue

	case textName:
		if !s.attempt(&nameMachine{}) {
			return statusReject
		}
		m.state = textAfterName
		return statusContinue

	case textAfterName:
		// ':name:' is a shortcode, not a directive.
		if c == ':' {
			return statusReject
		}
		if c == '[' {
			s.attempt(&labelMachine{disallowEOL: true})
		}
		m.state = textAfterLabel
		return statusContinue

	case textAfterLabel:
		if c == '{' {
			s.attempt(&attributesMachine{disallowEOL: true})
		}
		m.state = textAfterAttributes
		return statusContinue

	case textAfterAttributes:
		s.Exit(KindDirectiveText)
		return statusAccept
	}
	return statusReject
}

// Match is one recognized construct.
type Match struct {
	// Events is the construct's well-nested event stream.
	Events []Event

	// Start and End delimit the bytes the construct consumed.
	Start int
	End   int
}

// Find returns the first token of the given kind.
func (m Match) Find(kind Kind) (Token, bool) {
	for _, ev := range m.Events {
		if ev.Type == Enter && ev.Token.Kind == kind {
			return ev.Token, true
		}
	}
	return Token{}, false
}

// TextAllowed reports whether a text directive may start at pos. A colon
// directly before pos blocks it unless that colon is itself escaped.
func TextAllowed(source []byte, pos int) bool {
	if pos <= 0 || pos > len(source) || source[pos-1] != ':' {
		return true
	}
	backslashes := 0
	for i := pos - 2; i >= 0 && source[i] == '\\'; i-- {
		backslashes++
	}
	return backslashes%2 == 1
}

// ScanText recognizes a text directive starting at source[start], which
// must be ':'. Nothing past limit is read.
func ScanText(source []byte, start, limit int) (Match, bool) {
	return scan(source, start, limit, &textMachine{})
}

func scan(source []byte, start, limit int, m machine) (Match, bool) {
	s := NewScanner(source, start, limit)
	if !s.attempt(m) {
		return Match{}, false
	}
	return Match{Events: s.Events(), Start: start, End: s.Pos()}, true
}
