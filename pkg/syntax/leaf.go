package syntax

type leafState uint8

const (
	leafStart leafState = iota
	leafSequence
	leafName
	leafAfterName
	leafAfterLabel
	leafAfterAttributes
	leafEnd
)

// leafMachine recognizes '::name[label]{attrs}' filling the rest of a line.
type leafMachine struct {
	state leafState
}

func (m *leafMachine) step(s *Scanner, c Code) status {
	switch m.state {
	case leafStart:
		if c != ':' {
			return statusReject
		}
		s.Enter(KindDirectiveLeaf)
		s.Enter(KindDirectiveSequence)
		s.Consume()
		m.state = leafSequence
		return statusContinue

	case leafSequence:
		if c != ':' {
			return statusReject
		}
		s.Consume()
		s.Exit(KindDirectiveSequence)
		m.state = leafName
		return statusContinue

	case leafName:
		if !s.attempt(&nameMachine{}) {
			return statusReject
		}
		m.state = leafAfterName
		return statusContinue

	case leafAfterName:
		if c == '[' {
			s.attempt(&labelMachine{disallowEOL: true})
		}
		m.state = leafAfterLabel
		return statusContinue

	case leafAfterLabel:
		if c == '{' {
			s.attempt(&attributesMachine{disallowEOL: true})
		}
		m.state = leafAfterAttributes
		return statusContinue

	case leafAfterAttributes:
		s.space(KindWhitespace)
		m.state = leafEnd
		return statusContinue

	case leafEnd:
		if c != EOF && !isLineEnding(c) {
			return statusReject
		}
		s.Exit(KindDirectiveLeaf)
		return statusAccept
	}
	return statusReject
}

// ScanLeaf recognizes a leaf directive starting at source[start]. The line
// ending, if any, is not part of the match.
func ScanLeaf(source []byte, start, limit int) (Match, bool) {
	return scan(source, start, limit, &leafMachine{})
}
