package syntax

type nameState uint8

const (
	nameStart nameState = iota
	nameInside
)

// nameMachine recognizes a directive identifier: an ASCII letter followed by
// letters, digits, '-' or '_', not ending in '-' or '_'.
type nameMachine struct {
	state    nameState
	previous Code
}

func (m *nameMachine) step(s *Scanner, c Code) status {
	switch m.state {
	case nameStart:
		if !isASCIIAlpha(c) {
			return statusReject
		}
		s.Enter(KindDirectiveName)
		s.Consume()
		m.previous = c
		m.state = nameInside
		return statusContinue

	case nameInside:
		if c == '-' || c == '_' || isASCIIAlphanumeric(c) {
			s.Consume()
			m.previous = c
			return statusContinue
		}
		// The trailing byte was consumed speculatively; re-check it here.
		if m.previous == '-' || m.previous == '_' {
			return statusReject
		}
		s.Exit(KindDirectiveName)
		return statusAccept
	}
	return statusReject
}

// IsName reports whether s is exactly one directive name.
func IsName(s string) bool {
	src := []byte(s)
	sc := NewScanner(src, 0, len(src))
	return sc.attempt(&nameMachine{}) && sc.Pos() == len(src)
}
