package syntax

type labelState uint8

const (
	labelStart labelState = iota
	labelAfterStart
	labelData
	labelEscape
)

// labelMachine recognizes a bracketed label. Unescaped brackets nest up to
// labelBalanceMax deep; '\[', '\]' and '\\' are escapes that never count.
// The label string is left for the host's inline engine.
type labelMachine struct {
	state       labelState
	disallowEOL bool
	size        int
	balance     int
}

func (m *labelMachine) step(s *Scanner, c Code) status {
	switch m.state {
	case labelStart:
		if c != '[' {
			return statusReject
		}
		s.Enter(KindLabel)
		s.Enter(KindLabelMarker)
		s.Consume()
		s.Exit(KindLabelMarker)
		m.state = labelAfterStart
		return statusContinue

	case labelAfterStart:
		s.Enter(KindLabelString)
		if c == ']' {
			return m.close(s)
		}
		m.state = labelData
		return statusContinue

	case labelData:
		if c == EOF || m.size > labelSizeMax {
			return statusReject
		}
		switch {
		case c == '[':
			m.balance++
			if m.balance > labelBalanceMax {
				return statusReject
			}
		case c == ']':
			if m.balance == 0 {
				return m.close(s)
			}
			m.balance--
		case isLineEnding(c):
			if m.disallowEOL {
				return statusReject
			}
		case c == '\\':
			m.state = labelEscape
		}
		s.Consume()
		m.size++
		return statusContinue

	case labelEscape:
		if c == '[' || c == '\\' || c == ']' {
			s.Consume()
			m.size++
		}
		m.state = labelData
		return statusContinue
	}
	return statusReject
}

func (m *labelMachine) close(s *Scanner) status {
	s.Exit(KindLabelString)
	s.Enter(KindLabelMarker)
	s.Consume()
	s.Exit(KindLabelMarker)
	s.Exit(KindLabel)
	return statusAccept
}
