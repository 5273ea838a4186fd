package syntax

type attributesState uint8

const (
	attributesStart attributesState = iota
	attributesBetween
	attributesShortcutStart
	attributesShortcut
	attributesName
	attributesNameAfter
	attributesValueBefore
	attributesValueUnquoted
	attributesValueQuotedStart
	attributesValueQuotedBetween
	attributesValueQuoted
	attributesValueQuotedAfter
	attributesEnd
)

// shortcutKinds groups the token kinds of one shortcut flavor.
type shortcutKinds struct {
	wrap   Kind
	marker Kind
	value  Kind
}

//nolint:gochecknoglobals // read-only token kinds per shortcut
var (
	idShortcut    = shortcutKinds{KindAttributeID, KindAttributeIDMarker, KindAttributeIDValue}
	classShortcut = shortcutKinds{KindAttributeClass, KindAttributeClassMarker, KindAttributeClassValue}
)

// attributesMachine recognizes a braced attribute list. Any character that
// does not fit the grammar rejects the whole list.
//
// With disallowEOL set only spaces and tabs separate attributes; otherwise
// line endings do too, and quoted values may span lines.
type attributesMachine struct {
	state       attributesState
	disallowEOL bool
	shortcut    shortcutKinds
	marker      Code
}

func (m *attributesMachine) step(s *Scanner, c Code) status {
	switch m.state {
	case attributesStart:
		if c != '{' {
			return statusReject
		}
		s.Enter(KindAttributes)
		s.Enter(KindAttributesMarker)
		s.Consume()
		s.Exit(KindAttributesMarker)
		m.state = attributesBetween
		return statusContinue

	case attributesBetween:
		return m.between(s, c)

	case attributesShortcutStart:
		if c == EOF || c == '"' || c == '#' || c == '\'' || c == '.' || c == '<' ||
			c == '=' || c == '>' || c == '`' || c == '}' || isLineEndingOrSpace(c) {
			return statusReject
		}
		s.Enter(m.shortcut.value)
		s.Consume()
		m.state = attributesShortcut
		return statusContinue

	case attributesShortcut:
		if c == EOF || c == '"' || c == '\'' || c == '<' || c == '=' || c == '>' || c == '`' {
			return statusReject
		}
		if c == '#' || c == '.' || c == '}' || isLineEndingOrSpace(c) {
			s.Exit(m.shortcut.value)
			s.Exit(m.shortcut.wrap)
			s.Exit(KindAttribute)
			m.state = attributesBetween
			return statusContinue
		}
		s.Consume()
		return statusContinue

	case attributesName:
		if c == '-' || c == '.' || c == ':' || c == '_' || isASCIIAlphanumeric(c) {
			s.Consume()
			return statusContinue
		}
		s.Exit(KindAttributeName)
		m.separator(s)
		m.state = attributesNameAfter
		return statusContinue

	case attributesNameAfter:
		if c == '=' {
			s.Enter(KindAttributeInitializerMarker)
			s.Consume()
			s.Exit(KindAttributeInitializerMarker)
			m.state = attributesValueBefore
			return statusContinue
		}
		// Attribute without a value.
		s.Exit(KindAttribute)
		m.state = attributesBetween
		return statusContinue

	case attributesValueBefore:
		return m.valueBefore(s, c)

	case attributesValueUnquoted:
		if c == EOF || c == '"' || c == '\'' || c == '<' || c == '=' || c == '>' || c == '`' {
			return statusReject
		}
		if c == '}' || isLineEndingOrSpace(c) {
			s.Exit(KindAttributeValueData)
			s.Exit(KindAttributeValue)
			s.Exit(KindAttribute)
			m.state = attributesBetween
			return statusContinue
		}
		s.Consume()
		return statusContinue

	case attributesValueQuotedStart:
		if c == m.marker {
			s.Enter(KindAttributeValueMarker)
			s.Consume()
			s.Exit(KindAttributeValueMarker)
			s.Exit(KindAttributeValueLiteral)
			s.Exit(KindAttribute)
			m.state = attributesValueQuotedAfter
			return statusContinue
		}
		s.Enter(KindAttributeValue)
		m.state = attributesValueQuotedBetween
		return statusContinue

	case attributesValueQuotedBetween:
		switch {
		case c == m.marker:
			s.Exit(KindAttributeValue)
			m.state = attributesValueQuotedStart
		case c == EOF:
			return statusReject
		case isLineEnding(c):
			if m.disallowEOL {
				return statusReject
			}
			s.whitespace()
		default:
			s.Enter(KindAttributeValueData)
			s.Consume()
			m.state = attributesValueQuoted
		}
		return statusContinue

	case attributesValueQuoted:
		if c == m.marker || c == EOF || isLineEnding(c) {
			s.Exit(KindAttributeValueData)
			m.state = attributesValueQuotedBetween
			return statusContinue
		}
		s.Consume()
		return statusContinue

	case attributesValueQuotedAfter:
		if c == '}' || isLineEndingOrSpace(c) {
			m.state = attributesBetween
		} else {
			m.state = attributesEnd
		}
		return statusContinue

	case attributesEnd:
		if c != '}' {
			return statusReject
		}
		s.Enter(KindAttributesMarker)
		s.Consume()
		s.Exit(KindAttributesMarker)
		s.Exit(KindAttributes)
		return statusAccept
	}
	return statusReject
}

func (m *attributesMachine) between(s *Scanner, c Code) status {
	switch {
	case c == '#':
		m.startShortcut(s, idShortcut)
	case c == '.':
		m.startShortcut(s, classShortcut)
	case c == ':' || c == '_' || isASCIIAlpha(c):
		s.Enter(KindAttribute)
		s.Enter(KindAttributeName)
		s.Consume()
		m.state = attributesName
	case m.disallowEOL && isSpace(c):
		s.space(KindWhitespace)
	case !m.disallowEOL && isLineEndingOrSpace(c):
		s.whitespace()
	default:
		m.state = attributesEnd
	}
	return statusContinue
}

func (m *attributesMachine) startShortcut(s *Scanner, kinds shortcutKinds) {
	m.shortcut = kinds
	s.Enter(KindAttribute)
	s.Enter(kinds.wrap)
	s.Enter(kinds.marker)
	s.Consume()
	s.Exit(kinds.marker)
	m.state = attributesShortcutStart
}

func (m *attributesMachine) valueBefore(s *Scanner, c Code) status {
	switch {
	case c == EOF || c == '<' || c == '=' || c == '>' || c == '`' || c == '}' ||
		(m.disallowEOL && isLineEnding(c)):
		return statusReject
	case c == '"' || c == '\'':
		s.Enter(KindAttributeValueLiteral)
		s.Enter(KindAttributeValueMarker)
		s.Consume()
		s.Exit(KindAttributeValueMarker)
		m.marker = c
		m.state = attributesValueQuotedStart
	case m.disallowEOL && isSpace(c):
		s.space(KindWhitespace)
	case !m.disallowEOL && isLineEndingOrSpace(c):
		s.whitespace()
	default:
		s.Enter(KindAttributeValue)
		s.Enter(KindAttributeValueData)
		s.Consume()
		m.marker = 0
		m.state = attributesValueUnquoted
	}
	return statusContinue
}

// separator consumes whitespace allowed between a name and '='.
func (m *attributesMachine) separator(s *Scanner) {
	if m.disallowEOL {
		s.space(KindWhitespace)
		return
	}
	s.whitespace()
}
