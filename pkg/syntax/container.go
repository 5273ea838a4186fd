package syntax

type openState uint8

const (
	openStart openState = iota
	openSequence
	openName
	openAfterName
	openAfterLabel
	openAfterAttributes
	openFenceEnd
)

// openMachine recognizes the opening fence line of a container.
type openMachine struct {
	state openState
	size  int
}

func (m *openMachine) step(s *Scanner, c Code) status {
	switch m.state {
	case openStart:
		if c != ':' {
			return statusReject
		}
		s.Enter(KindDirectiveFence)
		s.Enter(KindDirectiveSequence)
		m.state = openSequence
		return statusContinue

	case openSequence:
		if c == ':' {
			s.Consume()
			m.size++
			return statusContinue
		}
		if m.size < fenceSizeMin {
			return statusReject
		}
		s.Exit(KindDirectiveSequence)
		m.state = openName
		return statusContinue

	case openName:
		if !s.attempt(&nameMachine{}) {
			return statusReject
		}
		m.state = openAfterName
		return statusContinue

	case openAfterName:
		if c == '[' {
			s.attempt(&labelMachine{disallowEOL: true})
		}
		m.state = openAfterLabel
		return statusContinue

	case openAfterLabel:
		if c == '{' {
			s.attempt(&attributesMachine{disallowEOL: false})
		}
		m.state = openAfterAttributes
		return statusContinue

	case openAfterAttributes:
		s.space(KindWhitespace)
		m.state = openFenceEnd
		return statusContinue

	case openFenceEnd:
		if c != EOF && !isLineEnding(c) {
			return statusReject
		}
		s.Exit(KindDirectiveFence)
		s.lineEnding()
		return statusAccept
	}
	return statusReject
}

type closingState uint8

const (
	closingPrefix closingState = iota
	closingSequence
	closingAfterSequence
	closingEnd
)

// closingMachine recognizes a closing fence: at most three columns of
// indentation, at least sizeOpen colons, then only spaces or tabs.
type closingMachine struct {
	state    closingState
	sizeOpen int
	size     int
	column   int
	padding  int
}

func (m *closingMachine) step(s *Scanner, c Code) status {
	switch m.state {
	case closingPrefix:
		width := m.padding
		col := m.column
		for i := s.Pos(); i < s.limit && isSpace(Code(s.source[i])); i++ {
			next := advanceColumn(col, s.source[i])
			width += next - col
			col = next
		}
		if width > closingIndentMax {
			return statusReject
		}
		s.space(KindLinePrefix)
		s.Enter(KindDirectiveFence)
		s.Enter(KindDirectiveSequence)
		m.state = closingSequence
		return statusContinue

	case closingSequence:
		if c == ':' {
			s.Consume()
			m.size++
			return statusContinue
		}
		if m.size < m.sizeOpen {
			return statusReject
		}
		s.Exit(KindDirectiveSequence)
		m.state = closingAfterSequence
		return statusContinue

	case closingAfterSequence:
		s.space(KindWhitespace)
		m.state = closingEnd
		return statusContinue

	case closingEnd:
		if c != EOF && !isLineEnding(c) {
			return statusReject
		}
		s.Exit(KindDirectiveFence)
		return statusAccept
	}
	return statusReject
}

// Container is an open or finished container directive. The host feeds it
// content lines one at a time through ScanLine until a line closes it or
// the input ends.
type Container struct {
	// SizeOpen is the number of colons in the opening fence.
	SizeOpen int

	// Document collects the content lines.
	Document ChunkDocument

	events  []Event
	content int
	openEnd int
	closed  bool
}

// OpenContainer recognizes a container's opening line at source[start].
// indent is the column width of the indentation before start; that much is
// stripped from every content line. The attribute list may continue onto
// following lines, so nothing past limit is read but the opening may span
// several lines.
// An opening line that ends the input without a line ending finishes the
// container at once.
func OpenContainer(source []byte, start, limit, indent int) (*Container, bool) {
	s := NewScanner(source, start, limit)
	s.Enter(KindDirectiveContainer)
	m := &openMachine{}
	if !s.attempt(m) {
		return nil, false
	}

	c := &Container{
		SizeOpen: m.size,
		Document: ChunkDocument{Indent: indent},
		events:   s.Events(),
		content:  -1,
		openEnd:  s.Pos(),
	}
	if s.Current() == EOF && !endsWithLineEnding(source, s.Pos()) {
		c.Finish(s.Pos())
	}
	return c, true
}

func endsWithLineEnding(source []byte, pos int) bool {
	return pos > 0 && pos <= len(source) && isLineEnding(Code(source[pos-1]))
}

// OpenEnd returns the offset just past the opening line.
func (c *Container) OpenEnd() int {
	return c.openEnd
}

// Closed reports whether the container has finished.
func (c *Container) Closed() bool {
	return c.closed
}

// Events returns the container's event stream. It is well-nested once the
// container has finished.
func (c *Container) Events() []Event {
	return c.events
}

// LineResult describes how ScanLine handled one line.
type LineResult struct {
	// Closed is set when the line was the closing fence.
	Closed bool

	// Advance counts the units the host must skip: virtual padding columns
	// first, then bytes.
	Advance int

	// Chunk is the recorded content line when Closed is false.
	Chunk Chunk
}

// ScanLine processes the line source[start:stop], stop including the line
// ending. column is the visual column of source[start] and padding the
// count of virtual spaces the host keeps before it.
func (c *Container) ScanLine(source []byte, start, stop, column, padding int) LineResult {
	if c.closed {
		return LineResult{Closed: true}
	}
	if c.content < 0 {
		c.content = len(c.events)
		c.events = append(c.events, Event{
			Type:  Enter,
			Token: Token{Kind: KindDirectiveContent, StartOffset: start, EndOffset: start},
		})
	}

	fence := NewScanner(source, start, stop)
	if fence.attempt(&closingMachine{sizeOpen: c.SizeOpen, column: column, padding: padding}) {
		c.exit(c.content, start)
		c.events = append(c.events, fence.Events()...)
		c.exit(0, fence.Pos())
		c.closed = true
		return LineResult{Closed: true, Advance: padding + fence.Pos() - start}
	}

	width := 0
	units := 0
	left := padding
	for left > 0 && width < c.Document.Indent {
		left--
		width++
		units++
	}
	pos := start
	col := column
	for left == 0 && pos < stop && width < c.Document.Indent && isSpace(Code(source[pos])) {
		next := advanceColumn(col, source[pos])
		if width+next-col > c.Document.Indent {
			break
		}
		width += next - col
		col = next
		pos++
		units++
	}

	if pos > start {
		c.emit(KindLinePrefix, start, pos)
	}
	chunk := Chunk{Start: pos, Stop: stop, Padding: left}
	c.Document.Append(chunk)
	c.emit(KindChunkDocument, pos, stop)
	return LineResult{Advance: units, Chunk: chunk}
}

// Finish closes a container that ran out of input at end.
func (c *Container) Finish(end int) {
	if c.closed {
		return
	}
	if c.content >= 0 {
		c.exit(c.content, end)
	}
	c.exit(0, end)
	c.closed = true
}

func (c *Container) emit(kind Kind, start, stop int) {
	tok := Token{Kind: kind, StartOffset: start, EndOffset: stop}
	c.events = append(c.events, Event{Type: Enter, Token: tok}, Event{Type: Exit, Token: tok})
}

func (c *Container) exit(idx, pos int) {
	c.events[idx].Token.EndOffset = pos
	c.events = append(c.events, Event{Type: Exit, Token: c.events[idx].Token})
}

// ScanContainer recognizes a whole container directive at source[start]
// without a host engine: every line after the opening is content until a
// closing fence or the end of input.
func ScanContainer(source []byte, start, indent int) (*Container, bool) {
	c, ok := OpenContainer(source, start, len(source), indent)
	if !ok {
		return nil, false
	}
	pos := c.openEnd
	for !c.closed && pos < len(source) {
		stop := lineEnd(source, pos)
		c.ScanLine(source, pos, stop, 0, 0)
		pos = stop
	}
	c.Finish(len(source))
	return c, true
}

// lineEnd returns the offset just past the line ending of the line at pos.
func lineEnd(source []byte, pos int) int {
	for i := pos; i < len(source); i++ {
		switch source[i] {
		case '\n':
			return i + 1
		case '\r':
			if i+1 < len(source) && source[i+1] == '\n' {
				return i + 2
			}
			return i + 1
		}
	}
	return len(source)
}
