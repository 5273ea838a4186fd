package mdsource

import "strconv"

// Position is a 1-based line and column.
type Position struct {
	Line   int
	Column int
}

// IsValid reports whether both fields are positive.
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column > 0
}

// String formats the position as "line:column".
func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// Span is a range of positions; End is exclusive.
type Span struct {
	Start Position
	End   Position
}

// IsSingleLine reports whether the span starts and ends on one line.
func (s Span) IsSingleLine() bool {
	return s.Start.Line == s.End.Line
}

// String formats the span as "l:c-l:c".
func (s Span) String() string {
	return s.Start.String() + "-" + s.End.String()
}
