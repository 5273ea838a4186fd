package mdsource

import "sort"

// BuildLines constructs the line table of content.
// It handles both LF (\n) and CRLF (\r\n) line endings.
func BuildLines(content []byte) []LineInfo {
	if len(content) == 0 {
		return []LineInfo{}
	}

	var lines []LineInfo
	lineStart := 0

	for idx, char := range content {
		if char != '\n' {
			continue
		}
		newlineStart := idx
		if idx > lineStart && content[idx-1] == '\r' {
			newlineStart = idx - 1
		}
		lines = append(lines, LineInfo{
			StartOffset:  lineStart,
			NewlineStart: newlineStart,
			EndOffset:    idx + 1,
		})
		lineStart = idx + 1
	}

	// The last line may lack a line ending, or be empty after a final one.
	lines = append(lines, LineInfo{
		StartOffset:  lineStart,
		NewlineStart: len(content),
		EndOffset:    len(content),
	})

	return lines
}

// LineCount returns the number of lines.
func (s *Snapshot) LineCount() int {
	return len(s.Lines)
}

// PositionOf converts a byte offset to a 1-based line and column. Columns
// count bytes. Offsets past the end land on the last line; negative offsets
// give the zero Position.
func (s *Snapshot) PositionOf(offset int) Position {
	if offset < 0 {
		return Position{}
	}
	if len(s.Lines) == 0 {
		return Position{Line: 1, Column: offset + 1}
	}

	if offset >= len(s.Content) {
		last := len(s.Lines) - 1
		return Position{Line: last + 1, Column: offset - s.Lines[last].StartOffset + 1}
	}

	idx := sort.Search(len(s.Lines), func(i int) bool {
		return s.Lines[i].EndOffset > offset
	})
	if idx >= len(s.Lines) {
		idx = len(s.Lines) - 1
	}
	return Position{Line: idx + 1, Column: offset - s.Lines[idx].StartOffset + 1}
}

// SpanOf converts a byte range to positions.
func (s *Snapshot) SpanOf(start, end int) Span {
	return Span{Start: s.PositionOf(start), End: s.PositionOf(end)}
}

// Offset converts a 1-based line and column to a byte offset.
// Returns (offset, true) on success, or (0, false) if out of range.
func (s *Snapshot) Offset(pos Position) (int, bool) {
	if pos.Line < 1 || pos.Line > len(s.Lines) || pos.Column < 1 {
		return 0, false
	}

	line := s.Lines[pos.Line-1]
	offset := line.StartOffset + pos.Column - 1

	// A column just past the line still addresses the line end.
	if offset > line.EndOffset {
		return 0, false
	}
	return offset, true
}

// LineContent returns a 1-based line without its line ending.
// Returns nil if the line number is out of range.
func (s *Snapshot) LineContent(line int) []byte {
	if line < 1 || line > len(s.Lines) {
		return nil
	}
	info := s.Lines[line-1]
	return s.Content[info.StartOffset:info.NewlineStart]
}
