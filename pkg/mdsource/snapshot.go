// Package mdsource maps byte offsets of a Markdown source to lines and
// columns.
package mdsource

// Snapshot is an immutable view of a source file with its line table.
type Snapshot struct {
	// Path is the file path, empty for stdin.
	Path string

	// Content is the raw file content.
	Content []byte

	// Lines holds one entry per line, in order.
	Lines []LineInfo
}

// LineInfo describes the byte range of one line.
type LineInfo struct {
	// StartOffset is the first byte of the line.
	StartOffset int

	// NewlineStart is the offset of the line ending ("\n" or "\r\n"), or
	// the end of content for a final line without one.
	NewlineStart int

	// EndOffset is the offset just past the line ending.
	EndOffset int
}

// New indexes content. The content is not copied.
func New(path string, content []byte) *Snapshot {
	return &Snapshot{
		Path:    path,
		Content: content,
		Lines:   BuildLines(content),
	}
}
