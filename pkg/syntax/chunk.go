package syntax

// Chunk is one content line of a container directive.
type Chunk struct {
	// Start is the first byte after the stripped indentation.
	Start int

	// Stop is the end of the line, including its line ending.
	Stop int

	// Padding counts virtual spaces left over from a tab the host split
	// before Start.
	Padding int
}

// ChunkDocument holds the content lines of one container in source order.
// Lines are addressed by index; the host re-parses them as nested blocks.
type ChunkDocument struct {
	// Indent is the indentation, in columns, stripped from every line.
	Indent int

	chunks []Chunk
}

// Append adds a line and returns its index.
func (d *ChunkDocument) Append(c Chunk) int {
	d.chunks = append(d.chunks, c)
	return len(d.chunks) - 1
}

// Len returns the number of lines.
func (d *ChunkDocument) Len() int {
	return len(d.chunks)
}

// At returns the line at index i.
func (d *ChunkDocument) At(i int) Chunk {
	return d.chunks[i]
}

// Text joins the lines back into the container's inner source.
func (d *ChunkDocument) Text(source []byte) []byte {
	size := 0
	for _, c := range d.chunks {
		size += c.Padding + c.Stop - c.Start
	}
	out := make([]byte, 0, size)
	for _, c := range d.chunks {
		for range c.Padding {
			out = append(out, ' ')
		}
		out = append(out, source[c.Start:c.Stop]...)
	}
	return out
}
