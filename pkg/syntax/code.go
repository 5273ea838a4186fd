// Package syntax recognizes generic directives (text, leaf, and container)
// one byte at a time and reports them as a well-nested event stream.
//
// Every construct is an explicit state machine driven by a Scanner. Sub-scans
// (name, label, attribute list, closing fence) run inside transactional
// attempts: a rejected attempt leaves the cursor and the event buffer exactly
// as they were before it started.
package syntax

// Code is one input unit: a source byte, or EOF past the scan limit.
type Code int

// EOF is returned by Scanner.Current once the cursor reaches the limit.
const EOF Code = -1

const (
	tabSize = 4

	// fenceSizeMin is the shortest run of colons that opens a container.
	fenceSizeMin = 3

	// labelSizeMax caps the bytes scanned inside a label.
	labelSizeMax = 999

	// labelBalanceMax caps nested unescaped brackets inside a label.
	labelBalanceMax = 32

	// closingIndentMax is the widest indentation a closing fence may have.
	closingIndentMax = tabSize - 1
)

func isASCIIAlpha(c Code) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isASCIIDigit(c Code) bool {
	return c >= '0' && c <= '9'
}

func isASCIIAlphanumeric(c Code) bool {
	return isASCIIAlpha(c) || isASCIIDigit(c)
}

// isSpace reports markdown space: space or tab.
func isSpace(c Code) bool {
	return c == ' ' || c == '\t'
}

func isLineEnding(c Code) bool {
	return c == '\n' || c == '\r'
}

func isLineEndingOrSpace(c Code) bool {
	return isSpace(c) || isLineEnding(c)
}

// advanceColumn returns the column reached after a byte at column col.
func advanceColumn(col int, b byte) int {
	if b == '\t' {
		return col + tabSize - col%tabSize
	}
	return col + 1
}
