package goldmark

import (
	"bytes"
	"fmt"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// ToMarkdown converts rendered HTML back to portable Markdown, so a document
// whose directives were expanded can be read by tools that know nothing
// about them.
func ToMarkdown(html []byte) ([]byte, error) {
	if len(bytes.TrimSpace(html)) == 0 {
		return nil, nil
	}
	markdown, err := htmltomarkdown.ConvertString(string(html))
	if err != nil {
		return nil, fmt.Errorf("converting html to markdown: %w", err)
	}
	out := bytes.TrimSpace([]byte(markdown))
	return append(out, '\n'), nil
}
