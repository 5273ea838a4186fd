// Package langdetect guesses the language of code held in a container
// directive, so the code handler can label it for syntax highlighters.
package langdetect

import (
	"bytes"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Text is returned when no language could be determined.
const Text = "text"

// classifierCandidates limits the enry classifier to languages that show up
// in documentation.
//
//nolint:gochecknoglobals // read-only lookup table
var classifierCandidates = []string{
	"Go", "Python", "Shell", "JavaScript", "TypeScript",
	"Ruby", "Rust", "Java", "C", "C++", "SQL", "JSON",
	"YAML", "HTML", "CSS", "Markdown", "Dockerfile",
}

// pattern is a cheap, high-confidence check run before the classifier.
type pattern struct {
	lang  string
	match func(s string, trimmed []byte) bool
}

//nolint:gochecknoglobals // read-only lookup table
var patterns = []pattern{
	{"go", func(_ string, t []byte) bool {
		return bytes.HasPrefix(t, []byte("package "))
	}},
	{"python", looksLikePython},
	{"html", func(_ string, t []byte) bool {
		lower := bytes.ToLower(t)
		return containsAny(string(lower), "<!doctype html", "<html", "<head>", "<body>")
	}},
	{"json", func(_ string, t []byte) bool {
		return (bytes.HasPrefix(t, []byte("{")) || bytes.HasPrefix(t, []byte("["))) &&
			bytes.Contains(t, []byte(`"`))
	}},
	{"dockerfile", func(s string, t []byte) bool {
		return bytes.HasPrefix(t, []byte("FROM ")) ||
			(strings.Contains(s, "\nFROM ") && strings.Contains(s, "\nRUN ")) ||
			(strings.Contains(s, "WORKDIR ") && strings.Contains(s, "COPY "))
	}},
	{"sql", func(_ string, t []byte) bool {
		upper := strings.ToUpper(string(t))
		for _, kw := range []string{"SELECT ", "INSERT ", "UPDATE ", "DELETE ", "CREATE "} {
			if strings.HasPrefix(upper, kw) {
				return true
			}
		}
		return false
	}},
	{"rust", func(s string, _ []byte) bool {
		return containsAny(s, "fn main()", "println!", "let mut ")
	}},
	{"javascript", func(s string, _ []byte) bool {
		return containsAny(s, "=>", "const ", "let ", "console.log")
	}},
	{"yaml", func(s string, _ []byte) bool {
		return yamlKeys(s) >= 2
	}},
}

// Detect returns a lowercase fence tag for content, or Text.
//
// A shebang wins over everything else. Then a few textual patterns are
// tried, and finally the enry classifier, whose answer is used only when it
// is confident.
func Detect(content []byte) string {
	if len(bytes.TrimSpace(content)) == 0 {
		return Text
	}
	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return Normalize(lang)
	}

	s := string(content)
	trimmed := bytes.TrimSpace(content)
	for _, p := range patterns {
		if p.match(s, trimmed) {
			return p.lang
		}
	}

	if lang, safe := enry.GetLanguageByClassifier(content, classifierCandidates); safe && lang != "" {
		return Normalize(lang)
	}
	return Text
}

// DetectFile is Detect with a file name hint, such as the 'file' attribute
// of a code directive. The name is trusted when it identifies exactly one
// language.
func DetectFile(name string, content []byte) string {
	if name != "" {
		if lang, safe := enry.GetLanguageByFilename(name); safe && lang != "" {
			return Normalize(lang)
		}
		if lang, safe := enry.GetLanguageByExtension(name); safe && lang != "" {
			return Normalize(lang)
		}
	}
	return Detect(content)
}

// Normalize turns a language name or alias ("py", "golang", "Shell") into
// the fence tag used in class names ("python", "go", "bash").
func Normalize(lang string) string {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return ""
	}
	if canonical, ok := enry.GetLanguageByAlias(lang); ok {
		lang = canonical
	}
	if lang == "Shell" {
		return "bash"
	}
	return strings.ReplaceAll(strings.ToLower(lang), " ", "-")
}

func looksLikePython(s string, _ []byte) bool {
	if strings.Contains(s, "def ") && strings.Contains(s, "):") {
		return true
	}
	// Go imports use "import (".
	if strings.Contains(s, "import ") && !strings.Contains(s, "import (") &&
		(strings.Contains(s, "from ") || strings.HasPrefix(strings.TrimSpace(s), "import ")) {
		return true
	}
	return containsAny(s, "__name__", "__main__")
}

// yamlKeys counts lines shaped like "key: value" or "- item".
func yamlKeys(s string) int {
	n := 0
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.Contains(line, ": ") &&
			!strings.ContainsAny(line, "({") && !strings.HasPrefix(line, `"`) {
			n++
		}
		if strings.HasPrefix(line, "- ") {
			n++
		}
	}
	return n
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
