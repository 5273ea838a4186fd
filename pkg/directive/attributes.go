package directive

import (
	"strings"

	"github.com/yuin/goldmark/util"
)

// Attribute is one key/value pair.
type Attribute struct {
	Key   string
	Value string
}

// Attributes is an ordered attribute map. Keys keep the position of their
// first insertion.
type Attributes struct {
	keys   []string
	values map[string]string
}

// NewAttributes returns an empty attribute map.
func NewAttributes() *Attributes {
	return &Attributes{values: make(map[string]string)}
}

// Get returns the value stored under key.
func (a *Attributes) Get(key string) (string, bool) {
	if a == nil {
		return "", false
	}
	v, ok := a.values[key]
	return v, ok
}

// Set stores value under key, replacing any earlier value.
func (a *Attributes) Set(key, value string) {
	if _, ok := a.values[key]; !ok {
		a.keys = append(a.keys, key)
	}
	a.values[key] = value
}

// Merge adds an attribute the way repeated attributes combine in source:
// a second non-empty 'class' is appended after a space, anything else
// replaces the earlier value.
func (a *Attributes) Merge(key, value string) {
	if key == "class" {
		if prev := a.values["class"]; prev != "" {
			a.values["class"] = prev + " " + value
			return
		}
	}
	a.Set(key, value)
}

// Len returns the number of keys.
func (a *Attributes) Len() int {
	if a == nil {
		return 0
	}
	return len(a.keys)
}

// Keys returns the keys in insertion order.
func (a *Attributes) Keys() []string {
	if a == nil {
		return nil
	}
	out := make([]string, len(a.keys))
	copy(out, a.keys)
	return out
}

// All returns the pairs in insertion order.
func (a *Attributes) All() []Attribute {
	if a == nil {
		return nil
	}
	out := make([]Attribute, 0, len(a.keys))
	for _, k := range a.keys {
		out = append(out, Attribute{Key: k, Value: a.values[k]})
	}
	return out
}

// Format writes the attributes back as a brace-delimited list that parses
// to the same map. 'id' and 'class' use shortcuts when their values allow.
func (a *Attributes) Format() string {
	var b strings.Builder
	b.WriteByte('{')
	first := true
	sep := func() {
		if !first {
			b.WriteByte(' ')
		}
		first = false
	}
	for _, k := range a.Keys() {
		v := a.values[k]
		switch {
		case k == "id" && isShortcutValue(v):
			sep()
			b.WriteString("#" + v)
		case k == "class" && classShortcuts(v):
			for _, c := range strings.Split(v, " ") {
				sep()
				b.WriteString("." + c)
			}
		case !isAttributeName(k):
			continue
		case v == "":
			sep()
			b.WriteString(k)
		default:
			sep()
			b.WriteString(k + `="` + escapeValue(v) + `"`)
		}
	}
	b.WriteByte('}')
	return b.String()
}

//nolint:gochecknoglobals // read-only replacer
var valueEscaper = strings.NewReplacer("&", "&amp;", `"`, "&quot;")

func escapeValue(v string) string {
	return valueEscaper.Replace(v)
}

func isShortcutValue(v string) bool {
	if v == "" {
		return false
	}
	return !strings.ContainsAny(v, "\"#'.<=>`}&{ \t\r\n")
}

func classShortcuts(v string) bool {
	for _, c := range strings.Split(v, " ") {
		if !isShortcutValue(c) {
			return false
		}
	}
	return true
}

func isAttributeName(k string) bool {
	if k == "" {
		return false
	}
	for i := range len(k) {
		c := k[i]
		alpha := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		switch {
		case alpha || c == ':' || c == '_':
		case i > 0 && ((c >= '0' && c <= '9') || c == '-' || c == '.'):
		default:
			return false
		}
	}
	return true
}

// decode resolves character references in an attribute value.
func decode(s string) string {
	if !strings.ContainsRune(s, '&') {
		return s
	}
	b := util.ResolveNumericReferences([]byte(s))
	return string(util.ResolveEntityNames(b))
}

// normalizeValue folds line endings to '\n' and drops the indentation of
// continuation lines in a multi-line value.
func normalizeValue(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	lines := strings.Split(s, "\n")
	for i := 1; i < len(lines); i++ {
		lines[i] = strings.TrimLeft(lines[i], " \t")
	}
	return strings.Join(lines, "\n")
}
