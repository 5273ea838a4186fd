package syntax_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mddirective/pkg/syntax"
)

func TestAttributeLists(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		accepted bool
	}{
		{name: "empty", input: ":a{}", accepted: true},
		{name: "id shortcut", input: ":a{#b}", accepted: true},
		{name: "class shortcuts", input: ":a{.b.c}", accepted: true},
		{name: "bare name", input: ":a{b}", accepted: true},
		{name: "unquoted value", input: ":a{b=c}", accepted: true},
		{name: "double quoted", input: `:a{b="c d"}`, accepted: true},
		{name: "single quoted", input: `:a{b='c d'}`, accepted: true},
		{name: "empty quoted", input: `:a{b=""}`, accepted: true},
		{name: "spaced initializer", input: ":a{b = c}", accepted: true},
		{name: "mixed", input: `:a{#x .y z="1" w}`, accepted: true},
		{name: "name with colon and dot", input: ":a{xml:lang=en a.b}", accepted: true},
		{name: "unterminated quote", input: `:a{b="c}`, accepted: false},
		{name: "value starts with angle", input: ":a{b=<}", accepted: false},
		{name: "missing value", input: ":a{b=}", accepted: false},
		{name: "empty shortcut", input: ":a{#}", accepted: false},
		{name: "quote inside unquoted value", input: `:a{b=c"d}`, accepted: false},
		{name: "quoted value followed by junk", input: `:a{b="c"d}`, accepted: false},
		{name: "line ending", input: ":a{b\nc}", accepted: false},
		{name: "unclosed", input: ":a{b", accepted: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m, ok := syntax.ScanText([]byte(tt.input), 0, len(tt.input))
			require.True(t, ok)
			if tt.accepted {
				assert.Equal(t, len(tt.input), m.End)
				assert.True(t, syntax.ValidateEvents(m.Events))
				return
			}
			assert.Equal(t, 2, m.End)
			_, has := m.Find(syntax.KindAttributes)
			assert.False(t, has)
		})
	}
}

func TestAttributeTokens(t *testing.T) {
	t.Parallel()

	src := `:a{#x .y z="1 2" w}`
	m, ok := syntax.ScanText([]byte(src), 0, len(src))
	require.True(t, ok)

	text := func(toks []syntax.Token) []string {
		out := make([]string, 0, len(toks))
		for _, tok := range toks {
			out = append(out, string(tok.Text([]byte(src))))
		}
		return out
	}

	assert.Equal(t, []string{"x"}, text(kindsOf(m.Events, syntax.KindAttributeIDValue)))
	assert.Equal(t, []string{"y"}, text(kindsOf(m.Events, syntax.KindAttributeClassValue)))
	assert.Equal(t, []string{"z", "w"}, text(kindsOf(m.Events, syntax.KindAttributeName)))
	assert.Equal(t, []string{"1 2"}, text(kindsOf(m.Events, syntax.KindAttributeValue)))
	assert.Len(t, kindsOf(m.Events, syntax.KindAttribute), 4)
}

func TestAttributeValueAcrossLines(t *testing.T) {
	t.Parallel()

	src := ":::a{b=\"1\n  2\" c}\n:::"
	c, ok := syntax.ScanContainer([]byte(src), 0, 0)
	require.True(t, ok)

	values := kindsOf(c.Events(), syntax.KindAttributeValue)
	require.Len(t, values, 1)
	assert.Equal(t, "1\n  2", string(values[0].Text([]byte(src))))

	data := kindsOf(c.Events(), syntax.KindAttributeValueData)
	assert.Len(t, data, 2)
	assert.True(t, syntax.ValidateEvents(c.Events()))
}
