package handlers_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mddirective/pkg/config"
	"github.com/yaklabco/mddirective/pkg/directive"
	"github.com/yaklabco/mddirective/pkg/handlers"
	mdgoldmark "github.com/yaklabco/mddirective/pkg/parser/goldmark"
)

func attrs(kv ...string) *directive.Attributes {
	a := directive.NewAttributes()
	for i := 0; i+1 < len(kv); i += 2 {
		a.Set(kv[i], kv[i+1])
	}
	return a
}

func run(t *testing.T, h directive.Handler, d *directive.Directive) (directive.Outcome, string) {
	t.Helper()
	var buf bytes.Buffer
	sink := directive.NewBuffers(nil, &buf)
	outcome := h(d, sink)
	require.NoError(t, sink.Err())
	return outcome, buf.String()
}

func TestElement(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		handler directive.Handler
		d       *directive.Directive
		want    string
	}{
		{
			name:    "text with attributes",
			handler: handlers.Element("span"),
			d:       &directive.Directive{Kind: directive.Text, Name: "x", Label: "hi", HasLabel: true, Attributes: attrs("id", "a", "data-x", `"q"`)},
			want:    `<span id="a" data-x="&quot;q&quot;">hi</span>`,
		},
		{
			name:    "empty tag uses directive name",
			handler: handlers.Element(""),
			d:       &directive.Directive{Kind: directive.Leaf, Name: "aside", Label: "x"},
			want:    "<aside>x</aside>",
		},
		{
			name:    "container content on its own lines",
			handler: handlers.Element("div"),
			d:       &directive.Directive{Kind: directive.Container, Name: "x", Content: "<p>a</p>\n", HasContent: true},
			want:    "<div>\n<p>a</p>\n</div>",
		},
		{
			name:    "container falls back to label",
			handler: handlers.Element("div"),
			d:       &directive.Directive{Kind: directive.Container, Name: "x", Label: "t", HasContent: true},
			want:    "<div>\nt\n</div>",
		},
		{
			name:    "empty body",
			handler: handlers.Element("p"),
			d:       &directive.Directive{Kind: directive.Container, Name: "x"},
			want:    "<p></p>",
		},
		{
			name:    "void element",
			handler: handlers.Element("img"),
			d:       &directive.Directive{Kind: directive.Leaf, Name: "x", Label: "ignored", Attributes: attrs("src", "a.png")},
			want:    `<img src="a.png">`,
		},
		{
			name:    "configured class goes first",
			handler: handlers.ElementWith(handlers.Options{Tag: "div", Class: "note"}),
			d:       &directive.Directive{Kind: directive.Leaf, Name: "x", Attributes: attrs("class", "big", "id", "n")},
			want:    `<div class="note big" id="n"></div>`,
		},
		{
			name:    "title fallback",
			handler: handlers.ElementWith(handlers.Options{Tag: "span", Title: "dflt"}),
			d:       &directive.Directive{Kind: directive.Text, Name: "x"},
			want:    `<span title="dflt"></span>`,
		},
		{
			name:    "own title wins",
			handler: handlers.ElementWith(handlers.Options{Tag: "span", Title: "dflt"}),
			d:       &directive.Directive{Kind: directive.Text, Name: "x", Attributes: attrs("title", "mine")},
			want:    `<span title="mine"></span>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			outcome, got := run(t, tt.handler, tt.d)
			assert.Equal(t, directive.Handled, outcome)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAbbr(t *testing.T) {
	t.Parallel()

	outcome, got := run(t, handlers.Abbr(), &directive.Directive{
		Kind: directive.Text, Name: "abbr", Label: "HTML", Attributes: attrs("title", "HyperText Markup Language"),
	})
	assert.Equal(t, directive.Handled, outcome)
	assert.Equal(t, `<abbr title="HyperText Markup Language">HTML</abbr>`, got)

	for _, kind := range []directive.Kind{directive.Leaf, directive.Container} {
		outcome, got = run(t, handlers.Abbr(), &directive.Directive{Kind: kind, Name: "abbr", Label: "x"})
		assert.Equal(t, directive.Declined, outcome)
		assert.Empty(t, got)
	}
}

func TestYouTube(t *testing.T) {
	t.Parallel()

	t.Run("declines without v", func(t *testing.T) {
		t.Parallel()
		outcome, got := run(t, handlers.YouTube(), &directive.Directive{Kind: directive.Leaf, Name: "youtube", Label: "x"})
		assert.Equal(t, directive.Declined, outcome)
		assert.Empty(t, got)
	})

	t.Run("embed with title and extra attributes", func(t *testing.T) {
		t.Parallel()
		outcome, got := run(t, handlers.YouTube(), &directive.Directive{
			Kind: directive.Leaf, Name: "youtube", Label: "Cats", Attributes: attrs("v", "abc", "width", "560"),
		})
		assert.Equal(t, directive.Handled, outcome)
		assert.Equal(t,
			`<iframe src="https://www.youtube.com/embed/abc" allowfullscreen title="Cats" width="560"></iframe>`, got)
	})

	t.Run("configured title and content", func(t *testing.T) {
		t.Parallel()
		_, got := run(t, handlers.YouTubeWith(handlers.Options{Title: "Video"}), &directive.Directive{
			Kind: directive.Container, Name: "youtube", Attributes: attrs("v", "a b"), Content: "<p>x</p>\n",
		})
		assert.Equal(t,
			"<iframe src=\"https://www.youtube.com/embed/a%20b\" allowfullscreen title=\"Video\">\n<p>x</p>\n</iframe>", got)
	})
}

func TestCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		d    *directive.Directive
		want string
	}{
		{
			name: "lang attribute alias",
			d:    &directive.Directive{Kind: directive.Container, Name: "code", Attributes: attrs("lang", "golang"), Source: "x := 1\n"},
			want: "<pre><code class=\"language-go\">x := 1\n</code></pre>",
		},
		{
			name: "detected from source",
			d:    &directive.Directive{Kind: directive.Container, Name: "code", Source: "package main\n"},
			want: "<pre><code class=\"language-go\">package main\n</code></pre>",
		},
		{
			name: "file attribute",
			d:    &directive.Directive{Kind: directive.Container, Name: "code", Attributes: attrs("file", "tool.py"), Source: "x\n"},
			want: "<pre><code class=\"language-python\">x\n</code></pre>",
		},
		{
			name: "plain text is escaped and unlabeled",
			d:    &directive.Directive{Kind: directive.Container, Name: "code", Attributes: attrs("lang", "text"), Source: "a < b & c\n"},
			want: "<pre><code>a &lt; b &amp; c\n</code></pre>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			outcome, got := run(t, handlers.Code(), tt.d)
			assert.Equal(t, directive.Handled, outcome)
			assert.Equal(t, tt.want, got)
		})
	}

	outcome, got := run(t, handlers.Code(), &directive.Directive{Kind: directive.Leaf, Name: "code"})
	assert.Equal(t, directive.Declined, outcome)
	assert.Empty(t, got)
}

func TestDrop(t *testing.T) {
	t.Parallel()

	outcome, got := run(t, handlers.Drop(), &directive.Directive{Kind: directive.Container, Name: "todo", Content: "<p>x</p>"})
	assert.Equal(t, directive.Handled, outcome)
	assert.Empty(t, got)
}

func TestNew_InvalidType(t *testing.T) {
	t.Parallel()

	_, err := handlers.New(config.HandlerConfig{Type: "nope"})
	require.ErrorIs(t, err, config.ErrInvalidHandlerType)
}

func TestFromConfig(t *testing.T) {
	t.Parallel()

	t.Run("nil config", func(t *testing.T) {
		t.Parallel()
		reg, err := handlers.FromConfig(nil)
		require.NoError(t, err)
		assert.Equal(t, 0, reg.Len())
	})

	t.Run("registers every handler", func(t *testing.T) {
		t.Parallel()
		cfg := config.NewConfig()
		cfg.Handlers["note"] = config.HandlerConfig{Type: config.HandlerElement, Tag: "aside"}
		cfg.Handlers["abbr"] = config.HandlerConfig{Type: config.HandlerAbbr}
		cfg.Handlers[directive.Wildcard] = config.HandlerConfig{Type: config.HandlerDrop}

		reg, err := handlers.FromConfig(cfg)
		require.NoError(t, err)
		assert.Equal(t, []string{"*", "abbr", "note"}, reg.Names())
	})

	t.Run("reports every invalid entry", func(t *testing.T) {
		t.Parallel()
		cfg := config.NewConfig()
		cfg.Handlers["ok"] = config.HandlerConfig{Type: config.HandlerDrop}
		cfg.Handlers["bad"] = config.HandlerConfig{Type: "unknown"}
		cfg.Handlers["1st"] = config.HandlerConfig{Type: config.HandlerDrop}

		_, err := handlers.FromConfig(cfg)
		require.ErrorIs(t, err, config.ErrInvalidHandlerType)
		require.ErrorIs(t, err, directive.ErrInvalidHandlerName)
	})
}

func TestFromConfig_EndToEnd(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Handlers["note"] = config.HandlerConfig{Type: config.HandlerElement, Tag: "aside", Class: "note"}
	cfg.Handlers["abbr"] = config.HandlerConfig{Type: config.HandlerAbbr}
	cfg.Handlers["todo"] = config.HandlerConfig{Type: config.HandlerDrop}
	reg, err := handlers.FromConfig(cfg)
	require.NoError(t, err)

	e := mdgoldmark.New(mdgoldmark.WithHandlers(reg))
	src := ":::note{.big}\nSee :abbr[HTML]{title=\"HyperText\"}.\n:::\n\n::todo[fix this]\n\nend\n"

	out, doc, err := e.Convert(context.Background(), "doc.md", []byte(src))
	require.NoError(t, err)
	assert.Equal(t,
		"<aside class=\"note big\">\n<p>See <abbr title=\"HyperText\">HTML</abbr>.</p>\n</aside>\n<p>end</p>\n",
		string(out))

	stats := doc.Stats()
	assert.Equal(t, 3, stats.Handled)
	assert.Equal(t, 0, stats.Unhandled)
}

func TestElement_SafeMode(t *testing.T) {
	t.Parallel()

	t.Run("drops event handlers and dangerous urls", func(t *testing.T) {
		t.Parallel()
		outcome, got := run(t, handlers.Element(""), &directive.Directive{
			Kind: directive.Text, Name: "a", Label: "x",
			Attributes: attrs("href", "javascript:alert(1)", "onClick", "alert(2)", "title", "t"),
		})
		assert.Equal(t, directive.Handled, outcome)
		assert.Equal(t, `<a title="t">x</a>`, got)
	})

	t.Run("keeps safe urls", func(t *testing.T) {
		t.Parallel()
		_, got := run(t, handlers.Element(""), &directive.Directive{
			Kind: directive.Text, Name: "a", Label: "x", Attributes: attrs("href", "https://example.com/"),
		})
		assert.Equal(t, `<a href="https://example.com/">x</a>`, got)
	})

	for _, tag := range []string{"script", "STYLE", "iframe", "a b", "1x"} {
		t.Run("declines "+tag, func(t *testing.T) {
			t.Parallel()
			outcome, got := run(t, handlers.Element(tag), &directive.Directive{Kind: directive.Text, Name: "x", Label: "alert(3)"})
			assert.Equal(t, directive.Declined, outcome)
			assert.Empty(t, got)
		})
	}

	t.Run("unsafe renders as written", func(t *testing.T) {
		t.Parallel()
		outcome, got := run(t, handlers.ElementWith(handlers.Options{Unsafe: true}), &directive.Directive{
			Kind: directive.Text, Name: "script", Label: "alert(3)", Attributes: attrs("onload", "f()"),
		})
		assert.Equal(t, directive.Handled, outcome)
		assert.Equal(t, `<script onload="f()">alert(3)</script>`, got)
	})

	t.Run("youtube drops pass-through attributes", func(t *testing.T) {
		t.Parallel()
		_, got := run(t, handlers.YouTube(), &directive.Directive{
			Kind: directive.Leaf, Name: "youtube",
			Attributes: attrs("v", "abc", "onload", "f()", "src", "https://evil.example/", "longdesc", "javascript:x"),
		})
		assert.Equal(t, `<iframe src="https://www.youtube.com/embed/abc" allowfullscreen></iframe>`, got)
	})
}

func TestFromConfig_SafeMode(t *testing.T) {
	t.Parallel()

	src := ":a[x]{href=\"javascript:alert(1)\" onclick=\"alert(2)\"}\n\n:script[alert(3)]\n"

	t.Run("safe by default", func(t *testing.T) {
		t.Parallel()
		cfg := config.NewConfig()
		cfg.Handlers[directive.Wildcard] = config.HandlerConfig{Type: config.HandlerElement}
		reg, err := handlers.FromConfig(cfg)
		require.NoError(t, err)

		e := mdgoldmark.New(mdgoldmark.WithHandlers(reg))
		out, doc, err := e.Convert(context.Background(), "doc.md", []byte(src))
		require.NoError(t, err)
		assert.Equal(t, "<p><a>x</a></p>\n<p></p>\n", string(out))
		assert.Equal(t, 1, doc.Stats().Unhandled)
	})

	t.Run("render.unsafe passes everything through", func(t *testing.T) {
		t.Parallel()
		cfg := config.NewConfig()
		cfg.Render.Unsafe = config.Bool(true)
		cfg.Handlers[directive.Wildcard] = config.HandlerConfig{Type: config.HandlerElement}
		reg, err := handlers.FromConfig(cfg)
		require.NoError(t, err)

		e := mdgoldmark.New(mdgoldmark.WithHandlers(reg), mdgoldmark.WithUnsafeHTML(true))
		out, _, err := e.Convert(context.Background(), "doc.md", []byte(src))
		require.NoError(t, err)
		assert.Equal(t,
			"<p><a href=\"javascript:alert(1)\" onclick=\"alert(2)\">x</a></p>\n<p><script>alert(3)</script></p>\n",
			string(out))
	})
}
