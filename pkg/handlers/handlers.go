// Package handlers provides the built-in directive handlers and builds a
// handler registry from configuration.
package handlers

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"sort"
	"strings"

	"github.com/yuin/goldmark/renderer/html"

	"github.com/yaklabco/mddirective/pkg/config"
	"github.com/yaklabco/mddirective/pkg/directive"
	"github.com/yaklabco/mddirective/pkg/langdetect"
)

// youTubeEmbedURL is the base of embedded video URLs.
const youTubeEmbedURL = "https://www.youtube.com/embed/"

//nolint:gochecknoglobals // read-only lookup table
var voidElements = []string{
	"area", "base", "br", "col", "embed", "hr", "img", "input",
	"link", "meta", "param", "source", "track", "wbr",
}

// Elements refused in safe mode: the GFM tag filter list plus the embedding
// elements that run or load active content.
//
//nolint:gochecknoglobals // read-only lookup table
var unsafeElements = []string{
	"title", "textarea", "style", "xmp", "iframe", "noembed", "noframes",
	"script", "plaintext", "object", "embed", "base", "meta", "link",
}

// Attributes whose value is a URL.
//
//nolint:gochecknoglobals // read-only lookup table
var urlAttributes = []string{
	"href", "src", "action", "formaction", "poster", "cite", "data",
	"background", "longdesc", "manifest", "xlink:href",
}

// Options tune a built-in handler.
type Options struct {
	// Tag is the rendered element. Empty means the directive name.
	Tag string

	// Class is prepended to the directive's classes.
	Class string

	// Title is used when the directive has no title of its own.
	Title string

	// Unsafe renders any tag and attribute as written. Otherwise the handler
	// follows the renderer's safe mode: it declines active elements and
	// drops event handlers and dangerous URLs.
	Unsafe bool
}

// Element renders a directive as <tag attrs>body</tag>. The body is the
// container content, or the label when there is no content. Void elements
// get neither a body nor a closing tag.
func Element(tag string) directive.Handler {
	return ElementWith(Options{Tag: tag})
}

// ElementWith is Element with all options.
func ElementWith(o Options) directive.Handler {
	return func(d *directive.Directive, s directive.Sink) directive.Outcome {
		tag := o.Tag
		if tag == "" {
			tag = d.Name
		}
		if !o.Unsafe && !isSafeTag(tag) {
			return directive.Declined
		}
		attrs := decorate(d.Attributes, o)

		s.Tag("<" + tag + formatAttributes(attrs, s, o.Unsafe) + ">")
		if isVoid(tag) {
			return directive.Handled
		}

		body := d.Content
		if body == "" {
			body = d.Label
		}
		if body != "" {
			if d.Kind == directive.Container {
				s.LineEndingIfNeeded()
			}
			s.Raw(body)
			if d.Kind == directive.Container {
				s.LineEndingIfNeeded()
			}
		}
		s.Tag("</" + tag + ">")
		return directive.Handled
	}
}

// Abbr renders text directives as <abbr>. Leaf and container directives
// are declined.
func Abbr() directive.Handler {
	return AbbrWith(Options{})
}

// AbbrWith is Abbr with a default title and class.
func AbbrWith(o Options) directive.Handler {
	o.Tag = "abbr"
	element := ElementWith(o)
	return func(d *directive.Directive, s directive.Sink) directive.Outcome {
		if d.Kind != directive.Text {
			return directive.Declined
		}
		return element(d, s)
	}
}

// YouTube embeds the video named by the 'v' attribute. The label becomes
// the frame title. Directives without 'v' are declined.
func YouTube() directive.Handler {
	return YouTubeWith(Options{})
}

// YouTubeWith is YouTube with a default title and class.
func YouTubeWith(o Options) directive.Handler {
	return func(d *directive.Directive, s directive.Sink) directive.Outcome {
		v := d.Attr("v")
		if v == "" {
			return directive.Declined
		}

		title := d.Label
		if title == "" {
			title = o.Title
		}
		list := []string{`src="` + s.Encode(youTubeEmbedURL+url.PathEscape(v)) + `"`, "allowfullscreen"}
		if title != "" {
			list = append(list, `title="`+s.Encode(title)+`"`)
		}
		rest := decorate(d.Attributes, Options{Class: o.Class})
		for _, a := range rest.All() {
			if a.Key == "v" || a.Key == "title" || a.Key == "src" {
				continue
			}
			if !o.Unsafe && !isSafeAttribute(a) {
				continue
			}
			list = append(list, formatAttribute(a, s))
		}

		s.Tag("<iframe " + strings.Join(list, " ") + ">")
		if d.Content != "" {
			s.LineEndingIfNeeded()
			s.Raw(d.Content)
			s.LineEndingIfNeeded()
		}
		s.Tag("</iframe>")
		return directive.Handled
	}
}

// Code renders the raw source of a container directive as a code block.
// The language comes from the 'lang' attribute, then from the 'file'
// attribute, and is detected from the source otherwise.
func Code() directive.Handler {
	return CodeWith(Options{})
}

// CodeWith is Code with an extra class on the <pre> element.
func CodeWith(o Options) directive.Handler {
	return func(d *directive.Directive, s directive.Sink) directive.Outcome {
		if d.Kind != directive.Container {
			return directive.Declined
		}

		lang := langdetect.Normalize(d.Attr("lang"))
		if lang == "" {
			lang = langdetect.DetectFile(d.Attr("file"), []byte(d.Source))
		}

		pre := "<pre"
		if o.Class != "" {
			pre += ` class="` + s.Encode(o.Class) + `"`
		}
		s.Tag(pre + ">")
		if lang != "" && lang != langdetect.Text {
			s.Tag(`<code class="language-` + s.Encode(lang) + `">`)
		} else {
			s.Tag("<code>")
		}
		s.Raw(s.Encode(d.Source))
		s.Tag("</code></pre>")
		return directive.Handled
	}
}

// Drop handles a directive by rendering nothing.
func Drop() directive.Handler {
	return func(*directive.Directive, directive.Sink) directive.Outcome {
		return directive.Handled
	}
}

// New returns the handler for a configured type, rendering in safe mode.
func New(h config.HandlerConfig) (directive.Handler, error) {
	return newHandler(h, false)
}

func newHandler(h config.HandlerConfig, unsafe bool) (directive.Handler, error) {
	o := Options{Tag: h.Tag, Class: h.Class, Title: h.Title, Unsafe: unsafe}
	switch h.Type {
	case config.HandlerElement:
		return ElementWith(o), nil
	case config.HandlerAbbr:
		return AbbrWith(o), nil
	case config.HandlerYouTube:
		return YouTubeWith(o), nil
	case config.HandlerCode:
		return CodeWith(o), nil
	case config.HandlerDrop:
		return Drop(), nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrInvalidHandlerType, h.Type)
	}
}

// FromConfig builds a registry from cfg.Handlers. Every invalid entry is
// reported. Handlers render in safe mode unless render.unsafe is set.
func FromConfig(cfg *config.Config) (*directive.Handlers, error) {
	reg := directive.NewHandlers()
	if cfg == nil {
		return reg, nil
	}

	names := make([]string, 0, len(cfg.Handlers))
	for name := range cfg.Handlers {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs []error
	for _, name := range names {
		h := cfg.Handlers[name]
		if err := h.Validate(name); err != nil {
			errs = append(errs, err)
			continue
		}
		fn, err := newHandler(h, cfg.Render.UnsafeEnabled())
		if err != nil {
			errs = append(errs, fmt.Errorf("directive %q: %w", name, err))
			continue
		}
		if err := reg.Register(name, fn); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return reg, nil
}

// decorate returns the directive's attributes with the configured class in
// front and the configured title as a fallback.
func decorate(attrs *directive.Attributes, o Options) *directive.Attributes {
	out := directive.NewAttributes()
	if o.Class != "" {
		out.Merge("class", o.Class)
	}
	if attrs != nil {
		for _, a := range attrs.All() {
			out.Merge(a.Key, a.Value)
		}
	}
	if o.Title != "" {
		if _, ok := out.Get("title"); !ok {
			out.Set("title", o.Title)
		}
	}
	return out
}

func formatAttributes(attrs *directive.Attributes, s directive.Sink, unsafe bool) string {
	var b strings.Builder
	for _, a := range attrs.All() {
		if !unsafe && !isSafeAttribute(a) {
			continue
		}
		b.WriteByte(' ')
		b.WriteString(formatAttribute(a, s))
	}
	return b.String()
}

func formatAttribute(a directive.Attribute, s directive.Sink) string {
	return s.Encode(a.Key) + `="` + s.Encode(a.Value) + `"`
}

func isVoid(tag string) bool {
	return slices.Contains(voidElements, strings.ToLower(tag))
}

// isSafeTag reports whether tag is a plain element name outside
// unsafeElements.
func isSafeTag(tag string) bool {
	for i := 0; i < len(tag); i++ {
		c := tag[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case i > 0 && (c >= '0' && c <= '9' || c == '-'):
		default:
			return false
		}
	}
	return tag != "" && !slices.Contains(unsafeElements, strings.ToLower(tag))
}

// isSafeAttribute rejects event handlers and URL attributes holding a
// dangerous URL.
func isSafeAttribute(a directive.Attribute) bool {
	key := strings.ToLower(a.Key)
	if strings.HasPrefix(key, "on") {
		return false
	}
	if slices.Contains(urlAttributes, key) {
		return !html.IsDangerousURL([]byte(strings.TrimSpace(a.Value)))
	}
	return true
}
