package web

import (
	"bytes"
	"html/template"
	"strings"
	"sync"

	"taskflow/internal/docs"

	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// helpPages renders the embedded docs topics to HTML once and serves them from memory.
// Raw HTML in the markdown is never passed through.
type helpPages struct {
	md goldmark.Markdown

	mu    sync.Mutex
	pages map[string]template.HTML
}

func newHelpPages() *helpPages {
	return &helpPages{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM, emoji.Emoji),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
		pages: map[string]template.HTML{},
	}
}

// page returns the rendered topic and whether it exists.
func (h *helpPages) page(topic string) (template.HTML, bool) {
	topic = strings.ToLower(strings.TrimSpace(topic))
	h.mu.Lock()
	defer h.mu.Unlock()
	if out, ok := h.pages[topic]; ok {
		return out, true
	}
	body, ok := docs.Get(topic)
	if !ok {
		return "", false
	}
	out := h.render(body)
	h.pages[topic] = out
	return out, true
}

func (h *helpPages) render(src string) template.HTML {
	src = strings.TrimSpace(src)
	if src == "" {
		return ""
	}
	var b bytes.Buffer
	if err := h.md.Convert([]byte(src), &b); err != nil {
		return template.HTML("<pre>" + template.HTMLEscapeString(src) + "</pre>")
	}
	return template.HTML(b.String())
}
