package tui

import (
	"strconv"
	"strings"
	"sync"

	"taskflow/internal/model"

	"github.com/charmbracelet/glamour"
	glamourstyles "github.com/charmbracelet/glamour/styles"
)

var (
	mdRendererMu sync.Mutex
	// Cache renderers by wrap width + style. Creating a renderer with WithAutoStyle can trigger
	// terminal background queries that block on some terminals, so the style is always explicit.
	mdRenderers = map[string]*glamour.TermRenderer{}
)

func markdownStyle(t model.Theme) string {
	if t == model.ThemeDark {
		return glamourstyles.DarkStyle
	}
	return glamourstyles.LightStyle
}

func renderMarkdown(md string, width int, t model.Theme) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 20 {
		width = 20
	}
	style := markdownStyle(t)
	key := style + ":" + strconv.Itoa(width)

	mdRendererMu.Lock()
	r := mdRenderers[key]
	if r == nil {
		rr, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			mdRendererMu.Unlock()
			return md
		}
		mdRenderers[key] = rr
		r = rr
	}
	out, err := r.Render(md)
	mdRendererMu.Unlock()
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}
