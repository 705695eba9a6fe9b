package tui

import (
	"sync"

	"github.com/charmbracelet/glamour"
)

// defaultWrap is used when the terminal width is unknown.
const defaultWrap = 80

//nolint:gochecknoglobals // cached renderers by wrap width
var (
	renderersMu sync.Mutex
	renderers   = map[int]*glamour.TermRenderer{}
)

// getRenderer returns a cached glamour renderer for wrap, or nil if glamour
// cannot build one.
func getRenderer(wrap int) *glamour.TermRenderer {
	renderersMu.Lock()
	defer renderersMu.Unlock()

	if r, ok := renderers[wrap]; ok {
		return r
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		r = nil
	}
	renderers[wrap] = r
	return r
}

// RenderMarkdown renders md for a terminal of the given width. On any
// rendering failure the source text is returned unchanged.
func RenderMarkdown(md string, width int) string {
	wrap := defaultWrap
	if width > 0 && width-TerminalEdgeMargin < wrap {
		wrap = max(width-TerminalEdgeMargin, MinMenuWidth)
	}
	if r := getRenderer(wrap); r != nil {
		if out, err := r.Render(md); err == nil {
			return out
		}
	}
	if md != "" && md[len(md)-1] != '\n' {
		md += "\n"
	}
	return md
}
