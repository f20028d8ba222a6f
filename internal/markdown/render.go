package markdown

import (
	"container/list"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"

	"github.com/treykane/paneboard/internal/catalog"
	"github.com/treykane/paneboard/internal/logging"
)

var renderLog = logging.New("markdown")

// maxRenderers bounds the width-specific glamour renderers kept alive.
const maxRenderers = 8

// Renderer turns notes into ANSI text. Glamour renderers are expensive to
// build, so one is cached per width bucket with LRU eviction. Safe for
// concurrent use from render commands.
type Renderer struct {
	style string

	mu    sync.Mutex
	cache map[int]*glamour.TermRenderer
	order *list.List
	nodes map[int]*list.Element
}

// NewRenderer returns a renderer for a glamour style name. "auto" asks glamour
// to detect the terminal background; unknown names fall back to dark.
func NewRenderer(style string) *Renderer {
	return &Renderer{
		style: strings.ToLower(strings.TrimSpace(style)),
		cache: map[int]*glamour.TermRenderer{},
		order: list.New(),
		nodes: map[int]*list.Element{},
	}
}

// WidthBucket rounds width down to a multiple of 20 so small resizes reuse
// cached renders.
func WidthBucket(width int) int {
	if width <= 0 {
		return 80
	}
	if width < 20 {
		return width
	}
	return (width / 20) * 20
}

// RenderNote renders a note according to its kind. Scripts become a fenced
// code block in their language; PDFs show their metadata only.
func (r *Renderer) RenderNote(note catalog.Note, width int) string {
	switch note.Kind {
	case catalog.KindScript:
		body := strings.TrimRight(note.Content, "\n")
		return r.Render(fmt.Sprintf("# %s\n\n```%s\n%s\n```\n", note.Title, note.Language, body), width)
	case catalog.KindPDF:
		return r.Render(fmt.Sprintf("# %s\n\nPDF document `%s`.\n\nOpen it with an external viewer.\n", note.Title, note.ID), width)
	default:
		return r.Render(note.Content, width)
	}
}

// Render converts markdown to ANSI output. On failure the raw markdown is
// returned so the user still sees the content.
func (r *Renderer) Render(content string, width int) string {
	width = WidthBucket(width)
	renderer, err := r.get(width)
	if err != nil {
		renderLog.Error("create markdown renderer", "width", width, "error", err)
		return content
	}
	out, err := renderer.Render(content)
	if err != nil {
		renderLog.Error("render markdown content", "width", width, "error", err)
		return content
	}
	return out
}

func (r *Renderer) get(width int) (*glamour.TermRenderer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if renderer, ok := r.cache[width]; ok {
		if node, ok := r.nodes[width]; ok {
			r.order.MoveToBack(node)
		}
		return renderer, nil
	}
	renderer, err := glamour.NewTermRenderer(r.styleOption(), glamour.WithWordWrap(width))
	if err != nil {
		return nil, err
	}
	r.cache[width] = renderer
	r.nodes[width] = r.order.PushBack(width)
	for len(r.cache) > maxRenderers && r.order.Len() > 0 {
		oldest := r.order.Front()
		w, _ := oldest.Value.(int)
		r.order.Remove(oldest)
		delete(r.cache, w)
		delete(r.nodes, w)
	}
	return renderer, nil
}

// cached reports how many renderers are alive.
func (r *Renderer) cached() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cache)
}

func (r *Renderer) styleOption() glamour.TermRendererOption {
	switch r.style {
	case "auto":
		return glamour.WithAutoStyle()
	case "dark", "light", "notty":
		return glamour.WithStandardStyle(r.style)
	default:
		return glamour.WithStandardStyle("dark")
	}
}
