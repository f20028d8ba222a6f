package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/treykane/paneboard/internal/catalog"
	"github.com/treykane/paneboard/internal/markdown"
	"github.com/treykane/paneboard/internal/workspace"
)

// requestRender starts a debounced render of the pane's note.
//
// The pane's renderSeq is bumped so any in-flight render for it is ignored
// when it lands; after RenderDebounce a renderRequestMsg is emitted which,
// if its sequence still matches, triggers the async render.
func (m *Model) requestRender(id workspace.PaneID) tea.Cmd {
	st, ok := m.panes[id]
	if !ok || st.note == nil {
		return nil
	}
	st.rendering = true
	st.renderSeq++
	seq := st.renderSeq
	return tea.Tick(RenderDebounce, func(time.Time) tea.Msg {
		return renderRequestMsg{paneID: id, seq: seq}
	})
}

func (m *Model) handleRenderRequest(msg renderRequestMsg) tea.Cmd {
	st, ok := m.panes[msg.paneID]
	if !ok || msg.seq != st.renderSeq || st.note == nil {
		return nil
	}
	return renderNoteCmd(m.renderer, msg.paneID, msg.seq, st.viewKey, *st.note, st.headings, st.viewport.Width)
}

// renderNoteCmd renders on a background goroutine and locates the headings
// in the output so the TOC can scroll to them.
func renderNoteCmd(r *markdown.Renderer, id workspace.PaneID, seq int, viewKey string, note catalog.Note, headings []workspace.Heading, width int) tea.Cmd {
	return func() tea.Msg {
		bucket := markdown.WidthBucket(width)
		content := r.RenderNote(note, bucket)
		return renderResultMsg{
			paneID:  id,
			seq:     seq,
			viewKey: viewKey,
			width:   bucket,
			content: content,
			anchors: markdown.LocateHeadings(content, headings),
		}
	}
}

func (m *Model) handleRenderResult(msg renderResultMsg) tea.Cmd {
	st, ok := m.panes[msg.paneID]
	if !ok {
		appLog.Debug("drop render for closed pane", "pane", msg.paneID)
		return nil
	}
	if msg.seq != st.renderSeq || msg.viewKey != st.viewKey {
		return nil
	}
	st.rendering = false
	st.rendered = msg.content
	st.renderWidth = msg.width
	st.refreshViewport()
	m.ws.RegisterAnchors(msg.paneID, msg.anchors)

	if st.pendingHeading == "" {
		return nil
	}
	headingID := st.pendingHeading
	st.pendingHeading = ""
	line, found := msg.anchors[headingID]
	if !found {
		m.setStatusWarning("Heading not found in note", "heading", headingID)
		return nil
	}
	return m.highlightAnchor(workspace.Anchor{PaneID: msg.paneID, HeadingID: headingID, Line: line})
}

// highlightAnchor scrolls a pane to a rendered heading and highlights it for
// HighlightDuration.
func (m *Model) highlightAnchor(anchor workspace.Anchor) tea.Cmd {
	st, ok := m.panes[anchor.PaneID]
	if !ok {
		return nil
	}
	st.highlightID = anchor.HeadingID
	st.highlightLine = anchor.Line
	st.highlightSeq++
	st.refreshViewport()
	st.scrollToLine(anchor.Line)
	seq := st.highlightSeq
	id := anchor.PaneID
	return tea.Tick(HighlightDuration, func(time.Time) tea.Msg {
		return highlightExpiredMsg{paneID: id, seq: seq}
	})
}

func (m *Model) handleHighlightExpired(msg highlightExpiredMsg) {
	st, ok := m.panes[msg.paneID]
	if !ok || msg.seq != st.highlightSeq {
		return
	}
	st.highlightID = ""
	st.refreshViewport()
}
