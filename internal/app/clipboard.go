package app

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/treykane/paneboard/internal/workspace"
)

// copyToClipboard writes text to the system clipboard and reports what was
// copied in the status bar.
func (m *Model) copyToClipboard(text, what string) {
	if text == "" {
		m.setStatus("Nothing to copy")
		return
	}
	if err := clipboard.WriteAll(text); err != nil {
		m.setStatusError("Clipboard copy failed", err)
		return
	}
	m.setStatus(fmt.Sprintf("Copied %s (%d chars)", what, len([]rune(text))))
}

// copyPaneContent copies whatever the pane is focused on: the note or
// editor buffer, the highlighted list entry, or the selected heading.
func (m *Model) copyPaneContent(pane workspace.Pane, st *paneState) {
	switch {
	case st.editKey != "":
		m.copyToClipboard(st.editor.Value(), "editor buffer")
	case st.note != nil:
		m.copyToClipboard(st.note.Content, "note content")
	case pane.View == workspace.ViewTOC && pane.TOC != nil && st.cursor < len(pane.TOC.Headings):
		h := pane.TOC.Headings[st.cursor]
		m.copyToClipboard(strings.Repeat("#", h.Level)+" "+h.Text, "heading")
	case pane.View == workspace.ViewCategory:
		notes := m.notes[pane.ActiveCategory]
		if st.cursor < len(notes) {
			m.copyToClipboard(notes[st.cursor].Title, "note title")
			return
		}
		m.setStatus("Nothing to copy")
	default:
		m.setStatus("Nothing to copy")
	}
}
