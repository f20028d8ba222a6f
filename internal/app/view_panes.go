package app

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/treykane/paneboard/internal/catalog"
	"github.com/treykane/paneboard/internal/workspace"
)

// renderPane draws one workspace pane at its outer size and marks it as a
// click zone.
func (m *Model) renderPane(pane workspace.Pane, width, height int) string {
	st, ok := m.panes[pane.ID]
	frameW := paneStyle.GetHorizontalFrameSize()
	frameH := paneStyle.GetVerticalFrameSize()
	if !ok || width <= frameW || height <= frameH {
		return padBlock("", width, height)
	}
	active := pane.ID == m.snap.ActiveID && !m.focusSidebar
	frame := paneFrame(active, pane.View == workspace.ViewNotes, pane.View == workspace.ViewTOC)
	innerW, innerH := paneInner(width, height)

	title := m.paneLabel(pane)
	if st.dirty {
		title += " *"
	}
	title = truncatePlain(title, innerW)
	if active {
		title = titleStyle.Render(title)
	} else {
		title = mutedStyle.Render(title)
	}

	body := m.paneBody(pane, st, innerW, innerH, active)
	content := padBlock(title+"\n"+body, innerW, innerH+1)
	box := frame.Width(width - frame.GetHorizontalBorderSize()).Render(content)
	return m.zones.Mark(zonePane(pane.ID), box)
}

func (m *Model) paneBody(pane workspace.Pane, st *paneState, width, height int, active bool) string {
	switch pane.View {
	case workspace.ViewCategory:
		switch {
		case pane.ActiveCategory == "" && pane.SelectedItem == nil:
			return hint("Pick a category in the sidebar and press enter.", width)
		case pane.SelectedItem != nil:
			return m.renderViewer(pane, st, width)
		default:
			return m.renderNoteList(pane, st, width, height, active)
		}
	case workspace.ViewNotes:
		if st.editorLoading {
			return m.spinner.View() + " Loading note..."
		}
		if st.saving {
			return m.spinner.View() + " Saving..."
		}
		if st.editBase.Kind == catalog.KindMarkdown {
			return highlightFencedCode(st.editor.View())
		}
		return st.editor.View()
	case workspace.ViewTOC:
		return m.renderTOC(pane, st, width, height, active)
	case workspace.ViewAI:
		name := m.categoryName(pane.ActiveCategory)
		if name == "" {
			name = "all categories"
		}
		return hint(fmt.Sprintf("Assistant for %s.\n\nChat completion is not available in this build. Press enter to go back to the category.", name), width)
	default:
		return hint("Empty pane. Press enter to browse categories, or x to close it.", width)
	}
}

func (m *Model) renderViewer(pane workspace.Pane, st *paneState, width int) string {
	item := pane.SelectedItem
	if item.Type == workspace.ItemImage {
		return hint("Images are not stored by paneboard.", width)
	}
	if item.Type != workspace.ItemNote && item.Type != workspace.ItemPDF {
		return hint(fmt.Sprintf("Cannot display %s items.", item.Type), width)
	}
	if st.loading || (st.rendering && st.rendered == "") {
		return m.spinner.View() + " Rendering..."
	}
	if st.note == nil {
		return hint("Note unavailable.", width)
	}
	return st.viewport.View()
}

func (m *Model) renderNoteList(pane workspace.Pane, st *paneState, width, height int, active bool) string {
	notes, ok := m.notes[pane.ActiveCategory]
	if !ok {
		if m.notesLoading[pane.ActiveCategory] {
			return m.spinner.View() + " Loading notes..."
		}
		return ""
	}
	if len(notes) == 0 {
		return hint(fmt.Sprintf("No notes yet. Press %s to create one.", m.primaryActionKey(actionNewNote, "n")), width)
	}
	st.cursor = clamp(st.cursor, 0, len(notes)-1)
	st.offset = adjustOffset(st.cursor, st.offset, height)
	end := min(len(notes), st.offset+height)

	lines := make([]string, 0, end-st.offset)
	for i := st.offset; i < end; i++ {
		line := noteRow(notes[i], width)
		if i == st.cursor && active {
			line = selectedStyle.Render(padBlock(line, width, 1))
		}
		lines = append(lines, m.zones.Mark(zoneNoteRow(pane.ID, i), line))
	}
	return strings.Join(lines, "\n")
}

// noteRow formats a list entry: kind badge, title, and date when it fits.
func noteRow(note catalog.Note, width int) string {
	badge := " "
	switch note.Kind {
	case catalog.KindScript:
		badge = "$"
	case catalog.KindPDF:
		badge = "▤"
	}
	date := ""
	if !note.UpdatedAt.IsZero() {
		date = note.UpdatedAt.Local().Format("2006-01-02")
	}
	titleWidth := width - 2
	if date != "" && width >= 30 {
		titleWidth = width - 2 - len(date) - 1
	} else {
		date = ""
	}
	title := truncatePlain(note.Title, max(0, titleWidth))
	line := badge + " " + title
	if date != "" {
		gap := max(1, width-len([]rune(badge))-1-runewidth.StringWidth(title)-len(date))
		line += strings.Repeat(" ", gap) + mutedStyle.Render(date)
	}
	return line
}

// renderTOC draws the headings as an indented tree, one row per heading.
func (m *Model) renderTOC(pane workspace.Pane, st *paneState, width, height int, active bool) string {
	if pane.TOC == nil || len(pane.TOC.Headings) == 0 {
		return hint("No headings.", width)
	}
	header := "From: " + m.sourceLabel(pane.TOC.SourcePaneID)
	rows := max(0, height-2)
	headings := pane.TOC.Headings
	st.cursor = clamp(st.cursor, 0, len(headings)-1)
	st.offset = adjustOffset(st.cursor, st.offset, rows)
	end := min(len(headings), st.offset+rows)

	lines := []string{mutedStyle.Render(truncatePlain(header, width)), ""}
	minLevel := minHeadingLevel(headings)
	for i := st.offset; i < end; i++ {
		h := headings[i]
		indent := strings.Repeat("  ", max(0, h.Level-minLevel))
		line := truncatePlain(indent+"• "+h.Text, width)
		if i == st.cursor && active {
			line = selectedStyle.Render(padBlock(line, width, 1))
		}
		lines = append(lines, m.zones.Mark(zoneTOCRow(pane.ID, i), line))
	}
	return strings.Join(lines, "\n")
}

func minHeadingLevel(headings []workspace.Heading) int {
	level := 6
	for _, h := range headings {
		level = min(level, h.Level)
	}
	return level
}

// sourceLabel names the pane a TOC was built from.
func (m *Model) sourceLabel(id workspace.PaneID) string {
	pane, ok := m.snap.Pane(id)
	if !ok {
		return "closed pane"
	}
	return fmt.Sprintf("%s (pane %d)", m.paneLabel(pane), m.snap.Index(id)+1)
}

// hint renders muted, word-wrapped guidance text.
func hint(text string, width int) string {
	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		lines = append(lines, wrap(paragraph, width)...)
	}
	return mutedStyle.Render(strings.Join(lines, "\n"))
}
