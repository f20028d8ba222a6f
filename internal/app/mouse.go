package app

import (
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/treykane/paneboard/internal/workspace"
)

// wheelLines is how far one wheel notch scrolls a viewer.
const wheelLines = 3

func zonePane(id workspace.PaneID) string { return "pane:" + string(id) }
func zoneSidebarRow(i int) string         { return "side:" + strconv.Itoa(i) }

func zoneNoteRow(id workspace.PaneID, i int) string {
	return "note:" + string(id) + ":" + strconv.Itoa(i)
}

func zoneTOCRow(id workspace.PaneID, i int) string {
	return "toc:" + string(id) + ":" + strconv.Itoa(i)
}

// handleMouse implements divider dragging and click-to-focus. A press on a
// pane border starts a workspace drag session; motion feeds it and release
// ends it. Other presses are resolved through the zones marked in View.
func (m *Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Action {
	case tea.MouseActionRelease:
		if m.ws.Dragging() {
			return m, m.apply(m.ws.PointerUp())
		}
		return m, nil
	case tea.MouseActionMotion:
		if m.ws.Dragging() {
			return m, m.apply(m.ws.PointerMove(float64(msg.X)))
		}
		return m, nil
	case tea.MouseActionPress:
	default:
		return m, nil
	}

	layout := m.calculateLayout()
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		return m, m.scrollAt(layout, msg.X, msg.Y, -1)
	case tea.MouseButtonWheelDown:
		return m, m.scrollAt(layout, msg.X, msg.Y, 1)
	case tea.MouseButtonLeft:
	default:
		return m, nil
	}
	if m.mode != modeBrowse && m.mode != modeEditNote {
		return m, nil
	}
	if divider, ok := layout.dividerAt(msg.X, msg.Y); ok {
		if m.ws.BeginResize(divider, float64(msg.X), float64(layout.PanesWidth)) {
			m.setStatus("Resizing panes")
		}
		return m, nil
	}
	return m, m.handleClick(msg)
}

func (m *Model) inZone(id string, msg tea.MouseMsg) bool {
	if m.zones == nil {
		return false
	}
	info := m.zones.Get(id)
	return info != nil && info.InBounds(msg)
}

func (m *Model) handleClick(msg tea.MouseMsg) tea.Cmd {
	for i := range m.sidebar {
		if m.inZone(zoneSidebarRow(i), msg) {
			m.sidebarCursor = i
			m.focusSidebar = true
			m.syncEditorFocus()
			return m.openSidebarCategory()
		}
	}
	for _, pane := range m.snap.Panes {
		st, ok := m.panes[pane.ID]
		if !ok {
			continue
		}
		if pane.View == workspace.ViewTOC && pane.TOC != nil {
			for i, heading := range pane.TOC.Headings {
				if m.inZone(zoneTOCRow(pane.ID, i), msg) {
					st.cursor = i
					return m.activateHeading(heading)
				}
			}
		}
		if pane.View == workspace.ViewCategory && pane.SelectedItem == nil {
			notes := m.notes[pane.ActiveCategory]
			for i, note := range notes {
				if m.inZone(zoneNoteRow(pane.ID, i), msg) {
					st.cursor = i
					m.focusSidebar = false
					return m.openNote(pane.ID, note, workspace.ModeView)
				}
			}
		}
		if m.inZone(zonePane(pane.ID), msg) {
			return m.focusPane(pane.ID)
		}
	}
	return nil
}

// scrollAt scrolls the pane under the pointer without focusing it.
func (m *Model) scrollAt(layout LayoutDimensions, x, y, direction int) tea.Cmd {
	idx, ok := layout.paneAt(x, y)
	if !ok || idx >= len(m.snap.Panes) {
		return nil
	}
	pane := m.snap.Panes[idx]
	st, ok := m.panes[pane.ID]
	if !ok {
		return nil
	}
	switch {
	case st.editKey != "":
		return nil
	case st.note != nil:
		if direction < 0 {
			st.viewport.LineUp(wheelLines)
		} else {
			st.viewport.LineDown(wheelLines)
		}
	case pane.View == workspace.ViewTOC && pane.TOC != nil:
		st.cursor = clamp(st.cursor+direction, 0, max(0, len(pane.TOC.Headings)-1))
	case pane.View == workspace.ViewCategory:
		st.cursor = clamp(st.cursor+direction, 0, max(0, len(m.notes[pane.ActiveCategory])-1))
	}
	return nil
}
