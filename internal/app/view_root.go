package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/treykane/paneboard/internal/catalog"
	"github.com/treykane/paneboard/internal/workspace"
)

// View draws the full UI: breadcrumb, sidebar and panes, status footer.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	footerHeight := m.footerHeightForWidth(m.width)
	layout := m.calculateLayout()

	var row string
	switch {
	case m.showHelp:
		row = m.renderHelp(m.width, layout.ContentHeight)
	case m.prompting():
		row = m.renderPrompt(m.width, layout.ContentHeight)
	default:
		parts := make([]string, 0, len(m.snap.Panes)+1)
		if layout.SidebarWidth > 0 {
			parts = append(parts, m.renderSidebar(layout.SidebarWidth, layout.ContentHeight))
		}
		for i, pane := range m.snap.Panes {
			if i >= len(layout.PaneWidths) {
				break
			}
			parts = append(parts, m.renderPane(pane, layout.PaneWidths[i], layout.ContentHeight))
		}
		row = lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	}
	row = padBlock(row, m.width, layout.ContentHeight)

	view := m.renderBreadcrumb(m.width) + "\n" + row + "\n" + m.renderStatus(m.width, footerHeight)
	return m.zones.Scan(padBlock(view, m.width, m.height))
}

func (m *Model) prompting() bool {
	switch m.mode {
	case modeNewNote, modeNewCategory, modeUnlock:
		return true
	}
	return false
}

// renderBreadcrumb shows where the active pane is: the category path from
// the root, then the selected or edited item.
func (m *Model) renderBreadcrumb(width int) string {
	pane := m.snap.Active()
	parts := catalog.CategoryPath(m.categories, pane.ActiveCategory)
	switch {
	case pane.EditingNote != nil:
		title := pane.EditingNote.Title
		if title == "" {
			title = "Untitled"
		}
		parts = append(parts, title)
	case pane.SelectedItem != nil && pane.SelectedItem.Title != "":
		parts = append(parts, pane.SelectedItem.Title)
	}
	crumb := strings.Join(parts, " › ")
	if crumb == "" {
		crumb = "paneboard"
	}
	index := m.snap.Index(pane.ID) + 1
	suffix := mutedStyle.Render(fmt.Sprintf("  %s · pane %d/%d", pane.View, index, len(m.snap.Panes)))
	if m.ws.Dragging() {
		suffix += mutedStyle.Render(" · resizing")
	}
	return truncate(" "+crumbStyle.Render(crumb)+suffix, width)
}

func (m *Model) renderPrompt(width, height int) string {
	title := "New note"
	switch m.mode {
	case modeNewCategory:
		title = "New category"
		if m.promptCategory != "" {
			title += " in " + m.categoryName(m.promptCategory)
		}
	case modeUnlock:
		title = "Unlock " + m.promptCategory
	case modeNewNote:
		title = "New note in " + m.categoryName(m.promptCategory)
	}
	boxWidth := clamp(width/2, min(24, width), max(24, width-4))
	m.input.Width = max(1, boxWidth-6)
	body := titleStyle.Render(truncatePlain(title, boxWidth-4)) + "\n\n" + m.input.View() + "\n\n" +
		mutedStyle.Render("Enter confirm · Esc cancel")
	box := promptStyle.Width(max(1, boxWidth-2)).Render(body)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

func (m *Model) renderHelp(width, height int) string {
	m.help.Width = max(0, width-4)
	lines := []string{
		titleStyle.Render("Keyboard Shortcuts"),
		"",
		m.help.FullHelpView(helpKeys{m: m}.FullHelp()),
		"",
		titleStyle.Render("Editor"),
		"  Ctrl+S save · Esc cancel · Ctrl+Z / Ctrl+Y undo and redo",
		"  Ctrl+T contents · Ctrl+N / Shift+Tab switch pane",
		"",
		titleStyle.Render("Mouse"),
		"  Click a pane to focus it · drag a pane border to resize · wheel scrolls",
		"",
		mutedStyle.Render("Press any key to close"),
	}
	return paneStyle.Width(max(1, width-2)).Height(max(1, height-2)).Render(strings.Join(lines, "\n"))
}

// paneLabel names what a pane shows, for titles and status lines.
func (m *Model) paneLabel(pane workspace.Pane) string {
	switch pane.View {
	case workspace.ViewCategory:
		if pane.SelectedItem != nil && pane.SelectedItem.Title != "" {
			return pane.SelectedItem.Title
		}
		if name := m.categoryName(pane.ActiveCategory); name != "" {
			return name
		}
		return "Categories"
	case workspace.ViewNotes:
		if pane.EditingNote != nil && pane.EditingNote.Title != "" {
			if pane.EditingNote.Mode == workspace.ModeCreate {
				return "New: " + pane.EditingNote.Title
			}
			return "Editing: " + pane.EditingNote.Title
		}
		return "Editor"
	case workspace.ViewTOC:
		return "Contents"
	case workspace.ViewAI:
		return "Assistant"
	default:
		return "Empty"
	}
}
