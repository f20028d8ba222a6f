package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderSidebar draws the category tree. Locked encrypted categories carry a
// padlock until they are unlocked for the session.
func (m *Model) renderSidebar(width, height int) string {
	style := inactivePane
	if m.focusSidebar {
		style = previewPane
	}
	innerW := max(0, width-style.GetHorizontalFrameSize())
	innerH := max(0, height-style.GetVerticalFrameSize())

	header := mutedStyle.Render("Categories")
	if m.focusSidebar {
		header = titleStyle.Render("Categories")
	}
	lines := []string{header}
	rows := max(0, innerH-1)

	if len(m.sidebar) == 0 {
		lines = append(lines, hint("No categories. Press "+m.primaryActionKey(actionNewCategory, "c")+" to add one.", innerW))
	} else {
		m.sidebarOffset = adjustOffset(m.sidebarCursor, m.sidebarOffset, rows)
		end := min(len(m.sidebar), m.sidebarOffset+rows)
		for i := m.sidebarOffset; i < end; i++ {
			lines = append(lines, m.zones.Mark(zoneSidebarRow(i), m.sidebarLine(i, innerW)))
		}
	}

	content := padBlock(strings.Join(lines, "\n"), innerW, innerH)
	return style.Width(width - style.GetHorizontalBorderSize()).Render(content)
}

func (m *Model) sidebarLine(i, width int) string {
	row := m.sidebar[i]
	c := row.category
	hex := ""
	if c.Color != nil {
		hex = c.Color.Hex
	}
	lock := ""
	if m.guard.NeedsChallenge(c.ID, c.Encrypted()) {
		lock = " 🔒"
	}
	indent := strings.Repeat("  ", row.depth)
	nameWidth := max(0, width-lipgloss.Width(indent)-2-lipgloss.Width(lock))
	name := truncatePlain(c.Name, nameWidth)

	if i == m.sidebarCursor {
		text := indent + "  " + name
		if m.focusSidebar {
			return selectedStyle.Render(padBlock(text+lock, width, 1))
		}
		return titleStyle.Render(text) + lockedStyle.Render(lock)
	}
	return indent + swatch(hex) + " " + name + lockedStyle.Render(lock)
}
