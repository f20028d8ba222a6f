package app

import (
	"sort"
	"strings"

	"github.com/treykane/paneboard/internal/catalog"
)

// sidebarRow is one line of the category sidebar.
type sidebarRow struct {
	category catalog.Category
	depth    int
}

// buildSidebar flattens the category forest depth-first, children sorted by
// name under their parent. Categories whose parent is unknown are shown at
// the top level.
func buildSidebar(categories []catalog.Category) []sidebarRow {
	known := make(map[string]bool, len(categories))
	for _, c := range categories {
		known[c.ID] = true
	}
	children := map[string][]catalog.Category{}
	for _, c := range categories {
		parent := c.ParentID
		if !known[parent] {
			parent = ""
		}
		children[parent] = append(children[parent], c)
	}
	for _, list := range children {
		sort.SliceStable(list, func(i, j int) bool {
			return strings.ToLower(list[i].Name) < strings.ToLower(list[j].Name)
		})
	}

	rows := make([]sidebarRow, 0, len(categories))
	seen := map[string]bool{}
	var walk func(parent string, depth int)
	walk = func(parent string, depth int) {
		for _, c := range children[parent] {
			if seen[c.ID] {
				continue
			}
			seen[c.ID] = true
			rows = append(rows, sidebarRow{category: c, depth: depth})
			walk(c.ID, depth+1)
		}
	}
	walk("", 0)
	return rows
}

// setCategories installs a fresh category list and keeps the sidebar cursor
// on the same category when it still exists.
func (m *Model) setCategories(categories []catalog.Category) {
	selected := ""
	if row, ok := m.sidebarRow(); ok {
		selected = row.category.ID
	}
	m.categories = categories
	m.sidebar = buildSidebar(categories)
	m.sidebarCursor = 0
	for i, row := range m.sidebar {
		if row.category.ID == selected {
			m.sidebarCursor = i
			break
		}
	}
}

func (m *Model) sidebarRow() (sidebarRow, bool) {
	if m.sidebarCursor < 0 || m.sidebarCursor >= len(m.sidebar) {
		return sidebarRow{}, false
	}
	return m.sidebar[m.sidebarCursor], true
}

func (m *Model) moveSidebarCursor(delta int) {
	if len(m.sidebar) == 0 {
		m.sidebarCursor = 0
		return
	}
	m.sidebarCursor = clamp(m.sidebarCursor+delta, 0, len(m.sidebar)-1)
}

// adjustOffset keeps cursor inside a window of height rows.
func adjustOffset(cursor, offset, height int) int {
	if height <= 0 {
		return 0
	}
	if cursor < offset {
		return cursor
	}
	if cursor >= offset+height {
		return cursor - height + 1
	}
	return max(0, offset)
}

// categoryName resolves an id for display.
func (m *Model) categoryName(id string) string {
	if c, ok := catalog.FindCategory(m.categories, id); ok {
		return c.Name
	}
	return ""
}
