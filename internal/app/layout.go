// layout.go centralizes the terminal layout calculations.
//
// The screen is a breadcrumb row, then a horizontal strip made of the
// category sidebar followed by every workspace pane, then the footer. Pane
// widths come from the workspace ratios; the last pane absorbs rounding so
// the strip always fills the terminal.
package app

import (
	"math"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/treykane/paneboard/internal/config"
	"github.com/treykane/paneboard/internal/markdown"
	"github.com/treykane/paneboard/internal/workspace"
)

// LayoutDimensions holds all calculated layout dimensions for the UI.
type LayoutDimensions struct {
	SidebarWidth  int   // width of the category sidebar (including border)
	PanesX        int   // first column of the pane strip
	PanesWidth    int   // total width shared by the panes
	PaneX         []int // first column of each pane, index-aligned with the snapshot
	PaneWidths    []int // outer width of each pane
	Top           int   // first row of the sidebar and panes
	ContentHeight int   // rows available to the sidebar and panes
}

// calculateLayout computes all UI dimensions from the terminal size and the
// current workspace ratios.
func (m *Model) calculateLayout() LayoutDimensions {
	sidebar := m.sidebarWidth()
	panesWidth := max(0, m.width-sidebar)
	contentHeight := max(0, m.height-BreadcrumbRows-m.footerHeightForWidth(m.width))
	widths := paneColumns(m.snap.Ratios, panesWidth)
	xs := make([]int, len(widths))
	x := sidebar
	for i, w := range widths {
		xs[i] = x
		x += w
	}
	return LayoutDimensions{
		SidebarWidth:  sidebar,
		PanesX:        sidebar,
		PanesWidth:    panesWidth,
		PaneX:         xs,
		PaneWidths:    widths,
		Top:           BreadcrumbRows,
		ContentHeight: contentHeight,
	}
}

// sidebarWidth is the configured width, limited to a third of the terminal.
func (m *Model) sidebarWidth() int {
	width := m.cfg.SidebarWidth
	if width <= 0 {
		width = config.DefaultSidebarWidth
	}
	return max(0, min(width, m.width/3))
}

// paneColumns turns ratios into whole columns summing to total.
func paneColumns(ratios []float64, total int) []int {
	widths := make([]int, len(ratios))
	if len(ratios) == 0 || total <= 0 {
		return widths
	}
	used := 0
	for i, r := range ratios[:len(ratios)-1] {
		widths[i] = int(math.Round(r * float64(total)))
		used += widths[i]
	}
	widths[len(widths)-1] = max(0, total-used)
	return widths
}

// footerHeightForWidth returns how many rows should be reserved for the footer.
// It prefers FooterMinRows and expands to FooterMaxRows when the footer
// segments cannot fit without dropping content.
func (m *Model) footerHeightForWidth(width int) int {
	_, fit := m.buildStatusRows(width, FooterMinRows)
	if fit {
		return FooterMinRows
	}
	return FooterMaxRows
}

// paneInner returns the content area of a pane of the given outer size: the
// frame and the pane title row are taken off.
func paneInner(width, height int) (int, int) {
	w := max(0, width-paneStyle.GetHorizontalFrameSize())
	h := max(0, height-paneStyle.GetVerticalFrameSize()-1)
	return w, h
}

// layoutPanes sizes every pane's widgets and requests a re-render where the
// width bucket changed.
func (m *Model) layoutPanes() tea.Cmd {
	if m.width <= 0 || m.height <= 0 {
		return nil
	}
	layout := m.calculateLayout()
	var cmds []tea.Cmd
	for i, pane := range m.snap.Panes {
		st, ok := m.panes[pane.ID]
		if !ok || i >= len(layout.PaneWidths) {
			continue
		}
		w, h := paneInner(layout.PaneWidths[i], layout.ContentHeight)
		st.viewport.Width = w
		st.viewport.Height = h
		st.editor.SetWidth(w)
		st.editor.SetHeight(h)
		if st.note != nil && markdown.WidthBucket(w) != st.renderWidth {
			cmds = append(cmds, m.requestRender(pane.ID))
		}
	}
	return tea.Batch(cmds...)
}

// dividerAt returns the divider under column x, if any. Divider i sits on
// the border between pane i and pane i+1 and can be grabbed on either side.
func (l LayoutDimensions) dividerAt(x, y int) (int, bool) {
	if y < l.Top || y >= l.Top+l.ContentHeight {
		return 0, false
	}
	for i := 1; i < len(l.PaneX); i++ {
		border := l.PaneX[i]
		if x >= border-DividerGrabColumns && x <= border+DividerGrabColumns-1 {
			return i - 1, true
		}
	}
	return 0, false
}

// paneAt returns the index of the pane under column x.
func (l LayoutDimensions) paneAt(x, y int) (int, bool) {
	if y < l.Top || y >= l.Top+l.ContentHeight {
		return 0, false
	}
	for i, px := range l.PaneX {
		if x >= px && x < px+l.PaneWidths[i] {
			return i, true
		}
	}
	return 0, false
}

// activeDivider is the divider a keyboard resize of the active pane moves:
// its right border, or the left one for the last pane. grow is the pointer
// direction that widens the active pane.
func activeDivider(snap workspace.Snapshot) (divider int, grow float64, ok bool) {
	idx := snap.Index(snap.ActiveID)
	switch {
	case idx < 0 || len(snap.Panes) < 2:
		return 0, 0, false
	case idx < len(snap.Panes)-1:
		return idx, 1, true
	default:
		return idx - 1, -1, true
	}
}
