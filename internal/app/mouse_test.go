package app

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestDividerDrag(t *testing.T) {
	m := newTestModel(t, newFakeCatalog(), nil)
	m.focusSidebar = false
	m.handleBrowseKey("v")
	layout := m.calculateLayout()
	border := layout.PaneX[1]
	y := layout.Top + 2
	before := m.snap.Ratios[0]

	m.handleMouse(tea.MouseMsg{X: border, Y: y, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	if !m.ws.Dragging() {
		t.Fatal("expected a press on the border to start a drag")
	}
	m.handleMouse(tea.MouseMsg{X: border + 10, Y: y, Action: tea.MouseActionMotion})
	if m.snap.Ratios[0] <= before {
		t.Fatalf("expected the left pane to grow from %v, got %v", before, m.snap.Ratios[0])
	}
	m.handleMouse(tea.MouseMsg{X: border + 10, Y: y, Action: tea.MouseActionRelease})
	if m.ws.Dragging() {
		t.Fatal("expected release to end the drag")
	}

	sum := 0.0
	for _, r := range m.snap.Ratios {
		sum += r
	}
	if sum < 0.999 || sum > 1.001 {
		t.Fatalf("expected ratios to sum to 1, got %v", sum)
	}

	after := m.snap.Ratios[0]
	m.handleMouse(tea.MouseMsg{X: border + 20, Y: y, Action: tea.MouseActionMotion})
	if m.snap.Ratios[0] != after {
		t.Fatal("expected motion without a drag to leave ratios alone")
	}
}

func TestWheelScrollsPaneUnderPointer(t *testing.T) {
	cat := newFakeCatalog()
	m := newTestModel(t, cat, nil)
	openCategory(t, m, "work")
	loadNotes(t, m, cat, "work")
	layout := m.calculateLayout()

	m.handleMouse(tea.MouseMsg{X: layout.PaneX[0] + 2, Y: layout.Top + 2, Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress})
	if got := m.panes["P1"].cursor; got != 1 {
		t.Fatalf("expected wheel to move the list cursor, got %d", got)
	}
	if !m.focusSidebar {
		t.Fatal("expected wheel not to move focus")
	}
}
