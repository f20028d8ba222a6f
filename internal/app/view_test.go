package app

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestViewRendersWorkspace(t *testing.T) {
	cat := newFakeCatalog()
	m := newTestModel(t, cat, nil)
	openCategory(t, m, "work")
	loadNotes(t, m, cat, "work")
	m.focusSidebar = false
	m.handleBrowseKey("v")

	view := ansi.Strip(m.View())
	for _, want := range []string{"Categories", "Work", "Vault", "Plan", "Notes", "2 panes"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected view to contain %q:\n%s", want, view)
		}
	}
	lines := strings.Split(view, "\n")
	if len(lines) != m.height {
		t.Fatalf("expected %d rows, got %d", m.height, len(lines))
	}
}

func TestViewBeforeSizing(t *testing.T) {
	m := New(Options{Catalog: newFakeCatalog()})
	if got := m.View(); got != "Loading..." {
		t.Fatalf("unexpected view %q", got)
	}
}

func TestHelpOverlayToggles(t *testing.T) {
	m := newTestModel(t, newFakeCatalog(), nil)
	m.handleBrowseKey("?")
	if !m.showHelp {
		t.Fatal("expected help to open")
	}
	if view := ansi.Strip(m.View()); !strings.Contains(view, "split") {
		t.Fatalf("expected help to list bindings:\n%s", view)
	}
	m.handleBrowseKey("j")
	if m.showHelp {
		t.Fatal("expected any key to close help")
	}
}
