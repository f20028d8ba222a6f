package app

import (
	"testing"

	"github.com/treykane/paneboard/internal/workspace"
)

// openPlanViewer shows work/plan.md in P1 with its headings loaded.
func openPlanViewer(t *testing.T) (*Model, *fakeCatalog) {
	t.Helper()
	cat := newFakeCatalog()
	m := newTestModel(t, cat, nil)
	openCategory(t, m, "work")
	loadNotes(t, m, cat, "work")
	m.focusSidebar = false
	m.handleBrowseKey("j")
	m.handleBrowseKey("enter")
	loadNote(t, m, cat, "P1", "work/plan.md", false)
	return m, cat
}

func TestOpenTOCInsertsPaneAfterSource(t *testing.T) {
	m, _ := openPlanViewer(t)

	m.handleBrowseKey("t")

	if len(m.snap.Panes) != 2 {
		t.Fatalf("expected a TOC pane to be added, got %d panes", len(m.snap.Panes))
	}
	toc := m.snap.Panes[1]
	if toc.View != workspace.ViewTOC || m.snap.ActiveID != toc.ID {
		t.Fatalf("expected the active second pane to be the TOC, got %v active %q", toc.View, m.snap.ActiveID)
	}
	if toc.TOC == nil || toc.TOC.SourcePaneID != "P1" || len(toc.TOC.Headings) != 3 {
		t.Fatalf("unexpected TOC data %+v", toc.TOC)
	}

	m.handleBrowseKey("t")
	if len(m.snap.Panes) != 2 || m.status != "Already showing contents" {
		t.Fatalf("expected no second TOC, got %d panes status %q", len(m.snap.Panes), m.status)
	}
}

func TestTOCActivationFocusesRenderedAnchor(t *testing.T) {
	m, _ := openPlanViewer(t)
	st := m.panes["P1"]
	goals := st.headings[1]
	m.handleRenderResult(renderResultMsg{
		paneID:  "P1",
		seq:     st.renderSeq,
		viewKey: st.viewKey,
		width:   st.renderWidth,
		content: "Plan\n\nGoals\n\ntext\n\nRisks\n\nmore",
		anchors: map[string]int{st.headings[0].ID: 0, goals.ID: 2, st.headings[2].ID: 6},
	})

	m.handleBrowseKey("t")
	m.handleBrowseKey("j")
	m.handleBrowseKey("enter")

	if m.snap.ActiveID != "P1" {
		t.Fatalf("expected focus to move to the rendered pane, got %q", m.snap.ActiveID)
	}
	if st.highlightID != goals.ID || st.highlightLine != 2 {
		t.Fatalf("expected %q highlighted at line 2, got %q at %d", goals.ID, st.highlightID, st.highlightLine)
	}
}

func TestTOCActivationWaitsForRender(t *testing.T) {
	m, _ := openPlanViewer(t)
	st := m.panes["P1"]
	risks := st.headings[2]

	m.handleBrowseKey("t")
	m.handleBrowseKey("j")
	m.handleBrowseKey("j")
	m.handleBrowseKey("enter")

	if m.snap.ActiveID != "P1" {
		t.Fatalf("expected the source pane to be focused, got %q", m.snap.ActiveID)
	}
	if st.pendingHeading != risks.ID {
		t.Fatalf("expected %q to wait for the render, got %q", risks.ID, st.pendingHeading)
	}

	m.handleRenderResult(renderResultMsg{
		paneID:  "P1",
		seq:     st.renderSeq,
		viewKey: st.viewKey,
		content: "Plan\n\nGoals\n\ntext\n\nRisks\n\nmore",
		anchors: map[string]int{risks.ID: 6},
	})
	if st.pendingHeading != "" || st.highlightID != risks.ID {
		t.Fatalf("expected the pending heading to be highlighted, got pending %q highlight %q", st.pendingHeading, st.highlightID)
	}
}

func TestTOCActivationMovesEditorCursor(t *testing.T) {
	cat := newFakeCatalog()
	m := newTestModel(t, cat, nil)
	openCategory(t, m, "work")
	loadNotes(t, m, cat, "work")
	m.focusSidebar = false
	m.handleBrowseKey("j")
	m.handleBrowseKey("e")
	loadNote(t, m, cat, "P1", "work/plan.md", true)

	m.handleKey(keyPress("ctrl+t"))
	if toc, ok := m.snap.TOCPane(); !ok || m.snap.ActiveID != toc.ID {
		t.Fatal("expected the TOC pane to open and take focus")
	}
	if m.mode != modeBrowse {
		t.Fatalf("expected browse mode in the TOC, got %v", m.mode)
	}
	m.handleBrowseKey("j")
	m.handleBrowseKey("j")
	m.handleBrowseKey("enter")

	if m.snap.ActiveID != "P1" || m.mode != modeEditNote {
		t.Fatalf("expected the editor to regain focus, got %q mode %v", m.snap.ActiveID, m.mode)
	}
	if got := m.panes["P1"].editor.Line(); got != 6 {
		t.Fatalf("expected cursor on the Risks line, got %d", got)
	}
}

func TestLiveTOCFollowsEditor(t *testing.T) {
	cat := newFakeCatalog()
	m := newTestModel(t, cat, nil)
	openCategory(t, m, "work")
	loadNotes(t, m, cat, "work")
	m.focusSidebar = false
	m.handleBrowseKey("j")
	m.handleBrowseKey("e")
	loadNote(t, m, cat, "P1", "work/plan.md", true)
	m.handleKey(keyPress("ctrl+t"))
	m.handleBrowseKey("shift+tab")

	st := m.panes["P1"]
	st.editor.SetValue("# Only\n")
	m.syncLiveTOC("P1", st.editor.Value())

	toc, ok := m.snap.TOCPane()
	if !ok || len(toc.TOC.Headings) != 1 || toc.TOC.Headings[0].Text != "Only" {
		t.Fatalf("expected TOC to follow the buffer, got %+v", toc.TOC)
	}
	if m.snap.ActiveID != "P1" {
		t.Fatalf("expected update not to steal focus, got %q", m.snap.ActiveID)
	}
}
