package app

import (
	"context"
	"errors"
	"os"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/treykane/paneboard/internal/unlock"
	"github.com/treykane/paneboard/internal/workspace"
)

func runCmd(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	return cmd()
}

func typeText(m *Model, text string) {
	for _, r := range text {
		m.handleKey(keyPress(string(r)))
	}
}

func TestResultsForClosedPaneAreDropped(t *testing.T) {
	cat := newFakeCatalog()
	m := newTestModel(t, cat, nil)
	m.focusSidebar = false
	m.handleBrowseKey("v")
	m.handleBrowseKey("x")
	before := m.ws.Snapshot()

	m.handleNoteLoaded(noteLoadedMsg{paneID: "P2", noteID: "work/plan.md", note: cat.notes["work/plan.md"]})
	m.handleRenderResult(renderResultMsg{paneID: "P2", content: "x", anchors: map[string]int{"plan": 0}})
	m.handleHighlightExpired(highlightExpiredMsg{paneID: "P2"})

	if _, ok := m.panes["P2"]; ok {
		t.Fatal("expected no state to be recreated for a closed pane")
	}
	after := m.ws.Snapshot()
	if len(after.Panes) != len(before.Panes) || after.ActiveID != before.ActiveID {
		t.Fatalf("expected workspace to be unchanged, got %+v", after)
	}
	if _, ok := m.ws.ActivateHeading("plan"); ok {
		t.Fatal("expected no anchors to be registered for a closed pane")
	}
}

func TestStaleRenderIsIgnored(t *testing.T) {
	cat := newFakeCatalog()
	m := newTestModel(t, cat, nil)
	openCategory(t, m, "work")
	loadNotes(t, m, cat, "work")
	m.focusSidebar = false
	m.handleBrowseKey("enter")
	loadNote(t, m, cat, "P1", "work/notes.md", false)
	st := m.panes["P1"]

	m.handleRenderResult(renderResultMsg{paneID: "P1", seq: st.renderSeq - 1, viewKey: st.viewKey, content: "old"})
	if st.rendered != "" {
		t.Fatalf("expected stale render to be dropped, got %q", st.rendered)
	}
	m.handleRenderResult(renderResultMsg{paneID: "P1", seq: st.renderSeq, viewKey: st.viewKey, width: 80, content: "new"})
	if st.rendered != "new" || st.rendering {
		t.Fatalf("expected render to land, got %q rendering=%v", st.rendered, st.rendering)
	}
}

func TestNotesListFromOldVersionIsDropped(t *testing.T) {
	cat := newFakeCatalog()
	m := newTestModel(t, cat, nil)
	openCategory(t, m, "work")
	version := m.listVersion
	m.invalidateLists()

	notes, _ := cat.ListNotes(context.Background(), "work")
	m.handleNotesLoaded(notesLoadedMsg{categoryID: "work", version: version, notes: notes})
	if _, ok := m.notes["work"]; ok {
		t.Fatal("expected a list from before the invalidation to be ignored")
	}
	loadNotes(t, m, cat, "work")
	if len(m.notes["work"]) != 2 {
		t.Fatalf("expected current list to be stored, got %d", len(m.notes["work"]))
	}
}

func TestNoteMissingClearsSelection(t *testing.T) {
	cat := newFakeCatalog()
	m := newTestModel(t, cat, nil)
	openCategory(t, m, "work")
	loadNotes(t, m, cat, "work")
	m.focusSidebar = false
	m.handleBrowseKey("enter")
	delete(cat.notes, "work/notes.md")

	loadNote(t, m, cat, "P1", "work/notes.md", false)
	if m.snap.Active().SelectedItem != nil {
		t.Fatal("expected the selection of a vanished note to be cleared")
	}
	if !m.statusWarn {
		t.Fatal("expected a warning status")
	}
}

func TestUnlockDeniedLeavesPanesUnchanged(t *testing.T) {
	cat := newFakeCatalog()
	m := newTestModel(t, cat, testGuard(t, "open sesame"))
	before := m.ws.Snapshot()

	for i, row := range m.sidebar {
		if row.category.ID == "vault" {
			m.sidebarCursor = i
		}
	}
	m.handleBrowseKey("enter")
	if m.mode != modeUnlock || m.pendingNav == nil {
		t.Fatalf("expected unlock prompt, got mode %v", m.mode)
	}
	typeText(m, "wrong")
	_, cmd := m.handleKey(keyPress("enter"))
	msg := runCmd(t, cmd).(unlockResultMsg)
	if !errors.Is(msg.err, unlock.ErrDenied) {
		t.Fatalf("expected denial, got %v", msg.err)
	}
	m.handleMessage(msg)

	after := m.ws.Snapshot()
	if after.Active().ActiveCategory != before.Active().ActiveCategory {
		t.Fatalf("expected pane to stay put, got category %q", after.Active().ActiveCategory)
	}
	if !m.statusWarn || m.mode != modeBrowse {
		t.Fatalf("expected warning in browse mode, got warn=%v mode=%v", m.statusWarn, m.mode)
	}
}

func TestUnlockSuccessNavigates(t *testing.T) {
	cat := newFakeCatalog()
	m := newTestModel(t, cat, testGuard(t, "open sesame"))
	for i, row := range m.sidebar {
		if row.category.ID == "vault" {
			m.sidebarCursor = i
		}
	}
	m.handleBrowseKey("enter")
	typeText(m, "open sesame")
	_, cmd := m.handleKey(keyPress("enter"))
	m.handleMessage(runCmd(t, cmd))

	if got := m.snap.Active().ActiveCategory; got != "vault" {
		t.Fatalf("expected vault to open, got %q", got)
	}
	// Unlocked for the session: no second challenge.
	m.handleBrowseKey("enter")
	if m.mode == modeUnlock {
		t.Fatal("expected no second challenge")
	}
	m.lockAll()
	m.handleBrowseKey("enter")
	if m.mode != modeUnlock {
		t.Fatal("expected a challenge after locking")
	}
}

func TestUnlockResultAfterPaneClosedIsDiscarded(t *testing.T) {
	cat := newFakeCatalog()
	m := newTestModel(t, cat, testGuard(t, "open sesame"))
	m.focusSidebar = false
	m.handleBrowseKey("v")
	m.focusSidebar = true
	for i, row := range m.sidebar {
		if row.category.ID == "vault" {
			m.sidebarCursor = i
		}
	}
	m.handleBrowseKey("enter")
	typeText(m, "open sesame")
	_, cmd := m.handleKey(keyPress("enter"))

	m.focusSidebar = false
	m.handleBrowseKey("x")
	m.handleMessage(runCmd(t, cmd))

	if len(m.snap.Panes) != 1 || m.snap.Panes[0].ID != "P1" {
		t.Fatalf("expected only P1 to remain, got %+v", m.snap.Panes)
	}
	if got := m.snap.Panes[0].ActiveCategory; got == "vault" {
		t.Fatal("expected the navigation to be discarded")
	}
}

func TestSaveReturnsPaneToCategory(t *testing.T) {
	cat := newFakeCatalog()
	m := newTestModel(t, cat, nil)
	openCategory(t, m, "work")
	loadNotes(t, m, cat, "work")
	m.focusSidebar = false
	m.handleBrowseKey("e")
	loadNote(t, m, cat, "P1", "work/notes.md", true)
	version := m.listVersion

	typeText(m, "x")
	_, cmd := m.handleKey(keyPress("ctrl+s"))
	if !m.panes["P1"].saving {
		t.Fatal("expected pane to be saving")
	}
	m.handleMessage(runCmd(t, cmd))

	pane := m.snap.Active()
	if pane.View != workspace.ViewCategory || pane.SelectedItem == nil || pane.SelectedItem.ID != "work/notes.md" {
		t.Fatalf("expected the saved note in the category view, got %v %+v", pane.View, pane.SelectedItem)
	}
	if pane.EditingNote != nil {
		t.Fatal("expected the editor to be closed")
	}
	if m.listVersion == version {
		t.Fatal("expected list version to change after a save")
	}
	if got := cat.notes["work/notes.md"].Content; got != "xplain\n" {
		t.Fatalf("unexpected stored content %q", got)
	}
	if m.mode != modeBrowse {
		t.Fatalf("expected browse mode, got %v", m.mode)
	}
}

func TestDeleteClearsEveryPaneShowingTheNote(t *testing.T) {
	cat := newFakeCatalog()
	m := newTestModel(t, cat, nil)
	openCategory(t, m, "work")
	loadNotes(t, m, cat, "work")
	m.focusSidebar = false
	m.handleBrowseKey("enter")
	loadNote(t, m, cat, "P1", "work/notes.md", false)
	m.handleBrowseKey("v")

	m.handleBrowseKey("d")
	if m.mode != modeConfirmDelete {
		t.Fatalf("expected delete confirmation, got %v", m.mode)
	}
	_, cmd := m.handleKey(keyPress("y"))
	m.handleMessage(runCmd(t, cmd))

	for _, pane := range m.snap.Panes {
		if pane.SelectedItem != nil {
			t.Fatalf("pane %s still shows %+v", pane.ID, pane.SelectedItem)
		}
	}
	if _, ok := cat.notes["work/notes.md"]; ok {
		t.Fatal("expected the note to be deleted")
	}
}

func TestDraftIsRecoveredAndClearedOnSave(t *testing.T) {
	cat := newFakeCatalog()
	m := newTestModel(t, cat, nil)
	m.draftsDir = t.TempDir()
	if err := m.saveDraft("work/notes.md", "unsaved work\n"); err != nil {
		t.Fatalf("save draft: %v", err)
	}
	openCategory(t, m, "work")
	loadNotes(t, m, cat, "work")
	m.focusSidebar = false
	m.handleBrowseKey("e")
	loadNote(t, m, cat, "P1", "work/notes.md", true)

	st := m.panes["P1"]
	if got := st.editor.Value(); got != "unsaved work\n" {
		t.Fatalf("expected draft content, got %q", got)
	}
	if !st.dirty || !m.statusWarn {
		t.Fatal("expected a dirty buffer and a warning")
	}

	_, cmd := m.handleKey(keyPress("ctrl+s"))
	m.handleMessage(runCmd(t, cmd))
	if _, err := os.Stat(m.draftPath("work/notes.md")); !os.IsNotExist(err) {
		t.Fatalf("expected draft to be removed, stat err = %v", err)
	}
}

func TestDraftMatchingStoredNoteIsDiscarded(t *testing.T) {
	cat := newFakeCatalog()
	m := newTestModel(t, cat, nil)
	m.draftsDir = t.TempDir()
	if err := m.saveDraft("work/notes.md", cat.notes["work/notes.md"].Content); err != nil {
		t.Fatalf("save draft: %v", err)
	}
	st := newPaneState()
	st.loadEditor(cat.notes["work/notes.md"])
	if m.recoverDraft(st) {
		t.Fatal("expected an identical draft not to be recovered")
	}
	if _, ok := m.loadDraft("work/notes.md"); ok {
		t.Fatal("expected identical draft to be removed")
	}
}

func TestReloadRefetchesViewedNotes(t *testing.T) {
	cat := newFakeCatalog()
	m := newTestModel(t, cat, nil)
	openCategory(t, m, "work")
	loadNotes(t, m, cat, "work")
	m.focusSidebar = false
	m.handleBrowseKey("enter")
	loadNote(t, m, cat, "P1", "work/notes.md", false)

	m.handleMessage(reloadMsg{})
	st := m.panes["P1"]
	if !st.loading || st.note != nil {
		t.Fatal("expected the viewed note to be loaded again")
	}
	if !m.notesLoading["work"] {
		t.Fatal("expected the note list to be loaded again")
	}
}
