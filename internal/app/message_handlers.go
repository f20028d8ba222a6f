package app

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/treykane/paneboard/internal/catalog"
	"github.com/treykane/paneboard/internal/markdown"
	"github.com/treykane/paneboard/internal/workspace"
)

// handleMessage dispatches the results of async commands.
func (m *Model) handleMessage(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case categoriesLoadedMsg:
		return m.handleCategoriesLoaded(msg)
	case notesLoadedMsg:
		m.handleNotesLoaded(msg)
	case noteLoadedMsg:
		return m.handleNoteLoaded(msg)
	case noteSavedMsg:
		return m.handleNoteSaved(msg)
	case noteDeletedMsg:
		return m.handleNoteDeleted(msg)
	case categoryCreatedMsg:
		return m.handleCategoryCreated(msg)
	case unlockResultMsg:
		return m.handleUnlockResult(msg)
	case renderRequestMsg:
		return m.handleRenderRequest(msg)
	case renderResultMsg:
		return m.handleRenderResult(msg)
	case highlightExpiredMsg:
		m.handleHighlightExpired(msg)
	case reloadMsg:
		return m.reloadAll()
	case draftAutoSaveTickMsg:
		return m.handleDraftAutoSaveTick()
	}
	return nil
}

func (m *Model) handleCategoriesLoaded(msg categoriesLoadedMsg) tea.Cmd {
	if msg.err != nil {
		m.setStatusError("Error loading categories", msg.err)
		return nil
	}
	m.setCategories(msg.categories)
	return nil
}

func (m *Model) handleNotesLoaded(msg notesLoadedMsg) {
	if msg.version != m.listVersion {
		return
	}
	delete(m.notesLoading, msg.categoryID)
	if msg.err != nil {
		m.setStatusError("Error loading notes", msg.err, "category", msg.categoryID)
		return
	}
	m.notes[msg.categoryID] = msg.notes
	for _, pane := range m.snap.Panes {
		if st, ok := m.panes[pane.ID]; ok && pane.ActiveCategory == msg.categoryID {
			st.cursor = clamp(st.cursor, 0, max(0, len(msg.notes)-1))
		}
	}
}

func (m *Model) handleNoteLoaded(msg noteLoadedMsg) tea.Cmd {
	pane, st, ok := m.pane(msg.paneID)
	if !ok {
		appLog.Debug("drop note load for closed pane", "pane", msg.paneID, "note", msg.noteID)
		return nil
	}
	if msg.forEdit {
		if pane.EditingNote == nil || pane.EditingNote.ID != msg.noteID || !st.editorLoading {
			return nil
		}
		if msg.err != nil {
			st.editorLoading = false
			m.setStatusError("Error opening note", msg.err, "note", msg.noteID)
			return nil
		}
		if msg.note.Kind == catalog.KindPDF {
			m.setStatus("PDF documents are read-only")
			return m.apply(m.ws.Navigate(pane.ID, workspace.Open(noteRef(msg.note, workspace.ModeView), workspace.ViewCategory)))
		}
		st.loadEditor(msg.note)
		if m.recoverDraft(st) {
			m.setStatusWarning(fmt.Sprintf("Recovered unsaved draft of %q", msg.note.Title), "note", msg.note.ID)
		}
		m.syncLiveTOC(pane.ID, st.editor.Value())
		return nil
	}

	if pane.SelectedItem == nil || pane.SelectedItem.ID != msg.noteID || !st.loading {
		return nil
	}
	st.loading = false
	if msg.err != nil {
		if errors.Is(msg.err, catalog.ErrNotFound) {
			m.setStatusWarning("Note no longer exists", "note", msg.noteID)
			return m.apply(m.ws.Patch(pane.ID, workspace.PanePatch{ClearSelected: true}))
		}
		m.setStatusError("Error opening note", msg.err, "note", msg.noteID)
		return nil
	}
	note := msg.note
	st.note = &note
	st.headings = nil
	if note.Kind == catalog.KindMarkdown {
		st.headings = markdown.ExtractHeadings(note.Content)
	}
	return m.requestRender(pane.ID)
}

func (m *Model) handleNoteSaved(msg noteSavedMsg) tea.Cmd {
	if st, ok := m.panes[msg.paneID]; ok {
		st.saving = false
	}
	if msg.err != nil {
		m.setStatusError("Error saving note", msg.err, "note", msg.note.ID)
		return nil
	}
	m.invalidateLists()
	m.clearDraft(msg.note.ID)
	m.setStatus(fmt.Sprintf("Saved %q", msg.note.Title))

	pane, st, ok := m.pane(msg.paneID)
	if !ok {
		return tea.Batch(m.refreshViewers(msg.note.ID, ""), m.reloadLists())
	}
	if st.editKey != "" {
		st.dirty = false
	}
	// Saving ends the edit: the pane shows the saved note in its category.
	ref := noteRef(msg.note, workspace.ModeView)
	ref.Script = false
	cmd := m.apply(m.ws.Navigate(pane.ID, workspace.Open(ref, workspace.ViewCategory)))
	return tea.Batch(cmd, m.refreshViewers(msg.note.ID, pane.ID), m.reloadLists())
}

// refreshViewers reloads a note in every pane viewing it, except skip.
func (m *Model) refreshViewers(noteID string, skip workspace.PaneID) tea.Cmd {
	stale := false
	for _, pane := range m.snap.Panes {
		if pane.ID == skip || pane.SelectedItem == nil || pane.SelectedItem.ID != noteID {
			continue
		}
		if st, ok := m.panes[pane.ID]; ok {
			st.viewKey = ""
			stale = true
		}
	}
	if !stale {
		return nil
	}
	return m.apply(m.snap)
}

func (m *Model) handleNoteDeleted(msg noteDeletedMsg) tea.Cmd {
	if msg.err != nil {
		m.setStatusError("Error deleting note", msg.err, "note", msg.note.ID)
		return nil
	}
	m.setStatus(fmt.Sprintf("Deleted %q", msg.note.Title))
	m.invalidateLists()
	var cmds []tea.Cmd
	for _, pane := range m.snap.Panes {
		switch {
		case pane.SelectedItem != nil && pane.SelectedItem.ID == msg.note.ID:
			cmds = append(cmds, m.apply(m.ws.Patch(pane.ID, workspace.PanePatch{ClearSelected: true})))
		case pane.EditingNote != nil && pane.EditingNote.ID == msg.note.ID:
			cmds = append(cmds, m.apply(m.ws.Navigate(pane.ID, workspace.NavigateTo(workspace.ViewCategory))))
		}
	}
	m.clearDraft(msg.note.ID)
	cmds = append(cmds, m.reloadLists())
	return tea.Batch(cmds...)
}

func (m *Model) handleCategoryCreated(msg categoryCreatedMsg) tea.Cmd {
	if msg.err != nil {
		m.setStatusError("Error creating category", msg.err)
		return nil
	}
	m.setStatus(fmt.Sprintf("Created category %q", msg.category.Name))
	m.categories = append(m.categories, msg.category)
	m.setCategories(m.categories)
	for i, row := range m.sidebar {
		if row.category.ID == msg.category.ID {
			m.sidebarCursor = i
		}
	}
	return m.loadCategoriesCmd()
}

// invalidateLists bumps the list version so in-flight list loads are
// dropped, and forgets every cached note list.
func (m *Model) invalidateLists() {
	m.listVersion++
	m.notes = map[string][]catalog.Note{}
	m.notesLoading = map[string]bool{}
}

// reloadLists reloads the note list of every category a pane shows.
func (m *Model) reloadLists() tea.Cmd {
	var cmds []tea.Cmd
	for _, pane := range m.snap.Panes {
		if pane.View == workspace.ViewCategory && pane.ActiveCategory != "" {
			cmds = append(cmds, m.ensureNotes(pane.ActiveCategory))
		}
	}
	return tea.Batch(cmds...)
}

// reloadAll answers the host reload broadcast: categories, note lists and
// every viewed note are fetched again. Editor buffers are left alone.
func (m *Model) reloadAll() tea.Cmd {
	m.invalidateLists()
	for _, st := range m.panes {
		st.viewKey = ""
	}
	m.setStatus("Reloaded")
	return tea.Batch(m.loadCategoriesCmd(), m.apply(m.snap))
}
