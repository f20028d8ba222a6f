package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/treykane/paneboard/internal/catalog"
	"github.com/treykane/paneboard/internal/unlock"
	"github.com/treykane/paneboard/internal/workspace"
)

// Messages produced by commands. Every result that targets a pane carries
// its id; handlers drop results whose pane no longer exists.
type (
	categoriesLoadedMsg struct {
		categories []catalog.Category
		err        error
	}

	notesLoadedMsg struct {
		categoryID string
		version    int
		notes      []catalog.Note
		err        error
	}

	noteLoadedMsg struct {
		paneID  workspace.PaneID
		noteID  string
		forEdit bool
		note    catalog.Note
		err     error
	}

	noteSavedMsg struct {
		paneID  workspace.PaneID
		created bool
		note    catalog.Note
		err     error
	}

	noteDeletedMsg struct {
		note catalog.Note
		err  error
	}

	categoryCreatedMsg struct {
		category catalog.Category
		err      error
	}

	unlockResultMsg struct {
		intent navIntent
		label  string
		err    error
	}

	renderRequestMsg struct {
		paneID workspace.PaneID
		seq    int
	}

	renderResultMsg struct {
		paneID  workspace.PaneID
		seq     int
		viewKey string
		width   int
		content string
		anchors map[string]int
	}

	highlightExpiredMsg struct {
		paneID workspace.PaneID
		seq    int
	}

	// reloadMsg is sent by the host reload broadcast.
	reloadMsg struct{}
)

func storeContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), StoreTimeout)
}

func (m *Model) loadCategoriesCmd() tea.Cmd {
	store := m.store
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := storeContext()
		defer cancel()
		categories, err := store.ListCategories(ctx)
		return categoriesLoadedMsg{categories: categories, err: err}
	}
}

// ensureNotes loads a category's note list unless it is cached or loading.
func (m *Model) ensureNotes(categoryID string) tea.Cmd {
	if m.store == nil || categoryID == "" {
		return nil
	}
	if _, ok := m.notes[categoryID]; ok || m.notesLoading[categoryID] {
		return nil
	}
	m.notesLoading[categoryID] = true
	store, version := m.store, m.listVersion
	return func() tea.Msg {
		ctx, cancel := storeContext()
		defer cancel()
		notes, err := store.ListNotes(ctx, categoryID)
		return notesLoadedMsg{categoryID: categoryID, version: version, notes: notes, err: err}
	}
}

func (m *Model) loadNoteCmd(paneID workspace.PaneID, noteID string, forEdit bool) tea.Cmd {
	store := m.store
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := storeContext()
		defer cancel()
		note, err := store.GetNote(ctx, noteID)
		return noteLoadedMsg{paneID: paneID, noteID: noteID, forEdit: forEdit, note: note, err: err}
	}
}

func (m *Model) saveNoteCmd(paneID workspace.PaneID, note catalog.Note) tea.Cmd {
	store := m.store
	created := note.ID == ""
	return func() tea.Msg {
		ctx, cancel := storeContext()
		defer cancel()
		saved, err := store.SaveNote(ctx, note)
		return noteSavedMsg{paneID: paneID, created: created, note: saved, err: err}
	}
}

func (m *Model) deleteNoteCmd(note catalog.Note) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		ctx, cancel := storeContext()
		defer cancel()
		return noteDeletedMsg{note: note, err: store.DeleteNote(ctx, note.ID)}
	}
}

func (m *Model) createCategoryCmd(name, parentID string) tea.Cmd {
	store := m.store
	var color *catalog.ColorPreset
	if parent, ok := catalog.FindCategory(m.categories, parentID); ok && parent.Color != nil {
		inherited := *parent.Color
		color = &inherited
	}
	return func() tea.Msg {
		ctx, cancel := storeContext()
		defer cancel()
		category, err := store.CreateCategory(ctx, name, parentID, color)
		return categoryCreatedMsg{category: category, err: err}
	}
}

// unlockCmd checks the passphrase off the UI goroutine.
func unlockCmd(guard *unlock.Guard, intent navIntent, label, passphrase string) tea.Cmd {
	return func() tea.Msg {
		return unlockResultMsg{intent: intent, label: label, err: guard.Unlock(intent.categoryID, passphrase)}
	}
}
