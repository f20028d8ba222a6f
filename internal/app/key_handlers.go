package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/treykane/paneboard/internal/catalog"
	"github.com/treykane/paneboard/internal/workspace"
)

// handleKey routes a key press to the widget that owns input in the
// current mode.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.shouldIgnoreInput(msg) {
		return m, nil
	}
	switch m.mode {
	case modeEditNote:
		return m.handleEditNoteKey(msg)
	case modeNewNote, modeNewCategory, modeUnlock:
		return m.handlePromptKey(msg)
	case modeConfirmDelete:
		return m.handleConfirmDeleteKey(msg)
	}
	return m.handleBrowseKey(msg.String())
}

// handleBrowseKey dispatches a browse-mode key through the action table.
func (m *Model) handleBrowseKey(key string) (tea.Model, tea.Cmd) {
	action := m.actionForKey(key)
	if m.showHelp && action != actionHelp && action != actionQuit {
		m.showHelp = false
		return m, nil
	}
	switch action {
	case actionQuit:
		return m, tea.Quit
	case actionHelp:
		m.showHelp = !m.showHelp
		return m, nil
	case actionFocusNext:
		return m, m.cycleFocus(1)
	case actionFocusPrev:
		return m, m.cycleFocus(-1)
	case actionSplit:
		return m, m.split()
	case actionClosePane:
		return m, m.closePane()
	case actionGrow:
		return m, m.resizeActive(ResizeStepColumns)
	case actionShrink:
		return m, m.resizeActive(-ResizeStepColumns)
	case actionRefresh:
		return m, m.refresh()
	case actionLockAll:
		m.lockAll()
		return m, nil
	case actionNewCategory:
		return m, m.startNewCategory()
	}

	if m.focusSidebar {
		return m, m.handleSidebarAction(action)
	}
	return m, m.handlePaneAction(action)
}

func (m *Model) handleSidebarAction(action string) tea.Cmd {
	switch action {
	case actionCursorUp:
		m.moveSidebarCursor(-1)
	case actionCursorDown:
		m.moveSidebarCursor(1)
	case actionOpen:
		return m.openSidebarCategory()
	case actionNewNote:
		row, ok := m.sidebarRow()
		if !ok {
			m.setStatus("Create a category first")
			return nil
		}
		return m.startNewNote(m.snap.ActiveID, row.category.ID)
	case actionCopy:
		if row, ok := m.sidebarRow(); ok {
			m.copyToClipboard(row.category.Name, "category name")
		}
	case actionAI:
		if row, ok := m.sidebarRow(); ok {
			req := workspace.Open(workspace.ItemRef{Type: workspace.ItemAI, CategoryID: row.category.ID})
			m.focusSidebar = false
			return m.navigate(navIntent{paneID: m.snap.ActiveID, categoryID: row.category.ID, req: &req})
		}
	}
	return nil
}

// handlePaneAction applies an action to the active pane according to its
// view.
func (m *Model) handlePaneAction(action string) tea.Cmd {
	pane, st := m.activePane()
	if st == nil {
		return nil
	}
	switch action {
	case actionBack:
		return m.back(pane.ID)
	case actionTOC:
		return m.openTOC()
	case actionAI:
		return m.openAI()
	case actionCopy:
		m.copyPaneContent(pane, st)
		return nil
	}

	switch pane.View {
	case workspace.ViewCategory:
		if pane.SelectedItem != nil {
			return m.handleViewerAction(pane, st, action)
		}
		return m.handleNoteListAction(pane, st, action)
	case workspace.ViewTOC:
		return m.handleTOCAction(pane, st, action)
	case workspace.ViewBlank, workspace.ViewAI:
		if action == actionOpen {
			return m.apply(m.ws.Navigate(pane.ID, workspace.NavigateTo(workspace.ViewCategory)))
		}
		if action == actionNewNote && pane.ActiveCategory != "" {
			return m.startNewNote(pane.ID, pane.ActiveCategory)
		}
	}
	return nil
}

func (m *Model) handleNoteListAction(pane workspace.Pane, st *paneState, action string) tea.Cmd {
	notes := m.notes[pane.ActiveCategory]
	switch action {
	case actionCursorUp:
		st.cursor = clamp(st.cursor-1, 0, max(0, len(notes)-1))
	case actionCursorDown:
		st.cursor = clamp(st.cursor+1, 0, max(0, len(notes)-1))
	case actionOpen, actionEditNote:
		if st.cursor >= len(notes) {
			return nil
		}
		mode := workspace.ModeView
		if action == actionEditNote {
			mode = workspace.ModeEdit
		}
		return m.openNote(pane.ID, notes[st.cursor], mode)
	case actionNewNote:
		if pane.ActiveCategory == "" {
			m.setStatus("Pick a category first")
			return nil
		}
		return m.startNewNote(pane.ID, pane.ActiveCategory)
	case actionDeleteNote:
		if st.cursor < len(notes) {
			m.confirmDelete(notes[st.cursor])
		}
	}
	return nil
}

func (m *Model) handleViewerAction(pane workspace.Pane, st *paneState, action string) tea.Cmd {
	switch action {
	case actionCursorUp:
		st.viewport.LineUp(1)
	case actionCursorDown:
		st.viewport.LineDown(1)
	case actionScrollPageUp:
		st.viewport.ViewUp()
	case actionScrollPageDown:
		st.viewport.ViewDown()
	case actionScrollHalfUp:
		st.viewport.HalfViewUp()
	case actionScrollHalfDown:
		st.viewport.HalfViewDown()
	case actionEditNote:
		if st.note == nil {
			return nil
		}
		if st.note.Kind == catalog.KindPDF {
			m.setStatus("PDF documents are read-only")
			return nil
		}
		return m.openNote(pane.ID, *st.note, workspace.ModeEdit)
	case actionNewNote:
		return m.startNewNote(pane.ID, pane.ActiveCategory)
	case actionDeleteNote:
		if st.note != nil {
			m.confirmDelete(*st.note)
		}
	}
	return nil
}

func (m *Model) handleTOCAction(pane workspace.Pane, st *paneState, action string) tea.Cmd {
	if pane.TOC == nil {
		return nil
	}
	headings := pane.TOC.Headings
	switch action {
	case actionCursorUp:
		st.cursor = clamp(st.cursor-1, 0, max(0, len(headings)-1))
	case actionCursorDown:
		st.cursor = clamp(st.cursor+1, 0, max(0, len(headings)-1))
	case actionOpen:
		if st.cursor < len(headings) {
			return m.activateHeading(headings[st.cursor])
		}
	}
	return nil
}

// handleEditNoteKey feeds the editor. Saving and leaving are the only keys
// it intercepts; focus cycling still works so other panes stay reachable.
func (m *Model) handleEditNoteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	pane, st := m.activePane()
	if st == nil || st.editKey == "" {
		m.mode = modeBrowse
		return m, nil
	}
	switch msg.String() {
	case "ctrl+s":
		return m, m.saveEdit(pane.ID)
	case "esc":
		return m, m.back(pane.ID)
	case "ctrl+c":
		return m, tea.Quit
	case "ctrl+t":
		return m, m.openTOC()
	case "shift+tab":
		return m, m.cycleFocus(-1)
	case "ctrl+n":
		return m, m.cycleFocus(1)
	}
	if st.editorLoading || st.saving {
		return m, nil
	}
	switch msg.String() {
	case "ctrl+z":
		return m, m.stepHistory(pane.ID, st, st.undoEdit, "undo", "Undid edit")
	case "ctrl+y":
		return m, m.stepHistory(pane.ID, st, st.redoEdit, "redo", "Redid edit")
	}

	before := st.captureEditorSnapshot()
	var cmd tea.Cmd
	st.editor, cmd = st.editor.Update(msg)
	if after := st.editor.Value(); after != before.value {
		st.history.recordTyping(before, time.Now())
		st.dirty = true
		m.syncLiveTOC(pane.ID, after)
	} else {
		st.history.endBurst()
	}
	return m, cmd
}

func (m *Model) stepHistory(id workspace.PaneID, st *paneState, step func() bool, verb, done string) tea.Cmd {
	if !step() {
		m.setStatus("Nothing to " + verb)
		return nil
	}
	st.dirty = st.editor.Value() != st.editBase.Content
	m.setStatus(done)
	m.syncLiveTOC(id, st.editor.Value())
	return nil
}

// saveEdit stores the editor buffer of a pane.
func (m *Model) saveEdit(id workspace.PaneID) tea.Cmd {
	_, st, ok := m.pane(id)
	if !ok || st.editKey == "" || st.saving || st.editorLoading {
		return nil
	}
	if m.store == nil {
		m.setStatus("No store configured")
		return nil
	}
	note := st.editBase
	note.Content = st.editor.Value()
	if strings.TrimSpace(note.Title) == "" {
		note.Title = titleFromContent(note.Content)
	}
	st.saving = true
	m.setStatus("Saving...")
	return m.saveNoteCmd(id, note)
}

// titleFromContent uses the first heading or line as a fallback title.
func titleFromContent(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "#"))
		if line != "" {
			return truncatePlain(line, 60)
		}
	}
	return "Untitled"
}

func (m *Model) startNewNote(id workspace.PaneID, categoryID string) tea.Cmd {
	if categoryID == "" {
		m.setStatus("Pick a category first")
		return nil
	}
	m.mode = modeNewNote
	m.promptPane = id
	m.promptCategory = categoryID
	m.input.Reset()
	m.input.EchoMode = textinput.EchoNormal
	m.input.Placeholder = "Note title (end with .sh, .py, ... for a script)"
	m.input.Focus()
	m.setStatus(fmt.Sprintf("New note in %q", m.categoryName(categoryID)))
	return textinput.Blink
}

func (m *Model) startNewCategory() tea.Cmd {
	m.mode = modeNewCategory
	m.promptCategory = ""
	if row, ok := m.sidebarRow(); ok && m.focusSidebar {
		m.promptCategory = row.category.ID
	}
	m.input.Reset()
	m.input.EchoMode = textinput.EchoNormal
	m.input.Placeholder = "Category name"
	m.input.Focus()
	if m.promptCategory != "" {
		m.setStatus(fmt.Sprintf("New category inside %q", m.categoryName(m.promptCategory)))
	} else {
		m.setStatus("New top-level category")
	}
	return textinput.Blink
}

func (m *Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		label := "Cancelled"
		if m.mode == modeUnlock {
			label = "Unlock cancelled"
		}
		m.endPrompt()
		m.setStatus(label)
		return m, nil
	case "enter", "ctrl+s":
		return m, m.submitPrompt()
	case "ctrl+c":
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) submitPrompt() tea.Cmd {
	if m.mode == modeUnlock {
		return m.submitUnlock()
	}
	value := strings.TrimSpace(m.input.Value())
	if value == "" {
		m.setStatus("Name is required")
		return nil
	}
	switch m.mode {
	case modeNewNote:
		paneID, categoryID := m.promptPane, m.promptCategory
		m.endPrompt()
		title, script := splitScriptTitle(value)
		req := workspace.Open(workspace.ItemRef{
			Type:       workspace.ItemNote,
			CategoryID: categoryID,
			Title:      title,
			Mode:       workspace.ModeCreate,
			Script:     script,
		})
		m.focusSidebar = false
		return m.navigate(navIntent{paneID: paneID, categoryID: categoryID, req: &req})
	case modeNewCategory:
		parent := m.promptCategory
		m.endPrompt()
		if m.store == nil {
			m.setStatus("No store configured")
			return nil
		}
		return m.createCategoryCmd(value, parent)
	}
	return nil
}

// splitScriptTitle recognizes titles such as "deploy.sh": the note becomes
// a script and keeps the full name so the draft can pick the language.
func splitScriptTitle(value string) (string, bool) {
	if _, _, ok := catalog.ScriptLanguage(value); ok {
		return value, true
	}
	return strings.TrimSuffix(value, ".md"), false
}

func (m *Model) confirmDelete(note catalog.Note) {
	if m.store == nil {
		return
	}
	m.mode = modeConfirmDelete
	m.pendingDelete = &note
	m.setStatus(fmt.Sprintf("Delete %q? (y/n)", note.Title))
}

func (m *Model) handleConfirmDeleteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	note := m.pendingDelete
	switch strings.ToLower(msg.String()) {
	case "y":
		m.endPrompt()
		if note == nil {
			return m, nil
		}
		return m, m.deleteNoteCmd(*note)
	case "n", "esc":
		m.endPrompt()
		m.setStatus("Delete cancelled")
	case "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

// refresh fires the host reload broadcast, or reloads directly when no
// broadcast is attached.
func (m *Model) refresh() tea.Cmd {
	if b, ok := m.reload.(interface{ Notify() }); ok && m.send != nil {
		go b.Notify()
		m.setStatus("Reloading...")
		return nil
	}
	return m.reloadAll()
}

func (m *Model) lockAll() {
	if m.guard == nil || !m.guard.Enabled() {
		m.setStatus("No passphrase configured")
		return
	}
	m.guard.LockAll()
	m.setStatus("Locked all categories")
}
