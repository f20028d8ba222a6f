package app

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/treykane/paneboard/internal/catalog"
	"github.com/treykane/paneboard/internal/markdown"
	"github.com/treykane/paneboard/internal/unlock"
	"github.com/treykane/paneboard/internal/workspace"
)

// navIntent is a navigation waiting on the unlock challenge. A nil req
// opens categoryID itself in the pane.
type navIntent struct {
	paneID     workspace.PaneID
	categoryID string
	req        *workspace.NavRequest
}

// headingFallback records a TOC activation no rendered pane could serve.
type headingFallback struct {
	sourceID  workspace.PaneID
	headingID string
}

// navigate runs an intent, challenging first when it enters a locked
// category.
func (m *Model) navigate(intent navIntent) tea.Cmd {
	if intent.categoryID != "" {
		category, ok := catalog.FindCategory(m.categories, intent.categoryID)
		if ok && m.guard != nil && m.guard.NeedsChallenge(category.ID, category.Encrypted()) {
			return m.beginUnlock(intent, category.Name)
		}
	}
	return m.commitNav(intent)
}

// commitNav applies an intent to the current workspace. The pane may have
// been closed while a challenge was pending; the intent is then discarded.
func (m *Model) commitNav(intent navIntent) tea.Cmd {
	if m.snap.Index(intent.paneID) < 0 {
		m.setStatusWarning("Pane closed before navigation finished", "pane", intent.paneID)
		return nil
	}
	if intent.req == nil {
		m.ws.Navigate(intent.paneID, workspace.NavigateTo(workspace.ViewCategory))
		category := intent.categoryID
		cmd := m.apply(m.ws.Patch(intent.paneID, workspace.PanePatch{ActiveCategory: &category}))
		if st, ok := m.panes[intent.paneID]; ok {
			st.cursor = 0
			st.offset = 0
		}
		return cmd
	}
	return m.apply(m.ws.Navigate(intent.paneID, *intent.req))
}

func (m *Model) beginUnlock(intent navIntent, label string) tea.Cmd {
	m.pendingNav = &intent
	m.promptCategory = label
	m.mode = modeUnlock
	m.input.Reset()
	m.input.Placeholder = "Passphrase"
	m.input.EchoMode = textinput.EchoPassword
	m.input.EchoCharacter = '•'
	m.input.Focus()
	m.setStatus(fmt.Sprintf("Unlock %q", label))
	return textinput.Blink
}

func (m *Model) submitUnlock() tea.Cmd {
	intent := m.pendingNav
	label := m.promptCategory
	passphrase := m.input.Value()
	m.endPrompt()
	if intent == nil {
		return nil
	}
	m.setStatus("Checking passphrase...")
	return unlockCmd(m.guard, *intent, label, passphrase)
}

func (m *Model) handleUnlockResult(msg unlockResultMsg) tea.Cmd {
	// A failed unlock aborts the navigation; every pane stays as it was.
	if errors.Is(msg.err, unlock.ErrDenied) {
		m.setStatusWarning(fmt.Sprintf("Unlock denied for %q", msg.label), "category", msg.intent.categoryID)
		return nil
	}
	if msg.err != nil {
		m.setStatusError("Unlock failed", msg.err, "category", msg.intent.categoryID)
		return nil
	}
	m.setStatus(fmt.Sprintf("Unlocked %q", msg.label))
	return m.commitNav(msg.intent)
}

// endPrompt leaves any text prompt and restores the input widget.
func (m *Model) endPrompt() {
	m.mode = modeBrowse
	m.pendingNav = nil
	m.pendingDelete = nil
	m.promptCategory = ""
	m.input.Blur()
	m.input.Reset()
	m.input.EchoMode = textinput.EchoNormal
	m.syncEditorFocus()
}

// openSidebarCategory opens the highlighted sidebar category in the active
// pane.
func (m *Model) openSidebarCategory() tea.Cmd {
	row, ok := m.sidebarRow()
	if !ok {
		return nil
	}
	return m.navigate(navIntent{paneID: m.snap.ActiveID, categoryID: row.category.ID})
}

// openNote shows a note in a pane. Scripts open straight in the editor.
func (m *Model) openNote(id workspace.PaneID, note catalog.Note, mode workspace.Mode) tea.Cmd {
	req := workspace.Open(noteRef(note, mode), workspace.ViewCategory)
	return m.navigate(navIntent{paneID: id, categoryID: note.CategoryID, req: &req})
}

func noteRef(note catalog.Note, mode workspace.Mode) workspace.ItemRef {
	itemType := workspace.ItemNote
	if note.Kind == catalog.KindPDF {
		itemType = workspace.ItemPDF
	}
	return workspace.ItemRef{
		Type:       itemType,
		ID:         note.ID,
		CategoryID: note.CategoryID,
		Title:      note.Title,
		Mode:       mode,
		Script:     note.Kind == catalog.KindScript,
	}
}

// back clears a pane's selection if it has one and otherwise returns it to
// its category list.
func (m *Model) back(id workspace.PaneID) tea.Cmd {
	pane, ok := m.snap.Pane(id)
	if !ok {
		return nil
	}
	if pane.SelectedItem != nil {
		return m.apply(m.ws.Patch(id, workspace.PanePatch{ClearSelected: true}))
	}
	if pane.View == workspace.ViewNotes {
		if st, ok := m.panes[id]; ok {
			m.clearDraft(st.editBase.ID)
		}
		m.setStatus("Edit cancelled")
	}
	return m.apply(m.ws.Navigate(id, workspace.NavigateTo(workspace.ViewCategory)))
}

func (m *Model) split() tea.Cmd {
	source := m.snap.ActiveID
	before := m.panes[source]
	snap := m.ws.Split(source)
	if before != nil && snap.ActiveID != source {
		if pane, ok := snap.Pane(snap.ActiveID); ok && pane.View != workspace.ViewBlank {
			m.panes[snap.ActiveID] = before.cloneFor()
		}
	}
	m.focusSidebar = false
	m.setStatus(fmt.Sprintf("%d panes", len(snap.Panes)))
	return m.apply(snap)
}

func (m *Model) closePane() tea.Cmd {
	if len(m.snap.Panes) <= 1 {
		m.setStatus("Cannot close the last pane")
		return nil
	}
	return m.apply(m.ws.Close(m.snap.ActiveID))
}

// cycleFocus moves keyboard focus through the sidebar and the panes.
func (m *Model) cycleFocus(step int) tea.Cmd {
	stops := len(m.snap.Panes) + 1
	current := 0
	if !m.focusSidebar {
		current = m.snap.Index(m.snap.ActiveID) + 1
	}
	next := ((current+step)%stops + stops) % stops
	if next == 0 {
		m.focusSidebar = true
		m.syncEditorFocus()
		return nil
	}
	m.focusSidebar = false
	return m.apply(m.ws.Focus(m.snap.Panes[next-1].ID))
}

// focusPane focuses a pane from a click.
func (m *Model) focusPane(id workspace.PaneID) tea.Cmd {
	m.focusSidebar = false
	return m.apply(m.ws.Focus(id))
}

// resizeActive moves the active pane's divider by columns through the same
// drag session a mouse resize uses.
func (m *Model) resizeActive(columns int) tea.Cmd {
	divider, direction, ok := activeDivider(m.snap)
	if !ok {
		m.setStatus("Nothing to resize")
		return nil
	}
	layout := m.calculateLayout()
	if !m.ws.BeginResize(divider, 0, float64(layout.PanesWidth)) {
		return nil
	}
	m.ws.PointerMove(direction * float64(columns))
	return m.apply(m.ws.PointerUp())
}

// openTOC shows the active pane's headings in the TOC pane.
func (m *Model) openTOC() tea.Cmd {
	pane, st := m.activePane()
	if st == nil {
		return nil
	}
	var headings []workspace.Heading
	switch {
	case pane.View == workspace.ViewTOC:
		m.setStatus("Already showing contents")
		return nil
	case st.editKey != "":
		headings = markdown.ExtractHeadings(st.editor.Value())
	case st.note != nil:
		headings = st.headings
	}
	if len(headings) == 0 {
		m.setStatus("No headings to show")
		return nil
	}
	m.focusSidebar = false
	return m.apply(m.ws.OpenTOC(pane.ID, headings, m.tocFallback(pane.ID), workspace.TOCOptions{}))
}

// syncLiveTOC refreshes an existing TOC from an editor buffer.
func (m *Model) syncLiveTOC(id workspace.PaneID, content string) {
	if _, ok := m.snap.TOCPane(); !ok {
		return
	}
	m.snap = m.ws.OpenTOC(id, markdown.ExtractHeadings(content), m.tocFallback(id), workspace.TOCOptions{OnlyUpdate: true})
}

// tocFallback is handed to the TOC and runs when no rendered pane holds the
// activated heading.
func (m *Model) tocFallback(source workspace.PaneID) workspace.HeadingActivator {
	return func(headingID string) {
		m.pendingFallback = &headingFallback{sourceID: source, headingID: headingID}
	}
}

// activateHeading resolves a TOC entry to a rendered anchor, or falls back
// to the pane the headings came from.
func (m *Model) activateHeading(heading workspace.Heading) tea.Cmd {
	anchor, ok := m.ws.ActivateHeading(heading.ID)
	if ok {
		m.focusSidebar = false
		cmd := m.apply(m.ws.Snapshot())
		return tea.Batch(cmd, m.highlightAnchor(anchor))
	}
	fallback := m.pendingFallback
	m.pendingFallback = nil
	if fallback == nil {
		m.setStatus("Heading not found")
		return nil
	}
	return m.runHeadingFallback(*fallback, heading)
}

func (m *Model) runHeadingFallback(fb headingFallback, heading workspace.Heading) tea.Cmd {
	pane, st, ok := m.pane(fb.sourceID)
	if !ok {
		m.setStatusWarning("Source pane was closed", "heading", fb.headingID)
		return nil
	}
	m.focusSidebar = false
	cmd := m.apply(m.ws.Focus(pane.ID))
	switch {
	case st.editKey != "":
		line := editorHeadingLine(st.editor.Value(), heading)
		if line < 0 {
			m.setStatus("Heading not found in editor")
			return cmd
		}
		moveEditorToLine(&st.editor, line)
		return cmd
	case st.viewKey != "":
		// Not rendered yet: scroll once the render lands.
		st.pendingHeading = fb.headingID
		return tea.Batch(cmd, m.requestRender(pane.ID))
	default:
		m.setStatus("Source pane no longer shows the note")
		return cmd
	}
}

// openAI switches the active pane to the assistant surface.
func (m *Model) openAI() tea.Cmd {
	pane, _ := m.activePane()
	m.focusSidebar = false
	return m.apply(m.ws.Navigate(pane.ID, workspace.NavigateTo(workspace.ViewAI)))
}
