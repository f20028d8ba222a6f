package app

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/treykane/paneboard/internal/catalog"
	"github.com/treykane/paneboard/internal/config"
	"github.com/treykane/paneboard/internal/markdown"
	"github.com/treykane/paneboard/internal/unlock"
	"github.com/treykane/paneboard/internal/workspace"
)

// mode controls which input widget receives keys.
type mode int

const (
	modeBrowse mode = iota
	modeEditNote
	modeNewNote
	modeNewCategory
	modeUnlock
	modeConfirmDelete
)

// Options wires the collaborators of the UI.
type Options struct {
	Config   config.Config
	Catalog  catalog.Catalog
	Guard    *unlock.Guard
	Renderer *markdown.Renderer
	// Reload is the host-wide refresh broadcast; nil disables live reload.
	Reload workspace.ReloadSource
	// Controller is optional; tests pass one with deterministic ids.
	Controller *workspace.Controller
	// DraftsDir holds auto-saved editor buffers; empty disables drafts.
	DraftsDir string
}

// Model holds the Bubble Tea state for the entire UI.
type Model struct {
	cfg      config.Config
	store    catalog.Catalog
	guard    *unlock.Guard
	renderer *markdown.Renderer
	reload   workspace.ReloadSource
	// draftsDir is where unsaved editor buffers are auto-saved.
	draftsDir string

	// Workspace state. snap mirrors ws after every intent.
	ws    *workspace.Controller
	snap  workspace.Snapshot
	panes map[workspace.PaneID]*paneState

	// Catalog state
	categories   []catalog.Category
	sidebar      []sidebarRow
	notes        map[string][]catalog.Note
	notesLoading map[string]bool
	listVersion  int

	// Sidebar
	sidebarCursor int
	sidebarOffset int
	focusSidebar  bool

	// UI widgets
	input      textinput.Model
	help       help.Model
	spinner    spinner.Model
	zones      *zone.Manager
	mode       mode
	status     string
	statusWarn bool
	showHelp   bool

	// Pending interactions
	pendingNav      *navIntent
	pendingDelete   *catalog.Note
	pendingFallback *headingFallback
	promptPane      workspace.PaneID
	promptCategory  string

	// Keybindings
	keyForAction map[string][]string
	keyToAction  map[string]string

	// Layout sizing
	width  int
	height int

	send func(tea.Msg)
}

// New prepares the initial UI model.
func New(opts Options) *Model {
	input := textinput.New()
	input.CharLimit = InputCharLimit

	spin := spinner.New()
	spin.Spinner = spinner.Line

	renderer := opts.Renderer
	if renderer == nil {
		renderer = markdown.NewRenderer(opts.Config.GlamourStyle)
	}
	guard := opts.Guard
	if guard == nil {
		guard = unlock.NewGuard(opts.Config.PassphraseHash)
	}
	ws := opts.Controller
	if ws == nil {
		ws = workspace.New()
	}

	m := &Model{
		cfg:          opts.Config,
		store:        opts.Catalog,
		guard:        guard,
		renderer:     renderer,
		reload:       opts.Reload,
		draftsDir:    opts.DraftsDir,
		ws:           ws,
		panes:        map[workspace.PaneID]*paneState{},
		notes:        map[string][]catalog.Note{},
		notesLoading: map[string]bool{},
		input:        input,
		help:         help.New(),
		spinner:      spin,
		zones:        zone.New(),
		mode:         modeBrowse,
		status:       "Ready",
		focusSidebar: true,
	}
	m.loadKeybindings(opts.Config)
	m.apply(ws.Snapshot())
	return m
}

// Attach connects the model to a running program. The reload broadcast is
// subscribed here and fires from a background goroutine, so it only sends a
// message into the event loop.
func (m *Model) Attach(send func(tea.Msg)) {
	m.send = send
	if m.reload == nil || send == nil {
		return
	}
	m.ws.Mount(m.reload, func() { send(reloadMsg{}) })
}

// Detach drops the reload subscription.
func (m *Model) Detach() {
	m.ws.Unmount()
	m.send = nil
}

// Init loads the category list and starts the spinner.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, m.loadCategoriesCmd()}
	if m.draftsDir != "" {
		cmds = append(cmds, scheduleDraftAutosave())
	}
	return tea.Batch(cmds...)
}

// Update is the Bubble Tea update loop: handle events and emit commands.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, m.layoutPanes()
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	}
	return m, m.handleMessage(msg)
}

// apply installs a new workspace snapshot: pane states are created for new
// panes and dropped for removed ones, content loads are started for whatever
// each pane now shows, and the layout is recomputed.
func (m *Model) apply(snap workspace.Snapshot) tea.Cmd {
	m.snap = snap
	alive := make(map[workspace.PaneID]bool, len(snap.Panes))
	cmds := make([]tea.Cmd, 0, len(snap.Panes)+1)
	for _, pane := range snap.Panes {
		alive[pane.ID] = true
		st, ok := m.panes[pane.ID]
		if !ok {
			st = newPaneState()
			m.panes[pane.ID] = st
		}
		cmds = append(cmds, m.syncPane(pane, st))
	}
	for id := range m.panes {
		if !alive[id] {
			delete(m.panes, id)
		}
	}
	cmds = append(cmds, m.layoutPanes())
	m.syncEditorFocus()
	return tea.Batch(cmds...)
}

// syncPane starts the loads a pane needs for its current view.
func (m *Model) syncPane(pane workspace.Pane, st *paneState) tea.Cmd {
	var cmds []tea.Cmd

	want := viewerItem(pane)
	if st.viewKey != want {
		st.resetViewer()
		m.ws.ForgetAnchors(pane.ID)
		st.viewKey = want
		if want != "" {
			st.loading = true
			cmds = append(cmds, m.loadNoteCmd(pane.ID, pane.SelectedItem.ID, false))
		}
	}

	edit := editorKey(pane)
	if st.editKey != edit {
		st.resetEditor()
		st.editKey = edit
		if pane.EditingNote != nil {
			item := *pane.EditingNote
			if item.Mode == workspace.ModeCreate || item.ID == "" {
				st.startDraft(item)
			} else {
				st.editorLoading = true
				cmds = append(cmds, m.loadNoteCmd(pane.ID, item.ID, true))
			}
		}
	}

	if pane.View == workspace.ViewCategory && pane.ActiveCategory != "" {
		cmds = append(cmds, m.ensureNotes(pane.ActiveCategory))
	}
	if pane.View == workspace.ViewTOC && pane.TOC != nil {
		st.cursor = clamp(st.cursor, 0, max(0, len(pane.TOC.Headings)-1))
	}
	return tea.Batch(cmds...)
}

// syncEditorFocus focuses the active pane's editor and blurs the others.
func (m *Model) syncEditorFocus() {
	active := m.snap.ActiveID
	editing := false
	for id, st := range m.panes {
		if id == active && st.editKey != "" && !m.focusSidebar {
			st.editor.Focus()
			editing = true
			continue
		}
		st.editor.Blur()
	}
	switch {
	case editing && m.mode == modeBrowse:
		m.mode = modeEditNote
	case !editing && m.mode == modeEditNote:
		m.mode = modeBrowse
	}
}

// activePane returns the active pane and its UI state.
func (m *Model) activePane() (workspace.Pane, *paneState) {
	pane := m.snap.Active()
	return pane, m.panes[pane.ID]
}

// pane returns a pane by id together with its UI state.
func (m *Model) pane(id workspace.PaneID) (workspace.Pane, *paneState, bool) {
	pane, ok := m.snap.Pane(id)
	if !ok {
		return workspace.Pane{}, nil, false
	}
	st, ok := m.panes[id]
	return pane, st, ok
}

// busy reports whether anything is loading, which keeps the spinner visible.
func (m *Model) busy() bool {
	for _, st := range m.panes {
		if st.loading || st.rendering || st.editorLoading {
			return true
		}
	}
	return len(m.notesLoading) > 0
}

// viewerItem is the key of the item a pane displays read-only, if any.
func viewerItem(pane workspace.Pane) string {
	if pane.View != workspace.ViewCategory || pane.SelectedItem == nil {
		return ""
	}
	switch pane.SelectedItem.Type {
	case workspace.ItemNote, workspace.ItemPDF:
		return string(pane.SelectedItem.Type) + ":" + pane.SelectedItem.ID
	default:
		return ""
	}
}

// editorKey identifies the editor session of a pane.
func editorKey(pane workspace.Pane) string {
	if pane.View != workspace.ViewNotes || pane.EditingNote == nil {
		return ""
	}
	item := pane.EditingNote
	if item.Mode == workspace.ModeCreate || item.ID == "" {
		return "create:" + item.CategoryID + ":" + item.Title
	}
	return "edit:" + item.ID
}
