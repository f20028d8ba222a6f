package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/x/ansi"

	"github.com/treykane/paneboard/internal/catalog"
	"github.com/treykane/paneboard/internal/workspace"
)

// paneState is the UI side of one workspace pane: its widgets and whatever
// content has been loaded for it. The workspace controller owns navigation;
// this only caches what that navigation resolved to.
type paneState struct {
	viewport viewport.Model
	editor   textarea.Model

	// cursor and offset index the note list in Category view and the
	// heading list in TOC view.
	cursor int
	offset int

	// Viewer: the selected note, its headings and its last render.
	viewKey     string
	note        *catalog.Note
	headings    []workspace.Heading
	loading     bool
	rendering   bool
	rendered    string
	renderSeq   int
	renderWidth int

	// Editor session.
	editKey       string
	editBase      catalog.Note
	editorLoading bool
	dirty         bool
	saving        bool
	history       editHistory

	// Heading highlight after a TOC activation.
	highlightID    string
	highlightLine  int
	highlightSeq   int
	pendingHeading string
}

func newPaneState() *paneState {
	editor := textarea.New()
	editor.Placeholder = "Start writing..."
	editor.CharLimit = 0
	applyEditorTheme(&editor)
	return &paneState{
		viewport: viewport.New(0, 0),
		editor:   editor,
	}
}

func (st *paneState) resetViewer() {
	st.viewKey = ""
	st.note = nil
	st.headings = nil
	st.loading = false
	st.rendering = false
	st.rendered = ""
	st.renderWidth = 0
	st.renderSeq++
	st.highlightID = ""
	st.pendingHeading = ""
	st.viewport.SetContent("")
	st.viewport.GotoTop()
}

func (st *paneState) resetEditor() {
	st.editKey = ""
	st.editBase = catalog.Note{}
	st.editorLoading = false
	st.dirty = false
	st.saving = false
	st.history.reset()
	st.editor.Reset()
}

// startDraft prepares the editor for a note that does not exist yet.
func (st *paneState) startDraft(item workspace.ItemRef) {
	st.editBase = catalog.Note{CategoryID: item.CategoryID, Title: item.Title, Kind: catalog.KindMarkdown}
	if item.Script {
		title, language, _ := catalog.ScriptLanguage(item.Title)
		st.editBase.Kind = catalog.KindScript
		st.editBase.Title = title
		st.editBase.Language = language
	}
	kind := st.editBase.Kind
	if kind == catalog.KindMarkdown && strings.TrimSpace(item.Title) != "" {
		st.editor.SetValue("# " + strings.TrimSpace(item.Title) + "\n\n")
	}
	st.history.reset()
	st.dirty = false
}

// loadEditor fills the editor from a stored note.
func (st *paneState) loadEditor(note catalog.Note) {
	st.editBase = note
	st.editorLoading = false
	st.dirty = false
	st.editor.SetValue(note.Content)
	st.history.reset()
	moveEditorToLine(&st.editor, 0)
}

// cloneFor copies what a split pane can show immediately without a reload:
// the rendered note and an editor buffer including unsaved changes.
func (st *paneState) cloneFor() *paneState {
	out := newPaneState()
	out.cursor = st.cursor
	out.viewKey = st.viewKey
	if st.note != nil {
		note := *st.note
		out.note = &note
	}
	out.headings = append([]workspace.Heading(nil), st.headings...)
	out.rendered = st.rendered
	out.viewport.SetContent(st.rendered)

	out.editKey = st.editKey
	out.editBase = st.editBase
	out.editorLoading = st.editorLoading
	out.dirty = st.dirty
	out.editor.SetValue(st.editor.Value())
	return out
}

// refreshViewport pushes the rendered note into the viewport, drawing the
// highlighted heading line if one is active.
func (st *paneState) refreshViewport() {
	if st.highlightID == "" || st.rendered == "" {
		st.viewport.SetContent(st.rendered)
		return
	}
	lines := strings.Split(st.rendered, "\n")
	if st.highlightLine >= 0 && st.highlightLine < len(lines) {
		lines[st.highlightLine] = highlightStyle.Render(ansi.Strip(lines[st.highlightLine]))
	}
	st.viewport.SetContent(strings.Join(lines, "\n"))
}

// scrollToLine puts line at the top of the viewport, clamped to content.
func (st *paneState) scrollToLine(line int) {
	st.viewport.SetYOffset(line)
}

// editorHeadingLine finds the source line of a heading in the editor
// buffer, matching ATX and setext headings by their text.
func editorHeadingLine(content string, heading workspace.Heading) int {
	needle := strings.ToLower(strings.TrimSpace(heading.Text))
	if needle == "" {
		return -1
	}
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		text := strings.ToLower(strings.TrimSpace(strings.TrimLeft(trimmed, "#")))
		if strings.HasPrefix(trimmed, "#") && strings.Contains(text, needle) {
			return i
		}
		if i+1 < len(lines) && strings.Contains(strings.ToLower(trimmed), needle) && isSetextUnderline(lines[i+1]) {
			return i
		}
	}
	return -1
}

func isSetextUnderline(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	return strings.Trim(line, "=") == "" || strings.Trim(line, "-") == ""
}

// maxCursorSteps bounds cursor walks; soft-wrapped lines take several steps.
const maxCursorSteps = 1 << 16

// moveEditorToLine moves the textarea cursor to the start of line.
func moveEditorToLine(editor *textarea.Model, line int) {
	line = clamp(line, 0, max(0, editor.LineCount()-1))
	for i := 0; editor.Line() > line && i < maxCursorSteps; i++ {
		editor.CursorUp()
	}
	for i := 0; editor.Line() < line && i < maxCursorSteps; i++ {
		editor.CursorDown()
	}
	editor.CursorStart()
}
