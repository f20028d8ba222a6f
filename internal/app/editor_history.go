package app

import (
	"time"
)

const typingBurstIdleWindow = 750 * time.Millisecond

// editorSnapshot captures an editor buffer and its cursor position.
type editorSnapshot struct {
	value  string
	line   int
	column int
}

// editHistory is the per-pane undo and redo stack. Typing within
// typingBurstIdleWindow of the previous keystroke joins one undo step.
type editHistory struct {
	undo       []editorSnapshot
	redo       []editorSnapshot
	burst      bool
	lastTypeAt time.Time
}

func (st *paneState) captureEditorSnapshot() editorSnapshot {
	info := st.editor.LineInfo()
	return editorSnapshot{
		value:  st.editor.Value(),
		line:   st.editor.Line(),
		column: info.StartColumn + info.ColumnOffset,
	}
}

func (st *paneState) restoreEditorSnapshot(snapshot editorSnapshot) {
	st.editor.SetValue(snapshot.value)
	moveEditorToLine(&st.editor, snapshot.line)
	st.editor.SetCursor(snapshot.column)
}

func (h *editHistory) reset() {
	*h = editHistory{}
}

func (h *editHistory) push(snapshot editorSnapshot) {
	h.undo = append(h.undo, snapshot)
	// Any forward edit invalidates the redo chain.
	h.redo = nil
}

// recordTyping pushes the pre-edit snapshot unless the edit continues the
// current typing burst.
func (h *editHistory) recordTyping(before editorSnapshot, now time.Time) {
	if !h.burst || now.Sub(h.lastTypeAt) > typingBurstIdleWindow {
		h.push(before)
	}
	h.burst = true
	h.lastTypeAt = now
}

func (h *editHistory) endBurst() {
	h.burst = false
	h.lastTypeAt = time.Time{}
}

// undoEdit restores the previous snapshot of the pane's editor. It reports
// whether anything changed.
func (st *paneState) undoEdit() bool {
	st.history.endBurst()
	if len(st.history.undo) == 0 {
		return false
	}
	last := st.history.undo[len(st.history.undo)-1]
	st.history.undo = st.history.undo[:len(st.history.undo)-1]
	st.history.redo = append(st.history.redo, st.captureEditorSnapshot())
	st.restoreEditorSnapshot(last)
	return true
}

func (st *paneState) redoEdit() bool {
	st.history.endBurst()
	if len(st.history.redo) == 0 {
		return false
	}
	next := st.history.redo[len(st.history.redo)-1]
	st.history.redo = st.history.redo[:len(st.history.redo)-1]
	st.history.undo = append(st.history.undo, st.captureEditorSnapshot())
	st.restoreEditorSnapshot(next)
	return true
}
