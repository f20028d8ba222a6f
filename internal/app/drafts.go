package app

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// draftAutoSaveInterval is how often dirty editor buffers are written to
// draft files. If paneboard exits without saving, the buffer is offered
// back the next time the note is opened for editing.
const draftAutoSaveInterval = 5 * time.Second

// draftRecord is one auto-saved editor buffer.
//
// Each record is a JSON file in the drafts directory (by default under the
// XDG state home). The file name is the SHA-256 of the note id, so every
// stored note maps to exactly one draft file whatever characters its id
// holds. NoteID is repeated inside the record and checked on load.
//
// Drafts are kept for stored notes only. A note that was never saved has
// no stable id to recover into.
type draftRecord struct {
	NoteID    string    `json:"note_id"`
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updated_at"`
}

// draftAutoSaveTickMsg is emitted by the autosave timer. Update handles it
// by saving drafts and scheduling the next tick.
type draftAutoSaveTickMsg struct{}

// scheduleDraftAutosave returns a command that emits draftAutoSaveTickMsg
// after draftAutoSaveInterval. Init starts the loop and every handled tick
// schedules the next one, so it runs for the lifetime of the program.
func scheduleDraftAutosave() tea.Cmd {
	return tea.Tick(draftAutoSaveInterval, func(time.Time) tea.Msg {
		return draftAutoSaveTickMsg{}
	})
}

// handleDraftAutoSaveTick writes a draft for every pane editing a stored
// note with unsaved changes, then schedules the next tick.
//
// Panes that are still loading their editor or waiting on a save are
// skipped; their buffer is either not the user's yet or about to be stored.
// Write errors are logged and do not interrupt editing. With no drafts
// directory configured, autosave is off and no further ticks are scheduled.
func (m *Model) handleDraftAutoSaveTick() tea.Cmd {
	if m.draftsDir == "" {
		return nil
	}
	for _, pane := range m.snap.Panes {
		st, ok := m.panes[pane.ID]
		if !ok || st.editKey == "" || st.editBase.ID == "" || st.saving || st.editorLoading {
			continue
		}
		if !st.dirty {
			continue
		}
		if err := m.saveDraft(st.editBase.ID, st.editor.Value()); err != nil {
			appLog.Warn("auto-save draft", "note", st.editBase.ID, "error", err)
		}
	}
	return scheduleDraftAutosave()
}

// draftPath maps a note id to its draft file. Ids are hashed because they
// may contain path separators.
func (m *Model) draftPath(noteID string) string {
	hash := sha256.Sum256([]byte(noteID))
	return filepath.Join(m.draftsDir, hex.EncodeToString(hash[:])+".json")
}

// saveDraft writes content as the draft for noteID, creating the drafts
// directory on first use. Files are private to the user (0600) since they
// may hold the contents of guarded categories.
func (m *Model) saveDraft(noteID, content string) error {
	data, err := json.Marshal(draftRecord{NoteID: noteID, Content: content, UpdatedAt: time.Now()})
	if err != nil {
		return err
	}
	if err := os.MkdirAll(m.draftsDir, 0o700); err != nil {
		return err
	}
	return os.WriteFile(m.draftPath(noteID), data, 0o600)
}

// loadDraft returns the draft for a note, if one exists for the same id.
//
// A missing file is the common case and is silent. A draft that cannot be
// decoded, or whose recorded id does not match, is removed so it is not
// reported again on every load.
func (m *Model) loadDraft(noteID string) (draftRecord, bool) {
	if m.draftsDir == "" || noteID == "" {
		return draftRecord{}, false
	}
	path := m.draftPath(noteID)
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			appLog.Warn("read draft", "path", path, "error", err)
		}
		return draftRecord{}, false
	}
	var record draftRecord
	if err := json.Unmarshal(data, &record); err != nil || record.NoteID != noteID {
		appLog.Warn("discard unreadable draft", "path", path, "error", err)
		_ = os.Remove(path)
		return draftRecord{}, false
	}
	return record, true
}

// clearDraft removes the draft for noteID. It is called after a successful
// save, when an edit is cancelled, and when the note is deleted.
func (m *Model) clearDraft(noteID string) {
	if m.draftsDir == "" || noteID == "" {
		return
	}
	path := m.draftPath(noteID)
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		appLog.Warn("remove draft", "path", path, "error", err)
	}
}

// recoverDraft swaps a freshly loaded editor buffer for its draft when the
// draft differs from what is stored. It reports whether it did.
//
// The stored content is pushed onto the pane's undo history first, so a
// single undo returns to the saved version. A recovered buffer is marked
// dirty, which keeps it autosaving and prompts the caller to warn the user.
// A draft identical to the stored note is stale and is deleted.
func (m *Model) recoverDraft(st *paneState) bool {
	record, ok := m.loadDraft(st.editBase.ID)
	if !ok {
		return false
	}
	if record.Content == st.editBase.Content {
		m.clearDraft(record.NoteID)
		return false
	}
	st.history.push(st.captureEditorSnapshot())
	st.editor.SetValue(record.Content)
	moveEditorToLine(&st.editor, 0)
	st.dirty = true
	return true
}
