package app

import (
	"context"
	"fmt"
	"sort"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/treykane/paneboard/internal/catalog"
	"github.com/treykane/paneboard/internal/unlock"
	"github.com/treykane/paneboard/internal/workspace"
	"golang.org/x/crypto/bcrypt"
)

// fakeCatalog is an in-memory catalog.Catalog.
type fakeCatalog struct {
	categories []catalog.Category
	notes      map[string]catalog.Note
	saved      []catalog.Note
	nextID     int
}

var _ catalog.Catalog = (*fakeCatalog)(nil)

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		categories: []catalog.Category{
			{ID: "work", Name: "Work"},
			{ID: "work/infra", Name: "Infra", ParentID: "work"},
			{ID: "vault", Name: "Vault", Color: &catalog.ColorPreset{Name: "red", Hex: "#cc3333", Encrypted: true}},
		},
		notes: map[string]catalog.Note{
			"work/plan.md": {
				ID: "work/plan.md", CategoryID: "work", Title: "Plan", Kind: catalog.KindMarkdown,
				Content: "# Plan\n\n## Goals\n\ntext\n\n## Risks\n\nmore\n",
			},
			"work/notes.md": {
				ID: "work/notes.md", CategoryID: "work", Title: "Notes", Kind: catalog.KindMarkdown,
				Content: "plain\n",
			},
			"vault/keys.md": {
				ID: "vault/keys.md", CategoryID: "vault", Title: "Keys", Kind: catalog.KindMarkdown,
				Content: "# Keys\n",
			},
		},
	}
}

func (f *fakeCatalog) ListCategories(context.Context) ([]catalog.Category, error) {
	return append([]catalog.Category(nil), f.categories...), nil
}

func (f *fakeCatalog) CreateCategory(_ context.Context, name, parentID string, color *catalog.ColorPreset) (catalog.Category, error) {
	c := catalog.Category{ID: name, Name: name, ParentID: parentID, Color: color}
	f.categories = append(f.categories, c)
	return c, nil
}

func (f *fakeCatalog) ListNotes(_ context.Context, categoryID string) ([]catalog.Note, error) {
	var out []catalog.Note
	for _, n := range f.notes {
		if n.CategoryID == categoryID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (f *fakeCatalog) GetNote(_ context.Context, id string) (catalog.Note, error) {
	n, ok := f.notes[id]
	if !ok {
		return catalog.Note{}, catalog.ErrNotFound
	}
	return n, nil
}

func (f *fakeCatalog) SaveNote(_ context.Context, note catalog.Note) (catalog.Note, error) {
	if note.ID == "" {
		f.nextID++
		note.ID = fmt.Sprintf("%s/new-%d.md", note.CategoryID, f.nextID)
	}
	f.notes[note.ID] = note
	f.saved = append(f.saved, note)
	return note, nil
}

func (f *fakeCatalog) DeleteNote(_ context.Context, id string) error {
	if _, ok := f.notes[id]; !ok {
		return catalog.ErrNotFound
	}
	delete(f.notes, id)
	return nil
}

func (f *fakeCatalog) Close() error { return nil }

func sequentialPaneIDs() func() workspace.PaneID {
	n := 0
	return func() workspace.PaneID {
		n++
		return workspace.PaneID(fmt.Sprintf("P%d", n))
	}
}

func testGuard(t *testing.T, passphrase string) *unlock.Guard {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(passphrase), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return unlock.NewGuard(string(hash))
}

// newTestModel builds a sized model over a fake catalog whose categories are
// already loaded. Commands are never run; tests feed results directly.
func newTestModel(t *testing.T, cat *fakeCatalog, guard *unlock.Guard) *Model {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	m := New(Options{
		Catalog:    cat,
		Guard:      guard,
		Controller: workspace.New(workspace.WithIDGenerator(sequentialPaneIDs())),
	})
	m.Update(tea.WindowSizeMsg{Width: 160, Height: 40})
	m.setCategories(cat.categories)
	return m
}

// loadNotes answers a note list load synchronously.
func loadNotes(t *testing.T, m *Model, cat *fakeCatalog, categoryID string) {
	t.Helper()
	notes, _ := cat.ListNotes(context.Background(), categoryID)
	m.handleNotesLoaded(notesLoadedMsg{categoryID: categoryID, version: m.listVersion, notes: notes})
}

// loadNote answers a pending note load for a pane.
func loadNote(t *testing.T, m *Model, cat *fakeCatalog, id workspace.PaneID, noteID string, forEdit bool) {
	t.Helper()
	note, err := cat.GetNote(context.Background(), noteID)
	m.handleNoteLoaded(noteLoadedMsg{paneID: id, noteID: noteID, forEdit: forEdit, note: note, err: err})
}

// openCategory navigates the active pane to a category as the sidebar does.
func openCategory(t *testing.T, m *Model, categoryID string) {
	t.Helper()
	for i, row := range m.sidebar {
		if row.category.ID == categoryID {
			m.sidebarCursor = i
		}
	}
	m.focusSidebar = true
	m.openSidebarCategory()
	if got := m.snap.Active().ActiveCategory; got != categoryID {
		t.Fatalf("active category = %q, want %q", got, categoryID)
	}
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+z":
		return tea.KeyMsg{Type: tea.KeyCtrlZ}
	case "ctrl+y":
		return tea.KeyMsg{Type: tea.KeyCtrlY}
	case "ctrl+t":
		return tea.KeyMsg{Type: tea.KeyCtrlT}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}
