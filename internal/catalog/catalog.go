// Package catalog stores categories and notes.
//
// Two backends implement Catalog: Files keeps a directory tree of markdown and
// script files under the notes directory, SQLite keeps everything in one
// database file. Callers pick one through Open based on configuration.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/treykane/paneboard/internal/config"
	"github.com/treykane/paneboard/internal/logging"
)

var (
	ErrNotFound = errors.New("not found")
	ErrExists   = errors.New("already exists")
	ErrReadOnly = errors.New("read-only item")

	storeLog = logging.New("catalog")
)

// ColorPreset is a named colour attached to a category. Encrypted presets
// mark their categories as locked behind the passphrase.
type ColorPreset struct {
	Name      string `yaml:"name"`
	Hex       string `yaml:"hex"`
	Encrypted bool   `yaml:"encrypted,omitempty"`
}

// Category groups notes. ParentID is empty for top-level categories.
type Category struct {
	ID       string
	Name     string
	ParentID string
	Color    *ColorPreset
}

// Encrypted reports whether opening the category requires an unlock.
func (c Category) Encrypted() bool {
	return c.Color != nil && c.Color.Encrypted
}

// Kind is the content type of a note.
type Kind string

const (
	KindMarkdown Kind = "markdown"
	KindScript   Kind = "script"
	KindPDF      Kind = "pdf"
)

// Note is a content item inside a category.
type Note struct {
	ID         string
	CategoryID string
	Title      string
	Language   string
	Kind       Kind
	Content    string
	Tags       []string
	UpdatedAt  time.Time
}

// Catalog is the content store behind the workspace.
type Catalog interface {
	ListCategories(ctx context.Context) ([]Category, error)
	CreateCategory(ctx context.Context, name, parentID string, color *ColorPreset) (Category, error)
	// ListNotes returns the notes of one category, most recently updated first.
	ListNotes(ctx context.Context, categoryID string) ([]Note, error)
	GetNote(ctx context.Context, id string) (Note, error)
	// SaveNote creates the note when ID is empty and updates it otherwise.
	SaveNote(ctx context.Context, note Note) (Note, error)
	DeleteNote(ctx context.Context, id string) error
	Close() error
}

// Open returns the backend selected by cfg.Store.
func Open(ctx context.Context, cfg config.Config) (Catalog, error) {
	switch cfg.Store {
	case config.StoreSQLite:
		return OpenSQLite(ctx, cfg.DatabasePath)
	case config.StoreFiles, "":
		return OpenFiles(cfg.NotesDir)
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}

// CategoryPath returns the names from the root down to id, e.g. for a
// breadcrumb. Unknown ids yield nil.
func CategoryPath(categories []Category, id string) []string {
	byID := make(map[string]Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}
	var path []string
	seen := map[string]bool{}
	for id != "" && !seen[id] {
		seen[id] = true
		c, ok := byID[id]
		if !ok {
			break
		}
		path = append([]string{c.Name}, path...)
		id = c.ParentID
	}
	return path
}

// FindCategory returns the category with the given id.
func FindCategory(categories []Category, id string) (Category, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// normalizeContent makes stored notes end with exactly one newline.
func normalizeContent(content string) string {
	return strings.TrimRight(content, "\r\n") + "\n"
}
