package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DirPermission  = 0o755
	FilePermission = 0o644

	// CategoryMetaFile is the sidecar that names and colours a category directory.
	CategoryMetaFile = ".category.yaml"
)

// welcomeNote seeds an empty notes directory.
const welcomeNote = "# Welcome to paneboard\n\n" +
	"Categories are folders, notes are markdown files, scripts keep their source extension.\n\n" +
	"## Panes\n\n" +
	"- v: split the active pane\n" +
	"- x: close the active pane\n" +
	"- tab / shift+tab: move focus between panes\n" +
	"- drag a divider with the mouse, or press < and >, to resize\n\n" +
	"## Notes\n\n" +
	"- enter: view the selected note\n" +
	"- e: edit, n: new note, ctrl+s: save\n" +
	"- t: table of contents for the note in this pane\n" +
	"- a: AI view for the category\n\n" +
	"## Categories\n\n" +
	"Add a `.category.yaml` next to your notes to rename a category or give it a colour:\n\n" +
	"```yaml\nname: Work\ncolor:\n  name: ocean\n  hex: \"#1e90ff\"\n  encrypted: false\n```\n"

// scriptLanguages maps source extensions to the language recorded on script notes.
var scriptLanguages = map[string]string{
	".go":   "go",
	".py":   "python",
	".sh":   "bash",
	".js":   "javascript",
	".ts":   "typescript",
	".sql":  "sql",
	".rs":   "rust",
	".rb":   "ruby",
	".java": "java",
	".c":    "c",
	".cpp":  "cpp",
	".lua":  "lua",
}

// ScriptLanguage splits a name such as "deploy.sh" into its title and script
// language. ok is false for names without a known source extension.
func ScriptLanguage(name string) (title, language string, ok bool) {
	ext := strings.ToLower(filepath.Ext(name))
	language, ok = scriptLanguages[ext]
	if !ok || len(name) == len(ext) {
		return name, "", false
	}
	return name[:len(name)-len(ext)], language, true
}

// categoryMeta is the optional sidecar that renames or colours a category.
type categoryMeta struct {
	Name  string       `yaml:"name,omitempty"`
	Color *ColorPreset `yaml:"color,omitempty"`
}

// Files is a Catalog backed by a directory tree. Directories are categories,
// files are notes, and ids are slash-separated paths relative to the root.
type Files struct {
	root string
}

// OpenFiles prepares root, seeding a welcome note when it is empty.
func OpenFiles(root string) (*Files, error) {
	if err := os.MkdirAll(root, DirPermission); err != nil {
		return nil, fmt.Errorf("create notes directory %q: %w", root, err)
	}
	if isDirEmpty(root) {
		dir := filepath.Join(root, "Getting Started")
		if err := os.MkdirAll(dir, DirPermission); err != nil {
			return nil, fmt.Errorf("seed welcome category: %w", err)
		}
		welcomePath := filepath.Join(dir, "Welcome.md")
		if err := os.WriteFile(welcomePath, []byte(welcomeNote), FilePermission); err != nil {
			return nil, fmt.Errorf("seed welcome note %q: %w", welcomePath, err)
		}
		storeLog.Info("seeded notes directory", "path", root)
	}
	return &Files{root: root}, nil
}

// Root is the notes directory.
func (f *Files) Root() string { return f.root }

func (f *Files) Close() error { return nil }

// ListCategories walks the tree. Hidden directories are skipped.
func (f *Files) ListCategories(ctx context.Context) ([]Category, error) {
	var out []Category
	err := filepath.WalkDir(f.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !d.IsDir() || p == f.root {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		id := f.idFor(p)
		out = append(out, f.readCategory(p, id))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

func (f *Files) readCategory(dir, id string) Category {
	c := Category{ID: id, Name: filepath.Base(dir)}
	if parent := path.Dir(id); parent != "." {
		c.ParentID = parent
	}
	data, err := os.ReadFile(filepath.Join(dir, CategoryMetaFile))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			storeLog.Warn("read category metadata", "path", dir, "error", err)
		}
		return c
	}
	var meta categoryMeta
	if err := yaml.Unmarshal(data, &meta); err != nil {
		storeLog.Warn("parse category metadata", "path", dir, "error", err)
		return c
	}
	if strings.TrimSpace(meta.Name) != "" {
		c.Name = strings.TrimSpace(meta.Name)
	}
	c.Color = meta.Color
	return c
}

// CreateCategory makes a directory under parentID.
func (f *Files) CreateCategory(ctx context.Context, name, parentID string, color *ColorPreset) (Category, error) {
	dirName := sanitizeFileName(name)
	if dirName == "" {
		return Category{}, errors.New("category name is required")
	}
	parent, err := f.resolveDir(parentID)
	if err != nil {
		return Category{}, err
	}
	dir := filepath.Join(parent, dirName)
	if _, err := os.Stat(dir); err == nil {
		return Category{}, fmt.Errorf("category %q: %w", name, ErrExists)
	}
	if err := os.Mkdir(dir, DirPermission); err != nil {
		return Category{}, fmt.Errorf("create category %q: %w", name, err)
	}
	if color != nil || dirName != strings.TrimSpace(name) {
		data, err := yaml.Marshal(categoryMeta{Name: strings.TrimSpace(name), Color: color})
		if err != nil {
			return Category{}, fmt.Errorf("encode category metadata: %w", err)
		}
		if err := os.WriteFile(filepath.Join(dir, CategoryMetaFile), data, FilePermission); err != nil {
			return Category{}, fmt.Errorf("write category metadata: %w", err)
		}
	}
	return f.readCategory(dir, f.idFor(dir)), nil
}

// ListNotes lists the files directly inside a category.
func (f *Files) ListNotes(ctx context.Context, categoryID string) ([]Note, error) {
	dir, err := f.resolveDir(categoryID)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list notes in %q: %w", categoryID, err)
	}
	notes := make([]Note, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		p := filepath.Join(dir, entry.Name())
		if _, _, ok := kindFor(p); !ok {
			continue
		}
		note, err := f.readNote(p)
		if err != nil {
			storeLog.Warn("skip unreadable note", "path", p, "error", err)
			continue
		}
		notes = append(notes, note)
	}
	sortNotes(notes)
	return notes, nil
}

// GetNote reads one note.
func (f *Files) GetNote(_ context.Context, id string) (Note, error) {
	p, err := f.resolve(id)
	if err != nil {
		return Note{}, err
	}
	return f.readNote(p)
}

func (f *Files) readNote(p string) (Note, error) {
	info, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Note{}, fmt.Errorf("note %q: %w", f.idFor(p), ErrNotFound)
		}
		return Note{}, fmt.Errorf("stat note: %w", err)
	}
	kind, language, ok := kindFor(p)
	if info.IsDir() || !ok {
		return Note{}, fmt.Errorf("note %q: %w", f.idFor(p), ErrNotFound)
	}

	id := f.idFor(p)
	note := Note{
		ID:        id,
		Title:     strings.TrimSuffix(filepath.Base(p), filepath.Ext(p)),
		Kind:      kind,
		Language:  language,
		UpdatedAt: info.ModTime(),
	}
	if parent := path.Dir(id); parent != "." {
		note.CategoryID = parent
	}
	if kind == KindPDF {
		return note, nil
	}

	data, err := os.ReadFile(p)
	if err != nil {
		return Note{}, fmt.Errorf("read note: %w", err)
	}
	if kind == KindScript {
		note.Content = string(data)
		return note, nil
	}
	fm, body := splitFrontMatter(string(data))
	if fm.Title != "" {
		note.Title = fm.Title
	}
	if fm.Language != "" {
		note.Language = fm.Language
	}
	note.Tags = fm.Tags
	note.Content = body
	return note, nil
}

// SaveNote writes note. New notes get a file name derived from the title;
// moving a note to another category moves its file.
func (f *Files) SaveNote(ctx context.Context, note Note) (Note, error) {
	if note.Kind == "" {
		note.Kind = KindMarkdown
	}
	if note.Kind == KindPDF {
		return Note{}, fmt.Errorf("save %q: %w", note.Title, ErrReadOnly)
	}
	dir, err := f.resolveDir(note.CategoryID)
	if err != nil {
		return Note{}, err
	}

	var target string
	if note.ID == "" {
		base := sanitizeFileName(note.Title)
		if base == "" {
			base = "Untitled"
		}
		target = uniquePath(dir, base, extensionFor(note))
	} else {
		current, err := f.resolve(note.ID)
		if err != nil {
			return Note{}, err
		}
		if _, err := os.Stat(current); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return Note{}, fmt.Errorf("note %q: %w", note.ID, ErrNotFound)
			}
			return Note{}, fmt.Errorf("stat note: %w", err)
		}
		target = current
		if filepath.Dir(current) != dir {
			ext := filepath.Ext(current)
			target = uniquePath(dir, strings.TrimSuffix(filepath.Base(current), ext), ext)
			if err := os.Rename(current, target); err != nil {
				return Note{}, fmt.Errorf("move note: %w", err)
			}
		}
	}

	content := normalizeContent(note.Content)
	if note.Kind == KindMarkdown {
		content, err = joinFrontMatter(frontMatter{Title: note.Title, Tags: note.Tags}, note.Content)
		if err != nil {
			return Note{}, err
		}
	}
	if err := os.WriteFile(target, []byte(content), FilePermission); err != nil {
		return Note{}, fmt.Errorf("write note: %w", err)
	}
	storeLog.Debug("saved note", "path", target)
	return f.GetNote(ctx, f.idFor(target))
}

// DeleteNote removes the note file.
func (f *Files) DeleteNote(_ context.Context, id string) error {
	p, err := f.resolve(id)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("note %q: %w", id, ErrNotFound)
		}
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}

func (f *Files) idFor(p string) string {
	rel, err := filepath.Rel(f.root, p)
	if err != nil {
		return ""
	}
	return filepath.ToSlash(rel)
}

// resolve maps an id to a path inside the root.
func (f *Files) resolve(id string) (string, error) {
	clean := path.Clean("/" + strings.TrimSpace(id))
	if clean == "/" {
		return "", fmt.Errorf("empty id: %w", ErrNotFound)
	}
	p := filepath.Join(f.root, filepath.FromSlash(strings.TrimPrefix(clean, "/")))
	if !isWithinRoot(f.root, p) {
		return "", fmt.Errorf("id %q: %w", id, ErrNotFound)
	}
	return p, nil
}

// resolveDir maps a category id to an existing directory. The empty id is the
// root.
func (f *Files) resolveDir(categoryID string) (string, error) {
	if strings.TrimSpace(categoryID) == "" {
		return f.root, nil
	}
	dir, err := f.resolve(categoryID)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("category %q: %w", categoryID, ErrNotFound)
	}
	return dir, nil
}

func kindFor(p string) (Kind, string, bool) {
	ext := strings.ToLower(filepath.Ext(p))
	switch ext {
	case ".md", ".markdown":
		return KindMarkdown, "", true
	case ".pdf":
		return KindPDF, "", true
	}
	if lang, ok := scriptLanguages[ext]; ok {
		return KindScript, lang, true
	}
	return "", "", false
}

func extensionFor(note Note) string {
	if note.Kind != KindScript {
		return ".md"
	}
	for ext, lang := range scriptLanguages {
		if strings.EqualFold(lang, note.Language) {
			return ext
		}
	}
	return ".sh"
}

func sortNotes(notes []Note) {
	sort.SliceStable(notes, func(i, j int) bool {
		if !notes[i].UpdatedAt.Equal(notes[j].UpdatedAt) {
			return notes[i].UpdatedAt.After(notes[j].UpdatedAt)
		}
		return strings.ToLower(notes[i].Title) < strings.ToLower(notes[j].Title)
	})
}

func sanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	replacer := strings.NewReplacer("/", "-", "\\", "-", ":", "-", "\x00", "")
	name = replacer.Replace(name)
	return strings.Trim(name, ". ")
}

func uniquePath(dir, base, ext string) string {
	candidate := filepath.Join(dir, base+ext)
	for i := 2; ; i++ {
		if _, err := os.Stat(candidate); errors.Is(err, os.ErrNotExist) {
			return candidate
		}
		candidate = filepath.Join(dir, fmt.Sprintf("%s %d%s", base, i, ext))
	}
}

func isWithinRoot(root, p string) bool {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func isDirEmpty(p string) bool {
	entries, err := os.ReadDir(p)
	if err != nil {
		return false
	}
	return len(entries) == 0
}
