package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	_ "modernc.org/sqlite"
)

// SQLite is a Catalog backed by a single database file.
type SQLite struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens (creating if needed) the database at path and migrates it.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("database path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), DirPermission); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}
	// modernc.org/sqlite registers as "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// A single connection keeps the pragmas below in effect for every query.
	db.SetMaxOpenConns(1)
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply %q: %w", p, err)
		}
	}
	if err := migrateSQLite(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	storeLog.Info("opened sqlite store", "path", path)
	return &SQLite{db: db, path: path}, nil
}

func migrateSQLite(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS color_presets (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			hex TEXT NOT NULL,
			encrypted INTEGER NOT NULL DEFAULT 0,
			created_at_unixms INTEGER NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS categories (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			color_preset_id TEXT REFERENCES color_presets(id) ON DELETE SET NULL,
			parent_id TEXT REFERENCES categories(id) ON DELETE CASCADE,
			created_at_unixms INTEGER NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS notes (
			id TEXT PRIMARY KEY,
			category_id TEXT NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
			title TEXT NOT NULL,
			language TEXT NOT NULL DEFAULT '',
			kind TEXT NOT NULL,
			content_md TEXT NOT NULL DEFAULT '',
			tags TEXT NOT NULL DEFAULT '',
			created_at_unixms INTEGER NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_notes_category ON notes(category_id, updated_at_unixms);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

// Path is the database file.
func (s *SQLite) Path() string { return s.path }

func (s *SQLite) Close() error { return s.db.Close() }

func (s *SQLite) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.name, COALESCE(c.parent_id, ''), p.name, p.hex, p.encrypted
		FROM categories c
		LEFT JOIN color_presets p ON p.id = c.color_preset_id
		ORDER BY c.name COLLATE NOCASE ASC`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		var (
			c         Category
			colorName sql.NullString
			colorHex  sql.NullString
			encrypted sql.NullBool
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.ParentID, &colorName, &colorHex, &encrypted); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		if colorName.Valid {
			c.Color = &ColorPreset{Name: colorName.String, Hex: colorHex.String, Encrypted: encrypted.Bool}
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLite) CreateCategory(ctx context.Context, name, parentID string, color *ColorPreset) (Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Category{}, errors.New("category name is required")
	}
	if parentID != "" {
		if err := s.requireCategory(ctx, parentID); err != nil {
			return Category{}, err
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Category{}, err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UnixMilli()
	var presetID sql.NullString
	if color != nil {
		id, err := ensurePreset(ctx, tx, *color, now)
		if err != nil {
			return Category{}, err
		}
		presetID = sql.NullString{String: id, Valid: true}
	}
	var parent sql.NullString
	if parentID != "" {
		parent = sql.NullString{String: parentID, Valid: true}
	}

	c := Category{ID: uuid.NewString(), Name: name, ParentID: parentID, Color: color}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO categories(id, name, color_preset_id, parent_id, created_at_unixms, updated_at_unixms) VALUES(?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, presetID, parent, now, now,
	); err != nil {
		return Category{}, fmt.Errorf("insert category: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return Category{}, err
	}
	return c, nil
}

// ensurePreset reuses an identical preset or inserts a new one.
func ensurePreset(ctx context.Context, tx *sql.Tx, p ColorPreset, now int64) (string, error) {
	var id string
	err := tx.QueryRowContext(ctx,
		`SELECT id FROM color_presets WHERE name = ? AND hex = ? AND encrypted = ?`,
		p.Name, p.Hex, p.Encrypted,
	).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("find color preset: %w", err)
	}
	id = uuid.NewString()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO color_presets(id, name, hex, encrypted, created_at_unixms, updated_at_unixms) VALUES(?, ?, ?, ?, ?, ?)`,
		id, p.Name, p.Hex, p.Encrypted, now, now,
	); err != nil {
		return "", fmt.Errorf("insert color preset: %w", err)
	}
	return id, nil
}

func (s *SQLite) requireCategory(ctx context.Context, id string) error {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM categories WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("category %q: %w", id, ErrNotFound)
	}
	return err
}

const noteColumns = `id, category_id, title, language, kind, content_md, tags, updated_at_unixms`

func scanNote(row interface{ Scan(...any) error }) (Note, error) {
	var (
		n       Note
		kind    string
		tags    string
		updated int64
	)
	if err := row.Scan(&n.ID, &n.CategoryID, &n.Title, &n.Language, &kind, &n.Content, &tags, &updated); err != nil {
		return Note{}, err
	}
	n.Kind = Kind(kind)
	n.Tags = normalizeTags(strings.Split(tags, ","))
	n.UpdatedAt = time.UnixMilli(updated)
	return n, nil
}

func (s *SQLite) ListNotes(ctx context.Context, categoryID string) ([]Note, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE category_id = ? ORDER BY updated_at_unixms DESC, rowid DESC`,
		categoryID,
	)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	var out []Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *SQLite) GetNote(ctx context.Context, id string) (Note, error) {
	n, err := scanNote(s.db.QueryRowContext(ctx, `SELECT `+noteColumns+` FROM notes WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Note{}, fmt.Errorf("note %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return Note{}, fmt.Errorf("get note: %w", err)
	}
	return n, nil
}

func (s *SQLite) SaveNote(ctx context.Context, note Note) (Note, error) {
	if note.Kind == "" {
		note.Kind = KindMarkdown
	}
	if note.Kind == KindPDF {
		return Note{}, fmt.Errorf("save %q: %w", note.Title, ErrReadOnly)
	}
	if err := s.requireCategory(ctx, note.CategoryID); err != nil {
		return Note{}, err
	}
	if strings.TrimSpace(note.Title) == "" {
		note.Title = "Untitled"
	}
	now := time.Now().UnixMilli()
	content := normalizeContent(note.Content)
	tags := strings.Join(normalizeTags(note.Tags), ",")

	if note.ID == "" {
		note.ID = uuid.NewString()
		if _, err := s.db.ExecContext(ctx,
			`INSERT INTO notes(id, category_id, title, language, kind, content_md, tags, created_at_unixms, updated_at_unixms)
			 VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			note.ID, note.CategoryID, note.Title, note.Language, string(note.Kind), content, tags, now, now,
		); err != nil {
			return Note{}, fmt.Errorf("insert note: %w", err)
		}
		return s.GetNote(ctx, note.ID)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE notes SET category_id = ?, title = ?, language = ?, kind = ?, content_md = ?, tags = ?, updated_at_unixms = ?
		 WHERE id = ?`,
		note.CategoryID, note.Title, note.Language, string(note.Kind), content, tags, now, note.ID,
	)
	if err != nil {
		return Note{}, fmt.Errorf("update note: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return Note{}, fmt.Errorf("note %q: %w", note.ID, ErrNotFound)
	}
	return s.GetNote(ctx, note.ID)
}

func (s *SQLite) DeleteNote(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("note %q: %w", id, ErrNotFound)
	}
	return nil
}
