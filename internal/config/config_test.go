package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadReturnsErrNotConfiguredWhenMissing(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	_, err := Load()
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := Config{NotesDir: "~/my-notes"}
	if err := Save(cfg); err != nil {
		t.Fatalf("save config: %v", err)
	}

	exists, err := Exists()
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	expected := filepath.Join(home, "my-notes")
	if loaded.NotesDir != expected {
		t.Fatalf("expected notes dir %q, got %q", expected, loaded.NotesDir)
	}
	if loaded.Store != StoreFiles {
		t.Fatalf("expected default store %q, got %q", StoreFiles, loaded.Store)
	}
	if loaded.GlamourStyle != DefaultGlamourStyle {
		t.Fatalf("expected default style %q, got %q", DefaultGlamourStyle, loaded.GlamourStyle)
	}
	if loaded.SidebarWidth != DefaultSidebarWidth {
		t.Fatalf("expected default sidebar width %d, got %d", DefaultSidebarWidth, loaded.SidebarWidth)
	}
	if !strings.HasSuffix(loaded.DatabasePath, filepath.Join("paneboard", "paneboard.db")) {
		t.Fatalf("unexpected default database path %q", loaded.DatabasePath)
	}

	path, err := ConfigPath()
	if err != nil {
		t.Fatalf("config path: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("stat config path: %v", err)
	}
}

func TestSaveAndLoadCustomSettings(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := Config{
		NotesDir:       "~/kb",
		Store:          "SQLite",
		DatabasePath:   "~/data/kb.db",
		GlamourStyle:   "light",
		PassphraseHash: "$2a$10$abc",
		Keybindings:    map[string]string{"split": "ctrl+\\"},
		SidebarWidth:   40,
	}
	if err := Save(cfg); err != nil {
		t.Fatalf("save config: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if loaded.Store != StoreSQLite {
		t.Fatalf("expected store %q, got %q", StoreSQLite, loaded.Store)
	}
	if want := filepath.Join(home, "data", "kb.db"); loaded.DatabasePath != want {
		t.Fatalf("expected database path %q, got %q", want, loaded.DatabasePath)
	}
	if loaded.GlamourStyle != "light" || loaded.PassphraseHash != "$2a$10$abc" || loaded.SidebarWidth != 40 {
		t.Fatalf("unexpected config: %+v", loaded)
	}
	if loaded.Keybindings["split"] != "ctrl+\\" {
		t.Fatalf("expected keybinding override, got %v", loaded.Keybindings)
	}
}

func TestSidebarWidthIsClamped(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	if err := Save(Config{NotesDir: "~/notes", SidebarWidth: 3}); err != nil {
		t.Fatalf("save config: %v", err)
	}
	loaded, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if loaded.SidebarWidth != minSidebarWidth {
		t.Fatalf("expected sidebar width %d, got %d", minSidebarWidth, loaded.SidebarWidth)
	}
}

func TestNormalizeStore(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "", want: StoreFiles},
		{input: "files", want: StoreFiles},
		{input: " SQLITE ", want: StoreSQLite},
		{input: "postgres", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := NormalizeStore(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("NormalizeStore(%q): got %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeNotesDirRejectsEmpty(t *testing.T) {
	if _, err := NormalizeNotesDir("   "); err == nil {
		t.Fatal("expected error for empty path")
	}
}
