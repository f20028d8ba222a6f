package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"

	"github.com/treykane/paneboard/internal/logging"
)

const (
	configDirName  = ".paneboard"
	configFileName = "config.json"

	// StoreFiles keeps categories and notes as a directory tree of markdown files.
	StoreFiles = "files"
	// StoreSQLite keeps them in a single SQLite database.
	StoreSQLite = "sqlite"

	DefaultGlamourStyle = "dark"
	DefaultSidebarWidth = 28
	minSidebarWidth     = 16
)

var (
	ErrNotConfigured = errors.New("paneboard is not configured")

	log = logging.New("config")
)

// Config stores user-defined paneboard settings.
type Config struct {
	NotesDir       string            `json:"notes_dir"`
	Store          string            `json:"store,omitempty"`
	DatabasePath   string            `json:"database_path,omitempty"`
	GlamourStyle   string            `json:"glamour_style,omitempty"`
	PassphraseHash string            `json:"passphrase_hash,omitempty"`
	Keybindings    map[string]string `json:"keybindings,omitempty"`
	SidebarWidth   int               `json:"sidebar_width,omitempty"`
}

// DefaultNotesDir returns the default notes directory used by the configurator.
func DefaultNotesDir() (string, error) {
	return underHome("notes")
}

// DefaultDatabasePath is where the SQLite store lives unless configured.
func DefaultDatabasePath() string {
	return filepath.Join(xdg.DataHome, "paneboard", "paneboard.db")
}

// ConfigPath returns the configuration file path.
func ConfigPath() (string, error) {
	return underHome(configDirName, configFileName)
}

func underHome(elem ...string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(append([]string{home}, elem...)...), nil
}

// Exists reports whether the config file exists.
func Exists() (bool, error) {
	path, err := ConfigPath()
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("stat config path: %w", err)
}

// Load reads, validates and fills defaults into the saved configuration.
func Load() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, ErrNotConfigured
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return Config{}, err
	}
	log.Debug("loaded config", "path", path, "store", cfg.Store)
	return cfg, nil
}

// Save writes configuration to disk.
func Save(cfg Config) error {
	if err := cfg.normalize(); err != nil {
		return err
	}

	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	log.Info("saved config", "path", path)
	return nil
}

// normalize validates cfg in place and fills defaults.
func (cfg *Config) normalize() error {
	notesDir, err := NormalizeNotesDir(cfg.NotesDir)
	if err != nil {
		return fmt.Errorf("invalid notes_dir: %w", err)
	}
	cfg.NotesDir = notesDir

	store, err := NormalizeStore(cfg.Store)
	if err != nil {
		return err
	}
	cfg.Store = store

	if strings.TrimSpace(cfg.DatabasePath) == "" {
		cfg.DatabasePath = DefaultDatabasePath()
	} else {
		expanded, err := expandHome(strings.TrimSpace(cfg.DatabasePath))
		if err != nil {
			return fmt.Errorf("invalid database_path: %w", err)
		}
		cfg.DatabasePath = filepath.Clean(expanded)
	}

	if strings.TrimSpace(cfg.GlamourStyle) == "" {
		cfg.GlamourStyle = DefaultGlamourStyle
	}
	if cfg.SidebarWidth == 0 {
		cfg.SidebarWidth = DefaultSidebarWidth
	} else if cfg.SidebarWidth < minSidebarWidth {
		cfg.SidebarWidth = minSidebarWidth
	}
	return nil
}

// NormalizeStore validates a store name. Empty selects the file store.
func NormalizeStore(store string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(store)) {
	case "", StoreFiles:
		return StoreFiles, nil
	case StoreSQLite:
		return StoreSQLite, nil
	default:
		return "", fmt.Errorf("invalid store %q: want %q or %q", store, StoreFiles, StoreSQLite)
	}
}

// NormalizeNotesDir expands ~ and returns the cleaned absolute path.
func NormalizeNotesDir(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", errors.New("path is required")
	}
	expanded, err := expandHome(path)
	if err != nil {
		return "", err
	}
	return filepath.Abs(expanded)
}

func expandHome(path string) (string, error) {
	switch {
	case path == "~":
		return os.UserHomeDir()
	case strings.HasPrefix(path, "~/"):
		return underHome(path[2:])
	default:
		return path, nil
	}
}
