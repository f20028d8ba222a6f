package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/treykane/paneboard/internal/app"
	"github.com/treykane/paneboard/internal/catalog"
	"github.com/treykane/paneboard/internal/config"
	"github.com/treykane/paneboard/internal/logging"
	"github.com/treykane/paneboard/internal/markdown"
	"github.com/treykane/paneboard/internal/unlock"
	"github.com/treykane/paneboard/internal/watch"
)

var log = logging.New("main")

// overrides are the flags shared by the root and configure commands.
type overrides struct {
	notesDir     string
	store        string
	databasePath string
	glamourStyle string
	sidebarWidth int
}

func (o *overrides) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&o.notesDir, "notes-dir", "", "directory holding categories and notes")
	flags.StringVar(&o.store, "store", "", `note store: "files" or "sqlite"`)
	flags.StringVar(&o.databasePath, "database", "", "SQLite database path")
	flags.StringVar(&o.glamourStyle, "style", "", "glamour style for rendered notes")
	flags.IntVar(&o.sidebarWidth, "sidebar-width", 0, "category sidebar width in columns")
}

// apply layers the flags that were set over cfg.
func (o *overrides) apply(cfg *config.Config) error {
	if o.notesDir != "" {
		dir, err := config.NormalizeNotesDir(o.notesDir)
		if err != nil {
			return fmt.Errorf("invalid --notes-dir: %w", err)
		}
		cfg.NotesDir = dir
	}
	if o.store != "" {
		store, err := config.NormalizeStore(o.store)
		if err != nil {
			return err
		}
		cfg.Store = store
	}
	if o.databasePath != "" {
		cfg.DatabasePath = o.databasePath
	}
	if o.glamourStyle != "" {
		cfg.GlamourStyle = o.glamourStyle
	}
	if o.sidebarWidth > 0 {
		cfg.SidebarWidth = o.sidebarWidth
	}
	return nil
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var flags overrides
	root := &cobra.Command{
		Use:           "paneboard",
		Short:         "Multi-pane terminal notebook",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadOrInit()
			if err != nil {
				return err
			}
			if err := flags.apply(&cfg); err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}
	flags.register(root)
	root.AddCommand(newConfigureCommand(), newPassphraseCommand())
	return root
}

// loadOrInit reads the config, writing a default one on first run.
func loadOrInit() (config.Config, error) {
	cfg, err := config.Load()
	if !errors.Is(err, config.ErrNotConfigured) {
		return cfg, err
	}
	dir, err := config.DefaultNotesDir()
	if err != nil {
		return config.Config{}, err
	}
	if err := config.Save(config.Config{NotesDir: dir}); err != nil {
		return config.Config{}, err
	}
	log.Info("wrote default config", "notes_dir", dir)
	return config.Load()
}

func run(ctx context.Context, cfg config.Config) error {
	store, err := catalog.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.Store, err)
	}
	defer store.Close()

	reload := watch.New(watch.DefaultDebounce)
	defer reload.Close()
	// The SQLite store has no directory to watch; reloads come from the
	// refresh key only.
	if cfg.Store == config.StoreFiles {
		if err := reload.Watch(cfg.NotesDir); err != nil {
			log.Warn("live reload disabled", "error", err)
		}
	}

	model := app.New(app.Options{
		Config:    cfg,
		Catalog:   store,
		Guard:     unlock.NewGuard(cfg.PassphraseHash),
		Renderer:  markdown.NewRenderer(cfg.GlamourStyle),
		Reload:    reload,
		DraftsDir: filepath.Join(xdg.StateHome, "paneboard", "drafts"),
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion())
	model.Attach(p.Send)
	defer model.Detach()

	log.Info("starting", "store", cfg.Store, "notes_dir", cfg.NotesDir)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func newConfigureCommand() *cobra.Command {
	var flags overrides
	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Write settings to the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil && !errors.Is(err, config.ErrNotConfigured) {
				return err
			}
			if cfg.NotesDir == "" {
				if cfg.NotesDir, err = config.DefaultNotesDir(); err != nil {
					return err
				}
			}
			if err := flags.apply(&cfg); err != nil {
				return err
			}
			if err := config.Save(cfg); err != nil {
				return err
			}
			path, err := config.ConfigPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Saved", path)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newPassphraseCommand() *cobra.Command {
	var remove bool
	cmd := &cobra.Command{
		Use:   "passphrase",
		Short: "Set the passphrase guarding encrypted categories (read from stdin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				if errors.Is(err, config.ErrNotConfigured) {
					return errors.New("run `paneboard configure` first")
				}
				return err
			}
			if remove {
				cfg.PassphraseHash = ""
			} else {
				fmt.Fprint(cmd.ErrOrStderr(), "New passphrase: ")
				passphrase, err := readLine(cmd.InOrStdin())
				if err != nil {
					return err
				}
				if cfg.PassphraseHash, err = unlock.HashPassphrase(passphrase); err != nil {
					return err
				}
			}
			if err := config.Save(cfg); err != nil {
				return err
			}
			if remove {
				fmt.Fprintln(cmd.OutOrStdout(), "Passphrase removed")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Passphrase updated")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&remove, "clear", false, "remove the passphrase and stop locking categories")
	return cmd
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read passphrase: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
