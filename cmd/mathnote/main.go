package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmynk/mathnote/internal/config"
	"github.com/mmynk/mathnote/internal/document"
	"github.com/mmynk/mathnote/internal/storage"
	"github.com/mmynk/mathnote/internal/storage/badger"
	"github.com/mmynk/mathnote/internal/storage/file"
	"github.com/mmynk/mathnote/internal/storage/memory"
	"github.com/mmynk/mathnote/internal/storage/sqlite"
	"github.com/mmynk/mathnote/pkg/logging"
)

var (
	cfg *config.Config

	dataDir   string
	backend   string
	key       string
	logLevel  string
	ephemeral bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "mathnote",
		Short:        "Math notes organized in groups",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load()
			if err != nil {
				return err
			}
			applyFlags(cmd, loaded)
			if err := loaded.Validate(); err != nil {
				return err
			}
			logging.Setup(loaded.LogLevel)
			cfg = loaded
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&dataDir, "data-dir", "", "directory holding the notes database (env MATHNOTE_DATA_DIR)")
	flags.StringVar(&backend, "backend", "", "storage backend: sqlite, badger, file or memory (env MATHNOTE_BACKEND)")
	flags.StringVar(&key, "key", "", "storage slot name (env MATHNOTE_STORAGE_KEY)")
	flags.StringVar(&logLevel, "log-level", "", "debug, info, warn or error (env LOG_LEVEL)")
	flags.BoolVar(&ephemeral, "ephemeral", false, "keep notes in memory only")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(groupsCmd())
	rootCmd.AddCommand(addGroupCmd())
	rootCmd.AddCommand(renameGroupCmd())
	rootCmd.AddCommand(deleteGroupCmd())
	rootCmd.AddCommand(addNoteCmd())
	rootCmd.AddCommand(editCmd())
	rootCmd.AddCommand(deleteNoteCmd())
	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(symbolsCmd())

	rootCmd.SetErrPrefix(styles.Error.Render("Error:"))

	return rootCmd
}

// applyFlags overrides environment settings with flags given on the command line.
func applyFlags(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("data-dir") {
		c.DataDir = dataDir
	}
	if flags.Changed("backend") {
		c.Backend = backend
	}
	if flags.Changed("key") {
		c.StorageKey = key
	}
	if flags.Changed("log-level") {
		c.LogLevel = logLevel
	}
	if ephemeral {
		c.Backend = config.BackendMemory
	}
}

// openSlot opens the storage backend selected by c.
func openSlot(c *config.Config) (storage.Slot, error) {
	switch c.Backend {
	case config.BackendSQLite:
		return sqlite.New(c.SQLitePath())
	case config.BackendBadger:
		bc := badger.DefaultConfig(c.BadgerPath())
		bc.Logger = slog.Default().With("component", "badger")
		return badger.Open(bc)
	case config.BackendFile:
		return file.New(c.SlotDir())
	case config.BackendMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", c.Backend)
	}
}

// getStore opens the configured slot and loads the document from it.
// The returned close function releases the slot.
func getStore(ctx context.Context) (*document.Store, storage.Slot, func(), error) {
	slot, err := openSlot(cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open %s storage: %w", cfg.Backend, err)
	}

	store := document.New(slot, document.WithKey(cfg.StorageKey))
	store.Load(ctx)

	closeFn := func() {
		if err := slot.Close(); err != nil {
			slog.Warn("Failed to close storage", "backend", cfg.Backend, "error", err)
		}
	}
	return store, slot, closeFn, nil
}
