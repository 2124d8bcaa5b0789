// Package config loads MathNote settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/mmynk/mathnote/internal/storage"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
	BackendFile   = "file"
	BackendMemory = "memory"
)

// Config holds every setting the CLI and server need.
type Config struct {
	// DataDir holds the database or slot files.
	DataDir string `validate:"required_unless=Backend memory"`

	// Backend selects the storage.Slot implementation.
	Backend string `validate:"oneof=sqlite badger file memory"`

	// StorageKey names the slot the document lives in.
	StorageKey string `validate:"required,excludesall=/"`

	// Addr is the listen address for serve.
	Addr string `validate:"required"`

	// StaticPath is the directory holding the built UI.
	StaticPath string

	// Watch reloads the document when another process rewrites the slot.
	// Only the file backend supports it.
	Watch bool

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `validate:"oneof=debug info warn error"`
}

var validate = validator.New()

// Load reads .env (if present) and the environment, applying defaults.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	watch, err := strconv.ParseBool(getEnv("MATHNOTE_WATCH", "false"))
	if err != nil {
		return nil, fmt.Errorf("MATHNOTE_WATCH: %w", err)
	}

	cfg := &Config{
		DataDir:    getEnv("MATHNOTE_DATA_DIR", defaultDataDir()),
		Backend:    getEnv("MATHNOTE_BACKEND", BackendSQLite),
		StorageKey: getEnv("MATHNOTE_STORAGE_KEY", storage.DefaultKey),
		Addr:       getEnv("MATHNOTE_ADDR", ":8080"),
		StaticPath: getEnv("MATHNOTE_STATIC_PATH", "./dist"),
		Watch:      watch,
		LogLevel:   getEnv("LOG_LEVEL", "info"),
	}

	return cfg, nil
}

// Validate checks the settings after flags have been applied.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Watch && c.Backend != BackendFile {
		return fmt.Errorf("invalid config: watch requires the %s backend", BackendFile)
	}
	return nil
}

// SQLitePath is the database file for the sqlite backend.
func (c *Config) SQLitePath() string {
	return filepath.Join(c.DataDir, "mathnote.db")
}

// BadgerPath is the database directory for the badger backend.
func (c *Config) BadgerPath() string {
	return filepath.Join(c.DataDir, "badger")
}

// SlotDir is the directory for the file backend.
func (c *Config) SlotDir() string {
	return filepath.Join(c.DataDir, "slots")
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".mathnote"
	}
	return filepath.Join(home, ".mathnote")
}
