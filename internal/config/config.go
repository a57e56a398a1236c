package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/tally/internal/kv"
)

// FileName is the config file inside a data directory.
const FileName = "tally.yaml"

// Config represents the top-level tally.yaml configuration.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Display DisplayConfig `yaml:"display"`
	Log     LogConfig     `yaml:"log"`
	Git     GitConfig     `yaml:"git"`
}

// StorageConfig selects where the ledger is persisted.
type StorageConfig struct {
	Backend string `yaml:"backend"`        // memory, file, bolt, sqlite
	Path    string `yaml:"path,omitempty"` // relative to the data directory
	Key     string `yaml:"key"`
}

// DisplayConfig controls how amounts and balance changes are shown.
type DisplayConfig struct {
	Currency string `yaml:"currency"`
	FlashMS  int    `yaml:"flash_ms"`
}

// LogConfig sets the log level (trace, debug, info, warn, error).
type LogConfig struct {
	Level string `yaml:"level"`
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a tally.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// LoadDir reads <dir>/tally.yaml, falling back to Default when it does not exist.
func LoadDir(dir string) (*Config, error) {
	cfg, err := Load(filepath.Join(dir, FileName))
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new ledger.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend: kv.BackendFile,
			Key:     "transactions",
		},
		Display: DisplayConfig{
			Currency: "USD",
			FlashMS:  300,
		},
		Log: LogConfig{
			Level: "info",
		},
		Git: GitConfig{
			AutoCommit:  false,
			AuthorName:  "Tally",
			AuthorEmail: "tally@localhost",
		},
	}
}

// Environment variables that override the file.
const (
	EnvBackend  = "TALLY_STORAGE_BACKEND"
	EnvPath     = "TALLY_STORAGE_PATH"
	EnvKey      = "TALLY_STORAGE_KEY"
	EnvCurrency = "TALLY_CURRENCY"
	EnvFlashMS  = "TALLY_FLASH_MS"
	EnvLogLevel = "TALLY_LOG_LEVEL"
)

// ApplyEnv loads any existing env files (variables already set win) and
// then overrides cfg from TALLY_* variables.
func ApplyEnv(cfg *Config, envFiles ...string) error {
	for _, f := range envFiles {
		if f == "" {
			continue
		}
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("loading env file %s: %w", f, err)
		}
	}

	if v := os.Getenv(EnvBackend); v != "" {
		cfg.Storage.Backend = v
	}
	if v := os.Getenv(EnvPath); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv(EnvKey); v != "" {
		cfg.Storage.Key = v
	}
	if v := os.Getenv(EnvCurrency); v != "" {
		cfg.Display.Currency = v
	}
	if v := os.Getenv(EnvFlashMS); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvFlashMS, v, err)
		}
		cfg.Display.FlashMS = ms
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if !kv.IsBackend(c.Storage.Backend) {
		return fmt.Errorf("storage.backend: unknown backend %q (want one of %s)",
			c.Storage.Backend, strings.Join(kv.Backends(), ", "))
	}
	if strings.TrimSpace(c.Storage.Key) == "" {
		return fmt.Errorf("storage.key: must not be empty")
	}
	if money.GetCurrency(c.Display.Currency) == nil {
		return fmt.Errorf("display.currency: unknown currency %q", c.Display.Currency)
	}
	if c.Display.FlashMS < 0 {
		return fmt.Errorf("display.flash_ms: must not be negative")
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// FlashDuration returns the balance flash duration.
func (c *Config) FlashDuration() time.Duration {
	return time.Duration(c.Display.FlashMS) * time.Millisecond
}

// StoragePath resolves the backend location against the data directory.
// An empty path picks a per-backend default.
func (c *Config) StoragePath(dataDir string) string {
	p := c.Storage.Path
	if p == "" {
		switch strings.ToLower(c.Storage.Backend) {
		case kv.BackendBolt:
			p = "tally.db"
		case kv.BackendSQLite:
			p = "tally.sqlite"
		default:
			p = "data"
		}
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dataDir, p)
}
