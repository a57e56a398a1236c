package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/config"
	"github.com/cleared-dev/tally/internal/gitops"
	"github.com/cleared-dev/tally/internal/kv"
	"github.com/cleared-dev/tally/internal/ledger"
)

type initOptions struct {
	backend  string
	currency string
	git      bool
}

func newInitCommand(opts *rootOptions) *cobra.Command {
	var flags initOptions

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new ledger",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := opts.dir
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd.OutOrStdout(), absDir, flags)
		},
	}

	cmd.Flags().StringVar(&flags.backend, "backend", kv.BackendFile, "storage backend (file, bolt, sqlite)")
	cmd.Flags().StringVar(&flags.currency, "currency", "USD", "display currency (ISO 4217)")
	cmd.Flags().BoolVar(&flags.git, "git", false, "initialize a git repository and auto-commit changes")

	return cmd
}

func runInit(out io.Writer, dir string, opts initOptions) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("checking %s: %w", cfgPath, err)
	}

	if opts.backend == kv.BackendMemory {
		return fmt.Errorf("the %s backend does not persist; pick file, bolt or sqlite", kv.BackendMemory)
	}

	cfg := config.Default()
	cfg.Storage.Backend = opts.backend
	cfg.Display.Currency = opts.currency
	cfg.Git.AutoCommit = opts.git
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Create directory structure.
	if err := os.MkdirAll(filepath.Join(dir, "logs"), 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	// Write the ledger so the backend exists on disk. Existing data is
	// kept, and unreadable data is left alone.
	backend, err := kv.Open(cfg.Storage.Backend, cfg.StoragePath(dir))
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	store := ledger.NewStore(backend, ledger.WithKey(cfg.Storage.Key))
	saveErr := store.Load()
	if saveErr == nil {
		saveErr = store.Save()
	}
	if err := backend.Close(); err != nil && saveErr == nil {
		saveErr = err
	}
	if saveErr != nil {
		return fmt.Errorf("writing ledger: %w", saveErr)
	}

	// Write tally.yaml.
	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Write .gitignore.
	gitignore := ".env\n*-wal\n*-shm\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	if !opts.git {
		fmt.Fprintf(out, "Initialized tally ledger at %s\n", dir)
		return nil
	}

	// Initialize git and create initial commit.
	if err := gitops.Init(dir); err != nil {
		return fmt.Errorf("git init: %w", err)
	}

	hash, err := gitops.CommitAll(dir, "init: Initialize tally ledger", cfg.Git.AuthorName, cfg.Git.AuthorEmail)
	if err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}

	fmt.Fprintf(out, "Initialized tally ledger at %s (%s)\n", dir, hash)
	return nil
}
