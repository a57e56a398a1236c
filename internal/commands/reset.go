package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/config"
	"github.com/cleared-dev/tally/internal/kv"
	"github.com/cleared-dev/tally/internal/ledger"
)

const backupDir = "backup"

func newResetCommand(opts *rootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Back up the stored ledger and start with an empty one",
		Long: `Reset copies the stored ledger value, readable or not, to
backup/<key>-<timestamp>.json in the data directory and then replaces it
with an empty ledger. Use it when the stored data can no longer be loaded.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("reset discards the current ledger; pass --yes to confirm")
			}
			dir, err := filepath.Abs(opts.dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			cfg, err := loadConfig(dir)
			if err != nil {
				return err
			}
			opts.applyLogLevel(cfg)
			return runReset(cmd.OutOrStdout(), dir, cfg, time.Now())
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")

	return cmd
}

func runReset(out io.Writer, dir string, cfg *config.Config, now time.Time) error {
	backend, err := kv.Open(cfg.Storage.Backend, cfg.StoragePath(dir))
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer backend.Close()

	value, ok, err := backend.Get(cfg.Storage.Key)
	if err != nil {
		return fmt.Errorf("reading stored ledger: %w", err)
	}
	if ok && value != "" {
		if err := os.MkdirAll(filepath.Join(dir, backupDir), 0o755); err != nil {
			return fmt.Errorf("creating backup dir: %w", err)
		}
		name := fmt.Sprintf("%s-%s.json", cfg.Storage.Key, now.UTC().Format("20060102T150405Z"))
		path := filepath.Join(dir, backupDir, name)
		if err := os.WriteFile(path, []byte(value), 0o644); err != nil {
			return fmt.Errorf("writing backup: %w", err)
		}
		fmt.Fprintf(out, "Backed up stored ledger to %s\n", path)
	}

	store := ledger.NewStore(backend, ledger.WithKey(cfg.Storage.Key))
	store.Reset()
	if err := store.Save(); err != nil {
		return fmt.Errorf("writing empty ledger: %w", err)
	}
	fmt.Fprintln(out, "Ledger reset.")
	return nil
}
