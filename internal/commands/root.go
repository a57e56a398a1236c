// Package commands implements the tally command line.
package commands

import (
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/buildinfo"
	"github.com/cleared-dev/tally/internal/config"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	dir   string
	debug bool
	log   zerolog.Logger
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{log: zerolog.Nop()}

	rootCmd := &cobra.Command{
		Use:     "tally",
		Short:   "Personal income and expense ledger",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := zerolog.InfoLevel
			if opts.debug {
				level = zerolog.DebugLevel
			}
			opts.log = newLogger(cmd.ErrOrStderr(), level)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.dir, "dir", "C", ".", "ledger data directory")
	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(
		newInitCommand(opts),
		newAddCommand(opts),
		newEditCommand(opts),
		newDeleteCommand(opts),
		newListCommand(opts),
		newBalanceCommand(opts),
		newShellCommand(opts),
		newExportCommand(opts),
		newImportCommand(opts),
		newLogCommand(opts),
		newResetCommand(opts),
	)

	return rootCmd
}

func newLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// applyLogLevel narrows the logger to the configured level unless --debug was given.
func (o *rootOptions) applyLogLevel(cfg *config.Config) {
	if o.debug {
		return
	}
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil || level == zerolog.NoLevel {
		return
	}
	o.log = o.log.Level(level)
}
