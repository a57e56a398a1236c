package commands

import (
	"fmt"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/activity"
	"github.com/cleared-dev/tally/internal/id"
	"github.com/cleared-dev/tally/internal/model"
	"github.com/cleared-dev/tally/internal/render"
)

func newLogCommand(opts *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show the activity log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := filepath.Abs(opts.dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			cfg, err := loadConfig(dir)
			if err != nil {
				return err
			}

			entries, err := activity.Read(dir)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No activity.")
				return nil
			}
			if limit > 0 && len(entries) > limit {
				entries = entries[len(entries)-limit:]
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, e := range entries {
				tx := model.Transaction{Amount: e.Amount, Type: e.Type}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					e.Timestamp.Local().Format(time.DateTime),
					e.Action,
					id.Format(e.TransactionID),
					e.Description,
					render.FormatSigned(tx, cfg.Display.Currency),
				)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show only the last n entries")

	return cmd
}
