package commands

import (
	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/render"
)

func newListCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List transactions and the balance",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()
			s.ctrl.Resume()
			s.ctrl.Refresh()
			return nil
		},
	}
}

func newBalanceCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Show the balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts, render.WithoutList())
			if err != nil {
				return err
			}
			defer s.Close()
			s.ctrl.Resume()
			s.ctrl.Refresh()
			return nil
		},
	}
}
