package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/id"
	"github.com/cleared-dev/tally/internal/ledger"
	"github.com/cleared-dev/tally/internal/render"
)

func newAddCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <income|expense> <amount> <description...>",
		Short: "Add a transaction",
		Example: `  tally add income 1000 Salary
  tally add expense 12.50 Coffee beans`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts, render.WithoutList())
			if err != nil {
				return err
			}
			defer s.Close()
			return runAdd(cmd.OutOrStdout(), s, args[0], args[1], strings.Join(args[2:], " "))
		},
	}
}

func runAdd(out io.Writer, s *session, rawType, rawAmount, description string) error {
	s.ctrl.Resume()
	res := s.ctrl.Submit(description, rawAmount, rawType)
	if !res.OK() {
		return errInvalid
	}
	printResult(out, res, s.currency())
	s.commit(commitMessage(res))
	return nil
}

type editOptions struct {
	description string
	amount      string
	typ         string
}

func newEditCommand(opts *rootOptions) *cobra.Command {
	var flags editOptions

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a transaction; omitted fields keep their current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			txID, err := id.Parse(args[0])
			if err != nil {
				return err
			}
			s, err := openSession(cmd, opts, render.WithoutList())
			if err != nil {
				return err
			}
			defer s.Close()

			return runEdit(cmd.OutOrStdout(), s, txID, flags, cmd.Flags().Changed)
		},
	}

	cmd.Flags().StringVarP(&flags.description, "description", "d", "", "new description")
	cmd.Flags().StringVarP(&flags.amount, "amount", "a", "", "new amount")
	cmd.Flags().StringVarP(&flags.typ, "type", "t", "", "new type (income or expense)")

	return cmd
}

func runEdit(out io.Writer, s *session, txID int64, flags editOptions, changed func(string) bool) error {
	s.ctrl.Resume()
	if !s.ctrl.BeginEdit(txID) {
		return fmt.Errorf("transaction %s not found", id.Format(txID))
	}
	current, _ := s.store.Get(txID)

	description := current.Description
	if changed("description") {
		description = flags.description
	}
	amount := current.Amount.String()
	if changed("amount") {
		amount = flags.amount
	}
	typ := string(current.Type)
	if changed("type") {
		typ = flags.typ
	}

	res := s.ctrl.Submit(description, amount, typ)
	if !res.OK() {
		s.ctrl.CancelEdit()
		return errInvalid
	}
	printResult(out, res, s.currency())
	s.commit(commitMessage(res))
	return nil
}

func newDeleteCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a transaction",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			txID, err := id.Parse(args[0])
			if err != nil {
				return err
			}
			s, err := openSession(cmd, opts, render.WithoutList())
			if err != nil {
				return err
			}
			defer s.Close()
			return runDelete(cmd.OutOrStdout(), s, txID)
		},
	}
}

func runDelete(out io.Writer, s *session, txID int64) error {
	s.ctrl.Resume()
	tx, _ := s.store.Get(txID)
	if !s.ctrl.Delete(txID) {
		return fmt.Errorf("transaction %s not found", id.Format(txID))
	}
	res := ledger.Result{Action: ledger.ActionDeleted, Transaction: tx}
	printResult(out, res, s.currency())
	s.commit(commitMessage(res))
	return nil
}

// printResult reports a successful mutation.
func printResult(out io.Writer, res ledger.Result, currency string) {
	tx := res.Transaction
	switch res.Action {
	case ledger.ActionAdded:
		fmt.Fprintf(out, "Added %s: %s %s\n", id.Format(tx.ID), tx.Description, render.FormatSigned(tx, currency))
	case ledger.ActionUpdated:
		fmt.Fprintf(out, "Updated %s: %s %s\n", id.Format(tx.ID), tx.Description, render.FormatSigned(tx, currency))
	case ledger.ActionDeleted:
		fmt.Fprintf(out, "Deleted %s: %s\n", id.Format(tx.ID), tx.Description)
	case ledger.ActionDiscarded:
		fmt.Fprintf(out, "Transaction %s no longer exists; edit discarded\n", id.Format(tx.ID))
	}
}

func commitMessage(res ledger.Result) string {
	verb := map[ledger.Action]string{
		ledger.ActionAdded:   "add",
		ledger.ActionUpdated: "edit",
		ledger.ActionDeleted: "delete",
	}[res.Action]
	if verb == "" {
		verb = string(res.Action)
	}
	return fmt.Sprintf("%s: %s (%s)", verb, res.Transaction.Description, id.Format(res.Transaction.ID))
}
