package commands

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/id"
	"github.com/cleared-dev/tally/internal/ledger"
)

const shellHelp = `Commands:
  add <income|expense> <amount> <description...>   add a transaction
  edit <id>                                        load a transaction for editing
  save <income|expense> <amount> <description...>  submit: saves the edit, or adds when not editing
  cancel                                           leave edit mode
  delete <id>                                      delete a transaction
  list                                             show transactions and balance
  balance                                          show the balance
  help                                             show this help
  quit                                             leave the shell
`

func newShellCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive session with edit mode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()
			return runShell(cmd.InOrStdin(), cmd.OutOrStdout(), s)
		},
	}
}

func runShell(in io.Reader, out io.Writer, s *session) error {
	s.ctrl.Start()

	sc := bufio.NewScanner(in)
	for {
		fmt.Fprintf(out, "%s> ", s.view.Label())
		if !sc.Scan() {
			fmt.Fprintln(out)
			break
		}

		verb, rest, _ := strings.Cut(strings.TrimSpace(sc.Text()), " ")
		rest = strings.TrimSpace(rest)
		switch strings.ToLower(verb) {
		case "":
		case "quit", "exit":
			return nil
		case "help", "?":
			fmt.Fprint(out, shellHelp)
		case "list", "ls":
			s.ctrl.Refresh()
		case "balance":
			s.view.RenderBalance(s.store.Total())
		case "add":
			// add always creates; leave any pending edit first.
			s.ctrl.CancelEdit()
			shellSubmit(out, s, rest)
		case "save":
			shellSubmit(out, s, rest)
		case "edit":
			txID, ok := shellID(out, rest)
			if ok && !s.ctrl.BeginEdit(txID) {
				fmt.Fprintf(out, "transaction %s not found\n", id.Format(txID))
			}
		case "cancel":
			s.ctrl.CancelEdit()
		case "delete", "rm":
			txID, ok := shellID(out, rest)
			if !ok {
				continue
			}
			tx, _ := s.store.Get(txID)
			if !s.ctrl.Delete(txID) {
				fmt.Fprintf(out, "transaction %s not found\n", id.Format(txID))
				continue
			}
			res := ledger.Result{Action: ledger.ActionDeleted, Transaction: tx}
			printResult(out, res, s.currency())
			s.commit(commitMessage(res))
		default:
			fmt.Fprintf(out, "unknown command %q; type help\n", verb)
		}
	}
	return sc.Err()
}

// shellSubmit parses "<type> <amount> <description...>" and submits it in
// the current mode. Missing fields are submitted empty and reported by
// validation.
func shellSubmit(out io.Writer, s *session, args string) {
	var typ, amount, description string
	fields := strings.Fields(args)
	if len(fields) > 0 {
		typ = fields[0]
	}
	if len(fields) > 1 {
		amount = fields[1]
	}
	if len(fields) > 2 {
		description = strings.Join(fields[2:], " ")
	}

	res := s.ctrl.Submit(description, amount, typ)
	if !res.OK() {
		return
	}
	printResult(out, res, s.currency())
	if res.Action != ledger.ActionDiscarded {
		s.commit(commitMessage(res))
	}
}

func shellID(out io.Writer, arg string) (int64, bool) {
	txID, err := id.Parse(arg)
	if err != nil {
		fmt.Fprintln(out, err)
		return 0, false
	}
	return txID, true
}
