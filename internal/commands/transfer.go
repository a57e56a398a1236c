package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/importer"
	"github.com/cleared-dev/tally/internal/ledger"
	"github.com/cleared-dev/tally/internal/render"
)

func newExportCommand(opts *rootOptions) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write transactions as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()
			return runExport(cmd.OutOrStdout(), s, outPath)
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	return cmd
}

func runExport(stdout io.Writer, s *session, outPath string) error {
	txs := s.store.List()
	if outPath == "" {
		return importer.WriteTransactions(stdout, txs)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", outPath, err)
	}
	if err := importer.WriteTransactions(f, txs); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", outPath, err)
	}
	fmt.Fprintf(stdout, "Exported %d transactions to %s\n", len(txs), outPath)
	return nil
}

func newImportCommand(opts *rootOptions) *cobra.Command {
	var format string

	registry := importer.DefaultRegistry()
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Add transactions from a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := registry.ParseFile(format, args[0])
			if err != nil {
				return err
			}
			s, err := openSession(cmd, opts, render.WithoutList())
			if err != nil {
				return err
			}
			defer s.Close()
			return runImport(cmd.OutOrStdout(), s, args[0], rows)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "tally",
		"file format ("+strings.Join(registry.Formats(), ", ")+")")

	return cmd
}

func runImport(out io.Writer, s *session, path string, rows []importer.Row) error {
	inputs := make([]ledger.Input, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		in, errs := ledger.ParseInput(row.Description, row.Amount, row.Type)
		if len(errs) > 0 {
			skipped++
			reasons := make([]string, len(errs))
			for i, e := range errs {
				reasons[i] = e.Error()
			}
			s.log.Warn().Int("line", row.Line).Str("errors", strings.Join(reasons, "; ")).Msg("skipping row")
			continue
		}
		inputs = append(inputs, in)
	}

	s.ctrl.Resume()
	added := s.ctrl.Import(inputs)
	fmt.Fprintf(out, "Imported %d transactions (%d skipped)\n", len(added), skipped)
	if len(added) > 0 {
		s.commit(fmt.Sprintf("import: %d transactions from %s", len(added), path))
	}
	return nil
}
