package importer

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/model"
)

// ChaseParser parses Chase bank checking CSV exports. Negative amounts
// become expenses, positive ones income; zero-amount rows are skipped.
type ChaseParser struct{}

const (
	chaseNumFields = 7
	chaseColDesc   = 2
	chaseColAmount = 3
)

// Format returns the parser name.
func (p *ChaseParser) Format() string { return "chase" }

// Parse reads a Chase CSV.
func (p *ChaseParser) Parse(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = chaseNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading chase CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var rows []Row
	for i, rec := range records[1:] {
		row, ok, err := parseChaseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		if !ok {
			continue
		}
		row.Line = i + 2
		rows = append(rows, row)
	}
	return rows, nil
}

func parseChaseRow(rec []string) (Row, bool, error) {
	amount, err := decimal.NewFromString(rec[chaseColAmount])
	if err != nil {
		return Row{}, false, fmt.Errorf("parsing amount %q: %w", rec[chaseColAmount], err)
	}
	if amount.IsZero() {
		return Row{}, false, nil
	}

	typ := model.TypeIncome
	if amount.IsNegative() {
		typ = model.TypeExpense
	}

	return Row{
		Description: rec[chaseColDesc],
		Amount:      amount.Abs().String(),
		Type:        string(typ),
	}, true, nil
}
