package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cleared-dev/tally/internal/model"
)

// Header is the CSV header of the export format.
const Header = "id,description,amount,type"

const (
	numFields = 4
	colID     = 0
	colDesc   = 1
	colAmount = 2
	colType   = 3
)

// MarshalTransaction converts a Transaction to an export row.
func MarshalTransaction(tx model.Transaction) []string {
	row := make([]string, numFields)
	row[colID] = strconv.FormatInt(tx.ID, 10)
	row[colDesc] = tx.Description
	row[colAmount] = tx.Amount.String()
	row[colType] = string(tx.Type)
	return row
}

// WriteTransactions writes txs in the export format (including header).
func WriteTransactions(w io.Writer, txs []model.Transaction) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, tx := range txs {
		if err := cw.Write(MarshalTransaction(tx)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// NativeParser reads files written by WriteTransactions. The id column is
// informational; imported rows always get fresh IDs.
type NativeParser struct{}

// Format returns the parser name.
func (p *NativeParser) Format() string { return "tally" }

// Parse reads an export CSV.
func (p *NativeParser) Parse(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading tally CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	rows := make([]Row, 0, len(records)-1)
	for i, rec := range records[1:] {
		rows = append(rows, Row{
			Line:        i + 2,
			Description: rec[colDesc],
			Amount:      rec[colAmount],
			Type:        rec[colType],
		})
	}
	return rows, nil
}
