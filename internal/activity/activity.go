// Package activity keeps an append-only CSV record of ledger mutations.
package activity

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/ledger"
	"github.com/cleared-dev/tally/internal/model"
)

// Entry is one row in the activity log.
type Entry struct {
	Timestamp     time.Time
	Action        ledger.Action
	TransactionID int64
	Description   string
	Amount        decimal.Decimal
	Type          model.Type
}

// Header is the CSV header for activity.csv.
const Header = "timestamp,action,transaction_id,description,amount,type"

const (
	numFields = 6
	logDir    = "logs"
	logFile   = "logs/activity.csv"
	colTime   = 0
	colAction = 1
	colTxID   = 2
	colDesc   = 3
	colAmount = 4
	colType   = 5
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTime] = e.Timestamp.Format(time.RFC3339)
	row[colAction] = string(e.Action)
	row[colTxID] = strconv.FormatInt(e.TransactionID, 10)
	row[colDesc] = e.Description
	row[colAmount] = e.Amount.String()
	row[colType] = string(e.Type)
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTime])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTime], err)
	}

	txID, err := strconv.ParseInt(record[colTxID], 10, 64)
	if err != nil {
		return Entry{}, fmt.Errorf("parsing transaction_id %q: %w", record[colTxID], err)
	}

	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}

	return Entry{
		Timestamp:     ts,
		Action:        ledger.Action(record[colAction]),
		TransactionID: txID,
		Description:   record[colDesc],
		Amount:        amount,
		Type:          model.Type(record[colType]),
	}, nil
}

// Append writes entries to <root>/logs/activity.csv, creating the file and header if needed.
func Append(root string, entries []Entry) error {
	dir := filepath.Join(root, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(root, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening activity log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Read returns all entries from <root>/logs/activity.csv.
// Returns an empty slice if the file does not exist.
func Read(root string) ([]Entry, error) {
	path := filepath.Join(root, logFile)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening activity log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading activity log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Log is a ledger.Auditor that appends one row per mutation.
type Log struct {
	root string
	now  func() time.Time
}

// NewLog creates a Log writing under root.
func NewLog(root string) *Log {
	return &Log{root: root, now: time.Now}
}

// Record appends a row for action on tx.
func (l *Log) Record(action ledger.Action, tx model.Transaction) error {
	return Append(l.root, []Entry{{
		Timestamp:     l.now().UTC(),
		Action:        action,
		TransactionID: tx.ID,
		Description:   tx.Description,
		Amount:        tx.Amount,
		Type:          tx.Type,
	}})
}
