package ledger

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cleared-dev/tally/internal/model"
)

// record is the persisted shape of a transaction. Amounts are JSON numbers
// so the value stays compatible with what a browser would write.
type record struct {
	ID          int64       `json:"id"`
	Description string      `json:"description"`
	Amount      json.Number `json:"amount"`
	Type        model.Type  `json:"type"`
}

// Encode serializes the whole collection as a JSON array, in order.
func Encode(txs []model.Transaction) (string, error) {
	recs := make([]record, len(txs))
	for i, tx := range txs {
		recs[i] = record{
			ID:          tx.ID,
			Description: tx.Description,
			Amount:      json.Number(tx.Amount.String()),
			Type:        tx.Type,
		}
	}
	data, err := json.Marshal(recs)
	if err != nil {
		return "", fmt.Errorf("encoding transactions: %w", err)
	}
	return string(data), nil
}

// Decode parses a value written by Encode. An empty or null value is an
// empty collection. Every record must pass the same checks as a form
// submission; type matching ignores case.
func Decode(s string) ([]model.Transaction, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "null" {
		return nil, nil
	}

	var recs []record
	if err := json.Unmarshal([]byte(s), &recs); err != nil {
		return nil, fmt.Errorf("decoding transactions: %w", err)
	}

	txs := make([]model.Transaction, 0, len(recs))
	seen := make(map[int64]bool, len(recs))
	for i, rec := range recs {
		if rec.ID <= 0 {
			return nil, fmt.Errorf("record %d: invalid id %d", i, rec.ID)
		}
		if seen[rec.ID] {
			return nil, fmt.Errorf("record %d: duplicate id %d", i, rec.ID)
		}
		seen[rec.ID] = true

		in, errs := ParseInput(rec.Description, rec.Amount.String(), string(rec.Type))
		if len(errs) > 0 {
			return nil, fmt.Errorf("record %d (id %d): %w", i, rec.ID, errs[0])
		}
		txs = append(txs, model.Transaction{
			ID:          rec.ID,
			Description: in.Description,
			Amount:      in.Amount,
			Type:        in.Type,
		})
	}
	return txs, nil
}
