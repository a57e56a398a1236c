// Package ledger holds the transaction ledger: the ordered collection of
// income and expense records, its persistence, and the controller that
// drives adds, edits and deletes from user input.
package ledger

import (
	"errors"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/id"
	"github.com/cleared-dev/tally/internal/kv"
	"github.com/cleared-dev/tally/internal/model"
)

// DefaultKey names the single persisted value holding the whole ledger.
const DefaultKey = "transactions"

// ErrPersist wraps failures writing the ledger to its backend. The
// in-memory collection is still updated when it is returned.
var ErrPersist = errors.New("persisting ledger")

// ErrNotLoaded is wrapped in ErrPersist when the last Load failed. Writing
// would replace data that could not be read, so saves are refused until Reset.
var ErrNotLoaded = errors.New("ledger failed to load; refusing to overwrite it")

// Store owns the ordered transaction collection and mirrors it to a kv.Store.
// Every mutation overwrites the whole persisted collection.
// A Store is not safe for concurrent use.
type Store struct {
	backend kv.Store
	key     string
	ids     *id.Generator
	txs     []model.Transaction
	loadErr error
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithKey overrides the persistence key.
func WithKey(key string) StoreOption {
	return func(s *Store) { s.key = key }
}

// WithIDGenerator overrides the ID source.
func WithIDGenerator(g *id.Generator) StoreOption {
	return func(s *Store) { s.ids = g }
}

// NewStore creates an empty Store over backend. Call Load to rehydrate.
func NewStore(backend kv.Store, opts ...StoreOption) *Store {
	s := &Store{
		backend: backend,
		key:     DefaultKey,
		ids:     id.NewGenerator(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the persistence key.
func (s *Store) Key() string { return s.key }

// Load replaces the in-memory collection with the persisted one.
// A missing or empty value yields an empty ledger. On a read or decode
// error the ledger is left empty, the error is returned, and every later
// Save fails with ErrNotLoaded until Load succeeds or Reset is called.
func (s *Store) Load() error {
	s.txs = nil
	s.loadErr = nil

	value, ok, err := s.backend.Get(s.key)
	if err != nil {
		s.loadErr = fmt.Errorf("loading ledger: %w", err)
		return s.loadErr
	}
	if !ok {
		return nil
	}

	txs, err := Decode(value)
	if err != nil {
		s.loadErr = fmt.Errorf("loading ledger: %w", err)
		return s.loadErr
	}
	for _, tx := range txs {
		s.ids.Observe(tx.ID)
	}
	s.txs = txs
	return nil
}

// LoadErr returns the error from the last Load, or nil.
func (s *Store) LoadErr() error { return s.loadErr }

// Reset discards the in-memory collection and any load failure, so the
// next Save overwrites the persisted value with an empty ledger plus
// whatever is added afterwards.
func (s *Store) Reset() {
	s.txs = nil
	s.loadErr = nil
}

// Save overwrites the persisted collection with the in-memory one.
func (s *Store) Save() error {
	if s.loadErr != nil {
		return fmt.Errorf("%w: %w", ErrPersist, ErrNotLoaded)
	}
	value, err := Encode(s.txs)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	if err := s.backend.Set(s.key, value); err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}

// List returns a copy of the collection in insertion order.
func (s *Store) List() []model.Transaction {
	return slices.Clone(s.txs)
}

// Len returns the number of transactions.
func (s *Store) Len() int { return len(s.txs) }

// Get returns the transaction with the given ID.
func (s *Store) Get(txID int64) (model.Transaction, bool) {
	i := s.index(txID)
	if i < 0 {
		return model.Transaction{}, false
	}
	return s.txs[i], true
}

// Add appends a new transaction with a fresh ID and persists. Inputs are
// expected to be validated already. The returned transaction is always
// valid; a non-nil error only reports a persistence failure.
func (s *Store) Add(description string, amount decimal.Decimal, typ model.Type) (model.Transaction, error) {
	tx := model.Transaction{
		ID:          s.ids.Next(),
		Description: description,
		Amount:      amount,
		Type:        typ,
	}
	s.txs = append(s.txs, tx)
	return tx, s.Save()
}

// Update rewrites description, amount and type of an existing transaction
// and persists. It reports false, with no error, when txID is unknown.
func (s *Store) Update(txID int64, description string, amount decimal.Decimal, typ model.Type) (bool, error) {
	i := s.index(txID)
	if i < 0 {
		return false, nil
	}
	s.txs[i].Description = description
	s.txs[i].Amount = amount
	s.txs[i].Type = typ
	return true, s.Save()
}

// Remove drops the transaction with txID and persists. It reports whether
// anything was removed.
func (s *Store) Remove(txID int64) (bool, error) {
	before := len(s.txs)
	s.txs = slices.DeleteFunc(s.txs, func(tx model.Transaction) bool { return tx.ID == txID })
	return len(s.txs) != before, s.Save()
}

// Total returns the balance: income adds, expense subtracts.
func (s *Store) Total() decimal.Decimal {
	total := decimal.Zero
	for _, tx := range s.txs {
		total = total.Add(tx.Signed())
	}
	return total
}

func (s *Store) index(txID int64) int {
	return slices.IndexFunc(s.txs, func(tx model.Transaction) bool { return tx.ID == txID })
}
