package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Type classifies a transaction as money in or money out.
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

// ParseType parses "income" or "expense" (case-insensitive).
// An empty string yields TypeExpense, the form default.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return TypeExpense, nil
	case string(TypeIncome):
		return TypeIncome, nil
	case string(TypeExpense):
		return TypeExpense, nil
	default:
		return "", fmt.Errorf("unknown transaction type %q", s)
	}
}

// Valid reports whether t is income or expense.
func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Transaction is one income or expense record in the ledger.
type Transaction struct {
	ID          int64
	Description string
	Amount      decimal.Decimal // always positive; sign comes from Type
	Type        Type
}

// Signed returns the amount as it contributes to the balance.
func (t Transaction) Signed() decimal.Decimal {
	if t.Type == TypeIncome {
		return t.Amount
	}
	return t.Amount.Neg()
}

// Direction is the way the balance moved after a recomputation.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)
