package render

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/model"
)

// FormatAmount formats d in currency, e.g. "$1,234.50" or "-$3.00".
// Unknown currency codes, and amounts whose minor units do not fit in an
// int64, fall back to "1234.50 XYZ".
func FormatAmount(d decimal.Decimal, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return d.StringFixed(2) + " " + currency
	}
	minor := d.Shift(int32(cur.Fraction)).Round(0)
	if !minor.BigInt().IsInt64() {
		return d.StringFixed(int32(cur.Fraction)) + " " + cur.Code
	}
	return money.New(minor.IntPart(), cur.Code).Display()
}

// FormatSigned formats a transaction amount with an explicit sign:
// "+$1,000.00" for income, "-$400.00" for expense.
func FormatSigned(tx model.Transaction, currency string) string {
	sign := "-"
	if tx.Type == model.TypeIncome {
		sign = "+"
	}
	return sign + FormatAmount(tx.Amount, currency)
}

// KnownCurrency reports whether code is an ISO currency go-money can format.
func KnownCurrency(code string) bool {
	return money.GetCurrency(code) != nil
}
