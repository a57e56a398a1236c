package ledger

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/model"
)

// Field names a form input.
type Field string

const (
	FieldDescription Field = "description"
	FieldAmount      Field = "amount"
	FieldType        Field = "type"
)

// Reasons reported for invalid input.
const (
	ReasonDescriptionEmpty  = "Description cannot be empty"
	ReasonAmountEmpty       = "Amount cannot be empty"
	ReasonAmountNotPositive = "Amount must be a positive number"
	ReasonTypeUnknown       = "Type must be income or expense"
	ReasonAmountTooLarge    = "Amount is too large"
)

// MaxAmount is the largest accepted amount: int64 minor units at two decimal places.
var MaxAmount = decimal.NewFromInt(math.MaxInt64).Shift(-2)

// ValidationError describes one rejected form field.
type ValidationError struct {
	Field  Field
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Input is a validated submission.
type Input struct {
	Description string
	Amount      decimal.Decimal
	Type        model.Type
}

// ParseInput validates raw form values. Every failing field is reported.
func ParseInput(rawDescription, rawAmount, rawType string) (Input, []ValidationError) {
	var (
		in   Input
		errs []ValidationError
	)

	in.Description = strings.TrimSpace(rawDescription)
	if in.Description == "" {
		errs = append(errs, ValidationError{Field: FieldDescription, Reason: ReasonDescriptionEmpty})
	}

	rawAmount = strings.TrimSpace(rawAmount)
	if rawAmount == "" {
		errs = append(errs, ValidationError{Field: FieldAmount, Reason: ReasonAmountEmpty})
	} else if amount, err := decimal.NewFromString(rawAmount); err != nil || !amount.IsPositive() {
		errs = append(errs, ValidationError{Field: FieldAmount, Reason: ReasonAmountNotPositive})
	} else if amount.GreaterThan(MaxAmount) {
		errs = append(errs, ValidationError{Field: FieldAmount, Reason: ReasonAmountTooLarge})
	} else {
		in.Amount = amount
	}

	typ, err := model.ParseType(rawType)
	if err != nil {
		errs = append(errs, ValidationError{Field: FieldType, Reason: ReasonTypeUnknown})
	}
	in.Type = typ

	if len(errs) > 0 {
		return Input{}, errs
	}
	return in, nil
}
