package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/model"
)

// Submit button labels.
const (
	LabelAdd      = "Add"
	LabelSaveEdit = "Save Edit"
)

// Presenter is the display side the controller drives.
//
// ClearFlash is called from a timer goroutine; every other method is
// called synchronously from the controller's caller.
type Presenter interface {
	Render(txs []model.Transaction)
	RenderBalance(total decimal.Decimal)
	Flash(dir model.Direction)
	ClearFlash()
	PrefillForm(tx model.Transaction)
	SetSubmitLabel(label string)
	// ShowErrors replaces any field errors on display; nil clears them.
	ShowErrors(errs []ValidationError)
	ClearForm()
}
