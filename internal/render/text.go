// Package render draws the ledger as plain text for the terminal.
package render

import (
	"fmt"
	"io"
	"sync"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/id"
	"github.com/cleared-dev/tally/internal/ledger"
	"github.com/cleared-dev/tally/internal/model"
)

// Text is a ledger.Presenter that writes to an io.Writer.
type Text struct {
	mu       sync.Mutex
	out      io.Writer
	currency string
	showList bool
	label    string
	flash    model.Direction
}

// TextOption configures a Text presenter.
type TextOption func(*Text)

// WithoutList suppresses the transaction list; only the balance is printed.
func WithoutList() TextOption {
	return func(t *Text) { t.showList = false }
}

// NewText creates a Text presenter.
func NewText(out io.Writer, currency string, opts ...TextOption) *Text {
	t := &Text{out: out, currency: currency, showList: true, label: ledger.LabelAdd}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

var _ ledger.Presenter = (*Text)(nil)

func (t *Text) Render(txs []model.Transaction) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.showList {
		return
	}
	if len(txs) == 0 {
		fmt.Fprintln(t.out, "No transactions.")
		return
	}
	tw := tabwriter.NewWriter(t.out, 0, 0, 2, ' ', 0)
	for _, tx := range txs {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", id.Format(tx.ID), tx.Description, FormatSigned(tx, t.currency))
	}
	tw.Flush()
}

func (t *Text) RenderBalance(total decimal.Decimal) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, "Balance: %s\n", FormatAmount(total, t.currency))
}

func (t *Text) Flash(dir model.Direction) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.flash = dir
	switch dir {
	case model.DirectionUp:
		fmt.Fprintln(t.out, "  ▲ balance up")
	case model.DirectionDown:
		fmt.Fprintln(t.out, "  ▼ balance down")
	}
}

func (t *Text) ClearFlash() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.flash = ""
}

// Flashing returns the cue currently shown, or "".
func (t *Text) Flashing() model.Direction {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.flash
}

func (t *Text) PrefillForm(tx model.Transaction) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, "Editing %s: %s %s %q\n", id.Format(tx.ID), tx.Type, tx.Amount.StringFixed(2), tx.Description)
}

func (t *Text) SetSubmitLabel(label string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.label = label
}

// Label returns the current submit label.
func (t *Text) Label() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.label
}

func (t *Text) ShowErrors(errs []ledger.ValidationError) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, e := range errs {
		fmt.Fprintf(t.out, "  %s: %s\n", e.Field, e.Reason)
	}
}

// ClearForm is a no-op: a terminal has no form to reset.
func (t *Text) ClearForm() {}
