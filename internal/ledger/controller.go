package ledger

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/model"
)

// Action reports what a Submit did.
type Action string

const (
	ActionInvalid   Action = "invalid"
	ActionAdded     Action = "added"
	ActionUpdated   Action = "updated"
	ActionDiscarded Action = "discarded" // edit target no longer exists
	ActionDeleted   Action = "deleted"
)

// Result is the outcome of a Submit.
type Result struct {
	Action      Action
	Transaction model.Transaction
	Errors      []ValidationError
}

// OK reports whether the submission passed validation.
func (r Result) OK() bool { return len(r.Errors) == 0 }

// FieldError returns the validation error for field, if any.
func (r Result) FieldError(field Field) (ValidationError, bool) {
	for _, e := range r.Errors {
		if e.Field == field {
			return e, true
		}
	}
	return ValidationError{}, false
}

// Auditor records ledger mutations.
type Auditor interface {
	Record(action Action, tx model.Transaction) error
}

// Controller turns form submissions, edit clicks and delete clicks into
// Store mutations, and keeps the Presenter in step. It owns the edit
// selection: at most one transaction loaded into the form at a time.
//
// A Controller is not safe for concurrent use.
type Controller struct {
	store    *Store
	view     Presenter
	flash    *Flasher
	log      zerolog.Logger
	audit    Auditor
	editing  int64
	isEdit   bool
	previous decimal.Decimal
}

// ControllerOption configures a Controller.
type ControllerOption func(*controllerConfig)

type controllerConfig struct {
	log        zerolog.Logger
	audit      Auditor
	flashDelay time.Duration
}

// WithLogger sets the logger for persistence and audit warnings.
func WithLogger(log zerolog.Logger) ControllerOption {
	return func(c *controllerConfig) { c.log = log }
}

// WithAuditor records every mutation to a.
func WithAuditor(a Auditor) ControllerOption {
	return func(c *controllerConfig) { c.audit = a }
}

// WithFlashDuration sets how long a balance flash stays visible.
func WithFlashDuration(d time.Duration) ControllerOption {
	return func(c *controllerConfig) { c.flashDelay = d }
}

// NewController creates a Controller in the idle state.
func NewController(store *Store, view Presenter, opts ...ControllerOption) *Controller {
	cfg := controllerConfig{
		log:        zerolog.Nop(),
		flashDelay: DefaultFlashDuration,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Controller{
		store:    store,
		view:     view,
		flash:    NewFlasher(view, cfg.flashDelay),
		log:      cfg.log,
		audit:    cfg.audit,
		previous: decimal.Zero,
	}
}

// Start performs the initial render. The balance baseline starts at zero.
func (c *Controller) Start() {
	c.view.SetSubmitLabel(LabelAdd)
	c.Refresh()
}

// Resume sets the balance baseline to the stored total without rendering.
// Use it instead of Start when the current balance is already known to the
// user, so the next change flashes relative to it.
func (c *Controller) Resume() {
	c.view.SetSubmitLabel(LabelAdd)
	c.previous = c.store.Total()
}

// Close cancels any pending flash revert.
func (c *Controller) Close() {
	c.flash.Stop()
}

// Editing returns the transaction currently loaded for editing.
func (c *Controller) Editing() (int64, bool) {
	return c.editing, c.isEdit
}

// Submit validates the form values and either updates the transaction
// under edit or adds a new one. Invalid input mutates nothing and keeps
// the edit selection.
func (c *Controller) Submit(description, rawAmount, rawType string) Result {
	in, errs := ParseInput(description, rawAmount, rawType)
	c.view.ShowErrors(errs)
	if len(errs) > 0 {
		return Result{Action: ActionInvalid, Errors: errs}
	}

	var res Result
	if txID, ok := c.Editing(); ok {
		found, err := c.store.Update(txID, in.Description, in.Amount, in.Type)
		c.warnPersist(err, "update", txID)
		// Leave edit mode even if the record vanished underneath us.
		c.clearSelection()
		if found {
			tx, _ := c.store.Get(txID)
			res = Result{Action: ActionUpdated, Transaction: tx}
		} else {
			c.log.Debug().Int64("id", txID).Msg("edit target no longer exists")
			res = Result{Action: ActionDiscarded, Transaction: model.Transaction{
				ID:          txID,
				Description: in.Description,
				Amount:      in.Amount,
				Type:        in.Type,
			}}
		}
	} else {
		tx, err := c.store.Add(in.Description, in.Amount, in.Type)
		c.warnPersist(err, "add", tx.ID)
		res = Result{Action: ActionAdded, Transaction: tx}
	}

	c.record(res.Action, res.Transaction)
	c.view.ClearForm()
	c.Refresh()
	return res
}

// BeginEdit loads txID into the form. Unknown IDs are ignored.
func (c *Controller) BeginEdit(txID int64) bool {
	tx, ok := c.store.Get(txID)
	if !ok {
		return false
	}
	c.editing, c.isEdit = txID, true
	c.view.PrefillForm(tx)
	c.view.SetSubmitLabel(LabelSaveEdit)
	return true
}

// CancelEdit leaves edit mode without touching the ledger.
func (c *Controller) CancelEdit() {
	if !c.isEdit {
		return
	}
	c.clearSelection()
	c.view.ShowErrors(nil)
	c.view.ClearForm()
}

// Delete removes txID and re-renders. Deleting the transaction under edit
// also leaves edit mode, so a later submit cannot target a missing record.
func (c *Controller) Delete(txID int64) bool {
	tx, _ := c.store.Get(txID)
	removed, err := c.store.Remove(txID)
	c.warnPersist(err, "delete", txID)

	if c.isEdit && c.editing == txID {
		c.clearSelection()
		c.view.ClearForm()
	}
	if removed {
		c.record(ActionDeleted, tx)
	}
	c.Refresh()
	return removed
}

// Import adds validated inputs in order, then renders once. It does not
// touch the edit selection.
func (c *Controller) Import(inputs []Input) []model.Transaction {
	added := make([]model.Transaction, 0, len(inputs))
	for _, in := range inputs {
		tx, err := c.store.Add(in.Description, in.Amount, in.Type)
		c.warnPersist(err, "import", tx.ID)
		c.record(ActionAdded, tx)
		added = append(added, tx)
	}
	if len(added) > 0 {
		c.Refresh()
	}
	return added
}

// Refresh re-renders the list and recomputes the balance.
func (c *Controller) Refresh() {
	c.view.Render(c.store.List())
	c.updateBalance()
}

func (c *Controller) updateBalance() {
	total := c.store.Total()
	c.view.RenderBalance(total)

	switch total.Cmp(c.previous) {
	case 1:
		c.flash.Trigger(model.DirectionUp)
	case -1:
		c.flash.Trigger(model.DirectionDown)
	}
	c.previous = total
}

func (c *Controller) clearSelection() {
	c.editing, c.isEdit = 0, false
	c.view.SetSubmitLabel(LabelAdd)
}

func (c *Controller) warnPersist(err error, op string, txID int64) {
	if err == nil {
		return
	}
	c.log.Warn().Err(err).Str("op", op).Int64("id", txID).Msg("ledger not persisted; keeping in-memory state")
}

func (c *Controller) record(action Action, tx model.Transaction) {
	if c.audit == nil {
		return
	}
	if err := c.audit.Record(action, tx); err != nil {
		c.log.Warn().Err(err).Str("action", string(action)).Int64("id", tx.ID).Msg("writing activity log")
	}
}
