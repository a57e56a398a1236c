package ledger

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/id"
	"github.com/cleared-dev/tally/internal/kv"
	"github.com/cleared-dev/tally/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// steppingIDs returns a generator whose clock advances 1ms per call.
func steppingIDs() *id.Generator {
	ms := int64(1_700_000_000_000)
	return id.NewGeneratorWithClock(func() time.Time {
		ms++
		return time.UnixMilli(ms)
	})
}

func newTestStore(t *testing.T) (*Store, *kv.MemoryStore) {
	t.Helper()
	backend := kv.NewMemoryStore()
	return NewStore(backend, WithIDGenerator(steppingIDs())), backend
}

// fakeView records every Presenter call.
type fakeView struct {
	mu          sync.Mutex
	rendered    [][]model.Transaction
	balances    []decimal.Decimal
	flashes     []model.Direction
	clears      int
	prefilled   []model.Transaction
	label       string
	errs        []ValidationError
	formCleared int
}

func (v *fakeView) Render(txs []model.Transaction) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.rendered = append(v.rendered, txs)
}

func (v *fakeView) RenderBalance(total decimal.Decimal) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.balances = append(v.balances, total)
}

func (v *fakeView) Flash(dir model.Direction) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.flashes = append(v.flashes, dir)
}

func (v *fakeView) ClearFlash() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.clears++
}

func (v *fakeView) PrefillForm(tx model.Transaction) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.prefilled = append(v.prefilled, tx)
}

func (v *fakeView) SetSubmitLabel(label string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.label = label
}

func (v *fakeView) ShowErrors(errs []ValidationError) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.errs = errs
}

func (v *fakeView) ClearForm() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.formCleared++
}

func (v *fakeView) lastBalance() decimal.Decimal {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.balances) == 0 {
		return decimal.Zero
	}
	return v.balances[len(v.balances)-1]
}

func (v *fakeView) flashCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.flashes)
}

func (v *fakeView) clearCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.clears
}

// failingKV accepts reads and rejects writes.
type failingKV struct {
	*kv.MemoryStore
}

var errDiskFull = errors.New("quota exceeded")

func (f *failingKV) Set(string, string) error { return errDiskFull }

// unreadableKV accepts writes and fails every read.
type unreadableKV struct {
	*kv.MemoryStore
}

var errUnreadable = errors.New("disk I/O error")

func (u *unreadableKV) Get(string) (string, bool, error) { return "", false, errUnreadable }

// auditLog records Auditor calls.
type auditLog struct {
	actions []Action
	ids     []int64
	err     error
}

func (a *auditLog) Record(action Action, tx model.Transaction) error {
	a.actions = append(a.actions, action)
	a.ids = append(a.ids, tx.ID)
	return a.err
}
