package ledger

import (
	"sync"
	"time"

	"github.com/cleared-dev/tally/internal/model"
)

// DefaultFlashDuration is how long a balance flash stays on display.
const DefaultFlashDuration = 300 * time.Millisecond

// Flasher shows a transient balance cue and reverts it after a fixed delay.
// Triggering again while a cue is showing restarts the delay instead of
// stacking a second revert.
type Flasher struct {
	mu    sync.Mutex
	view  Presenter
	delay time.Duration
	timer *time.Timer
	gen   uint64
}

// NewFlasher creates a Flasher. A non-positive delay never reverts.
func NewFlasher(view Presenter, delay time.Duration) *Flasher {
	return &Flasher{view: view, delay: delay}
}

// Trigger shows dir and schedules the revert.
func (f *Flasher) Trigger(dir model.Direction) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.view.Flash(dir)
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	f.gen++
	if f.delay <= 0 {
		return
	}
	gen := f.gen
	f.timer = time.AfterFunc(f.delay, func() { f.revert(gen) })
}

// Stop cancels a pending revert.
func (f *Flasher) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	f.gen++
}

func (f *Flasher) revert(gen uint64) {
	f.mu.Lock()
	if gen != f.gen {
		// A newer trigger or Stop superseded this timer.
		f.mu.Unlock()
		return
	}
	f.timer = nil
	f.mu.Unlock()
	f.view.ClearFlash()
}
