package progress

import (
	"sync"
	"time"
)

// DefaultDebounceWindow coalesces draft writes during rapid answer
// changes.
const DefaultDebounceWindow = 300 * time.Millisecond

// Debouncer coalesces writes within a window: a later Schedule call
// supersedes a pending one, so only the newest state reaches disk.
type Debouncer struct {
	window time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending func()
}

// NewDebouncer creates a Debouncer with the given coalescing window.
// A zero window uses the default.
func NewDebouncer(window time.Duration) *Debouncer {
	if window <= 0 {
		window = DefaultDebounceWindow
	}
	return &Debouncer{window: window}
}

// Schedule queues fn to run after the window elapses, replacing any
// previously queued function.
func (d *Debouncer) Schedule(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending = fn
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.fire)
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	fn := d.pending
	d.pending = nil
	d.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Flush runs the pending function immediately, if any. Used on close
// and submit so the last draft state is never lost to the window.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	fn := d.pending
	d.pending = nil
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Stop cancels any pending write without running it.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending = nil
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
