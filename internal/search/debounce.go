// Package search debounces free-text query input in front of a filter
// reducer.
package search

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// DefaultDelay is the quiet period before a typed query is dispatched.
const DefaultDelay = 400 * time.Millisecond

// Debouncer runs the most recently scheduled function once no new schedule
// has arrived for the delay. Scheduling again cancels the pending function.
type Debouncer struct {
	clock clock.Clock
	delay time.Duration

	mu    sync.Mutex
	timer *clock.Timer
	gen   uint64
}

// NewDebouncer creates a debouncer. A nil clock uses the wall clock and a
// non-positive delay uses DefaultDelay.
func NewDebouncer(clk clock.Clock, delay time.Duration) *Debouncer {
	if clk == nil {
		clk = clock.New()
	}
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer{clock: clk, delay: delay}
}

// Delay returns the quiet period.
func (d *Debouncer) Delay() time.Duration { return d.delay }

// Schedule arms fn to run after the quiet period, replacing anything
// already pending.
func (d *Debouncer) Schedule(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()
	gen := d.gen
	d.timer = d.clock.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if gen != d.gen {
			d.mu.Unlock()
			return
		}
		d.gen++
		d.timer = nil
		d.mu.Unlock()
		fn()
	})
}

// Cancel drops the pending function, if any. It reports whether one was
// pending.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	pending := d.timer != nil
	d.stopLocked()
	return pending
}

// Pending reports whether a function is waiting to run.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// stopLocked stops the timer and bumps the generation so a callback that
// already fired becomes a no-op.
func (d *Debouncer) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
}
