package search

import (
	"sync"
	"time"

	"github.com/Transcranial-Solutions/iconpreps/internal/filter"
	"github.com/benbjohnson/clock"
)

// Coordinator owns the text-input side of a query filter. Typed text is
// echoed immediately through Pending and reaches the reducer only after
// the quiet period. Query changes made elsewhere are adopted at once.
type Coordinator struct {
	dispatch func(filter.Action)
	debounce *Debouncer

	mu             sync.Mutex
	pending        string
	lastDispatched string
}

// Option configures a Coordinator.
type Option func(*coordinatorConfig)

type coordinatorConfig struct {
	clock clock.Clock
	delay time.Duration
}

// WithClock sets the clock the debounce timer runs on.
func WithClock(clk clock.Clock) Option {
	return func(c *coordinatorConfig) { c.clock = clk }
}

// WithDelay sets the quiet period.
func WithDelay(d time.Duration) Option {
	return func(c *coordinatorConfig) { c.delay = d }
}

// NewCoordinator creates a coordinator whose pending and last dispatched
// values start at initial, normally the view's current query.
func NewCoordinator(dispatch func(filter.Action), initial string, opts ...Option) *Coordinator {
	var cfg coordinatorConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Coordinator{
		dispatch:       dispatch,
		debounce:       NewDebouncer(cfg.clock, cfg.delay),
		pending:        initial,
		lastDispatched: initial,
	}
}

// Type records a keystroke: pending changes now, SetQuery follows after
// the quiet period.
func (c *Coordinator) Type(text string) {
	c.mu.Lock()
	c.pending = text
	c.mu.Unlock()

	c.debounce.Schedule(func() { c.send(text) })
}

// Pending returns the text currently shown in the input.
func (c *Coordinator) Pending() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// Delay returns the quiet period.
func (c *Coordinator) Delay() time.Duration { return c.debounce.Delay() }

// Observe is fed each new state query. A value other than the one this
// coordinator last dispatched came from elsewhere, so pending snaps to it
// and any pending dispatch is dropped.
func (c *Coordinator) Observe(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if query == c.lastDispatched {
		return
	}
	c.debounce.Cancel()
	c.pending = query
	c.lastDispatched = query
}

// Flush dispatches the pending value now if a dispatch is waiting.
func (c *Coordinator) Flush() {
	if !c.debounce.Cancel() {
		return
	}
	c.send(c.Pending())
}

// Close drops any pending dispatch.
func (c *Coordinator) Close() {
	c.debounce.Cancel()
}

// send dispatches text unless pending has moved on since it was scheduled.
func (c *Coordinator) send(text string) {
	c.mu.Lock()
	if c.pending != text {
		c.mu.Unlock()
		return
	}
	c.lastDispatched = text
	c.mu.Unlock()

	c.dispatch(filter.SetQuery{Query: text})
}
