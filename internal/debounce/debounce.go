// Package debounce provides a cancel-and-reschedule task debouncer used
// to bound query volume during rapid user interaction (search typing, map
// viewport changes, location autosave). This is a resource policy, not a
// correctness mechanism.
package debounce

import (
	"sync"
	"time"
)

// Set bundles the engine's interactive debouncers, one per trigger kind.
type Set struct {
	Search   *Debouncer // text search input
	Viewport *Debouncer // map viewport changes
	Autosave *Debouncer // location-based autosave
}

// NewSet builds the debouncer set from the configured delays.
func NewSet(search, viewport, autosave time.Duration) *Set {
	return &Set{
		Search:   New(search),
		Viewport: New(viewport),
		Autosave: New(autosave),
	}
}

// Stop cancels all pending tasks across the set.
func (s *Set) Stop() {
	s.Search.Stop()
	s.Viewport.Stop()
	s.Autosave.Stop()
}

// Debouncer coalesces rapid calls into one: each Trigger cancels the
// pending run and schedules a new one after the configured delay.
// Safe for concurrent use.
type Debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending func()
	stopped bool
}

// New creates a debouncer with the given delay. A non-positive delay
// makes every Trigger run its task immediately.
func New(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger schedules fn to run after the delay, replacing any not-yet-run
// task from an earlier Trigger.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	if d.delay <= 0 {
		go fn()
		return
	}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = fn
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		fn := d.pending
		d.pending = nil
		d.mu.Unlock()
		if fn != nil {
			fn()
		}
	})
}

// Flush runs the pending task immediately, if any, instead of waiting out
// the delay.
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

// Stop cancels any pending task and prevents future ones from being
// scheduled.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	d.pending = nil
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
