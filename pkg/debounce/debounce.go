package debounce

import (
	"sync"
	"time"
)

// Debouncer defers keyed callbacks until a quiet period has elapsed.
// Scheduling the same key again before its timer fires cancels the previous
// callback and restarts the window (trailing-edge semantics), so only the
// final settled value is acted on.
type Debouncer struct {
	mutex    sync.Mutex
	timers   map[string]*time.Timer
	duration time.Duration
}

// New creates a new debouncer with the specified quiet window.
func New(duration time.Duration) *Debouncer {
	return &Debouncer{
		timers:   make(map[string]*time.Timer),
		duration: duration,
	}
}

// Schedule runs fn after the quiet window has passed without another
// Schedule call for the same key.
func (d *Debouncer) Schedule(key string, fn func()) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if timer, exists := d.timers[key]; exists {
		timer.Stop()
	}

	d.timers[key] = time.AfterFunc(d.duration, func() {
		d.mutex.Lock()
		delete(d.timers, key)
		d.mutex.Unlock()
		fn()
	})
}

// Cancel drops a pending callback for key, if any. Session cleanup must
// call this before deleting the session's data so a late timer cannot
// write after cleanup.
func (d *Debouncer) Cancel(key string) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if timer, exists := d.timers[key]; exists {
		timer.Stop()
		delete(d.timers, key)
	}
}

// Pending reports whether a callback is scheduled for key.
func (d *Debouncer) Pending(key string) bool {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	_, exists := d.timers[key]
	return exists
}

// Clear cancels all pending callbacks.
func (d *Debouncer) Clear() {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	for key, timer := range d.timers {
		timer.Stop()
		delete(d.timers, key)
	}
}
