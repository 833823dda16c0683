// Package debounce coalesces bursts of calls into one trailing call.
package debounce

import (
	"sync"
	"time"
)

// Debouncer runs the last scheduled function once no new call has arrived
// for the configured quiet period.
type Debouncer struct {
	mu       sync.Mutex
	timer    *time.Timer
	duration time.Duration
}

func New(duration time.Duration) *Debouncer {
	return &Debouncer{duration: duration}
}

// Debounce schedules fn, cancelling any pending call. A zero duration runs fn
// synchronously.
func (d *Debouncer) Debounce(fn func()) {
	if d.duration <= 0 {
		d.Cancel()
		fn()
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, fn)
}

// Cancel drops the pending call, if any. Returns true when one was dropped.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer == nil {
		return false
	}
	stopped := d.timer.Stop()
	d.timer = nil
	return stopped
}

// Flush cancels the pending call and runs fn now.
func (d *Debouncer) Flush(fn func()) {
	d.Cancel()
	fn()
}

// Group keeps one Debouncer per key, e.g. per registration session.
type Group struct {
	mu       sync.Mutex
	duration time.Duration
	items    map[string]*Debouncer
}

func NewGroup(duration time.Duration) *Group {
	return &Group{duration: duration, items: make(map[string]*Debouncer)}
}

func (g *Group) Debounce(key string, fn func()) {
	g.get(key).Debounce(fn)
}

// Forget cancels and removes the debouncer for key.
func (g *Group) Forget(key string) {
	g.mu.Lock()
	d, ok := g.items[key]
	delete(g.items, key)
	g.mu.Unlock()
	if ok {
		d.Cancel()
	}
}

func (g *Group) get(key string) *Debouncer {
	g.mu.Lock()
	defer g.mu.Unlock()
	d, ok := g.items[key]
	if !ok {
		d = New(g.duration)
		g.items[key] = d
	}
	return d
}
