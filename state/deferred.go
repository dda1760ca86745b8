package state

import "sort"

// EffectID identifies a scheduled effect for Cancel
type EffectID uint64

// Effect is a deferred state mutation
type Effect func(s *GameState)

type scheduled struct {
	id   EffectID
	due  float64
	name string
	fn   Effect
}

// Deferred is a queue of state mutations keyed by game time in milliseconds
//
// Architecture:
//   - Game time only advances while the container ticks a playing state
//   - Effects with equal due time run in scheduling order
//   - Purge drops everything so a reset never sees effects of the previous run
type Deferred struct {
	now    float64
	nextID EffectID
	queue  []scheduled
}

// NewDeferred creates an empty queue at game time zero
func NewDeferred() *Deferred {
	return &Deferred{}
}

// Schedule queues fn to run after delay milliseconds of game time
func (d *Deferred) Schedule(delay float64, name string, fn Effect) EffectID {
	if delay < 0 {
		delay = 0
	}
	d.nextID++
	e := scheduled{id: d.nextID, due: d.now + delay, name: name, fn: fn}
	i := sort.Search(len(d.queue), func(i int) bool { return d.queue[i].due > e.due })
	d.queue = append(d.queue, scheduled{})
	copy(d.queue[i+1:], d.queue[i:])
	d.queue[i] = e
	return e.id
}

// Cancel removes a pending effect, reports whether it was pending
func (d *Deferred) Cancel(id EffectID) bool {
	for i, e := range d.queue {
		if e.id == id {
			d.queue = append(d.queue[:i], d.queue[i+1:]...)
			return true
		}
	}
	return false
}

// CancelNamed removes every pending effect with name, returns the count
func (d *Deferred) CancelNamed(name string) int {
	kept := d.queue[:0]
	for _, e := range d.queue {
		if e.name != name {
			kept = append(kept, e)
		}
	}
	n := len(d.queue) - len(kept)
	d.queue = kept
	return n
}

// Advance moves game time forward by ms and runs every effect now due
// Effects scheduled while running with zero delay run in the same pass
func (d *Deferred) Advance(ms float64, s *GameState) int {
	d.now += ms
	ran := 0
	for len(d.queue) > 0 && d.queue[0].due <= d.now {
		e := d.queue[0]
		d.queue = d.queue[1:]
		e.fn(s)
		ran++
	}
	return ran
}

// Purge drops every pending effect and rewinds game time
func (d *Deferred) Purge() int {
	n := len(d.queue)
	d.queue = nil
	d.now = 0
	return n
}

// Pending returns the number of queued effects
func (d *Deferred) Pending() int {
	return len(d.queue)
}

// PendingNamed reports whether an effect with name is queued
func (d *Deferred) PendingNamed(name string) bool {
	for _, e := range d.queue {
		if e.name == name {
			return true
		}
	}
	return false
}

// Now returns the current game time in milliseconds
func (d *Deferred) Now() float64 {
	return d.now
}
