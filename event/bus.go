package event

import (
	"io"
	"log"
	"sync"
	"sync/atomic"
)

// Handler receives the payload of an emitted event
type Handler func(payload any)

// ListenerID identifies one registration for Off
type ListenerID uint64

type listener struct {
	id   ListenerID
	fn   Handler
	once bool
}

// Bus is a synchronous publish/subscribe hub
//
// Architecture:
//   - Delivery is synchronous, in registration order
//   - A panicking handler is recovered and logged; remaining handlers still run
//   - Handlers may register or unregister during delivery; changes apply to the next Emit
//   - The bus knows nothing about payload shapes
type Bus struct {
	mu        sync.RWMutex
	listeners map[EventType][]listener
	nextID    atomic.Uint64
	debug     atomic.Bool
	failures  atomic.Int64
	logger    *log.Logger
}

// NewBus creates an empty bus; a nil logger discards output
func NewBus(logger *log.Logger) *Bus {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Bus{
		listeners: make(map[EventType][]listener),
		logger:    logger,
	}
}

// On registers fn for t and returns its listener id
func (b *Bus) On(t EventType, fn Handler) ListenerID {
	return b.add(t, fn, false)
}

// Once registers fn for t; it is removed before its first invocation
func (b *Bus) Once(t EventType, fn Handler) ListenerID {
	return b.add(t, fn, true)
}

func (b *Bus) add(t EventType, fn Handler, once bool) ListenerID {
	id := ListenerID(b.nextID.Add(1))
	b.mu.Lock()
	b.listeners[t] = append(b.listeners[t], listener{id: id, fn: fn, once: once})
	b.mu.Unlock()
	return id
}

// Off removes a registration, reports whether it existed
func (b *Bus) Off(t EventType, id ListenerID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.removeLocked(t, id)
}

func (b *Bus) removeLocked(t EventType, id ListenerID) bool {
	ls := b.listeners[t]
	for i, l := range ls {
		if l.id != id {
			continue
		}
		// Copy-on-write so an in-flight Emit keeps iterating its own snapshot
		next := make([]listener, 0, len(ls)-1)
		next = append(next, ls[:i]...)
		next = append(next, ls[i+1:]...)
		if len(next) == 0 {
			delete(b.listeners, t)
		} else {
			b.listeners[t] = next
		}
		return true
	}
	return false
}

// Emit delivers payload to every handler registered for t
func (b *Bus) Emit(t EventType, payload any) {
	b.mu.RLock()
	snapshot := b.listeners[t]
	b.mu.RUnlock()

	if b.debug.Load() {
		b.logger.Printf("[EVENT] %s %+v", t, payload)
	}

	for _, l := range snapshot {
		if l.once {
			b.mu.Lock()
			removed := b.removeLocked(t, l.id)
			b.mu.Unlock()
			if !removed {
				// Another delivery already consumed this once-handler
				continue
			}
		}
		b.invoke(t, l, payload)
	}
}

func (b *Bus) invoke(t EventType, l listener, payload any) {
	defer func() {
		if r := recover(); r != nil {
			b.failures.Add(1)
			b.logger.Printf("[EVENT] handler %d for %s panicked: %v", l.id, t, r)
		}
	}()
	l.fn(payload)
}

// HasListeners reports whether any handler is registered for t
func (b *Bus) HasListeners(t EventType) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners[t]) > 0
}

// ListenerCount returns the number of handlers registered for t
func (b *Bus) ListenerCount(t EventType) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners[t])
}

// Clear drops every registration
func (b *Bus) Clear() {
	b.mu.Lock()
	b.listeners = make(map[EventType][]listener)
	b.mu.Unlock()
}

// SetDebug toggles logging of every emission with its payload
func (b *Bus) SetDebug(enabled bool) {
	b.debug.Store(enabled)
}

// Failures returns the number of recovered handler panics
func (b *Bus) Failures() int64 {
	return b.failures.Load()
}
