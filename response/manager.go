package response

import (
	"errors"
	"fmt"
	"io"
	"log"
	"slices"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/lixenwraith/plane-battle/config"
	"github.com/lixenwraith/plane-battle/event"
	"github.com/lixenwraith/plane-battle/state"
	"github.com/lixenwraith/plane-battle/status"
)

// Handler priorities; lower runs first
const (
	PriorityRunState  = 0
	PriorityInput     = 1
	PriorityCollision = 2
	PriorityUIState   = 3
)

// ErrPayload is returned when an event carries an unexpected payload type
var ErrPayload = errors.New("unexpected payload")

// Handler reacts to events by mutating state or issuing commands
type Handler interface {
	Name() string
	CanHandle(t event.EventType) bool
	Priority() int
	Handle(t event.EventType, payload any, s *state.GameState, cfg config.GameConfig) error
}

// Subscriber is the listening side of the event bus
type Subscriber interface {
	On(t event.EventType, fn event.Handler) event.ListenerID
	Off(t event.EventType, id event.ListenerID) bool
}

// Store exposes the state and config handed to every handler
type Store interface {
	State() *state.GameState
	Config() config.GameConfig
}

// Manager routes bus events to matching handlers in ascending priority
//
// Architecture:
//   - One bus listener per event type any registered handler accepts
//   - Ties keep registration order
//   - A failing or panicking handler is logged and counted; the next handler still runs
type Manager struct {
	mu       sync.RWMutex
	handlers []Handler
	subs     map[event.EventType]event.ListenerID
	bus      Subscriber
	store    Store
	logger   *log.Logger
	failures *atomic.Int64
}

// NewManager creates a manager; logger and reg may be nil
func NewManager(bus Subscriber, store Store, logger *log.Logger, reg *status.Registry) *Manager {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	failures := new(atomic.Int64)
	if reg != nil {
		failures = reg.Ints.Get(status.KeyHandlerFailures)
	}
	return &Manager{
		subs:     make(map[event.EventType]event.ListenerID),
		bus:      bus,
		store:    store,
		logger:   logger,
		failures: failures,
	}
}

// Register adds h and subscribes to any event type it accepts that is not yet routed
func (m *Manager) Register(h Handler) {
	m.mu.Lock()
	// Copy so a dispatch in progress keeps its snapshot
	hs := append(slices.Clone(m.handlers), h)
	sort.SliceStable(hs, func(i, j int) bool {
		return hs[i].Priority() < hs[j].Priority()
	})
	m.handlers = hs

	var fresh []event.EventType
	for _, t := range event.AllTypes() {
		if _, routed := m.subs[t]; routed || !h.CanHandle(t) {
			continue
		}
		m.subs[t] = 0
		fresh = append(fresh, t)
	}
	m.mu.Unlock()

	for _, t := range fresh {
		id := m.bus.On(t, func(payload any) { m.Dispatch(t, payload) })
		m.mu.Lock()
		m.subs[t] = id
		m.mu.Unlock()
	}
}

// Remove unregisters the handler named name, reports whether it was present
// Bus subscriptions stay in place; dispatch simply finds no match
func (m *Manager) Remove(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, h := range m.handlers {
		if h.Name() == name {
			m.handlers = append(m.handlers[:i:i], m.handlers[i+1:]...)
			return true
		}
	}
	return false
}

// Handler returns the registered handler named name
func (m *Manager) Handler(name string) (Handler, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, h := range m.handlers {
		if h.Name() == name {
			return h, true
		}
	}
	return nil, false
}

// Detach drops every bus subscription held by the manager
func (m *Manager) Detach() {
	m.mu.Lock()
	subs := m.subs
	m.subs = make(map[event.EventType]event.ListenerID)
	m.mu.Unlock()
	for t, id := range subs {
		m.bus.Off(t, id)
	}
}

// Dispatch runs every handler accepting t against the current state
func (m *Manager) Dispatch(t event.EventType, payload any) {
	m.mu.RLock()
	chain := m.handlers
	m.mu.RUnlock()

	s := m.store.State()
	cfg := m.store.Config()
	for _, h := range chain {
		if !h.CanHandle(t) {
			continue
		}
		if err := m.invoke(h, t, payload, s, cfg); err != nil {
			m.failures.Add(1)
			m.logger.Printf("[RESPONSE] %s on %s: %v", h.Name(), t, err)
		}
	}
}

func (m *Manager) invoke(h Handler, t event.EventType, payload any, s *state.GameState, cfg config.GameConfig) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return h.Handle(t, payload, s, cfg)
}

// Failures returns the number of failed handler invocations
func (m *Manager) Failures() int64 {
	return m.failures.Load()
}

// payloadAs accepts T or *T
func payloadAs[T any](payload any) (T, error) {
	var zero T
	switch v := payload.(type) {
	case T:
		return v, nil
	case *T:
		if v != nil {
			return *v, nil
		}
	}
	return zero, fmt.Errorf("%w: expected %T, got %T", ErrPayload, zero, payload)
}
