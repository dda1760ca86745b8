package config

import (
	"fmt"
	"io"
	"log"
	"sync"
)

// Listener receives a copy of the config after each change
type Listener func(GameConfig)

// Manager holds the authoritative config and its accumulated overrides
//
// Architecture:
//   - Every change rebuilds from base, library defaults and the accumulated overrides
//   - The selected difficulty is reapplied after each rebuild and never compounds
//   - Readers receive deep copies; the held value is never mutated in place
type Manager struct {
	mu         sync.RWMutex
	overrides  []Overrides
	difficulty Difficulty
	cfg        GameConfig
	listeners  map[int]Listener
	order      []int
	nextID     int
	logger     *log.Logger
}

// NewManager builds the initial config from the given overrides
func NewManager(logger *log.Logger, initial ...Overrides) (*Manager, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	m := &Manager{
		listeners: make(map[int]Listener),
		logger:    logger,
	}
	for _, o := range initial {
		if o != nil {
			m.overrides = append(m.overrides, normalize(o))
		}
	}
	if err := m.rebuild(""); err != nil {
		return nil, err
	}
	return m, nil
}

// rebuild merges all layers; a non-empty level replaces the selected difficulty
// Caller holds the write lock or has exclusive access
func (m *Manager) rebuild(level Difficulty) error {
	merged, err := Merge(m.overrides...)
	if err != nil {
		return err
	}
	if level == "" {
		level = merged.Rules.DifficultyLevel
	}
	cfg, err := ApplyDifficulty(merged, level)
	if err != nil {
		return err
	}
	m.difficulty = level
	m.cfg = cfg
	return nil
}

// Config returns a deep copy of the active config
func (m *Manager) Config() GameConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg.Clone()
}

// Difficulty returns the selected difficulty level
func (m *Manager) Difficulty() Difficulty {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.difficulty
}

// Update layers o over the accumulated overrides and notifies subscribers
// On error the previous config stays active
func (m *Manager) Update(o Overrides) error {
	n := normalize(o)
	m.mu.Lock()
	prev := m.overrides
	m.overrides = append(append([]Overrides(nil), prev...), n)

	level := m.difficulty
	if rules, ok := n["rules"].(map[string]any); ok {
		if _, ok := rules["difficulty_level"]; ok {
			level = ""
		}
	}
	if err := m.rebuild(level); err != nil {
		m.overrides = prev
		m.mu.Unlock()
		return fmt.Errorf("update config: %w", err)
	}
	m.mu.Unlock()

	m.notify()
	return nil
}

// SetDifficulty selects a preset and notifies subscribers
func (m *Manager) SetDifficulty(d Difficulty) error {
	if _, err := PresetFor(d); err != nil {
		return err
	}
	m.mu.Lock()
	if err := m.rebuild(d); err != nil {
		m.mu.Unlock()
		return err
	}
	m.mu.Unlock()

	m.logger.Printf("[CONFIG] difficulty set to %s", d)
	m.notify()
	return nil
}

// SetDebug toggles the debug section and notifies subscribers
func (m *Manager) SetDebug(enabled bool) {
	err := m.Update(Overrides{"debug": map[string]any{
		"enabled":       enabled,
		"show_hitboxes": enabled,
		"show_fps":      enabled,
	}})
	if err != nil {
		m.logger.Printf("[CONFIG] set debug: %v", err)
	}
}

// Subscribe registers fn for change notifications and returns its unsubscribe
func (m *Manager) Subscribe(fn Listener) (unsubscribe func()) {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	m.order = append(m.order, id)
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.listeners, id)
			for i, v := range m.order {
				if v == id {
					m.order = append(m.order[:i:i], m.order[i+1:]...)
					break
				}
			}
			m.mu.Unlock()
		})
	}
}

func (m *Manager) notify() {
	m.mu.RLock()
	fns := make([]Listener, 0, len(m.order))
	for _, id := range m.order {
		fns = append(fns, m.listeners[id])
	}
	cfg := m.cfg
	m.mu.RUnlock()

	for _, fn := range fns {
		fn(cfg.Clone())
	}
}

// Validate checks the active config and logs each diagnostic
func (m *Manager) Validate() (bool, []error) {
	errs := Check(m.Config())
	for _, err := range errs {
		m.logger.Printf("[CONFIG] %v", err)
	}
	return len(errs) == 0, errs
}
