package status

import (
	"slices"
	"sync"
)

// MetricMap holds named metrics of one kind
// Callers cache the returned pointers; lookups after registration never contend with writers
type MetricMap[T any] struct {
	items sync.Map // string -> *T
	mu    sync.Mutex
	keys  []string // sorted
}

func NewMetricMap[T any]() *MetricMap[T] {
	return &MetricMap[T]{}
}

// Get returns the metric for key, registering a zero value on first use
func (m *MetricMap[T]) Get(key string) *T {
	if ptr, ok := m.items.Load(key); ok {
		return ptr.(*T)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	ptr, loaded := m.items.LoadOrStore(key, new(T))
	if !loaded {
		i, _ := slices.BinarySearch(m.keys, key)
		m.keys = slices.Insert(m.keys, i, key)
	}
	return ptr.(*T)
}

func (m *MetricMap[T]) Has(key string) bool {
	_, ok := m.items.Load(key)
	return ok
}

// Range visits metrics in key order; fn may register new metrics, which are not visited
func (m *MetricMap[T]) Range(fn func(key string, ptr *T)) {
	for _, k := range m.Keys() {
		if ptr, ok := m.items.Load(k); ok {
			fn(k, ptr.(*T))
		}
	}
}

// Keys returns registered keys in sorted order
func (m *MetricMap[T]) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.keys)
}

func (m *MetricMap[T]) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.keys)
}
