package status

import "sync/atomic"

// Metric keys published by the engine
const (
	KeyFPS             = "engine.fps"
	KeyFrameMs         = "engine.frame_ms"
	KeyUpdateMs        = "engine.update_ms"
	KeyRenderMs        = "engine.render_ms"
	KeyTicks           = "engine.ticks"
	KeyRunning         = "engine.running"
	KeyStatus          = "game.status"
	KeyEntities        = "game.entities"
	KeyCommands        = "command.executed"
	KeyCommandErrors   = "command.failed"
	KeyHandlerFailures = "response.failed"
	KeyEventFailures   = "event.failed"
)

// Registry is the central metrics facade
// Components cache pointers at construction; hot paths write directly to atomics
type Registry struct {
	Bools   *MetricMap[atomic.Bool]
	Ints    *MetricMap[atomic.Int64]
	Floats  *MetricMap[AtomicFloat]
	Strings *MetricMap[AtomicString]
}

// NewRegistry creates an initialized Registry
func NewRegistry() *Registry {
	return &Registry{
		Bools:   NewMetricMap[atomic.Bool](),
		Ints:    NewMetricMap[atomic.Int64](),
		Floats:  NewMetricMap[AtomicFloat](),
		Strings: NewMetricMap[AtomicString](),
	}
}

// TotalCount returns total metrics across all types
func (r *Registry) TotalCount() int {
	return r.Bools.Count() + r.Ints.Count() + r.Floats.Count() + r.Strings.Count()
}

// Snapshot copies every metric value into a flat map keyed by metric name
func (r *Registry) Snapshot() map[string]any {
	out := make(map[string]any, r.TotalCount())
	r.Bools.Range(func(k string, p *atomic.Bool) { out[k] = p.Load() })
	r.Ints.Range(func(k string, p *atomic.Int64) { out[k] = p.Load() })
	r.Floats.Range(func(k string, p *AtomicFloat) { out[k] = p.Get() })
	r.Strings.Range(func(k string, p *AtomicString) { out[k] = p.Load() })
	return out
}
