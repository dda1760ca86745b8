package status

import (
	"math"
	"sync/atomic"
)

// AtomicFloat is a float64 gauge written by the frame loop and read by diagnostics
// Zero value reads 0
type AtomicFloat struct {
	bits atomic.Uint64
	seen atomic.Bool
}

func (f *AtomicFloat) Set(val float64) {
	f.bits.Store(math.Float64bits(val))
	f.seen.Store(true)
}

func (f *AtomicFloat) Get() float64 {
	return math.Float64frombits(f.bits.Load())
}

// Smooth blends val into the gauge as an exponential moving average and returns the result
// The first sample is stored as is; alpha outside (0, 1] stores val unchanged
func (f *AtomicFloat) Smooth(val, alpha float64) float64 {
	if alpha <= 0 || alpha > 1 || !f.seen.Load() {
		f.Set(val)
		return val
	}
	for {
		old := f.bits.Load()
		next := math.Float64frombits(old)*(1-alpha) + val*alpha
		if f.bits.CompareAndSwap(old, math.Float64bits(next)) {
			return next
		}
	}
}

// AtomicString holds a short label such as the game status
type AtomicString struct {
	v atomic.Pointer[string]
}

func (s *AtomicString) Store(val string) {
	s.v.Store(&val)
}

// Load returns the stored label, empty when unset
func (s *AtomicString) Load() string {
	if p := s.v.Load(); p != nil {
		return *p
	}
	return ""
}
