package engine

import (
	"slices"
	"sync"
	"time"

	"github.com/lixenwraith/plane-battle/core"
)

// FrameID identifies one pending frame request
type FrameID uint64

// FrameCallback receives the frame timestamp
type FrameCallback func(now time.Time)

// FrameScheduler is the animation-frame host driving the loop
// A requested callback runs at most once, on the next frame
type FrameScheduler interface {
	RequestFrame(cb FrameCallback) FrameID
	CancelFrame(id FrameID)
}

// frameQueue holds pending callbacks keyed by request order
type frameQueue struct {
	mu      sync.Mutex
	nextID  FrameID
	pending map[FrameID]FrameCallback
}

func (q *frameQueue) add(cb FrameCallback) FrameID {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.pending == nil {
		q.pending = make(map[FrameID]FrameCallback)
	}
	q.nextID++
	q.pending[q.nextID] = cb
	return q.nextID
}

func (q *frameQueue) cancel(id FrameID) {
	q.mu.Lock()
	delete(q.pending, id)
	q.mu.Unlock()
}

// take removes and returns every pending callback in request order
// Requests made while the batch runs wait for the next frame
func (q *frameQueue) take() []FrameCallback {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) == 0 {
		return nil
	}
	ids := make([]FrameID, 0, len(q.pending))
	for id := range q.pending {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := make([]FrameCallback, 0, len(ids))
	for _, id := range ids {
		out = append(out, q.pending[id])
		delete(q.pending, id)
	}
	return out
}

func (q *frameQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// TickerFrames fires pending callbacks on a fixed interval from a background goroutine
//
// Architecture:
//   - The ticker goroutine starts on the first request and runs until Close
//   - The goroutine is launched through core.Go so a panicking frame reaches the crash handler
//   - Frames with nothing pending cost one lock acquisition
type TickerFrames struct {
	frameQueue
	interval time.Duration
	start    sync.Once
	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewTickerFrames creates a ticker host; a non-positive interval uses 60 frames per second
func NewTickerFrames(interval time.Duration) *TickerFrames {
	if interval <= 0 {
		interval = time.Second / 60
	}
	return &TickerFrames{interval: interval, stop: make(chan struct{})}
}

func (f *TickerFrames) RequestFrame(cb FrameCallback) FrameID {
	id := f.add(cb)
	f.start.Do(func() {
		f.wg.Add(1)
		core.Go(f.run)
	})
	return id
}

func (f *TickerFrames) CancelFrame(id FrameID) {
	f.cancel(id)
}

func (f *TickerFrames) run() {
	defer f.wg.Done()
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-f.stop:
			return
		case now := <-ticker.C:
			for _, cb := range f.take() {
				cb(now)
			}
		}
	}
}

// Close stops the ticker goroutine and waits for a running frame to finish
// Must not be called from inside a frame callback
func (f *TickerFrames) Close() {
	f.stopOnce.Do(func() {
		close(f.stop)
		// Prevent a late request from starting a goroutine nobody stops
		f.start.Do(func() {})
	})
	f.wg.Wait()
}

// ManualFrames is a deterministic host advanced explicitly by tests and headless runs
type ManualFrames struct {
	frameQueue
	mu  sync.Mutex
	now time.Time
}

// NewManualFrames creates a host whose clock starts at start
func NewManualFrames(start time.Time) *ManualFrames {
	return &ManualFrames{now: start}
}

func (f *ManualFrames) RequestFrame(cb FrameCallback) FrameID {
	return f.add(cb)
}

func (f *ManualFrames) CancelFrame(id FrameID) {
	f.cancel(id)
}

// Step advances the clock by d and runs the callbacks pending before the call
// Returns the number of callbacks run
func (f *ManualFrames) Step(d time.Duration) int {
	f.mu.Lock()
	f.now = f.now.Add(d)
	now := f.now
	f.mu.Unlock()

	cbs := f.take()
	for _, cb := range cbs {
		cb(now)
	}
	return len(cbs)
}

// Pending returns the number of queued callbacks
func (f *ManualFrames) Pending() int {
	return f.len()
}

// Now returns the current frame clock
func (f *ManualFrames) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}
