package engine

import (
	"sync"
	"time"
)

// TickFunc runs one frame with the elapsed seconds since the previous one
type TickFunc func(dt float64, frame uint64)

// Loop reschedules itself on a FrameScheduler while running
//
// Architecture:
//   - The first frame after Start reports dt = 0
//   - Stop cancels the pending request; a frame already running completes
//   - tick runs without the loop lock held so it may call Stop or Start
type Loop struct {
	frames FrameScheduler
	tick   TickFunc

	mu        sync.Mutex
	running   bool
	destroyed bool
	pending   FrameID
	scheduled bool
	last      time.Time
	hasLast   bool
	frame     uint64
}

func NewLoop(frames FrameScheduler, tick TickFunc) *Loop {
	return &Loop{frames: frames, tick: tick}
}

// Start begins requesting frames; a running loop is left alone
func (l *Loop) Start() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.running || l.destroyed {
		return
	}
	l.running = true
	l.hasLast = false
	l.schedule()
}

// Stop cancels the next frame
func (l *Loop) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.running = false
	if l.scheduled {
		l.frames.CancelFrame(l.pending)
		l.scheduled = false
	}
}

// Destroy stops the loop permanently
func (l *Loop) Destroy() {
	l.Stop()
	l.mu.Lock()
	l.destroyed = true
	l.mu.Unlock()
}

// Running reports whether frames are being requested
func (l *Loop) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

// Frames returns the number of frames run since creation
func (l *Loop) Frames() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.frame
}

// schedule requests the next frame; caller holds l.mu
func (l *Loop) schedule() {
	if l.scheduled {
		return
	}
	l.pending = l.frames.RequestFrame(l.onFrame)
	l.scheduled = true
}

func (l *Loop) onFrame(now time.Time) {
	l.mu.Lock()
	l.scheduled = false
	if !l.running {
		l.mu.Unlock()
		return
	}
	var dt float64
	if l.hasLast {
		dt = now.Sub(l.last).Seconds()
		if dt < 0 {
			dt = 0
		}
	}
	l.last = now
	l.hasLast = true
	l.frame++
	frame := l.frame
	l.mu.Unlock()

	l.tick(dt, frame)

	l.mu.Lock()
	if l.running {
		l.schedule()
	}
	l.mu.Unlock()
}
