package state

import (
	"fmt"
	"io"
	"log"
	"sort"
	"time"

	"github.com/lixenwraith/plane-battle/config"
	"github.com/lixenwraith/plane-battle/core"
	"github.com/lixenwraith/plane-battle/event"
)

// Tag addresses a controller in the container registry
// Numeric order is the per-tick update order
type Tag uint8

const (
	TagPlayer Tag = iota
	TagEnemy
	TagBullet
	TagPowerup
	TagUI
	TagRun // Last so wave and game-over checks observe this tick's movement
)

func (t Tag) String() string {
	switch t {
	case TagPlayer:
		return "player"
	case TagEnemy:
		return "enemy"
	case TagBullet:
		return "bullet"
	case TagPowerup:
		return "powerup"
	case TagUI:
		return "ui"
	case TagRun:
		return "run"
	default:
		return fmt.Sprintf("tag(%d)", uint8(t))
	}
}

// Controller owns the per-tick update of one slice of state
type Controller interface {
	Tag() Tag
	Update(s *GameState, cfg config.GameConfig, dt float64)
}

// Resetter is implemented by controllers holding private per-run state
type Resetter interface {
	Reset(s *GameState, cfg config.GameConfig)
}

// Emitter is the publishing side of the event bus
type Emitter interface {
	Emit(t event.EventType, payload any)
}

// Container owns the game state, its controllers and the deferred-effect queue
//
// Architecture:
//   - Not safe for concurrent use; the engine serializes every call under its lock
//   - Controllers run in Tag order regardless of registration order
//   - Config swaps apply to the next tick and the next reset, never mid-tick
type Container struct {
	state       *GameState
	cfg         config.GameConfig
	controllers []Controller
	byTag       map[Tag]Controller
	deferred    *Deferred
	ids         *IDGenerator
	bus         Emitter
	now         func() time.Time
	logger      *log.Logger
}

// Option configures a Container
type Option func(*Container)

// WithIDGenerator replaces the wall-clock seeded id source
func WithIDGenerator(ids *IDGenerator) Option {
	return func(c *Container) { c.ids = ids }
}

// WithLogger sets the diagnostic logger
func WithLogger(l *log.Logger) Option {
	return func(c *Container) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithClock replaces the wall clock used for update timing
func WithClock(now func() time.Time) Option {
	return func(c *Container) { c.now = now }
}

// NewContainer creates a container holding a fresh init state
func NewContainer(cfg config.GameConfig, bus Emitter, opts ...Option) *Container {
	c := &Container{
		cfg:      cfg,
		byTag:    make(map[Tag]Controller),
		deferred: NewDeferred(),
		bus:      bus,
		now:      time.Now,
		logger:   log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.ids == nil {
		c.ids = NewIDGenerator()
	}
	c.state = New(cfg, c.ids)
	return c
}

// Register adds a controller; a tag may be registered once
func (c *Container) Register(ctrl Controller) error {
	tag := ctrl.Tag()
	if _, dup := c.byTag[tag]; dup {
		return fmt.Errorf("controller %s already registered", tag)
	}
	c.byTag[tag] = ctrl
	c.controllers = append(c.controllers, ctrl)
	sort.SliceStable(c.controllers, func(i, j int) bool {
		return c.controllers[i].Tag() < c.controllers[j].Tag()
	})
	return nil
}

// Controller returns the controller registered under tag
func (c *Container) Controller(tag Tag) (Controller, bool) {
	ctrl, ok := c.byTag[tag]
	return ctrl, ok
}

// ControllerAs returns the controller under tag as its concrete type
func ControllerAs[T Controller](c *Container, tag Tag) (T, bool) {
	var zero T
	ctrl, ok := c.byTag[tag]
	if !ok {
		return zero, false
	}
	typed, ok := ctrl.(T)
	return typed, ok
}

// State returns the live state; callers outside the engine lock must treat it as read-only
func (c *Container) State() *GameState {
	return c.state
}

// Config returns the config value in effect
func (c *Container) Config() config.GameConfig {
	return c.cfg
}

// SetConfig swaps the config used by the next tick and the next reset
func (c *Container) SetConfig(cfg config.GameConfig) {
	c.cfg = cfg
}

// IDs returns the entity id source
func (c *Container) IDs() *IDGenerator {
	return c.ids
}

// Set applies a mutation and announces the change
func (c *Container) Set(fn func(s *GameState)) {
	prev := c.state.Status
	fn(c.state)
	if c.state.Status != prev {
		c.state.PreviousStatus = prev
	}
	c.emitChange()
}

// Schedule queues a deferred mutation after delay milliseconds of playing time
func (c *Container) Schedule(delay float64, name string, fn Effect) EffectID {
	return c.deferred.Schedule(delay, name, fn)
}

// Deferred exposes the effect queue for inspection
func (c *Container) Deferred() *Deferred {
	return c.deferred
}

// Update advances a playing state by dt seconds
// Any other status leaves state untouched and emits nothing
func (c *Container) Update(dt float64) {
	s := c.state
	if s.Status != core.StatusPlaying {
		return
	}
	if dt < 0 {
		dt = 0
	}
	start := c.now()

	s.Time += dt
	s.Performance.FrameTime = dt * 1000
	if dt > 0 {
		s.Performance.FPS = 1 / dt
	}

	c.deferred.Advance(dt*1000, s)

	if !s.IsPaused && !s.IsGameOver {
		cfg := c.cfg
		for _, ctrl := range c.controllers {
			ctrl.Update(s, cfg, dt)
			// A controller may end the run; the rest of the pass is skipped
			if c.state.Status != core.StatusPlaying {
				break
			}
		}
	}

	s.Collect()
	s.Performance.UpdateTime = float64(c.now().Sub(start).Microseconds()) / 1000
	c.emitChange()
}

// Reset discards the state and rebuilds it from the current config
func (c *Container) Reset() {
	if n := c.deferred.Purge(); n > 0 {
		c.logger.Printf("[STATE] reset purged %d deferred effects", n)
	}
	c.state = New(c.cfg, c.ids)
	for _, ctrl := range c.controllers {
		if r, ok := ctrl.(Resetter); ok {
			r.Reset(c.state, c.cfg)
		}
	}
	c.emit(event.EventGameReset, nil)
	c.emitChange()
}

func (c *Container) emitChange() {
	s := c.state
	c.emit(event.EventStateChange, event.StateChangePayload{
		Status:         s.Status,
		PreviousStatus: s.PreviousStatus,
		Score:          s.Score,
		Level:          s.CurrentLevel,
		Wave:           s.CurrentWave,
		Time:           s.Time,
	})
}

func (c *Container) emit(t event.EventType, payload any) {
	if c.bus != nil {
		c.bus.Emit(t, payload)
	}
}
