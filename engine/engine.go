package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/lixenwraith/plane-battle/command"
	"github.com/lixenwraith/plane-battle/config"
	"github.com/lixenwraith/plane-battle/controller"
	"github.com/lixenwraith/plane-battle/core"
	"github.com/lixenwraith/plane-battle/event"
	"github.com/lixenwraith/plane-battle/physics"
	"github.com/lixenwraith/plane-battle/response"
	"github.com/lixenwraith/plane-battle/state"
	"github.com/lixenwraith/plane-battle/status"
)

// ErrInvalidConfig is returned by StartGame when the active config fails validation
var ErrInvalidConfig = config.ErrInvalidConfig

// ErrDestroyed is returned by lifecycle calls on a destroyed engine
var ErrDestroyed = errors.New("engine destroyed")

// CodeInvalidConfig is the error event code published when a start is refused
const CodeInvalidConfig = "INVALID_CONFIG"

// RenderFunc draws one frame; s must be treated as read-only and not retained
type RenderFunc func(s *state.GameState, frame event.RenderFramePayload)

type options struct {
	frames    FrameScheduler
	logger    *log.Logger
	logLines  int
	overrides []config.Overrides
	rng       *rand.Rand
	tracer    trace.TracerProvider
	registry  *status.Registry
	detector  bool
}

// Option configures an Engine
type Option func(*options)

// WithFrames replaces the default 60 fps ticker host
func WithFrames(fs FrameScheduler) Option {
	return func(o *options) { o.frames = fs }
}

// WithLogger sets the destination of engine logs; the log ring always receives a copy
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithLogLines sets the log ring capacity
func WithLogLines(n int) Option {
	return func(o *options) { o.logLines = n }
}

// WithOverrides layers config overrides over the defaults, in order
func WithOverrides(layers ...config.Overrides) Option {
	return func(o *options) { o.overrides = append(o.overrides, layers...) }
}

// WithRand seeds spawn randomness
func WithRand(rng *rand.Rand) Option {
	return func(o *options) { o.rng = rng }
}

// WithTracerProvider sets the provider used by the command tracing middleware
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) { o.tracer = tp }
}

// WithRegistry shares a metrics registry with the caller
func WithRegistry(reg *status.Registry) Option {
	return func(o *options) { o.registry = reg }
}

// WithoutDetector leaves collision detection to an external source feeding Emit
func WithoutDetector() Option {
	return func(o *options) { o.detector = false }
}

// Engine is the façade owning every service of one game instance
//
// Architecture:
//   - Every frame and every façade call runs under mu, so callers never observe a half-applied tick
//   - Lifecycle events drive the loop: start and resume run it; pause, game over and reset stop it
//   - Config changes reach the container between ticks and apply to controllers on the next one
//   - Bus callbacks run inside the engine lock and must not call back into locking façade methods
type Engine struct {
	mu sync.Mutex

	bus       *event.Bus
	cfg       *config.Manager
	container *state.Container
	ctrls     *controller.Set
	pipeline  *command.Pipeline
	responses *response.Manager
	detector  *physics.Detector
	loop      *Loop
	ticker    *TickerFrames

	registry *status.Registry
	logs     *LogRing
	logger   *log.Logger

	unsubscribeConfig func()
	destroyed         atomic.Bool

	statFPS      *status.AtomicFloat
	statFrameMs  *status.AtomicFloat
	statUpdateMs *status.AtomicFloat
	statRenderMs *status.AtomicFloat
	statTicks    *atomic.Int64
	statEntities *atomic.Int64
	statRunning  *atomic.Bool
	statStatus   *status.AtomicString
	statEvents   *atomic.Int64
}

// New builds an engine in init status
func New(opts ...Option) (*Engine, error) {
	o := options{detector: true}
	for _, opt := range opts {
		opt(&o)
	}

	logs := NewLogRing(o.logLines)
	var logger *log.Logger
	if o.logger != nil {
		logger = log.New(io.MultiWriter(o.logger.Writer(), logs), o.logger.Prefix(), o.logger.Flags())
	} else {
		logger = log.New(io.MultiWriter(io.Discard, logs), "", log.LstdFlags)
	}

	reg := o.registry
	if reg == nil {
		reg = status.NewRegistry()
	}

	cfgMgr, err := config.NewManager(logger, o.overrides...)
	if err != nil {
		return nil, fmt.Errorf("engine config: %w", err)
	}

	bus := event.NewBus(logger)
	container := state.NewContainer(cfgMgr.Config(), bus, state.WithLogger(logger))
	ctrls, err := controller.NewSet(container, bus, o.rng)
	if err != nil {
		return nil, fmt.Errorf("engine controllers: %w", err)
	}

	pipeline := command.NewPipeline(logger)
	pipeline.Use(command.NewStateLogger(container, logger))
	pipeline.Use(command.NewTracing(o.tracer))
	pipeline.Use(command.NewMetrics(reg))
	if err := command.RegisterDefaults(pipeline, container, ctrls); err != nil {
		return nil, fmt.Errorf("engine commands: %w", err)
	}

	e := &Engine{
		bus:       bus,
		cfg:       cfgMgr,
		container: container,
		ctrls:     ctrls,
		pipeline:  pipeline,
		registry:  reg,
		logs:      logs,
		logger:    logger,

		statFPS:      reg.Floats.Get(status.KeyFPS),
		statFrameMs:  reg.Floats.Get(status.KeyFrameMs),
		statUpdateMs: reg.Floats.Get(status.KeyUpdateMs),
		statRenderMs: reg.Floats.Get(status.KeyRenderMs),
		statTicks:    reg.Ints.Get(status.KeyTicks),
		statEntities: reg.Ints.Get(status.KeyEntities),
		statRunning:  reg.Bools.Get(status.KeyRunning),
		statStatus:   reg.Strings.Get(status.KeyStatus),
		statEvents:   reg.Ints.Get(status.KeyEventFailures),
	}

	e.responses = response.NewManager(bus, container, logger, reg)
	e.responses.Register(response.NewRunStateHandler(bus))
	e.responses.Register(response.NewInputHandler(pipeline, bus, logger))
	e.responses.Register(response.NewCollisionHandler(bus, container, ctrls))
	e.responses.Register(response.NewUIStateHandler(bus))

	// The state pass subscribes before the detector so detection sees current positions
	bus.On(event.EventUpdate, func(payload any) {
		if p, ok := payload.(event.UpdatePayload); ok {
			container.Update(p.DeltaTime)
		}
	})
	if o.detector {
		e.detector = physics.NewDetector(bus, container)
		e.detector.Attach()
	}

	frames := o.frames
	if frames == nil {
		e.ticker = NewTickerFrames(time.Second / 60)
		frames = e.ticker
	}
	e.loop = NewLoop(frames, e.tick)

	for _, t := range []event.EventType{event.EventGameStart, event.EventGameResume} {
		bus.On(t, func(any) { e.loop.Start() })
	}
	for _, t := range []event.EventType{event.EventGamePause, event.EventGameOver, event.EventGameReset} {
		bus.On(t, func(any) { e.loop.Stop() })
	}

	e.unsubscribeConfig = cfgMgr.Subscribe(e.applyConfig)
	bus.SetDebug(cfgMgr.Config().Debug.Enabled)

	e.statStatus.Store(container.State().Status.String())
	logger.Printf("[ENGINE] created difficulty=%s", cfgMgr.Difficulty())
	bus.Emit(event.EventGameInit, nil)
	return e, nil
}

// tick runs one frame: state update, then render
func (e *Engine) tick(dt float64, frame uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed.Load() {
		return
	}

	start := time.Now()
	e.bus.Emit(event.EventUpdate, event.UpdatePayload{DeltaTime: dt})
	updated := time.Now()
	e.bus.Emit(event.EventRenderFrame, event.RenderFramePayload{DeltaTime: dt, Frame: frame})
	rendered := time.Now()

	s := e.container.State()
	s.Performance.RenderTime = ms(rendered.Sub(updated))

	e.statTicks.Add(1)
	e.statUpdateMs.Set(ms(updated.Sub(start)))
	e.statRenderMs.Set(ms(rendered.Sub(updated)))
	e.statFrameMs.Set(dt * 1000)
	if dt > 0 {
		e.statFPS.Smooth(1/dt, fpsSmoothing)
	}
	e.statEntities.Store(int64(s.EntityCount()))
	e.statStatus.Store(s.Status.String())
}

// fpsSmoothing is the moving-average weight of the newest frame in the fps gauge
const fpsSmoothing = 0.1

func ms(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}

// applyConfig runs on config.Manager notifications, inside a façade call holding mu
func (e *Engine) applyConfig(cfg config.GameConfig) {
	e.container.SetConfig(cfg)
	e.bus.SetDebug(cfg.Debug.Enabled)
	e.bus.Emit(event.EventConfigChange, event.ConfigChangePayload{
		Difficulty: string(cfg.Rules.DifficultyLevel),
		Debug:      cfg.Debug.Enabled,
	})
}

// StartGame validates the config and starts a run
// A finished run is reset first; an invalid config refuses with ErrInvalidConfig
func (e *Engine) StartGame() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed.Load() {
		return ErrDestroyed
	}

	if ok, errs := e.cfg.Validate(); !ok {
		err := errors.Join(errs...)
		e.bus.Emit(event.EventError, event.ErrorPayload{Code: CodeInvalidConfig, Message: err.Error()})
		return fmt.Errorf("start game: %w", err)
	}

	if e.container.State().Status == core.StatusGameOver {
		e.container.Reset()
	}
	if err := e.ctrls.Run.Start(e.container.State()); err != nil {
		return fmt.Errorf("start game: %w", err)
	}
	e.logger.Printf("[ENGINE] game started")
	return nil
}

// PauseGame stops the loop and keeps state
func (e *Engine) PauseGame() error {
	_, err := e.execute(command.NamePause, nil)
	return err
}

// ResumeGame restarts the loop with a zero first delta
func (e *Engine) ResumeGame() error {
	_, err := e.execute(command.NameResume, nil)
	return err
}

// ResetGame rebuilds state from the active config and returns to init
func (e *Engine) ResetGame() error {
	_, err := e.execute(command.NameReset, nil)
	return err
}

// Execute runs a named command through the pipeline between frames
func (e *Engine) Execute(ctx context.Context, name string, params any) (any, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed.Load() {
		return nil, ErrDestroyed
	}
	return e.pipeline.Execute(ctx, name, params)
}

func (e *Engine) execute(name string, params any) (any, error) {
	return e.Execute(context.Background(), name, params)
}

// State returns the live state; callers must not mutate it
func (e *Engine) State() *state.GameState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.container.State()
}

// Summary returns a consistent snapshot of the headline state values
func (e *Engine) Summary() state.Summary {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.container.State().Summary()
}

// Config returns a copy of the active config
func (e *Engine) Config() config.GameConfig {
	return e.cfg.Config()
}

// UpdateConfig layers overrides over the active config
func (e *Engine) UpdateConfig(o config.Overrides) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg.Update(o)
}

// SetDifficulty selects a difficulty preset
func (e *Engine) SetDifficulty(d config.Difficulty) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg.SetDifficulty(d)
}

// SetDebug toggles debug config and bus emission logging
func (e *Engine) SetDebug(enabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cfg.SetDebug(enabled)
}

// On subscribes fn to t; fn runs inside the engine lock
func (e *Engine) On(t event.EventType, fn event.Handler) event.ListenerID {
	return e.bus.On(t, fn)
}

// Off removes a subscription made with On or OnRender
func (e *Engine) Off(t event.EventType, id event.ListenerID) bool {
	return e.bus.Off(t, id)
}

// OnRender subscribes fn to render frames with the state of that frame
func (e *Engine) OnRender(fn RenderFunc) event.ListenerID {
	return e.bus.On(event.EventRenderFrame, func(payload any) {
		if p, ok := payload.(event.RenderFramePayload); ok {
			fn(e.container.State(), p)
		}
	})
}

// Emit publishes an external event such as input or detected collisions between frames
// Must not be called from inside an engine callback
func (e *Engine) Emit(t event.EventType, payload any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed.Load() {
		return
	}
	e.bus.Emit(t, payload)
}

// Running reports whether the loop is requesting frames
func (e *Engine) Running() bool {
	return e.loop.Running()
}

// Stats is the diagnostic snapshot returned by Engine.Stats
type Stats struct {
	FPS             float64
	FrameTime       float64 // Milliseconds
	UpdateTime      float64 // Milliseconds
	RenderTime      float64 // Milliseconds
	Frames          uint64
	Running         bool
	Status          core.Status
	Entities        int
	Deferred        int
	HandlerFailures int64
	EventFailures   int64
	Metrics         map[string]any
	Logs            []string
}

// Stats returns performance counters, the metric registry and recent log lines
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	s := e.container.State()
	st := Stats{
		FPS:        s.Performance.FPS,
		FrameTime:  s.Performance.FrameTime,
		UpdateTime: s.Performance.UpdateTime,
		RenderTime: s.Performance.RenderTime,
		Status:     s.Status,
		Entities:   s.EntityCount(),
		Deferred:   e.container.Deferred().Pending(),
	}
	e.mu.Unlock()

	st.Frames = e.loop.Frames()
	st.Running = e.loop.Running()
	st.HandlerFailures = e.responses.Failures()
	st.EventFailures = e.bus.Failures()
	e.statEvents.Store(st.EventFailures)
	e.statRunning.Store(st.Running)
	st.Metrics = e.registry.Snapshot()
	st.Logs = e.logs.Lines()
	return st
}

// Registry exposes the metric registry
func (e *Engine) Registry() *status.Registry {
	return e.registry
}

// Destroy stops the loop and releases every subscription
// The engine is unusable afterwards; must not be called from inside an engine callback
func (e *Engine) Destroy() {
	if e.destroyed.Swap(true) {
		return
	}
	e.loop.Destroy()
	// Outside mu: a frame blocked on the lock must be able to finish
	if e.ticker != nil {
		e.ticker.Close()
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.unsubscribeConfig()
	e.responses.Detach()
	if e.detector != nil {
		e.detector.Detach()
	}
	if n := e.container.Deferred().Purge(); n > 0 {
		e.logger.Printf("[ENGINE] destroy purged %d deferred effects", n)
	}
	e.bus.Clear()
	e.statRunning.Store(false)
	e.logger.Printf("[ENGINE] destroyed")
}
