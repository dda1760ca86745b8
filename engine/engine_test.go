package engine

import (
	"bytes"
	"errors"
	"log"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/lixenwraith/plane-battle/config"
	"github.com/lixenwraith/plane-battle/core"
	"github.com/lixenwraith/plane-battle/event"
	"github.com/lixenwraith/plane-battle/state"
	"github.com/lixenwraith/plane-battle/status"
)

const frameStep = 16 * time.Millisecond

func newTestEngine(t *testing.T, opts ...Option) (*Engine, *ManualFrames) {
	t.Helper()
	frames := NewManualFrames(epoch)
	opts = append([]Option{WithFrames(frames), WithRand(rand.New(rand.NewSource(7)))}, opts...)
	e, err := New(opts...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(e.Destroy)
	return e, frames
}

func TestEngineStartRunsFrames(t *testing.T) {
	e, frames := newTestEngine(t)

	var order []string
	var dts []float64
	e.On(event.EventUpdate, func(p any) {
		order = append(order, "update")
		dts = append(dts, p.(event.UpdatePayload).DeltaTime)
	})
	e.OnRender(func(s *state.GameState, f event.RenderFramePayload) {
		order = append(order, "render:"+s.Status.String())
	})

	if e.Running() || frames.Pending() != 0 {
		t.Fatal("Expected idle engine before start")
	}
	if err := e.StartGame(); err != nil {
		t.Fatalf("StartGame failed: %v", err)
	}
	if !e.Running() || e.State().Status != core.StatusPlaying {
		t.Fatalf("Expected running playing engine, got %s", e.State().Status)
	}

	frames.Step(frameStep)
	frames.Step(frameStep)

	want := []string{"update", "render:playing", "update", "render:playing"}
	if strings.Join(order, ",") != strings.Join(want, ",") {
		t.Errorf("Expected %v, got %v", want, order)
	}
	if dts[0] != 0 || dts[1] != frameStep.Seconds() {
		t.Errorf("Expected dts [0 %v], got %v", frameStep.Seconds(), dts)
	}
	if e.State().ActiveEnemies() == 0 {
		t.Error("Expected first wave spawned")
	}
	if e.State().UI.CurrentScreen != core.ScreenGame {
		t.Errorf("Expected game screen, got %s", e.State().UI.CurrentScreen)
	}
}

func TestEnginePauseResume(t *testing.T) {
	e, frames := newTestEngine(t)
	if err := e.StartGame(); err != nil {
		t.Fatalf("StartGame failed: %v", err)
	}
	frames.Step(frameStep)
	frames.Step(frameStep)
	before := e.Summary()

	if err := e.PauseGame(); err != nil {
		t.Fatalf("PauseGame failed: %v", err)
	}
	if e.Running() || frames.Pending() != 0 {
		t.Error("Expected loop stopped while paused")
	}
	frames.Step(time.Second)
	if got := e.Summary(); got != before {
		t.Errorf("Expected state frozen while paused, got %+v want %+v", got, before)
	}

	var dts []float64
	e.On(event.EventUpdate, func(p any) { dts = append(dts, p.(event.UpdatePayload).DeltaTime) })
	if err := e.ResumeGame(); err != nil {
		t.Fatalf("ResumeGame failed: %v", err)
	}
	frames.Step(frameStep)
	if len(dts) != 1 || dts[0] != 0 {
		t.Errorf("Expected zero dt on first frame after resume, got %v", dts)
	}
	if e.State().Enemies == nil || e.Summary().Wave != before.Wave {
		t.Error("Expected entities kept across pause")
	}

	if err := e.ResumeGame(); err == nil {
		t.Error("Expected resume while playing to fail")
	}
}

func TestEngineGameOverStopsLoop(t *testing.T) {
	e, frames := newTestEngine(t, WithOverrides(config.Overrides{
		"player": map[string]any{"lives": 1, "initial_health": 10},
	}))
	var over []event.GameOverPayload
	e.On(event.EventGameOver, func(p any) { over = append(over, p.(event.GameOverPayload)) })

	if err := e.StartGame(); err != nil {
		t.Fatalf("StartGame failed: %v", err)
	}
	frames.Step(frameStep)

	e.Emit(event.EventCollisionBulletPlayer, event.BulletPlayerCollisionPayload{BulletID: "external", Damage: 10})

	if e.State().Status != core.StatusGameOver {
		t.Fatalf("Expected game over, got %s", e.State().Status)
	}
	if len(over) != 1 || over[0].Reason != "Player died" {
		t.Errorf("Unexpected game over events %+v", over)
	}
	if e.Running() || frames.Pending() != 0 {
		t.Error("Expected loop stopped on game over")
	}

	// Starting again resets the finished run
	if err := e.StartGame(); err != nil {
		t.Fatalf("Restart failed: %v", err)
	}
	if s := e.State(); s.Status != core.StatusPlaying || s.Player.Lives != 1 || s.Score != 0 {
		t.Errorf("Expected fresh run, got %+v", e.Summary())
	}
}

func TestEngineReset(t *testing.T) {
	e, frames := newTestEngine(t)
	if err := e.StartGame(); err != nil {
		t.Fatalf("StartGame failed: %v", err)
	}
	frames.Step(frameStep)
	frames.Step(frameStep)

	if err := e.ResetGame(); err != nil {
		t.Fatalf("ResetGame failed: %v", err)
	}
	s := e.State()
	if s.Status != core.StatusInit || len(s.Enemies) != 0 || s.Time != 0 {
		t.Errorf("Expected fresh init state, got %+v", e.Summary())
	}
	if e.Running() {
		t.Error("Expected loop stopped after reset")
	}
	if s.UI.CurrentScreen != core.ScreenMenu {
		t.Errorf("Expected menu screen, got %s", s.UI.CurrentScreen)
	}
}

func TestEngineRefusesInvalidConfig(t *testing.T) {
	e, frames := newTestEngine(t)
	var errorsSeen []event.ErrorPayload
	e.On(event.EventError, func(p any) { errorsSeen = append(errorsSeen, p.(event.ErrorPayload)) })

	if err := e.UpdateConfig(config.Overrides{"canvas": map[string]any{"width": 0}}); err != nil {
		t.Fatalf("UpdateConfig failed: %v", err)
	}
	err := e.StartGame()
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("Expected ErrInvalidConfig, got %v", err)
	}
	if e.State().Status != core.StatusInit || e.Running() || frames.Pending() != 0 {
		t.Error("Expected engine not started")
	}
	if len(errorsSeen) != 1 || errorsSeen[0].Code != CodeInvalidConfig {
		t.Errorf("Expected invalid config error event, got %+v", errorsSeen)
	}
}

func TestEngineConfigChanges(t *testing.T) {
	e, _ := newTestEngine(t)
	var changes []event.ConfigChangePayload
	e.On(event.EventConfigChange, func(p any) { changes = append(changes, p.(event.ConfigChangePayload)) })

	if err := e.UpdateConfig(config.Overrides{"bogus": true}); err == nil {
		t.Error("Expected unknown section rejected")
	}
	if err := e.SetDifficulty(config.DifficultyHard); err != nil {
		t.Fatalf("SetDifficulty failed: %v", err)
	}
	if got := e.Config().Rules.DifficultyLevel; got != config.DifficultyHard {
		t.Errorf("Expected hard difficulty, got %s", got)
	}
	if err := e.SetDifficulty("impossible"); !errors.Is(err, config.ErrUnknownDifficulty) {
		t.Errorf("Expected ErrUnknownDifficulty, got %v", err)
	}

	e.SetDebug(true)
	if !e.Config().Debug.Enabled {
		t.Error("Expected debug enabled")
	}
	if len(changes) != 2 || changes[0].Difficulty != string(config.DifficultyHard) || !changes[1].Debug {
		t.Errorf("Unexpected config change events %+v", changes)
	}
}

func TestEngineInputMovesPlayer(t *testing.T) {
	e, _ := newTestEngine(t)
	if err := e.StartGame(); err != nil {
		t.Fatalf("StartGame failed: %v", err)
	}
	start := e.State().Player.Position

	e.Emit(event.EventInputChange, event.InputPayload{Type: core.InputMove, Keyboard: core.Keyboard{Left: true}})

	if got := e.State().Player.Position; got.X >= start.X || got.Y != start.Y {
		t.Errorf("Expected move left from %v, got %v", start, got)
	}
	if reg := e.Registry(); reg.Ints.Get(status.KeyCommands).Load() != 1 {
		t.Errorf("Expected one command counted, got %d", reg.Ints.Get(status.KeyCommands).Load())
	}
}

func TestEngineStatsAndLogs(t *testing.T) {
	var buf bytes.Buffer
	e, frames := newTestEngine(t, WithLogger(log.New(&buf, "", 0)), WithLogLines(8))
	if err := e.StartGame(); err != nil {
		t.Fatalf("StartGame failed: %v", err)
	}
	frames.Step(frameStep)
	frames.Step(frameStep)

	st := e.Stats()
	if st.Frames != 2 || !st.Running || st.Status != core.StatusPlaying {
		t.Errorf("Unexpected stats %+v", st)
	}
	if st.Entities == 0 {
		t.Error("Expected entities counted")
	}
	if got, ok := st.Metrics[status.KeyTicks].(int64); !ok || got != 2 {
		t.Errorf("Expected 2 ticks in metrics, got %v", st.Metrics[status.KeyTicks])
	}
	if got := st.Metrics[status.KeyStatus]; got != "playing" {
		t.Errorf("Expected status metric playing, got %v", got)
	}
	if len(st.Logs) == 0 || len(st.Logs) > 8 {
		t.Errorf("Expected bounded log ring, got %d lines", len(st.Logs))
	}
	if !strings.Contains(buf.String(), "[ENGINE] game started") {
		t.Errorf("Expected logs forwarded, got %q", buf.String())
	}
}

func TestEngineDestroy(t *testing.T) {
	e, frames := newTestEngine(t)
	if err := e.StartGame(); err != nil {
		t.Fatalf("StartGame failed: %v", err)
	}

	e.Destroy()
	e.Destroy()

	if e.Running() || frames.Pending() != 0 {
		t.Error("Expected loop released")
	}
	if err := e.StartGame(); !errors.Is(err, ErrDestroyed) {
		t.Errorf("Expected ErrDestroyed, got %v", err)
	}
	e.Emit(event.EventInputChange, event.InputPayload{Type: core.InputFire, Keyboard: core.Keyboard{Space: true}})
	if n := len(e.State().Bullets); n != 0 {
		t.Errorf("Expected no effect after destroy, got %d bullets", n)
	}
}
