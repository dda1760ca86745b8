package response

import (
	"bytes"
	"errors"
	"log"
	"math"
	"math/rand"
	"reflect"
	"strings"
	"testing"

	"github.com/lixenwraith/plane-battle/command"
	"github.com/lixenwraith/plane-battle/config"
	"github.com/lixenwraith/plane-battle/controller"
	"github.com/lixenwraith/plane-battle/core"
	"github.com/lixenwraith/plane-battle/event"
	"github.com/lixenwraith/plane-battle/state"
	"github.com/lixenwraith/plane-battle/status"
	"github.com/lixenwraith/plane-battle/vmath"
)

type fixture struct {
	bus    *event.Bus
	c      *state.Container
	mgr    *Manager
	events map[event.EventType][]any
}

// newFixture wires the bus, container, controllers, pipeline and all four handlers
func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg, err := config.Merge()
	if err != nil {
		t.Fatalf("config.Merge failed: %v", err)
	}
	bus := event.NewBus(nil)
	c := state.NewContainer(cfg, bus)
	ctrls, err := controller.NewSet(c, bus, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("controller.NewSet failed: %v", err)
	}
	p := command.NewPipeline(nil)
	if err := command.RegisterDefaults(p, c, ctrls); err != nil {
		t.Fatalf("RegisterDefaults failed: %v", err)
	}

	mgr := NewManager(bus, c, nil, nil)
	mgr.Register(NewInputHandler(p, bus, nil))
	mgr.Register(NewCollisionHandler(bus, c, ctrls))
	mgr.Register(NewRunStateHandler(bus))
	mgr.Register(NewUIStateHandler(bus))

	f := &fixture{bus: bus, c: c, mgr: mgr, events: make(map[event.EventType][]any)}
	for _, et := range event.AllTypes() {
		bus.On(et, func(payload any) { f.events[et] = append(f.events[et], payload) })
	}
	return f
}

func (f *fixture) playing() *state.GameState {
	s := f.c.State()
	s.SetStatus(core.StatusPlaying)
	return s
}

func (f *fixture) last(t event.EventType) any {
	ps := f.events[t]
	if len(ps) == 0 {
		return nil
	}
	return ps[len(ps)-1]
}

func addEnemy(s *state.GameState, id string, health, score int) *state.Enemy {
	e := &state.Enemy{
		Entity:     state.Entity{ID: id, Position: vmath.V(400, 100), Size: vmath.Size{Width: 32, Height: 32}, Active: true},
		Type:       "basic",
		Health:     health,
		Damage:     20,
		ScoreValue: score,
	}
	s.Enemies = append(s.Enemies, e)
	return e
}

func addBullet(s *state.GameState, id string, damage int, fromPlayer bool) *state.Bullet {
	b := &state.Bullet{
		Entity:         state.Entity{ID: id, Size: vmath.Size{Width: 8, Height: 8}, Active: true},
		Damage:         damage,
		IsPlayerBullet: fromPlayer,
	}
	s.Bullets = append(s.Bullets, b)
	return b
}

// fakeHandler records its invocation into a shared log
type fakeHandler struct {
	name     string
	priority int
	err      error
	panics   bool
	calls    *[]string
}

func (h fakeHandler) Name() string                     { return h.name }
func (h fakeHandler) Priority() int                    { return h.priority }
func (h fakeHandler) CanHandle(t event.EventType) bool { return t == event.EventScoreChange }

func (h fakeHandler) Handle(event.EventType, any, *state.GameState, config.GameConfig) error {
	*h.calls = append(*h.calls, h.name)
	if h.panics {
		panic("boom")
	}
	return h.err
}

type staticStore struct {
	s   *state.GameState
	cfg config.GameConfig
}

func (st staticStore) State() *state.GameState   { return st.s }
func (st staticStore) Config() config.GameConfig { return st.cfg }

func TestManagerPriorityAndIsolation(t *testing.T) {
	bus := event.NewBus(nil)
	var buf bytes.Buffer
	reg := status.NewRegistry()
	mgr := NewManager(bus, staticStore{s: &state.GameState{}}, log.New(&buf, "", 0), reg)

	var calls []string
	mgr.Register(fakeHandler{name: "late", priority: 3, calls: &calls})
	mgr.Register(fakeHandler{name: "first", priority: 0, err: errors.New("refused"), calls: &calls})
	mgr.Register(fakeHandler{name: "tie-a", priority: 1, panics: true, calls: &calls})
	mgr.Register(fakeHandler{name: "tie-b", priority: 1, calls: &calls})

	if n := bus.ListenerCount(event.EventScoreChange); n != 1 {
		t.Fatalf("Expected one bus subscription, got %d", n)
	}

	bus.Emit(event.EventScoreChange, event.ScoreChangePayload{Score: 10, Delta: 10})

	want := []string{"first", "tie-a", "tie-b", "late"}
	if !reflect.DeepEqual(calls, want) {
		t.Errorf("Expected %v, got %v", want, calls)
	}
	if mgr.Failures() != 2 || reg.Ints.Get(status.KeyHandlerFailures).Load() != 2 {
		t.Errorf("Expected 2 failures, got %d", mgr.Failures())
	}
	if !strings.Contains(buf.String(), "[RESPONSE] first") || !strings.Contains(buf.String(), "panic: boom") {
		t.Errorf("Expected failures logged, got %q", buf.String())
	}

	if !mgr.Remove("late") || mgr.Remove("late") {
		t.Error("Expected remove to succeed exactly once")
	}
	mgr.Detach()
	calls = nil
	bus.Emit(event.EventScoreChange, nil)
	if len(calls) != 0 {
		t.Errorf("Expected no dispatch after detach, got %v", calls)
	}
}

func TestBulletKillsPlayerOnLastLife(t *testing.T) {
	f := newFixture(t)
	s := f.playing()
	s.Score = 250
	s.Player.Lives = 1
	s.Player.Health = 10
	addBullet(s, "bullet_hostile", 10, false)

	f.bus.Emit(event.EventCollisionBulletPlayer, event.BulletPlayerCollisionPayload{BulletID: "bullet_hostile"})

	if s.Status != core.StatusGameOver || !s.IsGameOver {
		t.Fatalf("Expected game over, got %s", s.Status)
	}
	over, ok := f.last(event.EventGameOver).(event.GameOverPayload)
	if !ok {
		t.Fatal("Expected game over event")
	}
	if over.Score != 250 || over.Reason != controller.ReasonPlayerDied {
		t.Errorf("Unexpected game over payload %+v", over)
	}
	if s.UI.CurrentScreen != core.ScreenGameOver {
		t.Errorf("Expected game over screen, got %s", s.UI.CurrentScreen)
	}
	if s.Player.Lives != 0 || s.Player.Health != 0 {
		t.Errorf("Expected lives=0 health=0, got %d %d", s.Player.Lives, s.Player.Health)
	}
}

func TestDeathWithLivesLeftRespawns(t *testing.T) {
	f := newFixture(t)
	s := f.playing()
	cfg := f.c.Config()
	s.Player.Lives = 3
	s.Player.Health = 5
	s.Player.Position = vmath.V(10, 10)

	f.bus.Emit(event.EventCollisionBulletPlayer, event.BulletPlayerCollisionPayload{BulletID: "untracked", Damage: 10})

	pl := s.Player
	if s.Status != core.StatusPlaying {
		t.Fatalf("Expected playing, got %s", s.Status)
	}
	if pl.Lives != 2 || pl.Health != pl.MaxHealth {
		t.Errorf("Expected lives=2 full health, got %d %d", pl.Lives, pl.Health)
	}
	if !pl.Invincible || !pl.Respawning || pl.Position != cfg.Player.RespawnPosition {
		t.Errorf("Expected invincible respawn at %v, got %+v", cfg.Player.RespawnPosition, pl)
	}
	if len(f.events[event.EventPlayerDead]) != 1 || len(f.events[event.EventPlayerRespawn]) != 1 {
		t.Error("Expected dead and respawn events")
	}

	// Grace period runs on playing time
	s.WavePending = false
	f.c.Update(cfg.Player.RespawnDelay / 1000)
	if pl.Respawning {
		t.Error("Expected respawning cleared after respawn delay")
	}
	f.c.Update((cfg.Player.InvincibleDuration - cfg.Player.RespawnDelay) / 1000)
	if pl.Invincible {
		t.Error("Expected invincibility cleared after its duration")
	}
}

func TestSpentBulletHitsOnce(t *testing.T) {
	f := newFixture(t)
	s := f.playing()
	health := s.Player.Health
	addBullet(s, "bullet_x", 10, false)

	for range 2 {
		f.bus.Emit(event.EventCollisionBulletPlayer, event.BulletPlayerCollisionPayload{BulletID: "bullet_x", Damage: 10})
	}

	if s.Player.Health != health-10 {
		t.Errorf("Expected health %d after one hit, got %d", health-10, s.Player.Health)
	}
	if n := len(f.events[event.EventPlayerHit]); n != 1 {
		t.Errorf("Expected 1 hit event, got %d", n)
	}
}

func TestInvinciblePlayerIgnoresBullets(t *testing.T) {
	f := newFixture(t)
	s := f.playing()
	s.Player.Invincible = true
	health := s.Player.Health
	b := addBullet(s, "bullet_hostile", 50, false)

	f.bus.Emit(event.EventCollisionBulletPlayer, event.BulletPlayerCollisionPayload{BulletID: b.ID})

	if s.Player.Health != health || !b.Active {
		t.Errorf("Expected no effect while invincible, health=%d bullet active=%v", s.Player.Health, b.Active)
	}
	if len(f.events[event.EventPlayerHit]) != 0 {
		t.Error("Expected no hit event")
	}
}

func TestBulletKillsEnemy(t *testing.T) {
	f := newFixture(t)
	s := f.playing()
	e := addEnemy(s, "enemy_1", 10, 100)
	b := addBullet(s, "bullet_1", 10, true)

	f.bus.Emit(event.EventCollisionBulletEnemy, event.BulletEnemyCollisionPayload{BulletID: b.ID, EnemyID: e.ID})

	if s.FindEnemy(e.ID) != nil || b.Active {
		t.Error("Expected enemy and bullet removed")
	}
	if s.Score != 100 {
		t.Errorf("Expected score 100, got %d", s.Score)
	}
	dead, ok := f.last(event.EventEnemyDead).(event.EnemyDeadPayload)
	if !ok || dead.ID != e.ID || dead.Score != 100 {
		t.Errorf("Unexpected enemy dead payload %+v", dead)
	}
	if sc, ok := f.last(event.EventScoreChange).(event.ScoreChangePayload); !ok || sc.Score != 100 || sc.Delta != 100 {
		t.Errorf("Unexpected score change %+v", sc)
	}

	// Replayed collision finds nothing active
	f.bus.Emit(event.EventCollisionBulletEnemy, event.BulletEnemyCollisionPayload{BulletID: b.ID, EnemyID: e.ID})
	if s.Score != 100 {
		t.Errorf("Expected replay ignored, got score %d", s.Score)
	}
}

func TestBulletDamagesEnemy(t *testing.T) {
	f := newFixture(t)
	s := f.playing()
	e := addEnemy(s, "enemy_1", 30, 100)
	addBullet(s, "bullet_1", 10, true)
	addBullet(s, "bullet_hostile", 10, false)

	f.bus.Emit(event.EventCollisionBulletEnemy, event.BulletEnemyCollisionPayload{BulletID: "bullet_hostile", EnemyID: e.ID})
	if e.Health != 30 {
		t.Errorf("Expected hostile bullet ignored, got health %d", e.Health)
	}

	f.bus.Emit(event.EventCollisionBulletEnemy, event.BulletEnemyCollisionPayload{BulletID: "bullet_1", EnemyID: e.ID})
	hit, ok := f.last(event.EventEnemyHit).(event.EnemyHitPayload)
	if !ok || hit.Health != 20 || !e.Active {
		t.Errorf("Expected surviving enemy at 20, got %+v", hit)
	}
	if s.Score != 0 {
		t.Errorf("Expected no score for a hit, got %d", s.Score)
	}
}

func TestComboBonus(t *testing.T) {
	f := newFixture(t)
	s := f.playing()

	tests := []struct {
		name  string
		bonus int
		count int
		total int
	}{
		{"first kill", 0, 1, 100},
		{"second kill in window", 10, 2, 210},
		{"third kill in window", 20, 3, 330},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := string(rune('a' + i))
			addEnemy(s, "enemy_"+id, 1, 100)
			addBullet(s, "bullet_"+id, 10, true)
			before := len(f.events[event.EventScoreChange])
			f.bus.Emit(event.EventCollisionBulletEnemy, event.BulletEnemyCollisionPayload{BulletID: "bullet_" + id, EnemyID: "enemy_" + id})

			dead, _ := f.last(event.EventEnemyDead).(event.EnemyDeadPayload)
			if dead.Score != 100 {
				t.Errorf("Expected enemy dead score 100, got %d", dead.Score)
			}
			changes := f.events[event.EventScoreChange][before:]
			base, _ := changes[0].(event.ScoreChangePayload)
			if base.Delta != 100 {
				t.Errorf("Expected base delta 100, got %d", base.Delta)
			}
			bonus := 0
			if len(changes) > 1 {
				bonus = changes[1].(event.ScoreChangePayload).Delta
			}
			if bonus != tt.bonus {
				t.Errorf("Expected bonus %d, got %d", tt.bonus, bonus)
			}
			if s.Score != tt.total {
				t.Errorf("Expected score %d, got %d", tt.total, s.Score)
			}
			if s.Player.Combo.Count != tt.count {
				t.Errorf("Expected combo count %d, got %d", tt.count, s.Player.Combo.Count)
			}
		})
	}
}

func TestDifficultyBonus(t *testing.T) {
	tests := []struct {
		name  string
		level config.Difficulty
		bonus int
	}{
		{"hard", config.DifficultyHard, 20},
		{"easy", config.DifficultyEasy, -20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			cfg, err := config.ApplyDifficulty(f.c.Config(), tt.level)
			if err != nil {
				t.Fatalf("ApplyDifficulty failed: %v", err)
			}
			f.c.SetConfig(cfg)
			s := f.playing()
			addEnemy(s, "enemy_1", 1, 100)
			addBullet(s, "bullet_1", 10, true)

			f.bus.Emit(event.EventCollisionBulletEnemy, event.BulletEnemyCollisionPayload{BulletID: "bullet_1", EnemyID: "enemy_1"})

			dead, _ := f.last(event.EventEnemyDead).(event.EnemyDeadPayload)
			if dead.Score != 100 {
				t.Errorf("Expected enemy dead score 100, got %d", dead.Score)
			}
			changes := f.events[event.EventScoreChange]
			if len(changes) != 2 {
				t.Fatalf("Expected base and bonus score changes, got %d", len(changes))
			}
			if sc := changes[1].(event.ScoreChangePayload); sc.Delta != tt.bonus || sc.Score != 100+tt.bonus {
				t.Errorf("Expected bonus %d, got %+v", tt.bonus, sc)
			}
			if s.Score != 100+tt.bonus {
				t.Errorf("Expected score %d, got %d", 100+tt.bonus, s.Score)
			}
		})
	}
}

func TestPlayerEnemyContact(t *testing.T) {
	f := newFixture(t)
	s := f.playing()
	e := addEnemy(s, "enemy_1", 50, 100)
	health := s.Player.Health

	f.bus.Emit(event.EventCollisionPlayerEnemy, event.PlayerEnemyCollisionPayload{EnemyID: e.ID})

	if e.Active {
		t.Error("Expected enemy removed on contact")
	}
	if s.Player.Health != health-e.Damage {
		t.Errorf("Expected health %d, got %d", health-e.Damage, s.Player.Health)
	}
	if s.Score != 0 {
		t.Errorf("Expected contact to award nothing, got %d", s.Score)
	}
}

func TestPowerupPickup(t *testing.T) {
	f := newFixture(t)
	s := f.playing()
	s.Player.Health = 50
	p := &state.Powerup{
		Entity: state.Entity{ID: "powerup_1", Active: true},
		Type:   config.PowerupHealth,
		Value:  20,
	}
	s.Powerups = append(s.Powerups, p)

	f.bus.Emit(event.EventCollisionPlayerPowerup, event.PlayerPowerupCollisionPayload{PowerupID: p.ID})

	if s.Player.Health != 70 || p.Active {
		t.Errorf("Expected health 70 and powerup consumed, got %d active=%v", s.Player.Health, p.Active)
	}
	if len(f.events[event.EventPlayerPowerup]) != 1 {
		t.Error("Expected powerup event")
	}
}

func TestCollisionsIgnoredUnlessPlaying(t *testing.T) {
	f := newFixture(t)
	s := f.c.State()
	e := addEnemy(s, "enemy_1", 10, 100)
	addBullet(s, "bullet_1", 10, true)

	f.bus.Emit(event.EventCollisionBulletEnemy, event.BulletEnemyCollisionPayload{BulletID: "bullet_1", EnemyID: e.ID})

	if !e.Active || s.Score != 0 {
		t.Error("Expected collision ignored in init")
	}
}

func TestCollisionBadPayloadCounted(t *testing.T) {
	f := newFixture(t)
	f.playing()

	f.bus.Emit(event.EventCollisionBulletEnemy, "not a payload")

	if f.mgr.Failures() != 1 {
		t.Errorf("Expected 1 failure, got %d", f.mgr.Failures())
	}
}

func TestInputIssuesCommands(t *testing.T) {
	f := newFixture(t)
	s := f.playing()
	start := s.Player.Position

	f.bus.Emit(event.EventInputChange, event.InputPayload{Type: core.InputMove, Keyboard: core.Keyboard{Right: true, Up: true}})

	step := s.Player.Speed * InputStep
	if math.Abs(s.Player.Position.X-(start.X+step)) > 1e-9 || math.Abs(s.Player.Position.Y-(start.Y-step)) > 1e-9 {
		t.Errorf("Expected move by %v, got %v from %v", step, s.Player.Position, start)
	}
	if !s.Input.Keyboard.Right || s.Input.Type != core.InputMove {
		t.Errorf("Expected input recorded, got %+v", s.Input)
	}

	f.bus.Emit(event.EventInputChange, event.InputPayload{Type: core.InputFire, Keyboard: core.Keyboard{Space: true}})
	if len(s.Bullets) != 1 {
		t.Errorf("Expected 1 bullet, got %d", len(s.Bullets))
	}
	// Fire release does not shoot
	f.bus.Emit(event.EventInputChange, event.InputPayload{Type: core.InputFire})
	if len(f.events[event.EventPlayerShoot]) != 1 {
		t.Errorf("Expected 1 shot, got %d", len(f.events[event.EventPlayerShoot]))
	}
}

func TestInputAnalogFallback(t *testing.T) {
	tests := []struct {
		name string
		in   event.InputPayload
		want vmath.Vec2
	}{
		{"keys", event.InputPayload{Keyboard: core.Keyboard{Left: true, Down: true}}, vmath.V(-1, 1)},
		{"analog", event.InputPayload{Data: core.InputData{X: 0.5, Y: -0.25}}, vmath.V(0.5, -0.25)},
		{"keys win", event.InputPayload{Data: core.InputData{X: 1}, Keyboard: core.Keyboard{Up: true}}, vmath.V(0, -1)},
		{"opposing keys cancel", event.InputPayload{Keyboard: core.Keyboard{Left: true, Right: true}}, vmath.V(0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MoveDirection(tt.in); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestInputPauseToggle(t *testing.T) {
	f := newFixture(t)
	s := f.playing()
	pause := event.InputPayload{Type: core.InputPause}

	f.bus.Emit(event.EventInputChange, pause)
	if s.Status != core.StatusPaused || s.UI.CurrentScreen != core.ScreenPause {
		t.Fatalf("Expected paused, got %s %s", s.Status, s.UI.CurrentScreen)
	}
	f.bus.Emit(event.EventInputChange, pause)
	if s.Status != core.StatusPlaying || s.UI.CurrentScreen != core.ScreenGame {
		t.Errorf("Expected playing, got %s %s", s.Status, s.UI.CurrentScreen)
	}
}

func TestInputCommandFailureReported(t *testing.T) {
	f := newFixture(t)
	s := f.c.State()
	start := s.Player.Position

	f.bus.Emit(event.EventInputChange, event.InputPayload{Type: core.InputMove, Keyboard: core.Keyboard{Left: true}})

	if s.Player.Position != start {
		t.Error("Expected move rejected outside playing")
	}
	ep, ok := f.last(event.EventError).(event.ErrorPayload)
	if !ok || ep.Code != string(command.CodeRejected) {
		t.Errorf("Expected rejected error event, got %+v", ep)
	}
	if f.mgr.Failures() != 0 {
		t.Errorf("Expected command failure not counted as handler failure, got %d", f.mgr.Failures())
	}
}

func TestRunStateFlags(t *testing.T) {
	tests := []struct {
		name   string
		from   core.Status
		et     event.EventType
		status core.Status
	}{
		{"start", core.StatusInit, event.EventGameStart, core.StatusPlaying},
		{"pause", core.StatusPlaying, event.EventGamePause, core.StatusPaused},
		{"resume", core.StatusPaused, event.EventGameResume, core.StatusPlaying},
		{"over", core.StatusPlaying, event.EventGameOver, core.StatusGameOver},
		{"reset", core.StatusGameOver, event.EventGameReset, core.StatusInit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			s := f.c.State()
			s.SetStatus(tt.from)

			f.bus.Emit(tt.et, nil)

			want := core.FlagsFor(tt.status)
			got := core.RunFlags{Status: s.Status, IsPaused: s.IsPaused, IsGameOver: s.IsGameOver}
			if got != want {
				t.Errorf("Expected %+v, got %+v", want, got)
			}
			rc, ok := f.last(event.EventRunStateChange).(event.RunStateChangePayload)
			if !ok || rc.Flags != want {
				t.Errorf("Expected run state change %+v, got %+v", want, rc)
			}
			if s.UI != core.UIFor(tt.status) {
				t.Errorf("Expected UI for %s, got %+v", tt.status, s.UI)
			}
		})
	}
}

func TestUIStateChangeOnlyWhenChanged(t *testing.T) {
	f := newFixture(t)
	s := f.c.State()

	tests := []struct {
		name    string
		status  core.Status
		changed bool
	}{
		{"init keeps menu", core.StatusInit, false},
		{"menu shares init layout", core.StatusMenu, false},
		{"playing", core.StatusPlaying, true},
		{"paused", core.StatusPaused, true},
		{"game over", core.StatusGameOver, true},
	}
	h := NewUIStateHandler(f.bus)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := len(f.events[event.EventUIStateChange])
			s.SetStatus(tt.status)
			if err := h.Handle(event.EventGameStart, nil, s, f.c.Config()); err != nil {
				t.Fatalf("Handle failed: %v", err)
			}
			changed := len(f.events[event.EventUIStateChange]) > before
			if changed != tt.changed {
				t.Errorf("Expected changed=%v, got %v", tt.changed, changed)
			}
			if s.UI != core.UIFor(tt.status) {
				t.Errorf("Expected UI for %s, got %+v", tt.status, s.UI)
			}
		})
	}
}
