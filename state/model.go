package state

import (
	"github.com/lixenwraith/plane-battle/config"
	"github.com/lixenwraith/plane-battle/core"
	"github.com/lixenwraith/plane-battle/vmath"
)

// Entity is the positioned, sized part shared by every simulation object
// Active false marks the entity for removal on the next collection pass
type Entity struct {
	ID       string
	Position vmath.Vec2
	Velocity vmath.Vec2
	Size     vmath.Size
	Active   bool
}

type Enemy struct {
	Entity
	Type       string
	Health     int
	Speed      float64
	Damage     int
	ScoreValue int
	FireRate   float64
	Cooldown   float64 // Remaining shot cooldown in milliseconds
}

type Bullet struct {
	Entity
	Damage         int
	IsPlayerBullet bool
}

type Powerup struct {
	Entity
	Type     string
	Value    float64
	Duration float64
}

type Combo struct {
	Count      int
	Timer      float64 // Remaining window in milliseconds
	Multiplier float64
}

type Weapons struct {
	BulletSpeed  float64
	BulletDamage int
}

type Player struct {
	Entity
	Health       int
	MaxHealth    int
	Lives        int
	Speed        float64
	FireRate     float64
	LastFireTime float64 // Remaining shot cooldown in milliseconds
	Invincible   bool
	Respawning   bool
	Combo        Combo
	Weapons      Weapons
	Powerups     []string // Active timed powerup types
	Rotation     float64
	Scale        vmath.Vec2
}

// HasPowerup reports whether a timed powerup of type t is active
func (p *Player) HasPowerup(t string) bool {
	for _, v := range p.Powerups {
		if v == t {
			return true
		}
	}
	return false
}

// RemovePowerup drops one active entry of type t
func (p *Player) RemovePowerup(t string) {
	for i, v := range p.Powerups {
		if v == t {
			p.Powerups = append(p.Powerups[:i], p.Powerups[i+1:]...)
			return
		}
	}
}

// Performance is diagnostic only; times in milliseconds
type Performance struct {
	FPS        float64
	FrameTime  float64
	UpdateTime float64
	RenderTime float64
}

// GameState is the single mutable snapshot of the simulation
type GameState struct {
	Status         core.Status
	PreviousStatus core.Status
	IsPaused       bool
	IsGameOver     bool
	CurrentLevel   int
	CurrentWave    int
	Score          int
	Time           float64 // Seconds of playing time
	WavePending    bool    // Next wave batch must be spawned

	Player   *Player
	Enemies  []*Enemy
	Bullets  []*Bullet
	Powerups []*Powerup

	Input       core.Input
	Performance Performance
	UI          core.UI
}

// New builds a fresh state from cfg
func New(cfg config.GameConfig, ids *IDGenerator) *GameState {
	return &GameState{
		Status:         core.StatusInit,
		PreviousStatus: core.StatusInit,
		CurrentLevel:   1,
		CurrentWave:    1,
		WavePending:    true,
		Player:         NewPlayer(cfg, ids),
		Enemies:        []*Enemy{},
		Bullets:        []*Bullet{},
		Powerups:       []*Powerup{},
		UI:             core.UIFor(core.StatusInit),
	}
}

// NewPlayer builds a full-health player at the configured start position
func NewPlayer(cfg config.GameConfig, ids *IDGenerator) *Player {
	return &Player{
		Entity: Entity{
			ID:       ids.Next(CategoryPlayer),
			Position: cfg.PlayerStart(),
			Size:     cfg.Player.Size,
			Active:   true,
		},
		Health:    cfg.Player.InitialHealth,
		MaxHealth: cfg.Player.InitialHealth,
		Lives:     cfg.Player.Lives,
		Speed:     cfg.Player.Speed,
		FireRate:  cfg.Player.FireRate,
		Combo:     Combo{Multiplier: 1},
		Weapons: Weapons{
			BulletSpeed:  cfg.Weapons.BulletSpeed,
			BulletDamage: cfg.Weapons.BulletDamage,
		},
		Powerups: []string{},
		Scale:    vmath.V(1, 1),
	}
}

// SetStatus records a status change and refreshes the run flags
// Transition validity is the caller's concern
func (s *GameState) SetStatus(to core.Status) {
	if s.Status != to {
		s.PreviousStatus = s.Status
	}
	flags := core.FlagsFor(to)
	s.Status = flags.Status
	s.IsPaused = flags.IsPaused
	s.IsGameOver = flags.IsGameOver
}

// FindEnemy returns the active enemy with id, nil if absent
func (s *GameState) FindEnemy(id string) *Enemy {
	for _, e := range s.Enemies {
		if e.ID == id && e.Active {
			return e
		}
	}
	return nil
}

// FindBullet returns the active bullet with id, nil if absent
func (s *GameState) FindBullet(id string) *Bullet {
	for _, b := range s.Bullets {
		if b.ID == id && b.Active {
			return b
		}
	}
	return nil
}

// LookupBullet returns the bullet with id whether or not it is still active
func (s *GameState) LookupBullet(id string) *Bullet {
	for _, b := range s.Bullets {
		if b.ID == id {
			return b
		}
	}
	return nil
}

// FindPowerup returns the active powerup with id, nil if absent
func (s *GameState) FindPowerup(id string) *Powerup {
	for _, p := range s.Powerups {
		if p.ID == id && p.Active {
			return p
		}
	}
	return nil
}

// ActiveEnemies counts enemies not yet marked for removal
func (s *GameState) ActiveEnemies() int {
	n := 0
	for _, e := range s.Enemies {
		if e.Active {
			n++
		}
	}
	return n
}

// Collect removes inactive enemies, bullets and powerups, returns the removed count
func (s *GameState) Collect() int {
	var removed int
	s.Enemies, removed = compact(s.Enemies, func(e *Enemy) bool { return e.Active })
	n := removed
	s.Bullets, removed = compact(s.Bullets, func(b *Bullet) bool { return b.Active })
	n += removed
	s.Powerups, removed = compact(s.Powerups, func(p *Powerup) bool { return p.Active })
	return n + removed
}

func compact[T any](items []T, keep func(T) bool) ([]T, int) {
	out := items[:0]
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	removed := len(items) - len(out)
	// Clear the tail so dropped entities can be collected
	var zero T
	for i := len(out); i < len(items); i++ {
		items[i] = zero
	}
	return out, removed
}

// EntityCount returns the number of tracked non-player entities
func (s *GameState) EntityCount() int {
	return len(s.Enemies) + len(s.Bullets) + len(s.Powerups)
}

// Summary is a compact view of the state used by audit logs and events
type Summary struct {
	Status   core.Status
	Score    int
	Level    int
	Wave     int
	Lives    int
	Health   int
	Enemies  int
	Bullets  int
	Powerups int
	Position vmath.Vec2
}

func (s *GameState) Summary() Summary {
	sum := Summary{
		Status:   s.Status,
		Score:    s.Score,
		Level:    s.CurrentLevel,
		Wave:     s.CurrentWave,
		Enemies:  len(s.Enemies),
		Bullets:  len(s.Bullets),
		Powerups: len(s.Powerups),
	}
	if s.Player != nil {
		sum.Lives = s.Player.Lives
		sum.Health = s.Player.Health
		sum.Position = s.Player.Position
	}
	return sum
}
