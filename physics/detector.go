package physics

import (
	"sync/atomic"

	"github.com/lixenwraith/plane-battle/config"
	"github.com/lixenwraith/plane-battle/core"
	"github.com/lixenwraith/plane-battle/event"
	"github.com/lixenwraith/plane-battle/state"
	"github.com/lixenwraith/plane-battle/vmath"
)

// Bus is the part of the event bus the detector needs
type Bus interface {
	On(t event.EventType, fn event.Handler) event.ListenerID
	Off(t event.EventType, id event.ListenerID) bool
	Emit(t event.EventType, payload any)
}

// Store exposes the state scanned for overlaps
type Store interface {
	State() *state.GameState
	Config() config.GameConfig
}

// Collision is one detected overlap ready to be emitted
type Collision struct {
	Type    event.EventType
	Payload any
}

// Detector is the reference AABB collision source
//
// Architecture:
//   - Runs on every update event after the state pass, only while playing
//   - The player uses the configured hitbox; other entities use their size
//   - Pairs are collected from a consistent snapshot, then emitted in one batch
//   - Each bullet reports at most one hit per pass
//   - Hits against the player are suppressed while invincible
type Detector struct {
	bus      Bus
	store    Store
	sub      event.ListenerID
	attached atomic.Bool
	detected atomic.Int64
}

func NewDetector(bus Bus, store Store) *Detector {
	return &Detector{bus: bus, store: store}
}

// Attach subscribes the detector to update events
// Must be called after the state owner subscribes so positions are current
func (d *Detector) Attach() {
	if d.attached.Swap(true) {
		return
	}
	d.sub = d.bus.On(event.EventUpdate, func(any) { d.Run() })
}

// Detach removes the update subscription
func (d *Detector) Detach() {
	if !d.attached.Swap(false) {
		return
	}
	d.bus.Off(event.EventUpdate, d.sub)
}

// Run detects overlaps in the current state and emits one event per collision
func (d *Detector) Run() int {
	hits := Detect(d.store.State(), d.store.Config())
	for _, c := range hits {
		d.bus.Emit(c.Type, c.Payload)
	}
	d.detected.Add(int64(len(hits)))
	return len(hits)
}

// Detected returns the number of collisions emitted since creation
func (d *Detector) Detected() int64 {
	return d.detected.Load()
}

// Detect returns every collision in s without mutating it
func Detect(s *state.GameState, cfg config.GameConfig) []Collision {
	if s == nil || s.Status != core.StatusPlaying || s.Player == nil {
		return nil
	}

	var out []Collision
	pl := s.Player
	hitbox := cfg.Player.HitboxSize
	if hitbox.Width <= 0 || hitbox.Height <= 0 {
		hitbox = pl.Size
	}
	vulnerable := !pl.Invincible

	for _, b := range s.Bullets {
		if !b.Active {
			continue
		}
		if b.IsPlayerBullet {
			for _, e := range s.Enemies {
				if e.Active && vmath.Overlaps(b.Position, b.Size, e.Position, e.Size) {
					out = append(out, Collision{event.EventCollisionBulletEnemy, event.BulletEnemyCollisionPayload{BulletID: b.ID, EnemyID: e.ID}})
					break
				}
			}
			continue
		}
		if vulnerable && vmath.Overlaps(b.Position, b.Size, pl.Position, hitbox) {
			out = append(out, Collision{event.EventCollisionBulletPlayer, event.BulletPlayerCollisionPayload{BulletID: b.ID, Damage: b.Damage}})
		}
	}

	if vulnerable {
		for _, e := range s.Enemies {
			if e.Active && vmath.Overlaps(e.Position, e.Size, pl.Position, hitbox) {
				out = append(out, Collision{event.EventCollisionPlayerEnemy, event.PlayerEnemyCollisionPayload{EnemyID: e.ID}})
			}
		}
	}

	for _, p := range s.Powerups {
		if p.Active && vmath.Overlaps(p.Position, p.Size, pl.Position, hitbox) {
			out = append(out, Collision{event.EventCollisionPlayerPowerup, event.PlayerPowerupCollisionPayload{PowerupID: p.ID}})
		}
	}
	return out
}
