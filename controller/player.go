package controller

import (
	"github.com/lixenwraith/plane-battle/config"
	"github.com/lixenwraith/plane-battle/event"
	"github.com/lixenwraith/plane-battle/state"
	"github.com/lixenwraith/plane-battle/vmath"
)

// Deferred effect names scheduled by Respawn
const (
	EffectRespawnEnd    = "player:respawn-end"
	EffectInvincibleEnd = "player:invincible-end"
)

// PlayerController owns player cooldowns, combo decay, movement and shooting
type PlayerController struct {
	emitter
	ids *state.IDGenerator
}

// NewPlayerController creates a player controller publishing to bus
func NewPlayerController(ids *state.IDGenerator, bus state.Emitter) *PlayerController {
	return &PlayerController{emitter: emitter{bus: bus}, ids: ids}
}

func (pc *PlayerController) Tag() state.Tag {
	return state.TagPlayer
}

// Update decays the shot cooldown and the combo window by dt
func (pc *PlayerController) Update(s *state.GameState, cfg config.GameConfig, dt float64) {
	p := s.Player
	if p == nil {
		return
	}
	ms := dt * 1000

	if p.LastFireTime > 0 {
		p.LastFireTime = max(0, p.LastFireTime-ms)
	}

	if p.Combo.Timer > 0 {
		p.Combo.Timer -= ms
		if p.Combo.Timer <= 0 {
			p.Combo = state.Combo{Multiplier: 1}
		}
	}
}

// Reset is a no-op; all player data lives in state
func (pc *PlayerController) Reset(*state.GameState, config.GameConfig) {}

// Move displaces the player by dir*speed*dt and clamps it fully inside the canvas
// Returns the new position and whether the clamp engaged
func (pc *PlayerController) Move(s *state.GameState, cfg config.GameConfig, dir vmath.Vec2, dt float64) (vmath.Vec2, bool) {
	p := s.Player
	if p == nil {
		return vmath.Vec2{}, false
	}
	if dt < 0 {
		dt = 0
	}

	p.Velocity = dir.Scale(p.Speed)
	next := p.Position.Add(p.Velocity.Scale(dt))
	pos, clamped := vmath.ClampInside(next, p.Size, cfg.Canvas.Width, cfg.Canvas.Height)
	p.Position = pos

	pc.emit(event.EventPlayerMove, event.PlayerMovePayload{Position: pos, Clamped: clamped})
	return pos, clamped
}

// Shoot spawns a player bullet unless the weapon is cooling down
// Returns nil while the cooldown is positive
func (pc *PlayerController) Shoot(s *state.GameState, cfg config.GameConfig) *state.Bullet {
	p := s.Player
	if p == nil || p.LastFireTime > 0 {
		return nil
	}

	b := &state.Bullet{
		Entity: state.Entity{
			ID:       pc.ids.Next(state.CategoryBullet),
			Position: p.Position,
			Velocity: vmath.V(0, -1).Scale(p.Weapons.BulletSpeed),
			Size:     cfg.Weapons.BulletSize,
			Active:   true,
		},
		Damage:         p.Weapons.BulletDamage,
		IsPlayerBullet: true,
	}
	s.Bullets = append(s.Bullets, b)
	p.LastFireTime = config.FireCooldown(p.FireRate)

	pc.emit(event.EventPlayerShoot, event.PlayerShootPayload{BulletID: b.ID, Position: b.Position})
	return b
}

// Respawn restores the player to full health at the respawn position with a grace period
// Respawning and invincibility end through deferred effects on d; pending ones are replaced
func (pc *PlayerController) Respawn(s *state.GameState, cfg config.GameConfig, d *state.Deferred) {
	p := s.Player
	if p == nil {
		return
	}
	p.Health = p.MaxHealth
	p.Position = cfg.Player.RespawnPosition
	p.Velocity = vmath.Vec2{}
	p.Invincible = true
	p.Respawning = true

	d.CancelNamed(EffectRespawnEnd)
	d.CancelNamed(EffectInvincibleEnd)
	d.Schedule(cfg.Player.RespawnDelay, EffectRespawnEnd, func(s *state.GameState) {
		if s.Player != nil {
			s.Player.Respawning = false
		}
	})
	d.Schedule(cfg.Player.InvincibleDuration, EffectInvincibleEnd, func(s *state.GameState) {
		// An active shield keeps the player invincible until it expires
		if s.Player != nil && !s.Player.HasPowerup(config.PowerupShield) {
			s.Player.Invincible = false
		}
	})

	pc.emit(event.EventPlayerRespawn, event.PlayerRespawnPayload{Position: p.Position})
}

// emitter publishes to an optional bus
type emitter struct {
	bus state.Emitter
}

func (e emitter) emit(t event.EventType, payload any) {
	if e.bus != nil {
		e.bus.Emit(t, payload)
	}
}
