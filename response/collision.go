package response

import (
	"math"

	"github.com/lixenwraith/plane-battle/config"
	"github.com/lixenwraith/plane-battle/controller"
	"github.com/lixenwraith/plane-battle/core"
	"github.com/lixenwraith/plane-battle/event"
	"github.com/lixenwraith/plane-battle/state"
)

// Scheduler exposes the deferred-effect queue of the state owner
type Scheduler interface {
	Deferred() *state.Deferred
}

// CollisionHandler resolves already-detected collisions
//
// Architecture:
//   - Ignores collisions unless the run is playing
//   - Spent or removed entities are skipped, so a repeated collision event is a no-op
//   - Player death decrements lives and either ends the run or respawns through deferred effects
type CollisionHandler struct {
	emitter
	sched   Scheduler
	player  *controller.PlayerController
	run     *controller.RunController
	powerup *controller.PowerupController
}

func NewCollisionHandler(bus state.Emitter, sched Scheduler, ctrls *controller.Set) *CollisionHandler {
	return &CollisionHandler{
		emitter: emitter{bus: bus},
		sched:   sched,
		player:  ctrls.Player,
		run:     ctrls.Run,
		powerup: ctrls.Powerup,
	}
}

func (h *CollisionHandler) Name() string { return "collision" }

func (h *CollisionHandler) Priority() int { return PriorityCollision }

func (h *CollisionHandler) CanHandle(t event.EventType) bool {
	switch t {
	case event.EventCollisionPlayerEnemy, event.EventCollisionBulletEnemy,
		event.EventCollisionBulletPlayer, event.EventCollisionPlayerPowerup:
		return true
	}
	return false
}

func (h *CollisionHandler) Handle(t event.EventType, payload any, s *state.GameState, cfg config.GameConfig) error {
	if s.Status != core.StatusPlaying || s.Player == nil {
		return nil
	}

	switch t {
	case event.EventCollisionPlayerEnemy:
		p, err := payloadAs[event.PlayerEnemyCollisionPayload](payload)
		if err != nil {
			return err
		}
		h.playerEnemy(s, cfg, p)

	case event.EventCollisionBulletEnemy:
		p, err := payloadAs[event.BulletEnemyCollisionPayload](payload)
		if err != nil {
			return err
		}
		h.bulletEnemy(s, cfg, p)

	case event.EventCollisionBulletPlayer:
		p, err := payloadAs[event.BulletPlayerCollisionPayload](payload)
		if err != nil {
			return err
		}
		h.bulletPlayer(s, cfg, p)

	case event.EventCollisionPlayerPowerup:
		p, err := payloadAs[event.PlayerPowerupCollisionPayload](payload)
		if err != nil {
			return err
		}
		if pu := s.FindPowerup(p.PowerupID); pu != nil {
			h.powerup.Apply(s, cfg, h.sched.Deferred(), pu)
		}
	}
	return nil
}

func (h *CollisionHandler) playerEnemy(s *state.GameState, cfg config.GameConfig, p event.PlayerEnemyCollisionPayload) {
	enemy := s.FindEnemy(p.EnemyID)
	if enemy == nil {
		return
	}
	enemy.Active = false
	h.damagePlayer(s, cfg, enemy.Damage, enemy.ID)
}

func (h *CollisionHandler) bulletEnemy(s *state.GameState, cfg config.GameConfig, p event.BulletEnemyCollisionPayload) {
	enemy := s.FindEnemy(p.EnemyID)
	bullet := s.FindBullet(p.BulletID)
	if enemy == nil || bullet == nil || !bullet.IsPlayerBullet {
		return
	}

	enemy.Health -= bullet.Damage
	bullet.Active = false

	if enemy.Health > 0 {
		h.emit(event.EventEnemyHit, event.EnemyHitPayload{ID: enemy.ID, Damage: bullet.Damage, Health: enemy.Health})
		return
	}

	enemy.Active = false
	s.Score += enemy.ScoreValue
	h.emit(event.EventEnemyDead, event.EnemyDeadPayload{ID: enemy.ID, Score: enemy.ScoreValue})
	h.emit(event.EventScoreChange, event.ScoreChangePayload{Score: s.Score, Delta: enemy.ScoreValue})

	if bonus := h.award(s, cfg, enemy.ScoreValue); bonus != 0 {
		s.Score += bonus
		h.emit(event.EventScoreChange, event.ScoreChangePayload{Score: s.Score, Delta: bonus})
	}
}

func (h *CollisionHandler) bulletPlayer(s *state.GameState, cfg config.GameConfig, p event.BulletPlayerCollisionPayload) {
	if s.Player.Invincible {
		return
	}

	// Payload damage only stands in for bullets the state never held
	damage := p.Damage
	if bullet := s.LookupBullet(p.BulletID); bullet != nil {
		if !bullet.Active || bullet.IsPlayerBullet {
			return
		}
		bullet.Active = false
		damage = bullet.Damage
	}
	h.damagePlayer(s, cfg, damage, p.BulletID)
}

// damagePlayer applies damage and resolves death into respawn or game over
func (h *CollisionHandler) damagePlayer(s *state.GameState, cfg config.GameConfig, damage int, source string) {
	pl := s.Player
	pl.Health -= damage
	h.emit(event.EventPlayerHit, event.PlayerHitPayload{Damage: damage, Source: source, Health: max(pl.Health, 0)})
	if pl.Health > 0 {
		return
	}

	pl.Health = 0
	pl.Lives--
	pl.Combo = state.Combo{Multiplier: 1}
	h.emit(event.EventPlayerDead, event.PlayerDeadPayload{LivesLeft: pl.Lives})

	if pl.Lives <= 0 {
		pl.Lives = 0
		h.run.End(s, controller.ReasonPlayerDied)
		return
	}
	h.player.Respawn(s, cfg, h.sched.Deferred())
}

// award advances the combo for a kill worth base points and returns the bonus on top of base
// The bonus scales base by combo, scoring and difficulty multipliers; easier presets make it negative
func (h *CollisionHandler) award(s *state.GameState, cfg config.GameConfig, base int) int {
	combo := &s.Player.Combo
	scoring := cfg.Rules.Scoring

	if combo.Timer > 0 {
		combo.Count++
	} else {
		combo.Count = 1
	}
	combo.Multiplier = 1 + float64(combo.Count-1)*scoring.Combo.Multiplier
	combo.Timer = scoring.Combo.TimeWindow

	factor := combo.Multiplier * positive(scoring.Multiplier) * positive(cfg.Rules.ScoreMultiplier)
	return int(math.Round(float64(base)*factor)) - base
}

func positive(f float64) float64 {
	if f <= 0 {
		return 1
	}
	return f
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
