package controller

import (
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/lixenwraith/plane-battle/config"
	"github.com/lixenwraith/plane-battle/event"
	"github.com/lixenwraith/plane-battle/state"
	"github.com/lixenwraith/plane-battle/vmath"
)

const (
	powerupDriftSpeed = 60.0
	powerupSide       = 20.0
)

// PowerupEffectName is the deferred-effect name reverting a timed powerup of type t
func PowerupEffectName(t string) string {
	return "powerup:" + t
}

// ConfigSource yields the config in effect now
type ConfigSource interface {
	Config() config.GameConfig
}

// PowerupController spawns and drifts pickups and applies their effects to the player
type PowerupController struct {
	emitter
	ids     *state.IDGenerator
	rng     *rand.Rand
	configs ConfigSource // nil reverts to the config passed to Apply
}

// NewPowerupController creates a powerup controller; a nil rng is seeded from the clock
func NewPowerupController(ids *state.IDGenerator, bus state.Emitter, rng *rand.Rand) *PowerupController {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &PowerupController{emitter: emitter{bus: bus}, ids: ids, rng: rng}
}

func (pc *PowerupController) Tag() state.Tag {
	return state.TagPowerup
}

// UseConfigSource makes timed reversions read the config current at expiry
func (pc *PowerupController) UseConfigSource(src ConfigSource) {
	pc.configs = src
}

// Update rolls a spawn with probability frequency*dt, then drifts and culls pickups
func (pc *PowerupController) Update(s *state.GameState, cfg config.GameConfig, dt float64) {
	spawn := cfg.Powerups.Spawn
	if spawn.Frequency > 0 && dt > 0 && pc.activeCount(s) < spawn.MaxCount {
		if pc.rng.Float64() < spawn.Frequency*dt {
			if t, ok := pc.chooseType(spawn.Probability); ok {
				x := powerupSide/2 + pc.rng.Float64()*math.Max(0, cfg.Canvas.Width-powerupSide)
				pc.Spawn(s, cfg, t, vmath.V(x, -powerupSide/2))
			}
		}
	}

	for _, p := range s.Powerups {
		if !p.Active {
			continue
		}
		p.Position = p.Position.Add(p.Velocity.Scale(dt))
		if p.Position.Y-p.Size.Height/2 > cfg.Canvas.Height {
			p.Active = false
		}
	}
}

// Spawn adds a pickup of type t at pos; unknown types return nil
func (pc *PowerupController) Spawn(s *state.GameState, cfg config.GameConfig, t string, pos vmath.Vec2) *state.Powerup {
	pt, ok := cfg.Powerups.Types[t]
	if !ok {
		return nil
	}
	value := pt.Value
	if value == 0 {
		value = pt.Multiplier
	}

	p := &state.Powerup{
		Entity: state.Entity{
			ID:       pc.ids.Next(state.CategoryPowerup),
			Position: pos,
			Velocity: vmath.V(0, powerupDriftSpeed),
			Size:     vmath.Size{Width: powerupSide, Height: powerupSide},
			Active:   true,
		},
		Type:     t,
		Value:    value,
		Duration: pt.Duration,
	}
	s.Powerups = append(s.Powerups, p)

	pc.emit(event.EventPowerupSpawn, event.PowerupSpawnPayload{ID: p.ID, Type: t, Position: pos})
	return p
}

// Apply consumes pickup p and applies its effect to the player
// Timed effects schedule their reversion on d; picking up an active type restarts its timer
func (pc *PowerupController) Apply(s *state.GameState, cfg config.GameConfig, d *state.Deferred, p *state.Powerup) {
	pl := s.Player
	if pl == nil || p == nil || !p.Active {
		return
	}
	p.Active = false
	name := PowerupEffectName(p.Type)

	switch p.Type {
	case config.PowerupHealth:
		pl.Health = min(pl.MaxHealth, pl.Health+int(p.Value))

	case config.PowerupSpeed, config.PowerupFireRate, config.PowerupDamage, config.PowerupShield:
		if pl.HasPowerup(p.Type) {
			d.CancelNamed(name)
		} else {
			applyTimed(pl, p)
			pl.Powerups = append(pl.Powerups, p.Type)
		}
		if p.Duration > 0 {
			kind := p.Type
			d.Schedule(p.Duration, name, func(s *state.GameState) {
				revertTimed(s, pc.current(cfg), d, kind)
			})
		}

	default:
		return
	}

	pc.emit(event.EventPlayerPowerup, event.PlayerPowerupPayload{Type: p.Type, Value: p.Value, Duration: p.Duration})
}

// applyTimed multiplies the player attribute governed by a timed powerup
func applyTimed(pl *state.Player, p *state.Powerup) {
	switch p.Type {
	case config.PowerupSpeed:
		pl.Speed *= p.Value
	case config.PowerupFireRate:
		pl.FireRate *= p.Value
	case config.PowerupDamage:
		pl.Weapons.BulletDamage = int(math.Round(float64(pl.Weapons.BulletDamage) * p.Value))
	case config.PowerupShield:
		pl.Invincible = true
	}
}

// revertTimed restores the configured attribute once a timed powerup expires
// Shield expiry keeps invincibility while a respawn grace period is still pending
func revertTimed(s *state.GameState, cfg config.GameConfig, d *state.Deferred, kind string) {
	pl := s.Player
	if pl == nil {
		return
	}
	switch kind {
	case config.PowerupSpeed:
		pl.Speed = cfg.Player.Speed
	case config.PowerupFireRate:
		pl.FireRate = cfg.Player.FireRate
	case config.PowerupDamage:
		pl.Weapons.BulletDamage = cfg.Weapons.BulletDamage
	case config.PowerupShield:
		if !d.PendingNamed(EffectInvincibleEnd) {
			pl.Invincible = false
		}
	}
	pl.RemovePowerup(kind)
}

func (pc *PowerupController) current(fallback config.GameConfig) config.GameConfig {
	if pc.configs == nil {
		return fallback
	}
	return pc.configs.Config()
}

func (pc *PowerupController) activeCount(s *state.GameState) int {
	n := 0
	for _, p := range s.Powerups {
		if p.Active {
			n++
		}
	}
	return n
}

// chooseType picks a powerup type weighted by probability over sorted names
func (pc *PowerupController) chooseType(probability map[string]float64) (string, bool) {
	names := make([]string, 0, len(probability))
	total := 0.0
	for name, w := range probability {
		if w > 0 {
			names = append(names, name)
			total += w
		}
	}
	if len(names) == 0 {
		return "", false
	}
	sort.Strings(names)

	roll := pc.rng.Float64() * total
	for _, name := range names {
		roll -= probability[name]
		if roll < 0 {
			return name, true
		}
	}
	return names[len(names)-1], true
}
