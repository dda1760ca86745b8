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

// Enemy movement patterns
const (
	PatternStraight = ""
	PatternZigzag   = "zigzag"
)

// Wave formations
const (
	FormationLine      = "line"
	FormationV         = "v"
	FormationScattered = ""
)

// zigzagFrequency is the horizontal oscillation rate in radians per second
const zigzagFrequency = 3.0

// EnemyController spawns wave batches, moves enemies and fires enemy bullets
//
// Architecture:
//   - A batch spawns only while GameState.WavePending is set; the run controller raises it
//   - Enemies enter above the canvas and are culled once they leave below or sideways
//   - Level scaling compounds DifficultyIncrease per level above the first
type EnemyController struct {
	emitter
	ids *state.IDGenerator
	rng *rand.Rand
}

// NewEnemyController creates an enemy controller; a nil rng is seeded from the clock
func NewEnemyController(ids *state.IDGenerator, bus state.Emitter, rng *rand.Rand) *EnemyController {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &EnemyController{emitter: emitter{bus: bus}, ids: ids, rng: rng}
}

func (ec *EnemyController) Tag() state.Tag {
	return state.TagEnemy
}

func (ec *EnemyController) Update(s *state.GameState, cfg config.GameConfig, dt float64) {
	if s.WavePending {
		if ec.spawnWave(s, cfg) > 0 {
			s.WavePending = false
		}
	}

	w, h := cfg.Canvas.Width, cfg.Canvas.Height
	for _, e := range s.Enemies {
		if !e.Active {
			continue
		}

		if cfg.Enemies.Types[e.Type].Pattern == PatternZigzag {
			e.Velocity.X = e.Speed * 0.5 * math.Sin(s.Time*zigzagFrequency)
		}
		e.Position = e.Position.Add(e.Velocity.Scale(dt))

		half := e.Size.Half()
		if e.Position.Y-half.Y > h || e.Position.X+half.X < 0 || e.Position.X-half.X > w {
			e.Active = false
			continue
		}

		ec.fire(s, cfg, e, dt)
	}
}

// Reset is a no-op; wave progress lives in state
func (ec *EnemyController) Reset(*state.GameState, config.GameConfig) {}

// Spawn adds one enemy of type name at pos scaled for the current level
// Returns nil for an unknown type
func (ec *EnemyController) Spawn(s *state.GameState, cfg config.GameConfig, name string, pos vmath.Vec2) *state.Enemy {
	et, ok := cfg.Enemies.Types[name]
	if !ok {
		return nil
	}

	inc := cfg.Rules.Progression.DifficultyIncrease
	steps := float64(s.CurrentLevel - 1)
	health := int(math.Ceil(float64(et.Health) * levelScale(inc.EnemyHealth, steps)))
	speed := et.Speed * levelScale(inc.EnemySpeed, steps)

	e := &state.Enemy{
		Entity: state.Entity{
			ID:       ec.ids.Next(state.CategoryEnemy),
			Position: pos,
			Velocity: vmath.V(0, speed),
			Size:     et.Size,
			Active:   true,
		},
		Type:       name,
		Health:     health,
		Speed:      speed,
		Damage:     et.Damage,
		ScoreValue: et.Score,
		FireRate:   et.FireRate,
		Cooldown:   config.FireCooldown(et.FireRate),
	}
	s.Enemies = append(s.Enemies, e)

	ec.emit(event.EventEnemySpawn, event.EnemySpawnPayload{ID: e.ID, Type: name, Position: pos})
	return e
}

// spawnWave places one batch from a weighted pattern choice, returns the number spawned
func (ec *EnemyController) spawnWave(s *state.GameState, cfg config.GameConfig) int {
	_, pattern, ok := ec.choosePattern(cfg.Enemies.Spawn.Patterns)
	if !ok || len(pattern.EnemyTypes) == 0 {
		return 0
	}

	count := WaveSize(pattern, cfg, s.CurrentLevel)
	if limit := cfg.Enemies.Spawn.MaxCount; limit > 0 {
		count = min(count, limit-s.ActiveEnemies())
	}
	if count <= 0 {
		return 0
	}

	spawned := 0
	for i := 0; i < count; i++ {
		typeName := pattern.EnemyTypes[i%len(pattern.EnemyTypes)]
		et, ok := cfg.Enemies.Types[typeName]
		if !ok {
			continue
		}
		pos := ec.formationSlot(pattern.Formation, i, count, et, cfg)
		if ec.Spawn(s, cfg, typeName, pos) != nil {
			spawned++
		}
	}
	return spawned
}

// WaveSize returns the batch size of pattern at level, never below one
func WaveSize(pattern config.SpawnPattern, cfg config.GameConfig, level int) int {
	rate := cfg.Rules.EnemySpawnRate
	if rate <= 0 {
		rate = 1
	}
	scaled := float64(max(pattern.Count, 1)) * rate *
		levelScale(cfg.Rules.Progression.DifficultyIncrease.SpawnRate, float64(level-1))
	return max(1, int(math.Round(scaled)))
}

// choosePattern picks a pattern weighted by Frequency; names are sorted so a seeded rng is reproducible
func (ec *EnemyController) choosePattern(patterns map[string]config.SpawnPattern) (string, config.SpawnPattern, bool) {
	if len(patterns) == 0 {
		return "", config.SpawnPattern{}, false
	}
	names := make([]string, 0, len(patterns))
	total := 0.0
	for name, p := range patterns {
		if p.Frequency > 0 {
			names = append(names, name)
			total += p.Frequency
		}
	}
	if len(names) == 0 {
		return "", config.SpawnPattern{}, false
	}
	sort.Strings(names)

	roll := ec.rng.Float64() * total
	for _, name := range names {
		roll -= patterns[name].Frequency
		if roll < 0 {
			return name, patterns[name], true
		}
	}
	last := names[len(names)-1]
	return last, patterns[last], true
}

// formationSlot returns the entry position of the i-th enemy of a count-sized batch
// Every slot lies above the canvas so enemies fly in
func (ec *EnemyController) formationSlot(formation string, i, count int, et config.EnemyType, cfg config.GameConfig) vmath.Vec2 {
	w := cfg.Canvas.Width
	top := -et.Size.Height / 2

	switch formation {
	case FormationLine:
		return vmath.V(float64(i+1)*w/float64(count+1), top)
	case FormationV:
		center := float64(count-1) / 2
		depth := math.Abs(float64(i) - center)
		return vmath.V(float64(i+1)*w/float64(count+1), top-depth*et.Size.Height)
	default:
		// Scattered enemies stagger by the distance covered in one spawn interval
		half := et.Size.Width / 2
		x := half + ec.rng.Float64()*math.Max(0, w-et.Size.Width)
		gap := et.Speed * cfg.Enemies.Spawn.Rate / 1000
		return vmath.V(x, top-float64(i)*gap)
	}
}

// fire launches an enemy bullet straight down once the enemy is on screen and cooled down
func (ec *EnemyController) fire(s *state.GameState, cfg config.GameConfig, e *state.Enemy, dt float64) {
	if e.FireRate <= 0 {
		return
	}
	if e.Cooldown > 0 {
		e.Cooldown -= dt * 1000
		return
	}
	if e.Position.Y < 0 {
		return
	}

	b := &state.Bullet{
		Entity: state.Entity{
			ID:       ec.ids.Next(state.CategoryBullet),
			Position: e.Position,
			Velocity: vmath.V(0, cfg.Weapons.BulletSpeed/2),
			Size:     cfg.Weapons.BulletSize,
			Active:   true,
		},
		Damage: e.Damage,
	}
	s.Bullets = append(s.Bullets, b)
	e.Cooldown = config.FireCooldown(e.FireRate)
}

func levelScale(factor, steps float64) float64 {
	if factor <= 0 || steps <= 0 {
		return 1
	}
	return math.Pow(factor, steps)
}
