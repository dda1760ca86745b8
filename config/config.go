package config

import (
	"maps"
	"slices"

	"github.com/lixenwraith/plane-battle/vmath"
)

// GameConfig is the complete ruleset consumed by every controller
// Speeds are pixels per second, durations and rates in milliseconds unless noted
type GameConfig struct {
	Canvas   CanvasConfig  `toml:"canvas"`
	Player   PlayerConfig  `toml:"player"`
	Weapons  WeaponConfig  `toml:"weapons"`
	Enemies  EnemyConfig   `toml:"enemies"`
	Powerups PowerupConfig `toml:"powerups"`
	Rules    RulesConfig   `toml:"rules"`
	Audio    AudioConfig   `toml:"audio"`
	Debug    DebugConfig   `toml:"debug"`
}

type CanvasConfig struct {
	Width           float64 `toml:"width"`
	Height          float64 `toml:"height"`
	BackgroundColor int64   `toml:"background_color"`
}

type PlayerConfig struct {
	InitialHealth      int        `toml:"initial_health"`
	Lives              int        `toml:"lives"`
	Speed              float64    `toml:"speed"`
	Size               vmath.Size `toml:"size"`
	FireRate           float64    `toml:"fire_rate"` // Shots per second
	InvincibleDuration float64    `toml:"invincible_duration"`
	HitboxSize         vmath.Size `toml:"hitbox_size"`
	RespawnDelay       float64    `toml:"respawn_delay"`
	RespawnPosition    vmath.Vec2 `toml:"respawn_position"`
}

type WeaponConfig struct {
	FireRate     float64    `toml:"fire_rate"`
	BulletSpeed  float64    `toml:"bullet_speed"`
	BulletDamage int        `toml:"bullet_damage"`
	BulletSize   vmath.Size `toml:"bullet_size"`
}

// EnemyType is one row of the enemy table
type EnemyType struct {
	Health   int        `toml:"health"`
	Speed    float64    `toml:"speed"`
	Size     vmath.Size `toml:"size"`
	Score    int        `toml:"score"`
	Damage   int        `toml:"damage"`
	FireRate float64    `toml:"fire_rate"`
	Pattern  string     `toml:"pattern"`
}

// SpawnPattern describes one wave template
type SpawnPattern struct {
	EnemyTypes []string `toml:"enemy_types"`
	Frequency  float64  `toml:"frequency"` // Relative selection weight
	Count      int      `toml:"count"`
	Formation  string   `toml:"formation"` // line, v or empty for scattered
}

type EnemySpawn struct {
	Rate     float64                 `toml:"rate"` // Milliseconds between staggered spawns
	MaxCount int                     `toml:"max_count"`
	Patterns map[string]SpawnPattern `toml:"patterns"`
}

type EnemyConfig struct {
	Types map[string]EnemyType `toml:"types"`
	Spawn EnemySpawn           `toml:"spawn"`
}

// PowerupType is one row of the powerup table
// Value applies to instant effects, Multiplier to timed ones
type PowerupType struct {
	Value      float64 `toml:"value"`
	Multiplier float64 `toml:"multiplier"`
	Duration   float64 `toml:"duration"`
}

type PowerupSpawn struct {
	Frequency   float64            `toml:"frequency"` // Spawn chance per second
	MaxCount    int                `toml:"max_count"`
	Probability map[string]float64 `toml:"probability"`
}

type PowerupConfig struct {
	Types map[string]PowerupType `toml:"types"`
	Spawn PowerupSpawn           `toml:"spawn"`
}

type ComboConfig struct {
	TimeWindow float64 `toml:"time_window"`
	Multiplier float64 `toml:"multiplier"` // Added per consecutive kill
}

type ScoringConfig struct {
	BaseScore  int         `toml:"base_score"`
	Multiplier float64     `toml:"multiplier"`
	Combo      ComboConfig `toml:"combo"`
}

type DifficultyIncrease struct {
	EnemyHealth float64 `toml:"enemy_health"`
	EnemySpeed  float64 `toml:"enemy_speed"`
	SpawnRate   float64 `toml:"spawn_rate"`
}

type ProgressionConfig struct {
	LevelUpScore       int                `toml:"level_up_score"`
	WavesPerLevel      int                `toml:"waves_per_level"`
	DifficultyIncrease DifficultyIncrease `toml:"difficulty_increase"`
}

type RulesConfig struct {
	DifficultyLevel Difficulty        `toml:"difficulty_level"`
	Scoring         ScoringConfig     `toml:"scoring"`
	Progression     ProgressionConfig `toml:"progression"`
	ScoreMultiplier float64           `toml:"score_multiplier"`
	EnemySpawnRate  float64           `toml:"enemy_spawn_rate"` // Scales wave enemy count
}

type VolumeConfig struct {
	Master float64 `toml:"master"`
	SFX    float64 `toml:"sfx"`
	Music  float64 `toml:"music"`
}

// Sound describes a synthesized cue played by the front-end
type Sound struct {
	Tone     float64 `toml:"tone"`     // Hz
	Duration float64 `toml:"duration"` // Milliseconds
	Volume   float64 `toml:"volume"`
	Loop     bool    `toml:"loop"`
}

type AudioConfig struct {
	Enabled bool             `toml:"enabled"`
	Volume  VolumeConfig     `toml:"volume"`
	Sounds  map[string]Sound `toml:"sounds"`
}

type DebugConfig struct {
	Enabled      bool `toml:"enabled"`
	ShowHitboxes bool `toml:"show_hitboxes"`
	ShowFPS      bool `toml:"show_fps"`
}

// Clone returns a deep copy; maps and slices are not shared with c
func (c GameConfig) Clone() GameConfig {
	out := c
	out.Enemies.Types = maps.Clone(c.Enemies.Types)
	if c.Enemies.Spawn.Patterns != nil {
		out.Enemies.Spawn.Patterns = make(map[string]SpawnPattern, len(c.Enemies.Spawn.Patterns))
		for k, p := range c.Enemies.Spawn.Patterns {
			p.EnemyTypes = slices.Clone(p.EnemyTypes)
			out.Enemies.Spawn.Patterns[k] = p
		}
	}
	out.Powerups.Types = maps.Clone(c.Powerups.Types)
	out.Powerups.Spawn.Probability = maps.Clone(c.Powerups.Spawn.Probability)
	out.Audio.Sounds = maps.Clone(c.Audio.Sounds)
	return out
}

// PlayerStart returns the spawn position of a fresh player
func (c GameConfig) PlayerStart() vmath.Vec2 {
	return vmath.V(c.Canvas.Width/2, c.Canvas.Height-c.Player.Size.Height*2)
}

// FireCooldown returns the shot cooldown in milliseconds for a fire rate
func FireCooldown(fireRate float64) float64 {
	if fireRate <= 0 {
		return 0
	}
	return 1000 / fireRate
}
