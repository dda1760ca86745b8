package config

import (
	_ "embed"

	"github.com/lixenwraith/plane-battle/vmath"
)

// libraryDefaults is layered over Base before caller overrides
//
//go:embed defaults.toml
var libraryDefaults string

// framesPerSecond converts the per-frame tuning values of the ruleset to per-second speeds
const framesPerSecond = 60

// Base returns the built-in ruleset, the bottom layer of every merge
func Base() GameConfig {
	return GameConfig{
		Canvas: CanvasConfig{Width: 800, Height: 600},
		Player: PlayerConfig{
			InitialHealth:      100,
			Lives:              3,
			Speed:              8 * framesPerSecond,
			Size:               vmath.Size{Width: 40, Height: 40},
			FireRate:           5,
			InvincibleDuration: 3000,
			HitboxSize:         vmath.Size{Width: 30, Height: 30},
			RespawnDelay:       1000,
			RespawnPosition:    vmath.V(400, 550),
		},
		Weapons: WeaponConfig{
			FireRate:     5,
			BulletSpeed:  15 * framesPerSecond,
			BulletDamage: 1,
			BulletSize:   vmath.Size{Width: 4, Height: 10},
		},
		Enemies: EnemyConfig{
			Types: map[string]EnemyType{
				"basic": {Health: 1, Speed: 2 * framesPerSecond, Size: vmath.Size{Width: 30, Height: 30}, Score: 100, Damage: 1, FireRate: 1},
				"fast":  {Health: 1, Speed: 4 * framesPerSecond, Size: vmath.Size{Width: 20, Height: 20}, Score: 150, Damage: 1, FireRate: 0.5},
				"tank":  {Health: 3, Speed: 1 * framesPerSecond, Size: vmath.Size{Width: 40, Height: 40}, Score: 200, Damage: 2, FireRate: 2},
			},
			Spawn: EnemySpawn{
				Rate:     1000,
				MaxCount: 10,
				Patterns: map[string]SpawnPattern{
					"single": {EnemyTypes: []string{"basic"}, Frequency: 1, Count: 1},
					"wave":   {EnemyTypes: []string{"basic", "fast"}, Frequency: 0.5, Count: 5, Formation: "line"},
					"boss":   {EnemyTypes: []string{"tank"}, Frequency: 0.1, Count: 1},
				},
			},
		},
		Powerups: PowerupConfig{
			Types: map[string]PowerupType{
				PowerupHealth:   {Value: 50},
				PowerupSpeed:    {Multiplier: 1.5, Duration: 5000},
				PowerupFireRate: {Multiplier: 2, Duration: 5000},
				PowerupDamage:   {Multiplier: 2, Duration: 5000},
				PowerupShield:   {Duration: 10000},
			},
			Spawn: PowerupSpawn{
				Frequency: 0.1,
				MaxCount:  3,
				Probability: map[string]float64{
					PowerupHealth:   0.3,
					PowerupSpeed:    0.2,
					PowerupFireRate: 0.2,
					PowerupDamage:   0.2,
					PowerupShield:   0.1,
				},
			},
		},
		Rules: RulesConfig{
			DifficultyLevel: DifficultyNormal,
			Scoring: ScoringConfig{
				BaseScore:  100,
				Multiplier: 1,
				Combo:      ComboConfig{TimeWindow: 2000, Multiplier: 0.1},
			},
			Progression: ProgressionConfig{
				LevelUpScore:  1000,
				WavesPerLevel: 3,
				DifficultyIncrease: DifficultyIncrease{
					EnemyHealth: 1.2,
					EnemySpeed:  1.1,
					SpawnRate:   1.2,
				},
			},
			ScoreMultiplier: 1,
			EnemySpawnRate:  1,
		},
		Audio: AudioConfig{
			Enabled: true,
			Volume:  VolumeConfig{Master: 1, SFX: 0.8, Music: 0.5},
			Sounds: map[string]Sound{
				SoundShoot:     {Tone: 880, Duration: 40, Volume: 0.5},
				SoundExplosion: {Tone: 110, Duration: 120, Volume: 0.6},
				SoundPowerup:   {Tone: 1320, Duration: 90, Volume: 0.7},
				SoundGameOver:  {Tone: 220, Duration: 600, Volume: 0.8},
			},
		},
	}
}

// Powerup type keys
const (
	PowerupHealth   = "health"
	PowerupSpeed    = "speed"
	PowerupFireRate = "fire_rate"
	PowerupDamage   = "damage"
	PowerupShield   = "shield"
)

// Sound cue keys
const (
	SoundShoot     = "shoot"
	SoundExplosion = "explosion"
	SoundPowerup   = "powerup"
	SoundGameOver  = "game_over"
)
