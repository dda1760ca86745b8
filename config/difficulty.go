package config

import (
	"errors"
	"fmt"
	"math"
)

// Difficulty names one of the multiplicative presets
type Difficulty string

const (
	DifficultyEasy      Difficulty = "easy"
	DifficultyNormal    Difficulty = "normal"
	DifficultyHard      Difficulty = "hard"
	DifficultyNightmare Difficulty = "nightmare"
)

var ErrUnknownDifficulty = errors.New("unknown difficulty")

// Preset holds the multipliers of one difficulty level
type Preset struct {
	EnemyHealth     float64
	EnemySpeed      float64
	EnemySpawnRate  float64
	PlayerHealth    float64
	ScoreMultiplier float64 // Absolute, replaces rules.score_multiplier
}

var presets = map[Difficulty]Preset{
	DifficultyEasy:      {EnemyHealth: 0.8, EnemySpeed: 0.8, EnemySpawnRate: 0.8, PlayerHealth: 1.2, ScoreMultiplier: 0.8},
	DifficultyNormal:    {EnemyHealth: 1, EnemySpeed: 1, EnemySpawnRate: 1, PlayerHealth: 1, ScoreMultiplier: 1},
	DifficultyHard:      {EnemyHealth: 1.2, EnemySpeed: 1.2, EnemySpawnRate: 1.2, PlayerHealth: 0.8, ScoreMultiplier: 1.2},
	DifficultyNightmare: {EnemyHealth: 1.5, EnemySpeed: 1.5, EnemySpawnRate: 1.5, PlayerHealth: 0.6, ScoreMultiplier: 1.5},
}

// PresetFor returns the multipliers for d
func PresetFor(d Difficulty) (Preset, error) {
	p, ok := presets[d]
	if !ok {
		return Preset{}, fmt.Errorf("%w: %q", ErrUnknownDifficulty, d)
	}
	return p, nil
}

// ApplyDifficulty returns a copy of cfg scaled by the preset of d
// Integer quantities round up so a scaled value never drops to zero
func ApplyDifficulty(cfg GameConfig, d Difficulty) (GameConfig, error) {
	p, err := PresetFor(d)
	if err != nil {
		return cfg, err
	}
	out := cfg.Clone()
	for name, et := range out.Enemies.Types {
		et.Health = int(math.Ceil(float64(et.Health) * p.EnemyHealth))
		et.Speed *= p.EnemySpeed
		out.Enemies.Types[name] = et
	}
	out.Rules.EnemySpawnRate *= p.EnemySpawnRate
	out.Player.InitialHealth = int(math.Ceil(float64(out.Player.InitialHealth) * p.PlayerHealth))
	out.Rules.ScoreMultiplier = p.ScoreMultiplier
	out.Rules.DifficultyLevel = d
	return out, nil
}
