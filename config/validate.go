package config

import (
	"errors"
	"fmt"
)

var ErrInvalidConfig = errors.New("invalid config")

// Check returns every structural problem in cfg, nil when valid
// Values are reported, never coerced
func Check(cfg GameConfig) []error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if cfg.Canvas.Width <= 0 || cfg.Canvas.Height <= 0 {
		add("canvas dimensions must be positive, got %vx%v", cfg.Canvas.Width, cfg.Canvas.Height)
	}
	if cfg.Player.Size.Width <= 0 || cfg.Player.Size.Height <= 0 {
		add("player size must be positive, got %vx%v", cfg.Player.Size.Width, cfg.Player.Size.Height)
	}
	if cfg.Player.HitboxSize.Width <= 0 || cfg.Player.HitboxSize.Height <= 0 {
		add("player hitbox must be positive")
	}
	if cfg.Player.FireRate <= 0 {
		add("player fire rate must be positive, got %v", cfg.Player.FireRate)
	}
	if cfg.Player.Lives <= 0 || cfg.Player.InitialHealth <= 0 {
		add("player lives and health must be positive")
	}
	if cfg.Weapons.FireRate <= 0 {
		add("weapons fire rate must be positive, got %v", cfg.Weapons.FireRate)
	}
	if cfg.Weapons.BulletSize.Width <= 0 || cfg.Weapons.BulletSize.Height <= 0 {
		add("bullet size must be positive")
	}
	if len(cfg.Enemies.Types) == 0 {
		add("no enemy types defined")
	}
	for name, p := range cfg.Enemies.Spawn.Patterns {
		for _, t := range p.EnemyTypes {
			if _, ok := cfg.Enemies.Types[t]; !ok {
				add("spawn pattern %q references unknown enemy type %q", name, t)
			}
		}
	}
	if cfg.Rules.Scoring.BaseScore <= 0 || cfg.Rules.Scoring.Combo.TimeWindow < 0 {
		add("scoring config incomplete")
	}
	if cfg.Rules.Progression.LevelUpScore <= 0 || cfg.Rules.Progression.WavesPerLevel <= 0 {
		add("progression config incomplete")
	}
	if _, err := PresetFor(cfg.Rules.DifficultyLevel); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrInvalidConfig, err))
	}
	return errs
}
