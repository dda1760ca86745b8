package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Env holds process settings read from PLANE_BATTLE_* variables
type Env struct {
	ConfigPath   string     `env:"PLANE_BATTLE_CONFIG" envDefault:"plane-battle.toml"`
	Difficulty   Difficulty `env:"PLANE_BATTLE_DIFFICULTY"`
	Debug        bool       `env:"PLANE_BATTLE_DEBUG"`
	FPS          int        `env:"PLANE_BATTLE_FPS" envDefault:"60"`
	LogDir       string     `env:"PLANE_BATTLE_LOG_DIR" envDefault:"logs"`
	OtelEndpoint string     `env:"PLANE_BATTLE_OTEL_ENDPOINT"`
	Mute         bool       `env:"PLANE_BATTLE_MUTE"`
}

// ParseEnv loads configuration from environment variables
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// FromEnv reads the process settings
func FromEnv() (Env, error) {
	var e Env
	if err := ParseEnv(&e); err != nil {
		return Env{}, err
	}
	if e.Difficulty != "" {
		if _, err := PresetFor(e.Difficulty); err != nil {
			return Env{}, fmt.Errorf("parse env: %w", err)
		}
	}
	return e, nil
}
