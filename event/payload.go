package event

import (
	"github.com/lixenwraith/plane-battle/core"
	"github.com/lixenwraith/plane-battle/vmath"
)

// GameOverPayload contains the final score and why the run ended
type GameOverPayload struct {
	Score  int    `toml:"score"`
	Reason string `toml:"reason"`
}

// UpdatePayload carries the elapsed seconds since the previous tick
type UpdatePayload struct {
	DeltaTime float64 `toml:"delta_time"`
}

// RenderFramePayload is emitted after the update pass of the same tick
type RenderFramePayload struct {
	DeltaTime float64 `toml:"delta_time"`
	Frame     uint64  `toml:"frame"`
}

// StateChangePayload summarizes the state after a mutation
// Consumers needing full detail read the state through the engine
type StateChangePayload struct {
	Status         core.Status `toml:"status"`
	PreviousStatus core.Status `toml:"previous_status"`
	Score          int         `toml:"score"`
	Level          int         `toml:"level"`
	Wave           int         `toml:"wave"`
	Time           float64     `toml:"time"`
}

// RunStateChangePayload carries the canonical run flags after a lifecycle event
type RunStateChangePayload struct {
	Flags core.RunFlags
}

// UIStateChangePayload carries the derived screen layout
type UIStateChangePayload struct {
	UI core.UI
}

// InputPayload is a raw input event from the input source
type InputPayload struct {
	Type     core.InputType
	Data     core.InputData
	Keyboard core.Keyboard
}

// ConfigChangePayload signals a new config value is active
type ConfigChangePayload struct {
	Difficulty string `toml:"difficulty"`
	Debug      bool   `toml:"debug"`
}

// ErrorPayload reports a recoverable failure with a stable code
type ErrorPayload struct {
	Code    string `toml:"code"`
	Message string `toml:"message"`
}

// PlayerMovePayload reports the position after a move command
type PlayerMovePayload struct {
	Position vmath.Vec2
	Clamped  bool
}

// PlayerShootPayload reports the bullet spawned by a shot
type PlayerShootPayload struct {
	BulletID string `toml:"bullet_id"`
	Position vmath.Vec2
}

// PlayerHitPayload reports damage applied to the player
type PlayerHitPayload struct {
	Damage int    `toml:"damage"`
	Source string `toml:"source"` // Entity id of the enemy or bullet
	Health int    `toml:"health"` // Remaining health after the hit
}

// PlayerDeadPayload reports a lost life
type PlayerDeadPayload struct {
	LivesLeft int `toml:"lives_left"`
}

// PlayerRespawnPayload reports the respawn position
type PlayerRespawnPayload struct {
	Position vmath.Vec2
}

// PlayerPowerupPayload reports an applied powerup effect
type PlayerPowerupPayload struct {
	Type     string  `toml:"type"`
	Value    float64 `toml:"value"`
	Duration float64 `toml:"duration"` // Milliseconds, 0 for permanent
}

// EnemySpawnPayload reports a spawned enemy
type EnemySpawnPayload struct {
	ID       string `toml:"id"`
	Type     string `toml:"type"`
	Position vmath.Vec2
}

// EnemyHitPayload reports damage applied to an enemy that survived
type EnemyHitPayload struct {
	ID     string `toml:"id"`
	Damage int    `toml:"damage"`
	Health int    `toml:"health"`
}

// EnemyDeadPayload reports a destroyed enemy and the score it granted
type EnemyDeadPayload struct {
	ID    string `toml:"id"`
	Score int    `toml:"score"`
}

// PowerupSpawnPayload reports a spawned powerup
type PowerupSpawnPayload struct {
	ID       string `toml:"id"`
	Type     string `toml:"type"`
	Position vmath.Vec2
}

// PlayerEnemyCollisionPayload identifies the enemy touching the player
type PlayerEnemyCollisionPayload struct {
	EnemyID string `toml:"enemy_id"`
}

// BulletEnemyCollisionPayload identifies a bullet and the enemy it hit
type BulletEnemyCollisionPayload struct {
	BulletID string `toml:"bullet_id"`
	EnemyID  string `toml:"enemy_id"`
}

// BulletPlayerCollisionPayload identifies a bullet hitting the player
// Damage is used when the bullet is not tracked in state
type BulletPlayerCollisionPayload struct {
	BulletID string `toml:"bullet_id"`
	Damage   int    `toml:"damage"`
}

// PlayerPowerupCollisionPayload identifies the powerup touched by the player
type PlayerPowerupCollisionPayload struct {
	PowerupID string `toml:"powerup_id"`
}

// LevelPayload reports level progression
type LevelPayload struct {
	Level int `toml:"level"`
	Score int `toml:"score"`
}

// WavePayload reports wave progression
type WavePayload struct {
	Wave int `toml:"wave"`
}

// ScoreChangePayload reports a score delta
type ScoreChangePayload struct {
	Score int `toml:"score"`
	Delta int `toml:"delta"`
}
