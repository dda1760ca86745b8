package event

// EventType represents the type of game event
type EventType int

const (
	// === Lifecycle Event ===

	// EventGameInit signals engine construction completed
	// Trigger: engine.New
	// Consumer: UI chrome | Payload: nil
	EventGameInit EventType = iota

	// EventGameStart signals a run started
	// Trigger: Run controller Start
	// Consumer: RunStateHandler, UIStateHandler, engine loop | Payload: nil
	EventGameStart

	// EventGamePause signals the run was paused
	// Trigger: Run controller Pause
	// Consumer: RunStateHandler, UIStateHandler, engine loop | Payload: nil
	EventGamePause

	// EventGameResume signals the run was resumed
	// Trigger: Run controller Resume
	// Consumer: RunStateHandler, UIStateHandler, engine loop | Payload: nil
	EventGameResume

	// EventGameOver signals the run ended
	// Trigger: CollisionHandler on last life, Run controller on invariant violation
	// Consumer: RunStateHandler, UIStateHandler, engine loop, sound sink | Payload: GameOverPayload
	EventGameOver

	// EventGameReset signals state was rebuilt from config
	// Trigger: state.Container Reset
	// Consumer: RunStateHandler, UIStateHandler, engine loop | Payload: nil
	EventGameReset

	// === Loop Event ===

	// EventUpdate advances the simulation
	// Trigger: engine.Loop tick
	// Consumer: state.Container, physics.Detector | Payload: UpdatePayload
	EventUpdate

	// EventRenderFrame requests a frame draw after the update pass
	// Trigger: engine.Loop tick
	// Consumer: external renderer | Payload: RenderFramePayload
	EventRenderFrame

	// === System Event ===

	// EventStateChange signals game state was mutated
	// Trigger: state.Container Set, Update, Reset
	// Consumer: UI chrome | Payload: StateChangePayload
	EventStateChange

	// EventRunStateChange signals canonical run flags were rewritten
	// Trigger: RunStateHandler
	// Consumer: UI chrome | Payload: RunStateChangePayload
	EventRunStateChange

	// EventUIStateChange signals screen or element visibility changed
	// Trigger: UIStateHandler
	// Consumer: external renderer | Payload: UIStateChangePayload
	EventUIStateChange

	// EventInputChange carries a raw input event
	// Trigger: external input source via engine.Emit
	// Consumer: InputHandler | Payload: InputPayload
	EventInputChange

	// EventConfigChange signals the active config was replaced
	// Trigger: engine on config.Manager notification
	// Consumer: UI chrome | Payload: ConfigChangePayload
	EventConfigChange

	// EventError reports a recoverable failure
	// Trigger: InputHandler on command failure, engine on refused start
	// Consumer: UI chrome, logging | Payload: ErrorPayload
	EventError

	// === Player Event ===

	// EventPlayerMove signals the player moved through the move command
	// Trigger: Player controller Move
	// Consumer: external renderer | Payload: PlayerMovePayload
	EventPlayerMove

	// EventPlayerShoot signals a bullet was fired
	// Trigger: Player controller Shoot
	// Consumer: sound sink | Payload: PlayerShootPayload
	EventPlayerShoot

	// EventPlayerHit signals damage applied to the player
	// Trigger: CollisionHandler
	// Consumer: sound sink | Payload: PlayerHitPayload
	EventPlayerHit

	// EventPlayerDead signals the player lost a life
	// Trigger: CollisionHandler
	// Consumer: UI chrome | Payload: PlayerDeadPayload
	EventPlayerDead

	// EventPlayerRespawn signals the player was placed back on the canvas
	// Trigger: CollisionHandler after a non-final death
	// Consumer: UI chrome | Payload: PlayerRespawnPayload
	EventPlayerRespawn

	// EventPlayerPowerup signals a powerup effect was applied
	// Trigger: CollisionHandler on player-powerup pickup
	// Consumer: sound sink | Payload: PlayerPowerupPayload
	EventPlayerPowerup

	// === Enemy Event ===

	// EventEnemySpawn signals an enemy entered the canvas
	// Trigger: Enemy controller wave spawn
	// Consumer: UI chrome | Payload: EnemySpawnPayload
	EventEnemySpawn

	// EventEnemyHit signals damage applied to an enemy that survived
	// Trigger: CollisionHandler
	// Consumer: sound sink | Payload: EnemyHitPayload
	EventEnemyHit

	// EventEnemyDead signals an enemy was destroyed by the player
	// Trigger: CollisionHandler
	// Consumer: sound sink, UI chrome | Payload: EnemyDeadPayload
	EventEnemyDead

	// === Powerup Event ===

	// EventPowerupSpawn signals a powerup entered the canvas
	// Trigger: Powerup controller
	// Consumer: UI chrome | Payload: PowerupSpawnPayload
	EventPowerupSpawn

	// === Collision Event ===

	// EventCollisionPlayerEnemy reports player and enemy overlap
	// Trigger: physics.Detector or external detector
	// Consumer: CollisionHandler | Payload: PlayerEnemyCollisionPayload
	EventCollisionPlayerEnemy

	// EventCollisionBulletEnemy reports a player bullet hitting an enemy
	// Trigger: physics.Detector or external detector
	// Consumer: CollisionHandler | Payload: BulletEnemyCollisionPayload
	EventCollisionBulletEnemy

	// EventCollisionBulletPlayer reports a hostile bullet hitting the player
	// Trigger: physics.Detector or external detector
	// Consumer: CollisionHandler | Payload: BulletPlayerCollisionPayload
	EventCollisionBulletPlayer

	// EventCollisionPlayerPowerup reports the player touching a powerup
	// Trigger: physics.Detector or external detector
	// Consumer: CollisionHandler | Payload: PlayerPowerupCollisionPayload
	EventCollisionPlayerPowerup

	// === Progression Event ===

	// EventLevelStart signals a new level began
	// Trigger: Run controller on level advance
	// Consumer: UI chrome | Payload: LevelPayload
	EventLevelStart

	// EventLevelComplete signals the previous level was cleared
	// Trigger: Run controller on level advance
	// Consumer: UI chrome | Payload: LevelPayload
	EventLevelComplete

	// EventWaveStart signals a wave is queued for spawning
	// Trigger: Run controller on start and wave advance
	// Consumer: UI chrome | Payload: WavePayload
	EventWaveStart

	// EventWaveComplete signals every enemy of the wave is gone
	// Trigger: Run controller
	// Consumer: UI chrome | Payload: WavePayload
	EventWaveComplete

	// EventScoreChange signals score moved
	// Trigger: CollisionHandler on enemy kill
	// Consumer: UI chrome | Payload: ScoreChangePayload
	EventScoreChange

	eventTypeCount
)

// AllTypes returns every catalogued event type in declaration order
func AllTypes() []EventType {
	out := make([]EventType, 0, eventTypeCount)
	for t := EventType(0); t < eventTypeCount; t++ {
		out = append(out, t)
	}
	return out
}
