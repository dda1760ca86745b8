package event

import (
	"fmt"
	"reflect"
	"sync"
)

var (
	nameToType    = make(map[string]EventType)
	typeToName    = make(map[EventType]string)
	typeToPayload = make(map[EventType]reflect.Type)
	registryOnce  sync.Once
)

// RegisterType maps a string name to an EventType and its payload struct type
// payloadInstance is a zero value of the payload struct, nil if the event carries none
func RegisterType(name string, et EventType, payloadInstance any) {
	nameToType[name] = et
	typeToName[et] = name
	if payloadInstance != nil {
		t := reflect.TypeOf(payloadInstance)
		if t.Kind() == reflect.Ptr {
			t = t.Elem()
		}
		typeToPayload[et] = t
	}
}

// GetEventType returns the EventType for a given name
func GetEventType(name string) (EventType, bool) {
	initRegistry()
	et, ok := nameToType[name]
	return et, ok
}

// GetEventName returns the string name for an EventType
func GetEventName(et EventType) string {
	initRegistry()
	return typeToName[et]
}

// String implements fmt.Stringer using the registered name
func (t EventType) String() string {
	if name := GetEventName(t); name != "" {
		return name
	}
	return fmt.Sprintf("event(%d)", int(t))
}

// NewPayloadStruct returns a pointer to a zero-value payload for the event type
// Returns nil if the event carries no payload
func NewPayloadStruct(et EventType) any {
	initRegistry()
	t, ok := typeToPayload[et]
	if !ok {
		return nil
	}
	return reflect.New(t).Interface()
}

// PayloadMatches reports whether payload has the registered shape for et
// Payloads are delivered by value; nil matches events registered without one
func PayloadMatches(et EventType, payload any) bool {
	initRegistry()
	want, ok := typeToPayload[et]
	if !ok {
		return payload == nil
	}
	return payload != nil && reflect.TypeOf(payload) == want
}

func initRegistry() {
	registryOnce.Do(registerAll)
}

func registerAll() {
	// Lifecycle
	RegisterType("game:init", EventGameInit, nil)
	RegisterType("game:start", EventGameStart, nil)
	RegisterType("game:pause", EventGamePause, nil)
	RegisterType("game:resume", EventGameResume, nil)
	RegisterType("game:over", EventGameOver, GameOverPayload{})
	RegisterType("game:reset", EventGameReset, nil)

	// Loop
	RegisterType("system:update", EventUpdate, UpdatePayload{})
	RegisterType("system:render-frame", EventRenderFrame, RenderFramePayload{})

	// System
	RegisterType("system:state-change", EventStateChange, StateChangePayload{})
	RegisterType("system:run-state-change", EventRunStateChange, RunStateChangePayload{})
	RegisterType("system:ui-state-change", EventUIStateChange, UIStateChangePayload{})
	RegisterType("system:input-change", EventInputChange, InputPayload{})
	RegisterType("system:config-change", EventConfigChange, ConfigChangePayload{})
	RegisterType("system:error", EventError, ErrorPayload{})

	// Player
	RegisterType("player:move", EventPlayerMove, PlayerMovePayload{})
	RegisterType("player:shoot", EventPlayerShoot, PlayerShootPayload{})
	RegisterType("player:hit", EventPlayerHit, PlayerHitPayload{})
	RegisterType("player:dead", EventPlayerDead, PlayerDeadPayload{})
	RegisterType("player:respawn", EventPlayerRespawn, PlayerRespawnPayload{})
	RegisterType("player:powerup", EventPlayerPowerup, PlayerPowerupPayload{})

	// Enemy
	RegisterType("enemy:spawn", EventEnemySpawn, EnemySpawnPayload{})
	RegisterType("enemy:hit", EventEnemyHit, EnemyHitPayload{})
	RegisterType("enemy:dead", EventEnemyDead, EnemyDeadPayload{})

	// Powerup
	RegisterType("powerup:spawn", EventPowerupSpawn, PowerupSpawnPayload{})

	// Collision
	RegisterType("collision:player-enemy", EventCollisionPlayerEnemy, PlayerEnemyCollisionPayload{})
	RegisterType("collision:bullet-enemy", EventCollisionBulletEnemy, BulletEnemyCollisionPayload{})
	RegisterType("collision:bullet-player", EventCollisionBulletPlayer, BulletPlayerCollisionPayload{})
	RegisterType("collision:player-powerup", EventCollisionPlayerPowerup, PlayerPowerupCollisionPayload{})

	// Progression
	RegisterType("level:start", EventLevelStart, LevelPayload{})
	RegisterType("level:complete", EventLevelComplete, LevelPayload{})
	RegisterType("wave:start", EventWaveStart, WavePayload{})
	RegisterType("wave:complete", EventWaveComplete, WavePayload{})
	RegisterType("score:change", EventScoreChange, ScoreChangePayload{})
}
