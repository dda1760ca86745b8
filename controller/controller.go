package controller

import (
	"fmt"
	"math/rand"

	"github.com/lixenwraith/plane-battle/state"
)

// Set holds the standard controllers so commands and handlers receive them by injection
type Set struct {
	Player  *PlayerController
	Enemy   *EnemyController
	Bullet  *BulletController
	Powerup *PowerupController
	UI      *UIController
	Run     *RunController
}

// NewSet builds the standard controllers and registers them on c
// rng drives wave and pickup randomness; nil seeds from the clock
func NewSet(c *state.Container, bus state.Emitter, rng *rand.Rand) (*Set, error) {
	ids := c.IDs()
	set := &Set{
		Player:  NewPlayerController(ids, bus),
		Enemy:   NewEnemyController(ids, bus, rng),
		Bullet:  NewBulletController(),
		Powerup: NewPowerupController(ids, bus, rng),
		UI:      NewUIController(),
		Run:     NewRunController(bus),
	}
	set.Powerup.UseConfigSource(c)
	for _, ctrl := range []state.Controller{set.Player, set.Enemy, set.Bullet, set.Powerup, set.UI, set.Run} {
		if err := c.Register(ctrl); err != nil {
			return nil, fmt.Errorf("register controllers: %w", err)
		}
	}
	return set, nil
}
