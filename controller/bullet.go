package controller

import (
	"github.com/lixenwraith/plane-battle/config"
	"github.com/lixenwraith/plane-battle/state"
	"github.com/lixenwraith/plane-battle/vmath"
)

// BulletController moves bullets and retires those that left the canvas
type BulletController struct{}

func NewBulletController() *BulletController {
	return &BulletController{}
}

func (bc *BulletController) Tag() state.Tag {
	return state.TagBullet
}

func (bc *BulletController) Update(s *state.GameState, cfg config.GameConfig, dt float64) {
	for _, b := range s.Bullets {
		if !b.Active {
			continue
		}
		b.Position = b.Position.Add(b.Velocity.Scale(dt))
		if vmath.OutOfBounds(b.Position, b.Size, cfg.Canvas.Width, cfg.Canvas.Height) {
			b.Active = false
		}
	}
}
