package controller

import (
	"github.com/lixenwraith/plane-battle/config"
	"github.com/lixenwraith/plane-battle/core"
	"github.com/lixenwraith/plane-battle/state"
)

// UIController keeps the screen layout derived from status
type UIController struct{}

func NewUIController() *UIController {
	return &UIController{}
}

func (uc *UIController) Tag() state.Tag {
	return state.TagUI
}

func (uc *UIController) Update(s *state.GameState, _ config.GameConfig, _ float64) {
	s.UI = core.UIFor(s.Status)
}

func (uc *UIController) Reset(s *state.GameState, _ config.GameConfig) {
	s.UI = core.UIFor(s.Status)
}
