package response

import (
	"github.com/lixenwraith/plane-battle/config"
	"github.com/lixenwraith/plane-battle/core"
	"github.com/lixenwraith/plane-battle/event"
	"github.com/lixenwraith/plane-battle/state"
)

// UIStateHandler derives the screen and element flags from status
// Runs after the run-state handler so it sees the settled status
type UIStateHandler struct {
	emitter
}

func NewUIStateHandler(bus state.Emitter) *UIStateHandler {
	return &UIStateHandler{emitter: emitter{bus: bus}}
}

func (h *UIStateHandler) Name() string { return "ui-state" }

func (h *UIStateHandler) Priority() int { return PriorityUIState }

func (h *UIStateHandler) CanHandle(t event.EventType) bool {
	_, ok := lifecycleStatus[t]
	return ok
}

func (h *UIStateHandler) Handle(_ event.EventType, _ any, s *state.GameState, _ config.GameConfig) error {
	ui := core.UIFor(s.Status)
	if ui == s.UI {
		return nil
	}
	s.UI = ui
	h.emit(event.EventUIStateChange, event.UIStateChangePayload{UI: ui})
	return nil
}
