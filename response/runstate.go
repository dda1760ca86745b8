package response

import (
	"github.com/lixenwraith/plane-battle/config"
	"github.com/lixenwraith/plane-battle/core"
	"github.com/lixenwraith/plane-battle/event"
	"github.com/lixenwraith/plane-battle/state"
)

// lifecycleStatus maps each lifecycle event to the status it settles on
var lifecycleStatus = map[event.EventType]core.Status{
	event.EventGameStart:  core.StatusPlaying,
	event.EventGamePause:  core.StatusPaused,
	event.EventGameResume: core.StatusPlaying,
	event.EventGameOver:   core.StatusGameOver,
	event.EventGameReset:  core.StatusInit,
}

// RunStateHandler rewrites the canonical run flags after every lifecycle event
type RunStateHandler struct {
	emitter
}

func NewRunStateHandler(bus state.Emitter) *RunStateHandler {
	return &RunStateHandler{emitter: emitter{bus: bus}}
}

func (h *RunStateHandler) Name() string { return "run-state" }

func (h *RunStateHandler) Priority() int { return PriorityRunState }

func (h *RunStateHandler) CanHandle(t event.EventType) bool {
	_, ok := lifecycleStatus[t]
	return ok
}

func (h *RunStateHandler) Handle(t event.EventType, _ any, s *state.GameState, _ config.GameConfig) error {
	s.SetStatus(lifecycleStatus[t])
	h.emit(event.EventRunStateChange, event.RunStateChangePayload{Flags: core.FlagsFor(s.Status)})
	return nil
}
