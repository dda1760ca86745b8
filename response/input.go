package response

import (
	"context"
	"io"
	"log"

	"github.com/lixenwraith/plane-battle/command"
	"github.com/lixenwraith/plane-battle/config"
	"github.com/lixenwraith/plane-battle/core"
	"github.com/lixenwraith/plane-battle/event"
	"github.com/lixenwraith/plane-battle/state"
	"github.com/lixenwraith/plane-battle/vmath"
)

// InputStep is the simulated seconds one discrete move input advances the player
const InputStep = 1.0 / 60

// Executor runs named commands
type Executor interface {
	Execute(ctx context.Context, name string, params any) (any, error)
}

// InputHandler turns raw input into move, shoot, pause and resume commands
// Command failures are logged and published as error events, never returned
type InputHandler struct {
	emitter
	exec   Executor
	logger *log.Logger
}

// NewInputHandler creates the handler; bus and logger may be nil
func NewInputHandler(exec Executor, bus state.Emitter, logger *log.Logger) *InputHandler {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &InputHandler{emitter: emitter{bus: bus}, exec: exec, logger: logger}
}

func (h *InputHandler) Name() string { return "input" }

func (h *InputHandler) Priority() int { return PriorityInput }

func (h *InputHandler) CanHandle(t event.EventType) bool {
	return t == event.EventInputChange
}

func (h *InputHandler) Handle(_ event.EventType, payload any, s *state.GameState, _ config.GameConfig) error {
	in, err := payloadAs[event.InputPayload](payload)
	if err != nil {
		return err
	}
	s.Input = core.Input{Type: in.Type, Data: in.Data, Keyboard: in.Keyboard}

	switch in.Type {
	case core.InputMove:
		dir := MoveDirection(in)
		if dir.IsZero() {
			return nil
		}
		h.run(command.NameMove, command.MoveParams{Direction: dir, DeltaTime: InputStep})

	case core.InputFire:
		if !in.Data.Pressed && !in.Keyboard.Space {
			return nil
		}
		h.run(command.NameShoot, nil)

	case core.InputPause:
		name := command.NamePause
		if s.Status == core.StatusPaused {
			name = command.NameResume
		}
		h.run(name, nil)
	}
	return nil
}

func (h *InputHandler) run(name string, params any) {
	if _, err := h.exec.Execute(context.Background(), name, params); err != nil {
		h.logger.Printf("[INPUT] %s: %v", name, err)
		h.emit(event.EventError, event.ErrorPayload{Code: string(command.CodeOf(err)), Message: err.Error()})
	}
}

// MoveDirection derives the movement vector of an input event
// Keyboard booleans win; analog data is used when no direction key is held
func MoveDirection(in event.InputPayload) vmath.Vec2 {
	x, y := in.Keyboard.Direction()
	if x == 0 && y == 0 {
		return vmath.V(in.Data.X, in.Data.Y)
	}
	return vmath.V(x, y)
}
