package command

import (
	"context"

	"github.com/lixenwraith/plane-battle/config"
	"github.com/lixenwraith/plane-battle/controller"
	"github.com/lixenwraith/plane-battle/core"
	"github.com/lixenwraith/plane-battle/state"
	"github.com/lixenwraith/plane-battle/vmath"
)

// Command names
const (
	NameMove   = "move"
	NameShoot  = "shoot"
	NamePause  = "pause"
	NameResume = "resume"
	NameReset  = "reset"
)

// Store is the state owner commands mutate
type Store interface {
	State() *state.GameState
	Config() config.GameConfig
	Reset()
}

type MoveParams struct {
	Direction vmath.Vec2
	DeltaTime float64 // Seconds
}

type MoveResult struct {
	Position vmath.Vec2
	Clamped  bool
}

// ShootResult reports whether the weapon fired; a shot during cooldown is not an error
type ShootResult struct {
	BulletID string
	Fired    bool
}

type PauseResult struct {
	PreviousStatus core.Status
}

type ResumeResult struct {
	Status core.Status
}

type ResetResult struct {
	Status core.Status
}

// MoveCommand displaces the player through the player controller
type MoveCommand struct {
	store  Store
	player *controller.PlayerController
}

func NewMoveCommand(store Store, player *controller.PlayerController) *MoveCommand {
	return &MoveCommand{store: store, player: player}
}

func (c *MoveCommand) Name() string { return NameMove }

func (c *MoveCommand) Execute(_ context.Context, params any) (any, error) {
	p, err := paramsAs[MoveParams](NameMove, params)
	if err != nil {
		return nil, err
	}
	s := c.store.State()
	if err := requirePlaying(NameMove, s); err != nil {
		return nil, err
	}
	pos, clamped := c.player.Move(s, c.store.Config(), p.Direction, p.DeltaTime)
	return MoveResult{Position: pos, Clamped: clamped}, nil
}

// ShootCommand fires the player weapon
type ShootCommand struct {
	store  Store
	player *controller.PlayerController
}

func NewShootCommand(store Store, player *controller.PlayerController) *ShootCommand {
	return &ShootCommand{store: store, player: player}
}

func (c *ShootCommand) Name() string { return NameShoot }

// Execute ignores params; shots always leave from the player position
func (c *ShootCommand) Execute(_ context.Context, _ any) (any, error) {
	s := c.store.State()
	if err := requirePlaying(NameShoot, s); err != nil {
		return nil, err
	}
	b := c.player.Shoot(s, c.store.Config())
	if b == nil {
		return ShootResult{}, nil
	}
	return ShootResult{BulletID: b.ID, Fired: true}, nil
}

// PauseCommand pauses a playing run
type PauseCommand struct {
	store Store
	run   *controller.RunController
}

func NewPauseCommand(store Store, run *controller.RunController) *PauseCommand {
	return &PauseCommand{store: store, run: run}
}

func (c *PauseCommand) Name() string { return NamePause }

func (c *PauseCommand) Execute(_ context.Context, _ any) (any, error) {
	prev, err := c.run.Pause(c.store.State())
	if err != nil {
		return nil, Wrap(CodeRejected, NamePause, ErrRejected.Message, err)
	}
	return PauseResult{PreviousStatus: prev}, nil
}

// ResumeCommand resumes a paused run
type ResumeCommand struct {
	store Store
	run   *controller.RunController
}

func NewResumeCommand(store Store, run *controller.RunController) *ResumeCommand {
	return &ResumeCommand{store: store, run: run}
}

func (c *ResumeCommand) Name() string { return NameResume }

func (c *ResumeCommand) Execute(_ context.Context, _ any) (any, error) {
	s := c.store.State()
	if err := c.run.Resume(s); err != nil {
		return nil, Wrap(CodeRejected, NameResume, ErrRejected.Message, err)
	}
	return ResumeResult{Status: s.Status}, nil
}

// ResetCommand rebuilds the state from config; valid from any status
type ResetCommand struct {
	store Store
}

func NewResetCommand(store Store) *ResetCommand {
	return &ResetCommand{store: store}
}

func (c *ResetCommand) Name() string { return NameReset }

func (c *ResetCommand) Execute(_ context.Context, _ any) (any, error) {
	c.store.Reset()
	return ResetResult{Status: c.store.State().Status}, nil
}

// RegisterDefaults registers move, shoot, pause, resume and reset on p
func RegisterDefaults(p *Pipeline, store Store, ctrls *controller.Set) error {
	for _, cmd := range []Command{
		NewMoveCommand(store, ctrls.Player),
		NewShootCommand(store, ctrls.Player),
		NewPauseCommand(store, ctrls.Run),
		NewResumeCommand(store, ctrls.Run),
		NewResetCommand(store),
	} {
		if err := p.Register(cmd); err != nil {
			return err
		}
	}
	return nil
}

func requirePlaying(name string, s *state.GameState) error {
	if s.Status != core.StatusPlaying {
		return New(CodeRejected, name, "game is "+s.Status.String())
	}
	return nil
}
