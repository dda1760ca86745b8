package controller

import (
	"errors"
	"fmt"

	"github.com/lixenwraith/plane-battle/config"
	"github.com/lixenwraith/plane-battle/core"
	"github.com/lixenwraith/plane-battle/event"
	"github.com/lixenwraith/plane-battle/state"
)

var (
	// ErrInvalidTransition is returned for a lifecycle call the status table does not allow
	ErrInvalidTransition = errors.New("invalid status transition")

	ErrMissingPlayer  = errors.New("player missing")
	ErrNegativeLives  = errors.New("player lives negative")
	ErrNegativeHealth = errors.New("player health negative")
)

// ReasonPlayerDied is the game-over reason after the last life is lost
const ReasonPlayerDied = "Player died"

// RunController owns the run lifecycle, invariant checks and wave/level progression
//
// Architecture:
//   - Registered last so checks observe this tick's movement and collisions
//   - A wave completes when no wave is pending and no active enemy remains
//   - Levels advance after WavesPerLevel waves or once the score reaches LevelUpScore*level
type RunController struct {
	emitter
}

func NewRunController(bus state.Emitter) *RunController {
	return &RunController{emitter: emitter{bus: bus}}
}

func (rc *RunController) Tag() state.Tag {
	return state.TagRun
}

func (rc *RunController) Update(s *state.GameState, cfg config.GameConfig, _ float64) {
	if err := CheckInvariants(s); err != nil {
		rc.End(s, err.Error())
		return
	}

	prog := cfg.Rules.Progression
	waveDone := !s.WavePending && s.ActiveEnemies() == 0
	leveled := false

	if waveDone {
		rc.emit(event.EventWaveComplete, event.WavePayload{Wave: s.CurrentWave})
		s.CurrentWave++
		if prog.WavesPerLevel > 0 && s.CurrentWave > prog.WavesPerLevel {
			rc.advanceLevel(s)
			leveled = true
		}
	}

	// At most one level per tick
	if !leveled && prog.LevelUpScore > 0 && s.Score >= prog.LevelUpScore*s.CurrentLevel {
		rc.advanceLevel(s)
	}

	if waveDone {
		s.WavePending = true
		rc.emit(event.EventWaveStart, event.WavePayload{Wave: s.CurrentWave})
	}
}

// CheckInvariants reports the first structural violation of s
func CheckInvariants(s *state.GameState) error {
	switch {
	case s.Player == nil:
		return ErrMissingPlayer
	case s.Player.Lives < 0:
		return fmt.Errorf("%w: %d", ErrNegativeLives, s.Player.Lives)
	case s.Player.Health < 0:
		return fmt.Errorf("%w: %d", ErrNegativeHealth, s.Player.Health)
	}
	return nil
}

// Start moves an init or menu state to playing
func (rc *RunController) Start(s *state.GameState) error {
	if err := rc.transition(s, core.StatusPlaying); err != nil {
		return err
	}
	rc.emit(event.EventGameStart, nil)
	return nil
}

// Pause moves a playing state to paused, returns the status it left
func (rc *RunController) Pause(s *state.GameState) (core.Status, error) {
	prev := s.Status
	if err := rc.transition(s, core.StatusPaused); err != nil {
		return prev, err
	}
	rc.emit(event.EventGamePause, nil)
	return prev, nil
}

// Resume moves a paused state back to playing
// Unlike Start it refuses init and menu
func (rc *RunController) Resume(s *state.GameState) error {
	if s.Status != core.StatusPaused {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.Status, core.StatusPlaying)
	}
	if err := rc.transition(s, core.StatusPlaying); err != nil {
		return err
	}
	rc.emit(event.EventGameResume, nil)
	return nil
}

// End moves a playing state to game over and announces the final score
// Ending an already finished run is a no-op
func (rc *RunController) End(s *state.GameState, reason string) {
	if !core.CanTransition(s.Status, core.StatusGameOver) {
		return
	}
	s.SetStatus(core.StatusGameOver)
	rc.emit(event.EventGameOver, event.GameOverPayload{Score: s.Score, Reason: reason})
}

func (rc *RunController) transition(s *state.GameState, to core.Status) error {
	if !core.CanTransition(s.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.Status, to)
	}
	s.SetStatus(to)
	return nil
}

func (rc *RunController) advanceLevel(s *state.GameState) {
	rc.emit(event.EventLevelComplete, event.LevelPayload{Level: s.CurrentLevel, Score: s.Score})
	s.CurrentLevel++
	s.CurrentWave = 1
	rc.emit(event.EventLevelStart, event.LevelPayload{Level: s.CurrentLevel, Score: s.Score})
}
