package core

// Screen is the active UI screen
type Screen uint8

const (
	ScreenMenu Screen = iota
	ScreenGame
	ScreenPause
	ScreenGameOver
)

func (s Screen) String() string {
	switch s {
	case ScreenMenu:
		return "menu"
	case ScreenGame:
		return "game"
	case ScreenPause:
		return "pause"
	case ScreenGameOver:
		return "gameOver"
	default:
		return "unknown"
	}
}

// Elements holds per-element visibility flags
type Elements struct {
	MainMenu       bool
	StartButton    bool
	OptionsButton  bool
	ScoreDisplay   bool
	PauseMenu      bool
	GameOverScreen bool
	RestartButton  bool
}

// UI is the presentation slice of game state, always derived from status
type UI struct {
	CurrentScreen Screen
	Elements      Elements
}

// screenTable is the fixed status -> UI lookup
// init shares the menu layout since no run has started yet
var screenTable = map[Status]UI{
	StatusInit: {ScreenMenu, Elements{MainMenu: true, StartButton: true, OptionsButton: true}},
	StatusMenu: {ScreenMenu, Elements{MainMenu: true, StartButton: true, OptionsButton: true}},
	StatusPlaying: {ScreenGame, Elements{ScoreDisplay: true}},
	StatusPaused:  {ScreenPause, Elements{ScoreDisplay: true, PauseMenu: true}},
	StatusGameOver: {ScreenGameOver, Elements{
		ScoreDisplay: true, GameOverScreen: true, RestartButton: true, StartButton: true,
	}},
}

// UIFor returns the UI layout for a status
func UIFor(s Status) UI {
	if ui, ok := screenTable[s]; ok {
		return ui
	}
	return screenTable[StatusMenu]
}
