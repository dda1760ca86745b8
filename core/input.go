package core

// InputType classifies a raw input event from the input source
type InputType uint8

const (
	InputMove InputType = iota
	InputFire
	InputPause
)

func (t InputType) String() string {
	switch t {
	case InputMove:
		return "move"
	case InputFire:
		return "fire"
	case InputPause:
		return "pause"
	default:
		return "unknown"
	}
}

// InputData carries the directional part of an input event
type InputData struct {
	X       float64
	Y       float64
	Pressed bool
}

// Keyboard is the raw key snapshot delivered with every input event
type Keyboard struct {
	Up    bool
	Down  bool
	Left  bool
	Right bool
	Space bool
}

// Direction derives a movement vector from key booleans: right-left, down-up
func (k Keyboard) Direction() (x, y float64) {
	return b2f(k.Right) - b2f(k.Left), b2f(k.Down) - b2f(k.Up)
}

// Input is the last known input intent stored in game state
type Input struct {
	Type     InputType
	Data     InputData
	Keyboard Keyboard
}

func b2f(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
