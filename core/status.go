package core

// Status is the top-level game lifecycle state
type Status uint8

const (
	StatusInit Status = iota
	StatusMenu
	StatusPlaying
	StatusPaused
	StatusGameOver
)

var statusNames = [...]string{
	StatusInit:     "init",
	StatusMenu:     "menu",
	StatusPlaying:  "playing",
	StatusPaused:   "paused",
	StatusGameOver: "gameOver",
}

// String returns the lowercase camel name used in logs and config
func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "unknown"
}

// ParseStatus maps a status name back to its value
func ParseStatus(name string) (Status, bool) {
	for i, n := range statusNames {
		if n == name {
			return Status(i), true
		}
	}
	return 0, false
}

// statusTransitions is the complete successor table
// gameOver -> init is only reachable through a reset
var statusTransitions = map[Status][]Status{
	StatusInit:     {StatusPlaying},
	StatusMenu:     {StatusPlaying},
	StatusPlaying:  {StatusPaused, StatusGameOver},
	StatusPaused:   {StatusPlaying},
	StatusGameOver: {StatusInit},
}

// CanTransition checks if a status transition is valid
func CanTransition(from, to Status) bool {
	for _, s := range statusTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Successors returns a copy of the valid successors of s
func Successors(s Status) []Status {
	out := make([]Status, len(statusTransitions[s]))
	copy(out, statusTransitions[s])
	return out
}

// RunFlags is the canonical run-state triple derived from a status
type RunFlags struct {
	Status     Status
	IsPaused   bool
	IsGameOver bool
}

// FlagsFor returns the canonical flags for a status
func FlagsFor(s Status) RunFlags {
	return RunFlags{
		Status:     s,
		IsPaused:   s == StatusPaused,
		IsGameOver: s == StatusGameOver,
	}
}
