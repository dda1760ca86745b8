package main

import (
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/plane-battle/core"
	"github.com/lixenwraith/plane-battle/event"
)

// action is what the front-end does with one key press
type action uint8

const (
	actionNone action = iota
	actionInput
	actionStart
	actionReset
	actionDebug
	actionQuit
)

// keyCommand is a translated key press; input is set for actionInput
type keyCommand struct {
	action action
	input  event.InputPayload
}

// translateKey maps a key press to a front-end action
func translateKey(ev *tcell.EventKey) keyCommand {
	return translate(ev.Key(), ev.Rune())
}

// translate maps a key and its rune; terminals report presses only, so every movement key yields one move input
func translate(key tcell.Key, r rune) keyCommand {
	switch key {
	case tcell.KeyCtrlC:
		return keyCommand{action: actionQuit}
	case tcell.KeyEnter:
		return keyCommand{action: actionStart}
	case tcell.KeyEscape:
		return inputCmd(core.InputPause, core.Keyboard{})
	case tcell.KeyF1:
		return keyCommand{action: actionDebug}
	case tcell.KeyUp:
		return inputCmd(core.InputMove, core.Keyboard{Up: true})
	case tcell.KeyDown:
		return inputCmd(core.InputMove, core.Keyboard{Down: true})
	case tcell.KeyLeft:
		return inputCmd(core.InputMove, core.Keyboard{Left: true})
	case tcell.KeyRight:
		return inputCmd(core.InputMove, core.Keyboard{Right: true})
	case tcell.KeyRune:
	default:
		return keyCommand{}
	}

	switch unicode.ToLower(r) {
	case 'w', 'k':
		return inputCmd(core.InputMove, core.Keyboard{Up: true})
	case 's', 'j':
		return inputCmd(core.InputMove, core.Keyboard{Down: true})
	case 'a', 'h':
		return inputCmd(core.InputMove, core.Keyboard{Left: true})
	case 'd', 'l':
		return inputCmd(core.InputMove, core.Keyboard{Right: true})
	case ' ':
		cmd := inputCmd(core.InputFire, core.Keyboard{Space: true})
		cmd.input.Data.Pressed = true
		return cmd
	case 'p':
		return inputCmd(core.InputPause, core.Keyboard{})
	case 'r':
		return keyCommand{action: actionReset}
	case 'q':
		return keyCommand{action: actionQuit}
	}
	return keyCommand{}
}

func inputCmd(t core.InputType, kb core.Keyboard) keyCommand {
	return keyCommand{action: actionInput, input: event.InputPayload{Type: t, Keyboard: kb}}
}
