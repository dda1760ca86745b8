package main

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/plane-battle/config"
	"github.com/lixenwraith/plane-battle/core"
	"github.com/lixenwraith/plane-battle/event"
	"github.com/lixenwraith/plane-battle/state"
	"github.com/lixenwraith/plane-battle/vmath"
)

// hudRows is the number of terminal rows above the play area
const hudRows = 1

// invincibleBlinkFrames is the half-period of the player blink while invincible
const invincibleBlinkFrames = 6

var (
	stylePlayer      = tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true)
	styleEnemy       = tcell.StyleDefault.Foreground(tcell.ColorRed)
	stylePlayerShot  = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleEnemyShot   = tcell.StyleDefault.Foreground(tcell.ColorFuchsia)
	stylePowerup     = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleHUD         = tcell.StyleDefault.Foreground(tcell.ColorWhite).Reverse(true)
	styleOverlay     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleOverlayHint = tcell.StyleDefault.Foreground(tcell.ColorSilver)
)

var powerupGlyphs = map[string]rune{
	config.PowerupHealth:   '+',
	config.PowerupSpeed:    '>',
	config.PowerupFireRate: '!',
	config.PowerupDamage:   '*',
	config.PowerupShield:   'O',
}

// screenRenderer draws game state onto a tcell screen, scaling the canvas to the terminal
// It only reads state and is driven by render-frame events or by the idle redraw in main
type screenRenderer struct {
	screen tcell.Screen
	canvas vmath.Size
	bg     tcell.Style
	debug  config.DebugConfig
}

func newScreenRenderer(screen tcell.Screen, cfg config.GameConfig) *screenRenderer {
	r := &screenRenderer{screen: screen}
	r.SetConfig(cfg)
	return r
}

// SetConfig picks up canvas size, background and debug flags
func (r *screenRenderer) SetConfig(cfg config.GameConfig) {
	r.canvas = vmath.Size{Width: cfg.Canvas.Width, Height: cfg.Canvas.Height}
	r.bg = tcell.StyleDefault
	if c := cfg.Canvas.BackgroundColor; c > 0 {
		r.bg = r.bg.Background(tcell.NewHexColor(int32(c)))
	}
	r.debug = cfg.Debug
}

// Render draws one frame; matches engine.RenderFunc
func (r *screenRenderer) Render(s *state.GameState, f event.RenderFramePayload) {
	r.screen.SetStyle(r.bg)
	r.screen.Clear()

	switch s.UI.CurrentScreen {
	case core.ScreenMenu:
		r.drawOverlay("PLANE BATTLE", "enter: start   arrows/wasd: move   space: fire   p: pause   q: quit")
	default:
		r.drawEntities(s, f)
		r.drawHUD(s, f)
		switch s.UI.CurrentScreen {
		case core.ScreenPause:
			r.drawOverlay("PAUSED", "p: resume   r: reset   q: quit")
		case core.ScreenGameOver:
			r.drawOverlay(fmt.Sprintf("GAME OVER  score %d", s.Score), "enter: play again   r: menu   q: quit")
		}
	}

	r.screen.Show()
}

func (r *screenRenderer) drawEntities(s *state.GameState, f event.RenderFramePayload) {
	for _, p := range s.Powerups {
		if p.Active {
			glyph, ok := powerupGlyphs[p.Type]
			if !ok {
				glyph = '?'
			}
			r.put(p.Position, glyph, stylePowerup)
		}
	}
	for _, e := range s.Enemies {
		if e.Active {
			r.put(e.Position, 'V', styleEnemy)
		}
	}
	for _, b := range s.Bullets {
		if !b.Active {
			continue
		}
		if b.IsPlayerBullet {
			r.put(b.Position, '|', stylePlayerShot)
		} else {
			r.put(b.Position, '*', styleEnemyShot)
		}
	}

	p := s.Player
	if p == nil || !p.Active {
		return
	}
	if p.Invincible && (f.Frame/invincibleBlinkFrames)%2 == 1 {
		return
	}
	r.put(p.Position, 'A', stylePlayer)
}

func (r *screenRenderer) drawHUD(s *state.GameState, f event.RenderFramePayload) {
	w, _ := r.screen.Size()
	for x := 0; x < w; x++ {
		r.screen.SetContent(x, 0, ' ', nil, styleHUD)
	}

	hud := fmt.Sprintf(" SCORE %d  LEVEL %d  WAVE %d", s.Score, s.CurrentLevel, s.CurrentWave)
	if p := s.Player; p != nil {
		hud += fmt.Sprintf("  LIVES %d  HP %d/%d", p.Lives, p.Health, p.MaxHealth)
		if p.Combo.Count > 1 {
			hud += fmt.Sprintf("  COMBO x%.1f", p.Combo.Multiplier)
		}
	}
	if r.debug.ShowFPS && f.DeltaTime > 0 {
		hud += fmt.Sprintf("  FPS %.0f", 1/f.DeltaTime)
	}
	r.drawText(0, 0, hud, styleHUD)
}

func (r *screenRenderer) drawOverlay(title, hint string) {
	w, h := r.screen.Size()
	y := h / 2
	r.drawText((w-len(title))/2, y-1, title, styleOverlay)
	r.drawText((w-len(hint))/2, y+1, hint, styleOverlayHint)
}

// cell maps a canvas position to a terminal cell in the play area
func (r *screenRenderer) cell(pos vmath.Vec2) (x, y int, ok bool) {
	w, h := r.screen.Size()
	rows := h - hudRows
	if w <= 0 || rows <= 0 || r.canvas.Width <= 0 || r.canvas.Height <= 0 {
		return 0, 0, false
	}
	x = int(math.Floor(pos.X / r.canvas.Width * float64(w)))
	y = int(math.Floor(pos.Y/r.canvas.Height*float64(rows))) + hudRows
	if x < 0 || x >= w || y < hudRows || y >= h {
		return 0, 0, false
	}
	return x, y, true
}

func (r *screenRenderer) put(pos vmath.Vec2, glyph rune, style tcell.Style) {
	if x, y, ok := r.cell(pos); ok {
		r.screen.SetContent(x, y, glyph, nil, style)
	}
}

func (r *screenRenderer) drawText(x, y int, text string, style tcell.Style) {
	if x < 0 {
		x = 0
	}
	for i, ch := range []rune(text) {
		r.screen.SetContent(x+i, y, ch, nil, style)
	}
}
