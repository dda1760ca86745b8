package main

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/plane-battle/config"
	"github.com/lixenwraith/plane-battle/core"
	"github.com/lixenwraith/plane-battle/event"
	"github.com/lixenwraith/plane-battle/state"
	"github.com/lixenwraith/plane-battle/vmath"
)

func newSimScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Failed to init simulation screen: %v", err)
	}
	screen.SetSize(80, 25)
	t.Cleanup(screen.Fini)
	return screen
}

func playingState(cfg config.GameConfig) *state.GameState {
	s := state.New(cfg, state.NewIDGenerator())
	s.SetStatus(core.StatusPlaying)
	s.UI = core.UIFor(core.StatusPlaying)
	return s
}

func glyphAt(screen tcell.Screen, x, y int) rune {
	r, _, _, _ := screen.GetContent(x, y)
	return r
}

func row(screen tcell.Screen, y int) string {
	w, _ := screen.Size()
	var b strings.Builder
	for x := 0; x < w; x++ {
		b.WriteRune(glyphAt(screen, x, y))
	}
	return b.String()
}

func TestRenderPlaying(t *testing.T) {
	cfg := config.Base()
	screen := newSimScreen(t)
	r := newScreenRenderer(screen, cfg)

	s := playingState(cfg)
	s.Score = 420
	s.Enemies = append(s.Enemies, &state.Enemy{Entity: state.Entity{Position: vmath.V(100, 60), Active: true}})
	s.Bullets = append(s.Bullets,
		&state.Bullet{Entity: state.Entity{Position: vmath.V(400, 300), Active: true}, IsPlayerBullet: true},
		&state.Bullet{Entity: state.Entity{Position: vmath.V(200, 300), Active: true}},
		&state.Bullet{Entity: state.Entity{Position: vmath.V(600, 300)}, IsPlayerBullet: true},
	)
	s.Powerups = append(s.Powerups, &state.Powerup{Entity: state.Entity{Position: vmath.V(700, 100), Active: true}, Type: config.PowerupHealth})

	r.Render(s, event.RenderFramePayload{Frame: 1})

	tests := []struct {
		name string
		x, y int
		want rune
	}{
		{"player", 40, 22, 'A'},
		{"enemy", 10, 3, 'V'},
		{"player bullet", 40, 13, '|'},
		{"enemy bullet", 20, 13, '*'},
		{"inactive bullet", 60, 13, ' '},
		{"powerup", 70, 5, '+'},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := glyphAt(screen, tt.x, tt.y); got != tt.want {
				t.Errorf("Expected %q at (%d,%d), got %q", tt.want, tt.x, tt.y, got)
			}
		})
	}

	if hud := row(screen, 0); !strings.Contains(hud, "SCORE 420") || !strings.Contains(hud, "LIVES 3") {
		t.Errorf("Unexpected HUD %q", hud)
	}
}

func TestRenderInvincibleBlink(t *testing.T) {
	cfg := config.Base()
	screen := newSimScreen(t)
	r := newScreenRenderer(screen, cfg)
	s := playingState(cfg)
	s.Player.Invincible = true

	r.Render(s, event.RenderFramePayload{Frame: 0})
	if got := glyphAt(screen, 40, 22); got != 'A' {
		t.Errorf("Expected player drawn on even blink phase, got %q", got)
	}

	r.Render(s, event.RenderFramePayload{Frame: invincibleBlinkFrames})
	if got := glyphAt(screen, 40, 22); got != ' ' {
		t.Errorf("Expected player hidden on odd blink phase, got %q", got)
	}
}

func TestRenderScreens(t *testing.T) {
	tests := []struct {
		status core.Status
		want   string
	}{
		{core.StatusInit, "PLANE BATTLE"},
		{core.StatusPaused, "PAUSED"},
		{core.StatusGameOver, "GAME OVER  score 0"},
	}

	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			cfg := config.Base()
			screen := newSimScreen(t)
			r := newScreenRenderer(screen, cfg)
			s := state.New(cfg, state.NewIDGenerator())
			s.UI = core.UIFor(tt.status)

			r.Render(s, event.RenderFramePayload{})

			_, h := screen.Size()
			if got := row(screen, h/2-1); !strings.Contains(got, tt.want) {
				t.Errorf("Expected %q on title row, got %q", tt.want, strings.TrimSpace(got))
			}
		})
	}
}

func TestRenderShowsFPSInDebug(t *testing.T) {
	cfg := config.Base()
	cfg.Debug.ShowFPS = true
	screen := newSimScreen(t)
	r := newScreenRenderer(screen, cfg)

	r.Render(playingState(cfg), event.RenderFramePayload{DeltaTime: 0.02})
	if hud := row(screen, 0); !strings.Contains(hud, "FPS 50") {
		t.Errorf("Expected FPS in HUD, got %q", hud)
	}
}

func TestCellBounds(t *testing.T) {
	screen := newSimScreen(t)
	r := newScreenRenderer(screen, config.Base())

	tests := []struct {
		name string
		pos  vmath.Vec2
		ok   bool
	}{
		{"origin", vmath.V(0, 0), true},
		{"left of canvas", vmath.V(-1, 10), false},
		{"above canvas", vmath.V(10, -30), false},
		{"right edge", vmath.V(800, 10), false},
		{"bottom edge", vmath.V(10, 600), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y, ok := r.cell(tt.pos)
			if ok != tt.ok {
				t.Errorf("Expected ok=%v, got %v at (%d,%d)", tt.ok, ok, x, y)
			}
			if ok && y < hudRows {
				t.Errorf("Expected play area row, got %d", y)
			}
		})
	}
}
