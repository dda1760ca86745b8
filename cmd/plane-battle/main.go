package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/plane-battle/audio"
	"github.com/lixenwraith/plane-battle/config"
	"github.com/lixenwraith/plane-battle/core"
	"github.com/lixenwraith/plane-battle/engine"
	"github.com/lixenwraith/plane-battle/event"
)

func main() {
	os.Exit(run())
}

func run() int {
	env, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 2
	}

	configPath := flag.String("config", env.ConfigPath, "TOML overrides file")
	difficulty := flag.String("difficulty", string(env.Difficulty), "Difficulty: easy, normal, hard, nightmare")
	debug := flag.Bool("debug", env.Debug, "Enable debug config and file logging")
	fps := flag.Int("fps", env.FPS, "Frames per second")
	mute := flag.Bool("mute", env.Mute, "Disable sound")
	seed := flag.Int64("seed", 0, "Spawn seed, 0 for time based")
	flag.Parse()

	if logFile := setupLogging(env.LogDir, *debug); logFile != nil {
		defer logFile.Close()
	}

	ctx := context.Background()
	shutdownTracing, err := setupTracing(ctx, env.OtelEndpoint)
	if err != nil {
		log.Printf("[MAIN] tracing disabled: %v", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Printf("[MAIN] tracing shutdown: %v", err)
		}
	}()

	overrides, err := buildOverrides(*configPath, config.Difficulty(*difficulty), *debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 2
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create screen: %v\n", err)
		return 1
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize screen: %v\n", err)
		return 1
	}
	defer screen.Fini()
	// Crashing goroutines restore the terminal before reporting
	core.SetCrashCleanup(screen.Fini)
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	if *fps <= 0 {
		*fps = 60
	}
	frames := engine.NewTickerFrames(time.Second / time.Duration(*fps))
	defer frames.Close()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}
	e, err := engine.New(
		engine.WithFrames(frames),
		engine.WithLogger(log.Default()),
		engine.WithOverrides(overrides...),
		engine.WithRand(rand.New(rand.NewSource(rngSeed))),
	)
	if err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 2
	}
	defer e.Destroy()

	renderer := newScreenRenderer(screen, e.Config())
	e.OnRender(renderer.Render)

	if !*mute {
		sounds := audio.NewSoundManager(e.Config().Audio)
		if err := sounds.Initialize(); err != nil {
			log.Printf("[MAIN] audio initialization failed: %v (continuing without audio)", err)
		} else {
			defer sounds.Cleanup()
			sounds.Bind(e)
			e.On(event.EventConfigChange, func(any) { sounds.SetConfig(e.Config().Audio) })
		}
	}

	e.On(event.EventConfigChange, func(any) { renderer.SetConfig(e.Config()) })
	e.On(event.EventError, func(p any) {
		if ep, ok := p.(event.ErrorPayload); ok {
			log.Printf("[MAIN] error %s: %s", ep.Code, ep.Message)
		}
	})

	events := make(chan tcell.Event, 256)
	core.Go(func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	})

	redrawIdle := func() {
		if !e.Running() {
			renderer.Render(e.State(), event.RenderFramePayload{})
		}
	}
	redrawIdle()

	for ev := range events {
		switch ev := ev.(type) {
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventKey:
			if !dispatch(e, translateKey(ev)) {
				sum := e.Summary()
				e.Destroy()
				screen.Fini()
				fmt.Printf("plane-battle: score %d, level %d, wave %d\n", sum.Score, sum.Level, sum.Wave)
				return 0
			}
		}
		redrawIdle()
	}
	return 0
}

// dispatch applies a key command to the engine, false requests exit
func dispatch(e *engine.Engine, cmd keyCommand) bool {
	switch cmd.action {
	case actionQuit:
		return false
	case actionInput:
		e.Emit(event.EventInputChange, cmd.input)
	case actionStart:
		if s := e.State().Status; s == core.StatusPlaying || s == core.StatusPaused {
			return true
		}
		if err := e.StartGame(); err != nil {
			log.Printf("[MAIN] start: %v", err)
		}
	case actionReset:
		if err := e.ResetGame(); err != nil {
			log.Printf("[MAIN] reset: %v", err)
		}
	case actionDebug:
		e.SetDebug(!e.Config().Debug.Enabled)
	}
	return true
}

// buildOverrides layers the config file, then the difficulty and debug selections
func buildOverrides(path string, d config.Difficulty, debug bool) ([]config.Overrides, error) {
	file, err := config.LoadFile(path)
	if err != nil {
		return nil, err
	}

	var layers []config.Overrides
	if file != nil {
		layers = append(layers, file)
	}
	if d != "" {
		if _, err := config.PresetFor(d); err != nil {
			return nil, err
		}
		layers = append(layers, config.Overrides{"rules": map[string]any{"difficulty_level": string(d)}})
	}
	if debug {
		layers = append(layers, config.Overrides{"debug": map[string]any{
			"enabled":       true,
			"show_hitboxes": true,
			"show_fps":      true,
		}})
	}
	return layers, nil
}
