package audio

import (
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/plane-battle/config"
	"github.com/lixenwraith/plane-battle/event"
)

const (
	sampleRate             = beep.SampleRate(48000)
	speakerBufferDuration  = 100 * time.Millisecond
	burstNoiseAmplitude    = 0.25
	burstRumbleAmplitude   = 0.3
	burstEnvelopeDecayRate = 8.0
)

// Subscriber is the event source the sound manager listens on
type Subscriber interface {
	On(t event.EventType, fn event.Handler) event.ListenerID
}

// cueEvents maps game events to the sound cue they trigger
var cueEvents = []struct {
	event event.EventType
	cue   string
}{
	{event.EventPlayerShoot, config.SoundShoot},
	{event.EventEnemyDead, config.SoundExplosion},
	{event.EventPlayerPowerup, config.SoundPowerup},
	{event.EventGameOver, config.SoundGameOver},
}

// SoundManager plays synthesized cues for game events
//
// Architecture:
//   - Cues are generated, not loaded: sine tones, and a noise burst for explosions
//   - Every operation is a no-op until Initialize succeeds, so the game runs without a device
//   - Looping cues sit behind a beep.Ctrl and stop on pause, game over and reset
type SoundManager struct {
	mu          sync.Mutex
	cfg         config.AudioConfig
	mixer       *beep.Mixer
	loops       map[string]*beep.Ctrl
	initialized bool

	// sink queues a streamer on the output; replaced in tests
	sink   func(beep.Streamer)
	played atomic.Int64
}

// NewSoundManager creates a sound manager for cfg
func NewSoundManager(cfg config.AudioConfig) *SoundManager {
	sm := &SoundManager{
		cfg:   cfg,
		mixer: &beep.Mixer{},
		loops: make(map[string]*beep.Ctrl),
	}
	sm.sink = sm.addToMixer
	return sm
}

// Initialize opens the speaker and starts the mixer
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(speakerBufferDuration)); err != nil {
		return err
	}

	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// Cleanup stops all sounds and closes the speaker
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	speaker.Lock()
	for _, ctrl := range sm.loops {
		ctrl.Paused = true
	}
	sm.mixer.Clear()
	speaker.Unlock()
	clear(sm.loops)

	speaker.Close()
	sm.initialized = false
}

// SetConfig replaces the volume and cue table
func (sm *SoundManager) SetConfig(cfg config.AudioConfig) {
	sm.mu.Lock()
	sm.cfg = cfg
	sm.mu.Unlock()
}

// Played returns the number of cues queued since creation
func (sm *SoundManager) Played() int64 {
	return sm.played.Load()
}

// Play queues the named cue, reports whether anything was queued
// A looping cue already playing is left alone
func (sm *SoundManager) Play(cue string) bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return false
	}
	if ctrl, ok := sm.loops[cue]; ok && !ctrl.Paused {
		return false
	}

	s, ok := sm.cueStreamer(cue)
	if !ok {
		return false
	}
	if snd := sm.cfg.Sounds[cue]; snd.Loop {
		ctrl := &beep.Ctrl{Streamer: s}
		sm.loops[cue] = ctrl
		s = ctrl
	}

	sm.sink(s)
	sm.played.Add(1)
	return true
}

// StopLoops pauses every looping cue
func (sm *SoundManager) StopLoops() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if len(sm.loops) == 0 {
		return
	}
	if sm.initialized {
		speaker.Lock()
		defer speaker.Unlock()
	}
	for name, ctrl := range sm.loops {
		ctrl.Paused = true
		delete(sm.loops, name)
	}
}

// Bind subscribes the cue table on sub
func (sm *SoundManager) Bind(sub Subscriber) {
	for _, ce := range cueEvents {
		cue := ce.cue
		sub.On(ce.event, func(any) { sm.Play(cue) })
	}
	for _, t := range []event.EventType{event.EventGamePause, event.EventGameOver, event.EventGameReset} {
		sub.On(t, func(any) { sm.StopLoops() })
	}
}

// cueStreamer builds the streamer for cue at the configured gain; caller holds sm.mu
func (sm *SoundManager) cueStreamer(cue string) (beep.Streamer, bool) {
	snd, ok := sm.cfg.Sounds[cue]
	if !ok || !sm.cfg.Enabled {
		return nil, false
	}
	gain := Gain(sm.cfg.Volume, snd)
	if gain <= 0 || (snd.Duration <= 0 && !snd.Loop) {
		return nil, false
	}

	var src beep.Streamer
	if cue == config.SoundExplosion {
		src = NewBurstGenerator(sampleRate, snd.Tone)
	} else {
		tone, err := generators.SineTone(sampleRate, snd.Tone)
		if err != nil {
			return nil, false
		}
		src = tone
	}
	if !snd.Loop {
		src = beep.Take(sampleRate.N(time.Duration(snd.Duration*float64(time.Millisecond))), src)
	}

	return &effects.Volume{
		Streamer: src,
		Base:     2,
		Volume:   math.Log2(gain),
	}, true
}

func (sm *SoundManager) addToMixer(s beep.Streamer) {
	speaker.Lock()
	sm.mixer.Add(s)
	speaker.Unlock()
}

// Gain combines master, effect and cue volume into a linear factor in [0, 1]
func Gain(v config.VolumeConfig, snd config.Sound) float64 {
	g := v.Master * v.SFX * snd.Volume
	return math.Max(0, math.Min(1, g))
}

// BurstGenerator generates a decaying noise burst over a low rumble
type BurstGenerator struct {
	sr     beep.SampleRate
	rumble float64
	pos    int
	seed   int64
}

// NewBurstGenerator creates a burst generator with a rumble at freq Hz
func NewBurstGenerator(sr beep.SampleRate, freq float64) *BurstGenerator {
	return &BurstGenerator{
		sr:     sr,
		rumble: freq,
		seed:   time.Now().UnixNano(),
	}
}

func (g *BurstGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)
		envelope := math.Exp(-t * burstEnvelopeDecayRate)

		g.seed = (g.seed*1103515245 + 12345) & 0x7fffffff
		noise := float64(g.seed)/float64(0x7fffffff)*2 - 1
		rumble := burstRumbleAmplitude * math.Sin(2*math.Pi*g.rumble*t)

		sample := envelope * (burstNoiseAmplitude*noise + rumble)
		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *BurstGenerator) Err() error {
	return nil
}
