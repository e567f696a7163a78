package audio

import (
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate = beep.SampleRate(44100)

	idleHz  = 45.0
	rangeHz = 120.0
)

// HumGenerator is an endless engine note whose pitch follows the throttle.
// SetLoad may be called from any goroutine while the speaker streams.
type HumGenerator struct {
	sr    beep.SampleRate
	phase float64
	load  atomic.Uint64 // float64 bits, 0..1
}

// NewHumGenerator creates an idling engine note
func NewHumGenerator(sr beep.SampleRate) *HumGenerator {
	return &HumGenerator{sr: sr}
}

// SetLoad sets how hard the engine works, clamped to [0,1]
func (g *HumGenerator) SetLoad(load float64) {
	load = math.Max(0, math.Min(1, load))
	g.load.Store(math.Float64bits(load))
}

// Load returns the current engine load
func (g *HumGenerator) Load() float64 {
	return math.Float64frombits(g.load.Load())
}

// Frequency returns the fundamental for the current load
func (g *HumGenerator) Frequency() float64 {
	return idleHz + rangeHz*g.Load()
}

func (g *HumGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	freq := g.Frequency()
	amp := 0.25 + 0.15*g.Load()
	for i := range samples {
		// saw fundamental with a sine an octave down for body
		saw := 2*(g.phase-math.Floor(g.phase)) - 1
		sub := math.Sin(math.Pi * g.phase)
		val := amp * (0.6*saw + 0.4*sub)

		samples[i][0] = val
		samples[i][1] = val

		g.phase += freq / float64(g.sr)
		if g.phase >= 2 {
			g.phase -= 2
		}
	}
	return len(samples), true
}

func (g *HumGenerator) Err() error { return nil }

// Engine plays the hum through the speaker
type Engine struct {
	mu          sync.Mutex
	hum         *HumGenerator
	ctrl        *beep.Ctrl
	volume      *effects.Volume
	mixer       *beep.Mixer
	maxSpeed    float64
	initialized bool
}

// NewEngine creates an engine sound for a car with the given top speed.
// volume is beep's exponential volume: 0 is unchanged, -1 halves.
func NewEngine(maxSpeed, volume float64) *Engine {
	hum := NewHumGenerator(sampleRate)
	ctrl := &beep.Ctrl{Streamer: hum, Paused: true}
	return &Engine{
		hum:  hum,
		ctrl: ctrl,
		volume: &effects.Volume{
			Streamer: ctrl,
			Base:     2,
			Volume:   volume,
		},
		mixer:    &beep.Mixer{},
		maxSpeed: maxSpeed,
	}
}

// Initialize opens the speaker and starts the (paused) hum
func (e *Engine) Initialize() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*100)); err != nil {
		return err
	}
	e.mixer.Add(e.volume)
	speaker.Play(e.mixer)
	e.initialized = true
	return nil
}

// SetSpeed retunes the hum for the car's current speed. Reversing sounds
// the same as driving forward.
func (e *Engine) SetSpeed(speed float64) {
	if e.maxSpeed <= 0 {
		return
	}
	e.hum.SetLoad(math.Abs(speed) / e.maxSpeed)
}

// Start unpauses the hum
func (e *Engine) Start() {
	e.setPaused(false)
}

// Stop pauses the hum
func (e *Engine) Stop() {
	e.setPaused(true)
}

func (e *Engine) setPaused(p bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.initialized {
		e.ctrl.Paused = p
		return
	}
	speaker.Lock()
	e.ctrl.Paused = p
	speaker.Unlock()
}

// Streamer exposes the output chain, mainly for tests
func (e *Engine) Streamer() beep.Streamer {
	return e.volume
}

// Cleanup silences the engine
func (e *Engine) Cleanup() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.initialized {
		return
	}
	speaker.Lock()
	e.ctrl.Paused = true
	speaker.Unlock()
	speaker.Clear()
	e.initialized = false
}
