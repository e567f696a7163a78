package game

import (
	"context"
	"image/color"
	"log"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golangdaddy/infiniteroad/pkg/asset"
	"github.com/golangdaddy/infiniteroad/pkg/camera"
	"github.com/golangdaddy/infiniteroad/pkg/config"
	"github.com/golangdaddy/infiniteroad/pkg/input"
	"github.com/golangdaddy/infiniteroad/pkg/road"
	"github.com/golangdaddy/infiniteroad/pkg/scene"
	"github.com/golangdaddy/infiniteroad/pkg/score"
	"github.com/golangdaddy/infiniteroad/pkg/vehicle"
)

var (
	// CarFallbackColor paints the box used when the car model is missing
	CarFallbackColor = color.RGBA{0xff, 0x00, 0x00, 0xff}
	// CarSize is the footprint of the car: width, height, length
	CarSize = mgl64.Vec3{2, 1, 4}
)

type carLoad struct {
	model *asset.Model
	err   error
}

// Session holds everything one drive needs. All methods must be called
// from the frame goroutine; asset loads report back over channels and are
// applied inside Tick.
type Session struct {
	cfg   *config.Config
	phase Phase

	Handling vehicle.Car
	Vehicle  vehicle.State
	Track    *road.Manager
	Scene    *scene.Graph
	Camera   *camera.Camera
	Score    *score.Accumulator
	Input    input.State
	Bindings input.Bindings

	loader    road.Loader
	clock     Clock
	car       *scene.Node
	carResult chan carLoad
	carCancel context.CancelFunc
	reload    chan *config.Config
	frames    int
}

// NewSession creates a session for a w x h viewport. Nothing is requested
// until Start.
func NewSession(cfg *config.Config, loader road.Loader, clock Clock, w, h int) *Session {
	sc := scene.NewGraph()
	return &Session{
		cfg:      cfg,
		phase:    PhaseLoading,
		Handling: vehicle.CarFromConfig(cfg.Vehicle),
		Track:    road.NewManager(road.ConfigFrom(cfg), loader, sc),
		Scene:    sc,
		Camera:   camera.New(cfg.Camera, w, h),
		Score:    score.NewAccumulator(cfg.Score.Rate),
		Input:    input.NewState(),
		Bindings: input.NewBindings(cfg.Input.Forward, cfg.Input.Brake, cfg.Input.Left, cfg.Input.Right),
		loader:   loader,
		clock:    clock,
		reload:   make(chan *config.Config, 1),
	}
}

// Start requests the car model and the initial track window
func (s *Session) Start() error {
	if err := s.Track.Fill(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.carCancel = cancel
	s.carResult = make(chan carLoad, 1)
	name := s.cfg.Assets.Car
	go func() {
		model, err := s.loader.Load(ctx, name)
		s.carResult <- carLoad{model: model, err: err}
	}()

	log.Printf("Session started: loading %s and %d track pieces", name, s.cfg.Track.MaxPieces)
	return nil
}

// Update reads the clock and runs one tick
func (s *Session) Update() {
	s.Tick(s.clock.Delta())
}

// Tick advances the session by one frame. dt only scales the score; the
// vehicle moves a fixed tick unit per call.
func (s *Session) Tick(dt time.Duration) {
	s.frames++
	s.applyReload()

	if s.phase == PhaseLoading {
		s.resolveCar()
	}
	if s.phase != PhasePlaying {
		s.Track.Drain()
		return
	}

	ctl := s.Bindings.Controls(s.Input)
	s.Vehicle = vehicle.Advance(s.Vehicle, ctl, s.Handling, s.cfg.Track.Width)
	s.Track.Tick(s.Vehicle.Z)
	s.Camera.Follow(s.Vehicle.Position(), s.Vehicle.Heading)
	s.Score.Add(s.Vehicle.Speed, dt.Seconds())

	s.car.Position = s.Vehicle.Position()
	s.car.Yaw = s.Vehicle.Heading
	s.car.Roll = s.Vehicle.Tilt(s.Handling)
}

func (s *Session) resolveCar() {
	if s.carResult == nil {
		return
	}
	var r carLoad
	select {
	case r = <-s.carResult:
	default:
		return
	}

	pos := s.Vehicle.Position()
	if r.err != nil {
		log.Printf("Warning: Could not load car model %s, using fallback box: %v", s.cfg.Assets.Car, r.err)
		s.car = scene.NewBox(pos, CarSize, CarFallbackColor)
	} else {
		s.car = scene.NewMesh(r.model.Name, r.model.Texture, pos, CarSize, color.RGBA{0xff, 0xff, 0xff, 0xff})
	}
	s.car.Kind = scene.KindCar
	s.Scene.Add(s.car)
	s.carCancel()
	s.carResult = nil

	s.phase = PhasePlaying
	log.Printf("Game started after %d frames", s.frames)
}

// Reload queues a new configuration for the next tick. Only vehicle
// handling and the score rate change; track geometry is fixed per session.
func (s *Session) Reload(cfg *config.Config) {
	select {
	case s.reload <- cfg:
	default:
		// replace the queued config with the newer one
		select {
		case <-s.reload:
		default:
		}
		s.reload <- cfg
	}
}

func (s *Session) applyReload() {
	select {
	case cfg := <-s.reload:
		s.Handling = vehicle.CarFromConfig(cfg.Vehicle)
		s.Score.Rate = cfg.Score.Rate
		log.Printf("Applied new handling: max speed %.1f, score rate %.1f", s.Handling.MaxSpeed, s.Score.Rate)
	default:
	}
}

// KeyDown records a key press by its DOM-style code
func (s *Session) KeyDown(code string) {
	s.Input.KeyDown(code)
}

// KeyUp records a key release by its DOM-style code
func (s *Session) KeyUp(code string) {
	s.Input.KeyUp(code)
}

// Resize follows a viewport size change
func (s *Session) Resize(w, h int) {
	s.Camera.Resize(w, h)
}

// Phase returns the lifecycle state
func (s *Session) Phase() Phase {
	return s.phase
}

// Car returns the car node, nil while loading
func (s *Session) Car() *scene.Node {
	return s.car
}

// Readout returns the values the HUD shows
func (s *Session) Readout() score.Readout {
	return s.Score.Read(s.Vehicle.Speed)
}

// Progress reports resolved and requested asset loads for the loading screen
func (s *Session) Progress() (done, total int) {
	st := s.Track.Stats()
	done = st.Loaded + st.Placeholder + st.Discarded
	total = st.Requested + 1
	if s.car != nil {
		done++
	}
	return done, total
}

// Frames returns the number of ticks run
func (s *Session) Frames() int {
	return s.frames
}

// Close cancels outstanding loads
func (s *Session) Close() {
	if s.carCancel != nil {
		s.carCancel()
	}
	s.Track.Close()
}
