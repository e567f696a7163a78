package main

import (
	"flag"
	"log"
	"path/filepath"

	"github.com/golangdaddy/infiniteroad/pkg/asset"
	"github.com/golangdaddy/infiniteroad/pkg/audio"
	"github.com/golangdaddy/infiniteroad/pkg/config"
	"github.com/golangdaddy/infiniteroad/pkg/game"
	"github.com/golangdaddy/infiniteroad/pkg/render"
	"github.com/golangdaddy/infiniteroad/pkg/ui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/segmentio/ksuid"
)

// Game implements ebiten.Game interface.
type Game struct {
	session  *game.Session
	loading  *ui.LoadingScreen
	renderer *render.Renderer
	hud      *ui.HUD
	engine   *audio.Engine
	keys     ui.KeyEvents

	phase         game.Phase
	width, height int
}

// Update proceeds the game state.
// Update is called every tick (1/60 [s] by default).
func (g *Game) Update() error {
	g.keys.Poll(g.session.KeyDown, g.session.KeyUp)
	g.session.Update()

	if phase := g.session.Phase(); phase != g.phase {
		g.phase = phase
		if phase == game.PhasePlaying && g.engine != nil {
			g.engine.Start()
		}
	}
	if g.engine != nil {
		g.engine.SetSpeed(g.session.Vehicle.Speed)
	}

	if g.phase == game.PhaseLoading {
		return g.loading.Update()
	}
	return nil
}

// Draw draws the game screen.
// Draw is called every frame (typically 1/60[s] for 60Hz display).
func (g *Game) Draw(screen *ebiten.Image) {
	switch g.phase {
	case game.PhaseLoading:
		g.loading.Draw(screen)
	case game.PhasePlaying:
		g.renderer.Draw(screen, g.session.Camera, g.session.Scene, g.session.Vehicle.Position())
		g.hud.Draw(screen, g.session.Readout())
	}
}

// Layout follows the window size so the camera aspect matches the viewport
func (g *Game) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		g.session.Resize(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

func main() {
	configFile := flag.String("config", "roadster.yaml", "path to the YAML config file")
	envFile := flag.String("env", ".env", "path to an optional .env file")
	latency := flag.Duration("latency", 0, "artificial delay added to every asset load")
	flag.Parse()

	log.SetPrefix("[" + ksuid.New().String() + "] ")

	cfgLoader, err := config.Load(config.Options{File: *configFile, EnvFile: *envFile})
	if err != nil {
		log.Fatal(err)
	}
	cfg := cfgLoader.Current()

	loader := asset.NewDirLoader(cfg.Assets.Dir)
	loader.Latency = *latency
	loader.OnProgress = func(name string, err error) {
		if err != nil {
			log.Printf("Error loading %s: %v", name, err)
			return
		}
		log.Printf("Loaded %s", name)
	}

	session := game.NewSession(cfg, loader, game.NewRealClock(), cfg.Window.Width, cfg.Window.Height)
	if err := session.Start(); err != nil {
		log.Fatal(err)
	}
	defer session.Close()
	cfgLoader.Watch(session.Reload)

	g := &Game{
		session:  session,
		loading:  ui.NewLoadingScreen(cfg.Window.Title, session.Progress),
		renderer: render.NewRenderer(filepath.Join(cfg.Assets.Dir, "ground.png")),
		hud:      ui.NewHUD(cfg.Vehicle.MaxSpeed),
		width:    cfg.Window.Width,
		height:   cfg.Window.Height,
	}

	if cfg.Audio.Enabled {
		engine := audio.NewEngine(cfg.Vehicle.MaxSpeed, cfg.Audio.Volume)
		if err := engine.Initialize(); err != nil {
			log.Printf("Warning: Could not open audio, continuing without sound: %v", err)
		} else {
			g.engine = engine
			defer engine.Cleanup()
		}
	}

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
