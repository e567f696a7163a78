package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides, e.g. ROADSTER_TRACK_WIDTH
const EnvPrefix = "ROADSTER"

// WindowConfig holds the initial window settings
type WindowConfig struct {
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
	Title  string `mapstructure:"title"`
}

// VehicleConfig holds the handling constants of the player's car
type VehicleConfig struct {
	MaxSpeed          float64 `mapstructure:"max_speed"`
	Acceleration      float64 `mapstructure:"acceleration"`
	BrakeDeceleration float64 `mapstructure:"brake_deceleration"`
	ReverseLimit      float64 `mapstructure:"reverse_limit"`
	Friction          float64 `mapstructure:"friction"`
	TurnRate          float64 `mapstructure:"turn_rate"`
	TickUnit          float64 `mapstructure:"tick_unit"`
	TiltFactor        float64 `mapstructure:"tilt_factor"`
}

// TrackConfig holds the geometry of the endless track window
type TrackConfig struct {
	Width         float64       `mapstructure:"width"`
	SegmentLength float64       `mapstructure:"segment_length"`
	MaxPieces     int           `mapstructure:"max_pieces"`
	TrailDistance float64       `mapstructure:"trail_distance"`
	LoadTimeout   time.Duration `mapstructure:"load_timeout"`
}

// CameraConfig holds the chase camera placement and lens
type CameraConfig struct {
	FOV        float64 `mapstructure:"fov"`
	Near       float64 `mapstructure:"near"`
	Far        float64 `mapstructure:"far"`
	Distance   float64 `mapstructure:"distance"`
	Height     float64 `mapstructure:"height"`
	LookHeight float64 `mapstructure:"look_height"`
	LookAhead  float64 `mapstructure:"look_ahead"`
}

// ScoreConfig holds the score multiplier
type ScoreConfig struct {
	Rate float64 `mapstructure:"rate"`
}

// AssetConfig locates the model files
type AssetConfig struct {
	Dir   string `mapstructure:"dir"`
	Car   string `mapstructure:"car"`
	Track string `mapstructure:"track"`
}

// AudioConfig controls the engine hum
type AudioConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	Volume  float64 `mapstructure:"volume"`
}

// InputConfig maps actions to key codes
type InputConfig struct {
	Forward []string `mapstructure:"forward"`
	Brake   []string `mapstructure:"brake"`
	Left    []string `mapstructure:"left"`
	Right   []string `mapstructure:"right"`
}

// TerminalConfig holds settings for the terminal frontend
type TerminalConfig struct {
	Hold time.Duration `mapstructure:"hold"`
}

// Config is the complete application configuration
type Config struct {
	Window   WindowConfig   `mapstructure:"window"`
	Vehicle  VehicleConfig  `mapstructure:"vehicle"`
	Track    TrackConfig    `mapstructure:"track"`
	Camera   CameraConfig   `mapstructure:"camera"`
	Score    ScoreConfig    `mapstructure:"score"`
	Assets   AssetConfig    `mapstructure:"assets"`
	Audio    AudioConfig    `mapstructure:"audio"`
	Input    InputConfig    `mapstructure:"input"`
	Terminal TerminalConfig `mapstructure:"terminal"`
}

// Options tells Load where to look for configuration sources.
// Empty paths are skipped; missing files fall back to defaults.
type Options struct {
	File    string
	EnvFile string
}

var defaults = map[string]any{
	"window.width":  1024,
	"window.height": 600,
	"window.title":  "Infinite Road",

	"vehicle.max_speed":          50.0,
	"vehicle.acceleration":       0.3,
	"vehicle.brake_deceleration": 0.5,
	"vehicle.reverse_limit":      -10.0,
	"vehicle.friction":           0.95,
	"vehicle.turn_rate":          0.02,
	"vehicle.tick_unit":          0.1,
	"vehicle.tilt_factor":        0.3,

	"track.width":          10.0,
	"track.segment_length": 50.0,
	"track.max_pieces":     10,
	"track.trail_distance": 100.0,
	"track.load_timeout":   5 * time.Second,

	"camera.fov":         75.0,
	"camera.near":        0.1,
	"camera.far":         1000.0,
	"camera.distance":    15.0,
	"camera.height":      8.0,
	"camera.look_height": 2.0,
	"camera.look_ahead":  10.0,

	"score.rate": 10.0,

	"assets.dir":   "assets",
	"assets.car":   "car/lada.png",
	"assets.track": "road/track.png",

	"audio.enabled": true,
	"audio.volume":  -1.0,

	"input.forward": []string{"KeyW", "ArrowUp"},
	"input.brake":   []string{"KeyS", "ArrowDown"},
	"input.left":    []string{"KeyA", "ArrowLeft"},
	"input.right":   []string{"KeyD", "ArrowRight"},

	"terminal.hold": 150 * time.Millisecond,
}

// Loader owns the viper instance and the most recent valid config
type Loader struct {
	v *viper.Viper

	mu      sync.RWMutex
	current *Config
}

// Default returns the built-in configuration without reading any source
func Default() *Config {
	l := newLoader()
	cfg, err := l.decode()
	if err != nil {
		// defaults are static; failing here is a programming error
		panic(fmt.Sprintf("config: invalid defaults: %v", err))
	}
	return cfg
}

func newLoader() *Loader {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return &Loader{v: v}
}

// Load builds a configuration from defaults, the optional .env file,
// environment variables and the optional YAML file.
func Load(opts Options) (*Loader, error) {
	if opts.EnvFile != "" {
		// godotenv never overrides variables that are already set
		if err := godotenv.Load(opts.EnvFile); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to load env file %s: %w", opts.EnvFile, err)
			}
			log.Printf("No env file at %s, skipping", opts.EnvFile)
		}
	}

	l := newLoader()
	if opts.File != "" {
		l.v.SetConfigFile(opts.File)
		l.v.SetConfigType("yaml")
		if err := l.v.ReadInConfig(); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config %s: %w", opts.File, err)
			}
			log.Printf("No config file at %s, using defaults", opts.File)
			l = newLoader()
		}
	}

	cfg, err := l.decode()
	if err != nil {
		return nil, err
	}
	l.current = cfg
	return l, nil
}

// Current returns the most recent valid configuration
func (l *Loader) Current() *Config {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

// ConfigFile returns the file being used, or "" when running on defaults
func (l *Loader) ConfigFile() string {
	return l.v.ConfigFileUsed()
}

// Watch reloads the file on change and hands every valid config to onChange.
// onChange runs on the watcher goroutine.
func (l *Loader) Watch(onChange func(*Config)) {
	if l.v.ConfigFileUsed() == "" {
		return
	}
	l.v.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := l.decode()
		if err != nil {
			log.Printf("Ignoring config change (%s): %v", e.Name, err)
			return
		}
		l.mu.Lock()
		l.current = cfg
		l.mu.Unlock()
		log.Printf("Config reloaded from %s", e.Name)
		if onChange != nil {
			onChange(cfg)
		}
	})
	l.v.WatchConfig()
}

func (l *Loader) decode() (*Config, error) {
	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the simulation cannot run with
func (c *Config) Validate() error {
	var errs []error
	if c.Vehicle.MaxSpeed <= 0 {
		errs = append(errs, fmt.Errorf("vehicle.max_speed must be positive, got %v", c.Vehicle.MaxSpeed))
	}
	if c.Vehicle.Friction <= 0 || c.Vehicle.Friction > 1 {
		errs = append(errs, fmt.Errorf("vehicle.friction must be in (0,1], got %v", c.Vehicle.Friction))
	}
	if c.Vehicle.ReverseLimit > 0 {
		errs = append(errs, fmt.Errorf("vehicle.reverse_limit must not be positive, got %v", c.Vehicle.ReverseLimit))
	}
	if c.Track.Width <= 0 {
		errs = append(errs, fmt.Errorf("track.width must be positive, got %v", c.Track.Width))
	}
	if c.Track.SegmentLength <= 0 {
		errs = append(errs, fmt.Errorf("track.segment_length must be positive, got %v", c.Track.SegmentLength))
	}
	if c.Track.MaxPieces <= 0 {
		errs = append(errs, fmt.Errorf("track.max_pieces must be positive, got %d", c.Track.MaxPieces))
	}
	if c.Track.LoadTimeout < 0 {
		errs = append(errs, fmt.Errorf("track.load_timeout must not be negative, got %v", c.Track.LoadTimeout))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
