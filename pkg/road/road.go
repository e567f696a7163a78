package road

import (
	"context"
	"errors"
	"image/color"
	"log"
	"math"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golangdaddy/infiniteroad/pkg/asset"
	"github.com/golangdaddy/infiniteroad/pkg/config"
	"github.com/golangdaddy/infiniteroad/pkg/scene"
	"github.com/segmentio/ksuid"
)

// ErrClosed is returned when requesting segments from a closed manager
var ErrClosed = errors.New("road: manager closed")

var (
	// PlaceholderColor is the asphalt grey of a fallback segment
	PlaceholderColor = color.RGBA{0x33, 0x33, 0x33, 0xff}
	// MeshTint darkens loaded track textures to read as road
	MeshTint = color.RGBA{204, 204, 204, 255}
)

// Loader fetches the model used for every track segment
type Loader interface {
	Load(ctx context.Context, name string) (*asset.Model, error)
}

// Scene is where segments are placed and removed
type Scene interface {
	Add(n *scene.Node)
	Remove(n *scene.Node) bool
}

// Config describes the track window
type Config struct {
	Asset         string
	Width         float64
	SegmentLength float64
	MaxPieces     int
	TrailDistance float64
	LoadTimeout   time.Duration // 0 waits forever
}

// ConfigFrom builds the track config from the application config
func ConfigFrom(cfg *config.Config) Config {
	return Config{
		Asset:         cfg.Assets.Track,
		Width:         cfg.Track.Width,
		SegmentLength: cfg.Track.SegmentLength,
		MaxPieces:     cfg.Track.MaxPieces,
		TrailDistance: cfg.Track.TrailDistance,
		LoadTimeout:   cfg.Track.LoadTimeout,
	}
}

// Segment is one placed stretch of road
type Segment struct {
	Node        *scene.Node
	Z           float64
	Placeholder bool
}

// Stats counts what the manager has done since it was created
type Stats struct {
	Requested   int
	Loaded      int
	Placeholder int
	Discarded   int
	Evicted     int
}

type request struct {
	id     string
	z      float64
	cancel context.CancelFunc
}

type result struct {
	id    string
	z     float64
	model *asset.Model
	err   error
}

// Manager keeps a window of segments from just behind the car to a fixed
// distance ahead. Requests are issued synchronously and fulfilled on a
// background goroutine; fulfilment is applied by Drain or Tick on the
// caller's goroutine, so segments and the scene are only touched there.
type Manager struct {
	cfg    Config
	loader Loader
	scene  Scene

	segments     []*Segment
	pending      map[float64]*request // keyed by target position
	lastPosition float64              // high-water mark of requested positions
	trailLine    float64              // segments behind this are unwanted
	stats        Stats

	results chan result
	done    chan struct{}
	wg      sync.WaitGroup
	closed  bool
}

// NewManager creates an empty track manager. Call Fill to request the
// initial window.
func NewManager(cfg Config, loader Loader, sc Scene) *Manager {
	return &Manager{
		cfg:       cfg,
		loader:    loader,
		scene:     sc,
		segments:  make([]*Segment, 0, cfg.MaxPieces),
		pending:   make(map[float64]*request),
		trailLine: -cfg.TrailDistance,
		results:   make(chan result, cfg.MaxPieces*2),
		done:      make(chan struct{}),
	}
}

// Fill requests the initial MaxPieces segments at 0, L, 2L, ...
func (m *Manager) Fill() error {
	for i := 0; i < m.cfg.MaxPieces; i++ {
		if err := m.RequestSegment(float64(i) * m.cfg.SegmentLength); err != nil {
			return err
		}
	}
	return nil
}

// RequestSegment starts loading the segment at z. The high-water mark moves
// immediately so repeated ticks never request the same position twice.
// Load failures are never returned; they become placeholders when drained.
func (m *Manager) RequestSegment(z float64) error {
	if m.closed {
		return ErrClosed
	}
	m.lastPosition = math.Max(m.lastPosition, z)
	if _, ok := m.pending[z]; ok || m.hasSegment(z) {
		return nil
	}

	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if m.cfg.LoadTimeout > 0 {
		ctx, cancel = context.WithTimeout(context.Background(), m.cfg.LoadTimeout)
	} else {
		ctx, cancel = context.WithCancel(context.Background())
	}
	req := &request{id: ksuid.New().String(), z: z, cancel: cancel}
	m.pending[z] = req
	m.stats.Requested++
	log.Printf("Requesting track piece %s at z=%.0f", req.id, z)

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		model, err := m.loader.Load(ctx, m.cfg.Asset)
		select {
		case m.results <- result{id: req.id, z: z, model: model, err: err}:
		case <-m.done:
		}
	}()
	return nil
}

// Drain applies every completed load without blocking
func (m *Manager) Drain() {
	for {
		select {
		case r := <-m.results:
			m.apply(r)
		default:
			return
		}
	}
}

// Settle blocks until no request is pending or ctx ends, applying
// completions as they arrive.
func (m *Manager) Settle(ctx context.Context) error {
	for len(m.pending) > 0 {
		select {
		case r := <-m.results:
			m.apply(r)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (m *Manager) apply(r result) {
	req, ok := m.pending[r.z]
	if !ok || req.id != r.id {
		// cancelled by eviction; nothing waits for it any more
		return
	}
	delete(m.pending, r.z)
	req.cancel()

	if r.z < m.trailLine {
		m.stats.Discarded++
		log.Printf("Discarding track piece %s at z=%.0f: already behind the car", r.id, r.z)
		return
	}

	seg := &Segment{Z: r.z}
	pos := mgl64.Vec3{0, 0, r.z}
	size := mgl64.Vec3{m.cfg.Width, 0.1, m.cfg.SegmentLength}
	if r.err != nil {
		log.Printf("Warning: failed to load track piece %s at z=%.0f, creating fallback: %v", r.id, r.z, r.err)
		seg.Node = scene.NewBox(pos, size, PlaceholderColor)
		seg.Placeholder = true
		m.stats.Placeholder++
	} else {
		seg.Node = scene.NewMesh(r.model.Name, r.model.Texture, pos, size, MeshTint)
		m.stats.Loaded++
		log.Printf("Placed track piece %s at z=%.0f", r.id, r.z)
	}

	m.segments = append(m.segments, seg)
	m.scene.Add(seg.Node)
	m.lastPosition = math.Max(m.lastPosition, r.z)
}

// Tick applies finished loads, evicts segments more than TrailDistance
// behind vehicleZ, and requests new segments ahead until the window
// (placed plus in flight) holds MaxPieces.
func (m *Manager) Tick(vehicleZ float64) {
	if m.closed {
		return
	}
	m.trailLine = vehicleZ - m.cfg.TrailDistance
	m.Drain()

	kept := m.segments[:0]
	for _, seg := range m.segments {
		if seg.Z < m.trailLine {
			m.scene.Remove(seg.Node)
			m.stats.Evicted++
			continue
		}
		kept = append(kept, seg)
	}
	for i := len(kept); i < len(m.segments); i++ {
		m.segments[i] = nil
	}
	m.segments = kept

	for z, req := range m.pending {
		if z < m.trailLine {
			req.cancel()
			delete(m.pending, z)
			m.stats.Discarded++
			log.Printf("Cancelled track piece %s at z=%.0f: left behind before it loaded", req.id, z)
		}
	}

	for len(m.segments)+len(m.pending) < m.cfg.MaxPieces {
		m.lastPosition += m.cfg.SegmentLength
		if err := m.RequestSegment(m.lastPosition); err != nil {
			return
		}
	}
}

// Close cancels in-flight loads and waits for their goroutines to exit.
// Placed segments stay in the scene.
func (m *Manager) Close() {
	if m.closed {
		return
	}
	m.closed = true
	for z, req := range m.pending {
		req.cancel()
		delete(m.pending, z)
	}
	close(m.done)
	m.wg.Wait()
}

func (m *Manager) hasSegment(z float64) bool {
	for _, seg := range m.segments {
		if seg.Z == z {
			return true
		}
	}
	return false
}

// Segments returns the placed segments in the order they were inserted
func (m *Manager) Segments() []Segment {
	out := make([]Segment, len(m.segments))
	for i, seg := range m.segments {
		out[i] = *seg
	}
	return out
}

// Len returns the number of placed segments
func (m *Manager) Len() int {
	return len(m.segments)
}

// Pending returns the number of requests still in flight
func (m *Manager) Pending() int {
	return len(m.pending)
}

// LastPosition returns the high-water mark
func (m *Manager) LastPosition() float64 {
	return m.lastPosition
}

// Stats returns the manager's counters
func (m *Manager) Stats() Stats {
	return m.stats
}

// Config returns the window configuration
func (m *Manager) Config() Config {
	return m.cfg
}
