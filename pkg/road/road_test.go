package road

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/golangdaddy/infiniteroad/pkg/asset"
	"github.com/golangdaddy/infiniteroad/pkg/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLoader returns a model (or err) after block is closed, or
// immediately when block is nil
type fakeLoader struct {
	mu    sync.Mutex
	err   error
	block chan struct{}
	calls int
}

func (f *fakeLoader) Load(ctx context.Context, name string) (*asset.Model, error) {
	f.mu.Lock()
	f.calls++
	block, err := f.block, f.err
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return &asset.Model{Name: name}, nil
}

func testConfig() Config {
	return Config{
		Asset:         "road/track.png",
		Width:         10,
		SegmentLength: 50,
		MaxPieces:     10,
		TrailDistance: 100,
	}
}

func settle(t *testing.T, m *Manager) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, m.Settle(ctx))
}

func positions(m *Manager) []float64 {
	var zs []float64
	for _, seg := range m.Segments() {
		zs = append(zs, seg.Z)
	}
	sort.Float64s(zs)
	return zs
}

func newManager(t *testing.T, cfg Config, loader Loader) (*Manager, *scene.Graph) {
	t.Helper()
	g := scene.NewGraph()
	m := NewManager(cfg, loader, g)
	t.Cleanup(m.Close)
	return m, g
}

func TestFillCreatesContiguousWindow(t *testing.T) {
	m, g := newManager(t, testConfig(), &fakeLoader{})
	require.NoError(t, m.Fill())
	settle(t, m)

	assert.Equal(t, []float64{0, 50, 100, 150, 200, 250, 300, 350, 400, 450}, positions(m))
	assert.Equal(t, 10, g.Len())
	assert.Equal(t, 450.0, m.LastPosition())
	assert.Zero(t, m.Pending())
	for _, seg := range m.Segments() {
		assert.False(t, seg.Placeholder)
		assert.Equal(t, scene.KindMesh, seg.Node.Kind)
		assert.Equal(t, seg.Z, seg.Node.Position.Z())
	}
}

func TestTickEvictsBehindTrailLineAndRefills(t *testing.T) {
	m, g := newManager(t, testConfig(), &fakeLoader{})
	require.NoError(t, m.Fill())
	settle(t, m)

	m.Tick(250)
	for _, seg := range m.Segments() {
		assert.GreaterOrEqual(t, seg.Z, 150.0)
	}
	assert.Equal(t, 7, m.Len(), "segments at 0, 50, 100 are evicted")
	assert.Equal(t, 10, m.Len()+m.Pending())
	assert.Equal(t, 600.0, m.LastPosition())
	assert.Equal(t, 3, m.Stats().Evicted)

	settle(t, m)
	assert.Equal(t, []float64{150, 200, 250, 300, 350, 400, 450, 500, 550, 600}, positions(m))
	assert.Equal(t, 10, g.Len())
}

func TestFailedLoadBecomesPlaceholderAtRequestedPosition(t *testing.T) {
	m, g := newManager(t, testConfig(), &fakeLoader{err: errors.New("404")})
	require.NoError(t, m.RequestSegment(150))

	require.Eventually(t, func() bool { return len(m.results) == 1 }, 5*time.Second, time.Millisecond)
	m.Drain()

	segs := m.Segments()
	require.Len(t, segs, 1)
	assert.Equal(t, 150.0, segs[0].Z)
	assert.True(t, segs[0].Placeholder)
	assert.Equal(t, scene.KindPlaceholder, segs[0].Node.Kind)
	assert.Equal(t, PlaceholderColor, segs[0].Node.Color)
	assert.True(t, g.Contains(segs[0].Node))
	assert.Equal(t, 1, m.Stats().Placeholder)
}

func TestWindowNeverExceedsMaxPieces(t *testing.T) {
	m, _ := newManager(t, testConfig(), &fakeLoader{})
	require.NoError(t, m.Fill())

	for z := 0.0; z < 3000; z += 7.5 {
		m.Tick(z)
		require.LessOrEqual(t, m.Len(), 10)
		require.LessOrEqual(t, m.Len()+m.Pending(), 10)
		for _, seg := range m.Segments() {
			require.GreaterOrEqual(t, seg.Z, z-100)
		}
	}

	settle(t, m)
	assert.Equal(t, 10, m.Len())
	zs := positions(m)
	for i := 1; i < len(zs); i++ {
		assert.Equal(t, 50.0, zs[i]-zs[i-1])
	}
	assert.Zero(t, int(zs[0])%50)
}

func TestDuplicateRequestIsIgnored(t *testing.T) {
	loader := &fakeLoader{}
	m, _ := newManager(t, testConfig(), loader)

	require.NoError(t, m.RequestSegment(0))
	require.NoError(t, m.RequestSegment(0))
	settle(t, m)
	require.NoError(t, m.RequestSegment(0))

	assert.Equal(t, 1, m.Stats().Requested)
	assert.Equal(t, 1, m.Len())
}

func TestStalledLoadsAreCancelledWhenLeftBehind(t *testing.T) {
	loader := &fakeLoader{block: make(chan struct{})}
	m, _ := newManager(t, testConfig(), loader)
	require.NoError(t, m.Fill())

	m.Tick(0)
	assert.Equal(t, 10, m.Pending())
	assert.Zero(t, m.Len())

	// the whole in-flight window is now behind the car
	m.Tick(600)
	assert.Equal(t, 10, m.Pending())
	assert.Equal(t, 10, m.Stats().Discarded)
	assert.Equal(t, 950.0, m.LastPosition())

	close(loader.block)
	settle(t, m)
	assert.Equal(t, []float64{500, 550, 600, 650, 700, 750, 800, 850, 900, 950}, positions(m))
}

func TestLoadTimeoutFallsBackToPlaceholder(t *testing.T) {
	cfg := testConfig()
	cfg.LoadTimeout = 20 * time.Millisecond
	m, _ := newManager(t, cfg, &fakeLoader{block: make(chan struct{})})
	require.NoError(t, m.Fill())
	settle(t, m)

	assert.Equal(t, 10, m.Len())
	for _, seg := range m.Segments() {
		assert.True(t, seg.Placeholder)
	}
}

func TestLateCompletionBehindCarIsDiscarded(t *testing.T) {
	m, g := newManager(t, testConfig(), &fakeLoader{})
	require.NoError(t, m.RequestSegment(0))
	require.Eventually(t, func() bool { return len(m.results) == 1 }, 5*time.Second, time.Millisecond)

	m.Tick(500)
	for _, seg := range m.Segments() {
		assert.NotEqual(t, 0.0, seg.Z)
	}
	assert.Zero(t, g.Len())
	assert.Equal(t, 1, m.Stats().Discarded)
}

func TestCloseStopsRequests(t *testing.T) {
	loader := &fakeLoader{block: make(chan struct{})}
	m := NewManager(testConfig(), loader, scene.NewGraph())
	require.NoError(t, m.Fill())

	m.Close()
	assert.Zero(t, m.Pending())
	assert.ErrorIs(t, m.RequestSegment(1000), ErrClosed)
	m.Tick(100)
	assert.Zero(t, m.Pending())
	m.Close()
}
