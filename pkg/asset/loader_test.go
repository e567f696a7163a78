package asset

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 8))
	img.Set(1, 1, color.RGBA{60, 60, 60, 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestLoadDecodesPNG(t *testing.T) {
	fsys := fstest.MapFS{"road/track.png": {Data: pngBytes(t)}}
	l := NewLoader(fsys)

	m, err := l.Load(context.Background(), "road/track.png")
	require.NoError(t, err)
	assert.Equal(t, "road/track.png", m.Name)
	assert.Equal(t, image.Rect(0, 0, 4, 8), m.Texture.Bounds())
}

func TestLoadMissingIsNotFound(t *testing.T) {
	l := NewLoader(fstest.MapFS{})
	_, err := l.Load(context.Background(), "car/lada.png")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadRejectsGarbage(t *testing.T) {
	l := NewLoader(fstest.MapFS{"road/track.png": {Data: []byte("not an image")}})
	_, err := l.Load(context.Background(), "road/track.png")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestLoadHonoursCancellationDuringLatency(t *testing.T) {
	l := NewLoader(fstest.MapFS{"road/track.png": {Data: pngBytes(t)}})
	l.Latency = time.Hour

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := l.Load(ctx, "road/track.png")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestOnProgressReportsEveryLoad(t *testing.T) {
	var mu sync.Mutex
	seen := map[string]error{}
	l := NewLoader(fstest.MapFS{"road/track.png": {Data: pngBytes(t)}})
	l.OnProgress = func(name string, err error) {
		mu.Lock()
		defer mu.Unlock()
		seen[name] = err
	}

	_, _ = l.Load(context.Background(), "road/track.png")
	_, _ = l.Load(context.Background(), "car/lada.png")

	mu.Lock()
	defer mu.Unlock()
	assert.NoError(t, seen["road/track.png"])
	assert.ErrorIs(t, seen["car/lada.png"], ErrNotFound)
}
