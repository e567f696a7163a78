package terminal

import (
	"context"
	"testing"
	"testing/fstest"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/golangdaddy/infiniteroad/pkg/asset"
	"github.com/golangdaddy/infiniteroad/pkg/config"
	"github.com/golangdaddy/infiniteroad/pkg/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyCode(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want string
		ok   bool
	}{
		{"arrow up", tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), "ArrowUp", true},
		{"arrow down", tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone), "ArrowDown", true},
		{"arrow left", tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), "ArrowLeft", true},
		{"arrow right", tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone), "ArrowRight", true},
		{"lower w", tcell.NewEventKey(tcell.KeyRune, 'w', tcell.ModNone), "KeyW", true},
		{"upper D", tcell.NewEventKey(tcell.KeyRune, 'D', tcell.ModShift), "KeyD", true},
		{"digit", tcell.NewEventKey(tcell.KeyRune, '7', tcell.ModNone), "Digit7", true},
		{"space", tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), "Space", true},
		{"punctuation", tcell.NewEventKey(tcell.KeyRune, '#', tcell.ModNone), "", false},
		{"tab", tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone), "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, ok := KeyCode(tt.ev)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, code)
		})
	}
}

func TestIsQuit(t *testing.T) {
	assert.True(t, IsQuit(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)))
	assert.True(t, IsQuit(tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)))
	assert.False(t, IsQuit(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)))
}

func TestHolderReleasesAfterQuietWindow(t *testing.T) {
	h := NewHolder(150 * time.Millisecond)
	t0 := time.Unix(0, 0)

	assert.True(t, h.Press("KeyW", t0))
	assert.False(t, h.Press("KeyW", t0.Add(100*time.Millisecond)), "repeat keeps the key held")
	assert.True(t, h.Press("KeyA", t0.Add(100*time.Millisecond)))

	assert.Empty(t, h.Expire(t0.Add(200*time.Millisecond)))
	assert.Equal(t, []string{"KeyA", "KeyW"}, h.Expire(t0.Add(250*time.Millisecond)))
	assert.False(t, h.Held("KeyW"))
	assert.True(t, h.Press("KeyW", t0.Add(300*time.Millisecond)))
}

func newSession(t *testing.T) *game.Session {
	t.Helper()
	// no assets at all: every load falls back to a placeholder
	loader := asset.NewLoader(fstest.MapFS{})
	s := game.NewSession(config.Default(), loader, game.FixedClock{Step: FrameInterval}, 80, 24)
	require.NoError(t, s.Start())
	t.Cleanup(s.Close)

	require.Eventually(t, func() bool {
		s.Tick(0)
		return s.Phase() == game.PhasePlaying && s.Track.Pending() == 0
	}, 5*time.Second, time.Millisecond)
	return s
}

func newScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	t.Cleanup(screen.Fini)
	screen.SetSize(80, 24)
	return screen
}

func cellAt(screen tcell.SimulationScreen, x, y int) rune {
	cells, w, _ := screen.GetContents()
	c := cells[y*w+x]
	if len(c.Runes) == 0 {
		return ' '
	}
	return c.Runes[0]
}

func rowText(screen tcell.SimulationScreen, y int) string {
	_, w, _ := screen.GetContents()
	var out []rune
	for x := 0; x < w; x++ {
		out = append(out, cellAt(screen, x, y))
	}
	return string(out)
}

func TestViewDrawsTrackAndCar(t *testing.T) {
	s := newSession(t)
	screen := newScreen(t)

	NewView().Draw(screen, s)
	screen.Show()

	assert.Contains(t, rowText(screen, 0), "SPEED 0 km/h")
	assert.Equal(t, glyphCar, cellAt(screen, 40, 20))
	assert.Equal(t, glyphPlaceholder, cellAt(screen, 40, 10))
	assert.Equal(t, glyphEdge, cellAt(screen, 30, 10))
	assert.Equal(t, glyphEdge, cellAt(screen, 50, 10))
	assert.Equal(t, glyphGrass, cellAt(screen, 0, 10))
	assert.Equal(t, glyphGrass, cellAt(screen, 79, 10))
}

func TestViewShowsCarOffCentre(t *testing.T) {
	s := newSession(t)
	screen := newScreen(t)

	s.Vehicle.X = 5
	NewView().Draw(screen, s)
	screen.Show()
	assert.Equal(t, glyphCar, cellAt(screen, 30, 20))
}

func TestAppDrivesSessionFromKeys(t *testing.T) {
	s := newSession(t)
	screen := newScreen(t)
	app := NewApp(screen, s, 150*time.Millisecond)

	now := time.Unix(0, 0)
	app.now = func() time.Time { return now }

	require.True(t, app.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'w', tcell.ModNone)))
	app.Frame()
	assert.InDelta(t, 0.3, s.Vehicle.Speed, 1e-12)

	now = now.Add(50 * time.Millisecond)
	app.Frame()
	assert.InDelta(t, 0.6, s.Vehicle.Speed, 1e-12)

	// no repeat arrived: the key is released and friction takes over
	now = now.Add(200 * time.Millisecond)
	app.Frame()
	assert.InDelta(t, 0.6*0.95, s.Vehicle.Speed, 1e-12)
	assert.Contains(t, rowText(screen, 0), "SCORE")

	assert.False(t, app.HandleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)))
}

func TestAppRunStopsOnEscape(t *testing.T) {
	s := newSession(t)
	screen := newScreen(t)
	app := NewApp(screen, s, 150*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	// give the event pump a moment to start before injecting
	time.Sleep(20 * time.Millisecond)
	screen.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after Escape")
	}
}
