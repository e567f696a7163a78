package terminal

import (
	"context"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/golangdaddy/infiniteroad/pkg/game"
)

// FrameInterval is the terminal frame rate, about 60 FPS
const FrameInterval = 16 * time.Millisecond

// App drives a session from a tcell screen
type App struct {
	screen  tcell.Screen
	session *game.Session
	view    *View
	holder  *Holder
	now     func() time.Time
}

// NewApp wires a session to an initialised screen
func NewApp(screen tcell.Screen, session *game.Session, hold time.Duration) *App {
	return &App{
		screen:  screen,
		session: session,
		view:    NewView(),
		holder:  NewHolder(hold),
		now:     time.Now,
	}
}

// Run polls events and ticks the session until the user quits or ctx ends
func (a *App) Run(ctx context.Context) error {
	ticker := time.NewTicker(FrameInterval)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	quit := make(chan struct{})
	go a.screen.ChannelEvents(events, quit)
	defer close(quit)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !a.HandleEvent(ev) {
				log.Printf("Quit after %d frames", a.session.Frames())
				return nil
			}

		case <-ticker.C:
			a.Frame()
		}
	}
}

// HandleEvent applies one terminal event. It returns false when the user
// asked to quit.
func (a *App) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if IsQuit(ev) {
			return false
		}
		if code, ok := KeyCode(ev); ok && a.holder.Press(code, a.now()) {
			a.session.KeyDown(code)
		}
	case *tcell.EventResize:
		w, h := ev.Size()
		a.session.Resize(w, h)
		a.screen.Sync()
	}
	return true
}

// Frame releases lapsed keys, ticks the session and redraws
func (a *App) Frame() {
	for _, code := range a.holder.Expire(a.now()) {
		a.session.KeyUp(code)
	}
	a.session.Update()
	a.view.Draw(a.screen, a.session)
	a.screen.Show()
}
