package terminal

import (
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/gdamore/tcell/v2"
)

// KeyCode maps a terminal key event to the DOM-style code the input state
// uses ("KeyW", "ArrowUp", ...). ok is false for keys with no code.
func KeyCode(ev *tcell.EventKey) (code string, ok bool) {
	switch ev.Key() {
	case tcell.KeyUp:
		return "ArrowUp", true
	case tcell.KeyDown:
		return "ArrowDown", true
	case tcell.KeyLeft:
		return "ArrowLeft", true
	case tcell.KeyRight:
		return "ArrowRight", true
	case tcell.KeyRune:
		r := unicode.ToUpper(ev.Rune())
		switch {
		case r >= 'A' && r <= 'Z':
			return "Key" + string(r), true
		case r >= '0' && r <= '9':
			return "Digit" + string(r), true
		case r == ' ':
			return "Space", true
		}
	}
	return "", false
}

// IsQuit reports whether ev should end the program
func IsQuit(ev *tcell.EventKey) bool {
	return ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
		(ev.Key() == tcell.KeyRune && strings.EqualFold(string(ev.Rune()), "q") && ev.Modifiers()&tcell.ModCtrl != 0)
}

// Holder turns a stream of key presses into held keys. Terminals report
// presses and auto-repeats but never releases, so a key stays down until
// no press for it has arrived within the hold window.
type Holder struct {
	hold time.Duration
	last map[string]time.Time
}

// NewHolder creates a holder with the given hold window
func NewHolder(hold time.Duration) *Holder {
	return &Holder{hold: hold, last: make(map[string]time.Time)}
}

// Press records a press at now. It returns true when the key was not
// already held, meaning the caller should emit a key-down.
func (h *Holder) Press(code string, now time.Time) bool {
	_, held := h.last[code]
	h.last[code] = now
	return !held
}

// Expire releases keys whose last press is older than the hold window and
// returns them in sorted order so the caller can emit key-ups.
func (h *Holder) Expire(now time.Time) []string {
	var released []string
	for code, t := range h.last {
		if now.Sub(t) >= h.hold {
			released = append(released, code)
			delete(h.last, code)
		}
	}
	sort.Strings(released)
	return released
}

// Held reports whether code is currently held
func (h *Holder) Held(code string) bool {
	_, ok := h.last[code]
	return ok
}
