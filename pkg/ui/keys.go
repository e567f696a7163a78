package ui

import (
	"unicode"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// KeyCode returns the DOM-style code for k: letters become "KeyW", other
// keys keep ebiten's name ("ArrowUp", "Digit1", "Space").
func KeyCode(k ebiten.Key) string {
	name := k.String()
	if r := []rune(name); len(r) == 1 && unicode.IsLetter(r[0]) {
		return "Key" + string(unicode.ToUpper(r[0]))
	}
	return name
}

// KeyEvents collects this frame's key transitions as DOM-style codes.
// buf is reused between calls.
type KeyEvents struct {
	buf []ebiten.Key
}

// Poll calls down for every key pressed this frame and up for every key
// released this frame
func (e *KeyEvents) Poll(down, up func(code string)) {
	e.buf = inpututil.AppendJustPressedKeys(e.buf[:0])
	for _, k := range e.buf {
		down(KeyCode(k))
	}
	e.buf = inpututil.AppendJustReleasedKeys(e.buf[:0])
	for _, k := range e.buf {
		up(KeyCode(k))
	}
}
