package input

// Action is something the driver can ask the car to do
type Action int

const (
	ActionForward Action = iota
	ActionBrake
	ActionLeft
	ActionRight
)

func (a Action) String() string {
	switch a {
	case ActionForward:
		return "forward"
	case ActionBrake:
		return "brake"
	case ActionLeft:
		return "left"
	case ActionRight:
		return "right"
	}
	return "unknown"
}

// State maps a key code (e.g. "KeyW", "ArrowUp") to whether it is currently held.
// Keys are only ever flipped individually by KeyDown/KeyUp.
type State map[string]bool

// NewState creates an empty input state
func NewState() State {
	return make(State)
}

// KeyDown marks code as held
func (s State) KeyDown(code string) {
	s[code] = true
}

// KeyUp marks code as released
func (s State) KeyUp(code string) {
	s[code] = false
}

// Held reports whether code is currently held
func (s State) Held(code string) bool {
	return s[code]
}

// Bindings maps each action to the key codes that trigger it
type Bindings map[Action][]string

// DefaultBindings are WASD plus the arrow keys
func DefaultBindings() Bindings {
	return Bindings{
		ActionForward: {"KeyW", "ArrowUp"},
		ActionBrake:   {"KeyS", "ArrowDown"},
		ActionLeft:    {"KeyA", "ArrowLeft"},
		ActionRight:   {"KeyD", "ArrowRight"},
	}
}

// NewBindings builds bindings from per-action key lists.
// An empty list keeps the default keys for that action.
func NewBindings(forward, brake, left, right []string) Bindings {
	b := DefaultBindings()
	for action, keys := range map[Action][]string{
		ActionForward: forward,
		ActionBrake:   brake,
		ActionLeft:    left,
		ActionRight:   right,
	} {
		if len(keys) > 0 {
			b[action] = append([]string(nil), keys...)
		}
	}
	return b
}

// Controls is the per-tick view of the driver's intent
type Controls struct {
	Forward bool
	Brake   bool
	Left    bool
	Right   bool
}

// Active reports whether any key bound to action is held
func (b Bindings) Active(s State, action Action) bool {
	for _, code := range b[action] {
		if s.Held(code) {
			return true
		}
	}
	return false
}

// Controls resolves the held keys into driver intent
func (b Bindings) Controls(s State) Controls {
	return Controls{
		Forward: b.Active(s, ActionForward),
		Brake:   b.Active(s, ActionBrake),
		Left:    b.Active(s, ActionLeft),
		Right:   b.Active(s, ActionRight),
	}
}
