package game

// Phase is the session's lifecycle state
type Phase int

const (
	// PhaseLoading waits for the car model; the track fills but nothing moves
	PhaseLoading Phase = iota
	// PhasePlaying runs the full tick
	PhasePlaying
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhasePlaying:
		return "playing"
	}
	return "unknown"
}
