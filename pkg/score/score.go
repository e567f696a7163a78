package score

import "math"

// Accumulator integrates speed over real elapsed time
type Accumulator struct {
	Score    float64
	Distance float64
	Rate     float64 // score per unit of distance
}

// NewAccumulator starts both totals at zero
func NewAccumulator(rate float64) *Accumulator {
	return &Accumulator{Rate: rate}
}

// Add integrates one tick. dt is wall-clock seconds since the last tick.
// Negative speed (reversing) reduces both totals.
func (a *Accumulator) Add(speed, dt float64) {
	a.Score += speed * dt * a.Rate
	a.Distance += speed * dt
}

// Readout is what the HUD shows
type Readout struct {
	SpeedKMH int
	Score    int
	Distance int
}

// Read formats the totals for display alongside the current speed
func (a *Accumulator) Read(speed float64) Readout {
	return Readout{
		SpeedKMH: int(math.Round(speed * 3.6)),
		Score:    int(math.Floor(a.Score)),
		Distance: int(math.Floor(a.Distance)),
	}
}
