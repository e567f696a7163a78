package vehicle

import (
	"math"
	"math/rand"
	"testing"

	"github.com/golangdaddy/infiniteroad/pkg/input"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const trackWidth = 10.0

func TestForwardOneTickFromRest(t *testing.T) {
	s := Advance(State{}, input.Controls{Forward: true}, NewCar(), trackWidth)

	assert.InDelta(t, 0.3, s.Speed, 1e-12)
	assert.InDelta(t, 0.03, s.Z, 1e-12)
	assert.Zero(t, s.X)
	assert.Zero(t, s.Heading)
}

func TestForwardAcceleratesToMaxThenHolds(t *testing.T) {
	c := NewCar()
	s := State{}
	prev := s.Speed
	reached := false
	for i := 0; i < 500; i++ {
		s = Advance(s, input.Controls{Forward: true}, c, trackWidth)
		if reached {
			require.Equal(t, c.MaxSpeed, s.Speed, "tick %d", i)
			continue
		}
		require.Greater(t, s.Speed, prev, "tick %d", i)
		prev = s.Speed
		if s.Speed == c.MaxSpeed {
			reached = true
		}
	}
	assert.True(t, reached)
}

func TestFrictionDecaysGeometrically(t *testing.T) {
	c := NewCar()
	s := State{Speed: 40}
	for i := 0; i < 200; i++ {
		before := s.Speed
		s = Advance(s, input.Controls{}, c, trackWidth)
		require.InDelta(t, before*0.95, s.Speed, 1e-12)
	}
	assert.Greater(t, s.Speed, 0.0, "friction never reaches exactly zero")
}

func TestBrakeClampsAtReverseLimit(t *testing.T) {
	c := NewCar()
	s := State{Speed: 1}
	for i := 0; i < 100; i++ {
		s = Advance(s, input.Controls{Brake: true}, c, trackWidth)
	}
	assert.Equal(t, -10.0, s.Speed)
}

func TestForwardWinsOverBrake(t *testing.T) {
	speed := Throttle(5, input.Controls{Forward: true, Brake: true}, NewCar())
	assert.InDelta(t, 5.3, speed, 1e-12)
}

func TestSteeringScalesWithSpeed(t *testing.T) {
	c := NewCar()

	assert.Zero(t, Steer(0, 0, input.Controls{Left: true}, c))
	assert.InDelta(t, 0.01, Steer(0, 25, input.Controls{Left: true}, c), 1e-12)
	assert.InDelta(t, -0.02, Steer(0, 50, input.Controls{Right: true}, c), 1e-12)
}

func TestOppositeKeysCancel(t *testing.T) {
	h := Steer(0.5, 30, input.Controls{Left: true, Right: true}, NewCar())
	assert.InDelta(t, 0.5, h, 1e-12)
}

// Reversing flips the wheel: holding left while moving backwards turns right.
// This is kept on purpose and pinned here so a change is deliberate.
func TestReverseInvertsSteering(t *testing.T) {
	h := Steer(0, -10, input.Controls{Left: true}, NewCar())
	assert.Less(t, h, 0.0)
}

func TestLateralClampHoldsForAnyInput(t *testing.T) {
	c := NewCar()
	rng := rand.New(rand.NewSource(7))
	s := State{}
	for i := 0; i < 5000; i++ {
		ctl := input.Controls{
			Forward: rng.Intn(3) > 0,
			Brake:   rng.Intn(4) == 0,
			Left:    rng.Intn(2) == 0,
			Right:   rng.Intn(3) == 0,
		}
		s = Advance(s, ctl, c, trackWidth)
		require.LessOrEqual(t, math.Abs(s.X), trackWidth/2, "tick %d", i)
	}
}

func TestIntegrateUsesExplicitTickUnit(t *testing.T) {
	s := State{Speed: 10, Heading: math.Pi / 2}

	one := Integrate(s, 0.1)
	assert.InDelta(t, 1.0, one.X, 1e-9)
	assert.InDelta(t, 0.0, one.Z, 1e-9)

	// a dt-scaled unit gives a fixed-timestep variant through the same call
	half := Integrate(s, 0.05)
	assert.InDelta(t, 0.5, half.X, 1e-9)
}

func TestTiltIsCosmetic(t *testing.T) {
	c := NewCar()
	s := State{Heading: 1}
	assert.InDelta(t, -0.3, s.Tilt(c), 1e-12)

	// same motion regardless of the tilt factor
	other := c
	other.TiltFactor = 5
	ctl := input.Controls{Forward: true, Left: true}
	assert.Equal(t, Advance(s, ctl, c, trackWidth), Advance(s, ctl, other, trackWidth))
}
