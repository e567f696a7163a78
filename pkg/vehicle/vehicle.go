package vehicle

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golangdaddy/infiniteroad/pkg/input"
)

// State is the car's motion state. It is created zeroed and advanced once per tick.
type State struct {
	Speed   float64 // signed, in [ReverseLimit, MaxSpeed]
	Heading float64 // yaw in radians, accumulates without wraparound
	X       float64 // lateral position, kept within the track half-width
	Z       float64 // distance along the track
}

// Position returns the car's ground position in world space
func (s State) Position() mgl64.Vec3 {
	return mgl64.Vec3{s.X, 0, s.Z}
}

// Tilt is the cosmetic roll angle for the rendered car. It has no effect on motion.
func (s State) Tilt(c Car) float64 {
	return -s.Heading * c.TiltFactor
}

// Throttle applies the pedals for one tick
func Throttle(speed float64, ctl input.Controls, c Car) float64 {
	switch {
	case ctl.Forward:
		return math.Min(speed+c.Acceleration, c.MaxSpeed)
	case ctl.Brake:
		return math.Max(speed-c.BrakeDeceleration, c.ReverseLimit)
	default:
		// decays toward zero, never reaches it
		return speed * c.Friction
	}
}

// Steer applies the wheel for one tick. Left and right both apply when held
// together and cancel out.
func Steer(heading, speed float64, ctl input.Controls, c Car) float64 {
	authority := c.TurnRate * c.SteeringAuthority(speed)
	if ctl.Left {
		heading += authority
	}
	if ctl.Right {
		heading -= authority
	}
	return heading
}

// Integrate moves the car along its heading by one step of size tickUnit.
// The step is per tick, not per second, so motion depends on frame rate;
// pass a dt-scaled unit to get a fixed-timestep variant.
func Integrate(s State, tickUnit float64) State {
	s.X += math.Sin(s.Heading) * s.Speed * tickUnit
	s.Z += math.Cos(s.Heading) * s.Speed * tickUnit
	return s
}

// ClampLateral keeps x on the track; it is the only thing holding the car on the road
func ClampLateral(x, trackWidth float64) float64 {
	half := trackWidth / 2
	return mgl64.Clamp(x, -half, half)
}

// Advance runs one tick of the vehicle model: throttle, steering, integration, rail
func Advance(s State, ctl input.Controls, c Car, trackWidth float64) State {
	s.Speed = Throttle(s.Speed, ctl, c)
	s.Heading = Steer(s.Heading, s.Speed, ctl, c)
	s = Integrate(s, c.TickUnit)
	s.X = ClampLateral(s.X, trackWidth)
	return s
}
