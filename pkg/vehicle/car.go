package vehicle

import "github.com/golangdaddy/infiniteroad/pkg/config"

// Car holds the handling constants of a drivable car.
// Speeds are in world units per tick; see State.
type Car struct {
	MaxSpeed          float64 // forward speed cap
	Acceleration      float64 // speed gained per tick with the throttle held
	BrakeDeceleration float64 // speed lost per tick with the brake held
	ReverseLimit      float64 // most negative speed (reversing)
	Friction          float64 // per-tick speed multiplier with no pedal held
	TurnRate          float64 // heading change per tick at full speed, radians
	TickUnit          float64 // implicit integration step per tick
	TiltFactor        float64 // cosmetic roll per radian of heading
}

// NewCar returns the arcade handling the game ships with
func NewCar() Car {
	return Car{
		MaxSpeed:          50,
		Acceleration:      0.3,
		BrakeDeceleration: 0.5,
		ReverseLimit:      -10,
		Friction:          0.95,
		TurnRate:          0.02,
		TickUnit:          0.1,
		TiltFactor:        0.3,
	}
}

// CarFromConfig builds handling from the vehicle section of the config
func CarFromConfig(cfg config.VehicleConfig) Car {
	return Car{
		MaxSpeed:          cfg.MaxSpeed,
		Acceleration:      cfg.Acceleration,
		BrakeDeceleration: cfg.BrakeDeceleration,
		ReverseLimit:      cfg.ReverseLimit,
		Friction:          cfg.Friction,
		TurnRate:          cfg.TurnRate,
		TickUnit:          cfg.TickUnit,
		TiltFactor:        cfg.TiltFactor,
	}
}

// SteeringAuthority is the fraction of TurnRate available at speed.
// It keeps the sign of speed, so reversing inverts the wheel.
func (c Car) SteeringAuthority(speed float64) float64 {
	return speed / c.MaxSpeed
}
