package game

import "time"

// Clock reports the time elapsed since it was last asked
type Clock interface {
	Delta() time.Duration
}

// RealClock measures wall time between frames. The first call returns zero.
type RealClock struct {
	last time.Time
	now  func() time.Time
}

func NewRealClock() *RealClock {
	return &RealClock{now: time.Now}
}

func (c *RealClock) Delta() time.Duration {
	now := c.now()
	if c.last.IsZero() {
		c.last = now
		return 0
	}
	d := now.Sub(c.last)
	c.last = now
	if d < 0 {
		return 0
	}
	return d
}

// FixedClock advances by Step on every call
type FixedClock struct {
	Step time.Duration
}

func (c FixedClock) Delta() time.Duration {
	return c.Step
}
