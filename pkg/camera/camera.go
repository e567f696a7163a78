package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golangdaddy/infiniteroad/pkg/config"
)

// Rig places a chase camera behind the car. It has no state of its own:
// the pose is recomputed from the car every tick, with no smoothing.
type Rig struct {
	Distance   float64 // behind the car along its heading
	Height     float64 // above the car
	LookHeight float64 // aim point above the car
	LookAhead  float64 // aim point ahead of the car along world z
}

// NewRig returns the rig used by the game
func NewRig() Rig {
	return Rig{Distance: 15, Height: 8, LookHeight: 2, LookAhead: 10}
}

// Pose is where the camera sits and what it looks at
type Pose struct {
	Eye    mgl64.Vec3
	Target mgl64.Vec3
}

// Follow computes the pose for a car at pos facing heading.
// The aim point ignores heading and always looks down +z.
func (r Rig) Follow(pos mgl64.Vec3, heading float64) Pose {
	offset := mgl64.Vec3{
		math.Sin(heading) * -r.Distance,
		r.Height,
		math.Cos(heading) * -r.Distance,
	}
	return Pose{
		Eye:    pos.Add(offset),
		Target: mgl64.Vec3{pos.X(), pos.Y() + r.LookHeight, pos.Z() + r.LookAhead},
	}
}

// View returns the world-to-camera matrix
func (p Pose) View() mgl64.Mat4 {
	return mgl64.LookAtV(p.Eye, p.Target, mgl64.Vec3{0, 1, 0})
}

// Lens is a perspective projection that tracks the viewport aspect ratio
type Lens struct {
	FOV    float64 // vertical, degrees
	Near   float64
	Far    float64
	Width  int
	Height int
}

// NewLens creates a lens for a viewport of w x h pixels
func NewLens(fov, near, far float64, w, h int) *Lens {
	return &Lens{FOV: fov, Near: near, Far: far, Width: w, Height: h}
}

// Resize follows a viewport size change
func (l *Lens) Resize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	l.Width, l.Height = w, h
}

// Aspect returns width over height
func (l *Lens) Aspect() float64 {
	if l.Height == 0 {
		return 1
	}
	return float64(l.Width) / float64(l.Height)
}

// Projection returns the camera-to-clip matrix
func (l *Lens) Projection() mgl64.Mat4 {
	return mgl64.Perspective(mgl64.DegToRad(l.FOV), l.Aspect(), l.Near, l.Far)
}

// Camera combines the rig output with a lens
type Camera struct {
	Rig  Rig
	Lens *Lens
	Pose Pose

	viewProj mgl64.Mat4
}

// New creates a camera from config for a w x h viewport
func New(cfg config.CameraConfig, w, h int) *Camera {
	c := &Camera{
		Rig: Rig{
			Distance:   cfg.Distance,
			Height:     cfg.Height,
			LookHeight: cfg.LookHeight,
			LookAhead:  cfg.LookAhead,
		},
		Lens: NewLens(cfg.FOV, cfg.Near, cfg.Far, w, h),
	}
	// framing before the car exists: behind and above the origin, looking at it
	c.Pose = Pose{Eye: mgl64.Vec3{0, cfg.Height, -cfg.Distance}, Target: mgl64.Vec3{}}
	c.update()
	return c
}

// Follow moves the camera behind the car
func (c *Camera) Follow(pos mgl64.Vec3, heading float64) {
	c.Pose = c.Rig.Follow(pos, heading)
	c.update()
}

// Resize follows a viewport size change
func (c *Camera) Resize(w, h int) {
	c.Lens.Resize(w, h)
	c.update()
}

func (c *Camera) update() {
	c.viewProj = c.Lens.Projection().Mul4(c.Pose.View())
}

// Project maps a world point to screen pixels. ok is false for points
// behind the near plane.
func (c *Camera) Project(p mgl64.Vec3) (x, y, depth float64, ok bool) {
	clip := c.viewProj.Mul4x1(p.Vec4(1))
	w := clip.W()
	if w < c.Lens.Near {
		return 0, 0, 0, false
	}
	ndcX, ndcY := clip.X()/w, clip.Y()/w
	x = (ndcX + 1) / 2 * float64(c.Lens.Width)
	y = (1 - ndcY) / 2 * float64(c.Lens.Height)
	return x, y, w, true
}

// Depth returns the view-space distance in front of the camera
func (c *Camera) Depth(p mgl64.Vec3) float64 {
	return c.viewProj.Mul4x1(p.Vec4(1)).W()
}
