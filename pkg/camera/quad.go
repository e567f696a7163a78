package camera

import "github.com/go-gl/mathgl/mgl64"

// Corners returns the ground-plane rectangle of a w x l footprint centred on
// center and turned by yaw, ordered near-left, near-right, far-right,
// far-left. Local +z is forward, matching the vehicle heading convention.
func Corners(center mgl64.Vec3, w, l, yaw float64) [4]mgl64.Vec3 {
	rot := mgl64.Rotate3DY(yaw)
	hw, hl := w/2, l/2
	local := [4]mgl64.Vec3{
		{-hw, 0, -hl},
		{hw, 0, -hl},
		{hw, 0, hl},
		{-hw, 0, hl},
	}
	var out [4]mgl64.Vec3
	for i, p := range local {
		out[i] = center.Add(rot.Mul3x1(p))
	}
	return out
}

// ScreenQuad is one projected strip of a footprint. U and V hold texture
// coordinates in [0,1] for each corner.
type ScreenQuad struct {
	X, Y  [4]float32
	U, V  [4]float32
	Depth float64 // view distance of the strip centre
}

// Strips projects a footprint as strips no longer than step along its
// length. Strips with any corner behind the near plane are dropped, which is
// how the road is clipped as it passes under the camera.
func (c *Camera) Strips(center mgl64.Vec3, w, l, yaw, step float64) []ScreenQuad {
	n := 1
	if step > 0 && l > step {
		n = int(l/step + 0.5)
	}
	rot := mgl64.Rotate3DY(yaw)
	hw := w / 2

	quads := make([]ScreenQuad, 0, n)
	for i := 0; i < n; i++ {
		v0 := float64(i) / float64(n)
		v1 := float64(i+1) / float64(n)
		z0 := -l/2 + l*v0
		z1 := -l/2 + l*v1
		world := [4]mgl64.Vec3{
			center.Add(rot.Mul3x1(mgl64.Vec3{-hw, 0, z0})),
			center.Add(rot.Mul3x1(mgl64.Vec3{hw, 0, z0})),
			center.Add(rot.Mul3x1(mgl64.Vec3{hw, 0, z1})),
			center.Add(rot.Mul3x1(mgl64.Vec3{-hw, 0, z1})),
		}

		q := ScreenQuad{
			U: [4]float32{0, 1, 1, 0},
			V: [4]float32{float32(1 - v0), float32(1 - v0), float32(1 - v1), float32(1 - v1)},
		}
		visible := true
		for k, p := range world {
			x, y, _, ok := c.Project(p)
			if !ok {
				visible = false
				break
			}
			q.X[k], q.Y[k] = float32(x), float32(y)
		}
		if !visible {
			continue
		}
		mid := center.Add(rot.Mul3x1(mgl64.Vec3{0, 0, (z0 + z1) / 2}))
		q.Depth = c.Depth(mid)
		quads = append(quads, q)
	}
	return quads
}
