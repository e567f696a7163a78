package background

import (
	"image"
	"image/color"
	"math"
	"math/rand"
)

// GroundColor is the base colour of the grass plane
var GroundColor = color.RGBA{0x90, 0xEE, 0x90, 0xff}

// SkyColor clears the frame behind everything
var SkyColor = color.RGBA{0x87, 0xCE, 0xEB, 0xff}

// Generator creates ground textures
type Generator struct {
	Width  int
	Height int
}

// NewGenerator creates a new background generator
func NewGenerator(width, height int) *Generator {
	return &Generator{
		Width:  width,
		Height: height,
	}
}

// GenerateGround creates a top-down grass texture seen from above. The same
// seed always yields the same image.
func (g *Generator) GenerateGround(seed int64) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, g.Width, g.Height))
	rng := rand.New(rand.NewSource(seed))

	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			img.SetRGBA(x, y, GroundColor)
		}
	}

	// Grass noise
	for i := 0; i < g.Width*g.Height/10; i++ {
		x := rng.Intn(g.Width)
		y := rng.Intn(g.Height)
		img.SetRGBA(x, y, shade(GroundColor, 0.8+rng.Float64()*0.3))
	}

	// Clumps, denser in bands so the ground reads as moving
	for y := 0; y < g.Height; y += 8 {
		density := 0.15 + 0.1*math.Sin(float64(y)*0.05)
		for x := 0; x < g.Width; x += 4 + rng.Intn(12) {
			if rng.Float64() > density {
				continue
			}
			g.drawClump(img, x+rng.Intn(6)-3, y+rng.Intn(6)-3, rng)
		}
	}

	return img
}

// drawClump draws a round patch of darker grass
func (g *Generator) drawClump(img *image.RGBA, x, y int, rng *rand.Rand) {
	radius := 1 + rng.Intn(3)
	c := shade(GroundColor, 0.65+rng.Float64()*0.15)

	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy > radius*radius {
				continue
			}
			// wrap so the texture tiles
			px := (x + dx + g.Width) % g.Width
			py := (y + dy + g.Height) % g.Height
			img.SetRGBA(px, py, c)
		}
	}
}

func shade(c color.RGBA, f float64) color.RGBA {
	scale := func(v uint8) uint8 {
		return uint8(math.Min(255, float64(v)*f))
	}
	return color.RGBA{scale(c.R), scale(c.G), scale(c.B), c.A}
}
