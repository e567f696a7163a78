package render

import (
	"image"
	"image/color"
)

const (
	carSpriteWidth  = 40
	carSpriteHeight = 64
)

// CarImage paints a top-down car in body, bonnet towards the top of the
// image. It stands in for the car texture when none could be loaded.
func CarImage(body color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, carSpriteWidth, carSpriteHeight))

	fill := func(x0, y0, x1, y1 int, c color.RGBA) {
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				img.SetRGBA(x, y, c)
			}
		}
	}
	darker := func(c color.RGBA, f float64) color.RGBA {
		return color.RGBA{uint8(float64(c.R) * f), uint8(float64(c.G) * f), uint8(float64(c.B) * f), c.A}
	}

	// Body and roof
	fill(5, 10, 35, 54, body)
	fill(8, 15, 32, 35, darker(body, 0.8))

	// Windshield
	windshield := color.RGBA{100, 180, 220, 255}
	fill(10, 16, 30, 22, windshield)
	fill(13, 22, 28, 28, windshield)

	// Wheels
	wheel := color.RGBA{40, 40, 40, 255}
	fill(2, 12, 8, 20, wheel)
	fill(32, 12, 38, 20, wheel)
	fill(2, 44, 8, 52, wheel)
	fill(32, 44, 38, 52, wheel)

	// Highlight along the front edge of the roof
	highlight := color.RGBA{
		uint8(min(255, int(body.R)+35)),
		uint8(min(255, int(body.G)+80)),
		uint8(min(255, int(body.B)+80)),
		255,
	}
	fill(8, 12, 32, 14, highlight)

	// Outline
	border := color.RGBA{0, 0, 0, 255}
	fill(5, 10, 35, 11, border)
	fill(5, 53, 35, 54, border)
	fill(5, 10, 6, 54, border)
	fill(34, 10, 35, 54, border)

	// Headlights and taillights
	fill(10, 8, 14, 11, color.RGBA{255, 255, 100, 255})
	fill(26, 8, 30, 11, color.RGBA{255, 255, 100, 255})
	fill(10, 53, 14, 56, color.RGBA{255, 0, 0, 255})
	fill(26, 53, 30, 56, color.RGBA{255, 0, 0, 255})

	return img
}
