package ui

import (
	"fmt"
	"image/color"
	"math"

	"github.com/golangdaddy/infiniteroad/pkg/score"
	"github.com/hajimehoshi/ebiten/v2"
)

// HUD draws the speedometer and the score/distance counters
type HUD struct {
	// MaxKMH is the top of the speed gauge
	MaxKMH float64
}

// NewHUD creates a HUD whose gauge tops out at maxSpeed (world units per tick)
func NewHUD(maxSpeed float64) *HUD {
	return &HUD{MaxKMH: math.Round(maxSpeed * 3.6)}
}

// Draw renders the readout in the top-left corner
func (h *HUD) Draw(screen *ebiten.Image, r score.Readout) {
	x, y := 20.0, 20.0
	width, height := 180.0, 120.0

	drawPanel(screen, x, y, width, height, color.RGBA{20, 20, 30, 200}, color.RGBA{100, 100, 120, 255})
	drawText(screen, fmt.Sprintf("%d", r.SpeedKMH), x+width/2, y+45, 48, speedColor(float64(r.SpeedKMH), h.MaxKMH))
	drawText(screen, "KM/H", x+width/2, y+80, 24, color.RGBA{200, 200, 200, 255})
	h.drawGauge(screen, x+10, y+height-25, width-20, 15, float64(r.SpeedKMH))

	drawPanel(screen, x, y+height+10, width, 60, color.RGBA{20, 20, 30, 200}, color.RGBA{100, 100, 120, 255})
	drawTextLeft(screen, fmt.Sprintf("SCORE %d", r.Score), x+12, y+height+18, 16, color.RGBA{255, 200, 50, 255})
	drawTextLeft(screen, fmt.Sprintf("DIST  %dm", r.Distance), x+12, y+height+42, 16, color.RGBA{200, 240, 255, 255})
}

// drawGauge draws a horizontal bar filled in proportion to speed
func (h *HUD) drawGauge(screen *ebiten.Image, x, y, width, height float64, kmh float64) {
	drawPanel(screen, x, y, width, height, color.RGBA{40, 40, 40, 255}, color.RGBA{150, 150, 150, 255})

	frac := gaugeFraction(kmh, h.MaxKMH)
	if frac <= 0 {
		return
	}
	drawRect(screen, x, y, width*frac, height, gaugeColor(frac))
}

func gaugeFraction(kmh, max float64) float64 {
	if max <= 0 || kmh <= 0 {
		return 0
	}
	return math.Min(kmh/max, 1)
}

// gaugeColor runs green to yellow to red as frac goes 0 to 1
func gaugeColor(frac float64) color.RGBA {
	if frac < 0.5 {
		ratio := frac / 0.5
		return color.RGBA{uint8(100 + ratio*155), 255, 100, 255}
	}
	ratio := (frac - 0.5) / 0.5
	return color.RGBA{255, uint8(255 - ratio*155), uint8(100 - ratio*100), 255}
}

func speedColor(kmh, max float64) color.RGBA {
	switch frac := gaugeFraction(kmh, max); {
	case frac < 0.5:
		return color.RGBA{100, 255, 100, 255}
	case frac < 0.8:
		return color.RGBA{255, 255, 100, 255}
	default:
		return color.RGBA{255, 100, 100, 255}
	}
}
