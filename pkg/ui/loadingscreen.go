package ui

import (
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// LoadingScreen is shown while the car model is still on its way
type LoadingScreen struct {
	title     string
	startTime time.Time
	progress  func() (done, total int)
}

// NewLoadingScreen creates a loading screen that polls progress each frame
func NewLoadingScreen(title string, progress func() (done, total int)) *LoadingScreen {
	return &LoadingScreen{
		title:     title,
		startTime: time.Now(),
		progress:  progress,
	}
}

// Update has nothing to do; the session decides when loading ends
func (ls *LoadingScreen) Update() error {
	return nil
}

// Draw renders the title and a progress bar
func (ls *LoadingScreen) Draw(screen *ebiten.Image) {
	width, height := screen.Bounds().Dx(), screen.Bounds().Dy()
	screen.Fill(color.RGBA{15, 20, 35, 255})

	elapsed := time.Since(ls.startTime).Seconds()
	centerX := float64(width) / 2

	// Pulsing title
	pulse := 1.0 + 0.05*math.Sin(elapsed*2)
	drawText(screen, ls.title, centerX, float64(height)/3, 64*pulse, color.RGBA{255, 200, 50, 255})

	done, total := ls.progress()
	barW, barH := 300.0, 20.0
	barX, barY := centerX-barW/2, float64(height)/2
	drawPanel(screen, barX, barY, barW, barH, color.RGBA{40, 40, 60, 255}, color.RGBA{80, 80, 100, 255})
	drawRect(screen, barX+2, barY+2, (barW-4)*Fraction(done, total), barH-4, color.RGBA{60, 100, 140, 255})

	drawText(screen, fmt.Sprintf("Loading assets %d/%d", done, total), centerX, barY+50, 20, color.RGBA{150, 150, 150, 255})
	drawText(screen, "W/S or Up/Down: drive | A/D or Left/Right: steer", centerX, float64(height)-50, 16, color.RGBA{150, 200, 255, 255})
}

// Fraction returns done/total clamped to [0,1]
func Fraction(done, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Max(0, math.Min(1, float64(done)/float64(total)))
}
