package terminal

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/golangdaddy/infiniteroad/pkg/game"
	"github.com/golangdaddy/infiniteroad/pkg/road"
)

const (
	glyphGrass       = '.'
	glyphRoad        = '▒'
	glyphPlaceholder = '░'
	glyphEdge        = '|'
	glyphCar         = '^'
	glyphCarReverse  = 'v'
)

var (
	styleHUD         = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	styleGrass       = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleRoad        = tcell.StyleDefault.Foreground(tcell.ColorGray)
	stylePlaceholder = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	styleEdge        = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleCar         = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
)

// View draws the session top-down: the car near the bottom, the track
// window scrolling towards it, and a HUD line at the top. World +x is drawn
// to the left, as the chase camera sees it.
type View struct {
	ColsPerUnit float64 // screen columns per world unit across the track
	UnitsPerRow float64 // world units along the track per screen row
	CarMargin   int     // rows between the car and the bottom edge
}

// NewView returns a view scaled for a typical 80x24 terminal
func NewView() *View {
	return &View{ColsPerUnit: 2, UnitsPerRow: 4, CarMargin: 3}
}

// Draw renders s onto screen. It does not call Show.
func (v *View) Draw(screen tcell.Screen, s *game.Session) {
	w, h := screen.Size()
	screen.Clear()
	if w <= 0 || h <= 1 {
		return
	}

	v.drawHUD(screen, w, s)

	cfg := s.Track.Config()
	segs := s.Track.Segments()
	centre := w / 2
	carRow := h - 1 - v.CarMargin
	if carRow < 1 {
		carRow = 1
	}
	carZ := s.Vehicle.Z
	half := cfg.Width / 2

	for row := 1; row < h; row++ {
		z := carZ + float64(carRow-row)*v.UnitsPerRow
		seg, onRoad := segmentAt(segs, cfg.SegmentLength, z)
		for col := 0; col < w; col++ {
			// column centres map back to world x, +x to the left
			x := float64(centre-col) / v.ColsPerUnit
			switch {
			case !onRoad || math.Abs(x) > half+0.5/v.ColsPerUnit:
				screen.SetContent(col, row, glyphGrass, nil, styleGrass)
			case math.Abs(x) > half-0.5/v.ColsPerUnit:
				screen.SetContent(col, row, glyphEdge, nil, styleEdge)
			case seg.Placeholder:
				screen.SetContent(col, row, glyphPlaceholder, nil, stylePlaceholder)
			default:
				screen.SetContent(col, row, glyphRoad, nil, styleRoad)
			}
		}
	}

	if car := s.Car(); car != nil {
		col := centre - int(math.Round(s.Vehicle.X*v.ColsPerUnit))
		glyph := glyphCar
		if s.Vehicle.Speed < 0 {
			glyph = glyphCarReverse
		}
		screen.SetContent(col, carRow, glyph, nil, styleCar)
	}
}

func (v *View) drawHUD(screen tcell.Screen, w int, s *game.Session) {
	var line string
	if s.Phase() == game.PhaseLoading {
		done, total := s.Progress()
		line = fmt.Sprintf(" Loading assets %d/%d ", done, total)
	} else {
		r := s.Readout()
		line = fmt.Sprintf(" SPEED %d km/h  SCORE %d  DIST %dm ", r.SpeedKMH, r.Score, r.Distance)
	}
	col := 0
	for _, r := range line {
		if col >= w {
			break
		}
		screen.SetContent(col, 0, r, nil, styleHUD)
		col++
	}
	for ; col < w; col++ {
		screen.SetContent(col, 0, ' ', nil, styleHUD)
	}
}

// segmentAt finds the placed segment covering z. Segments are centred on
// their Z and span length.
func segmentAt(segs []road.Segment, length, z float64) (road.Segment, bool) {
	for _, seg := range segs {
		if z >= seg.Z-length/2 && z < seg.Z+length/2 {
			return seg, true
		}
	}
	return road.Segment{}, false
}
