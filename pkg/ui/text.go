package ui

import (
	"image/color"

	"github.com/hajimehoshi/bitmapfont/v3"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

var (
	face  = text.NewGoXFace(bitmapfont.Face)
	pixel *ebiten.Image
)

func whitePixel() *ebiten.Image {
	if pixel == nil {
		pixel = ebiten.NewImage(1, 1)
		pixel.Fill(color.White)
	}
	return pixel
}

// drawText draws str centred on (centerX, centerY). size is the glyph
// height in pixels; the bitmap font is 16px at scale 1.
func drawText(screen *ebiten.Image, str string, centerX, centerY float64, size float64, clr color.Color) {
	scale := size / 16.0
	textWidth := text.Advance(str, face) * scale

	op := &text.DrawOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(centerX-textWidth/2, centerY-8*scale)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, str, face, op)
}

// drawTextLeft draws str with its top-left corner at (x, y)
func drawTextLeft(screen *ebiten.Image, str string, x, y float64, size float64, clr color.Color) {
	scale := size / 16.0
	op := &text.DrawOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, str, face, op)
}

// drawRect fills a rectangle
func drawRect(screen *ebiten.Image, x, y, w, h float64, clr color.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w, h)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	screen.DrawImage(whitePixel(), op)
}

// drawPanel fills a rectangle and gives it a 2px border
func drawPanel(screen *ebiten.Image, x, y, w, h float64, bg, border color.Color) {
	drawRect(screen, x, y, w, h, bg)
	drawRect(screen, x, y, w, 2, border)
	drawRect(screen, x, y+h-2, w, 2, border)
	drawRect(screen, x, y, 2, h, border)
	drawRect(screen, x+w-2, y, 2, h, border)
}
