// Package term shows the animated sky in a terminal using half-block cells.
package term

import (
	"image"
	"image/color"

	"github.com/gdamore/tcell/v2"
)

// upperHalf draws the top pixel as foreground and the bottom as background.
const upperHalf = '▀'

// CanvasSize is the pixel size that maps one-to-one onto cols x rows cells.
func CanvasSize(cols, rows int) (int, int) {
	return cols, rows * 2
}

// skyWidth is the viewport width, in CSS pixels, the sky's sizes are tuned for.
const skyWidth = 960

// CellDPR is the device-pixel-ratio that fits a skyWidth-wide sky into a
// canvas w pixels wide, one pixel per half cell.
func CellDPR(w int) float64 {
	return float64(w) / skyWidth
}

// Blit copies img onto the screen, two vertical pixels per cell. Pixels
// outside img leave the cell black.
func Blit(screen tcell.Screen, img image.Image) {
	cols, rows := screen.Size()
	b := img.Bounds()
	rgba, _ := img.(*image.RGBA)

	at := func(x, y int) tcell.Color {
		px, py := b.Min.X+x, b.Min.Y+y
		if px >= b.Max.X || py >= b.Max.Y {
			return tcell.ColorBlack
		}
		if rgba != nil {
			return toColor(rgba.RGBAAt(px, py))
		}
		return toColor(img.At(px, py))
	}

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			style := tcell.StyleDefault.
				Foreground(at(x, y*2)).
				Background(at(x, y*2+1))
			screen.SetContent(x, y, upperHalf, nil, style)
		}
	}
}

// toColor un-premultiplies c into a terminal true color.
func toColor(c color.Color) tcell.Color {
	r, g, b, a := c.RGBA()
	if a == 0 {
		return tcell.NewRGBColor(0, 0, 0)
	}
	return tcell.NewRGBColor(
		int32((r*0xff)/a),
		int32((g*0xff)/a),
		int32((b*0xff)/a),
	)
}
