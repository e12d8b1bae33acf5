package sky

import (
	"github.com/gogpu/gg"

	"github.com/i474232898/weather-sky/internal/common"
)

// RGB is a color with 0..255 channels.
type RGB struct {
	R, G, B float64
}

// RGBA converts to a gg color with alpha in [0,1].
func (c RGB) RGBA(alpha float64) gg.RGBA {
	return gg.RGBA2(c.R/255, c.G/255, c.B/255, common.Clamp(alpha, 0, 1))
}

// Scale multiplies every channel by f.
func (c RGB) Scale(f float64) RGB {
	return RGB{c.R * f, c.G * f, c.B * f}
}

// Palette stops for the sky gradient.
var (
	NightTop    = RGB{8, 10, 20}
	NightBottom = RGB{18, 20, 35}
	DuskTop     = RGB{120, 40, 90}
	DuskBottom  = RGB{250, 120, 60}
	DayTop      = RGB{20, 60, 130}
	DayBottom   = RGB{90, 170, 255}
)

const (
	// overcastDim is how far full cloud cover pulls the sky toward overcastShade.
	overcastDim   = 0.7
	overcastShade = 0.6
)

func smoothstep(e0, e1, x float64) float64 {
	t := common.Clamp((x-e0)/(e1-e0), 0, 1)
	return t * t * (3 - 2*t)
}

func mix(a, b RGB, t float64) RGB {
	return RGB{
		a.R + (b.R-a.R)*t,
		a.G + (b.G-a.G)*t,
		a.B + (b.B-a.B)*t,
	}
}

// SkyColors returns the gradient's top and bottom colors for a day-fraction
// and cloud cover fraction, both in [0,1]. Night blends into dusk over the
// first quarter of the day-fraction, dusk into day between 0.25 and 0.75.
func SkyColors(day, cover float64) (top, bottom RGB) {
	t1 := smoothstep(0, 0.25, day)
	t2 := smoothstep(0.25, 0.75, day)

	top = mix(mix(NightTop, DuskTop, t1), DayTop, t2)
	bottom = mix(mix(NightBottom, DuskBottom, t1), DayBottom, t2)

	dim := common.Clamp(cover, 0, 1) * overcastDim
	top = mix(top, top.Scale(overcastShade), dim)
	bottom = mix(bottom, bottom.Scale(overcastShade), dim)
	return top, bottom
}

func drawSkyGradient(dc *gg.Context, w, h float64, top, bottom RGB) error {
	g := gg.NewLinearGradientBrush(0, 0, 0, h).
		AddColorStop(0, top.RGBA(1)).
		AddColorStop(1, bottom.RGBA(1))
	dc.SetFillBrush(g)
	dc.DrawRectangle(0, 0, w, h)
	return dc.Fill()
}
