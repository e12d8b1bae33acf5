package sky

import (
	"math"
	"time"

	"github.com/gogpu/gg"

	"github.com/i474232898/weather-sky/internal/astro"
	"github.com/i474232898/weather-sky/internal/geo"
)

const (
	sunRadius  = 60
	moonRadius = 40

	minSunDay       = 0.02
	minMoonAltitude = -0.15 // radians
)

// Celestial is the per-frame astronomical picture of the sky.
type Celestial struct {
	Day       float64
	HasAstro  bool
	Sun       astro.Position
	Moon      astro.Position
	MoonPhase float64
}

func computeCelestial(p astro.Provider, now time.Time, at geo.Coordinates) Celestial {
	if p == nil {
		return Celestial{Day: astro.ClockDayFraction(now)}
	}
	sun := p.SunPosition(now, at.Lat, at.Lon)
	return Celestial{
		Day:       astro.DayFraction(sun.Altitude),
		HasAstro:  true,
		Sun:       sun,
		Moon:      p.MoonPosition(now, at.Lat, at.Lon),
		MoonPhase: p.MoonPhase(now),
	}
}

// Project maps a horizontal position onto the canvas: a hemisphere whose
// horizon sits at 65% of the height, south-facing with west to the left.
func Project(p astro.Position, w, h float64) (x, y float64) {
	horizonY := h * 0.65
	r := math.Cos(p.Altitude) * (h * 0.45)
	az := p.Azimuth + math.Pi
	return w/2 + r*math.Sin(az), horizonY - math.Sin(p.Altitude)*h*0.5
}

// SunStrength is the sun glow intensity for a day-fraction and cloud cover.
func SunStrength(day, cover float64) float64 {
	return day * (1 - cover*0.85)
}

// MoonGlow is the moon glow intensity; stars is the current star strength.
func MoonGlow(phase, cover, stars float64) float64 {
	return astro.MoonBrightness(phase) * (1 - cover*0.9) * (stars + 0.2)
}

func drawSun(dc *gg.Context, x, y, r, strength float64) error {
	g := gg.NewRadialGradientBrush(x, y, 0, r).
		AddColorStop(0, gg.RGBA2(1, 1, 220.0/255, 0.95*strength)).
		AddColorStop(0.4, gg.RGBA2(1, 200.0/255, 80.0/255, 0.7*strength)).
		AddColorStop(1, gg.RGBA2(1, 140.0/255, 40.0/255, 0))
	dc.SetFillBrush(g)
	dc.DrawCircle(x, y, r)
	return dc.Fill()
}

func drawMoon(dc *gg.Context, x, y, r, brightness float64) error {
	g := gg.NewRadialGradientBrush(x, y, 0, r).
		AddColorStop(0, gg.RGBA2(1, 1, 1, 0.6*brightness)).
		AddColorStop(1, gg.RGBA2(1, 1, 1, 0))
	dc.SetFillBrush(g)
	dc.DrawCircle(x, y, r)
	return dc.Fill()
}
