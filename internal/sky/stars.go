package sky

import (
	"math"
	"math/rand/v2"

	"github.com/gogpu/gg"
)

// Star is a fixed point of light. X and Y are normalized to the canvas.
type Star struct {
	X, Y  float64
	R     float64
	Alpha float64
	Rate  float64
	Phase float64
}

const (
	wideStarCount   = 800
	narrowStarCount = 400
	wideViewportCSS = 900

	// minStarStrength skips the star pass entirely in daylight or overcast.
	minStarStrength = 0.05
)

// StarCount picks the star field size from the CSS viewport width.
func StarCount(cssWidth int) int {
	if cssWidth >= wideViewportCSS {
		return wideStarCount
	}
	return narrowStarCount
}

func newStars(rng *rand.Rand, n int) []Star {
	stars := make([]Star, n)
	for i := range stars {
		r := 1.0
		if rng.Float64() >= 0.85 {
			r = 1.5
		}
		stars[i] = Star{
			X:     rng.Float64(),
			Y:     rng.Float64() * 0.7,
			R:     r,
			Alpha: rng.Float64()*0.7 + 0.3,
			Rate:  rng.Float64()*2 + 0.5,
			Phase: rng.Float64() * math.Pi * 2,
		}
	}
	return stars
}

// StarStrength is how visible the star field is: full at night under a
// clear sky, fading with daylight and cloud cover.
func StarStrength(day, cover float64) float64 {
	return (1 - day) * (1 - cover*0.9)
}

// AlphaAt returns the star's opacity at time t (seconds).
func (s Star) AlphaAt(strength, t float64) float64 {
	twinkle := 0.5 + 0.5*math.Sin(t*s.Rate+s.Phase)
	return strength * s.Alpha * twinkle
}

func drawStars(dc *gg.Context, stars []Star, strength, t, w, h, dpr float64) error {
	for _, s := range stars {
		dc.SetRGBA(1, 1, 1, s.AlphaAt(strength, t))
		dc.DrawRectangle(s.X*w, s.Y*h, s.R*dpr, s.R*dpr)
		if err := dc.Fill(); err != nil {
			return err
		}
	}
	return nil
}
