package sky

import (
	"math"
	"math/rand/v2"

	"github.com/gogpu/gg"

	"github.com/i474232898/weather-sky/internal/common"
	"github.com/i474232898/weather-sky/internal/weather"
)

// Pool maxima.
const (
	RainCapacity = 600
	SnowCapacity = 350
)

const (
	rainRateCap = 8.0 // mm/h for full intensity
	snowRateCap = 5.0
	snowMaxTemp = 34.0 // °F

	rainMargin = 20
	snowMargin = 10

	// frameScale converts per-frame drift tuned at 60 fps into px/s.
	frameScale = 60
)

// Precip is the precipitation picked for the current weather.
type Precip struct {
	Snow          bool
	RainIntensity float64
	SnowIntensity float64
}

// ClassifyPrecip decides between rain and snow and normalizes intensities.
// Only one kind is ever active.
func ClassifyPrecip(wx weather.State) Precip {
	snow := (wx.SnowRate > wx.RainRate && wx.TempF <= snowMaxTemp) || weather.IsSnowCode(wx.WeatherCode)
	p := Precip{Snow: snow}
	if snow {
		p.SnowIntensity = common.Clamp(wx.SnowRate/snowRateCap, 0, 1)
	} else {
		p.RainIntensity = common.Clamp(wx.RainRate/rainRateCap, 0, 1)
	}
	return p
}

// RainTarget and SnowTarget are the pool sizes for the classification.
func (p Precip) RainTarget() int { return int(math.Round(p.RainIntensity * RainCapacity)) }
func (p Precip) SnowTarget() int { return int(math.Round(p.SnowIntensity * SnowCapacity)) }

// Raindrop is a falling streak.
type Raindrop struct {
	X, Y float64
	Len  float64
}

// Snowflake is a swaying disc.
type Snowflake struct {
	X, Y  float64
	R     float64
	Sway  float64
	Speed float64
}

// aboveTop returns a y in [-h, 0).
func aboveTop(rng *rand.Rand, h float64) float64 {
	return -h * (1 - rng.Float64())
}

func (d *Raindrop) respawn(rng *rand.Rand, w, h, dpr float64) {
	d.X = rng.Float64() * w
	d.Y = aboveTop(rng, h)
	d.Len = (8 + rng.Float64()*10) * dpr
}

func (f *Snowflake) respawn(rng *rand.Rand, w, h, dpr float64) {
	f.X = rng.Float64() * w
	f.Y = aboveTop(rng, h)
	f.R = (rng.Float64()*1.3 + 0.4) * dpr
	f.Sway = rng.Float64() * 2 * math.Pi
	f.Speed = 0.3 + rng.Float64()*0.7
}

// resizeRain grows the pool at the tail with fresh drops or truncates it.
// Capacity is reserved up front so the backing array is allocated once.
func resizeRain(pool []Raindrop, n int, rng *rand.Rand, w, h, dpr float64) []Raindrop {
	for len(pool) < n {
		var d Raindrop
		d.respawn(rng, w, h, dpr)
		pool = append(pool, d)
	}
	return pool[:n]
}

func resizeSnow(pool []Snowflake, n int, rng *rand.Rand, w, h, dpr float64) []Snowflake {
	for len(pool) < n {
		var f Snowflake
		f.respawn(rng, w, h, dpr)
		pool = append(pool, f)
	}
	return pool[:n]
}

type precipStep struct {
	w, h, dpr float64
	dt        float64
	windX     float64
	windSpeed float64
	intensity float64
}

func stepRain(rng *rand.Rand, drops []Raindrop, s precipStep) {
	fall := (400 + 600*s.intensity) * s.dpr
	drift := s.windX * s.windSpeed * 0.8 * s.dpr * frameScale
	margin := rainMargin * s.dpr
	for i := range drops {
		d := &drops[i]
		d.Y += fall * s.dt
		d.X += drift * s.dt
		if d.Y > s.h+margin || d.X < -margin || d.X > s.w+margin {
			d.respawn(rng, s.w, s.h, s.dpr)
		}
	}
}

func stepSnow(rng *rand.Rand, flakes []Snowflake, s precipStep) {
	drift := s.windX * s.windSpeed * 0.25 * s.dpr * frameScale
	margin := snowMargin * s.dpr
	for i := range flakes {
		f := &flakes[i]
		f.Sway += (0.03 + rng.Float64()*0.02) * frameScale * s.dt
		f.X += (math.Cos(f.Sway)*0.6*s.dpr*frameScale + drift) * s.dt
		f.Y += (40 + 60*f.Speed) * s.dpr * s.dt
		if f.Y > s.h+margin || f.X < -margin || f.X > s.w+margin {
			f.respawn(rng, s.w, s.h, s.dpr)
		}
	}
}

func drawRain(dc *gg.Context, drops []Raindrop, windX, dpr float64) error {
	if len(drops) == 0 {
		return nil
	}
	dc.SetRGBA(200.0/255, 200.0/255, 1, 0.6)
	dc.SetLineWidth(dpr)
	for _, d := range drops {
		dc.MoveTo(d.X, d.Y)
		dc.LineTo(d.X-windX*4*dpr, d.Y-d.Len)
	}
	return dc.Stroke()
}

func drawSnow(dc *gg.Context, flakes []Snowflake) error {
	if len(flakes) == 0 {
		return nil
	}
	dc.SetRGBA(1, 1, 1, 0.9)
	for _, f := range flakes {
		dc.DrawCircle(f.X, f.Y, f.R)
	}
	return dc.Fill()
}
