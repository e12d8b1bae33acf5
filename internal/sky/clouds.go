package sky

import (
	"math"
	"math/rand/v2"

	"github.com/gogpu/gg"
)

// CloudCapacity is the fixed size of the cloud pool.
const CloudCapacity = 120

const (
	minCloudAlpha = 0.01
	cloudEaseRate = 6 // 1/s
	// cloudBaseSpeed is the px/s speed of a layer-1 cloud in still air; each
	// 25 mph of wind adds cloudWindSpeed on top of it.
	cloudBaseSpeed = 12
	cloudWindSpeed = 48
	cloudSpeedUnit = 0.5
)

// Cloud is one soft puff. It is never removed from the pool, only faded.
type Cloud struct {
	X, Y  float64
	R     float64
	Alpha float64
	Z     float64 // layer speed multiplier
	Seed  float64
}

func newCloud(rng *rand.Rand, w, h, dpr float64) Cloud {
	return Cloud{
		X:    rng.Float64() * w,
		Y:    (0.1 + rng.Float64()*0.5) * h,
		R:    (60 + rng.Float64()*160) * dpr,
		Z:    0.5 + rng.Float64()*1.5,
		Seed: rng.Float64() * math.Pi * 2,
	}
}

// CloudTarget is how many clouds of the pool are active for a cover fraction.
func CloudTarget(cover float64) int {
	return int(math.Round((0.3 + 0.7*cover) * CloudCapacity))
}

// CloudTargetAlpha is the alpha active clouds ease toward. Night clouds are
// drawn more opaque so they read against a dark sky.
func CloudTargetAlpha(cover, day float64) float64 {
	return (0.3 + 0.6*cover) * (0.6 + 0.4*(1-day))
}

// easeAlpha moves a toward target by a frame-rate independent step. The step
// factor is capped at 1 so large dt never overshoots.
func easeAlpha(a, target, dt float64) float64 {
	return a + (target-a)*math.Min(1, cloudEaseRate*dt)
}

// CloudSpeed is the horizontal speed in px/s of a layer-1 cloud.
func CloudSpeed(windSpeed float64) float64 {
	return (cloudBaseSpeed + cloudWindSpeed*windSpeed/25) * cloudSpeedUnit
}

type cloudStep struct {
	w, h, dpr    float64
	t, dt        float64
	windX, windY float64
	speed        float64
	target       int
	alpha        float64
}

// stepClouds eases and moves every cloud; it returns how many are visible.
func stepClouds(clouds []Cloud, s cloudStep) int {
	visible := 0
	for i := range clouds {
		c := &clouds[i]

		target := 0.0
		if i < s.target {
			target = s.alpha
		}
		c.Alpha = easeAlpha(c.Alpha, target, s.dt)

		v := s.speed * c.Z
		c.X += v * s.windX * s.dt
		c.Y += v*0.2*s.windY*s.dt + math.Sin(s.t*0.25+c.Seed)*2*s.dpr*s.dt

		if c.X < -c.R {
			c.X = s.w + c.R
		} else if c.X > s.w+c.R {
			c.X = -c.R
		}
		c.Y = math.Max(s.h*0.05, math.Min(s.h*0.7, c.Y))

		if c.Alpha > minCloudAlpha {
			visible++
		}
	}
	return visible
}

func drawClouds(dc *gg.Context, clouds []Cloud, dpr float64) error {
	for _, c := range clouds {
		if c.Alpha <= minCloudAlpha {
			continue
		}
		dc.SetRGBA(1, 1, 1, 0.9*c.Alpha)
		for k := 0; k < 3; k++ {
			off := float64(k-1) * c.R * 0.6
			dc.DrawEllipse(c.X+off*0.6, c.Y+math.Sin(c.Seed+float64(k))*8*dpr, c.R*0.9, c.R*0.6)
			if err := dc.Fill(); err != nil {
				return err
			}
		}
	}
	return nil
}
