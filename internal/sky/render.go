package sky

import (
	"fmt"
	"time"

	"github.com/gogpu/gg"

	"github.com/i474232898/weather-sky/internal/weather"
)

// MaxFrameDelta bounds dt so a resumed loop does not jump the particles.
const MaxFrameDelta = 50 * time.Millisecond

// ClampDelta limits d to [0, MaxFrameDelta].
func ClampDelta(d time.Duration) time.Duration {
	switch {
	case d < 0:
		return 0
	case d > MaxFrameDelta:
		return MaxFrameDelta
	}
	return d
}

// Frame is one tick's input. Width and Height are device pixels.
type Frame struct {
	Now    time.Time
	Delta  time.Duration
	Width  int
	Height int
	DPR    float64
}

// Stats describes what the last frame drew.
type Stats struct {
	DayFraction  float64 `json:"dayFraction"`
	StarStrength float64 `json:"starStrength"`
	SunVisible   bool    `json:"sunVisible"`
	MoonVisible  bool    `json:"moonVisible"`
	MoonPhase    float64 `json:"moonPhase"`
	ActiveClouds int     `json:"activeClouds"`
	Raindrops    int     `json:"raindrops"`
	Snowflakes   int     `json:"snowflakes"`
	Snow         bool    `json:"snow"`
	FogAlpha     float64 `json:"fogAlpha"`
	WindX        float64 `json:"windX"`
	WindY        float64 `json:"windY"`
}

// plan is the derived per-frame state shared by the update and draw passes.
type plan struct {
	w, h, dpr float64
	t         float64 // scene seconds, advanced by clamped dt
	wall      float64 // wall-clock seconds, for twinkling
	cover     float64
	cel       Celestial
	top, bot  RGB
	stars     float64
	sun       float64
	moon      float64
	windX     float64
	windY     float64
	precip    Precip
	fog       float64
	stats     Stats
}

// Step advances every pool by one frame without drawing.
func (s *Scene) Step(f Frame, wx weather.State) Stats {
	p := s.step(f, wx)
	return p.stats
}

// RenderFrame advances the scene by one frame and paints it onto dc in
// order: sky, stars, sun, moon, clouds, precipitation, fog.
func (s *Scene) RenderFrame(dc *gg.Context, f Frame, wx weather.State) (Stats, error) {
	p := s.step(f, wx)
	if err := s.draw(dc, p); err != nil {
		return p.stats, fmt.Errorf("render frame: %w", err)
	}
	return p.stats, nil
}

func (s *Scene) step(f Frame, wx weather.State) plan {
	dt := ClampDelta(f.Delta).Seconds()
	s.elapsed += dt

	p := plan{
		w:     float64(f.Width),
		h:     float64(f.Height),
		dpr:   CapDPR(f.DPR),
		t:     s.elapsed,
		wall:  float64(f.Now.UnixMilli()) / 1000,
		cover: wx.CloudFraction(),
	}
	s.fit(p.w, p.h, p.dpr)

	p.cel = computeCelestial(s.astro, f.Now, s.Coordinates())
	p.top, p.bot = SkyColors(p.cel.Day, p.cover)
	p.stars = StarStrength(p.cel.Day, p.cover)
	p.sun = SunStrength(p.cel.Day, p.cover)
	p.moon = MoonGlow(p.cel.MoonPhase, p.cover, p.stars)
	p.windX, p.windY = WindVector(wx.WindDir)

	active := stepClouds(s.clouds, cloudStep{
		w:      p.w,
		h:      p.h,
		dpr:    p.dpr,
		t:      p.t,
		dt:     dt,
		windX:  p.windX,
		windY:  p.windY,
		speed:  CloudSpeed(wx.WindSpeed),
		target: CloudTarget(p.cover),
		alpha:  CloudTargetAlpha(p.cover, p.cel.Day),
	})

	p.precip = ClassifyPrecip(wx)
	s.rain = resizeRain(s.rain, p.precip.RainTarget(), s.rng, p.w, p.h, p.dpr)
	s.snow = resizeSnow(s.snow, p.precip.SnowTarget(), s.rng, p.w, p.h, p.dpr)
	ps := precipStep{
		w:         p.w,
		h:         p.h,
		dpr:       p.dpr,
		dt:        dt,
		windX:     p.windX,
		windSpeed: wx.WindSpeed,
	}
	ps.intensity = p.precip.RainIntensity
	stepRain(s.rng, s.rain, ps)
	ps.intensity = p.precip.SnowIntensity
	stepSnow(s.rng, s.snow, ps)

	p.fog = FogAlpha(wx)

	p.stats = Stats{
		DayFraction:  p.cel.Day,
		StarStrength: p.stars,
		SunVisible:   p.cel.HasAstro && p.cel.Day > minSunDay,
		MoonVisible:  p.cel.HasAstro && p.cel.Moon.Altitude > minMoonAltitude,
		MoonPhase:    p.cel.MoonPhase,
		ActiveClouds: active,
		Raindrops:    len(s.rain),
		Snowflakes:   len(s.snow),
		Snow:         p.precip.Snow,
		FogAlpha:     p.fog,
		WindX:        p.windX,
		WindY:        p.windY,
	}
	return p
}

func (s *Scene) draw(dc *gg.Context, p plan) error {
	if err := drawSkyGradient(dc, p.w, p.h, p.top, p.bot); err != nil {
		return fmt.Errorf("sky: %w", err)
	}
	if p.stars > minStarStrength {
		if err := drawStars(dc, s.stars, p.stars, p.wall, p.w, p.h, p.dpr); err != nil {
			return fmt.Errorf("stars: %w", err)
		}
	}
	if p.stats.SunVisible {
		x, y := Project(p.cel.Sun, p.w, p.h)
		if err := drawSun(dc, x, y, sunRadius*p.dpr, p.sun); err != nil {
			return fmt.Errorf("sun: %w", err)
		}
	}
	if p.stats.MoonVisible {
		x, y := Project(p.cel.Moon, p.w, p.h)
		if err := drawMoon(dc, x, y, moonRadius*p.dpr, p.moon); err != nil {
			return fmt.Errorf("moon: %w", err)
		}
	}
	if err := drawClouds(dc, s.clouds, p.dpr); err != nil {
		return fmt.Errorf("clouds: %w", err)
	}
	if err := drawRain(dc, s.rain, p.windX, p.dpr); err != nil {
		return fmt.Errorf("rain: %w", err)
	}
	if err := drawSnow(dc, s.snow); err != nil {
		return fmt.Errorf("snow: %w", err)
	}
	if p.fog > minFogAlpha {
		if err := drawFog(dc, p.w, p.h, p.fog); err != nil {
			return fmt.Errorf("fog: %w", err)
		}
	}
	return nil
}
