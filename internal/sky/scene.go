// Package sky draws the animated weather sky: gradient, stars, sun and moon,
// clouds, rain or snow, and fog.
package sky

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/i474232898/weather-sky/internal/astro"
	"github.com/i474232898/weather-sky/internal/geo"
)

// Options configures a Scene. Width and Height are device pixels.
type Options struct {
	Seed        uint64
	Width       int
	Height      int
	CSSWidth    int
	DPR         float64
	Coordinates geo.Coordinates
	// Astro may be nil, in which case the day-fraction follows the clock.
	Astro astro.Provider
}

// Scene owns every pool the sky animates. It is not safe for concurrent
// RenderFrame calls; coordinates may be swapped from any goroutine.
type Scene struct {
	rng     *rand.Rand
	astro   astro.Provider
	elapsed float64

	// geometry the pools are currently laid out for
	w, h, dpr float64

	mu     sync.RWMutex
	coords geo.Coordinates

	stars  []Star
	clouds []Cloud
	rain   []Raindrop
	snow   []Snowflake
}

// NewScene allocates the star field and particle pools once.
func NewScene(opts Options) *Scene {
	seed := opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	dpr := CapDPR(opts.DPR)
	cssWidth := opts.CSSWidth
	if cssWidth <= 0 {
		cssWidth = int(float64(opts.Width) / dpr)
	}

	s := &Scene{
		rng:    rng,
		astro:  opts.Astro,
		coords: opts.Coordinates,
		stars:  newStars(rng, StarCount(cssWidth)),
		clouds: make([]Cloud, CloudCapacity),
		rain:   make([]Raindrop, 0, RainCapacity),
		snow:   make([]Snowflake, 0, SnowCapacity),
		w:      float64(opts.Width),
		h:      float64(opts.Height),
		dpr:    dpr,
	}
	for i := range s.clouds {
		s.clouds[i] = newCloud(rng, float64(opts.Width), float64(opts.Height), dpr)
	}
	return s
}

// fit rescales clouds and particles in flight when the canvas geometry
// changes, so positions keep their place in the view and sizes follow dpr.
func (s *Scene) fit(w, h, dpr float64) {
	if w == s.w && h == s.h && dpr == s.dpr {
		return
	}
	if s.w > 0 && s.h > 0 && s.dpr > 0 {
		sx, sy, sr := w/s.w, h/s.h, dpr/s.dpr
		for i := range s.clouds {
			c := &s.clouds[i]
			c.X, c.Y, c.R = c.X*sx, c.Y*sy, c.R*sr
		}
		for i := range s.rain {
			d := &s.rain[i]
			d.X, d.Y, d.Len = d.X*sx, d.Y*sy, d.Len*sr
		}
		for i := range s.snow {
			f := &s.snow[i]
			f.X, f.Y, f.R = f.X*sx, f.Y*sy, f.R*sr
		}
	}
	s.w, s.h, s.dpr = w, h, dpr
}

// Coordinates returns the observer location in use.
func (s *Scene) Coordinates() geo.Coordinates {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.coords
}

// SetCoordinates moves the observer; it takes effect on the next frame.
func (s *Scene) SetCoordinates(c geo.Coordinates) {
	s.mu.Lock()
	s.coords = c
	s.mu.Unlock()
}

// Stars returns the immutable star field.
func (s *Scene) Stars() []Star { return s.stars }

// Clouds returns the cloud pool. The slice is owned by the scene.
func (s *Scene) Clouds() []Cloud { return s.clouds }

// Raindrops returns the active raindrops. The slice is owned by the scene.
func (s *Scene) Raindrops() []Raindrop { return s.rain }

// Snowflakes returns the active snowflakes. The slice is owned by the scene.
func (s *Scene) Snowflakes() []Snowflake { return s.snow }
