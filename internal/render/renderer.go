// Package render binds a sky scene and its canvas to the live weather state
// and serializes access for the hosts that display it.
package render

import (
	"fmt"
	"image"
	"io"
	"sync"
	"time"

	"github.com/i474232898/weather-sky/internal/geo"
	"github.com/i474232898/weather-sky/internal/sky"
	"github.com/i474232898/weather-sky/internal/weather"
)

// StateSource publishes the current weather. weather.Service implements it.
type StateSource interface {
	State() weather.State
}

// Status is what the last rendered frame showed.
type Status struct {
	RenderedAt  time.Time       `json:"renderedAt"`
	Frames      uint64          `json:"frames"`
	Width       int             `json:"width"`
	Height      int             `json:"height"`
	DPR         float64         `json:"dpr"`
	Coordinates geo.Coordinates `json:"coordinates"`
	Weather     weather.State   `json:"weather"`
	Sky         sky.Stats       `json:"sky"`
}

// Renderer owns a Scene and the Surface it paints onto.
type Renderer struct {
	source StateSource

	mu      sync.Mutex
	scene   *sky.Scene
	surface *sky.Surface
	status  Status
}

// New creates a renderer. source may be nil, in which case the default
// weather is drawn.
func New(scene *sky.Scene, surface *sky.Surface, source StateSource) *Renderer {
	return &Renderer{scene: scene, surface: surface, source: source}
}

func (r *Renderer) weather() weather.State {
	if r.source == nil {
		return weather.DefaultState()
	}
	return r.source.State()
}

// Frame advances and paints one frame.
func (r *Renderer) Frame(now time.Time, dt time.Duration) error {
	wx := r.weather()

	r.mu.Lock()
	defer r.mu.Unlock()

	f := r.surface.Frame(sky.Frame{Now: now, Delta: dt})
	stats, err := r.scene.RenderFrame(r.surface.Context(), f, wx)
	r.status = Status{
		RenderedAt:  now,
		Frames:      r.status.Frames + 1,
		Width:       f.Width,
		Height:      f.Height,
		DPR:         f.DPR,
		Coordinates: r.scene.Coordinates(),
		Weather:     wx,
		Sky:         stats,
	}
	if err != nil {
		return fmt.Errorf("frame %d: %w", r.status.Frames, err)
	}
	return nil
}

// Advance paints a frame at now, taking dt from the previous frame. It is
// used by hosts that render on demand rather than on a ticker.
func (r *Renderer) Advance(now time.Time) error {
	r.mu.Lock()
	last := r.status.RenderedAt
	r.mu.Unlock()

	var dt time.Duration
	if !last.IsZero() {
		dt = now.Sub(last)
	}
	return r.Frame(now, dt)
}

// Status returns a copy of the last frame's status.
func (r *Renderer) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// Image copies the current canvas.
func (r *Renderer) Image() image.Image {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.surface.Context().Image()
}

// EncodePNG writes the current canvas as PNG.
func (r *Renderer) EncodePNG(w io.Writer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.surface.EncodePNG(w)
}

// Resize changes the viewport. The next frame rescales clouds and particles
// already in flight to the new canvas.
func (r *Renderer) Resize(cssW, cssH int, dpr float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.surface.Resize(cssW, cssH, dpr)
}

// ResizeDevice sizes the canvas to exactly w x h device pixels at dpr.
func (r *Renderer) ResizeDevice(w, h int, dpr float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.surface.ResizeDevice(w, h, dpr)
}

// Size returns the device-pixel canvas size.
func (r *Renderer) Size() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.surface.Size()
}

// SetCoordinates moves the observer.
func (r *Renderer) SetCoordinates(c geo.Coordinates) {
	r.scene.SetCoordinates(c)
}

// Close releases the canvas.
func (r *Renderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.surface.Close()
}
