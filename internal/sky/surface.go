package sky

import (
	"fmt"
	"io"
	"math"

	"github.com/gogpu/gg"
)

// MaxDPR caps the device-pixel-ratio so large displays stay cheap to fill.
const MaxDPR = 1.5

// CapDPR returns dpr limited to (0, MaxDPR]; non-positive values mean 1.
func CapDPR(dpr float64) float64 {
	if dpr <= 0 || math.IsNaN(dpr) {
		return 1
	}
	return math.Min(dpr, MaxDPR)
}

// Surface is the device-pixel canvas the scene is painted onto.
type Surface struct {
	dc   *gg.Context
	cssW int
	cssH int
	dpr  float64
}

func deviceSize(cssW, cssH int, dpr float64) (int, int) {
	w := int(math.Floor(float64(cssW) * dpr))
	h := int(math.Floor(float64(cssH) * dpr))
	return max(w, 1), max(h, 1)
}

// NewSurface allocates a canvas of floor(css*dpr) device pixels.
func NewSurface(cssW, cssH int, dpr float64) *Surface {
	dpr = CapDPR(dpr)
	w, h := deviceSize(cssW, cssH, dpr)
	return &Surface{dc: gg.NewContext(w, h), cssW: cssW, cssH: cssH, dpr: dpr}
}

// Resize reallocates the canvas for a new viewport.
func (s *Surface) Resize(cssW, cssH int, dpr float64) error {
	dpr = CapDPR(dpr)
	w, h := deviceSize(cssW, cssH, dpr)
	if err := s.dc.Resize(w, h); err != nil {
		return fmt.Errorf("resize surface to %dx%d: %w", w, h, err)
	}
	s.cssW, s.cssH, s.dpr = cssW, cssH, dpr
	return nil
}

// ResizeDevice sizes the canvas to exactly w x h device pixels drawn at dpr.
// The viewport size is derived from it. Unlike Resize, dpr may be below 1,
// which scales the sky down onto small canvases.
func (s *Surface) ResizeDevice(w, h int, dpr float64) error {
	dpr = CapDPR(dpr)
	w, h = max(w, 1), max(h, 1)
	if err := s.dc.Resize(w, h); err != nil {
		return fmt.Errorf("resize surface to %dx%d: %w", w, h, err)
	}
	s.cssW = int(math.Round(float64(w) / dpr))
	s.cssH = int(math.Round(float64(h) / dpr))
	s.dpr = dpr
	return nil
}

// Context exposes the underlying canvas.
func (s *Surface) Context() *gg.Context { return s.dc }

// Size returns the device-pixel dimensions.
func (s *Surface) Size() (int, int) { return s.dc.Width(), s.dc.Height() }

// CSSSize returns the viewport dimensions before scaling.
func (s *Surface) CSSSize() (int, int) { return s.cssW, s.cssH }

// DPR returns the capped device-pixel-ratio.
func (s *Surface) DPR() float64 { return s.dpr }

// Frame builds the frame input for this surface.
func (s *Surface) Frame(f Frame) Frame {
	f.Width, f.Height = s.Size()
	f.DPR = s.dpr
	return f
}

// EncodePNG writes the current canvas as PNG.
func (s *Surface) EncodePNG(w io.Writer) error {
	return s.dc.EncodePNG(w)
}

// Close releases the canvas.
func (s *Surface) Close() error {
	return s.dc.Close()
}
