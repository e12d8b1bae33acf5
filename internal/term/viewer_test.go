package term

import (
	"context"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/i474232898/weather-sky/internal/animation"
	"github.com/i474232898/weather-sky/internal/render"
	"github.com/i474232898/weather-sky/internal/sky"
)

func newScreen(t *testing.T, cols, rows int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("init screen: %v", err)
	}
	screen.SetSize(cols, rows)
	t.Cleanup(screen.Fini)
	return screen
}

func TestBlitHalfBlocks(t *testing.T) {
	screen := newScreen(t, 2, 1)

	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.SetRGBA(0, 0, color.RGBA{R: 255, A: 255})
	img.SetRGBA(0, 1, color.RGBA{B: 255, A: 255})
	img.SetRGBA(1, 0, color.RGBA{G: 255, A: 255})
	img.SetRGBA(1, 1, color.RGBA{R: 10, G: 20, B: 30, A: 255})

	Blit(screen, img)

	tests := []struct {
		x      int
		fg, bg tcell.Color
	}{
		{0, tcell.NewRGBColor(255, 0, 0), tcell.NewRGBColor(0, 0, 255)},
		{1, tcell.NewRGBColor(0, 255, 0), tcell.NewRGBColor(10, 20, 30)},
	}
	for _, tt := range tests {
		r, _, style, _ := screen.GetContent(tt.x, 0)
		if r != upperHalf {
			t.Fatalf("cell %d rune = %q", tt.x, r)
		}
		fg, bg, _ := style.Decompose()
		if fg != tt.fg || bg != tt.bg {
			t.Fatalf("cell %d colors = %v/%v, want %v/%v", tt.x, fg, bg, tt.fg, tt.bg)
		}
	}
}

func TestToColorUnpremultiplies(t *testing.T) {
	got := toColor(color.RGBA{R: 64, G: 32, B: 0, A: 128})
	r, g, b := got.RGB()
	if r != 127 || g != 63 || b != 0 {
		t.Fatalf("rgb = %d,%d,%d", r, g, b)
	}
}

func newViewer(t *testing.T, screen tcell.Screen) *Viewer {
	t.Helper()
	cols, rows := screen.Size()
	w, h := CanvasSize(cols, rows)
	surface := sky.NewSurface(w, h, 1)
	scene := sky.NewScene(sky.Options{Seed: 1, Width: w, Height: h, DPR: 1})
	r := render.New(scene, surface, nil)
	t.Cleanup(func() { _ = r.Close() })
	return NewViewer(screen, r, animation.WithFPS(100))
}

func TestViewerQuitsOnKey(t *testing.T) {
	screen := newScreen(t, 16, 8)
	v := newViewer(t, screen)

	done := make(chan error, 1)
	go func() { done <- v.Run(context.Background()) }()

	time.Sleep(50 * time.Millisecond)
	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("viewer did not quit")
	}
	if v.Loop().Frames() == 0 {
		t.Fatal("no frames drawn")
	}
	if w, h := v.renderer.Size(); w != 16 || h != 16 {
		t.Fatalf("canvas = %dx%d, want 16x16", w, h)
	}
}

func TestViewerFocusPauses(t *testing.T) {
	screen := newScreen(t, 8, 4)
	v := newViewer(t, screen)

	if !v.handleEvent(tcell.NewEventFocus(false)) {
		t.Fatal("focus event quit the viewer")
	}
	if v.Loop().Visible() {
		t.Fatal("loop still visible after focus loss")
	}
	v.handleEvent(tcell.NewEventFocus(true))
	if !v.Loop().Visible() {
		t.Fatal("loop not resumed on focus")
	}

	if v.handleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)) {
		t.Fatal("escape did not quit")
	}
}

func TestViewerResizeEvent(t *testing.T) {
	screen := newScreen(t, 8, 4)
	v := newViewer(t, screen)

	screen.SetSize(12, 5)
	v.handleEvent(tcell.NewEventResize(12, 5))
	if w, h := v.renderer.Size(); w != 12 || h != 10 {
		t.Fatalf("canvas = %dx%d, want 12x10", w, h)
	}
}

func TestViewerScalesSkyToCells(t *testing.T) {
	screen := newScreen(t, 80, 24)
	v := newViewer(t, screen)

	if err := v.resize(); err != nil {
		t.Fatalf("resize: %v", err)
	}
	if err := v.renderer.Frame(time.Now(), 0); err != nil {
		t.Fatalf("Frame: %v", err)
	}
	st := v.renderer.Status()
	if st.Width != 80 || st.Height != 48 {
		t.Fatalf("canvas = %dx%d, want 80x48", st.Width, st.Height)
	}
	if want := 80.0 / 960; st.DPR != want {
		t.Fatalf("dpr = %v, want %v", st.DPR, want)
	}
}

func TestCellDPR(t *testing.T) {
	tests := []struct {
		w    int
		want float64
	}{
		{960, 1},
		{480, 0.5},
		{96, 0.1},
	}
	for _, tt := range tests {
		if got := CellDPR(tt.w); got != tt.want {
			t.Errorf("CellDPR(%d) = %v, want %v", tt.w, got, tt.want)
		}
	}
}

func TestViewerStopsOnCancel(t *testing.T) {
	screen := newScreen(t, 8, 4)
	v := newViewer(t, screen)

	ctx, cancel := context.WithTimeout(context.Background(), 80*time.Millisecond)
	defer cancel()
	if err := v.Run(ctx); err != nil && err != context.DeadlineExceeded {
		t.Fatalf("Run: %v", err)
	}
}
