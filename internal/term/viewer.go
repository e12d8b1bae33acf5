package term

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/i474232898/weather-sky/internal/animation"
	"github.com/i474232898/weather-sky/internal/log"
	"github.com/i474232898/weather-sky/internal/render"
)

// Viewer animates a renderer on a terminal screen. Losing terminal focus
// pauses the animation; regaining it resumes.
type Viewer struct {
	screen   tcell.Screen
	renderer *render.Renderer
	loop     *animation.Loop
}

// NewViewer wires screen and renderer together. The screen must already be
// initialized.
func NewViewer(screen tcell.Screen, renderer *render.Renderer, opts ...animation.Option) *Viewer {
	v := &Viewer{screen: screen, renderer: renderer}
	v.loop = animation.NewLoop(v.drawFrame, opts...)
	return v
}

// Loop exposes the frame loop, mainly for pausing from outside.
func (v *Viewer) Loop() *animation.Loop { return v.loop }

func (v *Viewer) drawFrame(now time.Time, dt time.Duration) {
	if err := v.renderer.Frame(now, dt); err != nil {
		log.Warnw("frame failed", "error", err)
		return
	}
	Blit(v.screen, v.renderer.Image())
	v.screen.Show()
}

func (v *Viewer) resize() error {
	w, h := CanvasSize(v.screen.Size())
	if w <= 0 || h <= 0 {
		return nil
	}
	if err := v.renderer.ResizeDevice(w, h, CellDPR(w)); err != nil {
		return fmt.Errorf("resize viewer: %w", err)
	}
	v.screen.Sync()
	return nil
}

// handleEvent returns false when the viewer should quit.
func (v *Viewer) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
			(ev.Key() == tcell.KeyRune && (ev.Rune() == 'q' || ev.Rune() == 'Q')) {
			return false
		}
		if ev.Key() == tcell.KeyRune && ev.Rune() == ' ' {
			v.loop.SetVisible(!v.loop.Visible())
		}

	case *tcell.EventResize:
		if err := v.resize(); err != nil {
			log.Warnw("resize failed", "error", err)
		}

	case *tcell.EventFocus:
		v.loop.SetVisible(ev.Focused)
		log.Debugw("focus changed", "focused", ev.Focused)
	}
	return true
}

// Run animates until ctx is done or the user quits. It returns nil on quit.
func (v *Viewer) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	v.screen.EnableFocus()
	v.screen.HideCursor()
	if err := v.resize(); err != nil {
		return err
	}

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	loopDone := make(chan error, 1)
	go func() { loopDone <- v.loop.Run(ctx) }()

	for {
		select {
		case <-ctx.Done():
			<-loopDone
			return ctx.Err()
		case err := <-loopDone:
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		case ev := <-events:
			if !v.handleEvent(ev) {
				cancel()
				<-loopDone
				return nil
			}
		}
	}
}
