// Package animation drives a frame function at a fixed rate, pausing while
// the host view is hidden.
package animation

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultFPS gives a frame about every 33ms.
const DefaultFPS = 30

// FrameFunc draws one frame. dt is the raw time since the previous frame;
// consumers clamp it.
type FrameFunc func(now time.Time, dt time.Duration)

// Option configures a Loop.
type Option func(*Loop)

// WithClock replaces the wall clock.
func WithClock(c TimeProvider) Option {
	return func(l *Loop) { l.clock = c }
}

// WithFPS sets the tick rate; values below 1 keep the default.
func WithFPS(fps int) Option {
	return func(l *Loop) {
		if fps > 0 {
			l.fps = fps
		}
	}
}

// Loop calls a FrameFunc on every tick while visible.
type Loop struct {
	frame FrameFunc
	clock TimeProvider
	fps   int

	visible atomic.Bool
	frames  atomic.Uint64

	mu   sync.Mutex
	last time.Time
}

// NewLoop creates a visible loop.
func NewLoop(frame FrameFunc, opts ...Option) *Loop {
	l := &Loop{
		frame: frame,
		clock: SystemClock{},
		fps:   DefaultFPS,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.visible.Store(true)
	return l
}

// Interval is the time between ticks.
func (l *Loop) Interval() time.Duration {
	return time.Second / time.Duration(l.fps)
}

// SetVisible pauses (false) or resumes (true) frame delivery. The first
// frame after resuming sees the whole hidden gap as dt.
func (l *Loop) SetVisible(v bool) {
	l.visible.Store(v)
}

// Visible reports whether frames are being delivered.
func (l *Loop) Visible() bool {
	return l.visible.Load()
}

// Frames returns how many frames have been drawn.
func (l *Loop) Frames() uint64 {
	return l.frames.Load()
}

// Tick draws one frame at now if the loop is visible. It reports whether
// a frame was drawn.
func (l *Loop) Tick(now time.Time) bool {
	if !l.visible.Load() {
		return false
	}

	l.mu.Lock()
	var dt time.Duration
	if !l.last.IsZero() {
		dt = now.Sub(l.last)
	}
	l.last = now
	l.mu.Unlock()

	l.frame(now, dt)
	l.frames.Add(1)
	return true
}

// Run ticks until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.Interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			l.Tick(l.clock.Now())
		}
	}
}
