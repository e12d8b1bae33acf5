package animation

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestTickDeltas(t *testing.T) {
	clock := NewManualClock(time.Unix(1_700_000_000, 0))
	var deltas []time.Duration
	l := NewLoop(func(_ time.Time, dt time.Duration) {
		deltas = append(deltas, dt)
	}, WithClock(clock))

	l.Tick(clock.Now())
	clock.Advance(33 * time.Millisecond)
	l.Tick(clock.Now())

	if len(deltas) != 2 || deltas[0] != 0 || deltas[1] != 33*time.Millisecond {
		t.Fatalf("deltas = %v", deltas)
	}
}

func TestHiddenLoopSkipsFrames(t *testing.T) {
	clock := NewManualClock(time.Unix(0, 0))
	var last time.Duration
	l := NewLoop(func(_ time.Time, dt time.Duration) { last = dt })

	l.Tick(clock.Now())
	l.SetVisible(false)
	for i := 0; i < 10; i++ {
		clock.Advance(time.Second)
		if l.Tick(clock.Now()) {
			t.Fatal("frame drawn while hidden")
		}
	}
	if l.Frames() != 1 {
		t.Fatalf("frames = %d, want 1", l.Frames())
	}

	l.SetVisible(true)
	clock.Advance(time.Second)
	if !l.Tick(clock.Now()) {
		t.Fatal("no frame after resume")
	}
	// The resumed frame spans the pause; the renderer clamps it.
	if last != 11*time.Second {
		t.Fatalf("resume dt = %v", last)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	var frames atomic.Int32
	l := NewLoop(func(time.Time, time.Duration) { frames.Add(1) }, WithFPS(200))

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := l.Run(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Run returned %v", err)
	}
	if frames.Load() == 0 {
		t.Fatal("no frames drawn")
	}
}

func TestInterval(t *testing.T) {
	if got := NewLoop(nil).Interval(); got != time.Second/30 {
		t.Fatalf("default interval = %v", got)
	}
	if got := NewLoop(nil, WithFPS(0)).Interval(); got != time.Second/30 {
		t.Fatalf("fps 0 interval = %v", got)
	}
	if got := NewLoop(nil, WithFPS(60)).Interval(); got != time.Second/60 {
		t.Fatalf("60 fps interval = %v", got)
	}
}
