package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/i474232898/weather-sky/internal/weather"
)

type countingRefresher struct {
	calls atomic.Int32
	err   error
}

func (c *countingRefresher) Refresh(context.Context) error {
	c.calls.Add(1)
	return c.err
}

func TestStartRunsImmediately(t *testing.T) {
	r := &countingRefresher{}
	s := New(time.Hour, r)
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for r.calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if got := r.calls.Load(); got != 1 {
		t.Fatalf("calls = %d, want 1", got)
	}
}

func TestRunSwallowsErrors(t *testing.T) {
	for _, err := range []error{weather.ErrThrottled, errors.New("upstream down")} {
		r := &countingRefresher{err: err}
		s := New(time.Hour, r)
		s.run()
		if r.calls.Load() != 1 {
			t.Fatalf("calls = %d", r.calls.Load())
		}
	}
}

func TestJobIntervalClearsMinFetchGap(t *testing.T) {
	tests := []struct {
		interval, want time.Duration
	}{
		{0, weather.DefaultMinFetchGap + tickSlack},
		{-time.Minute, weather.DefaultMinFetchGap + tickSlack},
		{weather.DefaultMinFetchGap, weather.DefaultMinFetchGap + time.Second},
		{15 * time.Minute, 15*time.Minute + time.Second},
	}
	for _, tt := range tests {
		if got := jobInterval(tt.interval); got != tt.want {
			t.Errorf("jobInterval(%v) = %v, want %v", tt.interval, got, tt.want)
		}
		if got := jobInterval(tt.interval); got <= weather.DefaultMinFetchGap {
			t.Errorf("jobInterval(%v) = %v is inside the fetch gap", tt.interval, got)
		}
	}
}
