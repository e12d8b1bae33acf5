package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/weather-sky/internal/log"
	"github.com/i474232898/weather-sky/internal/weather"
)

const (
	// jobTimeout bounds a single refresh round.
	jobTimeout = 30 * time.Second
	// tickSlack keeps a tick that fires slightly early from landing inside
	// the service's minimum fetch gap.
	tickSlack = time.Second
)

// Refresher is the weather source the job drives. weather.Service implements it.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Scheduler periodically refreshes the weather without blocking rendering.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   Refresher
	interval  time.Duration
}

// New creates a new Scheduler.
func New(interval time.Duration, service Refresher) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		service:   service,
		interval:  interval,
	}
}

// Start schedules the periodic job, runs it once immediately, and starts the
// underlying scheduler.
func (s *Scheduler) Start() error {
	_, err := s.scheduler.Every(jobInterval(s.interval)).StartImmediately().Do(s.run)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// jobInterval is the spacing between scheduled refreshes.
func jobInterval(interval time.Duration) time.Duration {
	if interval <= 0 {
		interval = weather.DefaultMinFetchGap
	}
	return interval + tickSlack
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	err := s.service.Refresh(ctx)
	switch {
	case err == nil:
	case errors.Is(err, weather.ErrThrottled):
		log.Debugw("scheduler: refresh throttled")
	default:
		log.Warnw("scheduler: weather refresh failed", "error", err)
	}
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
