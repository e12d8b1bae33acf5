package weather

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/weather-sky/internal/log"
)

var (
	// ErrThrottled is returned by Refresh when the previous fetch is too recent.
	ErrThrottled = errors.New("weather fetch throttled")
	// ErrNoProviders is returned when no provider is configured.
	ErrNoProviders = errors.New("no weather providers configured")
	// ErrNoHistory is returned by history lookups on a service without a store.
	ErrNoHistory = errors.New("weather history is not kept")
)

// DefaultMinFetchGap is the minimum spacing between two network fetches.
const DefaultMinFetchGap = 10 * time.Minute

// Service owns the current weather State: it fetches from providers,
// merges their readings and publishes the result for the renderer.
type Service struct {
	store     Store
	providers []Provider
	minGap    time.Duration
	now       func() time.Time

	mu        sync.RWMutex
	state     State
	location  Location
	lastFetch time.Time

	// fetchMu serializes fetches so a slow round cannot race a newer one.
	fetchMu sync.Mutex
}

// NewService creates a new Service for loc, starting from DefaultState.
func NewService(store Store, providers []Provider, loc Location, minGap time.Duration) *Service {
	if minGap < 0 {
		minGap = 0
	}
	return &Service{
		store:     store,
		providers: providers,
		minGap:    minGap,
		now:       time.Now,
		state:     DefaultState(),
		location:  loc,
	}
}

// State returns the latest published weather state.
func (s *Service) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Location returns the location fetches are keyed by.
func (s *Service) Location() Location {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.location
}

// SetLocation switches the tracked location. A different location clears the
// throttle so the next Refresh fetches for the new place immediately.
func (s *Service) SetLocation(loc Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.location.Equal(loc) {
		s.lastFetch = time.Time{}
	}
	s.location = loc
}

// Refresh fetches from all providers for the current location, merges the
// successful readings and publishes the new state. It returns ErrThrottled
// without touching the network when the previous fetch started less than the
// minimum gap ago. On failure the previous state is kept.
func (s *Service) Refresh(ctx context.Context) error {
	s.fetchMu.Lock()
	defer s.fetchMu.Unlock()

	if len(s.providers) == 0 {
		return ErrNoProviders
	}

	s.mu.Lock()
	now := s.now()
	if !s.lastFetch.IsZero() && now.Sub(s.lastFetch) < s.minGap {
		s.mu.Unlock()
		return ErrThrottled
	}
	s.lastFetch = now
	loc := s.location
	prior := s.state
	s.mu.Unlock()

	fetchID := uuid.NewString()
	readings := s.fetchAll(ctx, loc, fetchID)
	if len(readings) == 0 {
		// No providers succeeded; do not overwrite last good state.
		return fmt.Errorf("fetch %s for %s: all %d providers failed", fetchID, loc.Key(), len(s.providers))
	}
	orderReadings(readings, s.providers)

	snapshot := MergeReadings(loc, prior, readings)
	for i := range snapshot.Providers {
		snapshot.Providers[i].FetchID = fetchID
	}

	s.mu.Lock()
	// A location change during the fetch makes this result stale.
	stale := !s.location.Equal(loc)
	if !stale {
		s.state = snapshot.State
	}
	s.mu.Unlock()

	if stale {
		log.Warnw("discarding weather fetched for previous location", "fetch_id", fetchID, "location", loc.Key())
		return nil
	}

	if s.store != nil {
		s.store.SaveSnapshot(loc, snapshot)
	}
	log.Infow("weather refreshed",
		"fetch_id", fetchID,
		"location", loc.Key(),
		"providers", len(readings),
		"condition", snapshot.Condition,
		"cloud_cover", snapshot.State.CloudCover,
		"weather_code", snapshot.State.WeatherCode,
	)
	return nil
}

func (s *Service) fetchAll(ctx context.Context, loc Location, fetchID string) []Reading {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		readings []Reading
	)

	for _, p := range s.providers {
		wg.Add(1)
		go func(p Provider) {
			defer wg.Done()

			r, err := p.Fetch(ctx, loc)
			if err != nil {
				// Log and continue; we want partial success when possible.
				log.Warnw("weather provider fetch failed",
					"fetch_id", fetchID, "provider", p.Name(), "location", loc.Key(), "error", err)
				return
			}
			if r.ProviderName == "" {
				r.ProviderName = p.Name()
			}

			mu.Lock()
			readings = append(readings, r)
			mu.Unlock()
		}(p)
	}

	wg.Wait()
	return readings
}

// GetLatest delegates to the underlying store.
func (s *Service) GetLatest(loc Location) (Snapshot, error) {
	if s.store == nil {
		return Snapshot{}, ErrNoHistory
	}
	return s.store.GetLatest(loc)
}

// GetRange delegates to the underlying store.
func (s *Service) GetRange(loc Location, from, to time.Time) ([]Snapshot, error) {
	if s.store == nil {
		return nil, ErrNoHistory
	}
	return s.store.GetRange(loc, from, to)
}
