package store

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/i474232898/weather-sky/internal/weather"
)

var (
	// ErrNotFound is returned when no data is available for a given location.
	ErrNotFound = errors.New("no weather data for location")
)

// MemoryStore is a concurrency-safe in-memory history of weather snapshots,
// kept per location and ordered by timestamp.
type MemoryStore struct {
	mu sync.RWMutex

	// key: location key, value: snapshots ordered by Timestamp
	data map[string][]weather.Snapshot

	maxHistory int           // max number of snapshots per location
	maxAge     time.Duration // optional max age for snapshots
	now        func() time.Time
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxHistory or maxAge is <= 0, that limit is unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:       make(map[string][]weather.Snapshot),
		maxHistory: maxHistory,
		maxAge:     maxAge,
		now:        time.Now,
	}
}

// SaveSnapshot inserts a snapshot for a location and enforces retention.
// The most recent snapshot is always kept even when it is older than maxAge,
// so the last good weather survives long upstream outages.
func (s *MemoryStore) SaveSnapshot(loc weather.Location, snapshot weather.Snapshot) {
	key := loc.Key()

	s.mu.Lock()
	defer s.mu.Unlock()

	history := s.data[key]
	i := sort.Search(len(history), func(i int) bool {
		return history[i].Timestamp.After(snapshot.Timestamp)
	})
	history = append(history, weather.Snapshot{})
	copy(history[i+1:], history[i:])
	history[i] = snapshot

	if s.maxHistory > 0 && len(history) > s.maxHistory {
		history = history[len(history)-s.maxHistory:]
	}

	if s.maxAge > 0 {
		cutoff := s.now().Add(-s.maxAge)
		drop := sort.Search(len(history), func(i int) bool {
			return !history[i].Timestamp.Before(cutoff)
		})
		if drop >= len(history) {
			drop = len(history) - 1
		}
		history = history[drop:]
	}

	s.data[key] = history
}

// GetLatest returns the most recent snapshot for a location.
func (s *MemoryStore) GetLatest(loc weather.Location) (weather.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.data[loc.Key()]
	if len(history) == 0 {
		return weather.Snapshot{}, ErrNotFound
	}
	return history[len(history)-1], nil
}

// GetRange returns all snapshots for a location between from and to (inclusive).
func (s *MemoryStore) GetRange(loc weather.Location, from, to time.Time) ([]weather.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.data[loc.Key()]
	start := sort.Search(len(history), func(i int) bool {
		return !history[i].Timestamp.Before(from)
	})
	end := sort.Search(len(history), func(i int) bool {
		return history[i].Timestamp.After(to)
	})
	if start >= end {
		return nil, ErrNotFound
	}

	result := make([]weather.Snapshot, end-start)
	copy(result, history[start:end])
	return result, nil
}

// Len returns the number of snapshots held for a location.
func (s *MemoryStore) Len(loc weather.Location) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data[loc.Key()])
}
