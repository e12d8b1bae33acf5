package store

import (
	"errors"
	"testing"
	"time"

	"github.com/i474232898/weather-sky/internal/weather"
)

var base = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func snap(loc weather.Location, offset time.Duration, cover float64) weather.Snapshot {
	return weather.Snapshot{
		Location:  loc,
		Timestamp: base.Add(offset),
		State:     weather.State{CloudCover: cover},
	}
}

func newStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	s := NewMemoryStore(maxHistory, maxAge)
	s.now = func() time.Time { return base.Add(time.Hour) }
	return s
}

func TestGetLatestEmpty(t *testing.T) {
	s := newStore(0, 0)
	if _, err := s.GetLatest(weather.NewLocation(1, 1)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSaveKeepsTimestampOrder(t *testing.T) {
	s := newStore(0, 0)
	loc := weather.NewLocation(1, 1)

	s.SaveSnapshot(loc, snap(loc, 20*time.Minute, 2))
	s.SaveSnapshot(loc, snap(loc, 0, 0))
	s.SaveSnapshot(loc, snap(loc, 10*time.Minute, 1))

	got, err := s.GetRange(loc, base, base.Add(time.Hour))
	if err != nil {
		t.Fatalf("GetRange: %v", err)
	}
	for i, want := range []float64{0, 1, 2} {
		if got[i].State.CloudCover != want {
			t.Fatalf("got[%d] = %v, want %v", i, got[i].State.CloudCover, want)
		}
	}

	latest, _ := s.GetLatest(loc)
	if latest.State.CloudCover != 2 {
		t.Fatalf("latest = %v, want 2", latest.State.CloudCover)
	}
}

func TestMaxHistory(t *testing.T) {
	s := newStore(2, 0)
	loc := weather.NewLocation(1, 1)
	for i := 0; i < 5; i++ {
		s.SaveSnapshot(loc, snap(loc, time.Duration(i)*time.Minute, float64(i)))
	}
	if s.Len(loc) != 2 {
		t.Fatalf("Len = %d, want 2", s.Len(loc))
	}
	latest, _ := s.GetLatest(loc)
	if latest.State.CloudCover != 4 {
		t.Fatalf("latest = %v", latest.State.CloudCover)
	}
}

func TestMaxAgeKeepsMostRecent(t *testing.T) {
	s := newStore(0, 30*time.Minute)
	loc := weather.NewLocation(1, 1)

	// Both are older than the cutoff at base+30m.
	s.SaveSnapshot(loc, snap(loc, 0, 0))
	s.SaveSnapshot(loc, snap(loc, 10*time.Minute, 1))
	if s.Len(loc) != 1 {
		t.Fatalf("Len = %d, want 1", s.Len(loc))
	}

	s.SaveSnapshot(loc, snap(loc, 45*time.Minute, 2))
	s.SaveSnapshot(loc, snap(loc, 50*time.Minute, 3))
	if s.Len(loc) != 2 {
		t.Fatalf("Len = %d, want 2", s.Len(loc))
	}
}

func TestGetRange(t *testing.T) {
	s := newStore(0, 0)
	loc := weather.NewLocation(1, 1)
	other := weather.NewLocation(2, 2)
	for i := 0; i < 4; i++ {
		s.SaveSnapshot(loc, snap(loc, time.Duration(i)*10*time.Minute, float64(i)))
	}

	got, err := s.GetRange(loc, base.Add(10*time.Minute), base.Add(20*time.Minute))
	if err != nil {
		t.Fatalf("GetRange: %v", err)
	}
	if len(got) != 2 || got[0].State.CloudCover != 1 || got[1].State.CloudCover != 2 {
		t.Fatalf("range = %+v", got)
	}

	if _, err := s.GetRange(loc, base.Add(2*time.Hour), base.Add(3*time.Hour)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("empty range err = %v", err)
	}
	if _, err := s.GetRange(other, base, base.Add(time.Hour)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("other location err = %v", err)
	}
}
