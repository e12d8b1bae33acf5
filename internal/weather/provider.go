package weather

import (
	"context"
	"time"
)

// Reading is a single provider's normalized reading. A nil field means the
// provider did not supply a usable value and the merge falls through to the
// next candidate.
type Reading struct {
	ProviderName string
	Timestamp    time.Time

	CloudCover  *float64
	RainRate    *float64
	SnowRate    *float64
	TempF       *float64
	WindSpeed   *float64
	WindDir     *float64
	Humidity    *float64
	Visibility  *float64
	WeatherCode *int
}

// Provider abstracts a weather data source (e.g. Open-Meteo, OpenWeatherMap, WeatherAPI).
type Provider interface {
	Name() string
	Fetch(ctx context.Context, loc Location) (Reading, error)
}

// Store is the contract the in-memory store (and any future persistent store) must satisfy.
type Store interface {
	SaveSnapshot(loc Location, snapshot Snapshot)
	GetLatest(loc Location) (Snapshot, error)
	GetRange(loc Location, from, to time.Time) ([]Snapshot, error)
}
