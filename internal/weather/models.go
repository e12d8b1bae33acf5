package weather

import (
	"fmt"
	"time"
)

// Condition represents a normalized high-level weather condition.
type Condition string

const (
	ConditionUnknown Condition = "unknown"
	ConditionClear   Condition = "clear"
	ConditionCloudy  Condition = "cloudy"
	ConditionFog     Condition = "fog"
	ConditionRain    Condition = "rain"
	ConditionSnow    Condition = "snow"
	ConditionStorm   Condition = "storm"
)

// Location is the place the sky is rendered for.
// Lat/Lon are required by coordinate-keyed providers; City/Country are informational.
type Location struct {
	City    string   `json:"city,omitempty"`
	Country string   `json:"country,omitempty"`
	Lat     *float64 `json:"lat,omitempty"`
	Lon     *float64 `json:"lon,omitempty"`
}

// NewLocation returns a coordinate-only location.
func NewLocation(lat, lon float64) Location {
	return Location{Lat: &lat, Lon: &lon}
}

// Key returns a canonical string key for indexing this location in stores.
func (l Location) Key() string {
	if l.Lat != nil && l.Lon != nil {
		return fmt.Sprintf("%.4f,%.4f", *l.Lat, *l.Lon)
	}
	return l.City + ":" + l.Country
}

// Equal reports whether both locations resolve to the same key.
func (l Location) Equal(other Location) bool {
	return l.Key() == other.Key()
}

// State is the weather snapshot the sky renderer reads every frame.
// Units follow the upstream request: percent, mm/h, Fahrenheit, mph, degrees
// (direction the wind blows FROM) and metres.
type State struct {
	CloudCover  float64 `json:"cloudCover"`
	RainRate    float64 `json:"rainRate"`
	SnowRate    float64 `json:"snowRate"`
	TempF       float64 `json:"tempF"`
	WindSpeed   float64 `json:"windSpeed"`
	WindDir     float64 `json:"windDir"`
	Humidity    float64 `json:"humidity"`
	Visibility  float64 `json:"visibility"`
	WeatherCode int     `json:"weatherCode"`
}

// DefaultState is the state used until the first successful fetch.
func DefaultState() State {
	return State{
		CloudCover:  7,
		RainRate:    0,
		SnowRate:    0,
		TempF:       75,
		WindSpeed:   3,
		WindDir:     180,
		Humidity:    60,
		Visibility:  20000,
		WeatherCode: 1,
	}
}

// CloudFraction returns cloud cover normalized to [0,1].
func (s State) CloudFraction() float64 {
	f := s.CloudCover / 100
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}

// Condition classifies the state's WMO weather code.
func (s State) Condition() Condition {
	return ConditionFromCode(s.WeatherCode)
}

// Snapshot is a stored, timestamped weather state.
type Snapshot struct {
	Location  Location  `json:"location"`
	Timestamp time.Time `json:"timestamp"` // always UTC
	State     State     `json:"state"`
	Condition Condition `json:"condition"`

	// Providers contributing to this snapshot.
	Providers []ProviderContribution `json:"providers,omitempty"`
}

// ProviderContribution describes data coming from a single provider used in a merge.
type ProviderContribution struct {
	ProviderName string    `json:"provider"`
	Timestamp    time.Time `json:"timestamp"`
	FetchID      string    `json:"fetchId,omitempty"`
}
