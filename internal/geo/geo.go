// Package geo resolves the observer location used for astronomy and weather.
package geo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/weather-sky/internal/log"
)

// Coordinates in decimal degrees, east and north positive.
type Coordinates struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lon float64 `json:"lon" validate:"gte=-180,lte=180"`
}

// Fallback is used when no provider can locate the observer: Savannah, GA.
var Fallback = Coordinates{Lat: 32.0809, Lon: -81.0912}

// Provider supplies the observer's coordinates.
type Provider interface {
	Locate(ctx context.Context) (Coordinates, error)
}

// Static always returns the same coordinates.
type Static struct {
	Coords Coordinates
}

func (s Static) Locate(context.Context) (Coordinates, error) {
	return s.Coords, nil
}

// ErrNoAddress is returned by a Geocoder that has nothing to look up.
var ErrNoAddress = errors.New("no address configured for geocoding")

// geocoderMu guards the geocoder package's global API key.
var geocoderMu sync.Mutex

// Geocoder resolves a configured city/country through the Google geocoding API.
type Geocoder struct {
	apiKey  string
	address geocoder.Address
	lookup  func(geocoder.Address) (geocoder.Location, error)
}

// NewGeocoder returns a Provider for city/country, or nil when the inputs are
// insufficient, so callers fall back without special casing.
func NewGeocoder(apiKey, city, country string) *Geocoder {
	city, country = strings.TrimSpace(city), strings.TrimSpace(country)
	if apiKey == "" || city == "" {
		return nil
	}
	return &Geocoder{
		apiKey:  apiKey,
		address: geocoder.Address{City: city, Country: country},
		lookup:  geocoder.Geocoding,
	}
}

func (g *Geocoder) Locate(ctx context.Context) (Coordinates, error) {
	if g == nil || g.address.City == "" {
		return Coordinates{}, ErrNoAddress
	}
	if err := ctx.Err(); err != nil {
		return Coordinates{}, err
	}

	geocoderMu.Lock()
	geocoder.ApiKey = g.apiKey
	loc, err := g.lookup(g.address)
	geocoderMu.Unlock()
	if err != nil {
		return Coordinates{}, fmt.Errorf("geocode %s,%s: %w", g.address.City, g.address.Country, err)
	}
	return Coordinates{Lat: loc.Latitude, Lon: loc.Longitude}, nil
}

// Resolve asks p for coordinates and degrades to fallback when p is nil,
// fails, or returns coordinates outside the valid range.
func Resolve(ctx context.Context, p Provider, fallback Coordinates) Coordinates {
	if p == nil {
		return fallback
	}
	c, err := p.Locate(ctx)
	if err != nil {
		log.Warnw("geolocation unavailable, using fallback", "error", err, "lat", fallback.Lat, "lon", fallback.Lon)
		return fallback
	}
	if c.Lat < -90 || c.Lat > 90 || c.Lon < -180 || c.Lon > 180 {
		log.Warnw("geolocation out of range, using fallback", "lat", c.Lat, "lon", c.Lon)
		return fallback
	}
	return c
}
