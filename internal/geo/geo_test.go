package geo

import (
	"context"
	"errors"
	"testing"

	"github.com/kelvins/geocoder"
)

type failingProvider struct{ err error }

func (p failingProvider) Locate(context.Context) (Coordinates, error) {
	return Coordinates{}, p.err
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	oslo := Coordinates{Lat: 59.91, Lon: 10.75}

	tests := []struct {
		name string
		p    Provider
		want Coordinates
	}{
		{"nil provider", nil, Fallback},
		{"static", Static{Coords: oslo}, oslo},
		{"error", failingProvider{err: errors.New("denied")}, Fallback},
		{"latitude out of range", Static{Coords: Coordinates{Lat: 91, Lon: 0}}, Fallback},
		{"longitude out of range", Static{Coords: Coordinates{Lat: 0, Lon: -181}}, Fallback},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(ctx, tt.p, Fallback); got != tt.want {
				t.Fatalf("Resolve = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNewGeocoderNeedsKeyAndCity(t *testing.T) {
	if NewGeocoder("", "Oslo", "NO") != nil {
		t.Fatal("geocoder without key")
	}
	if NewGeocoder("key", "  ", "NO") != nil {
		t.Fatal("geocoder without city")
	}
	if NewGeocoder("key", "Oslo", "") == nil {
		t.Fatal("country should be optional")
	}
}

func TestGeocoderLocate(t *testing.T) {
	g := NewGeocoder("key", " Oslo ", "NO")
	var asked geocoder.Address
	g.lookup = func(a geocoder.Address) (geocoder.Location, error) {
		asked = a
		return geocoder.Location{Latitude: 59.91, Longitude: 10.75}, nil
	}

	c, err := g.Locate(context.Background())
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if c != (Coordinates{Lat: 59.91, Lon: 10.75}) {
		t.Fatalf("coords = %+v", c)
	}
	if asked.City != "Oslo" || asked.Country != "NO" {
		t.Fatalf("address = %+v", asked)
	}
	if geocoder.ApiKey != "key" {
		t.Fatalf("api key not set")
	}
}

func TestGeocoderLocateErrors(t *testing.T) {
	var nilGeocoder *Geocoder
	if _, err := nilGeocoder.Locate(context.Background()); !errors.Is(err, ErrNoAddress) {
		t.Fatalf("nil geocoder err = %v", err)
	}

	g := NewGeocoder("key", "Nowhere", "")
	g.lookup = func(geocoder.Address) (geocoder.Location, error) {
		return geocoder.Location{}, errors.New("ZERO_RESULTS")
	}
	if _, err := g.Locate(context.Background()); err == nil {
		t.Fatal("expected lookup error")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := g.Locate(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("cancelled err = %v", err)
	}
}
