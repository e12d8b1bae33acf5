package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/i474232898/weather-sky/internal/weather"
)

const openMeteoHourly = "cloudcover,precipitation,rain,snowfall,relativehumidity_2m,visibility," +
	"winddirection_10m,windspeed_10m,temperature_2m,weathercode"

// OpenMeteoProvider implements weather.Provider for the Open-Meteo forecast API.
// It needs no API key but requires coordinates.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	http    *resilientClient
}

func NewOpenMeteoProvider(client *http.Client, opts ...Option) *OpenMeteoProvider {
	o := buildOptions("https://api.open-meteo.com/v1/forecast", opts)
	return &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: o.baseURL,
		http:    newResilientClient("openmeteo", client, o.backoff),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

type openMeteoCurrent struct {
	Time          string   `json:"time"`
	Temperature   *float64 `json:"temperature"`
	WindSpeed     *float64 `json:"windspeed"`
	WindDirection *float64 `json:"winddirection"`
	WeatherCode   *float64 `json:"weathercode"`
	CloudCover    *float64 `json:"cloudcover"`
}

// openMeteoPayload mirrors the subset of the forecast response we read.
// Hourly series use pointers so JSON nulls stay distinguishable from zero.
type openMeteoPayload struct {
	CurrentWeather *openMeteoCurrent `json:"current_weather"`
	Hourly         *struct {
		Time          []string   `json:"time"`
		CloudCover    []*float64 `json:"cloudcover"`
		Rain          []*float64 `json:"rain"`
		Snowfall      []*float64 `json:"snowfall"`
		Humidity      []*float64 `json:"relativehumidity_2m"`
		Visibility    []*float64 `json:"visibility"`
		WindDirection []*float64 `json:"winddirection_10m"`
		WindSpeed     []*float64 `json:"windspeed_10m"`
		Temperature   []*float64 `json:"temperature_2m"`
		WeatherCode   []*float64 `json:"weathercode"`
	} `json:"hourly"`
}

func (p *OpenMeteoProvider) Fetch(ctx context.Context, loc weather.Location) (weather.Reading, error) {
	if loc.Lat == nil || loc.Lon == nil {
		return weather.Reading{}, fmt.Errorf("openmeteo requires latitude and longitude")
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", fmt.Sprintf("%f", *loc.Lat))
		values.Set("longitude", fmt.Sprintf("%f", *loc.Lon))
		values.Set("current_weather", "true")
		values.Set("temperature_unit", "fahrenheit")
		values.Set("windspeed_unit", "mph")
		values.Set("timezone", "auto")
		values.Set("hourly", openMeteoHourly)

		req, err := http.NewRequest(http.MethodGet, p.baseURL+"?"+values.Encode(), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Cache-Control", "no-store")
		return req, nil
	}

	var payload openMeteoPayload
	if err := p.http.getJSON(ctx, buildRequest, &payload); err != nil {
		return weather.Reading{}, fmt.Errorf("openmeteo: %w", err)
	}

	return p.reading(payload), nil
}

// reading selects, per field, the hourly value for the current hour, then
// the current_weather value. Rain and snow have no current_weather field
// and default to zero.
func (p *OpenMeteoProvider) reading(payload openMeteoPayload) weather.Reading {
	r := weather.Reading{ProviderName: p.name, Timestamp: time.Now().UTC()}

	cw := payload.CurrentWeather
	if cw == nil {
		cw = &openMeteoCurrent{}
	}

	h := payload.Hourly
	if h == nil {
		r.CloudCover = cw.CloudCover
		r.RainRate = weather.Float(0)
		r.SnowRate = weather.Float(0)
		r.TempF = cw.Temperature
		r.WindSpeed = cw.WindSpeed
		r.WindDir = cw.WindDirection
		r.WeatherCode = weather.IntAt([]*float64{cw.WeatherCode}, 0)
		return r
	}

	idx := hourIndex(h.Time, cw.Time)
	first := func(hourly []*float64, current *float64) *float64 {
		if v, ok := weather.Pick(weather.At(hourly, idx), current); ok {
			return weather.Float(v)
		}
		return nil
	}

	r.CloudCover = first(h.CloudCover, cw.CloudCover)
	r.RainRate = first(h.Rain, weather.Float(0))
	r.SnowRate = first(h.Snowfall, weather.Float(0))
	r.Humidity = first(h.Humidity, nil)
	r.Visibility = first(h.Visibility, nil)
	r.WindDir = first(h.WindDirection, cw.WindDirection)
	r.WindSpeed = first(h.WindSpeed, cw.WindSpeed)
	r.TempF = first(h.Temperature, cw.Temperature)
	r.WeatherCode = weather.IntAt([]*float64{first(h.WeatherCode, cw.WeatherCode)}, 0)
	return r
}

// hourIndex finds the hourly slot matching the current-weather hour, or 0.
func hourIndex(times []string, current string) int {
	if len(current) < 13 {
		return 0
	}
	prefix := current[:13]
	for i, t := range times {
		if strings.HasPrefix(t, prefix) {
			return i
		}
	}
	return 0
}
