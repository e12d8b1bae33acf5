package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/i474232898/weather-sky/internal/weather"
)

// OpenWeatherProvider implements weather.Provider for OpenWeatherMap.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	http    *resilientClient
}

func NewOpenWeatherProvider(client *http.Client, apiKey string, opts ...Option) *OpenWeatherProvider {
	o := buildOptions("https://api.openweathermap.org/data/2.5/weather", opts)
	return &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: o.baseURL,
		http:    newResilientClient("openweather", client, o.backoff),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

type openWeatherPayload struct {
	Dt   int64 `json:"dt"`
	Main struct {
		Temp     *float64 `json:"temp"`
		Humidity *float64 `json:"humidity"`
	} `json:"main"`
	Visibility *float64 `json:"visibility"`
	Wind       struct {
		Speed *float64 `json:"speed"`
		Deg   *float64 `json:"deg"`
	} `json:"wind"`
	Clouds struct {
		All *float64 `json:"all"`
	} `json:"clouds"`
	Rain struct {
		OneH   *float64 `json:"1h"`
		ThreeH *float64 `json:"3h"`
	} `json:"rain"`
	Snow struct {
		OneH   *float64 `json:"1h"`
		ThreeH *float64 `json:"3h"`
	} `json:"snow"`
	Weather []struct {
		ID int `json:"id"`
	} `json:"weather"`
}

func (p *OpenWeatherProvider) Fetch(ctx context.Context, loc weather.Location) (weather.Reading, error) {
	if p.apiKey == "" {
		return weather.Reading{}, fmt.Errorf("openweather api key is not configured")
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("appid", p.apiKey)
		values.Set("units", "imperial")

		if loc.Lat != nil && loc.Lon != nil {
			values.Set("lat", fmt.Sprintf("%f", *loc.Lat))
			values.Set("lon", fmt.Sprintf("%f", *loc.Lon))
		} else {
			q := loc.City
			if loc.Country != "" {
				q = fmt.Sprintf("%s,%s", loc.City, loc.Country)
			}
			values.Set("q", q)
		}

		return http.NewRequest(http.MethodGet, p.baseURL+"?"+values.Encode(), nil)
	}

	var payload openWeatherPayload
	if err := p.http.getJSON(ctx, buildRequest, &payload); err != nil {
		return weather.Reading{}, fmt.Errorf("openweather: %w", err)
	}

	ts := time.Now().UTC()
	if payload.Dt > 0 {
		ts = time.Unix(payload.Dt, 0).UTC()
	}

	r := weather.Reading{
		ProviderName: p.name,
		Timestamp:    ts,
		CloudCover:   payload.Clouds.All,
		TempF:        payload.Main.Temp,
		WindSpeed:    payload.Wind.Speed,
		WindDir:      payload.Wind.Deg,
		Humidity:     payload.Main.Humidity,
		Visibility:   payload.Visibility,
		// Absent rain/snow blocks mean none is falling.
		RainRate: weather.Float(perHour(payload.Rain.OneH, payload.Rain.ThreeH)),
		SnowRate: weather.Float(perHour(payload.Snow.OneH, payload.Snow.ThreeH)),
	}
	if len(payload.Weather) > 0 {
		r.WeatherCode = weather.Int(wmoFromOpenWeather(payload.Weather[0].ID))
	}
	return r, nil
}

// perHour prefers the 1h accumulation and spreads a 3h one evenly.
func perHour(oneH, threeH *float64) float64 {
	if v, ok := weather.Pick(oneH); ok {
		return v
	}
	if v, ok := weather.Pick(threeH); ok {
		return v / 3
	}
	return 0
}

// wmoFromOpenWeather maps OpenWeatherMap condition ids onto the nearest WMO code.
func wmoFromOpenWeather(id int) int {
	switch {
	case id >= 200 && id < 300:
		return weather.CodeThunderstorm
	case id >= 300 && id < 400:
		return weather.CodeDrizzle
	case id >= 500 && id < 600:
		return weather.CodeRain
	case id >= 600 && id < 700:
		return weather.CodeSnow
	case id == 741:
		return weather.CodeFog
	case id >= 700 && id < 800:
		return weather.CodeOvercast
	case id == 800:
		return weather.CodeClear
	case id == 801:
		return weather.CodeMainlyClear
	case id == 802:
		return weather.CodePartlyCloudy
	default:
		return weather.CodeOvercast
	}
}
