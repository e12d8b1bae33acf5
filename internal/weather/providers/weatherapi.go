package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/i474232898/weather-sky/internal/common"
	"github.com/i474232898/weather-sky/internal/weather"
)

// WeatherAPIProvider implements weather.Provider for WeatherAPI.com.
type WeatherAPIProvider struct {
	name    string
	apiKey  string
	baseURL string
	http    *resilientClient
}

func NewWeatherAPIProvider(client *http.Client, apiKey string, opts ...Option) *WeatherAPIProvider {
	o := buildOptions("https://api.weatherapi.com/v1/current.json", opts)
	return &WeatherAPIProvider{
		name:    "weatherapi",
		apiKey:  apiKey,
		baseURL: o.baseURL,
		http:    newResilientClient("weatherapi", client, o.backoff),
	}
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

type weatherAPIPayload struct {
	Current struct {
		LastUpdatedEpoch int64    `json:"last_updated_epoch"`
		TempF            *float64 `json:"temp_f"`
		Humidity         *float64 `json:"humidity"`
		WindMph          *float64 `json:"wind_mph"`
		WindDegree       *float64 `json:"wind_degree"`
		Cloud            *float64 `json:"cloud"`
		PrecipMm         *float64 `json:"precip_mm"`
		VisKm            *float64 `json:"vis_km"`
		Condition        struct {
			Text string `json:"text"`
		} `json:"condition"`
	} `json:"current"`
}

func (p *WeatherAPIProvider) Fetch(ctx context.Context, loc weather.Location) (weather.Reading, error) {
	if p.apiKey == "" {
		return weather.Reading{}, fmt.Errorf("weatherapi api key is not configured")
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("key", p.apiKey)
		// WeatherAPI uses "q" for location; it accepts "city,country" or "lat,lon".
		if loc.Lat != nil && loc.Lon != nil {
			values.Set("q", fmt.Sprintf("%f,%f", *loc.Lat, *loc.Lon))
		} else {
			q := loc.City
			if loc.Country != "" {
				q = fmt.Sprintf("%s,%s", loc.City, loc.Country)
			}
			values.Set("q", q)
		}

		return http.NewRequest(http.MethodGet, p.baseURL+"?"+values.Encode(), nil)
	}

	var payload weatherAPIPayload
	if err := p.http.getJSON(ctx, buildRequest, &payload); err != nil {
		return weather.Reading{}, fmt.Errorf("weatherapi: %w", err)
	}

	cur := payload.Current
	ts := time.Now().UTC()
	if cur.LastUpdatedEpoch > 0 {
		ts = time.Unix(cur.LastUpdatedEpoch, 0).UTC()
	}

	code := wmoFromConditionText(cur.Condition.Text)
	r := weather.Reading{
		ProviderName: p.name,
		Timestamp:    ts,
		CloudCover:   cur.Cloud,
		TempF:        cur.TempF,
		WindSpeed:    cur.WindMph,
		WindDir:      cur.WindDegree,
		Humidity:     cur.Humidity,
	}
	if v, ok := weather.Pick(cur.VisKm); ok {
		r.Visibility = weather.Float(v * 1000)
	}
	if code >= 0 {
		r.WeatherCode = weather.Int(code)
	}

	// WeatherAPI reports a single precipitation figure; the condition text
	// decides whether it is snow.
	precip := weather.PickOr(0, cur.PrecipMm)
	if weather.IsSnowCode(code) {
		r.SnowRate = weather.Float(precip)
		r.RainRate = weather.Float(0)
	} else {
		r.RainRate = weather.Float(precip)
		r.SnowRate = weather.Float(0)
	}
	return r, nil
}

// wmoFromConditionText maps WeatherAPI condition text to a WMO code, or -1.
func wmoFromConditionText(text string) int {
	t := strings.ToLower(text)
	switch {
	case t == "":
		return -1
	case common.HasAny(t, "thunder", "storm"):
		return weather.CodeThunderstorm
	case common.HasAny(t, "snow", "sleet", "blizzard", "ice pellets"):
		return weather.CodeSnow
	case common.HasAny(t, "drizzle"):
		return weather.CodeDrizzle
	case common.HasAny(t, "rain", "shower"):
		return weather.CodeRain
	case common.HasAny(t, "fog", "mist"):
		return weather.CodeFog
	case common.HasAny(t, "overcast"):
		return weather.CodeOvercast
	case common.HasAny(t, "partly"):
		return weather.CodePartlyCloudy
	case common.HasAny(t, "cloud"):
		return weather.CodeOvercast
	case common.HasAny(t, "sunny", "clear"):
		return weather.CodeClear
	default:
		return -1
	}
}
