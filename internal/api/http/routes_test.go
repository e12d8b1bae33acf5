package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-sky/internal/geo"
	"github.com/i474232898/weather-sky/internal/render"
	"github.com/i474232898/weather-sky/internal/sky"
	"github.com/i474232898/weather-sky/internal/store"
	"github.com/i474232898/weather-sky/internal/weather"
)

type stubProvider struct {
	calls atomic.Int32
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Fetch(context.Context, weather.Location) (weather.Reading, error) {
	p.calls.Add(1)
	return weather.Reading{
		Timestamp:   time.Now().UTC(),
		CloudCover:  weather.Float(80),
		RainRate:    weather.Float(2),
		WeatherCode: weather.Int(weather.CodeRain),
	}, nil
}

func newTestApp(t *testing.T, provs ...weather.Provider) (*fiber.App, *weather.Service) {
	t.Helper()
	app := fiber.New()

	memStore := store.NewMemoryStore(10, time.Hour)
	svc := weather.NewService(memStore, provs, weather.NewLocation(geo.Fallback.Lat, geo.Fallback.Lon), 10*time.Minute)

	surface := sky.NewSurface(32, 24, 1)
	scene := sky.NewScene(sky.Options{Seed: 1, Width: 32, Height: 24, DPR: 1, Coordinates: geo.Fallback})
	r := render.New(scene, surface, svc)
	t.Cleanup(func() { _ = r.Close() })

	RegisterRoutes(app, svc, r)
	return app, svc
}

func doRequest(t *testing.T, app *fiber.App, method, target string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return resp
}

func TestCurrentBeforeAndAfterRefresh(t *testing.T) {
	prov := &stubProvider{}
	app, _ := newTestApp(t, prov)

	resp := doRequest(t, app, http.MethodGet, "/api/v1/weather/current")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, resp.StatusCode)
	}

	resp = doRequest(t, app, http.MethodPost, "/api/v1/weather/refresh")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("refresh: expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	resp = doRequest(t, app, http.MethodGet, "/api/v1/weather/current")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	var snap weather.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.State.CloudCover != 80 || snap.Condition != weather.ConditionRain {
		t.Fatalf("snapshot = %+v", snap)
	}
}

// A second refresh inside the minimum gap must not reach the provider.
func TestRefreshThrottled(t *testing.T) {
	prov := &stubProvider{}
	app, _ := newTestApp(t, prov)

	if resp := doRequest(t, app, http.MethodPost, "/api/v1/weather/refresh"); resp.StatusCode != http.StatusOK {
		t.Fatalf("first refresh: %d", resp.StatusCode)
	}
	if resp := doRequest(t, app, http.MethodPost, "/api/v1/weather/refresh"); resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("second refresh: expected %d, got %d", http.StatusTooManyRequests, resp.StatusCode)
	}
	if got := prov.calls.Load(); got != 1 {
		t.Fatalf("provider calls = %d, want 1", got)
	}
}

func TestRefreshWithoutProviders(t *testing.T) {
	app, _ := newTestApp(t)
	// The second call must not be throttled by the first.
	for i := 0; i < 2; i++ {
		if resp := doRequest(t, app, http.MethodPost, "/api/v1/weather/refresh"); resp.StatusCode != http.StatusServiceUnavailable {
			t.Fatalf("call %d: expected %d, got %d", i, http.StatusServiceUnavailable, resp.StatusCode)
		}
	}
}

func TestWeatherWithoutStore(t *testing.T) {
	app := fiber.New()
	svc := weather.NewService(nil, []weather.Provider{&stubProvider{}}, weather.NewLocation(1, 2), 10*time.Minute)
	surface := sky.NewSurface(16, 16, 1)
	scene := sky.NewScene(sky.Options{Seed: 1, Width: 16, Height: 16, DPR: 1})
	r := render.New(scene, surface, svc)
	t.Cleanup(func() { _ = r.Close() })
	RegisterRoutes(app, svc, r)

	if resp := doRequest(t, app, http.MethodPost, "/api/v1/weather/refresh"); resp.StatusCode != http.StatusOK {
		t.Fatalf("refresh: expected %d, got %d", http.StatusOK, resp.StatusCode)
	}
	if resp := doRequest(t, app, http.MethodGet, "/api/v1/weather/current"); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("current: expected %d, got %d", http.StatusNotFound, resp.StatusCode)
	}
	from := time.Now().Add(-time.Hour).Unix()
	to := time.Now().Add(time.Hour).Unix()
	target := "/api/v1/weather/history?from=" + strconv.FormatInt(from, 10) + "&to=" + strconv.FormatInt(to, 10)
	if resp := doRequest(t, app, http.MethodGet, target); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("history: expected %d, got %d", http.StatusNotFound, resp.StatusCode)
	}
}

func TestLocationQueryValidation(t *testing.T) {
	app, _ := newTestApp(t)

	for _, target := range []string{
		"/api/v1/weather/current?lat=10",
		"/api/v1/weather/current?lat=abc&lon=1",
		"/api/v1/weather/current?lat=95&lon=1",
		"/api/v1/weather/current?lat=1&lon=-181",
	} {
		if resp := doRequest(t, app, http.MethodGet, target); resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: expected %d, got %d", target, http.StatusBadRequest, resp.StatusCode)
		}
	}

	if resp := doRequest(t, app, http.MethodGet, "/api/v1/weather/current?lat=10&lon=20"); resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown location: expected %d, got %d", http.StatusNotFound, resp.StatusCode)
	}
}

// TestHistoryRangeValidation verifies that the history endpoint requires an
// ordered from/to range.
func TestHistoryRangeValidation(t *testing.T) {
	app, _ := newTestApp(t, &stubProvider{})

	for _, target := range []string{
		"/api/v1/weather/history",
		"/api/v1/weather/history?from=yesterday&to=today",
		"/api/v1/weather/history?from=2000&to=1000",
	} {
		if resp := doRequest(t, app, http.MethodGet, target); resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: expected %d, got %d", target, http.StatusBadRequest, resp.StatusCode)
		}
	}

	doRequest(t, app, http.MethodPost, "/api/v1/weather/refresh")
	from := time.Now().Add(-time.Hour).UTC().Format(time.RFC3339)
	to := time.Now().Add(time.Hour).UTC().Format(time.RFC3339)
	resp := doRequest(t, app, http.MethodGet, "/api/v1/weather/history?from="+from+"&to="+to)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected %d, got %d", http.StatusOK, resp.StatusCode)
	}
	var body struct {
		Snapshots []weather.Snapshot `json:"snapshots"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Snapshots) != 1 {
		t.Fatalf("snapshots = %d, want 1", len(body.Snapshots))
	}
}

func TestSkyFrameAndState(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doRequest(t, app, http.MethodGet, "/api/v1/sky/frame.png")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("frame: expected %d, got %d", http.StatusOK, resp.StatusCode)
	}
	if ct := resp.Header.Get(fiber.HeaderContentType); ct != "image/png" {
		t.Fatalf("content type = %q", ct)
	}
	body, _ := io.ReadAll(resp.Body)
	if len(body) < 8 || string(body[:4]) != "\x89PNG" {
		t.Fatal("body is not a PNG")
	}

	resp = doRequest(t, app, http.MethodGet, "/api/v1/sky/state")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("state: expected %d, got %d", http.StatusOK, resp.StatusCode)
	}
	var state struct {
		Weather weather.State `json:"weather"`
		Frame   render.Status `json:"frame"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if state.Frame.Frames != 1 || state.Frame.Width != 32 {
		t.Fatalf("frame status = %+v", state.Frame)
	}
	if state.Weather != weather.DefaultState() {
		t.Fatalf("weather = %+v", state.Weather)
	}
}

func TestSkyStateConditionMatchesWeather(t *testing.T) {
	app, _ := newTestApp(t, &stubProvider{})
	doRequest(t, app, http.MethodPost, "/api/v1/weather/refresh")

	resp := doRequest(t, app, http.MethodGet, "/api/v1/sky/state")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("state: expected %d, got %d", http.StatusOK, resp.StatusCode)
	}
	var body struct {
		Weather   weather.State     `json:"weather"`
		Condition weather.Condition `json:"condition"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Weather.WeatherCode != weather.CodeRain || body.Condition != body.Weather.Condition() {
		t.Fatalf("weather code %d reported as %q", body.Weather.WeatherCode, body.Condition)
	}
}
