package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/i474232898/weather-sky/internal/geo"
	"github.com/i474232898/weather-sky/internal/log"
)

var validate = validator.New()

type AppConfig struct {
	OpenWeatherAPIKey string
	WeatherAPIKey     string
	GeocoderAPIKey    string

	// FetchInterval controls how often the weather job runs.
	FetchInterval time.Duration `validate:"gt=0"`
	// FetchMinGap is the minimum spacing between two network fetches.
	FetchMinGap time.Duration `validate:"gte=0"`
	HTTPTimeout time.Duration `validate:"gt=0"`

	// Coordinates, when set, pin the observer and skip geocoding.
	Coordinates *geo.Coordinates

	// City/Country are geocoded when no coordinates are configured.
	City    string
	Country string

	// Viewport in CSS pixels and the device-pixel-ratio.
	SkyWidth  int     `validate:"gte=16,lte=4096"`
	SkyHeight int     `validate:"gte=16,lte=4096"`
	SkyDPR    float64 `validate:"gt=0"`
	SkyFPS    int     `validate:"gte=1,lte=120"`
	SkySeed   uint64

	// In-memory store retention.
	StoreMaxHistory int           `validate:"gte=0"` // max number of snapshots (0 = unlimited)
	StoreMaxAge     time.Duration `validate:"gte=0"` // max age of snapshots (0 = unlimited)

	Port     string `validate:"required,numeric"`
	LogDebug bool
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Debugw("no .env file loaded", "error", err)
	}
	cfg := &AppConfig{}
	var err error

	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.WeatherAPIKey = os.Getenv("WEATHERAPI_API_KEY")
	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")

	if cfg.FetchInterval, err = getenvDuration("FETCH_INTERVAL", 10*time.Minute); err != nil {
		return nil, err
	}
	if cfg.FetchMinGap, err = getenvDuration("FETCH_MIN_GAP", 10*time.Minute); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}

	if cfg.Coordinates, err = loadCoordinates(); err != nil {
		return nil, err
	}
	cfg.City = strings.TrimSpace(os.Getenv("WEATHER_LOCATION_CITY"))
	cfg.Country = strings.TrimSpace(os.Getenv("WEATHER_LOCATION_COUNTRY"))

	cfg.SkyWidth = getenvInt("SKY_WIDTH", 960)
	cfg.SkyHeight = getenvInt("SKY_HEIGHT", 540)
	cfg.SkyFPS = getenvInt("SKY_FPS", 30)
	if cfg.SkyDPR, err = getenvFloat("SKY_DPR", 1); err != nil {
		return nil, err
	}
	if v := os.Getenv("SKY_SEED"); v != "" {
		if cfg.SkySeed, err = strconv.ParseUint(v, 10, 64); err != nil {
			return nil, fmt.Errorf("invalid SKY_SEED: %w", err)
		}
	}

	// Store retention: a day of snapshots at 10-minute intervals.
	cfg.StoreMaxHistory = getenvInt("STORE_MAX_HISTORY", 144)
	if cfg.StoreMaxAge, err = getenvDuration("STORE_MAX_AGE", 24*time.Hour); err != nil {
		return nil, err
	}

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.LogDebug = getenvBool("LOG_DEBUG", false)

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// loadCoordinates reads SKY_LAT/SKY_LON. Both or neither must be set.
func loadCoordinates() (*geo.Coordinates, error) {
	latStr, lonStr := os.Getenv("SKY_LAT"), os.Getenv("SKY_LON")
	if latStr == "" && lonStr == "" {
		return nil, nil
	}
	if latStr == "" || lonStr == "" {
		return nil, fmt.Errorf("SKY_LAT and SKY_LON must be set together")
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid SKY_LAT: %w", err)
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid SKY_LON: %w", err)
	}
	c := &geo.Coordinates{Lat: lat, Lon: lon}
	if err := validate.Struct(c); err != nil {
		return nil, fmt.Errorf("invalid SKY_LAT/SKY_LON: %w", err)
	}
	return c, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getenvFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
