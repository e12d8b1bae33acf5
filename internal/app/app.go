// Package app assembles the weather service, scheduler and sky renderer from
// configuration. Both the HTTP server and the terminal viewer start here.
package app

import (
	"context"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/i474232898/weather-sky/internal/api/http"
	"github.com/i474232898/weather-sky/internal/astro"
	"github.com/i474232898/weather-sky/internal/config"
	"github.com/i474232898/weather-sky/internal/geo"
	"github.com/i474232898/weather-sky/internal/log"
	"github.com/i474232898/weather-sky/internal/render"
	"github.com/i474232898/weather-sky/internal/scheduler"
	"github.com/i474232898/weather-sky/internal/sky"
	"github.com/i474232898/weather-sky/internal/store"
	"github.com/i474232898/weather-sky/internal/weather"
	"github.com/i474232898/weather-sky/internal/weather/providers"
)

const (
	serviceName   = "weather-sky"
	locateTimeout = 15 * time.Second
)

// App holds the long-lived components.
type App struct {
	Config    *config.AppConfig
	Store     *store.MemoryStore
	Service   *weather.Service
	Scheduler *scheduler.Scheduler
	Renderer  *render.Renderer

	locator geo.Provider
	coords  geo.Coordinates
}

// New wires every component but starts nothing.
func New(cfg *config.AppConfig) *App {
	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// In-memory store with configured retention.
	memStore := store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)

	// Open-Meteo needs no key and is always first; keyed providers only
	// fill fields it leaves empty.
	provs := []weather.Provider{providers.NewOpenMeteoProvider(httpClient)}
	if cfg.OpenWeatherAPIKey != "" {
		provs = append(provs, providers.NewOpenWeatherProvider(httpClient, cfg.OpenWeatherAPIKey))
	}
	if cfg.WeatherAPIKey != "" {
		provs = append(provs, providers.NewWeatherAPIProvider(httpClient, cfg.WeatherAPIKey))
	}

	coords, locator := initialLocation(cfg)

	// Core service orchestrating providers and store.
	service := weather.NewService(memStore, provs, location(cfg, coords), cfg.FetchMinGap)

	surface := sky.NewSurface(cfg.SkyWidth, cfg.SkyHeight, cfg.SkyDPR)
	w, h := surface.Size()
	scene := sky.NewScene(sky.Options{
		Seed:        cfg.SkySeed,
		Width:       w,
		Height:      h,
		CSSWidth:    cfg.SkyWidth,
		DPR:         surface.DPR(),
		Coordinates: coords,
		Astro:       astro.NewMeeus(),
	})

	return &App{
		Config:    cfg,
		Store:     memStore,
		Service:   service,
		Scheduler: scheduler.New(cfg.FetchInterval, service),
		Renderer:  render.New(scene, surface, service),
		locator:   locator,
		coords:    coords,
	}
}

// initialLocation picks the coordinates to start with and, when they are
// only a fallback, the provider that may later replace them.
func initialLocation(cfg *config.AppConfig) (geo.Coordinates, geo.Provider) {
	if cfg.Coordinates != nil {
		return *cfg.Coordinates, nil
	}
	if g := geo.NewGeocoder(cfg.GeocoderAPIKey, cfg.City, cfg.Country); g != nil {
		return geo.Fallback, g
	}
	return geo.Fallback, nil
}

func location(cfg *config.AppConfig, c geo.Coordinates) weather.Location {
	loc := weather.NewLocation(c.Lat, c.Lon)
	loc.City, loc.Country = cfg.City, cfg.Country
	return loc
}

// Start launches the refresh job and, when a geolocation provider is
// configured, resolves the observer in the background and refreshes for it.
func (a *App) Start(ctx context.Context) error {
	if err := a.Scheduler.Start(); err != nil {
		return err
	}
	if a.locator != nil {
		go a.locate(ctx)
	}
	return nil
}

func (a *App) locate(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, locateTimeout)
	defer cancel()

	c := geo.Resolve(ctx, a.locator, a.coords)
	if c == a.coords {
		return
	}
	a.relocate(ctx, c)
}

// relocate moves both the sky and the weather to c and fetches right away.
func (a *App) relocate(ctx context.Context, c geo.Coordinates) {
	a.Renderer.SetCoordinates(c)
	a.Service.SetLocation(location(a.Config, c))
	log.Infow("observer located", "lat", c.Lat, "lon", c.Lon)

	if err := a.Service.Refresh(ctx); err != nil {
		log.Warnw("refresh after relocation failed", "error", err)
	}
}

// Stop halts background work and releases the canvas.
func (a *App) Stop() {
	a.Scheduler.Stop()
	if err := a.Renderer.Close(); err != nil {
		log.Warnw("closing renderer", "error", err)
	}
}

// NewServer builds the HTTP front end.
func (a *App) NewServer() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               serviceName,
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": serviceName,
		})
	})

	httpapi.RegisterRoutes(app, a.Service, a.Renderer)
	return app
}
