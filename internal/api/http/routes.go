package httpapi

import (
	"bytes"
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-sky/internal/geo"
	"github.com/i474232898/weather-sky/internal/log"
	"github.com/i474232898/weather-sky/internal/render"
	"github.com/i474232898/weather-sky/internal/store"
	"github.com/i474232898/weather-sky/internal/weather"
)

var validate = validator.New()

// refreshTimeout bounds a manual refresh triggered over HTTP.
const refreshTimeout = 30 * time.Second

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service, renderer *render.Renderer) {
	v1 := app.Group("/api/v1")

	v1.Get("/weather/current", func(c *fiber.Ctx) error {
		loc, err := resolveLocation(c, service)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		snapshot, err := service.GetLatest(loc)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) || errors.Is(err, weather.ErrNoHistory) {
				return fiber.NewError(fiber.StatusNotFound, "no weather data for requested location")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch weather data")
		}

		return c.JSON(snapshot)
	})

	v1.Get("/weather/history", func(c *fiber.Ctx) error {
		var req historyQuery
		if err := req.bind(c, service); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		snapshots, err := service.GetRange(req.Location, req.From, req.To)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) || errors.Is(err, weather.ErrNoHistory) {
				return fiber.NewError(fiber.StatusNotFound, "no weather history for requested range")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch weather history")
		}

		return c.JSON(fiber.Map{
			"location":  req.Location,
			"from":      req.From,
			"to":        req.To,
			"snapshots": snapshots,
		})
	})

	v1.Post("/weather/refresh", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), refreshTimeout)
		defer cancel()

		if err := service.Refresh(ctx); err != nil {
			switch {
			case errors.Is(err, weather.ErrThrottled):
				return fiber.NewError(fiber.StatusTooManyRequests, err.Error())
			case errors.Is(err, weather.ErrNoProviders):
				return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
			default:
				log.Warnw("manual refresh failed", "error", err)
				return fiber.NewError(fiber.StatusBadGateway, "weather providers unavailable")
			}
		}
		state := service.State()
		return c.JSON(fiber.Map{
			"location":  service.Location(),
			"state":     state,
			"condition": state.Condition(),
		})
	})

	v1.Get("/sky/frame.png", func(c *fiber.Ctx) error {
		if err := renderer.Advance(time.Now()); err != nil {
			log.Warnw("sky frame failed", "error", err)
			return fiber.NewError(fiber.StatusInternalServerError, "failed to render sky")
		}

		var buf bytes.Buffer
		if err := renderer.EncodePNG(&buf); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to encode sky")
		}
		c.Set(fiber.HeaderContentType, "image/png")
		c.Set(fiber.HeaderCacheControl, "no-store")
		return c.Send(buf.Bytes())
	})

	v1.Get("/sky/state", func(c *fiber.Ctx) error {
		status := renderer.Status()
		state := service.State()
		return c.JSON(fiber.Map{
			"location":  service.Location(),
			"weather":   state,
			"condition": state.Condition(),
			"frame":     status,
		})
	})
}

// resolveLocation returns the location named by the lat/lon query
// parameters, or the service's own when the request names none.
func resolveLocation(c *fiber.Ctx, service *weather.Service) (weather.Location, error) {
	latStr, lonStr := c.Query("lat"), c.Query("lon")
	if latStr == "" && lonStr == "" {
		return service.Location(), nil
	}
	if latStr == "" || lonStr == "" {
		return weather.Location{}, errors.New("lat and lon must be given together")
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return weather.Location{}, errors.New("invalid lat; must be a decimal number")
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return weather.Location{}, errors.New("invalid lon; must be a decimal number")
	}

	if err := validate.Struct(geo.Coordinates{Lat: lat, Lon: lon}); err != nil {
		return weather.Location{}, err
	}
	return weather.NewLocation(lat, lon), nil
}

// historyQuery holds query parameters for the history endpoint.
type historyQuery struct {
	Location weather.Location
	From     time.Time `validate:"required"`
	To       time.Time `validate:"required,gtefield=From"`
}

func (h *historyQuery) bind(c *fiber.Ctx, service *weather.Service) error {
	loc, err := resolveLocation(c, service)
	if err != nil {
		return err
	}
	h.Location = loc

	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return errors.New("from and to query parameters are required")
	}

	from, err := parseTime(fromStr)
	if err != nil {
		return err
	}
	to, err := parseTime(toStr)
	if err != nil {
		return err
	}

	h.From = from
	h.To = to
	return nil
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}
