// Package astro computes where the sun and moon are for an observer, and maps
// solar altitude to the day-fraction that drives the sky palette.
package astro

import (
	"math"
	"time"

	"github.com/i474232898/weather-sky/internal/common"
)

// Position is a horizontal position in radians. Azimuth is measured from
// south, positive toward the west; Altitude is above the horizon.
type Position struct {
	Altitude float64 `json:"altitude"`
	Azimuth  float64 `json:"azimuth"`
}

// Provider supplies solar and lunar positions and the lunar phase.
// A nil Provider selects the clock-based day-fraction fallback.
type Provider interface {
	SunPosition(t time.Time, lat, lon float64) Position
	MoonPosition(t time.Time, lat, lon float64) Position
	// MoonPhase returns the phase fraction in [0,1): 0 new, 0.5 full.
	MoonPhase(t time.Time) float64
}

// DayFraction maps solar altitude (radians) to [0,1].
func DayFraction(altitude float64) float64 {
	return common.Clamp((altitude+0.15)/1.2, 0, 1)
}

// ClockDayFraction approximates the day-fraction from local clock hours:
// zero from 18:00 to 06:00, peaking at noon.
func ClockDayFraction(t time.Time) float64 {
	hours := float64(t.Hour()) + float64(t.Minute())/60
	return common.Clamp(math.Sin((hours-6)/12*math.Pi), 0, 1)
}

// MoonBrightness is 1 at half phase and 0 at new and full moon.
func MoonBrightness(phase float64) float64 {
	return 1 - math.Abs(phase-0.5)*2
}
