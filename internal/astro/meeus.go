package astro

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/coord"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/moonposition"
	"github.com/soniakeys/meeus/v3/nutation"
	"github.com/soniakeys/meeus/v3/sidereal"
	"github.com/soniakeys/meeus/v3/solar"
	"github.com/soniakeys/unit"
)

// Meeus implements Provider with the algorithms from Meeus, Astronomical
// Algorithms. Dynamical time is approximated by UT, which is well inside
// the accuracy needed to place a glow on screen.
type Meeus struct{}

// NewMeeus returns the meeus-backed provider.
func NewMeeus() *Meeus {
	return &Meeus{}
}

func (Meeus) SunPosition(t time.Time, lat, lon float64) Position {
	jd := julian.TimeToJD(t.UTC())
	α, δ := solar.ApparentEquatorial(jd)
	return horizontal(jd, α, δ, lat, lon)
}

func (Meeus) MoonPosition(t time.Time, lat, lon float64) Position {
	jd := julian.TimeToJD(t.UTC())
	λ, β, _ := moonposition.Position(jd)
	sε, cε := nutation.MeanObliquity(jd).Sincos()
	α, δ := coord.EclToEq(λ, β, sε, cε)
	return horizontal(jd, α, δ, lat, lon)
}

// MoonPhase derives the phase from the Moon-Sun elongation in ecliptic longitude.
func (Meeus) MoonPhase(t time.Time) float64 {
	jd := julian.TimeToJD(t.UTC())
	λMoon, _, _ := moonposition.Position(jd)
	λSun := solar.ApparentLongitude(base.J2000Century(jd))
	elongation := unit.PMod(λMoon.Rad()-λSun.Rad(), 2*math.Pi)
	return elongation / (2 * math.Pi)
}

// horizontal converts apparent equatorial coordinates for an observer at
// lat/lon (degrees, east positive).
func horizontal(jd float64, α unit.RA, δ unit.Angle, lat, lon float64) Position {
	st := sidereal.Apparent(jd)
	// meeus longitudes are positive westward
	A, h := coord.EqToHz(α, δ, unit.AngleFromDeg(lat), unit.AngleFromDeg(-lon), st)
	return Position{Altitude: h.Rad(), Azimuth: A.Rad()}
}
