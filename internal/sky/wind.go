package sky

import "math"

// ToDirection converts a meteorological from-direction to the direction
// the wind blows toward, in [0,360).
func ToDirection(fromDeg float64) float64 {
	d := math.Mod(fromDeg+180, 360)
	if d < 0 {
		d += 360
	}
	return d
}

// WindVector returns the unit vector of the wind's to-direction. Angles are
// taken counter-clockwise from +X in canvas space, so a north wind (from 0°)
// blows toward 180° and yields (-1, 0).
func WindVector(fromDeg float64) (x, y float64) {
	rad := ToDirection(fromDeg) * math.Pi / 180
	return math.Cos(rad), math.Sin(rad)
}
