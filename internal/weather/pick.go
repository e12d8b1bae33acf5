package weather

import "math"

// Pick returns the first candidate that is present and a real number.
func Pick(candidates ...*float64) (float64, bool) {
	for _, c := range candidates {
		if c == nil || math.IsNaN(*c) || math.IsInf(*c, 0) {
			continue
		}
		return *c, true
	}
	return 0, false
}

// PickOr is Pick with a final fallback value.
func PickOr(fallback float64, candidates ...*float64) float64 {
	if v, ok := Pick(candidates...); ok {
		return v
	}
	return fallback
}

// PickInt returns the first present integer candidate.
func PickInt(candidates ...*int) (int, bool) {
	for _, c := range candidates {
		if c != nil {
			return *c, true
		}
	}
	return 0, false
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// At returns a pointer to values[i], or nil when the index is out of range.
func At(values []*float64, i int) *float64 {
	if i < 0 || i >= len(values) {
		return nil
	}
	return values[i]
}

// IntAt converts values[i] to an int pointer, or nil when absent.
func IntAt(values []*float64, i int) *int {
	v := At(values, i)
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	return Int(int(math.Round(*v)))
}
