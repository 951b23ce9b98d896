package utils

import "math"

// Clamp constrains t to [min, max]. A reversed range is normalized first.
func Clamp(t, min, max float64) float64 {
	min, max = math.Min(min, max), math.Max(min, max)
	return math.Max(math.Min(t, max), min)
}
