package tempo

import (
	"math"

	"github.com/openmetro/pulse/utils"
)

// Point is a pointer position reported by the display surface, in pixels.
type Point struct {
	X float64
	Y float64
}

// Range bounds the valid tempo values. A tempo outside the range is clamped,
// never rejected, since every out-of-range value originates from human or peer
// input. The lower bound must stay above zero because beat-duration math
// downstream divides by the tempo.
type Range struct {
	Min float64
	Max float64
}

// Clamp constrains bpm to the range. A NaN tempo would poison the beat math,
// so it collapses to the lower bound.
func (r Range) Clamp(bpm float64) float64 {
	if math.IsNaN(bpm) {
		return r.Min
	}
	return utils.Clamp(bpm, r.Min, r.Max)
}

// Owner holds the authoritative tempo. Input modalities read the current value
// from it and propose changes through it, but never keep their own copy as
// ground truth.
type Owner interface {
	BPM() float64
	ApplyLocalBPMUpdate(bpm float64)
}
