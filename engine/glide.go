package engine

import (
	"time"

	"github.com/fogleman/ease"
)

// Glide is an eased ramp between two tempi. The click engine uses it to
// slide onto a newly published tempo instead of jumping, which keeps the
// click train from stuttering on large scrubs.
type Glide struct {
	From     float64
	To       float64
	Duration time.Duration
}

// At returns the tempo at the given point into the ramp.
func (g Glide) At(elapsed time.Duration) float64 {
	if g.Duration <= 0 || elapsed >= g.Duration {
		return g.To
	}
	if elapsed <= 0 {
		return g.From
	}
	t := float64(elapsed) / float64(g.Duration)
	return g.From + (g.To-g.From)*ease.InOutQuad(t)
}

// Done reports whether the ramp has run its course.
func (g Glide) Done(elapsed time.Duration) bool {
	return g.Duration <= 0 || elapsed >= g.Duration
}
