package tempo

import (
	"time"

	"k8s.io/utils/clock"
)

// TapTempoEstimator derives a tempo from the intervals between repeated manual
// taps. It keeps a rolling sequence of {count, first, last} timestamps and
// publishes 60000 / average-interval-ms to the owner from the second tap of a
// sequence onward. A gap longer than the timeout starts a fresh sequence, so
// the estimator tracks tempo changes instead of converging on a stale
// long-term mean.
//
// The estimator is single-caller state and carries no locking of its own.
type TapTempoEstimator struct {
	owner    Owner
	bpmRange Range
	timeout  time.Duration
	clock    clock.PassiveClock

	tapCount int
	firstTap time.Time
	lastTap  time.Time
}

// NewTapTempoEstimator creates an estimator publishing into owner. Passing a
// nil clock selects the real clock; tests inject a fake one.
func NewTapTempoEstimator(owner Owner, bpmRange Range, timeout time.Duration, cl clock.PassiveClock) *TapTempoEstimator {
	if cl == nil {
		cl = clock.RealClock{}
	}
	return &TapTempoEstimator{
		owner:    owner,
		bpmRange: bpmRange,
		timeout:  timeout,
		clock:    cl,
	}
}

// Tap records a tap at the current time.
func (e *TapTempoEstimator) Tap() {
	e.RegisterTap(e.clock.Now())
}

// RegisterTap records a tap at the given instant. The first tap of a sequence
// publishes nothing; one tap alone carries no interval.
func (e *TapTempoEstimator) RegisterTap(now time.Time) {
	if e.tapCount == 0 || now.Sub(e.lastTap) > e.timeout {
		e.tapCount = 1
		e.firstTap = now
		e.lastTap = now
		return
	}

	// tapCount >= 1 here, so the divisor below is never zero.
	e.tapCount++
	e.lastTap = now

	averageIntervalMs := e.lastTap.Sub(e.firstTap).Seconds() * 1000 / float64(e.tapCount-1)
	e.owner.ApplyLocalBPMUpdate(e.bpmRange.Clamp(60000.0 / averageIntervalMs))
}

// Count returns the number of taps in the current sequence.
func (e *TapTempoEstimator) Count() int {
	return e.tapCount
}

// Reset discards the current tap sequence.
func (e *TapTempoEstimator) Reset() {
	e.tapCount = 0
	e.firstTap = time.Time{}
	e.lastTap = time.Time{}
}
