package tempo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	clock "k8s.io/utils/clock/testing"
)

// fakeOwner records every published update and hands back the last one as the
// current tempo, like the real session does (minus clamping, which the input
// components do themselves).
type fakeOwner struct {
	bpm     float64
	updates []float64
}

func (o *fakeOwner) BPM() float64 {
	return o.bpm
}

func (o *fakeOwner) ApplyLocalBPMUpdate(bpm float64) {
	o.bpm = bpm
	o.updates = append(o.updates, bpm)
}

var testRange = Range{Min: 20, Max: 999}

func TestTapTempoSteadyTaps(t *testing.T) {
	t.Parallel()

	start := time.Date(2023, 4, 1, 20, 0, 0, 0, time.UTC)
	cl := clock.NewFakePassiveClock(start)
	owner := &fakeOwner{bpm: 60}
	est := NewTapTempoEstimator(owner, testRange, 2*time.Second, cl)

	// taps at t=0, 500, 1000, 1500ms should read (none, 120, 120, 120)
	est.Tap()
	require.Empty(t, owner.updates)

	for i := 0; i < 3; i++ {
		cl.SetTime(cl.Now().Add(500 * time.Millisecond))
		est.Tap()
	}
	require.Equal(t, []float64{120, 120, 120}, owner.updates)
	assert.Equal(t, 4, est.Count())
}

func TestTapTempoSingleTapEmitsNothing(t *testing.T) {
	t.Parallel()

	owner := &fakeOwner{bpm: 60}
	est := NewTapTempoEstimator(owner, testRange, 2*time.Second, nil)

	est.RegisterTap(time.Now())
	assert.Empty(t, owner.updates)
	assert.Equal(t, 60.0, owner.bpm)
}

func TestTapTempoTimeoutResetsSequence(t *testing.T) {
	t.Parallel()

	start := time.Date(2023, 4, 1, 20, 0, 0, 0, time.UTC)
	owner := &fakeOwner{bpm: 60}
	est := NewTapTempoEstimator(owner, testRange, 2*time.Second, nil)

	est.RegisterTap(start)
	est.RegisterTap(start.Add(500 * time.Millisecond))
	require.Equal(t, []float64{120}, owner.updates)

	// a tap one millisecond past the timeout starts a new sequence
	late := start.Add(500*time.Millisecond + 2*time.Second + time.Millisecond)
	est.RegisterTap(late)
	assert.Equal(t, 1, est.Count())
	assert.Equal(t, []float64{120}, owner.updates)

	// and the next tap behaves like the second tap of a fresh sequence
	est.RegisterTap(late.Add(250 * time.Millisecond))
	assert.Equal(t, []float64{120, 240}, owner.updates)
}

func TestTapTempoAverageUsesWholeSequence(t *testing.T) {
	t.Parallel()

	start := time.Date(2023, 4, 1, 20, 0, 0, 0, time.UTC)
	owner := &fakeOwner{}
	est := NewTapTempoEstimator(owner, testRange, 2*time.Second, nil)

	// uneven taps: 400ms then 600ms, average interval 500ms
	est.RegisterTap(start)
	est.RegisterTap(start.Add(400 * time.Millisecond))
	est.RegisterTap(start.Add(1000 * time.Millisecond))
	require.Len(t, owner.updates, 2)
	assert.InDelta(t, 150.0, owner.updates[0], 1e-9)
	assert.InDelta(t, 120.0, owner.updates[1], 1e-9)
}

func TestTapTempoClampsAbsurdRates(t *testing.T) {
	t.Parallel()

	start := time.Date(2023, 4, 1, 20, 0, 0, 0, time.UTC)
	owner := &fakeOwner{}
	est := NewTapTempoEstimator(owner, testRange, 2*time.Second, nil)

	// two taps 10ms apart would be 6000 BPM
	est.RegisterTap(start)
	est.RegisterTap(start.Add(10 * time.Millisecond))
	require.Equal(t, []float64{999}, owner.updates)
}

func TestTapTempoReset(t *testing.T) {
	t.Parallel()

	start := time.Date(2023, 4, 1, 20, 0, 0, 0, time.UTC)
	owner := &fakeOwner{}
	est := NewTapTempoEstimator(owner, testRange, 2*time.Second, nil)

	est.RegisterTap(start)
	est.Reset()
	require.Equal(t, 0, est.Count())

	// the tap after a reset is a first tap again
	est.RegisterTap(start.Add(100 * time.Millisecond))
	assert.Empty(t, owner.updates)
}
