package tempo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScrub(owner *fakeOwner) *BpmScrubController {
	return NewBpmScrubController(owner, testRange, 2.0)
}

func TestScrubDragAdjustsTempo(t *testing.T) {
	t.Parallel()

	owner := &fakeOwner{bpm: 120}
	scrub := newTestScrub(owner)

	// begin at x=100, move to x=140 with 2 px per BPM unit: +20 BPM
	scrub.BeginDrag(Point{X: 100, Y: 10}, Point{X: 5, Y: 5})
	require.True(t, scrub.Dragging())

	scrub.UpdateDrag(Point{X: 140, Y: 10})
	assert.Equal(t, 140.0, owner.bpm)

	scrub.EndDrag()
	require.False(t, scrub.Dragging())

	// release keeps the last dragged value, no snap-back
	assert.Equal(t, 140.0, owner.bpm)
}

func TestScrubDragIsRelativeToPreDragTempo(t *testing.T) {
	t.Parallel()

	owner := &fakeOwner{bpm: 120}
	scrub := newTestScrub(owner)

	scrub.BeginDrag(Point{X: 100}, Point{})
	scrub.UpdateDrag(Point{X: 160})
	assert.Equal(t, 150.0, owner.bpm)

	// moves are absolute against the anchor, not cumulative
	scrub.UpdateDrag(Point{X: 90})
	assert.Equal(t, 115.0, owner.bpm)
	scrub.EndDrag()
}

func TestScrubDragMonotonicInDisplacement(t *testing.T) {
	t.Parallel()

	owner := &fakeOwner{bpm: 120}
	scrub := newTestScrub(owner)

	scrub.BeginDrag(Point{X: 0}, Point{})
	prev := -1.0
	for x := -3000.0; x <= 3000.0; x += 50 {
		scrub.UpdateDrag(Point{X: x})
		require.GreaterOrEqual(t, owner.bpm, prev)
		require.GreaterOrEqual(t, owner.bpm, testRange.Min)
		require.LessOrEqual(t, owner.bpm, testRange.Max)
		prev = owner.bpm
	}
}

func TestScrubStrayEventsAreNoOps(t *testing.T) {
	t.Parallel()

	owner := &fakeOwner{bpm: 120}
	scrub := newTestScrub(owner)

	// move before any press
	scrub.UpdateDrag(Point{X: 500})
	assert.Empty(t, owner.updates)

	// double release
	scrub.BeginDrag(Point{X: 100}, Point{})
	scrub.UpdateDrag(Point{X: 110})
	scrub.EndDrag()
	scrub.EndDrag()
	assert.Equal(t, []float64{125}, owner.updates)
}

func TestScrubSecondPressIsIgnored(t *testing.T) {
	t.Parallel()

	owner := &fakeOwner{bpm: 120}
	scrub := newTestScrub(owner)

	scrub.BeginDrag(Point{X: 100}, Point{})
	scrub.BeginDrag(Point{X: 900}, Point{})

	// displacement is still measured from the first anchor
	scrub.UpdateDrag(Point{X: 140})
	assert.Equal(t, 140.0, owner.bpm)
}

func TestScrubCancelForcesIdle(t *testing.T) {
	t.Parallel()

	owner := &fakeOwner{bpm: 120}
	scrub := newTestScrub(owner)

	scrub.BeginDrag(Point{X: 100}, Point{})
	scrub.Cancel()
	require.False(t, scrub.Dragging())

	// a fresh gesture snapshots the tempo again
	owner.bpm = 90
	scrub.BeginDrag(Point{X: 0}, Point{})
	scrub.UpdateDrag(Point{X: 20})
	assert.Equal(t, 100.0, owner.bpm)
}

func TestScrubSetBPMFromText(t *testing.T) {
	t.Parallel()

	owner := &fakeOwner{bpm: 120}
	scrub := newTestScrub(owner)

	require.NoError(t, scrub.SetBPMFromText(" 132.5 "))
	assert.Equal(t, 132.5, owner.bpm)

	// typed values clamp like any other input
	require.NoError(t, scrub.SetBPMFromText("10000"))
	assert.Equal(t, 999.0, owner.bpm)

	// garbage is rejected with no change to the tempo
	require.Error(t, scrub.SetBPMFromText("fast"))
	require.Error(t, scrub.SetBPMFromText(""))
	require.Error(t, scrub.SetBPMFromText("NaN"))
	assert.Equal(t, 999.0, owner.bpm)
}
