package tempo

import (
	"math"
	"strconv"
	"strings"

	"github.com/gruntwork-io/go-commons/errors"
)

// BpmScrubController turns press/move/release pointer events from the display
// surface into tempo updates. A horizontal drag scrubs the tempo linearly
// around the value snapshotted at press time; release just stops further
// updates, the last dragged value stands.
//
// The drag state lives for one gesture and is single-caller, so the controller
// carries no locking.
type BpmScrubController struct {
	owner       Owner
	bpmRange    Range
	sensitivity float64 // pixels per BPM unit

	isDragging   bool
	anchorScreen Point
	anchorLocal  Point
	preDragBPM   float64
}

// NewBpmScrubController creates a scrub controller publishing into owner.
func NewBpmScrubController(owner Owner, bpmRange Range, sensitivity float64) *BpmScrubController {
	return &BpmScrubController{
		owner:       owner,
		bpmRange:    bpmRange,
		sensitivity: sensitivity,
	}
}

// BeginDrag starts a gesture at the given screen and widget-local positions
// and snapshots the current tempo as the drag baseline. A press while a drag
// is already active is ignored.
func (c *BpmScrubController) BeginDrag(screen, local Point) {
	if c.isDragging {
		return
	}
	c.isDragging = true
	c.anchorScreen = screen
	c.anchorLocal = local
	c.preDragBPM = c.owner.BPM()
}

// UpdateDrag publishes the tempo for the current pointer position. Stray move
// events outside a gesture are dropped.
func (c *BpmScrubController) UpdateDrag(screen Point) {
	if !c.isDragging {
		return
	}
	dx := screen.X - c.anchorScreen.X
	c.owner.ApplyLocalBPMUpdate(c.bpmRange.Clamp(c.preDragBPM + dx/c.sensitivity))
}

// EndDrag finishes the gesture. The tempo already published during the drag
// remains in effect; there is no snap-back and no separate final commit.
func (c *BpmScrubController) EndDrag() {
	c.clear()
}

// Cancel force-ends a gesture, e.g. when the display surface loses input
// focus mid-drag. Without it a missed release would leave the controller
// stuck in the dragging state.
func (c *BpmScrubController) Cancel() {
	c.clear()
}

// Dragging reports whether a gesture is in progress.
func (c *BpmScrubController) Dragging() bool {
	return c.isDragging
}

// SetBPMFromText parses a typed tempo and publishes it directly, bypassing the
// drag state machine. Unparsable or non-finite input is rejected with no
// change to the tempo.
func (c *BpmScrubController) SetBPMFromText(s string) error {
	bpm, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return errors.WithStackTrace(err)
	}
	if math.IsNaN(bpm) || math.IsInf(bpm, 0) {
		return errors.WithStackTrace(&strconv.NumError{Func: "ParseFloat", Num: s, Err: strconv.ErrRange})
	}
	c.owner.ApplyLocalBPMUpdate(c.bpmRange.Clamp(bpm))
	return nil
}

func (c *BpmScrubController) clear() {
	c.isDragging = false
	c.anchorScreen = Point{}
	c.anchorLocal = Point{}
	c.preDragBPM = 0
}
