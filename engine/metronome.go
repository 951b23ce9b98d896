package engine

import (
	"math"
	"sync"
	"time"

	"k8s.io/utils/clock"
)

// Metronome tracks the engine's beat timeline for a given tempo. Beats are
// numbered from 1 at the timeline origin; the phase runs from 0 to 1 within a
// beat.
type Metronome struct {
	mu          sync.Mutex
	clock       clock.PassiveClock
	startTime   time.Time
	tempo       float64
	beatsPerBar int
}

// NewMetronome creates a metronome starting its timeline now. Passing a nil
// clock selects the real clock.
func NewMetronome(bpm float64, beatsPerBar int, cl clock.PassiveClock) *Metronome {
	if cl == nil {
		cl = clock.RealClock{}
	}
	if beatsPerBar < 1 {
		beatsPerBar = 1
	}
	return &Metronome{
		clock:       cl,
		startTime:   cl.Now(),
		tempo:       bpm,
		beatsPerBar: beatsPerBar,
	}
}

// Tempo returns the metronome's current tempo.
func (m *Metronome) Tempo() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tempo
}

// SetTempo changes the tempo, rebasing the timeline origin so the current
// beat number and phase are unaffected by the change. Constant time; safe to
// call from a notification path. A non-positive tempo is ignored.
func (m *Metronome) SetTempo(bpm float64) {
	if bpm <= 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	instant := m.clock.Now()
	interval := m.beatIntervalLocked()
	beat := beatNumber(instant, m.startTime, interval)
	phase := beatPhase(instant, m.startTime, interval)
	newInterval := beatsToMilliseconds(1, bpm)
	offsetMs := newInterval * (phase + float64(beat) - 1)
	m.startTime = instant.Add(-time.Duration(math.Round(offsetMs * float64(time.Millisecond))))
	m.tempo = bpm
}

// BeatInterval returns the number of milliseconds a beat lasts.
func (m *Metronome) BeatInterval() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.beatIntervalLocked()
}

// Beat returns the current beat number, counting from 1.
func (m *Metronome) Beat() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return beatNumber(m.clock.Now(), m.startTime, m.beatIntervalLocked())
}

// BeatPhase returns how far the current instant sits within its beat, in
// [0, 1).
func (m *Metronome) BeatPhase() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return beatPhase(m.clock.Now(), m.startTime, m.beatIntervalLocked())
}

// BeatWithinBar returns the current beat's position in its bar, counting
// from 1.
func (m *Metronome) BeatWithinBar() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	beat := beatNumber(m.clock.Now(), m.startTime, m.beatIntervalLocked())
	return (beat-1)%m.beatsPerBar + 1
}

// IsDownBeat reports whether the current beat is the first in its bar.
func (m *Metronome) IsDownBeat() bool {
	return m.BeatWithinBar() == 1
}

// BeatsPerBar returns the metronome's bar length in beats.
func (m *Metronome) BeatsPerBar() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.beatsPerBar
}

func (m *Metronome) beatIntervalLocked() float64 {
	return beatsToMilliseconds(1, m.tempo)
}

// beatsToMilliseconds calculates milliseconds for the given beats and tempo.
func beatsToMilliseconds(beats int, tempo float64) float64 {
	return (60000.0 / tempo) * float64(beats)
}

// beatNumber calculates which beat the instant falls in, counting from 1 at
// the timeline origin.
func beatNumber(instant, start time.Time, intervalMs float64) int {
	return int(math.Floor(instant.Sub(start).Seconds()*1000/intervalMs)) + 1
}

// beatPhase calculates how far the instant sits within its beat.
func beatPhase(instant, start time.Time, intervalMs float64) float64 {
	ratio := instant.Sub(start).Seconds() * 1000 / intervalMs
	return ratio - math.Floor(ratio)
}
