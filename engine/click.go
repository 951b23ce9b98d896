package engine

import (
	"context"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/generators"
	"github.com/faiface/beep/speaker"
	"github.com/openmetro/pulse/config"
	"github.com/openmetro/pulse/logger"
	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"
)

const (
	clickLength    = 35 * time.Millisecond
	driftTolerance = 10 * time.Millisecond
	beatToneHz     = 880
	downbeatToneHz = 1760
)

// ClickEngine plays an audible click on every beat of its metronome and
// applies tempo updates published by the session. A tempo update is a
// constant-time handoff: the engine only records a glide target and the click
// loop walks the metronome onto it, so the session never waits on the audio
// side.
type ClickEngine struct {
	met           *Metronome
	log           *logrus.Entry
	sampleRate    beep.SampleRate
	beatsPerBar   int
	glideDuration time.Duration
	clock         clock.PassiveClock

	mu         sync.Mutex
	glide      Glide
	glideStart time.Time
	mute       bool
}

// NewClickEngine creates a click engine driving met. Passing a nil clock
// selects the real clock.
func NewClickEngine(cfg config.MetroConfig, met *Metronome, cl clock.PassiveClock) *ClickEngine {
	if cl == nil {
		cl = clock.RealClock{}
	}
	log := cfg.Logger
	if log == nil {
		log = logger.GetProjectLogger()
	}
	return &ClickEngine{
		met:           met,
		log:           log,
		sampleRate:    beep.SampleRate(44100),
		beatsPerBar:   cfg.BeatsPerBar,
		glideDuration: cfg.GlideDuration,
		clock:         cl,
	}
}

// SetTempo records the session's new authoritative tempo. With a glide
// configured the metronome slides onto it over the next clicks; otherwise it
// jumps immediately.
func (e *ClickEngine) SetTempo(bpm float64) {
	if e.glideDuration <= 0 {
		e.met.SetTempo(bpm)
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.glide = Glide{From: e.met.Tempo(), To: bpm, Duration: e.glideDuration}
	e.glideStart = e.clock.Now()
}

// SetMute silences or restores the click without stopping the beat timeline.
func (e *ClickEngine) SetMute(mute bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.mute = mute
}

// Metronome returns the beat timeline the engine is driving.
func (e *ClickEngine) Metronome() *Metronome {
	return e.met
}

// Run starts the click loop. The goroutine registers on wg and exits when the
// context is cancelled.
func (e *ClickEngine) Run(ctx context.Context, wg *sync.WaitGroup) {
	wg.Add(1)
	go e.run(ctx, wg)
}

func (e *ClickEngine) run(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()

	if err := speaker.Init(e.sampleRate, e.sampleRate.N(time.Second/10)); err != nil {
		e.log.Errorf("audio output unavailable, clicking silently: %v", err)
		e.SetMute(true)
	}

	interval := e.beatDuration()
	timer := time.NewTimer(interval)
	defer timer.Stop()
	next := time.Now().Add(interval)

	for beat := 0; ; {
		select {
		case <-ctx.Done():
			e.log.Debug("click engine shutdown")
			return
		case now := <-timer.C:
			// resync after a stall or a large tempo drop
			if drift := now.Sub(next); drift > driftTolerance || drift < -driftTolerance {
				next = now
			}

			e.click(beat%e.beatsPerBar == 0)
			beat++

			e.step(now)
			next = next.Add(e.beatDuration())
			timer.Reset(time.Until(next))
		}
	}
}

// step advances any pending glide and applies the result to the metronome.
func (e *ClickEngine) step(now time.Time) {
	e.mu.Lock()
	g, start := e.glide, e.glideStart
	e.mu.Unlock()

	if g.To == 0 {
		// no tempo published yet
		return
	}
	if target := g.At(now.Sub(start)); target != e.met.Tempo() {
		e.met.SetTempo(target)
	}
}

func (e *ClickEngine) beatDuration() time.Duration {
	return time.Duration(e.met.BeatInterval() * float64(time.Millisecond))
}

func (e *ClickEngine) click(downbeat bool) {
	e.mu.Lock()
	mute := e.mute
	e.mu.Unlock()
	if mute {
		return
	}

	freq := beatToneHz
	if downbeat {
		freq = downbeatToneHz
	}
	tone, err := generators.SinTone(e.sampleRate, freq)
	if err != nil {
		e.log.Debugf("could not generate click tone: %v", err)
		return
	}
	speaker.Play(beep.Take(e.sampleRate.N(clickLength), tone))
}
