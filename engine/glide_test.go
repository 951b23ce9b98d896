package engine

import (
	"testing"
	"time"

	"github.com/openmetro/pulse/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/utils/clock"
)

func TestGlideEndpoints(t *testing.T) {
	t.Parallel()

	g := Glide{From: 120, To: 150, Duration: 150 * time.Millisecond}

	assert.Equal(t, 120.0, g.At(0))
	assert.Equal(t, 150.0, g.At(150*time.Millisecond))
	assert.Equal(t, 150.0, g.At(time.Second))
	assert.False(t, g.Done(100*time.Millisecond))
	assert.True(t, g.Done(150*time.Millisecond))

	// the easing curve is symmetric, so the midpoint is the mean tempo
	assert.InDelta(t, 135.0, g.At(75*time.Millisecond), 1e-9)
}

func TestGlideZeroDurationJumps(t *testing.T) {
	t.Parallel()

	g := Glide{From: 120, To: 90}
	assert.Equal(t, 90.0, g.At(0))
	assert.True(t, g.Done(0))
}

func TestClickEngineGlidesOntoNewTempo(t *testing.T) {
	t.Parallel()

	cfg, err := config.NewMetroConfig()
	require.NoError(t, err)

	start := time.Date(2023, 4, 1, 20, 0, 0, 0, time.UTC)
	cl := clock.NewFakePassiveClock(start)
	met := NewMetronome(120, cfg.BeatsPerBar, cl)
	eng := NewClickEngine(cfg, met, cl)

	eng.SetTempo(150)
	require.Equal(t, 120.0, met.Tempo())

	// halfway through the glide the metronome sits between the tempi
	cl.SetTime(start.Add(cfg.GlideDuration / 2))
	eng.step(cl.Now())
	assert.InDelta(t, 135.0, met.Tempo(), 1e-9)

	cl.SetTime(start.Add(cfg.GlideDuration))
	eng.step(cl.Now())
	assert.Equal(t, 150.0, met.Tempo())
}

func TestClickEngineImmediateTempoWithoutGlide(t *testing.T) {
	t.Parallel()

	cfg, err := config.NewMetroConfig()
	require.NoError(t, err)
	cfg.GlideDuration = 0

	met := NewMetronome(120, cfg.BeatsPerBar, nil)
	eng := NewClickEngine(cfg, met, nil)

	eng.SetTempo(132)
	assert.Equal(t, 132.0, met.Tempo())
}
