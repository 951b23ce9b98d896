package config

import (
	"time"

	"github.com/openmetro/pulse/tempo"
	"github.com/sirupsen/logrus"
)

// Tuning constants for the metro panel. The drag sensitivity and tap timeout
// match the feel of the original product.
const (
	// DefaultTapTimeout is the inactivity gap after which a tap sequence is
	// treated as the start of a new tempo attempt.
	DefaultTapTimeout = 2000 * time.Millisecond

	// DefaultDragSensitivity is how many pixels of horizontal drag move the
	// tempo by one BPM.
	DefaultDragSensitivity = 2.0

	// DefaultMinBPM / DefaultMaxBPM bound the valid tempo range. The lower
	// bound stays well above zero because beat durations divide by the tempo.
	DefaultMinBPM = 20.0
	DefaultMaxBPM = 999.0

	// DefaultInitialBPM is the tempo before any input or peer has spoken.
	DefaultInitialBPM = 120.0

	DefaultBeatsPerBar = 4

	// DefaultGlideDuration is how long the click engine takes to slide from
	// the old tempo to a newly published one.
	DefaultGlideDuration = 150 * time.Millisecond

	// Default UDP endpoints for the tempo-sync service.
	DefaultListenAddr = "127.0.0.1:4559"
	DefaultPeerAddr   = "127.0.0.1:4560"
)

// MetroConfig represents options that configure the global behavior of the program
type MetroConfig struct {
	// Project logger
	Logger *logrus.Entry

	// TapTimeout is the tap-sequence inactivity timeout.
	TapTimeout time.Duration

	// DragSensitivity is the scrub mapping in pixels per BPM unit.
	DragSensitivity float64

	// BPMRange is the valid tempo range; every write is clamped to it.
	BPMRange tempo.Range

	// InitialBPM seeds the session and the click engine.
	InitialBPM float64

	// BeatsPerBar selects the downbeat accent of the click engine.
	BeatsPerBar int

	// GlideDuration is the click engine's tempo ramp length. Zero applies
	// tempo changes immediately.
	GlideDuration time.Duration

	// ListenAddr is the UDP address the sync transport receives peer
	// reports on; PeerAddr is where it broadcasts to.
	ListenAddr string
	PeerAddr   string
}

// NewMetroConfig creates a new MetroConfig object with reasonable defaults for real usage
func NewMetroConfig() (MetroConfig, error) {
	return MetroConfig{
		TapTimeout:      DefaultTapTimeout,
		DragSensitivity: DefaultDragSensitivity,
		BPMRange:        tempo.Range{Min: DefaultMinBPM, Max: DefaultMaxBPM},
		InitialBPM:      DefaultInitialBPM,
		BeatsPerBar:     DefaultBeatsPerBar,
		GlideDuration:   DefaultGlideDuration,
		ListenAddr:      DefaultListenAddr,
		PeerAddr:        DefaultPeerAddr,
	}, nil
}
