package link

import (
	"sync"

	"github.com/openmetro/pulse/config"
	"github.com/openmetro/pulse/logger"
	"github.com/openmetro/pulse/tempo"
	"github.com/sirupsen/logrus"
)

// TempoListener receives the authoritative tempo whenever it changes. The
// audio engine implements it. SetTempo is a fire-and-forget handoff and must
// return in constant time; the session calls it while serializing updates, so
// a listener that blocks stalls every input path.
type TempoListener interface {
	SetTempo(bpm float64)
}

// Display renders session state. It is a pure observer; it must not call back
// into the session from inside a notification.
type Display interface {
	TempoChanged(bpm float64)
	SyncStateChanged(enabled bool, activePeers int)
}

// Session is the single authoritative owner of the tempo and of the network
// sync enable/peer state. Every input modality and the network transport
// funnel their updates through it; one mutex serializes them in arrival
// order, last write wins.
type Session struct {
	mu        sync.Mutex
	bpm       float64
	enabled   bool
	peerCount int

	bpmRange  tempo.Range
	transport Transport
	listeners []TempoListener
	displays  []Display
	log       *logrus.Entry
}

// NewSession creates a session seeded with the configured initial tempo. A
// nil transport runs the session offline.
func NewSession(cfg config.MetroConfig, transport Transport) *Session {
	if transport == nil {
		transport = NopTransport{}
	}
	log := cfg.Logger
	if log == nil {
		log = logger.GetProjectLogger()
	}
	return &Session{
		bpm:       cfg.BPMRange.Clamp(cfg.InitialBPM),
		bpmRange:  cfg.BPMRange,
		transport: transport,
		log:       log,
	}
}

// AddTempoListener registers an audio collaborator. Not safe to call once
// updates are flowing; wire listeners up before starting the transport.
func (s *Session) AddTempoListener(l TempoListener) {
	s.listeners = append(s.listeners, l)
}

// AddDisplay registers a display surface.
func (s *Session) AddDisplay(d Display) {
	s.displays = append(s.displays, d)
}

// ApplyLocalBPMUpdate stores a user-driven tempo and publishes it to the
// audio engine and the display. While sync is enabled the new tempo is also
// broadcast to the peers.
func (s *Session) ApplyLocalBPMUpdate(bpm float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.bpm = s.bpmRange.Clamp(bpm)
	if s.enabled {
		if err := s.transport.BroadcastTempo(s.bpm); err != nil {
			s.log.Warnf("tempo broadcast failed: %v", err)
		}
	}
	s.notifyTempoLocked()
}

// ApplyNetworkBPMUpdate stores a peer-driven tempo. It is ignored while sync
// is disabled, and is never re-broadcast, so a peer report cannot echo back
// out into the session it came from.
func (s *Session) ApplyNetworkBPMUpdate(bpm float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.enabled {
		s.log.Debugf("ignoring peer tempo %.1f while sync is disabled", bpm)
		return
	}
	s.bpm = s.bpmRange.Clamp(bpm)
	s.notifyTempoLocked()
}

// SetNetworkSyncEnabled toggles participation in the shared tempo session.
// Enabling re-broadcasts the current tempo once so late-joining peers
// converge. Repeated calls with the same value do nothing.
func (s *Session) SetNetworkSyncEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if enabled == s.enabled {
		return
	}
	s.enabled = enabled

	if enabled {
		if err := s.transport.Enable(); err != nil {
			s.log.Warnf("could not enable tempo sync: %v", err)
		}
		if err := s.transport.BroadcastTempo(s.bpm); err != nil {
			s.log.Warnf("tempo broadcast failed: %v", err)
		}
	} else {
		if err := s.transport.Disable(); err != nil {
			s.log.Warnf("could not disable tempo sync: %v", err)
		}
	}
	s.notifySyncStateLocked()
}

// OnActivePeerCountChanged records the peer count reported by the transport.
// The count is informational only and never changes the tempo.
func (s *Session) OnActivePeerCountChanged(count int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if count < 0 {
		count = 0
	}
	s.peerCount = count
	s.notifySyncStateLocked()
}

// BPM returns the authoritative tempo.
func (s *Session) BPM() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bpm
}

// NetworkSyncEnabled reports whether the session participates in tempo sync.
func (s *Session) NetworkSyncEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

// ActivePeerCount returns the last peer count reported by the transport.
func (s *Session) ActivePeerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.peerCount
}

func (s *Session) notifyTempoLocked() {
	for _, l := range s.listeners {
		l.SetTempo(s.bpm)
	}
	for _, d := range s.displays {
		d.TempoChanged(s.bpm)
	}
}

func (s *Session) notifySyncStateLocked() {
	for _, d := range s.displays {
		d.SyncStateChanged(s.enabled, s.peerCount)
	}
}
