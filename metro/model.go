package main

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/openmetro/pulse/config"
	"github.com/openmetro/pulse/engine"
	"github.com/openmetro/pulse/link"
	"github.com/openmetro/pulse/tempo"
)

type model struct {
	cfg     config.MetroConfig
	session *link.Session
	scrub   *tempo.BpmScrubController
	taps    *tempo.TapTempoEstimator
	eng     *engine.ClickEngine

	spinner spinner.Model

	// rendered state, pushed by the session and the tick loop
	bpm         float64
	linkEnabled bool
	peers       int
	tapCount    int
	beatPhase   float64
	downbeat    bool

	typed    string // pending typed tempo entry
	inputErr bool
	muted    bool
	quitting bool
}

func newModel(cfg config.MetroConfig, session *link.Session, scrub *tempo.BpmScrubController, taps *tempo.TapTempoEstimator, eng *engine.ClickEngine) model {
	s := spinner.New()
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))

	return model{
		cfg:     cfg,
		session: session,
		scrub:   scrub,
		taps:    taps,
		eng:     eng,
		spinner: s,
		bpm:     session.BPM(),
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), m.spinner.Tick)
}

// tempoMsg and syncMsg are pushed by the session through the display hook.
type tempoMsg float64

type syncMsg struct {
	enabled bool
	peers   int
}

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*50, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// sessionDisplay forwards session notifications into the running program as
// messages. It holds no tempo state of its own. The sends happen on their own
// goroutine: the session notifies while serializing updates, and a notification
// triggered from inside Update would otherwise deadlock against the program's
// message loop. The tick loop re-polls the session, so a reordered send cannot
// leave the panel stale.
type sessionDisplay struct{}

func (sessionDisplay) TempoChanged(bpm float64) {
	if p != nil {
		go p.Send(tempoMsg(bpm))
	}
}

func (sessionDisplay) SyncStateChanged(enabled bool, activePeers int) {
	if p != nil {
		go p.Send(syncMsg{enabled: enabled, peers: activePeers})
	}
}
