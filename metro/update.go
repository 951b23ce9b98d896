package main

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/openmetro/pulse/tempo"
	"golang.org/x/exp/slices"
)

var quitKeys = []string{"q", "ctrl+c"}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case tempoMsg:
		m.bpm = float64(msg)
		return m, nil
	case syncMsg:
		m.linkEnabled = msg.enabled
		m.peers = msg.peers
		return m, nil
	case tickMsg:
		met := m.eng.Metronome()
		m.beatPhase = met.BeatPhase()
		m.downbeat = met.IsDownBeat()
		m.tapCount = m.taps.Count()
		m.bpm = m.session.BPM()
		m.linkEnabled = m.session.NetworkSyncEnabled()
		m.peers = m.session.ActivePeerCount()
		return m, tickCmd()
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	default:
		return m, nil
	}
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch {
	case slices.Contains(quitKeys, key):
		m.scrub.Cancel()
		m.quitting = true
		return m, tea.Quit
	case key == "t":
		m.taps.Tap()
	case key == "l":
		m.session.SetNetworkSyncEnabled(!m.session.NetworkSyncEnabled())
	case key == "m":
		m.muted = !m.muted
		m.eng.SetMute(m.muted)
	case key == "esc":
		// leaving the entry also aborts any stuck gesture
		m.scrub.Cancel()
		m.typed = ""
		m.inputErr = false
	case key == "enter":
		if m.typed != "" {
			m.inputErr = m.scrub.SetBPMFromText(m.typed) != nil
			if !m.inputErr {
				m.typed = ""
			}
		}
	case key == "backspace":
		if len(m.typed) > 0 {
			m.typed = m.typed[:len(m.typed)-1]
		}
	case len(key) == 1 && (key[0] == '.' || (key[0] >= '0' && key[0] <= '9')):
		m.typed += key
		m.inputErr = false
	}
	return m, nil
}

func (m model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	pos := tempo.Point{X: float64(msg.X), Y: float64(msg.Y)}
	switch msg.Type {
	case tea.MouseLeft:
		if !m.scrub.Dragging() {
			m.scrub.BeginDrag(pos, pos)
		} else {
			// terminals report drags as repeated presses
			m.scrub.UpdateDrag(pos)
		}
	case tea.MouseMotion:
		m.scrub.UpdateDrag(pos)
	case tea.MouseRelease:
		m.scrub.EndDrag()
	}
	return m, nil
}
