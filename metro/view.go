package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

var (
	appStyle   = lipgloss.NewStyle().Margin(1, 2, 0, 2)
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	inputStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Margin(1, 0)

	beatColor     = mustHex("#5A56E0")
	downbeatColor = mustHex("#FFFFFF")
)

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// bpmStyle fades the tempo readout from bright at the click back down to the
// base color across the beat, so the panel pulses in time.
func bpmStyle(phase float64, downbeat bool) lipgloss.Style {
	flash := beatColor
	if downbeat {
		flash = downbeatColor
	}
	c := flash.BlendLuv(beatColor, phase)
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Bold(true)
}

func (m model) View() string {
	var s string
	s += titleStyle.Render("pulse metro") + "\n\n"
	s += bpmStyle(m.beatPhase, m.downbeat).Render(fmt.Sprintf("%7.1f BPM", m.bpm)) + "\n\n"

	if m.linkEnabled {
		s += fmt.Sprintf("%s link on, %d %s\n", m.spinner.View(), m.peers, pluralPeers(m.peers))
	} else {
		s += labelStyle.Render("link off") + "\n"
	}

	if m.tapCount > 0 {
		s += labelStyle.Render(fmt.Sprintf("taps: %d", m.tapCount)) + "\n"
	}
	if m.muted {
		s += labelStyle.Render("muted") + "\n"
	}

	if m.typed != "" {
		s += "\n" + labelStyle.Render("set bpm: ") + inputStyle.Render(m.typed+"▏") + "\n"
	}
	if m.inputErr {
		s += errStyle.Render("not a tempo") + "\n"
	}

	s += helpStyle.Render("drag horizontally to scrub · (t)ap tempo · (l)ink · (m)ute · type a BPM and press enter · (q)uit")

	if m.quitting {
		s += "\n"
	}
	return appStyle.Render(s)
}

func pluralPeers(n int) string {
	if n == 1 {
		return "peer"
	}
	return "peers"
}
