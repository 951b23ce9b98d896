package main

import (
	"context"
	"flag"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/openmetro/pulse/config"
	"github.com/openmetro/pulse/engine"
	"github.com/openmetro/pulse/link"
	"github.com/openmetro/pulse/logger"
	"github.com/openmetro/pulse/tempo"
)

var p *tea.Program

var (
	listenAddr = flag.String("listen", config.DefaultListenAddr, "UDP address to receive peer tempo reports on")
	peerAddr   = flag.String("peer", config.DefaultPeerAddr, "UDP address of the tempo-sync peer service")
	initialBPM = flag.Float64("bpm", config.DefaultInitialBPM, "starting tempo")
)

func main() {
	flag.Parse()

	log := logger.GetProjectLogger()

	cfg, err := config.NewMetroConfig()
	if err != nil {
		log.Fatalf("error creating config. err='%v'", err)
	}
	cfg.Logger = log
	cfg.ListenAddr = *listenAddr
	cfg.PeerAddr = *peerAddr
	cfg.InitialBPM = *initialBPM

	met := engine.NewMetronome(cfg.BPMRange.Clamp(cfg.InitialBPM), cfg.BeatsPerBar, nil)
	eng := engine.NewClickEngine(cfg, met, nil)

	transport, err := link.NewOSCTransport(cfg)
	if err != nil {
		log.Fatalf("error creating sync transport. err='%v'", err)
	}

	session := link.NewSession(cfg, transport)
	session.AddTempoListener(eng)
	session.AddDisplay(sessionDisplay{})

	scrub := tempo.NewBpmScrubController(session, cfg.BPMRange, cfg.DragSensitivity)
	taps := tempo.NewTapTempoEstimator(session, cfg.BPMRange, cfg.TapTimeout, nil)

	ctx, cancel := context.WithCancel(context.Background())
	wg := sync.WaitGroup{}
	transport.Serve(ctx, session, &wg)
	eng.Run(ctx, &wg)

	p = tea.NewProgram(
		newModel(cfg, session, scrub, taps, eng),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)
	if err := p.Start(); err != nil {
		log.Errorf("error running metro panel: %v", err)
	}

	cancel()
	wg.Wait()
}
