package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"

	"github.com/openmetro/pulse/config"
	"github.com/openmetro/pulse/engine"
	"github.com/openmetro/pulse/link"
	"github.com/openmetro/pulse/logger"
	"github.com/sirupsen/logrus"
)

var (
	listenAddr = flag.String("listen", config.DefaultListenAddr, "UDP address to receive peer tempo reports on")
	peerAddr   = flag.String("peer", config.DefaultPeerAddr, "UDP address of the tempo-sync peer service")
	initialBPM = flag.Float64("bpm", config.DefaultInitialBPM, "starting tempo")
	syncOn     = flag.Bool("sync", true, "participate in the shared tempo session")
)

func main() {
	flag.Parse()
	ctx := context.Background()
	Run(ctx)
}

// Run starts the headless metronome: click engine plus tempo-sync session,
// with peers as the only tempo input.
func Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)

	// initialize the logger
	log := logger.GetProjectLogger()

	wg := sync.WaitGroup{}

	// initialize the global config
	log.Info("Initializing config...")
	cfg, err := config.NewMetroConfig()
	if err != nil {
		log.Fatalf("error creating config. err='%v'", err)
	}
	cfg.Logger = log
	cfg.ListenAddr = *listenAddr
	cfg.PeerAddr = *peerAddr
	cfg.InitialBPM = *initialBPM

	// initialize the click engine
	log.Info("Initializing click engine...")
	met := engine.NewMetronome(cfg.BPMRange.Clamp(cfg.InitialBPM), cfg.BeatsPerBar, nil)
	eng := engine.NewClickEngine(cfg, met, nil)

	// initialize the sync transport and session
	log.Info("Initializing tempo sync session...")
	transport, err := link.NewOSCTransport(cfg)
	if err != nil {
		log.Fatalf("error creating sync transport. err='%v'", err)
	}
	session := link.NewSession(cfg, transport)
	session.AddTempoListener(eng)
	session.AddDisplay(logDisplay{log: log})

	transport.Serve(ctx, session, &wg)
	eng.Run(ctx, &wg)

	session.SetNetworkSyncEnabled(*syncOn)

	// handle CTRL+C interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)

	<-quit
	log.Println("shutting down pulse")
	cancel()
	wg.Wait()
}

// logDisplay is the headless display surface: session state goes to the log.
type logDisplay struct {
	log *logrus.Entry
}

func (d logDisplay) TempoChanged(bpm float64) {
	d.log.Infof("tempo is now %.1f BPM", bpm)
}

func (d logDisplay) SyncStateChanged(enabled bool, activePeers int) {
	d.log.Infof("tempo sync enabled=%v peers=%d", enabled, activePeers)
}
