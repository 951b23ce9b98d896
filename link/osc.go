package link

import (
	"context"
	"net"
	"strconv"
	"sync"

	"github.com/gruntwork-io/go-commons/errors"
	"github.com/hypebeast/go-osc/osc"
	"github.com/openmetro/pulse/config"
	"github.com/openmetro/pulse/logger"
	"github.com/sirupsen/logrus"
)

// OSC addresses understood by peer metro sessions. The wire protocol beyond
// these messages belongs to the sync service, not to this package.
const (
	TempoAddress = "/pulse/link/tempo"
	PeersAddress = "/pulse/link/peers"
	JoinAddress  = "/pulse/link/join"
	LeaveAddress = "/pulse/link/leave"
)

// OSCTransport talks to the tempo-sync service over UDP: it broadcasts
// join/leave and tempo messages outward and dispatches inbound peer reports
// into a PeerHandler.
type OSCTransport struct {
	client     *osc.Client
	listenAddr string
	server     *osc.Server
	log        *logrus.Entry
}

// NewOSCTransport creates a transport broadcasting to cfg.PeerAddr and
// listening on cfg.ListenAddr.
func NewOSCTransport(cfg config.MetroConfig) (*OSCTransport, error) {
	host, portStr, err := net.SplitHostPort(cfg.PeerAddr)
	if err != nil {
		return nil, errors.WithStackTrace(err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, errors.WithStackTrace(err)
	}

	log := cfg.Logger
	if log == nil {
		log = logger.GetProjectLogger()
	}
	return &OSCTransport{
		client:     osc.NewClient(host, port),
		listenAddr: cfg.ListenAddr,
		log:        log,
	}, nil
}

// Enable announces this session to the peer service.
func (t *OSCTransport) Enable() error {
	return t.client.Send(osc.NewMessage(JoinAddress))
}

// Disable withdraws this session from the peer service.
func (t *OSCTransport) Disable() error {
	return t.client.Send(osc.NewMessage(LeaveAddress))
}

// BroadcastTempo pushes a locally changed tempo to the peers.
func (t *OSCTransport) BroadcastTempo(bpm float64) error {
	msg := osc.NewMessage(TempoAddress)
	msg.Append(bpm)
	return t.client.Send(msg)
}

// Serve listens for peer reports and routes them into h until the context is
// cancelled. It follows the project's ProcessForever shape: the caller owns
// the WaitGroup and the goroutine registers itself on it.
func (t *OSCTransport) Serve(ctx context.Context, h PeerHandler, wg *sync.WaitGroup) {
	t.server = &osc.Server{
		Addr:       t.listenAddr,
		Dispatcher: &peerDispatcher{handler: h, log: t.log},
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		t.log.Infof("tempo sync listening on %s", t.listenAddr)
		if err := t.server.ListenAndServe(); err != nil && ctx.Err() == nil {
			t.log.Errorf("tempo sync server stopped: %v", err)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		<-ctx.Done()
		if err := t.server.CloseConnection(); err != nil {
			t.log.Debugf("closing tempo sync server: %v", err)
		}
	}()
}

// peerDispatcher routes OSC packets from the sync service into a PeerHandler.
// Anything malformed is logged and dropped; a bad peer report must never take
// the session down.
type peerDispatcher struct {
	handler PeerHandler
	log     *logrus.Entry
}

// Dispatch implements osc.Dispatcher.
func (d *peerDispatcher) Dispatch(packet osc.Packet) {
	switch packet := packet.(type) {
	case *osc.Message:
		d.dispatchMessage(packet)
	case *osc.Bundle:
		for _, msg := range packet.Messages {
			d.dispatchMessage(msg)
		}
		for _, bundle := range packet.Bundles {
			d.Dispatch(bundle)
		}
	}
}

func (d *peerDispatcher) dispatchMessage(msg *osc.Message) {
	if msg == nil || len(msg.Arguments) == 0 {
		return
	}

	switch msg.Address {
	case TempoAddress:
		bpm, ok := floatArg(msg.Arguments[0])
		if !ok {
			d.log.Debugf("dropping peer tempo report with argument %T", msg.Arguments[0])
			return
		}
		d.handler.ApplyNetworkBPMUpdate(bpm)
	case PeersAddress:
		count, ok := intArg(msg.Arguments[0])
		if !ok {
			d.log.Debugf("dropping peer count report with argument %T", msg.Arguments[0])
			return
		}
		d.handler.OnActivePeerCountChanged(count)
	}
}

func floatArg(v interface{}) (float64, bool) {
	switch v := v.(type) {
	case float32:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}

func intArg(v interface{}) (int, bool) {
	switch v := v.(type) {
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	}
	return 0, false
}
