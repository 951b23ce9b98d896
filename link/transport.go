package link

// Transport is the network tempo-sync service, treated as an opaque
// peer-counting, tempo-broadcast black box. The session calls outward through
// it; inbound peer reports arrive through the PeerHandler side.
type Transport interface {
	// Enable announces participation in the shared tempo session.
	Enable() error

	// Disable withdraws from the shared tempo session.
	Disable() error

	// BroadcastTempo pushes a locally changed tempo to the peers.
	BroadcastTempo(bpm float64) error
}

// PeerHandler receives validated peer reports from a transport. *Session
// implements it.
type PeerHandler interface {
	ApplyNetworkBPMUpdate(bpm float64)
	OnActivePeerCountChanged(count int)
}

// NopTransport is the transport used when running without a sync service.
type NopTransport struct{}

func (NopTransport) Enable() error                { return nil }
func (NopTransport) Disable() error               { return nil }
func (NopTransport) BroadcastTempo(float64) error { return nil }
