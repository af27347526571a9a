// Package p2p implements the peer-to-peer data channel transport: one
// process hosts the session engine and remote peers attach over WebRTC.
// Signaling stays outside this package — offers and answers are opaque
// blobs the caller exchanges however it likes (the original traded them by
// copy-paste).
package p2p

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/pion/webrtc/v4"
)

// Public STUN servers for NAT traversal.
var stunServers = []string{
	"stun:stun.l.google.com:19302",
	"stun:stun1.l.google.com:19302",
	"stun:stun2.l.google.com:19302",
}

type peer struct {
	id string
	pc *webrtc.PeerConnection
	dc *webrtc.DataChannel
}

// Host accepts remote peers over WebRTC data channels. For each peer it
// creates an offer (with ICE candidates already gathered, so the blob is
// self-contained), applies the peer's answer, and then shuttles raw message
// bytes over an ordered reliable channel.
type Host struct {
	mu      sync.Mutex
	peers   map[string]*peer
	counter int

	onData         func(peerID string, data []byte)
	onConnected    func(peerID string)
	onDisconnected func(peerID string)
}

func NewHost() *Host {
	return &Host{peers: make(map[string]*peer)}
}

func (h *Host) OnData(fn func(peerID string, data []byte)) { h.onData = fn }
func (h *Host) OnPeerConnected(fn func(peerID string))     { h.onConnected = fn }
func (h *Host) OnPeerDisconnected(fn func(peerID string))  { h.onDisconnected = fn }

// CreateOffer prepares a connection slot for one remote peer and returns
// the peer id with the encoded offer blob. Blocks until ICE gathering
// completes so the offer needs no trickle channel.
func (h *Host) CreateOffer() (string, string, error) {
	pc, err := webrtc.NewPeerConnection(webrtc.Configuration{
		ICEServers: []webrtc.ICEServer{{URLs: stunServers}},
	})
	if err != nil {
		return "", "", fmt.Errorf("new peer connection: %w", err)
	}

	h.mu.Lock()
	h.counter++
	peerID := fmt.Sprintf("peer%d", h.counter)
	h.mu.Unlock()

	ordered := true
	dc, err := pc.CreateDataChannel("game", &webrtc.DataChannelInit{Ordered: &ordered})
	if err != nil {
		_ = pc.Close()
		return "", "", fmt.Errorf("create data channel: %w", err)
	}

	p := &peer{id: peerID, pc: pc, dc: dc}

	dc.OnOpen(func() {
		if h.onConnected != nil {
			h.onConnected(peerID)
		}
	})
	dc.OnMessage(func(msg webrtc.DataChannelMessage) {
		if h.onData != nil {
			h.onData(peerID, msg.Data)
		}
	})
	dc.OnClose(func() {
		h.dropPeer(peerID)
	})
	pc.OnConnectionStateChange(func(state webrtc.PeerConnectionState) {
		switch state {
		case webrtc.PeerConnectionStateFailed,
			webrtc.PeerConnectionStateClosed,
			webrtc.PeerConnectionStateDisconnected:
			h.dropPeer(peerID)
		}
	})

	offer, err := pc.CreateOffer(nil)
	if err != nil {
		_ = pc.Close()
		return "", "", fmt.Errorf("create offer: %w", err)
	}
	gathered := webrtc.GatheringCompletePromise(pc)
	if err := pc.SetLocalDescription(offer); err != nil {
		_ = pc.Close()
		return "", "", fmt.Errorf("set local description: %w", err)
	}
	<-gathered

	blob, err := encodeSDP(pc.LocalDescription())
	if err != nil {
		_ = pc.Close()
		return "", "", err
	}

	h.mu.Lock()
	h.peers[peerID] = p
	h.mu.Unlock()
	return peerID, blob, nil
}

// AcceptAnswer applies a remote peer's answer blob to its pending offer.
func (h *Host) AcceptAnswer(peerID, blob string) error {
	h.mu.Lock()
	p, ok := h.peers[peerID]
	h.mu.Unlock()
	if !ok {
		return fmt.Errorf("unknown peer %q", peerID)
	}
	answer, err := decodeSDP(blob)
	if err != nil {
		return err
	}
	if err := p.pc.SetRemoteDescription(answer); err != nil {
		return fmt.Errorf("set remote description: %w", err)
	}
	return nil
}

// Send delivers raw bytes to one peer; unreachable peers are dropped
// silently per the transport contract.
func (h *Host) Send(peerID string, data []byte) {
	h.mu.Lock()
	p, ok := h.peers[peerID]
	h.mu.Unlock()
	if !ok || p.dc.ReadyState() != webrtc.DataChannelStateOpen {
		return
	}
	_ = p.dc.Send(data)
}

func (h *Host) dropPeer(peerID string) {
	h.mu.Lock()
	p, ok := h.peers[peerID]
	delete(h.peers, peerID)
	h.mu.Unlock()
	if !ok {
		return
	}
	_ = p.pc.Close()
	if h.onDisconnected != nil {
		h.onDisconnected(peerID)
	}
}

func (h *Host) Close() {
	h.mu.Lock()
	peers := h.peers
	h.peers = make(map[string]*peer)
	h.mu.Unlock()
	for _, p := range peers {
		_ = p.pc.Close()
	}
}

// Offers and answers travel as base64-wrapped JSON session descriptions.

func encodeSDP(desc *webrtc.SessionDescription) (string, error) {
	b, err := json.Marshal(desc)
	if err != nil {
		return "", fmt.Errorf("encode sdp: %w", err)
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

func decodeSDP(blob string) (webrtc.SessionDescription, error) {
	var desc webrtc.SessionDescription
	b, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return desc, fmt.Errorf("decode sdp: %w", err)
	}
	if err := json.Unmarshal(b, &desc); err != nil {
		return desc, fmt.Errorf("decode sdp: %w", err)
	}
	return desc, nil
}
