package p2p

import (
	"log/slog"
	"sync"

	"hexfront/room"
)

// Transport adapts a Host to the session engine's transport contract,
// keeping the peer-id to player-id mapping. Once a peer's data channel
// opens it is registered and welcomed exactly as a websocket client
// would be.
type Transport struct {
	host *Host
	mgr  *room.Manager
	log  *slog.Logger

	mu       sync.Mutex
	byPlayer map[string]string // playerID -> peerID
	byPeer   map[string]string // peerID -> playerID
}

func NewTransport(host *Host, log *slog.Logger) *Transport {
	return &Transport{
		host:     host,
		log:      log,
		byPlayer: make(map[string]string),
		byPeer:   make(map[string]string),
	}
}

// Wire connects the transport to the session engine. Must be called before
// any peer attaches.
func (t *Transport) Wire(mgr *room.Manager) {
	t.mgr = mgr
	t.host.OnPeerConnected(func(peerID string) {
		playerID := t.mgr.Register()
		t.mu.Lock()
		t.byPlayer[playerID] = peerID
		t.byPeer[peerID] = playerID
		t.mu.Unlock()
		t.mgr.Welcome(playerID)
		t.log.Info("peer attached", "peer", peerID, "player", playerID)
	})
	t.host.OnData(func(peerID string, data []byte) {
		t.mu.Lock()
		playerID, ok := t.byPeer[peerID]
		t.mu.Unlock()
		if ok {
			t.mgr.HandleMessage(playerID, data)
		}
	})
	t.host.OnPeerDisconnected(func(peerID string) {
		t.mu.Lock()
		playerID, ok := t.byPeer[peerID]
		delete(t.byPeer, peerID)
		delete(t.byPlayer, playerID)
		t.mu.Unlock()
		if ok {
			t.mgr.Disconnect(playerID)
			t.log.Info("peer detached", "peer", peerID, "player", playerID)
		}
	})
}

func (t *Transport) Send(playerID string, data []byte) {
	t.mu.Lock()
	peerID, ok := t.byPlayer[playerID]
	t.mu.Unlock()
	if ok {
		t.host.Send(peerID, data)
	}
}

func (t *Transport) Broadcast(data []byte) {
	t.mu.Lock()
	peerIDs := make([]string, 0, len(t.byPlayer))
	for _, peerID := range t.byPlayer {
		peerIDs = append(peerIDs, peerID)
	}
	t.mu.Unlock()
	for _, peerID := range peerIDs {
		t.host.Send(peerID, data)
	}
}

func (t *Transport) BroadcastToGame(playerIDs []string, data []byte) {
	for _, id := range playerIDs {
		t.Send(id, data)
	}
}
