package room

// Transport delivers encoded messages to players regardless of the
// underlying connection technology. Delivery is best-effort and
// at-most-once: unreachable recipients are dropped silently, and no send
// ever blocks the caller.
type Transport interface {
	// Send delivers to one player if reachable.
	Send(playerID string, data []byte)
	// Broadcast delivers to every currently reachable player.
	Broadcast(data []byte)
	// BroadcastToGame delivers to the given room members.
	BroadcastToGame(playerIDs []string, data []byte)
}
