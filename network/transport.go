package network

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait    = 10 * time.Second
	pingInterval = 25 * time.Second
	sendBuffer   = 256
)

type client struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
	done chan struct{}
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

// writePump serializes all writes to the connection: queued messages plus
// the keepalive pings.
func (c *client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case data := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.close()
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.close()
				return
			}
		case <-c.done:
			return
		}
	}
}

// Registry is the websocket push transport: it tracks reachable players and
// delivers pre-encoded messages to them. Sends never block; a slow or gone
// recipient is dropped silently.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]*client
}

func NewRegistry() *Registry {
	return &Registry{clients: make(map[string]*client)}
}

// Attach binds a connection to a player id and starts its write pump.
func (reg *Registry) Attach(playerID string, conn *websocket.Conn) {
	c := &client{
		conn: conn,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}
	reg.mu.Lock()
	reg.clients[playerID] = c
	reg.mu.Unlock()
	go c.writePump()
}

func (reg *Registry) Detach(playerID string) {
	reg.mu.Lock()
	c, ok := reg.clients[playerID]
	delete(reg.clients, playerID)
	reg.mu.Unlock()
	if ok {
		c.close()
	}
}

func (reg *Registry) Send(playerID string, data []byte) {
	reg.mu.RLock()
	c, ok := reg.clients[playerID]
	reg.mu.RUnlock()
	if !ok {
		return
	}
	select {
	case c.send <- data:
	default:
		// backpressure: drop rather than block the engine
	}
}

func (reg *Registry) Broadcast(data []byte) {
	reg.mu.RLock()
	ids := make([]string, 0, len(reg.clients))
	for id := range reg.clients {
		ids = append(ids, id)
	}
	reg.mu.RUnlock()
	for _, id := range ids {
		reg.Send(id, data)
	}
}

func (reg *Registry) BroadcastToGame(playerIDs []string, data []byte) {
	for _, id := range playerIDs {
		reg.Send(id, data)
	}
}
