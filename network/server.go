package network

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"hexfront/room"
)

const (
	readLimit    = 1 << 20 // 1MB
	readDeadline = 60 * time.Second
)

var upgrader = websocket.Upgrader{
	// For dev, allow all origins. Lock this down in prod.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server is the thin network listener: it accepts websocket connections,
// maps them to player identities, and forwards parsed frames into the
// session engine. All game decisions live in the room package.
type Server struct {
	reg *Registry
	mgr *room.Manager
	log *slog.Logger
}

func NewServer(reg *Registry, mgr *room.Manager, log *slog.Logger) *Server {
	return &Server{reg: reg, mgr: mgr, log: log}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.wsHandler)
	return mux
}

func (s *Server) wsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("upgrade failed", "err", err)
		return
	}

	conn.SetReadLimit(readLimit)
	_ = conn.SetReadDeadline(time.Now().Add(readDeadline))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(readDeadline))
		return nil
	})

	playerID := s.mgr.Register()
	s.reg.Attach(playerID, conn)
	s.mgr.Welcome(playerID)

	defer func() {
		s.mgr.Disconnect(playerID)
		s.reg.Detach(playerID)
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(readDeadline))
		s.mgr.HandleMessage(playerID, data)
	}
}
