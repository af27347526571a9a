package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"hexfront/config"
	"hexfront/network"
	"hexfront/p2p"
	"hexfront/room"
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Error("config", "err", err)
		os.Exit(1)
	}

	roomCfg := room.DefaultConfig()
	roomCfg.TickInterval = cfg.TickInterval
	if cfg.MapRadius > 0 {
		roomCfg.MapRadius = cfg.MapRadius
	}

	switch cfg.Mode {
	case "p2p":
		runP2P(roomCfg, log)
	default:
		runServer(cfg.Addr, roomCfg, log)
	}
}

func runServer(addr string, roomCfg room.Config, log *slog.Logger) {
	reg := network.NewRegistry()
	mgr := room.NewManager(reg, log, roomCfg)
	srv := network.NewServer(reg, mgr, log)

	log.Info("listening", "addr", addr, "endpoint", "/ws")
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		log.Error("listen", "err", err)
		os.Exit(1)
	}
}

// runP2P hosts the session engine behind WebRTC data channels. Signaling
// blobs are exchanged on stdin/stdout: type "offer" to mint an offer for a
// joining peer, then paste back "answer <peerId> <blob>".
func runP2P(roomCfg room.Config, log *slog.Logger) {
	host := p2p.NewHost()
	defer host.Close()

	tr := p2p.NewTransport(host, log)
	mgr := room.NewManager(tr, log, roomCfg)
	tr.Wire(mgr)

	fmt.Println("p2p host ready. Commands: offer | answer <peerId> <blob> | quit")
	sc := bufio.NewScanner(os.Stdin)
	sc.Buffer(make([]byte, 1<<20), 1<<20) // answer blobs are large
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "offer":
			peerID, blob, err := host.CreateOffer()
			if err != nil {
				log.Error("create offer", "err", err)
				continue
			}
			fmt.Printf("offer %s %s\n", peerID, blob)
		case "answer":
			if len(fields) != 3 {
				fmt.Println("usage: answer <peerId> <blob>")
				continue
			}
			if err := host.AcceptAnswer(fields[1], fields[2]); err != nil {
				log.Error("accept answer", "err", err)
			}
		case "quit":
			return
		default:
			fmt.Println("commands: offer | answer <peerId> <blob> | quit")
		}
	}
}
