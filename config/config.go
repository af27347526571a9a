package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries the runtime settings. Everything is read from the
// environment; a .env file is honored when present.
type Config struct {
	Addr         string
	Mode         string // "server" or "p2p"
	TickInterval time.Duration
	MapRadius    int
}

func Load() (Config, error) {
	// Missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	cfg := Config{
		Addr:         envOr("ADDR", ":8080"),
		Mode:         envOr("MODE", "server"),
		TickInterval: 250 * time.Millisecond,
		MapRadius:    0, // room.DefaultConfig fills this
	}

	if v := os.Getenv("TICK_INTERVAL_MS"); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil || ms <= 0 {
			return Config{}, fmt.Errorf("invalid TICK_INTERVAL_MS %q", v)
		}
		cfg.TickInterval = time.Duration(ms) * time.Millisecond
	}
	if v := os.Getenv("MAP_RADIUS"); v != "" {
		r, err := strconv.Atoi(v)
		if err != nil || r < 1 {
			return Config{}, fmt.Errorf("invalid MAP_RADIUS %q", v)
		}
		cfg.MapRadius = r
	}
	if cfg.Mode != "server" && cfg.Mode != "p2p" {
		return Config{}, fmt.Errorf("invalid MODE %q", cfg.Mode)
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
