package protocol

import (
	"time"

	"hexfront/game"
)

// Payloads pushed to clients. Timestamps are unix milliseconds on the wire.

type Welcome struct {
	PlayerID string `json:"playerId"`
}

type GameInfo struct {
	ID          string   `json:"id"`
	HostName    string   `json:"hostName"`
	PlayerCount int      `json:"playerCount"`
	MaxPlayers  int      `json:"maxPlayers"`
	Phase       string   `json:"phase"`
	Players     []string `json:"players"`
}

type GameList struct {
	Games []GameInfo `json:"games"`
}

type JoinedGame struct {
	GameID    string `json:"gameId"`
	FactionID string `json:"factionId"`
}

type PlayerInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	FactionID string `json:"factionId"`
	AI        bool   `json:"isAi,omitempty"`
	Money     int    `json:"money"`
}

type LobbyUpdate struct {
	Players []PlayerInfo `json:"players"`
}

type CountrySnapshot struct {
	Coords         game.Hex       `json:"coords"`
	Units          map[string]int `json:"units"`
	NextBattleTime int64          `json:"nextBattleTime"`
}

type CompanySnapshot struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Price          int    `json:"price"`
	PreviousPrice  int    `json:"previousPrice"`
	NextUpdateTime int64  `json:"nextUpdateTime"`
}

type FactionInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// GameState is the full per-tick snapshot. This is a state-snapshot
// protocol: every broadcast carries the whole room, never a delta.
type GameState struct {
	Phase     string            `json:"phase"`
	Countries []CountrySnapshot `json:"countries"`
	Companies []CompanySnapshot `json:"companies"`
	Factions  []FactionInfo     `json:"factions"`
	Players   []PlayerInfo      `json:"players"`
	UnitCost  int               `json:"unitCost"`
	Winner    *FactionInfo      `json:"winner"`
}

type WalletUpdate struct {
	Money    int            `json:"money"`
	Holdings map[string]int `json:"holdings"`
	Bulk     int            `json:"bulkAmount"`
}

type Error struct {
	Message string `json:"message"`
}

type Pong struct {
	Timestamp int64 `json:"timestamp"`
}

// Millis converts a schedule time to its wire representation.
func Millis(t time.Time) int64 {
	return t.UnixMilli()
}
