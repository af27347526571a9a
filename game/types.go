package game

import "time"

// Internal authoritative game state. Wire snapshots live in the protocol
// package; these types are never marshalled directly.

type Phase string

const (
	PhaseLobby   Phase = "lobby"
	PhasePlaying Phase = "playing"
	PhaseEnded   Phase = "ended"
)

// NeutralFactionID owns all unclaimed territory once a game starts.
const NeutralFactionID = "neutral"

type Faction struct {
	ID   string
	Name string
}

// Country is one hex cell. Units maps faction id to a positive unit count;
// factions with zero units must not appear in the map.
type Country struct {
	Coords         Hex
	Units          map[string]int
	NextBattleTime time.Time
}

// Company is a tradable instrument with a mean-reverting price.
type Company struct {
	ID             string
	Name           string
	Price          int
	PreviousPrice  int
	NextUpdateTime time.Time
}

type Player struct {
	ID        string
	Name      string
	FactionID string
	AI        bool
}

type State struct {
	Phase     Phase
	Countries []Country
	Companies []Company
	Factions  []Faction
	Players   []Player
	UnitCost  int
	Winner    *Faction
}
