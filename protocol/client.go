package protocol

import "hexfront/game"

// Payloads coming in from the client. Kinds without fields (listGames,
// createGame, leaveGame, startGame, addAi) travel as bare envelopes.

type SetName struct {
	Name string `json:"name"`
}

type JoinGame struct {
	GameID string `json:"gameId"`
}

type PlaceUnits struct {
	Coords game.Hex `json:"coords"`
}

// TradeStock carries both buyStock and sellStock.
type TradeStock struct {
	CompanyID string `json:"companyId"`
}

type Ping struct {
	Timestamp int64 `json:"timestamp"`
}
