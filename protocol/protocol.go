package protocol

import (
	"encoding/json"
)

// Client → server message kinds.
const (
	MsgSetName     = "setName"
	MsgListGames   = "listGames"
	MsgCreateGame  = "createGame"
	MsgJoinGame    = "joinGame"
	MsgLeaveGame   = "leaveGame"
	MsgStartGame   = "startGame"
	MsgPlaceUnits  = "placeUnits"
	MsgAddAI       = "addAi"
	MsgBuyStock    = "buyStock"
	MsgSellStock   = "sellStock"
	MsgUpgradeBulk = "upgradeBulk"
	MsgPing        = "ping"
)

// Server → client message kinds.
const (
	MsgWelcome      = "welcome"
	MsgGameList     = "gameList"
	MsgJoinedGame   = "joinedGame"
	MsgLeftGame     = "leftGame"
	MsgLobbyUpdate  = "lobbyUpdate"
	MsgGameStarted  = "gameStarted"
	MsgGameState    = "gameState"
	MsgWalletUpdate = "walletUpdate"
	MsgError        = "error"
	MsgPong         = "pong"
)

type Envelope struct {
	T string          `json:"t"`
	P json.RawMessage `json:"p,omitempty"` // raw payload bytes
}
