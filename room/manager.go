package room

import (
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"hexfront/game"
	"hexfront/protocol"
)

// Player is a connected client (or an automated stand-in) in the
// process-wide registry.
type Player struct {
	ID   string
	Name string
	AI   bool
	room *Room
}

type Config struct {
	TickInterval time.Duration
	MapRadius    int
}

func DefaultConfig() Config {
	return Config{
		TickInterval: 250 * time.Millisecond,
		MapRadius:    game.MapRadius,
	}
}

// Manager owns the player and room registries and validates every
// player-initiated operation before it touches room state. All inbound
// handling is serialized under mu; per-room simulation runs on the room's
// own goroutine under the room's lock.
type Manager struct {
	mu        sync.Mutex
	log       *slog.Logger
	transport Transport
	cfg       Config
	players   map[string]*Player
	rooms     map[string]*Room
	aiCounter int
}

func NewManager(t Transport, log *slog.Logger, cfg Config) *Manager {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = DefaultConfig().TickInterval
	}
	if cfg.MapRadius <= 0 {
		cfg.MapRadius = DefaultConfig().MapRadius
	}
	return &Manager{
		log:       log,
		transport: t,
		cfg:       cfg,
		players:   make(map[string]*Player),
		rooms:     make(map[string]*Room),
	}
}

// Register creates a player identity for a new connection.
func (m *Manager) Register() string {
	id := uuid.NewString()
	m.mu.Lock()
	m.players[id] = &Player{ID: id}
	m.mu.Unlock()
	m.log.Info("client connected", "player", id)
	return id
}

// Welcome greets a freshly attached connection with its player id.
func (m *Manager) Welcome(playerID string) {
	m.send(playerID, protocol.MsgWelcome, protocol.Welcome{PlayerID: playerID})
}

// Disconnect tears the player down with full leave semantics: an implicit
// disconnect and an explicit leave are the same transition.
func (m *Manager) Disconnect(playerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.players[playerID]
	if !ok {
		return
	}
	m.leaveRoomLocked(p)
	delete(m.players, playerID)
	m.log.Info("client disconnected", "player", playerID)
}

// HandleMessage parses and dispatches one inbound client message.
func (m *Manager) HandleMessage(playerID string, data []byte) {
	env, err := protocol.DecodeEnvelope(data)
	if err != nil {
		m.log.Debug("bad envelope", "player", playerID, "err", err)
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.players[playerID]
	if !ok {
		return
	}

	switch env.T {
	case protocol.MsgSetName:
		pl, err := protocol.DecodePayload[protocol.SetName](env)
		if err != nil {
			m.log.Debug("bad payload", "type", env.T, "err", err)
			return
		}
		m.handleSetName(p, pl.Name)
	case protocol.MsgListGames:
		m.send(p.ID, protocol.MsgGameList, m.gameListLocked())
	case protocol.MsgCreateGame:
		m.handleCreateGame(p)
	case protocol.MsgJoinGame:
		pl, err := protocol.DecodePayload[protocol.JoinGame](env)
		if err != nil {
			m.log.Debug("bad payload", "type", env.T, "err", err)
			return
		}
		m.handleJoinGame(p, pl.GameID)
	case protocol.MsgLeaveGame:
		m.leaveRoomLocked(p)
	case protocol.MsgStartGame:
		m.handleStartGame(p)
	case protocol.MsgPlaceUnits:
		pl, err := protocol.DecodePayload[protocol.PlaceUnits](env)
		if err != nil {
			m.log.Debug("bad payload", "type", env.T, "err", err)
			return
		}
		m.handlePlaceUnits(p, pl.Coords)
	case protocol.MsgAddAI:
		m.handleAddAI(p)
	case protocol.MsgBuyStock, protocol.MsgSellStock:
		pl, err := protocol.DecodePayload[protocol.TradeStock](env)
		if err != nil {
			m.log.Debug("bad payload", "type", env.T, "err", err)
			return
		}
		m.handleTrade(p, pl.CompanyID, env.T == protocol.MsgBuyStock)
	case protocol.MsgUpgradeBulk:
		m.handleUpgradeBulk(p)
	case protocol.MsgPing:
		pl, err := protocol.DecodePayload[protocol.Ping](env)
		if err != nil {
			return
		}
		m.send(p.ID, protocol.MsgPong, protocol.Pong{Timestamp: pl.Timestamp})
	default:
		m.log.Debug("unknown message type", "type", env.T, "player", playerID)
	}
}

func (m *Manager) handleSetName(p *Player, name string) {
	name = strings.TrimSpace(name)
	if len(name) > 32 {
		m.sendError(p.ID, "Name too long")
		return
	}
	p.Name = name
}

func (m *Manager) handleCreateGame(p *Player) {
	if p.Name == "" {
		m.sendError(p.ID, "Set your name first")
		return
	}
	m.leaveRoomLocked(p)

	r := newRoom(m.newRoomID(), p.ID, m.cfg, m.transport)
	r.OnEnded = m.roomEnded
	m.rooms[r.ID] = r

	factionID := r.join(p.ID, p.AI)
	p.room = r

	m.send(p.ID, protocol.MsgJoinedGame, protocol.JoinedGame{GameID: r.ID, FactionID: factionID})
	m.lobbyUpdateLocked(r)
	m.pushGameListLocked()
	m.log.Info("game created", "game", r.ID, "host", p.Name)
}

func (m *Manager) handleJoinGame(p *Player, gameID string) {
	if p.Name == "" {
		m.sendError(p.ID, "Set your name first")
		return
	}
	r, ok := m.rooms[gameID]
	if !ok {
		m.sendError(p.ID, "Game not found")
		return
	}
	r.mu.Lock()
	phase := r.phase()
	count := len(r.members)
	r.mu.Unlock()
	if phase != game.PhaseLobby {
		m.sendError(p.ID, "Game already in progress")
		return
	}
	if count >= game.MaxPlayers {
		m.sendError(p.ID, "Game is full")
		return
	}
	m.leaveRoomLocked(p)

	factionID := r.join(p.ID, p.AI)
	p.room = r

	m.send(p.ID, protocol.MsgJoinedGame, protocol.JoinedGame{GameID: r.ID, FactionID: factionID})
	m.lobbyUpdateLocked(r)
	m.pushGameListLocked()
	m.log.Info("player joined", "game", r.ID, "player", p.Name)
}

// leaveRoomLocked removes the player from their current room, if any, with
// the full §leave semantics: mid-game unit transfer to neutral, and room
// destruction when the host left or nobody human remains.
func (m *Manager) leaveRoomLocked(p *Player) {
	r := p.room
	if r == nil {
		return
	}
	p.room = nil

	r.mu.Lock()
	r.removeMember(p.ID)
	humans := r.humanCount()
	r.mu.Unlock()

	m.send(p.ID, protocol.MsgLeftGame, nil)

	if humans == 0 || r.HostID == p.ID {
		m.destroyRoomLocked(r)
	} else {
		m.lobbyUpdateLocked(r)
	}
	m.pushGameListLocked()
	m.log.Info("player left", "game", r.ID, "player", p.ID)
}

// destroyRoomLocked stops the tick loop, detaches and notifies the
// remaining members, and drops the room from the registry.
func (m *Manager) destroyRoomLocked(r *Room) {
	r.Stop()

	r.mu.Lock()
	remaining := r.memberIDs()
	r.members = nil
	r.mu.Unlock()

	for _, id := range remaining {
		member, ok := m.players[id]
		if !ok {
			continue
		}
		member.room = nil
		if member.AI {
			delete(m.players, id)
			continue
		}
		m.send(id, protocol.MsgLeftGame, nil)
	}

	delete(m.rooms, r.ID)
	m.log.Info("game destroyed", "game", r.ID)
}

func (m *Manager) handleStartGame(p *Player) {
	r := p.room
	if r == nil {
		return
	}
	if r.HostID != p.ID {
		m.sendError(p.ID, "Only host can start the game")
		return
	}

	r.mu.Lock()
	if r.phase() != game.PhaseLobby {
		r.mu.Unlock()
		return
	}
	players := make([]game.Player, 0, len(r.members))
	for _, mb := range r.members {
		entry, ok := m.players[mb.playerID]
		if !ok || entry.Name == "" {
			continue
		}
		players = append(players, game.Player{
			ID:        mb.playerID,
			Name:      entry.Name,
			FactionID: mb.factionID,
			AI:        mb.ai,
		})
	}
	if len(players) == 0 {
		r.mu.Unlock()
		return
	}
	r.start(players, time.Now())
	r.mu.Unlock()

	m.broadcastToRoom(r, protocol.MsgGameStarted, nil)
	go r.run()
	m.pushGameListLocked()
	m.log.Info("game started", "game", r.ID, "players", len(players))
}

func (m *Manager) handlePlaceUnits(p *Player, coords game.Hex) {
	r := p.room
	if r == nil {
		return
	}

	r.mu.Lock()
	factionID, ok := r.factionOf(p.ID)
	if !ok {
		r.mu.Unlock()
		return
	}
	w := r.wallets[p.ID]
	var err error
	if w == nil {
		err = errNotPlaying
	} else {
		err = r.place(factionID, w, coords, time.Now())
	}
	var update protocol.WalletUpdate
	if err == nil {
		update, _ = r.walletUpdateLocked(p.ID)
	}
	r.mu.Unlock()

	switch err {
	case nil:
		m.send(p.ID, protocol.MsgWalletUpdate, update)
	case errNotPlaying:
		// acting before the game starts is a silent no-op
	case errPlacementRule:
		m.sendError(p.ID, "Cannot place units there")
	case errNoTerritory:
		m.sendError(p.ID, "No such territory")
	case errNotEnoughMoney:
		m.sendError(p.ID, "Not enough money")
	}
}

func (m *Manager) handleAddAI(p *Player) {
	r := p.room
	if r == nil {
		return
	}
	r.mu.Lock()
	phase := r.phase()
	count := len(r.members)
	r.mu.Unlock()
	if phase != game.PhaseLobby {
		m.sendError(p.ID, "Game already in progress")
		return
	}
	if count >= game.MaxPlayers {
		m.sendError(p.ID, "Game is full")
		return
	}

	m.aiCounter++
	bot := &Player{
		ID:   uuid.NewString(),
		Name: fmt.Sprintf("Bot %d", m.aiCounter),
		AI:   true,
		room: r,
	}
	m.players[bot.ID] = bot
	r.join(bot.ID, true)

	m.lobbyUpdateLocked(r)
	m.pushGameListLocked()
	m.log.Info("ai added", "game", r.ID, "bot", bot.Name)
}

func (m *Manager) handleTrade(p *Player, companyID string, buy bool) {
	r := p.room
	if r == nil {
		return
	}

	r.mu.Lock()
	var err error
	var update protocol.WalletUpdate
	w := r.wallets[p.ID]
	c, ok := r.companyByID(companyID)
	switch {
	case r.phase() != game.PhasePlaying || w == nil:
		err = errNotPlaying
	case !ok:
		err = errNoCompany
	case buy:
		if w.Buy(c) == 0 {
			err = errNotEnoughMoney
		}
	default:
		if w.Sell(c) == 0 {
			err = errNothingToSell
		}
	}
	if err == nil {
		update, _ = r.walletUpdateLocked(p.ID)
	}
	r.mu.Unlock()

	switch err {
	case nil:
		m.send(p.ID, protocol.MsgWalletUpdate, update)
	case errNotPlaying:
		// no-op
	case errNoCompany:
		m.sendError(p.ID, "No such company")
	case errNotEnoughMoney:
		m.sendError(p.ID, "Not enough money")
	case errNothingToSell:
		m.sendError(p.ID, "Nothing to sell")
	}
}

func (m *Manager) handleUpgradeBulk(p *Player) {
	r := p.room
	if r == nil {
		return
	}

	r.mu.Lock()
	var err error
	var update protocol.WalletUpdate
	w := r.wallets[p.ID]
	if r.phase() != game.PhasePlaying || w == nil {
		err = errNotPlaying
	} else if !w.UpgradeBulk() {
		err = errNotEnoughMoney
	}
	if err == nil {
		update, _ = r.walletUpdateLocked(p.ID)
	}
	r.mu.Unlock()

	switch err {
	case nil:
		m.send(p.ID, protocol.MsgWalletUpdate, update)
	case errNotEnoughMoney:
		m.sendError(p.ID, "Not enough money")
	}
}

// roomEnded runs on a room's tick goroutine after a win. The terminal
// snapshot is already out; refresh the joinable-games view.
func (m *Manager) roomEnded(r *Room) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pushGameListLocked()
	m.log.Info("game ended", "game", r.ID)
}

// gameListLocked enumerates the room registry on demand; rooms of every
// phase are included, tagged, so clients can filter to joinable ones.
func (m *Manager) gameListLocked() protocol.GameList {
	list := protocol.GameList{Games: make([]protocol.GameInfo, 0, len(m.rooms))}
	for id, r := range m.rooms {
		r.mu.Lock()
		phase := r.phase()
		memberIDs := r.memberIDs()
		r.mu.Unlock()

		hostName := "Unknown"
		if host, ok := m.players[r.HostID]; ok && host.Name != "" {
			hostName = host.Name
		}
		names := make([]string, 0, len(memberIDs))
		for _, pid := range memberIDs {
			if p, ok := m.players[pid]; ok && p.Name != "" {
				names = append(names, p.Name)
			}
		}
		list.Games = append(list.Games, protocol.GameInfo{
			ID:          id,
			HostName:    hostName,
			PlayerCount: len(memberIDs),
			MaxPlayers:  game.MaxPlayers,
			Phase:       string(phase),
			Players:     names,
		})
	}
	return list
}

// pushGameListLocked refreshes the lobby browser for everyone not in a room.
func (m *Manager) pushGameListLocked() {
	data, err := protocol.Encode(protocol.MsgGameList, m.gameListLocked())
	if err != nil {
		return
	}
	for _, p := range m.players {
		if p.room == nil && !p.AI {
			m.transport.Send(p.ID, data)
		}
	}
}

func (m *Manager) lobbyUpdateLocked(r *Room) {
	r.mu.Lock()
	members := make([]member, len(r.members))
	copy(members, r.members)
	r.mu.Unlock()

	players := make([]protocol.PlayerInfo, 0, len(members))
	for _, mb := range members {
		p, ok := m.players[mb.playerID]
		if !ok {
			continue
		}
		players = append(players, protocol.PlayerInfo{
			ID:        p.ID,
			Name:      p.Name,
			FactionID: mb.factionID,
			AI:        p.AI,
			Money:     game.InitialMoney,
		})
	}
	m.broadcastToRoom(r, protocol.MsgLobbyUpdate, protocol.LobbyUpdate{Players: players})
}

func (m *Manager) broadcastToRoom(r *Room, msgType string, payload any) {
	data, err := protocol.Encode(msgType, payload)
	if err != nil {
		return
	}
	r.mu.Lock()
	ids := r.memberIDs()
	r.mu.Unlock()
	m.transport.BroadcastToGame(ids, data)
}

func (m *Manager) send(playerID, msgType string, payload any) {
	data, err := protocol.Encode(msgType, payload)
	if err != nil {
		return
	}
	m.transport.Send(playerID, data)
}

func (m *Manager) sendError(playerID, message string) {
	m.send(playerID, protocol.MsgError, protocol.Error{Message: message})
}

const codeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// newRoomID generates an unused 6-char room code. Caller holds m.mu.
func (m *Manager) newRoomID() string {
	for {
		code := generateCode(6)
		if _, exists := m.rooms[code]; !exists {
			return code
		}
	}
}

func generateCode(n int) string {
	b := make([]byte, n)
	max := big.NewInt(int64(len(codeChars)))
	for i := range b {
		idx, _ := rand.Int(rand.Reader, max)
		b[i] = codeChars[idx.Int64()]
	}
	return string(b)
}
