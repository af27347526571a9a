package room

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"hexfront/game"
	"hexfront/protocol"
)

var (
	errNotPlaying     = errors.New("no battle in progress")
	errNoTerritory    = errors.New("no such territory")
	errPlacementRule  = errors.New("cannot place units there")
	errNotEnoughMoney = errors.New("not enough money")
	errNoCompany      = errors.New("no such company")
	errNothingToSell  = errors.New("nothing to sell")
)

// Room is one isolated match: its own members, territories, instruments,
// wallets, and tick loop. All fields behind mu are owned by whoever holds
// it; the tick goroutine and the Manager never touch them otherwise.
// Lock order is always Manager.mu before Room.mu.
type Room struct {
	ID     string
	HostID string

	// OnEnded fires once, from the tick goroutine, after a win ends the
	// game and the terminal snapshot has been broadcast.
	OnEnded func(*Room)

	mu             sync.Mutex
	members        []member
	factionCounter int
	state          *game.State
	wallets        map[string]*game.Wallet
	nextAIAction   map[string]time.Time

	transport Transport
	rng       *rand.Rand
	tick      time.Duration
	mapRadius int
	quit      chan struct{}
	stopOnce  sync.Once
}

type member struct {
	playerID  string
	factionID string
	ai        bool
}

func newRoom(id, hostID string, cfg Config, t Transport) *Room {
	return &Room{
		ID:        id,
		HostID:    hostID,
		transport: t,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		tick:      cfg.TickInterval,
		mapRadius: cfg.MapRadius,
		quit:      make(chan struct{}),
	}
}

// Stop permanently halts the tick loop. Safe to call more than once and
// concurrently with a firing tick.
func (r *Room) Stop() {
	r.stopOnce.Do(func() { close(r.quit) })
}

// join adds a player and mints the next faction id in join order.
// Caller holds Manager.mu.
func (r *Room) join(playerID string, ai bool) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	factionID := fmt.Sprintf("faction%d", r.factionCounter)
	r.factionCounter++
	r.members = append(r.members, member{playerID: playerID, factionID: factionID, ai: ai})
	return factionID
}

func (r *Room) factionOf(playerID string) (string, bool) {
	for _, mb := range r.members {
		if mb.playerID == playerID {
			return mb.factionID, true
		}
	}
	return "", false
}

func (r *Room) memberIDs() []string {
	ids := make([]string, len(r.members))
	for i, mb := range r.members {
		ids[i] = mb.playerID
	}
	return ids
}

func (r *Room) phase() game.Phase {
	if r.state == nil {
		return game.PhaseLobby
	}
	return r.state.Phase
}

// removeMember drops the player from membership. Mid-game, the departing
// faction's units transfer to neutral at every territory (total unit count
// is conserved) and the unit cost is recomputed. Caller holds r.mu.
func (r *Room) removeMember(playerID string) {
	factionID := ""
	for i, mb := range r.members {
		if mb.playerID == playerID {
			factionID = mb.factionID
			r.members = append(r.members[:i], r.members[i+1:]...)
			break
		}
	}
	if factionID == "" || r.state == nil || r.state.Phase != game.PhasePlaying {
		return
	}
	for i := range r.state.Countries {
		units := r.state.Countries[i].Units
		if n := units[factionID]; n > 0 {
			delete(units, factionID)
			units[game.NeutralFactionID] += n
		}
	}
	r.state.UnitCost = game.UnitCost(r.state.Countries)
}

// humanCount reports members that are not automated players. A room kept
// alive only by its own bots is an empty room.
func (r *Room) humanCount() int {
	n := 0
	for _, mb := range r.members {
		if !mb.ai {
			n++
		}
	}
	return n
}

// startingPositions are the six symmetric anchor cells players seed from,
// assigned in join order.
func startingPositions(radius int) []game.Hex {
	return []game.Hex{
		{Q: radius, R: 0},
		{Q: -radius, R: 0},
		{Q: 0, R: radius},
		{Q: 0, R: -radius},
		{Q: radius, R: -radius},
		{Q: -radius, R: radius},
	}
}

// start builds the initial simulation state and moves the room to playing.
// Caller holds r.mu.
func (r *Room) start(players []game.Player, now time.Time) {
	factions := make([]game.Faction, 0, len(players)+1)
	factions = append(factions, game.Faction{ID: game.NeutralFactionID, Name: "Neutral"})
	for _, p := range players {
		factions = append(factions, game.Faction{ID: p.FactionID, Name: p.Name})
	}

	anchors := startingPositions(r.mapRadius)
	countries := make([]game.Country, 0, 1+3*r.mapRadius*(r.mapRadius+1))
	for _, coords := range game.GenerateGrid(r.mapRadius) {
		units := make(map[string]int, 1)
		seeded := false
		for i, anchor := range anchors {
			if anchor == coords && i < len(players) {
				units[players[i].FactionID] = game.StartingUnits
				seeded = true
				break
			}
		}
		if !seeded {
			units[game.NeutralFactionID] = game.NeutralUnitsMin + r.rng.Intn(game.NeutralUnitsMax-game.NeutralUnitsMin)
		}
		countries = append(countries, game.Country{
			Coords: coords,
			Units:  units,
			// stagger first battles so combat does not start in lockstep
			NextBattleTime: now.Add(time.Duration(r.rng.Float64() * float64(game.BattleMaxInterval))),
		})
	}

	r.wallets = make(map[string]*game.Wallet, len(r.members))
	r.nextAIAction = make(map[string]time.Time)
	for _, mb := range r.members {
		r.wallets[mb.playerID] = game.NewWallet()
		if mb.ai {
			r.nextAIAction[mb.playerID] = now.Add(aiActInterval)
		}
	}

	r.state = &game.State{
		Phase:     game.PhasePlaying,
		Countries: countries,
		Companies: game.NewCompanies(game.StockCount, now, r.rng),
		Factions:  factions,
		Players:   players,
		UnitCost:  game.UnitCost(countries),
	}
}

// run is the room's tick loop. It exits when the room is stopped or the
// game ends; the ticker can never fire again after either.
func (r *Room) run() {
	ticker := time.NewTicker(r.tick)
	defer ticker.Stop()
	for {
		select {
		case <-r.quit:
			return
		case <-ticker.C:
			if r.advance(time.Now()) {
				if r.OnEnded != nil {
					r.OnEnded(r)
				}
				return
			}
		}
	}
}

// advance executes one simulation tick and broadcasts the full snapshot.
// Returns true when the tick ended the game.
func (r *Room) advance(now time.Time) bool {
	r.mu.Lock()
	if r.state == nil || r.state.Phase != game.PhasePlaying {
		r.mu.Unlock()
		return false
	}

	countries := r.state.Countries
	for i := range countries {
		if !now.Before(countries[i].NextBattleTime) {
			countries[i] = game.ResolveBattle(countries[i], countries, now, r.rng)
		}
	}
	for i := range r.state.Companies {
		if !now.Before(r.state.Companies[i].NextUpdateTime) {
			r.state.Companies[i] = game.UpdateStockPrice(r.state.Companies[i], now, r.rng)
		}
	}

	r.aiStep(now)

	r.state.UnitCost = game.UnitCost(countries)

	ended := false
	if w := game.CheckWinner(countries, r.state.Factions); w != nil {
		r.state.Winner = w
		r.state.Phase = game.PhaseEnded
		ended = true
	}

	data, ids := r.snapshotLocked()
	r.mu.Unlock()

	if data != nil {
		r.transport.BroadcastToGame(ids, data)
	}
	return ended
}

// place validates and applies one unit placement for the faction, charging
// the current unit cost to the wallet. Every successful placement resets
// the territory's battle timer to the grace period. Caller holds r.mu.
func (r *Room) place(factionID string, w *game.Wallet, coords game.Hex, now time.Time) error {
	if r.state == nil || r.state.Phase != game.PhasePlaying {
		return errNotPlaying
	}
	idx := -1
	for i := range r.state.Countries {
		if r.state.Countries[i].Coords == coords {
			idx = i
			break
		}
	}
	if idx == -1 {
		return errNoTerritory
	}
	if !game.CanPlaceUnits(r.state.Countries[idx], r.state.Countries, factionID) {
		return errPlacementRule
	}
	if !w.Spend(r.state.UnitCost) {
		return errNotEnoughMoney
	}
	c := &r.state.Countries[idx]
	c.Units[factionID]++
	c.NextBattleTime = now.Add(game.PlacementGracePeriod)
	r.state.UnitCost = game.UnitCost(r.state.Countries)
	return nil
}

func (r *Room) companyByID(id string) (game.Company, bool) {
	if r.state == nil {
		return game.Company{}, false
	}
	for _, c := range r.state.Companies {
		if c.ID == id {
			return c, true
		}
	}
	return game.Company{}, false
}

// snapshotLocked encodes the full room state and returns it with the
// current member ids. Caller holds r.mu.
func (r *Room) snapshotLocked() ([]byte, []string) {
	st := r.state
	gs := protocol.GameState{
		Phase:     string(st.Phase),
		Countries: make([]protocol.CountrySnapshot, len(st.Countries)),
		Companies: make([]protocol.CompanySnapshot, len(st.Companies)),
		Factions:  make([]protocol.FactionInfo, len(st.Factions)),
		Players:   make([]protocol.PlayerInfo, len(st.Players)),
		UnitCost:  st.UnitCost,
	}
	for i, c := range st.Countries {
		units := make(map[string]int, len(c.Units))
		for id, n := range c.Units {
			units[id] = n
		}
		gs.Countries[i] = protocol.CountrySnapshot{
			Coords:         c.Coords,
			Units:          units,
			NextBattleTime: protocol.Millis(c.NextBattleTime),
		}
	}
	for i, c := range st.Companies {
		gs.Companies[i] = protocol.CompanySnapshot{
			ID:             c.ID,
			Name:           c.Name,
			Price:          c.Price,
			PreviousPrice:  c.PreviousPrice,
			NextUpdateTime: protocol.Millis(c.NextUpdateTime),
		}
	}
	for i, f := range st.Factions {
		gs.Factions[i] = protocol.FactionInfo{ID: f.ID, Name: f.Name}
	}
	for i, p := range st.Players {
		money := 0
		if w, ok := r.wallets[p.ID]; ok {
			money = w.Money
		}
		gs.Players[i] = protocol.PlayerInfo{
			ID:        p.ID,
			Name:      p.Name,
			FactionID: p.FactionID,
			AI:        p.AI,
			Money:     money,
		}
	}
	if st.Winner != nil {
		gs.Winner = &protocol.FactionInfo{ID: st.Winner.ID, Name: st.Winner.Name}
	}

	data, err := protocol.Encode(protocol.MsgGameState, gs)
	if err != nil {
		return nil, nil
	}
	return data, r.memberIDs()
}

// walletUpdateLocked builds the private wallet view for one player.
// Caller holds r.mu.
func (r *Room) walletUpdateLocked(playerID string) (protocol.WalletUpdate, bool) {
	w, ok := r.wallets[playerID]
	if !ok {
		return protocol.WalletUpdate{}, false
	}
	holdings := make(map[string]int, len(w.Holdings))
	for id, n := range w.Holdings {
		holdings[id] = n
	}
	return protocol.WalletUpdate{Money: w.Money, Holdings: holdings, Bulk: w.Bulk}, true
}
