package room

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hexfront/game"
	"hexfront/protocol"
)

// newTestRoom builds a started two-player match without going through the
// Manager, so ticks can be driven by hand.
func newTestRoom(t *testing.T, secondIsAI bool) (*Room, *fakeTransport, time.Time) {
	t.Helper()
	ft := newFakeTransport()
	r := newRoom("TEST42", "p1", Config{TickInterval: time.Hour, MapRadius: 2}, ft)

	f0 := r.join("p1", false)
	f1 := r.join("p2", secondIsAI)

	now := time.Now()
	players := []game.Player{
		{ID: "p1", Name: "Ada", FactionID: f0},
		{ID: "p2", Name: "Bob", FactionID: f1, AI: secondIsAI},
	}
	r.mu.Lock()
	r.start(players, now)
	r.mu.Unlock()
	return r, ft, now
}

// quiet pushes every battle timer far out so a tick resolves nothing.
func quiet(r *Room, now time.Time) {
	r.mu.Lock()
	for i := range r.state.Countries {
		r.state.Countries[i].NextBattleTime = now.Add(time.Hour)
	}
	for i := range r.state.Companies {
		r.state.Companies[i].NextUpdateTime = now.Add(time.Hour)
	}
	r.mu.Unlock()
}

func TestAdvanceBeforeStartDoesNothing(t *testing.T) {
	ft := newFakeTransport()
	r := newRoom("TEST42", "p1", Config{TickInterval: time.Hour, MapRadius: 2}, ft)
	r.join("p1", false)

	assert.False(t, r.advance(time.Now()))
	_, got := ft.last("p1", protocol.MsgGameState)
	assert.False(t, got, "no snapshot before the game starts")
}

func TestAdvanceBroadcastsSnapshot(t *testing.T) {
	r, ft, now := newTestRoom(t, false)
	quiet(r, now)

	require.False(t, r.advance(now))

	for _, id := range []string{"p1", "p2"} {
		env, ok := ft.last(id, protocol.MsgGameState)
		require.True(t, ok, "snapshot for %s", id)
		gs := payload[protocol.GameState](t, env)
		assert.Equal(t, string(game.PhasePlaying), gs.Phase)
		assert.Len(t, gs.Countries, 19)
		assert.Len(t, gs.Companies, game.StockCount)
		assert.Equal(t, game.BaseUnitCost+2*game.StartingUnits*game.UnitCostIncrease, gs.UnitCost)
		assert.Nil(t, gs.Winner)
		require.Len(t, gs.Players, 2)
		assert.Equal(t, game.InitialMoney, gs.Players[0].Money)
	}
}

func TestAdvanceReschedulesDueBattles(t *testing.T) {
	r, _, now := newTestRoom(t, false)
	quiet(r, now)

	r.mu.Lock()
	r.state.Countries[0].Units = map[string]int{"faction0": 40, "faction1": 35}
	r.state.Countries[0].NextBattleTime = now.Add(-time.Second)
	r.mu.Unlock()

	r.advance(now)

	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.state.Countries[0]
	assert.True(t, c.NextBattleTime.After(now), "due battle must be resampled")
	assert.LessOrEqual(t, game.TotalUnits(c), 75, "battles never create units")
}

func TestAdvanceUpdatesDueStocks(t *testing.T) {
	r, _, now := newTestRoom(t, false)
	quiet(r, now)

	r.mu.Lock()
	r.state.Companies[0].NextUpdateTime = now.Add(-time.Second)
	oldPrice := r.state.Companies[0].Price
	r.mu.Unlock()

	r.advance(now)

	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.state.Companies[0]
	assert.Equal(t, oldPrice, c.PreviousPrice)
	assert.True(t, c.NextUpdateTime.After(now))
}

func TestAdvanceDeclaresWinner(t *testing.T) {
	r, ft, now := newTestRoom(t, false)
	quiet(r, now)

	r.mu.Lock()
	for i := range r.state.Countries {
		r.state.Countries[i].Units = map[string]int{game.NeutralFactionID: 5}
	}
	r.state.Countries[0].Units = map[string]int{"faction0": 3}
	r.mu.Unlock()

	assert.True(t, r.advance(now), "tick that leaves one faction ends the game")

	r.mu.Lock()
	assert.Equal(t, game.PhaseEnded, r.state.Phase)
	require.NotNil(t, r.state.Winner)
	assert.Equal(t, "faction0", r.state.Winner.ID)
	r.mu.Unlock()

	env, ok := ft.last("p1", protocol.MsgGameState)
	require.True(t, ok)
	gs := payload[protocol.GameState](t, env)
	require.NotNil(t, gs.Winner)
	assert.Equal(t, "Ada", gs.Winner.Name)

	// an ended game never ticks again
	snapshots := ft.count("p1", protocol.MsgGameState)
	assert.False(t, r.advance(now.Add(time.Second)))
	assert.Equal(t, snapshots, ft.count("p1", protocol.MsgGameState))
}

func TestAIReinforcesWhenDue(t *testing.T) {
	r, _, now := newTestRoom(t, true)
	quiet(r, now)

	r.mu.Lock()
	r.wallets["p2"].Money = 1000
	r.nextAIAction["p2"] = now.Add(-time.Second)
	r.mu.Unlock()

	r.advance(now)

	r.mu.Lock()
	defer r.mu.Unlock()
	total := 0
	for _, c := range r.state.Countries {
		total += c.Units["faction1"]
	}
	assert.Equal(t, game.StartingUnits+1, total, "bot placed exactly one unit")
	assert.Less(t, r.wallets["p2"].Money, 1000)
	assert.True(t, r.nextAIAction["p2"].After(now), "bot action rescheduled")
}

func TestAIWaitsBetweenActions(t *testing.T) {
	r, _, now := newTestRoom(t, true)
	quiet(r, now)

	r.mu.Lock()
	r.wallets["p2"].Money = 1000
	r.nextAIAction["p2"] = now.Add(time.Minute)
	r.mu.Unlock()

	r.advance(now)

	r.mu.Lock()
	defer r.mu.Unlock()
	total := 0
	for _, c := range r.state.Countries {
		total += c.Units["faction1"]
	}
	assert.Equal(t, game.StartingUnits, total)
}

func TestStopShutsDownTickLoop(t *testing.T) {
	r, _, _ := newTestRoom(t, false)

	done := make(chan struct{})
	go func() {
		r.run()
		close(done)
	}()

	r.Stop()
	r.Stop() // idempotent

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("tick loop did not exit after Stop")
	}
}
