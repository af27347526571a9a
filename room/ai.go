package room

import (
	"time"

	"hexfront/game"
)

// Automated players act through the same validated operations as humans:
// the placement below goes through Room.place with a real wallet, so every
// rule (expansion threshold, unit cost, grace period) applies unchanged.
// The policy itself is deliberately naive.

const aiActInterval = 2 * time.Second

// aiStep runs due AI actions for this tick. Caller holds r.mu.
func (r *Room) aiStep(now time.Time) {
	for _, mb := range r.members {
		if !mb.ai {
			continue
		}
		if now.Before(r.nextAIAction[mb.playerID]) {
			continue
		}
		jitter := time.Duration(r.rng.Float64() * float64(time.Second))
		r.nextAIAction[mb.playerID] = now.Add(aiActInterval + jitter)

		if w, ok := r.wallets[mb.playerID]; ok {
			r.aiAct(mb, w, now)
		}
	}
}

func (r *Room) aiAct(mb member, w *game.Wallet, now time.Time) {
	// Take profits on anything trading above the mean, and buy the
	// cheapest instrument when cash-rich.
	for _, c := range r.state.Companies {
		if w.Holdings[c.ID] > 0 && c.Price > game.StockMeanTarget {
			w.Sell(c)
		}
	}
	if cheapest := r.cheapestCompany(); cheapest != nil &&
		cheapest.Price < game.StockMeanTarget &&
		w.Money > 3*r.state.UnitCost+cheapest.Price*w.Bulk {
		w.Buy(*cheapest)
	}

	if w.Money < r.state.UnitCost {
		return
	}

	// Reinforce or expand on a random legal territory, preferring contested
	// ones where the faction is already fighting.
	var contested, legal []int
	for i := range r.state.Countries {
		c := r.state.Countries[i]
		if !game.CanPlaceUnits(c, r.state.Countries, mb.factionID) {
			continue
		}
		legal = append(legal, i)
		if c.Units[mb.factionID] > 0 && len(c.Units) > 1 {
			contested = append(contested, i)
		}
	}
	pool := legal
	if len(contested) > 0 {
		pool = contested
	}
	if len(pool) == 0 {
		return
	}
	target := r.state.Countries[pool[r.rng.Intn(len(pool))]]
	_ = r.place(mb.factionID, w, target.Coords, now)
}

func (r *Room) cheapestCompany() *game.Company {
	var best *game.Company
	for i := range r.state.Companies {
		if best == nil || r.state.Companies[i].Price < best.Price {
			best = &r.state.Companies[i]
		}
	}
	return best
}
