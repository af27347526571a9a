package game

// Wallet is a player's room-scoped economy: cash, per-company holdings, and
// the bulk multiplier applied to every trade. Held and validated by the
// session engine, never by the client.
type Wallet struct {
	Money    int
	Holdings map[string]int
	Bulk     int
}

func NewWallet() *Wallet {
	return &Wallet{
		Money:    InitialMoney,
		Holdings: make(map[string]int),
		Bulk:     InitialBulk,
	}
}

// Spend deducts the amount if covered and reports whether it was.
func (w *Wallet) Spend(amount int) bool {
	if w.Money < amount {
		return false
	}
	w.Money -= amount
	return true
}

// Buy purchases one bulk lot of the company at its current price. Returns
// the quantity bought, zero when the wallet cannot cover it.
func (w *Wallet) Buy(c Company) int {
	qty := w.Bulk
	cost := c.Price * qty
	if !w.Spend(cost) {
		return 0
	}
	w.Holdings[c.ID] += qty
	return qty
}

// Sell liquidates up to one bulk lot of existing holdings. Returns the
// quantity sold, zero when nothing is held.
func (w *Wallet) Sell(c Company) int {
	qty := w.Holdings[c.ID]
	if qty > w.Bulk {
		qty = w.Bulk
	}
	if qty <= 0 {
		return 0
	}
	w.Holdings[c.ID] -= qty
	if w.Holdings[c.ID] == 0 {
		delete(w.Holdings, c.ID)
	}
	w.Money += c.Price * qty
	return qty
}

// UpgradeBulk raises the bulk multiplier by one level if affordable.
func (w *Wallet) UpgradeBulk() bool {
	if !w.Spend(BulkUpgradeCost(w.Bulk)) {
		return false
	}
	w.Bulk++
	return true
}
