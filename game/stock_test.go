package game

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCompanies(t *testing.T) {
	now := time.Now()
	rng := rand.New(rand.NewSource(7))

	companies := NewCompanies(StockCount, now, rng)
	require.Len(t, companies, StockCount)

	names := make(map[string]bool)
	for i, c := range companies {
		assert.Equal(t, fmt.Sprintf("company%d", i), c.ID)
		assert.False(t, names[c.Name], "duplicate name %q", c.Name)
		names[c.Name] = true
		assert.GreaterOrEqual(t, c.Price, StockMinPrice)
		assert.LessOrEqual(t, c.Price, StockMaxPrice)
		assert.Equal(t, StockMeanTarget, c.PreviousPrice)
		assert.True(t, c.NextUpdateTime.After(now))
	}
}

func TestUpdateStockPriceStaysInBand(t *testing.T) {
	now := time.Now()
	rng := rand.New(rand.NewSource(42))

	c := Company{ID: "company0", Name: "Void Mining Corp", Price: StockMeanTarget}
	for i := 0; i < 500; i++ {
		prev := c.Price
		c = UpdateStockPrice(c, now, rng)
		assert.GreaterOrEqual(t, c.Price, StockMinPrice)
		assert.LessOrEqual(t, c.Price, StockMaxPrice)
		assert.Equal(t, prev, c.PreviousPrice)
		assert.True(t, c.NextUpdateTime.After(now.Add(StockUpdateMin-time.Millisecond)))
		assert.False(t, c.NextUpdateTime.After(now.Add(StockUpdateMax)))
	}
}

func TestUpdateStockPriceMeanReverts(t *testing.T) {
	// With the Gaussian shock pinned near zero the reversion pull dominates,
	// so an extreme price must step back toward the target.
	now := time.Now()

	high := Company{ID: "c", Price: StockMaxPrice}
	high = UpdateStockPrice(high, now, stubRand{f: 0.99})
	assert.Less(t, high.Price, StockMaxPrice)

	low := Company{ID: "c", Price: StockMinPrice}
	low = UpdateStockPrice(low, now, stubRand{f: 0.99})
	assert.Greater(t, low.Price, StockMinPrice)
}

func TestBulkUpgradeCostDoubles(t *testing.T) {
	assert.Equal(t, BulkUpgradeBaseCost, BulkUpgradeCost(1))
	assert.Equal(t, 2*BulkUpgradeBaseCost, BulkUpgradeCost(2))
	assert.Equal(t, 4*BulkUpgradeBaseCost, BulkUpgradeCost(3))
}

func TestWalletBuySell(t *testing.T) {
	w := NewWallet()
	c := Company{ID: "company0", Price: 40}

	require.Equal(t, 1, w.Buy(c))
	assert.Equal(t, InitialMoney-40, w.Money)
	assert.Equal(t, 1, w.Holdings["company0"])

	c.Price = 60
	require.Equal(t, 1, w.Sell(c))
	assert.Equal(t, InitialMoney+20, w.Money)
	assert.NotContains(t, w.Holdings, "company0")

	assert.Zero(t, w.Sell(c), "nothing left to sell")
}

func TestWalletBuyRejectsWhenBroke(t *testing.T) {
	w := NewWallet()
	c := Company{ID: "company0", Price: InitialMoney + 1}
	assert.Zero(t, w.Buy(c))
	assert.Equal(t, InitialMoney, w.Money)
	assert.Empty(t, w.Holdings)
}

func TestWalletBulkUpgrade(t *testing.T) {
	w := NewWallet()
	w.Money = BulkUpgradeBaseCost

	require.True(t, w.UpgradeBulk())
	assert.Equal(t, 2, w.Bulk)
	assert.Zero(t, w.Money)

	assert.False(t, w.UpgradeBulk(), "cannot afford the next level")
	assert.Equal(t, 2, w.Bulk)
}

func TestWalletBulkAppliesToTrades(t *testing.T) {
	w := NewWallet()
	w.Money = 1000
	w.Bulk = 3
	c := Company{ID: "company1", Price: 10}

	require.Equal(t, 3, w.Buy(c))
	assert.Equal(t, 970, w.Money)
	assert.Equal(t, 3, w.Holdings["company1"])

	w.Holdings["company1"] = 2
	assert.Equal(t, 2, w.Sell(c), "sells at most what is held")
}
