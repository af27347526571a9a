package game

import (
	"fmt"
	"math"
	"time"
)

// NewCompanies builds the instrument set for a room: a random selection from
// the name pool, each with a random starting price and its own update
// schedule.
func NewCompanies(count int, now time.Time, rng Rand) []Company {
	names := make([]string, len(companyNames))
	copy(names, companyNames)
	for i := len(names) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		names[i], names[j] = names[j], names[i]
	}
	if count > len(names) {
		count = len(names)
	}

	companies := make([]Company, count)
	for i := 0; i < count; i++ {
		companies[i] = Company{
			ID:             fmt.Sprintf("company%d", i),
			Name:           names[i],
			Price:          StockMinPrice + rng.Intn(StockMaxPrice-StockMinPrice+1),
			PreviousPrice:  StockMeanTarget,
			NextUpdateTime: now.Add(stockInterval(rng)),
		}
	}
	return companies
}

// UpdateStockPrice advances the company one price step: a Gaussian shock
// scaled by volatility plus a pull back toward the mean target, clamped to
// the price band. The pre-update price is kept for trend display.
func UpdateStockPrice(c Company, now time.Time, rng Rand) Company {
	out := c
	out.PreviousPrice = c.Price

	change := math.Round(gaussian(rng) * StockVolatility)
	reversion := float64(StockMeanTarget-c.Price) * StockMeanReversion

	price := int(math.Round(float64(c.Price) + change + reversion))
	if price < StockMinPrice {
		price = StockMinPrice
	}
	if price > StockMaxPrice {
		price = StockMaxPrice
	}

	out.Price = price
	out.NextUpdateTime = now.Add(stockInterval(rng))
	return out
}

// gaussian draws a standard normal via the Box-Muller transform.
func gaussian(rng Rand) float64 {
	var u, v float64
	for u == 0 {
		u = rng.Float64()
	}
	for v == 0 {
		v = rng.Float64()
	}
	return math.Sqrt(-2*math.Log(u)) * math.Cos(2*math.Pi*v)
}

func stockInterval(rng Rand) time.Duration {
	return StockUpdateMin + time.Duration(rng.Float64()*float64(StockUpdateMax-StockUpdateMin))
}

// BulkUpgradeCost is the price of raising the bulk trade multiplier from its
// current value: doubles with every level.
func BulkUpgradeCost(currentBulk int) int {
	cost := BulkUpgradeBaseCost
	for i := 1; i < currentBulk; i++ {
		cost *= BulkUpgradeMultiplier
	}
	return cost
}
