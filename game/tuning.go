package game

import "time"

const (
	MapRadius  = 4
	MaxPlayers = 6

	StartingUnits   = 10
	NeutralUnitsMin = 3
	NeutralUnitsMax = 8

	BaseUnitCost     = 10
	UnitCostIncrease = 1

	// A faction may expand into a territory only from a neighbor where its
	// units strictly exceed this multiple of everyone else's there.
	ExpansionThreshold = 2

	BattleCasualtyMin    = 0.2
	BattleCasualtyMax    = 0.5
	AdvantagePerNeighbor = 0.05
	MaxAdvantage         = 0.25

	BattleMinInterval    = 3 * time.Second
	BattleMaxInterval    = 8 * time.Second
	PlacementGracePeriod = 5 * time.Second

	StockCount         = 5
	StockMinPrice      = 10
	StockMaxPrice      = 200
	StockMeanTarget    = 100
	StockVolatility    = 8.0
	StockMeanReversion = 0.1
	StockUpdateMin     = 2 * time.Second
	StockUpdateMax     = 6 * time.Second

	InitialMoney          = 100
	InitialBulk           = 1
	BulkUpgradeBaseCost   = 50
	BulkUpgradeMultiplier = 2
)
