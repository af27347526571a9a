package game

import "time"

// Rand is the randomness seam for the simulation. *math/rand.Rand satisfies
// it; tests substitute fixed rolls.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// Owner returns the faction with the strictly largest unit count in the
// territory. Ties, and territories with no units, resolve to neutral:
// ownership requires strict local majority.
func Owner(c Country) string {
	owner := NeutralFactionID
	maxUnits := 0
	tied := false
	for factionID, units := range c.Units {
		switch {
		case units > maxUnits:
			maxUnits = units
			owner = factionID
			tied = false
		case units == maxUnits && units > 0:
			tied = true
		}
	}
	if tied {
		return NeutralFactionID
	}
	return owner
}

func TotalUnits(c Country) int {
	total := 0
	for _, n := range c.Units {
		total += n
	}
	return total
}

// NonNeutralUnits sums every player faction's units across the whole map.
func NonNeutralUnits(countries []Country) int {
	total := 0
	for _, c := range countries {
		for factionID, n := range c.Units {
			if factionID != NeutralFactionID {
				total += n
			}
		}
	}
	return total
}

// UnitCost escalates with total deployed forces so that large armies get
// progressively more expensive to reinforce.
func UnitCost(countries []Country) int {
	return BaseUnitCost + NonNeutralUnits(countries)*UnitCostIncrease
}

// CountryIndex keys the territory list by hex coordinate.
func CountryIndex(countries []Country) map[string]*Country {
	idx := make(map[string]*Country, len(countries))
	for i := range countries {
		idx[countries[i].Coords.Key()] = &countries[i]
	}
	return idx
}

// ControlledNeighbors counts adjacent territories owned by the faction.
func ControlledNeighbors(c Country, countries []Country, factionID string) int {
	idx := CountryIndex(countries)
	controlled := 0
	for _, coord := range c.Coords.Neighbors() {
		neighbor, ok := idx[coord.Key()]
		if ok && Owner(*neighbor) == factionID {
			controlled++
		}
	}
	return controlled
}

// CanPlaceUnits reports whether the faction may place a unit on the target
// territory: reinforcing an existing garrison is always legal, and expansion
// is legal from any neighbor where the faction's units strictly exceed
// ExpansionThreshold times the combined units of every other faction there.
func CanPlaceUnits(target Country, countries []Country, factionID string) bool {
	if target.Units[factionID] > 0 {
		return true
	}

	idx := CountryIndex(countries)
	for _, coord := range target.Coords.Neighbors() {
		neighbor, ok := idx[coord.Key()]
		if !ok {
			continue
		}
		mine := neighbor.Units[factionID]
		if mine == 0 {
			continue
		}
		others := 0
		for id, n := range neighbor.Units {
			if id != factionID {
				others += n
			}
		}
		if mine > ExpansionThreshold*others {
			return true
		}
	}
	return false
}

// ResolveBattle runs one combat resolution step for the territory and
// returns the new territory state. With at most one faction present only the
// schedule advances. Otherwise every present faction takes casualties
// simultaneously, computed from the pre-battle enemy totals: one shared
// intensity roll for the clash, reduced per faction by territorial advantage
// from controlled neighbors, then scaled by an independent per-faction roll.
func ResolveBattle(c Country, countries []Country, now time.Time, rng Rand) Country {
	out := c
	out.NextBattleTime = now.Add(battleInterval(rng))

	present := make([]string, 0, len(c.Units))
	for factionID, n := range c.Units {
		if n > 0 {
			present = append(present, factionID)
		}
	}
	if len(present) <= 1 {
		return out
	}

	total := TotalUnits(c)
	rate := BattleCasualtyMin + rng.Float64()*(BattleCasualtyMax-BattleCasualtyMin)

	newUnits := make(map[string]int, len(c.Units))
	for _, factionID := range present {
		enemy := total - c.Units[factionID]

		advantage := float64(ControlledNeighbors(c, countries, factionID)) * AdvantagePerNeighbor
		if advantage > MaxAdvantage {
			advantage = MaxAdvantage
		}
		effective := rate - advantage
		if effective < 0 {
			effective = 0
		}

		casualties := int(float64(enemy) * effective * rng.Float64())
		if remaining := c.Units[factionID] - casualties; remaining > 0 {
			newUnits[factionID] = remaining
		}
	}

	out.Units = newUnits
	return out
}

func battleInterval(rng Rand) time.Duration {
	return BattleMinInterval + time.Duration(rng.Float64()*float64(BattleMaxInterval-BattleMinInterval))
}

// CheckWinner returns the sole non-neutral faction holding units anywhere on
// the map, or nil while zero or several remain.
func CheckWinner(countries []Country, factions []Faction) *Faction {
	holder := ""
	for _, c := range countries {
		for factionID, n := range c.Units {
			if n <= 0 || factionID == NeutralFactionID {
				continue
			}
			if holder == "" {
				holder = factionID
			} else if holder != factionID {
				return nil
			}
		}
	}
	if holder == "" {
		return nil
	}
	for i := range factions {
		if factions[i].ID == holder {
			return &factions[i]
		}
	}
	return nil
}
