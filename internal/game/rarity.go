package game

import "strings"

// Rarity is a card's tier. Tiers form a strict total order used for stat
// multipliers and merge-outcome ranking.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// Rarities lists every tier in ascending order.
var Rarities = []Rarity{RarityCommon, RarityUncommon, RarityRare, RarityEpic, RarityLegendary}

// Rank returns the position of r in the total order, or -1 for unknown values.
func (r Rarity) Rank() int {
	for i, v := range Rarities {
		if v == r {
			return i
		}
	}
	return -1
}

// Valid reports whether r is one of the known tiers.
func (r Rarity) Valid() bool { return r.Rank() >= 0 }

// Less reports whether r ranks strictly below o.
func (r Rarity) Less(o Rarity) bool { return r.Rank() < o.Rank() }

// ParseRarity accepts any casing and surrounding whitespace.
func ParseRarity(s string) (Rarity, bool) {
	r := Rarity(strings.ToLower(strings.TrimSpace(s)))
	return r, r.Valid()
}

// RarityMultipliers scale generated card stats per tier.
var RarityMultipliers = map[Rarity]float64{
	RarityCommon:    1.0,
	RarityUncommon:  1.2,
	RarityRare:      1.5,
	RarityEpic:      2.0,
	RarityLegendary: 3.0,
}

// Ability is an optional card skill.
type Ability string

const (
	AbilityHeal         Ability = "heal"
	AbilityDoubleStrike Ability = "double_strike"
	AbilityShield       Ability = "shield"
	AbilityPoison       Ability = "poison"
)

// Abilities lists every ability in a stable order.
var Abilities = []Ability{AbilityHeal, AbilityDoubleStrike, AbilityShield, AbilityPoison}

// AbilityConfig describes an ability's per-battle cooldown and strength.
type AbilityConfig struct {
	Name        string
	Emoji       string
	Description string
	Cooldown    int
	Value       int
}

var AbilityConfigs = map[Ability]AbilityConfig{
	AbilityHeal:         {Name: "Heal", Emoji: "💚", Description: "Restores HP to an ally", Cooldown: 3, Value: 30},
	AbilityDoubleStrike: {Name: "Double Strike", Emoji: "⚔️", Description: "Attacks twice in one turn", Cooldown: 4, Value: 2},
	AbilityShield:       {Name: "Shield", Emoji: "🛡️", Description: "Blocks the next incoming hit", Cooldown: 3, Value: 1},
	AbilityPoison:       {Name: "Poison", Emoji: "☠️", Description: "Deals damage over three rounds", Cooldown: 4, Value: 5},
}

// AbilityChance is the probability that a generated card of a tier rolls an ability.
var AbilityChance = map[Rarity]float64{
	RarityCommon:    0,
	RarityUncommon:  0.1,
	RarityRare:      0.3,
	RarityEpic:      0.6,
	RarityLegendary: 1.0,
}
