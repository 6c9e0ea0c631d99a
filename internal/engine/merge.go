package engine

import (
	"errors"

	"github.com/moodsprint/battle-engine/internal/game"
	"github.com/moodsprint/battle-engine/internal/keys"
)

var ErrInvalidRarityCombination = errors.New("no merge table entry for this rarity pair")

// Chance is the probability of one output rarity.
type Chance struct {
	Rarity game.Rarity `json:"rarity"`
	P      float64     `json:"p"`
}

// Distribution is a discrete outcome distribution ordered by ascending
// rarity.
type Distribution []Chance

// baseMergeTable is keyed by keys.RarityPairKey. Legendary never appears as
// an input.
var baseMergeTable = map[string]Distribution{
	"common+common": {
		{game.RarityCommon, 0.60}, {game.RarityUncommon, 0.30}, {game.RarityRare, 0.08}, {game.RarityEpic, 0.02},
	},
	"common+uncommon": {
		{game.RarityCommon, 0.30}, {game.RarityUncommon, 0.45}, {game.RarityRare, 0.20}, {game.RarityEpic, 0.05},
	},
	"common+rare": {
		{game.RarityUncommon, 0.40}, {game.RarityRare, 0.45}, {game.RarityEpic, 0.13}, {game.RarityLegendary, 0.02},
	},
	"common+epic": {
		{game.RarityRare, 0.50}, {game.RarityEpic, 0.45}, {game.RarityLegendary, 0.05},
	},
	"uncommon+uncommon": {
		{game.RarityUncommon, 0.50}, {game.RarityRare, 0.35}, {game.RarityEpic, 0.12}, {game.RarityLegendary, 0.03},
	},
	"uncommon+rare": {
		{game.RarityUncommon, 0.20}, {game.RarityRare, 0.50}, {game.RarityEpic, 0.25}, {game.RarityLegendary, 0.05},
	},
	"uncommon+epic": {
		{game.RarityRare, 0.40}, {game.RarityEpic, 0.50}, {game.RarityLegendary, 0.10},
	},
	"rare+rare": {
		{game.RarityRare, 0.40}, {game.RarityEpic, 0.40}, {game.RarityLegendary, 0.20},
	},
	"rare+epic": {
		{game.RarityEpic, 0.70}, {game.RarityLegendary, 0.30},
	},
	"epic+epic": {
		{game.RarityEpic, 0.60}, {game.RarityLegendary, 0.40},
	},
}

// Merge bonuses, applied in this order.
const (
	SameGenreBonus      = 0.05
	BothAbilitiesBonus  = 0.03
	HighAttackBonus     = 0.02
	HighAttackThreshold = 60
)

type MergeBonus struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// BaseDistribution returns a copy of the table entry for a rarity pair.
func BaseDistribution(a, b game.Rarity) (Distribution, bool) {
	d, ok := baseMergeTable[keys.RarityPairKey(a, b)]
	if !ok {
		return nil, false
	}
	return d.clone(), true
}

// MergeTableKeys lists every pair key in the base table.
func MergeTableKeys() []string {
	out := make([]string, 0, len(baseMergeTable))
	for k := range baseMergeTable {
		out = append(out, k)
	}
	return out
}

// MergeBonuses returns the bonuses two cards qualify for: same genre, then
// both abilities, then combined attack above 60.
func MergeBonuses(c1, c2 *game.Card) []MergeBonus {
	out := make([]MergeBonus, 0, 3)
	if _, ok := SharedGenre(c1, c2); ok {
		out = append(out, MergeBonus{Name: "same_genre", Amount: SameGenreBonus})
	}
	if c1.HasAbility() && c2.HasAbility() {
		out = append(out, MergeBonus{Name: "both_abilities", Amount: BothAbilitiesBonus})
	}
	if c1.Attack+c2.Attack > HighAttackThreshold {
		out = append(out, MergeBonus{Name: "high_attack", Amount: HighAttackBonus})
	}
	return out
}

// MergeChances is the base distribution for the pair shifted by every
// applicable bonus in order.
func MergeChances(c1, c2 *game.Card) (Distribution, []MergeBonus, error) {
	d, ok := BaseDistribution(c1.Rarity, c2.Rarity)
	if !ok {
		return nil, nil, ErrInvalidRarityCombination
	}
	bonuses := MergeBonuses(c1, c2)
	for _, b := range bonuses {
		d = d.Shift(b.Amount)
	}
	return d, bonuses, nil
}

func (d Distribution) clone() Distribution {
	return append(Distribution(nil), d...)
}

// lowest returns the index of the lowest rarity with positive mass, or -1.
func (d Distribution) lowest() int {
	for i := range d {
		if d[i].P > 0 {
			return i
		}
	}
	return -1
}

// Shift moves up to amount from the lowest present rarity to every higher
// rarity, split in proportion to their current mass (evenly when they hold
// none). Returns a new distribution; total mass is unchanged.
func (d Distribution) Shift(amount float64) Distribution {
	out := d.clone()
	lo := out.lowest()
	if lo < 0 || lo == len(out)-1 || amount <= 0 {
		return out
	}
	moved := amount
	if out[lo].P < moved {
		moved = out[lo].P
	}
	higher := 0.0
	for i := lo + 1; i < len(out); i++ {
		higher += out[i].P
	}
	out[lo].P -= moved
	n := float64(len(out) - lo - 1)
	for i := lo + 1; i < len(out); i++ {
		if higher > 0 {
			out[i].P += moved * out[i].P / higher
		} else {
			out[i].P += moved / n
		}
	}
	return out
}

// Total is the sum of all probabilities.
func (d Distribution) Total() float64 {
	t := 0.0
	for _, c := range d {
		t += c.P
	}
	return t
}

// MassAbove sums the probability of every rarity strictly above r.
func (d Distribution) MassAbove(r game.Rarity) float64 {
	t := 0.0
	for _, c := range d {
		if r.Less(c.Rarity) {
			t += c.P
		}
	}
	return t
}

// Probability returns the mass assigned to r.
func (d Distribution) Probability(r game.Rarity) float64 {
	for _, c := range d {
		if c.Rarity == r {
			return c.P
		}
	}
	return 0
}

// Roll draws once against the ascending cumulative distribution. If
// rounding leaves the draw past every bucket, the lowest present rarity
// wins.
func (d Distribution) Roll(rng Random) game.Rarity {
	r := rng.Float64()
	cum := 0.0
	for _, c := range d {
		cum += c.P
		if r < cum {
			return c.Rarity
		}
	}
	if lo := d.lowest(); lo >= 0 {
		return d[lo].Rarity
	}
	if len(d) > 0 {
		return d[0].Rarity
	}
	return game.RarityCommon
}

// SharedGenre reports the genre both cards carry. Cards without a genre
// share nothing.
func SharedGenre(c1, c2 *game.Card) (string, bool) {
	if c1.Genre == "" || c1.Genre != c2.Genre {
		return "", false
	}
	return c1.Genre, true
}

// MergeGenre keeps a shared genre, otherwise picks one input's genre
// uniformly. A genre-less input defers to the other card.
func MergeGenre(rng Random, c1, c2 *game.Card) string {
	if g, ok := SharedGenre(c1, c2); ok {
		return g
	}
	switch {
	case c1.Genre == "":
		return c2.Genre
	case c2.Genre == "":
		return c1.Genre
	}
	if rng.IntN(2) == 0 {
		return c1.Genre
	}
	return c2.Genre
}
