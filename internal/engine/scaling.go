package engine

import (
	"math"

	"github.com/moodsprint/battle-engine/internal/game"
)

// MaxDeckSize is the number of cards in a standing battle deck.
const MaxDeckSize = 5

// Character-stats (legacy 1v1) scaling.
const (
	battleScaleDivisor    = 500.0
	battleScaleCap        = 3.0
	battleEmptyDeckFactor = 0.5
	bossHPMultiplier      = 1.5
	bossAttackMultiplier  = 1.3
	bossXPMultiplier      = 2.0
)

// Monster-card-deck scaling.
const (
	deckScaleBase      = 0.8
	deckScaleDivisor   = 600.0
	deckScaleCap       = 2.5
	deckEmptyFactor    = 0.6
	deckBossMultiplier = 1.3
)

// ScaledStats are a monster's stats sized to a player's deck power.
type ScaledStats struct {
	Factor           float64
	HP               int
	Attack           int
	Defense          int
	Speed            int
	XPReward         int
	StatPointsReward int
}

// DeckPower sums attack+hp over the first MaxDeckSize cards.
func DeckPower(deck []game.Card) int {
	power := 0
	for i := range deck {
		if i == MaxDeckSize {
			break
		}
		power += deck[i].Power()
	}
	return power
}

// BattleScaleFactor is 1 + power/500, capped at 3.0. An empty deck yields a
// deliberately weak 0.5.
func BattleScaleFactor(deckPower int) float64 {
	if deckPower <= 0 {
		return battleEmptyDeckFactor
	}
	return math.Min(1+float64(deckPower)/battleScaleDivisor, battleScaleCap)
}

// DeckScaleFactor is 0.8 + power/600, capped at 2.5, with a flat 1.3 on
// top for bosses. An empty deck yields 0.6 before the boss multiplier.
func DeckScaleFactor(deckPower int, isBoss bool) float64 {
	f := deckEmptyFactor
	if deckPower > 0 {
		f = math.Min(deckScaleBase+float64(deckPower)/deckScaleDivisor, deckScaleCap)
	}
	if isBoss {
		f *= deckBossMultiplier
	}
	return f
}

// ScaleMonster sizes a monster's character stats and rewards. Bosses get
// x1.5 HP, x1.3 attack and x2 XP on top of the scale factor.
func ScaleMonster(m *game.Monster, deckPower int) ScaledStats {
	f := BattleScaleFactor(deckPower)
	s := ScaledStats{
		Factor:           f,
		HP:               scaleStat(m.HP, f),
		Attack:           scaleStat(m.Attack, f),
		Defense:          scaleReward(m.Defense, f),
		Speed:            scaleReward(m.Speed, f),
		XPReward:         scaleReward(m.XPReward, f),
		StatPointsReward: scaleReward(m.StatPointsReward, f),
	}
	if m.IsBoss {
		s.HP = scaleStat(s.HP, bossHPMultiplier)
		s.Attack = scaleStat(s.Attack, bossAttackMultiplier)
		s.XPReward = scaleReward(s.XPReward, bossXPMultiplier)
	}
	return s
}

// ScaleCard builds a battle combatant from base stats and a scale factor.
func ScaleCard(id uint, name, emoji string, hp, attack int, factor float64) game.CardState {
	scaledHP := scaleStat(hp, factor)
	return game.CardState{
		ID:     id,
		Name:   name,
		Emoji:  emoji,
		HP:     scaledHP,
		MaxHP:  scaledHP,
		Attack: scaleStat(attack, factor),
		Alive:  true,
	}
}

// LegacyCard turns already-scaled character stats into the single
// combatant of a legacy 1v1 battle.
func LegacyCard(m *game.Monster, s ScaledStats) game.CardState {
	return game.CardState{
		ID:     m.ID,
		Name:   m.Name,
		Emoji:  m.Emoji,
		HP:     s.HP,
		MaxHP:  s.HP,
		Attack: s.Attack,
		Alive:  true,
	}
}

// PlayerCardState snapshots an owned card into battle state.
func PlayerCardState(c *game.Card) game.CardState {
	return game.CardState{
		ID:     c.ID,
		Name:   c.Name,
		Emoji:  c.Emoji,
		HP:     c.CurrentHP,
		MaxHP:  c.HP,
		Attack: c.Attack,
		Alive:  c.CurrentHP > 0,
	}
}

// scaleStat rounds v*f and keeps combat stats at least 1.
func scaleStat(v int, f float64) int {
	n := int(math.Round(float64(v) * f))
	if n < 1 {
		n = 1
	}
	return n
}

func scaleReward(v int, f float64) int {
	if v <= 0 {
		return 0
	}
	return int(math.Round(float64(v) * f))
}
