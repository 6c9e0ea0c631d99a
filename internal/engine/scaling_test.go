package engine

import (
	"testing"

	"github.com/moodsprint/battle-engine/internal/game"
	"github.com/stretchr/testify/assert"
)

func TestDeckPower(t *testing.T) {
	assert.Equal(t, 0, DeckPower(nil))

	deck := make([]game.Card, 0, 7)
	for i := 0; i < 7; i++ {
		deck = append(deck, game.Card{HP: 50, Attack: 10})
	}
	assert.Equal(t, 5*60, DeckPower(deck), "only the first five cards count")
}

func TestBattleScaleFactor(t *testing.T) {
	assert.InDelta(t, 0.5, BattleScaleFactor(0), 1e-9)
	assert.InDelta(t, 1.5, BattleScaleFactor(250), 1e-9)
	assert.InDelta(t, 3.0, BattleScaleFactor(1000), 1e-9)
	assert.InDelta(t, 3.0, BattleScaleFactor(50000), 1e-9)
}

func TestDeckScaleFactor(t *testing.T) {
	assert.InDelta(t, 0.6, DeckScaleFactor(0, false), 1e-9)
	assert.InDelta(t, 0.78, DeckScaleFactor(0, true), 1e-9)
	assert.InDelta(t, 1.8, DeckScaleFactor(600, false), 1e-9)
	assert.InDelta(t, 2.34, DeckScaleFactor(600, true), 1e-9)
	assert.InDelta(t, 2.5, DeckScaleFactor(6000, false), 1e-9)
	assert.InDelta(t, 3.25, DeckScaleFactor(6000, true), 1e-9)
}

func TestScaleMonster_Boss(t *testing.T) {
	m := &game.Monster{HP: 100, Attack: 20, Defense: 5, Speed: 10, XPReward: 50, StatPointsReward: 2, IsBoss: true}

	s := ScaleMonster(m, 500)

	assert.InDelta(t, 2.0, s.Factor, 1e-9)
	assert.Equal(t, 300, s.HP)
	assert.Equal(t, 52, s.Attack)
	assert.Equal(t, 10, s.Defense)
	assert.Equal(t, 20, s.Speed)
	assert.Equal(t, 200, s.XPReward)
	assert.Equal(t, 4, s.StatPointsReward)
	assert.Equal(t, 100, m.HP, "base stats are never mutated")
}

func TestScaleMonster_EmptyDeckIsWeak(t *testing.T) {
	m := &game.Monster{HP: 100, Attack: 20, XPReward: 40}

	s := ScaleMonster(m, 0)

	assert.Equal(t, 50, s.HP)
	assert.Equal(t, 10, s.Attack)
	assert.Equal(t, 20, s.XPReward)
}

func TestScaleCard_KeepsStatsPositive(t *testing.T) {
	c := ScaleCard(3, "Imp", "👿", 1, 1, 0.6)
	assert.Equal(t, 1, c.HP)
	assert.Equal(t, 1, c.MaxHP)
	assert.Equal(t, 1, c.Attack)
	assert.True(t, c.Alive)
}

func TestPlayerCardState_DeadAtZero(t *testing.T) {
	c := &game.Card{HP: 40, CurrentHP: 0, Attack: 9}
	c.ID = 11
	st := PlayerCardState(c)
	assert.Equal(t, uint(11), st.ID)
	assert.Equal(t, 40, st.MaxHP)
	assert.False(t, st.Alive)
}
