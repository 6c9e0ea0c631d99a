package service

import (
	"context"
	"errors"
	"testing"

	"github.com/moodsprint/battle-engine/internal/engine"
	"github.com/moodsprint/battle-engine/internal/game"
	"github.com/moodsprint/battle-engine/internal/service/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestMerge_ValidationOrder(t *testing.T) {
	f := newFixture(t, nil)
	common := f.addCard(t, userID, 30, 10)
	foreign := f.addCard(t, userID+1, 30, 10)
	destroyed := f.addCard(t, userID, 30, 10, func(c *game.Card) { c.IsDestroyed = true })
	legendary := f.addCard(t, userID, 90, 30, withRarity(game.RarityLegendary))
	decked := f.addCard(t, userID, 30, 10, inDeck)

	cases := []struct {
		name   string
		a, b   uint
		expect error
	}{
		{"same card", common.ID, common.ID, ErrSameCard},
		{"unknown card", common.ID, 4242, ErrCardNotFound},
		{"foreign card", common.ID, foreign.ID, ErrCardNotFound},
		{"destroyed before legendary", legendary.ID, destroyed.ID, ErrCardDestroyed},
		{"legendary before deck", legendary.ID, decked.ID, ErrCannotMergeLegendary},
		{"legendary with a plain card", common.ID, legendary.ID, ErrCannotMergeLegendary},
		{"in deck", common.ID, decked.ID, ErrCardInDeck},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Merges.Merge(f.ctx, userID, tc.a, tc.b)
			assert.ErrorIs(t, err, tc.expect)
			_, err = f.svc.Merges.PreviewMerge(f.ctx, userID, tc.a, tc.b)
			assert.ErrorIs(t, err, tc.expect)
		})
	}

	assert.False(t, f.card(t, userID, common.ID).IsDestroyed, "failed merges change nothing")
	logs, err := f.svc.Merges.History(f.ctx, userID, 0)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestMerge_InvalidRarity(t *testing.T) {
	f := newFixture(t, nil)
	a := f.addCard(t, userID, 30, 10, withRarity("mythic"))
	b := f.addCard(t, userID, 30, 10)

	_, err := f.svc.Merges.Merge(f.ctx, userID, a.ID, b.ID)
	assert.ErrorIs(t, err, ErrInvalidRarityCombination)
}

func TestMerge_ConsumesInputsAndCreatesOneCard(t *testing.T) {
	f := newFixture(t, nil)
	a := f.addCard(t, userID, 30, 10, withGenre("magic"))
	b := f.addCard(t, userID, 35, 12, withGenre("anime"))

	res, err := f.svc.Merges.Merge(f.ctx, userID, a.ID, b.ID)
	require.NoError(t, err)
	require.NotNil(t, res.Card)

	for _, id := range []uint{a.ID, b.ID} {
		c := f.card(t, userID, id)
		assert.True(t, c.IsDestroyed)
		assert.False(t, c.IsInDeck)
	}

	cards, err := f.repo.ListCards(f.ctx, userID)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, res.Card.ID, cards[0].ID)
	assert.Equal(t, res.Rarity, cards[0].Rarity)
	assert.Contains(t, []string{"magic", "anime"}, res.Genre)
	assert.Contains(t, []game.Rarity{game.RarityCommon, game.RarityUncommon, game.RarityRare, game.RarityEpic}, res.Rarity)

	assert.Empty(t, res.Bonuses)
	base, _ := engine.BaseDistribution(game.RarityCommon, game.RarityCommon)
	assert.Equal(t, base, res.Chances, "no bonus applies to a plain common fusion")

	logs, err := f.svc.Merges.History(f.ctx, userID, 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, a.Name, logs[0].Card1Name)
	assert.Equal(t, game.RarityCommon, logs[0].Card2Rarity)
	require.NotNil(t, logs[0].ResultCardID)
	assert.Equal(t, res.Card.ID, *logs[0].ResultCardID)

	p, err := f.repo.GetProgress(f.ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 1, p.CardsMerged)

	_, err = f.svc.Merges.Merge(f.ctx, userID, a.ID, b.ID)
	assert.ErrorIs(t, err, ErrCardDestroyed)
}

func TestMerge_EnforcesRolledRarity(t *testing.T) {
	ctrl := gomock.NewController(t)
	gen := mocks.NewMockCardGenerator(ctrl)
	f := newFixture(t, gen)

	var asked game.CardSpec
	gen.EXPECT().
		GenerateCard(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, spec game.CardSpec) (*game.Card, error) {
			asked = spec
			return &game.Card{Name: "Fused", Rarity: game.RarityCommon, HP: 20, CurrentHP: 20, Attack: 5}, nil
		})

	a := f.addCard(t, userID, 30, 10, withRarity(game.RarityRare))
	b := f.addCard(t, userID, 30, 10, withRarity(game.RarityEpic))
	res, err := f.svc.Merges.Merge(f.ctx, userID, a.ID, b.ID)
	require.NoError(t, err)

	assert.Equal(t, res.Rarity, asked.Rarity)
	assert.Equal(t, userID, asked.UserID)
	assert.Contains(t, []game.Rarity{game.RarityEpic, game.RarityLegendary}, res.Rarity)
	assert.Equal(t, res.Rarity, f.card(t, userID, res.Card.ID).Rarity)
}

func TestMerge_GeneratorFailureStillConsumesInputs(t *testing.T) {
	ctrl := gomock.NewController(t)
	gen := mocks.NewMockCardGenerator(ctrl)
	f := newFixture(t, gen)
	gen.EXPECT().GenerateCard(gomock.Any(), gomock.Any()).Return(nil, errors.New("quota exceeded"))

	a := f.addCard(t, userID, 30, 10)
	b := f.addCard(t, userID, 30, 10)
	res, err := f.svc.Merges.Merge(f.ctx, userID, a.ID, b.ID)
	require.NoError(t, err)
	assert.Nil(t, res.Card)
	assert.Nil(t, res.Log.ResultCardID)
	assert.True(t, res.Rarity.Valid())

	assert.True(t, f.card(t, userID, a.ID).IsDestroyed)
	assert.True(t, f.card(t, userID, b.ID).IsDestroyed)
	logs, err := f.svc.Merges.History(f.ctx, userID, 0)
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestPreviewMerge_BoostedFusion(t *testing.T) {
	f := newFixture(t, nil)
	a := f.addCard(t, userID, 40, 35, withRarity(game.RarityUncommon), withAbility(game.AbilityHeal))
	b := f.addCard(t, userID, 40, 35, withRarity(game.RarityUncommon), withAbility(game.AbilityPoison))

	p, err := f.svc.Merges.PreviewMerge(f.ctx, userID, a.ID, b.ID)
	require.NoError(t, err)

	names := make([]string, len(p.Bonuses))
	for i, bonus := range p.Bonuses {
		names[i] = bonus.Name
	}
	assert.Equal(t, []string{"same_genre", "both_abilities", "high_attack"}, names)
	assert.InDelta(t, 0.40, p.Chances.Probability(game.RarityUncommon), 1e-9)
	assert.InDelta(t, 1.0, p.Chances.Total(), 1e-9)

	assert.False(t, f.card(t, userID, a.ID).IsDestroyed, "preview does not merge")
}
