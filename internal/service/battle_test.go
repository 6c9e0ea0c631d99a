package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/moodsprint/battle-engine/internal/config"
	"github.com/moodsprint/battle-engine/internal/game"
	"github.com/moodsprint/battle-engine/internal/service/mocks"
	"github.com/moodsprint/battle-engine/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"pgregory.net/rapid"
)

const userID int64 = 7

func slime(hp, attack int) game.MonsterCard {
	return game.MonsterCard{Name: "Slime", Emoji: "🟢", HP: hp, Attack: attack}
}

func TestStartBattle_OnlyOneActivePerUser(t *testing.T) {
	f := newFixture(t, nil)
	c := f.addCard(t, userID, 50, 10)
	m := f.addMonster(t, false, slime(200, 5))

	b, err := f.svc.Battles.StartBattle(f.ctx, userID, m.ID, []uint{c.ID})
	require.NoError(t, err)
	assert.Equal(t, game.BattleActive, b.Status)
	assert.Equal(t, game.TurnPlayer, b.CurrentTurn)
	assert.Equal(t, 1, b.CurrentRound)

	other := f.addMonster(t, false, slime(10, 1))
	_, err = f.svc.Battles.StartBattle(f.ctx, userID, other.ID, []uint{c.ID})
	assert.ErrorIs(t, err, ErrBattleInProgress)

	_, err = f.svc.Battles.ForfeitBattle(f.ctx, userID)
	require.NoError(t, err)

	_, err = f.svc.Battles.StartBattle(f.ctx, userID, other.ID, []uint{c.ID})
	assert.NoError(t, err, "a closed battle frees the slot")
}

func TestStartBattle_Preconditions(t *testing.T) {
	f := newFixture(t, nil)
	m := f.addMonster(t, false, slime(20, 5))
	good := f.addCard(t, userID, 50, 10)
	foreign := f.addCard(t, userID+1, 50, 10)
	destroyed := f.addCard(t, userID, 50, 10, func(c *game.Card) { c.IsDestroyed = true })
	until := testNow.Add(time.Hour)
	resting := f.addCard(t, userID, 50, 10, func(c *game.Card) { c.CooldownUntil = &until })
	empty := f.addCard(t, userID, 50, 10, func(c *game.Card) { c.CurrentHP = 0 })

	_, err := f.svc.Battles.StartBattle(f.ctx, userID, 9999, []uint{good.ID})
	assert.ErrorIs(t, err, ErrMonsterNotFound)

	_, err = f.svc.Battles.StartBattle(f.ctx, userID, m.ID, []uint{foreign.ID, destroyed.ID, resting.ID, 4242})
	assert.ErrorIs(t, err, ErrNoValidCards)

	_, err = f.svc.Battles.StartBattle(f.ctx, userID, m.ID, []uint{empty.ID})
	assert.ErrorIs(t, err, ErrCardsNoHP)
	_, err = f.repo.GetActiveBattle(f.ctx, userID)
	assert.ErrorIs(t, err, storage.ErrNotFound, "a rejected start creates no battle")

	require.NoError(t, f.repo.RecordDefeat(f.ctx, &game.DefeatedMonster{
		UserID: userID, MonsterID: m.ID, PeriodStart: game.PeriodStart(testNow),
	}))
	_, err = f.svc.Battles.StartBattle(f.ctx, userID, m.ID, []uint{good.ID})
	assert.ErrorIs(t, err, ErrMonsterAlreadyDefeated)
	assert.Equal(t, CodeMonsterAlreadyDefeated, ErrorCode(err))
}

func TestStartBattle_FieldsAtMostMaxCards(t *testing.T) {
	f := newFixture(t, nil)
	m := f.addMonster(t, false, slime(20, 5))
	var ids []uint
	for i := 0; i < 7; i++ {
		ids = append(ids, f.addCard(t, userID, 30, 5).ID)
	}

	b, err := f.svc.Battles.StartBattle(f.ctx, userID, m.ID, ids)
	require.NoError(t, err)
	st := b.State.Data()
	require.Len(t, st.PlayerCards, 5)
	assert.Equal(t, ids[0], st.PlayerCards[0].ID, "selection order is kept")
}

func TestStartBattle_ScalesFromStandingDeck(t *testing.T) {
	f := newFixture(t, nil)
	// Deck power 600 -> deck factor 0.8 + 1 = 1.8.
	f.addCard(t, userID, 500, 100, inDeck)
	fighter := f.addCard(t, userID, 10, 1)
	m := f.addMonster(t, false, slime(100, 10))

	b, err := f.svc.Battles.StartBattle(f.ctx, userID, m.ID, []uint{fighter.ID})
	require.NoError(t, err)

	st := b.State.Data()
	assert.Equal(t, game.ModeDeck, st.Mode)
	assert.Equal(t, 600, st.DeckPower)
	assert.InDelta(t, 1.8, st.ScaleFactor, 1e-9)
	assert.Equal(t, 180, st.MonsterCards[0].HP)
	assert.Equal(t, 180, st.MonsterCards[0].MaxHP)
	assert.Equal(t, 18, st.MonsterCards[0].Attack)
	// Rewards use the character-stats factor 1 + 600/500 = 2.2.
	assert.Equal(t, 220, st.XPReward)

	stored, err := f.repo.GetMonster(f.ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, stored.Cards[0].HP, "base stats are never mutated")
}

func TestStartBattle_RosterFallbacks(t *testing.T) {
	f := newFixture(t, nil)
	c := f.addCard(t, userID, 50, 10)

	templated := f.addMonster(t, true)
	b, err := f.svc.Battles.StartBattle(f.ctx, userID, templated.ID, []uint{c.ID})
	require.NoError(t, err)
	st := b.State.Data()
	assert.Equal(t, game.ModeDeck, st.Mode)
	assert.Len(t, st.MonsterCards, f.cfg.Catalog.BossDeckSize, "boss deck drawn from genre templates")
	_, err = f.svc.Battles.ForfeitBattle(f.ctx, userID)
	require.NoError(t, err)

	lone := &game.Monster{Name: "Hermit", Genre: "western", HP: 80, Attack: 12, XPReward: 40}
	require.NoError(t, f.repo.CreateMonster(f.ctx, lone))
	b, err = f.svc.Battles.StartBattle(f.ctx, userID, lone.ID, []uint{c.ID})
	require.NoError(t, err)
	st = b.State.Data()
	assert.Equal(t, game.ModeLegacy, st.Mode)
	require.Len(t, st.MonsterCards, 1)
	// Empty deck -> character-stats factor 0.5.
	assert.Equal(t, 40, st.MonsterCards[0].HP)
	assert.Equal(t, 6, st.MonsterCards[0].Attack)
}

func TestExecuteTurn_LethalTurnWinsWithoutCounterAttack(t *testing.T) {
	f := newFixture(t, nil)
	c := f.addCard(t, userID, 50, 50)
	m := f.addMonster(t, false, slime(1, 99))

	b, err := f.svc.Battles.StartBattle(f.ctx, userID, m.ID, []uint{c.ID})
	require.NoError(t, err)
	target := b.State.Data().MonsterCards[0].ID

	out, err := f.svc.Battles.ExecuteTurn(f.ctx, userID, c.ID, target)
	require.NoError(t, err)
	require.NotNil(t, out.Result)
	assert.True(t, out.Result.Won)
	assert.Zero(t, out.DamageTaken)
	require.Len(t, out.Log, 2)
	assert.Equal(t, game.ActorPlayer, out.Log[0].Actor)
	assert.NotEqual(t, game.ActionCardDestroyed, out.Log[0].Action)
	// the destroyed entry names the side that lost the card
	assert.Equal(t, game.ActionCardDestroyed, out.Log[1].Action)
	assert.Equal(t, game.ActorMonster, out.Log[1].Actor)
	for _, e := range out.Log {
		if e.Action != game.ActionCardDestroyed {
			assert.NotEqual(t, game.ActorMonster, e.Actor, "monster never strikes after a lethal hit: %+v", e)
		}
	}

	// Empty deck: reward factor 0.5 -> 50 XP, x1.5 for a flawless win.
	assert.Equal(t, 75, out.Result.XPEarned)
	assert.Equal(t, 1, out.Result.StatPointsEarned)
	assert.Nil(t, out.Result.RewardCard)
	assert.Equal(t, game.BattleWon, out.Battle.Status)

	_, err = f.svc.Battles.GetActiveBattle(f.ctx, userID)
	assert.ErrorIs(t, err, ErrNoActiveBattle)

	defeated, err := f.repo.IsMonsterDefeated(f.ctx, userID, m.ID, game.PeriodStart(testNow))
	require.NoError(t, err)
	assert.True(t, defeated)

	p, err := f.repo.GetProgress(f.ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(75), p.XP)
	assert.Equal(t, 1, p.BattlesWon)

	logs, err := f.svc.Battles.History(f.ctx, userID, 0)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.True(t, logs[0].Won)
	assert.Len(t, logs[0].TurnLog.Data(), 2)
	assert.NotEmpty(t, logs[0].ID)

	_, err = f.svc.Battles.StartBattle(f.ctx, userID, m.ID, []uint{c.ID})
	assert.ErrorIs(t, err, ErrMonsterAlreadyDefeated)

	f.clock.Advance(7 * 24 * time.Hour)
	_, err = f.svc.Battles.StartBattle(f.ctx, userID, m.ID, []uint{c.ID})
	assert.NoError(t, err, "refightable next period")
}

func TestExecuteTurn_Preconditions(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.svc.Battles.ExecuteTurn(f.ctx, userID, 1, 1)
	assert.ErrorIs(t, err, ErrNoActiveBattle)

	c := f.addCard(t, userID, 50, 10)
	m := f.addMonster(t, false, slime(500, 5))
	b, err := f.svc.Battles.StartBattle(f.ctx, userID, m.ID, []uint{c.ID})
	require.NoError(t, err)
	target := b.State.Data().MonsterCards[0].ID

	_, err = f.svc.Battles.ExecuteTurn(f.ctx, userID, 4242, target)
	assert.ErrorIs(t, err, ErrInvalidPlayerCard)
	_, err = f.svc.Battles.ExecuteTurn(f.ctx, userID, c.ID, 4242)
	assert.ErrorIs(t, err, ErrInvalidMonsterCard)

	after, err := f.svc.Battles.GetActiveBattle(f.ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 1, after.CurrentRound)
	assert.Equal(t, b.State.Data(), after.State.Data(), "rejected turns change nothing")

	out, err := f.svc.Battles.ExecuteTurn(f.ctx, userID, c.ID, target)
	require.NoError(t, err)
	assert.Nil(t, out.Result)
	assert.Equal(t, 2, out.Battle.CurrentRound)
	assert.Equal(t, game.TurnPlayer, out.Battle.CurrentTurn)
	assert.Positive(t, out.Battle.DamageDealt)
	assert.Positive(t, out.Battle.DamageTaken)
}

func loseOneBattle(t *testing.T, f *fixture) (*game.Card, *game.Monster, *TurnOutcome) {
	t.Helper()
	c := f.addCard(t, userID, 1, 1, inDeck)
	m := f.addMonster(t, false, slime(1000, 100))
	b, err := f.svc.Battles.StartBattle(f.ctx, userID, m.ID, []uint{c.ID})
	require.NoError(t, err)
	out, err := f.svc.Battles.ExecuteTurn(f.ctx, userID, c.ID, b.State.Data().MonsterCards[0].ID)
	require.NoError(t, err)
	require.NotNil(t, out.Result)
	require.False(t, out.Result.Won)
	return c, m, out
}

func TestExecuteTurn_LossDestroysDeadCards(t *testing.T) {
	f := newFixture(t, nil)
	c, m, out := loseOneBattle(t, f)

	assert.Equal(t, 1, out.Result.CardsLost)
	assert.Zero(t, out.Result.XPEarned)
	assert.Equal(t, game.BattleLost, out.Battle.Status)

	stored := f.card(t, userID, c.ID)
	assert.True(t, stored.IsDestroyed)
	assert.False(t, stored.IsInDeck)
	assert.Zero(t, stored.CurrentHP)

	defeated, err := f.repo.IsMonsterDefeated(f.ctx, userID, m.ID, game.PeriodStart(testNow))
	require.NoError(t, err)
	assert.False(t, defeated)

	p, err := f.repo.GetProgress(f.ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 1, p.BattlesLost)
	assert.Zero(t, p.XP)
}

func TestExecuteTurn_CooldownPolicy(t *testing.T) {
	f := newFixture(t, nil, func(c *config.Config) {
		c.Battle.DefeatPolicy = config.DefeatCooldown
		c.Battle.CardCooldown = 6 * time.Hour
	})
	c, m, _ := loseOneBattle(t, f)

	stored := f.card(t, userID, c.ID)
	assert.False(t, stored.IsDestroyed)
	assert.True(t, stored.IsInDeck)
	assert.Equal(t, stored.HP, stored.CurrentHP)
	require.NotNil(t, stored.CooldownUntil)
	assert.True(t, testNow.Add(6*time.Hour).Equal(*stored.CooldownUntil))

	_, err := f.svc.Battles.StartBattle(f.ctx, userID, m.ID, []uint{c.ID})
	assert.ErrorIs(t, err, ErrNoValidCards)

	f.clock.Advance(6*time.Hour + time.Minute)
	_, err = f.svc.Battles.StartBattle(f.ctx, userID, m.ID, []uint{c.ID})
	assert.NoError(t, err)
}

func TestForfeitBattle(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.svc.Battles.ForfeitBattle(f.ctx, userID)
	assert.ErrorIs(t, err, ErrNoActiveBattle)

	c := f.addCard(t, userID, 50, 10)
	m := f.addMonster(t, false, slime(500, 1))
	b, err := f.svc.Battles.StartBattle(f.ctx, userID, m.ID, []uint{c.ID})
	require.NoError(t, err)
	_, err = f.svc.Battles.ExecuteTurn(f.ctx, userID, c.ID, b.State.Data().MonsterCards[0].ID)
	require.NoError(t, err)

	res, err := f.svc.Battles.ForfeitBattle(f.ctx, userID)
	require.NoError(t, err)
	assert.False(t, res.Won)
	assert.Zero(t, res.CardsLost)
	assert.Empty(t, res.Log.TurnLog.Data())

	stored := f.card(t, userID, c.ID)
	assert.False(t, stored.IsDestroyed)
	assert.Less(t, stored.CurrentHP, 50, "damage taken is written back")
	assert.Positive(t, stored.CurrentHP)
}

func TestBossKill_GrantsGeneratedReward(t *testing.T) {
	ctrl := gomock.NewController(t)
	gen := mocks.NewMockCardGenerator(ctrl)
	f := newFixture(t, gen)

	gen.EXPECT().
		GenerateCard(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, spec game.CardSpec) (*game.Card, error) {
			assert.Equal(t, userID, spec.UserID)
			assert.Equal(t, "fantasy", spec.Genre)
			assert.Equal(t, "Gloom", spec.ContextTitle)
			assert.NotEqual(t, game.RarityCommon, spec.Rarity)
			return &game.Card{Name: "Trophy", HP: 40, CurrentHP: 40, Attack: 12}, nil
		})

	c := f.addCard(t, userID, 50, 50)
	m := f.addMonster(t, true, slime(1, 1))
	b, err := f.svc.Battles.StartBattle(f.ctx, userID, m.ID, []uint{c.ID})
	require.NoError(t, err)

	out, err := f.svc.Battles.ExecuteTurn(f.ctx, userID, c.ID, b.State.Data().MonsterCards[0].ID)
	require.NoError(t, err)
	require.NotNil(t, out.Result.RewardCard)
	assert.Equal(t, userID, out.Result.RewardCard.UserID)
	require.NotNil(t, out.Result.Log.RewardCardID)
	assert.Equal(t, out.Result.RewardCard.ID, *out.Result.Log.RewardCardID)

	stored := f.card(t, userID, out.Result.RewardCard.ID)
	assert.Equal(t, "Trophy", stored.Name)
	// Boss x2 XP on the 0.5 empty-deck factor, then x1.5 flawless.
	assert.Equal(t, 150, out.Result.XPEarned)
}

func TestBossKill_GeneratorFailureStillWins(t *testing.T) {
	ctrl := gomock.NewController(t)
	gen := mocks.NewMockCardGenerator(ctrl)
	f := newFixture(t, gen)
	gen.EXPECT().GenerateCard(gomock.Any(), gomock.Any()).Return(nil, errors.New("upstream down"))

	c := f.addCard(t, userID, 50, 50)
	m := f.addMonster(t, true, slime(1, 1))
	b, err := f.svc.Battles.StartBattle(f.ctx, userID, m.ID, []uint{c.ID})
	require.NoError(t, err)

	out, err := f.svc.Battles.ExecuteTurn(f.ctx, userID, c.ID, b.State.Data().MonsterCards[0].ID)
	require.NoError(t, err)
	assert.True(t, out.Result.Won)
	assert.Nil(t, out.Result.RewardCard)
	assert.Nil(t, out.Result.Log.RewardCardID)

	cards, err := f.repo.ListCards(f.ctx, userID)
	require.NoError(t, err)
	assert.Len(t, cards, 1)
}

func TestExecuteTurn_DeterministicWithSeed(t *testing.T) {
	play := func() [][]game.TurnLogEntry {
		f := newFixture(t, nil)
		a := f.addCard(t, userID, 60, 12)
		b := f.addCard(t, userID, 45, 15)
		m := f.addMonster(t, false, slime(80, 9), slime(70, 11))
		battle, err := f.svc.Battles.StartBattle(f.ctx, userID, m.ID, []uint{a.ID, b.ID})
		require.NoError(t, err)

		var logs [][]game.TurnLogEntry
		st := battle.State.Data()
		for i := 0; i < 6; i++ {
			p := firstAlive(st.PlayerCards)
			q := firstAlive(st.MonsterCards)
			if p == nil || q == nil {
				break
			}
			out, err := f.svc.Battles.ExecuteTurn(f.ctx, userID, p.ID, q.ID)
			require.NoError(t, err)
			logs = append(logs, out.Log)
			if out.Result != nil {
				break
			}
			st = out.Battle.State.Data()
		}
		return logs
	}
	assert.Equal(t, play(), play())
}

func firstAlive(cards []game.CardState) *game.CardState {
	for i := range cards {
		if cards[i].Alive {
			return &cards[i]
		}
	}
	return nil
}

func TestBattle_AlwaysTerminates(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		f := newFixture(t, nil)
		var ids []uint
		for i, n := 0, rapid.IntRange(1, 5).Draw(t, "players"); i < n; i++ {
			c := f.addCard(t, userID, rapid.IntRange(1, 80).Draw(t, "hp"), rapid.IntRange(1, 40).Draw(t, "atk"))
			ids = append(ids, c.ID)
		}
		var mcs []game.MonsterCard
		for i, n := 0, rapid.IntRange(1, 4).Draw(t, "monsters"); i < n; i++ {
			mcs = append(mcs, slime(rapid.IntRange(1, 300).Draw(t, "mhp"), rapid.IntRange(1, 40).Draw(t, "matk")))
		}
		m := f.addMonster(t, rapid.Bool().Draw(t, "boss"), mcs...)

		b, err := f.svc.Battles.StartBattle(f.ctx, userID, m.ID, ids)
		if err != nil {
			t.Fatalf("start: %v", err)
		}
		st := b.State.Data()
		bound := 0
		for _, mc := range st.MonsterCards {
			bound += mc.HP
		}

		for turns := 1; ; turns++ {
			if turns > bound {
				t.Fatalf("battle still active after %d turns", turns-1)
			}
			out, err := f.svc.Battles.ExecuteTurn(f.ctx, userID, firstAlive(st.PlayerCards).ID, firstAlive(st.MonsterCards).ID)
			if err != nil {
				t.Fatalf("turn %d: %v", turns, err)
			}
			if out.Result != nil {
				if !out.Battle.Status.Terminal() {
					t.Fatalf("closed battle has status %s", out.Battle.Status)
				}
				break
			}
			st = out.Battle.State.Data()
		}

		if _, err := f.svc.Battles.GetActiveBattle(f.ctx, userID); !errors.Is(err, ErrNoActiveBattle) {
			t.Fatalf("battle still active: %v", err)
		}
	})
}
