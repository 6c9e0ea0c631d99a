package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/moodsprint/battle-engine/internal/config"
	"github.com/moodsprint/battle-engine/internal/constants"
	"github.com/moodsprint/battle-engine/internal/engine"
	"github.com/moodsprint/battle-engine/internal/game"
	"github.com/moodsprint/battle-engine/internal/logging"
	"github.com/moodsprint/battle-engine/internal/storage"
	"gorm.io/datatypes"
)

// flawlessXPBonus multiplies XP when no player card died.
const flawlessXPBonus = 1.5

// BattleService runs card battles against monster decks. Every call is one
// repository transaction.
type BattleService struct {
	repo    storage.Repository
	cfg     config.BattleConfig
	catalog *config.CatalogConfig
	cards   CardGenerator
	rng     engine.Random
	clock   game.Clock
}

func NewBattleService(repo storage.Repository, cfg config.BattleConfig, catalog *config.CatalogConfig, cards CardGenerator, rng engine.Random, clock game.Clock) *BattleService {
	return &BattleService{repo: repo, cfg: cfg, catalog: catalog, cards: cards, rng: rng, clock: clock}
}

// TurnOutcome is the result of one ExecuteTurn call. Result is set only when
// the turn ended the battle.
type TurnOutcome struct {
	Battle      *game.ActiveBattle
	Log         []game.TurnLogEntry
	DamageDealt int
	DamageTaken int
	Result      *BattleResult
}

// BattleResult is what closing a battle granted and cost.
type BattleResult struct {
	Won              bool
	XPEarned         int
	StatPointsEarned int
	CardsLost        int
	// RewardCard is nil when the battle was not a boss kill or generation
	// failed.
	RewardCard *game.Card
	Log        *game.BattleLog
}

// StartBattle opens a battle for userID against monsterID with up to
// MaxCards of the given cards.
func (s *BattleService) StartBattle(ctx context.Context, userID int64, monsterID uint, cardIDs []uint) (*game.ActiveBattle, error) {
	now := s.clock.Now()
	period := game.PeriodStart(now)
	var out *game.ActiveBattle

	err := s.repo.Transaction(ctx, func(tx storage.Repository) error {
		if _, err := tx.GetActiveBattle(ctx, userID); err == nil {
			return ErrBattleInProgress
		} else if !errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("load active battle: %w", err)
		}

		m, err := tx.GetMonster(ctx, monsterID)
		if errors.Is(err, storage.ErrNotFound) {
			return ErrMonsterNotFound
		} else if err != nil {
			return fmt.Errorf("load monster: %w", err)
		}

		defeated, err := tx.IsMonsterDefeated(ctx, userID, monsterID, period)
		if err != nil {
			return fmt.Errorf("check defeat: %w", err)
		}
		if defeated {
			return ErrMonsterAlreadyDefeated
		}

		owned, err := tx.GetUserCards(ctx, userID, cardIDs)
		if err != nil {
			return fmt.Errorf("load cards: %w", err)
		}
		fielded := make([]game.CardState, 0, len(owned))
		for i := range owned {
			if !owned[i].CanBattle(now) {
				continue
			}
			if len(fielded) == s.maxCards() {
				break
			}
			fielded = append(fielded, engine.PlayerCardState(&owned[i]))
		}
		if len(fielded) == 0 {
			return ErrNoValidCards
		}
		for _, c := range fielded {
			if c.HP == 0 {
				return ErrCardsNoHP
			}
		}

		deck, err := tx.ListDeck(ctx, userID)
		if err != nil {
			return fmt.Errorf("load deck: %w", err)
		}
		st := s.buildState(m, engine.DeckPower(deck))
		st.PlayerCards = fielded

		slot := userID
		b := &game.ActiveBattle{
			UserID:       userID,
			ActiveSlot:   &slot,
			MonsterID:    m.ID,
			PeriodStart:  period,
			State:        datatypes.NewJSONType(st),
			CurrentTurn:  game.TurnPlayer,
			CurrentRound: 1,
			Status:       game.BattleActive,
		}
		if err := tx.CreateBattle(ctx, b); errors.Is(err, storage.ErrDuplicate) {
			return ErrBattleInProgress
		} else if err != nil {
			return fmt.Errorf("create battle: %w", err)
		}
		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	st := out.State.Data()
	logging.Info("battle started", logging.Fields{
		constants.LogFieldUserID:    userID,
		constants.LogFieldBattleID:  out.ID,
		constants.LogFieldMonsterID: monsterID,
		constants.LogFieldMode:      st.Mode,
		constants.LogFieldCount:     len(st.MonsterCards),
	})
	return out, nil
}

func (s *BattleService) maxCards() int {
	if s.cfg.MaxCards <= 0 {
		return engine.MaxDeckSize
	}
	return s.cfg.MaxCards
}

// buildState sizes the opponent to deckPower. A monster's own deck wins over
// genre templates; with neither the monster fights alone in legacy mode.
func (s *BattleService) buildState(m *game.Monster, deckPower int) game.BattleState {
	scaled := engine.ScaleMonster(m, deckPower)
	st := game.BattleState{
		Mode:             game.ModeDeck,
		MonsterName:      m.Name,
		MonsterEmoji:     m.Emoji,
		Genre:            m.Genre,
		IsBoss:           m.IsBoss,
		DeckPower:        deckPower,
		XPReward:         scaled.XPReward,
		StatPointsReward: scaled.StatPointsReward,
	}

	if len(m.Cards) > 0 {
		st.ScaleFactor = engine.DeckScaleFactor(deckPower, m.IsBoss)
		for _, mc := range m.Cards {
			st.MonsterCards = append(st.MonsterCards,
				engine.ScaleCard(mc.ID, mc.Name, mc.Emoji, mc.HP, mc.Attack, st.ScaleFactor))
		}
		return st
	}

	if gc, ok := s.catalog.Genre(m.Genre); ok && len(gc.Cards) > 0 {
		size := s.catalog.NormalDeckSize
		if m.IsBoss {
			size = s.catalog.BossDeckSize
		}
		st.ScaleFactor = engine.DeckScaleFactor(deckPower, m.IsBoss)
		for i, idx := range engine.Sample(s.rng, len(gc.Cards), size) {
			t := gc.Cards[idx]
			st.MonsterCards = append(st.MonsterCards,
				engine.ScaleCard(uint(i+1), t.Name, t.Emoji, t.HP, t.Attack, st.ScaleFactor))
		}
		if len(st.MonsterCards) > 0 {
			return st
		}
	}

	st.Mode = game.ModeLegacy
	st.ScaleFactor = scaled.Factor
	st.MonsterCards = []game.CardState{engine.LegacyCard(m, scaled)}
	return st
}

// ExecuteTurn plays the player's card against a monster card and resolves
// the counter-attack. A decisive turn closes the battle in the same
// transaction.
func (s *BattleService) ExecuteTurn(ctx context.Context, userID int64, playerCardID, targetCardID uint) (*TurnOutcome, error) {
	var out *TurnOutcome
	err := s.repo.Transaction(ctx, func(tx storage.Repository) error {
		b, err := tx.GetActiveBattle(ctx, userID)
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNoActiveBattle
		} else if err != nil {
			return fmt.Errorf("load active battle: %w", err)
		}
		if b.CurrentTurn != game.TurnPlayer {
			return ErrNotPlayerTurn
		}

		st := b.State.Data().Clone()
		res, err := engine.ResolveTurn(&st, s.rng, b.CurrentRound, playerCardID, targetCardID)
		switch {
		case errors.Is(err, engine.ErrPlayerCardUnavailable):
			return ErrInvalidPlayerCard
		case errors.Is(err, engine.ErrMonsterCardUnavailable):
			return ErrInvalidMonsterCard
		case err != nil:
			return err
		}

		b.State = datatypes.NewJSONType(st)
		b.DamageDealt += res.DamageDealt
		b.DamageTaken += res.DamageTaken
		out = &TurnOutcome{Battle: b, Log: res.Log, DamageDealt: res.DamageDealt, DamageTaken: res.DamageTaken}

		if res.Outcome == engine.Ongoing {
			b.CurrentRound++
			b.CurrentTurn = game.TurnPlayer
			if err := tx.SaveBattle(ctx, b); err != nil {
				return fmt.Errorf("save battle: %w", err)
			}
			return nil
		}

		out.Result, err = s.endBattle(ctx, tx, b, res.Outcome == engine.Won, res.Log)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ForfeitBattle closes the user's battle as a loss with an empty turn log.
func (s *BattleService) ForfeitBattle(ctx context.Context, userID int64) (*BattleResult, error) {
	var out *BattleResult
	err := s.repo.Transaction(ctx, func(tx storage.Repository) error {
		b, err := tx.GetActiveBattle(ctx, userID)
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNoActiveBattle
		} else if err != nil {
			return fmt.Errorf("load active battle: %w", err)
		}
		out, err = s.endBattle(ctx, tx, b, false, nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetActiveBattle returns the user's battle in progress.
func (s *BattleService) GetActiveBattle(ctx context.Context, userID int64) (*game.ActiveBattle, error) {
	b, err := s.repo.GetActiveBattle(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNoActiveBattle
	} else if err != nil {
		return nil, fmt.Errorf("load active battle: %w", err)
	}
	return b, nil
}

// History lists the user's most recent battle logs, newest first.
func (s *BattleService) History(ctx context.Context, userID int64, limit int) ([]game.BattleLog, error) {
	logs, err := s.repo.ListBattleLogs(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list battle logs: %w", err)
	}
	return logs, nil
}

// endBattle writes card HP back, applies the defeat policy to dead cards,
// grants rewards on a win and records the battle log. tx must be the
// transaction the battle was loaded in.
func (s *BattleService) endBattle(ctx context.Context, tx storage.Repository, b *game.ActiveBattle, won bool, turnLog []game.TurnLogEntry) (*BattleResult, error) {
	now := s.clock.Now()
	st := b.State.Data()
	res := &BattleResult{Won: won}

	ids := make([]uint, len(st.PlayerCards))
	for i, c := range st.PlayerCards {
		ids[i] = c.ID
	}
	owned, err := tx.GetUserCards(ctx, b.UserID, ids)
	if err != nil {
		return nil, fmt.Errorf("load battle cards: %w", err)
	}
	byID := make(map[uint]*game.Card, len(owned))
	for i := range owned {
		byID[owned[i].ID] = &owned[i]
	}
	for _, cs := range st.PlayerCards {
		c, ok := byID[cs.ID]
		if !ok {
			continue
		}
		c.SetCurrentHP(cs.HP)
		if !cs.Alive {
			res.CardsLost++
			s.applyDefeatPolicy(c, now)
		}
		if err := tx.SaveCard(ctx, c); err != nil {
			return nil, fmt.Errorf("save card %d: %w", c.ID, err)
		}
	}

	if won {
		res.XPEarned = st.XPReward
		if res.CardsLost == 0 {
			res.XPEarned = int(math.Floor(float64(st.XPReward) * flawlessXPBonus))
		}
		res.StatPointsEarned = st.StatPointsReward

		period := game.PeriodStart(now)
		defeated, err := tx.IsMonsterDefeated(ctx, b.UserID, b.MonsterID, period)
		if err != nil {
			return nil, fmt.Errorf("check defeat: %w", err)
		}
		if !defeated {
			d := &game.DefeatedMonster{UserID: b.UserID, MonsterID: b.MonsterID, PeriodStart: period}
			if err := tx.RecordDefeat(ctx, d); err != nil {
				return nil, fmt.Errorf("record defeat: %w", err)
			}
		}

		if st.IsBoss {
			res.RewardCard, err = s.grantBossReward(ctx, tx, b, st)
			if err != nil {
				return nil, err
			}
		}
	}

	p, err := tx.GetProgress(ctx, b.UserID)
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	if won {
		p.BattlesWon++
		p.XP += int64(res.XPEarned)
		p.StatPoints += res.StatPointsEarned
	} else {
		p.BattlesLost++
	}
	if err := tx.SaveProgress(ctx, p); err != nil {
		return nil, fmt.Errorf("save progress: %w", err)
	}

	if turnLog == nil {
		turnLog = []game.TurnLogEntry{}
	}
	res.Log = &game.BattleLog{
		ID:               uuid.NewString(),
		UserID:           b.UserID,
		BattleID:         b.ID,
		MonsterID:        b.MonsterID,
		Won:              won,
		Rounds:           b.CurrentRound,
		DamageDealt:      b.DamageDealt,
		DamageTaken:      b.DamageTaken,
		XPEarned:         res.XPEarned,
		StatPointsEarned: res.StatPointsEarned,
		CardsLost:        res.CardsLost,
		TurnLog:          datatypes.NewJSONType(turnLog),
		CreatedAt:        now,
	}
	if res.RewardCard != nil {
		id := res.RewardCard.ID
		res.Log.RewardCardID = &id
	}
	if err := tx.CreateBattleLog(ctx, res.Log); err != nil {
		return nil, fmt.Errorf("write battle log: %w", err)
	}

	b.Status = game.BattleLost
	if won {
		b.Status = game.BattleWon
	}
	b.ActiveSlot = nil
	if err := tx.SaveBattle(ctx, b); err != nil {
		return nil, fmt.Errorf("close battle: %w", err)
	}

	logging.Info("battle ended", logging.Fields{
		constants.LogFieldUserID:   b.UserID,
		constants.LogFieldBattleID: b.ID,
		constants.LogFieldOutcome:  b.Status,
		constants.LogFieldRound:    b.CurrentRound,
		constants.LogFieldXP:       res.XPEarned,
	})
	return res, nil
}

func (s *BattleService) applyDefeatPolicy(c *game.Card, now time.Time) {
	logging.Info("card lost in battle", logging.Fields{
		constants.LogFieldUserID: c.UserID,
		constants.LogFieldCardID: c.ID,
		constants.LogFieldPolicy: s.cfg.DefeatPolicy,
	})
	if s.cfg.DefeatPolicy == config.DefeatCooldown {
		c.SetCurrentHP(c.HP)
		until := now.Add(s.cfg.CardCooldown)
		c.CooldownUntil = &until
		return
	}
	c.Retire()
}

// grantBossReward asks the generator for a reward card and stores it. A
// generator failure is logged and yields no card.
func (s *BattleService) grantBossReward(ctx context.Context, tx storage.Repository, b *game.ActiveBattle, st game.BattleState) (*game.Card, error) {
	rarity := engine.BossRewardRarity(s.rng)
	c, err := s.cards.GenerateCard(ctx, game.CardSpec{
		UserID:       b.UserID,
		Rarity:       rarity,
		Genre:        st.Genre,
		ContextTitle: st.MonsterName,
	})
	if err == nil && c == nil {
		err = errNoCard
	}
	if err != nil {
		logging.Warn("boss reward generation failed", logging.Fields{
			constants.LogFieldUserID:   b.UserID,
			constants.LogFieldBattleID: b.ID,
			constants.LogFieldRarity:   rarity,
			"error":                    err.Error(),
		})
		return nil, nil
	}
	c.UserID = b.UserID
	c.Rarity = rarity
	if err := tx.CreateCard(ctx, c); err != nil {
		return nil, fmt.Errorf("store reward card: %w", err)
	}
	return c, nil
}
