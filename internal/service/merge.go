package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/moodsprint/battle-engine/internal/constants"
	"github.com/moodsprint/battle-engine/internal/engine"
	"github.com/moodsprint/battle-engine/internal/game"
	"github.com/moodsprint/battle-engine/internal/logging"
	"github.com/moodsprint/battle-engine/internal/storage"
)

// MergeService fuses two owned cards into one of a rolled rarity.
type MergeService struct {
	repo  storage.Repository
	cards CardGenerator
	rng   engine.Random
	clock game.Clock
}

func NewMergeService(repo storage.Repository, cards CardGenerator, rng engine.Random, clock game.Clock) *MergeService {
	return &MergeService{repo: repo, cards: cards, rng: rng, clock: clock}
}

// MergePreview is the outcome distribution two cards would merge with.
type MergePreview struct {
	Chances engine.Distribution
	Bonuses []engine.MergeBonus
}

// MergeResult describes a completed merge. Card is nil when the generator
// failed; the inputs are consumed either way.
type MergeResult struct {
	Card    *game.Card
	Rarity  game.Rarity
	Genre   string
	Chances engine.Distribution
	Bonuses []engine.MergeBonus
	Log     *game.MergeLog
}

// validateMerge loads both cards and checks, in order: distinct ids,
// ownership, destroyed, legendary, in deck, and a known rarity pair.
func validateMerge(ctx context.Context, repo storage.Repository, userID int64, id1, id2 uint) (*game.Card, *game.Card, *MergePreview, error) {
	if id1 == id2 {
		return nil, nil, nil, ErrSameCard
	}
	c1, err := loadCard(ctx, repo, userID, id1)
	if err != nil {
		return nil, nil, nil, err
	}
	c2, err := loadCard(ctx, repo, userID, id2)
	if err != nil {
		return nil, nil, nil, err
	}
	if c1.IsDestroyed || c2.IsDestroyed {
		return nil, nil, nil, ErrCardDestroyed
	}
	if c1.Rarity == game.RarityLegendary || c2.Rarity == game.RarityLegendary {
		return nil, nil, nil, ErrCannotMergeLegendary
	}
	if c1.IsInDeck || c2.IsInDeck {
		return nil, nil, nil, ErrCardInDeck
	}
	chances, bonuses, err := engine.MergeChances(c1, c2)
	if errors.Is(err, engine.ErrInvalidRarityCombination) {
		return nil, nil, nil, ErrInvalidRarityCombination
	} else if err != nil {
		return nil, nil, nil, err
	}
	return c1, c2, &MergePreview{Chances: chances, Bonuses: bonuses}, nil
}

func loadCard(ctx context.Context, repo storage.Repository, userID int64, id uint) (*game.Card, error) {
	c, err := repo.GetUserCard(ctx, userID, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrCardNotFound
	} else if err != nil {
		return nil, fmt.Errorf("load card %d: %w", id, err)
	}
	return c, nil
}

// PreviewMerge runs merge validation and returns the shifted distribution
// without rolling or mutating anything.
func (s *MergeService) PreviewMerge(ctx context.Context, userID int64, id1, id2 uint) (*MergePreview, error) {
	_, _, p, err := validateMerge(ctx, s.repo, userID, id1, id2)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Merge consumes both cards and creates the result card. Once validation
// passes the merge always completes.
func (s *MergeService) Merge(ctx context.Context, userID int64, id1, id2 uint) (*MergeResult, error) {
	var out *MergeResult
	err := s.repo.Transaction(ctx, func(tx storage.Repository) error {
		c1, c2, p, err := validateMerge(ctx, tx, userID, id1, id2)
		if err != nil {
			return err
		}

		out = &MergeResult{
			Rarity:  p.Chances.Roll(s.rng),
			Genre:   engine.MergeGenre(s.rng, c1, c2),
			Chances: p.Chances,
			Bonuses: p.Bonuses,
		}
		out.Log = &game.MergeLog{
			ID:           uuid.NewString(),
			UserID:       userID,
			Card1ID:      c1.ID,
			Card1Name:    c1.Name,
			Card1Rarity:  c1.Rarity,
			Card2ID:      c2.ID,
			Card2Name:    c2.Name,
			Card2Rarity:  c2.Rarity,
			ResultRarity: out.Rarity,
			CreatedAt:    s.clock.Now(),
		}

		for _, c := range []*game.Card{c1, c2} {
			c.Retire()
			if err := tx.SaveCard(ctx, c); err != nil {
				return fmt.Errorf("retire card %d: %w", c.ID, err)
			}
		}

		card, err := s.cards.GenerateCard(ctx, game.CardSpec{
			UserID:       userID,
			Rarity:       out.Rarity,
			Genre:        out.Genre,
			ContextTitle: c1.Name + " + " + c2.Name,
		})
		if err == nil && card == nil {
			err = errNoCard
		}
		if err != nil {
			logging.Warn("merge card generation failed", logging.Fields{
				constants.LogFieldUserID: userID,
				constants.LogFieldRarity: out.Rarity,
				"error":                  err.Error(),
			})
		} else {
			card.UserID = userID
			card.Rarity = out.Rarity
			if err := tx.CreateCard(ctx, card); err != nil {
				return fmt.Errorf("store merged card: %w", err)
			}
			id := card.ID
			out.Log.ResultCardID = &id
			out.Card = card
		}

		if err := tx.CreateMergeLog(ctx, out.Log); err != nil {
			return fmt.Errorf("write merge log: %w", err)
		}
		prog, err := tx.GetProgress(ctx, userID)
		if err != nil {
			return fmt.Errorf("load progress: %w", err)
		}
		prog.CardsMerged++
		if err := tx.SaveProgress(ctx, prog); err != nil {
			return fmt.Errorf("save progress: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logging.Info("cards merged", logging.Fields{
		constants.LogFieldUserID:  userID,
		constants.LogFieldCardIDs: []uint{id1, id2},
		constants.LogFieldRarity:  out.Rarity,
	})
	return out, nil
}

// History lists the user's most recent merges, newest first.
func (s *MergeService) History(ctx context.Context, userID int64, limit int) ([]game.MergeLog, error) {
	logs, err := s.repo.ListMergeLogs(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list merge logs: %w", err)
	}
	return logs, nil
}
