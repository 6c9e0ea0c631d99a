package service

import (
	"context"
	"fmt"

	"github.com/moodsprint/battle-engine/internal/engine"
	"github.com/moodsprint/battle-engine/internal/game"
	"github.com/moodsprint/battle-engine/internal/storage"
)

// DeckService manages the standing battle deck that drives opponent scaling.
type DeckService struct {
	repo  storage.Repository
	clock game.Clock
}

func NewDeckService(repo storage.Repository, clock game.Clock) *DeckService {
	return &DeckService{repo: repo, clock: clock}
}

func (s *DeckService) GetDeck(ctx context.Context, userID int64) ([]game.Card, error) {
	deck, err := s.repo.ListDeck(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list deck: %w", err)
	}
	return deck, nil
}

// DeckPower is the power the next battle will be scaled against.
func (s *DeckService) DeckPower(ctx context.Context, userID int64) (int, error) {
	deck, err := s.GetDeck(ctx, userID)
	if err != nil {
		return 0, err
	}
	return engine.DeckPower(deck), nil
}

// AddToDeck puts a card into the deck. Adding a card already in the deck is
// a no-op.
func (s *DeckService) AddToDeck(ctx context.Context, userID int64, cardID uint) (*game.Card, error) {
	var out *game.Card
	err := s.repo.Transaction(ctx, func(tx storage.Repository) error {
		c, err := loadCard(ctx, tx, userID, cardID)
		if err != nil {
			return err
		}
		if c.IsDestroyed {
			return ErrCardDestroyed
		}
		if c.IsOnCooldown(s.clock.Now()) {
			return ErrCardOnCooldown
		}
		out = c
		if c.IsInDeck {
			return nil
		}
		deck, err := tx.ListDeck(ctx, userID)
		if err != nil {
			return fmt.Errorf("list deck: %w", err)
		}
		if len(deck) >= engine.MaxDeckSize {
			return ErrDeckFull
		}
		c.IsInDeck = true
		if err := tx.SaveCard(ctx, c); err != nil {
			return fmt.Errorf("save card: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RemoveFromDeck takes a card out of the deck. Removing a card that is not
// in the deck is a no-op.
func (s *DeckService) RemoveFromDeck(ctx context.Context, userID int64, cardID uint) (*game.Card, error) {
	var out *game.Card
	err := s.repo.Transaction(ctx, func(tx storage.Repository) error {
		c, err := loadCard(ctx, tx, userID, cardID)
		if err != nil {
			return err
		}
		out = c
		if !c.IsInDeck {
			return nil
		}
		c.IsInDeck = false
		if err := tx.SaveCard(ctx, c); err != nil {
			return fmt.Errorf("save card: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListCards returns every usable card the user owns.
func (s *DeckService) ListCards(ctx context.Context, userID int64) ([]game.Card, error) {
	cards, err := s.repo.ListCards(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	return cards, nil
}
