package service

import (
	"context"
	"errors"

	"github.com/moodsprint/battle-engine/internal/game"
)

//go:generate go tool mockgen -destination=./mocks/mock_cardgen.go -package=mocks . CardGenerator

// CardGenerator synthesizes a new card for boss rewards and merge results.
// The returned card is not persisted; the caller stores it in its own
// transaction. A failure only means the reward is absent.
type CardGenerator interface {
	GenerateCard(ctx context.Context, spec game.CardSpec) (*game.Card, error)
}

var errNoCard = errors.New("generator returned no card")
