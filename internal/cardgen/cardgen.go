package cardgen

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/moodsprint/battle-engine/internal/config"
	"github.com/moodsprint/battle-engine/internal/engine"
	"github.com/moodsprint/battle-engine/internal/game"
)

var (
	ErrUnknownGenre  = errors.New("genre has no card templates")
	ErrInvalidRarity = errors.New("invalid rarity")
)

// TemplateGenerator synthesizes cards from a genre's card templates, scaled
// by the rarity multiplier. Cards are returned unsaved.
type TemplateGenerator struct {
	catalog *config.CatalogConfig
	rng     engine.Random
}

func NewTemplateGenerator(catalog *config.CatalogConfig, rng engine.Random) *TemplateGenerator {
	return &TemplateGenerator{catalog: catalog, rng: rng}
}

func (g *TemplateGenerator) GenerateCard(ctx context.Context, spec game.CardSpec) (*game.Card, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !spec.Rarity.Valid() {
		return nil, fmt.Errorf("%w %q", ErrInvalidRarity, spec.Rarity)
	}
	genre := spec.Genre
	if genre == "" {
		genre = g.catalog.DefaultGenre
	}
	gc, ok := g.catalog.Genre(genre)
	if !ok || len(gc.Cards) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownGenre, genre)
	}

	t := gc.Cards[g.rng.IntN(len(gc.Cards))]
	mult := game.RarityMultipliers[spec.Rarity]
	hp := scale(t.HP, mult)
	c := &game.Card{
		UserID:      spec.UserID,
		Name:        t.Name,
		Emoji:       t.Emoji,
		Genre:       gc.Name,
		Rarity:      spec.Rarity,
		HP:          hp,
		CurrentHP:   hp,
		Attack:      scale(t.Attack, mult),
		IsTradeable: true,
	}
	if g.rng.Float64() < game.AbilityChance[spec.Rarity] {
		a := game.Abilities[g.rng.IntN(len(game.Abilities))]
		c.Ability = &a
		c.AbilityCooldown = game.AbilityConfigs[a].Cooldown
	}
	return c, nil
}

func scale(v int, mult float64) int {
	n := int(math.Round(float64(v) * mult))
	if n < 1 {
		return 1
	}
	return n
}
