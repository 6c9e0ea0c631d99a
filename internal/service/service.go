package service

import (
	"github.com/moodsprint/battle-engine/internal/config"
	"github.com/moodsprint/battle-engine/internal/engine"
	"github.com/moodsprint/battle-engine/internal/game"
	"github.com/moodsprint/battle-engine/internal/storage"
)

// Services bundles the engine operations over one repository, generator,
// random source and clock.
type Services struct {
	Battles *BattleService
	Merges  *MergeService
	Decks   *DeckService
	Catalog *CatalogService
}

func New(repo storage.Repository, cfg *config.Config, cards CardGenerator, rng engine.Random, clock game.Clock) *Services {
	return &Services{
		Battles: NewBattleService(repo, cfg.Battle, &cfg.Catalog, cards, rng, clock),
		Merges:  NewMergeService(repo, cards, rng, clock),
		Decks:   NewDeckService(repo, clock),
		Catalog: NewCatalogService(repo, &cfg.Catalog, rng, clock),
	}
}
