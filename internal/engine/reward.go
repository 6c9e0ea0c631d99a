package engine

import "github.com/moodsprint/battle-engine/internal/game"

// bossRewardTable is the rarity distribution of the card granted for a
// boss kill. Common is never awarded.
var bossRewardTable = Distribution{
	{game.RarityUncommon, 0.45},
	{game.RarityRare, 0.35},
	{game.RarityEpic, 0.15},
	{game.RarityLegendary, 0.05},
}

// BossRewardRarity rolls the rarity of a boss reward card.
func BossRewardRarity(rng Random) game.Rarity {
	return bossRewardTable.Roll(rng)
}
