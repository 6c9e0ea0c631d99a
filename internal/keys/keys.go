package keys

import (
	"sort"
	"time"

	"github.com/gosimple/slug"
	"github.com/moodsprint/battle-engine/internal/game"
)

// RarityPairKey produces the canonical merge-table key for two rarities.
// Behavior: orders the pair by rank (lowest first) and joins with "+", so
// (rare, common) and (common, rare) both yield "common+rare".
func RarityPairKey(a, b game.Rarity) string {
	parts := []game.Rarity{a, b}
	sort.SliceStable(parts, func(i, j int) bool { return parts[i].Rank() < parts[j].Rank() })
	return string(parts[0]) + "+" + string(parts[1])
}

// GenreKey normalizes a genre name for lookups, e.g. "Sci Fi" -> "sci-fi".
func GenreKey(genre string) string {
	return slug.Make(genre)
}

// RosterKey identifies one genre's roster for a rotation period, e.g.
// "roster:fantasy:2026-10-19".
func RosterKey(genre string, period time.Time) string {
	return "roster:" + GenreKey(genre) + ":" + period.UTC().Format(time.DateOnly)
}
