package keys

import (
	"testing"
	"time"

	"github.com/moodsprint/battle-engine/internal/game"
	"github.com/stretchr/testify/assert"
)

func TestRarityPairKey_OrderIndependent(t *testing.T) {
	assert.Equal(t, "common+rare", RarityPairKey(game.RarityRare, game.RarityCommon))
	assert.Equal(t, "common+rare", RarityPairKey(game.RarityCommon, game.RarityRare))
	assert.Equal(t, "epic+epic", RarityPairKey(game.RarityEpic, game.RarityEpic))
}

func TestGenreKey(t *testing.T) {
	assert.Equal(t, "fantasy", GenreKey("  Fantasy "))
	assert.Equal(t, "sci-fi", GenreKey("Sci Fi"))
}

func TestRosterKey(t *testing.T) {
	p := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "roster:magic:2026-10-19", RosterKey("Magic", p))
}
