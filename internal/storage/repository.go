package storage

import (
	"context"
	"errors"
	"time"

	"github.com/moodsprint/battle-engine/internal/game"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert or update violates one of the
	// uniqueness constraints (active battle slot, roster slot, defeat record).
	ErrDuplicate = errors.New("duplicate record")
)

type Repository interface {
	// Transaction runs fn against a repository bound to a single atomic unit
	// of work. Any error returned by fn rolls every write back.
	Transaction(ctx context.Context, fn func(tx Repository) error) error

	// Cards
	GetUserCard(ctx context.Context, userID int64, cardID uint) (*game.Card, error)
	// GetUserCards returns the owned cards among ids, in the order given.
	// Unknown or foreign ids are skipped.
	GetUserCards(ctx context.Context, userID int64, ids []uint) ([]game.Card, error)
	// ListCards returns every non-destroyed card a user owns, ordered by id.
	ListCards(ctx context.Context, userID int64) ([]game.Card, error)
	// ListDeck returns the user's standing battle deck ordered by id.
	ListDeck(ctx context.Context, userID int64) ([]game.Card, error)
	CreateCard(ctx context.Context, c *game.Card) error
	SaveCard(ctx context.Context, c *game.Card) error

	// Monsters and rotation
	GetMonster(ctx context.Context, id uint) (*game.Monster, error)
	// CreateMonster inserts a monster together with its pre-generated cards.
	CreateMonster(ctx context.Context, m *game.Monster) error
	CreateRosterSlot(ctx context.Context, s *game.RosterSlot) error
	// ListRoster returns the monsters of a genre's roster for a period,
	// ordered by slot.
	ListRoster(ctx context.Context, genre string, period time.Time) ([]game.Monster, error)
	RecordDefeat(ctx context.Context, d *game.DefeatedMonster) error
	IsMonsterDefeated(ctx context.Context, userID int64, monsterID uint, period time.Time) (bool, error)
	DefeatedMonsterIDs(ctx context.Context, userID int64, period time.Time) ([]uint, error)

	// Battles
	GetActiveBattle(ctx context.Context, userID int64) (*game.ActiveBattle, error)
	CreateBattle(ctx context.Context, b *game.ActiveBattle) error
	SaveBattle(ctx context.Context, b *game.ActiveBattle) error

	// Audit
	CreateBattleLog(ctx context.Context, l *game.BattleLog) error
	ListBattleLogs(ctx context.Context, userID int64, limit int) ([]game.BattleLog, error)
	CreateMergeLog(ctx context.Context, l *game.MergeLog) error
	ListMergeLogs(ctx context.Context, userID int64, limit int) ([]game.MergeLog, error)

	// Progress. GetProgress returns a zero record (not yet persisted) for
	// users without one.
	GetProgress(ctx context.Context, userID int64) (*game.UserProgress, error)
	SaveProgress(ctx context.Context, p *game.UserProgress) error
}

const defaultLogLimit = 50

func logLimit(limit int) int {
	if limit <= 0 {
		return defaultLogLimit
	}
	return limit
}
