package storage

import (
	"context"
	"errors"
	"time"

	"github.com/moodsprint/battle-engine/internal/game"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gormRepository struct {
	db *gorm.DB
}

// NewGormRepository wraps a database opened by OpenDB. The database must
// be opened with TranslateError so constraint violations map to
// ErrDuplicate.
func NewGormRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// translate maps gorm errors onto the package sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}

func (r *gormRepository) Transaction(ctx context.Context, fn func(tx Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormRepository{db: tx})
	})
}

func (r *gormRepository) GetUserCard(ctx context.Context, userID int64, cardID uint) (*game.Card, error) {
	var c game.Card
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", cardID, userID).First(&c).Error
	if err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *gormRepository) GetUserCards(ctx context.Context, userID int64, ids []uint) ([]game.Card, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []game.Card
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id IN ?", userID, ids).Find(&found).Error; err != nil {
		return nil, translate(err)
	}
	byID := make(map[uint]game.Card, len(found))
	for _, c := range found {
		byID[c.ID] = c
	}
	// keep the caller's order, drop repeats
	out := make([]game.Card, 0, len(found))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			out = append(out, c)
			delete(byID, id)
		}
	}
	return out, nil
}

func (r *gormRepository) ListCards(ctx context.Context, userID int64) ([]game.Card, error) {
	var cards []game.Card
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_destroyed = ?", userID, false).
		Order("id").
		Find(&cards).Error
	return cards, translate(err)
}

func (r *gormRepository) ListDeck(ctx context.Context, userID int64) ([]game.Card, error) {
	var cards []game.Card
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_in_deck = ? AND is_destroyed = ?", userID, true, false).
		Order("id").
		Find(&cards).Error
	return cards, translate(err)
}

func (r *gormRepository) CreateCard(ctx context.Context, c *game.Card) error {
	return translate(r.db.WithContext(ctx).Create(c).Error)
}

func (r *gormRepository) SaveCard(ctx context.Context, c *game.Card) error {
	return translate(r.db.WithContext(ctx).Save(c).Error)
}

func (r *gormRepository) GetMonster(ctx context.Context, id uint) (*game.Monster, error) {
	var m game.Monster
	err := r.db.WithContext(ctx).
		Preload("Cards", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&m, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (r *gormRepository) CreateMonster(ctx context.Context, m *game.Monster) error {
	return translate(r.db.WithContext(ctx).Create(m).Error)
}

func (r *gormRepository) CreateRosterSlot(ctx context.Context, s *game.RosterSlot) error {
	return translate(r.db.WithContext(ctx).Create(s).Error)
}

func (r *gormRepository) ListRoster(ctx context.Context, genre string, period time.Time) ([]game.Monster, error) {
	var slots []game.RosterSlot
	err := r.db.WithContext(ctx).
		Where("genre = ? AND period_start = ?", genre, period.UTC()).
		Order("slot").
		Find(&slots).Error
	if err != nil {
		return nil, translate(err)
	}
	if len(slots) == 0 {
		return nil, nil
	}
	ids := make([]uint, len(slots))
	for i, s := range slots {
		ids[i] = s.MonsterID
	}
	var monsters []game.Monster
	err = r.db.WithContext(ctx).
		Preload("Cards", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Where("id IN ?", ids).
		Find(&monsters).Error
	if err != nil {
		return nil, translate(err)
	}
	byID := make(map[uint]game.Monster, len(monsters))
	for _, m := range monsters {
		byID[m.ID] = m
	}
	out := make([]game.Monster, 0, len(slots))
	for _, id := range ids {
		if m, ok := byID[id]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *gormRepository) RecordDefeat(ctx context.Context, d *game.DefeatedMonster) error {
	d.PeriodStart = d.PeriodStart.UTC()
	return translate(r.db.WithContext(ctx).Create(d).Error)
}

func (r *gormRepository) IsMonsterDefeated(ctx context.Context, userID int64, monsterID uint, period time.Time) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&game.DefeatedMonster{}).
		Where("user_id = ? AND monster_id = ? AND period_start = ?", userID, monsterID, period.UTC()).
		Count(&n).Error
	return n > 0, translate(err)
}

func (r *gormRepository) DefeatedMonsterIDs(ctx context.Context, userID int64, period time.Time) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&game.DefeatedMonster{}).
		Where("user_id = ? AND period_start = ?", userID, period.UTC()).
		Pluck("monster_id", &ids).Error
	return ids, translate(err)
}

func (r *gormRepository) GetActiveBattle(ctx context.Context, userID int64) (*game.ActiveBattle, error) {
	var b game.ActiveBattle
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, game.BattleActive).
		First(&b).Error
	if err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

func (r *gormRepository) CreateBattle(ctx context.Context, b *game.ActiveBattle) error {
	b.PeriodStart = b.PeriodStart.UTC()
	return translate(r.db.WithContext(ctx).Create(b).Error)
}

func (r *gormRepository) SaveBattle(ctx context.Context, b *game.ActiveBattle) error {
	return translate(r.db.WithContext(ctx).Save(b).Error)
}

func (r *gormRepository) CreateBattleLog(ctx context.Context, l *game.BattleLog) error {
	return translate(r.db.WithContext(ctx).Create(l).Error)
}

func (r *gormRepository) ListBattleLogs(ctx context.Context, userID int64, limit int) ([]game.BattleLog, error) {
	var logs []game.BattleLog
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(logLimit(limit)).
		Find(&logs).Error
	return logs, translate(err)
}

func (r *gormRepository) CreateMergeLog(ctx context.Context, l *game.MergeLog) error {
	return translate(r.db.WithContext(ctx).Create(l).Error)
}

func (r *gormRepository) ListMergeLogs(ctx context.Context, userID int64, limit int) ([]game.MergeLog, error) {
	var logs []game.MergeLog
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(logLimit(limit)).
		Find(&logs).Error
	return logs, translate(err)
}

func (r *gormRepository) GetProgress(ctx context.Context, userID int64) (*game.UserProgress, error) {
	var p game.UserProgress
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &game.UserProgress{UserID: userID}, nil
		}
		return nil, translate(err)
	}
	return &p, nil
}

// SaveProgress upserts on user_id so a zero record from GetProgress can be
// saved without a prior insert.
func (r *gormRepository) SaveProgress(ctx context.Context, p *game.UserProgress) error {
	if p.ID != 0 {
		return translate(r.db.WithContext(ctx).Save(p).Error)
	}
	return translate(r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"genre", "xp", "stat_points", "battles_won", "battles_lost", "cards_merged", "updated_at",
		}),
	}).Create(p).Error)
}
