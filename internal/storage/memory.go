package storage

import (
	"context"
	"maps"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/moodsprint/battle-engine/internal/game"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type slotKey struct {
	genre  string
	period int64
	slot   int
}

type defeatKey struct {
	userID    int64
	monsterID uint
	period    int64
}

// memState is the full content of a MemoryRepo. Values are stored by copy
// so callers never alias stored records.
type memState struct {
	nextID      uint
	cards       map[uint]game.Card
	monsters    map[uint]game.Monster
	slots       map[slotKey]game.RosterSlot
	defeats     map[defeatKey]game.DefeatedMonster
	battles     map[uint]game.ActiveBattle
	activeSlots map[int64]uint
	battleLogs  []game.BattleLog
	mergeLogs   []game.MergeLog
	progress    map[int64]game.UserProgress
}

func newMemState() *memState {
	return &memState{
		cards:       make(map[uint]game.Card),
		monsters:    make(map[uint]game.Monster),
		slots:       make(map[slotKey]game.RosterSlot),
		defeats:     make(map[defeatKey]game.DefeatedMonster),
		battles:     make(map[uint]game.ActiveBattle),
		activeSlots: make(map[int64]uint),
		progress:    make(map[int64]game.UserProgress),
	}
}

func (s *memState) clone() *memState {
	return &memState{
		nextID:      s.nextID,
		cards:       maps.Clone(s.cards),
		monsters:    maps.Clone(s.monsters),
		slots:       maps.Clone(s.slots),
		defeats:     maps.Clone(s.defeats),
		battles:     maps.Clone(s.battles),
		activeSlots: maps.Clone(s.activeSlots),
		battleLogs:  slices.Clone(s.battleLogs),
		mergeLogs:   slices.Clone(s.mergeLogs),
		progress:    maps.Clone(s.progress),
	}
}

func (s *memState) id() uint {
	s.nextID++
	return s.nextID
}

// MemoryRepo is an in-process Repository. It enforces the same uniqueness
// constraints as the SQL schema. Transactions run serialized against a
// private copy that replaces the live state only when fn succeeds.
type MemoryRepo struct {
	// mu is nil for the repository handed to a transaction callback; the
	// outer repository already holds the lock.
	mu *sync.RWMutex
	st *memState
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{mu: &sync.RWMutex{}, st: newMemState()}
}

func (r *MemoryRepo) rlock() func() {
	if r.mu == nil {
		return func() {}
	}
	r.mu.RLock()
	return r.mu.RUnlock
}

func (r *MemoryRepo) lock() func() {
	if r.mu == nil {
		return func() {}
	}
	r.mu.Lock()
	return r.mu.Unlock
}

func (r *MemoryRepo) Transaction(ctx context.Context, fn func(tx Repository) error) error {
	if r.mu == nil {
		return fn(r)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	work := r.st.clone()
	if err := fn(&MemoryRepo{st: work}); err != nil {
		return err
	}
	r.st = work
	return nil
}

func stamp(m *gorm.Model, now time.Time) {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
}

// --- Cards ---------------------------------------------------------------

func (r *MemoryRepo) GetUserCard(ctx context.Context, userID int64, cardID uint) (*game.Card, error) {
	defer r.rlock()()
	c, ok := r.st.cards[cardID]
	if !ok || c.UserID != userID {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (r *MemoryRepo) GetUserCards(ctx context.Context, userID int64, ids []uint) ([]game.Card, error) {
	defer r.rlock()()
	out := make([]game.Card, 0, len(ids))
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		c, ok := r.st.cards[id]
		if !ok || c.UserID != userID || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, c)
	}
	return out, nil
}

func (r *MemoryRepo) listCards(match func(c game.Card) bool) []game.Card {
	var out []game.Card
	for _, c := range r.st.cards {
		if match(c) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *MemoryRepo) ListCards(ctx context.Context, userID int64) ([]game.Card, error) {
	defer r.rlock()()
	return r.listCards(func(c game.Card) bool { return c.UserID == userID && !c.IsDestroyed }), nil
}

func (r *MemoryRepo) ListDeck(ctx context.Context, userID int64) ([]game.Card, error) {
	defer r.rlock()()
	return r.listCards(func(c game.Card) bool {
		return c.UserID == userID && c.IsInDeck && !c.IsDestroyed
	}), nil
}

func (r *MemoryRepo) CreateCard(ctx context.Context, c *game.Card) error {
	defer r.lock()()
	if c.ID == 0 {
		c.ID = r.st.id()
	} else if _, exists := r.st.cards[c.ID]; exists {
		return ErrDuplicate
	}
	stamp(&c.Model, time.Now().UTC())
	r.st.cards[c.ID] = *c
	return nil
}

func (r *MemoryRepo) SaveCard(ctx context.Context, c *game.Card) error {
	if c.ID == 0 {
		return r.CreateCard(ctx, c)
	}
	defer r.lock()()
	stamp(&c.Model, time.Now().UTC())
	r.st.cards[c.ID] = *c
	return nil
}

// --- Monsters and rotation ------------------------------------------------

func (r *MemoryRepo) GetMonster(ctx context.Context, id uint) (*game.Monster, error) {
	defer r.rlock()()
	m, ok := r.st.monsters[id]
	if !ok {
		return nil, ErrNotFound
	}
	m.Cards = slices.Clone(m.Cards)
	return &m, nil
}

func (r *MemoryRepo) CreateMonster(ctx context.Context, m *game.Monster) error {
	defer r.lock()()
	now := time.Now().UTC()
	if m.ID == 0 {
		m.ID = r.st.id()
	}
	stamp(&m.Model, now)
	for i := range m.Cards {
		if m.Cards[i].ID == 0 {
			m.Cards[i].ID = r.st.id()
		}
		m.Cards[i].MonsterID = m.ID
		stamp(&m.Cards[i].Model, now)
	}
	stored := *m
	stored.Cards = slices.Clone(m.Cards)
	r.st.monsters[m.ID] = stored
	return nil
}

func (r *MemoryRepo) CreateRosterSlot(ctx context.Context, s *game.RosterSlot) error {
	defer r.lock()()
	k := slotKey{genre: s.Genre, period: s.PeriodStart.Unix(), slot: s.Slot}
	if _, exists := r.st.slots[k]; exists {
		return ErrDuplicate
	}
	s.ID = r.st.id()
	stamp(&s.Model, time.Now().UTC())
	r.st.slots[k] = *s
	return nil
}

func (r *MemoryRepo) ListRoster(ctx context.Context, genre string, period time.Time) ([]game.Monster, error) {
	defer r.rlock()()
	var slots []game.RosterSlot
	for k, s := range r.st.slots {
		if k.genre == genre && k.period == period.Unix() {
			slots = append(slots, s)
		}
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].Slot < slots[j].Slot })
	out := make([]game.Monster, 0, len(slots))
	for _, s := range slots {
		if m, ok := r.st.monsters[s.MonsterID]; ok {
			m.Cards = slices.Clone(m.Cards)
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *MemoryRepo) RecordDefeat(ctx context.Context, d *game.DefeatedMonster) error {
	defer r.lock()()
	k := defeatKey{userID: d.UserID, monsterID: d.MonsterID, period: d.PeriodStart.Unix()}
	if _, exists := r.st.defeats[k]; exists {
		return ErrDuplicate
	}
	d.ID = r.st.id()
	stamp(&d.Model, time.Now().UTC())
	r.st.defeats[k] = *d
	return nil
}

func (r *MemoryRepo) IsMonsterDefeated(ctx context.Context, userID int64, monsterID uint, period time.Time) (bool, error) {
	defer r.rlock()()
	_, ok := r.st.defeats[defeatKey{userID: userID, monsterID: monsterID, period: period.Unix()}]
	return ok, nil
}

func (r *MemoryRepo) DefeatedMonsterIDs(ctx context.Context, userID int64, period time.Time) ([]uint, error) {
	defer r.rlock()()
	var ids []uint
	for k := range r.st.defeats {
		if k.userID == userID && k.period == period.Unix() {
			ids = append(ids, k.monsterID)
		}
	}
	slices.Sort(ids)
	return ids, nil
}

// --- Battles ---------------------------------------------------------------

// copyBattle detaches the rosters inside the JSON state from the source.
func copyBattle(b game.ActiveBattle) game.ActiveBattle {
	b.State = datatypes.NewJSONType(b.State.Data().Clone())
	return b
}

func (r *MemoryRepo) GetActiveBattle(ctx context.Context, userID int64) (*game.ActiveBattle, error) {
	defer r.rlock()()
	for _, b := range r.st.battles {
		if b.UserID == userID && b.Status == game.BattleActive {
			out := copyBattle(b)
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

// claimSlot enforces the unique active slot. Must hold the write lock.
func (r *MemoryRepo) claimSlot(b *game.ActiveBattle) error {
	for user, id := range r.st.activeSlots {
		if id == b.ID && (b.ActiveSlot == nil || *b.ActiveSlot != user) {
			delete(r.st.activeSlots, user)
		}
	}
	if b.ActiveSlot == nil {
		return nil
	}
	if owner, taken := r.st.activeSlots[*b.ActiveSlot]; taken && owner != b.ID {
		return ErrDuplicate
	}
	r.st.activeSlots[*b.ActiveSlot] = b.ID
	return nil
}

func (r *MemoryRepo) CreateBattle(ctx context.Context, b *game.ActiveBattle) error {
	defer r.lock()()
	if b.ActiveSlot != nil {
		if _, taken := r.st.activeSlots[*b.ActiveSlot]; taken {
			return ErrDuplicate
		}
	}
	b.ID = r.st.id()
	if err := r.claimSlot(b); err != nil {
		return err
	}
	stamp(&b.Model, time.Now().UTC())
	r.st.battles[b.ID] = copyBattle(*b)
	return nil
}

func (r *MemoryRepo) SaveBattle(ctx context.Context, b *game.ActiveBattle) error {
	defer r.lock()()
	if _, ok := r.st.battles[b.ID]; !ok {
		return ErrNotFound
	}
	if err := r.claimSlot(b); err != nil {
		return err
	}
	stamp(&b.Model, time.Now().UTC())
	r.st.battles[b.ID] = copyBattle(*b)
	return nil
}

// --- Audit -----------------------------------------------------------------

func (r *MemoryRepo) CreateBattleLog(ctx context.Context, l *game.BattleLog) error {
	defer r.lock()()
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}
	stored := *l
	stored.TurnLog = datatypes.NewJSONType(slices.Clone(l.TurnLog.Data()))
	r.st.battleLogs = append(r.st.battleLogs, stored)
	return nil
}

func (r *MemoryRepo) ListBattleLogs(ctx context.Context, userID int64, limit int) ([]game.BattleLog, error) {
	defer r.rlock()()
	var out []game.BattleLog
	for i := len(r.st.battleLogs) - 1; i >= 0 && len(out) < logLimit(limit); i-- {
		if r.st.battleLogs[i].UserID == userID {
			out = append(out, r.st.battleLogs[i])
		}
	}
	return out, nil
}

func (r *MemoryRepo) CreateMergeLog(ctx context.Context, l *game.MergeLog) error {
	defer r.lock()()
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}
	r.st.mergeLogs = append(r.st.mergeLogs, *l)
	return nil
}

func (r *MemoryRepo) ListMergeLogs(ctx context.Context, userID int64, limit int) ([]game.MergeLog, error) {
	defer r.rlock()()
	var out []game.MergeLog
	for i := len(r.st.mergeLogs) - 1; i >= 0 && len(out) < logLimit(limit); i-- {
		if r.st.mergeLogs[i].UserID == userID {
			out = append(out, r.st.mergeLogs[i])
		}
	}
	return out, nil
}

// --- Progress --------------------------------------------------------------

func (r *MemoryRepo) GetProgress(ctx context.Context, userID int64) (*game.UserProgress, error) {
	defer r.rlock()()
	if p, ok := r.st.progress[userID]; ok {
		return &p, nil
	}
	return &game.UserProgress{UserID: userID}, nil
}

func (r *MemoryRepo) SaveProgress(ctx context.Context, p *game.UserProgress) error {
	defer r.lock()()
	if existing, ok := r.st.progress[p.UserID]; ok {
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
	} else if p.ID == 0 {
		p.ID = r.st.id()
	}
	stamp(&p.Model, time.Now().UTC())
	r.st.progress[p.UserID] = *p
	return nil
}
