package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/moodsprint/battle-engine/internal/config"
	"github.com/moodsprint/battle-engine/internal/constants"
	"github.com/moodsprint/battle-engine/internal/dedupe"
	"github.com/moodsprint/battle-engine/internal/engine"
	"github.com/moodsprint/battle-engine/internal/game"
	"github.com/moodsprint/battle-engine/internal/keys"
	"github.com/moodsprint/battle-engine/internal/logging"
	"github.com/moodsprint/battle-engine/internal/storage"
	"golang.org/x/sync/errgroup"
)

// CatalogService owns the weekly monster rotation. Rosters are generated
// lazily on first request and shared by every user for the period.
type CatalogService struct {
	repo    storage.Repository
	catalog *config.CatalogConfig
	rng     engine.Random
	clock   game.Clock
}

func NewCatalogService(repo storage.Repository, catalog *config.CatalogConfig, rng engine.Random, clock game.Clock) *CatalogService {
	return &CatalogService{repo: repo, catalog: catalog, rng: rng, clock: clock}
}

// RosterSummary reports one genre's roster for the current period.
type RosterSummary struct {
	Genre    string
	Period   time.Time
	Monsters int
	Bosses   int
}

// CurrentPeriod is the Monday 00:00 UTC opening the running rotation.
func (s *CatalogService) CurrentPeriod() time.Time {
	return game.PeriodStart(s.clock.Now())
}

// GetRoster returns genre's roster for the current period, generating it if
// needed.
func (s *CatalogService) GetRoster(ctx context.Context, genre string) ([]game.Monster, error) {
	return s.EnsureRoster(ctx, genre)
}

// EnsureRoster returns the current roster of genre. Concurrent callers in
// this process share one generation; a roster written first by another
// process is re-read.
func (s *CatalogService) EnsureRoster(ctx context.Context, genre string) ([]game.Monster, error) {
	gc, ok := s.catalog.Genre(genre)
	if !ok {
		return nil, ErrGenreNotFound
	}
	period := s.CurrentPeriod()
	// generation outlives the caller that started it; every caller waits on
	// its own context
	ch := dedupe.RosterGroup.DoChan(keys.RosterKey(gc.Name, period), func() (any, error) {
		return s.loadOrGenerate(context.WithoutCancel(ctx), gc, period)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return slices.Clone(res.Val.([]game.Monster)), nil
	}
}

func (s *CatalogService) loadOrGenerate(ctx context.Context, gc *config.GenreConfig, period time.Time) ([]game.Monster, error) {
	genreKey := keys.GenreKey(gc.Name)
	roster, err := s.repo.ListRoster(ctx, genreKey, period)
	if err != nil {
		return nil, fmt.Errorf("list roster: %w", err)
	}
	if len(roster) > 0 {
		return roster, nil
	}

	err = s.repo.Transaction(ctx, func(tx storage.Repository) error {
		existing, err := tx.ListRoster(ctx, genreKey, period)
		if err != nil {
			return fmt.Errorf("list roster: %w", err)
		}
		if len(existing) > 0 {
			roster = existing
			return nil
		}
		roster, err = s.generate(ctx, tx, gc, period)
		return err
	})
	if errors.Is(err, storage.ErrDuplicate) {
		logging.Info("roster already generated, reloading", logging.Fields{
			constants.LogFieldGenre:  gc.Name,
			constants.LogFieldPeriod: period.Format(time.DateOnly),
		})
		roster, err = s.repo.ListRoster(ctx, genreKey, period)
	}
	if err != nil {
		return nil, err
	}
	return roster, nil
}

// generate draws the period's normal monsters and bosses from the genre
// templates, each with a deck sampled without replacement from the card
// templates, and pins them to roster slots.
func (s *CatalogService) generate(ctx context.Context, tx storage.Repository, gc *config.GenreConfig, period time.Time) ([]game.Monster, error) {
	type pick struct {
		t    config.MonsterTemplate
		boss bool
	}
	var picks []pick
	for _, i := range engine.Sample(s.rng, len(gc.Monsters), s.catalog.NormalPerPeriod) {
		picks = append(picks, pick{t: gc.Monsters[i]})
	}
	for _, i := range engine.Sample(s.rng, len(gc.Bosses), s.catalog.BossesPerPeriod) {
		picks = append(picks, pick{t: gc.Bosses[i], boss: true})
	}

	genreKey := keys.GenreKey(gc.Name)
	roster := make([]game.Monster, 0, len(picks))
	for slot, p := range picks {
		m := game.Monster{
			Name:             p.t.Name,
			Emoji:            p.t.Emoji,
			Description:      p.t.Description,
			Genre:            gc.Name,
			HP:               p.t.HP,
			Attack:           p.t.Attack,
			Defense:          p.t.Defense,
			Speed:            p.t.Speed,
			XPReward:         p.t.XPReward,
			StatPointsReward: p.t.StatPointsReward,
			IsBoss:           p.boss,
			PeriodStart:      period,
		}
		size := s.catalog.NormalDeckSize
		if p.boss {
			size = s.catalog.BossDeckSize
		}
		for _, i := range engine.Sample(s.rng, len(gc.Cards), size) {
			ct := gc.Cards[i]
			m.Cards = append(m.Cards, game.MonsterCard{Name: ct.Name, Emoji: ct.Emoji, HP: ct.HP, Attack: ct.Attack})
		}
		if err := tx.CreateMonster(ctx, &m); err != nil {
			return nil, fmt.Errorf("create monster %s: %w", m.Name, err)
		}
		rs := &game.RosterSlot{Genre: genreKey, PeriodStart: period, Slot: slot, MonsterID: m.ID}
		if err := tx.CreateRosterSlot(ctx, rs); err != nil {
			return nil, fmt.Errorf("claim roster slot %d: %w", slot, err)
		}
		roster = append(roster, m)
	}

	logging.Info("roster generated", logging.Fields{
		constants.LogFieldGenre:  gc.Name,
		constants.LogFieldPeriod: period.Format(time.DateOnly),
		constants.LogFieldCount:  len(roster),
	})
	return roster, nil
}

// PreferredGenre is the user's chosen genre, or the catalog default.
func (s *CatalogService) PreferredGenre(ctx context.Context, userID int64) (string, error) {
	p, err := s.repo.GetProgress(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("load progress: %w", err)
	}
	if gc, ok := s.catalog.Genre(p.Genre); p.Genre != "" && ok {
		return gc.Name, nil
	}
	return s.catalog.DefaultGenre, nil
}

// SetPreferredGenre stores the genre used for GetAvailableMonsters.
func (s *CatalogService) SetPreferredGenre(ctx context.Context, userID int64, genre string) error {
	gc, ok := s.catalog.Genre(genre)
	if !ok {
		return ErrGenreNotFound
	}
	return s.repo.Transaction(ctx, func(tx storage.Repository) error {
		p, err := tx.GetProgress(ctx, userID)
		if err != nil {
			return fmt.Errorf("load progress: %w", err)
		}
		p.Genre = gc.Name
		if err := tx.SaveProgress(ctx, p); err != nil {
			return fmt.Errorf("save progress: %w", err)
		}
		return nil
	})
}

// GetAvailableMonsters returns the user's genre roster minus the monsters
// they already beat this period.
func (s *CatalogService) GetAvailableMonsters(ctx context.Context, userID int64) ([]game.Monster, error) {
	genre, err := s.PreferredGenre(ctx, userID)
	if err != nil {
		return nil, err
	}
	roster, err := s.EnsureRoster(ctx, genre)
	if err != nil {
		return nil, err
	}
	defeated, err := s.repo.DefeatedMonsterIDs(ctx, userID, s.CurrentPeriod())
	if err != nil {
		return nil, fmt.Errorf("list defeated monsters: %w", err)
	}
	return slices.DeleteFunc(roster, func(m game.Monster) bool {
		return slices.Contains(defeated, m.ID)
	}), nil
}

// RotateAll makes sure every configured genre has a roster for the current
// period.
func (s *CatalogService) RotateAll(ctx context.Context) ([]RosterSummary, error) {
	names := s.catalog.GenreNames()
	out := make([]RosterSummary, len(names))
	period := s.CurrentPeriod()

	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			roster, err := s.EnsureRoster(gctx, name)
			if err != nil {
				return fmt.Errorf("rotate %s: %w", name, err)
			}
			sum := RosterSummary{Genre: name, Period: period}
			for _, m := range roster {
				if m.IsBoss {
					sum.Bosses++
				} else {
					sum.Monsters++
				}
			}
			out[i] = sum
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
