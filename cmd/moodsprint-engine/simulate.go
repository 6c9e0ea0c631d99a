package main

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/moodsprint/battle-engine/internal/cardgen"
	"github.com/moodsprint/battle-engine/internal/engine"
	"github.com/moodsprint/battle-engine/internal/game"
	"github.com/moodsprint/battle-engine/internal/service"
	"github.com/moodsprint/battle-engine/internal/storage"
)

// cmdSimulate deals a user some generated starter cards and plays one battle
// against the first available monster, always attacking the weakest live
// monster card with the strongest live player card.
func cmdSimulate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("simulate", flag.ContinueOnError)
	cfgPath := fs.String("config", configPath(), "path to the YAML config file")
	userID := fs.Int64("user", 1, "simulated user id")
	genre := fs.String("genre", "", "genre to fight in (default: catalog default)")
	count := fs.Int("cards", 3, "number of starter cards to generate")
	rarityName := fs.String("rarity", string(game.RarityCommon), "starter card rarity")
	useDB := fs.Bool("db", false, "play against the configured database instead of memory")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rarity, ok := game.ParseRarity(*rarityName)
	if !ok {
		return fmt.Errorf("unknown rarity %q", *rarityName)
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return err
	}
	var repo storage.Repository = storage.NewMemoryRepo()
	if *useDB {
		if repo, err = openRepository(cfg); err != nil {
			return err
		}
	}
	svc := newServices(repo, cfg)
	gen := cardgen.NewTemplateGenerator(&cfg.Catalog, engine.NewRandom(cfg.Seed))

	if *genre != "" {
		if err := svc.Catalog.SetPreferredGenre(ctx, *userID, *genre); err != nil {
			return describe(err)
		}
	}
	preferred, err := svc.Catalog.PreferredGenre(ctx, *userID)
	if err != nil {
		return err
	}

	var ids []uint
	for i := 0; i < *count; i++ {
		c, err := gen.GenerateCard(ctx, game.CardSpec{UserID: *userID, Rarity: rarity, Genre: preferred})
		if err != nil {
			return err
		}
		if err := repo.CreateCard(ctx, c); err != nil {
			return err
		}
		if _, err := svc.Decks.AddToDeck(ctx, *userID, c.ID); err != nil && !errors.Is(err, service.ErrDeckFull) {
			return describe(err)
		}
		ids = append(ids, c.ID)
		fmt.Printf("dealt   %s %s [%s] hp=%d atk=%d\n", c.Emoji, c.Name, c.Rarity, c.HP, c.Attack)
	}

	monsters, err := svc.Catalog.GetAvailableMonsters(ctx, *userID)
	if err != nil {
		return describe(err)
	}
	if len(monsters) == 0 {
		return errors.New("every monster of this period is already defeated")
	}
	m := monsters[0]

	b, err := svc.Battles.StartBattle(ctx, *userID, m.ID, ids)
	if err != nil {
		return describe(err)
	}
	st := b.State.Data()
	fmt.Printf("battle  %s %s (%s mode, scale %.2f, %d cards)\n", st.MonsterEmoji, st.MonsterName, st.Mode, st.ScaleFactor, len(st.MonsterCards))

	for {
		attacker := pick(st.PlayerCards, func(a, b game.CardState) bool { return a.Attack > b.Attack })
		target := pick(st.MonsterCards, func(a, b game.CardState) bool { return a.HP < b.HP })
		out, err := svc.Battles.ExecuteTurn(ctx, *userID, attacker.ID, target.ID)
		if err != nil {
			return describe(err)
		}
		for _, e := range out.Log {
			printEntry(e)
		}
		if out.Result != nil {
			r := out.Result
			fmt.Printf("result  won=%t rounds=%d xp=%d stat_points=%d cards_lost=%d\n",
				r.Won, r.Log.Rounds, r.XPEarned, r.StatPointsEarned, r.CardsLost)
			if r.RewardCard != nil {
				fmt.Printf("reward  %s %s [%s]\n", r.RewardCard.Emoji, r.RewardCard.Name, r.RewardCard.Rarity)
			}
			return nil
		}
		st = out.Battle.State.Data()
	}
}

// pick returns the live card that best satisfies better.
func pick(cards []game.CardState, better func(a, b game.CardState) bool) game.CardState {
	var best *game.CardState
	for i := range cards {
		if !cards[i].Alive {
			continue
		}
		if best == nil || better(cards[i], *best) {
			best = &cards[i]
		}
	}
	return *best
}

func printEntry(e game.TurnLogEntry) {
	if e.Action == game.ActionCardDestroyed {
		fmt.Printf("r%-3d    %s %s (%s) destroyed\n", e.Round, e.CardEmoji, e.CardName, e.Actor)
		return
	}
	crit := ""
	if e.IsCritical {
		crit = " critical!"
	}
	fmt.Printf("r%-3d    %s %s -> %s %s: %d%s\n", e.Round, e.CardEmoji, e.CardName, e.TargetEmoji, e.TargetName, e.Damage, crit)
}

// describe prefixes domain failures with their code.
func describe(err error) error {
	if code := service.ErrorCode(err); code != service.CodeInternal {
		return fmt.Errorf("%s: %w", code, err)
	}
	return err
}
