package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/moodsprint/battle-engine/internal/cardgen"
	"github.com/moodsprint/battle-engine/internal/config"
	"github.com/moodsprint/battle-engine/internal/constants"
	"github.com/moodsprint/battle-engine/internal/engine"
	"github.com/moodsprint/battle-engine/internal/game"
	"github.com/moodsprint/battle-engine/internal/logging"
	"github.com/moodsprint/battle-engine/internal/service"
	"github.com/moodsprint/battle-engine/internal/storage"
)

// configPath resolves the config file: the MOODSPRINT_CONFIG variable, else
// ./moodsprint.yaml when it exists, else built-in defaults.
func configPath() string {
	if p := os.Getenv(constants.EnvConfigPath); p != "" {
		return p
	}
	if _, err := os.Stat(constants.DefaultConfigPath); err == nil {
		return constants.DefaultConfigPath
	}
	return ""
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	logging.SetLevel(cfg.LogLevel)
	return cfg, nil
}

func openRepository(cfg *config.Config) (storage.Repository, error) {
	db, err := storage.OpenAndMigrate(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	return storage.NewGormRepository(db), nil
}

func newServices(repo storage.Repository, cfg *config.Config) *service.Services {
	rng := engine.NewRandom(cfg.Seed)
	gen := cardgen.NewTemplateGenerator(&cfg.Catalog, rng)
	return service.New(repo, cfg, gen, rng, game.RealClock{})
}

func cmdMigrate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	cfgPath := fs.String("config", configPath(), "path to the YAML config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return err
	}
	db, err := storage.OpenAndMigrate(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return storage.Ping(pingCtx, db)
}

func cmdRotate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("rotate", flag.ContinueOnError)
	cfgPath := fs.String("config", configPath(), "path to the YAML config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return err
	}
	repo, err := openRepository(cfg)
	if err != nil {
		return err
	}

	sums, err := newServices(repo, cfg).Catalog.RotateAll(ctx)
	if err != nil {
		return err
	}
	for _, s := range sums {
		fmt.Printf("%-12s %s  monsters=%d bosses=%d\n", s.Genre, s.Period.Format(time.DateOnly), s.Monsters, s.Bosses)
	}
	return nil
}
