package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/moodsprint/battle-engine/internal/config"
	"github.com/moodsprint/battle-engine/internal/constants"
	"github.com/moodsprint/battle-engine/internal/logging"
	"github.com/moodsprint/battle-engine/internal/storage"
)

// Exits 0 when the configured database answers a ping within two seconds.
func main() {
	_ = godotenv.Load()
	cfg, err := config.LoadConfig(os.Getenv(constants.EnvConfigPath))
	if err != nil {
		logging.Error("healthcheck: invalid configuration", err, nil)
		os.Exit(1)
	}
	db, err := storage.OpenDB(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		logging.Error("healthcheck: open database", err, logging.Fields{constants.LogFieldDriver: cfg.Database.Driver})
		os.Exit(1)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := storage.Ping(ctx, db); err != nil {
		logging.Error("healthcheck: ping", err, logging.Fields{constants.LogFieldDriver: cfg.Database.Driver})
		cancel()
		os.Exit(1)
	}
}
