package storage

import (
	"context"
	"fmt"

	"github.com/moodsprint/battle-engine/internal/constants"
	"github.com/moodsprint/battle-engine/internal/game"
	"github.com/moodsprint/battle-engine/internal/logging"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Models lists every table the engine owns, in migration order.
func Models() []any {
	return []any{
		&game.Card{},
		&game.Monster{},
		&game.MonsterCard{},
		&game.RosterSlot{},
		&game.DefeatedMonster{},
		&game.ActiveBattle{},
		&game.BattleLog{},
		&game.MergeLog{},
		&game.UserProgress{},
	}
}

// OpenDB connects with the named driver. Constraint violations are
// translated so the repository can report ErrDuplicate.
func OpenDB(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverSQLite, "":
		dialector = sqlite.Open(dsn)
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}
	if driver != DriverPostgres {
		// sqlite allows a single writer; serialize on one connection so
		// transactions queue instead of failing with SQLITE_BUSY.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// Migrate creates or updates every engine table. Unique indexes declared on
// the models carry the one-active-battle, roster-slot and defeat-once
// constraints.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// OpenAndMigrate is OpenDB followed by Migrate.
func OpenAndMigrate(driver, dsn string) (*gorm.DB, error) {
	db, err := OpenDB(driver, dsn)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	logging.Info("database ready", logging.Fields{constants.LogFieldDriver: driver})
	return db, nil
}

// Ping checks the underlying connection.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
