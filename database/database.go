package database

import (
	"fmt"
	"os"
	"path/filepath"

	"gallery-kiosk/config"
	"gallery-kiosk/internal/store"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// InitDB opens the configured backend and migrates it. Failures are fatal.
func InitDB() {
	dsn := config.DB_URL
	if config.DB_DRIVER == config.DriverSQLite {
		dsn = config.SQLITE_PATH
	}

	db, err := Open(config.DB_DRIVER, dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to connect to database")
	}
	if err := Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("❌ AutoMigrate error")
	}
	if config.DB_DRIVER == config.DriverPostgres {
		if err := InstallNotifyTriggers(db, config.REALTIME_CHANNEL); err != nil {
			log.Fatal().Err(err).Msg("❌ Failed to install change triggers")
		}
	}

	DB = db
	log.Info().Str("driver", config.DB_DRIVER).Msg("✅ Connected and migrated successfully")
}

// Open connects to postgres (dsn is a URL) or to a local sqlite file (dsn
// is a path). The sqlite variant is the offline deployment.
func Open(driver, dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}

	switch driver {
	case config.DriverPostgres:
		db, err := gorm.Open(postgres.Open(dsn), cfg)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		return db, nil

	case config.DriverSQLite:
		if dir := filepath.Dir(dsn); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create %s: %w", dir, err)
			}
		}
		db, err := gorm.Open(sqlite.Open(dsn+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"), cfg)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", dsn, err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
		return db, nil
	}
	return nil, fmt.Errorf("unknown database driver %q", driver)
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&store.ArtworkRecord{},
		&store.ExhibitionRecord{},
		&store.ReservationRecord{},
	)
}
