package db

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/diewo77/qrsona/internal/config"
	"github.com/diewo77/qrsona/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	connectAttempts = 5
	connectBackoff  = 2 * time.Second
)

// Open connects to the configured database. Postgres gets a few retries so
// the server can start alongside its database container.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gcfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn), TranslateError: true}
	if cfg.Debug {
		gcfg.Logger = logger.Default.LogMode(logger.Info)
	}

	switch cfg.Driver {
	case "", "sqlite":
		slog.Info("opening database", "driver", "sqlite", "path", cfg.SQLitePath)
		db, err := gorm.Open(sqlite.Open(SQLiteDSN(cfg.SQLitePath)), gcfg)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		return db, nil
	case "postgres":
		dsn := NormalizeDSN(cfg.PostgresDSN())
		slog.Info("opening database", "driver", "postgres", "host", cfg.Host, "port", cfg.Port, "dbname", cfg.DBName)
		var (
			db  *gorm.DB
			err error
		)
		for i := 0; i < connectAttempts; i++ {
			db, err = gorm.Open(postgres.Open(dsn), gcfg)
			if err == nil {
				return db, nil
			}
			slog.Warn("database connection failed, retrying", "attempt", i+1, "of", connectAttempts, "err", err)
			time.Sleep(connectBackoff)
		}
		return nil, fmt.Errorf("open postgres: %w", err)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// SQLiteDSN maps ":memory:" to a shared in-memory database so every pooled
// connection sees the same tables.
func SQLiteDSN(path string) string {
	if path == ":memory:" {
		return "file::memory:?cache=shared"
	}
	return path
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.OptionField{},
		&models.Link{},
		&models.Connection{},
	); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
