package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-access-bot/internal/config"
	"github.com/tbourn/go-access-bot/internal/http/handlers"
	"github.com/tbourn/go-access-bot/internal/repo"
	"github.com/tbourn/go-access-bot/internal/services"
)

// backingStore is everything the process needs from persistence.
type backingStore interface {
	services.Store
	handlers.UpdateLog
	PurgeExpiredUpdates(ctx context.Context) (int64, error)
}

// openStore returns the configured SQLite store, or the degraded store
// when no DB_PATH is set. The returned func closes the database.
func openStore(cfg config.StoreConfig) (backingStore, func() error, error) {
	if !cfg.Configured() {
		log.Warn().Msg("DB_PATH not set; store unconfigured, all access checks fail closed")
		return repo.Unconfigured{}, func() error { return nil }, nil
	}

	db, err := repo.OpenSQLite(cfg.DBPath, cfg.Timeout)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", cfg.DBPath, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, err
	}
	if err := repo.AutoMigrate(db); err != nil {
		_ = sqlDB.Close()
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}
	log.Info().Str("path", cfg.DBPath).Msg("store opened")
	return repo.NewStore(db, cfg.Timeout), sqlDB.Close, nil
}
