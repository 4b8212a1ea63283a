// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file contains database bootstrapping helpers for
// SQLite (pure Go driver) and schema migrations.
package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/tbourn/go-access-bot/internal/domain"
)

// sqlitePragmas are applied to every pooled connection through the DSN, so
// foreign keys and the busy timeout hold regardless of which connection
// serves a query.
const sqlitePragmas = "_pragma=journal_mode(WAL)" +
	"&_pragma=synchronous(NORMAL)" +
	"&_pragma=foreign_keys(1)" +
	"&_pragma=busy_timeout(%d)"

// gormLogger keeps GORM quiet; expected not-found lookups are handled and
// store failures are logged by the service layer.
var gormLogger = logger.Default.LogMode(logger.Silent)

// busyTimeoutMS caps SQLite's lock wait at the store call timeout; the
// driver does not interrupt a busy wait when the context expires.
func busyTimeoutMS(timeout time.Duration) int64 {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ms := timeout.Milliseconds()
	if ms < 1 {
		ms = 1
	}
	return ms
}

// OpenSQLite opens (or creates) a SQLite database, applies PRAGMAs and
// registers the OpenTelemetry tracing plugin. Lock waits are bounded by
// timeout (DefaultTimeout when <= 0).
func OpenSQLite(path string, timeout time.Duration) (*gorm.DB, error) {
	// Fail early if parent directory does not exist (instead of sqlite "out of memory (14)" on Windows).
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return nil, err
		}
	}

	dsn := path + "?" + fmt.Sprintf(sqlitePragmas, busyTimeoutMS(timeout))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, err
	}

	if err := db.Use(tracing.NewPlugin()); err != nil {
		return nil, err
	}

	// Pool
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	return db, nil
}

// AutoMigrate creates or updates the principals, allow_list and
// processed_updates tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Principal{},
		&domain.AllowEntry{},
		&domain.ProcessedUpdate{},
	)
}
