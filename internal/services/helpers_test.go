package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-access-bot/internal/domain"
	"github.com/tbourn/go-access-bot/internal/repo"
)

// newTestStore returns a configured store over a throwaway SQLite file.
func newTestStore(t *testing.T) *repo.Store {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "svc.db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	require.NoError(t, repo.AutoMigrate(db))
	return repo.NewStore(db, time.Second)
}

// brokenStore fails every call as a network outage would.
type brokenStore struct{}

var errBoom = errors.New("connection refused")

func (brokenStore) UpsertPrincipal(context.Context, int64, *string, *string) (*domain.Principal, error) {
	return nil, errBoom
}
func (brokenStore) GetPrincipal(context.Context, int64) (*domain.Principal, error) {
	return nil, errBoom
}
func (brokenStore) GetPrincipalByHandle(context.Context, string) (*domain.Principal, error) {
	return nil, errBoom
}
func (brokenStore) SetAuthorization(context.Context, int64, bool, *int64) error { return errBoom }
func (brokenStore) CreateAuthorizedPrincipal(context.Context, int64, int64) (*domain.Principal, error) {
	return nil, errBoom
}
func (brokenStore) IsAuthorized(context.Context, int64) (bool, error) { return true, errBoom }
func (brokenStore) ListAuthorized(context.Context, int) ([]domain.Principal, error) {
	return nil, errBoom
}
func (brokenStore) Stats(context.Context) (domain.Stats, error) { return domain.Stats{}, errBoom }

func strp(s string) *string { return &s }
