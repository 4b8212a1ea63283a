// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Principal
// model (the Identity Store).
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions. They follow the "thin repository"
// approach: no business logic, only persistence and query composition.
//
// Error semantics:
//   - When a principal is not found, functions return gorm.ErrRecordNotFound
//     (exported here as ErrNotFound).
//   - On DB errors the raw gorm error is propagated.
//
// None of these functions read or write the allow_list table: a principal
// upsert can never change authorization state.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-access-bot/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// UpsertPrincipal creates the principal on first sighting or refreshes its
// handle, display name and UpdatedAt. CreatedAt is only written on insert.
// The statement is a single INSERT ... ON CONFLICT, so concurrent upserts of
// the same identifier cannot produce duplicates.
func UpsertPrincipal(ctx context.Context, db *gorm.DB, id int64, handle, displayName *string, now time.Time) (*domain.Principal, error) {
	p := &domain.Principal{
		ID:          id,
		Handle:      handle,
		DisplayName: displayName,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "identifier"}},
			DoUpdates: clause.AssignmentColumns([]string{"handle", "display_name", "updated_at"}),
		}).
		Create(p).Error
	if err != nil {
		return nil, err
	}
	// Read back to return the persisted CreatedAt of an existing row.
	return GetPrincipal(ctx, db, id)
}

// InsertPrincipalIfAbsent creates a bare principal row (no handle) unless the
// identifier already exists. Existing rows are left untouched.
func InsertPrincipalIfAbsent(ctx context.Context, db *gorm.DB, id int64, now time.Time) error {
	p := &domain.Principal{ID: id, CreatedAt: now, UpdatedAt: now}
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(p).Error
}

// GetPrincipal fetches a principal by identifier, or ErrNotFound.
func GetPrincipal(ctx context.Context, db *gorm.DB, id int64) (*domain.Principal, error) {
	var p domain.Principal
	if err := db.WithContext(ctx).Where("identifier = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// GetPrincipalByHandle fetches a principal by exact handle (without '@'),
// or ErrNotFound. Handles are mutable metadata and may collide after a
// rename; the most recently refreshed principal wins.
func GetPrincipalByHandle(ctx context.Context, db *gorm.DB, handle string) (*domain.Principal, error) {
	var p domain.Principal
	err := db.WithContext(ctx).
		Where("handle = ?", handle).
		Order("updated_at desc").
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CountPrincipals returns the number of known principals.
func CountPrincipals(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.Principal{}).Count(&total).Error
	return total, err
}
