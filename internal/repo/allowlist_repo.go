// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the allow_list
// table (the Allow-List Ledger).
package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-access-bot/internal/domain"
)

// SetAuthorization writes the authorization fact for id in one statement.
// Granting records grantedBy and the grant time; revoking only flips the flag
// and keeps who granted it last. The principal row must already exist.
func SetAuthorization(ctx context.Context, db *gorm.DB, id int64, authorized bool, grantedBy *int64, now time.Time) error {
	e := &domain.AllowEntry{
		PrincipalID:  id,
		IsAuthorized: authorized,
		UpdatedAt:    now,
	}
	update := []string{"is_authorized", "updated_at"}
	if authorized {
		e.AuthorizedBy = grantedBy
		e.AuthorizedAt = &now
		update = append(update, "authorized_by", "authorized_at")
	}
	return db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "identifier"}},
			DoUpdates: clause.AssignmentColumns(update),
		}).
		Create(e).Error
}

// CreateAuthorizedPrincipal pre-authorizes an identifier that has never been
// seen: it inserts the principal (if still absent) and a granted allow-list
// entry in one transaction.
func CreateAuthorizedPrincipal(ctx context.Context, db *gorm.DB, id, grantedBy int64, now time.Time) (*domain.Principal, error) {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := InsertPrincipalIfAbsent(ctx, tx, id, now); err != nil {
			return err
		}
		return SetAuthorization(ctx, tx, id, true, &grantedBy, now)
	})
	if err != nil {
		return nil, err
	}
	return GetPrincipal(ctx, db, id)
}

// GetAllowEntry returns the allow-list entry for id, or ErrNotFound.
func GetAllowEntry(ctx context.Context, db *gorm.DB, id int64) (*domain.AllowEntry, error) {
	var e domain.AllowEntry
	if err := db.WithContext(ctx).Where("identifier = ?", id).First(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

// IsAuthorized reports the authorization flag for id. A missing entry is
// reported as false with a nil error.
func IsAuthorized(ctx context.Context, db *gorm.DB, id int64) (bool, error) {
	e, err := GetAllowEntry(ctx, db, id)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return e.IsAuthorized, nil
}

// ListAuthorized returns authorized principals, most recently created first.
// A limit <= 0 returns all of them.
func ListAuthorized(ctx context.Context, db *gorm.DB, limit int) ([]domain.Principal, error) {
	var out []domain.Principal
	q := db.WithContext(ctx).
		Model(&domain.Principal{}).
		Joins("JOIN allow_list ON allow_list.identifier = principals.identifier").
		Where("allow_list.is_authorized = ?", true).
		Order("principals.created_at desc").
		Order("principals.identifier desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&out).Error
	return out, err
}

// CountAuthorized returns the number of principals currently authorized.
func CountAuthorized(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.AllowEntry{}).
		Where("is_authorized = ?", true).
		Count(&total).Error
	return total, err
}
