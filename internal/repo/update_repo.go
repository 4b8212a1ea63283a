// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository helpers for ProcessedUpdate,
// used to answer Telegram webhook retries without dispatching twice.
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-access-bot/internal/domain"
)

// ErrDuplicate indicates that a non-expired record already exists for the
// given update id.
var ErrDuplicate = errors.New("duplicate")

// MarkUpdateProcessed records updateID as dispatched for ttl. It returns
// ErrDuplicate when the id was already recorded and has not expired yet. An
// expired record is refreshed and treated as new.
func MarkUpdateProcessed(ctx context.Context, db *gorm.DB, updateID int64, ttl time.Duration, now time.Time) error {
	rec := &domain.ProcessedUpdate{
		UpdateID:  updateID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	err := db.WithContext(ctx).Create(rec).Error
	if err == nil {
		return nil
	}
	if !isUniqueViolation(err) {
		return err
	}
	res := db.WithContext(ctx).
		Model(&domain.ProcessedUpdate{}).
		Where("update_id = ? AND expires_at <= ?", updateID, now).
		Updates(map[string]any{"created_at": now, "expires_at": now.Add(ttl)})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrDuplicate
	}
	return nil
}

// PurgeExpiredUpdates deletes records whose retention has elapsed and returns
// how many were removed.
func PurgeExpiredUpdates(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Where("expires_at <= ?", now).
		Delete(&domain.ProcessedUpdate{})
	return res.RowsAffected, res.Error
}

// isUniqueViolation recognizes primary-key/unique conflicts. glebarez/sqlite
// often returns plain-text errors for UNIQUE violations.
func isUniqueViolation(err error) bool {
	low := strings.ToLower(err.Error())
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(low, "unique constraint failed") ||
		strings.Contains(low, "constraint failed: unique")
}
