// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides the two store handles consumed by the
// service layer:
//
//   - Store wraps a *gorm.DB and bounds every call with a timeout, so a stuck
//     backing store surfaces as an error instead of stalling an interaction.
//   - Unconfigured is the degraded variant used when no database is
//     configured; every call fails with ErrUnconfigured.
//
// Both satisfy services.Store.
package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-access-bot/internal/domain"
)

// ErrUnconfigured is returned by every Unconfigured method.
var ErrUnconfigured = errors.New("store not configured")

// DefaultTimeout bounds store calls when NewStore is given a non-positive timeout.
const DefaultTimeout = 5 * time.Second

// Store is the configured, GORM-backed store handle.
type Store struct {
	db      *gorm.DB
	timeout time.Duration
	now     func() time.Time
}

// NewStore returns a Store over db with a per-call timeout.
func NewStore(db *gorm.DB, timeout time.Duration) *Store {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Store{db: db, timeout: timeout, now: func() time.Time { return time.Now().UTC() }}
}

// DB exposes the underlying handle (health checks, tests).
func (s *Store) DB() *gorm.DB { return s.db }

func (s *Store) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

// UpsertPrincipal creates or refreshes a principal's metadata.
func (s *Store) UpsertPrincipal(ctx context.Context, id int64, handle, displayName *string) (*domain.Principal, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return UpsertPrincipal(ctx, s.db, id, handle, displayName, s.now())
}

// GetPrincipal looks a principal up by identifier.
func (s *Store) GetPrincipal(ctx context.Context, id int64) (*domain.Principal, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return GetPrincipal(ctx, s.db, id)
}

// GetPrincipalByHandle looks a principal up by exact handle.
func (s *Store) GetPrincipalByHandle(ctx context.Context, handle string) (*domain.Principal, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return GetPrincipalByHandle(ctx, s.db, handle)
}

// SetAuthorization grants or revokes access for an existing principal.
func (s *Store) SetAuthorization(ctx context.Context, id int64, authorized bool, grantedBy *int64) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return SetAuthorization(ctx, s.db, id, authorized, grantedBy, s.now())
}

// CreateAuthorizedPrincipal pre-authorizes a never-seen identifier.
func (s *Store) CreateAuthorizedPrincipal(ctx context.Context, id, grantedBy int64) (*domain.Principal, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return CreateAuthorizedPrincipal(ctx, s.db, id, grantedBy, s.now())
}

// IsAuthorized reads the authorization flag; missing entries are false.
func (s *Store) IsAuthorized(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return IsAuthorized(ctx, s.db, id)
}

// ListAuthorized returns up to limit authorized principals, newest first.
func (s *Store) ListAuthorized(ctx context.Context, limit int) ([]domain.Principal, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return ListAuthorized(ctx, s.db, limit)
}

// Stats counts known and authorized principals.
func (s *Store) Stats(ctx context.Context) (domain.Stats, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	total, err := CountPrincipals(ctx, s.db)
	if err != nil {
		return domain.Stats{}, err
	}
	authorized, err := CountAuthorized(ctx, s.db)
	if err != nil {
		return domain.Stats{}, err
	}
	return domain.Stats{TotalPrincipals: total, AuthorizedCount: authorized}, nil
}

// MarkUpdateProcessed records a dispatched Telegram update id.
func (s *Store) MarkUpdateProcessed(ctx context.Context, updateID int64, ttl time.Duration) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return MarkUpdateProcessed(ctx, s.db, updateID, ttl, s.now())
}

// PurgeExpiredUpdates removes processed update ids past their retention.
func (s *Store) PurgeExpiredUpdates(ctx context.Context) (int64, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return PurgeExpiredUpdates(ctx, s.db, s.now())
}

// Unconfigured is the degraded store used when no backing store is set up.
// Reads report ErrUnconfigured (callers fail closed); writes are dropped.
type Unconfigured struct{}

func (Unconfigured) UpsertPrincipal(context.Context, int64, *string, *string) (*domain.Principal, error) {
	return nil, ErrUnconfigured
}

func (Unconfigured) GetPrincipal(context.Context, int64) (*domain.Principal, error) {
	return nil, ErrUnconfigured
}

func (Unconfigured) GetPrincipalByHandle(context.Context, string) (*domain.Principal, error) {
	return nil, ErrUnconfigured
}

func (Unconfigured) SetAuthorization(context.Context, int64, bool, *int64) error {
	return ErrUnconfigured
}

func (Unconfigured) CreateAuthorizedPrincipal(context.Context, int64, int64) (*domain.Principal, error) {
	return nil, ErrUnconfigured
}

func (Unconfigured) IsAuthorized(context.Context, int64) (bool, error) {
	return false, ErrUnconfigured
}

func (Unconfigured) ListAuthorized(context.Context, int) ([]domain.Principal, error) {
	return nil, ErrUnconfigured
}

func (Unconfigured) Stats(context.Context) (domain.Stats, error) {
	return domain.Stats{}, ErrUnconfigured
}

func (Unconfigured) MarkUpdateProcessed(context.Context, int64, time.Duration) error {
	return ErrUnconfigured
}

func (Unconfigured) PurgeExpiredUpdates(context.Context) (int64, error) {
	return 0, ErrUnconfigured
}
