package services

import (
	"context"

	"github.com/tbourn/go-access-bot/internal/domain"
)

// Store is the persistence contract shared by the Identity Store and the
// Ledger. repo.Store is the configured implementation; repo.Unconfigured is
// the degraded one.
type Store interface {
	// UpsertPrincipal creates or refreshes principal metadata only.
	UpsertPrincipal(ctx context.Context, id int64, handle, displayName *string) (*domain.Principal, error)
	// GetPrincipal looks up by identifier (repo.ErrNotFound when missing).
	GetPrincipal(ctx context.Context, id int64) (*domain.Principal, error)
	// GetPrincipalByHandle looks up by exact handle (repo.ErrNotFound when missing).
	GetPrincipalByHandle(ctx context.Context, handle string) (*domain.Principal, error)
	// SetAuthorization writes the allow-list fact of an existing principal.
	SetAuthorization(ctx context.Context, id int64, authorized bool, grantedBy *int64) error
	// CreateAuthorizedPrincipal inserts a principal and a granted entry together.
	CreateAuthorizedPrincipal(ctx context.Context, id, grantedBy int64) (*domain.Principal, error)
	// IsAuthorized reads the flag; a missing entry is (false, nil).
	IsAuthorized(ctx context.Context, id int64) (bool, error)
	// ListAuthorized returns up to limit authorized principals, newest first.
	ListAuthorized(ctx context.Context, limit int) ([]domain.Principal, error)
	// Stats counts known and authorized principals.
	Stats(ctx context.Context) (domain.Stats, error)
}
