// Package services defines the access-control core: the Identity Store, the
// Allow-List Ledger, the Authorization Gate, the admin privilege check and the
// admin mutation console. This file centralizes the service-level error
// values so callers can branch on them with errors.Is.
//
// Translation into user-visible content happens at the console/dispatcher
// boundary (render requests) or in HTTP handlers, never here.
package services

import (
	"errors"
	"fmt"

	"github.com/tbourn/go-access-bot/internal/repo"
)

var (
	// ErrNotFound indicates that a principal reference resolved to no known
	// principal.
	ErrNotFound = errors.New("principal not found")

	// ErrInvalidInput is returned when a principal reference is neither a
	// handle ("@name" or "name") nor a positive numeric identifier.
	ErrInvalidInput = errors.New("invalid principal reference")

	// ErrStoreUnavailable is returned when the backing store is unreachable,
	// timed out, or not configured.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrPrivilegeDenied is returned when a non-admin invokes an admin action.
	ErrPrivilegeDenied = errors.New("privilege denied")
)

// storeErr maps a repository error onto the service taxonomy.
func storeErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repo.ErrNotFound):
		return ErrNotFound
	default:
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
}
