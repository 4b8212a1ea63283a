package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/tbourn/go-access-bot/internal/domain"
	"github.com/tbourn/go-access-bot/internal/repo"
)

// IdentityStore keeps principal metadata current. It never reads or writes
// authorization state.
type IdentityStore struct {
	Store Store
}

// NewIdentityStore returns an IdentityStore over s.
func NewIdentityStore(s Store) *IdentityStore {
	return &IdentityStore{Store: s}
}

// Upsert records a sighting of id. It is bookkeeping: failures are logged and
// reported as a nil Principal, never returned to the caller.
func (s *IdentityStore) Upsert(ctx context.Context, id int64, handle, displayName *string) *domain.Principal {
	tr := otel.Tracer("services/IdentityStore")
	ctx, span := tr.Start(ctx, "Upsert")
	defer span.End()
	span.SetAttributes(attribute.Int64("principal.id", id))

	if id <= 0 {
		return nil
	}
	p, err := s.Store.UpsertPrincipal(ctx, id, normalizeHandle(handle), trimmed(displayName))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "upsert failed")
		logStoreFailure(err, "upsert_principal", id)
		return nil
	}
	return p
}

// Lookup returns the principal for id, ErrNotFound, or ErrStoreUnavailable.
func (s *IdentityStore) Lookup(ctx context.Context, id int64) (*domain.Principal, error) {
	p, err := s.Store.GetPrincipal(ctx, id)
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			logStoreFailure(err, "get_principal", id)
		}
		return nil, storeErr(err)
	}
	return p, nil
}

// normalizeHandle strips whitespace and a leading "@"; empty becomes nil.
func normalizeHandle(h *string) *string {
	if h == nil {
		return nil
	}
	v := strings.TrimPrefix(strings.TrimSpace(*h), "@")
	if v == "" {
		return nil
	}
	return &v
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// logStoreFailure records a failed store call. The unconfigured store is an
// expected state and logs at debug.
func logStoreFailure(err error, op string, id int64) {
	storeFailures.WithLabelValues(op).Inc()
	if errors.Is(err, repo.ErrUnconfigured) {
		log.Debug().Str("op", op).Int64("principal_id", id).Msg("store not configured")
		return
	}
	log.Error().Err(err).
		Str("event", "store_unavailable").
		Str("op", op).
		Int64("principal_id", id).
		Msg("store call failed")
}
