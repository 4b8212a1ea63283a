package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-access-bot/internal/domain"
	"github.com/tbourn/go-access-bot/internal/repo"
)

var handleRe = regexp.MustCompile(`^[A-Za-z0-9_]{1,64}$`)

// Reference is a parsed principal reference: exactly one of ID or Handle is set.
type Reference struct {
	ID     int64
	Handle string
}

// IsHandle reports whether r names a principal by handle.
func (r Reference) IsHandle() bool { return r.Handle != "" }

// ParseReference resolves admin input to a Reference:
//  1. "@name" is always a handle;
//  2. otherwise a positive integer is an identifier;
//  3. otherwise the raw text is a handle.
func ParseReference(raw string) (Reference, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Reference{}, fmt.Errorf("%w: empty", ErrInvalidInput)
	}
	if h, ok := strings.CutPrefix(s, "@"); ok {
		return handleRef(h)
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		if n <= 0 {
			return Reference{}, fmt.Errorf("%w: identifier must be positive", ErrInvalidInput)
		}
		return Reference{ID: n}, nil
	}
	return handleRef(s)
}

func handleRef(h string) (Reference, error) {
	if !handleRe.MatchString(h) {
		return Reference{}, fmt.Errorf("%w: malformed handle %q", ErrInvalidInput, h)
	}
	return Reference{Handle: h}, nil
}

// Ledger is the allow-list: it owns every write to authorization state.
type Ledger struct {
	Store Store
}

// NewLedger returns a Ledger over s.
func NewLedger(s Store) *Ledger {
	return &Ledger{Store: s}
}

// IsAuthorized is fail-closed: any error yields false.
func (l *Ledger) IsAuthorized(ctx context.Context, id int64) bool {
	if id <= 0 {
		return false
	}
	ok, err := l.Store.IsAuthorized(ctx, id)
	if err != nil {
		logStoreFailure(err, "is_authorized", id)
		return false
	}
	return ok
}

// Grant authorizes the principal named by ref. An unknown numeric identifier
// is pre-authorized by creating the principal; an unknown handle is ErrNotFound.
func (l *Ledger) Grant(ctx context.Context, ref string, grantedBy int64) (p *domain.Principal, err error) {
	tr := otel.Tracer("services/Ledger")
	ctx, span := tr.Start(ctx, "Grant", traceAttrs(ref, grantedBy)...)
	defer func() {
		ledgerMutations.WithLabelValues("grant", outcomeOf(err)).Inc()
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, outcomeOf(err))
		}
		span.End()
	}()

	r, err := ParseReference(ref)
	if err != nil {
		return nil, err
	}
	p, err = l.resolve(ctx, r)
	switch {
	case err == nil:
		by := grantedBy
		if err := l.Store.SetAuthorization(ctx, p.ID, true, &by); err != nil {
			logStoreFailure(err, "grant", p.ID)
			return nil, storeErr(err)
		}
		return p, nil
	case errors.Is(err, ErrNotFound) && !r.IsHandle():
		p, err = l.Store.CreateAuthorizedPrincipal(ctx, r.ID, grantedBy)
		if err != nil {
			logStoreFailure(err, "create_authorized", r.ID)
			return nil, storeErr(err)
		}
		return p, nil
	default:
		return nil, err
	}
}

// Revoke clears authorization for the principal named by ref. It never
// creates a principal.
func (l *Ledger) Revoke(ctx context.Context, ref string) (p *domain.Principal, err error) {
	tr := otel.Tracer("services/Ledger")
	ctx, span := tr.Start(ctx, "Revoke", traceAttrs(ref, 0)...)
	defer func() {
		ledgerMutations.WithLabelValues("revoke", outcomeOf(err)).Inc()
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, outcomeOf(err))
		}
		span.End()
	}()

	r, err := ParseReference(ref)
	if err != nil {
		return nil, err
	}
	if p, err = l.resolve(ctx, r); err != nil {
		return nil, err
	}
	if err := l.Store.SetAuthorization(ctx, p.ID, false, nil); err != nil {
		logStoreFailure(err, "revoke", p.ID)
		return nil, storeErr(err)
	}
	return p, nil
}

// ListAuthorized returns at most limit authorized principals, newest first,
// and how many more exist beyond them. limit <= 0 lists everything.
func (l *Ledger) ListAuthorized(ctx context.Context, limit int) ([]domain.Principal, int64, error) {
	items, err := l.Store.ListAuthorized(ctx, limit)
	if err != nil {
		logStoreFailure(err, "list_authorized", 0)
		return nil, 0, storeErr(err)
	}
	if limit <= 0 || len(items) < limit {
		return items, 0, nil
	}
	st, err := l.Store.Stats(ctx)
	if err != nil {
		logStoreFailure(err, "stats", 0)
		return items, 0, nil
	}
	overflow := st.AuthorizedCount - int64(len(items))
	if overflow < 0 {
		overflow = 0
	}
	return items, overflow, nil
}

// Stats counts known and authorized principals.
func (l *Ledger) Stats(ctx context.Context) (domain.Stats, error) {
	st, err := l.Store.Stats(ctx)
	if err != nil {
		logStoreFailure(err, "stats", 0)
		return domain.Stats{}, storeErr(err)
	}
	return st, nil
}

func (l *Ledger) resolve(ctx context.Context, r Reference) (*domain.Principal, error) {
	var (
		p   *domain.Principal
		err error
	)
	if r.IsHandle() {
		p, err = l.Store.GetPrincipalByHandle(ctx, r.Handle)
	} else {
		p, err = l.Store.GetPrincipal(ctx, r.ID)
	}
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			logStoreFailure(err, "resolve", r.ID)
		}
		return nil, storeErr(err)
	}
	return p, nil
}

func traceAttrs(ref string, by int64) []trace.SpanStartOption {
	attrs := []attribute.KeyValue{attribute.String("ref", ref)}
	if by > 0 {
		attrs = append(attrs, attribute.Int64("granted_by", by))
	}
	return []trace.SpanStartOption{trace.WithAttributes(attrs...)}
}
