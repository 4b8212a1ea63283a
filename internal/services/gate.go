package services

import (
	"context"
	"sort"
)

// Gate is the Authorization Gate for end-user entry points. Every call
// consults the Ledger; there is no cache.
type Gate struct {
	Ledger *Ledger
}

// NewGate returns a Gate backed by l.
func NewGate(l *Ledger) *Gate { return &Gate{Ledger: l} }

// Check reports whether id may use gated functionality.
func (g *Gate) Check(ctx context.Context, id int64) bool {
	ok := g.Ledger.IsAuthorized(ctx, id)
	if ok {
		authzChecks.WithLabelValues("authorized").Inc()
	} else {
		authzChecks.WithLabelValues("denied").Inc()
	}
	return ok
}

// AdminSet is the fixed set of administrator identifiers loaded at start-up.
// It is immutable after construction.
type AdminSet struct {
	ids map[int64]struct{}
}

// NewAdminSet builds an AdminSet; non-positive ids are ignored.
func NewAdminSet(ids []int64) AdminSet {
	m := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if id > 0 {
			m[id] = struct{}{}
		}
	}
	return AdminSet{ids: m}
}

// IsAdmin is the privilege check.
func (a AdminSet) IsAdmin(id int64) bool {
	_, ok := a.ids[id]
	return ok
}

// Len returns the number of administrators.
func (a AdminSet) Len() int { return len(a.ids) }

// IDs returns the administrators in ascending order.
func (a AdminSet) IDs() []int64 {
	out := make([]int64, 0, len(a.ids))
	for id := range a.ids {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
