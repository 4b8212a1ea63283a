package services

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbourn/go-access-bot/internal/repo"
)

func TestGate_ReflectsLedgerImmediately(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	l := NewLedger(st)
	g := NewGate(l)

	NewIdentityStore(st).Upsert(ctx, 42, nil, nil)
	assert.False(t, g.Check(ctx, 42))

	_, err := l.Grant(ctx, "42", 1)
	require.NoError(t, err)
	assert.True(t, g.Check(ctx, 42))

	_, err = l.Revoke(ctx, "42")
	require.NoError(t, err)
	assert.False(t, g.Check(ctx, 42))
}

func TestGate_Unconfigured(t *testing.T) {
	before := testutil.ToFloat64(authzChecks.WithLabelValues("denied"))
	g := NewGate(NewLedger(repo.Unconfigured{}))
	assert.False(t, g.Check(context.Background(), 42))
	assert.Equal(t, before+1, testutil.ToFloat64(authzChecks.WithLabelValues("denied")))
}

func TestAdminSet(t *testing.T) {
	a := NewAdminSet([]int64{3, 1, 0, -2, 3})
	assert.Equal(t, 2, a.Len())
	assert.True(t, a.IsAdmin(1))
	assert.True(t, a.IsAdmin(3))
	assert.False(t, a.IsAdmin(0))
	assert.False(t, a.IsAdmin(2))
	assert.Equal(t, []int64{1, 3}, a.IDs())

	var empty AdminSet
	assert.False(t, empty.IsAdmin(1))
}
