package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbourn/go-access-bot/internal/domain"
)

func TestListView_CopiesFieldsAndClampsOverflow(t *testing.T) {
	h, n := "joe", "Joe"
	r := ListView([]domain.Principal{{ID: 5, Handle: &h, DisplayName: &n}, {ID: 6}}, -3)

	require.Equal(t, KindList, r.Kind)
	require.Len(t, r.List.Entries, 2)
	assert.Equal(t, Entry{Identifier: 5, Handle: "joe", DisplayName: "Joe"}, r.List.Entries[0])
	assert.Equal(t, Entry{Identifier: 6}, r.List.Entries[1])
	assert.Zero(t, r.List.Overflow)
}

func TestStatsPayload_Unavailable(t *testing.T) {
	r := StatsView(domain.Stats{}, false)
	assert.True(t, r.Stats.Unavailable)

	r = AdminHome(domain.Stats{TotalPrincipals: 5, AuthorizedCount: 2}, true)
	assert.Equal(t, &Stats{Total: 5, Authorized: 2, Unauthorized: 3}, r.Stats)
}

func TestListUnavailable(t *testing.T) {
	r := ListUnavailable()
	require.Equal(t, KindList, r.Kind)
	assert.True(t, r.List.Unavailable)
	assert.Empty(t, r.List.Entries)

	assert.False(t, ListView(nil, 0).List.Unavailable)
}

func TestWithLocale_DoesNotMutate(t *testing.T) {
	base := Help()
	tagged := base.WithLocale("ru")
	assert.Equal(t, "ru", tagged.Locale)
	assert.Empty(t, base.Locale)
}
