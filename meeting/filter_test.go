package meeting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func filterFixtures() []Metadata {
	return []Metadata{
		{ID: "a", Title: "Team Standup", CreatedAt: "2025-01-15T10:00:00Z",
			People: NewListPeople(Person{Name: "Alice", Email: "alice@example.com"})},
		{ID: "b", Title: "Budget Review", CreatedAt: "2025-01-14T09:00:00Z",
			People: NewListPeople(Person{Name: "Bob"})},
		{ID: "c", Title: "standup retro", CreatedAt: "2025-01-10T16:00:00Z",
			People: NewListPeople(Person{Name: "Alice"})},
		{ID: "d", Title: "No Date Meeting", CreatedAt: ""},
	}
}

func ids(metas []Metadata) []string {
	out := make([]string, 0, len(metas))
	for _, m := range metas {
		out = append(out, m.ID)
	}
	return out
}

func TestApplyFiltersNoPredicates(t *testing.T) {
	got, err := ApplyFilters(filterFixtures(), Filters{})
	require.NoError(t, err)
	assert.Len(t, got, 4, "no predicate keeps everything, dateless records included")
}

func TestApplyFiltersExactDate(t *testing.T) {
	got, err := ApplyFilters(filterFixtures(), Filters{On: "2025-01-15"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids(got))
}

func TestApplyFiltersDateRange(t *testing.T) {
	got, err := ApplyFilters(filterFixtures(), Filters{Start: "2025-01-14", End: "2025-01-15"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids(got))
}

func TestApplyFiltersDateWordsAnchored(t *testing.T) {
	today := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)
	got, err := ApplyFilters(filterFixtures(), Filters{Start: "yesterday", Today: today})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids(got))
}

func TestApplyFiltersComposition(t *testing.T) {
	got, err := ApplyFilters(filterFixtures(), Filters{
		Title:       "standup",
		Participant: "alice",
		Start:       "2025-01-12",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids(got), "all active predicates must hold")

	// Each predicate alone admits a superset.
	byTitle, err := ApplyFilters(filterFixtures(), Filters{Title: "standup"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, ids(byTitle))
}

func TestApplyFiltersUnparseableDateDeactivates(t *testing.T) {
	got, err := ApplyFilters(filterFixtures(), Filters{On: "whenever"})
	require.NoError(t, err)
	assert.Len(t, got, 4, "an unparseable date word is an absent predicate")
}

func TestApplyFiltersDatelessExcludedByDatePredicate(t *testing.T) {
	got, err := ApplyFilters(filterFixtures(), Filters{End: "2025-12-31"})
	require.NoError(t, err)
	assert.NotContains(t, ids(got), "d")
}

func TestApplyFiltersInvalidTitlePattern(t *testing.T) {
	_, err := ApplyFilters(filterFixtures(), Filters{Title: "("})
	assert.Error(t, err)
}
