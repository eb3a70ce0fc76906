package commentary_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/scoracle-live/internal/commentary"
	"github.com/albapepper/scoracle-live/internal/db"
	"github.com/albapepper/scoracle-live/internal/db/dbtest"
	"github.com/albapepper/scoracle-live/internal/match"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func createMatch(t *testing.T, pool *db.Pool) *match.Match {
	t.Helper()
	now := time.Now()
	m, err := match.NewStore(pool).Create(context.Background(), match.NewMatch{
		Sport: "football", HomeTeam: "A", AwayTeam: "B",
		StartTime: now.Add(-time.Hour), EndTime: now.Add(time.Hour),
	})
	require.NoError(t, err)
	return m
}

func TestStore(t *testing.T) {
	pool, _ := dbtest.NewPool(t)
	ctx := context.Background()
	store := commentary.NewStore(pool)

	t.Run("round trips every field", func(t *testing.T) {
		dbtest.Reset(t, pool)
		m := createMatch(t, pool)

		e, err := store.Create(ctx, m.ID, commentary.NewEntry{
			Minute:    intPtr(23),
			Sequence:  5,
			Period:    strPtr("1H"),
			EventType: "goal",
			Actor:     strPtr("Saka"),
			Team:      strPtr("A"),
			Message:   "Saka curls it into the far corner.",
			Metadata:  map[string]any{"assist": "Odegaard", "xg": 0.12},
			Tags:      []string{"goal", "highlight"},
		})
		require.NoError(t, err)

		assert.Equal(t, m.ID, e.MatchID)
		assert.Equal(t, 23, *e.Minute)
		assert.Equal(t, "1H", *e.Period)
		assert.Equal(t, "Odegaard", e.Metadata["assist"])
		assert.Equal(t, []string{"goal", "highlight"}, e.Tags)
		assert.False(t, e.CreatedAt.IsZero())
	})

	t.Run("optional fields stay nil", func(t *testing.T) {
		dbtest.Reset(t, pool)
		m := createMatch(t, pool)

		e, err := store.Create(ctx, m.ID, commentary.NewEntry{Sequence: 1, EventType: "note", Message: "Kick-off"})
		require.NoError(t, err)

		assert.Nil(t, e.Minute)
		assert.Nil(t, e.Period)
		assert.Nil(t, e.Actor)
		assert.Nil(t, e.Team)
		assert.Nil(t, e.Metadata)
		assert.Nil(t, e.Tags)
	})

	t.Run("list orders by sequence regardless of creation order", func(t *testing.T) {
		dbtest.Reset(t, pool)
		m := createMatch(t, pool)

		for _, seq := range []int{1, 0, 7, 3, 3} {
			_, err := store.Create(ctx, m.ID, commentary.NewEntry{Sequence: seq, EventType: "note", Message: "x"})
			require.NoError(t, err)
		}

		entries, err := store.List(ctx, m.ID, 0)
		require.NoError(t, err)
		require.Len(t, entries, 5)

		seqs := make([]int, 0, len(entries))
		for _, e := range entries {
			seqs = append(seqs, e.Sequence)
		}
		assert.Equal(t, []int{0, 1, 3, 3, 7}, seqs)
		assert.Less(t, entries[2].ID, entries[3].ID, "equal sequences tie-break on id")

		again, err := store.List(ctx, m.ID, 0)
		require.NoError(t, err)
		assert.Equal(t, entries, again)

		limited, err := store.List(ctx, m.ID, 2)
		require.NoError(t, err)
		assert.Len(t, limited, 2)

		n, err := store.Count(ctx, m.ID)
		require.NoError(t, err)
		assert.Equal(t, 5, n)
	})

	t.Run("list is scoped to the match", func(t *testing.T) {
		dbtest.Reset(t, pool)
		a, b := createMatch(t, pool), createMatch(t, pool)

		_, err := store.Create(ctx, a.ID, commentary.NewEntry{Sequence: 1, EventType: "note", Message: "a"})
		require.NoError(t, err)

		entries, err := store.List(ctx, b.ID, 0)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("unknown match is a storage error and persists nothing", func(t *testing.T) {
		dbtest.Reset(t, pool)

		_, err := store.Create(ctx, 404, commentary.NewEntry{Sequence: 1, EventType: "note", Message: "orphan"})
		assert.Error(t, err)

		n, err := store.Count(ctx, 404)
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})

	t.Run("deleting the match cascades", func(t *testing.T) {
		dbtest.Reset(t, pool)
		m := createMatch(t, pool)

		for seq := 0; seq < 3; seq++ {
			_, err := store.Create(ctx, m.ID, commentary.NewEntry{Sequence: seq, EventType: "note", Message: "x"})
			require.NoError(t, err)
		}
		require.NoError(t, match.NewStore(pool).Delete(ctx, m.ID))

		n, err := store.Count(ctx, m.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})
}
