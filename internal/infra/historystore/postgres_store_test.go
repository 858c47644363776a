package historystore

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/mood-engine/internal/domain/mood"
)

// newTestPostgresStore opens HISTORY_TEST_POSTGRES_DSN in a throwaway schema
// and skips when unset.
func newTestPostgresStore(t *testing.T) *PostgresStore {
	t.Helper()
	dsn := os.Getenv("HISTORY_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("HISTORY_TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()
	schema := fmt.Sprintf("mood_history_test_%d", time.Now().UnixNano())

	admin, err := pgx.Connect(ctx, dsn)
	require.NoError(t, err)
	_, err = admin.Exec(ctx, "CREATE SCHEMA "+schema)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = admin.Exec(context.Background(), "DROP SCHEMA "+schema+" CASCADE")
		_ = admin.Close(context.Background())
	})

	cfg, err := pgxpool.ParseConfig(dsn)
	require.NoError(t, err)
	cfg.ConnConfig.RuntimeParams["search_path"] = schema
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	store := NewPostgresStore(pool)
	require.NoError(t, store.EnsureSchema(ctx))
	return store
}

func TestPostgresStoreNewestFirst(t *testing.T) {
	store := newTestPostgresStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		analysis := mood.Analysis{
			ID:              id,
			DominantMood:    "Focused",
			CreatedAt:       base.Add(time.Duration(i) * time.Minute),
			Recommendations: []mood.Recommendation{{ID: id + "-food", Category: mood.CategoryFood, Title: "Soup"}},
		}
		require.NoError(t, store.Append(ctx, analysis))
	}

	got, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "c", got[0].ID)
	require.Equal(t, "b", got[1].ID)
	require.Equal(t, "Soup", got[0].Recommendations[0].Title)
	require.True(t, got[0].CreatedAt.Equal(base.Add(2*time.Minute)))
}

func TestPostgresStoreAppendIsIdempotent(t *testing.T) {
	store := newTestPostgresStore(t)
	ctx := context.Background()
	analysis := mood.Analysis{ID: "same", DominantMood: "Calm", CreatedAt: time.Now().UTC()}

	require.NoError(t, store.Append(ctx, analysis))
	require.NoError(t, store.Append(ctx, analysis))

	got, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
}
