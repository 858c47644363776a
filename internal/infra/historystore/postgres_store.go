package historystore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/mood-engine/internal/domain/mood"
	"github.com/yanqian/mood-engine/internal/domain/session"
)

const createTableSQL = `
	CREATE TABLE IF NOT EXISTS mood_analyses (
		id            TEXT PRIMARY KEY,
		dominant_mood TEXT NOT NULL,
		payload       JSONB NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL
	)
`

// PostgresStore persists analysis history with pgx.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore constructs the store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the history table when missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, createTableSQL); err != nil {
		return fmt.Errorf("create mood_analyses: %w", err)
	}
	return nil
}

func (s *PostgresStore) Append(ctx context.Context, analysis mood.Analysis) error {
	payload, err := json.Marshal(analysis)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO mood_analyses (id, dominant_mood, payload, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO NOTHING
	`, analysis.ID, analysis.DominantMood, payload, analysis.CreatedAt)
	return err
}

func (s *PostgresStore) Recent(ctx context.Context, limit int) ([]mood.Analysis, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT payload
		FROM mood_analyses
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []mood.Analysis
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var analysis mood.Analysis
		if err := json.Unmarshal(payload, &analysis); err != nil {
			return nil, fmt.Errorf("decode history row: %w", err)
		}
		out = append(out, analysis)
	}
	return out, rows.Err()
}

var _ session.HistoryStore = (*PostgresStore)(nil)
