package historystore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/mood-engine/internal/domain/mood"
	"github.com/yanqian/mood-engine/internal/domain/session"
)

// ValkeyStore persists analysis history in a capped Valkey list.
type ValkeyStore struct {
	client   valkey.Client
	key      string
	capacity int
}

// NewValkeyStore constructs a store backed by Valkey.
func NewValkeyStore(client valkey.Client, key string, capacity int) *ValkeyStore {
	if key == "" {
		key = "mood:history"
	}
	if capacity <= 0 {
		capacity = 20
	}
	return &ValkeyStore{client: client, key: key, capacity: capacity}
}

func (s *ValkeyStore) Append(ctx context.Context, analysis mood.Analysis) error {
	payload, err := json.Marshal(analysis)
	if err != nil {
		return err
	}
	cmds := valkey.Commands{
		s.client.B().Lpush().Key(s.key).Element(string(payload)).Build(),
		s.client.B().Ltrim().Key(s.key).Start(0).Stop(int64(s.capacity - 1)).Build(),
	}
	for _, resp := range s.client.DoMulti(ctx, cmds...) {
		if err := resp.Error(); err != nil {
			return fmt.Errorf("append history: %w", err)
		}
	}
	return nil
}

func (s *ValkeyStore) Recent(ctx context.Context, limit int) ([]mood.Analysis, error) {
	if limit <= 0 || limit > s.capacity {
		limit = s.capacity
	}
	resp := s.client.Do(ctx, s.client.B().Lrange().Key(s.key).Start(0).Stop(int64(limit-1)).Build())
	payloads, err := resp.AsStrSlice()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, nil
		}
		return nil, err
	}
	out := make([]mood.Analysis, 0, len(payloads))
	for _, payload := range payloads {
		var analysis mood.Analysis
		if err := json.Unmarshal([]byte(payload), &analysis); err != nil {
			return nil, fmt.Errorf("decode history entry: %w", err)
		}
		out = append(out, analysis)
	}
	return out, nil
}

var _ session.HistoryStore = (*ValkeyStore)(nil)
