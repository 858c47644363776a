package historystore

import (
	"context"
	"sync"

	"github.com/yanqian/mood-engine/internal/domain/mood"
	"github.com/yanqian/mood-engine/internal/domain/session"
)

// MemoryStore keeps the most recent analyses in process memory.
type MemoryStore struct {
	mu       sync.RWMutex
	items    []mood.Analysis
	capacity int
}

// NewMemoryStore constructs a bounded in-memory history.
func NewMemoryStore(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = 20
	}
	return &MemoryStore{capacity: capacity}
}

// Append implements session.HistoryStore.
func (s *MemoryStore) Append(_ context.Context, analysis mood.Analysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, analysis.Clone())
	if over := len(s.items) - s.capacity; over > 0 {
		s.items = s.items[over:]
	}
	return nil
}

// Recent returns up to limit analyses, newest first.
func (s *MemoryStore) Recent(_ context.Context, limit int) ([]mood.Analysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 || limit > len(s.items) {
		limit = len(s.items)
	}
	out := make([]mood.Analysis, 0, limit)
	for i := len(s.items) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.items[i].Clone())
	}
	return out, nil
}

var _ session.HistoryStore = (*MemoryStore)(nil)
