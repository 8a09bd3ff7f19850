package memory

import (
	"context"
	"sync"

	"github.com/aretw0/zonecheck/pkg/domain"
)

// Store implements ports.VerdictStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Verdict
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Verdict),
	}
}

func copyVerdict(v *domain.Verdict) *domain.Verdict {
	out := *v
	out.Path = make([][]string, len(v.Path))
	for i, p := range v.Path {
		out.Path[i] = append([]string(nil), p...)
	}
	return &out
}

// Save persists the verdict in memory.
func (s *Store) Save(ctx context.Context, key string, verdict *domain.Verdict) error {
	copied := copyVerdict(verdict)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = copied
	return nil
}

// Load retrieves the verdict from memory.
func (s *Store) Load(ctx context.Context, key string) (*domain.Verdict, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	if !ok {
		return nil, domain.ErrVerdictNotFound
	}

	// Copy on read so callers can't mutate the stored verdict through the pointer
	return copyVerdict(v), nil
}

// Delete removes the verdict.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// List returns the stored keys.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	return keys, nil
}
