package memory

import (
	"context"
	"sync"
)

// CollectionStore is an in-memory implementation of app.CollectionStore,
// used in tests and when no Redis is configured.
type CollectionStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewCollectionStore() *CollectionStore {
	return &CollectionStore{data: make(map[string][]byte)}
}

func (s *CollectionStore) ReadAll(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.data[key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (s *CollectionStore) WriteAll(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]byte, len(data))
	copy(stored, data)
	s.data[key] = stored
	return nil
}
