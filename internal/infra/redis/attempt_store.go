package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"quizhub/internal/app"
)

// AttemptStore is a Redis-aware implementation of app.AttemptStore.
// Notes:
//   - Attempt state stays in a local map: attempts are transient and never
//     persisted, so Redis only carries a TTL liveness marker per attempt.
//   - The marker lets operators see open attempts and could anchor cross-
//     instance routing later.
type AttemptStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	attempts map[string]*app.Attempt
}

func NewAttemptStore(client *redis.Client, ttl time.Duration) *AttemptStore {
	return &AttemptStore{
		client:   client,
		ttl:      ttl,
		attempts: make(map[string]*app.Attempt),
	}
}

func (s *AttemptStore) Put(attempt *app.Attempt) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts[attempt.ID()] = attempt
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.key(attempt.ID()), "1", s.ttl).Err()
}

func (s *AttemptStore) Get(attemptID string) (*app.Attempt, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	attempt, ok := s.attempts[attemptID]
	return attempt, ok
}

func (s *AttemptStore) Delete(attemptID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.attempts, attemptID)
	_ = s.client.Del(context.Background(), s.key(attemptID)).Err()
}

func (s *AttemptStore) key(attemptID string) string {
	return keyPrefix + "attempt:" + attemptID
}
