package redis

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "quizhub:"

// CollectionStore implements app.CollectionStore on Redis: each collection is
// one JSON blob under its key, read and replaced whole. Collections have no
// TTL; they are the system of record.
type CollectionStore struct {
	client *redis.Client
}

func NewCollectionStore(client *redis.Client) *CollectionStore {
	return &CollectionStore{client: client}
}

func (s *CollectionStore) ReadAll(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *CollectionStore) WriteAll(ctx context.Context, key string, data []byte) error {
	return s.client.Set(ctx, keyPrefix+key, data, 0).Err()
}
