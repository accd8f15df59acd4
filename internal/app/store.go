package app

import (
	"context"
	"encoding/json"
	"fmt"
)

// Collection keys used by the persistence collaborator. The values match the
// browser client's storage keys so exported data stays interchangeable.
const (
	CollectionQuizzes = "quiz_quizzes"
	CollectionResults = "quiz_results"
	CollectionUsers   = "quiz_users"
)

// CollectionStore abstracts whole-collection key-value persistence: every read
// loads the full collection, every write replaces it. There is no partial
// update; concurrent writers race last-write-wins with no merge.
type CollectionStore interface {
	// ReadAll returns the serialized collection, or nil if the key is absent.
	ReadAll(ctx context.Context, key string) ([]byte, error)
	// WriteAll replaces the collection under key.
	WriteAll(ctx context.Context, key string, data []byte) error
}

func readCollection[T any](ctx context.Context, store CollectionStore, key string) ([]T, error) {
	data, err := store.ReadAll(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return records, nil
}

func writeCollection[T any](ctx context.Context, store CollectionStore, key string, records []T) error {
	if records == nil {
		records = []T{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := store.WriteAll(ctx, key, data); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
