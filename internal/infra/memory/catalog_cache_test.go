package memory

import (
	"context"
	"testing"
	"time"

	"quizhub/internal/domain"
)

type countingStore struct {
	*CollectionStore
	reads int
}

func (s *countingStore) ReadAll(ctx context.Context, key string) ([]byte, error) {
	s.reads++
	return s.CollectionStore.ReadAll(ctx, key)
}

func TestCatalogCacheServesSecondRead(t *testing.T) {
	ctx := context.Background()
	store := &countingStore{CollectionStore: NewCollectionStore()}
	cache := NewCatalogCache(store, time.Minute)

	if err := cache.Replace(ctx, []domain.Quiz{{ID: "1", Title: "Seeded"}}); err != nil {
		t.Fatalf("replace: %v", err)
	}

	quizzes, err := cache.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(quizzes) != 1 || quizzes[0].ID != "1" {
		t.Fatalf("unexpected catalog: %+v", quizzes)
	}

	if _, err := cache.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if store.reads != 0 {
		t.Fatalf("expected loads served from cache after replace, got %d store reads", store.reads)
	}
}

func TestCatalogCacheReadsThrough(t *testing.T) {
	ctx := context.Background()
	store := &countingStore{CollectionStore: NewCollectionStore()}
	if err := store.WriteAll(ctx, "quiz_quizzes", []byte(`[{"id":"7","title":"Preexisting"}]`)); err != nil {
		t.Fatalf("write: %v", err)
	}

	cache := NewCatalogCache(store, time.Minute)
	quizzes, err := cache.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(quizzes) != 1 || quizzes[0].Title != "Preexisting" {
		t.Fatalf("unexpected catalog: %+v", quizzes)
	}
	if store.reads != 1 {
		t.Fatalf("expected one store read, got %d", store.reads)
	}

	if _, err := cache.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if store.reads != 1 {
		t.Fatalf("expected cache hit on second load, got %d reads", store.reads)
	}
}

func TestCatalogCacheZeroTTLDisablesCaching(t *testing.T) {
	ctx := context.Background()
	store := &countingStore{CollectionStore: NewCollectionStore()}
	cache := NewCatalogCache(store, 0)

	if _, err := cache.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := cache.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if store.reads != 2 {
		t.Fatalf("expected every load to hit the store, got %d reads", store.reads)
	}
}
