package memory

import (
	"context"
	"testing"
)

func TestCollectionStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewCollectionStore()

	data, err := store.ReadAll(ctx, "quiz_quizzes")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if data != nil {
		t.Fatalf("expected nil for missing collection, got %q", data)
	}

	if err := store.WriteAll(ctx, "quiz_quizzes", []byte(`[{"id":"1"}]`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err = store.ReadAll(ctx, "quiz_quizzes")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != `[{"id":"1"}]` {
		t.Fatalf("unexpected data: %q", data)
	}

	// Writes replace the whole collection.
	if err := store.WriteAll(ctx, "quiz_quizzes", []byte(`[]`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, _ = store.ReadAll(ctx, "quiz_quizzes")
	if string(data) != `[]` {
		t.Fatalf("expected replacement, got %q", data)
	}
}
