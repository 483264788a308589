package embedder

import (
	"context"
	"testing"
)

func TestValidateRequest(t *testing.T) {
	if err := ValidateRequest(EmbeddingRequest{Text: ""}); err != ErrEmptyText {
		t.Errorf("expected ErrEmptyText, got %v", err)
	}
	if err := ValidateRequest(EmbeddingRequest{Text: "ok"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateBatchRequest(t *testing.T) {
	if err := ValidateBatchRequest(BatchEmbeddingRequest{}); err == nil {
		t.Error("expected error for empty batch")
	}
	if err := ValidateBatchRequest(BatchEmbeddingRequest{Texts: []string{"a", ""}}); err == nil {
		t.Error("expected error for empty text in batch")
	}
	if err := ValidateBatchRequest(BatchEmbeddingRequest{Texts: []string{"a", "b"}}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestCache(t *testing.T) {
	cache := NewCache(2)

	emb := &Embedding{
		Vector:    []float32{1, 2, 3},
		Dimension: 3,
		Provider:  ProviderLocal,
	}
	cache.Set("h1", emb)

	got, ok := cache.Get("h1")
	if !ok {
		t.Fatal("expected cache hit")
	}

	// Mutating the returned copy must not pollute the cache
	got.Vector[0] = -99
	again, _ := cache.Get("h1")
	if again.Vector[0] != 1 {
		t.Error("cache entry mutated through returned copy")
	}

	// LRU eviction at capacity
	cache.Set("h2", emb)
	cache.Set("h3", emb)
	if _, ok := cache.Get("h1"); ok {
		t.Error("expected h1 evicted by LRU")
	}
}

func TestLocalProviderDeterministic(t *testing.T) {
	provider, err := NewLocalProvider(nil)
	if err != nil {
		t.Fatalf("NewLocalProvider failed: %v", err)
	}

	ctx := context.Background()
	first, err := provider.GenerateEmbedding(ctx, EmbeddingRequest{Text: "connect database"})
	if err != nil {
		t.Fatalf("GenerateEmbedding failed: %v", err)
	}
	second, err := provider.GenerateEmbedding(ctx, EmbeddingRequest{Text: "connect database"})
	if err != nil {
		t.Fatalf("GenerateEmbedding failed: %v", err)
	}

	if first.Dimension != LocalDimension {
		t.Errorf("expected dimension %d, got %d", LocalDimension, first.Dimension)
	}

	for i := range first.Vector {
		if first.Vector[i] != second.Vector[i] {
			t.Fatal("local embeddings must be deterministic")
		}
	}

	other, err := provider.GenerateEmbedding(ctx, EmbeddingRequest{Text: "something else"})
	if err != nil {
		t.Fatalf("GenerateEmbedding failed: %v", err)
	}

	same := true
	for i := range first.Vector {
		if first.Vector[i] != other.Vector[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different texts must not produce identical local embeddings")
	}
}

func TestLocalProviderBatch(t *testing.T) {
	provider, _ := NewLocalProvider(NewCache(10))
	ctx := context.Background()

	resp, err := provider.GenerateBatch(ctx, BatchEmbeddingRequest{Texts: []string{"a", "b", "c"}})
	if err != nil {
		t.Fatalf("GenerateBatch failed: %v", err)
	}
	if len(resp.Embeddings) != 3 {
		t.Fatalf("expected 3 embeddings, got %d", len(resp.Embeddings))
	}
	if resp.Provider != ProviderLocal {
		t.Errorf("expected provider local, got %s", resp.Provider)
	}
}

func TestNewWithUnknownProvider(t *testing.T) {
	_, err := New(Config{Provider: "quantum"})
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
}
