package vector

import (
	"context"
	"database/sql"
	"math"
	"path/filepath"
	"strings"
	"testing"

	_ "modernc.org/sqlite"
)

// wordEmbedder produces a tiny deterministic vector keyed on which known
// words appear in the text.
type wordEmbedder struct{}

func (wordEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	words := []string{"go", "cooking", "travel", "music"}
	vec := make([]float32, len(words))
	lower := strings.ToLower(text)
	for i, w := range words {
		if strings.Contains(lower, w) {
			vec[i] = 1
		}
	}
	return vec, nil
}

func newTestIndex(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "vec.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	s, err := NewSQLiteStore(db, wordEmbedder{})
	if err != nil {
		t.Fatalf("new index: %v", err)
	}
	return s
}

func TestCosineSimilarity(t *testing.T) {
	a := []float32{1, 0, 0}
	if got := CosineSimilarity(a, a); math.Abs(got-1) > 1e-9 {
		t.Errorf("identical vectors: got %f, want 1", got)
	}
	if got := CosineSimilarity(a, []float32{0, 1, 0}); got != 0 {
		t.Errorf("orthogonal vectors: got %f, want 0", got)
	}
	if got := CosineSimilarity(a, []float32{1, 0}); got != 0 {
		t.Errorf("mismatched lengths must score 0, got %f", got)
	}
	if got := CosineSimilarity(nil, nil); got != 0 {
		t.Errorf("empty vectors must score 0, got %f", got)
	}
}

func TestQueryRanksBySimilarity(t *testing.T) {
	s := newTestIndex(t)
	ctx := context.Background()

	if err := s.Upsert(ctx, "res-go", "Go guide", "https://example.com/go", "go concurrency patterns"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := s.Upsert(ctx, "res-cook", "Recipes", "https://example.com/cook", "cooking weeknight dinners"); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	hits, err := s.Query(ctx, "learning go", 10)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].ResourceID != "res-go" {
		t.Errorf("expected the go resource first, got %s", hits[0].ResourceID)
	}
	if hits[0].Score <= hits[1].Score {
		t.Errorf("scores not descending: %f then %f", hits[0].Score, hits[1].Score)
	}
}

func TestQueryRespectsTopK(t *testing.T) {
	s := newTestIndex(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		if err := s.Upsert(ctx, id, "", "", "go travel music"); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}
	hits, err := s.Query(ctx, "go", 2)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(hits) != 2 {
		t.Errorf("expected topK=2, got %d", len(hits))
	}
}

func TestUpsertReplacesAndDeleteRemoves(t *testing.T) {
	s := newTestIndex(t)
	ctx := context.Background()

	if err := s.Upsert(ctx, "res-1", "old", "", "cooking"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := s.Upsert(ctx, "res-1", "new", "", "music"); err != nil {
		t.Fatalf("re-upsert: %v", err)
	}

	hits, err := s.Query(ctx, "music", 10)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(hits) != 1 || hits[0].Title != "new" || hits[0].Score < 0.9 {
		t.Errorf("upsert did not replace the vector: %+v", hits)
	}

	if err := s.Delete("res-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	hits, err = s.Query(ctx, "music", 10)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("deleted resource still indexed")
	}
}
