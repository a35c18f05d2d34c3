// Package vector provides semantic retrieval over saved resources: text is
// embedded once at index time and queries rank stored vectors by cosine
// similarity.
package vector

import (
	"context"
	"math"
)

// Hit is one ranked retrieval result.
type Hit struct {
	ResourceID string
	Title      string
	Source     string
	Snippet    string
	Score      float64
}

// Embedder turns text into a dense vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Store indexes resource text and answers similarity queries.
type Store interface {
	// Upsert indexes (or re-indexes) the text for a resource.
	Upsert(ctx context.Context, resourceID, title, source, text string) error
	// Query returns up to topK resources ranked by similarity to text.
	Query(ctx context.Context, text string, topK int) ([]Hit, error)
	// Delete drops a resource from the index.
	Delete(resourceID string) error
}

// CosineSimilarity computes the cosine of the angle between two vectors.
// Mismatched or zero-length inputs score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
