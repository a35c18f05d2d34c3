package vector

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"sort"
	"time"
)

// SQLiteStore keeps embeddings in an embeddings table alongside the rest of
// the application database. Vectors are stored as little-endian float32
// blobs and ranked in memory, which is plenty for a personal-scale index.
type SQLiteStore struct {
	db       *sql.DB
	embedder Embedder
}

// NewSQLiteStore binds the index to an existing database handle.
func NewSQLiteStore(db *sql.DB, embedder Embedder) (*SQLiteStore, error) {
	s := &SQLiteStore{db: db, embedder: embedder}
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS embeddings (
		resource_id TEXT PRIMARY KEY,
		title TEXT,
		source TEXT,
		snippet TEXT,
		embedding BLOB NOT NULL,
		indexed_at TEXT NOT NULL
	);`)
	if err != nil {
		return nil, fmt.Errorf("init embeddings schema: %w", err)
	}
	return s, nil
}

const snippetLimit = 200

// Upsert embeds the text and stores the vector, replacing any previous
// vector for the resource.
func (s *SQLiteStore) Upsert(ctx context.Context, resourceID, title, source, text string) error {
	embedding, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return fmt.Errorf("embed resource %s: %w", resourceID, err)
	}

	snippet := text
	if len(snippet) > snippetLimit {
		snippet = snippet[:snippetLimit]
	}
	_, err = s.db.Exec(`
		INSERT INTO embeddings (resource_id, title, source, snippet, embedding, indexed_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(resource_id) DO UPDATE SET
			title = excluded.title,
			source = excluded.source,
			snippet = excluded.snippet,
			embedding = excluded.embedding,
			indexed_at = excluded.indexed_at
	`, resourceID, title, source, snippet,
		float32SliceToBytes(embedding),
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("store embedding %s: %w", resourceID, err)
	}
	return nil
}

// Query embeds the text and returns the topK closest resources by cosine
// similarity, best first.
func (s *SQLiteStore) Query(ctx context.Context, text string, topK int) ([]Hit, error) {
	query, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	rows, err := s.db.Query(`SELECT resource_id, title, source, snippet, embedding FROM embeddings`)
	if err != nil {
		return nil, fmt.Errorf("scan embeddings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var hits []Hit
	for rows.Next() {
		var hit Hit
		var blob []byte
		if err := rows.Scan(&hit.ResourceID, &hit.Title, &hit.Source, &hit.Snippet, &blob); err != nil {
			return nil, fmt.Errorf("scan embedding row: %w", err)
		}
		hit.Score = CosineSimilarity(query, bytesToFloat32Slice(blob))
		hits = append(hits, hit)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].ResourceID < hits[j].ResourceID
	})
	if topK > 0 && len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}

// Delete drops a resource's vector.
func (s *SQLiteStore) Delete(resourceID string) error {
	_, err := s.db.Exec(`DELETE FROM embeddings WHERE resource_id = ?`, resourceID)
	return err
}

func float32SliceToBytes(floats []float32) []byte {
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		bits := math.Float32bits(f)
		buf[i*4] = byte(bits)
		buf[i*4+1] = byte(bits >> 8)
		buf[i*4+2] = byte(bits >> 16)
		buf[i*4+3] = byte(bits >> 24)
	}
	return buf
}

func bytesToFloat32Slice(buf []byte) []float32 {
	floats := make([]float32, len(buf)/4)
	for i := range floats {
		bits := uint32(buf[i*4]) | uint32(buf[i*4+1])<<8 | uint32(buf[i*4+2])<<16 | uint32(buf[i*4+3])<<24
		floats[i] = math.Float32frombits(bits)
	}
	return floats
}
