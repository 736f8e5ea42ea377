// Package vectorstore provides the sqlite-backed vector index used for
// retrieval. Embeddings are stored as JSON and ranked with an in-process
// cosine similarity scan, which is plenty for a knowledge base of this size.
package vectorstore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/cubongjay/ragchat/internal/domain"
	"github.com/cubongjay/ragchat/internal/repository"
)

// Store persists document chunks with their embeddings
type Store struct {
	db *repository.DB
}

// New creates a vector store backed by the given database
func New(db *repository.DB) *Store {
	return &Store{db: db}
}

// Add stores chunks with their embeddings. Every chunk must carry an embedding.
func (s *Store) Add(chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO chunks (id, content, source, chunk_index, embedding)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		if len(chunk.Embedding) == 0 {
			return fmt.Errorf("chunk %s has no embedding", chunk.ID)
		}
		embeddingJSON, err := json.Marshal(chunk.Embedding)
		if err != nil {
			return fmt.Errorf("failed to encode embedding: %w", err)
		}
		if _, err := stmt.Exec(chunk.ID, chunk.Content, chunk.Source, chunk.Index, string(embeddingJSON)); err != nil {
			return fmt.Errorf("failed to insert chunk %s: %w", chunk.ID, err)
		}
	}

	return tx.Commit()
}

// QueryNearest returns the texts of the topK chunks nearest to the query
// embedding, best match first. An empty index yields an empty slice.
func (s *Store) QueryNearest(embedding []float32, topK int) ([]string, error) {
	if topK <= 0 {
		topK = 3
	}

	rows, err := s.db.Query(`SELECT content, embedding FROM chunks`)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks: %w", err)
	}
	defer rows.Close()

	type scored struct {
		content string
		score   float64
	}

	var results []scored
	for rows.Next() {
		var content, embeddingJSON string
		if err := rows.Scan(&content, &embeddingJSON); err != nil {
			return nil, err
		}

		var stored []float32
		if err := json.Unmarshal([]byte(embeddingJSON), &stored); err != nil {
			return nil, fmt.Errorf("failed to decode embedding: %w", err)
		}

		results = append(results, scored{
			content: content,
			score:   cosineSimilarity(embedding, stored),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})

	if len(results) > topK {
		results = results[:topK]
	}

	texts := make([]string, len(results))
	for i, r := range results {
		texts[i] = r.content
	}
	return texts, nil
}

// Clear removes all chunks from the index
func (s *Store) Clear() error {
	_, err := s.db.Exec(`DELETE FROM chunks`)
	return err
}

// Count returns the number of indexed chunks
func (s *Store) Count() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM chunks`).Scan(&count)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return count, err
}

// cosineSimilarity computes the cosine similarity between two vectors.
// Mismatched lengths or zero vectors score 0.
func cosineSimilarity(a, b []float32) float64 {
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
