package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cubongjay/ragchat/internal/config"
	"github.com/cubongjay/ragchat/internal/domain"
)

// IngestService splits uploaded documents into chunks, embeds them and
// stores them in the vector index. The index is a single knowledge base
// shared across all sessions.
type IngestService struct {
	embedder     Embedder
	index        VectorIndex
	chunkSize    int
	chunkOverlap int
	logger       *zap.Logger
}

// NewIngestService creates a new ingest service
func NewIngestService(embedder Embedder, index VectorIndex, cfg config.RAGConfig, logger *zap.Logger) *IngestService {
	chunkSize := cfg.ChunkSize
	if chunkSize <= 0 {
		chunkSize = 500
	}
	chunkOverlap := cfg.ChunkOverlap
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		chunkOverlap = 0
	}
	return &IngestService{
		embedder:     embedder,
		index:        index,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		logger:       logger,
	}
}

// Upload splits text into chunks, embeds them and adds them to the index
func (s *IngestService) Upload(ctx context.Context, text, source string) (*domain.UploadResponse, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: document is empty", domain.ErrInvalidRequest)
	}

	parts := splitText(text, s.chunkSize, s.chunkOverlap)

	embeddings, err := s.embedder.EmbedBatch(ctx, parts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed document: %w", err)
	}

	chunks := make([]domain.Chunk, len(parts))
	for i, part := range parts {
		chunks[i] = domain.Chunk{
			ID:        fmt.Sprintf("%s_%d", source, i),
			Content:   part,
			Source:    source,
			Index:     i,
			Embedding: embeddings[i],
		}
	}

	if err := s.index.Add(chunks); err != nil {
		return nil, fmt.Errorf("failed to index document: %w", err)
	}

	s.logger.Info("document ingested",
		zap.String("source", source),
		zap.Int("chunks", len(chunks)),
	)
	return &domain.UploadResponse{
		Message:    fmt.Sprintf("Uploaded %d chunks from %s.", len(chunks), source),
		ChunkCount: len(chunks),
		Source:     source,
	}, nil
}

// Clear wipes the entire vector index
func (s *IngestService) Clear() error {
	if err := s.index.Clear(); err != nil {
		return fmt.Errorf("failed to clear index: %w", err)
	}
	s.logger.Info("vector index cleared")
	return nil
}

// splitText slices text into fixed-size chunks with the given overlap.
// Sizes count characters, not bytes, so multi-byte text is never cut
// mid-rune. The final chunk may be shorter.
func splitText(text string, chunkSize, overlap int) []string {
	var parts []string
	runes := []rune(text)
	step := chunkSize - overlap

	for start := 0; start < len(runes); start += step {
		end := start + chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		parts = append(parts, string(runes[start:end]))
	}
	return parts
}
