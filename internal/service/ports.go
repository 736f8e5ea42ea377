// Package service contains the use cases of the chat backend. Collaborator
// contracts are declared here, on the consumer side; concrete adapters live
// in repository, vectorstore and llm.
package service

import (
	"context"

	"github.com/cubongjay/ragchat/internal/domain"
)

// SessionStore persists chat sessions
type SessionStore interface {
	Save(session *domain.Session) (*domain.Session, error)
	GetByID(id string) (*domain.Session, error)
	GetAll(page, size int) ([]*domain.Session, error)
	GetByFavorite(isFavorite bool, page, size int) ([]*domain.Session, error)
	Update(id string, title *string, isFavorite *bool) (*domain.Session, error)
	Delete(id string) error
	Count(isFavorite *bool) (int, error)
}

// MessageStore persists messages
type MessageStore interface {
	Save(message *domain.Message) (*domain.Message, error)
	GetByID(id string) (*domain.Message, error)
	GetBySessionID(sessionID string, page, size int) ([]*domain.Message, error)
	Delete(id string) error
	DeleteBySessionID(sessionID string) error
	CountBySessionID(sessionID string) (int, error)
}

// VectorIndex stores embedded chunks and answers nearest-neighbor queries
type VectorIndex interface {
	Add(chunks []domain.Chunk) error
	QueryNearest(embedding []float32, topK int) ([]string, error)
	Clear() error
}

// LLMClient generates a reply from a message, prior turns and retrieval context
type LLMClient interface {
	Generate(ctx context.Context, message string, history []domain.ChatTurn, retrievalContext string) (string, error)
}

// Embedder computes embedding vectors for text
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}
