package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cubongjay/ragchat/internal/config"
	"github.com/cubongjay/ragchat/internal/domain"
)

// ResponseGenerator produces the assistant turn for a user message:
// load the recent history window, embed the user text, retrieve the
// nearest chunks, ask the LLM and persist the reply.
//
// The pipeline fails closed: if any stage after the session check errors,
// nothing is persisted and the caller gets domain.ErrNoResponse. Which
// stage failed is logged but never exposed.
type ResponseGenerator struct {
	sessions    SessionStore
	messages    MessageStore
	embedder    Embedder
	index       VectorIndex
	llm         LLMClient
	historySize int
	topK        int
	logger      *zap.Logger
}

// NewResponseGenerator creates a response generator
func NewResponseGenerator(
	sessions SessionStore,
	messages MessageStore,
	embedder Embedder,
	index VectorIndex,
	llm LLMClient,
	cfg config.RAGConfig,
	logger *zap.Logger,
) *ResponseGenerator {
	historySize := cfg.HistorySize
	if historySize <= 0 {
		historySize = 10
	}
	topK := cfg.TopK
	if topK <= 0 {
		topK = 3
	}
	return &ResponseGenerator{
		sessions:    sessions,
		messages:    messages,
		embedder:    embedder,
		index:       index,
		llm:         llm,
		historySize: historySize,
		topK:        topK,
		logger:      logger,
	}
}

// Generate produces and persists the assistant reply to userContent in the
// given session. The user turn is expected to be persisted already.
func (g *ResponseGenerator) Generate(ctx context.Context, sessionID, userContent string) (*domain.Message, error) {
	session, err := g.sessions.GetByID(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve session: %w", err)
	}
	if session == nil {
		g.logger.Warn("session not found", zap.String("session_id", sessionID))
		return nil, domain.ErrSessionNotFound
	}

	history, err := g.loadHistory(sessionID)
	if err != nil {
		g.logger.Error("failed to load history", zap.String("session_id", sessionID), zap.Error(err))
		return nil, domain.ErrNoResponse
	}

	embedding, err := g.embedder.Embed(ctx, userContent)
	if err != nil {
		g.logger.Error("failed to embed user message", zap.String("session_id", sessionID), zap.Error(err))
		return nil, domain.ErrNoResponse
	}

	chunks, err := g.index.QueryNearest(embedding, g.topK)
	if err != nil {
		g.logger.Error("failed to query vector index", zap.String("session_id", sessionID), zap.Error(err))
		return nil, domain.ErrNoResponse
	}
	retrievalContext := strings.Join(chunks, "\n\n")

	answer, err := g.llm.Generate(ctx, userContent, history, retrievalContext)
	if err != nil {
		g.logger.Error("failed to generate response", zap.String("session_id", sessionID), zap.Error(err))
		return nil, domain.ErrNoResponse
	}

	message, err := g.messages.Save(&domain.Message{
		SessionID:   sessionID,
		Sender:      "assistant",
		Content:     strings.TrimSpace(answer),
		MessageType: domain.MessageTypeAssistant,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save assistant message: %w", err)
	}

	g.logger.Info("assistant response generated",
		zap.String("session_id", sessionID),
		zap.String("message_id", message.ID),
		zap.Int("history_turns", len(history)),
		zap.Int("context_chunks", len(chunks)),
	)
	return message, nil
}

// loadHistory returns the most recent turns of the session mapped to chat
// roles, oldest-first. Assistant turns keep their role, everything else
// (user and system) is passed as user.
func (g *ResponseGenerator) loadHistory(sessionID string) ([]domain.ChatTurn, error) {
	messages, err := g.messages.GetBySessionID(sessionID, 0, 0)
	if err != nil {
		return nil, err
	}

	if len(messages) > g.historySize {
		messages = messages[len(messages)-g.historySize:]
	}

	history := make([]domain.ChatTurn, len(messages))
	for i, msg := range messages {
		role := "user"
		if msg.IsAssistant() {
			role = "assistant"
		}
		history[i] = domain.ChatTurn{Role: role, Content: msg.Content}
	}
	return history, nil
}
