package service

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cubongjay/ragchat/internal/domain"
)

// MessageService handles message CRUD. Every operation that takes a session
// id reports a missing session the same way, domain.ErrSessionNotFound.
type MessageService struct {
	messages MessageStore
	sessions SessionStore
	logger   *zap.Logger
}

// NewMessageService creates a new message service
func NewMessageService(messages MessageStore, sessions SessionStore, logger *zap.Logger) *MessageService {
	return &MessageService{
		messages: messages,
		sessions: sessions,
		logger:   logger,
	}
}

// Create adds a message to an existing session
func (s *MessageService) Create(sessionID, content, sender, messageType string) (*domain.Message, error) {
	if err := s.requireSession(sessionID); err != nil {
		return nil, err
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: content must not be empty", domain.ErrInvalidRequest)
	}

	if sender == "" {
		sender = "user"
	}
	if messageType == "" {
		messageType = domain.MessageTypeUser
	}
	if !domain.ValidMessageType(messageType) {
		return nil, fmt.Errorf("%w: invalid message type %q", domain.ErrInvalidRequest, messageType)
	}

	message, err := s.messages.Save(&domain.Message{
		SessionID:   sessionID,
		Sender:      sender,
		Content:     content,
		MessageType: messageType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save message: %w", err)
	}

	s.logger.Info("message created",
		zap.String("message_id", message.ID),
		zap.String("session_id", message.SessionID),
		zap.String("sender", message.Sender),
	)
	return message, nil
}

// Get retrieves a message by ID
func (s *MessageService) Get(id string) (*domain.Message, error) {
	message, err := s.messages.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve message: %w", err)
	}
	if message == nil {
		s.logger.Warn("message not found", zap.String("message_id", id))
		return nil, domain.ErrMessageNotFound
	}
	return message, nil
}

// ListBySession retrieves one page of a session's messages oldest-first,
// along with the session's total message count. An existing, message-less
// session yields an empty list, not an error.
func (s *MessageService) ListBySession(sessionID string, page, size int) ([]*domain.Message, int, error) {
	if err := s.requireSession(sessionID); err != nil {
		return nil, 0, err
	}

	messages, err := s.messages.GetBySessionID(sessionID, page, size)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list messages: %w", err)
	}

	total, err := s.messages.CountBySessionID(sessionID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count messages: %w", err)
	}

	return messages, total, nil
}

// CountBySession returns the number of messages in an existing session
func (s *MessageService) CountBySession(sessionID string) (int, error) {
	if err := s.requireSession(sessionID); err != nil {
		return 0, err
	}

	count, err := s.messages.CountBySessionID(sessionID)
	if err != nil {
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}
	return count, nil
}

// Delete removes a message by ID. The boolean reports whether a message
// existed and was removed; "already gone" is not an error.
func (s *MessageService) Delete(id string) (bool, error) {
	message, err := s.messages.GetByID(id)
	if err != nil {
		return false, fmt.Errorf("failed to retrieve message: %w", err)
	}
	if message == nil {
		s.logger.Warn("message not found", zap.String("message_id", id))
		return false, nil
	}

	if err := s.messages.Delete(id); err != nil {
		return false, fmt.Errorf("failed to delete message: %w", err)
	}

	s.logger.Info("message deleted", zap.String("message_id", id))
	return true, nil
}

// DeleteAllBySession removes all messages owned by an existing session and
// returns how many were removed.
func (s *MessageService) DeleteAllBySession(sessionID string) (int, error) {
	if err := s.requireSession(sessionID); err != nil {
		return 0, err
	}

	count, err := s.messages.CountBySessionID(sessionID)
	if err != nil {
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}

	if err := s.messages.DeleteBySessionID(sessionID); err != nil {
		return 0, fmt.Errorf("failed to delete messages: %w", err)
	}

	s.logger.Info("session messages deleted",
		zap.String("session_id", sessionID),
		zap.Int("count", count),
	)
	return count, nil
}

func (s *MessageService) requireSession(sessionID string) error {
	session, err := s.sessions.GetByID(sessionID)
	if err != nil {
		return fmt.Errorf("failed to retrieve session: %w", err)
	}
	if session == nil {
		s.logger.Warn("session not found", zap.String("session_id", sessionID))
		return domain.ErrSessionNotFound
	}
	return nil
}
