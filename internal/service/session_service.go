package service

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cubongjay/ragchat/internal/domain"
)

// SessionService handles session CRUD
type SessionService struct {
	sessions SessionStore
	messages MessageStore
	logger   *zap.Logger
}

// NewSessionService creates a new session service
func NewSessionService(sessions SessionStore, messages MessageStore, logger *zap.Logger) *SessionService {
	return &SessionService{
		sessions: sessions,
		messages: messages,
		logger:   logger,
	}
}

// Create builds and persists a session from a non-empty trimmed title
func (s *SessionService) Create(title string, isFavorite bool) (*domain.Session, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title must not be empty", domain.ErrInvalidRequest)
	}

	session, err := s.sessions.Save(&domain.Session{
		Title:      title,
		IsFavorite: isFavorite,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	s.logger.Info("session created",
		zap.String("session_id", session.ID),
		zap.String("title", session.Title),
	)
	return session, nil
}

// Get retrieves a session by ID. A store failure is logged and reported as
// not-found rather than propagated.
func (s *SessionService) Get(id string) (*domain.Session, error) {
	session, err := s.sessions.GetByID(id)
	if err != nil {
		s.logger.Error("failed to retrieve session", zap.String("session_id", id), zap.Error(err))
		return nil, domain.ErrSessionNotFound
	}
	if session == nil {
		s.logger.Warn("session not found", zap.String("session_id", id))
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

// List retrieves one page of sessions, newest-created-first, optionally
// filtered by favorite flag, along with the total matching the same filter.
func (s *SessionService) List(page, size int, isFavorite *bool) ([]*domain.Session, int, error) {
	var sessions []*domain.Session
	var err error

	if isFavorite != nil {
		sessions, err = s.sessions.GetByFavorite(*isFavorite, page, size)
	} else {
		sessions, err = s.sessions.GetAll(page, size)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list sessions: %w", err)
	}

	total, err := s.sessions.Count(isFavorite)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count sessions: %w", err)
	}

	return sessions, total, nil
}

// Update applies a partial update to title and/or favorite flag
func (s *SessionService) Update(id string, title *string, isFavorite *bool) (*domain.Session, error) {
	if title != nil {
		trimmed := strings.TrimSpace(*title)
		if trimmed == "" {
			return nil, fmt.Errorf("%w: title must not be empty", domain.ErrInvalidRequest)
		}
		title = &trimmed
	}

	session, err := s.sessions.Update(id, title, isFavorite)
	if err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}
	if session == nil {
		s.logger.Warn("session not found", zap.String("session_id", id))
		return nil, domain.ErrSessionNotFound
	}

	s.logger.Info("session updated", zap.String("session_id", id))
	return session, nil
}

// Delete removes a session and all its messages. Messages go first; a
// failure mid-cascade propagates and is not rolled back.
func (s *SessionService) Delete(id string) error {
	session, err := s.sessions.GetByID(id)
	if err != nil {
		return fmt.Errorf("failed to retrieve session: %w", err)
	}
	if session == nil {
		s.logger.Warn("session not found", zap.String("session_id", id))
		return domain.ErrSessionNotFound
	}

	if err := s.messages.DeleteBySessionID(id); err != nil {
		return fmt.Errorf("failed to delete session messages: %w", err)
	}
	if err := s.sessions.Delete(id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	s.logger.Info("session deleted", zap.String("session_id", id))
	return nil
}
