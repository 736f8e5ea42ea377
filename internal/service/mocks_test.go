package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cubongjay/ragchat/internal/domain"
)

// mockSessionStore implements SessionStore in memory
type mockSessionStore struct {
	sessions []*domain.Session

	saveErr   error
	getErr    error
	deleteErr error
}

func (m *mockSessionStore) Save(session *domain.Session) (*domain.Session, error) {
	if m.saveErr != nil {
		return nil, m.saveErr
	}
	session.ID = uuid.New().String()
	now := time.Now().UTC()
	session.CreatedAt = now
	session.UpdatedAt = now
	m.sessions = append(m.sessions, session)
	return session, nil
}

func (m *mockSessionStore) GetByID(id string) (*domain.Session, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, s := range m.sessions {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, nil
}

func (m *mockSessionStore) GetAll(page, size int) ([]*domain.Session, error) {
	return paginate(m.sessions, page, size), nil
}

func (m *mockSessionStore) GetByFavorite(isFavorite bool, page, size int) ([]*domain.Session, error) {
	var filtered []*domain.Session
	for _, s := range m.sessions {
		if s.IsFavorite == isFavorite {
			filtered = append(filtered, s)
		}
	}
	return paginate(filtered, page, size), nil
}

func (m *mockSessionStore) Update(id string, title *string, isFavorite *bool) (*domain.Session, error) {
	for _, s := range m.sessions {
		if s.ID == id {
			if title != nil {
				s.Title = *title
			}
			if isFavorite != nil {
				s.IsFavorite = *isFavorite
			}
			s.UpdatedAt = time.Now().UTC()
			return s, nil
		}
	}
	return nil, nil
}

func (m *mockSessionStore) Delete(id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	for i, s := range m.sessions {
		if s.ID == id {
			m.sessions = append(m.sessions[:i], m.sessions[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *mockSessionStore) Count(isFavorite *bool) (int, error) {
	if isFavorite == nil {
		return len(m.sessions), nil
	}
	count := 0
	for _, s := range m.sessions {
		if s.IsFavorite == *isFavorite {
			count++
		}
	}
	return count, nil
}

// mockMessageStore implements MessageStore in memory, ordered by insertion
type mockMessageStore struct {
	messages []*domain.Message

	saveErr      error
	listErr      error
	deleteAllErr error

	saveCalls int
}

func (m *mockMessageStore) Save(message *domain.Message) (*domain.Message, error) {
	m.saveCalls++
	if m.saveErr != nil {
		return nil, m.saveErr
	}
	message.ID = uuid.New().String()
	now := time.Now().UTC()
	if message.Timestamp == 0 {
		message.Timestamp = now.Unix()
	}
	message.CreatedAt = now
	message.UpdatedAt = now
	m.messages = append(m.messages, message)
	return message, nil
}

func (m *mockMessageStore) GetByID(id string) (*domain.Message, error) {
	for _, msg := range m.messages {
		if msg.ID == id {
			return msg, nil
		}
	}
	return nil, nil
}

func (m *mockMessageStore) GetBySessionID(sessionID string, page, size int) ([]*domain.Message, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var filtered []*domain.Message
	for _, msg := range m.messages {
		if msg.SessionID == sessionID {
			filtered = append(filtered, msg)
		}
	}
	return paginate(filtered, page, size), nil
}

func (m *mockMessageStore) Delete(id string) error {
	for i, msg := range m.messages {
		if msg.ID == id {
			m.messages = append(m.messages[:i], m.messages[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *mockMessageStore) DeleteBySessionID(sessionID string) error {
	if m.deleteAllErr != nil {
		return m.deleteAllErr
	}
	var kept []*domain.Message
	for _, msg := range m.messages {
		if msg.SessionID != sessionID {
			kept = append(kept, msg)
		}
	}
	m.messages = kept
	return nil
}

func (m *mockMessageStore) CountBySessionID(sessionID string) (int, error) {
	count := 0
	for _, msg := range m.messages {
		if msg.SessionID == sessionID {
			count++
		}
	}
	return count, nil
}

// mockEmbedder implements Embedder with a fixed vector
type mockEmbedder struct {
	embedding []float32
	err       error

	lastText string
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	m.lastText = text
	if m.err != nil {
		return nil, m.err
	}
	if m.embedding == nil {
		return []float32{0.1, 0.2, 0.3}, nil
	}
	return m.embedding, nil
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if m.err != nil {
		return nil, m.err
	}
	embeddings := make([][]float32, len(texts))
	for i := range texts {
		embeddings[i] = []float32{float32(i)}
	}
	return embeddings, nil
}

// mockVectorIndex implements VectorIndex
type mockVectorIndex struct {
	chunks   []string
	queryErr error
	addErr   error

	added     []domain.Chunk
	lastTopK  int
	lastQuery []float32
	cleared   bool
}

func (m *mockVectorIndex) Add(chunks []domain.Chunk) error {
	if m.addErr != nil {
		return m.addErr
	}
	m.added = append(m.added, chunks...)
	return nil
}

func (m *mockVectorIndex) QueryNearest(embedding []float32, topK int) ([]string, error) {
	m.lastQuery = embedding
	m.lastTopK = topK
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	return m.chunks, nil
}

func (m *mockVectorIndex) Clear() error {
	m.cleared = true
	return nil
}

// mockLLM implements LLMClient, capturing what it was invoked with
type mockLLM struct {
	response string
	err      error

	lastMessage string
	lastHistory []domain.ChatTurn
	lastContext string
	calls       int
}

func (m *mockLLM) Generate(ctx context.Context, message string, history []domain.ChatTurn, retrievalContext string) (string, error) {
	m.calls++
	m.lastMessage = message
	m.lastHistory = history
	m.lastContext = retrievalContext
	if m.err != nil {
		return "", m.err
	}
	if m.response == "" {
		return "mocked answer", nil
	}
	return m.response, nil
}

func paginate[T any](items []T, page, size int) []T {
	if page <= 0 || size <= 0 {
		return items
	}
	start := (page - 1) * size
	if start >= len(items) {
		return nil
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func seedSession(store *mockSessionStore, title string) *domain.Session {
	session, err := store.Save(&domain.Session{Title: title})
	if err != nil {
		panic(fmt.Sprintf("seed session: %v", err))
	}
	return session
}
