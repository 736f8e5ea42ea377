package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cubongjay/ragchat/internal/crypto"
	"github.com/cubongjay/ragchat/internal/domain"
)

// MessageRepository handles message persistence. Content is encrypted on
// save and decrypted on read; the database never sees plaintext.
type MessageRepository struct {
	db     *DB
	cipher *crypto.Cipher
	now    func() time.Time
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *DB, cipher *crypto.Cipher) *MessageRepository {
	return &MessageRepository{db: db, cipher: cipher, now: time.Now}
}

// Save persists a new message, assigning id, timestamp and created/updated times.
func (r *MessageRepository) Save(message *domain.Message) (*domain.Message, error) {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	now := r.now().UTC()
	if message.Timestamp == 0 {
		message.Timestamp = now.Unix()
	}
	message.CreatedAt = now
	message.UpdatedAt = now

	encrypted, err := r.cipher.Encrypt(message.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt content: %w", err)
	}

	_, err = r.db.Exec(`
		INSERT INTO messages (id, session_id, sender, content, message_type, timestamp, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, message.ID, message.SessionID, message.Sender, encrypted,
		message.MessageType, message.Timestamp, message.CreatedAt, message.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return message, nil
}

// GetByID retrieves a message by ID. Returns (nil, nil) when absent.
func (r *MessageRepository) GetByID(id string) (*domain.Message, error) {
	row := r.db.QueryRow(`
		SELECT id, session_id, sender, content, message_type, timestamp, created_at, updated_at
		FROM messages WHERE id = ?
	`, id)

	message, err := r.scanMessage(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return message, nil
}

// GetBySessionID retrieves messages for a session ordered oldest-first,
// with optional pagination.
func (r *MessageRepository) GetBySessionID(sessionID string, page, size int) ([]*domain.Message, error) {
	query := `
		SELECT id, session_id, sender, content, message_type, timestamp, created_at, updated_at
		FROM messages WHERE session_id = ?
		ORDER BY timestamp ASC, created_at ASC
	`
	args := []any{sessionID}
	if page > 0 && size > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, size, (page-1)*size)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*domain.Message
	for rows.Next() {
		message, err := r.scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}

	return messages, rows.Err()
}

// Delete deletes a message by ID
func (r *MessageRepository) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM messages WHERE id = ?`, id)
	return err
}

// DeleteBySessionID deletes all messages owned by a session
func (r *MessageRepository) DeleteBySessionID(sessionID string) error {
	_, err := r.db.Exec(`DELETE FROM messages WHERE session_id = ?`, sessionID)
	return err
}

// CountBySessionID returns the number of messages in a session
func (r *MessageRepository) CountBySessionID(sessionID string) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM messages WHERE session_id = ?`, sessionID).Scan(&count)
	return count, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *MessageRepository) scanMessage(row rowScanner) (*domain.Message, error) {
	message := &domain.Message{}
	var encrypted string

	if err := row.Scan(&message.ID, &message.SessionID, &message.Sender,
		&encrypted, &message.MessageType, &message.Timestamp,
		&message.CreatedAt, &message.UpdatedAt); err != nil {
		return nil, err
	}

	content, err := r.cipher.Decrypt(encrypted)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt content: %w", err)
	}
	message.Content = content

	return message, nil
}
