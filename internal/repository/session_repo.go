package repository

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/cubongjay/ragchat/internal/domain"
)

// SessionRepository handles session persistence
type SessionRepository struct {
	db  *DB
	now func() time.Time
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db, now: time.Now}
}

// Save persists a new session, assigning id and timestamps.
func (r *SessionRepository) Save(session *domain.Session) (*domain.Session, error) {
	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	now := r.now().UTC()
	session.CreatedAt = now
	session.UpdatedAt = now

	_, err := r.db.Exec(`
		INSERT INTO sessions (id, title, is_favorite, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, session.ID, session.Title, session.IsFavorite, session.CreatedAt, session.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return session, nil
}

// GetByID retrieves a session by ID. Returns (nil, nil) when absent.
func (r *SessionRepository) GetByID(id string) (*domain.Session, error) {
	session := &domain.Session{}

	err := r.db.QueryRow(`
		SELECT id, title, is_favorite, created_at, updated_at
		FROM sessions WHERE id = ?
	`, id).Scan(&session.ID, &session.Title, &session.IsFavorite,
		&session.CreatedAt, &session.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return session, nil
}

// GetAll retrieves sessions newest-first with optional pagination
func (r *SessionRepository) GetAll(page, size int) ([]*domain.Session, error) {
	query := `
		SELECT id, title, is_favorite, created_at, updated_at
		FROM sessions ORDER BY created_at DESC, id DESC
	`
	args := []any{}
	if page > 0 && size > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, size, (page-1)*size)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSessions(rows)
}

// GetByFavorite retrieves sessions filtered by favorite flag, newest-first.
// False is a real filter, not "no filter".
func (r *SessionRepository) GetByFavorite(isFavorite bool, page, size int) ([]*domain.Session, error) {
	query := `
		SELECT id, title, is_favorite, created_at, updated_at
		FROM sessions WHERE is_favorite = ? ORDER BY created_at DESC, id DESC
	`
	args := []any{isFavorite}
	if page > 0 && size > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, size, (page-1)*size)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSessions(rows)
}

// Update applies a partial update; nil fields are left unchanged. Returns
// (nil, nil) when the session does not exist.
func (r *SessionRepository) Update(id string, title *string, isFavorite *bool) (*domain.Session, error) {
	session, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}

	if title != nil {
		session.Title = *title
	}
	if isFavorite != nil {
		session.IsFavorite = *isFavorite
	}
	session.UpdatedAt = r.now().UTC()

	_, err = r.db.Exec(`
		UPDATE sessions SET title = ?, is_favorite = ?, updated_at = ? WHERE id = ?
	`, session.Title, session.IsFavorite, session.UpdatedAt, id)
	if err != nil {
		return nil, err
	}

	return session, nil
}

// Delete deletes a session by ID
func (r *SessionRepository) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM sessions WHERE id = ?`, id)
	return err
}

// Count returns the number of sessions, optionally filtered by favorite flag
func (r *SessionRepository) Count(isFavorite *bool) (int, error) {
	var count int
	var err error
	if isFavorite != nil {
		err = r.db.QueryRow(`SELECT COUNT(*) FROM sessions WHERE is_favorite = ?`, *isFavorite).Scan(&count)
	} else {
		err = r.db.QueryRow(`SELECT COUNT(*) FROM sessions`).Scan(&count)
	}
	return count, err
}

func scanSessions(rows *sql.Rows) ([]*domain.Session, error) {
	var sessions []*domain.Session
	for rows.Next() {
		session := &domain.Session{}
		if err := rows.Scan(&session.ID, &session.Title, &session.IsFavorite,
			&session.CreatedAt, &session.UpdatedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}
