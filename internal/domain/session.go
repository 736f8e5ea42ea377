package domain

import "time"

// Session represents a chat session owning zero or more messages
type Session struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	IsFavorite bool      `json:"is_favorite"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// SessionCreateRequest is the request to create a session
type SessionCreateRequest struct {
	Title      string `json:"title" binding:"required"`
	IsFavorite bool   `json:"is_favorite"`
}

// SessionUpdateRequest is the request to update a session.
// Absent fields leave the stored value unchanged.
type SessionUpdateRequest struct {
	Title      *string `json:"title,omitempty"`
	IsFavorite *bool   `json:"is_favorite,omitempty"`
}
