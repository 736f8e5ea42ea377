package domain

import "errors"

var (
	// ErrSessionNotFound indicates the referenced session does not exist
	ErrSessionNotFound = errors.New("session not found")
	// ErrMessageNotFound indicates the referenced message does not exist
	ErrMessageNotFound = errors.New("message not found")
	// ErrInvalidRequest indicates malformed or failed-validation input
	ErrInvalidRequest = errors.New("invalid request")
	// ErrUnauthorized indicates a missing or invalid API key
	ErrUnauthorized = errors.New("unauthorized")
	// ErrRateLimited indicates the caller exceeded its request window
	ErrRateLimited = errors.New("rate limit exceeded")
	// ErrNoResponse indicates the assistant turn could not be generated.
	// Downstream provider failures (embedding, vector index, LLM) all
	// collapse into this one outcome.
	ErrNoResponse = errors.New("no response generated")
)
