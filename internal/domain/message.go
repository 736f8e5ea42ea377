package domain

import "time"

// Message types
const (
	MessageTypeUser      = "user"
	MessageTypeAssistant = "assistant"
	MessageTypeSystem    = "system"
)

// ValidMessageType reports whether t is one of the three message kinds.
func ValidMessageType(t string) bool {
	return t == MessageTypeUser || t == MessageTypeAssistant || t == MessageTypeSystem
}

// Message represents a single conversation turn. Content is plaintext here;
// the repository encrypts it at rest.
type Message struct {
	ID          string    `json:"id"`
	SessionID   string    `json:"session_id"`
	Sender      string    `json:"sender"`
	Content     string    `json:"content"`
	MessageType string    `json:"message_type"`
	Timestamp   int64     `json:"timestamp"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsAssistant reports whether this is an assistant turn.
func (m *Message) IsAssistant() bool {
	return m.MessageType == MessageTypeAssistant
}

// ChatTurn is a role/content pair passed to the LLM as conversation history.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// MessageCreateRequest is the request to add a user turn to a session
type MessageCreateRequest struct {
	Content     string `json:"content" binding:"required"`
	Sender      string `json:"sender,omitempty"`
	MessageType string `json:"message_type,omitempty"`
}

// MessagePairResponse is the (user, assistant) result of one create-message request
type MessagePairResponse struct {
	UserMessage      *Message `json:"user_message"`
	AssistantMessage *Message `json:"assistant_message"`
}
