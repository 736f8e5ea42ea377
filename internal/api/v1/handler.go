// Package v1 implements the versioned HTTP API: session and message CRUD
// plus the RAG knowledge-base endpoints.
package v1

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cubongjay/ragchat/internal/api/response"
	"github.com/cubongjay/ragchat/internal/domain"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
	maxUploadBytes  = 10 << 20
)

// SessionService is the session use-case surface consumed by the handlers
type SessionService interface {
	Create(title string, isFavorite bool) (*domain.Session, error)
	Get(id string) (*domain.Session, error)
	List(page, size int, isFavorite *bool) ([]*domain.Session, int, error)
	Update(id string, title *string, isFavorite *bool) (*domain.Session, error)
	Delete(id string) error
}

// MessageService is the message use-case surface consumed by the handlers
type MessageService interface {
	Create(sessionID, content, sender, messageType string) (*domain.Message, error)
	Get(id string) (*domain.Message, error)
	ListBySession(sessionID string, page, size int) ([]*domain.Message, int, error)
	Delete(id string) (bool, error)
}

// ResponseGenerator produces the assistant turn for a stored user message
type ResponseGenerator interface {
	Generate(ctx context.Context, sessionID, userContent string) (*domain.Message, error)
}

// IngestService manages the shared RAG knowledge base
type IngestService interface {
	Upload(ctx context.Context, text, source string) (*domain.UploadResponse, error)
	Clear() error
}

// Handler handles v1 API requests
type Handler struct {
	sessions  SessionService
	messages  MessageService
	generator ResponseGenerator
	ingest    IngestService
}

// NewHandler creates a new v1 handler
func NewHandler(sessions SessionService, messages MessageService, generator ResponseGenerator, ingest IngestService) *Handler {
	return &Handler{
		sessions:  sessions,
		messages:  messages,
		generator: generator,
		ingest:    ingest,
	}
}

// RegisterRoutes registers v1 routes
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	sessions := r.Group("/sessions")
	{
		sessions.POST("", h.CreateSession)
		sessions.GET("", h.ListSessions)
		sessions.GET("/:session_id", h.GetSession)
		sessions.PUT("/:session_id", h.UpdateSession)
		sessions.DELETE("/:session_id", h.DeleteSession)

		sessions.POST("/:session_id/messages", h.CreateMessage)
		sessions.GET("/:session_id/messages", h.ListMessages)
		sessions.GET("/:session_id/messages/:message_id", h.GetMessage)
		sessions.DELETE("/:session_id/messages/:message_id", h.DeleteMessage)
	}

	ragContext := r.Group("/rag-context")
	{
		ragContext.POST("/documents/upload", h.UploadDocument)
		ragContext.DELETE("/documents", h.ClearDocuments)
	}
}

// Session handlers

func (h *Handler) CreateSession(c *gin.Context) {
	var req domain.SessionCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Abort(c, http.StatusUnprocessableEntity, response.CodeValidation, err.Error(), nil)
		return
	}

	session, err := h.sessions.Create(req.Title, req.IsFavorite)
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusCreated, session)
}

func (h *Handler) ListSessions(c *gin.Context) {
	page, size, ok := pagination(c)
	if !ok {
		return
	}

	isFavorite, ok := boolQuery(c, "is_favorite")
	if !ok {
		return
	}

	sessions, total, err := h.sessions.List(page, size, isFavorite)
	if err != nil {
		response.FromError(c, err)
		return
	}

	items := make([]*domain.Session, 0, len(sessions))
	items = append(items, sessions...)

	c.JSON(http.StatusOK, domain.PaginatedResponse[*domain.Session]{
		Items:      items,
		Pagination: domain.NewPaginationMeta(page, size, total),
	})
}

func (h *Handler) GetSession(c *gin.Context) {
	session, err := h.sessions.Get(c.Param("session_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

func (h *Handler) UpdateSession(c *gin.Context) {
	var req domain.SessionUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Abort(c, http.StatusUnprocessableEntity, response.CodeValidation, err.Error(), nil)
		return
	}

	session, err := h.sessions.Update(c.Param("session_id"), req.Title, req.IsFavorite)
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

func (h *Handler) DeleteSession(c *gin.Context) {
	if err := h.sessions.Delete(c.Param("session_id")); err != nil {
		response.FromError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Message handlers

// CreateMessage persists the user turn, then asks the generator for the
// assistant turn. If generation fails the user turn stays persisted and the
// client gets the mapped failure, a documented partial success.
func (h *Handler) CreateMessage(c *gin.Context) {
	sessionID := c.Param("session_id")

	var req domain.MessageCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Abort(c, http.StatusUnprocessableEntity, response.CodeValidation, err.Error(), nil)
		return
	}

	userMessage, err := h.messages.Create(sessionID, req.Content, req.Sender, req.MessageType)
	if err != nil {
		response.FromError(c, err)
		return
	}

	assistantMessage, err := h.generator.Generate(c.Request.Context(), sessionID, userMessage.Content)
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusCreated, domain.MessagePairResponse{
		UserMessage:      userMessage,
		AssistantMessage: assistantMessage,
	})
}

func (h *Handler) ListMessages(c *gin.Context) {
	page, size, ok := pagination(c)
	if !ok {
		return
	}

	messages, total, err := h.messages.ListBySession(c.Param("session_id"), page, size)
	if err != nil {
		response.FromError(c, err)
		return
	}

	items := make([]*domain.Message, 0, len(messages))
	items = append(items, messages...)

	c.JSON(http.StatusOK, domain.PaginatedResponse[*domain.Message]{
		Items:      items,
		Pagination: domain.NewPaginationMeta(page, size, total),
	})
}

func (h *Handler) GetMessage(c *gin.Context) {
	message, err := h.messages.Get(c.Param("message_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, message)
}

func (h *Handler) DeleteMessage(c *gin.Context) {
	deleted, err := h.messages.Delete(c.Param("message_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	if !deleted {
		response.Abort(c, http.StatusNotFound, response.CodeMessageNotFound, "message not found", nil)
		return
	}

	c.Status(http.StatusNoContent)
}

// RAG context handlers

func (h *Handler) UploadDocument(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.Abort(c, http.StatusUnprocessableEntity, response.CodeValidation, "file is required", nil)
		return
	}
	if file.Size > maxUploadBytes {
		response.Abort(c, http.StatusUnprocessableEntity, response.CodeValidation, "file too large", nil)
		return
	}

	src, err := file.Open()
	if err != nil {
		response.FromError(c, err)
		return
	}
	defer src.Close()

	content, err := io.ReadAll(io.LimitReader(src, maxUploadBytes))
	if err != nil {
		response.FromError(c, err)
		return
	}

	resp, err := h.ingest.Upload(c.Request.Context(), string(content), file.Filename)
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *Handler) ClearDocuments(c *gin.Context) {
	if err := h.ingest.Clear(); err != nil {
		response.FromError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// pagination parses page and size query parameters, bounded to
// page >= 1 and 1 <= size <= 100.
func pagination(c *gin.Context) (page, size int, ok bool) {
	page, ok = intQuery(c, "page", 1)
	if !ok {
		return 0, 0, false
	}
	size, ok = intQuery(c, "size", defaultPageSize)
	if !ok {
		return 0, 0, false
	}

	if page < 1 {
		response.Abort(c, http.StatusUnprocessableEntity, response.CodeValidation, "page must be >= 1", nil)
		return 0, 0, false
	}
	if size < 1 || size > maxPageSize {
		response.Abort(c, http.StatusUnprocessableEntity, response.CodeValidation, "size must be between 1 and 100", nil)
		return 0, 0, false
	}

	return page, size, true
}

func intQuery(c *gin.Context, name string, fallback int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		response.Abort(c, http.StatusUnprocessableEntity, response.CodeValidation, name+" must be an integer", nil)
		return 0, false
	}
	return value, true
}

func boolQuery(c *gin.Context, name string) (*bool, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		response.Abort(c, http.StatusUnprocessableEntity, response.CodeValidation, name+" must be a boolean", nil)
		return nil, false
	}
	return &value, true
}
