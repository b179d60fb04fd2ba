package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	domain "journal-api/internal/domain/conversation"
	"journal-api/internal/infrastructure/metrics"
	"journal-api/internal/interfaces/httpserver/requests"
	"journal-api/internal/interfaces/httpserver/responses"
)

// ConversationHandler exposes the conversation endpoints.
type ConversationHandler struct {
	service domain.Service
	log     zerolog.Logger
}

// NewConversationHandler wires dependencies for conversation routes.
func NewConversationHandler(service domain.Service, log zerolog.Logger) *ConversationHandler {
	return &ConversationHandler{
		service: service,
		log:     log.With().Str("component", "conversation-handler").Logger(),
	}
}

// List returns every conversation summary, most recently touched first.
func (h *ConversationHandler) List(c *gin.Context) {
	summaries, err := h.service.List(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("list conversations")
		responses.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, summaries)
}

// Create provisions a new empty conversation.
func (h *ConversationHandler) Create(c *gin.Context) {
	conv, err := h.service.Create(c.Request.Context())
	if err != nil {
		responses.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, responses.CreatedResponse{ID: conv.ID})
}

// Get returns one conversation with its full ordered message history.
func (h *ConversationHandler) Get(c *gin.Context) {
	conv, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		responses.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, conv)
}

// Delete removes a conversation and all of its messages.
func (h *ConversationHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		responses.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, responses.MessageResponse{Message: "Conversation deleted"})
}

// UpdateTitle renames a conversation.
func (h *ConversationHandler) UpdateTitle(c *gin.Context) {
	var req requests.UpdateTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{Error: "Title is required"})
		return
	}

	if err := h.service.Rename(c.Request.Context(), c.Param("id"), req.Title); err != nil {
		responses.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, responses.MessageResponse{Message: "Title updated"})
}

// AppendMessage attaches a user turn and the derived agent reply.
func (h *ConversationHandler) AppendMessage(c *gin.Context) {
	var req requests.AppendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{Error: "Message content is required"})
		return
	}

	result, err := h.service.AppendMessage(c.Request.Context(), c.Param("id"), req.Content)
	if err != nil {
		responses.HandleError(c, err)
		return
	}

	outcome := "analyzed"
	if result.Degraded {
		outcome = "fallback"
	}
	metrics.AppendsTotal.WithLabelValues(outcome).Inc()

	c.JSON(http.StatusOK, responses.AppendMessageResponse{
		UserMessage: result.UserMessage,
		AIMessage:   result.AgentMessage,
	})
}

// SuggestedTopics returns journaling starter topics.
func (h *ConversationHandler) SuggestedTopics(c *gin.Context) {
	topics, err := h.service.SuggestedTopics(c.Request.Context())
	if err != nil {
		responses.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, responses.TopicsResponse{Topics: topics})
}
