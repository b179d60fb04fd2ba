package responses

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domain "journal-api/internal/domain/conversation"
)

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is the uniform confirmation body.
type MessageResponse struct {
	Message string `json:"message"`
}

// AppendMessageResponse returns both halves of an appended turn. The agent
// message keeps the historical "aiMessage" key for client compatibility.
type AppendMessageResponse struct {
	UserMessage domain.Message `json:"userMessage"`
	AIMessage   domain.Message `json:"aiMessage"`
}

// TopicsResponse wraps suggested journaling topics.
type TopicsResponse struct {
	Topics []string `json:"topics"`
}

// CreatedResponse returns the id of a newly created conversation.
type CreatedResponse struct {
	ID string `json:"id"`
}

// HandleError maps domain errors onto HTTP statuses. Validation errors are
// 400, absent conversations 404, everything else is an internal failure.
func HandleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, ErrorResponse{Error: "Conversation not found"})
	case errors.Is(err, domain.ErrContentRequired), errors.Is(err, domain.ErrTitleRequired):
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
	}
}
