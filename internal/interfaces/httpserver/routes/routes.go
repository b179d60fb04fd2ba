package routes

import (
	"github.com/gin-gonic/gin"

	"journal-api/internal/interfaces/httpserver/handlers"
)

// Provider encapsulates API route registration.
type Provider struct {
	handlers *handlers.Provider
}

// NewProvider builds the route registrar.
func NewProvider(handlerProvider *handlers.Provider) *Provider {
	return &Provider{
		handlers: handlerProvider,
	}
}

// Register attaches all routes under the /api prefix.
func (p *Provider) Register(engine *gin.Engine) {
	api := engine.Group("/api")
	registerConversationRoutes(api, p.handlers.Conversation)
}

func registerConversationRoutes(group *gin.RouterGroup, handler *handlers.ConversationHandler) {
	group.GET("/conversations", handler.List)
	group.POST("/conversations", handler.Create)
	group.GET("/conversations/:id", handler.Get)
	group.DELETE("/conversations/:id", handler.Delete)
	group.PUT("/conversations/:id/title", handler.UpdateTitle)
	group.POST("/conversations/:id/messages", handler.AppendMessage)
	group.GET("/suggested-topics", handler.SuggestedTopics)
}
