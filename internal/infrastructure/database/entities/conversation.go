package entities

import (
	"time"

	domain "journal-api/internal/domain/conversation"
)

// Conversation represents the database schema for conversations.
type Conversation struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	Title     string    `gorm:"type:varchar(256);not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null;index"`

	Messages []Message `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for Conversation.
func (Conversation) TableName() string {
	return "conversations"
}

// EtoD converts the database entity to the domain aggregate. Preloaded
// messages are assumed ordered timestamp asc, sequence asc.
func (c *Conversation) EtoD() (*domain.Conversation, error) {
	messages := make([]domain.Message, len(c.Messages))
	for i := range c.Messages {
		msg, err := c.Messages[i].EtoD()
		if err != nil {
			return nil, err
		}
		messages[i] = msg
	}

	conv := &domain.Conversation{
		ID:        c.ID,
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Messages:  messages,
	}
	if len(messages) > 0 {
		last := messages[len(messages)-1]
		conv.LastMessage = &last.Content
		conv.LastMessageTime = &last.Timestamp
	}
	return conv, nil
}

// NewSchemaConversation creates a database entity from the domain aggregate.
// Owned messages are decomposed separately so full-replace writes control
// their own sequence numbering.
func NewSchemaConversation(c *domain.Conversation) *Conversation {
	return &Conversation{
		ID:        c.ID,
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
