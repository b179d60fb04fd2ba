package entities

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"

	domain "journal-api/internal/domain/conversation"
)

// Message stores each turn of a conversation. Analysis is a nullable JSON
// column; Sequence preserves insertion order for equal timestamps.
type Message struct {
	ID             string         `gorm:"type:uuid;primaryKey"`
	ConversationID string         `gorm:"type:uuid;index;not null"`
	Role           string         `gorm:"size:16;not null"`
	Content        string         `gorm:"type:text;not null"`
	Timestamp      time.Time      `gorm:"not null;index"`
	Sequence       int            `gorm:"not null"`
	Analysis       datatypes.JSON `gorm:"type:jsonb"`
}

// TableName specifies the table name for Message.
func (Message) TableName() string {
	return "messages"
}

// EtoD converts the database row to the domain message. A stored analysis
// that is empty or does not decode yields a nil Analysis rather than an
// error; a row with an unknown role is corrupt and does error.
func (m *Message) EtoD() (domain.Message, error) {
	role, err := domain.ParseRole(m.Role)
	if err != nil {
		return domain.Message{}, fmt.Errorf("message %s: %w", m.ID, err)
	}

	msg := domain.Message{
		ID:        m.ID,
		Role:      role,
		Content:   m.Content,
		Timestamp: m.Timestamp,
	}

	if len(m.Analysis) > 0 {
		var analysis domain.Analysis
		if err := json.Unmarshal(m.Analysis, &analysis); err == nil {
			msg.Analysis = &analysis
		}
	}
	return msg, nil
}

// NewSchemaMessage creates a database row from the domain message. The
// caller assigns sequence numbers when decomposing a full replace.
func NewSchemaMessage(conversationID string, msg domain.Message, sequence int) (*Message, error) {
	if _, err := domain.ParseRole(string(msg.Role)); err != nil {
		return nil, err
	}

	row := &Message{
		ID:             msg.ID,
		ConversationID: conversationID,
		Role:           string(msg.Role),
		Content:        msg.Content,
		Timestamp:      msg.Timestamp,
		Sequence:       sequence,
	}
	if msg.Analysis != nil {
		encoded, err := json.Marshal(msg.Analysis)
		if err != nil {
			return nil, fmt.Errorf("encode analysis for message %s: %w", msg.ID, err)
		}
		row.Analysis = datatypes.JSON(encoded)
	}
	return row, nil
}
