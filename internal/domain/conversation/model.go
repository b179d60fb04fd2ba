package conversation

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Role indicates who authored a message. The set is closed: stored rows only
// ever carry one of the two values below.
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
)

// ParseRole validates a raw role value. Unknown roles are a caller error and
// are never silently coerced.
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleUser, RoleAgent:
		return Role(raw), nil
	default:
		return "", fmt.Errorf("unknown message role %q", raw)
	}
}

// Analysis carries the structured insight attached to agent messages.
type Analysis struct {
	EmotionalTone     string   `json:"emotionalTone"`
	PossibleReasons   []string `json:"possibleReasons"`
	Suggestions       []string `json:"suggestions"`
	FollowUpQuestions []string `json:"followUpQuestions"`
}

// Message is a single turn in a conversation. Analysis is nil on user
// messages and on agent messages whose stored analysis was absent.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Analysis  *Analysis `json:"analysis"`
}

// Conversation is a titled container for an ordered message sequence.
// Messages are always ordered timestamp ascending, ties by insertion order.
type Conversation struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
	Messages        []Message  `json:"messages"`
	LastMessage     *string    `json:"lastMessage"`
	LastMessageTime *time.Time `json:"lastMessageTime"`
}

// Summary is the list-view projection of a conversation.
type Summary struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
	LastMessage     *string    `json:"lastMessage"`
	LastMessageTime *time.Time `json:"lastMessageTime"`
}

// New creates an empty conversation with a timestamp-derived default title.
func New(now time.Time) *Conversation {
	return &Conversation{
		ID:        uuid.NewString(),
		Title:     now.Format("Chat - 15:04"),
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  []Message{},
	}
}

// NewMessage creates a message turn authored at now.
func NewMessage(role Role, content string, now time.Time) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: now,
	}
}
