package conversation

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"journal-api/internal/domain/insight"
)

// AppendResult is the pair of messages produced by one conversational turn.
// Degraded reports that the agent message is the provider-outage fallback.
type AppendResult struct {
	UserMessage  Message
	AgentMessage Message
	Degraded     bool
}

// Service is the business logic surface for conversations.
type Service interface {
	Create(ctx context.Context) (*Conversation, error)
	Get(ctx context.Context, id string) (*Conversation, error)
	Rename(ctx context.Context, id, title string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]Summary, error)
	AppendMessage(ctx context.Context, id, content string) (*AppendResult, error)
	SuggestedTopics(ctx context.Context) ([]string, error)
}

// Options tune orchestration behavior.
type Options struct {
	// HistoryWindow bounds how many trailing messages accompany a new
	// message to the provider. The full transcript is never sent.
	HistoryWindow int

	// ProviderTimeout bounds the analysis call.
	ProviderTimeout time.Duration
}

const (
	defaultHistoryWindow   = 5
	defaultProviderTimeout = 30 * time.Second
)

type service struct {
	repo     Repository
	provider insight.Provider
	opts     Options
	log      zerolog.Logger
	now      func() time.Time
}

// NewService wires the conversation service with its storage and provider.
func NewService(repo Repository, provider insight.Provider, opts Options, log zerolog.Logger) Service {
	if opts.HistoryWindow <= 0 {
		opts.HistoryWindow = defaultHistoryWindow
	}
	if opts.ProviderTimeout <= 0 {
		opts.ProviderTimeout = defaultProviderTimeout
	}
	return &service{
		repo:     repo,
		provider: provider,
		opts:     opts,
		log:      log.With().Str("component", "conversation-service").Logger(),
		now:      time.Now,
	}
}

func (s *service) Create(ctx context.Context) (*Conversation, error) {
	conv := New(s.now().UTC())
	if err := s.repo.Create(ctx, conv); err != nil {
		s.log.Error().Err(err).Msg("create conversation")
		return nil, err
	}
	return conv, nil
}

func (s *service) Get(ctx context.Context, id string) (*Conversation, error) {
	return s.repo.FindByPublicID(ctx, id)
}

func (s *service) Rename(ctx context.Context, id, title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrTitleRequired
	}
	ok, err := s.repo.Update(ctx, id, Update{Title: &title})
	if err != nil {
		s.log.Error().Err(err).Str("conversation_id", id).Msg("rename conversation")
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.log.Error().Err(err).Str("conversation_id", id).Msg("delete conversation")
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (s *service) List(ctx context.Context) ([]Summary, error) {
	return s.repo.List(ctx)
}

// AppendMessage attaches one user turn and its derived agent turn to the
// conversation as a single logical unit. A provider failure degrades the
// agent reply; only a storage failure surfaces to the caller.
func (s *service) AppendMessage(ctx context.Context, id, content string) (*AppendResult, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrContentRequired
	}

	conv, err := s.repo.FindByPublicID(ctx, id)
	if err != nil {
		return nil, err
	}

	userMsg := NewMessage(RoleUser, content, s.now().UTC())
	agentMsg, degraded := s.analyze(ctx, id, content, conv.Messages)

	updated := make([]Message, 0, len(conv.Messages)+2)
	updated = append(updated, conv.Messages...)
	updated = append(updated, userMsg, agentMsg)

	ok, err := s.repo.Update(ctx, id, Update{Messages: &updated})
	if err != nil {
		s.log.Error().Err(err).Str("conversation_id", id).Msg("persist conversation turn")
		return nil, err
	}
	if !ok {
		// Deleted between load and write.
		return nil, ErrNotFound
	}

	return &AppendResult{UserMessage: userMsg, AgentMessage: agentMsg, Degraded: degraded}, nil
}

func (s *service) analyze(ctx context.Context, id, content string, history []Message) (Message, bool) {
	window := trailingWindow(history, s.opts.HistoryWindow)

	callCtx, cancel := context.WithTimeout(ctx, s.opts.ProviderTimeout)
	defer cancel()

	result, err := s.provider.Analyze(callCtx, content, window)
	if err != nil {
		s.log.Warn().Err(err).Str("conversation_id", id).Msg("analysis provider failed, using fallback reply")
		return s.fallbackMessage(), true
	}

	msg := NewMessage(RoleAgent, result.Insights, s.now().UTC())
	msg.Analysis = &Analysis{
		EmotionalTone:     result.EmotionalTone,
		PossibleReasons:   result.PossibleReasons,
		Suggestions:       result.Suggestions,
		FollowUpQuestions: result.FollowUpQuestions,
	}
	return msg, false
}

// fallbackMessage keeps the conversation moving when the provider is down.
func (s *service) fallbackMessage() Message {
	msg := NewMessage(RoleAgent,
		"I'm sorry, I'm having trouble reflecting on that right now. Your words are saved, and I'm still here with you.",
		s.now().UTC())
	msg.Analysis = &Analysis{
		EmotionalTone:     "concerned",
		PossibleReasons:   []string{},
		Suggestions:       []string{},
		FollowUpQuestions: []string{"Would you like to tell me more about how that felt?"},
	}
	return msg
}

func (s *service) SuggestedTopics(ctx context.Context) ([]string, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.opts.ProviderTimeout)
	defer cancel()

	topics, err := s.provider.SuggestTopics(callCtx)
	if err != nil || len(topics) == 0 {
		if err != nil {
			s.log.Warn().Err(err).Msg("topic suggestion failed, using fallback topics")
		}
		return fallbackTopics(), nil
	}
	if len(topics) > 5 {
		topics = topics[:5]
	}
	return topics, nil
}

func fallbackTopics() []string {
	return []string{
		"How are you feeling today?",
		"What's been on your mind lately?",
		"What brings you joy?",
		"What challenges are you facing?",
		"What are you looking forward to?",
	}
}

// trailingWindow returns at most n of the most recent entries converted to
// the provider's history shape.
func trailingWindow(messages []Message, n int) []insight.HistoryEntry {
	start := 0
	if len(messages) > n {
		start = len(messages) - n
	}
	window := make([]insight.HistoryEntry, 0, len(messages)-start)
	for _, m := range messages[start:] {
		window = append(window, insight.HistoryEntry{Role: string(m.Role), Content: m.Content})
	}
	return window
}
