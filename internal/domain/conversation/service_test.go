package conversation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"journal-api/internal/domain/insight"
)

type mockRepository struct {
	CreateFunc         func(ctx context.Context, conv *Conversation) error
	FindByPublicIDFunc func(ctx context.Context, id string) (*Conversation, error)
	UpdateFunc         func(ctx context.Context, id string, update Update) (bool, error)
	DeleteFunc         func(ctx context.Context, id string) (bool, error)
	ListFunc           func(ctx context.Context) ([]Summary, error)
}

func (m *mockRepository) Create(ctx context.Context, conv *Conversation) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, conv)
	}
	return nil
}

func (m *mockRepository) FindByPublicID(ctx context.Context, id string) (*Conversation, error) {
	if m.FindByPublicIDFunc != nil {
		return m.FindByPublicIDFunc(ctx, id)
	}
	return nil, ErrNotFound
}

func (m *mockRepository) Update(ctx context.Context, id string, update Update) (bool, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, update)
	}
	return true, nil
}

func (m *mockRepository) Delete(ctx context.Context, id string) (bool, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return true, nil
}

func (m *mockRepository) List(ctx context.Context) ([]Summary, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

type mockProvider struct {
	AnalyzeFunc       func(ctx context.Context, message string, history []insight.HistoryEntry) (*insight.Result, error)
	SuggestTopicsFunc func(ctx context.Context) ([]string, error)
}

func (m *mockProvider) Analyze(ctx context.Context, message string, history []insight.HistoryEntry) (*insight.Result, error) {
	if m.AnalyzeFunc != nil {
		return m.AnalyzeFunc(ctx, message, history)
	}
	return &insight.Result{
		EmotionalTone:     "calm",
		Insights:          "You sound at ease today.",
		PossibleReasons:   []string{},
		Suggestions:       []string{},
		FollowUpQuestions: []string{"What made today feel this way?"},
	}, nil
}

func (m *mockProvider) SuggestTopics(ctx context.Context) ([]string, error) {
	if m.SuggestTopicsFunc != nil {
		return m.SuggestTopicsFunc(ctx)
	}
	return nil, errors.New("not configured")
}

func newTestService(repo Repository, provider insight.Provider) Service {
	return NewService(repo, provider, Options{HistoryWindow: 5}, zerolog.Nop())
}

func existingConversation(id string, messages ...Message) *Conversation {
	now := time.Now().UTC().Add(-time.Hour)
	return &Conversation{
		ID:        id,
		Title:     "Chat - 09:15",
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  messages,
	}
}

func TestAppendMessage_ReturnsUserThenAgent(t *testing.T) {
	var persisted []Message
	repo := &mockRepository{
		FindByPublicIDFunc: func(_ context.Context, id string) (*Conversation, error) {
			return existingConversation(id), nil
		},
		UpdateFunc: func(_ context.Context, _ string, update Update) (bool, error) {
			require.NotNil(t, update.Messages)
			persisted = *update.Messages
			return true, nil
		},
	}

	svc := newTestService(repo, &mockProvider{})
	result, err := svc.AppendMessage(context.Background(), "conv-1", "I had a good day")
	require.NoError(t, err)

	assert.Equal(t, RoleUser, result.UserMessage.Role)
	assert.Equal(t, RoleAgent, result.AgentMessage.Role)
	assert.Equal(t, "I had a good day", result.UserMessage.Content)
	assert.False(t, result.Degraded)
	assert.False(t, result.AgentMessage.Timestamp.Before(result.UserMessage.Timestamp))

	require.Len(t, persisted, 2)
	assert.Equal(t, result.UserMessage.ID, persisted[0].ID)
	assert.Equal(t, result.AgentMessage.ID, persisted[1].ID)
}

func TestAppendMessage_SubmitsFullReplacePayload(t *testing.T) {
	prior := []Message{
		NewMessage(RoleUser, "first", time.Now().UTC().Add(-2*time.Minute)),
		NewMessage(RoleAgent, "reply", time.Now().UTC().Add(-time.Minute)),
	}

	var persisted []Message
	repo := &mockRepository{
		FindByPublicIDFunc: func(_ context.Context, id string) (*Conversation, error) {
			return existingConversation(id, prior...), nil
		},
		UpdateFunc: func(_ context.Context, _ string, update Update) (bool, error) {
			persisted = *update.Messages
			return true, nil
		},
	}

	svc := newTestService(repo, &mockProvider{})
	_, err := svc.AppendMessage(context.Background(), "conv-1", "second entry")
	require.NoError(t, err)

	require.Len(t, persisted, 4)
	assert.Equal(t, prior[0].ID, persisted[0].ID)
	assert.Equal(t, prior[1].ID, persisted[1].ID)
}

func TestAppendMessage_BlankContentRejectedEarly(t *testing.T) {
	repoCalled := false
	repo := &mockRepository{
		FindByPublicIDFunc: func(_ context.Context, _ string) (*Conversation, error) {
			repoCalled = true
			return nil, ErrNotFound
		},
	}
	providerCalled := false
	provider := &mockProvider{
		AnalyzeFunc: func(_ context.Context, _ string, _ []insight.HistoryEntry) (*insight.Result, error) {
			providerCalled = true
			return nil, errors.New("should not be called")
		},
	}

	svc := newTestService(repo, provider)
	_, err := svc.AppendMessage(context.Background(), "conv-1", "   ")

	assert.ErrorIs(t, err, ErrContentRequired)
	assert.False(t, repoCalled)
	assert.False(t, providerCalled)
}

func TestAppendMessage_UnknownConversation(t *testing.T) {
	svc := newTestService(&mockRepository{}, &mockProvider{})
	_, err := svc.AppendMessage(context.Background(), "missing", "hello")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAppendMessage_ProviderFailureDegradesButSucceeds(t *testing.T) {
	repo := &mockRepository{
		FindByPublicIDFunc: func(_ context.Context, id string) (*Conversation, error) {
			return existingConversation(id), nil
		},
	}
	provider := &mockProvider{
		AnalyzeFunc: func(_ context.Context, _ string, _ []insight.HistoryEntry) (*insight.Result, error) {
			return nil, errors.New("provider unavailable")
		},
	}

	svc := newTestService(repo, provider)
	result, err := svc.AppendMessage(context.Background(), "conv-1", "I feel overwhelmed today")
	require.NoError(t, err)

	assert.True(t, result.Degraded)
	assert.NotEmpty(t, result.AgentMessage.Content)
	require.NotNil(t, result.AgentMessage.Analysis)
	assert.Equal(t, "concerned", result.AgentMessage.Analysis.EmotionalTone)
	assert.Empty(t, result.AgentMessage.Analysis.PossibleReasons)
	assert.Empty(t, result.AgentMessage.Analysis.Suggestions)
	assert.NotEmpty(t, result.AgentMessage.Analysis.FollowUpQuestions)
}

func TestAppendMessage_StorageFailureSurfaces(t *testing.T) {
	storageErr := errors.New("disk full")
	repo := &mockRepository{
		FindByPublicIDFunc: func(_ context.Context, id string) (*Conversation, error) {
			return existingConversation(id), nil
		},
		UpdateFunc: func(_ context.Context, _ string, _ Update) (bool, error) {
			return false, storageErr
		},
	}

	svc := newTestService(repo, &mockProvider{})
	_, err := svc.AppendMessage(context.Background(), "conv-1", "hello")
	assert.ErrorIs(t, err, storageErr)
}

func TestAppendMessage_DeletedBetweenLoadAndWrite(t *testing.T) {
	repo := &mockRepository{
		FindByPublicIDFunc: func(_ context.Context, id string) (*Conversation, error) {
			return existingConversation(id), nil
		},
		UpdateFunc: func(_ context.Context, _ string, _ Update) (bool, error) {
			return false, nil
		},
	}

	svc := newTestService(repo, &mockProvider{})
	_, err := svc.AppendMessage(context.Background(), "conv-1", "hello")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAppendMessage_HistoryWindowIsBounded(t *testing.T) {
	messages := make([]Message, 12)
	base := time.Now().UTC().Add(-time.Hour)
	for i := range messages {
		messages[i] = NewMessage(RoleUser, string(rune('a'+i)), base.Add(time.Duration(i)*time.Minute))
	}

	var seen []insight.HistoryEntry
	repo := &mockRepository{
		FindByPublicIDFunc: func(_ context.Context, id string) (*Conversation, error) {
			return existingConversation(id, messages...), nil
		},
	}
	provider := &mockProvider{
		AnalyzeFunc: func(_ context.Context, _ string, history []insight.HistoryEntry) (*insight.Result, error) {
			seen = history
			return &insight.Result{EmotionalTone: "calm", Insights: "ok"}, nil
		},
	}

	svc := newTestService(repo, provider)
	_, err := svc.AppendMessage(context.Background(), "conv-1", "latest")
	require.NoError(t, err)

	require.Len(t, seen, 5)
	assert.Equal(t, messages[7].Content, seen[0].Content)
	assert.Equal(t, messages[11].Content, seen[4].Content)
}

func TestRename_BlankTitle(t *testing.T) {
	svc := newTestService(&mockRepository{}, &mockProvider{})
	err := svc.Rename(context.Background(), "conv-1", "  ")
	assert.ErrorIs(t, err, ErrTitleRequired)
}

func TestRename_UnknownConversation(t *testing.T) {
	repo := &mockRepository{
		UpdateFunc: func(_ context.Context, _ string, _ Update) (bool, error) {
			return false, nil
		},
	}
	svc := newTestService(repo, &mockProvider{})
	err := svc.Rename(context.Background(), "missing", "New title")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSuggestedTopics_FallbackOnProviderFailure(t *testing.T) {
	svc := newTestService(&mockRepository{}, &mockProvider{
		SuggestTopicsFunc: func(_ context.Context) ([]string, error) {
			return nil, errors.New("provider unavailable")
		},
	})

	topics, err := svc.SuggestedTopics(context.Background())
	require.NoError(t, err)
	assert.Len(t, topics, 5)
}

func TestSuggestedTopics_TrimsToFive(t *testing.T) {
	svc := newTestService(&mockRepository{}, &mockProvider{
		SuggestTopicsFunc: func(_ context.Context) ([]string, error) {
			return []string{"a", "b", "c", "d", "e", "f", "g"}, nil
		},
	})

	topics, err := svc.SuggestedTopics(context.Background())
	require.NoError(t, err)
	assert.Len(t, topics, 5)
}

func TestTrailingWindow_ShorterThanLimit(t *testing.T) {
	messages := []Message{
		NewMessage(RoleUser, "hi", time.Now().UTC()),
	}
	window := trailingWindow(messages, 5)
	require.Len(t, window, 1)
	assert.Equal(t, "user", window[0].Role)
}
