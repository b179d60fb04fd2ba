package conversation

import (
	"context"
	"sort"
	"sync"
	"time"

	domain "journal-api/internal/domain/conversation"
)

// InMemoryRepository is a thread-safe repository useful for demos/tests.
// It mirrors the PostgreSQL repository's semantics: full-replace message
// updates, cascade deletes, and timestamp-ordered reads.
type InMemoryRepository struct {
	mu     sync.RWMutex
	convs  map[string]*record
	now    func() time.Time
}

type record struct {
	conv     domain.Conversation
	messages []domain.Message // kept in insertion order
}

// NewInMemoryRepository creates an empty in-memory store.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		convs: make(map[string]*record),
		now:   time.Now,
	}
}

var _ domain.Repository = (*InMemoryRepository)(nil)

func (r *InMemoryRepository) Create(_ context.Context, conv *domain.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *conv
	stored.Messages = nil
	r.convs[conv.ID] = &record{
		conv:     stored,
		messages: append([]domain.Message(nil), conv.Messages...),
	}
	return nil
}

func (r *InMemoryRepository) FindByPublicID(_ context.Context, id string) (*domain.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.convs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}

	conv := rec.conv
	conv.Messages = orderedCopy(rec.messages)
	if len(conv.Messages) > 0 {
		last := conv.Messages[len(conv.Messages)-1]
		conv.LastMessage = &last.Content
		conv.LastMessageTime = &last.Timestamp
	}
	return &conv, nil
}

func (r *InMemoryRepository) Update(_ context.Context, id string, update domain.Update) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.convs[id]
	if !ok {
		return false, nil
	}

	if update.Title != nil {
		rec.conv.Title = *update.Title
	}
	if update.Messages != nil {
		rec.messages = append([]domain.Message(nil), (*update.Messages)...)
	}
	rec.conv.UpdatedAt = r.now().UTC()
	return true, nil
}

func (r *InMemoryRepository) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.convs[id]; !ok {
		return false, nil
	}
	delete(r.convs, id)
	return true, nil
}

func (r *InMemoryRepository) List(_ context.Context) ([]domain.Summary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	summaries := make([]domain.Summary, 0, len(r.convs))
	for _, rec := range r.convs {
		summary := domain.Summary{
			ID:        rec.conv.ID,
			Title:     rec.conv.Title,
			CreatedAt: rec.conv.CreatedAt,
			UpdatedAt: rec.conv.UpdatedAt,
		}
		ordered := orderedCopy(rec.messages)
		if len(ordered) > 0 {
			last := ordered[len(ordered)-1]
			summary.LastMessage = &last.Content
			summary.LastMessageTime = &last.Timestamp
		}
		summaries = append(summaries, summary)
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].UpdatedAt.After(summaries[j].UpdatedAt)
	})
	return summaries, nil
}

// orderedCopy sorts by timestamp ascending, keeping insertion order for
// equal timestamps.
func orderedCopy(messages []domain.Message) []domain.Message {
	copied := append([]domain.Message(nil), messages...)
	sort.SliceStable(copied, func(i, j int) bool {
		return copied[i].Timestamp.Before(copied[j].Timestamp)
	})
	return copied
}
