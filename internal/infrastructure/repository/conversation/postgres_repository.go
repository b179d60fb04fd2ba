package conversation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	domain "journal-api/internal/domain/conversation"
	"journal-api/internal/infrastructure/database/entities"
	"journal-api/internal/infrastructure/metrics"
)

// PostgresRepository persists conversations via PostgreSQL using GORM.
type PostgresRepository struct {
	db *gorm.DB
}

// NewPostgresRepository creates a repository backed by the provided DB.
func NewPostgresRepository(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var _ domain.Repository = (*PostgresRepository)(nil)

// Create inserts the conversation row, then re-reads it to confirm the
// write actually landed before reporting success.
func (r *PostgresRepository) Create(ctx context.Context, conv *domain.Conversation) error {
	defer metrics.ObserveStorageOp("create", time.Now())

	entity := entities.NewSchemaConversation(conv)
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return fmt.Errorf("create conversation: %w", err)
	}

	var verify entities.Conversation
	if err := r.db.WithContext(ctx).Select("id").First(&verify, "id = ?", conv.ID).Error; err != nil {
		return fmt.Errorf("verify conversation %s after create: %w", conv.ID, err)
	}
	return nil
}

// FindByPublicID fetches a conversation with its messages ordered by
// timestamp, ties broken by insertion order.
func (r *PostgresRepository) FindByPublicID(ctx context.Context, id string) (*domain.Conversation, error) {
	defer metrics.ObserveStorageOp("get", time.Now())

	var entity entities.Conversation
	err := r.db.WithContext(ctx).
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("timestamp ASC, sequence ASC")
		}).
		First(&entity, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("fetch conversation %s: %w", id, err)
	}

	return entity.EtoD()
}

// Update applies a title change and/or a full message replace as a single
// durable unit. Returns (false, nil) when the conversation does not exist.
func (r *PostgresRepository) Update(ctx context.Context, id string, update domain.Update) (bool, error) {
	defer metrics.ObserveStorageOp("update", time.Now())

	found := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing entities.Conversation
		if err := tx.Select("id").First(&existing, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		found = true

		changes := map[string]any{"updated_at": time.Now().UTC()}
		if update.Title != nil {
			changes["title"] = *update.Title
		}

		if update.Messages != nil {
			if err := tx.Where("conversation_id = ?", id).Delete(&entities.Message{}).Error; err != nil {
				return fmt.Errorf("clear messages: %w", err)
			}
			rows := make([]*entities.Message, 0, len(*update.Messages))
			for i, msg := range *update.Messages {
				row, err := entities.NewSchemaMessage(id, msg, i)
				if err != nil {
					return err
				}
				rows = append(rows, row)
			}
			if len(rows) > 0 {
				if err := tx.Create(rows).Error; err != nil {
					return fmt.Errorf("insert messages: %w", err)
				}
			}
		}

		return tx.Model(&entities.Conversation{}).Where("id = ?", id).Updates(changes).Error
	})
	if err != nil {
		return false, fmt.Errorf("update conversation %s: %w", id, err)
	}
	return found, nil
}

// Delete removes the conversation and all owned messages in one unit.
func (r *PostgresRepository) Delete(ctx context.Context, id string) (bool, error) {
	defer metrics.ObserveStorageOp("delete", time.Now())

	found := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing entities.Conversation
		if err := tx.Select("id").First(&existing, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		found = true

		if err := tx.Where("conversation_id = ?", id).Delete(&entities.Message{}).Error; err != nil {
			return fmt.Errorf("delete messages: %w", err)
		}
		return tx.Delete(&entities.Conversation{}, "id = ?", id).Error
	})
	if err != nil {
		return false, fmt.Errorf("delete conversation %s: %w", id, err)
	}
	return found, nil
}

// List returns summaries ordered by most recently touched first, each with
// its latest message when one exists.
func (r *PostgresRepository) List(ctx context.Context) ([]domain.Summary, error) {
	defer metrics.ObserveStorageOp("list", time.Now())

	var convs []entities.Conversation
	if err := r.db.WithContext(ctx).Order("updated_at DESC").Find(&convs).Error; err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}

	summaries := make([]domain.Summary, 0, len(convs))
	for i := range convs {
		summary := domain.Summary{
			ID:        convs[i].ID,
			Title:     convs[i].Title,
			CreatedAt: convs[i].CreatedAt,
			UpdatedAt: convs[i].UpdatedAt,
		}

		var last entities.Message
		err := r.db.WithContext(ctx).
			Where("conversation_id = ?", convs[i].ID).
			Order("timestamp DESC, sequence DESC").
			First(&last).Error
		if err == nil {
			summary.LastMessage = &last.Content
			summary.LastMessageTime = &last.Timestamp
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("fetch last message for %s: %w", convs[i].ID, err)
		}

		summaries = append(summaries, summary)
	}
	return summaries, nil
}
