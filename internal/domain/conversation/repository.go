package conversation

import "context"

// Update describes a partial conversation mutation. A nil field is left
// untouched; a non-nil Messages performs a full replace of the owned set.
type Update struct {
	Title    *string
	Messages *[]Message
}

// Repository is the storage engine contract for conversations.
//
// FindByPublicID returns ErrNotFound for absent ids; Update and Delete
// report absence as (false, nil). Any other error is an infrastructure
// failure. Title and message updates submitted together become visible
// together, never one without the other.
type Repository interface {
	Create(ctx context.Context, conv *Conversation) error
	FindByPublicID(ctx context.Context, id string) (*Conversation, error)
	Update(ctx context.Context, id string, update Update) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]Summary, error)
}
