package driven

import (
	"context"

	"github.com/ericfisherdev/contacts/internal/domain/model"
)

// PostStore defines the driven port for post persistence.
type PostStore interface {
	// ListWithAuthors returns every post joined with its author, newest first.
	ListWithAuthors(ctx context.Context) ([]model.PostWithAuthor, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Post, error)
	// Create inserts a post. The user must exist.
	Create(ctx context.Context, post model.Post) error
}
