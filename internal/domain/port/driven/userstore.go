package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/contacts/internal/domain/model"
)

// ErrUserNotFound indicates the requested user does not exist.
var ErrUserNotFound = errors.New("user not found")

// UserStore defines the driven port for reading contacts.
type UserStore interface {
	ListAll(ctx context.Context) ([]model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
}
