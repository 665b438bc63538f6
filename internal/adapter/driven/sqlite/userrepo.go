package sqlite

import (
	"context"
	"fmt"

	"github.com/ericfisherdev/contacts/internal/domain/model"
	"github.com/ericfisherdev/contacts/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.UserStore = (*UserRepo)(nil)

// UserRepo is the SQLite implementation of the UserStore port interface.
// It goes through the Executor, so every call uses its own connection.
type UserRepo struct {
	exec driven.Executor
}

// NewUserRepo creates a new UserRepo backed by the given Executor.
func NewUserRepo(exec driven.Executor) *UserRepo {
	return &UserRepo{exec: exec}
}

// ListAll returns every user ordered by name.
func (r *UserRepo) ListAll(ctx context.Context) ([]model.User, error) {
	const query = `SELECT id, username, name, email, phone FROM users ORDER BY name, id`

	rs, err := r.exec.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	users := make([]model.User, 0, len(rs))
	for _, row := range rs {
		u, err := toUser(row)
		if err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
		users = append(users, u)
	}
	return users, nil
}

// GetByID returns the user with the given id, or driven.ErrUserNotFound.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	const query = `SELECT id, username, name, email, phone FROM users WHERE id = ?`
	return r.getOne(ctx, query, id)
}

// GetByUsername returns the user with the given username, or driven.ErrUserNotFound.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	const query = `SELECT id, username, name, email, phone FROM users WHERE username = ?`
	return r.getOne(ctx, query, username)
}

func (r *UserRepo) getOne(ctx context.Context, query string, arg any) (*model.User, error) {
	rs, err := r.exec.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("get user %v: %w", arg, err)
	}
	if len(rs) == 0 {
		return nil, driven.ErrUserNotFound
	}

	u, err := toUser(rs[0])
	if err != nil {
		return nil, fmt.Errorf("get user %v: %w", arg, err)
	}
	return &u, nil
}

func toUser(row model.Row) (model.User, error) {
	id, err := int64Col(row["id"], "id")
	if err != nil {
		return model.User{}, err
	}
	return model.User{
		ID:       id,
		Username: stringCol(row["username"]),
		Name:     stringCol(row["name"]),
		Email:    stringCol(row["email"]),
		Phone:    stringCol(row["phone"]),
	}, nil
}
