package sqlite

import (
	"context"
	"fmt"

	"github.com/ericfisherdev/contacts/internal/domain/model"
	"github.com/ericfisherdev/contacts/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.PostStore = (*PostRepo)(nil)

// PostRepo is the SQLite implementation of the PostStore port interface.
type PostRepo struct {
	exec driven.Executor
}

// NewPostRepo creates a new PostRepo backed by the given Executor.
func NewPostRepo(exec driven.Executor) *PostRepo {
	return &PostRepo{exec: exec}
}

// ListWithAuthors returns every post joined with its author, newest first.
func (r *PostRepo) ListWithAuthors(ctx context.Context) ([]model.PostWithAuthor, error) {
	const query = `
		SELECT posts.id, posts.user_id, posts.title, posts.body, posts.created_at,
		       users.name AS author_name, users.username AS author_username
		FROM posts
		INNER JOIN users ON posts.user_id = users.id
		ORDER BY posts.created_at DESC, posts.id DESC
	`

	rs, err := r.exec.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	posts := make([]model.PostWithAuthor, 0, len(rs))
	for _, row := range rs {
		p, err := toPost(row)
		if err != nil {
			return nil, fmt.Errorf("list posts: %w", err)
		}
		posts = append(posts, model.PostWithAuthor{
			Post:           p,
			AuthorName:     stringCol(row["author_name"]),
			AuthorUsername: stringCol(row["author_username"]),
		})
	}
	return posts, nil
}

// ListByUser returns the posts written by a single user, newest first.
func (r *PostRepo) ListByUser(ctx context.Context, userID int64) ([]model.Post, error) {
	const query = `
		SELECT id, user_id, title, body, created_at
		FROM posts
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
	`

	rs, err := r.exec.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list posts for user %d: %w", userID, err)
	}

	posts := make([]model.Post, 0, len(rs))
	for _, row := range rs {
		p, err := toPost(row)
		if err != nil {
			return nil, fmt.Errorf("list posts for user %d: %w", userID, err)
		}
		posts = append(posts, p)
	}
	return posts, nil
}

// Create inserts a post. A zero CreatedAt uses the database clock. Fails with
// a *CommandError when the user does not exist.
func (r *PostRepo) Create(ctx context.Context, post model.Post) error {
	var err error
	if post.CreatedAt.IsZero() {
		const query = `INSERT INTO posts (user_id, title, body) VALUES (?, ?, ?)`
		_, err = r.exec.Exec(ctx, query, post.UserID, post.Title, post.Body)
	} else {
		const query = `INSERT INTO posts (user_id, title, body, created_at) VALUES (?, ?, ?, ?)`
		_, err = r.exec.Exec(ctx, query, post.UserID, post.Title, post.Body,
			post.CreatedAt.UTC().Format("2006-01-02 15:04:05"))
	}
	if err != nil {
		return fmt.Errorf("create post for user %d: %w", post.UserID, err)
	}
	return nil
}

func toPost(row model.Row) (model.Post, error) {
	id, err := int64Col(row["id"], "id")
	if err != nil {
		return model.Post{}, err
	}
	userID, err := int64Col(row["user_id"], "user_id")
	if err != nil {
		return model.Post{}, err
	}
	createdAt, err := timeCol(row["created_at"], "created_at")
	if err != nil {
		return model.Post{}, err
	}
	return model.Post{
		ID:        id,
		UserID:    userID,
		Title:     stringCol(row["title"]),
		Body:      stringCol(row["body"]),
		CreatedAt: createdAt,
	}, nil
}
