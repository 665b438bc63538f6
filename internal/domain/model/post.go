package model

import "time"

// Post is a short note authored by a User.
type Post struct {
	ID        int64
	UserID    int64
	Title     string
	Body      string
	CreatedAt time.Time
}

// PostWithAuthor is a Post joined with the user that wrote it.
type PostWithAuthor struct {
	Post
	AuthorName     string
	AuthorUsername string
}
