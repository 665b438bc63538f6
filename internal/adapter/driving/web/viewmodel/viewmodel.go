// Package viewmodel defines presentation-ready structs for templ components.
// View models decouple template rendering from domain model types.
package viewmodel

// NavItemViewModel is one link in the side navigation.
type NavItemViewModel struct {
	Label  string
	Path   string
	Active bool
}

// UserRowViewModel holds presentation-ready data for a row in the users table.
type UserRowViewModel struct {
	ID       int64
	Href     string // contact page, e.g. "/users/3"
	Username string
	Name     string
	Email    string
	Phone    string // "-" when empty
}

// PostCardViewModel holds presentation-ready data for a post in the posts list.
type PostCardViewModel struct {
	ID             int64
	AnchorID       string // element id, e.g. "post-7"
	Title          string
	AuthorName     string
	AuthorUsername string
	BodyHTML       string // sanitized markdown
	CreatedAt      string // RFC3339
	CreatedAtLabel string // e.g. "Jan 5, 2024"
}

// HomeViewModel holds the data for the landing page.
type HomeViewModel struct {
	Principal string
	UserCount int
	PostCount int
}

// PostsPageViewModel holds everything the posts page renders, including the
// CSRF token for the new-post form.
type PostsPageViewModel struct {
	Posts     []PostCardViewModel
	CSRFToken string
}

// UserDetailViewModel holds one contact and the posts they wrote.
type UserDetailViewModel struct {
	User  UserRowViewModel
	Posts []PostCardViewModel
}

// LoginViewModel holds the data for the login form.
type LoginViewModel struct {
	Action   string
	Username string
}
