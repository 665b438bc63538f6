package model

// User represents a contact stored in the users table.
type User struct {
	ID       int64
	Username string
	Name     string
	Email    string
	Phone    string
}
