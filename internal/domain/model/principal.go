package model

// Principal is the single fixed identity allowed to log in. It comes from
// configuration and is never persisted.
type Principal struct {
	Username string
	Password string
}
