package sqlite

import "fmt"

// ConnectionError reports that the database file could not be opened or
// initialized.
type ConnectionError struct {
	Path string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("open database %s: %v", e.Path, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// QueryError reports a failed read. The store's message is passed through.
type QueryError struct {
	Statement string
	Err       error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query: %v", e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// CommandError reports a failed write or DDL statement.
type CommandError struct {
	Statement string
	Err       error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("exec: %v", e.Err)
}

func (e *CommandError) Unwrap() error { return e.Err }
