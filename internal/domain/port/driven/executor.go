package driven

import (
	"context"

	"github.com/ericfisherdev/contacts/internal/domain/model"
)

// ExecSuccess is the only value Exec returns on success.
const ExecSuccess = "success"

// Executor defines the driven port for running SQL against the backing store.
// Each call opens its own connection and closes it before returning, on both
// the success and the failure path.
type Executor interface {
	// Query runs a read statement and returns every row it produced.
	Query(ctx context.Context, statement string, args ...any) (model.RowSet, error)

	// Exec runs a write or DDL statement. Without args the statement may
	// contain several semicolon-separated statements.
	Exec(ctx context.Context, statement string, args ...any) (string, error)
}
