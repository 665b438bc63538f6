package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/ericfisherdev/contacts/internal/domain/model"
	"github.com/ericfisherdev/contacts/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.Executor = (*Executor)(nil)

// Executor runs statements on a connection it opens for the call and closes
// before returning, whatever the outcome.
type Executor struct {
	opener Opener
	logger *slog.Logger
}

// NewExecutor creates an Executor that obtains connections from opener.
func NewExecutor(opener Opener, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{opener: opener, logger: logger}
}

// Query runs a read statement and returns all of its rows. Rows are fully
// drained before the connection is closed.
func (e *Executor) Query(ctx context.Context, statement string, args ...any) (model.RowSet, error) {
	conn, err := e.opener.Open(ctx)
	if err != nil {
		return nil, &QueryError{Statement: statement, Err: err}
	}
	defer e.release(conn)

	rows, err := conn.QueryContext(ctx, statement, args...)
	if err != nil {
		return nil, &QueryError{Statement: statement, Err: err}
	}

	rs, err := scanRows(rows)
	if err != nil {
		return nil, &QueryError{Statement: statement, Err: err}
	}

	return rs, nil
}

// Exec runs a write or DDL statement and returns driven.ExecSuccess.
func (e *Executor) Exec(ctx context.Context, statement string, args ...any) (string, error) {
	conn, err := e.opener.Open(ctx)
	if err != nil {
		return "", &CommandError{Statement: statement, Err: err}
	}
	defer e.release(conn)

	if _, err := conn.ExecContext(ctx, statement, args...); err != nil {
		return "", &CommandError{Statement: statement, Err: err}
	}

	return driven.ExecSuccess, nil
}

// release closes conn. A close failure does not change the outcome the
// caller already has, so it is only logged.
func (e *Executor) release(conn Conn) {
	if err := conn.Close(); err != nil {
		e.logger.Error("error closing database connection", "error", err)
	}
}

// scanRows reads every row into a RowSet and closes rows. []byte values are
// returned as strings. When a statement yields duplicate column names the
// last one wins.
func scanRows(rows *sql.Rows) (model.RowSet, error) {
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	rs := model.RowSet{}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}

		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		row := make(model.Row, len(cols))
		for i, col := range cols {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = values[i]
		}
		rs = append(rs, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return rs, nil
}
