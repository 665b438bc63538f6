package sqlite

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// discardLogger keeps test output quiet.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// setupTestFactory returns a Factory pointing at a fresh file inside a
// per-test temp dir. Per-call connections mean an in-memory database would
// vanish between calls, so tests use a real file.
func setupTestFactory(t *testing.T, opts ...FactoryOption) *Factory {
	t.Helper()
	path := filepath.Join(t.TempDir(), "contacts.sqlite")
	return NewFactory(path, discardLogger(), opts...)
}

// setupTestExecutor returns an Executor over a seeded database.
func setupTestExecutor(t *testing.T) *Executor {
	t.Helper()
	exec := NewExecutor(setupTestFactory(t), discardLogger())
	_, err := exec.Query(context.Background(), "select 1")
	require.NoError(t, err, "first open should create and seed the database")
	return exec
}

// countingOpener wraps an Opener and records how many times each handed-out
// connection was closed.
type countingOpener struct {
	inner Opener

	mu     sync.Mutex
	conns  []*countingConn
	opened int
}

func (o *countingOpener) Open(ctx context.Context) (Conn, error) {
	conn, err := o.inner.Open(ctx)
	if err != nil {
		return nil, err
	}
	c := &countingConn{Conn: conn}

	o.mu.Lock()
	o.conns = append(o.conns, c)
	o.opened++
	o.mu.Unlock()

	return c, nil
}

type countingConn struct {
	Conn
	mu     sync.Mutex
	closes int
}

func (c *countingConn) Close() error {
	c.mu.Lock()
	c.closes++
	c.mu.Unlock()
	return c.Conn.Close()
}
