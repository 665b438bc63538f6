package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"

	_ "modernc.org/sqlite"
)

// Conn is a handle to the contacts database owned by exactly one operation.
// *sql.DB satisfies it.
type Conn interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	Close() error
}

// Opener hands out a fresh Conn per call. Callers own the returned Conn and
// must close it.
type Opener interface {
	Open(ctx context.Context) (Conn, error)
}

// Compile-time interface satisfaction check.
var _ Opener = (*Factory)(nil)

// Factory opens a new handle to the on-disk database for every call. There is
// no pooling: each handle is limited to a single underlying connection and is
// closed by whoever opened it.
//
// The first Open against a missing file creates it and applies the embedded
// initialization script before any handle is returned.
type Factory struct {
	path   string
	logger *slog.Logger
	strict bool
	initDB func(*sql.DB) error

	// mu serializes first-run creation. ready is set once the file is known
	// to exist and initialization has finished (or failed in degraded mode).
	mu    sync.Mutex
	ready atomic.Bool
}

// FactoryOption configures a Factory.
type FactoryOption func(*Factory)

// WithStrictInit makes Open fail with a *ConnectionError when first-run
// initialization fails. Without it the error is logged and a handle to the
// possibly empty database is returned anyway.
func WithStrictInit() FactoryOption {
	return func(f *Factory) { f.strict = true }
}

// NewFactory creates a Factory for the database file at path.
func NewFactory(path string, logger *slog.Logger, opts ...FactoryOption) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	f := &Factory{
		path:   path,
		logger: logger,
		initDB: InitSchema,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Path returns the database file path.
func (f *Factory) Path() string {
	return f.path
}

// Open returns a new handle to the database, creating and seeding the file
// first if it does not exist yet.
func (f *Factory) Open(ctx context.Context) (Conn, error) {
	if !f.ready.Load() || !fileExists(f.path) {
		if err := f.ensureCreated(ctx); err != nil {
			return nil, err
		}
	}

	db, err := f.open(ctx)
	if err != nil {
		return nil, err
	}
	return db, nil
}

// ensureCreated creates and initializes the database file when it is missing.
func (f *Factory) ensureCreated(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if fileExists(f.path) {
		f.ready.Store(true)
		return nil
	}
	f.ready.Store(false)

	db, err := f.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()
	f.logger.Info("new database created", "path", f.path)

	if err := f.initDB(db); err != nil {
		f.logger.Error("database initialization failed", "path", f.path, "error", err)
		if f.strict {
			_ = db.Close()
			// Remove the half-initialized file so the next Open retries.
			_ = os.Remove(f.path)
			return &ConnectionError{Path: f.path, Err: fmt.Errorf("initialize: %w", err)}
		}
	}

	f.ready.Store(true)
	return nil
}

// open opens and pings a single-connection handle. The ping forces the driver
// to create the file when it is missing.
func (f *Factory) open(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn(f.path))
	if err != nil {
		return nil, &ConnectionError{Path: f.path, Err: err}
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, &ConnectionError{Path: f.path, Err: err}
	}

	return db, nil
}

// dsn builds the modernc DSN with busy timeout and foreign keys enabled.
// WAL lets a reader and a writer on separate handles proceed concurrently.
func dsn(path string) string {
	return fmt.Sprintf(
		"file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)",
		path,
	)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
