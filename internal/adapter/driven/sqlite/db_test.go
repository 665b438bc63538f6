package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactory_OpenCreatesAndSeedsMissingFile(t *testing.T) {
	f := setupTestFactory(t)
	ctx := context.Background()

	_, err := os.Stat(f.Path())
	require.True(t, os.IsNotExist(err), "file must not exist before the first open")

	conn, err := f.Open(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	_, err = os.Stat(f.Path())
	require.NoError(t, err, "first open should create the file")

	rows, err := conn.QueryContext(ctx, "SELECT COUNT(*) FROM users")
	require.NoError(t, err)
	defer rows.Close()
	require.True(t, rows.Next())
	var count int
	require.NoError(t, rows.Scan(&count))
	assert.Positive(t, count, "seed data should be present")
}

func TestFactory_SelectOneAfterFirstOpen(t *testing.T) {
	f := setupTestFactory(t)
	exec := NewExecutor(f, discardLogger())

	rs, err := exec.Query(context.Background(), "select 1")
	require.NoError(t, err)
	require.Len(t, rs, 1)
	assert.EqualValues(t, 1, rs[0]["1"])
}

func TestFactory_ExistingFileIsNotReinitialized(t *testing.T) {
	f := setupTestFactory(t)
	ctx := context.Background()

	var inits int
	f.initDB = func(db *sql.DB) error {
		inits++
		return InitSchema(db)
	}

	for range 3 {
		conn, err := f.Open(ctx)
		require.NoError(t, err)
		require.NoError(t, conn.Close())
	}

	assert.Equal(t, 1, inits)
}

func TestFactory_ConcurrentFirstOpenInitializesOnce(t *testing.T) {
	f := setupTestFactory(t)
	ctx := context.Background()

	var mu sync.Mutex
	var inits int
	f.initDB = func(db *sql.DB) error {
		mu.Lock()
		inits++
		mu.Unlock()
		return InitSchema(db)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			conn, err := f.Open(ctx)
			if err != nil {
				errs <- err
				return
			}
			errs <- conn.Close()
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, 1, inits)
}

func TestFactory_InitFailureIsDegraded(t *testing.T) {
	f := setupTestFactory(t)
	f.initDB = func(*sql.DB) error { return errors.New("boom") }

	conn, err := f.Open(context.Background())
	require.NoError(t, err, "init failure should not fail the open")
	t.Cleanup(func() { _ = conn.Close() })

	_, err = conn.QueryContext(context.Background(), "SELECT * FROM users")
	assert.Error(t, err, "schema should be missing after a failed init")
}

func TestFactory_InitFailureStrict(t *testing.T) {
	f := setupTestFactory(t, WithStrictInit())
	f.initDB = func(*sql.DB) error { return errors.New("boom") }

	conn, err := f.Open(context.Background())
	require.Error(t, err)
	assert.Nil(t, conn)

	var connErr *ConnectionError
	require.ErrorAs(t, err, &connErr)
	assert.Equal(t, f.Path(), connErr.Path)
	assert.Contains(t, err.Error(), "boom")

	_, statErr := os.Stat(f.Path())
	assert.True(t, os.IsNotExist(statErr), "strict failure should remove the half-created file")
}

func TestFactory_OpenFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "contacts.sqlite")
	f := NewFactory(path, discardLogger())

	conn, err := f.Open(context.Background())
	require.Error(t, err)
	assert.Nil(t, conn)

	var connErr *ConnectionError
	assert.ErrorAs(t, err, &connErr)
}

func TestFactory_NewFactoryOnExistingFileSkipsInit(t *testing.T) {
	f := setupTestFactory(t)
	conn, err := f.Open(context.Background())
	require.NoError(t, err)
	require.NoError(t, conn.Close())

	// A restarted process gets a new Factory over the same file.
	restarted := NewFactory(f.Path(), discardLogger())
	restarted.initDB = func(*sql.DB) error {
		t.Fatal("init script must only run on a freshly created file")
		return nil
	}

	conn, err = restarted.Open(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	rs, err := NewExecutor(restarted, discardLogger()).Query(context.Background(), "select count(*) as n from users")
	require.NoError(t, err)
	require.Len(t, rs, 1)
	assert.Positive(t, rs[0]["n"])
}
