package httphandler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httphandler "github.com/ericfisherdev/contacts/internal/adapter/driving/http"
	"github.com/ericfisherdev/contacts/internal/application"
	"github.com/ericfisherdev/contacts/internal/auth"
	"github.com/ericfisherdev/contacts/internal/domain/model"
	"github.com/ericfisherdev/contacts/internal/domain/port/driven"
)

// --- Mock implementations ---

type mockUserStore struct {
	users []model.User
	err   error
}

func (m *mockUserStore) ListAll(_ context.Context) ([]model.User, error) {
	return m.users, m.err
}
func (m *mockUserStore) GetByID(_ context.Context, _ int64) (*model.User, error) {
	return nil, driven.ErrUserNotFound
}
func (m *mockUserStore) GetByUsername(_ context.Context, _ string) (*model.User, error) {
	return nil, driven.ErrUserNotFound
}

type mockPostStore struct {
	posts []model.PostWithAuthor
	err   error
}

func (m *mockPostStore) ListWithAuthors(_ context.Context) ([]model.PostWithAuthor, error) {
	return m.posts, m.err
}
func (m *mockPostStore) ListByUser(_ context.Context, _ int64) ([]model.Post, error) {
	return nil, m.err
}
func (m *mockPostStore) Create(_ context.Context, _ model.Post) error { return m.err }

type mockExecutor struct {
	rows model.RowSet
	err  error
}

func (m *mockExecutor) Query(_ context.Context, _ string, _ ...any) (model.RowSet, error) {
	return m.rows, m.err
}
func (m *mockExecutor) Exec(_ context.Context, _ string, _ ...any) (string, error) {
	return driven.ExecSuccess, m.err
}

// --- Helpers ---

const testSessionValue = "demo"

// setupMux registers the API routes behind a username gate that admits the
// cookie username=demo.
func setupMux(users *mockUserStore, posts *mockPostStore, exec *mockExecutor) http.Handler {
	healthSvc := application.NewHealthService(exec)
	h := httphandler.NewHandler(users, posts, healthSvc, slog.Default())

	mux := http.NewServeMux()
	gate := auth.RequireAuth(auth.NewUsernameStrategy(testSessionValue), "/accounts/login", slog.Default())
	httphandler.RegisterRoutes(mux, h, gate)
	return httphandler.ApplyMiddleware(mux, slog.Default())
}

func authedRequest(path string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.AddCookie(&http.Cookie{Name: auth.UsernameCookie, Value: testSessionValue})
	return req
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	err := json.NewDecoder(rec.Body).Decode(v)
	require.NoError(t, err)
}

func healthyExecutor() *mockExecutor {
	return &mockExecutor{rows: model.RowSet{{"1": int64(1)}}}
}

// --- Tests ---

func TestListUsers(t *testing.T) {
	users := &mockUserStore{users: []model.User{
		{ID: 1, Username: "demo", Name: "Demo User", Email: "demo@example.com"},
		{ID: 2, Username: "ada", Name: "Ada Lovelace", Email: "ada@example.com", Phone: "555-0101"},
	}}
	mux := setupMux(users, &mockPostStore{}, healthyExecutor())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, authedRequest("/api/v1/users"))

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp []httphandler.UserResponse
	decodeJSON(t, rec, &resp)
	require.Len(t, resp, 2)
	assert.Equal(t, "demo", resp[0].Username)
	assert.Equal(t, "555-0101", resp[1].Phone)
}

func TestListUsers_EmptyIsArray(t *testing.T) {
	mux := setupMux(&mockUserStore{}, &mockPostStore{}, healthyExecutor())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, authedRequest("/api/v1/users"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestListUsers_StoreError(t *testing.T) {
	mux := setupMux(&mockUserStore{err: errors.New("db locked")}, &mockPostStore{}, healthyExecutor())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, authedRequest("/api/v1/users"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp map[string]string
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "internal server error", resp["error"])
}

func TestListPosts(t *testing.T) {
	created := time.Date(2024, 1, 5, 8, 15, 0, 0, time.UTC)
	posts := &mockPostStore{posts: []model.PostWithAuthor{
		{
			Post:           model.Post{ID: 4, UserID: 2, Title: "Program for Bernoulli numbers", Body: "- step one", CreatedAt: created},
			AuthorName:     "Ada Lovelace",
			AuthorUsername: "ada",
		},
	}}
	mux := setupMux(&mockUserStore{}, posts, healthyExecutor())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, authedRequest("/api/v1/posts"))

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp []httphandler.PostResponse
	decodeJSON(t, rec, &resp)
	require.Len(t, resp, 1)
	assert.Equal(t, "2024-01-05T08:15:00Z", resp[0].CreatedAt)
	assert.Equal(t, httphandler.AuthorInfo{ID: 2, Username: "ada", Name: "Ada Lovelace"}, resp[0].Author)
}

func TestDataEndpoints_RequireSession(t *testing.T) {
	mux := setupMux(&mockUserStore{}, &mockPostStore{}, healthyExecutor())

	for _, path := range []string{"/api/v1/users", "/api/v1/posts"} {
		t.Run(path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

			assert.Equal(t, http.StatusFound, rec.Code)
			assert.Equal(t, "/accounts/login", rec.Header().Get("Location"))
		})
	}
}

func TestHealth(t *testing.T) {
	mux := setupMux(&mockUserStore{}, &mockPostStore{}, healthyExecutor())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, "ok", resp["database"])
	assert.NotEmpty(t, resp["time"])
}

func TestHealth_DatabaseDown(t *testing.T) {
	mux := setupMux(&mockUserStore{}, &mockPostStore{}, &mockExecutor{err: errors.New("unable to open database file")})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp httphandler.HealthResponse
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "unavailable", resp.Status)
	assert.Equal(t, "error", resp.Database)
}

func TestApplyMiddleware_RecoversPanic(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /boom", func(http.ResponseWriter, *http.Request) { panic("boom") })
	handler := httphandler.ApplyMiddleware(mux, logger)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, logs.String(), "panic recovered")
	assert.Contains(t, logs.String(), "status=500")
}

func TestApplyMiddleware_LogsRequest(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /teapot", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusTeapot) })
	handler := httphandler.ApplyMiddleware(mux, logger)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/teapot", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Contains(t, logs.String(), "http request")
	assert.Contains(t, logs.String(), "path=/teapot")
	assert.Contains(t, logs.String(), "status=418")
}

func TestApplyMiddleware_LogsGatedPrincipal(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	h := httphandler.NewHandler(&mockUserStore{}, &mockPostStore{}, application.NewHealthService(healthyExecutor()), logger)
	mux := http.NewServeMux()
	gate := auth.RequireAuth(auth.NewUsernameStrategy(testSessionValue), "/accounts/login", logger)
	httphandler.RegisterRoutes(mux, h, gate)
	handler := httphandler.ApplyMiddleware(mux, logger)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest("/api/v1/users"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, logs.String(), "principal=demo")

	logs.Reset()
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/users", nil))
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, logs.String(), "principal=-")
	assert.Contains(t, logs.String(), "status=302")
}

func TestApplyMiddleware_ImplicitStatusFromWrite(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /late", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("hello"))
		// Too late: the 200 has already gone out with the body.
		w.WriteHeader(http.StatusInternalServerError)
	})
	handler := httphandler.ApplyMiddleware(mux, logger)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/late", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, logs.String(), "status=200")
	assert.Contains(t, logs.String(), "bytes=5")
}

func TestApplyMiddleware_PanicAfterWriteKeepsResponse(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /partial", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte("partial"))
		panic("late failure")
	})
	handler := httphandler.ApplyMiddleware(mux, logger)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/partial", nil))

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "partial", rec.Body.String())
	assert.Contains(t, logs.String(), "panic recovered")
	assert.Contains(t, logs.String(), "status=202")
}
