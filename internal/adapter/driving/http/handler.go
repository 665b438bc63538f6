package httphandler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/ericfisherdev/contacts/internal/application"
	"github.com/ericfisherdev/contacts/internal/domain/port/driven"
)

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	users     driven.UserStore
	posts     driven.PostStore
	healthSvc *application.HealthService
	logger    *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	users driven.UserStore,
	posts driven.PostStore,
	healthSvc *application.HealthService,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		users:     users,
		posts:     posts,
		healthSvc: healthSvc,
		logger:    logger,
	}
}

// RegisterRoutes registers the API routes on mux. Health is public; the data
// endpoints are wrapped in gate.
func RegisterRoutes(mux *http.ServeMux, h *Handler, gate func(http.Handler) http.Handler) {
	mux.HandleFunc("GET /api/v1/health", h.Health)
	mux.Handle("GET /api/v1/users", gate(http.HandlerFunc(h.ListUsers)))
	mux.Handle("GET /api/v1/posts", gate(http.HandlerFunc(h.ListPosts)))
}

// ApplyMiddleware wraps handler with logging and recovery middleware.
func ApplyMiddleware(handler http.Handler, logger *slog.Logger) http.Handler {
	// Recovery innermost so panics are caught before logging.
	wrapped := recoveryMiddleware(logger, handler)
	wrapped = loggingMiddleware(logger, wrapped)

	return wrapped
}

// ListUsers returns every contact.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListAll(r.Context())
	if err != nil {
		h.logger.Error("failed to list users", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, toUserResponse(u))
	}

	writeJSON(w, http.StatusOK, resp)
}

// ListPosts returns every post with its author, newest first.
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.ListWithAuthors(r.Context())
	if err != nil {
		h.logger.Error("failed to list posts", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]PostResponse, 0, len(posts))
	for _, p := range posts {
		resp = append(resp, toPostResponse(p))
	}

	writeJSON(w, http.StatusOK, resp)
}

// Health reports whether the database answers the health check query.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC().Format(time.RFC3339)

	if err := h.healthSvc.Check(r.Context()); err != nil {
		h.logger.Error("health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:   "unavailable",
			Database: "error",
			Time:     now,
		})
		return
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:   "ok",
		Database: "ok",
		Time:     now,
	})
}
