// Package web implements the HTML GUI driving adapter using templ components.
package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/ericfisherdev/contacts/internal/adapter/driving/web/templates"
	"github.com/ericfisherdev/contacts/internal/adapter/driving/web/templates/pages"
	vm "github.com/ericfisherdev/contacts/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/contacts/internal/application"
	"github.com/ericfisherdev/contacts/internal/auth"
	"github.com/ericfisherdev/contacts/internal/domain/model"
	"github.com/ericfisherdev/contacts/internal/domain/port/driven"
)

const appTitle = "Contacts"

// Settings carries the cookie and login behavior taken from configuration.
type Settings struct {
	CookieSecure       bool
	LoginPath          string
	LoginFailureStatus int
}

// Handler is the web GUI driving adapter that serves HTML via templ components.
type Handler struct {
	users    driven.UserStore
	posts    driven.PostStore
	authSvc  *application.AuthService
	settings Settings
	logger   *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	users driven.UserStore,
	posts driven.PostStore,
	authSvc *application.AuthService,
	settings Settings,
	logger *slog.Logger,
) *Handler {
	if settings.LoginPath == "" {
		settings.LoginPath = "/accounts/login"
	}
	if settings.LoginFailureStatus == 0 {
		settings.LoginFailureStatus = http.StatusOK
	}
	return &Handler{
		users:    users,
		posts:    posts,
		authSvc:  authSvc,
		settings: settings,
		logger:   logger,
	}
}

// Home renders the landing page with contact and post counts.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListAll(r.Context())
	if err != nil {
		h.serverError(w, "failed to list users", err)
		return
	}
	posts, err := h.posts.ListWithAuthors(r.Context())
	if err != nil {
		h.serverError(w, "failed to list posts", err)
		return
	}

	principal, _ := auth.PrincipalFromContext(r.Context())
	h.render(w, r, "/", pages.Home(vm.HomeViewModel{
		Principal: principal,
		UserCount: len(users),
		PostCount: len(posts),
	}))
}

// Users renders the contacts table.
func (h *Handler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListAll(r.Context())
	if err != nil {
		h.serverError(w, "failed to list users", err)
		return
	}

	h.render(w, r, "/users", pages.Users(toUserRowViewModels(users)))
}

// UserDetail renders one contact with the posts they wrote. The side
// navigation keeps Users active.
func (h *Handler) UserDetail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	user, err := h.users.GetByID(r.Context(), id)
	if errors.Is(err, driven.ErrUserNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.serverError(w, "failed to get user", err)
		return
	}

	posts, err := h.posts.ListByUser(r.Context(), id)
	if err != nil {
		h.serverError(w, "failed to list user posts", err)
		return
	}

	h.render(w, r, "/users", pages.UserDetail(toUserDetailViewModel(*user, posts)))
}

// Posts renders every post joined with its author, newest first.
func (h *Handler) Posts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.ListWithAuthors(r.Context())
	if err != nil {
		h.serverError(w, "failed to list posts", err)
		return
	}

	token := csrfToken(w, r, h.settings.CookieSecure)
	h.render(w, r, "/posts", pages.Posts(vm.PostsPageViewModel{
		Posts:     toPostCardViewModels(posts),
		CSRFToken: token,
	}))
}

// CreatePost stores a post authored by the logged-in principal and redirects
// back to the post list.
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	if !validateCSRF(r) {
		http.Error(w, "invalid CSRF token", http.StatusForbidden)
		return
	}

	title := strings.TrimSpace(r.PostFormValue("title"))
	if title == "" {
		http.Error(w, "title is required", http.StatusBadRequest)
		return
	}

	principal, _ := auth.PrincipalFromContext(r.Context())
	author, err := h.users.GetByUsername(r.Context(), principal)
	if errors.Is(err, driven.ErrUserNotFound) {
		http.Error(w, "no contact exists for the logged-in user", http.StatusUnprocessableEntity)
		return
	}
	if err != nil {
		h.serverError(w, "failed to look up author", err)
		return
	}

	post := model.Post{
		UserID: author.ID,
		Title:  title,
		Body:   r.PostFormValue("body"),
	}
	if err := h.posts.Create(r.Context(), post); err != nil {
		h.serverError(w, "failed to create post", err)
		return
	}

	h.logger.Info("post created", "author", author.Username, "title", title)
	http.Redirect(w, r, "/posts", http.StatusSeeOther)
}

// Nav renders the side navigation partial with the requested page active.
func (h *Handler) Nav(w http.ResponseWriter, r *http.Request) {
	items := toNavViewModels(navPathFromParam(r.PathValue("url")))
	h.renderComponent(w, r, templates.SideNav(items))
}

// LoginPage renders the login form. A visitor whose session cookie still
// verifies is sent straight to the home page instead.
func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(h.authSvc.CookieName()); err == nil && c.Value != "" {
		if _, ok := h.authSvc.Verify(c.Value); ok {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
	}
	h.renderComponent(w, r, pages.Login(vm.LoginViewModel{Action: h.settings.LoginPath}))
}

// loginRequest is the JSON body accepted by Login.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login checks the submitted credentials. On success it sets the session
// cookie and redirects to the home page. On failure it answers with a JSON
// error body and sets no cookie.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	req, err := decodeLoginRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, statusResponse{Status: "error", Message: "invalid request body"})
		return
	}

	session, err := h.authSvc.Login(req.Username, req.Password)
	if errors.Is(err, application.ErrLoginFailed) {
		h.logger.Warn("login failed", "username", req.Username, "remote", r.RemoteAddr)
		writeJSON(w, h.settings.LoginFailureStatus, statusResponse{Status: "error", Message: "Login failed"})
		return
	}
	if err != nil {
		h.logger.Error("failed to issue session", "error", err)
		writeJSON(w, http.StatusInternalServerError, statusResponse{Status: "error", Message: "internal server error"})
		return
	}

	http.SetCookie(w, auth.SessionCookie(session.CookieName, session.Value, h.settings.CookieSecure))
	h.logger.Info("login succeeded", "principal", session.Principal)
	http.Redirect(w, r, "/", http.StatusFound)
}

// Logout clears the session cookie and redirects to the login page. It
// behaves the same whether or not a session cookie was sent.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, auth.ClearedCookie(h.authSvc.CookieName(), h.settings.CookieSecure))
	http.Redirect(w, r, h.settings.LoginPath, http.StatusFound)
}

// decodeLoginRequest reads credentials from a JSON body or a form body,
// depending on the request content type.
func decodeLoginRequest(r *http.Request) (loginRequest, error) {
	var req loginRequest

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return loginRequest{}, err
		}
		return req, nil
	}

	if err := r.ParseForm(); err != nil {
		return loginRequest{}, err
	}
	req.Username = r.PostFormValue("username")
	req.Password = r.PostFormValue("password")
	return req, nil
}

// render writes a page. htmx requests (HX-Request: true) get the page alone;
// everything else gets it wrapped in the layout with currentPath active.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, currentPath string, page templ.Component) {
	if isHTMX(r) {
		h.renderComponent(w, r, page)
		return
	}
	h.renderComponent(w, r, templates.Layout(appTitle, toNavViewModels(currentPath), page))
}

func (h *Handler) renderComponent(w http.ResponseWriter, r *http.Request, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.Render(r.Context(), w); err != nil {
		h.logger.Error("failed to render component", "path", r.URL.Path, "error", err)
	}
}

func (h *Handler) serverError(w http.ResponseWriter, msg string, err error) {
	h.logger.Error(msg, "error", err)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
