package web

import (
	"io/fs"
	"net/http"
)

// RegisterRoutes registers all web GUI routes on the provided mux. The login
// routes and static assets are public; every page route is wrapped in gate.
func RegisterRoutes(mux *http.ServeMux, h *Handler, gate func(http.Handler) http.Handler) {
	// Static assets (embedded via go:embed).
	staticFS, _ := fs.Sub(StaticFS, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticFS)))

	// Account routes.
	mux.HandleFunc("GET "+h.settings.LoginPath, h.LoginPage)
	mux.HandleFunc("POST "+h.settings.LoginPath, h.Login)
	mux.HandleFunc("GET /accounts/logout", h.Logout)

	// Page routes.
	mux.Handle("GET /{$}", gate(http.HandlerFunc(h.Home)))
	mux.Handle("GET /users", gate(http.HandlerFunc(h.Users)))
	mux.Handle("GET /users/{id}", gate(http.HandlerFunc(h.UserDetail)))
	mux.Handle("GET /posts", gate(http.HandlerFunc(h.Posts)))
	mux.Handle("POST /posts", gate(http.HandlerFunc(h.CreatePost)))
	mux.Handle("GET /nav/{url...}", gate(http.HandlerFunc(h.Nav)))
}
