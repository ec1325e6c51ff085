package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/wizardlink/internal/siteservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *siteservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Templates.
	r.Get("/templates", h.ListTemplates)
	r.Get("/preview/*", h.Preview)

	// Link helpers.
	r.Post("/links/resolve", h.ResolveLink)
	r.Get("/extensions/{key}/path", h.ExtensionPath)

	// Site data.
	r.Get("/pages", h.ListPages)

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}

// NewFileRouter serves published files without authentication.
func NewFileRouter(files *FileHandler) chi.Router {
	r := chi.NewRouter()
	r.Get("/*", files.ServeFile)
	return r
}
