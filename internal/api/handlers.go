package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/wizardlink/internal/apperr"
	"github.com/starford/wizardlink/internal/siteservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *siteservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *siteservice.Service) *Handler {
	return &Handler{svc: svc}
}

// wildcardPath extracts everything matched by the trailing "*" of a route.
// Supports encoded slashes (e.g. partials%2Fnav.html).
func wildcardPath(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// languageParam reads the "L" query parameter. Missing means the default
// language.
func languageParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("L")
	if raw == "" {
		return 0, nil
	}
	lang, err := strconv.Atoi(raw)
	if err != nil || lang < 0 {
		return 0, errors.New("query parameter 'L' must be a non-negative integer")
	}
	return lang, nil
}

// ListTemplates handles GET /api/templates.
//
//	@Summary		List templates
//	@Tags			templates
//	@Produce		json
//	@Success		200	{object}	TemplateListResponse
//	@Security		BearerAuth
//	@Router			/templates [get]
func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListTemplates(r.Context())
	if err != nil {
		slog.Error("list templates failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if items == nil {
		items = []siteservice.TemplateItem{}
	}
	writeJSON(w, http.StatusOK, TemplateListResponse{Templates: items, Total: len(items)})
}

// Preview handles GET /api/preview/*.
//
//	@Summary		Render a template
//	@Tags			templates
//	@Produce		html
//	@Param			path	path		string	true	"Template path"
//	@Param			L		query		int		false	"Language uid"
//	@Success		200		{string}	string
//	@Success		304		"Not modified"
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/preview/{path} [get]
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	name := wildcardPath(r)
	if name == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	lang, err := languageParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	p, err := h.svc.RenderTemplate(r.Context(), name, lang, nil)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("render template failed", slog.String("path", name), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("render failed"))
		}
		return
	}

	w.Header().Set("ETag", p.ETag)
	if r.Header.Get("If-None-Match") == p.ETag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(p.HTML))
}

// ResolveLink handles POST /api/links/resolve.
//
//	@Summary		Resolve a link-wizard string and render the anchor
//	@Tags			links
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ResolveLinkRequest	true	"Link to resolve"
//	@Success		200		{object}	ResolveLinkResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/links/resolve [post]
func (h *Handler) ResolveLink(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req ResolveLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Language < 0 {
		writeJSON(w, http.StatusBadRequest, errorBody("language must be non-negative"))
		return
	}

	res, err := h.svc.ResolveLink(r.Context(), req)
	if err != nil {
		slog.Error("resolve link failed", slog.String("value", req.Value), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ExtensionPath handles GET /api/extensions/{key}/path.
//
//	@Summary		Resolve an extension path
//	@Tags			extensions
//	@Produce		json
//	@Param			key		path		string	true	"Extension key"
//	@Param			path	query		string	false	"Path below the extension"
//	@Success		200		{object}	ExtensionPathResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/extensions/{key}/path [get]
func (h *Handler) ExtensionPath(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	p, err := h.svc.ExtensionPath(key, r.URL.Query().Get("path"))
	if err != nil {
		if errors.Is(err, apperr.ErrUnknownExtension) {
			writeJSON(w, http.StatusNotFound, errorBody("unknown extension"))
		} else {
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		}
		return
	}
	writeJSON(w, http.StatusOK, ExtensionPathResponse{Key: key, Path: p})
}

// ListPages handles GET /api/pages.
//
//	@Summary		List visible pages
//	@Tags			pages
//	@Produce		json
//	@Success		200	{object}	PageListResponse
//	@Security		BearerAuth
//	@Router			/pages [get]
func (h *Handler) ListPages(w http.ResponseWriter, r *http.Request) {
	pages, err := h.svc.ListPages(r.Context())
	if err != nil {
		slog.Error("list pages failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, PageListResponse{Pages: pages, Total: len(pages)})
}
