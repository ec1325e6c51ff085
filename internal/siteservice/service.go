// Package siteservice coordinates templates, site data and the link helpers
// for the HTTP, MCP and command-line surfaces.
package siteservice

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/starford/wizardlink/internal/apperr"
	"github.com/starford/wizardlink/internal/checksum"
	"github.com/starford/wizardlink/internal/extpath"
	"github.com/starford/wizardlink/internal/linkspec"
	"github.com/starford/wizardlink/internal/models"
	"github.com/starford/wizardlink/internal/storage"
	"github.com/starford/wizardlink/internal/view"
	"github.com/starford/wizardlink/internal/wizardlink"
)

// Preview is a rendered template.
type Preview struct {
	Name     string `json:"name"`
	Language int    `json:"language"`
	HTML     string `json:"html"`
	ETag     string `json:"etag"`
}

// LinkRequest is a single link helper invocation outside of a template.
type LinkRequest struct {
	Value           string `json:"value"`
	WizardTitleAs   string `json:"wizardTitleAs,omitempty"`
	ResourceTitleAs string `json:"resourceTitleAs,omitempty"`
	Language        int    `json:"language"`
	// Content is a template fragment rendered as the child content.
	Content string `json:"content,omitempty"`
}

// LinkResult describes the outcome of a LinkRequest. Rendered is false when
// the helper produced no output.
type LinkResult struct {
	HTML          string `json:"html"`
	Kind          string `json:"kind,omitempty"`
	Href          string `json:"href,omitempty"`
	ResourceTitle string `json:"resourceTitle,omitempty"`
	Rendered      bool   `json:"rendered"`
}

// TemplateItem is a lightweight item in a template listing.
type TemplateItem struct {
	Path     string `json:"path"`
	Checksum string `json:"checksum"`
}

// PageLister lists the pages of the site.
type PageLister interface {
	ListPages(ctx context.Context) ([]models.Page, error)
}

// Deps are the collaborators of a Service.
type Deps struct {
	Templates   storage.Provider
	TemplateExt string
	Renderer    *view.Renderer
	Links       *wizardlink.Resolver
	Extensions  extpath.Lookup
	Pages       PageLister
	SpamProtect string
	Mail        wizardlink.MailLinkBuilder
}

// Service coordinates template rendering and link resolution.
type Service struct {
	d Deps
}

// NewService creates a new site service.
func NewService(d Deps) *Service {
	return &Service{d: d}
}

// RequestContext returns the per-request state for languageID.
func (s *Service) RequestContext(languageID int) wizardlink.RequestContext {
	return wizardlink.RequestContext{
		LanguageID:  languageID,
		SpamProtect: s.d.SpamProtect,
		Mail:        s.d.Mail,
	}
}

// ListTemplates returns the templates below the template root.
func (s *Service) ListTemplates(_ context.Context) ([]TemplateItem, error) {
	entries, err := s.d.Templates.List("", s.d.TemplateExt)
	if err != nil {
		return nil, err
	}
	items := make([]TemplateItem, len(entries))
	for i, e := range entries {
		items[i] = TemplateItem{Path: e.Path, Checksum: e.Checksum}
	}
	return items, nil
}

// RenderTemplate renders the template stored at name for languageID.
func (s *Service) RenderTemplate(ctx context.Context, name string, languageID int, data map[string]any) (*Preview, error) {
	name = strings.TrimPrefix(name, "/")
	if _, err := s.d.Templates.Read(name); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	out, err := s.d.Renderer.RenderFile(ctx, s.RequestContext(languageID), name, data)
	if err != nil {
		return nil, err
	}
	return &Preview{
		Name:     name,
		Language: languageID,
		HTML:     out,
		ETag:     checksum.ETag([]byte(out)),
	}, nil
}

// ResolveLink runs the link helper for req. Outcomes that render nothing are
// reported with Rendered set to false, not as errors.
func (s *Service) ResolveLink(ctx context.Context, req LinkRequest) (*LinkResult, error) {
	rc := s.RequestContext(req.Language)

	spec, err := linkspec.Parse(req.Value)
	if err != nil {
		if wizardlink.IsSkip(err) {
			return &LinkResult{}, nil
		}
		return nil, err
	}
	link, err := s.d.Links.Resolve(ctx, rc, spec)
	if err != nil {
		if wizardlink.IsSkip(err) {
			return &LinkResult{Kind: wizardlink.Classify(spec.Subject).String()}, nil
		}
		return nil, err
	}

	var children wizardlink.ChildRenderer
	if req.Content != "" {
		children = func(vars map[string]any) (string, error) {
			return s.d.Renderer.RenderString(ctx, rc, req.Content, vars)
		}
	}
	out, err := s.d.Links.Render(ctx, rc, wizardlink.Input{
		Raw:             req.Value,
		WizardTitleAs:   req.WizardTitleAs,
		ResourceTitleAs: req.ResourceTitleAs,
		Children:        children,
	})
	if err != nil {
		if wizardlink.IsSkip(err) {
			return &LinkResult{Kind: link.Kind.String()}, nil
		}
		return nil, err
	}
	return &LinkResult{
		HTML:          out,
		Kind:          link.Kind.String(),
		Href:          link.Href,
		ResourceTitle: link.ResourceTitle,
		Rendered:      true,
	}, nil
}

// ExtensionPath resolves an extension key and optional sub-path.
func (s *Service) ExtensionPath(key, subPath string) (string, error) {
	return extpath.Resolve(s.d.Extensions, key, subPath)
}

// ListPages returns the visible pages of the site.
func (s *Service) ListPages(ctx context.Context) ([]models.Page, error) {
	pages, err := s.d.Pages.ListPages(ctx)
	if err != nil {
		return nil, err
	}
	if pages == nil {
		pages = []models.Page{}
	}
	return pages, nil
}
