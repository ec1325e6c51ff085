// Package wizardlink renders anchors for link-wizard strings.
//
// A link-wizard string names a subject (a file reference, an email address,
// a page uid or an external URL) plus optional target, class, title and extra
// query parameters. The Resolver classifies the subject, asks the matching
// collaborator for href and display title, and wraps the child content of the
// calling template in an <a> tag.
package wizardlink

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/starford/wizardlink/internal/apperr"
	"github.com/starford/wizardlink/internal/linkspec"
	"github.com/starford/wizardlink/internal/mailto"
	"github.com/starford/wizardlink/internal/models"
)

// FileRepository finds stored files by identifier.
type FileRepository interface {
	GetByIdentifier(ctx context.Context, identifier string) (models.File, error)
}

// PageRepository reads pages and their language overlays. Lookups of
// missing records return apperr.ErrNotFound.
type PageRepository interface {
	GetPage(ctx context.Context, uid int) (models.Page, error)
	GetOverlay(ctx context.Context, uid, languageID int) (models.PageOverlay, error)
	IsHiddenForLanguage(ctx context.Context, uid, languageID int) (bool, error)
}

// URIBuilder renders page URLs.
type URIBuilder interface {
	Build(pageID int, params linkspec.Params, languageID int) string
}

// MailLinkBuilder renders mailto hrefs and labels.
type MailLinkBuilder interface {
	Build(address, label string) (href, text string)
}

// RequestContext carries the per-request state of the current render.
type RequestContext struct {
	LanguageID  int
	SpamProtect string
	Mail        MailLinkBuilder
}

// ResolvedLink is the outcome of resolving a subject.
type ResolvedLink struct {
	Kind          Kind
	Href          string
	ResourceTitle string
	// EscapeHref is false only for entity-encoded mailto hrefs.
	EscapeHref bool
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLegacyURLPrefix prefixes every external subject that does not start
// with "https://" with "http://", including subjects already starting with
// "http://".
func WithLegacyURLPrefix() Option {
	return func(r *Resolver) { r.legacyPrefix = true }
}

// WithLogger sets the logger used for skipped renders.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) { r.logger = l }
}

// Resolver resolves and renders link-wizard strings. It holds no per-request
// state and is safe for concurrent use when its collaborators are.
type Resolver struct {
	files        FileRepository
	pages        PageRepository
	uris         URIBuilder
	legacyPrefix bool
	logger       *slog.Logger
}

// NewResolver creates a Resolver.
func NewResolver(files FileRepository, pages PageRepository, uris URIBuilder, opts ...Option) *Resolver {
	r := &Resolver{
		files:  files,
		pages:  pages,
		uris:   uris,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// IsSkip reports whether err means "render nothing" rather than a failure.
func IsSkip(err error) bool {
	return errors.Is(err, apperr.ErrEmptyInput) ||
		errors.Is(err, apperr.ErrNotFound) ||
		errors.Is(err, apperr.ErrHiddenPage)
}

// Resolve computes href and resource title for spec.
func (r *Resolver) Resolve(ctx context.Context, rc RequestContext, spec linkspec.LinkSpec) (ResolvedLink, error) {
	if spec.Subject == "" {
		return ResolvedLink{}, apperr.ErrEmptyInput
	}

	switch kind := Classify(spec.Subject); kind {
	case KindFile:
		return r.resolveFile(ctx, spec.Subject)
	case KindEmail:
		return r.resolveEmail(rc, spec.Subject), nil
	case KindPage:
		return r.resolvePage(ctx, rc, spec)
	default:
		return r.resolveExternal(spec.Subject), nil
	}
}

func (r *Resolver) resolveFile(ctx context.Context, subject string) (ResolvedLink, error) {
	id := strings.TrimPrefix(subject, FilePrefix)
	f, err := r.files.GetByIdentifier(ctx, id)
	if err != nil {
		return ResolvedLink{}, fmt.Errorf("wizardlink: file %q: %w", id, err)
	}
	return ResolvedLink{
		Kind:          KindFile,
		Href:          f.PublicURL,
		ResourceTitle: f.Name,
		EscapeHref:    true,
	}, nil
}

func (r *Resolver) resolveEmail(rc RequestContext, address string) ResolvedLink {
	mail := rc.Mail
	if mail == nil {
		mail = mailto.Builder{Mode: rc.SpamProtect}
	}
	href, label := mail.Build(address, address)
	return ResolvedLink{
		Kind:          KindEmail,
		Href:          href,
		ResourceTitle: label,
		EscapeHref:    rc.SpamProtect != mailto.ModeASCII,
	}
}

func (r *Resolver) resolvePage(ctx context.Context, rc RequestContext, spec linkspec.LinkSpec) (ResolvedLink, error) {
	uid, section := splitPage(spec.Subject)

	page, err := r.pages.GetPage(ctx, uid)
	if err != nil {
		return ResolvedLink{}, fmt.Errorf("wizardlink: page %d: %w", uid, err)
	}

	hidden, err := r.pages.IsHiddenForLanguage(ctx, uid, rc.LanguageID)
	if err != nil {
		return ResolvedLink{}, fmt.Errorf("wizardlink: page %d visibility: %w", uid, err)
	}
	if hidden {
		return ResolvedLink{}, fmt.Errorf("wizardlink: page %d language %d: %w", uid, rc.LanguageID, apperr.ErrHiddenPage)
	}

	href := r.uris.Build(uid, spec.ExtraParams, rc.LanguageID)
	if section != "" {
		href += "#" + section
	}

	title := page.DisplayTitle()
	if rc.LanguageID > 0 {
		overlay, err := r.pages.GetOverlay(ctx, uid, rc.LanguageID)
		switch {
		case err == nil:
			title = overlay.DisplayTitle()
		case !errors.Is(err, apperr.ErrNotFound):
			return ResolvedLink{}, fmt.Errorf("wizardlink: page %d overlay: %w", uid, err)
		}
	}

	return ResolvedLink{
		Kind:          KindPage,
		Href:          href,
		ResourceTitle: title,
		EscapeHref:    true,
	}, nil
}

func (r *Resolver) resolveExternal(subject string) ResolvedLink {
	href := subject
	switch {
	case strings.HasPrefix(subject, "https://"):
	case !r.legacyPrefix && strings.HasPrefix(subject, "http://"):
	default:
		href = "http://" + subject
	}
	return ResolvedLink{
		Kind:          KindExternal,
		Href:          href,
		ResourceTitle: subject,
		EscapeHref:    true,
	}
}
