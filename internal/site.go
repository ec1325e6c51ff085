package internal

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/starford/wizardlink/internal/extpath"
	"github.com/starford/wizardlink/internal/sitedb"
	"github.com/starford/wizardlink/internal/siteservice"
	"github.com/starford/wizardlink/internal/storage"
	"github.com/starford/wizardlink/internal/uri"
	"github.com/starford/wizardlink/internal/view"
	"github.com/starford/wizardlink/internal/wizardlink"
)

// site bundles the services built from the configuration.
type site struct {
	db        *sitedb.DB
	templates *storage.FS
	renderer  *view.Renderer
	svc       *siteservice.Service
}

func openSite(cfg *Config, logger *slog.Logger) (*site, error) {
	if err := os.MkdirAll(cfg.Templates.Path, 0o755); err != nil {
		return nil, fmt.Errorf("create template dir: %w", err)
	}
	templates, err := storage.NewFS(cfg.Templates.Path)
	if err != nil {
		return nil, fmt.Errorf("init templates: %w", err)
	}

	ext, err := extpath.NewRegistry("", cfg.Extensions)
	if err != nil {
		return nil, fmt.Errorf("init extensions: %w", err)
	}

	dbOpts := []sitedb.Option{sitedb.WithPublicBase(cfg.Files.PublicBase)}
	if cfg.Site.HideIfNotTranslatedByDefault {
		dbOpts = append(dbOpts, sitedb.WithHideIfNotTranslatedByDefault())
	}
	db, err := sitedb.Open(cfg.SQLite.Path, dbOpts...)
	if err != nil {
		return nil, fmt.Errorf("init site db: %w", err)
	}

	linkOpts := []wizardlink.Option{wizardlink.WithLogger(logger)}
	if cfg.Site.LegacyURLPrefix {
		linkOpts = append(linkOpts, wizardlink.WithLegacyURLPrefix())
	}
	uris := uri.Builder{BaseURL: cfg.Site.BaseURL, Script: cfg.Site.Script}
	links := wizardlink.NewResolver(db, db, uris, linkOpts...)
	renderer := view.NewRenderer(templates, links, ext)

	svc := siteservice.NewService(siteservice.Deps{
		Templates:   templates,
		TemplateExt: cfg.Templates.Extension,
		Renderer:    renderer,
		Links:       links,
		Extensions:  ext,
		Pages:       db,
		SpamProtect: cfg.Site.SpamProtect,
		Mail:        cfg.Site.MailBuilder(),
	})

	return &site{
		db:        db,
		templates: templates,
		renderer:  renderer,
		svc:       svc,
	}, nil
}

func (s *site) Close() error {
	return s.db.Close()
}
