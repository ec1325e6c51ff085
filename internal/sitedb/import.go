package sitedb

import (
	"context"
	"fmt"
	"log/slog"

	"gopkg.in/yaml.v3"

	"github.com/starford/wizardlink/internal/models"
)

// Fixture is the YAML layout accepted by Import.
//
//	pages:
//	  - {uid: 1, title: Home}
//	overlays:
//	  - {pid: 1, sys_language_uid: 1, title: Startseite}
//	files:
//	  - {uid: 7, identifier: /user_upload/report.pdf}
type Fixture struct {
	Pages    []models.Page        `yaml:"pages"`
	Overlays []models.PageOverlay `yaml:"overlays"`
	Files    []models.File        `yaml:"files"`
}

// ParseFixture decodes a YAML site fixture.
func ParseFixture(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("sitedb: parse fixture: %w", err)
	}
	return &f, nil
}

// Import upserts every record of f. It stops at the first failing record.
func Import(ctx context.Context, db *DB, f *Fixture, logger *slog.Logger) error {
	for _, p := range f.Pages {
		if err := db.UpsertPage(ctx, p); err != nil {
			return err
		}
		logger.Debug("import: page", slog.Int("uid", p.UID))
	}
	for _, o := range f.Overlays {
		if err := db.UpsertOverlay(ctx, o); err != nil {
			return err
		}
		logger.Debug("import: overlay", slog.Int("pid", o.PID), slog.Int("language", o.LanguageID))
	}
	for _, file := range f.Files {
		if err := db.UpsertFile(ctx, file); err != nil {
			return err
		}
		logger.Debug("import: file", slog.Int("uid", file.UID))
	}
	logger.Info("import: done",
		slog.Int("pages", len(f.Pages)),
		slog.Int("overlays", len(f.Overlays)),
		slog.Int("files", len(f.Files)))
	return nil
}
