package sitedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/starford/wizardlink/internal/apperr"
	"github.com/starford/wizardlink/internal/models"
)

// l18n_cfg bits.
const (
	L18nHideDefaultLanguage = 1
	L18nHideIfNotTranslated = 2
)

// GetPage returns the visible page uid. Hidden, deleted and missing pages
// yield apperr.ErrNotFound.
func (db *DB) GetPage(ctx context.Context, uid int) (models.Page, error) {
	var p models.Page
	err := db.conn.QueryRowContext(ctx, `
		SELECT uid, pid, title, nav_title, hidden, deleted, l18n_cfg
		FROM pages
		WHERE uid = ? AND hidden = 0 AND deleted = 0
	`, uid).Scan(&p.UID, &p.PID, &p.Title, &p.NavTitle, &p.Hidden, &p.Deleted, &p.L18nCfg)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Page{}, apperr.ErrNotFound
	}
	if err != nil {
		return models.Page{}, fmt.Errorf("sitedb: get page %d: %w", uid, err)
	}
	return p, nil
}

// GetOverlay returns the visible overlay of page uid for languageID.
func (db *DB) GetOverlay(ctx context.Context, uid, languageID int) (models.PageOverlay, error) {
	var o models.PageOverlay
	err := db.conn.QueryRowContext(ctx, `
		SELECT pid, sys_language_uid, title, nav_title, hidden, deleted
		FROM pages_language_overlay
		WHERE pid = ? AND sys_language_uid = ? AND hidden = 0 AND deleted = 0
	`, uid, languageID).Scan(&o.PID, &o.LanguageID, &o.Title, &o.NavTitle, &o.Hidden, &o.Deleted)
	if errors.Is(err, sql.ErrNoRows) {
		return models.PageOverlay{}, apperr.ErrNotFound
	}
	if err != nil {
		return models.PageOverlay{}, fmt.Errorf("sitedb: get overlay %d/%d: %w", uid, languageID, err)
	}
	return o, nil
}

// IsHiddenForLanguage reports whether links to page uid must not be shown in
// languageID, according to the page's l18n_cfg:
//   - "hide default language" hides the page in the default language and in
//     any language without a translation (it would fall back to the default).
//   - "hide if not translated" hides the page in a non-default language that
//     has no overlay. WithHideIfNotTranslatedByDefault inverts this bit.
func (db *DB) IsHiddenForLanguage(ctx context.Context, uid, languageID int) (bool, error) {
	page, err := db.GetPage(ctx, uid)
	if err != nil {
		return false, err
	}

	hideDefault := page.L18nCfg&L18nHideDefaultLanguage != 0
	hideUntranslated := page.L18nCfg&L18nHideIfNotTranslated != 0
	if db.hideUntranslated {
		hideUntranslated = !hideUntranslated
	}

	if languageID <= 0 {
		return hideDefault, nil
	}

	_, err = db.GetOverlay(ctx, uid, languageID)
	switch {
	case err == nil:
		return false, nil
	case !errors.Is(err, apperr.ErrNotFound):
		return false, err
	}
	return hideDefault || hideUntranslated, nil
}

// ListPages returns every visible page ordered by uid.
func (db *DB) ListPages(ctx context.Context) ([]models.Page, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT uid, pid, title, nav_title, hidden, deleted, l18n_cfg
		FROM pages
		WHERE hidden = 0 AND deleted = 0
		ORDER BY uid
	`)
	if err != nil {
		return nil, fmt.Errorf("sitedb: list pages: %w", err)
	}
	defer rows.Close()

	var out []models.Page
	for rows.Next() {
		var p models.Page
		if err := rows.Scan(&p.UID, &p.PID, &p.Title, &p.NavTitle, &p.Hidden, &p.Deleted, &p.L18nCfg); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// UpsertPage inserts or replaces a page row.
func (db *DB) UpsertPage(ctx context.Context, p models.Page) error {
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO pages (uid, pid, title, nav_title, hidden, deleted, l18n_cfg)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(uid) DO UPDATE SET
			pid       = excluded.pid,
			title     = excluded.title,
			nav_title = excluded.nav_title,
			hidden    = excluded.hidden,
			deleted   = excluded.deleted,
			l18n_cfg  = excluded.l18n_cfg
	`, p.UID, p.PID, p.Title, p.NavTitle, p.Hidden, p.Deleted, p.L18nCfg)
	if err != nil {
		return fmt.Errorf("sitedb: upsert page %d: %w", p.UID, err)
	}
	return nil
}

// UpsertOverlay inserts or replaces a page overlay row.
func (db *DB) UpsertOverlay(ctx context.Context, o models.PageOverlay) error {
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO pages_language_overlay (pid, sys_language_uid, title, nav_title, hidden, deleted)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(pid, sys_language_uid) DO UPDATE SET
			title     = excluded.title,
			nav_title = excluded.nav_title,
			hidden    = excluded.hidden,
			deleted   = excluded.deleted
	`, o.PID, o.LanguageID, o.Title, o.NavTitle, o.Hidden, o.Deleted)
	if err != nil {
		return fmt.Errorf("sitedb: upsert overlay %d/%d: %w", o.PID, o.LanguageID, err)
	}
	return nil
}
