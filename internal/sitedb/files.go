package sitedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/starford/wizardlink/internal/apperr"
	"github.com/starford/wizardlink/internal/models"
)

// GetByIdentifier finds a file by numeric uid or by storage identifier
// (e.g. "/user_upload/report.pdf") and fills in its public URL.
func (db *DB) GetByIdentifier(ctx context.Context, identifier string) (models.File, error) {
	query := `SELECT uid, identifier, name, mime_type, size FROM sys_file WHERE identifier = ?`
	var arg any = identifier
	if uid, err := strconv.Atoi(identifier); err == nil {
		query = `SELECT uid, identifier, name, mime_type, size FROM sys_file WHERE uid = ?`
		arg = uid
	}

	var f models.File
	err := db.conn.QueryRowContext(ctx, query, arg).Scan(&f.UID, &f.Identifier, &f.Name, &f.MimeType, &f.Size)
	if errors.Is(err, sql.ErrNoRows) {
		return models.File{}, apperr.ErrNotFound
	}
	if err != nil {
		return models.File{}, fmt.Errorf("sitedb: get file %s: %w", identifier, err)
	}
	f.PublicURL = db.publicURL(f.Identifier)
	return f, nil
}

// UpsertFile inserts or replaces a file row.
func (db *DB) UpsertFile(ctx context.Context, f models.File) error {
	if f.Name == "" {
		f.Name = f.Identifier[strings.LastIndex(f.Identifier, "/")+1:]
	}
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO sys_file (uid, identifier, name, mime_type, size)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(uid) DO UPDATE SET
			identifier = excluded.identifier,
			name       = excluded.name,
			mime_type  = excluded.mime_type,
			size       = excluded.size
	`, f.UID, f.Identifier, f.Name, f.MimeType, f.Size)
	if err != nil {
		return fmt.Errorf("sitedb: upsert file %d: %w", f.UID, err)
	}
	return nil
}

func (db *DB) publicURL(identifier string) string {
	segments := strings.Split(strings.Trim(identifier, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.TrimRight(db.publicBase, "/") + "/" + strings.Join(segments, "/")
}
