// Package testutil provides shared test helpers for site databases and template roots.
package testutil

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/wizardlink/internal/sitedb"
	"github.com/starford/wizardlink/internal/storage"
)

// SiteFixture is a small site used across package tests.
const SiteFixture = `
pages:
  - {uid: 1, title: Home}
  - {uid: 2, title: About, nav_title: About us}
  - {uid: 3, title: Draft, hidden: true}
  - {uid: 4, title: Imprint, l18n_cfg: 2}
overlays:
  - {pid: 2, sys_language_uid: 1, title: Über uns}
files:
  - {uid: 7, identifier: /user_upload/report.pdf, name: report.pdf, mime_type: application/pdf, size: 2048}
`

// Logger returns a logger that discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// TestDB creates a temporary site database loaded with SiteFixture. It is
// closed and removed when the test ends.
func TestDB(t *testing.T, opts ...sitedb.Option) *sitedb.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "wizardlink-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := sitedb.Open(dbFile.Name(), opts...)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	fx, err := sitedb.ParseFixture([]byte(SiteFixture))
	if err != nil {
		t.Fatal(err)
	}
	if err := sitedb.Import(context.Background(), db, fx, Logger()); err != nil {
		t.Fatal(err)
	}
	return db
}

// TestTemplates creates a temporary template root holding files.
func TestTemplates(t *testing.T, files map[string]string) (string, *storage.FS) {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	store, err := storage.NewFS(root)
	if err != nil {
		t.Fatal(err)
	}
	return root, store
}
