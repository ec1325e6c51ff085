package storage

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

func tempRoot(t *testing.T, files map[string]string) *FS {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	fs, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return fs
}

func TestRead(t *testing.T) {
	s := tempRoot(t, map[string]string{"layouts/page.html": "<p>hi</p>"})
	got, err := s.Read("layouts/page.html")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != "<p>hi</p>" {
		t.Errorf("content = %q", got)
	}
}

func TestList_FiltersByExtension(t *testing.T) {
	s := tempRoot(t, map[string]string{
		"a.html":         "a",
		"sub/b.html":     "b",
		"sub/readme.txt": "c",
	})
	entries, err := s.List("", ".html")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len = %d, want 2: %+v", len(entries), entries)
	}
	seen := map[string]bool{}
	for _, e := range entries {
		seen[e.Path] = true
		if e.Checksum == "" {
			t.Errorf("empty checksum for %s", e.Path)
		}
	}
	if !seen["a.html"] || !seen["sub/b.html"] {
		t.Errorf("entries = %+v", entries)
	}
}

func TestTraversalRejected(t *testing.T) {
	s := tempRoot(t, nil)
	if _, err := s.Read("../../etc/passwd"); err == nil {
		t.Error("expected error for path traversal")
	}
	if _, err := s.Read("/etc/passwd"); err == nil {
		t.Error("expected error for absolute path")
	}
}

func TestNewFS_NotDir(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "file")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	if _, err := NewFS(f.Name()); err == nil {
		t.Error("expected error for non-directory root")
	}
}

func TestLoader(t *testing.T) {
	s := tempRoot(t, map[string]string{"partials/nav.html": "nav"})
	if got := s.Abs("pages/home.html", "../partials/nav.html"); got != "partials/nav.html" {
		t.Errorf("Abs = %q", got)
	}
	if got := s.Abs("", "/partials/nav.html"); got != "partials/nav.html" {
		t.Errorf("Abs = %q", got)
	}
	r, err := s.Get("partials/nav.html")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	data, _ := io.ReadAll(r)
	if string(data) != "nav" {
		t.Errorf("Get = %q", data)
	}
}
