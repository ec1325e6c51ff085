package extpath

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/wizardlink/internal/apperr"
)

func testRegistry(t *testing.T) (*Registry, string) {
	t.Helper()
	base := t.TempDir()
	r, err := NewRegistry(base, map[string]string{
		"news":   "ext/news",
		"vhs":    filepath.Join(base, "vendor", "vhs"),
		"blog_2": "ext/blog",
	})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	return r, base
}

func TestPath_Root(t *testing.T) {
	r, base := testRegistry(t)
	got, err := Resolve(r, "news", "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := filepath.Join(base, "ext", "news") + string(os.PathSeparator)
	if got != want {
		t.Errorf("path = %q, want %q", got, want)
	}
}

func TestPath_SubPath(t *testing.T) {
	r, base := testRegistry(t)
	got, err := Resolve(r, "vhs", "Resources/Private/Templates/")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := filepath.Join(base, "vendor", "vhs", "Resources", "Private", "Templates") + string(os.PathSeparator)
	if got != want {
		t.Errorf("path = %q, want %q", got, want)
	}

	got, _ = Resolve(r, "vhs", "/ext_emconf.php")
	if want := filepath.Join(base, "vendor", "vhs", "ext_emconf.php"); got != want {
		t.Errorf("path = %q, want %q", got, want)
	}
}

func TestPath_UnknownExtension(t *testing.T) {
	r, _ := testRegistry(t)
	_, err := Resolve(r, "missing", "")
	if !errors.Is(err, apperr.ErrUnknownExtension) {
		t.Errorf("err = %v, want ErrUnknownExtension", err)
	}
}

func TestPath_Traversal(t *testing.T) {
	r, _ := testRegistry(t)
	if _, err := Resolve(r, "news", "../../etc/passwd"); err == nil {
		t.Error("expected traversal error")
	}
}

func TestNewRegistry_InvalidKey(t *testing.T) {
	if _, err := NewRegistry("", map[string]string{"Bad-Key": "x"}); err == nil {
		t.Error("expected invalid key error")
	}
}

func TestKeys_Sorted(t *testing.T) {
	r, _ := testRegistry(t)
	keys := r.Keys()
	if len(keys) != 3 || keys[0] != "blog_2" || keys[1] != "news" || keys[2] != "vhs" {
		t.Errorf("keys = %v", keys)
	}
}
