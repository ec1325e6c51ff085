package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/wizardlink/internal/siteservice"
	"github.com/starford/wizardlink/internal/testutil"
)

func testConfig(t *testing.T) *Config {
	t.Helper()
	dir := t.TempDir()
	cfg := NewDefaultConfig()
	cfg.SQLite.Path = filepath.Join(dir, "site.db")
	cfg.Templates.Path = filepath.Join(dir, "templates")
	cfg.Site.BaseURL = "https://www.example.org/"
	cfg.Extensions = map[string]string{"site_package": filepath.Join(dir, "ext", "site_package")}

	fixture := filepath.Join(dir, "site.yaml")
	if err := os.WriteFile(fixture, []byte(testutil.SiteFixture), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := Import(context.Background(), fixture, WithConfig(cfg), WithLogOutput(&bytes.Buffer{})); err != nil {
		t.Fatalf("Import: %v", err)
	}
	return cfg
}

func TestRender(t *testing.T) {
	cfg := testConfig(t)
	tpl := `{% wizardlink "2 - - - &type=98" %}{% endwizardlink %}|{% extpath "site_package" "Public/" %}`
	if err := os.WriteFile(filepath.Join(cfg.Templates.Path, "page.html"), []byte(tpl), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	err := Render(context.Background(), "page.html", 1, WithConfig(cfg), WithOutput(&out), WithLogOutput(&bytes.Buffer{}))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := `<a href="https://www.example.org/index.php?id=2&amp;L=1&amp;type=98">Über uns</a>|` +
		cfg.Extensions["site_package"] + string(os.PathSeparator) + "Public" + string(os.PathSeparator) + "\n"
	if out.String() != want {
		t.Errorf("out = %q, want %q", out.String(), want)
	}
}

func TestResolve(t *testing.T) {
	cfg := testConfig(t)
	cfg.Site.SpamProtect = "ascii"

	var out bytes.Buffer
	err := Resolve(context.Background(), siteservice.LinkRequest{Value: "info@example.org"},
		WithConfig(cfg), WithOutput(&out), WithLogOutput(&bytes.Buffer{}))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	var res siteservice.LinkResult
	if err := json.Unmarshal(out.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if !res.Rendered || res.Kind != "email" || res.ResourceTitle != "info(at)example.org" {
		t.Errorf("result = %+v", res)
	}
}

func TestRun_RequiresConfig(t *testing.T) {
	if err := Run(context.Background()); err == nil {
		t.Error("expected error without config")
	}
}
