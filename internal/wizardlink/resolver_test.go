package wizardlink

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/wizardlink/internal/apperr"
	"github.com/starford/wizardlink/internal/linkspec"
	"github.com/starford/wizardlink/internal/mailto"
	"github.com/starford/wizardlink/internal/models"
)

type stubFiles map[string]models.File

func (s stubFiles) GetByIdentifier(_ context.Context, id string) (models.File, error) {
	f, ok := s[id]
	if !ok {
		return models.File{}, apperr.ErrNotFound
	}
	return f, nil
}

type stubPages struct {
	pages    map[int]models.Page
	overlays map[[2]int]models.PageOverlay
	hidden   map[[2]int]bool
	err      error
}

func (s *stubPages) GetPage(_ context.Context, uid int) (models.Page, error) {
	if s.err != nil {
		return models.Page{}, s.err
	}
	p, ok := s.pages[uid]
	if !ok {
		return models.Page{}, apperr.ErrNotFound
	}
	return p, nil
}

func (s *stubPages) GetOverlay(_ context.Context, uid, lang int) (models.PageOverlay, error) {
	o, ok := s.overlays[[2]int{uid, lang}]
	if !ok {
		return models.PageOverlay{}, apperr.ErrNotFound
	}
	return o, nil
}

func (s *stubPages) IsHiddenForLanguage(_ context.Context, uid, lang int) (bool, error) {
	return s.hidden[[2]int{uid, lang}], nil
}

type stubURIs struct{}

func (stubURIs) Build(id int, params linkspec.Params, lang int) string {
	u := fmt.Sprintf("/page/%d/%d", id, lang)
	if params.Len() > 0 {
		u += "?" + params.Encode()
	}
	return u
}

func newTestResolver(opts ...Option) (*Resolver, *stubPages) {
	pages := &stubPages{
		pages: map[int]models.Page{
			42: {UID: 42, Title: "Answer"},
			43: {UID: 43, Title: "About", NavTitle: "About us"},
			44: {UID: 44, Title: "Secret"},
		},
		overlays: map[[2]int]models.PageOverlay{
			{43, 1}: {PID: 43, LanguageID: 1, Title: "Über", NavTitle: ""},
		},
		hidden: map[[2]int]bool{
			{44, 1}: true,
		},
	}
	files := stubFiles{
		"123": {UID: 123, Name: "report.pdf", PublicURL: "/fileadmin/report.pdf"},
	}
	return NewResolver(files, pages, stubURIs{}, opts...), pages
}

func render(t *testing.T, r *Resolver, rc RequestContext, in Input) (string, error) {
	t.Helper()
	return r.Render(context.Background(), rc, in)
}

func TestClassify(t *testing.T) {
	tests := map[string]Kind{
		"file:123":           KindFile,
		"file:a@b.com":       KindFile,
		"a@b.com":            KindEmail,
		"42":                 KindPage,
		"42#c7":              KindPage,
		"0":                  KindExternal,
		"example.com":        KindExternal,
		"https://x.org/a@b":  KindExternal,
		"123abc.com":         KindExternal,
		"not an email @ all": KindExternal,
	}
	for subject, want := range tests {
		assert.Equal(t, want, Classify(subject), "subject %q", subject)
	}
}

func TestRender_EmptyInput(t *testing.T) {
	r, _ := newTestResolver()
	for _, raw := range []string{"", "  "} {
		out, err := render(t, r, RequestContext{}, Input{Raw: raw})
		assert.Empty(t, out)
		assert.True(t, IsSkip(err))
		assert.ErrorIs(t, err, apperr.ErrEmptyInput)
	}
}

func TestRender_File(t *testing.T) {
	r, _ := newTestResolver()
	out, err := render(t, r, RequestContext{}, Input{Raw: "file:123"})
	require.NoError(t, err)
	assert.Equal(t, `<a href="/fileadmin/report.pdf">report.pdf</a>`, out)
}

func TestRender_FileNotFound(t *testing.T) {
	r, _ := newTestResolver()
	out, err := render(t, r, RequestContext{}, Input{Raw: "file:999"})
	assert.Empty(t, out)
	assert.True(t, IsSkip(err))
}

func TestRender_PageWithWizardTitle(t *testing.T) {
	r, _ := newTestResolver()
	out, err := render(t, r, RequestContext{}, Input{Raw: `42 - - "My Title" -`})
	require.NoError(t, err)
	assert.Equal(t, `<a href="/page/42/0" title="My Title">Answer</a>`, out)
}

func TestRender_PageAttributesAndParams(t *testing.T) {
	r, _ := newTestResolver()
	out, err := render(t, r, RequestContext{}, Input{Raw: `42#c5 _blank "btn btn-lg" - &tx=1`})
	require.NoError(t, err)
	assert.Equal(t, `<a href="/page/42/0?tx=1#c5" target="_blank" class="btn btn-lg">Answer</a>`, out)
}

func TestRender_PageMissing(t *testing.T) {
	r, _ := newTestResolver()
	out, err := render(t, r, RequestContext{}, Input{Raw: `77 _blank cls "Title"`})
	assert.Empty(t, out)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.True(t, IsSkip(err))
}

func TestRender_PageHiddenForLanguage(t *testing.T) {
	r, _ := newTestResolver()
	out, err := render(t, r, RequestContext{LanguageID: 1}, Input{Raw: `44 _blank cls "Title" &a=b`})
	assert.Empty(t, out)
	assert.ErrorIs(t, err, apperr.ErrHiddenPage)

	out, err = render(t, r, RequestContext{LanguageID: 0}, Input{Raw: `44`})
	require.NoError(t, err)
	assert.Contains(t, out, "Secret")
}

func TestResolve_PageTitles(t *testing.T) {
	r, _ := newTestResolver()
	ctx := context.Background()

	link, err := r.Resolve(ctx, RequestContext{}, linkspec.LinkSpec{Subject: "43"})
	require.NoError(t, err)
	assert.Equal(t, "About us", link.ResourceTitle)

	link, err = r.Resolve(ctx, RequestContext{LanguageID: 1}, linkspec.LinkSpec{Subject: "43"})
	require.NoError(t, err)
	assert.Equal(t, "Über", link.ResourceTitle)
	assert.Equal(t, "/page/43/1", link.Href)

	// No overlay: falls back to the default-language record.
	link, err = r.Resolve(ctx, RequestContext{LanguageID: 2}, linkspec.LinkSpec{Subject: "42"})
	require.NoError(t, err)
	assert.Equal(t, "Answer", link.ResourceTitle)
}

func TestResolve_PageRepositoryError(t *testing.T) {
	r, pages := newTestResolver()
	pages.err = errors.New("db down")
	_, err := r.Resolve(context.Background(), RequestContext{}, linkspec.LinkSpec{Subject: "42"})
	require.Error(t, err)
	assert.False(t, IsSkip(err))
}

func TestResolve_External(t *testing.T) {
	r, _ := newTestResolver()
	ctx := context.Background()

	link, err := r.Resolve(ctx, RequestContext{}, linkspec.LinkSpec{Subject: "example.com"})
	require.NoError(t, err)
	assert.Equal(t, KindExternal, link.Kind)
	assert.Equal(t, "http://example.com", link.Href)
	assert.Equal(t, "example.com", link.ResourceTitle)

	link, _ = r.Resolve(ctx, RequestContext{}, linkspec.LinkSpec{Subject: "https://example.com"})
	assert.Equal(t, "https://example.com", link.Href)

	link, _ = r.Resolve(ctx, RequestContext{}, linkspec.LinkSpec{Subject: "http://example.com"})
	assert.Equal(t, "http://example.com", link.Href)
}

func TestResolve_ExternalLegacyPrefix(t *testing.T) {
	r, _ := newTestResolver(WithLegacyURLPrefix())
	link, err := r.Resolve(context.Background(), RequestContext{}, linkspec.LinkSpec{Subject: "http://example.com"})
	require.NoError(t, err)
	assert.Equal(t, "http://http://example.com", link.Href)
}

func TestResolve_EmailEscapeHref(t *testing.T) {
	r, _ := newTestResolver()
	ctx := context.Background()
	spec := linkspec.LinkSpec{Subject: "a@b.com"}

	for _, mode := range []string{"", "0", "2"} {
		link, err := r.Resolve(ctx, RequestContext{SpamProtect: mode}, spec)
		require.NoError(t, err)
		assert.Equal(t, KindEmail, link.Kind)
		assert.True(t, link.EscapeHref, "mode %q", mode)
	}

	link, err := r.Resolve(ctx, RequestContext{SpamProtect: mailto.ModeASCII}, spec)
	require.NoError(t, err)
	assert.False(t, link.EscapeHref)
}

func TestRender_EmailASCIIHrefNotDoubleEscaped(t *testing.T) {
	r, _ := newTestResolver()
	rc := RequestContext{SpamProtect: mailto.ModeASCII, Mail: mailto.Builder{Mode: mailto.ModeASCII}}
	out, err := render(t, r, rc, Input{Raw: "a@b.c"})
	require.NoError(t, err)
	assert.Equal(t, `<a href="&#109;&#97;&#105;&#108;&#116;&#111;&#58;&#97;&#64;&#98;&#46;&#99;">a(at)b.c</a>`, out)
}

func TestRender_EmailPlain(t *testing.T) {
	r, _ := newTestResolver()
	out, err := render(t, r, RequestContext{}, Input{Raw: "a@b.com"})
	require.NoError(t, err)
	assert.Equal(t, `<a href="mailto:a@b.com">a@b.com</a>`, out)
}

func TestRender_VariablesVisibleToChildrenOnly(t *testing.T) {
	r, _ := newTestResolver()
	scope := map[string]any{"existing": "kept"}

	var seen map[string]any
	children := func(vars map[string]any) (string, error) {
		seen = make(map[string]any, len(scope)+len(vars))
		for k, v := range scope {
			seen[k] = v
		}
		for k, v := range vars {
			seen[k] = v
		}
		return fmt.Sprintf("%v / %v", seen["wt"], seen["rt"]), nil
	}

	out, err := render(t, r, RequestContext{}, Input{
		Raw:             `42 - - "Wizard"`,
		WizardTitleAs:   "wt",
		ResourceTitleAs: "rt",
		Children:        children,
	})
	require.NoError(t, err)
	assert.Equal(t, `<a href="/page/42/0" title="Wizard">Wizard / Answer</a>`, out)
	assert.Equal(t, "kept", seen["existing"])
	assert.NotContains(t, scope, "wt")
	assert.NotContains(t, scope, "rt")
}

func TestRender_ContentFallbacks(t *testing.T) {
	r, _ := newTestResolver()
	blank := func(map[string]any) (string, error) { return "  \n", nil }

	out, err := render(t, r, RequestContext{}, Input{Raw: `file:123 - - "Download"`, Children: blank})
	require.NoError(t, err)
	assert.Equal(t, `<a href="/fileadmin/report.pdf" title="Download">report.pdf</a>`, out)

	// Resource title wins over wizard title; wizard title is the last resort.
	assert.Equal(t, "W &amp; X", chooseContent("", ResolvedLink{}, linkspec.LinkSpec{WizardTitle: "W & X"}))
}

func TestRender_ChildError(t *testing.T) {
	r, _ := newTestResolver()
	boom := errors.New("boom")
	_, err := render(t, r, RequestContext{}, Input{
		Raw:      "42",
		Children: func(map[string]any) (string, error) { return "", boom },
	})
	assert.ErrorIs(t, err, boom)
	assert.False(t, IsSkip(err))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "file", KindFile.String())
	assert.Equal(t, "external", KindExternal.String())
	assert.Equal(t, "Kind(9)", Kind(9).String())
}
