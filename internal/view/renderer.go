// Package view renders pongo2 templates with the wizardlink and extpath tags.
//
// Templates use the tags like this:
//
//	{% wizardlink settings.link wizardTitleAs="wizardTitle" resourceTitleAs="resourceTitle" %}
//		Use {{ wizardTitle }} and {{ resourceTitle }} here.
//	{% endwizardlink %}
//
//	<link rel="stylesheet" href="{% extpath "site_package" "Resources/Public/site.css" %}">
package view

import (
	"context"
	"fmt"

	"github.com/flosch/pongo2/v6"

	"github.com/starford/wizardlink/internal/extpath"
	"github.com/starford/wizardlink/internal/wizardlink"
)

// envKey is the context entry holding the per-render environment.
const envKey = "wizardlinkEnv"

type env struct {
	ctx   context.Context
	rc    wizardlink.RequestContext
	links *wizardlink.Resolver
	ext   extpath.Lookup
}

func envFrom(ctx *pongo2.ExecutionContext) (*env, bool) {
	e, ok := ctx.Public[envKey].(*env)
	return e, ok
}

// Renderer executes templates from a loader.
type Renderer struct {
	set   *pongo2.TemplateSet
	links *wizardlink.Resolver
	ext   extpath.Lookup
}

// NewRenderer creates a Renderer loading templates through loader.
func NewRenderer(loader pongo2.TemplateLoader, links *wizardlink.Resolver, ext extpath.Lookup) *Renderer {
	return &Renderer{
		set:   pongo2.NewSet("wizardlink", loader),
		links: links,
		ext:   ext,
	}
}

// RenderFile renders the template stored at name.
func (r *Renderer) RenderFile(ctx context.Context, rc wizardlink.RequestContext, name string, data map[string]any) (string, error) {
	tpl, err := r.set.FromCache(name)
	if err != nil {
		return "", fmt.Errorf("view: load %s: %w", name, err)
	}
	return r.execute(ctx, rc, tpl, data)
}

// RenderString compiles and renders src.
func (r *Renderer) RenderString(ctx context.Context, rc wizardlink.RequestContext, src string, data map[string]any) (string, error) {
	tpl, err := r.set.FromString(src)
	if err != nil {
		return "", fmt.Errorf("view: compile: %w", err)
	}
	return r.execute(ctx, rc, tpl, data)
}

// Reload drops cached templates so the next render reads them again.
func (r *Renderer) Reload(names ...string) {
	r.set.CleanCache(names...)
}

func (r *Renderer) execute(ctx context.Context, rc wizardlink.RequestContext, tpl *pongo2.Template, data map[string]any) (string, error) {
	pctx := pongo2.Context{}
	pctx.Update(data)
	pctx[envKey] = &env{ctx: ctx, rc: rc, links: r.links, ext: r.ext}

	out, err := tpl.Execute(pctx)
	if err != nil {
		return "", fmt.Errorf("view: execute: %w", err)
	}
	return out, nil
}
