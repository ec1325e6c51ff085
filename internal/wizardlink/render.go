package wizardlink

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"github.com/starford/wizardlink/internal/linkspec"
	"github.com/starford/wizardlink/internal/tag"
)

// ChildRenderer renders the child content of the calling template. vars are
// added to the child scope only, on top of whatever the caller already has.
type ChildRenderer func(vars map[string]any) (string, error)

// Input is one invocation of the link helper.
type Input struct {
	// Raw is the link-wizard string.
	Raw string
	// WizardTitleAs names the child-scope variable receiving the wizard title.
	WizardTitleAs string
	// ResourceTitleAs names the child-scope variable receiving the resolved
	// resource title.
	ResourceTitleAs string
	Children        ChildRenderer
}

// Render resolves in.Raw and returns the serialized anchor. When nothing
// should be rendered (empty input, missing target, hidden page) it returns
// an error for which IsSkip is true.
func (r *Resolver) Render(ctx context.Context, rc RequestContext, in Input) (string, error) {
	spec, err := linkspec.Parse(in.Raw)
	if err != nil {
		return "", err
	}

	link, err := r.Resolve(ctx, rc, spec)
	if err != nil {
		if IsSkip(err) {
			r.logger.Debug("wizardlink: skipped",
				slog.String("subject", spec.Subject),
				slog.String("reason", err.Error()))
		}
		return "", err
	}

	a := tag.New("a")
	if link.EscapeHref {
		a.AddAttribute("href", link.Href)
	} else {
		a.AddRawAttribute("href", link.Href)
	}
	if spec.Target != "" {
		a.AddAttribute("target", spec.Target)
	}
	if spec.Class != "" {
		a.AddAttribute("class", spec.Class)
	}
	if spec.WizardTitle != "" {
		a.AddAttribute("title", spec.WizardTitle)
	}

	vars := make(map[string]any, 2)
	if in.WizardTitleAs != "" {
		vars[in.WizardTitleAs] = spec.WizardTitle
	}
	if in.ResourceTitleAs != "" {
		vars[in.ResourceTitleAs] = link.ResourceTitle
	}

	var content string
	if in.Children != nil {
		content, err = in.Children(vars)
		if err != nil {
			return "", fmt.Errorf("wizardlink: render children: %w", err)
		}
	}
	a.SetContent(chooseContent(content, link, spec))

	return a.Render(), nil
}

// chooseContent picks the rendered children, then the resource title, then
// the wizard title. Titles are plain text and get escaped.
func chooseContent(children string, link ResolvedLink, spec linkspec.LinkSpec) string {
	if strings.TrimSpace(children) != "" {
		return children
	}
	if link.ResourceTitle != "" {
		return html.EscapeString(link.ResourceTitle)
	}
	return html.EscapeString(spec.WizardTitle)
}
