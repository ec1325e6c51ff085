package view

import (
	"bytes"
	"errors"

	"github.com/flosch/pongo2/v6"

	"github.com/starford/wizardlink/internal/extpath"
	"github.com/starford/wizardlink/internal/wizardlink"
)

func init() {
	for name, fn := range map[string]pongo2.TagParser{
		"wizardlink": parseWizardLink,
		"extpath":    parseExtPath,
	} {
		if err := pongo2.RegisterTag(name, fn); err != nil {
			panic(err)
		}
	}
}

// {% wizardlink value [wizardTitleAs="name"] [resourceTitleAs="name"] %}...{% endwizardlink %}
type wizardLinkNode struct {
	value           pongo2.IEvaluator
	wizardTitleAs   pongo2.IEvaluator
	resourceTitleAs pongo2.IEvaluator
	wrapper         *pongo2.NodeWrapper
}

func parseWizardLink(doc *pongo2.Parser, start *pongo2.Token, arguments *pongo2.Parser) (pongo2.INodeTag, *pongo2.Error) {
	node := &wizardLinkNode{}

	value, err := arguments.ParseExpression()
	if err != nil {
		return nil, err
	}
	node.value = value

	for arguments.Remaining() > 0 {
		key := arguments.MatchType(pongo2.TokenIdentifier)
		if key == nil {
			return nil, arguments.Error("Expected an argument name.", nil)
		}
		if arguments.Match(pongo2.TokenSymbol, "=") == nil {
			return nil, arguments.Error("Expected '=' after argument name.", nil)
		}
		expr, err := arguments.ParseExpression()
		if err != nil {
			return nil, err
		}
		switch key.Val {
		case "wizardTitleAs":
			node.wizardTitleAs = expr
		case "resourceTitleAs":
			node.resourceTitleAs = expr
		default:
			return nil, arguments.Error("Unknown argument '"+key.Val+"'.", key)
		}
	}

	wrapper, endargs, err := doc.WrapUntilTag("endwizardlink")
	if err != nil {
		return nil, err
	}
	if endargs.Count() > 0 {
		return nil, endargs.Error("Arguments not allowed here.", nil)
	}
	node.wrapper = wrapper

	return node, nil
}

func (n *wizardLinkNode) Execute(ctx *pongo2.ExecutionContext, writer pongo2.TemplateWriter) *pongo2.Error {
	env, ok := envFrom(ctx)
	if !ok {
		return ctx.Error("wizardlink: template rendered without a request environment", nil)
	}

	raw, perr := evalString(ctx, n.value)
	if perr != nil {
		return perr
	}
	wizardTitleAs, perr := evalString(ctx, n.wizardTitleAs)
	if perr != nil {
		return perr
	}
	resourceTitleAs, perr := evalString(ctx, n.resourceTitleAs)
	if perr != nil {
		return perr
	}

	in := wizardlink.Input{
		Raw:             raw,
		WizardTitleAs:   wizardTitleAs,
		ResourceTitleAs: resourceTitleAs,
		Children: func(vars map[string]any) (string, error) {
			child := pongo2.NewChildExecutionContext(ctx)
			for k, v := range vars {
				child.Private[k] = v
			}
			var buf bytes.Buffer
			if err := n.wrapper.Execute(child, &buf); err != nil {
				return "", err
			}
			return buf.String(), nil
		},
	}

	out, err := env.links.Render(env.ctx, env.rc, in)
	if err != nil {
		if wizardlink.IsSkip(err) {
			return nil
		}
		var tplErr *pongo2.Error
		if errors.As(err, &tplErr) {
			return tplErr
		}
		return ctx.Error(err.Error(), nil)
	}

	if _, werr := writer.WriteString(out); werr != nil {
		return ctx.Error(werr.Error(), nil)
	}
	return nil
}

// {% extpath key [path] %}
type extPathNode struct {
	key     pongo2.IEvaluator
	subPath pongo2.IEvaluator
}

func parseExtPath(doc *pongo2.Parser, start *pongo2.Token, arguments *pongo2.Parser) (pongo2.INodeTag, *pongo2.Error) {
	key, err := arguments.ParseExpression()
	if err != nil {
		return nil, err
	}
	node := &extPathNode{key: key}
	if arguments.Remaining() > 0 {
		sub, err := arguments.ParseExpression()
		if err != nil {
			return nil, err
		}
		node.subPath = sub
	}
	if arguments.Remaining() > 0 {
		return nil, arguments.Error("Tag 'extpath' takes at most two arguments.", nil)
	}
	return node, nil
}

func (n *extPathNode) Execute(ctx *pongo2.ExecutionContext, writer pongo2.TemplateWriter) *pongo2.Error {
	env, ok := envFrom(ctx)
	if !ok || env.ext == nil {
		return ctx.Error("extpath: no extension lookup configured", nil)
	}
	key, perr := evalString(ctx, n.key)
	if perr != nil {
		return perr
	}
	sub, perr := evalString(ctx, n.subPath)
	if perr != nil {
		return perr
	}
	p, err := extpath.Resolve(env.ext, key, sub)
	if err != nil {
		return ctx.Error(err.Error(), nil)
	}
	if _, err := writer.WriteString(p); err != nil {
		return ctx.Error(err.Error(), nil)
	}
	return nil
}

func evalString(ctx *pongo2.ExecutionContext, expr pongo2.IEvaluator) (string, *pongo2.Error) {
	if expr == nil {
		return "", nil
	}
	v, err := expr.Evaluate(ctx)
	if err != nil {
		return "", err
	}
	if v.IsNil() {
		return "", nil
	}
	return v.String(), nil
}
