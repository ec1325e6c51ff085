// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the link helpers and site data via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/wizardlink/internal/apperr"
	"github.com/starford/wizardlink/internal/siteservice"
)

const linkFormatURI = "wizardlink://link-format"

// Server wraps the MCP server with the site tools.
type Server struct {
	mcp *server.MCPServer
	svc *siteservice.Service
}

// New creates a new MCP server with all tools registered.
func New(svc *siteservice.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"wizardlink",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("resolve_link",
		mcp.WithDescription("Resolve a link-wizard value and render the anchor tag. "+
			"Read the format first via get_link_format or the "+linkFormatURI+" resource."),
		mcp.WithString("value", mcp.Required(), mcp.Description("Link-wizard value, e.g. `12 _blank - \"Read more\"`")),
		mcp.WithNumber("language", mcp.Description("Language uid (0 is the default language)")),
		mcp.WithString("content", mcp.Description("Optional template fragment used as link content")),
		mcp.WithString("wizard_title_as", mcp.Description("Variable name for the wizard title inside content")),
		mcp.WithString("resource_title_as", mcp.Description("Variable name for the resource title inside content")),
	), s.resolveLink)

	s.mcp.AddTool(mcp.NewTool("extension_path",
		mcp.WithDescription("Resolve an extension key and optional sub-path to an absolute path."),
		mcp.WithString("key", mcp.Required(), mcp.Description("Extension key, e.g. site_package")),
		mcp.WithString("path", mcp.Description("Optional path below the extension directory")),
	), s.extensionPath)

	s.mcp.AddTool(mcp.NewTool("list_pages",
		mcp.WithDescription("List the visible pages of the site with their uids and titles."),
	), s.listPages)

	s.mcp.AddTool(mcp.NewTool("list_templates",
		mcp.WithDescription("List the available templates."),
	), s.listTemplates)

	s.mcp.AddTool(mcp.NewTool("render_template",
		mcp.WithDescription("Render a template and return the HTML."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Template path relative to the template root")),
		mcp.WithNumber("language", mcp.Description("Language uid (0 is the default language)")),
	), s.renderTemplate)

	s.mcp.AddTool(mcp.NewTool("get_link_format",
		mcp.WithDescription("Returns the link-wizard value format."),
	), s.getLinkFormat)

	s.mcp.AddResource(
		mcp.NewResource(linkFormatURI, "Link-Wizard Format",
			mcp.WithResourceDescription("Format of the values accepted by resolve_link."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readLinkFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) resolveLink(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	value, err := req.RequireString("value")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	lang := req.GetInt("language", 0)
	if lang < 0 {
		return mcp.NewToolResultError("language must be non-negative"), nil
	}
	res, err := s.svc.ResolveLink(ctx, siteservice.LinkRequest{
		Value:           value,
		Language:        lang,
		Content:         req.GetString("content", ""),
		WizardTitleAs:   req.GetString("wizard_title_as", ""),
		ResourceTitleAs: req.GetString("resource_title_as", ""),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(res)
}

func (s *Server) extensionPath(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := req.RequireString("key")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	p, err := s.svc.ExtensionPath(key, req.GetString("path", ""))
	if err != nil {
		if errors.Is(err, apperr.ErrUnknownExtension) {
			return mcp.NewToolResultError(fmt.Sprintf("unknown extension: %s", key)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(p), nil
}

func (s *Server) listPages(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pages, err := s.svc.ListPages(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(pages)
}

func (s *Server) listTemplates(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items, err := s.svc.ListTemplates(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	paths := make([]string, len(items))
	for i, it := range items {
		paths[i] = it.Path
	}
	return mcp.NewToolResultText(strings.Join(paths, "\n")), nil
}

func (s *Server) renderTemplate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	p, err := s.svc.RenderTemplate(ctx, path, req.GetInt("language", 0), nil)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(p.HTML), nil
}

func (s *Server) getLinkFormat(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(LinkFormatContract), nil
}

func (s *Server) readLinkFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      linkFormatURI,
			MIMEType: "text/markdown",
			Text:     LinkFormatContract,
		},
	}, nil
}
