package api

import (
	"github.com/starford/wizardlink/internal/models"
	"github.com/starford/wizardlink/internal/siteservice"
)

// ResolveLinkRequest is the request body of POST /links/resolve.
type ResolveLinkRequest = siteservice.LinkRequest

// ResolveLinkResponse is the outcome of a link resolution (aliased from the domain layer).
type ResolveLinkResponse = siteservice.LinkResult

// TemplateListResponse wraps the template listing.
type TemplateListResponse struct {
	Templates []siteservice.TemplateItem `json:"templates"`
	Total     int                        `json:"total" example:"3"`
}

// PageListResponse wraps the page listing.
type PageListResponse struct {
	Pages []models.Page `json:"pages"`
	Total int           `json:"total" example:"12"`
}

// ExtensionPathResponse is returned by GET /extensions/{key}/path.
type ExtensionPathResponse struct {
	Key  string `json:"key" example:"site_package"`
	Path string `json:"path" example:"/var/www/ext/site_package/Resources/Public/"`
}
