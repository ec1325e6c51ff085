// Package models defines the site records the link helpers resolve against.
package models

// Page is a row of the page tree.
type Page struct {
	UID      int    `json:"uid" yaml:"uid"`
	PID      int    `json:"pid" yaml:"pid"`
	Title    string `json:"title" yaml:"title"`
	NavTitle string `json:"nav_title,omitempty" yaml:"nav_title"`
	Hidden   bool   `json:"hidden,omitempty" yaml:"hidden"`
	Deleted  bool   `json:"-" yaml:"deleted"`
	L18nCfg  int    `json:"l18n_cfg,omitempty" yaml:"l18n_cfg"`
}

// DisplayTitle returns the navigation title when set, otherwise the title.
func (p Page) DisplayTitle() string {
	if p.NavTitle != "" {
		return p.NavTitle
	}
	return p.Title
}

// PageOverlay is the language-specific variant of a page.
type PageOverlay struct {
	PID        int    `json:"pid" yaml:"pid"`
	LanguageID int    `json:"sys_language_uid" yaml:"sys_language_uid"`
	Title      string `json:"title" yaml:"title"`
	NavTitle   string `json:"nav_title,omitempty" yaml:"nav_title"`
	Hidden     bool   `json:"hidden,omitempty" yaml:"hidden"`
	Deleted    bool   `json:"-" yaml:"deleted"`
}

// DisplayTitle returns the navigation title when set, otherwise the title.
func (o PageOverlay) DisplayTitle() string {
	if o.NavTitle != "" {
		return o.NavTitle
	}
	return o.Title
}

// File is a stored file resource.
type File struct {
	UID        int    `json:"uid" yaml:"uid"`
	Identifier string `json:"identifier" yaml:"identifier"`
	Name       string `json:"name" yaml:"name"`
	MimeType   string `json:"mime_type,omitempty" yaml:"mime_type"`
	Size       int64  `json:"size,omitempty" yaml:"size"`
	PublicURL  string `json:"public_url" yaml:"-"`
}
