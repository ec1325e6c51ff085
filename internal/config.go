package internal

import (
	"fmt"
	"log/slog"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/starford/wizardlink/internal/extpath"
	"github.com/starford/wizardlink/internal/mailto"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App        ApplicationConfig `yaml:"app"`
	Site       SiteConfig        `yaml:"site"`
	SQLite     SQLiteConfig      `yaml:"sqlite"`
	Templates  TemplatesConfig   `yaml:"templates"`
	Files      FilesConfig       `yaml:"files"`
	Extensions map[string]string `yaml:"extensions"`
	Auth       AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Site.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	if err := c.Templates.Validate(); err != nil {
		return err
	}
	if err := c.Files.Validate(); err != nil {
		return err
	}
	for key := range c.Extensions {
		if err := extpath.ValidateKey(key); err != nil {
			return err
		}
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// SiteConfig holds the frontend settings the link helpers depend on.
//
// SpamProtect selects the email obfuscation: "" or "0" disables it, "ascii"
// encodes mailto hrefs as HTML entities, an integer in [-10, 10] selects the
// JavaScript cipher.
type SiteConfig struct {
	BaseURL                      string `yaml:"base_url"`
	Script                       string `yaml:"script"`
	SpamProtect                  string `yaml:"spam_protect"`
	AtSubst                      string `yaml:"at_subst"`
	LastDotSubst                 string `yaml:"last_dot_subst"`
	HideIfNotTranslatedByDefault bool   `yaml:"hide_if_not_translated_by_default"`
	LegacyURLPrefix              bool   `yaml:"legacy_url_prefix"`
}

// Validate validates the site configuration.
func (c *SiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BaseURL, is.RequestURI),
		validation.Field(&c.SpamProtect, validation.By(validSpamProtect)),
	)
}

// MailBuilder returns the mail link builder for this site.
func (c *SiteConfig) MailBuilder() mailto.Builder {
	return mailto.Builder{Mode: c.SpamProtect, AtSubst: c.AtSubst, LastDotSubst: c.LastDotSubst}
}

func validSpamProtect(value any) error {
	s, _ := value.(string)
	if s == "" || s == mailto.ModeASCII {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < -10 || n > 10 {
		return fmt.Errorf("must be %q or an integer between -10 and 10", mailto.ModeASCII)
	}
	return nil
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// TemplatesConfig holds the template directory.
type TemplatesConfig struct {
	Path      string `yaml:"path"`
	Extension string `yaml:"extension"`
	Watch     bool   `yaml:"watch"`
}

// Validate validates the template configuration.
func (c *TemplatesConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
		validation.Field(&c.Extension, validation.Required),
	)
}

// FilesConfig holds where stored files live and the URL prefix they are
// published under. An empty Root disables serving them.
type FilesConfig struct {
	Root       string `yaml:"root"`
	PublicBase string `yaml:"public_base"`
}

// Validate validates the files configuration.
func (c *FilesConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.PublicBase, validation.Required, is.RequestURI),
	)
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Site: SiteConfig{
			BaseURL: "/",
		},
		SQLite: SQLiteConfig{
			Path: "./site.db",
		},
		Templates: TemplatesConfig{
			Path:      "./templates",
			Extension: ".html",
			Watch:     true,
		},
		Files: FilesConfig{
			Root:       "./fileadmin",
			PublicBase: "/fileadmin",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
