// Package uri builds frontend URLs for internal pages.
package uri

import (
	"strconv"
	"strings"

	"github.com/starford/wizardlink/internal/linkspec"
)

// DefaultScript is the frontend entry point pages are addressed through.
const DefaultScript = "index.php"

// Builder renders page URLs of the form <base>/<script>?id=<uid>[&L=<lang>][&params].
type Builder struct {
	BaseURL string
	Script  string
}

// Build returns the URL for pageID. The language parameter is added for
// non-default languages unless params already carry an "L" key. Extra
// parameters follow in insertion order; an "id" key in params is ignored.
func (b Builder) Build(pageID int, params linkspec.Params, languageID int) string {
	script := b.Script
	if script == "" {
		script = DefaultScript
	}

	var sb strings.Builder
	sb.WriteString(strings.TrimRight(b.BaseURL, "/"))
	sb.WriteByte('/')
	sb.WriteString(script)
	sb.WriteString("?id=")
	sb.WriteString(strconv.Itoa(pageID))

	if _, ok := params.Get("L"); !ok && languageID > 0 {
		sb.WriteString("&L=")
		sb.WriteString(strconv.Itoa(languageID))
	}

	var rest linkspec.Params
	for _, k := range params.Keys() {
		if k == "id" {
			continue
		}
		v, _ := params.Get(k)
		rest.Set(k, v)
	}
	if rest.Len() > 0 {
		sb.WriteByte('&')
		sb.WriteString(rest.Encode())
	}
	return sb.String()
}
