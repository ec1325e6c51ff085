// Package mailto builds spam-protected mailto links.
package mailto

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ModeASCII encodes the whole mailto URL as decimal HTML entities.
const ModeASCII = "ascii"

const defaultAtSubst = "(at)"

// Builder turns an address into an href and a display label.
//
// Mode is the site-wide spam protection setting: empty or "0" disables it,
// "ascii" selects entity encoding, and an integer in [-10, 10] selects the
// shifted-character cipher decoded by linkTo_UnCryptMailto on the client.
type Builder struct {
	Mode         string
	AtSubst      string
	LastDotSubst string
}

// Build returns the href and label for address. An empty label defaults to
// the address. When protection is active every occurrence of the address in
// the label is replaced by its obfuscated form.
func (b Builder) Build(address, label string) (string, string) {
	if label == "" {
		label = address
	}
	href := "mailto:" + address

	switch {
	case b.Mode == ModeASCII:
		href = encodeASCII(href)
	case b.offset() != 0:
		href = fmt.Sprintf("javascript:linkTo_UnCryptMailto(%s);", quoteJS(Encrypt(href, b.offset())))
	default:
		return href, label
	}

	return href, replaceFold(label, address, b.protectAddress(address))
}

// SpamProtected reports whether the builder obfuscates addresses.
func (b Builder) SpamProtected() bool {
	return b.Mode == ModeASCII || b.offset() != 0
}

func (b Builder) offset() int {
	n, err := strconv.Atoi(strings.TrimSpace(b.Mode))
	if err != nil {
		return 0
	}
	return min(max(n, -10), 10)
}

func (b Builder) protectAddress(address string) string {
	at := strings.TrimSpace(b.AtSubst)
	if at == "" {
		at = defaultAtSubst
	}
	out := strings.ReplaceAll(address, "@", at)
	if dot := strings.TrimSpace(b.LastDotSubst); dot != "" {
		if i := strings.LastIndexByte(out, '.'); i >= 0 && i < len(out)-1 {
			out = out[:i] + dot + out[i+1:]
		}
	}
	return out
}

// Encrypt shifts the characters of s within the ranges "+" to ":", "@" to "Z"
// and "a" to "z" by offset, wrapping at the range bounds. Other bytes are kept.
// Encrypt(Encrypt(s, n), -n) == s.
func Encrypt(s string, offset int) string {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := int(s[i])
		switch {
		case c >= '+' && c <= ':':
			c = shift(c, '+', ':', offset)
		case c >= '@' && c <= 'Z':
			c = shift(c, '@', 'Z', offset)
		case c >= 'a' && c <= 'z':
			c = shift(c, 'a', 'z', offset)
		}
		out[i] = byte(c)
	}
	return string(out)
}

func shift(n, start, end, offset int) int {
	n += offset
	if offset > 0 && n > end {
		n = start + (n - end - 1)
	} else if offset < 0 && n < start {
		n = end - (start - n - 1)
	}
	return n
}

func encodeASCII(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		sb.WriteString("&#")
		sb.WriteString(strconv.Itoa(int(s[i])))
		sb.WriteByte(';')
	}
	return sb.String()
}

func quoteJS(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(s) + "'"
}

// replaceFold replaces case-insensitive occurrences of old in s.
func replaceFold(s, old, repl string) string {
	if old == "" {
		return s
	}
	re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(old))
	return re.ReplaceAllLiteralString(s, repl)
}
