// Package linkspec decodes the single-string link format written by the
// rich-text editor's link wizard.
//
// The format is a space-delimited, double-quoted CSV line with positional
// fields:
//
//	subject target class "wizard title" extraParams
//
// A field holding the literal "-" is absent; it keeps its position so that
// later fields can still be given.
package linkspec

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/starford/wizardlink/internal/apperr"
)

// Absent is the placeholder for an omitted positional field.
const Absent = "-"

const (
	fieldSubject = iota
	fieldTarget
	fieldClass
	fieldTitle
	fieldParams
)

// LinkSpec is the typed form of a link-wizard string.
// Empty strings mean the field was absent or "-".
type LinkSpec struct {
	Subject     string
	Target      string
	Class       string
	WizardTitle string
	ExtraParams Params
}

// Parse decodes raw into a LinkSpec. It returns apperr.ErrEmptyInput when raw
// is blank or carries no subject.
func Parse(raw string) (LinkSpec, error) {
	if strings.TrimSpace(raw) == "" {
		return LinkSpec{}, apperr.ErrEmptyInput
	}

	fields, err := splitFields(raw)
	if err != nil {
		return LinkSpec{}, fmt.Errorf("linkspec: %w", err)
	}

	spec := LinkSpec{
		Subject:     field(fields, fieldSubject),
		Target:      field(fields, fieldTarget),
		Class:       field(fields, fieldClass),
		WizardTitle: field(fields, fieldTitle),
		ExtraParams: ParseParams(field(fields, fieldParams)),
	}
	if spec.Subject == "" {
		return LinkSpec{}, apperr.ErrEmptyInput
	}
	return spec, nil
}

// splitFields reads the first CSV record of raw using space as the delimiter.
func splitFields(raw string) ([]string, error) {
	// Only one line is meaningful; newlines are folded into the delimiter.
	line := strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(raw)

	r := csv.NewReader(strings.NewReader(line))
	r.Comma = ' '
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	rec, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func field(fields []string, i int) string {
	if i >= len(fields) || fields[i] == Absent {
		return ""
	}
	return fields[i]
}

// Params is an insertion-ordered set of extra query parameters.
type Params struct {
	keys   []string
	values map[string]string
}

// ParseParams decodes an "&"-joined list of key=value pairs. Leading and
// trailing "&" are ignored. A piece without "=" yields the key with an empty
// value; pieces with an empty key are dropped. Later duplicates overwrite the
// value but keep the first position.
func ParseParams(raw string) Params {
	var p Params
	raw = strings.Trim(raw, "&")
	if raw == "" {
		return p
	}
	for _, piece := range strings.Split(raw, "&") {
		key, value, _ := strings.Cut(strings.TrimSpace(piece), "=")
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		p.Set(key, strings.TrimSpace(value))
	}
	return p
}

// Set stores value under key.
func (p *Params) Set(key, value string) {
	if p.values == nil {
		p.values = make(map[string]string)
	}
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
}

// Get returns the value for key and whether it is present.
func (p Params) Get(key string) (string, bool) {
	v, ok := p.values[key]
	return v, ok
}

// Keys returns the parameter names in insertion order.
func (p Params) Keys() []string {
	out := make([]string, len(p.keys))
	copy(out, p.keys)
	return out
}

// Len returns the number of parameters.
func (p Params) Len() int { return len(p.keys) }

// Values converts p to url.Values.
func (p Params) Values() url.Values {
	v := make(url.Values, len(p.keys))
	for _, k := range p.keys {
		v.Set(k, p.values[k])
	}
	return v
}

// Encode renders p as a query string, preserving insertion order.
func (p Params) Encode() string {
	var b strings.Builder
	for i, k := range p.keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.values[k]))
	}
	return b.String()
}
