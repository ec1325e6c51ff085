// Package tag builds serialized HTML tags for the view helpers.
package tag

import (
	"html"
	"strings"
)

type attribute struct {
	name  string
	value string
}

// Builder assembles a single HTML element. Attributes render in the order
// they were first added.
type Builder struct {
	name    string
	attrs   []attribute
	content string
}

// New returns a Builder for the element name.
func New(name string) *Builder {
	return &Builder{name: name}
}

// AddAttribute sets an attribute, escaping its value.
func (b *Builder) AddAttribute(name, value string) {
	b.set(name, html.EscapeString(value))
}

// AddRawAttribute sets an attribute without escaping. The value must already
// be valid inside a double-quoted attribute.
func (b *Builder) AddRawAttribute(name, value string) {
	b.set(name, value)
}

func (b *Builder) set(name, value string) {
	for i := range b.attrs {
		if b.attrs[i].name == name {
			b.attrs[i].value = value
			return
		}
	}
	b.attrs = append(b.attrs, attribute{name: name, value: value})
}

// Attribute returns the stored (already escaped) value of name.
func (b *Builder) Attribute(name string) (string, bool) {
	for _, a := range b.attrs {
		if a.name == name {
			return a.value, true
		}
	}
	return "", false
}

// SetContent sets the inner HTML. It is written verbatim.
func (b *Builder) SetContent(content string) {
	b.content = content
}

// Render serializes the element.
func (b *Builder) Render() string {
	var sb strings.Builder
	sb.WriteByte('<')
	sb.WriteString(b.name)
	for _, a := range b.attrs {
		sb.WriteByte(' ')
		sb.WriteString(a.name)
		sb.WriteString(`="`)
		sb.WriteString(a.value)
		sb.WriteByte('"')
	}
	sb.WriteByte('>')
	sb.WriteString(b.content)
	sb.WriteString("</")
	sb.WriteString(b.name)
	sb.WriteByte('>')
	return sb.String()
}
