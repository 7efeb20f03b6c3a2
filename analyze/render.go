package analyze

import (
	"sort"
	"strings"
)

// voidTags have no closing tag when re-rendered.
var voidTags = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// OuterHTML reconstructs markup for the element subtree. Attributes are
// emitted in sorted key order so the output is deterministic; this is
// the snippet fallback strategies carry, not a byte-exact copy of the
// source document.
func (e *Element) OuterHTML() string {
	var sb strings.Builder
	e.renderTo(&sb)
	return sb.String()
}

// InnerHTML reconstructs markup for the element's content only.
func (e *Element) InnerHTML() string {
	var sb strings.Builder
	e.renderContent(&sb)
	return sb.String()
}

func (e *Element) renderTo(sb *strings.Builder) {
	sb.WriteByte('<')
	sb.WriteString(e.Tag)

	keys := make([]string, 0, len(e.Attrs))
	for k := range e.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sb.WriteByte(' ')
		sb.WriteString(k)
		sb.WriteString(`="`)
		sb.WriteString(escapeAttr(e.Attrs[k]))
		sb.WriteByte('"')
	}
	sb.WriteByte('>')

	if voidTags[e.Tag] {
		return
	}
	e.renderContent(sb)
	sb.WriteString("</")
	sb.WriteString(e.Tag)
	sb.WriteByte('>')
}

func (e *Element) renderContent(sb *strings.Builder) {
	if e.Text != "" {
		sb.WriteString(escapeText(e.Text))
	}
	for _, c := range e.Children {
		c.renderTo(sb)
	}
}

func escapeAttr(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	return strings.ReplaceAll(s, `"`, "&quot;")
}

func escapeText(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	return strings.ReplaceAll(s, ">", "&gt;")
}
