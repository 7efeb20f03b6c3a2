package convert

import (
	"fmt"

	"github.com/hazyhaar/domforge/hierarchy"
	"github.com/hazyhaar/domforge/recognize"
)

// OxygenExport is Oxygen's nested component JSON.
type OxygenExport struct {
	ID       int               `json:"id"`
	Name     string            `json:"name"`
	Children []*OxygenElement  `json:"children"`
}

// OxygenElement is one ct_ component. Options carries the flattened
// settings under the keys Oxygen expects (ct_id, ct_parent, original).
type OxygenElement struct {
	ID       int              `json:"id"`
	Name     string           `json:"name"`
	Options  map[string]any   `json:"options"`
	Children []*OxygenElement `json:"children,omitempty"`
}

type oxygenBuilder struct {
	st   *state
	next int
}

func convertOxygen(st *state, root *hierarchy.Node) (any, error) {
	b := &oxygenBuilder{st: st}
	exp := &OxygenExport{ID: 0, Name: "root", Children: []*OxygenElement{}}
	for _, child := range root.Children {
		exp.Children = append(exp.Children, b.node(child, 0))
	}
	return exp, nil
}

func (b *oxygenBuilder) id() int {
	b.next++
	return b.next
}

func (b *oxygenBuilder) element(name string, parent int, original map[string]any) *OxygenElement {
	id := b.id()
	return &OxygenElement{
		ID:   id,
		Name: name,
		Options: map[string]any{
			"ct_id":     id,
			"ct_parent": parent,
			"original":  original,
		},
	}
}

func (b *oxygenBuilder) node(n *hierarchy.Node, parent int) *OxygenElement {
	switch n.Kind {
	case hierarchy.KindSection:
		original := map[string]any{}
		if bg, ok := n.Props["background_image"].(string); ok && bg != "" {
			original["background-image"] = bg
		}
		el := b.element("ct_section", parent, original)
		for _, child := range n.Children {
			el.Children = append(el.Children, b.node(child, el.ID))
		}
		return el
	case hierarchy.KindContainer:
		el := b.element("ct_div_block", parent, map[string]any{"width": "1120", "width-unit": "px"})
		for _, child := range n.Children {
			el.Children = append(el.Children, b.node(child, el.ID))
		}
		return el
	case hierarchy.KindRow:
		el := b.element("ct_div_block", parent, map[string]any{"display": "flex", "flex-direction": "row"})
		for _, child := range n.Children {
			el.Children = append(el.Children, b.node(child, el.ID))
		}
		return el
	case hierarchy.KindColumn:
		original := map[string]any{}
		if n.Size > 0 {
			original["width"] = fmt.Sprintf("%g", n.Size)
			original["width-unit"] = "%"
		}
		el := b.element("ct_div_block", parent, original)
		for _, child := range n.Children {
			el.Children = append(el.Children, b.node(child, el.ID))
		}
		return el
	default:
		return b.widget(n, parent)
	}
}

func (b *oxygenBuilder) widget(n *hierarchy.Node, parent int) *OxygenElement {
	if b.st.needsFallback(n) {
		return b.element("ct_code_block", parent, map[string]any{
			"code-php": b.st.fb.htmlWidget(n, fallbackReason(n, b.st.opts.MinConfidence)),
		})
	}

	name, original := oxygenOriginal(n)
	if name == "" {
		clean := b.st.fb.htmlWidget(n, fmt.Sprintf("no oxygen component for %s", n.Type))
		return b.element("ct_code_block", parent, map[string]any{"code-php": clean})
	}
	return b.element(name, parent, original)
}

func oxygenOriginal(n *hierarchy.Node) (string, map[string]any) {
	p := n.Props
	switch n.Type {
	case recognize.TypeHeading:
		return "ct_headline", map[string]any{
			"ct_content": p["text"],
			"tag":        fmt.Sprintf("h%v", orAny(p["level"], 2)),
		}
	case recognize.TypeText, recognize.TypeQuote, recognize.TypeList, recognize.TypeTable:
		h, ok := p["html"].(string)
		if !ok || h == "" {
			h, _ = p["markup"].(string)
		}
		return "ct_text_block", map[string]any{"ct_content": h}
	case recognize.TypeButton:
		return "ct_link_button", map[string]any{
			"ct_content": p["text"],
			"url":        orAny(p["href"], ""),
		}
	case recognize.TypeImage:
		return "ct_image", map[string]any{"src": p["src"], "alt": orAny(p["alt"], "")}
	case recognize.TypeVideo:
		return "ct_video", map[string]any{"src": p["src"]}
	case recognize.TypeSeparator, recognize.TypeSpacer:
		return "ct_div_block", map[string]any{"height": fmt.Sprintf("%v", orAny(p["height"], 20)), "height-unit": "px"}
	case recognize.TypeIcon:
		return "ct_fancy_icon", map[string]any{"icon-id": p["classes"]}
	case recognize.TypeNav:
		return "oxy_nav_menu", map[string]any{"menu_items": p["items"]}
	default:
		return "", nil
	}
}
