package convert

import (
	"fmt"

	"github.com/hazyhaar/domforge/hierarchy"
	"github.com/hazyhaar/domforge/recognize"
)

// BricksExport is a Bricks template: a flat element list where each
// element links to its parent by id and lists its children in order.
type BricksExport struct {
	Content []*BricksElement `json:"content"`
}

// BricksElement is one element in the flat list. Parent is "0" for
// top-level elements.
type BricksElement struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Parent   string         `json:"parent"`
	Children []string       `json:"children"`
	Settings map[string]any `json:"settings"`
}

type bricksBuilder struct {
	st  *state
	exp *BricksExport
}

func convertBricks(st *state, root *hierarchy.Node) (any, error) {
	b := &bricksBuilder{st: st, exp: &BricksExport{Content: []*BricksElement{}}}
	for _, child := range root.Children {
		b.node(child, "0")
	}
	return b.exp, nil
}

func (b *bricksBuilder) add(name, parent string, settings map[string]any) *BricksElement {
	el := &BricksElement{
		ID:       b.st.nextID(),
		Name:     name,
		Parent:   parent,
		Children: []string{},
		Settings: settings,
	}
	b.exp.Content = append(b.exp.Content, el)
	if parent != "0" {
		for _, candidate := range b.exp.Content {
			if candidate.ID == parent {
				candidate.Children = append(candidate.Children, el.ID)
				break
			}
		}
	}
	return el
}

func (b *bricksBuilder) node(n *hierarchy.Node, parent string) {
	switch n.Kind {
	case hierarchy.KindSection:
		settings := map[string]any{}
		if bg, ok := n.Props["background_image"].(string); ok && bg != "" {
			settings["_background"] = map[string]any{"image": map[string]any{"url": bg}}
		}
		el := b.add("section", parent, settings)
		for _, child := range n.Children {
			b.node(child, el.ID)
		}
	case hierarchy.KindContainer:
		el := b.add("container", parent, map[string]any{})
		for _, child := range n.Children {
			b.node(child, el.ID)
		}
	case hierarchy.KindRow:
		el := b.add("block", parent, map[string]any{"_direction": "row"})
		for _, child := range n.Children {
			b.node(child, el.ID)
		}
	case hierarchy.KindColumn:
		settings := map[string]any{}
		if n.Size > 0 {
			settings["_width"] = fmt.Sprintf("%g%%", n.Size)
		}
		el := b.add("div", parent, settings)
		for _, child := range n.Children {
			b.node(child, el.ID)
		}
	default:
		b.widget(n, parent)
	}
}

func (b *bricksBuilder) widget(n *hierarchy.Node, parent string) {
	if b.st.needsFallback(n) {
		b.add("code", parent, map[string]any{
			"code":          b.st.fb.htmlWidget(n, fallbackReason(n, b.st.opts.MinConfidence)),
			"executeCode":   false,
			"noRootElement": true,
		})
		return
	}

	name, settings := bricksSettings(n)
	if name == "" {
		clean := b.st.fb.htmlWidget(n, fmt.Sprintf("no bricks element for %s", n.Type))
		b.add("code", parent, map[string]any{"code": clean, "executeCode": false})
		return
	}
	b.add(name, parent, settings)
}

func bricksSettings(n *hierarchy.Node) (string, map[string]any) {
	p := n.Props
	switch n.Type {
	case recognize.TypeHeading:
		return "heading", map[string]any{
			"text": p["text"],
			"tag":  fmt.Sprintf("h%v", orAny(p["level"], 2)),
		}
	case recognize.TypeText, recognize.TypeQuote, recognize.TypeTable:
		return "text", map[string]any{"text": p["html"]}
	case recognize.TypeButton:
		return "button", map[string]any{
			"text": p["text"],
			"link": map[string]any{"type": "external", "url": orAny(p["href"], "")},
		}
	case recognize.TypeImage:
		return "image", map[string]any{
			"image": map[string]any{"url": p["src"]},
			"altText": orAny(p["alt"], ""),
		}
	case recognize.TypeVideo:
		return "video", map[string]any{"videoType": "youtube", "youTubeId": p["src"]}
	case recognize.TypeMap:
		return "map", map[string]any{"address": orAny(p["src"], "")}
	case recognize.TypeList:
		return "text", map[string]any{"text": p["markup"]}
	case recognize.TypeCode:
		return "code", map[string]any{"code": p["code"], "executeCode": false}
	case recognize.TypeSeparator:
		return "divider", map[string]any{}
	case recognize.TypeSpacer:
		return "spacer", map[string]any{"_height": fmt.Sprintf("%vpx", orAny(p["height"], 20))}
	case recognize.TypeIcon:
		return "icon", map[string]any{"icon": map[string]any{"library": "css", "icon": p["classes"]}}
	case recognize.TypeGallery:
		return "image-gallery", map[string]any{"items": p["images"]}
	case recognize.TypeCarousel:
		return "carousel", map[string]any{"items": p["images"]}
	case recognize.TypeAccordion:
		return "accordion", map[string]any{"accordions": p["items"]}
	case recognize.TypeTabs:
		return "tabs", map[string]any{"tabs": p["items"]}
	case recognize.TypeTestimonial:
		return "testimonials", map[string]any{"items": []any{map[string]any{
			"content": p["text"],
			"name":    p["author"],
		}}}
	case recognize.TypeNav:
		return "nav-menu", map[string]any{"items": p["items"]}
	case recognize.TypeForm:
		return "form", map[string]any{"fields": p["fields"]}
	default:
		return "", nil
	}
}
