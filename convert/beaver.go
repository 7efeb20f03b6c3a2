package convert

import (
	"fmt"

	"github.com/hazyhaar/domforge/hierarchy"
	"github.com/hazyhaar/domforge/recognize"
)

// BeaverExport is a Beaver Builder layout: a flat node map keyed by
// node id, with parent/position links instead of nesting. NodeOrder
// preserves insertion order so output stays deterministic despite the
// map.
type BeaverExport struct {
	Nodes     map[string]*BeaverNode `json:"nodes"`
	NodeOrder []string               `json:"node_order"`
}

// BeaverNode is one node in the flat layout. Type is one of row,
// column-group, column, or module.
type BeaverNode struct {
	Node     string         `json:"node"`
	Type     string         `json:"type"`
	Parent   string         `json:"parent,omitempty"`
	Position int            `json:"position"`
	Module   string         `json:"module,omitempty"`
	Settings map[string]any `json:"settings"`
}

type beaverBuilder struct {
	st  *state
	exp *BeaverExport
}

func convertBeaver(st *state, root *hierarchy.Node) (any, error) {
	b := &beaverBuilder{
		st:  st,
		exp: &BeaverExport{Nodes: map[string]*BeaverNode{}},
	}
	for i, child := range root.Children {
		b.node(child, "", i)
	}
	return b.exp, nil
}

func (b *beaverBuilder) add(n *BeaverNode) string {
	n.Node = b.st.nextID()
	b.exp.Nodes[n.Node] = n
	b.exp.NodeOrder = append(b.exp.NodeOrder, n.Node)
	return n.Node
}

func (b *beaverBuilder) node(n *hierarchy.Node, parent string, pos int) {
	switch n.Kind {
	case hierarchy.KindSection, hierarchy.KindContainer:
		// Beaver has no section concept above rows. A section becomes a
		// row whose children each land in a column of one group.
		id := b.add(&BeaverNode{Type: "row", Parent: parent, Position: pos, Settings: beaverRowSettings(n)})
		gid := b.add(&BeaverNode{Type: "column-group", Parent: id, Position: 0, Settings: map[string]any{}})
		for i, child := range n.Children {
			if child.Kind == hierarchy.KindRow {
				b.node(child, parent, pos+i)
				continue
			}
			b.columnFor(child, gid, i, 100)
		}
	case hierarchy.KindRow:
		id := b.add(&BeaverNode{Type: "row", Parent: parent, Position: pos, Settings: beaverRowSettings(n)})
		gid := b.add(&BeaverNode{Type: "column-group", Parent: id, Position: 0, Settings: map[string]any{}})
		for i, child := range n.Children {
			b.columnFor(child, gid, i, child.Size)
		}
	case hierarchy.KindColumn:
		b.columnFor(n, parent, pos, n.Size)
	default:
		b.module(n, parent, pos)
	}
}

// columnFor wraps a node in a column when it is not one already.
func (b *beaverBuilder) columnFor(n *hierarchy.Node, group string, pos int, size float64) {
	if size <= 0 {
		size = 100
	}
	cid := b.add(&BeaverNode{
		Type:     "column",
		Parent:   group,
		Position: pos,
		Settings: map[string]any{"size": size},
	})
	if n.Kind == hierarchy.KindColumn {
		for i, child := range n.Children {
			b.node(child, cid, i)
		}
		return
	}
	b.node(n, cid, 0)
}

func (b *beaverBuilder) module(n *hierarchy.Node, parent string, pos int) {
	node := &BeaverNode{Type: "module", Parent: parent, Position: pos}

	if b.st.needsFallback(n) {
		node.Module = "html"
		node.Settings = map[string]any{
			"html": b.st.fb.htmlWidget(n, fallbackReason(n, b.st.opts.MinConfidence)),
		}
		b.add(node)
		return
	}

	module, settings := beaverModuleSettings(n)
	if module == "" {
		node.Module = "html"
		node.Settings = map[string]any{
			"html": b.st.fb.htmlWidget(n, fmt.Sprintf("no beaver module for %s", n.Type)),
		}
		b.add(node)
		return
	}
	node.Module = module
	node.Settings = settings
	b.add(node)
}

func beaverModuleSettings(n *hierarchy.Node) (string, map[string]any) {
	p := n.Props
	switch n.Type {
	case recognize.TypeHeading:
		return "heading", map[string]any{
			"heading": p["text"],
			"tag":     fmt.Sprintf("h%v", orAny(p["level"], 2)),
		}
	case recognize.TypeText, recognize.TypeQuote, recognize.TypeTable:
		return "rich-text", map[string]any{"text": p["html"]}
	case recognize.TypeButton:
		return "button", map[string]any{"text": p["text"], "link": p["href"]}
	case recognize.TypeImage:
		return "photo", map[string]any{"photo_src": p["src"], "caption": orAny(p["caption"], "")}
	case recognize.TypeVideo:
		return "video", map[string]any{"video_type": "embed", "embed_code": p["src"]}
	case recognize.TypeMap:
		return "map", map[string]any{"address": orAny(p["src"], "")}
	case recognize.TypeSeparator:
		return "separator", map[string]any{}
	case recognize.TypeSpacer:
		return "separator", map[string]any{"height": orAny(p["height"], 20), "style": "none"}
	case recognize.TypeIcon:
		return "icon", map[string]any{"icon": p["classes"]}
	case recognize.TypeGallery:
		return "gallery", map[string]any{"photos": p["images"]}
	case recognize.TypeCarousel:
		return "content-slider", map[string]any{"slides": p["images"]}
	case recognize.TypeAccordion:
		return "accordion", map[string]any{"items": p["items"]}
	case recognize.TypeTabs:
		return "tabs", map[string]any{"items": p["items"]}
	case recognize.TypeTestimonial:
		return "testimonials", map[string]any{"testimonials": []any{map[string]any{
			"testimonial": p["text"],
			"name":        p["author"],
		}}}
	case recognize.TypePricing:
		return "pricing-table", map[string]any{"title": p["title"], "price": p["price"]}
	default:
		return "", nil
	}
}

func beaverRowSettings(n *hierarchy.Node) map[string]any {
	s := map[string]any{"width": "full"}
	if n.Kind == hierarchy.KindContainer {
		s["content_width"] = "fixed"
	}
	if bg, ok := n.Props["background_image"].(string); ok && bg != "" {
		s["bg_type"] = "photo"
		s["bg_image_src"] = bg
	}
	if n.Styles.Background != "" {
		s["bg_type"] = "color"
		s["bg_color"] = n.Styles.Background
	}
	return s
}
