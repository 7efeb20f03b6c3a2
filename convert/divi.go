package convert

import (
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/hazyhaar/domforge/hierarchy"
	"github.com/hazyhaar/domforge/recognize"
)

// DiviExport is Divi's shortcode representation plus the structured
// tree it was rendered from.
type DiviExport struct {
	Shortcodes string       `json:"shortcodes"`
	Tree       []*DiviBlock `json:"tree"`
}

// DiviBlock is one shortcode node.
type DiviBlock struct {
	Tag      string            `json:"tag"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Content  string            `json:"content,omitempty"`
	Children []*DiviBlock      `json:"children,omitempty"`
}

func convertDivi(st *state, root *hierarchy.Node) (any, error) {
	var tree []*DiviBlock
	for _, child := range root.Children {
		tree = append(tree, diviNode(st, child))
	}
	var sb strings.Builder
	for _, b := range tree {
		renderDivi(&sb, b, 0)
	}
	return &DiviExport{Shortcodes: sb.String(), Tree: tree}, nil
}

func diviNode(st *state, n *hierarchy.Node) *DiviBlock {
	switch n.Kind {
	case hierarchy.KindSection, hierarchy.KindContainer:
		b := &DiviBlock{Tag: "et_pb_section", Attrs: map[string]string{}}
		if bg, ok := n.Props["background_image"].(string); ok && bg != "" {
			b.Attrs["background_image"] = bg
		}
		// Divi sections hold rows. Loose children share a single-column row.
		var pendingRow *DiviBlock
		for _, child := range n.Children {
			if child.Kind == hierarchy.KindRow || child.Kind == hierarchy.KindSection || child.Kind == hierarchy.KindContainer {
				pendingRow = nil
				b.Children = append(b.Children, diviNode(st, child))
				continue
			}
			if pendingRow == nil {
				pendingRow = &DiviBlock{
					Tag:      "et_pb_row",
					Children: []*DiviBlock{{Tag: "et_pb_column", Attrs: map[string]string{"type": "4_4"}}},
				}
				b.Children = append(b.Children, pendingRow)
			}
			col := pendingRow.Children[0]
			col.Children = append(col.Children, diviLeaf(st, child))
		}
		return b
	case hierarchy.KindRow:
		b := &DiviBlock{Tag: "et_pb_row"}
		for _, child := range n.Children {
			b.Children = append(b.Children, diviNode(st, child))
		}
		return b
	case hierarchy.KindColumn:
		b := &DiviBlock{Tag: "et_pb_column", Attrs: map[string]string{"type": diviColumnType(n.Size)}}
		for _, child := range n.Children {
			b.Children = append(b.Children, diviNode(st, child))
		}
		return b
	default:
		return diviLeaf(st, n)
	}
}

// diviColumnType snaps a width percentage to the nearest Divi column
// fraction.
func diviColumnType(size float64) string {
	fractions := []struct {
		pct  float64
		name string
	}{
		{25, "1_4"}, {33.33, "1_3"}, {50, "1_2"},
		{66.67, "2_3"}, {75, "3_4"}, {100, "4_4"},
	}
	best := "4_4"
	bestDist := 101.0
	for _, f := range fractions {
		d := size - f.pct
		if d < 0 {
			d = -d
		}
		if d < bestDist {
			bestDist = d
			best = f.name
		}
	}
	return best
}

func diviLeaf(st *state, n *hierarchy.Node) *DiviBlock {
	if st.needsFallback(n) {
		return &DiviBlock{
			Tag:     "et_pb_code",
			Content: st.fb.htmlWidget(n, fallbackReason(n, st.opts.MinConfidence)),
		}
	}

	p := n.Props
	switch n.Type {
	case recognize.TypeHeading:
		text, _ := p["text"].(string)
		level := orAny(p["level"], 2)
		return &DiviBlock{
			Tag:     "et_pb_text",
			Content: fmt.Sprintf("<h%v>%s</h%v>", level, html.EscapeString(text), level),
		}
	case recognize.TypeText, recognize.TypeQuote, recognize.TypeList, recognize.TypeTable:
		h, _ := p["html"].(string)
		if h == "" {
			h, _ = p["markup"].(string)
		}
		return &DiviBlock{Tag: "et_pb_text", Content: h}
	case recognize.TypeButton:
		text, _ := p["text"].(string)
		href, _ := p["href"].(string)
		return &DiviBlock{Tag: "et_pb_button", Attrs: map[string]string{
			"button_text": text,
			"button_url":  href,
		}}
	case recognize.TypeImage:
		src, _ := p["src"].(string)
		alt, _ := p["alt"].(string)
		return &DiviBlock{Tag: "et_pb_image", Attrs: map[string]string{"src": src, "alt": alt}}
	case recognize.TypeVideo:
		src, _ := p["src"].(string)
		return &DiviBlock{Tag: "et_pb_video", Attrs: map[string]string{"src": src}}
	case recognize.TypeMap:
		src, _ := p["src"].(string)
		return &DiviBlock{Tag: "et_pb_map", Attrs: map[string]string{"address": src}}
	case recognize.TypeSeparator, recognize.TypeSpacer:
		return &DiviBlock{Tag: "et_pb_divider"}
	case recognize.TypeGallery:
		return &DiviBlock{Tag: "et_pb_gallery", Attrs: map[string]string{
			"gallery_ids": strings.Join(stringsOf(p["images"]), ","),
		}}
	case recognize.TypeCarousel:
		b := &DiviBlock{Tag: "et_pb_slider"}
		for _, img := range stringsOf(p["images"]) {
			b.Children = append(b.Children, &DiviBlock{
				Tag:   "et_pb_slide",
				Attrs: map[string]string{"image": img},
			})
		}
		return b
	case recognize.TypeAccordion:
		b := &DiviBlock{Tag: "et_pb_accordion"}
		for _, pane := range panesOf(p["items"]) {
			b.Children = append(b.Children, &DiviBlock{
				Tag:     "et_pb_accordion_item",
				Attrs:   map[string]string{"title": pane.Title},
				Content: pane.Content,
			})
		}
		return b
	case recognize.TypeTabs:
		b := &DiviBlock{Tag: "et_pb_tabs"}
		for _, pane := range panesOf(p["items"]) {
			b.Children = append(b.Children, &DiviBlock{
				Tag:     "et_pb_tab",
				Attrs:   map[string]string{"title": pane.Title},
				Content: pane.Content,
			})
		}
		return b
	case recognize.TypeTestimonial:
		text, _ := p["text"].(string)
		author, _ := p["author"].(string)
		return &DiviBlock{
			Tag:     "et_pb_testimonial",
			Attrs:   map[string]string{"author": author},
			Content: text,
		}
	case recognize.TypeForm:
		return &DiviBlock{Tag: "et_pb_contact_form"}
	default:
		clean := st.fb.htmlWidget(n, fmt.Sprintf("no divi module for %s", n.Type))
		return &DiviBlock{Tag: "et_pb_code", Content: clean}
	}
}

func renderDivi(sb *strings.Builder, b *DiviBlock, depth int) {
	indent := strings.Repeat("  ", depth)
	sb.WriteString(indent + "[" + b.Tag)
	keys := make([]string, 0, len(b.Attrs))
	for k := range b.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(sb, " %s=%q", k, b.Attrs[k])
	}
	sb.WriteString("]")
	if b.Content != "" {
		sb.WriteString(b.Content)
	}
	if len(b.Children) > 0 {
		sb.WriteString("\n")
		for _, c := range b.Children {
			renderDivi(sb, c, depth+1)
		}
		sb.WriteString(indent)
	}
	sb.WriteString("[/" + b.Tag + "]\n")
}
