package convert

import (
	"fmt"

	"github.com/hazyhaar/domforge/analyze"
	"github.com/hazyhaar/domforge/hierarchy"
	"github.com/hazyhaar/domforge/recognize"
)

// ElementorExport is the template-import payload Elementor accepts.
type ElementorExport struct {
	Version string              `json:"version"`
	Title   string              `json:"title"`
	Type    string              `json:"type"`
	Content []*ElementorElement `json:"content"`
}

// ElementorElement is one node of the nested section/column/widget tree.
type ElementorElement struct {
	ID         string              `json:"id"`
	ElType     string              `json:"elType"`
	WidgetType string              `json:"widgetType,omitempty"`
	Settings   map[string]any      `json:"settings"`
	Elements   []*ElementorElement `json:"elements"`
}

func convertElementor(st *state, root *hierarchy.Node) (any, error) {
	exp := &ElementorExport{
		Version: "0.4",
		Title:   "Converted page",
		Type:    "page",
		Content: []*ElementorElement{},
	}
	for _, child := range root.Children {
		el, err := elementorNode(st, child)
		if err != nil {
			return nil, err
		}
		exp.Content = append(exp.Content, el)
	}
	return exp, nil
}

func elementorNode(st *state, n *hierarchy.Node) (*ElementorElement, error) {
	switch n.Kind {
	case hierarchy.KindSection, hierarchy.KindContainer:
		return elementorSection(st, n)
	case hierarchy.KindRow:
		return elementorSection(st, n)
	case hierarchy.KindColumn:
		return elementorColumn(st, n)
	default:
		return elementorWidget(st, n), nil
	}
}

// elementorSection emits a section. Elementor sections hold columns
// directly, so widget children get wrapped in a full-width column.
func elementorSection(st *state, n *hierarchy.Node) (*ElementorElement, error) {
	sec := &ElementorElement{
		ID:       st.nextID(),
		ElType:   "section",
		Settings: elementorLayoutSettings(st, n),
		Elements: []*ElementorElement{},
	}

	var pendingCol *ElementorElement
	flush := func() { pendingCol = nil }
	for _, child := range n.Children {
		if child.Kind == hierarchy.KindColumn {
			flush()
			col, err := elementorColumn(st, child)
			if err != nil {
				return nil, err
			}
			sec.Elements = append(sec.Elements, col)
			continue
		}
		if child.Kind == hierarchy.KindRow || child.Kind == hierarchy.KindContainer || child.Kind == hierarchy.KindSection {
			flush()
			inner, err := elementorNode(st, child)
			if err != nil {
				return nil, err
			}
			wrap := &ElementorElement{
				ID:       st.nextID(),
				ElType:   "column",
				Settings: map[string]any{"_column_size": 100},
				Elements: []*ElementorElement{inner},
			}
			sec.Elements = append(sec.Elements, wrap)
			continue
		}
		// Widget directly under a section: wrap in a shared 100% column.
		if pendingCol == nil {
			pendingCol = &ElementorElement{
				ID:       st.nextID(),
				ElType:   "column",
				Settings: map[string]any{"_column_size": 100},
				Elements: []*ElementorElement{},
			}
			sec.Elements = append(sec.Elements, pendingCol)
		}
		pendingCol.Elements = append(pendingCol.Elements, elementorWidget(st, child))
	}
	return sec, nil
}

func elementorColumn(st *state, n *hierarchy.Node) (*ElementorElement, error) {
	col := &ElementorElement{
		ID:     st.nextID(),
		ElType: "column",
		Settings: map[string]any{
			"_column_size": n.Size,
		},
		Elements: []*ElementorElement{},
	}
	for k, v := range elementorStyleSettings(st, n) {
		col.Settings[k] = v
	}
	for _, child := range n.Children {
		el, err := elementorNode(st, child)
		if err != nil {
			return nil, err
		}
		col.Elements = append(col.Elements, el)
	}
	return col, nil
}

func elementorWidget(st *state, n *hierarchy.Node) *ElementorElement {
	w := &ElementorElement{
		ID:       st.nextID(),
		ElType:   "widget",
		Elements: []*ElementorElement{},
	}

	if st.needsFallback(n) {
		w.WidgetType = "html"
		w.Settings = map[string]any{
			"html": st.fb.htmlWidget(n, fallbackReason(n, st.opts.MinConfidence)),
		}
		return w
	}

	widgetType, settings := elementorWidgetSettings(st, n)
	if widgetType == "" {
		w.WidgetType = "html"
		w.Settings = map[string]any{
			"html": st.fb.htmlWidget(n, fmt.Sprintf("no elementor mapping for %s", n.Type)),
		}
		return w
	}
	w.WidgetType = widgetType
	for k, v := range elementorStyleSettings(st, n) {
		settings[k] = v
	}
	w.Settings = settings
	return w
}

// elementorWidgetSettings maps a recognized component to Elementor's
// widget vocabulary. An empty widget type means "no native mapping".
func elementorWidgetSettings(st *state, n *hierarchy.Node) (string, map[string]any) {
	p := n.Props
	switch n.Type {
	case recognize.TypeHeading:
		s := map[string]any{
			"title":       p["text"],
			"header_size": fmt.Sprintf("h%v", orAny(p["level"], 2)),
		}
		if st.typo != nil && len(st.typo.Fonts) > 0 {
			s["__globals__"] = map[string]any{"typography_typography": "globals/typography?id=primary"}
		}
		return "heading", s
	case recognize.TypeText, recognize.TypeQuote:
		return "text-editor", map[string]any{"editor": p["html"]}
	case recognize.TypeButton:
		return "button", map[string]any{
			"text": p["text"],
			"link": map[string]any{"url": orAny(p["href"], "")},
		}
	case recognize.TypeImage:
		s := map[string]any{
			"image": map[string]any{"url": p["src"]},
		}
		if cap, ok := p["caption"]; ok {
			s["caption_source"] = "custom"
			s["caption"] = cap
		}
		return "image", s
	case recognize.TypeVideo:
		return "video", map[string]any{"youtube_url": p["src"]}
	case recognize.TypeMap:
		return "google_maps", map[string]any{"address": orAny(p["src"], "")}
	case recognize.TypeList:
		return "icon-list", map[string]any{"icon_list": elementorListItems(p)}
	case recognize.TypeSeparator:
		return "divider", map[string]any{}
	case recognize.TypeSpacer:
		return "spacer", map[string]any{"space": map[string]any{"unit": "px", "size": orAny(p["height"], 20)}}
	case recognize.TypeIcon:
		return "icon", map[string]any{"selected_icon": map[string]any{"value": p["classes"]}}
	case recognize.TypeGallery:
		return "image-gallery", map[string]any{"wp_gallery": p["images"]}
	case recognize.TypeCarousel:
		return "image-carousel", map[string]any{"carousel": p["images"]}
	case recognize.TypeAccordion:
		return "accordion", map[string]any{"tabs": p["items"]}
	case recognize.TypeTabs:
		return "tabs", map[string]any{"tabs": p["items"]}
	case recognize.TypeTestimonial:
		return "testimonial", map[string]any{
			"testimonial_content": p["text"],
			"testimonial_name":    p["author"],
		}
	case recognize.TypeSocial:
		return "social-icons", map[string]any{"social_icon_list": p["links"]}
	case recognize.TypeCode, recognize.TypeTable, recognize.TypeEmbed, recognize.TypeForm,
		recognize.TypeInput, recognize.TypeTextarea, recognize.TypeSelect, recognize.TypeCheckbox,
		recognize.TypeCard, recognize.TypePricing, recognize.TypeNav:
		// Representable only as raw HTML in a stock Elementor install.
		return "", nil
	default:
		return "", nil
	}
}

func elementorListItems(p map[string]any) []map[string]any {
	items, _ := p["items"].([]string)
	out := make([]map[string]any, 0, len(items))
	for _, it := range items {
		out = append(out, map[string]any{"text": it})
	}
	return out
}

func elementorLayoutSettings(st *state, n *hierarchy.Node) map[string]any {
	s := elementorStyleSettings(st, n)
	if bg, ok := n.Props["background_image"].(string); ok && bg != "" {
		s["background_background"] = "classic"
		s["background_image"] = map[string]any{"url": bg}
	}
	if n.Kind == hierarchy.KindContainer {
		s["layout"] = "boxed"
	}
	return s
}

// elementorStyleSettings translates normalized styles into Elementor
// setting keys. With IncludeResponsive set, tablet and mobile style
// overrides are emitted under the same keys with _tablet/_mobile
// suffixes, Elementor's responsive-control convention.
func elementorStyleSettings(st *state, n *hierarchy.Node) map[string]any {
	s := elementorStyles(n.Styles, "")
	if !st.opts.IncludeResponsive {
		return s
	}
	for bp, suffix := range map[analyze.Breakpoint]string{
		analyze.BreakTablet: "_tablet",
		analyze.BreakMobile: "_mobile",
	} {
		styles, ok := n.Responsive[bp]
		if !ok {
			continue
		}
		for k, v := range elementorStyles(styles, suffix) {
			s[k] = v
		}
	}
	return s
}

func elementorStyles(styles analyze.Styles, suffix string) map[string]any {
	s := map[string]any{}
	if styles.Color != "" {
		s["color"+suffix] = styles.Color
	}
	if styles.Background != "" {
		s["background_color"+suffix] = styles.Background
	}
	if styles.TextAlign != "" {
		s["align"+suffix] = styles.TextAlign
	}
	if !styles.Padding.Zero() {
		s["padding"+suffix] = elementorEdges(styles.Padding)
	}
	if !styles.Margin.Zero() {
		s["margin"+suffix] = elementorEdges(styles.Margin)
	}
	if styles.BorderRadius != "" {
		s["border_radius"+suffix] = map[string]any{"unit": "px", "size": styles.BorderRadius}
	}
	return s
}

func elementorEdges(e analyze.Edges) map[string]any {
	return map[string]any{
		"unit":     "px",
		"top":      e.Top,
		"right":    e.Right,
		"bottom":   e.Bottom,
		"left":     e.Left,
		"isLinked": e.Top == e.Right && e.Right == e.Bottom && e.Bottom == e.Left,
	}
}

func orAny(v any, def any) any {
	if v == nil {
		return def
	}
	if s, ok := v.(string); ok && s == "" {
		return def
	}
	return v
}
