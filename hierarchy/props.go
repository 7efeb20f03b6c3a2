package hierarchy

import (
	"strings"

	"github.com/hazyhaar/domforge/analyze"
	"github.com/hazyhaar/domforge/recognize"
)

// widgetProps absorbs a widget's element subtree into the typed prop
// payload its converters read. Unknown types only carry the original
// markup; the fallback path owns them.
func widgetProps(rc *recognize.Recognized) map[string]any {
	el := rc.Element
	props := map[string]any{}

	switch rc.Result.Type {
	case recognize.TypeHeading:
		props["level"] = headingLevel(el.Tag)
		props["text"] = deepText(el)

	case recognize.TypeText:
		props["text"] = deepText(el)
		props["html"] = el.InnerHTML()
		if el.Tag == "a" {
			props["href"] = el.Attr("href")
		}

	case recognize.TypeButton:
		props["text"] = deepText(el)
		props["href"] = el.Attr("href")
		if t := el.Attr("target"); t != "" {
			props["target"] = t
		}

	case recognize.TypeImage:
		img := el
		if el.Tag != "img" {
			img = firstDescendant(el, "img")
		}
		if img != nil {
			props["src"] = img.Attr("src")
			props["alt"] = img.Attr("alt")
		}
		if cap := firstDescendant(el, "figcaption"); cap != nil {
			props["caption"] = deepText(cap)
		}

	case recognize.TypeVideo, recognize.TypeEmbed, recognize.TypeMap:
		props["src"] = el.Attr("src")
		if el.Tag == "video" {
			if src := firstDescendant(el, "source"); src != nil {
				props["src"] = src.Attr("src")
			}
			props["controls"] = el.Attr("controls") != ""
		}

	case recognize.TypeList:
		props["ordered"] = el.Tag == "ol"
		props["items"] = childTexts(el, "li")

	case recognize.TypeQuote:
		props["text"] = deepText(el)
		props["html"] = el.InnerHTML()
		if cite := firstDescendant(el, "cite"); cite != nil {
			props["cite"] = deepText(cite)
		}

	case recognize.TypeCode:
		props["code"] = deepText(el)

	case recognize.TypeTable:
		props["html"] = el.OuterHTML()

	case recognize.TypeSeparator:
		// Style-only widget.

	case recognize.TypeSpacer:
		// Converters append their own unit, so the prop is numeric px.
		if px, err := analyze.SizeToPx(el.Styles.Height); err == nil && px > 0 {
			props["height"] = px
		}

	case recognize.TypeIcon:
		props["classes"] = strings.Join(el.Classes, " ")

	case recognize.TypeForm:
		props["action"] = el.Attr("action")
		props["method"] = el.Attr("method")
		props["fields"] = formFields(el)

	case recognize.TypeInput, recognize.TypeCheckbox:
		props["input_type"] = el.Attr("type")
		props["name"] = el.Attr("name")
		props["placeholder"] = el.Attr("placeholder")

	case recognize.TypeTextarea:
		props["name"] = el.Attr("name")
		props["placeholder"] = el.Attr("placeholder")

	case recognize.TypeSelect:
		props["name"] = el.Attr("name")
		props["options"] = childTexts(el, "option")

	case recognize.TypeNav:
		props["items"] = navItems(el)

	case recognize.TypeCard:
		if h := firstHeading(el); h != nil {
			props["title"] = deepText(h)
		}
		if p := firstDescendant(el, "p"); p != nil {
			props["text"] = deepText(p)
		}
		if img := firstDescendant(el, "img"); img != nil {
			props["image"] = img.Attr("src")
		}
		if a := firstDescendant(el, "a"); a != nil {
			props["button_text"] = deepText(a)
			props["button_href"] = a.Attr("href")
		}

	case recognize.TypeGallery, recognize.TypeCarousel:
		props["images"] = descendantAttrs(el, "img", "src")
		props["slides"] = len(el.Children)
		props["html"] = el.InnerHTML()

	case recognize.TypeAccordion, recognize.TypeTabs:
		props["items"] = paneItems(el)

	case recognize.TypeTestimonial:
		props["text"] = deepText(el)
		if cite := firstDescendant(el, "cite"); cite != nil {
			props["author"] = deepText(cite)
		}

	case recognize.TypePricing:
		if h := firstHeading(el); h != nil {
			props["title"] = deepText(h)
		}
		if pr := firstClassContaining(el, "price"); pr != nil {
			props["price"] = deepText(pr)
		}
		props["features"] = childTexts(el, "li")
		props["html"] = el.InnerHTML()

	case recognize.TypeSocial:
		props["links"] = descendantAttrs(el, "a", "href")

	case recognize.TypeUnknown:
		// No typed payload; the converter's fallback path reads the
		// markup below.
	}

	props["markup"] = el.OuterHTML()
	return props
}

// layoutProps carries section/container-level payload.
func layoutProps(rc *recognize.Recognized) map[string]any {
	el := rc.Element
	props := map[string]any{}
	if el.Styles.BackgroundImage != "" {
		props["background_image"] = el.Styles.BackgroundImage
	}
	if rc.Result.Type == recognize.TypeHero {
		if h := firstHeading(el); h != nil {
			props["heading"] = deepText(h)
		}
	}
	if len(props) == 0 {
		return nil
	}
	return props
}

func headingLevel(tag string) int {
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0')
	}
	return 2
}

// deepText joins all text in the subtree, document order.
func deepText(el *analyze.Element) string {
	var parts []string
	el.Walk(func(e *analyze.Element) {
		if e.Text != "" {
			parts = append(parts, e.Text)
		}
	})
	return strings.Join(parts, " ")
}

func firstDescendant(el *analyze.Element, tag string) *analyze.Element {
	var found *analyze.Element
	el.Walk(func(e *analyze.Element) {
		if found == nil && e != el && e.Tag == tag {
			found = e
		}
	})
	return found
}

func firstClassContaining(el *analyze.Element, keyword string) *analyze.Element {
	var found *analyze.Element
	el.Walk(func(e *analyze.Element) {
		if found == nil && e != el && e.ClassContains(keyword) {
			found = e
		}
	})
	return found
}

func firstHeading(el *analyze.Element) *analyze.Element {
	var found *analyze.Element
	el.Walk(func(e *analyze.Element) {
		if found == nil && len(e.Tag) == 2 && e.Tag[0] == 'h' && e.Tag[1] >= '1' && e.Tag[1] <= '6' {
			found = e
		}
	})
	return found
}

func childTexts(el *analyze.Element, tag string) []string {
	var out []string
	el.Walk(func(e *analyze.Element) {
		if e.Tag == tag {
			out = append(out, deepText(e))
		}
	})
	return out
}

func descendantAttrs(el *analyze.Element, tag, attr string) []string {
	var out []string
	el.Walk(func(e *analyze.Element) {
		if e.Tag == tag {
			if v := e.Attr(attr); v != "" {
				out = append(out, v)
			}
		}
	})
	return out
}

func formFields(el *analyze.Element) []map[string]string {
	var out []map[string]string
	el.Walk(func(e *analyze.Element) {
		switch e.Tag {
		case "input":
			t := e.Attr("type")
			if t == "submit" || t == "hidden" {
				return
			}
			out = append(out, map[string]string{
				"type":        orDefault(t, "text"),
				"name":        e.Attr("name"),
				"placeholder": e.Attr("placeholder"),
				"required":    e.Attr("required"),
			})
		case "textarea":
			out = append(out, map[string]string{
				"type":        "textarea",
				"name":        e.Attr("name"),
				"placeholder": e.Attr("placeholder"),
			})
		case "select":
			out = append(out, map[string]string{
				"type": "select",
				"name": e.Attr("name"),
			})
		}
	})
	return out
}

// NavItem is one link in a navigation widget's items prop.
type NavItem struct {
	Text string `json:"text"`
	Href string `json:"href"`
}

func navItems(el *analyze.Element) []NavItem {
	var out []NavItem
	el.Walk(func(e *analyze.Element) {
		if e.Tag == "a" {
			out = append(out, NavItem{Text: deepText(e), Href: e.Attr("href")})
		}
	})
	return out
}

// Pane is one title/content pair in an accordion or tabs widget.
type Pane struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// paneItems extracts title/content pairs from accordion and tab shapes:
// <details><summary> pairs, or heading-followed-by-content children.
func paneItems(el *analyze.Element) []Pane {
	if el.Tag == "details" {
		item := Pane{}
		if s := firstDescendant(el, "summary"); s != nil {
			item.Title = deepText(s)
		}
		var rest []string
		for _, c := range el.Children {
			if c.Tag != "summary" {
				rest = append(rest, deepText(c))
			}
		}
		item.Content = strings.Join(rest, " ")
		return []Pane{item}
	}

	var out []Pane
	var current *Pane
	for _, c := range el.Children {
		if c.Tag == "details" {
			out = append(out, paneItems(c)...)
			continue
		}
		isTitle := firstHeadingSelf(c) || c.Tag == "summary" || c.ClassContains("title") || c.ClassContains("header")
		if isTitle {
			if current != nil {
				out = append(out, *current)
			}
			current = &Pane{Title: deepText(c)}
			continue
		}
		if current != nil {
			if current.Content != "" {
				current.Content += " "
			}
			current.Content += deepText(c)
		}
	}
	if current != nil {
		out = append(out, *current)
	}
	return out
}

func firstHeadingSelf(el *analyze.Element) bool {
	return len(el.Tag) == 2 && el.Tag[0] == 'h' && el.Tag[1] >= '1' && el.Tag[1] <= '6'
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
