package recognize

import (
	"regexp"

	"github.com/hazyhaar/domforge/analyze"
)

// RulesetVersion identifies the shipped pattern table. Bump when rules
// change so stored conversion runs can be traced to the rules that
// produced them.
const RulesetVersion = "2026-08"

// Pattern is one recognition rule. A pattern matches an element only if
// every predicate it declares is satisfied; absent predicates are not
// evaluated. Patterns are static: the table is assembled once at package
// init and never mutated.
type Pattern struct {
	ID         string
	Type       ComponentType
	Priority   int // higher checked first; declaration order breaks ties
	Confidence int // 0-100, returned verbatim on match

	Tags          []string                         // tag name is one of
	ClassKeywords []string                         // any class contains one of
	Role          string                           // exact ARIA role
	Content       *regexp.Regexp                   // matches element text
	StyleWhere    func(analyze.Styles) bool        // predicate over the style record
	ChildShape    func([]*analyze.Element) bool    // predicate over direct children
	Context       func(analyze.Context) bool       // required ancestry
	Where         func(*analyze.Element) bool      // attribute-level escape hatch
}

// Matches evaluates every declared predicate against the element.
func (p *Pattern) Matches(el *analyze.Element) bool {
	if len(p.Tags) > 0 {
		ok := false
		for _, t := range p.Tags {
			if el.Tag == t {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if len(p.ClassKeywords) > 0 {
		ok := false
		for _, kw := range p.ClassKeywords {
			if el.ClassContains(kw) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if p.Role != "" && el.Attr("role") != p.Role {
		return false
	}
	if p.Content != nil && !p.Content.MatchString(el.Text) {
		return false
	}
	if p.StyleWhere != nil && !p.StyleWhere(el.Styles) {
		return false
	}
	if p.ChildShape != nil && !p.ChildShape(el.Children) {
		return false
	}
	if p.Context != nil && !p.Context(el.Context) {
		return false
	}
	if p.Where != nil && !p.Where(el) {
		return false
	}
	return true
}

// --- child-shape helpers ---

func hasChildTag(children []*analyze.Element, tags ...string) bool {
	for _, c := range children {
		for _, t := range tags {
			if c.Tag == t {
				return true
			}
		}
	}
	return false
}

func countDescendantTag(children []*analyze.Element, tag string) int {
	n := 0
	for _, c := range children {
		c.Walk(func(e *analyze.Element) {
			if e.Tag == tag {
				n++
			}
		})
	}
	return n
}

// repeatedChildren reports at least min children sharing one tag, the
// shape carousels and galleries produce.
func repeatedChildren(children []*analyze.Element, min int) bool {
	counts := map[string]int{}
	for _, c := range children {
		counts[c.Tag]++
		if counts[c.Tag] >= min {
			return true
		}
	}
	return false
}

var videoHosts = regexp.MustCompile(`(youtube\.com|youtu\.be|vimeo\.com|wistia\.com|dailymotion\.com)`)
var mapHosts = regexp.MustCompile(`(google\.[a-z.]+/maps|openstreetmap\.org)`)

// DefaultRuleset is the shipped pattern table, priority-ordered at load.
// Confidence values reflect how unambiguous the signal is: native tags
// score high, class-keyword heuristics mid, purely structural guesses low.
func DefaultRuleset() []Pattern {
	return []Pattern{
		// Form controls — native tags, near-certain.
		{ID: "checkbox-input", Type: TypeCheckbox, Priority: 100, Confidence: 98,
			Tags: []string{"input"},
			Where: func(el *analyze.Element) bool {
				t := el.Attr("type")
				return t == "checkbox" || t == "radio"
			}},
		{ID: "select-tag", Type: TypeSelect, Priority: 100, Confidence: 98, Tags: []string{"select"}},
		{ID: "textarea-tag", Type: TypeTextarea, Priority: 100, Confidence: 98, Tags: []string{"textarea"}},
		{ID: "input-tag", Type: TypeInput, Priority: 96, Confidence: 95, Tags: []string{"input"}},
		{ID: "form-tag", Type: TypeForm, Priority: 95, Confidence: 95, Tags: []string{"form"}},

		// Navigation.
		{ID: "nav-tag", Type: TypeNav, Priority: 94, Confidence: 95, Tags: []string{"nav"}},
		{ID: "nav-role", Type: TypeNav, Priority: 94, Confidence: 92, Role: "navigation"},
		{ID: "nav-class", Type: TypeNav, Priority: 72, Confidence: 75,
			Tags:          []string{"ul", "div"},
			ClassKeywords: []string{"navbar", "nav-menu", "main-menu", "menu-bar"},
			ChildShape:    func(ch []*analyze.Element) bool { return countDescendantTag(ch, "a") >= 2 }},

		// Headings and buttons.
		{ID: "heading-tag", Type: TypeHeading, Priority: 92, Confidence: 98,
			Tags: []string{"h1", "h2", "h3", "h4", "h5", "h6"}},
		{ID: "button-tag", Type: TypeButton, Priority: 92, Confidence: 98, Tags: []string{"button"}},
		{ID: "button-link-class", Type: TypeButton, Priority: 88, Confidence: 92,
			Tags: []string{"a"}, ClassKeywords: []string{"btn", "button", "cta"}},
		{ID: "button-link-style", Type: TypeButton, Priority: 60, Confidence: 70,
			Tags: []string{"a"},
			StyleWhere: func(s analyze.Styles) bool {
				return s.Background != "" && s.Background != "transparent" && s.Padding.Left != ""
			}},

		// Media.
		{ID: "image-tag", Type: TypeImage, Priority: 90, Confidence: 98, Tags: []string{"img"}},
		{ID: "figure-image", Type: TypeImage, Priority: 86, Confidence: 90,
			Tags:       []string{"figure", "picture"},
			ChildShape: func(ch []*analyze.Element) bool { return hasChildTag(ch, "img", "source") }},
		{ID: "video-tag", Type: TypeVideo, Priority: 90, Confidence: 98, Tags: []string{"video"}},
		{ID: "video-embed", Type: TypeVideo, Priority: 89, Confidence: 92,
			Tags:  []string{"iframe"},
			Where: func(el *analyze.Element) bool { return videoHosts.MatchString(el.Attr("src")) }},
		{ID: "map-embed", Type: TypeMap, Priority: 89, Confidence: 92,
			Tags:  []string{"iframe"},
			Where: func(el *analyze.Element) bool { return mapHosts.MatchString(el.Attr("src")) }},
		{ID: "iframe-embed", Type: TypeEmbed, Priority: 80, Confidence: 85, Tags: []string{"iframe", "embed", "object"}},

		// Composite widgets — class-keyword heuristics.
		{ID: "carousel-class", Type: TypeCarousel, Priority: 86, Confidence: 85,
			ClassKeywords: []string{"carousel", "slider", "swiper", "slick", "splide"},
			ChildShape:    func(ch []*analyze.Element) bool { return len(ch) >= 1 }},
		{ID: "gallery-class", Type: TypeGallery, Priority: 85, Confidence: 82,
			ClassKeywords: []string{"gallery", "masonry", "image-grid"},
			ChildShape:    func(ch []*analyze.Element) bool { return countDescendantTag(ch, "img") >= 3 }},
		{ID: "accordion-details", Type: TypeAccordion, Priority: 85, Confidence: 95, Tags: []string{"details"}},
		{ID: "accordion-class", Type: TypeAccordion, Priority: 84, Confidence: 82,
			ClassKeywords: []string{"accordion", "collapse", "faq-item"}},
		{ID: "tabs-role", Type: TypeTabs, Priority: 85, Confidence: 90, Role: "tablist"},
		{ID: "tabs-class", Type: TypeTabs, Priority: 84, Confidence: 80,
			ClassKeywords: []string{"tabs", "tab-list", "tab-nav"}},
		{ID: "testimonial-class", Type: TypeTestimonial, Priority: 84, Confidence: 80,
			ClassKeywords: []string{"testimonial", "review-card"}},
		{ID: "pricing-class", Type: TypePricing, Priority: 84, Confidence: 78,
			ClassKeywords: []string{"pricing", "price-table", "plan-card"}},
		{ID: "social-class", Type: TypeSocial, Priority: 83, Confidence: 76,
			ClassKeywords: []string{"social", "share-buttons", "follow-us"},
			ChildShape:    func(ch []*analyze.Element) bool { return countDescendantTag(ch, "a") >= 2 }},

		// Simple content tags.
		{ID: "table-tag", Type: TypeTable, Priority: 82, Confidence: 98, Tags: []string{"table"}},
		{ID: "quote-tag", Type: TypeQuote, Priority: 82, Confidence: 95, Tags: []string{"blockquote"}},
		{ID: "code-tag", Type: TypeCode, Priority: 82, Confidence: 95, Tags: []string{"pre", "code"}},
		{ID: "separator-tag", Type: TypeSeparator, Priority: 82, Confidence: 98, Tags: []string{"hr"}},
		{ID: "list-tag", Type: TypeList, Priority: 78, Confidence: 90,
			Tags:    []string{"ul", "ol"},
			Context: func(c analyze.Context) bool { return !c.InsideNav }},
		{ID: "icon-class", Type: TypeIcon, Priority: 76, Confidence: 85,
			Tags:          []string{"i", "span", "svg"},
			ClassKeywords: []string{"icon", "fa-", "material-icons", "bi-"}},
		{ID: "svg-icon", Type: TypeIcon, Priority: 70, Confidence: 80,
			Tags:       []string{"svg"},
			ChildShape: func(ch []*analyze.Element) bool { return len(ch) <= 4 }},

		// Layout.
		{ID: "hero-section", Type: TypeHero, Priority: 68, Confidence: 85,
			Tags:          []string{"section", "div", "header"},
			ClassKeywords: []string{"hero", "banner", "jumbotron", "masthead"}},
		{ID: "card-class", Type: TypeCard, Priority: 66, Confidence: 78,
			ClassKeywords: []string{"card", "tile", "info-box"},
			ChildShape: func(ch []*analyze.Element) bool {
				return hasChildTag(ch, "h1", "h2", "h3", "h4", "h5", "h6", "img") && len(ch) >= 2
			}},
		{ID: "card-style", Type: TypeCard, Priority: 48, Confidence: 65,
			Tags: []string{"div", "article"},
			StyleWhere: func(s analyze.Styles) bool {
				return (s.BoxShadow != "" || s.BorderWidth != "") && s.BorderRadius != "" && s.Padding.Top != ""
			},
			ChildShape: func(ch []*analyze.Element) bool { return len(ch) >= 2 }},
		{ID: "paragraph-tag", Type: TypeText, Priority: 64, Confidence: 95, Tags: []string{"p"}},
		{ID: "inline-text", Type: TypeText, Priority: 56, Confidence: 85,
			Tags:    []string{"span", "em", "strong", "small", "a", "label"},
			Content: regexp.MustCompile(`\S`)},
		{ID: "spacer-div", Type: TypeSpacer, Priority: 54, Confidence: 70,
			Tags: []string{"div"},
			StyleWhere: func(s analyze.Styles) bool { return s.Height != "" },
			ChildShape: func(ch []*analyze.Element) bool { return len(ch) == 0 },
			Content:    regexp.MustCompile(`^$`)},
		{ID: "section-tag", Type: TypeSection, Priority: 52, Confidence: 85,
			Tags: []string{"section", "main", "article", "aside", "header", "footer"}},
		{ID: "row-flex", Type: TypeRow, Priority: 46, Confidence: 75,
			Tags: []string{"div"},
			StyleWhere: func(s analyze.Styles) bool {
				return (s.Display == "flex" && s.FlexDirection != "column") ||
					s.Display == "grid" || s.GridColumns != ""
			},
			ChildShape: func(ch []*analyze.Element) bool { return len(ch) >= 2 }},
		{ID: "row-class", Type: TypeRow, Priority: 45, Confidence: 75,
			Tags:          []string{"div"},
			ClassKeywords: []string{"row", "columns", "flex-row"},
			ChildShape:    func(ch []*analyze.Element) bool { return len(ch) >= 2 }},
		{ID: "column-class", Type: TypeColumn, Priority: 44, Confidence: 75,
			Tags: []string{"div"},
			Where: func(el *analyze.Element) bool {
				return el.ClassContains("col-") || el.ClassContains("column") || el.HasClass("col")
			}},
		{ID: "container-class", Type: TypeContainer, Priority: 30, Confidence: 70,
			Tags:          []string{"div"},
			ClassKeywords: []string{"container", "wrapper", "content", "inner"}},
		{ID: "generic-div", Type: TypeContainer, Priority: 10, Confidence: 40,
			Tags:       []string{"div"},
			ChildShape: func(ch []*analyze.Element) bool { return len(ch) > 0 }},
	}
}
