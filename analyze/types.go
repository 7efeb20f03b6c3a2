package analyze

// Breakpoint identifies a responsive style variant.
type Breakpoint string

const (
	BreakDesktop Breakpoint = "desktop"
	BreakLaptop  Breakpoint = "laptop"
	BreakTablet  Breakpoint = "tablet"
	BreakMobile  Breakpoint = "mobile"
)

// State identifies an interactive-state style variant.
type State string

const (
	StateNormal State = "normal"
	StateHover  State = "hover"
	StateFocus  State = "focus"
	StateActive State = "active"
	StateBefore State = "before"
	StateAfter  State = "after"
)

// Edges holds a per-side box-model value (margin, padding).
type Edges struct {
	Top    string `json:"top,omitempty"`
	Right  string `json:"right,omitempty"`
	Bottom string `json:"bottom,omitempty"`
	Left   string `json:"left,omitempty"`
}

// Zero reports whether no side carries a value.
func (e Edges) Zero() bool {
	return e.Top == "" && e.Right == "" && e.Bottom == "" && e.Left == ""
}

// Rect is element geometry in CSS pixels, viewport-relative.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Styles is the normalized style record for one element.
//
// Typed fields cover the properties the recognizer, typography extractor
// and converters read directly; Props keeps every remaining declaration
// (normalized property names, raw values) so nothing is lost on the way
// to a custom-CSS fallback.
type Styles struct {
	Display    string `json:"display,omitempty"`
	Position   string `json:"position,omitempty"`
	Width      string `json:"width,omitempty"`
	Height     string `json:"height,omitempty"`
	Margin     Edges  `json:"margin,omitempty"`
	Padding    Edges  `json:"padding,omitempty"`

	FontFamily    string  `json:"font_family,omitempty"`
	FontSizePx    float64 `json:"font_size_px,omitempty"`
	FontWeight    string  `json:"font_weight,omitempty"`
	LineHeight    string  `json:"line_height,omitempty"`
	LetterSpacing string  `json:"letter_spacing,omitempty"`
	TextAlign     string  `json:"text_align,omitempty"`
	TextTransform string  `json:"text_transform,omitempty"`

	Color           string `json:"color,omitempty"`
	Background      string `json:"background,omitempty"`
	BackgroundImage string `json:"background_image,omitempty"`

	BorderWidth  string `json:"border_width,omitempty"`
	BorderColor  string `json:"border_color,omitempty"`
	BorderRadius string `json:"border_radius,omitempty"`
	BoxShadow    string `json:"box_shadow,omitempty"`
	Opacity      string `json:"opacity,omitempty"`

	FlexDirection  string `json:"flex_direction,omitempty"`
	JustifyContent string `json:"justify_content,omitempty"`
	AlignItems     string `json:"align_items,omitempty"`
	Gap            string `json:"gap,omitempty"`
	GridColumns    string `json:"grid_columns,omitempty"`

	Props map[string]string `json:"props,omitempty"`
}

// Context captures where an element sits in the document.
type Context struct {
	InsideHero   bool     `json:"inside_hero,omitempty"`
	InsideForm   bool     `json:"inside_form,omitempty"`
	InsideNav    bool     `json:"inside_nav,omitempty"`
	InsideHeader bool     `json:"inside_header,omitempty"`
	InsideFooter bool     `json:"inside_footer,omitempty"`
	Depth        int      `json:"depth"`
	SiblingTags  []string `json:"sibling_tags,omitempty"`
}

// Element is one analyzed DOM node. Immutable once produced; the
// recognizer and everything downstream read it but never modify it.
type Element struct {
	Tag        string                `json:"tag"`
	ID         string                `json:"id,omitempty"`
	Classes    []string              `json:"classes,omitempty"`
	Attrs      map[string]string     `json:"attrs,omitempty"`
	Text       string                `json:"text,omitempty"`
	Styles     Styles                `json:"styles"`
	Responsive map[Breakpoint]Styles `json:"responsive,omitempty"`
	States     map[State]Styles      `json:"states,omitempty"`
	Context    Context               `json:"context"`
	Rect       Rect                  `json:"rect"`
	Children   []*Element            `json:"children,omitempty"`
}

// HasClass reports whether the element carries the given class name.
func (e *Element) HasClass(name string) bool {
	for _, c := range e.Classes {
		if c == name {
			return true
		}
	}
	return false
}

// ClassContains reports whether any class name contains the given keyword.
func (e *Element) ClassContains(keyword string) bool {
	for _, c := range e.Classes {
		if containsFold(c, keyword) {
			return true
		}
	}
	return false
}

// Attr returns an attribute value, empty when absent.
func (e *Element) Attr(key string) string {
	return e.Attrs[key]
}

// Walk visits the element and all descendants in document order.
func (e *Element) Walk(fn func(*Element)) {
	fn(e)
	for _, c := range e.Children {
		c.Walk(fn)
	}
}

// Count returns the number of elements in the subtree, self included.
func (e *Element) Count() int {
	n := 0
	e.Walk(func(*Element) { n++ })
	return n
}
