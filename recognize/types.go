package recognize

// ComponentType classifies an analyzed element into the builder-neutral
// component vocabulary. Every target converter handles the full set; new
// members must be wired through each converter's mapping switch.
type ComponentType string

const (
	TypeSection     ComponentType = "section"
	TypeContainer   ComponentType = "container"
	TypeRow         ComponentType = "row"
	TypeColumn      ComponentType = "column"
	TypeHero        ComponentType = "hero"
	TypeNav         ComponentType = "nav"
	TypeCard        ComponentType = "card"
	TypeHeading     ComponentType = "heading"
	TypeText        ComponentType = "text"
	TypeButton      ComponentType = "button"
	TypeImage       ComponentType = "image"
	TypeGallery     ComponentType = "gallery"
	TypeCarousel    ComponentType = "carousel"
	TypeVideo       ComponentType = "video"
	TypeEmbed       ComponentType = "embed"
	TypeList        ComponentType = "list"
	TypeQuote       ComponentType = "quote"
	TypeCode        ComponentType = "code"
	TypeTable       ComponentType = "table"
	TypeSeparator   ComponentType = "separator"
	TypeSpacer      ComponentType = "spacer"
	TypeIcon        ComponentType = "icon"
	TypeForm        ComponentType = "form"
	TypeInput       ComponentType = "input"
	TypeTextarea    ComponentType = "textarea"
	TypeSelect      ComponentType = "select"
	TypeCheckbox    ComponentType = "checkbox"
	TypeAccordion   ComponentType = "accordion"
	TypeTabs        ComponentType = "tabs"
	TypeTestimonial ComponentType = "testimonial"
	TypePricing     ComponentType = "pricing"
	TypeSocial      ComponentType = "social"
	TypeMap         ComponentType = "map"
	TypeUnknown     ComponentType = "unknown"
)

// AllTypes returns every component type, unknown included.
func AllTypes() []ComponentType {
	return []ComponentType{
		TypeSection, TypeContainer, TypeRow, TypeColumn, TypeHero, TypeNav,
		TypeCard, TypeHeading, TypeText, TypeButton, TypeImage, TypeGallery,
		TypeCarousel, TypeVideo, TypeEmbed, TypeList, TypeQuote, TypeCode,
		TypeTable, TypeSeparator, TypeSpacer, TypeIcon, TypeForm, TypeInput,
		TypeTextarea, TypeSelect, TypeCheckbox, TypeAccordion, TypeTabs,
		TypeTestimonial, TypePricing, TypeSocial, TypeMap, TypeUnknown,
	}
}

// IsLayout reports whether the type describes structure rather than a
// leaf widget.
func (t ComponentType) IsLayout() bool {
	switch t {
	case TypeSection, TypeContainer, TypeRow, TypeColumn, TypeHero:
		return true
	}
	return false
}

// Result is the recognition outcome for one element. Exactly one Result
// exists per analyzed element; it lives only for the conversion run.
type Result struct {
	Type            ComponentType `json:"type"`
	Confidence      int           `json:"confidence"` // 0-100
	MatchedPatterns []string      `json:"matched_patterns,omitempty"`
	FallbackType    ComponentType `json:"fallback_type,omitempty"`
	ManualReview    bool          `json:"manual_review"`
	Reason          string        `json:"reason,omitempty"`
}
