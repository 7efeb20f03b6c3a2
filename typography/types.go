package typography

// FontUsage aggregates observed usage of one font family.
type FontUsage struct {
	Family  string         `json:"family"`
	Count   int            `json:"count"`
	Weights map[string]int `json:"weights,omitempty"`
	Roles   map[string]int `json:"roles,omitempty"`
}

// ScaleSize is one named step of the derived type scale.
type ScaleSize struct {
	Name string  `json:"name"` // xs, sm, base, lg, xl, 2xl ... 6xl
	Px   float64 `json:"px"`
	Rem  float64 `json:"rem"`
}

// TypeScale is the geometric size progression derived from observed usage.
type TypeScale struct {
	BasePx float64     `json:"base_px"`
	Ratio  float64     `json:"ratio"`
	Sizes  []ScaleSize `json:"sizes"`
}

// TextStyle is the representative style for one text role.
type TextStyle struct {
	Family     string  `json:"family,omitempty"`
	SizePx     float64 `json:"size_px,omitempty"`
	Weight     string  `json:"weight,omitempty"`
	LineHeight string  `json:"line_height,omitempty"`
	Color      string  `json:"color,omitempty"`
}

// GlobalSettings are the page-level typography tokens every converter
// reads for base/heading defaults.
type GlobalSettings struct {
	BaseFamily     string  `json:"base_family,omitempty"`
	BaseSizePx     float64 `json:"base_size_px"`
	BaseLineHeight string  `json:"base_line_height,omitempty"`
	BaseColor      string  `json:"base_color,omitempty"`
}

// Stats summarizes how coherent the observed typography is.
type Stats struct {
	DistinctFonts int    `json:"distinct_fonts"`
	ScaleQuality  string `json:"scale_quality"` // good | fair | poor
}

// System is the page-level design-system summary. Built once per page;
// read-only input to every target converter.
type System struct {
	Fonts  []FontUsage          `json:"fonts"` // sorted by usage desc, then family
	Scale  TypeScale            `json:"scale"`
	Roles  map[string]TextStyle `json:"roles"` // h1..h6, body, button, caption, link
	Global GlobalSettings       `json:"global"`
	Stats  Stats                `json:"stats"`
}

// GlobalFont is one entry of the Elementor global-fonts export list.
type GlobalFont struct {
	ID     string `json:"_id"`
	Title  string `json:"title"`
	Family string `json:"typography_font_family"`
	Weight string `json:"typography_font_weight,omitempty"`
}
