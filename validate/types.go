// Package validate compares an original page against its converted
// rendition and decides whether the conversion is safe to export.
//
// Rendering is injected through the Renderer interface so the package
// stays free of browser dependencies; the render package provides the
// production implementation.
package validate

import "context"

// State tracks a validation run through its lifecycle.
type State string

const (
	StatePending    State = "pending"
	StateConverting State = "converting"
	StateValidating State = "validating"
	StateDone       State = "done"
	StateFailed     State = "failed"
)

// Viewport is one rendering size.
type Viewport struct {
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// DefaultViewports covers the three breakpoints recognition works with.
func DefaultViewports() []Viewport {
	return []Viewport{
		{Name: "desktop", Width: 1440, Height: 900},
		{Name: "tablet", Width: 768, Height: 1024},
		{Name: "mobile", Width: 375, Height: 812},
	}
}

// Capture is one rendered view: a PNG screenshot plus the serialized
// DOM at capture time.
type Capture struct {
	PNG []byte `json:"-"`
	DOM string `json:"-"`
}

// Renderer produces captures of a page. src is either a URL or an
// inline HTML document.
type Renderer interface {
	Render(ctx context.Context, src string, vp Viewport) (Capture, error)
}

// RenderFunc adapts a function to the Renderer interface.
type RenderFunc func(ctx context.Context, src string, vp Viewport) (Capture, error)

func (f RenderFunc) Render(ctx context.Context, src string, vp Viewport) (Capture, error) {
	return f(ctx, src, vp)
}

// Severity grades a style discrepancy.
type Severity string

const (
	SeverityMinor    Severity = "minor"
	SeverityModerate Severity = "moderate"
	SeverityMajor    Severity = "major"
)

// Compat grades a custom-code incompatibility.
type Compat string

const (
	CompatBlocking Compat = "blocking"
	CompatDegraded Compat = "degraded"
	CompatMinimal  Compat = "minimal"
)

// ViewportResult is the pixel comparison for one viewport.
type ViewportResult struct {
	Viewport   Viewport `json:"viewport"`
	Similarity float64  `json:"similarity"` // 0-1
	DiffPct    float64  `json:"diff_pct"`   // 0-100
	Error      string   `json:"error,omitempty"`
}

// SelectorDiff lists elements present on one side only.
type SelectorDiff struct {
	Missing []string `json:"missing,omitempty"` // in original, absent converted
	Extra   []string `json:"extra,omitempty"`   // in converted, absent original
}

// StyleDiscrepancy is one style mismatch on a shared selector.
type StyleDiscrepancy struct {
	Selector  string   `json:"selector"`
	Property  string   `json:"property"`
	Original  string   `json:"original"`
	Converted string   `json:"converted"`
	Severity  Severity `json:"severity"`
}

// AssetCheck is the reachability result for one referenced asset.
type AssetCheck struct {
	URL    string `json:"url"`
	Type   string `json:"type"` // image, stylesheet, script, font, media
	Status string `json:"status"` // ok, missing, broken
}

// Incompatibility is one custom-code finding.
type Incompatibility struct {
	Level   Compat `json:"level"`
	Detail  string `json:"detail"`
	Snippet string `json:"snippet,omitempty"`
}

// Options tune one validation run.
type Options struct {
	Viewports     []Viewport `json:"viewports,omitempty"`
	CheckAssets   bool       `json:"check_assets"`
	ScanCode      bool       `json:"scan_code"`
	MinSimilarity float64    `json:"min_similarity"` // 0-1, informational threshold
}

// Result is the full outcome of one validation run.
type Result struct {
	State            State              `json:"state"`
	Viewports        []ViewportResult   `json:"viewports,omitempty"`
	Selectors        SelectorDiff       `json:"selectors"`
	StyleIssues      []StyleDiscrepancy `json:"style_issues,omitempty"`
	Assets           []AssetCheck       `json:"assets,omitempty"`
	Incompatibles    []Incompatibility  `json:"incompatibilities,omitempty"`
	CanExport        bool               `json:"can_export"`
	RequiresOverride bool               `json:"requires_override"`
	Warnings         []string           `json:"warnings,omitempty"`
}
