package convert

import (
	"fmt"
	"sort"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/microcosm-cc/bluemonday"

	"github.com/hazyhaar/domforge/hierarchy"
	"github.com/hazyhaar/domforge/recognize"
)

// FallbackStrategy names a degraded-representation path.
type FallbackStrategy string

const (
	FallbackHTMLWidget       FallbackStrategy = "html-widget"
	FallbackCustomCSS        FallbackStrategy = "custom-css"
	FallbackImageReplacement FallbackStrategy = "image-replacement"
	FallbackManualReview     FallbackStrategy = "manual-review"
)

// Fallback records one node that could not be represented natively.
type Fallback struct {
	Strategy    FallbackStrategy `json:"strategy"`
	Reason      string           `json:"reason"`
	Markup      string           `json:"markup,omitempty"`
	CSS         string           `json:"css,omitempty"`
	Suggestion  string           `json:"suggestion,omitempty"`
	Alternative string           `json:"alternative,omitempty"`
}

type fallbackRecorder struct {
	opts    Options
	entries []Fallback
	policy  *bluemonday.Policy
	md      *converter.Converter
}

func newFallbackRecorder(opts Options) *fallbackRecorder {
	return &fallbackRecorder{
		opts:   opts,
		policy: fallbackPolicy(),
		md: converter.NewConverter(converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		)),
	}
}

// fallbackPolicy extends the UGC baseline with the structural and style
// attributes an HTML-passthrough widget must keep to stay recognizable.
func fallbackPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class", "id").Globally()
	p.AllowAttrs("style").Globally()
	p.AllowElements("section", "article", "aside", "header", "footer", "nav", "figure", "figcaption")
	return p
}

// htmlWidget records a node that takes the degraded path and returns the
// sanitized markup to embed in the target's raw-HTML widget. When
// FallbackToHTML is off the node is recorded for manual review instead
// and nothing is embedded. When sanitization strips active embed content
// the record suggests replacing the block with a static image.
func (r *fallbackRecorder) htmlWidget(n *hierarchy.Node, reason string) string {
	markup, _ := n.Props["markup"].(string)
	clean := r.policy.Sanitize(markup)

	f := Fallback{
		Strategy: FallbackHTMLWidget,
		Reason:   reason,
		Markup:   clean,
	}
	switch {
	case !r.opts.FallbackToHTML:
		f.Strategy = FallbackManualReview
		f.Alternative = "rebuild this block in the target editor"
		clean = ""
	case strippedActiveContent(markup, clean):
		f.Strategy = FallbackImageReplacement
		f.Alternative = "replace with a static image capture of the original element"
	}
	if md, err := r.md.ConvertString(markup); err == nil {
		if md = strings.TrimSpace(md); md != "" {
			f.Suggestion = md
		}
	}
	if n.ManualReview && f.Alternative == "" {
		f.Alternative = "review node placement manually"
	}
	r.entries = append(r.entries, f)
	return clean
}

// strippedActiveContent reports whether sanitization removed embedded
// active content the passthrough widget cannot reproduce.
func strippedActiveContent(raw, clean string) bool {
	lower := strings.ToLower(raw)
	cleanLower := strings.ToLower(clean)
	for _, tag := range []string{"<iframe", "<embed", "<object", "<canvas"} {
		if strings.Contains(lower, tag) && !strings.Contains(cleanLower, tag) {
			return true
		}
	}
	return false
}

// record appends a fallback entry produced outside the widget path.
func (r *fallbackRecorder) record(f Fallback) {
	r.entries = append(r.entries, f)
}

// degradedCount counts entries that stand in for a widget. Custom-CSS
// entries supplement a native widget and are not degraded output.
func (r *fallbackRecorder) degradedCount() int {
	n := 0
	for _, f := range r.entries {
		if f.Strategy != FallbackCustomCSS {
			n++
		}
	}
	return n
}

// customCSS records, for every natively converted widget, the style
// declarations the target's settings vocabulary cannot carry.
func (st *state) customCSS(root *hierarchy.Node) {
	root.Walk(func(n *hierarchy.Node) {
		if n.Kind != hierarchy.KindWidget || st.needsFallback(n) {
			return
		}
		css := cssText(n.Styles.Props, st.opts.IncludeAnimations)
		if css == "" {
			return
		}
		st.fb.record(Fallback{
			Strategy: FallbackCustomCSS,
			Reason:   fmt.Sprintf("declarations beyond native %s settings", st.opts.Target),
			CSS:      css,
		})
	})
}

// typedProps lists the declarations the normalized Styles record maps
// into native builder settings. Everything else is custom CSS.
var typedProps = map[string]bool{
	"display": true, "position": true, "width": true, "height": true,
	"margin": true, "margin-top": true, "margin-right": true, "margin-bottom": true, "margin-left": true,
	"padding": true, "padding-top": true, "padding-right": true, "padding-bottom": true, "padding-left": true,
	"font-family": true, "font-size": true, "font-weight": true,
	"line-height": true, "letter-spacing": true, "text-align": true, "text-transform": true,
	"color": true, "background": true, "background-color": true, "background-image": true,
	"border": true, "border-width": true, "border-color": true, "border-radius": true,
	"box-shadow": true, "opacity": true,
	"flex-direction": true, "justify-content": true, "align-items": true, "gap": true,
	"grid-template-columns": true,
}

// cssText renders the declarations no native setting carries, in
// sorted property order. Animation and transition properties are
// dropped unless requested.
func cssText(props map[string]string, includeAnimations bool) string {
	if len(props) == 0 {
		return ""
	}
	keys := make([]string, 0, len(props))
	for k := range props {
		if typedProps[k] {
			continue
		}
		if !includeAnimations && (strings.HasPrefix(k, "animation") || strings.HasPrefix(k, "transition")) {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s: %s; ", k, props[k])
	}
	return strings.TrimSpace(sb.String())
}

// fallbackReason builds the human-readable reason string for a node
// taking the degraded path.
func fallbackReason(n *hierarchy.Node, minConfidence int) string {
	switch {
	case n.Type == recognize.TypeUnknown:
		return "unrecognized component"
	case n.Confidence < minConfidence:
		return "confidence below threshold"
	default:
		return "no native mapping"
	}
}
