package convert

import (
	"context"
	"strings"
	"testing"
)

func TestFallback_NoMappingMarkupSanitized(t *testing.T) {
	// nav is recognized with high confidence but has no native block in
	// Gutenberg, so its markup goes through the passthrough widget and
	// must come out clean.
	html := `<body><nav onclick="alert(1)"><a href="/">Home</a></nav></body>`

	res, err := testPipeline().ConvertHTML(context.Background(), []byte(html), defaultOpts(TargetGutenberg))
	if err != nil {
		t.Fatal(err)
	}
	exp := res.ExportData.(*GutenbergExport)
	if len(exp.Blocks) != 1 || exp.Blocks[0].Name != "core/html" {
		t.Fatalf("blocks: %+v", exp.Blocks)
	}
	if strings.Contains(exp.Blocks[0].InnerHTML, "onclick") {
		t.Errorf("raw markup in export: %q", exp.Blocks[0].InnerHTML)
	}
	if !strings.Contains(exp.Blocks[0].InnerHTML, "Home") {
		t.Errorf("content lost: %q", exp.Blocks[0].InnerHTML)
	}
	if len(res.Fallbacks) != 1 {
		t.Fatalf("fallbacks: %+v", res.Fallbacks)
	}
	f := res.Fallbacks[0]
	if !strings.Contains(f.Reason, "no gutenberg block") {
		t.Errorf("reason = %q", f.Reason)
	}
	if strings.Contains(f.Markup, "onclick") {
		t.Errorf("recorded markup not sanitized: %q", f.Markup)
	}
}

func TestFallback_NoMappingMarkupSanitized_Elementor(t *testing.T) {
	html := `<body><nav onclick="alert(1)"><a href="/">Home</a></nav></body>`

	res, err := testPipeline().ConvertHTML(context.Background(), []byte(html), defaultOpts(TargetElementor))
	if err != nil {
		t.Fatal(err)
	}
	w := res.ExportData.(*ElementorExport).Content[0]
	if w.WidgetType != "html" {
		t.Fatalf("widget type = %q", w.WidgetType)
	}
	markup, _ := w.Settings["html"].(string)
	if strings.Contains(markup, "onclick") {
		t.Errorf("raw markup in export: %q", markup)
	}
}

func TestFallback_ManualReviewWhenHTMLDisabled(t *testing.T) {
	html := `<body><marquee>breaking</marquee></body>`

	opts := Options{Target: TargetGutenberg, MinConfidence: 70, FallbackToHTML: false}
	res, err := testPipeline().ConvertHTML(context.Background(), []byte(html), opts)
	if err != nil {
		t.Fatal(err)
	}
	exp := res.ExportData.(*GutenbergExport)
	if len(exp.Blocks) != 1 {
		t.Fatalf("blocks: %+v", exp.Blocks)
	}
	if exp.Blocks[0].InnerHTML != "" {
		t.Errorf("markup embedded with fallback_to_html off: %q", exp.Blocks[0].InnerHTML)
	}
	if len(res.Fallbacks) != 1 || res.Fallbacks[0].Strategy != FallbackManualReview {
		t.Fatalf("fallbacks: %+v", res.Fallbacks)
	}
	if res.Stats.HTMLFallbacks != 1 {
		t.Errorf("stats should count the degraded node, got %d", res.Stats.HTMLFallbacks)
	}
}

func TestFallback_ImageReplacementForActiveEmbed(t *testing.T) {
	// Sanitization strips object/iframe embeds entirely, so a
	// passthrough widget would render nothing. The record suggests a
	// static image instead.
	html := `<body><object data="movie.swf">legacy content</object></body>`

	res, err := testPipeline().ConvertHTML(context.Background(), []byte(html), defaultOpts(TargetElementor))
	if err != nil {
		t.Fatal(err)
	}
	w := res.ExportData.(*ElementorExport).Content[0]
	markup, _ := w.Settings["html"].(string)
	if strings.Contains(markup, "<object") {
		t.Errorf("active embed survived sanitization: %q", markup)
	}
	if len(res.Fallbacks) != 1 {
		t.Fatalf("fallbacks: %+v", res.Fallbacks)
	}
	f := res.Fallbacks[0]
	if f.Strategy != FallbackImageReplacement {
		t.Errorf("strategy = %q, want %q", f.Strategy, FallbackImageReplacement)
	}
	if f.Alternative == "" {
		t.Error("expected an alternative suggesting a static image")
	}
}

func TestFallback_CustomCSSPreserved(t *testing.T) {
	html := `<body><p style="transform: rotate(3deg); animation-name: spin; color: red">Hi</p></body>`

	opts := defaultOpts(TargetGutenberg)
	opts.PreserveCustomCSS = true
	res, err := testPipeline().ConvertHTML(context.Background(), []byte(html), opts)
	if err != nil {
		t.Fatal(err)
	}

	var css *Fallback
	for i := range res.Fallbacks {
		if res.Fallbacks[i].Strategy == FallbackCustomCSS {
			css = &res.Fallbacks[i]
		}
	}
	if css == nil {
		t.Fatalf("no custom-css entry: %+v", res.Fallbacks)
	}
	if !strings.Contains(css.CSS, "transform: rotate(3deg)") {
		t.Errorf("css = %q", css.CSS)
	}
	if strings.Contains(css.CSS, "color") {
		t.Errorf("natively mapped declaration leaked into custom css: %q", css.CSS)
	}
	if strings.Contains(css.CSS, "animation") {
		t.Errorf("animation kept without include_animations: %q", css.CSS)
	}

	// Custom CSS supplements a native widget; it is not degraded output.
	if res.Stats.HTMLFallbacks != 0 {
		t.Errorf("html fallbacks = %d, want 0", res.Stats.HTMLFallbacks)
	}
	if res.Stats.NativeWidgets != 1 {
		t.Errorf("native widgets = %d, want 1", res.Stats.NativeWidgets)
	}
}

func TestFallback_CustomCSSAnimations(t *testing.T) {
	html := `<body><p style="animation-name: spin; transform: scale(2)">Hi</p></body>`

	opts := defaultOpts(TargetGutenberg)
	opts.PreserveCustomCSS = true
	opts.IncludeAnimations = true
	res, err := testPipeline().ConvertHTML(context.Background(), []byte(html), opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Fallbacks) != 1 || res.Fallbacks[0].Strategy != FallbackCustomCSS {
		t.Fatalf("fallbacks: %+v", res.Fallbacks)
	}
	if !strings.Contains(res.Fallbacks[0].CSS, "animation-name: spin") {
		t.Errorf("animation dropped despite include_animations: %q", res.Fallbacks[0].CSS)
	}
}
