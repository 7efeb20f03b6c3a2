package typography

import (
	"context"
	"reflect"
	"testing"

	"github.com/hazyhaar/domforge/analyze"
)

func analyzeFixture(t *testing.T, raw string) *analyze.Element {
	t.Helper()
	a := analyze.New(analyze.Config{})
	root, err := a.AnalyzeHTML(context.Background(), []byte(raw))
	if err != nil {
		t.Fatal(err)
	}
	return root
}

func TestScaleSnapping(t *testing.T) {
	// Sizes {16, 20, 25} → base 16, ratio 1.25.
	counts := map[int]int{16: 10, 20: 3, 25: 1}
	scale := deriveScale(counts)
	if scale.BasePx != 16 {
		t.Errorf("base = %v, want 16", scale.BasePx)
	}
	if scale.Ratio != 1.25 {
		t.Errorf("ratio = %v, want 1.25", scale.Ratio)
	}
}

func TestScaleDefaults(t *testing.T) {
	scale := deriveScale(map[int]int{})
	if scale.BasePx != 16 {
		t.Errorf("base = %v, want default 16", scale.BasePx)
	}
	if scale.Ratio != 1.25 {
		t.Errorf("ratio = %v, want default 1.25", scale.Ratio)
	}

	// Nothing in the [14,18] band: still 16.
	scale = deriveScale(map[int]int{32: 5, 48: 2})
	if scale.BasePx != 16 {
		t.Errorf("base = %v, want 16", scale.BasePx)
	}
}

func TestScaleNames(t *testing.T) {
	counts := map[int]int{12: 2, 16: 10, 20: 4, 25: 2, 31: 1}
	scale := deriveScale(counts)

	names := map[float64]string{}
	for _, s := range scale.Sizes {
		names[s.Px] = s.Name
	}
	if names[16] != "base" {
		t.Errorf("16px = %q, want base", names[16])
	}
	if names[20] != "lg" {
		t.Errorf("20px = %q, want lg", names[20])
	}
	if names[25] != "xl" {
		t.Errorf("25px = %q, want xl", names[25])
	}
	if names[12] != "sm" {
		t.Errorf("12px = %q, want sm", names[12])
	}
}

func TestExtract_FontUsage(t *testing.T) {
	root := analyzeFixture(t, `<html><body>
<h1 style="font-family:'Playfair Display', serif; font-size:40px; font-weight:700">Title</h1>
<p style="font-family:'Open Sans', sans-serif; font-size:16px; color:#222222">One</p>
<p style="font-family:'Open Sans', sans-serif; font-size:16px">Two</p>
<p style="font-family:'Open Sans', sans-serif; font-size:16px">Three</p>
</body></html>`)

	sys := Extract(root)

	if len(sys.Fonts) != 2 {
		t.Fatalf("distinct fonts = %d, want 2", len(sys.Fonts))
	}
	if sys.Fonts[0].Family != "Open Sans" {
		t.Errorf("dominant font = %q, want Open Sans", sys.Fonts[0].Family)
	}
	if sys.Fonts[0].Count != 3 {
		t.Errorf("Open Sans count = %d, want 3", sys.Fonts[0].Count)
	}
	if sys.Global.BaseFamily != "Open Sans" {
		t.Errorf("base family = %q, want Open Sans", sys.Global.BaseFamily)
	}
	if sys.Global.BaseSizePx != 16 {
		t.Errorf("base size = %v, want 16", sys.Global.BaseSizePx)
	}
	if sys.Global.BaseColor != "#222222" {
		t.Errorf("base color = %q, want #222222", sys.Global.BaseColor)
	}
	if sys.Stats.DistinctFonts != 2 {
		t.Errorf("stats fonts = %d, want 2", sys.Stats.DistinctFonts)
	}
}

func TestExtract_HeadingTakesFirstObserved(t *testing.T) {
	// WHAT: Two h2s with different sizes — the role keeps the first.
	// WHY: Documented current behavior: the per-tag "average" is really
	// the first observed instance. Changing this needs product sign-off.
	root := analyzeFixture(t, `<html><body>
<h2 style="font-size:28px; color:#111111">First</h2>
<h2 style="font-size:22px; color:#999999">Second</h2>
</body></html>`)

	sys := Extract(root)
	h2 := sys.Roles["h2"]
	if h2.SizePx != 28 {
		t.Errorf("h2 size = %v, want 28 (first observed)", h2.SizePx)
	}
	if h2.Color != "#111111" {
		t.Errorf("h2 color = %q, want #111111 (first observed)", h2.Color)
	}
}

func TestExtract_Roles(t *testing.T) {
	root := analyzeFixture(t, `<html><body>
<h1 style="font-size:32px">T</h1>
<p style="font-size:16px; line-height:1.6">body</p>
<a class="btn" style="font-size:14px; font-weight:600" href="#">Go</a>
<a style="font-size:15px" href="/more">link</a>
<figcaption style="font-size:12px">cap</figcaption>
</body></html>`)

	sys := Extract(root)
	for _, role := range []string{"h1", "body", "button", "link", "caption"} {
		if _, ok := sys.Roles[role]; !ok {
			t.Errorf("missing role %q", role)
		}
	}
	if sys.Roles["button"].Weight != "600" {
		t.Errorf("button weight = %q, want 600", sys.Roles["button"].Weight)
	}
}

func TestExtract_PureFold(t *testing.T) {
	// Two extractions over the same tree produce identical systems.
	root := analyzeFixture(t, `<html><body><p style="font-size:16px;font-family:Arial">x</p></body></html>`)
	a := Extract(root)
	b := Extract(root)
	if !reflect.DeepEqual(a.Scale, b.Scale) {
		t.Errorf("scale differs: %+v vs %+v", a.Scale, b.Scale)
	}
	if len(a.Fonts) != len(b.Fonts) || a.Fonts[0].Family != b.Fonts[0].Family {
		t.Errorf("fonts differ")
	}
}

func TestElementorGlobalFonts(t *testing.T) {
	root := analyzeFixture(t, `<html><body>
<p style="font-family:Roboto; font-weight:400">a</p>
<p style="font-family:Roboto; font-weight:400">b</p>
<h1 style="font-family:Lora; font-weight:700">T</h1>
</body></html>`)

	fonts := ElementorGlobalFonts(Extract(root))
	if len(fonts) != 2 {
		t.Fatalf("global fonts = %d, want 2", len(fonts))
	}
	if fonts[0].Title != "Primary" || fonts[0].Family != "Roboto" {
		t.Errorf("first = %+v, want Primary/Roboto", fonts[0])
	}
	if fonts[1].Title != "Secondary" || fonts[1].Weight != "700" {
		t.Errorf("second = %+v, want Secondary weight 700", fonts[1])
	}
}
