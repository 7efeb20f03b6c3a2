package convert

import (
	"context"
	"strings"
	"testing"
)

func TestConvert_Quote_KeepsContent(t *testing.T) {
	html := `<body><blockquote><p>Wise words</p><cite>Someone</cite></blockquote></body>`

	res, err := testPipeline().ConvertHTML(context.Background(), []byte(html), defaultOpts(TargetGutenberg))
	if err != nil {
		t.Fatal(err)
	}
	exp := res.ExportData.(*GutenbergExport)
	if len(exp.Blocks) != 1 || exp.Blocks[0].Name != "core/quote" {
		t.Fatalf("blocks: %+v", exp.Blocks)
	}
	if !strings.Contains(exp.Blocks[0].InnerHTML, "Wise words") {
		t.Errorf("quote content lost: %q", exp.Blocks[0].InnerHTML)
	}
	if len(res.Fallbacks) != 0 {
		t.Errorf("fallbacks: %+v", res.Fallbacks)
	}
}

func TestConvert_Quote_KeepsContent_Bricks(t *testing.T) {
	html := `<body><blockquote>Said once, quoted forever</blockquote></body>`

	res, err := testPipeline().ConvertHTML(context.Background(), []byte(html), defaultOpts(TargetBricks))
	if err != nil {
		t.Fatal(err)
	}
	exp := res.ExportData.(*BricksExport)
	var text *BricksElement
	for _, el := range exp.Content {
		if el.Name == "text" {
			text = el
		}
	}
	if text == nil {
		t.Fatalf("no text element: %+v", exp.Content)
	}
	body, _ := text.Settings["text"].(string)
	if !strings.Contains(body, "quoted forever") {
		t.Errorf("quote content lost: %q", body)
	}
}

func TestConvert_Code_KeepsContent(t *testing.T) {
	html := `<body><pre>fmt.Println("hi")</pre></body>`

	res, err := testPipeline().ConvertHTML(context.Background(), []byte(html), defaultOpts(TargetGutenberg))
	if err != nil {
		t.Fatal(err)
	}
	exp := res.ExportData.(*GutenbergExport)
	if len(exp.Blocks) != 1 || exp.Blocks[0].Name != "core/code" {
		t.Fatalf("blocks: %+v", exp.Blocks)
	}
	if !strings.Contains(exp.Blocks[0].InnerHTML, "fmt.Println") {
		t.Errorf("code content lost: %q", exp.Blocks[0].InnerHTML)
	}
}

func TestConvert_Code_KeepsContent_Bricks(t *testing.T) {
	html := `<body><pre>SELECT 1;</pre></body>`

	res, err := testPipeline().ConvertHTML(context.Background(), []byte(html), defaultOpts(TargetBricks))
	if err != nil {
		t.Fatal(err)
	}
	exp := res.ExportData.(*BricksExport)
	var code *BricksElement
	for _, el := range exp.Content {
		if el.Name == "code" {
			code = el
		}
	}
	if code == nil {
		t.Fatalf("no code element: %+v", exp.Content)
	}
	if got, _ := code.Settings["code"].(string); got != "SELECT 1;" {
		t.Errorf("code setting = %q, want 'SELECT 1;'", got)
	}
}

func TestConvert_Spacer_PixelHeight(t *testing.T) {
	html := `<body><div style="height:40px"></div></body>`

	res, err := testPipeline().ConvertHTML(context.Background(), []byte(html), defaultOpts(TargetGutenberg))
	if err != nil {
		t.Fatal(err)
	}
	exp := res.ExportData.(*GutenbergExport)
	if len(exp.Blocks) != 1 || exp.Blocks[0].Name != "core/spacer" {
		t.Fatalf("blocks: %+v", exp.Blocks)
	}
	if got := exp.Blocks[0].Attrs["height"]; got != "40px" {
		t.Errorf("height attr = %v, want 40px", got)
	}

	res, err = testPipeline().ConvertHTML(context.Background(), []byte(html), defaultOpts(TargetElementor))
	if err != nil {
		t.Fatal(err)
	}
	w := res.ExportData.(*ElementorExport).Content[0]
	space, _ := w.Settings["space"].(map[string]any)
	if space == nil {
		t.Fatalf("spacer settings: %+v", w.Settings)
	}
	if got := space["size"]; got != 40.0 {
		t.Errorf("spacer size = %v (%T), want 40", got, got)
	}
}

func TestConvert_Beaver_PricingPrice(t *testing.T) {
	html := `<body><div class="pricing"><h3>Pro</h3><span class="price">$29</span></div></body>`

	res, err := testPipeline().ConvertHTML(context.Background(), []byte(html), defaultOpts(TargetBeaver))
	if err != nil {
		t.Fatal(err)
	}
	exp := res.ExportData.(*BeaverExport)
	var pricing *BeaverNode
	for _, n := range exp.Nodes {
		if n.Module == "pricing-table" {
			pricing = n
		}
	}
	if pricing == nil {
		t.Fatalf("no pricing-table module: %+v", exp.Nodes)
	}
	if got := pricing.Settings["title"]; got != "Pro" {
		t.Errorf("title = %v, want Pro", got)
	}
	if got := pricing.Settings["price"]; got != "$29" {
		t.Errorf("price = %v, want $29", got)
	}
}

func TestConvert_Elementor_ResponsiveSuffixes(t *testing.T) {
	snapshot := `{
		"page_url": "https://example.com",
		"captured_at": 1700000000000,
		"root": {
			"tag": "body",
			"children": [{
				"tag": "h1",
				"text": "Big",
				"computed": {"text-align": "left", "color": "#111111"},
				"responsive": {
					"tablet": {"text-align": "center"},
					"mobile": {"text-align": "right"}
				}
			}]
		}
	}`

	opts := defaultOpts(TargetElementor)
	opts.IncludeResponsive = true
	res, err := testPipeline().ConvertSnapshot(context.Background(), []byte(snapshot), opts)
	if err != nil {
		t.Fatal(err)
	}
	w := res.ExportData.(*ElementorExport).Content[0]
	if got := w.Settings["align"]; got != "left" {
		t.Errorf("align = %v, want left", got)
	}
	if got := w.Settings["align_tablet"]; got != "center" {
		t.Errorf("align_tablet = %v, want center", got)
	}
	if got := w.Settings["align_mobile"]; got != "right" {
		t.Errorf("align_mobile = %v, want right", got)
	}

	// Without the flag the suffixed keys stay out of the export.
	res, err = testPipeline().ConvertSnapshot(context.Background(), []byte(snapshot), defaultOpts(TargetElementor))
	if err != nil {
		t.Fatal(err)
	}
	w = res.ExportData.(*ElementorExport).Content[0]
	if _, ok := w.Settings["align_tablet"]; ok {
		t.Error("align_tablet emitted without include_responsive")
	}
	if _, ok := w.Settings["align_mobile"]; ok {
		t.Error("align_mobile emitted without include_responsive")
	}
}
