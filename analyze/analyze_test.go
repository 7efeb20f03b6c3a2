package analyze

import (
	"context"
	"testing"
)

func TestAnalyzeHTML_Basic(t *testing.T) {
	a := New(Config{})
	raw := []byte(`<!DOCTYPE html><html><body>
<div class="wrap">
<h1 style="font-size:32px;color:#333">Title</h1>
<p>Body text</p>
</div>
</body></html>`)

	root, err := a.AnalyzeHTML(context.Background(), raw)
	if err != nil {
		t.Fatal(err)
	}
	if root.Tag != "body" {
		t.Fatalf("root tag = %q, want body", root.Tag)
	}
	if len(root.Children) != 1 {
		t.Fatalf("expected 1 child, got %d", len(root.Children))
	}

	wrap := root.Children[0]
	if !wrap.HasClass("wrap") {
		t.Errorf("expected class wrap, got %v", wrap.Classes)
	}
	if len(wrap.Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(wrap.Children))
	}

	h1 := wrap.Children[0]
	if h1.Tag != "h1" {
		t.Errorf("first child tag = %q, want h1", h1.Tag)
	}
	if h1.Styles.FontSizePx != 32 {
		t.Errorf("font size = %v, want 32", h1.Styles.FontSizePx)
	}
	if h1.Styles.Color != "#333333" {
		t.Errorf("color = %q, want #333333", h1.Styles.Color)
	}
	if h1.Text != "Title" {
		t.Errorf("text = %q, want Title", h1.Text)
	}
	if h1.Context.Depth != 2 {
		t.Errorf("depth = %d, want 2", h1.Context.Depth)
	}
}

func TestAnalyzeHTML_NilRoot(t *testing.T) {
	a := New(Config{})
	if _, err := a.AnalyzeHTML(context.Background(), nil); err == nil {
		t.Fatal("expected error for empty input")
	}
	if _, err := a.AnalyzeNode(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil node")
	}
}

func TestAnalyzeHTML_ScriptStyleSkipped(t *testing.T) {
	a := New(Config{})
	raw := []byte(`<html><body><script>var x=1</script><style>p{}</style><p>Kept</p></body></html>`)
	root, err := a.AnalyzeHTML(context.Background(), raw)
	if err != nil {
		t.Fatal(err)
	}
	if len(root.Children) != 1 || root.Children[0].Tag != "p" {
		t.Fatalf("expected only <p>, got %+v", root.Children)
	}
}

func TestContextFlags(t *testing.T) {
	a := New(Config{})
	raw := []byte(`<html><body>
<header><nav><a href="/">Home</a></nav></header>
<form><input type="text"></form>
<section class="hero-unit"><h2>Big</h2></section>
<footer><p>fine print</p></footer>
</body></html>`)
	root, err := a.AnalyzeHTML(context.Background(), raw)
	if err != nil {
		t.Fatal(err)
	}

	var link, input, h2, fine *Element
	root.Walk(func(e *Element) {
		switch e.Tag {
		case "a":
			link = e
		case "input":
			input = e
		case "h2":
			h2 = e
		case "p":
			fine = e
		}
	})

	if link == nil || !link.Context.InsideNav || !link.Context.InsideHeader {
		t.Errorf("link context = %+v, want inside nav+header", link.Context)
	}
	if input == nil || !input.Context.InsideForm {
		t.Errorf("input context = %+v, want inside form", input.Context)
	}
	if h2 == nil || !h2.Context.InsideHero {
		t.Errorf("h2 context = %+v, want inside hero", h2.Context)
	}
	if fine == nil || !fine.Context.InsideFooter {
		t.Errorf("p context = %+v, want inside footer", fine.Context)
	}
}

func TestSiblingTags(t *testing.T) {
	a := New(Config{})
	raw := []byte(`<html><body><div><h1>A</h1><p>B</p><img src="x.png"></div></body></html>`)
	root, err := a.AnalyzeHTML(context.Background(), raw)
	if err != nil {
		t.Fatal(err)
	}
	h1 := root.Children[0].Children[0]
	want := []string{"h1", "p", "img"}
	if len(h1.Context.SiblingTags) != len(want) {
		t.Fatalf("sibling tags = %v, want %v", h1.Context.SiblingTags, want)
	}
	for i, tag := range want {
		if h1.Context.SiblingTags[i] != tag {
			t.Errorf("sibling[%d] = %q, want %q", i, h1.Context.SiblingTags[i], tag)
		}
	}
}

func TestAnalyzeSnapshot(t *testing.T) {
	a := New(Config{})
	snap := &Snapshot{
		PageURL: "https://example.com",
		Root: &SnapshotNode{
			Tag: "body",
			Children: []*SnapshotNode{
				{
					Tag:   "button",
					Attrs: map[string]string{"class": "btn btn-primary"},
					Text:  "Click me",
					Computed: map[string]string{
						"background-color": "rgb(0, 123, 255)",
						"font-size":        "1rem",
						"padding":          "8px 16px",
					},
					States: map[string]map[string]string{
						"hover": {"background-color": "rgb(0, 86, 179)"},
					},
					Rect: Rect{X: 10, Y: 20, W: 120, H: 40},
				},
			},
		},
	}

	root, err := a.AnalyzeSnapshot(context.Background(), snap)
	if err != nil {
		t.Fatal(err)
	}
	btn := root.Children[0]
	if btn.Styles.Background != "#007bff" {
		t.Errorf("background = %q, want #007bff", btn.Styles.Background)
	}
	if btn.Styles.FontSizePx != 16 {
		t.Errorf("font size = %v, want 16 (1rem)", btn.Styles.FontSizePx)
	}
	if btn.Styles.Padding.Top != "8px" || btn.Styles.Padding.Left != "16px" {
		t.Errorf("padding = %+v, want 8px/16px", btn.Styles.Padding)
	}
	hover, ok := btn.States[StateHover]
	if !ok || hover.Background != "#0056b3" {
		t.Errorf("hover background = %+v, want #0056b3", btn.States)
	}
	if btn.Rect.W != 120 {
		t.Errorf("rect = %+v, want w=120", btn.Rect)
	}
}

func TestAnalyzeSnapshot_NilRoot(t *testing.T) {
	a := New(Config{})
	if _, err := a.AnalyzeSnapshot(context.Background(), &Snapshot{}); err == nil {
		t.Fatal("expected error for snapshot without root")
	}
}
