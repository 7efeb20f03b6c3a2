package analyze

import "testing"

func TestSizeToPx(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"16px", 16},
		{"1rem", 16},
		{"1.5rem", 24},
		{"2em", 32},
		{"12pt", 16},
		{"14", 14},
	}
	for _, tt := range tests {
		got, err := SizeToPx(tt.in)
		if err != nil {
			t.Errorf("SizeToPx(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("SizeToPx(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := SizeToPx("auto"); err == nil {
		t.Error("expected error for non-numeric length")
	}
}

func TestNormalizeColor(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"#FFF", "#ffffff"},
		{"#ff0000", "#ff0000"},
		{"rgb(0, 123, 255)", "#007bff"},
		{"rgba(0, 0, 0, 0.5)", "#00000080"},
		{"rgba(255, 255, 255, 1)", "#ffffff"},
		{"white", "#ffffff"},
		{"transparent", "transparent"},
		{"linear-gradient(red, blue)", "linear-gradient(red, blue)"},
		{"var(--brand)", "var(--brand)"},
	}
	for _, tt := range tests {
		if got := NormalizeColor(tt.in); got != tt.want {
			t.Errorf("NormalizeColor(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFirstFontFamily(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`"Helvetica Neue", Arial, sans-serif`, "Helvetica Neue"},
		{`'Open Sans', sans-serif`, "Open Sans"},
		{"Georgia", "Georgia"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := FirstFontFamily(tt.in); got != tt.want {
			t.Errorf("FirstFontFamily(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseEdges(t *testing.T) {
	props := parseDeclarations("margin: 10px 20px; margin-bottom: 5px; padding: 1px 2px 3px 4px")
	m := parseEdges(props, "margin")
	if m.Top != "10px" || m.Right != "20px" || m.Bottom != "5px" || m.Left != "20px" {
		t.Errorf("margin = %+v", m)
	}
	p := parseEdges(props, "padding")
	if p.Top != "1px" || p.Right != "2px" || p.Bottom != "3px" || p.Left != "4px" {
		t.Errorf("padding = %+v", p)
	}
}

func TestNormalizeStyles_BackgroundImage(t *testing.T) {
	s := normalizeStyles(parseDeclarations(`background: url("https://cdn.example.com/a.jpg") center / cover`))
	if s.BackgroundImage != "https://cdn.example.com/a.jpg" {
		t.Errorf("background image = %q", s.BackgroundImage)
	}
	if s.Background != "" {
		t.Errorf("background color should be empty for image shorthand, got %q", s.Background)
	}
}

func TestNormalizeStyles_BorderShorthand(t *testing.T) {
	s := normalizeStyles(parseDeclarations("border: 1px solid #ccc"))
	if s.BorderWidth != "1px" {
		t.Errorf("border width = %q, want 1px", s.BorderWidth)
	}
	if s.BorderColor != "#cccccc" {
		t.Errorf("border color = %q, want #cccccc", s.BorderColor)
	}
}

func TestNormalizeStyles_PropsPreserved(t *testing.T) {
	// WHAT: Every declaration survives in Props, even unrecognized ones.
	// WHY: The custom-CSS fallback must reproduce the full original rule.
	s := normalizeStyles(parseDeclarations("color: red; backdrop-filter: blur(4px)"))
	if s.Props["backdrop-filter"] != "blur(4px)" {
		t.Errorf("Props = %v", s.Props)
	}
}
