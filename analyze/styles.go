package analyze

import (
	"fmt"
	"strconv"
	"strings"
)

// parseDeclarations splits a CSS declaration block ("color: red; margin: 0")
// into a property → value map. Property names are lowercased; values keep
// their case (colors are normalized later). Malformed declarations are
// skipped rather than rejected.
func parseDeclarations(block string) map[string]string {
	out := make(map[string]string)
	for _, decl := range strings.Split(block, ";") {
		idx := strings.IndexByte(decl, ':')
		if idx <= 0 {
			continue
		}
		prop := strings.ToLower(strings.TrimSpace(decl[:idx]))
		val := strings.TrimSpace(decl[idx+1:])
		if prop == "" || val == "" {
			continue
		}
		out[prop] = val
	}
	return out
}

// normalizeStyles folds a property map into the typed Styles record.
// Every declaration also lands in Props so custom-CSS fallbacks can
// reproduce the full original rule.
func normalizeStyles(props map[string]string) Styles {
	if len(props) == 0 {
		return Styles{}
	}

	s := Styles{Props: make(map[string]string, len(props))}
	for k, v := range props {
		s.Props[k] = v
	}

	s.Display = props["display"]
	s.Position = props["position"]
	s.Width = props["width"]
	s.Height = props["height"]
	s.Margin = parseEdges(props, "margin")
	s.Padding = parseEdges(props, "padding")

	s.FontFamily = FirstFontFamily(props["font-family"])
	if v, ok := props["font-size"]; ok {
		if px, err := SizeToPx(v); err == nil {
			s.FontSizePx = px
		}
	}
	s.FontWeight = props["font-weight"]
	s.LineHeight = props["line-height"]
	s.LetterSpacing = props["letter-spacing"]
	s.TextAlign = props["text-align"]
	s.TextTransform = props["text-transform"]

	s.Color = NormalizeColor(props["color"])
	if bg, ok := props["background-color"]; ok {
		s.Background = NormalizeColor(bg)
	} else if bg, ok := props["background"]; ok && !strings.Contains(bg, "url(") {
		// Plain-color background shorthand only; images stay in Props.
		s.Background = NormalizeColor(firstToken(bg))
	}
	if img, ok := props["background-image"]; ok {
		s.BackgroundImage = extractURL(img)
	} else if bg, ok := props["background"]; ok && strings.Contains(bg, "url(") {
		s.BackgroundImage = extractURL(bg)
	}

	s.BorderWidth = props["border-width"]
	s.BorderColor = NormalizeColor(props["border-color"])
	if b, ok := props["border"]; ok {
		w, c := splitBorderShorthand(b)
		if s.BorderWidth == "" {
			s.BorderWidth = w
		}
		if s.BorderColor == "" {
			s.BorderColor = c
		}
	}
	s.BorderRadius = props["border-radius"]
	s.BoxShadow = props["box-shadow"]
	s.Opacity = props["opacity"]

	s.FlexDirection = props["flex-direction"]
	s.JustifyContent = props["justify-content"]
	s.AlignItems = props["align-items"]
	s.Gap = props["gap"]
	s.GridColumns = props["grid-template-columns"]

	return s
}

// parseEdges expands a box shorthand ("margin: 10px 5px") plus any
// per-side overrides into an Edges record, CSS resolution order.
func parseEdges(props map[string]string, name string) Edges {
	var e Edges
	if v, ok := props[name]; ok {
		parts := strings.Fields(v)
		switch len(parts) {
		case 1:
			e = Edges{parts[0], parts[0], parts[0], parts[0]}
		case 2:
			e = Edges{parts[0], parts[1], parts[0], parts[1]}
		case 3:
			e = Edges{parts[0], parts[1], parts[2], parts[1]}
		case 4:
			e = Edges{parts[0], parts[1], parts[2], parts[3]}
		}
	}
	if v, ok := props[name+"-top"]; ok {
		e.Top = v
	}
	if v, ok := props[name+"-right"]; ok {
		e.Right = v
	}
	if v, ok := props[name+"-bottom"]; ok {
		e.Bottom = v
	}
	if v, ok := props[name+"-left"]; ok {
		e.Left = v
	}
	return e
}

// SizeToPx converts a CSS length to pixels. px passes through; rem and em
// convert against a 16px base; bare numbers are treated as px.
func SizeToPx(v string) (float64, error) {
	v = strings.TrimSpace(strings.ToLower(v))
	switch {
	case strings.HasSuffix(v, "px"):
		return strconv.ParseFloat(strings.TrimSuffix(v, "px"), 64)
	case strings.HasSuffix(v, "rem"):
		f, err := strconv.ParseFloat(strings.TrimSuffix(v, "rem"), 64)
		return f * 16, err
	case strings.HasSuffix(v, "em"):
		f, err := strconv.ParseFloat(strings.TrimSuffix(v, "em"), 64)
		return f * 16, err
	case strings.HasSuffix(v, "pt"):
		f, err := strconv.ParseFloat(strings.TrimSuffix(v, "pt"), 64)
		return f * 96 / 72, err
	default:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("analyze: unsupported length %q", v)
		}
		return f, nil
	}
}

// FirstFontFamily strips quotes and returns the first family of a
// comma-separated font stack.
func FirstFontFamily(v string) string {
	if v == "" {
		return ""
	}
	first := v
	if idx := strings.IndexByte(v, ','); idx >= 0 {
		first = v[:idx]
	}
	return strings.Trim(strings.TrimSpace(first), `"'`)
}

var namedColors = map[string]string{
	"black":       "#000000",
	"white":       "#ffffff",
	"red":         "#ff0000",
	"green":       "#008000",
	"blue":        "#0000ff",
	"gray":        "#808080",
	"grey":        "#808080",
	"transparent": "transparent",
}

// NormalizeColor normalizes hex, rgb()/rgba() and common named colors to
// lowercase #rrggbb (or #rrggbbaa). Values it cannot parse pass through
// unchanged so gradients and vars survive to the custom-CSS fallback.
func NormalizeColor(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	lower := strings.ToLower(v)

	if named, ok := namedColors[lower]; ok {
		return named
	}

	if strings.HasPrefix(lower, "#") {
		hex := lower[1:]
		// Expand #abc / #abcd shorthand.
		if len(hex) == 3 || len(hex) == 4 {
			var sb strings.Builder
			sb.WriteByte('#')
			for i := 0; i < len(hex); i++ {
				sb.WriteByte(hex[i])
				sb.WriteByte(hex[i])
			}
			return sb.String()
		}
		if len(hex) == 6 || len(hex) == 8 {
			return lower
		}
		return v
	}

	if strings.HasPrefix(lower, "rgb(") || strings.HasPrefix(lower, "rgba(") {
		inner := lower[strings.IndexByte(lower, '(')+1:]
		inner = strings.TrimSuffix(inner, ")")
		inner = strings.ReplaceAll(inner, "/", ",")
		parts := strings.Split(inner, ",")
		if len(parts) < 3 {
			return v
		}
		var ch [3]int
		for i := 0; i < 3; i++ {
			n, err := strconv.Atoi(strings.TrimSpace(parts[i]))
			if err != nil || n < 0 || n > 255 {
				return v
			}
			ch[i] = n
		}
		if len(parts) >= 4 {
			a, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
			if err == nil && a < 1 {
				return fmt.Sprintf("#%02x%02x%02x%02x", ch[0], ch[1], ch[2], int(a*255+0.5))
			}
		}
		return fmt.Sprintf("#%02x%02x%02x", ch[0], ch[1], ch[2])
	}

	return v
}

// extractURL pulls the url(...) target out of a background-image value.
func extractURL(v string) string {
	idx := strings.Index(v, "url(")
	if idx < 0 {
		return ""
	}
	rest := v[idx+4:]
	end := strings.IndexByte(rest, ')')
	if end < 0 {
		return ""
	}
	return strings.Trim(rest[:end], `"' `)
}

func splitBorderShorthand(v string) (width, color string) {
	for _, tok := range strings.Fields(v) {
		lower := strings.ToLower(tok)
		switch {
		case strings.HasSuffix(lower, "px") || strings.HasSuffix(lower, "em"):
			width = tok
		case lower == "solid" || lower == "dashed" || lower == "dotted" || lower == "none":
			// style token, not carried in the typed record
		default:
			if c := NormalizeColor(tok); strings.HasPrefix(c, "#") || c == "transparent" {
				color = c
			}
		}
	}
	return width, color
}

func firstToken(v string) string {
	if idx := strings.IndexByte(strings.TrimSpace(v), ' '); idx > 0 {
		return strings.TrimSpace(v)[:idx]
	}
	return strings.TrimSpace(v)
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
