// Package typography folds scattered per-element font declarations into a
// coherent page-level design system: font usage tables, a snapped type
// scale, per-role text styles and global tokens.
//
// Extract is a pure fold over an analyzed tree — no package state, no
// I/O — so independent pages can be extracted in parallel.
package typography

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/hazyhaar/domforge/analyze"
)

// roleFor maps a tag to the text role it contributes usage to.
func roleFor(el *analyze.Element) string {
	switch el.Tag {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		return el.Tag
	case "button":
		return "button"
	case "a":
		if el.ClassContains("btn") || el.ClassContains("button") {
			return "button"
		}
		return "link"
	case "caption", "figcaption", "small":
		return "caption"
	case "p", "span", "li", "td", "div", "label", "em", "strong":
		return "body"
	}
	return ""
}

// accumulator carries the fold state. Local to one Extract call.
type accumulator struct {
	fonts      map[string]*FontUsage
	sizeCounts map[int]int         // rounded px → count
	roleFirst  map[string]TextStyle // first observed style per role
	baseColor  string
}

// Extract builds the typography System from an analyzed tree.
func Extract(root *analyze.Element) *System {
	acc := &accumulator{
		fonts:      map[string]*FontUsage{},
		sizeCounts: map[int]int{},
		roleFirst:  map[string]TextStyle{},
	}
	if root != nil {
		root.Walk(acc.observe)
	}

	sys := &System{
		Fonts: acc.sortedFonts(),
		Roles: acc.roleFirst,
	}
	sys.Scale = deriveScale(acc.sizeCounts)
	sys.Global = acc.globals(sys.Scale.BasePx)
	sys.Stats = Stats{
		DistinctFonts: len(sys.Fonts),
		ScaleQuality:  scaleQuality(acc.sizeCounts, sys.Scale, len(sys.Fonts)),
	}
	return sys
}

// observe records one element's typography contribution.
func (acc *accumulator) observe(el *analyze.Element) {
	s := el.Styles
	role := roleFor(el)

	if s.FontFamily != "" {
		fam := s.FontFamily
		u, ok := acc.fonts[fam]
		if !ok {
			u = &FontUsage{Family: fam, Weights: map[string]int{}, Roles: map[string]int{}}
			acc.fonts[fam] = u
		}
		u.Count++
		if s.FontWeight != "" {
			u.Weights[s.FontWeight]++
		}
		if role != "" {
			u.Roles[role]++
		}
	}

	if s.FontSizePx > 0 {
		acc.sizeCounts[int(math.Round(s.FontSizePx))]++
	}

	// Headings take the FIRST observed instance per tag as representative.
	// Known simplification carried over from the original behavior; the
	// role is representative, not averaged.
	if role != "" {
		if _, seen := acc.roleFirst[role]; !seen && (s.FontSizePx > 0 || s.FontFamily != "" || s.Color != "") {
			acc.roleFirst[role] = TextStyle{
				Family:     s.FontFamily,
				SizePx:     s.FontSizePx,
				Weight:     s.FontWeight,
				LineHeight: s.LineHeight,
				Color:      s.Color,
			}
		}
	}

	if acc.baseColor == "" && role == "body" && s.Color != "" {
		acc.baseColor = s.Color
	}
}

// sortedFonts returns usage entries ordered by count desc, family asc —
// a deterministic export order regardless of map iteration.
func (acc *accumulator) sortedFonts() []FontUsage {
	out := make([]FontUsage, 0, len(acc.fonts))
	for _, u := range acc.fonts {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Family < out[j].Family
	})
	return out
}

func (acc *accumulator) globals(basePx float64) GlobalSettings {
	g := GlobalSettings{BaseSizePx: basePx, BaseColor: acc.baseColor}
	if body, ok := acc.roleFirst["body"]; ok {
		g.BaseFamily = body.Family
		g.BaseLineHeight = body.LineHeight
	}
	if g.BaseFamily == "" && len(acc.fonts) > 0 {
		g.BaseFamily = acc.sortedFonts()[0].Family
	}
	return g
}

// scaleQuality rates how well observed sizes fit the snapped scale.
func scaleQuality(sizeCounts map[int]int, scale TypeScale, distinctFonts int) string {
	if len(sizeCounts) == 0 {
		return "poor"
	}
	var maxDev float64
	for px := range sizeCounts {
		if float64(px) <= scale.BasePx {
			continue
		}
		// Distance to the nearest scale step, as a ratio error.
		step := scale.BasePx
		best := math.Inf(1)
		for step < 200 {
			step *= scale.Ratio
			if d := math.Abs(float64(px)-step) / step; d < best {
				best = d
			}
		}
		if best > maxDev {
			maxDev = best
		}
	}
	switch {
	case maxDev < 0.03 && distinctFonts <= 3:
		return "good"
	case maxDev < 0.10:
		return "fair"
	default:
		return "poor"
	}
}

// ElementorGlobalFonts derives the Elementor global-fonts export list:
// one entry per distinct family, titled by its dominant role.
func ElementorGlobalFonts(sys *System) []GlobalFont {
	out := make([]GlobalFont, 0, len(sys.Fonts))
	for i, u := range sys.Fonts {
		title := "Text"
		if i == 0 {
			title = "Primary"
		} else if i == 1 {
			title = "Secondary"
		}
		weight := dominantWeight(u.Weights)
		out = append(out, GlobalFont{
			ID:     fmt.Sprintf("font_%d", i+1),
			Title:  title,
			Family: u.Family,
			Weight: weight,
		})
	}
	return out
}

func dominantWeight(weights map[string]int) string {
	best, bestCount := "", -1
	keys := make([]string, 0, len(weights))
	for w := range weights {
		keys = append(keys, w)
	}
	sort.Strings(keys)
	for _, w := range keys {
		if weights[w] > bestCount {
			best, bestCount = w, weights[w]
		}
	}
	return best
}

// RemString formats a px size as a rem value against the 16px base.
func RemString(px float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.3f", px/16), "0"), ".") + "rem"
}
