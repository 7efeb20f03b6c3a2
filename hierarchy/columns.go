package hierarchy

import (
	"math"
	"strconv"
	"strings"

	"github.com/hazyhaar/domforge/analyze"
	"github.com/hazyhaar/domforge/recognize"
)

type siblingShape int

const (
	siblingsFlow siblingShape = iota
	siblingsColumns
	siblingsAmbiguous
)

// classifySiblings decides whether a parent's children form a column
// set. All siblings carrying width signals → columns; a mix of signaled
// and unsignaled block children → ambiguous (StructuralAmbiguity);
// anything else → plain document flow.
func classifySiblings(children []*recognize.Recognized) siblingShape {
	if len(children) < 2 {
		return siblingsFlow
	}

	signaled := 0
	blocks := 0
	for _, c := range children {
		if c.Result.Type == recognize.TypeColumn || widthSignal(c.Element) > 0 {
			signaled++
		}
		if c.Element.Tag == "div" {
			blocks++
		}
	}

	switch {
	case signaled == len(children):
		return siblingsColumns
	case signaled > 0 && blocks == len(children):
		return siblingsAmbiguous
	default:
		return siblingsFlow
	}
}

// widthSignal extracts a percentage width from grid classes (col-6 on a
// 12-grid → 50) or an explicit percentage width style. Zero when the
// element carries no signal.
func widthSignal(el *analyze.Element) float64 {
	if el == nil {
		return 0
	}

	for _, c := range el.Classes {
		lower := strings.ToLower(c)
		// Bootstrap-style col-6, col-md-4, col-lg-3.
		if strings.HasPrefix(lower, "col-") {
			part := lower[strings.LastIndexByte(lower, '-')+1:]
			if n, err := strconv.Atoi(part); err == nil && n >= 1 && n <= 12 {
				return round2(float64(n) / 12 * 100)
			}
		}
		// Tailwind-style w-1/2, w-1/3.
		if strings.HasPrefix(lower, "w-") && strings.Contains(lower, "/") {
			frac := lower[2:]
			if idx := strings.IndexByte(frac, '/'); idx > 0 {
				num, err1 := strconv.Atoi(frac[:idx])
				den, err2 := strconv.Atoi(frac[idx+1:])
				if err1 == nil && err2 == nil && den > 0 {
					return round2(float64(num) / float64(den) * 100)
				}
			}
		}
	}

	if w := el.Styles.Width; strings.HasSuffix(w, "%") {
		if f, err := strconv.ParseFloat(strings.TrimSuffix(w, "%"), 64); err == nil && f > 0 && f <= 100 {
			return round2(f)
		}
	}

	return 0
}

// sizeColumns fills missing column sizes: signaled widths are kept and
// the remainder is split equally among unsignaled columns.
func sizeColumns(cols []*Node) {
	if len(cols) == 0 {
		return
	}
	var used float64
	unsized := 0
	for _, c := range cols {
		if c.Size > 0 {
			used += c.Size
		} else {
			unsized++
		}
	}
	if unsized > 0 {
		remaining := 100 - used
		if remaining <= 0 {
			remaining = 100
		}
		share := round2(remaining / float64(unsized))
		for _, c := range cols {
			if c.Size == 0 {
				c.Size = share
			}
		}
	}
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
