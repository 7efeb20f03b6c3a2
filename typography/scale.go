package typography

import (
	"math"
	"sort"
)

// canonicalRatios are the scale ratios presented to users. The mean
// observed ratio snaps to the nearest of these instead of surfacing an
// arbitrary irrational value.
var canonicalRatios = []float64{1.125, 1.2, 1.25, 1.333, 1.414, 1.5, 1.618}

// sizeNames, ordered by scale step relative to base (index 2).
var sizeNames = []string{"xs", "sm", "base", "lg", "xl", "2xl", "3xl", "4xl", "5xl", "6xl"}

// deriveScale picks the base size and scale ratio from rounded-px usage
// counts, then names the observed size bands.
func deriveScale(sizeCounts map[int]int) TypeScale {
	base := pickBase(sizeCounts)
	ratio := pickRatio(sizeCounts, base)

	scale := TypeScale{BasePx: base, Ratio: ratio}

	sizes := distinctSizes(sizeCounts)
	for _, px := range sizes {
		scale.Sizes = append(scale.Sizes, ScaleSize{
			Name: nameFor(float64(px), base, ratio),
			Px:   float64(px),
			Rem:  math.Round(float64(px)/16*1000) / 1000,
		})
	}
	return scale
}

// pickBase returns the most-used size in the [14,18]px body band,
// defaulting to 16 when nothing in the band was observed. Ties go to the
// smaller size for determinism.
func pickBase(sizeCounts map[int]int) float64 {
	best, bestCount := 0, 0
	for px := 14; px <= 18; px++ {
		if c := sizeCounts[px]; c > bestCount {
			best, bestCount = px, c
		}
	}
	if best == 0 {
		return 16
	}
	return float64(best)
}

// pickRatio averages the consecutive ratios of distinct sizes above base
// and snaps to the nearest canonical ratio. 1.25 when nothing above base
// was observed.
func pickRatio(sizeCounts map[int]int, base float64) float64 {
	var above []float64
	above = append(above, base)
	for _, px := range distinctSizes(sizeCounts) {
		if float64(px) > base {
			above = append(above, float64(px))
		}
	}
	if len(above) < 2 {
		return 1.25
	}

	var sum float64
	n := 0
	for i := 1; i < len(above); i++ {
		sum += above[i] / above[i-1]
		n++
	}
	return snapRatio(sum / float64(n))
}

func snapRatio(observed float64) float64 {
	best, bestDist := canonicalRatios[0], math.Inf(1)
	for _, r := range canonicalRatios {
		if d := math.Abs(observed - r); d < bestDist {
			best, bestDist = r, d
		}
	}
	return best
}

// nameFor buckets a size by its ratio-to-base exponent.
func nameFor(px, base, ratio float64) string {
	if px == base {
		return "base"
	}
	exp := math.Log(px/base) / math.Log(ratio)
	bucket := int(math.Round(exp)) + 2 // base sits at index 2
	if bucket < 0 {
		bucket = 0
	}
	if bucket >= len(sizeNames) {
		bucket = len(sizeNames) - 1
	}
	return sizeNames[bucket]
}

func distinctSizes(sizeCounts map[int]int) []int {
	out := make([]int, 0, len(sizeCounts))
	for px := range sizeCounts {
		out = append(out, px)
	}
	sort.Ints(out)
	return out
}
