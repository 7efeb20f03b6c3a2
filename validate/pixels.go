package validate

import (
	"bytes"
	"fmt"
	"image/color"
	"image/png"
)

// comparePNG computes pixel similarity between two screenshots.
// Returns similarity in [0,1] and the difference percentage. Images of
// different dimensions are compared over the shared region, with the
// uncovered area counted as difference.
func comparePNG(a, b []byte) (similarity, diffPct float64, err error) {
	imgA, err := png.Decode(bytes.NewReader(a))
	if err != nil {
		return 0, 0, fmt.Errorf("decode first image: %w", err)
	}
	imgB, err := png.Decode(bytes.NewReader(b))
	if err != nil {
		return 0, 0, fmt.Errorf("decode second image: %w", err)
	}

	ba, bb := imgA.Bounds(), imgB.Bounds()
	w := min(ba.Dx(), bb.Dx())
	h := min(ba.Dy(), bb.Dy())
	if w == 0 || h == 0 {
		return 0, 100, nil
	}

	totalW := max(ba.Dx(), bb.Dx())
	totalH := max(ba.Dy(), bb.Dy())
	total := totalW * totalH

	same := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if closeEnough(imgA.At(ba.Min.X+x, ba.Min.Y+y), imgB.At(bb.Min.X+x, bb.Min.Y+y)) {
				same++
			}
		}
	}

	similarity = float64(same) / float64(total)
	diffPct = (1 - similarity) * 100
	return similarity, diffPct, nil
}

// closeEnough tolerates small anti-aliasing differences per channel.
func closeEnough(a, b color.Color) bool {
	ar, ag, ab2, _ := a.RGBA()
	br, bg, bb, _ := b.RGBA()
	const tolerance = 0x0800 // ~3% per 16-bit channel
	return absDiff(ar, br) <= tolerance &&
		absDiff(ag, bg) <= tolerance &&
		absDiff(ab2, bb) <= tolerance
}

func absDiff(a, b uint32) uint32 {
	if a > b {
		return a - b
	}
	return b - a
}
