package main

import (
	"image"
	"math"
)

// distance returns the Euclidean distance between two vectors. A nil or
// empty second vector is treated as the origin. Mismatched lengths are
// compared over the shorter vector.
func distance(a, b []float64) float64 {
	if len(b) == 0 {
		b = make([]float64, len(a))
	}
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		d := b[i] - a[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// probePoint maps a DS-space coordinate onto the actual pixel grid of a
// frame. The horizontal scale factor is reused for both axes; the DS
// aspect ratio is preserved by the normalizer so a separate vertical
// factor would only differ by crop rounding. The result is clamped to the
// frame so slightly-off probe coordinates never index outside it.
func probePoint(bounds image.Rectangle, coords Coord, scaleWidth float64) image.Point {
	factor := float64(bounds.Dx()) / scaleWidth
	return image.Point{
		X: bounds.Min.X + clampIndex(coords[0]*factor, bounds.Dx()),
		Y: bounds.Min.Y + clampIndex(coords[1]*factor, bounds.Dy()),
	}
}

func clampIndex(v float64, size int) int {
	i := int(v + 0.5)
	if i < 0 {
		return 0
	}
	if i > size-1 {
		return size - 1
	}
	return i
}

// senseColor reports whether the pixel at the given DS-space coordinate is
// within tolerance of the wanted color. The comparison is strict: a
// distance exactly equal to the tolerance does not match.
func senseColor(img image.Image, coords Coord, want Color, cfg *Config) bool {
	b := img.Bounds()
	if b.Dx() < 1 || b.Dy() < 1 {
		return false
	}
	p := probePoint(b, coords, cfg.Scale[0])
	r, g, bl, _ := img.At(p.X, p.Y).RGBA()
	got := []float64{float64(r >> 8), float64(g >> 8), float64(bl >> 8)}
	return distance(got, want[:]) < cfg.ColorTolerance
}
