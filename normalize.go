package main

import (
	"image"
	"math"

	"github.com/disintegration/gift"
)

// MelonPrimeDS composites both DS screens into a 3x2 screen area: the
// magnified top screen on the left, the unscaled top and bottom screens
// stacked on the right. All of it scales uniformly and gets letterboxed
// inside the window.
const (
	dsScreenWidth  = 256
	dsScreenHeight = 192
	emuDispWidth   = dsScreenWidth * 3
	emuDispHeight  = dsScreenHeight * 2
)

// normalizeFrame cuts the HUD-bearing bottom screen out of a raw capture.
// The menubar band is dropped first, then the uniform scale factor and the
// letterbox margins are derived from the remaining size. With wholeRender
// set the whole 3x2 render is returned instead, for diagnostics.
//
// The result is always a fresh image; the input frame is never aliased.
func normalizeFrame(img image.Image, wholeRender bool, menubarHeight int) image.Image {
	b := img.Bounds()
	top := b.Min.Y + menubarHeight
	if top > b.Max.Y {
		top = b.Max.Y
	}
	w := float64(b.Dx())
	h := float64(b.Max.Y - top)

	// The limiting dimension sets the scale, the other one letterboxes.
	factor := math.Min(w/emuDispWidth, h/emuDispHeight)
	renderW := emuDispWidth * factor
	renderH := emuDispHeight * factor
	marginX := math.Max(w-renderW, 0) / 2
	marginY := math.Max(h-renderH, 0) / 2

	x0 := marginX + factor*dsScreenWidth*2
	y0 := marginY
	if !wholeRender {
		y0 += factor * dsScreenHeight
	}

	crop := image.Rect(
		b.Min.X+int(x0),
		top+int(y0),
		b.Min.X+int(w-marginX),
		top+int(h-marginY),
	)

	g := gift.New(gift.Crop(crop))
	dst := image.NewRGBA(g.Bounds(img.Bounds()))
	g.Draw(dst, img)
	return dst
}
