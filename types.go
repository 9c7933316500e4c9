package main

import "image"

// Color is an RGB triple with 0-255 channels. The same representation is
// used for sensing HUD pixels and for driving the lights, so it stays
// float64 to keep the distance math exact.
type Color [3]float64

// Coord is a point in DS screen coordinates (256x192 per panel). Probe
// coordinates in the config are expressed in this space regardless of how
// large the emulator window actually is.
type Coord [2]float64

// State is the classification result for one frame. Empty strings mean
// "not detected"; Weapon is only ever non-empty when Hunter is.
type State struct {
	Hunter string
	Weapon string
}

// FrameSource produces one composited frame of the emulator display per
// call.
type FrameSource interface {
	Grab() (image.Image, error)
}

// ColorSetter pushes a solid color to the selected RGB device.
type ColorSetter interface {
	SetColor(c Color) error
}

func (c Color) rgb8() (r, g, b uint8) {
	return clamp8(c[0]), clamp8(c[1]), clamp8(c[2])
}

func clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
