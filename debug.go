package main

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

var (
	probeHitColor  = color.RGBA{128, 255, 128, 0}
	probeMissColor = color.RGBA{255, 128, 128, 0}
	labelColor     = color.RGBA{255, 255, 0, 0}
)

// debugWindow shows what the classifier sees: every probe as a hit/miss
// dot on the normalized frame, plus the resulting state. Useful when
// tuning probe coordinates for a new emulator layout.
type debugWindow struct {
	window      *gocv.Window
	wholeRender bool
}

func newDebugWindow(wholeRender bool) *debugWindow {
	return &debugWindow{
		window:      gocv.NewWindow("mphrgb debug"),
		wholeRender: wholeRender,
	}
}

func (d *debugWindow) close() {
	d.window.Close()
}

// show returns true when the user pressed Esc in the window.
func (d *debugWindow) show(raw, hud image.Image, cfg *Config, hunter, weapon string) bool {
	view := hud
	if d.wholeRender {
		view = normalizeFrame(raw, true, cfg.EmuMenubarHeight)
	}
	mat, err := gocv.ImageToMatRGB(view)
	if err != nil {
		return false
	}
	defer mat.Close()

	if !d.wholeRender {
		drawProbes(&mat, hud, cfg, hunter)
	}
	label := fmt.Sprintf("hunter %s / weapon %s", noneOr(hunter), noneOr(weapon))
	gocv.PutText(&mat, label, image.Pt(4, 14), gocv.FontHersheyPlain, 1, labelColor, 2)

	d.window.IMShow(mat)
	return d.window.WaitKey(5) == 27
}

func drawProbes(mat *gocv.Mat, hud image.Image, cfg *Config, hunter string) {
	bounds := hud.Bounds()
	mark := func(coords Coord, hit bool) {
		p := probePoint(bounds, coords, cfg.Scale[0]).Sub(bounds.Min)
		col := probeMissColor
		if hit {
			col = probeHitColor
		}
		gocv.Circle(mat, p, 3, col, 1)
	}

	for _, name := range cfg.hunterOrder {
		spec := cfg.HunterSpecs[name]
		mark(spec.IsHudCoords, senseColor(hud, spec.IsHudCoords, spec.IsHudColor, cfg))
	}
	if hunter == "" {
		return
	}
	spec := cfg.HunterSpecs[hunter]
	for _, weapon := range spec.mainWeaponOrder {
		coords := spec.MainWeaponCoords[weapon]
		mark(coords, senseColor(hud, coords, spec.MainWeaponSenseColor, cfg))
	}
	for _, weapon := range spec.thirdWeaponOrder {
		coords := spec.ThirdWeaponCoords[weapon]
		mark(coords, senseColor(hud, coords, spec.ThirdWeaponSenseColors[weapon], cfg))
	}
}
